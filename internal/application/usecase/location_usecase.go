package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para ubicaciones.
type LocationUseCase struct {
	repo     repository.LocationRepository
	txRunner repository.TxRunner
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, txRunner repository.TxRunner) *LocationUseCase {
	return &LocationUseCase{repo: repo, txRunner: txRunner}
}

// Create crea una nueva ubicación con nombre único.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Type = strings.TrimSpace(in.Type)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = entity.DefaultLocationType
	}
	if err := uc.checkUnique(ctx, "", in.Name); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	location := &entity.Location{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		Type:      in.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, &domain.NotFoundError{Entity: "location", ID: id}
	}
	return toLocationResponse(location), nil
}

// Update actualiza una ubicación.
func (uc *LocationUseCase) Update(ctx context.Context, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	trimPtr(in.Name)
	trimPtr(in.Address)
	trimPtr(in.Type)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, &domain.NotFoundError{Entity: "location", ID: id}
	}
	if in.Name != nil {
		location.Name = *in.Name
	}
	if in.Address != nil {
		location.Address = *in.Address
	}
	if in.Type != nil {
		location.Type = *in.Type
		if location.Type == "" {
			location.Type = entity.DefaultLocationType
		}
	}
	if err := uc.checkUnique(ctx, location.ID, location.Name); err != nil {
		return nil, err
	}
	location.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// List lista ubicaciones con paginación.
func (uc *LocationUseCase) List(ctx context.Context, limit, offset int) (*dto.LocationListResponse, error) {
	limit, offset = normalizePage(limit, offset)
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: int(total)},
	}, nil
}

// Delete elimina una ubicación que no aparece como origen ni destino de ningún movimiento.
func (uc *LocationUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		location, err := tx.Locations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if location == nil {
			return &domain.NotFoundError{Entity: "location", ID: id}
		}
		refs, err := tx.Movements.CountByLocation(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &domain.ReferentialIntegrityError{Entity: "location", ID: id, References: refs}
		}
		return tx.Locations.Delete(ctx, id)
	})
}

func (uc *LocationUseCase) checkUnique(ctx context.Context, selfID, name string) error {
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.NewValidationError(domain.KindDuplicateName, "name", "ya existe una ubicación con este nombre")
	}
	return nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		Type:      l.Type,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
