package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación.
type CreateLocationRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address"`
	Type    string `json:"type" validate:"max=50"`
}

// UpdateLocationRequest entrada para actualizar una ubicación.
type UpdateLocationRequest struct {
	Name    *string `json:"name" validate:"omitnil,required,max=100"`
	Address *string `json:"address"`
	Type    *string `json:"type" validate:"omitnil,max=50"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationListResponse lista paginada de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
