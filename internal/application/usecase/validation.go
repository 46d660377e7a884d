package usecase

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Reportar los campos con su nombre JSON (name, sku...) en lugar del nombre Go.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct valida los tags `validate` del DTO y traduce el primer fallo a ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Field()
	if fe.Tag() == "required" {
		switch field {
		case "name":
			return domain.NewValidationError(domain.KindMissingName, field, "el nombre es requerido")
		case "sku":
			return domain.NewValidationError(domain.KindMissingSKU, field, "el SKU es requerido")
		}
	}
	if fe.Tag() == "max" {
		return domain.NewValidationError(domain.KindInvalidField, field, "supera la longitud máxima de "+fe.Param())
	}
	return domain.NewValidationError(domain.KindInvalidField, field, "valor inválido ("+fe.Tag()+")")
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// normalizePage aplica los límites de paginación usados en los listados.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
