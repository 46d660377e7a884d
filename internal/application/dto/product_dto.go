package dto

import "time"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	SKU           string `json:"sku" validate:"required,max=50"`
	Description   string `json:"description"`
	UnitOfMeasure string `json:"unit_of_measure" validate:"max=20"`
}

// UpdateProductRequest entrada para actualizar un producto (campos nil no cambian).
type UpdateProductRequest struct {
	Name          *string `json:"name" validate:"omitnil,required,max=100"`
	SKU           *string `json:"sku" validate:"omitnil,required,max=50"`
	Description   *string `json:"description"`
	UnitOfMeasure *string `json:"unit_of_measure" validate:"omitnil,max=20"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku"`
	Description   string    `json:"description"`
	UnitOfMeasure string    `json:"unit_of_measure"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
