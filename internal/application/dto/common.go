package dto

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Kind detalla el tipo de validación fallida;
// Available/Requested acompañan a INSUFFICIENT_STOCK.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Kind      string `json:"kind,omitempty"`
	Field     string `json:"field,omitempty"`
	Available *int64 `json:"available,omitempty"`
	Requested *int64 `json:"requested,omitempty"`
}
