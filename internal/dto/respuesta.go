package dto

import "github.com/shopspring/decimal"

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Respuesta is the success envelope shared by every endpoint.
// Data is an object for single reads and an array for listings; writes carry
// Message and, for creates, the generated ID.
type Respuesta struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	ID      *int64 `json:"id,omitempty"`
}

// EliminarRequest is the body of both delete endpoints.
type EliminarRequest struct {
	ID Entero `json:"id" validate:"required,gt=0"`
}
