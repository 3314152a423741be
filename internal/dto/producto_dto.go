package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	CategoriaID Entero          `json:"categoria_id" validate:"required,gt=0"`
	Nombre      string          `json:"nombre"       validate:"notblank,max=150"`
	Descripcion string          `json:"descripcion"`
	Precio      DecimalFlexible `json:"precio"       validate:"gte=0"`
	Stock       Entero          `json:"stock"        validate:"gte=0"`
	ImagenURL   string          `json:"imagen_url"`
	SKU         *string         `json:"sku"          validate:"omitempty,max=64"`
	Activo      *BoolFlexible   `json:"activo"`
}

// ActualizarProductoRequest replaces every mutable column of the product.
type ActualizarProductoRequest struct {
	ID          Entero          `json:"id"           validate:"required,gt=0"`
	CategoriaID Entero          `json:"categoria_id" validate:"required,gt=0"`
	Nombre      string          `json:"nombre"       validate:"notblank,max=150"`
	Descripcion string          `json:"descripcion"`
	Precio      DecimalFlexible `json:"precio"       validate:"gte=0"`
	Stock       Entero          `json:"stock"        validate:"gte=0"`
	ImagenURL   string          `json:"imagen_url"`
	SKU         *string         `json:"sku"          validate:"omitempty,max=64"`
	Activo      *BoolFlexible   `json:"activo"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

// ProductoFilter narrows the product listing. A nil CategoriaID lists everything.
type ProductoFilter struct {
	CategoriaID *int64
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID                 int64            `json:"id"`
	Nombre             string           `json:"nombre"`
	Descripcion        string           `json:"descripcion"`
	Precio             decimal.Decimal  `json:"precio"`
	Stock              int              `json:"stock"`
	ImagenURL          string           `json:"imagen_url"`
	SKU                *string          `json:"sku"`
	Activo             bool             `json:"activo"`
	FechaCreacion      time.Time        `json:"fecha_creacion"`
	FechaActualizacion time.Time        `json:"fecha_actualizacion"`
	Categoria          CategoriaResumen `json:"categoria"`
}
