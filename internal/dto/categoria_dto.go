package dto

import "time"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Nombre      string        `json:"nombre"      validate:"notblank,max=100"`
	Descripcion string        `json:"descripcion"`
	Icono       string        `json:"icono"       validate:"max=100"`
	Color       string        `json:"color"       validate:"omitempty,hexcolor"`
	Activo      *BoolFlexible `json:"activo"`
}

// ActualizarCategoriaRequest replaces every mutable column of the category.
type ActualizarCategoriaRequest struct {
	ID          Entero        `json:"id"          validate:"required,gt=0"`
	Nombre      string        `json:"nombre"      validate:"notblank,max=100"`
	Descripcion string        `json:"descripcion"`
	Icono       string        `json:"icono"       validate:"max=100"`
	Color       string        `json:"color"       validate:"omitempty,hexcolor"`
	Activo      *BoolFlexible `json:"activo"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID                 int64     `json:"id"`
	Nombre             string    `json:"nombre"`
	Descripcion        string    `json:"descripcion"`
	Icono              string    `json:"icono"`
	Color              string    `json:"color"`
	Activo             bool      `json:"activo"`
	TotalProductos     int64     `json:"total_productos"`
	FechaCreacion      time.Time `json:"fecha_creacion"`
	FechaActualizacion time.Time `json:"fecha_actualizacion"`
}

// CategoriaResumen is the category summary embedded in every product read.
type CategoriaResumen struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Color  string `json:"color"`
	Icono  string `json:"icono"`
}
