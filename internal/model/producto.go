package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto is a row of the productos table. SKU is nullable; every other
// text column defaults to the empty string.
type Producto struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement"`
	CategoriaID        int64           `gorm:"index;not null"`
	Nombre             string          `gorm:"size:150;not null"`
	Descripcion        string          `gorm:"not null"`
	Precio             decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Stock              int             `gorm:"not null"`
	ImagenURL          string          `gorm:"column:imagen_url;not null"`
	SKU                *string         `gorm:"column:sku;size:64;uniqueIndex"`
	Activo             bool            `gorm:"not null"`
	FechaCreacion      time.Time       `gorm:"column:fecha_creacion;->"`
	FechaActualizacion time.Time       `gorm:"column:fecha_actualizacion;->"`
}

func (Producto) TableName() string { return "productos" }

// ProductoConCategoria is the read projection of a product with the
// denormalized summary of its category (INNER JOIN, so orphans never surface).
type ProductoConCategoria struct {
	Producto
	CategoriaNombre string `gorm:"column:categoria_nombre"`
	CategoriaColor  string `gorm:"column:categoria_color"`
	CategoriaIcono  string `gorm:"column:categoria_icono"`
}
