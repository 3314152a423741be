package model

import "time"

// Categoria is a row of the categorias table.
// Timestamps are maintained by the database (column defaults + update trigger).
type Categoria struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement"`
	Nombre             string    `gorm:"size:100;uniqueIndex;not null"`
	Descripcion        string    `gorm:"not null"`
	Icono              string    `gorm:"size:100;not null"`
	Color              string    `gorm:"size:20;not null"`
	Activo             bool      `gorm:"not null"`
	FechaCreacion      time.Time `gorm:"column:fecha_creacion;->"`
	FechaActualizacion time.Time `gorm:"column:fecha_actualizacion;->"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }

// CategoriaConTotal is the read projection of a category joined with the
// number of products that reference it.
type CategoriaConTotal struct {
	Categoria
	TotalProductos int64 `gorm:"column:total_productos"`
}
