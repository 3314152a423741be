package repository

import (
	"context"

	"catalogo/internal/dto"
	"catalogo/internal/model"

	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// so tests can substitute an in-memory store.
type ProductoRepository interface {
	Crear(ctx context.Context, p *model.Producto) error
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]model.ProductoConCategoria, error)
	ObtenerPorID(ctx context.Context, id int64) (*model.ProductoConCategoria, error)
	// Actualizar returns the number of rows the UPDATE matched.
	Actualizar(ctx context.Context, p *model.Producto) (int64, error)
	// Eliminar returns the number of rows the DELETE removed.
	Eliminar(ctx context.Context, id int64) (int64, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

const productoColumnas = `p.id, p.categoria_id, p.nombre, p.descripcion, p.precio, p.stock,
	p.imagen_url, p.sku, p.activo, p.fecha_creacion, p.fecha_actualizacion,
	c.nombre AS categoria_nombre, c.color AS categoria_color, c.icono AS categoria_icono`

// conCategoria joins each product to its category summary. INNER JOIN: a
// product whose category is gone never surfaces.
func (r *productoRepo) conCategoria(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("productos p").
		Select(productoColumnas).
		Joins("INNER JOIN categorias c ON c.id = p.categoria_id")
}

func (r *productoRepo) Crear(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) Listar(ctx context.Context, filter dto.ProductoFilter) ([]model.ProductoConCategoria, error) {
	productos := make([]model.ProductoConCategoria, 0)
	q := r.conCategoria(ctx)
	if filter.CategoriaID != nil {
		q = q.Where("p.categoria_id = ?", *filter.CategoriaID)
	}
	err := q.Order("p.nombre ASC").Scan(&productos).Error
	return productos, err
}

func (r *productoRepo) ObtenerPorID(ctx context.Context, id int64) (*model.ProductoConCategoria, error) {
	var p model.ProductoConCategoria
	res := r.conCategoria(ctx).Where("p.id = ?", id).Limit(1).Scan(&p)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *productoRepo) Actualizar(ctx context.Context, p *model.Producto) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"categoria_id": p.CategoriaID,
		"nombre":       p.Nombre,
		"descripcion":  p.Descripcion,
		"precio":       p.Precio,
		"stock":        p.Stock,
		"imagen_url":   p.ImagenURL,
		"sku":          p.SKU,
		"activo":       p.Activo,
	})
	return res.RowsAffected, res.Error
}

func (r *productoRepo) Eliminar(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Producto{})
	return res.RowsAffected, res.Error
}
