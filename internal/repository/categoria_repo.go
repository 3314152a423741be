package repository

import (
	"context"

	"catalogo/internal/model"

	"gorm.io/gorm"
)

// CategoriaRepository defines CRUD operations for Categoria.
// Every method issues exactly one SQL statement.
type CategoriaRepository interface {
	Crear(ctx context.Context, c *model.Categoria) error
	Listar(ctx context.Context) ([]model.CategoriaConTotal, error)
	ObtenerPorID(ctx context.Context, id int64) (*model.CategoriaConTotal, error)
	// Actualizar returns the number of rows the UPDATE matched.
	Actualizar(ctx context.Context, c *model.Categoria) (int64, error)
	// Eliminar returns the number of rows the DELETE removed.
	Eliminar(ctx context.Context, id int64) (int64, error)
}

type categoriaRepository struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepository{db: db}
}

const categoriaColumnas = `c.id, c.nombre, c.descripcion, c.icono, c.color, c.activo,
	c.fecha_creacion, c.fecha_actualizacion, COUNT(p.id) AS total_productos`

// conTotal builds the SELECT shared by both reads: categories left-joined to
// their products so the count is computed at read time.
func (r *categoriaRepository) conTotal(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("categorias c").
		Select(categoriaColumnas).
		Joins("LEFT JOIN productos p ON p.categoria_id = c.id").
		Group("c.id")
}

func (r *categoriaRepository) Crear(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepository) Listar(ctx context.Context) ([]model.CategoriaConTotal, error) {
	list := make([]model.CategoriaConTotal, 0)
	err := r.conTotal(ctx).Order("c.nombre ASC").Scan(&list).Error
	return list, err
}

func (r *categoriaRepository) ObtenerPorID(ctx context.Context, id int64) (*model.CategoriaConTotal, error) {
	var c model.CategoriaConTotal
	res := r.conTotal(ctx).Where("c.id = ?", id).Limit(1).Scan(&c)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *categoriaRepository) Actualizar(ctx context.Context, c *model.Categoria) (int64, error) {
	// A map so zero values (activo=false, empty strings) are written too.
	res := r.db.WithContext(ctx).Model(&model.Categoria{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"nombre":      c.Nombre,
		"descripcion": c.Descripcion,
		"icono":       c.Icono,
		"color":       c.Color,
		"activo":      c.Activo,
	})
	return res.RowsAffected, res.Error
}

func (r *categoriaRepository) Eliminar(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Categoria{})
	return res.RowsAffected, res.Error
}
