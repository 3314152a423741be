package service

import (
	"context"
	"errors"
	"strings"

	"catalogo/internal/apierror"
	"catalogo/internal/dto"
	"catalogo/internal/model"
	"catalogo/internal/repository"
	"catalogo/internal/sqlerr"

	"gorm.io/gorm"
)

const colorPorDefecto = "#000000"

// CategoriaService defines business operations for product categories.
// Errors are always *apierror.Error.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (int64, error)
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	ObtenerPorID(ctx context.Context, id int64) (*dto.CategoriaResponse, error)
	// Actualizar returns the rows matched; zero is not an error.
	Actualizar(ctx context.Context, req dto.ActualizarCategoriaRequest) (int64, error)
	Eliminar(ctx context.Context, id int64) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

// mapCategoria converts a model to a DTO response.
func mapCategoria(c model.CategoriaConTotal) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:                 c.ID,
		Nombre:             c.Nombre,
		Descripcion:        c.Descripcion,
		Icono:              c.Icono,
		Color:              c.Color,
		Activo:             c.Activo,
		TotalProductos:     c.TotalProductos,
		FechaCreacion:      c.FechaCreacion,
		FechaActualizacion: c.FechaActualizacion,
	}
}

func colorOPorDefecto(color string) string {
	if strings.TrimSpace(color) == "" {
		return colorPorDefecto
	}
	return color
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (int64, error) {
	c := &model.Categoria{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Icono:       req.Icono,
		Color:       colorOPorDefecto(req.Color),
		Activo:      req.Activo.Bool(true),
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		return 0, sqlerr.Escritura(err, "No se pudo crear la categoría.", map[sqlerr.Code]string{
			sqlerr.UniqueViolation: "Ya existe una categoría con ese nombre.",
		})
	}
	return c.ID, nil
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, sqlerr.Lectura(err, "Error al listar categorías.")
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) ObtenerPorID(ctx context.Context, id int64) (*dto.CategoriaResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NoEncontrado("Categoría no encontrada.")
		}
		return nil, sqlerr.Lectura(err, "Error al consultar la categoría.")
	}
	resp := mapCategoria(*c)
	return &resp, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, req dto.ActualizarCategoriaRequest) (int64, error) {
	c := &model.Categoria{
		ID:          req.ID.Int64(),
		Nombre:      sanitizar(req.Nombre),
		Descripcion: sanitizar(req.Descripcion),
		Icono:       sanitizar(req.Icono),
		Color:       colorOPorDefecto(req.Color),
		Activo:      req.Activo.Bool(true),
	}
	if c.Nombre == "" {
		// Nothing left once the markup is gone.
		return 0, apierror.Validacion("Datos incompletos: 'id' y 'nombre' son obligatorios.", map[string]string{"nombre": "notblank"})
	}
	if fields := excedidos(
		campoTexto{"nombre", c.Nombre, 100},
		campoTexto{"icono", c.Icono, 100},
	); fields != nil {
		return 0, apierror.Validacion(mensajeLargoExcedido, fields)
	}
	filas, err := s.repo.Actualizar(ctx, c)
	if err != nil {
		return 0, sqlerr.Escritura(err, "No se pudo actualizar la categoría.", map[sqlerr.Code]string{
			sqlerr.UniqueViolation: "Ya existe una categoría con ese nombre.",
		})
	}
	return filas, nil
}

func (s *categoriaService) Eliminar(ctx context.Context, id int64) error {
	filas, err := s.repo.Eliminar(ctx, id)
	if err != nil {
		return sqlerr.Escritura(err, "No se pudo eliminar la categoría.", map[sqlerr.Code]string{
			sqlerr.ForeignKeyViolation: "No se puede eliminar la categoría: tiene productos asociados.",
		})
	}
	if filas == 0 {
		return apierror.NoEncontrado("No se encontró la categoría con ese ID.")
	}
	return nil
}
