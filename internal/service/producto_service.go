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

// ProductoService defines the business logic contract for products.
// Errors are always *apierror.Error.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (int64, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id int64) (*dto.ProductoResponse, error)
	// Actualizar returns the rows matched; zero is not an error.
	Actualizar(ctx context.Context, req dto.ActualizarProductoRequest) (int64, error)
	Eliminar(ctx context.Context, id int64) error
}

type productoService struct {
	repo repository.ProductoRepository
}

func NewProductoService(repo repository.ProductoRepository) ProductoService {
	return &productoService{repo: repo}
}

var productoMensajesEscritura = map[sqlerr.Code]string{
	sqlerr.ForeignKeyViolation: "La categoría indicada no existe.",
	sqlerr.UniqueViolation:     "Ya existe un producto con ese SKU.",
	sqlerr.DataException:       "Algún valor numérico está fuera de rango.",
}

func mapProducto(p model.ProductoConCategoria) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:                 p.ID,
		Nombre:             p.Nombre,
		Descripcion:        p.Descripcion,
		Precio:             p.Precio,
		Stock:              p.Stock,
		ImagenURL:          p.ImagenURL,
		SKU:                p.SKU,
		Activo:             p.Activo,
		FechaCreacion:      p.FechaCreacion,
		FechaActualizacion: p.FechaActualizacion,
		Categoria: dto.CategoriaResumen{
			ID:     p.CategoriaID,
			Nombre: p.CategoriaNombre,
			Color:  p.CategoriaColor,
			Icono:  p.CategoriaIcono,
		},
	}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (int64, error) {
	p := &model.Producto{
		CategoriaID: req.CategoriaID.Int64(),
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Precio:      req.Precio.Decimal,
		Stock:       int(req.Stock.Int64()),
		ImagenURL:   req.ImagenURL,
		SKU:         normalizarSKU(req.SKU, false),
		Activo:      req.Activo.Bool(true),
	}
	if err := s.repo.Crear(ctx, p); err != nil {
		return 0, sqlerr.Escritura(err, "Error al crear el producto.", productoMensajesEscritura)
	}
	return p.ID, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error) {
	list, err := s.repo.Listar(ctx, filter)
	if err != nil {
		return nil, sqlerr.Lectura(err, "Error al listar productos.")
	}
	result := make([]dto.ProductoResponse, 0, len(list))
	for _, p := range list {
		result = append(result, mapProducto(p))
	}
	return result, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id int64) (*dto.ProductoResponse, error) {
	p, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NoEncontrado("Producto no encontrado.")
		}
		return nil, sqlerr.Lectura(err, "Error al consultar el producto.")
	}
	resp := mapProducto(*p)
	return &resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, req dto.ActualizarProductoRequest) (int64, error) {
	p := &model.Producto{
		ID:          req.ID.Int64(),
		CategoriaID: req.CategoriaID.Int64(),
		Nombre:      sanitizar(req.Nombre),
		Descripcion: sanitizar(req.Descripcion),
		Precio:      req.Precio.Decimal,
		Stock:       int(req.Stock.Int64()),
		ImagenURL:   sanitizar(req.ImagenURL),
		SKU:         normalizarSKU(req.SKU, true),
		Activo:      req.Activo.Bool(true),
	}
	if p.Nombre == "" {
		return 0, apierror.Validacion("Datos incompletos: ID, nombre y categoría son obligatorios.", map[string]string{"nombre": "notblank"})
	}
	campos := []campoTexto{{"nombre", p.Nombre, 150}}
	if p.SKU != nil {
		campos = append(campos, campoTexto{"sku", *p.SKU, 64})
	}
	if fields := excedidos(campos...); fields != nil {
		return 0, apierror.Validacion(mensajeLargoExcedido, fields)
	}
	filas, err := s.repo.Actualizar(ctx, p)
	if err != nil {
		return 0, sqlerr.Escritura(err, "Error al ejecutar la actualización.", productoMensajesEscritura)
	}
	return filas, nil
}

func (s *productoService) Eliminar(ctx context.Context, id int64) error {
	filas, err := s.repo.Eliminar(ctx, id)
	if err != nil {
		return sqlerr.Escritura(err, "Error al ejecutar la eliminación del producto.", nil)
	}
	if filas == 0 {
		return apierror.NoEncontrado("No se encontró el producto con ese ID.")
	}
	return nil
}
