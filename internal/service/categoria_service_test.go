package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"

	"catalogo/internal/apierror"
	"catalogo/internal/dto"
	"catalogo/internal/model"
	"catalogo/internal/repository/repotest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindOf(t *testing.T, err error) apierror.Kind {
	t.Helper()
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr), "expected *apierror.Error, got %T", err)
	return apiErr.Kind
}

func activo(v bool) *dto.BoolFlexible {
	b := dto.BoolFlexible(v)
	return &b
}

func TestCrearCategoria_Defaults(t *testing.T) {
	store := repotest.New()
	svc := NewCategoriaService(store.Categorias())

	id, err := svc.Crear(context.Background(), dto.CrearCategoriaRequest{Nombre: "  Bebidas  "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, err := svc.ObtenerPorID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Bebidas", got.Nombre)
	assert.Equal(t, "#000000", got.Color)
	assert.True(t, got.Activo)
	assert.Equal(t, int64(0), got.TotalProductos)
	assert.False(t, got.FechaCreacion.IsZero())
}

func TestCrearCategoria_RoundTripKeepsFields(t *testing.T) {
	store := repotest.New()
	svc := NewCategoriaService(store.Categorias())

	req := dto.CrearCategoriaRequest{
		Nombre:      "Lácteos",
		Descripcion: "Leche, quesos & yogures",
		Icono:       "milk",
		Color:       "#FFEECC",
		Activo:      activo(false),
	}
	id, err := svc.Crear(context.Background(), req)
	require.NoError(t, err)

	got, err := svc.ObtenerPorID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, req.Descripcion, got.Descripcion)
	assert.Equal(t, "milk", got.Icono)
	assert.Equal(t, "#FFEECC", got.Color)
	assert.False(t, got.Activo)
}

func TestCrearCategoria_NombreDuplicado(t *testing.T) {
	store := repotest.New()
	svc := NewCategoriaService(store.Categorias())

	_, err := svc.Crear(context.Background(), dto.CrearCategoriaRequest{Nombre: "Bebidas"})
	require.NoError(t, err)

	_, err = svc.Crear(context.Background(), dto.CrearCategoriaRequest{Nombre: "Bebidas"})
	require.Error(t, err)
	assert.Equal(t, apierror.KindEjecucion, kindOf(t, err))
	assert.Equal(t, "Ya existe una categoría con ese nombre.", apierror.From(err).Message)
	assert.Equal(t, 1, store.NumCategorias())
}

func TestCrearCategoria_StoreDown(t *testing.T) {
	store := repotest.New()
	store.Err = driver.ErrBadConn
	svc := NewCategoriaService(store.Categorias())

	_, err := svc.Crear(context.Background(), dto.CrearCategoriaRequest{Nombre: "Bebidas"})
	assert.Equal(t, apierror.KindInfraestructura, kindOf(t, err))
}

func TestCrearCategoria_ConnectionLostMidWrite(t *testing.T) {
	store := repotest.New()
	store.Err = &pgconn.PgError{Code: "57P01"}
	svc := NewCategoriaService(store.Categorias())

	_, err := svc.Crear(context.Background(), dto.CrearCategoriaRequest{Nombre: "Bebidas"})
	assert.Equal(t, apierror.KindEjecucion, kindOf(t, err))
}

func TestListarCategorias_OrderAndTotals(t *testing.T) {
	store := repotest.New()
	cats := NewCategoriaService(store.Categorias())
	prods := NewProductoService(store.Productos())
	ctx := context.Background()

	snacks, _ := cats.Crear(ctx, dto.CrearCategoriaRequest{Nombre: "Snacks"})
	_, _ = cats.Crear(ctx, dto.CrearCategoriaRequest{Nombre: "Almacén"})
	for _, n := range []string{"Papas", "Maní"} {
		_, err := prods.Crear(ctx, dto.CrearProductoRequest{CategoriaID: dto.Entero(snacks), Nombre: n})
		require.NoError(t, err)
	}

	list, err := cats.Listar(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Almacén", list[0].Nombre)
	assert.Equal(t, int64(0), list[0].TotalProductos)
	assert.Equal(t, "Snacks", list[1].Nombre)
	assert.Equal(t, int64(2), list[1].TotalProductos)
}

func TestListarCategorias_EmptyIsNotNil(t *testing.T) {
	svc := NewCategoriaService(repotest.New().Categorias())
	list, err := svc.Listar(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListarCategorias_FailureIsInfrastructure(t *testing.T) {
	store := repotest.New()
	store.Err = errors.New("relation \"categorias\" does not exist")
	svc := NewCategoriaService(store.Categorias())

	_, err := svc.Listar(context.Background())
	assert.Equal(t, apierror.KindInfraestructura, kindOf(t, err))
	assert.Equal(t, "Error al listar categorías.", apierror.From(err).Message)
}

func TestObtenerCategoria_NoExiste(t *testing.T) {
	svc := NewCategoriaService(repotest.New().Categorias())
	_, err := svc.ObtenerPorID(context.Background(), 99)
	assert.Equal(t, apierror.KindNoEncontrado, kindOf(t, err))
}

func TestActualizarCategoria_SanitizesAndReplaces(t *testing.T) {
	store := repotest.New()
	svc := NewCategoriaService(store.Categorias())
	ctx := context.Background()

	id, err := svc.Crear(ctx, dto.CrearCategoriaRequest{Nombre: "Bebidas", Color: "#112233", Activo: activo(false)})
	require.NoError(t, err)

	filas, err := svc.Actualizar(ctx, dto.ActualizarCategoriaRequest{
		ID:          dto.Entero(id),
		Nombre:      "<b>Bebidas frías</b>",
		Descripcion: "<script>alert(1)</script>Heladas",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), filas)

	got, ok := store.Categoria(id)
	require.True(t, ok)
	assert.Equal(t, "Bebidas frías", got.Nombre)
	assert.Equal(t, "Heladas", got.Descripcion)
	// Omitted fields fall back to the create defaults.
	assert.Equal(t, "#000000", got.Color)
	assert.True(t, got.Activo)
}

func TestActualizarCategoria_OnlyMarkupIsRejected(t *testing.T) {
	store := repotest.New()
	svc := NewCategoriaService(store.Categorias())
	id, _ := svc.Crear(context.Background(), dto.CrearCategoriaRequest{Nombre: "Bebidas"})

	_, err := svc.Actualizar(context.Background(), dto.ActualizarCategoriaRequest{ID: dto.Entero(id), Nombre: "<p></p>"})
	assert.Equal(t, apierror.KindValidacion, kindOf(t, err))

	got, _ := store.Categoria(id)
	assert.Equal(t, "Bebidas", got.Nombre)
}

func TestActualizarCategoria_EscapedTextTooLong(t *testing.T) {
	store := repotest.New()
	svc := NewCategoriaService(store.Categorias())
	id, _ := svc.Crear(context.Background(), dto.CrearCategoriaRequest{Nombre: "Bebidas"})

	// 98 characters on the wire, 106 once each & becomes &amp;
	nombre := strings.Repeat("a", 96) + "&&"
	_, err := svc.Actualizar(context.Background(), dto.ActualizarCategoriaRequest{ID: dto.Entero(id), Nombre: nombre})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidacion, kindOf(t, err))
	assert.Equal(t, map[string]string{"nombre": "max"}, apierror.From(err).Fields)

	got, _ := store.Categoria(id)
	assert.Equal(t, "Bebidas", got.Nombre)
}

func TestActualizarCategoria_NoExisteEsCeroFilas(t *testing.T) {
	svc := NewCategoriaService(repotest.New().Categorias())
	filas, err := svc.Actualizar(context.Background(), dto.ActualizarCategoriaRequest{ID: 42, Nombre: "X"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), filas)
}

func TestEliminarCategoria(t *testing.T) {
	store := repotest.New()
	svc := NewCategoriaService(store.Categorias())
	id, _ := svc.Crear(context.Background(), dto.CrearCategoriaRequest{Nombre: "Bebidas"})

	require.NoError(t, svc.Eliminar(context.Background(), id))
	assert.Equal(t, 0, store.NumCategorias())

	err := svc.Eliminar(context.Background(), id)
	assert.Equal(t, apierror.KindNoEncontrado, kindOf(t, err))
}

func TestEliminarCategoria_ConProductosFalla(t *testing.T) {
	store := repotest.New()
	svc := NewCategoriaService(store.Categorias())
	ctx := context.Background()
	id, _ := svc.Crear(ctx, dto.CrearCategoriaRequest{Nombre: "Bebidas"})
	require.NoError(t, store.Productos().Crear(ctx, &model.Producto{CategoriaID: id, Nombre: "Agua", Precio: decimal.NewFromInt(1)}))

	err := svc.Eliminar(ctx, id)
	assert.Equal(t, apierror.KindEjecucion, kindOf(t, err))
	assert.Equal(t, "No se puede eliminar la categoría: tiene productos asociados.", apierror.From(err).Message)
	assert.Equal(t, 1, store.NumCategorias())
	assert.Equal(t, 1, store.NumProductos())
}
