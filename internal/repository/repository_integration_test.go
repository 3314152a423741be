//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalogo/internal/dto"
	"catalogo/internal/infra"
	"catalogo/internal/model"
	"catalogo/internal/sqlerr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// setupTestDB starts PostgreSQL, applies the schema and returns both repositories.
func setupTestDB(t *testing.T) (*gorm.DB, CategoriaRepository, ProductoRepository) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("proyecto_crud"),
		postgres.WithUsername("catalogo"),
		postgres.WithPassword("catalogo"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn, infra.PoolConfig{MaxOpenConns: 5})
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	// Idempotent.
	require.NoError(t, infra.RunMigrations(db))

	return db, NewCategoriaRepository(db), NewProductoRepository(db)
}

func TestRepositories_Postgres(t *testing.T) {
	db, cats, prods := setupTestDB(t)
	ctx := context.Background()

	bebidas := &model.Categoria{Nombre: "Bebidas", Color: "#ff0000", Activo: true}
	require.NoError(t, cats.Crear(ctx, bebidas))
	require.NotZero(t, bebidas.ID)
	vacia := &model.Categoria{Nombre: "Almacén", Color: "#000000", Activo: true}
	require.NoError(t, cats.Crear(ctx, vacia))

	t.Run("unique nombre is a constraint violation", func(t *testing.T) {
		err := cats.Crear(ctx, &model.Categoria{Nombre: "Bebidas", Color: "#000000"})
		assert.Equal(t, sqlerr.UniqueViolation, sqlerr.Classify(err))
	})

	sku := "COLA-354"
	cola := &model.Producto{CategoriaID: bebidas.ID, Nombre: "Cola", Precio: decimal.RequireFromString("1.50"), Stock: 10, SKU: &sku, Activo: true}
	require.NoError(t, prods.Crear(ctx, cola))
	agua := &model.Producto{CategoriaID: bebidas.ID, Nombre: "Agua", Activo: true}
	require.NoError(t, prods.Crear(ctx, agua))

	t.Run("null skus do not collide", func(t *testing.T) {
		otra := &model.Producto{CategoriaID: bebidas.ID, Nombre: "Soda", Activo: true}
		require.NoError(t, prods.Crear(ctx, otra))
		n, err := prods.Eliminar(ctx, otra.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("dangling categoria is a foreign key violation", func(t *testing.T) {
		err := prods.Crear(ctx, &model.Producto{CategoriaID: 99999, Nombre: "Huérfano"})
		assert.Equal(t, sqlerr.ForeignKeyViolation, sqlerr.Classify(err))
	})

	t.Run("categorias carry their product count, ordered by nombre", func(t *testing.T) {
		list, err := cats.Listar(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Almacén", list[0].Nombre)
		assert.Equal(t, int64(0), list[0].TotalProductos)
		assert.Equal(t, int64(2), list[1].TotalProductos)
		assert.False(t, list[1].FechaCreacion.IsZero())
	})

	t.Run("productos embed the category summary", func(t *testing.T) {
		p, err := prods.ObtenerPorID(ctx, cola.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bebidas", p.CategoriaNombre)
		assert.Equal(t, "#ff0000", p.CategoriaColor)
		assert.True(t, decimal.RequireFromString("1.5").Equal(p.Precio))
		require.NotNil(t, p.SKU)
		assert.Equal(t, sku, *p.SKU)
	})

	t.Run("filter binds categoria_id", func(t *testing.T) {
		list, err := prods.Listar(ctx, dto.ProductoFilter{CategoriaID: &bebidas.ID})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Agua", list[0].Nombre)

		list, err = prods.Listar(ctx, dto.ProductoFilter{CategoriaID: &vacia.ID})
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("update bumps fecha_actualizacion and writes zero values", func(t *testing.T) {
		before, err := prods.ObtenerPorID(ctx, cola.ID)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		n, err := prods.Actualizar(ctx, &model.Producto{ID: cola.ID, CategoriaID: bebidas.ID, Nombre: "Cola Zero", Activo: false})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		after, err := prods.ObtenerPorID(ctx, cola.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cola Zero", after.Nombre)
		assert.False(t, after.Activo)
		assert.Nil(t, after.SKU)
		assert.True(t, after.Precio.IsZero())
		assert.True(t, after.FechaActualizacion.After(before.FechaActualizacion))
		assert.Equal(t, before.FechaCreacion.Unix(), after.FechaCreacion.Unix())
	})

	t.Run("update of a missing row matches nothing", func(t *testing.T) {
		n, err := cats.Actualizar(ctx, &model.Categoria{ID: 424242, Nombre: "X", Color: "#000000"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("category with products cannot be deleted", func(t *testing.T) {
		_, err := cats.Eliminar(ctx, bebidas.ID)
		assert.Equal(t, sqlerr.ForeignKeyViolation, sqlerr.Classify(err))
	})

	t.Run("delete reports affected rows", func(t *testing.T) {
		n, err := cats.Eliminar(ctx, vacia.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = cats.Eliminar(ctx, vacia.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)

		_, err = cats.ObtenerPorID(ctx, vacia.ID)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})

	t.Run("closed pool is a connection failure", func(t *testing.T) {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		_, err = cats.Listar(ctx)
		require.Error(t, err)
	})
}
