// Package repotest provides an in-memory implementation of the repository
// interfaces for tests. It enforces the same constraints as the SQL schema
// (unique category name, unique SKU, product → category foreign key with
// RESTRICT on delete) and reports violations as *pgconn.PgError, so callers
// see exactly what the real driver would hand them.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"catalogo/internal/dto"
	"catalogo/internal/model"
	"catalogo/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Store struct {
	mu         sync.Mutex
	categorias map[int64]model.Categoria
	productos  map[int64]model.Producto
	nextCatID  int64
	nextProdID int64

	// Err, when set, is returned by every operation (simulates an outage).
	Err error
}

func New() *Store {
	return &Store{
		categorias: make(map[int64]model.Categoria),
		productos:  make(map[int64]model.Producto),
		nextCatID:  1,
		nextProdID: 1,
	}
}

func (s *Store) Categorias() repository.CategoriaRepository { return categorias{s} }
func (s *Store) Productos() repository.ProductoRepository   { return productos{s} }

func (s *Store) NumCategorias() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categorias)
}

func (s *Store) NumProductos() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.productos)
}

// Categoria returns the stored row, bypassing the read projection.
func (s *Store) Categoria(id int64) (model.Categoria, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categorias[id]
	return c, ok
}

// Producto returns the stored row, bypassing the read projection.
func (s *Store) Producto(id int64) (model.Producto, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.productos[id]
	return p, ok
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", Severity: "ERROR", ConstraintName: constraint,
		Message: "duplicate key value violates unique constraint \"" + constraint + "\""}
}

func fkViolation(table string) error {
	return &pgconn.PgError{Code: "23503", Severity: "ERROR", TableName: table, ConstraintName: "fk_productos_categoria",
		Message: "violates foreign key constraint \"fk_productos_categoria\""}
}

// ── categorias ───────────────────────────────────────────────────────────────

type categorias struct{ s *Store }

func (r categorias) nombreTomado(nombre string, exceptID int64) bool {
	for id, c := range r.s.categorias {
		if id != exceptID && c.Nombre == nombre {
			return true
		}
	}
	return false
}

func (r categorias) conTotal(c model.Categoria) model.CategoriaConTotal {
	var total int64
	for _, p := range r.s.productos {
		if p.CategoriaID == c.ID {
			total++
		}
	}
	return model.CategoriaConTotal{Categoria: c, TotalProductos: total}
}

func (r categorias) Crear(_ context.Context, c *model.Categoria) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if r.nombreTomado(c.Nombre, 0) {
		return uniqueViolation("uni_categorias_nombre")
	}
	c.ID = r.s.nextCatID
	r.s.nextCatID++
	now := time.Now().UTC()
	c.FechaCreacion, c.FechaActualizacion = now, now
	r.s.categorias[c.ID] = *c
	return nil
}

func (r categorias) Listar(_ context.Context) ([]model.CategoriaConTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	list := make([]model.CategoriaConTotal, 0, len(r.s.categorias))
	for _, c := range r.s.categorias {
		list = append(list, r.conTotal(c))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Nombre < list[j].Nombre })
	return list, nil
}

func (r categorias) ObtenerPorID(_ context.Context, id int64) (*model.CategoriaConTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	c, ok := r.s.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	ct := r.conTotal(c)
	return &ct, nil
}

func (r categorias) Actualizar(_ context.Context, c *model.Categoria) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	prev, ok := r.s.categorias[c.ID]
	if !ok {
		return 0, nil
	}
	if r.nombreTomado(c.Nombre, c.ID) {
		return 0, uniqueViolation("uni_categorias_nombre")
	}
	upd := *c
	upd.FechaCreacion = prev.FechaCreacion
	upd.FechaActualizacion = time.Now().UTC()
	r.s.categorias[c.ID] = upd
	return 1, nil
}

func (r categorias) Eliminar(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	if _, ok := r.s.categorias[id]; !ok {
		return 0, nil
	}
	for _, p := range r.s.productos {
		if p.CategoriaID == id {
			return 0, fkViolation("categorias")
		}
	}
	delete(r.s.categorias, id)
	return 1, nil
}

// ── productos ────────────────────────────────────────────────────────────────

type productos struct{ s *Store }

func (r productos) check(p *model.Producto) error {
	if _, ok := r.s.categorias[p.CategoriaID]; !ok {
		return fkViolation("productos")
	}
	if p.SKU == nil {
		return nil
	}
	for id, other := range r.s.productos {
		if id != p.ID && other.SKU != nil && *other.SKU == *p.SKU {
			return uniqueViolation("uni_productos_sku")
		}
	}
	return nil
}

func (r productos) conCategoria(p model.Producto) model.ProductoConCategoria {
	c := r.s.categorias[p.CategoriaID]
	return model.ProductoConCategoria{
		Producto:        p,
		CategoriaNombre: c.Nombre,
		CategoriaColor:  c.Color,
		CategoriaIcono:  c.Icono,
	}
}

func (r productos) Crear(_ context.Context, p *model.Producto) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if err := r.check(p); err != nil {
		return err
	}
	p.ID = r.s.nextProdID
	r.s.nextProdID++
	now := time.Now().UTC()
	p.FechaCreacion, p.FechaActualizacion = now, now
	r.s.productos[p.ID] = *p
	return nil
}

func (r productos) Listar(_ context.Context, filter dto.ProductoFilter) ([]model.ProductoConCategoria, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	list := make([]model.ProductoConCategoria, 0)
	for _, p := range r.s.productos {
		if _, ok := r.s.categorias[p.CategoriaID]; !ok {
			continue
		}
		if filter.CategoriaID != nil && p.CategoriaID != *filter.CategoriaID {
			continue
		}
		list = append(list, r.conCategoria(p))
	}
	sort.Slice(list, func(i, j int) bool { return strings.Compare(list[i].Nombre, list[j].Nombre) < 0 })
	return list, nil
}

func (r productos) ObtenerPorID(_ context.Context, id int64) (*model.ProductoConCategoria, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	p, ok := r.s.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if _, ok := r.s.categorias[p.CategoriaID]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	pc := r.conCategoria(p)
	return &pc, nil
}

func (r productos) Actualizar(_ context.Context, p *model.Producto) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	prev, ok := r.s.productos[p.ID]
	if !ok {
		return 0, nil
	}
	if err := r.check(p); err != nil {
		return 0, err
	}
	upd := *p
	upd.FechaCreacion = prev.FechaCreacion
	upd.FechaActualizacion = time.Now().UTC()
	r.s.productos[p.ID] = upd
	return 1, nil
}

func (r productos) Eliminar(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	if _, ok := r.s.productos[id]; !ok {
		return 0, nil
	}
	delete(r.s.productos, id)
	return 1, nil
}
