package infra

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PoolConfig tunes the database/sql pool behind GORM. Each request borrows
// one connection for its single statement and hands it back on return.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewDatabase opens a GORM connection backed by pgx and sizes its pool.
// It does not touch the schema; call RunMigrations for that.
func NewDatabase(dsn string, pool PoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	return db, nil
}

// RunMigrations creates the two tables, their indexes and the trigger that keeps
// fecha_actualizacion server-maintained. Every statement is idempotent, so
// running it on an already-migrated database is a no-op.
func RunMigrations(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"create categorias", `
CREATE TABLE IF NOT EXISTS categorias (
  id                  BIGSERIAL    PRIMARY KEY,
  nombre              VARCHAR(100) NOT NULL,
  descripcion         TEXT         NOT NULL DEFAULT '',
  icono               VARCHAR(100) NOT NULL DEFAULT '',
  color               VARCHAR(20)  NOT NULL DEFAULT '#000000',
  activo              BOOLEAN      NOT NULL DEFAULT TRUE,
  fecha_creacion      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
  fecha_actualizacion TIMESTAMPTZ  NOT NULL DEFAULT NOW()
)`},
		{"unique categorias.nombre", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'uni_categorias_nombre') THEN
    ALTER TABLE categorias ADD CONSTRAINT uni_categorias_nombre UNIQUE (nombre);
  END IF;
END $$`},
		{"create productos", `
CREATE TABLE IF NOT EXISTS productos (
  id                  BIGSERIAL     PRIMARY KEY,
  categoria_id        BIGINT        NOT NULL,
  nombre              VARCHAR(150)  NOT NULL,
  descripcion         TEXT          NOT NULL DEFAULT '',
  precio              NUMERIC(12,2) NOT NULL DEFAULT 0,
  stock               INTEGER       NOT NULL DEFAULT 0,
  imagen_url          TEXT          NOT NULL DEFAULT '',
  sku                 VARCHAR(64),
  activo              BOOLEAN       NOT NULL DEFAULT TRUE,
  fecha_creacion      TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
  fecha_actualizacion TIMESTAMPTZ   NOT NULL DEFAULT NOW()
)`},
		// ON DELETE RESTRICT: a category that still has products cannot be removed.
		{"fk productos.categoria_id", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_productos_categoria') THEN
    ALTER TABLE productos
      ADD CONSTRAINT fk_productos_categoria
      FOREIGN KEY (categoria_id) REFERENCES categorias(id) ON DELETE RESTRICT;
  END IF;
END $$`},
		{"unique productos.sku", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'uni_productos_sku') THEN
    ALTER TABLE productos ADD CONSTRAINT uni_productos_sku UNIQUE (sku);
  END IF;
END $$`},
		{"index productos.categoria_id",
			`CREATE INDEX IF NOT EXISTS idx_productos_categoria_id ON productos (categoria_id)`},
		{"trigger function set_fecha_actualizacion", `
CREATE OR REPLACE FUNCTION set_fecha_actualizacion() RETURNS trigger AS $$
BEGIN
  NEW.fecha_actualizacion = NOW();
  RETURN NEW;
END;
$$ LANGUAGE plpgsql`},
		{"trigger categorias", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_categorias_fecha_actualizacion') THEN
    CREATE TRIGGER trg_categorias_fecha_actualizacion
      BEFORE UPDATE ON categorias
      FOR EACH ROW EXECUTE FUNCTION set_fecha_actualizacion();
  END IF;
END $$`},
		{"trigger productos", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_productos_fecha_actualizacion') THEN
    CREATE TRIGGER trg_productos_fecha_actualizacion
      BEFORE UPDATE ON productos
      FOR EACH ROW EXECUTE FUNCTION set_fecha_actualizacion();
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("migration %q: %w", p.descr, err)
		}
	}
	return nil
}
