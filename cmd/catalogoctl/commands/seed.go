package commands

import (
	"context"
	"fmt"

	"catalogo/internal/infra"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedMigrate bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo categories and products",
	Long: `Inserts a small demo catalogue. Rows that already exist (same category
nombre or product sku) are left untouched, so the command can be re-run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		if seedMigrate {
			if err := infra.RunMigrations(db); err != nil {
				return err
			}
		}
		cats, prods, err := seed(cmd.Context(), db)
		if err != nil {
			return err
		}
		log.Info().Int64("categorias", cats).Int64("productos", prods).Msg("demo data inserted")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedMigrate, "migrate", false, "Apply the schema before seeding")
}

type seedCategoria struct {
	nombre, descripcion, icono, color string
}

type seedProducto struct {
	categoria, nombre, descripcion, sku string
	precio                              string
	stock                               int
}

var demoCategorias = []seedCategoria{
	{"Bebidas", "Gaseosas, aguas y jugos", "local_drink", "#1E88E5"},
	{"Snacks", "Papas, maní y golosinas", "cookie", "#FB8C00"},
	{"Lácteos", "Leche, yogures y quesos", "egg", "#FDD835"},
	{"Limpieza", "Artículos de limpieza del hogar", "cleaning_services", "#43A047"},
}

var demoProductos = []seedProducto{
	{"Bebidas", "Agua mineral 500ml", "Sin gas", "BEB-AGUA-500", "0.90", 48},
	{"Bebidas", "Gaseosa cola 1.5L", "Botella retornable", "BEB-COLA-1500", "2.10", 24},
	{"Bebidas", "Jugo de naranja 1L", "Exprimido", "BEB-JUGO-1000", "1.75", 12},
	{"Snacks", "Papas fritas 150g", "Clásicas", "SNK-PAPAS-150", "1.40", 30},
	{"Snacks", "Maní salado 200g", "Tostado", "SNK-MANI-200", "1.10", 20},
	{"Lácteos", "Leche entera 1L", "Larga vida", "LAC-LECHE-1000", "1.05", 36},
	{"Lácteos", "Yogur natural 190g", "Sin azúcar", "LAC-YOGUR-190", "0.65", 18},
	{"Limpieza", "Detergente 750ml", "Aroma limón", "LIM-DETER-750", "1.95", 15},
}

// seed inserts the demo rows in one transaction and reports how many were new.
func seed(ctx context.Context, db *gorm.DB) (int64, int64, error) {
	var cats, prods int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range demoCategorias {
			res := tx.Exec(`
				INSERT INTO categorias (nombre, descripcion, icono, color, activo)
				VALUES (?, ?, ?, ?, TRUE)
				ON CONFLICT (nombre) DO NOTHING`,
				c.nombre, c.descripcion, c.icono, c.color)
			if res.Error != nil {
				return fmt.Errorf("categoria %q: %w", c.nombre, res.Error)
			}
			cats += res.RowsAffected
		}
		for _, p := range demoProductos {
			res := tx.Exec(`
				INSERT INTO productos (categoria_id, nombre, descripcion, precio, stock, sku, activo)
				SELECT c.id, ?, ?, ?, ?, ?, TRUE FROM categorias c WHERE c.nombre = ?
				ON CONFLICT (sku) DO NOTHING`,
				p.nombre, p.descripcion, decimal.RequireFromString(p.precio), p.stock, p.sku, p.categoria)
			if res.Error != nil {
				return fmt.Errorf("producto %q: %w", p.sku, res.Error)
			}
			prods += res.RowsAffected
		}
		return nil
	})
	return cats, prods, err
}
