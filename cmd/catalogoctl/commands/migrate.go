package commands

import (
	"catalogo/internal/infra"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the categorias/productos schema",
	Long: `Applies the schema idempotently: tables, constraints, index and the
trigger that maintains fecha_actualizacion. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		if err := infra.RunMigrations(db); err != nil {
			return err
		}
		log.Info().Msg("schema up to date")
		return nil
	},
}
