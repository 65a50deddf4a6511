package main

import (
	"github.com/anonto42/yatube/internal/router"
	"github.com/anonto42/yatube/pkg/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		defer db.CloseDB()
		return router.Migrate(db.Gorm)
	},
}
