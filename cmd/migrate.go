package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/config"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/utils"
)

var migrateReset bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and columns",
	Long: `Create missing tables and columns without touching existing rows.

With --reset every table is dropped and recreated first. All users, posts and
comments are permanently deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		defer func() { _ = utils.Logger.Sync() }()

		db, err := config.OpenDatabase(cfg.DBDriver, config.DSN(cfg), cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}

		if migrateReset {
			utils.Sugar.Warnw("dropping and recreating all tables", "driver", cfg.DBDriver, "database", cfg.DBName)
		}
		if err := config.Migrate(db, migrateReset); err != nil {
			return err
		}
		utils.Sugar.Infow("migration complete", "reset", migrateReset)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateReset, "reset", false, "drop all tables before migrating (destroys data)")
}
