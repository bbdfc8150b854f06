package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/config"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/routes"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/utils"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		if servePort != "" {
			cfg.AppPort = servePort
			config.Override(cfg)
		}
		defer func() { _ = utils.Logger.Sync() }()

		db, err := config.OpenDatabase(cfg.DBDriver, config.DSN(cfg), cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}

		if !config.HasSchema(db) {
			if !cfg.DBAutoMigrate {
				return errors.New("database schema is missing; run `threadapi migrate` first or set DB_AUTO_MIGRATE=true")
			}
			utils.Sugar.Info("schema missing, creating tables")
			if err := config.Migrate(db, false); err != nil {
				return err
			}
		}

		r := routes.SetupRouter(db)
		utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
		return utils.GraceServer(":"+cfg.AppPort, r)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port, overrides APP_PORT")
}
