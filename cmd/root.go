package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/config"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/utils"
)

var (
	configPath string
	envFile    string
)

var RootCmd = &cobra.Command{
	Use:           "threadapi",
	Short:         "Blogging REST API with cookie based JWT authentication",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile(configPath, envFile)
		if err != nil {
			return err
		}
		config.Override(cfg)
		return utils.InitLogger(cfg)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the JSON config file")
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (defaults to ./.env when present)")
	RootCmd.AddCommand(serveCmd, migrateCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		utils.Sugar.Errorf("command failed: %v", err)
		_ = utils.Logger.Sync()
		os.Exit(1)
	}
}
