package main

import (
	"fmt"
	"os"

	"fithub/config"
	"fithub/internal/infra"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "fithub",
	Short:         "FitLife Hub shop, subscriptions and community server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		newApp().Run()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}
		infra.InitLogger(cfg)

		db, err := infra.InitPostgresql(cfg)
		if err != nil {
			return err
		}
		defer infra.ClosePostgresql(db)

		if err := infra.AutoMigrate(db); err != nil {
			return err
		}
		log.Info().Msg("database schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
