package main

import (
	"fmt"
	"os"

	"github.com/amirasaad/donation/infra/initializer"
	"github.com/amirasaad/donation/pkg/app"
	"github.com/amirasaad/donation/pkg/config"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:          "donation",
		Short:        "Administer the donation service: schema, funds and ledger checks",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.GetEnv(config.EnvFileVar, ".env"),
		"environment file to load (default from "+config.EnvFileVar+")")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(fundCmd())
	rootCmd.AddCommand(reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and wires the application.
func bootstrap() (*app.App, *gorm.DB, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	deps, db, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	return app.New(deps, cfg), db, nil
}
