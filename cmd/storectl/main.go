package main

import (
	"fmt"
	"os"

	"store-admin/config"
	"store-admin/internal/store"
	"store-admin/internal/util"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "storectl",
		Short:         "Operator tool for the store admin database and bots",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(tenantCmd())
	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(botsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore loads configuration and connects to the database
func openStore() (*config.Config, *store.Store, error) {
	cfg := config.Load()
	if err := util.InitLogger(cfg.Server.Env); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, db, nil
}
