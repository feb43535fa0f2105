package main

import (
	"fmt"
	"os"

	"store-admin/internal/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Upsert shared reference data (order types, days of week, delivery types)",
		Long: `Upsert shared reference data into the public schema.

Without a file the built-in defaults are used. The file is YAML with the
keys order_types, days_of_week and types_delivery.

Examples:
  storectl seed
  storectl seed configs/reference.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := store.DefaultReference
			if len(args) == 1 {
				var err error
				if ref, err = loadReference(args[0]); err != nil {
					return err
				}
			}

			_, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.SeedReference(cmd.Context(), ref); err != nil {
				return err
			}
			fmt.Printf("Seeded %d order types, %d days, %d delivery types\n",
				len(ref.OrderTypes), len(ref.DaysOfWeek), len(ref.TypesDelivery))
			return nil
		},
	}
	return cmd
}

// loadReference reads reference data from a YAML file
func loadReference(path string) (store.Reference, error) {
	var ref store.Reference
	data, err := os.ReadFile(path)
	if err != nil {
		return ref, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return ref, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(ref.OrderTypes) < store.DefaultOrderTypes {
		return ref, fmt.Errorf("%s: at least %d order types are required", path, store.DefaultOrderTypes)
	}
	if len(ref.DaysOfWeek) != store.DefaultDays {
		return ref, fmt.Errorf("%s: exactly %d days of week are required", path, store.DefaultDays)
	}
	return ref, nil
}
