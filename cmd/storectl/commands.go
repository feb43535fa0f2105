package main

import (
	"fmt"
	"strconv"

	"store-admin/internal/bot"
	"store-admin/internal/broker"
	"store-admin/internal/redisclient"
	"store-admin/internal/service"
	"store-admin/internal/tenant"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the shared tables in the public schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Public schema is up to date")
			return nil
		},
	}
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenant schemas",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create [user-id]",
		Short: "Create the schema and tables of a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || userID <= 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			_, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			schema := tenant.FromUserID(userID)
			if err := db.CreateTenantSchema(cmd.Context(), schema); err != nil {
				return err
			}
			fmt.Printf("Tenant schema %q ready\n", schema)
			return nil
		},
	})

	return cmd
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage administrators",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Register an administrator and create its tenant schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			auth := service.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
			userID, err := auth.CreateUser(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := db.CreateTenantSchema(cmd.Context(), tenant.FromUserID(userID)); err != nil {
				return fmt.Errorf("user %d created but its schema failed: %w", userID, err)
			}
			fmt.Printf("User %d created with schema %q\n", userID, tenant.FromUserID(userID))
			return nil
		},
	}
	create.Flags().String("email", "", "administrator email")
	create.Flags().String("password", "", "administrator password")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func botsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bots",
		Short: "Manage store bots",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Point the webhook of every registered bot at this deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			rc, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return err
			}
			defer rc.Close()

			registrar := bot.NewRegistrar(cfg.Bot.TelegramAPIURL, cfg.Bot.WebhookHost, cfg.Bot.WebhookPath, rc)
			producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicBotUpdates)
			defer producer.Close()

			bots := service.NewBotService(db, rc, broker.NewUpdateRelay(producer), registrar)
			changed, err := bots.SyncBots(cmd.Context())
			fmt.Printf("%d webhook(s) updated\n", changed)
			return err
		},
	})

	return cmd
}
