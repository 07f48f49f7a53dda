package main

import (
	"fmt"
	"log/slog"
	"strconv"

	appconfig "github.com/reachly/leadmatch/internal/config"
	"github.com/reachly/leadmatch/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func leadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Manage vendor lead balances",
	}

	cmd.AddCommand(leadsAddCmd())
	cmd.AddCommand(leadsShowCmd())

	return cmd
}

func leadsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <vendor-email> <count>",
		Short: "Credit leads to a vendor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid count %q: %w", args[1], err)
			}

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			balance, err := store.AddLeads(cmd.Context(), args[0], count)
			if err != nil {
				return err
			}
			slog.Info("Leads added", "vendor", args[0], "added", count, "balance", balance)
			return nil
		},
	}
}

func leadsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <vendor-email>",
		Short: "Show a vendor's lead balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			balance, err := store.GetLeads(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d leads\n", args[0], balance)
			return nil
		},
	}
}

func openStorage() (*storage.SQLiteStorage, error) {
	dbPath := appconfig.ExpandPath(viper.GetString("database.path"))
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}
