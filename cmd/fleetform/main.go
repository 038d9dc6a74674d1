package main

import (
	"context"
	"os"

	"log/slog"

	"github.com/spf13/cobra"

	_ "github.com/fleetform/fleetform/adapters/drivers/provider/aks"
	_ "github.com/fleetform/fleetform/adapters/drivers/provider/gke"
	"github.com/fleetform/fleetform/internal/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fleetform",
		Short:   "Fleetform CLI",
		Long:    "Fleetform CLI",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultConfig := os.Getenv("FLEETFORM_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "fleetform.yml"
	}
	cmd.PersistentFlags().String("config", defaultConfig, "Target configuration file (env FLEETFORM_CONFIG)")

	defaultDB := os.Getenv("FLEETFORM_DB_URL")
	if defaultDB == "" {
		defaultDB = "sqlite:fleetform.db"
	}
	cmd.PersistentFlags().String("db-url", defaultDB, "Endpoint store URL (env FLEETFORM_DB_URL) (sqlite:/path/to.db | mem:)")

	cmd.PersistentFlags().String("log-format", "text", "Log format (text|json) (env FLEETFORM_LOG_FORMAT)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		format, _ := c.Flags().GetString("log-format")
		if env := os.Getenv("FLEETFORM_LOG_FORMAT"); env != "" { // env overrides flag
			format = env
		}
		l, err := logging.New(format, slog.LevelInfo)
		if err != nil {
			return err
		}
		ctx := logging.WithLogger(c.Context(), l)
		c.SetContext(ctx)
		return nil
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdUp())
	cmd.AddCommand(newCmdEndpoints())
	return cmd
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		os.Exit(1)
	}
}
