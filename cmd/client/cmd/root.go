package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"markd/cmd/client/cmd/types"
	"markd/internal/app/client"
	"markd/internal/app/client/config"
	"markd/internal/utils/logger"
)

var (
	cfg       *config.Config
	log       *slog.Logger
	app       *client.App
	debug     bool
	hubURL    string
	statePath string
)

var rootCmd = &cobra.Command{
	Use:   "markd",
	Short: "markd is a terminal client for the markd bookmark service",
	Long: `markd keeps a personal bookmark list on a markd hub.

Sign in once and the session is stored locally. Tokens rotate
automatically, so commands keep working until you log out or the
session is revoked. The watch command follows the live change feed
and mirrors edits made from other devices as they happen.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	// Command line flags win over the environment.
	if hubURL != "" {
		cfg.HubURL = hubURL
	}
	if statePath != "" {
		cfg.StatePath = statePath
	}
	if debug {
		cfg.Env = config.EnvDev
	}

	log = logger.New(cfg.Env)

	var err error
	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("cannot initialize client: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))

	return nil
}

func init() {
	cobra.OnInitialize()

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&hubURL, "hub", "", "markd hub URL")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "path to the session state file")
}
