package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Akram012388/skillissue-world/pkg/catalog"
	"github.com/Akram012388/skillissue-world/pkg/catalog/sqlstore"
	"github.com/Akram012388/skillissue-world/pkg/config"
	"github.com/Akram012388/skillissue-world/pkg/logger"
	"github.com/Akram012388/skillissue-world/pkg/presenter"
)

var (
	configFile string

	// appConfig is populated by the root command before any subcommand runs.
	appConfig config.Config

	shutdownTracing func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "skillissue",
	Short: "Browse, rank, and serve a catalog of AI coding agent skills",
	Long: `skillissue is a directory of skills for AI coding agents (Claude Code, Codex CLI,
Cursor, OpenCode, Gemini CLI). It seeds the catalog from data files, serves the
web directory and JSON API, and offers a terminal browser and an MCP server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.Init(viper.GetViper(), configFile); err != nil {
			return err
		}
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		if err := logger.Configure(cfg.Logger()); err != nil {
			return err
		}
		appConfig = cfg

		shutdown, err := initTracing(cmd.Context(), cfg)
		if err != nil {
			logger.G(cmd.Context()).WithError(err).Warn("failed to initialize tracing")
			return nil
		}
		shutdownTracing = shutdown
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		if shutdownTracing == nil {
			return
		}
		if err := shutdownTracing(context.WithoutCancel(cmd.Context())); err != nil {
			logger.G(cmd.Context()).WithError(err).Warn("failed to shut down tracing")
		}
	},
}

// openService opens the configured store and wraps it in a catalog service.
// Callers must Close the returned service.
func openService(ctx context.Context) (*catalog.Service, *sqlstore.Store, error) {
	store, err := sqlstore.Open(ctx, appConfig.Database.Driver, appConfig.Database.DSN)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open catalog store")
	}
	return catalog.NewService(store), store, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $HOME/.skillissue/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (panic, fatal, error, warn, info, debug, trace)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text or json)")
	rootCmd.PersistentFlags().String("db-driver", "sqlite", "Database driver (sqlite or postgres)")
	rootCmd.PersistentFlags().String("db-dsn", "", "Database file path or connection URL (default $HOME/.skillissue/catalog.db)")
	rootCmd.PersistentFlags().String("agent", "claude-code", "Agent whose install command is shown (claude-code, codex-cli, cursor, opencode, gemini-cli)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("database.driver", rootCmd.PersistentFlags().Lookup("db-driver"))
	viper.BindPFlag("database.dsn", rootCmd.PersistentFlags().Lookup("db-dsn"))
	viper.BindPFlag("agent", rootCmd.PersistentFlags().Lookup("agent"))
}

func main() {
	rootCmd.AddCommand(withTracing(serveCmd))
	rootCmd.AddCommand(withTracing(seedCmd))
	rootCmd.AddCommand(withTracing(normalizeCmd))
	rootCmd.AddCommand(withTracing(validateCmd))
	rootCmd.AddCommand(withTracing(resetCmd))
	rootCmd.AddCommand(withTracing(searchCmd))
	rootCmd.AddCommand(withTracing(leaderboardCmd))
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		presenter.Error(err, "Command failed")
		os.Exit(1)
	}
}
