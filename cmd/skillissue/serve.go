package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Akram012388/skillissue-world/pkg/config"
	"github.com/Akram012388/skillissue-world/pkg/logger"
	"github.com/Akram012388/skillissue-world/pkg/presenter"
	"github.com/Akram012388/skillissue-world/pkg/webui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the skill directory web server",
	Long: `Start the web server that renders the skill directory pages and answers the
JSON API under /api.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return runServe(ctx, appConfig)
	},
}

// serverConfigFrom maps the application config onto the web server settings.
func serverConfigFrom(cfg config.Config) *webui.ServerConfig {
	return &webui.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		CORSOrigins:     cfg.Server.CORSOrigins,
		DefaultAgent:    cfg.DefaultAgent(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	service, _, err := openService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()

	serverConfig := serverConfigFrom(cfg)
	server, err := webui.NewServer(service, serverConfig)
	if err != nil {
		return err
	}

	logger.G(ctx).WithField("driver", cfg.Database.Driver).Debug("catalog store opened")
	presenter.Success(fmt.Sprintf("Skill directory starting on %s", serverConfig.URL()))
	presenter.Info("Press Ctrl+C to stop the server")

	if err := server.Start(ctx); err != nil {
		return err
	}

	presenter.Info("Web server stopped")
	return nil
}

func init() {
	serveCmd.Flags().String("host", "localhost", "Host to bind the web server to")
	serveCmd.Flags().Int("port", 8080, "Port to run the web server on")
	serveCmd.Flags().StringSlice("cors-origin", nil, "Allowed CORS origin, may contain * wildcards (repeatable)")

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.cors_origins", serveCmd.Flags().Lookup("cors-origin"))
}
