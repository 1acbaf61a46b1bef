package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Akram012388/skillissue-world/pkg/logger"
	"github.com/Akram012388/skillissue-world/pkg/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the catalog to AI agents over MCP stdio",
	Long: `Run a Model Context Protocol server on stdin and stdout exposing the
search_skills, get_skill, leaderboard, and install_command tools.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		service, _, err := openService(ctx)
		if err != nil {
			return err
		}
		defer service.Close()

		// stdout carries the protocol, so logs must stay on stderr.
		logger.SetLogOutput(os.Stderr)

		logger.G(ctx).Info("serving MCP over stdio")
		return mcpserver.New(service, appConfig.DefaultAgent()).ServeStdio(ctx, os.Stdin, os.Stdout)
	},
}
