package cmd

import (
	"log/slog"
	"os"

	"github.com/slush-dev/minisdk"
	"github.com/slush-dev/minisdk/apps/demo/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP (Model Context Protocol) server on stdio",
	Long: `Start an MCP server that exposes the SDK as tools and resources
for LLM integration.

The server communicates via JSON-RPC over stdin/stdout, so SDK log lines
go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		s, err := openSession(minisdk.NewSlogLogger(logger))
		if err != nil {
			return err
		}
		defer s.closeLogged(cmd.Context(), logger)

		srv := mcpserver.New(s.sdk, s.store, rootCmd.Version, logger)
		return srv.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
