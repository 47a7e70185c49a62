// ABOUTME: MCP command starts a Model Context Protocol server on stdio
// ABOUTME: Exposes summaries, vocabulary, and history to LLM agents
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/junwei/hometalk/internal/mcp"
)

// NewMCPCmd creates the MCP command.
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs hometalk as an MCP (Model Context Protocol) server on stdio,
exposing daily summaries, study vocabulary, and conversation history
to LLM agents.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by the MCP client)
  hometalk mcp

  # Configure in an MCP client config:
  # {
  #   "mcpServers": {
  #     "hometalk": {
  #       "command": "hometalk",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	server := mcpserver.NewMCPServer(
		"hometalk",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, p.store, p.agg, p.vocab, p.log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p.log.Info("mcp server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		p.log.Info("shutdown signal received")
		return nil
	case err := <-serverErr:
		return err
	}
}
