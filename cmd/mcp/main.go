package main

import (
	"log/slog"
	"os"

	"github.com/fnt-jany/day4/internal/agent"
	"github.com/fnt-jany/day4/internal/config"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	// Stdout belongs to the stdio transport, so logs go to stderr.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := config.Load()
	s := agent.New(cfg)

	// MCP_ADDR set: serve the streamable HTTP transport for remote
	// clients. Unset: classic stdio for local MCP hosts.
	if cfg.MCPAddr != "" {
		slog.Info("mcp gateway starting", "addr", cfg.MCPAddr, "api", cfg.APIBase)
		httpServer := server.NewStreamableHTTPServer(s)
		if err := httpServer.Start(cfg.MCPAddr); err != nil {
			slog.Error("mcp http server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := server.ServeStdio(s); err != nil {
		slog.Error("mcp stdio server failed", "error", err)
		os.Exit(1)
	}
}
