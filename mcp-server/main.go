package main

import (
	"fmt"
	"os"

	"deezer/config"
	"deezer/deezer"
	"deezer/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	serverName    = "deezer-mcp"
	serverVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.InitLogger(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	opts := cfg.ClientOptions()
	opts.Logger = logger.Named("deezer")
	client, err := deezer.NewClient(opts)
	if err != nil {
		logger.Fatal("Failed to create catalog client", zap.Error(err))
	}

	tools := newCatalogTools(deezer.NewCatalog(client, cfg.MaxLimit), client.BaseURL(), cfg.DefaultLimit, logger)
	mcpServer := newServer(tools, logger)

	logger.Info("Starting MCP server",
		zap.String("name", serverName),
		zap.String("version", serverVersion),
		zap.String("base_url", client.BaseURL()),
		zap.Int("max_limit", cfg.MaxLimit))

	if err := server.ServeStdio(mcpServer, server.WithErrorLogger(zap.NewStdLog(logger))); err != nil {
		logger.Error("Server error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// newServer registers every tool and the info resource.
func newServer(tools *catalogTools, logger *zap.Logger) *server.MCPServer {
	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithLogging(),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(loggingMiddleware(logger)),
	)

	mcpServer.AddTools(tools.serverTools()...)

	infoResource := mcp.NewResource(
		serverInfoURI,
		"Server Information",
		mcp.WithResourceDescription("Catalog endpoint, limits and available tools"),
		mcp.WithMIMEType("application/json"),
	)
	mcpServer.AddResource(infoResource, tools.serverInfoHandler)

	return mcpServer
}
