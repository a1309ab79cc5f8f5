// Package main implements the localops-mcp server executable.
// It provides a Model Context Protocol server that lets a client edit and
// read local files, search a directory tree, and run shell commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/d-kuro/localops-mcp/internal/cmd"
	"github.com/d-kuro/localops-mcp/internal/config"
	"github.com/d-kuro/localops-mcp/internal/logging"
	"github.com/d-kuro/localops-mcp/internal/metrics"
	"github.com/d-kuro/localops-mcp/internal/security"
	"github.com/d-kuro/localops-mcp/internal/server"
	"github.com/d-kuro/localops-mcp/pkg/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "localops-mcp",
	Short: "Local operations MCP server",
	Long: `localops-mcp provides a Model Context Protocol server exposing four tools:
edit_file, get_files_contents, search_string and execute_command.

It speaks MCP over stdio by default, or over HTTP (SSE) with --http.`,
	SilenceUsage: true,
	RunE:         runServer,
}

// serverFlags holds the flags for the server command
type serverFlags struct {
	configPath string
	httpAddr   string
}

var serverOpts = &serverFlags{}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information and exit")

	rootCmd.Flags().StringVarP(&serverOpts.configPath, "config", "c", "", "Config file (default ~/.config/localops-mcp/config.yaml)")
	rootCmd.Flags().StringVar(&serverOpts.httpAddr, "http", "", "HTTP server address (e.g., :8080); overrides server.http_addr")

	rootCmd.AddCommand(cmd.NewVersionCmd())
}

// runServer starts the MCP server
func runServer(cmd *cobra.Command, args []string) error {
	if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
		fmt.Println(version.GetVersion().String())
		return nil
	}

	cfg, err := config.Load(serverOpts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if serverOpts.httpAddr != "" {
		cfg.Server.HTTPAddr = serverOpts.httpAddr
	}

	// stdout carries the stdio transport, so logs always go to stderr.
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	opts := &server.Options{
		Logger:    logger,
		Validator: security.NewValidator(cfg.Security.Policy()),
		Command:   cfg.Command.CommandOptions(),
		HTTP: server.HTTPOptions{
			RateLimit: cfg.Server.RateLimit,
			RateBurst: cfg.Server.RateBurst,
		},
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = metrics.New()
	}

	srv, err := server.New(opts)
	if err != nil {
		logger.Error("Failed to create server", slog.Any("error", err))
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		logger.Error("Failed to start server", slog.Any("error", err))
		return fmt.Errorf("failed to start server: %w", err)
	}

	transport := "stdio"
	if cfg.Server.HTTPAddr != "" {
		transport = "http"
	}

	logger.Info("localops MCP server starting",
		slog.String("version", version.GetVersion().Version),
		slog.String("transport", transport),
		slog.Int("tools_available", srv.GetRegistry().Count()))

	serverDone := make(chan error, 1)
	go func() {
		if cfg.Server.HTTPAddr != "" {
			serverDone <- srv.ServeHTTP(ctx, cfg.Server.HTTPAddr)
			return
		}
		serverDone <- srv.Serve(ctx, mcp.NewStdioTransport())
	}()

	var serveErr error
	select {
	case err := <-serverDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Server error", slog.Any("error", err))
			serveErr = err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
		if err := <-serverDone; err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Server error", slog.Any("error", err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping server", slog.Any("error", err))
	}

	logger.Info("localops MCP server stopped")
	return serveErr
}
