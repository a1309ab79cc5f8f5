// Package server implements the localops MCP server.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/d-kuro/localops-mcp/internal/logging"
	"github.com/d-kuro/localops-mcp/internal/metrics"
	"github.com/d-kuro/localops-mcp/internal/security"
	"github.com/d-kuro/localops-mcp/internal/tools"
	"github.com/d-kuro/localops-mcp/internal/tools/command"
	"github.com/d-kuro/localops-mcp/internal/tools/file"
	"github.com/d-kuro/localops-mcp/pkg/version"
)

// ServerName is the implementation name announced to MCP clients.
const ServerName = "localops-mcp"

// loggerAdapter wraps logging.Logger to implement tools.Logger interface.
// This avoids circular dependency between logging and tools packages.
type loggerAdapter struct {
	*logging.Logger
}

// WithTool implements tools.Logger interface.
func (a *loggerAdapter) WithTool(toolName string) tools.Logger {
	return &loggerAdapter{Logger: a.Logger.WithTool(toolName)}
}

// WithSession implements tools.Logger interface.
func (a *loggerAdapter) WithSession(sessionID string) tools.Logger {
	return &loggerAdapter{Logger: a.Logger.WithSession(sessionID)}
}

// Server represents the localops MCP server.
type Server struct {
	mcpServer *mcp.Server
	registry  *tools.Registry
	logger    *logging.Logger
	metrics   *metrics.Metrics
	httpOpts  HTTPOptions
}

// HTTPOptions configures the HTTP transport.
type HTTPOptions struct {
	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero disables limiting.
	RateLimit float64
	// RateBurst is the bucket size. Zero derives it from RateLimit.
	RateBurst int
}

// Options configures the server instance.
type Options struct {
	Logger    *logging.Logger
	Validator security.Validator
	// Metrics is optional; nil disables tool call metrics and /metrics.
	Metrics *metrics.Metrics
	Command command.Options
	HTTP    HTTPOptions
}

// New creates a new localops MCP server with the given options.
func New(opts *Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger("info")
	}

	if opts.Validator == nil {
		opts.Validator = security.NewDefaultValidator()
	}

	toolCtx := &tools.Context{
		Logger:    &loggerAdapter{Logger: opts.Logger},
		Validator: opts.Validator,
	}
	if opts.Metrics != nil {
		toolCtx.Metrics = opts.Metrics
	}

	server := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    ServerName,
			Version: version.GetVersion().Version,
		}, nil),
		registry: tools.NewRegistry(toolCtx),
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		httpOpts: opts.HTTP,
	}

	if err := server.registerTools(opts.Command); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return server, nil
}

// Start validates the tool registry before any transport is served.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting localops MCP server",
		slog.String("version", version.GetVersion().Version),
		slog.Int("tools", s.registry.Count()),
	)

	if err := s.registry.Validate(); err != nil {
		return fmt.Errorf("tool registry validation failed: %w", err)
	}

	return nil
}

// Stop stops the MCP server gracefully.
//
// Commands still running are not interrupted.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping localops MCP server")

	select {
	case <-ctx.Done():
		s.logger.Warn("Server stop timed out")
		return ctx.Err()
	default:
		s.logger.Info("Server stopped successfully")
		return nil
	}
}

// GetRegistry returns the tool registry.
func (s *Server) GetRegistry() *tools.Registry {
	return s.registry
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// registerTools registers the file and command tools with the server.
func (s *Server) registerTools(commandOpts command.Options) error {
	s.logger.Debug("Registering tools with MCP server")

	toolCtx := s.registry.Context()

	allTools := append(
		file.CreateFileTools(toolCtx),
		command.CreateCommandTools(toolCtx, commandOpts)...,
	)

	if err := s.registry.Register(allTools...); err != nil {
		return err
	}

	s.registry.RegisterAll(s.mcpServer)

	s.logger.Info("Successfully registered tools",
		slog.Int("count", s.registry.Count()),
		slog.Any("tools", s.registry.List()),
	)

	return nil
}

// Serve runs the MCP server with the specified transport.
// It connects the MCP server to the transport and waits for either
// the session to complete or the context to be cancelled.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("Starting MCP server transport",
		slog.String("transport", fmt.Sprintf("%T", transport)),
	)

	session, err := s.mcpServer.Connect(ctx, transport)
	if err != nil {
		return fmt.Errorf("failed to connect MCP server: %w", err)
	}

	sessionDone := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("MCP session goroutine panicked",
					slog.Any("panic", r))
				sessionDone <- fmt.Errorf("session panicked: %v", r)
			}
		}()
		sessionDone <- session.Wait()
	}()

	select {
	case err := <-sessionDone:
		s.logger.Info("MCP session finished")
		return err
	case <-ctx.Done():
		s.logger.Info("MCP server shutting down due to context cancellation")
		_ = session.Close()
		return ctx.Err()
	}
}
