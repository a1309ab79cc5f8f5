// Package tools provides tool registry and common types for MCP tools.
package tools

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Context contains common dependencies needed by tools.
type Context struct {
	Logger    Logger
	Validator Validator
	// Metrics is optional; nil disables instrumentation.
	Metrics Metrics
}

// Logger defines the logging interface for tools.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithTool(toolName string) Logger
	WithSession(sessionID string) Logger
}

// Validator defines the security validation interface.
type Validator interface {
	ValidatePath(path string) error
	ValidateCommand(cmd string) error
	SanitizePath(path string) (string, error)
}

// Metrics records tool call outcomes.
type Metrics interface {
	ObserveToolCall(tool string, isError bool, duration time.Duration)
}

// ServerTool pairs an MCP tool definition with the function that adds it,
// with its typed handler, to a server.
type ServerTool struct {
	Tool         *mcp.Tool
	Category     string
	RegisterFunc func(server *mcp.Server)
}

// ErrorPayload is the JSON body returned when a tool rejects a request or
// fails as a whole.
type ErrorPayload struct {
	Error string `json:"error"`
}

// ToolLogger returns the context logger scoped to toolName, or a no-op
// logger when the context has none.
func (c *Context) ToolLogger(toolName string) Logger {
	if c == nil || c.Logger == nil {
		return NopLogger{}
	}
	return c.Logger.WithTool(toolName)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any)        {}
func (NopLogger) Info(string, ...any)         {}
func (NopLogger) Warn(string, ...any)         {}
func (NopLogger) Error(string, ...any)        {}
func (n NopLogger) WithTool(string) Logger    { return n }
func (n NopLogger) WithSession(string) Logger { return n }
