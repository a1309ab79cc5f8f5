// Package tools provides tool registry and unified registration framework for MCP tools.
package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Registry manages the collection of available tools.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*ServerTool
	ctx   *Context
}

// NewRegistry creates a new tool registry with the given context.
func NewRegistry(ctx *Context) *Registry {
	return &Registry{
		tools: make(map[string]*ServerTool),
		ctx:   ctx,
	}
}

// Context returns the tool context shared by the registered tools.
func (r *Registry) Context() *Context {
	return r.ctx
}

// Register registers tools with the registry.
func (r *Registry) Register(tools ...*ServerTool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tool := range tools {
		if tool == nil || tool.Tool == nil {
			return fmt.Errorf("tool definition cannot be nil")
		}

		name := tool.Tool.Name
		if name == "" {
			return fmt.Errorf("tool name cannot be empty")
		}

		if _, exists := r.tools[name]; exists {
			return fmt.Errorf("tool %s is already registered", name)
		}

		r.tools[name] = tool
	}
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (*ServerTool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// List returns all registered tool names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tools)
}

// GetToolsByCategory returns the names of tools in category, sorted.
func (r *Registry) GetToolsByCategory(category string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name, tool := range r.tools {
		if tool.Category == category {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names
}

// Validate checks if all registered tools are properly configured.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, tool := range r.tools {
		if tool.Tool.Name != name {
			return fmt.Errorf("tool name mismatch: registered as %s but reports name %s", name, tool.Tool.Name)
		}

		if tool.Tool.Description == "" {
			return fmt.Errorf("tool %s has empty description", name)
		}

		if tool.RegisterFunc == nil {
			return fmt.Errorf("tool %s has nil register function", name)
		}
	}

	return nil
}

// RegisterAll adds every registered tool to server in name order.
func (r *Registry) RegisterAll(server *mcp.Server) {
	for _, name := range r.List() {
		tool, _ := r.Get(name)
		tool.RegisterFunc(server)
	}
}

// =============================================================================
// Tool builder
// =============================================================================

// ToolBuilder provides a fluent interface for building tools with type safety.
type ToolBuilder[T any] struct {
	name        string
	description string
	category    string
	handler     func(context.Context, *mcp.ServerSession, *mcp.CallToolParamsFor[T]) (*mcp.CallToolResultFor[any], error)
	ctx         *Context
}

// NewToolBuilder creates a new tool builder with type-safe parameter validation.
func NewToolBuilder[T any](name, description string, ctx *Context) *ToolBuilder[T] {
	return &ToolBuilder[T]{
		name:        name,
		description: description,
		category:    "unknown",
		ctx:         ctx,
	}
}

// WithCategory sets the tool category for organization.
func (b *ToolBuilder[T]) WithCategory(category string) *ToolBuilder[T] {
	b.category = category
	return b
}

// WithHandler sets the tool handler function with proper MCP SDK typing.
func (b *ToolBuilder[T]) WithHandler(handler func(context.Context, *mcp.ServerSession, *mcp.CallToolParamsFor[T]) (*mcp.CallToolResultFor[any], error)) *ToolBuilder[T] {
	b.handler = handler
	return b
}

// Build creates the ServerTool. The registered handler is wrapped by
// Instrument.
func (b *ToolBuilder[T]) Build() *ServerTool {
	if b.handler == nil {
		panic(fmt.Sprintf("handler not set for tool %s", b.name))
	}

	tool := &mcp.Tool{
		Name:        b.name,
		Description: b.description,
	}
	handler := Instrument(b.ctx, b.name, b.handler)

	return &ServerTool{
		Tool:     tool,
		Category: b.category,
		RegisterFunc: func(server *mcp.Server) {
			mcp.AddTool(server, tool, handler)
		},
	}
}

// Instrument wraps a tool handler with call logging, metrics and panic
// recovery. The wrapped handler never returns a Go error: failures become
// error payloads.
func Instrument[T any](tc *Context, name string, handler func(context.Context, *mcp.ServerSession, *mcp.CallToolParamsFor[T]) (*mcp.CallToolResultFor[any], error)) func(context.Context, *mcp.ServerSession, *mcp.CallToolParamsFor[T]) (*mcp.CallToolResultFor[any], error) {
	return func(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[T]) (result *mcp.CallToolResultFor[any], err error) {
		logger := tc.ToolLogger(name)
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				logger.Error("Tool handler panicked", "panic", r)
				result = ErrorPayloadResponsef("internal error: %v", r)
				err = nil
			}

			duration := time.Since(start)
			isError := result == nil || result.IsError
			if tc != nil && tc.Metrics != nil {
				tc.Metrics.ObserveToolCall(name, isError, duration)
			}
			logger.Debug("Tool call finished", "duration", duration, "is_error", isError)
		}()

		if params == nil {
			params = &mcp.CallToolParamsFor[T]{}
		}

		result, err = handler(ctx, session, params)
		if err != nil {
			logger.Error("Tool handler failed", "error", err)
			result = ErrorPayloadResponse(err.Error())
			err = nil
		}
		if result == nil {
			result = ErrorPayloadResponse("tool returned no result")
		}
		return result, nil
	}
}
