// Package tools provides centralized response utilities for MCP tool handlers.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// JSONResponse creates a response whose single text content is the
// indented JSON encoding of data.
func JSONResponse(data any) *mcp.CallToolResultFor[any] {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return ErrorPayloadResponsef("failed to marshal JSON: %v", err)
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
		IsError: false,
	}
}

// ErrorPayloadResponse creates an {"error": message} response flagged as
// an error.
func ErrorPayloadResponse(message string) *mcp.CallToolResultFor[any] {
	jsonBytes, err := json.MarshalIndent(ErrorPayload{Error: message}, "", "  ")
	if err != nil {
		// A struct with one string field always marshals.
		jsonBytes = []byte(fmt.Sprintf("{\"error\": %q}", message))
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
		IsError: true,
	}
}

// ErrorPayloadResponsef creates an error payload response with formatted message.
func ErrorPayloadResponsef(format string, args ...any) *mcp.CallToolResultFor[any] {
	return ErrorPayloadResponse(fmt.Sprintf(format, args...))
}

// ResultText returns the concatenated text content of a result.
func ResultText(result *mcp.CallToolResultFor[any]) string {
	if result == nil {
		return ""
	}
	var text string
	for _, c := range result.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			text += tc.Text
		}
	}
	return text
}

// DecodeResult unmarshals the JSON text content of result into v.
func DecodeResult(result *mcp.CallToolResultFor[any], v any) error {
	text := ResultText(result)
	if text == "" {
		return fmt.Errorf("result has no text content")
	}
	return json.Unmarshal([]byte(text), v)
}
