package command

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/d-kuro/localops-mcp/internal/prompts"
	"github.com/d-kuro/localops-mcp/internal/tools"
)

const executeCommandToolName = "execute_command"

// ExecuteCommandArgs represents the arguments for the execute_command tool.
type ExecuteCommandArgs struct {
	Command string `json:"command" jsonschema:"The shell command to execute."`
}

// CreateExecuteCommandTool creates the execute_command tool using MCP SDK patterns.
func CreateExecuteCommandTool(ctx *tools.Context, executor *ShellExecutor) *tools.ServerTool {
	return tools.NewToolBuilder[ExecuteCommandArgs](executeCommandToolName, prompts.ExecuteCommandToolDoc, ctx).
		WithCategory("system").
		WithHandler(executeCommandHandler(ctx, executor)).
		Build()
}

func executeCommandHandler(ctx *tools.Context, executor *ShellExecutor) func(context.Context, *mcp.ServerSession, *mcp.CallToolParamsFor[ExecuteCommandArgs]) (*mcp.CallToolResultFor[any], error) {
	return func(ctxReq context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ExecuteCommandArgs]) (*mcp.CallToolResultFor[any], error) {
		args := params.Arguments
		logger := ctx.ToolLogger(executeCommandToolName)

		if args.Command == "" {
			logger.Error("Missing command parameter")
			return tools.ErrorPayloadResponse("Missing command parameter"), nil
		}

		if err := ctx.Validator.ValidateCommand(args.Command); err != nil {
			logger.Error("Command validation failed", "command", args.Command, "error", err)
			return tools.ErrorPayloadResponsef("Command validation failed: %v", err), nil
		}

		result := executor.Execute(logger, args.Command)
		logger.Info("Command finished", "command", args.Command, "lines", len(result.Output))

		return tools.JSONResponse(result), nil
	}
}
