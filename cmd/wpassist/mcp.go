package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/vampirenirmal/wpassist/internal/pipeline"
	wperrors "github.com/vampirenirmal/wpassist/pkg/wpassist/errors"
)

const generateToolName = "generate_wordpress_code"

type generateInput struct {
	Task          string `json:"task" jsonschema:"the WordPress development task to write code for"`
	Model         string `json:"model,omitempty" jsonschema:"model tier, fast (default) or advanced"`
	ShowReasoning bool   `json:"show_reasoning,omitempty" jsonschema:"include the full answer of the model"`
	CrossCheck    bool   `json:"cross_check,omitempty" jsonschema:"review the code with a second QA request"`
}

type generateOutput struct {
	RunID     string            `json:"run_id"`
	State     string            `json:"state"`
	Fragments []string          `json:"fragments"`
	Reasoning string            `json:"reasoning,omitempty"`
	Verdict   *pipeline.Verdict `json:"verdict,omitempty"`
}

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the code assistant as an MCP tool over stdio",
		Long: `mcp exposes the generate_wordpress_code tool to MCP clients over stdin and
stdout. The provider key is read from --api-key or the provider's
environment variable when the server starts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdin carries the protocol, so the key cannot be prompted for.
			a.promptKey = nil

			server := mcp.NewServer(&mcp.Implementation{Name: "wpassist", Version: version}, nil)
			mcp.AddTool(server, &mcp.Tool{
				Name:        generateToolName,
				Description: "Write WordPress PHP code for a task and optionally cross-check it",
			}, a.generateTool)

			a.logger.Info("mcp server starting", "tool", generateToolName)
			if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}
}

// generateTool runs one pipeline request for an MCP client. Failed runs are
// reported as tool errors carrying the failure kind.
func (a *app) generateTool(ctx context.Context, _ *mcp.CallToolRequest, in generateInput) (*mcp.CallToolResult, generateOutput, error) {
	model := in.Model
	if model == "" {
		model = "fast"
	}

	req, err := a.newRequest(in.Task, model, in.ShowReasoning, in.CrossCheck)
	if err != nil {
		return nil, generateOutput{}, err
	}

	result, err := a.orch.Run(ctx, req)
	if err != nil {
		f := wperrors.Describe(err)
		return nil, generateOutput{}, fmt.Errorf("[%s] %s", f.Kind, f.Message)
	}

	out := generateOutput{
		RunID:     result.RunID,
		State:     result.State.String(),
		Fragments: result.Fragments,
		Verdict:   result.Verdict,
	}
	if result.Reasoning != nil {
		out.Reasoning = *result.Reasoning
	}
	return nil, out, nil
}
