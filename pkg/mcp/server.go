// Package mcp exposes popups over the Model Context Protocol. The
// server process has no terminal of its own, so the popup tool spawns
// the popup CLI as a subprocess that attaches to /dev/tty and reports
// the result JSON back on its stdout.
package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ormasoftchile/popup/pkg/schema"
	"github.com/ormasoftchile/popup/pkg/templates"
)

// NewServer creates a new MCP server with popup tools registered.
// Templates loaded from templatePath each become their own tool, named
// popup_template_<name>.
func NewServer(version, templatePath string) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		"popup",
		version,
		server.WithToolCapabilities(true),
	)

	popupSchema, err := json.Marshal(schema.ToolInputSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal popup tool schema: %w", err)
	}

	// The definition uses element-as-key discrimination, which the
	// builder helpers cannot express; these tools carry raw schemas.
	s.AddTool(
		mcp.NewToolWithRawSchema("popup",
			"Show an interactive popup to the user and return their response. Elements are discriminated by label key (text, markdown, slider, checkbox, textbox, choice, multiselect, group) and can nest conditionally via reveals, option keys and when-expressions.",
			popupSchema,
		),
		HandlePopup,
	)

	s.AddTool(
		mcp.NewToolWithRawSchema("popup_validate",
			"Validate a popup definition without showing it. Pass the definition inline or a path to a JSON/YAML file.",
			validateInputSchema(),
		),
		HandleValidate,
	)

	s.AddTool(
		mcp.NewTool("popup_schema",
			mcp.WithDescription("Return the JSON Schema for popup definition documents"),
		),
		HandleSchema,
	)

	cfg, err := templates.LoadConfig(templatePath)
	if err != nil {
		return nil, err
	}
	for _, name := range cfg.Names() {
		t := cfg.Templates[name]
		raw, err := json.Marshal(t.InputSchema())
		if err != nil {
			return nil, fmt.Errorf("marshal schema for template %q: %w", name, err)
		}
		desc := t.Description
		if desc == "" {
			desc = fmt.Sprintf("Show the %q popup template to the user and return their response.", name)
		}
		s.AddTool(
			mcp.NewToolWithRawSchema("popup_template_"+name, desc, raw),
			HandleTemplate(cfg, name),
		)
	}

	return s, nil
}

func validateInputSchema() json.RawMessage {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"definition": map[string]any{
				"type":        "object",
				"description": "Popup definition document to validate.",
			},
			"path": map[string]any{
				"type":        "string",
				"description": "Path to a popup definition file (JSON or YAML).",
			},
		},
	}
	raw, _ := json.Marshal(s)
	return raw
}
