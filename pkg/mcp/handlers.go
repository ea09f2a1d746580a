package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ormasoftchile/popup/pkg/schema"
	"github.com/ormasoftchile/popup/pkg/templates"
)

// HandlePopup implements the popup MCP tool: validate the inline
// definition, show it via the popup CLI, and pass the result JSON back.
func HandlePopup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	timeoutMS := 0
	if t, ok := args["timeout_ms"].(float64); ok {
		timeoutMS = int(t)
	}

	doc := make(map[string]any, len(args))
	for k, v := range args {
		if k != "timeout_ms" {
			doc[k] = v
		}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return errorResult(fmt.Sprintf("encode definition: %s", err)), nil
	}

	def, perr := schema.Parse(data)
	if perr != nil {
		return errorResult(perr.Error()), nil
	}
	if errs := schema.Validate(def); hasErrors(errs) {
		return errorResult(formatErrors(errs)), nil
	}

	return showPopup(ctx, data, timeoutMS)
}

// HandleValidate implements the popup_validate MCP tool.
func HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	var def *schema.PopupDefinition
	var errs []*schema.ValidationError

	if path, _ := args["path"].(string); path != "" {
		def, errs = schema.ValidateFile(path)
	} else if doc, ok := args["definition"].(map[string]any); ok {
		data, err := json.Marshal(doc)
		if err != nil {
			return errorResult(fmt.Sprintf("encode definition: %s", err)), nil
		}
		var perr error
		def, perr = schema.Parse(data)
		if perr != nil {
			return errorResult(perr.Error()), nil
		}
		errs = schema.Validate(def)
	} else {
		return errorResult("either 'definition' or 'path' is required"), nil
	}

	if hasErrors(errs) {
		return errorResult(formatErrors(errs)), nil
	}
	return textResult(fmt.Sprintf("✓ definition is valid (%d top-level elements)", len(def.Elements))), nil
}

// HandleSchema implements the popup_schema MCP tool.
func HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := schema.DefinitionSchema()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

// HandleTemplate returns the handler for one template tool: expand the
// template with the call's params and show the resulting popup.
func HandleTemplate(cfg *templates.Config, name string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		timeoutMS := 0
		params := make(map[string]any, len(args))
		for k, v := range args {
			if k == "timeout_ms" {
				if t, ok := v.(float64); ok {
					timeoutMS = int(t)
				}
				continue
			}
			params[k] = v
		}

		def, err := cfg.Render(name, params)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if errs := schema.Validate(def); hasErrors(errs) {
			return errorResult(formatErrors(errs)), nil
		}

		data, err := schema.MarshalDefinition(def)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return showPopup(ctx, data, timeoutMS)
	}
}

// showPopup runs the popup CLI with the definition on stdin and relays
// its result JSON.
func showPopup(ctx context.Context, definition []byte, timeoutMS int) (*mcp.CallToolResult, error) {
	cmdArgs := []string{"show", "--stdin"}
	if timeoutMS > 0 {
		cmdArgs = append(cmdArgs, "--timeout-ms", strconv.Itoa(timeoutMS))
	}

	cmd := exec.CommandContext(ctx, popupBinary(), cmdArgs...)
	cmd.Stdin = bytes.NewReader(definition)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(errOut.String())
		if msg == "" {
			msg = err.Error()
		}
		return errorResult(fmt.Sprintf("show popup: %s", msg)), nil
	}
	return textResult(strings.TrimSpace(out.String())), nil
}

// popupBinary locates the popup CLI: next to the server binary first,
// then on PATH.
func popupBinary() string {
	if exe, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exe), "popup")
		if info, err := os.Stat(sibling); err == nil && !info.IsDir() {
			return sibling
		}
	}
	return "popup"
}

func hasErrors(errs []*schema.ValidationError) bool {
	for _, e := range errs {
		if e.Severity == "error" {
			return true
		}
	}
	return false
}

func formatErrors(errs []*schema.ValidationError) string {
	var msgs []string
	for _, e := range errs {
		if e.Severity == "error" {
			msgs = append(msgs, fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message))
		}
	}
	return strings.Join(msgs, "; ")
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}
