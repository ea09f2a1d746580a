package templates

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ormasoftchile/popup/pkg/schema"
)

// Render expands the named template with args into a popup definition.
// Missing required params fail; optional params fall back to their
// declared defaults.
func (c *Config) Render(name string, args map[string]any) (*schema.PopupDefinition, error) {
	t, ok := c.Templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}

	data := make(map[string]any, len(t.Params))
	for pname, p := range t.Params {
		if v, given := args[pname]; given {
			data[pname] = v
			continue
		}
		if p.Required {
			return nil, fmt.Errorf("template %q: missing required param %q", name, pname)
		}
		data[pname] = p.Default
	}
	for aname := range args {
		if _, declared := t.Params[aname]; !declared {
			return nil, fmt.Errorf("template %q: unknown param %q", name, aname)
		}
	}

	body, err := parseBody(name, t.Definition)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := body.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}

	def, err := schema.Load(&buf)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	return def, nil
}

// Names returns the template names in sorted order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Templates))
	for name := range c.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InputSchema builds the JSON Schema for calling the named template as
// an MCP tool: one property per declared param plus timeout_ms.
func (t *Template) InputSchema() map[string]any {
	props := map[string]any{
		"timeout_ms": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"description": "Dismiss the popup with a timeout result after this many milliseconds.",
		},
	}
	var required []string
	for name, p := range t.Params {
		typ := p.Type
		switch typ {
		case "", "string":
			typ = "string"
		case "number", "boolean", "integer":
		default:
			typ = "string"
		}
		prop := map[string]any{"type": typ}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		props[name] = prop
		if p.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)

	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		req := make([]any, len(required))
		for i, r := range required {
			req[i] = r
		}
		s["required"] = req
	}
	return s
}
