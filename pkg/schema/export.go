package schema

import (
	"encoding/json"
	"fmt"
)

// The definition schema is written by hand: elements are discriminated
// by which label key is present and options can nest children under
// option-text keys, neither of which a struct reflector can express.

// DefinitionSchema returns the JSON Schema for popup definition
// documents, indented for display.
func DefinitionSchema() ([]byte, error) {
	data, err := json.MarshalIndent(definitionSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

// ToolInputSchema returns the input schema of the popup tool: a
// definition document plus an optional timeout.
func ToolInputSchema() map[string]any {
	s := definitionSchema()
	props := s["properties"].(map[string]any)
	props["timeout_ms"] = map[string]any{
		"type":        "integer",
		"minimum":     0,
		"description": "Dismiss the popup with a timeout result after this many milliseconds. 0 or absent means no timeout.",
	}
	return s
}

func definitionSchema() map[string]any {
	str := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}
	num := func(desc string) map[string]any {
		return map[string]any{"type": "number", "description": desc}
	}
	childList := map[string]any{"$ref": "#/$defs/children"}

	options := map[string]any{
		"description": "Option list, or a comma-separated string shorthand.",
		"oneOf": []any{
			map[string]any{
				"type": "array",
				"items": map[string]any{
					"oneOf": []any{
						map[string]any{"type": "string"},
						map[string]any{
							"type":     "object",
							"required": []any{"value"},
							"properties": map[string]any{
								"value":       str("Option text."),
								"description": str("Explanation shown next to the option."),
								"because":     str("Alias for description."),
							},
						},
					},
				},
			},
			map[string]any{"type": "string"},
		},
	}

	variant := func(key, keyDesc string, extra map[string]any) map[string]any {
		props := map[string]any{
			key:    str(keyDesc),
			"id":   str("Element id referenced by conditions as @id. Derived from the label when omitted."),
			"when": str("Visibility condition, e.g. \"@mode == advanced && count(@features) > 1\"."),
		}
		for k, v := range extra {
			props[k] = v
		}
		return map[string]any{
			"type":       "object",
			"required":   []any{key},
			"properties": props,
		}
	}

	element := map[string]any{
		"description": "One widget, discriminated by its label key (text, markdown, slider, checkbox/check, textbox/input, choice/select, multiselect/multi, group). On choice and multiselect, a key naming a declared option holds children shown while that option is selected.",
		"oneOf": []any{
			variant("text", "Static display text.", nil),
			variant("markdown", "Display text rendered as markdown.", nil),
			variant("slider", "Slider label.", map[string]any{
				"min":     num("Lower bound (inclusive)."),
				"max":     num("Upper bound (inclusive)."),
				"default": num("Initial value; midpoint of the range when omitted."),
			}),
			variant("checkbox", "Checkbox label.", map[string]any{
				"default": map[string]any{"type": "boolean", "description": "Initial checked state."},
				"reveals": childList,
			}),
			variant("textbox", "Textbox label.", map[string]any{
				"placeholder": str("Hint text shown while empty."),
				"rows":        map[string]any{"type": "integer", "description": "Visible rows; above 1 renders a multi-line area."},
			}),
			variant("choice", "Single-select label.", map[string]any{
				"options": options,
				"default": str("Option text selected initially."),
				"reveals": childList,
			}),
			variant("multiselect", "Multi-select label.", map[string]any{
				"options": options,
				"reveals": childList,
			}),
			variant("group", "Group label.", map[string]any{
				"elements": childList,
			}),
		},
	}

	return map[string]any{
		"$schema":  "https://json-schema.org/draft/2020-12/schema",
		"$id":      "https://github.com/ormasoftchile/popup/schemas/popup-v1.json",
		"title":    "Popup Definition",
		"type":     "object",
		"required": []any{"elements"},
		"properties": map[string]any{
			"title":    str("Window title of the popup."),
			"elements": childList,
		},
		"$defs": map[string]any{
			"element": element,
			"children": map[string]any{
				"description": "A list of elements, a single element, or a bare string (implicit text).",
				"oneOf": []any{
					map[string]any{"type": "array", "items": map[string]any{"$ref": "#/$defs/element"}},
					map[string]any{"$ref": "#/$defs/element"},
					map[string]any{"type": "string"},
				},
			},
		},
	}
}
