package schema

import (
	"encoding/json"
	"fmt"
)

// MarshalDefinition serializes a definition back to its document form,
// using the canonical element keys. Options keep their object form only
// when they carry a description.
func MarshalDefinition(def *PopupDefinition) ([]byte, error) {
	doc := map[string]any{
		"elements": encodeElements(def.Elements),
	}
	if def.Title != "" {
		doc["title"] = def.Title
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode definition: %w", err)
	}
	return data, nil
}

func encodeElements(elements []Element) []any {
	out := make([]any, len(elements))
	for i, el := range elements {
		out[i] = encodeElement(el)
	}
	return out
}

func encodeElement(el Element) map[string]any {
	obj := map[string]any{}

	switch el := el.(type) {
	case *Text:
		obj["text"] = el.Content
		if el.ID != "" {
			obj["id"] = el.ID
		}
	case *Markdown:
		obj["markdown"] = el.Content
		if el.ID != "" {
			obj["id"] = el.ID
		}
	case *Slider:
		obj["slider"] = el.Label
		obj["id"] = el.ID
		obj["min"] = el.Min
		obj["max"] = el.Max
		if el.Default != nil {
			obj["default"] = *el.Default
		}
	case *Checkbox:
		obj["checkbox"] = el.Label
		obj["id"] = el.ID
		if el.Default {
			obj["default"] = true
		}
		if len(el.Reveals) > 0 {
			obj["reveals"] = encodeElements(el.Reveals)
		}
	case *Textbox:
		obj["textbox"] = el.Label
		obj["id"] = el.ID
		if el.Placeholder != "" {
			obj["placeholder"] = el.Placeholder
		}
		if el.Rows > 1 {
			obj["rows"] = el.Rows
		}
	case *Choice:
		obj["choice"] = el.Label
		obj["id"] = el.ID
		obj["options"] = encodeOptions(el.Options)
		if el.Default != "" {
			obj["default"] = el.Default
		}
		if len(el.Reveals) > 0 {
			obj["reveals"] = encodeElements(el.Reveals)
		}
		for option, children := range el.OptionChildren {
			obj[option] = encodeElements(children)
		}
	case *Multiselect:
		obj["multiselect"] = el.Label
		obj["id"] = el.ID
		obj["options"] = encodeOptions(el.Options)
		if len(el.Reveals) > 0 {
			obj["reveals"] = encodeElements(el.Reveals)
		}
		for option, children := range el.OptionChildren {
			obj[option] = encodeElements(children)
		}
	case *Group:
		obj["group"] = el.Label
		if el.ID != "" {
			obj["id"] = el.ID
		}
		obj["elements"] = encodeElements(el.Elements)
	}

	if when := el.When(); when != "" {
		obj["when"] = when
	}
	return obj
}

func encodeOptions(options []Option) []any {
	out := make([]any, len(options))
	for i, o := range options {
		if o.Description == "" {
			out[i] = o.Value
		} else {
			out[i] = map[string]any{"value": o.Value, "description": o.Description}
		}
	}
	return out
}
