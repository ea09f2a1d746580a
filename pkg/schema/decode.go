package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Elements are discriminated by which label key is present rather than
// an explicit type tag. The short aliases (check, input, select, multi)
// are accepted alongside the canonical names.
var discriminators = []struct{ key, kind string }{
	{"text", "text"},
	{"markdown", "markdown"},
	{"slider", "slider"},
	{"checkbox", "checkbox"},
	{"check", "checkbox"},
	{"textbox", "textbox"},
	{"input", "textbox"},
	{"choice", "choice"},
	{"select", "choice"},
	{"multiselect", "multiselect"},
	{"multi", "multiselect"},
	{"group", "group"},
}

// Parse decodes a JSON popup definition. Unknown keys inside elements
// are rejected; on choice/multiselect elements a leftover key must name
// a declared option and holds that option's nested children.
func Parse(data []byte) (*PopupDefinition, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}

	def := &PopupDefinition{}
	if title, ok := doc["title"].(string); ok {
		def.Title = title
	}

	elements, err := decodeChildren(doc["elements"], "elements")
	if err != nil {
		return nil, err
	}
	def.Elements = elements
	return def, nil
}

// ParseYAML decodes a YAML popup definition by normalizing it to JSON
// first, so both formats share one decoder.
func ParseYAML(data []byte) (*PopupDefinition, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize definition: %w", err)
	}
	return Parse(jsonData)
}

// Load reads a definition from r, sniffing JSON vs YAML from the first
// non-blank byte.
func Load(r io.Reader) (*PopupDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return Parse(data)
	}
	return ParseYAML(data)
}

// LoadFile reads a definition file, selecting the decoder by extension.
func LoadFile(path string) (*PopupDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open definition: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return Parse(data)
	}
	return Load(bytes.NewReader(data))
}

// decodeChildren accepts the polymorphic child forms: a list of
// elements, a single element object, or a bare string (implicit text).
func decodeChildren(v any, base string) ([]Element, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case []any:
		elements := make([]Element, 0, len(v))
		for i, item := range v {
			path := fmt.Sprintf("%s[%d]", base, i)
			el, err := decodeChild(item, path)
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
		}
		return elements, nil
	default:
		el, err := decodeChild(v, base)
		if err != nil {
			return nil, err
		}
		return []Element{el}, nil
	}
}

func decodeChild(v any, path string) (Element, error) {
	switch v := v.(type) {
	case map[string]any:
		return decodeElement(v, path)
	case string:
		return &Text{Content: v}, nil
	default:
		return nil, fmt.Errorf("%s: expected an element object, got %T", path, v)
	}
}

func decodeElement(obj map[string]any, path string) (Element, error) {
	// Copy so consumed keys can be deleted; whatever remains at the end
	// is either option-as-key nesting or a typo.
	fields := make(map[string]any, len(obj))
	for k, v := range obj {
		fields[k] = v
	}

	for _, d := range discriminators {
		if _, present := fields[d.key]; !present {
			continue
		}
		label, err := popString(fields, d.key, path)
		if err != nil {
			return nil, err
		}
		switch d.kind {
		case "text":
			return decodeText(fields, label, path)
		case "markdown":
			return decodeMarkdown(fields, label, path)
		case "slider":
			return decodeSlider(fields, label, path)
		case "checkbox":
			return decodeCheckbox(fields, label, path)
		case "textbox":
			return decodeTextbox(fields, label, path)
		case "choice":
			return decodeChoice(fields, label, path)
		case "multiselect":
			return decodeMultiselect(fields, label, path)
		case "group":
			return decodeGroup(fields, label, path)
		}
	}
	return nil, fmt.Errorf("%s: unrecognized element (no text/markdown/slider/checkbox/textbox/choice/multiselect/group key)", path)
}

func decodeText(fields map[string]any, content, path string) (Element, error) {
	e := &Text{Content: content}
	var err error
	if e.ID, err = popString(fields, "id", path); err != nil {
		return nil, err
	}
	if e.Condition, err = popString(fields, "when", path); err != nil {
		return nil, err
	}
	return e, rejectUnknown(fields, path)
}

func decodeMarkdown(fields map[string]any, content, path string) (Element, error) {
	e := &Markdown{Content: content}
	var err error
	if e.ID, err = popString(fields, "id", path); err != nil {
		return nil, err
	}
	if e.Condition, err = popString(fields, "when", path); err != nil {
		return nil, err
	}
	return e, rejectUnknown(fields, path)
}

func decodeSlider(fields map[string]any, label, path string) (Element, error) {
	e := &Slider{Label: label}
	var err error
	if e.ID, err = popID(fields, label, path); err != nil {
		return nil, err
	}
	min, ok, err := popNumber(fields, "min", path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: slider requires 'min'", path)
	}
	max, ok, err := popNumber(fields, "max", path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: slider requires 'max'", path)
	}
	e.Min, e.Max = min, max
	if dflt, ok, err := popNumber(fields, "default", path); err != nil {
		return nil, err
	} else if ok {
		e.Default = &dflt
	}
	if e.Condition, err = popString(fields, "when", path); err != nil {
		return nil, err
	}
	return e, rejectUnknown(fields, path)
}

func decodeCheckbox(fields map[string]any, label, path string) (Element, error) {
	e := &Checkbox{Label: label}
	var err error
	if e.ID, err = popID(fields, label, path); err != nil {
		return nil, err
	}
	if v, present := fields["default"]; present {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%s: 'default' must be a boolean", path)
		}
		e.Default = b
		delete(fields, "default")
	}
	if e.Reveals, err = popReveals(fields, path); err != nil {
		return nil, err
	}
	if e.Condition, err = popString(fields, "when", path); err != nil {
		return nil, err
	}
	return e, rejectUnknown(fields, path)
}

func decodeTextbox(fields map[string]any, label, path string) (Element, error) {
	e := &Textbox{Label: label}
	var err error
	if e.ID, err = popID(fields, label, path); err != nil {
		return nil, err
	}
	if e.Placeholder, err = popString(fields, "placeholder", path); err != nil {
		return nil, err
	}
	if rows, ok, err := popNumber(fields, "rows", path); err != nil {
		return nil, err
	} else if ok {
		e.Rows = int(rows)
	}
	if e.Condition, err = popString(fields, "when", path); err != nil {
		return nil, err
	}
	return e, rejectUnknown(fields, path)
}

func decodeChoice(fields map[string]any, label, path string) (Element, error) {
	e := &Choice{Label: label}
	var err error
	if e.ID, err = popID(fields, label, path); err != nil {
		return nil, err
	}
	if e.Options, err = popOptions(fields, path); err != nil {
		return nil, err
	}
	if e.Default, err = popString(fields, "default", path); err != nil {
		return nil, err
	}
	if e.Reveals, err = popReveals(fields, path); err != nil {
		return nil, err
	}
	if e.Condition, err = popString(fields, "when", path); err != nil {
		return nil, err
	}
	if e.OptionChildren, err = popOptionChildren(fields, e.Options, path); err != nil {
		return nil, err
	}
	return e, nil
}

func decodeMultiselect(fields map[string]any, label, path string) (Element, error) {
	e := &Multiselect{Label: label}
	var err error
	if e.ID, err = popID(fields, label, path); err != nil {
		return nil, err
	}
	if e.Options, err = popOptions(fields, path); err != nil {
		return nil, err
	}
	if e.Reveals, err = popReveals(fields, path); err != nil {
		return nil, err
	}
	if e.Condition, err = popString(fields, "when", path); err != nil {
		return nil, err
	}
	if e.OptionChildren, err = popOptionChildren(fields, e.Options, path); err != nil {
		return nil, err
	}
	return e, nil
}

func decodeGroup(fields map[string]any, label, path string) (Element, error) {
	e := &Group{Label: label}
	var err error
	if e.ID, err = popString(fields, "id", path); err != nil {
		return nil, err
	}
	elemsVal, present := fields["elements"]
	if !present {
		return nil, fmt.Errorf("%s: group requires 'elements'", path)
	}
	delete(fields, "elements")
	if e.Elements, err = decodeChildren(elemsVal, path+".elements"); err != nil {
		return nil, err
	}
	if e.Condition, err = popString(fields, "when", path); err != nil {
		return nil, err
	}
	return e, rejectUnknown(fields, path)
}

// --- field helpers ---

func popString(fields map[string]any, key, path string) (string, error) {
	v, present := fields[key]
	if !present {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: %q must be a string", path, key)
	}
	delete(fields, key)
	return s, nil
}

func popNumber(fields map[string]any, key, path string) (float64, bool, error) {
	v, present := fields[key]
	if !present {
		return 0, false, nil
	}
	n, ok := v.(float64)
	if !ok {
		return 0, false, fmt.Errorf("%s: %q must be a number", path, key)
	}
	delete(fields, key)
	return n, true, nil
}

// popID returns the explicit id, or derives one from the label.
func popID(fields map[string]any, label, path string) (string, error) {
	id, err := popString(fields, "id", path)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id = autoID(label)
	if id == "" {
		return "", fmt.Errorf("%s: cannot derive an id from label %q; add an explicit 'id'", path, label)
	}
	return id, nil
}

func popReveals(fields map[string]any, path string) ([]Element, error) {
	v, present := fields["reveals"]
	if !present {
		return nil, nil
	}
	delete(fields, "reveals")
	return decodeChildren(v, path+".reveals")
}

// popOptions accepts a list of option texts or {value, description}
// objects ("because" is a description alias), or a comma-separated
// string shorthand.
func popOptions(fields map[string]any, path string) ([]Option, error) {
	v, present := fields["options"]
	if !present {
		return nil, fmt.Errorf("%s: missing 'options'", path)
	}
	delete(fields, "options")

	switch v := v.(type) {
	case string:
		var options []Option
		for _, part := range strings.Split(v, ",") {
			if text := strings.TrimSpace(part); text != "" {
				options = append(options, Option{Value: text})
			}
		}
		return options, nil

	case []any:
		options := make([]Option, 0, len(v))
		for i, item := range v {
			switch item := item.(type) {
			case string:
				options = append(options, Option{Value: item})
			case map[string]any:
				value, _ := item["value"].(string)
				if value == "" {
					return nil, fmt.Errorf("%s: options[%d] requires a 'value'", path, i)
				}
				desc, _ := item["description"].(string)
				if desc == "" {
					desc, _ = item["because"].(string)
				}
				options = append(options, Option{Value: value, Description: desc})
			default:
				return nil, fmt.Errorf("%s: options[%d] must be a string or object", path, i)
			}
		}
		return options, nil
	}
	return nil, fmt.Errorf("%s: 'options' must be a list or comma-separated string", path)
}

// popOptionChildren interprets every remaining key as option-as-key
// nesting. A key that matches no declared option is an error so typos
// surface instead of silently dropping children.
func popOptionChildren(fields map[string]any, options []Option, path string) (map[string][]Element, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	declared := make(map[string]bool, len(options))
	for _, o := range options {
		declared[o.Value] = true
	}
	children := make(map[string][]Element, len(fields))
	for key, v := range fields {
		if !declared[key] {
			return nil, fmt.Errorf("%s: unknown key %q (not a structural field or declared option)", path, key)
		}
		nested, err := decodeChildren(v, fmt.Sprintf("%s.%q", path, key))
		if err != nil {
			return nil, err
		}
		children[key] = nested
	}
	return children, nil
}

func rejectUnknown(fields map[string]any, path string) error {
	for key := range fields {
		return fmt.Errorf("%s: unknown key %q", path, key)
	}
	return nil
}

// autoID derives a snake_case id from a widget label when no explicit
// id is given, e.g. "Debug Level (1-10)" -> "debug_level_1_10".
func autoID(label string) string {
	var b strings.Builder
	prevSep := true
	prevUpper := false
	runes := []rune(label)
	for i, r := range runes {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevSep, prevUpper = false, false
		case r >= 'A' && r <= 'Z':
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if b.Len() > 0 && !prevSep && (!prevUpper || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			prevSep, prevUpper = false, true
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !prevSep {
				b.WriteByte('_')
			}
			prevSep, prevUpper = true, false
		default:
			prevUpper = false
		}
	}
	return strings.TrimRight(b.String(), "_")
}
