// Package templates manages reusable popup templates: named Go
// templates that expand into popup definitions. Templates live in a
// YAML config file and are exposed by the MCP server as one tool per
// template, so a caller can say "show the confirm popup" without
// shipping the whole definition each time.
package templates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	sprig "github.com/Masterminds/sprig/v3"
	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Config is the template library loaded from templates.yaml.
type Config struct {
	Templates map[string]*Template `yaml:"templates" json:"templates"`
}

// Template is one named popup template: a Go template body that expands
// into a definition document, plus its declared parameters.
type Template struct {
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Params      map[string]*Param `yaml:"params,omitempty" json:"params,omitempty"`
	Definition  string            `yaml:"definition" json:"definition"`
}

// Param declares one template parameter.
type Param struct {
	Type        string `yaml:"type,omitempty" json:"type,omitempty"` // string, number, boolean
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`
}

// DefaultPath returns the template config location under the user's
// config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "popup", "templates.yaml")
}

// LoadConfig reads and validates a template config file. A missing file
// is an empty library, not an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{Templates: map[string]*Template{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open template config: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode template config: %w", err)
	}
	if err := validateConfigDoc(doc); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode template config: %w", err)
	}
	if cfg.Templates == nil {
		cfg.Templates = map[string]*Template{}
	}

	// Names become MCP tool suffixes; bodies must at least parse as
	// templates before anyone renders.
	for name, t := range cfg.Templates {
		if !validName.MatchString(name) {
			return nil, fmt.Errorf("template name %q: must match %s", name, validName)
		}
		if _, err := parseBody(name, t.Definition); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

var validName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

func parseBody(name, body string) (*template.Template, error) {
	t, err := template.New(name).Funcs(sprig.FuncMap()).Option("missingkey=zero").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	return t, nil
}

// GenerateConfigSchema produces a JSON Schema Draft 2020-12 document
// for the template config using invopop/jsonschema.
func GenerateConfigSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&Config{})
	s.ID = "https://github.com/ormasoftchile/popup/schemas/templates-v1.json"
	s.Title = "Popup Template Library"
	s.Description = "Schema for popup templates.yaml documents (Draft 2020-12)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal template schema: %w", err)
	}
	return data, nil
}

// validateConfigDoc checks a decoded config document against the
// generated schema.
func validateConfigDoc(doc any) error {
	schemaJSON, err := GenerateConfigSchema()
	if err != nil {
		return err
	}
	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return fmt.Errorf("unmarshal template schema: %w", err)
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource("templates-v1.json", schemaDoc); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile("templates-v1.json")
	if err != nil {
		return fmt.Errorf("compile template schema: %w", err)
	}

	// YAML decodes map keys as any; normalize through JSON for the
	// validator.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalize template config: %w", err)
	}
	var jsonDoc any
	if err := json.Unmarshal(normalized, &jsonDoc); err != nil {
		return fmt.Errorf("normalize template config: %w", err)
	}

	if err := sch.Validate(jsonDoc); err != nil {
		return fmt.Errorf("template config: %w", err)
	}
	return nil
}
