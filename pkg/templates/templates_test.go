package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ormasoftchile/popup/pkg/schema"
)

const demoConfig = `
templates:
  confirm:
    description: Ask the user to confirm an action
    params:
      message:
        type: string
        required: true
        description: What to confirm
      danger:
        type: boolean
        default: false
    definition: |
      title: Confirm
      elements:
        - markdown: "{{ .message }}"
        - checkbox: "{{ if .danger }}I understand the risk{{ else }}Proceed{{ end }}"
          id: proceed
  greet:
    params:
      name:
        type: string
        required: true
    definition: |
      elements:
        - text: "Hello {{ .name | upper }}"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, demoConfig))
	if err != nil {
		t.Fatal(err)
	}
	names := cfg.Names()
	if len(names) != 2 || names[0] != "confirm" || names[1] != "greet" {
		t.Errorf("names = %v", names)
	}
	if !cfg.Templates["confirm"].Params["message"].Required {
		t.Error("message param should be required")
	}
}

func TestLoadConfigMissingFileIsEmpty(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Templates) != 0 {
		t.Errorf("expected empty library, got %v", cfg.Names())
	}
}

func TestLoadConfigRejectsBadTemplate(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
templates:
  broken:
    definition: "{{ .unclosed"
`))
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Errorf("expected template parse error naming the template, got %v", err)
	}
}

func TestRender(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, demoConfig))
	if err != nil {
		t.Fatal(err)
	}

	def, err := cfg.Render("confirm", map[string]any{"message": "Delete everything?"})
	if err != nil {
		t.Fatal(err)
	}
	if def.Title != "Confirm" {
		t.Errorf("title = %q", def.Title)
	}
	md, ok := def.Elements[0].(*schema.Markdown)
	if !ok || md.Content != "Delete everything?" {
		t.Errorf("elements[0] = %#v", def.Elements[0])
	}
	// danger defaulted to false.
	if cb := def.Elements[1].(*schema.Checkbox); cb.Label != "Proceed" {
		t.Errorf("checkbox label = %q", cb.Label)
	}

	def, err = cfg.Render("confirm", map[string]any{"message": "x", "danger": true})
	if err != nil {
		t.Fatal(err)
	}
	if cb := def.Elements[1].(*schema.Checkbox); cb.Label != "I understand the risk" {
		t.Errorf("checkbox label = %q", cb.Label)
	}
}

func TestRenderSprigFunctions(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, demoConfig))
	if err != nil {
		t.Fatal(err)
	}
	def, err := cfg.Render("greet", map[string]any{"name": "ada"})
	if err != nil {
		t.Fatal(err)
	}
	if text := def.Elements[0].(*schema.Text); text.Content != "Hello ADA" {
		t.Errorf("content = %q", text.Content)
	}
}

func TestRenderParamChecks(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, demoConfig))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := cfg.Render("confirm", nil); err == nil || !strings.Contains(err.Error(), "message") {
		t.Errorf("expected missing required param error, got %v", err)
	}
	if _, err := cfg.Render("confirm", map[string]any{"message": "x", "typo": 1}); err == nil || !strings.Contains(err.Error(), "typo") {
		t.Errorf("expected unknown param error, got %v", err)
	}
	if _, err := cfg.Render("nope", nil); err == nil {
		t.Error("expected unknown template error")
	}
}

func TestInputSchema(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, demoConfig))
	if err != nil {
		t.Fatal(err)
	}
	s := cfg.Templates["confirm"].InputSchema()
	props := s["properties"].(map[string]any)
	if _, ok := props["message"]; !ok {
		t.Error("schema should declare the message param")
	}
	if _, ok := props["timeout_ms"]; !ok {
		t.Error("schema should declare timeout_ms")
	}
	req, ok := s["required"].([]any)
	if !ok || len(req) != 1 || req[0] != "message" {
		t.Errorf("required = %v", s["required"])
	}
	if props["danger"].(map[string]any)["type"] != "boolean" {
		t.Errorf("danger type = %v", props["danger"])
	}
}

func TestGenerateConfigSchema(t *testing.T) {
	data, err := GenerateConfigSchema()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "templates") {
		t.Error("schema should mention the templates property")
	}
}
