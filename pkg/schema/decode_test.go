package schema

import (
	"strings"
	"testing"
)

func TestParseElementAsKey(t *testing.T) {
	def, err := Parse([]byte(`{
		"title": "Deploy",
		"elements": [
			{"text": "Choose your settings"},
			{"slider": "Debug Level", "min": 1, "max": 10, "default": 3},
			{"checkbox": "Enable verbose output", "id": "verbose"},
			{"textbox": "Notes", "placeholder": "anything else?", "rows": 3},
			{"choice": "Mode", "options": ["Basic", "Advanced"], "default": "Basic"},
			{"multiselect": "Tags", "options": ["a", "b"]}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if def.Title != "Deploy" {
		t.Errorf("title = %q", def.Title)
	}
	if len(def.Elements) != 6 {
		t.Fatalf("elements = %d, want 6", len(def.Elements))
	}

	slider, ok := def.Elements[1].(*Slider)
	if !ok {
		t.Fatalf("elements[1] = %T, want *Slider", def.Elements[1])
	}
	if slider.Min != 1 || slider.Max != 10 {
		t.Errorf("slider range = [%v, %v]", slider.Min, slider.Max)
	}
	if slider.Default == nil || *slider.Default != 3 {
		t.Errorf("slider default = %v", slider.Default)
	}

	if cb := def.Elements[2].(*Checkbox); cb.ID != "verbose" {
		t.Errorf("checkbox id = %q", cb.ID)
	}
	if tb := def.Elements[3].(*Textbox); tb.Rows != 3 || tb.Placeholder == "" {
		t.Errorf("textbox = %+v", tb)
	}
	if ch := def.Elements[4].(*Choice); ch.Default != "Basic" || len(ch.Options) != 2 {
		t.Errorf("choice = %+v", ch)
	}
}

func TestParseAliases(t *testing.T) {
	def, err := Parse([]byte(`{"elements": [
		{"check": "Verbose"},
		{"input": "Name"},
		{"select": "Mode", "options": ["x"]},
		{"multi": "Tags", "options": ["y"]}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := def.Elements[0].(*Checkbox); !ok {
		t.Errorf("check should decode as checkbox, got %T", def.Elements[0])
	}
	if _, ok := def.Elements[1].(*Textbox); !ok {
		t.Errorf("input should decode as textbox, got %T", def.Elements[1])
	}
	if _, ok := def.Elements[2].(*Choice); !ok {
		t.Errorf("select should decode as choice, got %T", def.Elements[2])
	}
	if _, ok := def.Elements[3].(*Multiselect); !ok {
		t.Errorf("multi should decode as multiselect, got %T", def.Elements[3])
	}
}

func TestParseAutoID(t *testing.T) {
	cases := []struct{ label, want string }{
		{"Debug Level", "debug_level"},
		{"Debug Level (1-10)", "debug_level_1_10"},
		{"  Spaced   Out  ", "spaced_out"},
		{"already_snake", "already_snake"},
		{"CamelCase", "camel_case"},
	}
	for _, tc := range cases {
		if got := autoID(tc.label); got != tc.want {
			t.Errorf("autoID(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestParseOptionsCommaString(t *testing.T) {
	def, err := Parse([]byte(`{"elements": [
		{"choice": "Mode", "options": "Basic, Advanced , Expert"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	ch := def.Elements[0].(*Choice)
	want := []string{"Basic", "Advanced", "Expert"}
	got := Texts(ch.Options)
	if len(got) != len(want) {
		t.Fatalf("options = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("options[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseOptionDescriptions(t *testing.T) {
	def, err := Parse([]byte(`{"elements": [
		{"choice": "Mode", "options": [
			{"value": "Basic", "description": "the easy one"},
			{"value": "Advanced", "because": "for experts"}
		]}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	ch := def.Elements[0].(*Choice)
	if ch.Options[0].Description != "the easy one" {
		t.Errorf("description = %q", ch.Options[0].Description)
	}
	if ch.Options[1].Description != "for experts" {
		t.Errorf("because alias should fill description, got %q", ch.Options[1].Description)
	}
}

func TestParseOptionChildren(t *testing.T) {
	def, err := Parse([]byte(`{"elements": [
		{"choice": "Theme", "options": ["Light", "Dark"],
		 "Dark": [{"slider": "Dimming", "min": 0, "max": 100}],
		 "Light": {"checkbox": "High contrast"}}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	ch := def.Elements[0].(*Choice)
	if len(ch.OptionChildren["Dark"]) != 1 {
		t.Fatalf("Dark children = %d, want 1", len(ch.OptionChildren["Dark"]))
	}
	if _, ok := ch.OptionChildren["Dark"][0].(*Slider); !ok {
		t.Errorf("Dark child = %T, want *Slider", ch.OptionChildren["Dark"][0])
	}
	// A single object is accepted where a list is expected.
	if len(ch.OptionChildren["Light"]) != 1 {
		t.Errorf("Light children = %d, want 1", len(ch.OptionChildren["Light"]))
	}
}

func TestParseOptionChildKeyMustMatchOption(t *testing.T) {
	_, err := Parse([]byte(`{"elements": [
		{"choice": "Theme", "options": ["Light", "Dark"],
		 "Drak": [{"checkbox": "Oops"}]}
	]}`))
	if err == nil {
		t.Fatal("expected error for key not matching a declared option")
	}
	if !strings.Contains(err.Error(), "Drak") {
		t.Errorf("error should name the bad key: %v", err)
	}
}

func TestParseUnknownKeyRejected(t *testing.T) {
	_, err := Parse([]byte(`{"elements": [{"checkbox": "Verbose", "defautl": true}]}`))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "defautl") {
		t.Errorf("error should name the unknown key: %v", err)
	}
}

func TestParsePolymorphicChildren(t *testing.T) {
	def, err := Parse([]byte(`{"elements": [
		{"checkbox": "More", "reveals": "Some fine print"},
		{"group": "Advanced", "elements": {"slider": "Level", "min": 0, "max": 9}}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	cb := def.Elements[0].(*Checkbox)
	if len(cb.Reveals) != 1 {
		t.Fatalf("reveals = %d, want 1", len(cb.Reveals))
	}
	if text, ok := cb.Reveals[0].(*Text); !ok || text.Content != "Some fine print" {
		t.Errorf("bare string should become a text element, got %#v", cb.Reveals[0])
	}
	g := def.Elements[1].(*Group)
	if len(g.Elements) != 1 {
		t.Errorf("group elements = %d, want 1", len(g.Elements))
	}
}

func TestParseSliderRequiresBounds(t *testing.T) {
	_, err := Parse([]byte(`{"elements": [{"slider": "Level", "max": 10}]}`))
	if err == nil || !strings.Contains(err.Error(), "min") {
		t.Errorf("expected missing-min error, got %v", err)
	}
}

func TestParseYAMLDefinition(t *testing.T) {
	def, err := ParseYAML([]byte(`
title: Release
elements:
  - checkbox: Dry run
    id: dry_run
  - choice: Channel
    options: stable, beta
    when: "!@dry_run"
`))
	if err != nil {
		t.Fatal(err)
	}
	if def.Title != "Release" {
		t.Errorf("title = %q", def.Title)
	}
	ch := def.Elements[1].(*Choice)
	if ch.Condition != "!@dry_run" {
		t.Errorf("when = %q", ch.Condition)
	}
}

func TestLoadSniffsFormat(t *testing.T) {
	jsonDef, err := Load(strings.NewReader(`{"elements": [{"text": "hi"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(jsonDef.Elements) != 1 {
		t.Error("json load failed")
	}
	yamlDef, err := Load(strings.NewReader("elements:\n  - text: hi\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(yamlDef.Elements) != 1 {
		t.Error("yaml load failed")
	}
}
