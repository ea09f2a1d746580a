package state

import (
	"testing"

	"github.com/ormasoftchile/popup/pkg/condition"
)

func demoStore() *Store {
	s := NewStore()
	s.Bind("level", "Debug Level", nil, Number(5))
	s.Bind("verbose", "Enable verbose output", nil, Boolean(false))
	s.Bind("notes", "Notes", nil, Text(""))
	s.Bind("mode", "Mode", []string{"Basic", "Advanced"}, Choice{})
	s.Bind("tags", "Tags", []string{"a", "b", "c"}, make(MultiChoice, 3))
	return s
}

func TestTruthiness(t *testing.T) {
	s := demoStore()

	if !s.Truthy("level") {
		t.Error("nonzero number should be truthy")
	}
	s.SetNumber("level", 0)
	if s.Truthy("level") {
		t.Error("zero should be falsy")
	}

	if s.Truthy("verbose") {
		t.Error("unchecked box should be falsy")
	}
	s.SetBoolean("verbose", true)
	if !s.Truthy("verbose") {
		t.Error("checked box should be truthy")
	}

	if s.Truthy("notes") {
		t.Error("empty text should be falsy")
	}
	s.SetText("notes", "x")
	if !s.Truthy("notes") {
		t.Error("non-empty text should be truthy")
	}

	if s.Truthy("mode") {
		t.Error("choice with no selection should be falsy")
	}
	s.Select("mode", 1)
	if !s.Truthy("mode") {
		t.Error("choice with a selection should be truthy")
	}

	if s.Truthy("tags") {
		t.Error("multiselect with nothing selected should be falsy")
	}
	s.Toggle("tags", 0)
	if !s.Truthy("tags") {
		t.Error("multiselect with a selection should be truthy")
	}

	if s.Truthy("nope") {
		t.Error("unknown id should be falsy")
	}
}

func TestCount(t *testing.T) {
	s := demoStore()

	if got := s.Count("tags"); got != 0 {
		t.Errorf("empty multiselect count = %d, want 0", got)
	}
	s.Toggle("tags", 0)
	s.Toggle("tags", 2)
	if got := s.Count("tags"); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}

	if got := s.Count("verbose"); got != 0 {
		t.Errorf("unchecked box count = %d, want 0", got)
	}
	s.SetBoolean("verbose", true)
	if got := s.Count("verbose"); got != 1 {
		t.Errorf("checked box count = %d, want 1", got)
	}

	if got := s.Count("mode"); got != 0 {
		t.Errorf("unset choice count = %d, want 0", got)
	}
	s.Select("mode", 0)
	if got := s.Count("mode"); got != 1 {
		t.Errorf("set choice count = %d, want 1", got)
	}

	// Non-countable and unknown values count as 0.
	if got := s.Count("level"); got != 0 {
		t.Errorf("number count = %d, want 0", got)
	}
	if got := s.Count("nope"); got != 0 {
		t.Errorf("unknown count = %d, want 0", got)
	}
}

func TestSelected(t *testing.T) {
	s := demoStore()

	s.Select("mode", 1)
	if !s.Selected("mode", "Advanced") {
		t.Error("selected option text should match")
	}
	if s.Selected("mode", "Basic") {
		t.Error("unselected option text should not match")
	}

	s.Toggle("tags", 1)
	if !s.Selected("tags", "b") {
		t.Error("toggled multiselect option should match")
	}
	if s.Selected("tags", "a") {
		t.Error("untoggled multiselect option should not match")
	}

	// A checkbox matches its label, not an option text, while checked.
	if s.Selected("verbose", "Enable verbose output") {
		t.Error("unchecked box should not match its label")
	}
	s.SetBoolean("verbose", true)
	if !s.Selected("verbose", "Enable verbose output") {
		t.Error("checked box should match its label")
	}
	if s.Selected("verbose", "verbose") {
		t.Error("checkbox should not match its id")
	}
}

func TestSelectClampsAndClears(t *testing.T) {
	s := demoStore()
	s.Select("mode", 1)
	s.Select("mode", -1)
	if s.Truthy("mode") {
		t.Error("Select(-1) should clear the selection")
	}
	s.Select("mode", 99)
	if s.Truthy("mode") {
		t.Error("out-of-range index should clear, not panic or select")
	}
}

func TestMutatorsIgnoreWrongKinds(t *testing.T) {
	s := demoStore()
	s.SetText("level", "oops")
	s.SetNumber("notes", 3)
	if v, _ := s.Value("level"); v != Number(5) {
		t.Errorf("level = %v, want unchanged 5", v)
	}
	if v, _ := s.Value("notes"); v != Text("") {
		t.Errorf("notes = %v, want unchanged empty", v)
	}
}

func TestOperands(t *testing.T) {
	s := demoStore()

	op, ok := s.Operand("level")
	if !ok || !op.IsNumber || op.Number != 5 {
		t.Errorf("number operand = %+v, ok=%v", op, ok)
	}

	s.SetText("notes", "42")
	op, _ = s.Operand("notes")
	if !op.IsNumber || op.Number != 42 {
		t.Error("numeric-looking text should compare numerically")
	}

	op, _ = s.Operand("verbose")
	if op.IsNumber || op.Text != "false" {
		t.Errorf("boolean operand = %+v, want text false", op)
	}

	op, _ = s.Operand("mode")
	if op.Text != "" {
		t.Errorf("unset choice operand text = %q, want empty", op.Text)
	}
	s.Select("mode", 0)
	op, _ = s.Operand("mode")
	if op.Text != "Basic" {
		t.Errorf("choice operand text = %q, want Basic", op.Text)
	}

	if _, ok := s.Operand("tags"); ok {
		t.Error("multiselect has no comparable form")
	}
	if _, ok := s.Operand("nope"); ok {
		t.Error("unknown id has no operand")
	}
}

func TestStoreAsScope(t *testing.T) {
	// Store must satisfy condition.Scope.
	var _ condition.Scope = NewStore()

	s := demoStore()
	s.Select("mode", 1)
	n, err := condition.Parse("@mode == Advanced && count(@tags) == 0")
	if err != nil {
		t.Fatal(err)
	}
	if !condition.Evaluate(n, s) {
		t.Error("expected condition to hold against the store")
	}
}
