package condition

import "testing"

// fakeScope backs the evaluator tests without a real value store.
type fakeScope struct {
	truthy   map[string]bool
	counts   map[string]int
	selected map[string]map[string]bool
	operands map[string]Operand
}

func (s *fakeScope) Truthy(id string) bool { return s.truthy[id] }
func (s *fakeScope) Count(id string) int   { return s.counts[id] }
func (s *fakeScope) Selected(id, option string) bool {
	return s.selected[id][option]
}
func (s *fakeScope) Operand(id string) (Operand, bool) {
	op, ok := s.operands[id]
	return op, ok
}

func evalExpr(t *testing.T, expr string, scope Scope) bool {
	t.Helper()
	n, err := Parse(expr)
	if err != nil {
		t.Fatalf("Parse(%q): %v", expr, err)
	}
	return Evaluate(n, scope)
}

func TestEvaluateLogical(t *testing.T) {
	scope := &fakeScope{truthy: map[string]bool{"a": true, "b": false}}
	cases := []struct {
		expr string
		want bool
	}{
		{"@a", true},
		{"@b", false},
		{"@missing", false},
		{"!@b", true},
		{"@a && @b", false},
		{"@a || @b", true},
		{"!@a || @b", false},
		{"@a && !@b", true},
	}
	for _, tc := range cases {
		if got := evalExpr(t, tc.expr, scope); got != tc.want {
			t.Errorf("%q = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluateComparisons(t *testing.T) {
	scope := &fakeScope{operands: map[string]Operand{
		"level": NumberOperand(7),
		"mode":  TextOperand("advanced"),
		"port":  TextOperand("8080"), // text that parses as a number
	}}
	cases := []struct {
		expr string
		want bool
	}{
		{"@level == 7", true},
		{"@level != 7", false},
		{"@level > 5", true},
		{"@level >= 8", false},
		{"@level < 10", true},
		{"@mode == advanced", true},
		{"@mode == basic", false},
		{"@mode != basic", true},
		{"@port == 8080", true},
		// Mixed types compare false, on either side of the operator.
		{"@mode == 7", false},
		{"@level == advanced", false},
		// Unresolved references compare false, never error.
		{"@missing == 7", false},
		{"@missing != 7", false},
	}
	for _, tc := range cases {
		if got := evalExpr(t, tc.expr, scope); got != tc.want {
			t.Errorf("%q = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluateCount(t *testing.T) {
	scope := &fakeScope{counts: map[string]int{"tags": 3}}
	cases := []struct {
		expr string
		want bool
	}{
		{"count(@tags) == 3", true},
		{"count(@tags) > 2", true},
		{"count(@tags) > 3", false},
		{"count(@tags)", true},  // bare count is truthy when > 0
		{"count(@none)", false}, // unresolved counts as 0
		{"count(@none) == 0", true},
	}
	for _, tc := range cases {
		if got := evalExpr(t, tc.expr, scope); got != tc.want {
			t.Errorf("%q = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluateSelected(t *testing.T) {
	scope := &fakeScope{
		selected: map[string]map[string]bool{
			"tags": {"extra logging": true},
		},
		operands: map[string]Operand{"wanted": TextOperand("extra logging")},
	}
	cases := []struct {
		expr string
		want bool
	}{
		{`selected(@tags, "extra logging")`, true},
		{`selected(@tags, "other")`, false},
		{`selected(@none, "extra logging")`, false},
		// The option argument can itself be a reference.
		{`selected(@tags, @wanted)`, true},
	}
	for _, tc := range cases {
		if got := evalExpr(t, tc.expr, scope); got != tc.want {
			t.Errorf("%q = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluateAnyAll(t *testing.T) {
	scope := &fakeScope{truthy: map[string]bool{"a": true, "b": false, "c": true}}
	cases := []struct {
		expr string
		want bool
	}{
		{"any(@a, @b)", true},
		{"any(@b, @missing)", false},
		{"all(@a, @c)", true},
		{"all(@a, @b)", false},
		{"any(all(@a, @c), @b)", true},
	}
	for _, tc := range cases {
		if got := evalExpr(t, tc.expr, scope); got != tc.want {
			t.Errorf("%q = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluateLiteralTruthiness(t *testing.T) {
	scope := &fakeScope{}
	cases := []struct {
		expr string
		want bool
	}{
		{"1", true},
		{"0", false},
		{"hello", true},
		{`""`, false},
	}
	for _, tc := range cases {
		if got := evalExpr(t, tc.expr, scope); got != tc.want {
			t.Errorf("%q = %v, want %v", tc.expr, got, tc.want)
		}
	}
}
