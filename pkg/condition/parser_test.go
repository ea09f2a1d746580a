package condition

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, expr string) Node {
	t.Helper()
	n, err := Parse(expr)
	if err != nil {
		t.Fatalf("Parse(%q): %v", expr, err)
	}
	return n
}

func TestParseRef(t *testing.T) {
	n := mustParse(t, "@debug_mode")
	ref, ok := n.(*Ref)
	if !ok {
		t.Fatalf("expected *Ref, got %T", n)
	}
	if ref.ID != "debug_mode" {
		t.Errorf("ref id = %q, want debug_mode", ref.ID)
	}
}

func TestParsePrecedenceAndBindsTighterThanOr(t *testing.T) {
	n := mustParse(t, "@a && @b || @c")
	or, ok := n.(*Or)
	if !ok {
		t.Fatalf("expected top-level *Or, got %T", n)
	}
	if _, ok := or.Left.(*And); !ok {
		t.Errorf("left of || should be &&, got %T", or.Left)
	}
	if right, ok := or.Right.(*Ref); !ok || right.ID != "c" {
		t.Errorf("right of || should be @c, got %#v", or.Right)
	}
}

func TestParseNotBindsTighterThanAnd(t *testing.T) {
	n := mustParse(t, "!@a && @b")
	and, ok := n.(*And)
	if !ok {
		t.Fatalf("expected top-level *And, got %T", n)
	}
	not, ok := and.Left.(*Not)
	if !ok {
		t.Fatalf("left of && should be !, got %T", and.Left)
	}
	if ref, ok := not.Expr.(*Ref); !ok || ref.ID != "a" {
		t.Errorf("negated expression should be @a, got %#v", not.Expr)
	}
}

func TestParseParensOverridePrecedence(t *testing.T) {
	n := mustParse(t, "@a && (@b || @c)")
	and, ok := n.(*And)
	if !ok {
		t.Fatalf("expected top-level *And, got %T", n)
	}
	if _, ok := and.Right.(*Or); !ok {
		t.Errorf("right of && should be parenthesized ||, got %T", and.Right)
	}
}

func TestParseComparisonOperators(t *testing.T) {
	for _, tc := range []struct {
		expr string
		op   CompareOp
	}{
		{"@x == 1", OpEq},
		{"@x != 1", OpNe},
		{"@x > 1", OpGt},
		{"@x < 1", OpLt},
		{"@x >= 1", OpGe},
		{"@x <= 1", OpLe},
	} {
		n := mustParse(t, tc.expr)
		cmp, ok := n.(*Compare)
		if !ok {
			t.Fatalf("%q: expected *Compare, got %T", tc.expr, n)
		}
		if cmp.Op != tc.op {
			t.Errorf("%q: op = %v, want %v", tc.expr, cmp.Op, tc.op)
		}
	}
}

func TestParseBarewordIsStringLiteral(t *testing.T) {
	n := mustParse(t, "@mode == advanced")
	cmp := n.(*Compare)
	s, ok := cmp.Right.(*Str)
	if !ok {
		t.Fatalf("bareword should parse as *Str, got %T", cmp.Right)
	}
	if s.Value != "advanced" {
		t.Errorf("bareword value = %q, want advanced", s.Value)
	}
}

func TestParseQuotedStrings(t *testing.T) {
	for _, expr := range []string{`@mode == "two words"`, `@mode == 'two words'`} {
		cmp := mustParse(t, expr).(*Compare)
		if s := cmp.Right.(*Str); s.Value != "two words" {
			t.Errorf("%q: value = %q, want %q", expr, s.Value, "two words")
		}
	}
}

func TestParseNegativeNumber(t *testing.T) {
	cmp := mustParse(t, "@x > -5").(*Compare)
	num, ok := cmp.Right.(*Num)
	if !ok {
		t.Fatalf("expected *Num, got %T", cmp.Right)
	}
	if num.Value != -5 {
		t.Errorf("value = %v, want -5", num.Value)
	}
}

func TestParseFunctions(t *testing.T) {
	if c := mustParse(t, "count(@tags) > 2"); c == nil {
		t.Fatal("nil node")
	}
	sel := mustParse(t, "selected(@tags, extra)").(*Selected)
	if sel.ID != "tags" {
		t.Errorf("selected id = %q, want tags", sel.ID)
	}
	anyN := mustParse(t, "any(@a, @b, @c)").(*Any)
	if len(anyN.Args) != 3 {
		t.Errorf("any args = %d, want 3", len(anyN.Args))
	}
	allN := mustParse(t, "all(@a, count(@b) >= 1)").(*All)
	if len(allN.Args) != 2 {
		t.Errorf("all args = %d, want 2", len(allN.Args))
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"", "empty"},
		{"@a & @b", "did you mean '&&'"},
		{"@a | @b", "did you mean '||'"},
		{"@a = 1", "did you mean '=='"},
		{"@", "expected identifier"},
		{"@a @b", "trailing"},
		{"count(@a, @b)", "exactly 1 argument"},
		{"count(1)", "@field reference"},
		{"selected(@a)", "exactly 2 arguments"},
		{"selected(x, y)", "@field reference"},
		{"any()", "at least 1 argument"},
		{"max(@a, @b)", "unknown function"},
		{"count", "expected '('"},
		{`@a == "unterminated`, "unterminated"},
		{"(@a", "expected ')'"},
	}
	for _, tc := range cases {
		_, err := Parse(tc.expr)
		if err == nil {
			t.Errorf("Parse(%q): expected error containing %q, got nil", tc.expr, tc.want)
			continue
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Parse(%q): error is %T, want *ParseError", tc.expr, err)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("Parse(%q) = %q, want substring %q", tc.expr, err, tc.want)
		}
	}
}

func TestParseErrorReportsOffset(t *testing.T) {
	_, err := Parse("@a && $")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Offset != 6 {
		t.Errorf("offset = %d, want 6", perr.Offset)
	}
}
