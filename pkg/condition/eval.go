package condition

import (
	"strconv"
)

// Scope provides the widget state a condition can reference. It is
// implemented by state.Store; tests can supply their own.
type Scope interface {
	// Truthy reports whether the value for id is truthy. Unknown ids
	// are falsy.
	Truthy(id string) bool
	// Count returns the number of selections held by id: selected
	// options for a multiselect, 1/0 for a checkbox or choice, 0 for
	// anything else (including unknown ids).
	Count(id string) int
	// Selected reports whether option is currently selected on id.
	Selected(id, option string) bool
	// Operand returns the comparable form of id's value. ok is false
	// for unknown ids and for values with no comparable form.
	Operand(id string) (Operand, bool)
}

// Operand is a value prepared for comparison: a number, or a string
// that may additionally parse as a number.
type Operand struct {
	Text     string
	Number   float64
	IsNumber bool
}

// NumberOperand builds a numeric operand.
func NumberOperand(n float64) Operand {
	return Operand{Number: n, IsNumber: true, Text: strconv.FormatFloat(n, 'f', -1, 64)}
}

// TextOperand builds a string operand. Strings that parse as numbers
// compare numerically when the other side is numeric too.
func TextOperand(s string) Operand {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return Operand{Text: s, Number: n, IsNumber: true}
	}
	return Operand{Text: s}
}

// Evaluate walks the AST against scope and returns the boolean outcome.
// It is pure and total: no scope contents can make it fail, and
// anything unresolvable is simply false.
func Evaluate(n Node, scope Scope) bool {
	switch n := n.(type) {
	case *Ref:
		return scope.Truthy(n.ID)
	case *Num:
		return n.Value != 0
	case *Str:
		return n.Value != ""

	case *Not:
		return !Evaluate(n.Expr, scope)
	case *And:
		return Evaluate(n.Left, scope) && Evaluate(n.Right, scope)
	case *Or:
		return Evaluate(n.Left, scope) || Evaluate(n.Right, scope)

	case *Compare:
		left, lok := operand(n.Left, scope)
		right, rok := operand(n.Right, scope)
		if !lok || !rok {
			return false
		}
		return compare(left, n.Op, right)

	case *Count:
		return scope.Count(n.ID) > 0
	case *Selected:
		return scope.Selected(n.ID, evalText(n.Value, scope))

	case *Any:
		for _, arg := range n.Args {
			if Evaluate(arg, scope) {
				return true
			}
		}
		return false
	case *All:
		for _, arg := range n.Args {
			if !Evaluate(arg, scope) {
				return false
			}
		}
		return true
	}
	return false
}

// operand reduces a value expression to its comparable form. Logical
// expressions have no comparable form; comparing them is always false.
func operand(n Node, scope Scope) (Operand, bool) {
	switch n := n.(type) {
	case *Ref:
		return scope.Operand(n.ID)
	case *Num:
		return NumberOperand(n.Value), true
	case *Str:
		return TextOperand(n.Value), true
	case *Count:
		return NumberOperand(float64(scope.Count(n.ID))), true
	}
	return Operand{}, false
}

// evalText reduces the second argument of selected() to the option text
// to match against.
func evalText(n Node, scope Scope) string {
	switch n := n.(type) {
	case *Str:
		return n.Value
	case *Num:
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	case *Ref:
		if op, ok := scope.Operand(n.ID); ok {
			return op.Text
		}
	}
	return ""
}

// compare applies op to two operands: numerically when both sides are
// numeric, as strings when neither is, and false for the ambiguous
// mixed case.
func compare(left Operand, op CompareOp, right Operand) bool {
	switch {
	case left.IsNumber && right.IsNumber:
		l, r := left.Number, right.Number
		switch op {
		case OpEq:
			return l == r
		case OpNe:
			return l != r
		case OpGt:
			return l > r
		case OpLt:
			return l < r
		case OpGe:
			return l >= r
		case OpLe:
			return l <= r
		}
	case !left.IsNumber && !right.IsNumber:
		l, r := left.Text, right.Text
		switch op {
		case OpEq:
			return l == r
		case OpNe:
			return l != r
		case OpGt:
			return l > r
		case OpLt:
			return l < r
		case OpGe:
			return l >= r
		case OpLe:
			return l <= r
		}
	}
	return false
}
