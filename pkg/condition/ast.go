// Package condition implements the boolean expression language used in
// element "when" clauses. Expressions reference widget state by id
// (@debug, @severity), combine with !, && and ||, compare with the usual
// six operators, and call the built-in functions count(), selected(),
// any() and all(). Parsing is strict and reports the offending span;
// evaluation is total and fails closed: unresolved references, type
// mismatches and ambiguous comparisons all degrade to false rather than
// erroring, so a bad condition hides content instead of crashing a
// running session.
package condition

// Node is one node of a parsed condition expression. The variants form a
// closed set; Evaluate dispatches over them exhaustively.
type Node interface {
	node()
}

// Ref is a reference to a widget value by id, written @id.
// On its own it evaluates to the truthiness of the value.
type Ref struct {
	ID string
}

// Str is a string literal, either quoted or a bareword.
type Str struct {
	Value string
}

// Num is a numeric literal.
type Num struct {
	Value float64
}

// Not negates its inner expression.
type Not struct {
	Expr Node
}

// And is a short-circuiting conjunction.
type And struct {
	Left, Right Node
}

// Or is a short-circuiting disjunction.
type Or struct {
	Left, Right Node
}

// CompareOp identifies a comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpGt
	OpLt
	OpGe
	OpLe
)

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	case OpGe:
		return ">="
	case OpLe:
		return "<="
	}
	return "?"
}

// Compare applies a comparison operator to two value expressions.
type Compare struct {
	Op          CompareOp
	Left, Right Node
}

// Count is count(@id): the number of selections held by a widget.
type Count struct {
	ID string
}

// Selected is selected(@id, value): whether a particular option is
// currently selected on the referenced widget.
type Selected struct {
	ID    string
	Value Node
}

// Any is any(expr, ...): true when at least one argument is true.
type Any struct {
	Args []Node
}

// All is all(expr, ...): true when every argument is true.
type All struct {
	Args []Node
}

func (*Ref) node()      {}
func (*Str) node()      {}
func (*Num) node()      {}
func (*Not) node()      {}
func (*And) node()      {}
func (*Or) node()       {}
func (*Compare) node()  {}
func (*Count) node()    {}
func (*Selected) node() {}
func (*Any) node()      {}
func (*All) node()      {}
