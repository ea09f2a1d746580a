// Package schema defines the popup definition tree: the typed element
// variants, the JSON/YAML decoder with element-as-key and option-as-key
// support, and the validation pipeline that rejects malformed
// definitions before a popup is ever shown.
package schema

// PopupDefinition is the top-level popup document: a title and an
// ordered list of elements. Immutable once parsed; only the value store
// changes during a session.
type PopupDefinition struct {
	Title    string
	Elements []Element
}

// Element is one node of the widget tree. The variants form a closed
// set; the visibility resolver and renderer dispatch over them
// exhaustively.
type Element interface {
	elem()
	// ElementID returns the element's id, or "" for id-less text,
	// markdown and group elements.
	ElementID() string
	// When returns the element's visibility condition, or "".
	When() string
}

// Option is a single selectable option of a choice or multiselect:
// the option text plus an optional description.
type Option struct {
	Value       string
	Description string
}

// Texts returns just the option texts, in declaration order.
func Texts(options []Option) []string {
	texts := make([]string, len(options))
	for i, o := range options {
		texts[i] = o.Value
	}
	return texts
}

// Text is static display text.
type Text struct {
	Content   string
	ID        string // optional
	Condition string
}

// Markdown is rich display text rendered as markdown.
type Markdown struct {
	Content   string
	ID        string // optional
	Condition string
}

// Slider is a numeric range input.
type Slider struct {
	Label     string
	ID        string
	Min, Max  float64
	Default   *float64 // nil = midpoint of the range
	Condition string
}

// Checkbox is a boolean toggle. Reveals are shown while it is checked.
type Checkbox struct {
	Label     string
	ID        string
	Default   bool
	Reveals   []Element
	Condition string
}

// Textbox is a free-text input. Rows > 1 selects a multi-line area.
type Textbox struct {
	Label       string
	ID          string
	Placeholder string
	Rows        int
	Condition   string
}

// Choice is a single selection from options. OptionChildren maps an
// option text to elements shown while that option is selected; Reveals
// are shown while any option is selected.
type Choice struct {
	Label          string
	ID             string
	Options        []Option
	Default        string // option text, not index
	Reveals        []Element
	OptionChildren map[string][]Element
	Condition      string
}

// Multiselect is a multiple selection from options, with the same
// nesting rules as Choice.
type Multiselect struct {
	Label          string
	ID             string
	Options        []Option
	Reveals        []Element
	OptionChildren map[string][]Element
	Condition      string
}

// Group is a labeled container. Its condition gates all children
// collectively; otherwise it is transparent.
type Group struct {
	Label     string
	ID        string // optional
	Elements  []Element
	Condition string
}

func (*Text) elem()        {}
func (*Markdown) elem()    {}
func (*Slider) elem()      {}
func (*Checkbox) elem()    {}
func (*Textbox) elem()     {}
func (*Choice) elem()      {}
func (*Multiselect) elem() {}
func (*Group) elem()       {}

func (e *Text) ElementID() string        { return e.ID }
func (e *Markdown) ElementID() string    { return e.ID }
func (e *Slider) ElementID() string      { return e.ID }
func (e *Checkbox) ElementID() string    { return e.ID }
func (e *Textbox) ElementID() string     { return e.ID }
func (e *Choice) ElementID() string      { return e.ID }
func (e *Multiselect) ElementID() string { return e.ID }
func (e *Group) ElementID() string       { return e.ID }

func (e *Text) When() string        { return e.Condition }
func (e *Markdown) When() string    { return e.Condition }
func (e *Slider) When() string      { return e.Condition }
func (e *Checkbox) When() string    { return e.Condition }
func (e *Textbox) When() string     { return e.Condition }
func (e *Choice) When() string      { return e.Condition }
func (e *Multiselect) When() string { return e.Condition }
func (e *Group) When() string       { return e.Condition }
