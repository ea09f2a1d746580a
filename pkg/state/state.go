// Package state holds the live widget values of one popup session: a
// store keyed by element id, initialized from the definition's defaults
// and mutated only by the rendering layer. The store also implements
// condition.Scope so when-clauses can be evaluated directly against it.
package state

import (
	"sort"

	"github.com/ormasoftchile/popup/pkg/condition"
)

// Value is the runtime value of one widget. The variants form a closed
// set matching the widget kinds that carry state.
type Value interface {
	value()
}

// Number is a slider value.
type Number float64

// Boolean is a checkbox value.
type Boolean bool

// Text is a textbox value.
type Text string

// MultiChoice is a multiselect value: one flag per declared option.
type MultiChoice []bool

// Choice is a single-select value. Set is false when nothing is
// selected yet.
type Choice struct {
	Index int
	Set   bool
}

func (Number) value()      {}
func (Boolean) value()     {}
func (Text) value()        {}
func (MultiChoice) value() {}
func (Choice) value()      {}

// entry pairs a value with the owning widget's label and option texts.
// Label and options are denormalized here so condition evaluation never
// needs the element tree: selected() matches option texts for
// choice/multiselect and the label for checkboxes.
type entry struct {
	value   Value
	label   string
	options []string
}

// Store maps element ids to their current values. One store per popup
// session; never shared across sessions.
type Store struct {
	entries map[string]*entry
}

// NewStore returns an empty store. Entries are added with Bind while
// walking the definition tree.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Bind registers id with its initial value, widget label and declared
// option texts (nil for widgets without options).
func (s *Store) Bind(id, label string, options []string, initial Value) {
	s.entries[id] = &entry{value: initial, label: label, options: options}
}

// Value returns the current value for id.
func (s *Store) Value(id string) (Value, bool) {
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Label returns the widget label bound to id.
func (s *Store) Label(id string) string {
	if e, ok := s.entries[id]; ok {
		return e.label
	}
	return ""
}

// Options returns the declared option texts bound to id.
func (s *Store) Options(id string) []string {
	if e, ok := s.entries[id]; ok {
		return e.options
	}
	return nil
}

// IDs returns all bound ids in sorted order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// --- Mutators. Wrong ids or value kinds are ignored: the renderer only
// mutates widgets it drew, and the evaluation core never mutates.

// SetNumber updates a slider value.
func (s *Store) SetNumber(id string, v float64) {
	if e, ok := s.entries[id]; ok {
		if _, isNum := e.value.(Number); isNum {
			e.value = Number(v)
		}
	}
}

// SetBoolean updates a checkbox value.
func (s *Store) SetBoolean(id string, v bool) {
	if e, ok := s.entries[id]; ok {
		if _, isBool := e.value.(Boolean); isBool {
			e.value = Boolean(v)
		}
	}
}

// SetText updates a textbox value.
func (s *Store) SetText(id string, v string) {
	if e, ok := s.entries[id]; ok {
		if _, isText := e.value.(Text); isText {
			e.value = Text(v)
		}
	}
}

// Select sets the selected option index of a choice. Index -1 clears
// the selection.
func (s *Store) Select(id string, index int) {
	e, ok := s.entries[id]
	if !ok {
		return
	}
	if _, isChoice := e.value.(Choice); !isChoice {
		return
	}
	if index < 0 || index >= len(e.options) {
		e.value = Choice{}
		return
	}
	e.value = Choice{Index: index, Set: true}
}

// Toggle flips one option flag of a multiselect.
func (s *Store) Toggle(id string, index int) {
	e, ok := s.entries[id]
	if !ok {
		return
	}
	mc, isMulti := e.value.(MultiChoice)
	if !isMulti || index < 0 || index >= len(mc) {
		return
	}
	flipped := make(MultiChoice, len(mc))
	copy(flipped, mc)
	flipped[index] = !flipped[index]
	e.value = flipped
}

// --- Read helpers used by the renderer and the result projector.

// SelectedTexts returns the option texts currently selected on a
// multiselect, in declaration order.
func (s *Store) SelectedTexts(id string) []string {
	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	mc, isMulti := e.value.(MultiChoice)
	if !isMulti {
		return nil
	}
	texts := []string{}
	for i, selected := range mc {
		if selected && i < len(e.options) {
			texts = append(texts, e.options[i])
		}
	}
	return texts
}

// ChoiceText returns the selected option text of a choice, if any.
func (s *Store) ChoiceText(id string) (string, bool) {
	e, ok := s.entries[id]
	if !ok {
		return "", false
	}
	c, isChoice := e.value.(Choice)
	if !isChoice || !c.Set || c.Index >= len(e.options) {
		return "", false
	}
	return e.options[c.Index], true
}

// --- condition.Scope implementation.

// Truthy reports the truthiness of id's value: nonzero number,
// checked box, non-empty text, a selection on a choice, at least one
// selection on a multiselect. Unknown ids are falsy.
func (s *Store) Truthy(id string) bool {
	e, ok := s.entries[id]
	if !ok {
		return false
	}
	switch v := e.value.(type) {
	case Number:
		return v != 0
	case Boolean:
		return bool(v)
	case Text:
		return v != ""
	case Choice:
		return v.Set
	case MultiChoice:
		for _, selected := range v {
			if selected {
				return true
			}
		}
	}
	return false
}

// Count returns the selection count for id per the count() semantics.
func (s *Store) Count(id string) int {
	e, ok := s.entries[id]
	if !ok {
		return 0
	}
	switch v := e.value.(type) {
	case Boolean:
		if v {
			return 1
		}
	case Choice:
		if v.Set {
			return 1
		}
	case MultiChoice:
		n := 0
		for _, selected := range v {
			if selected {
				n++
			}
		}
		return n
	}
	return 0
}

// Selected reports whether option is selected on id. For a choice it
// matches the selected option text; for a multiselect, membership in
// the selected texts. For a checkbox it matches the widget *label*
// while checked, an inconsistency with the option-text namespace used
// by choice/multiselect, kept for compatibility with existing popup
// definitions.
func (s *Store) Selected(id, option string) bool {
	e, ok := s.entries[id]
	if !ok {
		return false
	}
	switch v := e.value.(type) {
	case Boolean:
		return bool(v) && e.label == option
	case Choice:
		return v.Set && v.Index < len(e.options) && e.options[v.Index] == option
	case MultiChoice:
		for i, selected := range v {
			if selected && i < len(e.options) && e.options[i] == option {
				return true
			}
		}
	}
	return false
}

// Operand returns the comparable form of id's value. Multiselects have
// no scalar form; a choice with no selection compares as the empty
// string.
func (s *Store) Operand(id string) (condition.Operand, bool) {
	e, ok := s.entries[id]
	if !ok {
		return condition.Operand{}, false
	}
	switch v := e.value.(type) {
	case Number:
		return condition.NumberOperand(float64(v)), true
	case Text:
		return condition.TextOperand(string(v)), true
	case Boolean:
		if v {
			return condition.Operand{Text: "true"}, true
		}
		return condition.Operand{Text: "false"}, true
	case Choice:
		text, _ := s.ChoiceText(id)
		return condition.TextOperand(text), true
	}
	return condition.Operand{}, false
}
