// Package session ties one popup definition to its live widget state.
// A session owns the value store, the parsed visibility conditions, and
// the visibility resolver; the renderer mutates values through the
// store and re-reads the visible tree after every change.
package session

import (
	"fmt"

	"github.com/ormasoftchile/popup/pkg/condition"
	"github.com/ormasoftchile/popup/pkg/schema"
	"github.com/ormasoftchile/popup/pkg/state"
)

// Session is one live popup: an immutable definition plus its mutable
// value store. Conditions are parsed once at construction; a malformed
// condition fails the session rather than silently showing the element.
type Session struct {
	def   *schema.PopupDefinition
	store *state.Store
	conds map[schema.Element]condition.Node
}

// New builds a session from a definition, binding every stateful
// element to its initial value.
func New(def *schema.PopupDefinition) (*Session, error) {
	s := &Session{
		def:   def,
		store: state.NewStore(),
		conds: make(map[schema.Element]condition.Node),
	}
	if err := s.bind(def.Elements); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) bind(elements []schema.Element) error {
	for _, el := range elements {
		if expr := el.When(); expr != "" {
			n, err := condition.Parse(expr)
			if err != nil {
				return fmt.Errorf("condition on %s: %w", describe(el), err)
			}
			s.conds[el] = n
		}

		switch el := el.(type) {
		case *schema.Slider:
			v := (el.Min + el.Max) / 2
			if el.Default != nil {
				v = *el.Default
			}
			s.store.Bind(el.ID, el.Label, nil, state.Number(v))

		case *schema.Checkbox:
			s.store.Bind(el.ID, el.Label, nil, state.Boolean(el.Default))
			if err := s.bind(el.Reveals); err != nil {
				return err
			}

		case *schema.Textbox:
			s.store.Bind(el.ID, el.Label, nil, state.Text(""))

		case *schema.Choice:
			texts := schema.Texts(el.Options)
			initial := state.Choice{}
			for i, text := range texts {
				if el.Default != "" && text == el.Default {
					initial = state.Choice{Index: i, Set: true}
					break
				}
			}
			s.store.Bind(el.ID, el.Label, texts, initial)
			if err := s.bind(el.Reveals); err != nil {
				return err
			}
			for _, text := range texts {
				if err := s.bind(el.OptionChildren[text]); err != nil {
					return err
				}
			}

		case *schema.Multiselect:
			texts := schema.Texts(el.Options)
			s.store.Bind(el.ID, el.Label, texts, make(state.MultiChoice, len(texts)))
			if err := s.bind(el.Reveals); err != nil {
				return err
			}
			for _, text := range texts {
				if err := s.bind(el.OptionChildren[text]); err != nil {
					return err
				}
			}

		case *schema.Group:
			if err := s.bind(el.Elements); err != nil {
				return err
			}
		}
	}
	return nil
}

// describe names an element for error messages: its id when it has one,
// otherwise its kind.
func describe(el schema.Element) string {
	if id := el.ElementID(); id != "" {
		return fmt.Sprintf("element %q", id)
	}
	switch el.(type) {
	case *schema.Text:
		return "a text element"
	case *schema.Markdown:
		return "a markdown element"
	case *schema.Group:
		return "a group element"
	}
	return "an element"
}

// Definition returns the immutable definition this session renders.
func (s *Session) Definition() *schema.PopupDefinition {
	return s.def
}

// Store returns the session's value store. All mutation goes through it.
func (s *Session) Store() *state.Store {
	return s.store
}

// Eval parses and evaluates a condition expression against the current
// state. Used by the eval REPL; rendering uses the cached parses.
func (s *Session) Eval(expr string) (bool, error) {
	n, err := condition.Parse(expr)
	if err != nil {
		return false, err
	}
	return condition.Evaluate(n, s.store), nil
}
