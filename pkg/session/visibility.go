package session

import (
	"github.com/ormasoftchile/popup/pkg/condition"
	"github.com/ormasoftchile/popup/pkg/schema"
)

// VisibleNode is one visible element together with the nested elements
// it currently exposes: group members, reveals while the owner is
// truthy, and option children while their option is selected.
type VisibleNode struct {
	Element  schema.Element
	Children []VisibleNode
}

// VisibleTree resolves the currently visible elements, in definition
// order. It recomputes from scratch on every call; a hidden parent
// hides its whole subtree regardless of the children's own conditions.
// Hidden elements keep their values, they just drop out of the tree.
func (s *Session) VisibleTree() []VisibleNode {
	return s.resolve(s.def.Elements)
}

func (s *Session) resolve(elements []schema.Element) []VisibleNode {
	var nodes []VisibleNode
	for _, el := range elements {
		if cond, ok := s.conds[el]; ok && !condition.Evaluate(cond, s.store) {
			continue
		}
		node := VisibleNode{Element: el}

		switch el := el.(type) {
		case *schema.Group:
			node.Children = s.resolve(el.Elements)

		case *schema.Checkbox:
			if s.store.Truthy(el.ID) {
				node.Children = s.resolve(el.Reveals)
			}

		case *schema.Choice:
			if s.store.Truthy(el.ID) {
				node.Children = s.resolve(el.Reveals)
			}
			if text, ok := s.store.ChoiceText(el.ID); ok {
				node.Children = append(node.Children, s.resolve(el.OptionChildren[text])...)
			}

		case *schema.Multiselect:
			if s.store.Truthy(el.ID) {
				node.Children = s.resolve(el.Reveals)
			}
			for _, text := range s.store.SelectedTexts(el.ID) {
				node.Children = append(node.Children, s.resolve(el.OptionChildren[text])...)
			}
		}

		nodes = append(nodes, node)
	}
	return nodes
}

// VisibleIDs returns the ids of the visible stateful elements in
// display order. This is exactly the set of keys a completed result
// reports.
func (s *Session) VisibleIDs() []string {
	var ids []string
	var flatten func(nodes []VisibleNode)
	flatten = func(nodes []VisibleNode) {
		for _, n := range nodes {
			switch n.Element.(type) {
			case *schema.Slider, *schema.Checkbox, *schema.Textbox, *schema.Choice, *schema.Multiselect:
				ids = append(ids, n.Element.ElementID())
			}
			flatten(n.Children)
		}
	}
	flatten(s.VisibleTree())
	return ids
}
