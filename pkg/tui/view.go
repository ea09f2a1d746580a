package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ormasoftchile/popup/pkg/schema"
	"github.com/ormasoftchile/popup/pkg/session"
)

// View renders the whole form: title, the resolved visible tree, and a
// key bar.
func (m *Model) View() string {
	var b strings.Builder

	if title := m.sess.Definition().Title; title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderNodes(m.sess.VisibleTree(), m.focusKey()))

	b.WriteString("\n")
	b.WriteString(keyBar())
	return b.String()
}

func keyBar() string {
	parts := []struct{ key, desc string }{
		{"tab", "next"},
		{"space", "toggle"},
		{"←/→", "adjust"},
		{"enter", "submit"},
		{"esc", "cancel"},
	}
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(keyStyle.Render(p.key))
		b.WriteString(keyDescStyle.Render(":" + p.desc))
	}
	return b.String()
}

func (m *Model) renderNodes(nodes []session.VisibleNode, focus string) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(m.renderNode(n, focus))
	}
	return b.String()
}

func (m *Model) renderNode(n session.VisibleNode, focus string) string {
	store := m.sess.Store()

	switch el := n.Element.(type) {
	case *schema.Text:
		return labelStyle.Render(el.Content) + "\n"

	case *schema.Markdown:
		return renderMarkdown(el.Content, m.contentWidth()) + "\n"

	case *schema.Slider:
		focused := focus == (target{id: el.ID, option: -1}).key()
		value := el.Min
		if op, ok := store.Operand(el.ID); ok && op.IsNumber {
			value = op.Number
		}
		line := m.widgetLabel(el.Label, focused) + " " +
			renderTrack(value, el.Min, el.Max) + " " +
			valueStyle.Render(formatNumber(value))
		return line + "\n"

	case *schema.Checkbox:
		focused := focus == (target{id: el.ID, option: -1}).key()
		glyph := GlyphUnchecked
		if store.Truthy(el.ID) {
			glyph = GlyphChecked
		}
		line := m.widgetLabel(glyph+" "+el.Label, focused)
		return line + "\n" + indent(m.renderNodes(n.Children, focus))

	case *schema.Textbox:
		focused := focus == (target{id: el.ID, option: -1}).key()
		var field string
		if ta, ok := m.areas[el.ID]; ok {
			field = ta.View()
		} else if ti, ok := m.inputs[el.ID]; ok {
			field = "> " + ti.View()
		}
		return m.widgetLabel(el.Label, focused) + "\n" + field + "\n"

	case *schema.Choice:
		focused := focus == (target{id: el.ID, option: -1}).key()
		selected := "(none)"
		var desc string
		if text, ok := store.ChoiceText(el.ID); ok {
			selected = text
			for _, o := range el.Options {
				if o.Value == text && o.Description != "" {
					desc = o.Description
				}
			}
		}
		line := m.widgetLabel(el.Label, focused) + " " +
			keyDescStyle.Render("‹") + " " + valueStyle.Render(selected) + " " + keyDescStyle.Render("›")
		if desc != "" {
			line += " " + descStyle.Render(desc)
		}
		return line + "\n" + indent(m.renderNodes(n.Children, focus))

	case *schema.Multiselect:
		var b strings.Builder
		b.WriteString(m.widgetLabel(el.Label, false))
		b.WriteString("\n")
		selected := store.SelectedTexts(el.ID)
		for i, o := range el.Options {
			focused := focus == (target{id: el.ID, option: i}).key()
			glyph := GlyphUnchecked
			for _, text := range selected {
				if text == o.Value {
					glyph = GlyphChecked
				}
			}
			cursor := "  "
			if focused {
				cursor = GlyphCursor + " "
			}
			line := cursor + glyph + " " + o.Value
			if focused {
				line = focusedStyle.Render(line)
			}
			if o.Description != "" {
				line += " " + descStyle.Render(o.Description)
			}
			b.WriteString("  " + line + "\n")
		}
		b.WriteString(indent(m.renderNodes(n.Children, focus)))
		return b.String()

	case *schema.Group:
		body := strings.TrimRight(m.renderNodes(n.Children, focus), "\n")
		box := groupBorder.Width(m.contentWidth() - 2).Render(
			groupTitle.Render(el.Label) + "\n" + body)
		return box + "\n"
	}
	return ""
}

// widgetLabel styles a widget's label line, truncated to the available
// width.
func (m *Model) widgetLabel(label string, focused bool) string {
	label = runewidth.Truncate(label, m.contentWidth(), "…")
	if focused {
		return focusedStyle.Render(GlyphCursor + " " + label)
	}
	return labelStyle.Render("  " + label)
}

// renderTrack draws a fixed-width slider track with the knob placed
// proportionally.
func renderTrack(value, min, max float64) string {
	const width = 20
	pos := 0
	if max > min {
		pos = int((value - min) / (max - min) * float64(width-1))
	}
	if pos < 0 {
		pos = 0
	}
	if pos > width-1 {
		pos = width - 1
	}
	var b strings.Builder
	for i := 0; i < width; i++ {
		if i == pos {
			b.WriteString(knobStyle.Render(GlyphKnob))
		} else {
			b.WriteString(trackStyle.Render(GlyphTrack))
		}
	}
	return b.String()
}

func indent(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n") + "\n"
}
