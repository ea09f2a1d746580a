package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ormasoftchile/popup/pkg/schema"
	"github.com/ormasoftchile/popup/pkg/session"
)

// --- Tea messages ---

// timeoutMsg fires once when the popup's deadline expires.
type timeoutMsg struct{}

// --- Focus targets ---

// target addresses one focusable spot: a widget, or for multiselects a
// single option row.
type target struct {
	id     string
	option int // multiselect option index, -1 for whole-widget targets
}

func (t target) key() string {
	return fmt.Sprintf("%s#%d", t.id, t.option)
}

// --- Model ---

// Model is the top-level Bubble Tea model for a popup form.
type Model struct {
	sess *session.Session

	// Text widgets are created for every textbox up front, visible or
	// not, so revealed textboxes keep their contents across hide/show.
	inputs map[string]textinput.Model
	areas  map[string]textarea.Model

	focus  []target
	cursor int

	timeout time.Duration
	result  *session.Result

	width  int
	height int
}

// New builds the form model for a session. A timeout of zero means the
// popup stays up until submitted or cancelled.
func New(sess *session.Session, timeout time.Duration) *Model {
	m := &Model{
		sess:    sess,
		inputs:  make(map[string]textinput.Model),
		areas:   make(map[string]textarea.Model),
		timeout: timeout,
		width:   80,
		height:  24,
	}
	m.collectTextboxes(sess.Definition().Elements)
	m.syncFocus()
	return m
}

func (m *Model) collectTextboxes(elements []schema.Element) {
	for _, el := range elements {
		switch el := el.(type) {
		case *schema.Textbox:
			if el.Rows > 1 {
				ta := textarea.New()
				ta.Placeholder = el.Placeholder
				ta.SetHeight(el.Rows)
				ta.ShowLineNumbers = false
				m.areas[el.ID] = ta
			} else {
				ti := textinput.New()
				ti.Placeholder = el.Placeholder
				ti.Prompt = ""
				m.inputs[el.ID] = ti
			}
		case *schema.Checkbox:
			m.collectTextboxes(el.Reveals)
		case *schema.Choice:
			m.collectTextboxes(el.Reveals)
			for _, children := range el.OptionChildren {
				m.collectTextboxes(children)
			}
		case *schema.Multiselect:
			m.collectTextboxes(el.Reveals)
			for _, children := range el.OptionChildren {
				m.collectTextboxes(children)
			}
		case *schema.Group:
			m.collectTextboxes(el.Elements)
		}
	}
}

// syncFocus rebuilds the focus ring from the visible tree and moves
// keyboard focus to the widget under the cursor.
func (m *Model) syncFocus() {
	m.focus = m.focus[:0]
	var walk func(nodes []session.VisibleNode)
	walk = func(nodes []session.VisibleNode) {
		for _, n := range nodes {
			switch el := n.Element.(type) {
			case *schema.Slider:
				m.focus = append(m.focus, target{id: el.ID, option: -1})
			case *schema.Checkbox:
				m.focus = append(m.focus, target{id: el.ID, option: -1})
			case *schema.Textbox:
				m.focus = append(m.focus, target{id: el.ID, option: -1})
			case *schema.Choice:
				m.focus = append(m.focus, target{id: el.ID, option: -1})
			case *schema.Multiselect:
				for i := range el.Options {
					m.focus = append(m.focus, target{id: el.ID, option: i})
				}
			}
			walk(n.Children)
		}
	}
	walk(m.sess.VisibleTree())

	if m.cursor >= len(m.focus) {
		m.cursor = len(m.focus) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	focused := ""
	if t, ok := m.current(); ok {
		focused = t.id
	}
	for id, ti := range m.inputs {
		if id == focused {
			ti.Focus()
		} else {
			ti.Blur()
		}
		m.inputs[id] = ti
	}
	for id, ta := range m.areas {
		if id == focused {
			ta.Focus()
		} else {
			ta.Blur()
		}
		m.areas[id] = ta
	}
}

func (m *Model) current() (target, bool) {
	if m.cursor < 0 || m.cursor >= len(m.focus) {
		return target{}, false
	}
	return m.focus[m.cursor], true
}

func (m *Model) focusKey() string {
	if t, ok := m.current(); ok {
		return t.key()
	}
	return ""
}

// inTextbox reports whether focus is on a text widget, and whether it
// is the multi-line kind.
func (m *Model) inTextbox() (single, multi bool) {
	t, ok := m.current()
	if !ok {
		return false, false
	}
	if _, isInput := m.inputs[t.id]; isInput && t.option == -1 {
		return true, false
	}
	if _, isArea := m.areas[t.id]; isArea && t.option == -1 {
		return false, true
	}
	return false, false
}

// Init starts the timeout clock if one is set.
func (m *Model) Init() tea.Cmd {
	if m.timeout <= 0 {
		return nil
	}
	return tea.Tick(m.timeout, func(time.Time) tea.Msg {
		return timeoutMsg{}
	})
}

// Update handles input, mutates the value store and re-resolves
// visibility.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for id, ta := range m.areas {
			ta.SetWidth(m.contentWidth())
			m.areas[id] = ta
		}
		return m, nil

	case timeoutMsg:
		m.result = m.sess.TimedOut(fmt.Sprintf("no response within %s", m.timeout))
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	store := m.sess.Store()
	inSingle, inMulti := m.inTextbox()

	switch msg.String() {
	case "ctrl+c", "esc":
		m.result = m.sess.Cancel()
		return m, tea.Quit

	case "ctrl+s":
		m.result = m.sess.Complete("ok")
		return m, tea.Quit

	case "enter":
		// A textarea keeps enter for newlines; everything else submits.
		if !inMulti {
			m.result = m.sess.Complete("ok")
			return m, tea.Quit
		}

	case "tab", "down":
		if msg.String() == "down" && inMulti {
			break
		}
		if len(m.focus) > 0 {
			m.cursor = (m.cursor + 1) % len(m.focus)
			m.syncFocus()
		}
		return m, nil

	case "shift+tab", "up":
		if msg.String() == "up" && inMulti {
			break
		}
		if len(m.focus) > 0 {
			m.cursor = (m.cursor - 1 + len(m.focus)) % len(m.focus)
			m.syncFocus()
		}
		return m, nil

	case " ", "space":
		if t, ok := m.current(); ok && !inSingle && !inMulti {
			switch m.element(t.id).(type) {
			case *schema.Checkbox:
				store.SetBoolean(t.id, !store.Truthy(t.id))
				m.syncFocus()
				return m, nil
			case *schema.Multiselect:
				store.Toggle(t.id, t.option)
				m.syncFocus()
				return m, nil
			}
		}

	case "left", "right":
		if t, ok := m.current(); ok && !inSingle && !inMulti {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			switch el := m.element(t.id).(type) {
			case *schema.Slider:
				m.nudgeSlider(el, delta)
				m.syncFocus()
				return m, nil
			case *schema.Choice:
				m.cycleChoice(el, delta)
				m.syncFocus()
				return m, nil
			}
		}
	}

	// Everything else goes to the focused text widget.
	var cmd tea.Cmd
	if t, ok := m.current(); ok {
		if ti, isInput := m.inputs[t.id]; isInput {
			ti, cmd = ti.Update(msg)
			m.inputs[t.id] = ti
			store.SetText(t.id, ti.Value())
			m.syncFocus()
		} else if ta, isArea := m.areas[t.id]; isArea {
			ta, cmd = ta.Update(msg)
			m.areas[t.id] = ta
			store.SetText(t.id, ta.Value())
			m.syncFocus()
		}
	}
	return m, cmd
}

// element finds the declared element for an id anywhere in the tree.
func (m *Model) element(id string) schema.Element {
	var found schema.Element
	var walk func(elements []schema.Element)
	walk = func(elements []schema.Element) {
		for _, el := range elements {
			if found != nil {
				return
			}
			if el.ElementID() == id {
				found = el
				return
			}
			switch el := el.(type) {
			case *schema.Checkbox:
				walk(el.Reveals)
			case *schema.Choice:
				walk(el.Reveals)
				for _, children := range el.OptionChildren {
					walk(children)
				}
			case *schema.Multiselect:
				walk(el.Reveals)
				for _, children := range el.OptionChildren {
					walk(children)
				}
			case *schema.Group:
				walk(el.Elements)
			}
		}
	}
	walk(m.sess.Definition().Elements)
	return found
}

func (m *Model) nudgeSlider(el *schema.Slider, delta int) {
	store := m.sess.Store()
	cur := el.Min
	if op, ok := store.Operand(el.ID); ok && op.IsNumber {
		cur = op.Number
	}
	next := cur + float64(delta)*sliderStep(el)
	if next < el.Min {
		next = el.Min
	}
	if next > el.Max {
		next = el.Max
	}
	store.SetNumber(el.ID, next)
}

// sliderStep picks a whole-number step, falling back to a hundredth of
// the range for sub-unit ranges.
func sliderStep(el *schema.Slider) float64 {
	if el.Max-el.Min >= 1 {
		return 1
	}
	return (el.Max - el.Min) / 100
}

func (m *Model) cycleChoice(el *schema.Choice, delta int) {
	store := m.sess.Store()
	n := len(el.Options)
	if n == 0 {
		return
	}
	cur := -1
	if text, ok := store.ChoiceText(el.ID); ok {
		for i, o := range el.Options {
			if o.Value == text {
				cur = i
				break
			}
		}
	}
	next := cur + delta
	if next < 0 {
		next = n - 1
	}
	if next >= n {
		next = 0
	}
	store.Select(el.ID, next)
}

// Result returns the projected outcome once the program has quit, or
// nil if it was torn down without one.
func (m *Model) Result() *session.Result {
	return m.result
}

func (m *Model) contentWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
