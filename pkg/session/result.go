package session

import (
	"github.com/ormasoftchile/popup/pkg/state"
)

// Result is the outcome of a popup session as reported to the caller.
type Result struct {
	Status  string         `json:"status"` // completed, cancelled, timeout
	Button  string         `json:"button,omitempty"`
	Values  map[string]any `json:"values,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Complete projects a submitted session into a completed result. Values
// holds exactly the visible stateful elements at submit time: a slider
// as its number, a checkbox as its boolean, a textbox as its text, a
// choice as its selected option text (null when nothing is selected)
// and a multiselect as its selected option texts.
func (s *Session) Complete(button string) *Result {
	values := make(map[string]any)
	for _, id := range s.VisibleIDs() {
		v, ok := s.store.Value(id)
		if !ok {
			continue
		}
		switch v := v.(type) {
		case state.Number:
			values[id] = float64(v)
		case state.Boolean:
			values[id] = bool(v)
		case state.Text:
			values[id] = string(v)
		case state.Choice:
			if text, selected := s.store.ChoiceText(id); selected {
				values[id] = text
			} else {
				values[id] = nil
			}
		case state.MultiChoice:
			values[id] = s.store.SelectedTexts(id)
		}
	}
	return &Result{Status: "completed", Button: button, Values: values}
}

// Cancel projects a dismissed session. No values are reported.
func (s *Session) Cancel() *Result {
	return &Result{Status: "cancelled"}
}

// TimedOut projects an expired session. No values are reported.
func (s *Session) TimedOut(message string) *Result {
	return &Result{Status: "timeout", Message: message}
}
