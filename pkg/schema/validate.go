package schema

import (
	"fmt"

	"github.com/ormasoftchile/popup/pkg/condition"
)

// ValidationError represents a single validation error with location context.
type ValidationError struct {
	Phase    string `json:"phase"` // structural, domain
	Path     string `json:"path"`  // JSON-path-like location (e.g., "elements[0].reveals[1]")
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
}

// ValidateFile runs the full validation pipeline on a definition file.
// Phase 1: Structural (strict decode)
// Phase 2: Domain (custom Go rules)
func ValidateFile(path string) (*PopupDefinition, []*ValidationError) {
	def, err := LoadFile(path)
	if err != nil {
		return nil, []*ValidationError{{
			Phase:    "structural",
			Path:     "",
			Message:  err.Error(),
			Severity: "error",
		}}
	}
	if errs := Validate(def); len(errs) > 0 {
		return def, errs
	}
	return def, nil
}

// Validate performs domain-level validation of a decoded definition.
// Returns a slice of errors; empty means valid.
func Validate(def *PopupDefinition) []*ValidationError {
	var errs []*ValidationError

	if len(def.Elements) == 0 {
		errs = append(errs, &ValidationError{
			Phase:    "domain",
			Path:     "elements",
			Message:  "popup must contain at least one element",
			Severity: "error",
		})
	}

	// Element ID uniqueness is global: reveals and option children share
	// one namespace with top-level elements, since conditions reference
	// any of them by @id.
	seen := make(map[string]string)
	walk(def.Elements, "elements", func(el Element, path string) {
		if id := el.ElementID(); id != "" {
			if prev, dup := seen[id]; dup {
				errs = append(errs, &ValidationError{
					Phase:    "domain",
					Path:     path,
					Message:  fmt.Sprintf("duplicate element id %q (first at %s)", id, prev),
					Severity: "error",
				})
			} else {
				seen[id] = path
			}
		}

		if expr := el.When(); expr != "" {
			if _, err := condition.Parse(expr); err != nil {
				errs = append(errs, &ValidationError{
					Phase:    "domain",
					Path:     path + ".when",
					Message:  err.Error(),
					Severity: "error",
				})
			}
		}

		errs = append(errs, validateElement(el, path)...)
	})

	return errs
}

// validateElement checks per-variant field constraints.
func validateElement(el Element, path string) []*ValidationError {
	var errs []*ValidationError

	switch el := el.(type) {
	case *Slider:
		if el.Min >= el.Max {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     path,
				Message:  fmt.Sprintf("slider %q requires min < max, got min=%v max=%v", el.ID, el.Min, el.Max),
				Severity: "error",
			})
		}
		if el.Default != nil && (*el.Default < el.Min || *el.Default > el.Max) {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     path + ".default",
				Message:  fmt.Sprintf("slider %q default %v is outside [%v, %v]", el.ID, *el.Default, el.Min, el.Max),
				Severity: "error",
			})
		}

	case *Choice:
		errs = append(errs, validateOptions(el.ID, el.Options, path)...)
		if el.Default != "" && !hasOption(el.Options, el.Default) {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     path + ".default",
				Message:  fmt.Sprintf("choice %q default %q is not a declared option", el.ID, el.Default),
				Severity: "error",
			})
		}

	case *Multiselect:
		errs = append(errs, validateOptions(el.ID, el.Options, path)...)
	}

	return errs
}

func validateOptions(id string, options []Option, path string) []*ValidationError {
	var errs []*ValidationError
	if len(options) == 0 {
		errs = append(errs, &ValidationError{
			Phase:    "domain",
			Path:     path + ".options",
			Message:  fmt.Sprintf("element %q requires at least one option", id),
			Severity: "error",
		})
	}
	seen := make(map[string]bool, len(options))
	for i, o := range options {
		if seen[o.Value] {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     fmt.Sprintf("%s.options[%d]", path, i),
				Message:  fmt.Sprintf("element %q declares option %q more than once", id, o.Value),
				Severity: "error",
			})
		}
		seen[o.Value] = true
	}
	return errs
}

func hasOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// walk visits every element depth-first, descending into group members,
// reveals and option children, calling fn with a JSON-path-like
// location for each.
func walk(elements []Element, base string, fn func(el Element, path string)) {
	for i, el := range elements {
		path := fmt.Sprintf("%s[%d]", base, i)
		fn(el, path)
		switch el := el.(type) {
		case *Checkbox:
			walk(el.Reveals, path+".reveals", fn)
		case *Choice:
			walk(el.Reveals, path+".reveals", fn)
			for option, children := range el.OptionChildren {
				walk(children, fmt.Sprintf("%s.%q", path, option), fn)
			}
		case *Multiselect:
			walk(el.Reveals, path+".reveals", fn)
			for option, children := range el.OptionChildren {
				walk(children, fmt.Sprintf("%s.%q", path, option), fn)
			}
		case *Group:
			walk(el.Elements, path+".elements", fn)
		}
	}
}
