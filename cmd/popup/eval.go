package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/ormasoftchile/popup/pkg/schema"
	"github.com/ormasoftchile/popup/pkg/session"
	"github.com/ormasoftchile/popup/pkg/state"
)

var evalCmd = &cobra.Command{
	Use:   "eval [definition.json]",
	Short: "Interactively evaluate conditions against a definition's state",
	Long: `Load a definition and drop into a REPL for exploring its condition
language. Type an expression to evaluate it against the current state.

Commands:
  :set <id> <value>   set a widget value (option text for choices,
                      comma-separated texts for multiselects)
  :visible            list the currently visible element ids
  :values             print the values a submit would report
  :quit               exit`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	def, errs := schema.ValidateFile(args[0])
	if len(errs) > 0 && reportValidation(errs) {
		return fmt.Errorf("definition validation failed")
	}

	sess, err := session.New(def)
	if err != nil {
		return err
	}

	rl, err := readline.New("popup> ")
	if err != nil {
		return fmt.Errorf("start repl: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case line == ":quit", line == ":q":
			return nil
		case line == ":visible":
			for _, id := range sess.VisibleIDs() {
				fmt.Println(id)
			}
		case line == ":values":
			out, err := json.MarshalIndent(sess.Complete("ok").Values, "", "  ")
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println(string(out))
		case strings.HasPrefix(line, ":set "):
			if err := evalSet(sess, strings.TrimPrefix(line, ":set ")); err != nil {
				fmt.Println("error:", err)
			}
		case strings.HasPrefix(line, ":"):
			fmt.Printf("unknown command %q (try :set, :visible, :values, :quit)\n", line)
		default:
			ok, err := sess.Eval(line)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println(ok)
		}
	}
}

// evalSet applies ":set id value", interpreting value by the widget's
// kind.
func evalSet(sess *session.Session, rest string) error {
	parts := strings.SplitN(strings.TrimSpace(rest), " ", 2)
	id := parts[0]
	raw := ""
	if len(parts) == 2 {
		raw = strings.TrimSpace(parts[1])
	}

	store := sess.Store()
	v, ok := store.Value(id)
	if !ok {
		return fmt.Errorf("unknown element id %q", id)
	}

	switch v.(type) {
	case state.Number:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", raw)
		}
		store.SetNumber(id, n)

	case state.Boolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%q is not a boolean", raw)
		}
		store.SetBoolean(id, b)

	case state.Text:
		store.SetText(id, raw)

	case state.Choice:
		if raw == "" {
			store.Select(id, -1)
			return nil
		}
		for i, text := range store.Options(id) {
			if text == raw {
				store.Select(id, i)
				return nil
			}
		}
		return fmt.Errorf("%q is not an option of %q", raw, id)

	case state.MultiChoice:
		want := map[string]bool{}
		if raw != "" {
			for _, part := range strings.Split(raw, ",") {
				want[strings.TrimSpace(part)] = true
			}
		}
		options := store.Options(id)
		for text := range want {
			found := false
			for _, opt := range options {
				if opt == text {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%q is not an option of %q", text, id)
			}
		}
		selected := map[string]bool{}
		for _, text := range store.SelectedTexts(id) {
			selected[text] = true
		}
		for i, opt := range options {
			if want[opt] != selected[opt] {
				store.Toggle(id, i)
			}
		}
	}
	return nil
}
