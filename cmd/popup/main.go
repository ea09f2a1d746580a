package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ormasoftchile/popup/pkg/schema"
	"github.com/ormasoftchile/popup/pkg/session"
	"github.com/ormasoftchile/popup/pkg/templates"
	"github.com/ormasoftchile/popup/pkg/tui"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "popup",
	Short: "Interactive terminal popups with conditional elements",
	Long:  "popup shows interactive forms in the terminal from JSON/YAML definitions, with visibility conditions, nested reveals and option-dependent elements. The result is reported as JSON on stdout.",
}

// --- show ---

var (
	showStdin     bool
	showTimeoutMS int
	showCompact   bool
)

var showCmd = &cobra.Command{
	Use:   "show [definition.json]",
	Short: "Show a popup and print the result JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	var def *schema.PopupDefinition
	var err error
	fromStdin := showStdin || (len(args) == 1 && args[0] == "-")

	if fromStdin {
		def, err = schema.Load(os.Stdin)
		if err != nil {
			return err
		}
	} else {
		if len(args) == 0 {
			return fmt.Errorf("pass a definition file, or --stdin to read one from standard input")
		}
		def, err = schema.LoadFile(args[0])
		if err != nil {
			return err
		}
	}

	if errs := schema.Validate(def); len(errs) > 0 {
		if reportValidation(errs) {
			return fmt.Errorf("definition validation failed")
		}
	}

	sess, err := session.New(def)
	if err != nil {
		return err
	}

	res, err := tui.Run(sess, tui.Options{
		Timeout: time.Duration(showTimeoutMS) * time.Millisecond,
		// Keep stdout clean for the result, and leave stdin free when
		// the definition came from it.
		UseTTY: true,
	})
	if err != nil {
		return err
	}

	return printResult(res)
}

func printResult(res *session.Result) error {
	var out []byte
	var err error
	if showCompact {
		out, err = json.Marshal(res)
	} else {
		out, err = json.MarshalIndent(res, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// reportValidation prints warnings and errors; returns true when any
// errors were present.
func reportValidation(errs []*schema.ValidationError) bool {
	var errors, warnings []*schema.ValidationError
	for _, e := range errs {
		if e.Severity == "warning" {
			warnings = append(warnings, e)
		} else {
			errors = append(errors, e)
		}
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "  ⚠ [%s] %s\n", w.Phase, w.Message)
		if w.Path != "" {
			fmt.Fprintf(os.Stderr, "    at: %s\n", w.Path)
		}
	}
	if len(errors) > 0 {
		fmt.Fprintf(os.Stderr, "Validation failed: %d error(s)\n\n", len(errors))
		for i, e := range errors {
			fmt.Fprintf(os.Stderr, "  %d. [%s] %s\n", i+1, e.Phase, e.Message)
			if e.Path != "" {
				fmt.Fprintf(os.Stderr, "     at: %s\n", e.Path)
			}
		}
		return true
	}
	return false
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate [definition.json]",
	Short: "Validate a popup definition file",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	def, errs := schema.ValidateFile(args[0])
	if len(errs) > 0 && reportValidation(errs) {
		return fmt.Errorf("validation failed with %d error(s)", countErrors(errs))
	}
	name := def.Title
	if name == "" {
		name = args[0]
	}
	fmt.Printf("✓ %s is valid (%d top-level elements)\n", name, len(def.Elements))
	return nil
}

func countErrors(errs []*schema.ValidationError) int {
	n := 0
	for _, e := range errs {
		if e.Severity != "warning" {
			n++
		}
	}
	return n
}

// --- schema ---

var schemaTemplates bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for popup definitions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if schemaTemplates {
			data, err = templates.GenerateConfigSchema()
		} else {
			data, err = schema.DefinitionSchema()
		}
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// --- template ---

var templateConfigPath string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Work with the popup template library",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available popup templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := templates.LoadConfig(templatePath())
		if err != nil {
			return err
		}
		names := cfg.Names()
		if len(names) == 0 {
			fmt.Println("no templates configured")
			return nil
		}
		for _, name := range names {
			t := cfg.Templates[name]
			if t.Description != "" {
				fmt.Printf("%-20s %s\n", name, t.Description)
			} else {
				fmt.Println(name)
			}
		}
		return nil
	},
}

var templateParams []string

var templateShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Expand a template and show the resulting popup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := templates.LoadConfig(templatePath())
		if err != nil {
			return err
		}

		params := make(map[string]any, len(templateParams))
		for _, p := range templateParams {
			parts := strings.SplitN(p, "=", 2)
			if len(parts) != 2 {
				return fmt.Errorf("invalid --param %q: expected key=value", p)
			}
			params[parts[0]] = parts[1]
		}

		def, err := cfg.Render(args[0], params)
		if err != nil {
			return err
		}
		if errs := schema.Validate(def); len(errs) > 0 && reportValidation(errs) {
			return fmt.Errorf("template %q produced an invalid definition", args[0])
		}

		sess, err := session.New(def)
		if err != nil {
			return err
		}
		res, err := tui.Run(sess, tui.Options{
			Timeout: time.Duration(showTimeoutMS) * time.Millisecond,
			UseTTY:  true,
		})
		if err != nil {
			return err
		}
		return printResult(res)
	},
}

func templatePath() string {
	if templateConfigPath != "" {
		return templateConfigPath
	}
	return templates.DefaultPath()
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("popup %s (%s)\n", version, commit)
	},
}

func init() {
	showCmd.Flags().BoolVar(&showStdin, "stdin", false, "read the definition from standard input")
	showCmd.Flags().IntVar(&showTimeoutMS, "timeout-ms", 0, "dismiss with a timeout result after this many milliseconds")
	showCmd.Flags().BoolVar(&showCompact, "compact", false, "print the result as single-line JSON")

	schemaCmd.Flags().BoolVar(&schemaTemplates, "templates", false, "print the template library schema instead")

	templateCmd.PersistentFlags().StringVar(&templateConfigPath, "config", "", "template config file (default: user config dir)")
	templateShowCmd.Flags().StringArrayVar(&templateParams, "param", nil, "template parameter as key=value (repeatable)")
	templateShowCmd.Flags().IntVar(&showTimeoutMS, "timeout-ms", 0, "dismiss with a timeout result after this many milliseconds")
	templateShowCmd.Flags().BoolVar(&showCompact, "compact", false, "print the result as single-line JSON")
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(versionCmd)
}
