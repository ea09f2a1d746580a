//go:build ignore

package main

import (
	"fmt"
	"os"

	"github.com/ormasoftchile/popup/pkg/schema"
	"github.com/ormasoftchile/popup/pkg/templates"
)

func main() {
	data, err := schema.DefinitionSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("schemas/popup-v1.json", data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("wrote schemas/popup-v1.json")

	tmplData, err := templates.GenerateConfigSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating template schema: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("schemas/templates-v1.json", tmplData, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("wrote schemas/templates-v1.json")
}
