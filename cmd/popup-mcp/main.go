// Package main provides the popup-mcp binary, an MCP server exposing
// popups to AI agents.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	pmcp "github.com/ormasoftchile/popup/pkg/mcp"
	"github.com/ormasoftchile/popup/pkg/templates"
)

var version = "dev"

func main() {
	templatePath := flag.String("templates", templates.DefaultPath(), "template config file")
	flag.Parse()

	s, err := pmcp.NewServer(version, *templatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
