// Package main provides the wikifacts CLI tool.
//
// Usage:
//
//	wikifacts [flags] <command> [args]
//
// Commands:
//
//	search   - Find people on Wikidata by exact English label
//	fetch    - Fetch the claims of one entity
//	query    - Run an arbitrary SPARQL query
//	graph    - Browse facts saved locally with --save
//	config   - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.giztoy/wikifacts/
//	Use 'wikifacts config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/wikifacts/cmd/wikifacts/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
