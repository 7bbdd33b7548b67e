// Package cli provides the configuration, output and request-loading helpers
// behind the wikifacts command-line tool.
//
// Configuration is stored in ~/.giztoy/wikifacts/config.yaml and holds
// named contexts, similar to kubectl:
//
//	cfg, err := cli.LoadConfig("wikifacts")
//	ctx, err := cfg.ResolveContext("")
//
//	cli.Output(people, cli.OutputOptions{Format: cli.FormatTable})
package cli
