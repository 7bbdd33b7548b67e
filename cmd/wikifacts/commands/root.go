package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/wikifacts/pkg/cli"
)

const appName = "wikifacts"

var (
	// Global flags
	cfgFile      string
	contextName  string
	outputFile   string
	outputJSON   bool
	outputFormat string
	verbose      bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wikifacts",
	Short: "Wikidata people and facts CLI tool",
	Long: `wikifacts - look up people on Wikidata and browse their claims.

Queries go to the public Wikidata SPARQL endpoint unless a context points
somewhere else. Results can be saved into a local fact graph and browsed
offline with the graph commands.

Configuration is stored in ~/.giztoy/wikifacts/ and supports multiple
contexts, similar to kubectl's context management.

Examples:
  # Find people called William Carpenter
  wikifacts search William Carpenter

  # Fetch the entity-valued claims of Douglas Adams, labels in German
  wikifacts fetch Q42 --lang de --format table

  # Save them and look around
  wikifacts fetch Q42 --save
  wikifacts graph neighbors Q42

  # Raw SPARQL, filtered with jq
  wikifacts query 'SELECT ?x WHERE { wd:Q42 wdt:P31 ?x }' --jq '.results.bindings[].x.value'
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is ~/.giztoy/wikifacts/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "yaml", "output format: yaml, json, table, raw")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(graphCmd)
}

func initConfig() {
	setupLogging(os.Stderr, verbose)

	var err error
	globalConfig, err = cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes slog debug output to w when verbose is set.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// getContext returns the context to use. A nil context with no error means
// no context is configured and built-in defaults apply.
func getContext() (*cli.Context, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return cfg.ResolveContext(contextName)
}

// getOutputFormat resolves --json and --format
func getOutputFormat() (cli.OutputFormat, error) {
	if outputJSON {
		return cli.FormatJSON, nil
	}
	return cli.ParseOutputFormat(outputFormat)
}

// outputResult writes result to -o or w in the selected format
func outputResult(w io.Writer, result any) error {
	format, err := getOutputFormat()
	if err != nil {
		return err
	}
	opts := cli.OutputOptions{Format: format, File: outputFile}
	if outputFile == "" {
		opts.Writer = w
	}
	return cli.Output(result, opts)
}

// printVerbose prints verbose output if enabled
func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}
