package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/wikifacts/pkg/cli"
	"github.com/haivivi/wikifacts/pkg/sparql"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

A context names a SPARQL endpoint together with its token, timeout,
preferred label language and fact store directory. Without any context the
public Wikidata endpoint is used.

Configuration is stored in ~/.giztoy/wikifacts/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add or replace a context",
	Long: `Add a context with the specified name, replacing any existing one.

Example:
  wikifacts config add-context wdqs
  wikifacts config add-context mirror --endpoint https://sparql.example.org/query --token TOKEN --lang de`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		flags := cmd.Flags()

		ctx := &cli.Context{}
		var err error
		if ctx.Endpoint, err = flags.GetString("endpoint"); err != nil {
			return fmt.Errorf("failed to read 'endpoint' flag: %w", err)
		}
		if ctx.Token, err = flags.GetString("token"); err != nil {
			return fmt.Errorf("failed to read 'token' flag: %w", err)
		}
		if ctx.Timeout, err = flags.GetInt("timeout"); err != nil {
			return fmt.Errorf("failed to read 'timeout' flag: %w", err)
		}
		if ctx.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return fmt.Errorf("failed to read 'user-agent' flag: %w", err)
		}
		if ctx.Language, err = flags.GetString("lang"); err != nil {
			return fmt.Errorf("failed to read 'lang' flag: %w", err)
		}
		if ctx.StoreDir, err = flags.GetString("store-dir"); err != nil {
			return fmt.Errorf("failed to read 'store-dir' flag: %w", err)
		}
		if ctx.Timeout < 0 {
			return fmt.Errorf("--timeout must not be negative")
		}
		if ctx.Endpoint != "" {
			if _, err := parseEndpoint(ctx.Endpoint); err != nil {
				return err
			}
		}

		if err := getConfig().AddContext(name, ctx); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q added successfully", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q deleted", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context %q", args[0])
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Display the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg.CurrentContext == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No current context set")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.CurrentContext)
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"get-contexts"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if len(cfg.Contexts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No contexts configured")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable(contextRows(cfg), cli.DefaultTheme))
		return nil
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the configuration with tokens masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		view := struct {
			Path           string                  `json:"path" yaml:"path"`
			CurrentContext string                  `json:"current_context" yaml:"current_context"`
			Contexts       map[string]*cli.Context `json:"contexts" yaml:"contexts"`
		}{
			Path:           cfg.Path(),
			CurrentContext: cfg.CurrentContext,
			Contexts:       make(map[string]*cli.Context, len(cfg.Contexts)),
		}
		for name, ctx := range cfg.Contexts {
			view.Contexts[name] = ctx.Masked()
		}
		return outputResult(cmd.OutOrStdout(), view)
	},
}

func init() {
	configAddContextCmd.Flags().String("endpoint", "", "SPARQL endpoint URL (default "+sparql.DefaultEndpoint+")")
	configAddContextCmd.Flags().String("token", "", "bearer token")
	configAddContextCmd.Flags().Int("timeout", 0, "request timeout in seconds")
	configAddContextCmd.Flags().String("user-agent", "", "User-Agent header")
	configAddContextCmd.Flags().String("lang", "", "preferred label language for fetch")
	configAddContextCmd.Flags().String("store-dir", "", "fact store directory")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}

// contextRows lists contexts in name order with the current one starred.
func contextRows(cfg *cli.Config) cli.Rows {
	rows := cli.Rows{Header: []string{"CURRENT", "NAME", "ENDPOINT", "LANGUAGE"}}
	for _, name := range cfg.ListContexts() {
		ctx := cfg.Contexts[name]
		current := ""
		if name == cfg.CurrentContext {
			current = "*"
		}
		endpoint := ctx.Endpoint
		if endpoint == "" {
			endpoint = "(default)"
		}
		rows.Data = append(rows.Data, []string{current, name, endpoint, ctx.Language})
	}
	return rows
}
