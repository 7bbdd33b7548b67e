package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/wikifacts/pkg/factstore"
	"github.com/haivivi/wikifacts/pkg/wikidata"
)

var searchSave bool

var searchCmd = &cobra.Command{
	Use:   "search <name...>",
	Short: "Find people by exact English label",
	Long: `Find humans on Wikidata whose English label is exactly the given name.

All arguments are joined with spaces, so quoting is optional.

Example:
  wikifacts search William Carpenter
  wikifacts search "Douglas Adams" --save --format table`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := createClient()
		if err != nil {
			return err
		}

		var store *factstore.Store
		if searchSave {
			s, backend, err := openStore()
			if err != nil {
				return err
			}
			defer backend.Close()
			store = s
		}

		people, err := runSearch(cmd.Context(), client, store, strings.Join(args, " "))
		if err != nil {
			return err
		}
		printVerbose("%d people found", len(people))
		return outputResult(cmd.OutOrStdout(), people)
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchSave, "save", false, "save hits to the local fact graph")
}

// runSearch searches for name and saves the hits when store is not nil.
func runSearch(ctx context.Context, client *wikidata.Client, store *factstore.Store, name string) (peopleResult, error) {
	people, err := client.SearchPeople(ctx, name)
	if err != nil {
		return nil, err
	}
	if store != nil {
		for _, p := range people {
			if err := store.PutPerson(ctx, p); err != nil {
				return nil, fmt.Errorf("save %s: %w", p.ID, err)
			}
		}
	}
	return peopleResult(people), nil
}
