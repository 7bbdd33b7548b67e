package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/wikifacts/pkg/factstore"
	"github.com/haivivi/wikifacts/pkg/wikidata"
)

var (
	fetchAll  bool
	fetchLang string
	fetchSave bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <id>",
	Short: "Fetch the claims of an entity",
	Long: `Fetch the direct claims of one Wikidata entity.

The id can be given as Q42, 42 or an entity URL. By default only claims
whose value is another entity are returned; --all includes literals too.

Example:
  wikifacts fetch Q42
  wikifacts fetch https://www.wikidata.org/wiki/Q42 --all --lang de
  wikifacts fetch 42 --save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := normalizeID(args[0])
		if err != nil {
			return err
		}
		ctx, err := getContext()
		if err != nil {
			return err
		}
		client, err := createClient()
		if err != nil {
			return err
		}

		var store *factstore.Store
		if fetchSave {
			s, backend, err := openStore()
			if err != nil {
				return err
			}
			defer backend.Close()
			store = s
		}

		opts := wikidata.FetchOptions{
			OnlyEntities: !fetchAll,
			Language:     fetchLanguage(fetchLang, ctx),
		}
		fields, err := runFetch(cmd.Context(), client, store, id, opts)
		if err != nil {
			return err
		}
		printVerbose("%d claims for %s", len(fields), id)
		return outputResult(cmd.OutOrStdout(), fields)
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchAll, "all", false, "include literal-valued claims")
	fetchCmd.Flags().StringVar(&fetchLang, "lang", "", "label language (default: context language, then automatic)")
	fetchCmd.Flags().BoolVar(&fetchSave, "save", false, "save claims to the local fact graph")
}

// runFetch fetches the claims of id and saves them when store is not nil.
func runFetch(ctx context.Context, client *wikidata.Client, store *factstore.Store, id string, opts wikidata.FetchOptions) (fieldsResult, error) {
	fields, err := client.FetchEntityFields(ctx, id, &opts)
	if err != nil {
		return nil, err
	}
	if store != nil {
		if err := store.PutFields(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("save %s: %w", id, err)
		}
	}
	return fieldsResult(fields), nil
}
