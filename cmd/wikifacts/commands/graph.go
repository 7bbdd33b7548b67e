package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/wikifacts/pkg/cli"
	"github.com/haivivi/wikifacts/pkg/factstore"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Browse the local fact graph",
	Long: `Browse people and claims saved with search --save and fetch --save.

The graph lives in ~/.giztoy/wikifacts/data/<context>/ unless the context
sets store_dir. Nothing here talks to the network.`,
}

var graphShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved entity with its claims and links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := normalizeID(args[0])
		if err != nil {
			return err
		}
		return withStore(func(store *factstore.Store) error {
			view, err := showEntity(cmd.Context(), store, id)
			if err != nil {
				return err
			}
			return outputResult(cmd.OutOrStdout(), view)
		})
	},
}

var (
	neighborHops       int
	neighborProperties []string
)

var graphNeighborsCmd = &cobra.Command{
	Use:   "neighbors <id>",
	Short: "List entities linked to a saved entity",
	Long: `List entities linked to id in either direction.

With --hops N the walk continues N steps and the result includes id itself.
--property restricts a one-hop listing to the given properties.

Example:
  wikifacts graph neighbors Q42
  wikifacts graph neighbors Q42 --property P106
  wikifacts graph neighbors Q42 --hops 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := normalizeID(args[0])
		if err != nil {
			return err
		}
		return withStore(func(store *factstore.Store) error {
			result, err := neighbors(cmd.Context(), store, id, neighborHops, neighborProperties)
			if err != nil {
				return err
			}
			return outputResult(cmd.OutOrStdout(), result)
		})
	},
}

var graphListCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List saved entities",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		return withStore(func(store *factstore.Store) error {
			var result entitiesResult
			for e, err := range store.Entities(cmd.Context(), prefix) {
				if err != nil {
					return err
				}
				result = append(result, e)
			}
			if len(result) == 0 {
				cli.PrintInfo("No entities saved")
				return nil
			}
			return outputResult(cmd.OutOrStdout(), result)
		})
	},
}

var graphForgetCmd = &cobra.Command{
	Use:   "forget <id>",
	Short: "Remove a saved entity, its claims and links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := normalizeID(args[0])
		if err != nil {
			return err
		}
		return withStore(func(store *factstore.Store) error {
			if err := store.Forget(cmd.Context(), id); err != nil {
				return err
			}
			cli.PrintSuccess("Forgot %s", id)
			return nil
		})
	},
}

func init() {
	graphNeighborsCmd.Flags().IntVar(&neighborHops, "hops", 1, "number of link steps to walk")
	graphNeighborsCmd.Flags().StringSliceVar(&neighborProperties, "property", nil, "only follow these properties (one hop only)")

	graphCmd.AddCommand(graphShowCmd)
	graphCmd.AddCommand(graphNeighborsCmd)
	graphCmd.AddCommand(graphListCmd)
	graphCmd.AddCommand(graphForgetCmd)
}

// withStore opens the store of the active context for the duration of fn.
func withStore(fn func(*factstore.Store) error) error {
	store, backend, err := openStore()
	if err != nil {
		return err
	}
	defer backend.Close()
	return fn(store)
}

// showEntity gathers id with its claims and links.
func showEntity(ctx context.Context, store *factstore.Store, id string) (entityView, error) {
	e, err := store.Entity(ctx, id)
	if err != nil {
		if errors.Is(err, factstore.ErrNotFound) {
			return entityView{}, fmt.Errorf("%s is not saved, use 'wikifacts fetch %s --save'", id, id)
		}
		return entityView{}, err
	}
	facts, err := store.Facts(ctx, id)
	if err != nil {
		return entityView{}, err
	}
	links, err := store.Links(ctx, id)
	if err != nil {
		return entityView{}, err
	}
	return entityView{Entity: e, Facts: facts, Links: links}, nil
}

// neighbors resolves the ids around id to saved entities. Ids with no
// entity record are listed by id alone.
func neighbors(ctx context.Context, store *factstore.Store, id string, hops int, properties []string) (entitiesResult, error) {
	if hops < 1 {
		return nil, fmt.Errorf("--hops must be at least 1")
	}
	if hops > 1 && len(properties) > 0 {
		return nil, fmt.Errorf("--property only applies to a single hop")
	}

	var ids []string
	var err error
	if hops == 1 {
		ids, err = store.Neighbors(ctx, id, properties...)
	} else {
		ids, err = store.Expand(ctx, []string{id}, hops)
	}
	if err != nil {
		return nil, err
	}

	result := make(entitiesResult, 0, len(ids))
	for _, n := range ids {
		e, err := store.Entity(ctx, n)
		switch {
		case errors.Is(err, factstore.ErrNotFound):
			result = append(result, factstore.Entity{ID: n})
		case err != nil:
			return nil, err
		default:
			printVerbose("%s: %s", n, displayName(e))
			result = append(result, *e)
		}
	}
	return result, nil
}
