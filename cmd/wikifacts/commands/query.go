package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/haivivi/wikifacts/pkg/cli"
	"github.com/haivivi/wikifacts/pkg/sparql"
	"github.com/haivivi/wikifacts/pkg/wikidata"
)

var (
	queryFile       string
	queryNoPrefixes bool
	queryJQ         string
)

// queryRequest is the YAML/JSON form of a query file.
type queryRequest struct {
	Query      string `json:"query" yaml:"query"`
	NoPrefixes bool   `json:"no_prefixes" yaml:"no_prefixes"`
}

var queryCmd = &cobra.Command{
	Use:   "query [sparql...]",
	Short: "Run a SPARQL query",
	Long: `Run an arbitrary SPARQL query and print the result.

The query is taken from the arguments or from -f. Files ending in .rq or
.sparql are read as plain SPARQL, YAML and JSON files carry a "query" key,
and "-f -" reads from stdin. The wikibase, wd, wdt, p, ps and bd prefixes
are added unless --no-prefixes is set.

Example:
  wikifacts query 'SELECT ?x WHERE { wd:Q42 wdt:P31 ?x }'
  wikifacts query -f people.rq --format table
  wikifacts query -f q.yaml --jq '.results.bindings | length'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadQuery(queryFile, args)
		if err != nil {
			return err
		}
		if queryNoPrefixes {
			req.NoPrefixes = true
		}
		var jq *gojq.Query
		if queryJQ != "" {
			if jq, err = gojq.Parse(queryJQ); err != nil {
				return fmt.Errorf("invalid jq expression %q: %w", queryJQ, err)
			}
		}

		client, err := createSPARQLClient()
		if err != nil {
			return err
		}
		format, err := getOutputFormat()
		if err != nil {
			return err
		}
		result, err := runQuery(cmd.Context(), client, req, jq, format == cli.FormatTable)
		if err != nil {
			return err
		}
		return outputResult(cmd.OutOrStdout(), result)
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryFile, "file", "f", "", "query file (.rq, .sparql, YAML or JSON; - for stdin)")
	queryCmd.Flags().BoolVar(&queryNoPrefixes, "no-prefixes", false, "send the query without the standard Wikidata prefixes")
	queryCmd.Flags().StringVar(&queryJQ, "jq", "", "filter the JSON result with a jq expression")
}

// loadQuery reads the query from file, or from args when file is empty.
func loadQuery(file string, args []string) (queryRequest, error) {
	var req queryRequest
	switch {
	case file == "-":
		if err := cli.LoadRequestFrom(os.Stdin, &req); err != nil {
			return req, err
		}
	case file != "":
		switch strings.ToLower(filepath.Ext(file)) {
		case ".rq", ".sparql":
			data, err := os.ReadFile(file)
			if err != nil {
				return req, fmt.Errorf("failed to read file: %w", err)
			}
			req.Query = string(data)
		default:
			if err := cli.LoadRequest(file, &req); err != nil {
				return req, err
			}
		}
	default:
		req.Query = strings.Join(args, " ")
	}
	if strings.TrimSpace(req.Query) == "" {
		return req, fmt.Errorf("no query given, pass it as arguments or use -f")
	}
	return req, nil
}

// runQuery executes req and shapes the response for output: filtered
// through jq when set, as rows when asTable, else as the decoded JSON
// document.
func runQuery(ctx context.Context, q wikidata.Querier, req queryRequest, jq *gojq.Query, asTable bool) (any, error) {
	body := req.Query
	if !req.NoPrefixes {
		body = wikidata.WithPrefixes(body)
	}
	printVerbose("query:\n%s", body)

	resp, err := q.Query(ctx, body)
	if err != nil {
		return nil, err
	}
	if jq != nil {
		doc, err := toDocument(resp)
		if err != nil {
			return nil, err
		}
		return runJQ(ctx, jq, doc)
	}
	if asTable && resp.Results != nil {
		return bindingRows(resp)
	}
	return toDocument(resp)
}

// toDocument converts resp to plain maps and slices, the form gojq and the
// YAML encoder expect.
func toDocument(resp *sparql.Response) (any, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// runJQ returns the single jq output, or all outputs as a slice.
func runJQ(ctx context.Context, q *gojq.Query, doc any) (any, error) {
	var out []any
	iter := q.RunWithContext(ctx, doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			if err, ok := err.(*gojq.HaltError); ok && err.Value() == nil {
				break
			}
			return nil, fmt.Errorf("jq: %w", err)
		}
		out = append(out, v)
	}
	if len(out) == 1 {
		return out[0], nil
	}
	return out, nil
}

// bindingRows lays out a SELECT result with one column per variable.
// Unbound variables leave their cell empty.
func bindingRows(resp *sparql.Response) (cli.Rows, error) {
	rows := cli.Rows{Header: resp.Head.Vars}
	for _, b := range resp.Results.Bindings {
		terms, err := b.Terms()
		if err != nil {
			return rows, err
		}
		row := make([]string, len(resp.Head.Vars))
		for i, name := range resp.Head.Vars {
			row[i] = terms[name].Value
		}
		rows.Data = append(rows.Data, row)
	}
	return rows, nil
}
