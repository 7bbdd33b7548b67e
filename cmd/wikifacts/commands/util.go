package commands

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/haivivi/wikifacts/pkg/cli"
	"github.com/haivivi/wikifacts/pkg/factstore"
	"github.com/haivivi/wikifacts/pkg/sparql"
	"github.com/haivivi/wikifacts/pkg/wikidata"
)

const defaultStoreName = "default"

var idPattern = regexp.MustCompile(`^[QPL][0-9]+$`)

// normalizeID accepts "Q42", "q42", "42" or an entity URL and returns the
// bare identifier.
func normalizeID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, "://") {
		u, err := wikidata.ParseURL(s)
		if err != nil {
			return "", err
		}
		if s, err = wikidata.LastSegment(u); err != nil {
			return "", err
		}
	}
	s = strings.ToUpper(s)
	if s != "" && strings.Trim(s, "0123456789") == "" {
		s = "Q" + s
	}
	if !idPattern.MatchString(s) {
		return "", fmt.Errorf("invalid entity id %q: want Q42, 42 or an entity URL", raw)
	}
	return s, nil
}

// sparqlOptions translates a context into client options. A nil context
// yields the defaults.
func sparqlOptions(ctx *cli.Context) []sparql.Option {
	opts := []sparql.Option{sparql.WithLogger(slog.Default())}
	if ctx == nil {
		return opts
	}
	if ctx.Endpoint != "" {
		opts = append(opts, sparql.WithEndpoint(ctx.Endpoint))
	}
	if ctx.Token != "" {
		opts = append(opts, sparql.WithBearerToken(ctx.Token))
	}
	if ctx.Timeout > 0 {
		opts = append(opts, sparql.WithTimeout(ctx.TimeoutDuration()))
	}
	if ctx.UserAgent != "" {
		opts = append(opts, sparql.WithUserAgent(ctx.UserAgent))
	}
	return opts
}

// createSPARQLClient creates a gateway client from the active context
func createSPARQLClient() (*sparql.Client, error) {
	ctx, err := getContext()
	if err != nil {
		return nil, err
	}
	c := sparql.NewClient(sparqlOptions(ctx)...)
	printVerbose("endpoint: %s", c.Endpoint())
	return c, nil
}

// createClient creates a Wikidata client from the active context
func createClient() (*wikidata.Client, error) {
	c, err := createSPARQLClient()
	if err != nil {
		return nil, err
	}
	return wikidata.NewClientWithQuerier(c), nil
}

// storeDir returns the fact store directory for ctx
func storeDir(paths *cli.Paths, ctx *cli.Context) string {
	if ctx != nil && ctx.StoreDir != "" {
		return ctx.StoreDir
	}
	name := defaultStoreName
	if ctx != nil && ctx.Name != "" {
		name = ctx.Name
	}
	return paths.StoreDir(name)
}

// openStore opens the on-disk fact store of the active context. The caller
// must close the returned backend.
func openStore() (*factstore.Store, factstore.Backend, error) {
	ctx, err := getContext()
	if err != nil {
		return nil, nil, err
	}
	paths, err := cli.NewPaths(appName)
	if err != nil {
		return nil, nil, err
	}
	dir := storeDir(paths, ctx)
	if err := cli.EnsureDir(dir); err != nil {
		return nil, nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	printVerbose("store: %s", dir)

	backend, err := factstore.NewBadger(factstore.BadgerOptions{Dir: dir, Logger: slog.Default()})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return factstore.New(backend, nil), backend, nil
}

// fetchLanguage picks the label language: flag, then context, then auto.
func fetchLanguage(flag string, ctx *cli.Context) string {
	if flag != "" {
		return flag
	}
	if ctx != nil && ctx.Language != "" {
		return ctx.Language
	}
	return wikidata.AutoLanguage
}

// parseEndpoint checks that raw is an absolute http(s) URL.
func parseEndpoint(raw string) (string, error) {
	u, err := wikidata.ParseURL(raw)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid endpoint %q: scheme must be http or https", raw)
	}
	return u.String(), nil
}
