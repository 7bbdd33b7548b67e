package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/itchyny/gojq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haivivi/wikifacts/pkg/cli"
	"github.com/haivivi/wikifacts/pkg/factstore"
	"github.com/haivivi/wikifacts/pkg/sparql"
	"github.com/haivivi/wikifacts/pkg/wikidata"
)

const adamsSearch = `{
  "head": {"vars": ["id", "name", "description"]},
  "results": {"bindings": [{
    "id": {"type": "uri", "value": "http://www.wikidata.org/entity/Q42"},
    "name": {"xml:lang": "en", "type": "literal", "value": "Douglas Adams"},
    "description": {"xml:lang": "en", "type": "literal", "value": "English writer and humorist"}
  }]}
}`

const adamsClaims = `{
  "head": {"vars": ["propID", "propLabel", "value", "valueLabel"]},
  "results": {"bindings": [
    {
      "propID": {"type": "uri", "value": "http://www.wikidata.org/prop/direct/P69"},
      "propLabel": {"type": "literal", "value": "educated at"},
      "value": {"type": "uri", "value": "http://www.wikidata.org/entity/Q691283"},
      "valueLabel": {"type": "literal", "value": "St John's College"}
    },
    {
      "propID": {"type": "uri", "value": "http://www.wikidata.org/prop/direct/P1477"},
      "propLabel": {"type": "literal", "value": "birth name"},
      "value": {"type": "literal", "value": "Douglas Noël Adams"},
      "valueLabel": {"type": "literal", "value": "Douglas Noël Adams"}
    }
  ]}
}`

const askTrue = `{"head": {}, "boolean": true}`

// fixtureEndpoint is a SPARQL endpoint that answers by query shape and
// records every query it receives.
type fixtureEndpoint struct {
	mu      sync.Mutex
	queries []string
}

func (f *fixtureEndpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	q := r.PostForm.Get("query")
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/sparql-results+json")
	switch {
	case strings.Contains(q, "wd:Q5"):
		w.Write([]byte(adamsSearch))
	case strings.Contains(q, "wikibase:directClaim"):
		w.Write([]byte(adamsClaims))
	case strings.HasPrefix(strings.TrimSpace(q), "ASK"), strings.Contains(q, "\nASK"):
		w.Write([]byte(askTrue))
	case strings.Contains(q, "SELECT"):
		w.Write([]byte(adamsSearch))
	default:
		http.Error(w, "MalformedQueryException", http.StatusBadRequest)
	}
}

func (f *fixtureEndpoint) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func newFixture(t *testing.T) (*fixtureEndpoint, *sparql.Client) {
	t.Helper()
	f := &fixtureEndpoint{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, sparql.NewClient(sparql.WithEndpoint(srv.URL))
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Q42", "Q42", false},
		{"q42", "Q42", false},
		{" 42 ", "Q42", false},
		{"P31", "P31", false},
		{"L7", "L7", false},
		{"http://www.wikidata.org/entity/Q42", "Q42", false},
		{"https://www.wikidata.org/wiki/Q42", "Q42", false},
		{"", "", true},
		{"Q", "", true},
		{"Q42a", "", true},
		{"X42", "", true},
		{"Q-1", "", true},
		{"https://www.wikidata.org/", "", true},
		{"https://www.wikidata.org/wiki/Douglas_Adams", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSparqlOptions(t *testing.T) {
	c := sparql.NewClient(sparqlOptions(nil)...)
	assert.Equal(t, sparql.DefaultEndpoint, c.Endpoint())

	c = sparql.NewClient(sparqlOptions(&cli.Context{
		Endpoint:  "https://sparql.example.org/query",
		Token:     "secret",
		Timeout:   5,
		UserAgent: "test-agent",
	})...)
	assert.Equal(t, "https://sparql.example.org/query", c.Endpoint())
}

func TestSparqlOptions_TokenAndAgentSent(t *testing.T) {
	var auth, agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		agent = r.Header.Get("User-Agent")
		w.Write([]byte(askTrue))
	}))
	defer srv.Close()

	c := sparql.NewClient(sparqlOptions(&cli.Context{Endpoint: srv.URL, Token: "secret", UserAgent: "test-agent"})...)
	ok, err := c.Ask(context.Background(), "ASK {}")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "test-agent", agent)
}

func TestStoreDir(t *testing.T) {
	paths := &cli.Paths{AppName: appName, HomeDir: "/home/ada"}
	assert.Equal(t, paths.StoreDir("default"), storeDir(paths, nil))
	assert.Equal(t, paths.StoreDir("mirror"), storeDir(paths, &cli.Context{Name: "mirror"}))
	assert.Equal(t, "/data/wf", storeDir(paths, &cli.Context{Name: "mirror", StoreDir: "/data/wf"}))
}

func TestFetchLanguage(t *testing.T) {
	assert.Equal(t, wikidata.AutoLanguage, fetchLanguage("", nil))
	assert.Equal(t, wikidata.AutoLanguage, fetchLanguage("", &cli.Context{}))
	assert.Equal(t, "de", fetchLanguage("", &cli.Context{Language: "de"}))
	assert.Equal(t, "fr", fetchLanguage("fr", &cli.Context{Language: "de"}))
}

func TestParseEndpoint(t *testing.T) {
	_, err := parseEndpoint("https://query.wikidata.org/sparql")
	assert.NoError(t, err)
	_, err = parseEndpoint("query.wikidata.org/sparql")
	assert.ErrorIs(t, err, wikidata.ErrMalformedURL)
	_, err = parseEndpoint("ftp://query.wikidata.org/sparql")
	assert.Error(t, err)
}

func TestRunSearch(t *testing.T) {
	ctx := context.Background()
	f, sc := newFixture(t)
	client := wikidata.NewClientWithQuerier(sc)
	store := factstore.New(factstore.NewMemory(), nil)

	people, err := runSearch(ctx, client, nil, "Douglas Adams")
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Q42", people[0].ID)
	assert.Contains(t, f.last(), `"""Douglas Adams"""@en`)

	_, err = store.Entity(ctx, "Q42")
	assert.ErrorIs(t, err, factstore.ErrNotFound)

	_, err = runSearch(ctx, client, store, "Douglas Adams")
	require.NoError(t, err)
	e, err := store.Entity(ctx, "Q42")
	require.NoError(t, err)
	assert.Equal(t, "English writer and humorist", e.Description)
}

func TestRunFetch(t *testing.T) {
	ctx := context.Background()
	f, sc := newFixture(t)
	client := wikidata.NewClientWithQuerier(sc)
	store := factstore.New(factstore.NewMemory(), nil)

	fields, err := runFetch(ctx, client, store, "Q42", wikidata.FetchOptions{OnlyEntities: true, Language: "de"})
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "P69", fields[0].LabelID)
	assert.Equal(t, "Q691283", fields[0].ValueID)
	assert.Empty(t, fields[1].ValueID)

	q := f.last()
	assert.Contains(t, q, "wd:Q42")
	assert.Contains(t, q, `FILTER(CONTAINS(STR(?value), "/entity/Q"))`)
	assert.Contains(t, q, `wikibase:language "de,en"`)

	_, err = runFetch(ctx, client, nil, "Q42", wikidata.FetchOptions{Language: wikidata.AutoLanguage})
	require.NoError(t, err)
	assert.NotContains(t, f.last(), "FILTER(CONTAINS")

	n, err := store.Neighbors(ctx, "Q42")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q691283"}, n)
}

func TestRunFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	client := wikidata.NewClient(sparql.WithEndpoint(srv.URL))
	store := factstore.New(factstore.NewMemory(), nil)

	_, err := runFetch(context.Background(), client, store, "Q42", wikidata.DefaultFetchOptions())
	require.Error(t, err)
	apiErr, ok := sparql.AsError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsRateLimit())

	// A failed fetch saves nothing.
	_, err = store.Entity(context.Background(), "Q42")
	assert.ErrorIs(t, err, factstore.ErrNotFound)
}

func TestLoadQuery(t *testing.T) {
	dir := t.TempDir()
	rq := filepath.Join(dir, "q.rq")
	require.NoError(t, os.WriteFile(rq, []byte("ASK { wd:Q42 ?p ?o }"), 0644))
	yml := filepath.Join(dir, "q.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("query: ASK {}\nno_prefixes: true\n"), 0644))

	req, err := loadQuery("", []string{"ASK", "{}"})
	require.NoError(t, err)
	assert.Equal(t, queryRequest{Query: "ASK {}"}, req)

	req, err = loadQuery(rq, nil)
	require.NoError(t, err)
	assert.Equal(t, "ASK { wd:Q42 ?p ?o }", req.Query)

	req, err = loadQuery(yml, nil)
	require.NoError(t, err)
	assert.Equal(t, queryRequest{Query: "ASK {}", NoPrefixes: true}, req)

	_, err = loadQuery("", nil)
	assert.Error(t, err)
	_, err = loadQuery(filepath.Join(dir, "missing.rq"), nil)
	assert.Error(t, err)
}

func TestRunQuery(t *testing.T) {
	ctx := context.Background()
	f, sc := newFixture(t)

	doc, err := runQuery(ctx, sc, queryRequest{Query: "SELECT ?id ?name ?description WHERE {}"}, nil, false)
	require.NoError(t, err)
	m, ok := doc.(map[string]any)
	require.True(t, ok, "document is %T", doc)
	assert.Contains(t, m, "results")
	assert.True(t, strings.HasPrefix(f.last(), wikidata.Prefixes))

	_, err = runQuery(ctx, sc, queryRequest{Query: "SELECT ?x WHERE {}", NoPrefixes: true}, nil, false)
	require.NoError(t, err)
	assert.NotContains(t, f.last(), "PREFIX")

	rows, err := runQuery(ctx, sc, queryRequest{Query: "SELECT ?id ?name ?description WHERE {}"}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, cli.Rows{
		Header: []string{"id", "name", "description"},
		Data: [][]string{{
			"http://www.wikidata.org/entity/Q42",
			"Douglas Adams",
			"English writer and humorist",
		}},
	}, rows)

	jq, err := gojq.Parse(".results.bindings[].name.value")
	require.NoError(t, err)
	got, err := runQuery(ctx, sc, queryRequest{Query: "SELECT ?name WHERE {}"}, jq, false)
	require.NoError(t, err)
	assert.Equal(t, "Douglas Adams", got)

	jq, err = gojq.Parse(".head.vars[]")
	require.NoError(t, err)
	got, err = runQuery(ctx, sc, queryRequest{Query: "SELECT ?name WHERE {}"}, jq, false)
	require.NoError(t, err)
	assert.Equal(t, []any{"id", "name", "description"}, got)

	// ASK in table mode falls back to the document.
	got, err = runQuery(ctx, sc, queryRequest{Query: "ASK {}"}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, true, got.(map[string]any)["boolean"])

	_, err = runQuery(ctx, sc, queryRequest{Query: "DESCRIBE wd:Q42"}, nil, false)
	apiErr, ok := sparql.AsError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsMalformedQuery())
}

func TestRunJQ_Error(t *testing.T) {
	jq, err := gojq.Parse(".a.b")
	require.NoError(t, err)
	_, err = runJQ(context.Background(), jq, map[string]any{"a": "not an object"})
	assert.Error(t, err)
}

func TestGraphHelpers(t *testing.T) {
	ctx := context.Background()
	_, sc := newFixture(t)
	client := wikidata.NewClientWithQuerier(sc)
	store := factstore.New(factstore.NewMemory(), nil)

	_, err := showEntity(ctx, store, "Q42")
	assert.ErrorContains(t, err, "not saved")

	_, err = runSearch(ctx, client, store, "Douglas Adams")
	require.NoError(t, err)
	_, err = runFetch(ctx, client, store, "Q42", wikidata.FetchOptions{Language: wikidata.AutoLanguage})
	require.NoError(t, err)

	view, err := showEntity(ctx, store, "Q42")
	require.NoError(t, err)
	assert.Equal(t, "Douglas Adams", view.Entity.Name)
	assert.Len(t, view.Facts, 2)
	assert.Equal(t, []factstore.Link{{From: "Q42", Property: "P69", To: "Q691283"}}, view.Links)
	assert.Len(t, view.TableRows(), 2)

	result, err := neighbors(ctx, store, "Q42", 1, nil)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "St John's College", result[0].Name)

	result, err = neighbors(ctx, store, "Q42", 1, []string{"P19"})
	require.NoError(t, err)
	assert.Empty(t, result)

	result, err = neighbors(ctx, store, "Q691283", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q42", "Q691283"}, []string{result[0].ID, result[1].ID})

	_, err = neighbors(ctx, store, "Q42", 0, nil)
	assert.Error(t, err)
	_, err = neighbors(ctx, store, "Q42", 2, []string{"P69"})
	assert.Error(t, err)
}

func TestResultTables(t *testing.T) {
	people := peopleResult{{ID: "Q42", Name: "Douglas Adams", Description: "writer"}}
	assert.Equal(t, [][]string{{"Q42", "Douglas Adams", "writer"}}, people.TableRows())

	fields := fieldsResult{{LabelID: "P69", Label: "educated at", Value: "St John's College", ValueID: "Q691283"}}
	assert.Equal(t, [][]string{{"P69", "educated at", "St John's College", "Q691283"}}, fields.TableRows())

	entities := entitiesResult{{ID: "Q1"}}
	assert.Equal(t, [][]string{{"Q1", "", ""}}, entities.TableRows())
}

func TestExecute_Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs(append([]string{"--config", path}, args...))
		require.NoError(t, rootCmd.Execute())
		return out.String()
	}

	run("config", "add-context", "mirror", "--endpoint", "https://sparql.example.org/query", "--token", "abcdefghijkl", "--lang", "de")
	run("config", "use-context", "mirror")
	assert.Equal(t, "mirror\n", run("config", "get-context"))
	assert.Contains(t, run("config", "list-contexts"), "https://sparql.example.org/query")

	view := run("config", "view", "--format", "json")
	assert.Contains(t, view, "abcd****ijkl")
	assert.NotContains(t, view, "abcdefghijkl")

	cfg, err := cli.LoadConfigWithPath(appName, path)
	require.NoError(t, err)
	assert.Equal(t, "mirror", cfg.CurrentContext)
	assert.Equal(t, "de", cfg.Contexts["mirror"].Language)

	rootCmd.SetArgs([]string{"--config", path, "config", "add-context", "bad", "--endpoint", "not-a-url"})
	assert.Error(t, rootCmd.Execute())
}
