package wikidata

import (
	"strings"
	"text/template"

	"github.com/haivivi/wikifacts/pkg/sparql"

	_ "embed"
)

// Prefixes declares the namespaces shared by every query. It is prepended
// verbatim by WithPrefixes right before a query is sent.
const Prefixes = `
PREFIX wikibase: <http://wikiba.se/ontology#>
PREFIX wd: <http://www.wikidata.org/entity/>
PREFIX wdt: <http://www.wikidata.org/prop/direct/>
PREFIX p: <http://www.wikidata.org/prop/>
PREFIX ps: <http://www.wikidata.org/prop/statement/>
PREFIX bd: <http://www.bigdata.com/rdf#>
`

// AutoLanguage lets the label service pick the language of the request.
const AutoLanguage = "[AUTO_LANGUAGE]"

var (
	//go:embed queries/search_people.sparql.gotmpl
	searchPeopleTplContent string

	//go:embed queries/entity_fields.sparql.gotmpl
	entityFieldsTplContent string

	queryFuncs = template.FuncMap{
		"escape": sparql.Escape,
		"local":  localName,
	}

	searchPeopleTpl = template.Must(template.New("searchPeople").Funcs(queryFuncs).Parse(searchPeopleTplContent))
	entityFieldsTpl = template.Must(template.New("entityFields").Funcs(queryFuncs).Parse(entityFieldsTplContent))
)

// FetchOptions configures EntityFieldsQuery and FetchEntityFields.
// Start from DefaultFetchOptions; the zero value disables OnlyEntities.
type FetchOptions struct {
	// OnlyEntities keeps only values that reference another entity
	// (wd:Q84) and drops literals such as strings, dates and numbers.
	// Default: true.
	OnlyEntities bool `json:"only_entities" yaml:"only_entities"`

	// Language is the preferred label language, e.g. "fr". English is
	// always the fallback. Default: AutoLanguage.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// DefaultFetchOptions returns the options used when nil is passed.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		OnlyEntities: true,
		Language:     AutoLanguage,
	}
}

// WithPrefixes returns body preceded by the shared Prefixes block.
func WithPrefixes(body string) string {
	return Prefixes + body
}

// SearchPeopleQuery renders the search-by-name query. The name must match an
// English label exactly; entities without an English label or description
// are not returned. Output variables: id, name, description.
func SearchPeopleQuery(name string) string {
	return render(searchPeopleTpl, struct{ Name string }{name})
}

// EntityFieldsQuery renders the query listing every direct claim of the
// entity id (e.g. "Q42"). A nil opts means DefaultFetchOptions.
// Output variables: propID, propLabel, value, valueLabel.
//
// Rows are ordered by DESC(?propID), which compares identifiers as strings:
// P91 sorts before P800.
func EntityFieldsQuery(id string, opts *FetchOptions) string {
	o := DefaultFetchOptions()
	if opts != nil {
		o = *opts
		if o.Language == "" {
			o.Language = AutoLanguage
		}
	}
	return render(entityFieldsTpl, struct {
		ID string
		FetchOptions
	}{id, o})
}

func render(tpl *template.Template, data any) string {
	var sb strings.Builder
	// Templates are parsed at init and only receive strings and bools.
	if err := tpl.Execute(&sb, data); err != nil {
		panic("wikidata: render " + tpl.Name() + ": " + err.Error())
	}
	return sb.String()
}

// localName makes id safe as the local part of a prefixed name. Letters,
// digits and '_' pass through; any other byte is percent-encoded, so a
// malformed id still yields valid SPARQL that matches nothing.
func localName(id string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '_':
			sb.WriteByte(c)
		default:
			sb.WriteByte('%')
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&0x0f])
		}
	}
	return sb.String()
}
