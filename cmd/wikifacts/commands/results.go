package commands

import (
	"cmp"

	"github.com/haivivi/wikifacts/pkg/factstore"
	"github.com/haivivi/wikifacts/pkg/wikidata"
)

// peopleResult renders search hits.
type peopleResult []wikidata.Person

func (r peopleResult) TableHeader() []string { return []string{"ID", "NAME", "DESCRIPTION"} }

func (r peopleResult) TableRows() [][]string {
	rows := make([][]string, len(r))
	for i, p := range r {
		rows[i] = []string{p.ID, p.Name, p.Description}
	}
	return rows
}

// fieldsResult renders entity claims.
type fieldsResult []wikidata.Field

func (r fieldsResult) TableHeader() []string {
	return []string{"PROPERTY", "LABEL", "VALUE", "VALUE ID"}
}

func (r fieldsResult) TableRows() [][]string {
	rows := make([][]string, len(r))
	for i, f := range r {
		rows[i] = []string{f.LabelID, f.Label, f.Value, f.ValueID}
	}
	return rows
}

// entitiesResult renders saved entities.
type entitiesResult []factstore.Entity

func (r entitiesResult) TableHeader() []string { return []string{"ID", "NAME", "DESCRIPTION"} }

func (r entitiesResult) TableRows() [][]string {
	rows := make([][]string, len(r))
	for i, e := range r {
		rows[i] = []string{e.ID, e.Name, e.Description}
	}
	return rows
}

// entityView is one saved entity with its claims and links.
type entityView struct {
	Entity *factstore.Entity `json:"entity" yaml:"entity"`
	Facts  []wikidata.Field  `json:"facts" yaml:"facts"`
	Links  []factstore.Link  `json:"links,omitempty" yaml:"links,omitempty"`
}

func (v entityView) TableHeader() []string { return fieldsResult(v.Facts).TableHeader() }
func (v entityView) TableRows() [][]string { return fieldsResult(v.Facts).TableRows() }

func displayName(e *factstore.Entity) string {
	return cmp.Or(e.Name, e.ID)
}
