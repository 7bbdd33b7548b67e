package factstore

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/wikifacts/pkg/wikidata"
)

// Entity is a saved node of the fact graph.
type Entity struct {
	ID          string    `msgpack:"id" json:"id" yaml:"id"`
	Name        string    `msgpack:"name,omitempty" json:"name,omitempty" yaml:"name,omitempty"`
	Description string    `msgpack:"description,omitempty" json:"description,omitempty" yaml:"description,omitempty"`
	URL         string    `msgpack:"url,omitempty" json:"url,omitempty" yaml:"url,omitempty"`
	SavedAt     time.Time `msgpack:"saved_at" json:"saved_at" yaml:"saved_at"`
}

// Link is a directed, entity-valued claim between two saved entities.
type Link struct {
	From     string `json:"from" yaml:"from"`
	Property string `json:"property" yaml:"property"`
	To       string `json:"to" yaml:"to"`
}

// fact is the stored form of a wikidata.Field.
type fact struct {
	Value      string `msgpack:"v"`
	Label      string `msgpack:"l"`
	LabelID    string `msgpack:"lid"`
	LabelIDURL string `msgpack:"lurl"`
	ValueID    string `msgpack:"vid,omitempty"`
	ValueURL   string `msgpack:"vurl,omitempty"`
}

func factOf(f wikidata.Field) fact {
	return fact(f)
}

func (f fact) field() wikidata.Field {
	return wikidata.Field(f)
}

func marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func unmarshal(b []byte, v any) error {
	return msgpack.Unmarshal(b, v)
}
