package factstore

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/haivivi/wikifacts/pkg/wikidata"
)

// DefaultPrefix is the key prefix used when Options.Prefix is empty.
const DefaultPrefix = "wf"

// Options configures a Store.
type Options struct {
	// Prefix is the first key segment for every entry. Default "wf".
	Prefix string

	// Now returns the save time. Default time.Now.
	Now func() time.Time
}

// Store is a fact graph over a Backend.
//
// Writes for a single call are applied in one atomic batch. Concurrent
// writers to the same subject are last-writer-wins.
type Store struct {
	backend Backend
	prefix  Key
	now     func() time.Time
}

// New creates a Store on backend. The Store does not own the backend; the
// caller closes it.
func New(backend Backend, opts *Options) *Store {
	s := &Store{backend: backend, prefix: Key{DefaultPrefix}, now: time.Now}
	if opts != nil {
		if opts.Prefix != "" {
			s.prefix = Key{opts.Prefix}
		}
		if opts.Now != nil {
			s.now = opts.Now
		}
	}
	return s
}

func (s *Store) entityKey(id string) Key { return s.prefix.with("e", id) }
func (s *Store) factsKey(id string) Key  { return s.prefix.with("f", id) }
func (s *Store) outKey(id string) Key    { return s.prefix.with("r", id) }
func (s *Store) inKey(id string) Key     { return s.prefix.with("ri", id) }

// PutPerson saves p as an entity, replacing its name, description and URL
// if it already exists.
func (s *Store) PutPerson(ctx context.Context, p wikidata.Person) error {
	if p.ID == "" {
		return errors.New("factstore: person has no id")
	}
	if err := validate(p.ID); err != nil {
		return err
	}
	e := Entity{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		URL:         p.IDURL,
		SavedAt:     s.now(),
	}
	data, err := marshal(&e)
	if err != nil {
		return fmt.Errorf("factstore: marshal entity %s: %w", p.ID, err)
	}
	return s.backend.Write(ctx, []Entry{{Key: s.entityKey(p.ID), Value: data}}, nil)
}

// PutFields replaces the stored claims of subject with fields, in order.
//
// Entity-valued claims are indexed as links. Link targets that are not
// saved yet get a stub entity named after the claim's value label; existing
// entities are left untouched. The subject itself gets a stub if missing.
func (s *Store) PutFields(ctx context.Context, subject string, fields []wikidata.Field) error {
	if subject == "" {
		return errors.New("factstore: empty subject")
	}
	if err := validate(subject); err != nil {
		return err
	}
	for _, f := range fields {
		if err := validate(f.LabelID, f.ValueID); err != nil {
			return err
		}
	}

	deletes, err := s.subjectKeys(ctx, subject)
	if err != nil {
		return err
	}

	now := s.now()
	var puts []Entry
	stubs := make(map[string]bool)
	addStub := func(id, name, url string) error {
		if stubs[id] {
			return nil
		}
		stubs[id] = true
		if _, err := s.backend.Get(ctx, s.entityKey(id)); err == nil {
			return nil
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		data, err := marshal(&Entity{ID: id, Name: name, URL: url, SavedAt: now})
		if err != nil {
			return fmt.Errorf("factstore: marshal entity %s: %w", id, err)
		}
		puts = append(puts, Entry{Key: s.entityKey(id), Value: data})
		return nil
	}

	if err := addStub(subject, "", ""); err != nil {
		return err
	}
	for i, f := range fields {
		data, err := marshal(factOf(f))
		if err != nil {
			return fmt.Errorf("factstore: marshal fact %s/%s: %w", subject, f.LabelID, err)
		}
		puts = append(puts, Entry{Key: s.factsKey(subject).with(fmt.Sprintf("%06d", i)), Value: data})

		if !f.IsEntity() {
			continue
		}
		puts = append(puts,
			Entry{Key: s.outKey(subject).with(f.LabelID, f.ValueID), Value: []byte{}},
			Entry{Key: s.inKey(f.ValueID).with(f.LabelID, subject), Value: []byte{}},
		)
		if err := addStub(f.ValueID, f.Value, f.ValueURL); err != nil {
			return err
		}
	}
	return s.backend.Write(ctx, puts, deletes)
}

// subjectKeys lists the claim keys of id together with its outgoing links
// and their mirrored incoming entries.
func (s *Store) subjectKeys(ctx context.Context, id string) ([]Key, error) {
	var keys []Key
	for e, err := range s.backend.Scan(ctx, s.factsKey(id)) {
		if err != nil {
			return nil, err
		}
		keys = append(keys, e.Key)
	}
	out, err := s.scanLinks(ctx, s.outKey(id))
	if err != nil {
		return nil, err
	}
	for _, l := range out {
		keys = append(keys,
			s.outKey(id).with(l.property, l.other),
			s.inKey(l.other).with(l.property, id),
		)
	}
	return keys, nil
}

// Entity returns the saved entity id, or ErrNotFound.
func (s *Store) Entity(ctx context.Context, id string) (*Entity, error) {
	if err := validate(id); err != nil {
		return nil, err
	}
	data, err := s.backend.Get(ctx, s.entityKey(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: entity %s", ErrNotFound, id)
		}
		return nil, err
	}
	var e Entity
	if err := unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("factstore: unmarshal entity %s: %w", id, err)
	}
	e.SavedAt = e.SavedAt.UTC()
	return &e, nil
}

// Facts returns the stored claims of id in the order they were saved.
// An entity with no stored claims yields an empty slice.
func (s *Store) Facts(ctx context.Context, id string) ([]wikidata.Field, error) {
	if err := validate(id); err != nil {
		return nil, err
	}
	var fields []wikidata.Field
	for e, err := range s.backend.Scan(ctx, s.factsKey(id)) {
		if err != nil {
			return nil, err
		}
		var f fact
		if err := unmarshal(e.Value, &f); err != nil {
			return nil, fmt.Errorf("factstore: unmarshal fact %s: %w", e.Key, err)
		}
		fields = append(fields, f.field())
	}
	return fields, nil
}

// Links returns the outgoing links of id followed by its incoming links.
func (s *Store) Links(ctx context.Context, id string) ([]Link, error) {
	if err := validate(id); err != nil {
		return nil, err
	}
	out, err := s.scanLinks(ctx, s.outKey(id))
	if err != nil {
		return nil, err
	}
	in, err := s.scanLinks(ctx, s.inKey(id))
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(out)+len(in))
	for _, l := range out {
		links = append(links, Link{From: id, Property: l.property, To: l.other})
	}
	for _, l := range in {
		if l.other == id {
			continue // self loop already listed as outgoing
		}
		links = append(links, Link{From: l.other, Property: l.property, To: id})
	}
	return links, nil
}

// Neighbors returns the sorted, deduplicated ids linked to id in either
// direction. When properties are given only links through them count.
func (s *Store) Neighbors(ctx context.Context, id string, properties ...string) ([]string, error) {
	links, err := s.Links(ctx, id)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, l := range links {
		if len(properties) > 0 && !slices.Contains(properties, l.Property) {
			continue
		}
		other := l.To
		if other == id {
			other = l.From
		}
		if other != id {
			seen[other] = true
		}
	}
	ids := make([]string, 0, len(seen))
	for n := range seen {
		ids = append(ids, n)
	}
	slices.Sort(ids)
	return ids, nil
}

// Expand walks links breadth-first from seeds for up to hops steps and
// returns every reached id, seeds included, sorted. Seeds that are not
// saved are still returned.
func (s *Store) Expand(ctx context.Context, seeds []string, hops int) ([]string, error) {
	visited := make(map[string]bool)
	frontier := make([]string, 0, len(seeds))
	for _, id := range seeds {
		if !visited[id] {
			visited[id] = true
			frontier = append(frontier, id)
		}
	}
	for hop := 0; hop < hops && len(frontier) > 0; hop++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var next []string
		for _, id := range frontier {
			neighbors, err := s.Neighbors(ctx, id)
			if err != nil {
				return nil, err
			}
			for _, n := range neighbors {
				if !visited[n] {
					visited[n] = true
					next = append(next, n)
				}
			}
		}
		frontier = next
	}
	ids := make([]string, 0, len(visited))
	for id := range visited {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Entities iterates over saved entities in id order. A non-empty prefix
// keeps only ids starting with it.
func (s *Store) Entities(ctx context.Context, prefix string) iter.Seq2[Entity, error] {
	return func(yield func(Entity, error) bool) {
		for e, err := range s.backend.Scan(ctx, s.prefix.with("e")) {
			if err != nil {
				yield(Entity{}, err)
				return
			}
			id := e.Key[len(e.Key)-1]
			if !strings.HasPrefix(id, prefix) {
				continue
			}
			var ent Entity
			if err := unmarshal(e.Value, &ent); err != nil {
				yield(Entity{}, fmt.Errorf("factstore: unmarshal entity %s: %w", id, err))
				return
			}
			ent.SavedAt = ent.SavedAt.UTC()
			if !yield(ent, nil) {
				return
			}
		}
	}
}

// Forget removes id, its claims and every link touching it. Claims of other
// entities whose value is id are kept, only their links go. Forgetting an
// unknown id is not an error.
func (s *Store) Forget(ctx context.Context, id string) error {
	if err := validate(id); err != nil {
		return err
	}
	deletes, err := s.subjectKeys(ctx, id)
	if err != nil {
		return err
	}
	in, err := s.scanLinks(ctx, s.inKey(id))
	if err != nil {
		return err
	}
	for _, l := range in {
		deletes = append(deletes,
			s.inKey(id).with(l.property, l.other),
			s.outKey(l.other).with(l.property, id),
		)
	}
	deletes = append(deletes, s.entityKey(id))
	return s.backend.Write(ctx, nil, deletes)
}

type halfLink struct {
	property string
	other    string
}

// scanLinks reads {base}:{property}:{other} keys.
func (s *Store) scanLinks(ctx context.Context, base Key) ([]halfLink, error) {
	var links []halfLink
	for e, err := range s.backend.Scan(ctx, base) {
		if err != nil {
			return nil, err
		}
		if len(e.Key) != len(base)+2 {
			continue
		}
		links = append(links, halfLink{property: e.Key[len(base)], other: e.Key[len(base)+1]})
	}
	return links, nil
}
