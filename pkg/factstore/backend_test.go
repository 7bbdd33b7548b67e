package factstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/haivivi/wikifacts/pkg/factstore"
)

func backends(t *testing.T) map[string]factstore.Backend {
	t.Helper()
	b, err := factstore.NewBadger(factstore.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	m := factstore.NewMemory()
	t.Cleanup(func() {
		b.Close()
		m.Close()
	})
	return map[string]factstore.Backend{"memory": m, "badger": b}
}

func TestBackend_GetWrite(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := factstore.Key{"wf", "e", "Q42"}

			if _, err := b.Get(ctx, key); !errors.Is(err, factstore.ErrNotFound) {
				t.Fatalf("Get missing: got %v, want ErrNotFound", err)
			}
			if err := b.Write(ctx, []factstore.Entry{{Key: key, Value: []byte("adams")}}, nil); err != nil {
				t.Fatalf("Write: %v", err)
			}
			got, err := b.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != "adams" {
				t.Fatalf("Get = %q, want %q", got, "adams")
			}

			// Deletes run before puts in the same batch.
			if err := b.Write(ctx, []factstore.Entry{{Key: key, Value: []byte("douglas")}}, []factstore.Key{key}); err != nil {
				t.Fatalf("Write: %v", err)
			}
			got, err = b.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get after rewrite: %v", err)
			}
			if string(got) != "douglas" {
				t.Fatalf("Get = %q, want %q", got, "douglas")
			}

			if err := b.Write(ctx, nil, []factstore.Key{key}); err != nil {
				t.Fatalf("Write delete: %v", err)
			}
			if _, err := b.Get(ctx, key); !errors.Is(err, factstore.ErrNotFound) {
				t.Fatalf("Get after delete: got %v, want ErrNotFound", err)
			}
		})
	}
}

func TestBackend_Scan(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			puts := []factstore.Entry{
				{Key: factstore.Key{"wf", "f", "Q1", "000001"}, Value: []byte("b")},
				{Key: factstore.Key{"wf", "f", "Q1", "000000"}, Value: []byte("a")},
				{Key: factstore.Key{"wf", "f", "Q10", "000000"}, Value: []byte("x")},
				{Key: factstore.Key{"wf", "e", "Q1"}, Value: []byte("e")},
			}
			if err := b.Write(ctx, puts, nil); err != nil {
				t.Fatalf("Write: %v", err)
			}

			var got []string
			for e, err := range b.Scan(ctx, factstore.Key{"wf", "f", "Q1"}) {
				if err != nil {
					t.Fatalf("Scan: %v", err)
				}
				got = append(got, e.Key.String()+"="+string(e.Value))
			}
			want := []string{"wf:f:Q1:000000=a", "wf:f:Q1:000001=b"}
			if len(got) != len(want) {
				t.Fatalf("Scan = %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("Scan[%d] = %q, want %q", i, got[i], want[i])
				}
			}

			// Early break.
			n := 0
			for range b.Scan(ctx, factstore.Key{"wf"}) {
				n++
				break
			}
			if n != 1 {
				t.Fatalf("break after %d entries, want 1", n)
			}

			// Empty prefix scans everything.
			n = 0
			for _, err := range b.Scan(ctx, nil) {
				if err != nil {
					t.Fatalf("Scan all: %v", err)
				}
				n++
			}
			if n != len(puts) {
				t.Fatalf("Scan all = %d entries, want %d", n, len(puts))
			}
		})
	}
}

func TestNewBadger_RequiresDir(t *testing.T) {
	if _, err := factstore.NewBadger(factstore.BadgerOptions{}); err == nil {
		t.Fatal("expected error without Dir")
	}
}

func TestNewBadger_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	key := factstore.Key{"wf", "e", "Q5"}

	b, err := factstore.NewBadger(factstore.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	if err := b.Write(ctx, []factstore.Entry{{Key: key, Value: []byte("human")}}, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err = factstore.NewBadger(factstore.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	got, err := b.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != "human" {
		t.Fatalf("Get = %q, want %q", got, "human")
	}
}
