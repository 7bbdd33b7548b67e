package factstore

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// Badger is a Backend on BadgerDB v4.
type Badger struct {
	db *badger.DB
}

// BadgerOptions configures the Badger backend.
type BadgerOptions struct {
	// Dir is the directory for data files. Required unless InMemory.
	Dir string

	// InMemory keeps everything in memory with a real badger engine.
	InMemory bool

	// Logger receives badger warnings and errors. Nil uses slog.Default().
	Logger *slog.Logger
}

// NewBadger opens a Badger backend.
func NewBadger(opts BadgerOptions) (*Badger, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("factstore: BadgerOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dbOpts = dbOpts.WithLogger(badgerLogger{logger})

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Get(_ context.Context, key Key) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeKey(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return val, err
}

func (b *Badger) Scan(_ context.Context, prefix Key) iter.Seq2[Entry, error] {
	p := scanPrefix(prefix)

	return func(yield func(Entry, error) bool) {
		stopped := false
		err := b.db.View(func(txn *badger.Txn) error {
			itOpts := badger.DefaultIteratorOptions
			itOpts.Prefix = p
			it := txn.NewIterator(itOpts)
			defer it.Close()

			for it.Seek(p); it.ValidForPrefix(p); it.Next() {
				item := it.Item()
				val, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				if !yield(Entry{Key: decodeKey(item.KeyCopy(nil)), Value: val}, nil) {
					stopped = true
					return nil
				}
			}
			return nil
		})
		if err != nil && !stopped {
			yield(Entry{}, err)
		}
	}
}

func (b *Badger) Write(_ context.Context, puts []Entry, deletes []Key) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, k := range deletes {
			if err := txn.Delete(encodeKey(k)); err != nil {
				return err
			}
		}
		for _, e := range puts {
			if err := txn.Set(encodeKey(e.Key), e.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// badgerLogger forwards badger warnings and errors to slog and drops the
// chatty info and debug output.
type badgerLogger struct {
	l *slog.Logger
}

func (g badgerLogger) Errorf(f string, v ...interface{}) {
	g.l.Error("badger: "+strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (g badgerLogger) Warningf(f string, v ...interface{}) {
	g.l.Warn("badger: "+strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (badgerLogger) Infof(string, ...interface{})  {}
func (badgerLogger) Debugf(string, ...interface{}) {}
