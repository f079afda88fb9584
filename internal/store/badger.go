package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/softwarewrighter/midi-cli/internal/logger"
	"github.com/softwarewrighter/midi-cli/internal/models"
)

const (
	presetPrefix = "preset:"
	melodyPrefix = "melody:"
)

// Badger stores records as msgpack values under "preset:<id>" and
// "melody:<id>" keys.
type Badger struct {
	db *badger.DB
}

// BadgerOptions configures the embedded store.
type BadgerOptions struct {
	// Dir holds the data files. Required unless InMemory is set.
	Dir string

	// InMemory keeps everything in memory, for tests.
	InMemory bool

	// Logger overrides the default, which forwards warnings and errors to
	// the application logger.
	Logger badger.Logger
}

// NewBadger opens (or creates) a Badger store.
func NewBadger(bopts BadgerOptions) (*Badger, error) {
	if !bopts.InMemory && bopts.Dir == "" {
		return nil, errors.New("store: BadgerOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(bopts.Dir)
	if bopts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	if bopts.Logger != nil {
		dbOpts = dbOpts.WithLogger(bopts.Logger)
	} else {
		dbOpts = dbOpts.WithLogger(badgerLogger{})
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) ListPresets(_ context.Context) ([]models.Preset, error) {
	presets, err := list[models.Preset](b.db, presetPrefix)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(presets, func(i, j int) bool {
		return presets[i].CreatedAt.After(presets[j].CreatedAt)
	})
	return presets, nil
}

func (b *Badger) GetPreset(_ context.Context, id string) (*models.Preset, error) {
	return get[models.Preset](b.db, presetPrefix+id)
}

func (b *Badger) SavePreset(_ context.Context, p *models.Preset) error {
	touch(&p.CreatedAt, &p.UpdatedAt)
	return put(b.db, presetPrefix+p.ID, p)
}

func (b *Badger) DeletePreset(_ context.Context, id string) error {
	return remove(b.db, presetPrefix+id)
}

func (b *Badger) ListMelodies(_ context.Context) ([]models.Melody, error) {
	melodies, err := list[models.Melody](b.db, melodyPrefix)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(melodies, func(i, j int) bool {
		return melodies[i].CreatedAt.After(melodies[j].CreatedAt)
	})
	return melodies, nil
}

func (b *Badger) GetMelody(_ context.Context, id string) (*models.Melody, error) {
	return get[models.Melody](b.db, melodyPrefix+id)
}

func (b *Badger) SaveMelody(_ context.Context, m *models.Melody) error {
	touch(&m.CreatedAt, &m.UpdatedAt)
	return put(b.db, melodyPrefix+m.ID, m)
}

func (b *Badger) DeleteMelody(_ context.Context, id string) error {
	return remove(b.db, melodyPrefix+id)
}

func (b *Badger) Ping(_ context.Context) error {
	if b.db.IsClosed() {
		return errors.New("store: badger is closed")
	}
	return nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

func touch(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func get[T any](db *badger.DB, key string) (*T, error) {
	var val []byte
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var out T
	if err := msgpack.Unmarshal(val, &out); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return &out, nil
}

func put(db *badger.DB, key string, v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func remove(db *badger.DB, key string) error {
	return db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete([]byte(key))
	})
}

func list[T any](db *badger.DB, prefix string) ([]T, error) {
	out := []T{}
	err := db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = []byte(prefix)
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(iterOpts.Prefix); it.ValidForPrefix(iterOpts.Prefix); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			var rec T
			if err := msgpack.Unmarshal(val, &rec); err != nil {
				logger.Warn("Skipping malformed record", logger.Fields{"key": string(item.Key())})
				continue
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

// badgerLogger forwards badger's warnings and errors, dropping info and
// debug chatter.
type badgerLogger struct{}

func (badgerLogger) Errorf(f string, v ...interface{}) {
	logger.Error("badger", fmt.Errorf(f, v...), nil)
}

func (badgerLogger) Warningf(f string, v ...interface{}) {
	logger.Warn("badger: "+fmt.Sprintf(f, v...), nil)
}

func (badgerLogger) Infof(string, ...interface{})  {}
func (badgerLogger) Debugf(string, ...interface{}) {}
