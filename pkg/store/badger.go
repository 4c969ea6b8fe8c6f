package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
)

var badgerPrefix = []byte("doc/")

// BadgerStore keeps records in an embedded badger database.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens the database in dir. An empty dir opens an
// in-memory database.
func NewBadgerStore(dir string, logger *log.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	if logger != nil {
		opts = opts.WithLogger(badgerLogger{logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

func badgerKey(id string) []byte {
	return append(append([]byte{}, badgerPrefix...), id...)
}

func (s *BadgerStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(id))
		if err != nil {
			return err
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, &rec)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return &rec, nil
}

func (s *BadgerStore) Put(ctx context.Context, rec *Record) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}
	stamped := stamp(rec)
	data, err := json.Marshal(stamped)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(rec.ID), data)
	}); err != nil {
		return fmt.Errorf("badger put: %w", err)
	}
	rec.UpdatedAt = stamped.UpdatedAt
	return nil
}

func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(badgerKey(id)); err != nil {
			return err
		}
		return txn.Delete(badgerKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}

func (s *BadgerStore) List(ctx context.Context) ([]Info, error) {
	var infos []Info
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = badgerPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var rec Record
			if json.Unmarshal(data, &rec) != nil {
				continue
			}
			infos = append(infos, rec.info())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger list: %w", err)
	}
	sortInfos(infos)
	return infos, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's printf-style logging into a charm logger.
type badgerLogger struct{ l *log.Logger }

func (b badgerLogger) Errorf(f string, args ...any)   { b.l.Errorf("badger: "+f, args...) }
func (b badgerLogger) Warningf(f string, args ...any) { b.l.Warnf("badger: "+f, args...) }
func (b badgerLogger) Infof(f string, args ...any)    { b.l.Debugf("badger: "+f, args...) }
func (b badgerLogger) Debugf(f string, args ...any)   { b.l.Debugf("badger: "+f, args...) }

var _ Store = (*BadgerStore)(nil)
