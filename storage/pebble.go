package storage

import (
	"errors"
	"fmt"
	"io"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

var _ KVStore = (*PebbleStore)(nil)

// PebbleStore is a pebble-backed KVStore. Transactions are indexed
// batches, so reads inside a transaction observe its own writes.
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore opens or creates the store at dir.
func NewPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening pebble store at %s: %w", dir, err)
	}
	return &PebbleStore{db: db}, nil
}

// NewInMemoryPebbleStore creates a transient store backed by an
// in-memory filesystem. Used in tests and for ephemeral deployments.
func NewInMemoryPebbleStore() (*PebbleStore, error) {
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, fmt.Errorf("opening in-memory pebble store: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Get(key []byte) ([]byte, error) {
	return pebbleGet(s.db, key)
}

func (s *PebbleStore) Has(key []byte) (bool, error) {
	_, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *PebbleStore) Ascend(start, end []byte, fn IterFunc) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: start, UpperBound: end})
	if err != nil {
		return err
	}
	return pebbleIterate(iter, fn, false)
}

func (s *PebbleStore) Descend(start, end []byte, fn IterFunc) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: start, UpperBound: end})
	if err != nil {
		return err
	}
	return pebbleIterate(iter, fn, true)
}

func (s *PebbleStore) NewTx() Tx {
	return &pebbleTx{batch: s.db.NewIndexedBatch()}
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}

// pebbleReader is the read surface shared by the DB and its batches.
type pebbleReader interface {
	Get(key []byte) ([]byte, io.Closer, error)
	NewIter(o *pebble.IterOptions) (*pebble.Iterator, error)
}

func pebbleGet(r pebbleReader, key []byte) ([]byte, error) {
	val, closer, err := r.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// The slice is only valid until closer.Close, so copy it out.
	out := make([]byte, len(val))
	copy(out, val)
	if err := closer.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func pebbleIterate(iter *pebble.Iterator, fn IterFunc, reverse bool) error {
	defer iter.Close()

	advance := iter.Next
	valid := iter.First()
	if reverse {
		advance = iter.Prev
		valid = iter.Last()
	}

	for ; valid; valid = advance() {
		cont, err := fn(iter.Key(), iter.Value())
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return iter.Error()
}

var _ Tx = (*pebbleTx)(nil)

type pebbleTx struct {
	batch *pebble.Batch
}

func (t *pebbleTx) Get(key []byte) ([]byte, error) {
	return pebbleGet(t.batch, key)
}

func (t *pebbleTx) Has(key []byte) (bool, error) {
	_, err := t.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (t *pebbleTx) Ascend(start, end []byte, fn IterFunc) error {
	iter, err := t.batch.NewIter(&pebble.IterOptions{LowerBound: start, UpperBound: end})
	if err != nil {
		return err
	}
	return pebbleIterate(iter, fn, false)
}

func (t *pebbleTx) Descend(start, end []byte, fn IterFunc) error {
	iter, err := t.batch.NewIter(&pebble.IterOptions{LowerBound: start, UpperBound: end})
	if err != nil {
		return err
	}
	return pebbleIterate(iter, fn, true)
}

func (t *pebbleTx) Set(key, value []byte) error {
	return t.batch.Set(key, value, nil)
}

func (t *pebbleTx) Delete(key []byte) error {
	return t.batch.Delete(key, nil)
}

func (t *pebbleTx) Commit() error {
	return t.batch.Commit(pebble.Sync)
}

func (t *pebbleTx) Discard() error {
	return t.batch.Close()
}
