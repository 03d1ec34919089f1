// Package storage provides the ordered key-value store the order book
// state lives in. Keys are arbitrary byte slices ordered
// lexicographically. All mutations happen inside a transaction so a
// failed operation never leaves partial state behind.
package storage

import "errors"

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("storage: key not found")

// IterFunc receives one key/value pair per call. Returning false stops
// the iteration early. The slices are only valid for the duration of
// the call.
type IterFunc func(key, value []byte) (bool, error)

// Reader is the read-side of the store.
type Reader interface {
	// Get returns the value for key or ErrNotFound.
	Get(key []byte) ([]byte, error)

	// Has reports whether key is present.
	Has(key []byte) (bool, error)

	// Ascend iterates keys in [start, end) in ascending order.
	Ascend(start, end []byte, fn IterFunc) error

	// Descend iterates keys in [start, end) in descending order.
	Descend(start, end []byte, fn IterFunc) error
}

// Tx is a read-write transaction. Writes are only visible to readers
// of the same transaction until Commit. A transaction must be finished
// with either Commit or Discard.
type Tx interface {
	Reader

	Set(key, value []byte) error
	Delete(key []byte) error

	Commit() error
	Discard() error
}

// KVStore is an ordered key-value store.
type KVStore interface {
	Reader

	// NewTx begins a read-write transaction.
	NewTx() Tx

	Close() error
}

// PrefixEnd returns the smallest key greater than every key with the
// given prefix, for use as an exclusive upper bound. Nil means no key
// qualifies (the prefix is all 0xff bytes).
func PrefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
