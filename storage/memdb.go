package storage

import (
	"sort"
	"strings"
	"sync"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

var _ KVStore = (*MemDB)(nil)

// MemDB is an in-memory KVStore backed by a red-black tree. It exists
// for tests and tooling that do not want to touch disk. Transactions
// buffer their writes in an overlay and apply them atomically on
// Commit under a single lock.
type MemDB struct {
	mu   sync.RWMutex
	tree *rbt.Tree[string, []byte]
}

// NewMemDB creates an empty in-memory store.
func NewMemDB() *MemDB {
	return &MemDB{
		tree: rbt.NewWith[string, []byte](strings.Compare),
	}
}

func (m *MemDB) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLocked(string(key))
}

func (m *MemDB) getLocked(key string) ([]byte, error) {
	val, found := m.tree.Get(key)
	if !found {
		return nil, ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MemDB) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, found := m.tree.Get(string(key))
	return found, nil
}

func (m *MemDB) Ascend(start, end []byte, fn IterFunc) error {
	return m.iterate(start, end, fn, false)
}

func (m *MemDB) Descend(start, end []byte, fn IterFunc) error {
	return m.iterate(start, end, fn, true)
}

func (m *MemDB) iterate(start, end []byte, fn IterFunc, reverse bool) error {
	m.mu.RLock()
	keys := m.keysInRange(string(start), string(end), end == nil)
	m.mu.RUnlock()

	if reverse {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}

	for _, key := range keys {
		m.mu.RLock()
		val, found := m.tree.Get(key)
		m.mu.RUnlock()
		if !found {
			continue
		}
		cont, err := fn([]byte(key), val)
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return nil
}

// keysInRange returns the sorted keys in [start, end). Callers hold at
// least the read lock.
func (m *MemDB) keysInRange(start, end string, unbounded bool) []string {
	var keys []string
	it := m.tree.Iterator()
	for it.Next() {
		key := it.Key()
		if key < start {
			continue
		}
		if !unbounded && key >= end {
			break
		}
		keys = append(keys, key)
	}
	return keys
}

func (m *MemDB) NewTx() Tx {
	return &memTx{
		db:      m,
		pending: make(map[string]memWrite),
	}
}

func (m *MemDB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tree.Clear()
	return nil
}

type memWrite struct {
	value   []byte
	deleted bool
}

var _ Tx = (*memTx)(nil)

type memTx struct {
	db      *MemDB
	pending map[string]memWrite
	done    bool
}

func (t *memTx) Get(key []byte) ([]byte, error) {
	if w, ok := t.pending[string(key)]; ok {
		if w.deleted {
			return nil, ErrNotFound
		}
		out := make([]byte, len(w.value))
		copy(out, w.value)
		return out, nil
	}
	return t.db.Get(key)
}

func (t *memTx) Has(key []byte) (bool, error) {
	_, err := t.Get(key)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (t *memTx) Set(key, value []byte) error {
	out := make([]byte, len(value))
	copy(out, value)
	t.pending[string(key)] = memWrite{value: out}
	return nil
}

func (t *memTx) Delete(key []byte) error {
	t.pending[string(key)] = memWrite{deleted: true}
	return nil
}

func (t *memTx) Ascend(start, end []byte, fn IterFunc) error {
	return t.iterate(start, end, fn, false)
}

func (t *memTx) Descend(start, end []byte, fn IterFunc) error {
	return t.iterate(start, end, fn, true)
}

// iterate merges the committed tree with the transaction overlay.
func (t *memTx) iterate(start, end []byte, fn IterFunc, reverse bool) error {
	startKey, endKey := string(start), string(end)
	unbounded := end == nil

	t.db.mu.RLock()
	baseKeys := t.db.keysInRange(startKey, endKey, unbounded)
	t.db.mu.RUnlock()

	merged := make(map[string]struct{}, len(baseKeys))
	for _, key := range baseKeys {
		merged[key] = struct{}{}
	}
	for key, w := range t.pending {
		if key < startKey || (!unbounded && key >= endKey) {
			continue
		}
		if w.deleted {
			delete(merged, key)
		} else {
			merged[key] = struct{}{}
		}
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if reverse {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}

	for _, key := range keys {
		val, err := t.Get([]byte(key))
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return err
		}
		cont, err := fn([]byte(key), val)
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return nil
}

func (t *memTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true

	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	for key, w := range t.pending {
		if w.deleted {
			t.db.tree.Remove(key)
		} else {
			t.db.tree.Put(key, w.value)
		}
	}
	return nil
}

func (t *memTx) Discard() error {
	t.done = true
	t.pending = nil
	return nil
}
