package storage_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/osmosis-labs/sumtree-orderbook/storage"
)

// StorageTestSuite runs the same conformance tests against every
// KVStore backend.
type StorageTestSuite struct {
	suite.Suite
}

func TestStorageTestSuite(t *testing.T) {
	suite.Run(t, new(StorageTestSuite))
}

func (s *StorageTestSuite) openStores() map[string]storage.KVStore {
	pebbleStore, err := storage.NewInMemoryPebbleStore()
	s.Require().NoError(err)

	return map[string]storage.KVStore{
		"pebble": pebbleStore,
		"memdb":  storage.NewMemDB(),
	}
}

func (s *StorageTestSuite) TestSetGetDelete() {
	for name, store := range s.openStores() {
		s.Run(name, func() {
			defer store.Close()

			tx := store.NewTx()
			s.Require().NoError(tx.Set([]byte("a"), []byte("1")))
			s.Require().NoError(tx.Commit())

			val, err := store.Get([]byte("a"))
			s.Require().NoError(err)
			s.Require().Equal([]byte("1"), val)

			_, err = store.Get([]byte("missing"))
			s.Require().ErrorIs(err, storage.ErrNotFound)

			tx = store.NewTx()
			s.Require().NoError(tx.Delete([]byte("a")))
			s.Require().NoError(tx.Commit())

			has, err := store.Has([]byte("a"))
			s.Require().NoError(err)
			s.Require().False(has)
		})
	}
}

func (s *StorageTestSuite) TestTxReadsOwnWrites() {
	for name, store := range s.openStores() {
		s.Run(name, func() {
			defer store.Close()

			tx := store.NewTx()
			s.Require().NoError(tx.Set([]byte("k"), []byte("v")))

			// Visible inside the transaction.
			val, err := tx.Get([]byte("k"))
			s.Require().NoError(err)
			s.Require().Equal([]byte("v"), val)

			// Not visible outside before commit.
			_, err = store.Get([]byte("k"))
			s.Require().ErrorIs(err, storage.ErrNotFound)

			s.Require().NoError(tx.Commit())

			val, err = store.Get([]byte("k"))
			s.Require().NoError(err)
			s.Require().Equal([]byte("v"), val)
		})
	}
}

func (s *StorageTestSuite) TestDiscardDropsWrites() {
	for name, store := range s.openStores() {
		s.Run(name, func() {
			defer store.Close()

			tx := store.NewTx()
			s.Require().NoError(tx.Set([]byte("k"), []byte("v")))
			s.Require().NoError(tx.Discard())

			_, err := store.Get([]byte("k"))
			s.Require().ErrorIs(err, storage.ErrNotFound)
		})
	}
}

func (s *StorageTestSuite) TestAscendDescendBounds() {
	for name, store := range s.openStores() {
		s.Run(name, func() {
			defer store.Close()

			tx := store.NewTx()
			for i := 0; i < 10; i++ {
				key := []byte(fmt.Sprintf("k/%02d", i))
				s.Require().NoError(tx.Set(key, []byte{byte(i)}))
			}
			s.Require().NoError(tx.Set([]byte("other"), []byte("x")))
			s.Require().NoError(tx.Commit())

			var ascending []byte
			err := store.Ascend([]byte("k/03"), []byte("k/07"), func(key, value []byte) (bool, error) {
				ascending = append(ascending, value[0])
				return true, nil
			})
			s.Require().NoError(err)
			s.Require().Equal([]byte{3, 4, 5, 6}, ascending)

			var descending []byte
			err = store.Descend([]byte("k/"), storage.PrefixEnd([]byte("k/")), func(key, value []byte) (bool, error) {
				descending = append(descending, value[0])
				return true, nil
			})
			s.Require().NoError(err)
			s.Require().Equal([]byte{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, descending)

			// Early stop.
			var count int
			err = store.Ascend([]byte("k/"), storage.PrefixEnd([]byte("k/")), func(key, value []byte) (bool, error) {
				count++
				return count < 3, nil
			})
			s.Require().NoError(err)
			s.Require().Equal(3, count)
		})
	}
}

func (s *StorageTestSuite) TestTxIterationSeesOverlay() {
	for name, store := range s.openStores() {
		s.Run(name, func() {
			defer store.Close()

			setup := store.NewTx()
			s.Require().NoError(setup.Set([]byte("k/1"), []byte("a")))
			s.Require().NoError(setup.Set([]byte("k/2"), []byte("b")))
			s.Require().NoError(setup.Set([]byte("k/3"), []byte("c")))
			s.Require().NoError(setup.Commit())

			tx := store.NewTx()
			s.Require().NoError(tx.Delete([]byte("k/2")))
			s.Require().NoError(tx.Set([]byte("k/4"), []byte("d")))

			var seen []string
			err := tx.Ascend([]byte("k/"), storage.PrefixEnd([]byte("k/")), func(key, value []byte) (bool, error) {
				seen = append(seen, string(value))
				return true, nil
			})
			s.Require().NoError(err)
			s.Require().Equal([]string{"a", "c", "d"}, seen)

			s.Require().NoError(tx.Discard())
		})
	}
}

func (s *StorageTestSuite) TestPrefixEnd() {
	s.Require().Equal([]byte("l"), storage.PrefixEnd([]byte("k")))
	s.Require().Equal([]byte("k0"), storage.PrefixEnd([]byte("k/")))
	s.Require().Equal([]byte{0x01, 0xff, 0xff}, storage.PrefixEnd([]byte{0x01, 0xff, 0xfe}))
	s.Require().Equal([]byte{0x02}, storage.PrefixEnd([]byte{0x01, 0xff, 0xff}))
	s.Require().Nil(storage.PrefixEnd([]byte{0xff, 0xff}))
}
