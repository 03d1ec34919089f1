package repository

import (
	"bytes"
	"encoding/binary"
	"encoding/json"

	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/sumtree"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/types"
	"github.com/osmosis-labs/sumtree-orderbook/storage"
)

// Repository persists orderbook state through a storage.Reader or
// storage.Tx supplied per call. It holds no state of its own, so a
// single value can serve concurrent readers.
type Repository struct{}

// New creates a new orderbook repository.
func New() *Repository {
	return &Repository{}
}

// GetOrderbook returns the orderbook state.
// Returns domain.OrderbookNotFoundError if no market has been created.
func (r *Repository) GetOrderbook(reader storage.Reader) (domain.Orderbook, error) {
	raw, err := reader.Get(keyOrderbook)
	if err != nil {
		if err == storage.ErrNotFound {
			return domain.Orderbook{}, domain.OrderbookNotFoundError{}
		}
		return domain.Orderbook{}, err
	}

	var orderbook domain.Orderbook
	if err := json.Unmarshal(raw, &orderbook); err != nil {
		return domain.Orderbook{}, err
	}
	return orderbook, nil
}

// HasOrderbook returns true if a market has been created.
func (r *Repository) HasOrderbook(reader storage.Reader) (bool, error) {
	return reader.Has(keyOrderbook)
}

// SaveOrderbook persists the orderbook state.
func (r *Repository) SaveOrderbook(tx storage.Tx, orderbook domain.Orderbook) error {
	raw, err := json.Marshal(orderbook)
	if err != nil {
		return err
	}
	return tx.Set(keyOrderbook, raw)
}

// IsActive returns the orderbook activity flag. A market with no flag
// stored is active.
func (r *Repository) IsActive(reader storage.Reader) (bool, error) {
	raw, err := reader.Get(keyActive)
	if err != nil {
		if err == storage.ErrNotFound {
			return true, nil
		}
		return false, err
	}
	return len(raw) == 1 && raw[0] == 1, nil
}

// SetActive persists the orderbook activity flag.
func (r *Repository) SetActive(tx storage.Tx, active bool) error {
	value := []byte{0}
	if active {
		value = []byte{1}
	}
	return tx.Set(keyActive, value)
}

// GetMakerFee returns the maker fee, zero if unset.
func (r *Repository) GetMakerFee(reader storage.Reader) (osmomath.Dec, error) {
	raw, err := reader.Get(keyMakerFee)
	if err != nil {
		if err == storage.ErrNotFound {
			return osmomath.ZeroDec(), nil
		}
		return osmomath.Dec{}, err
	}
	return osmomath.NewDecFromStr(string(raw))
}

// SetMakerFee persists the maker fee.
func (r *Repository) SetMakerFee(tx storage.Tx, fee osmomath.Dec) error {
	return tx.Set(keyMakerFee, []byte(fee.String()))
}

// GetMakerFeeRecipient returns the maker fee recipient, empty if unset.
func (r *Repository) GetMakerFeeRecipient(reader storage.Reader) (string, error) {
	raw, err := reader.Get(keyMakerFeeRecipient)
	if err != nil {
		if err == storage.ErrNotFound {
			return "", nil
		}
		return "", err
	}
	return string(raw), nil
}

// SetMakerFeeRecipient persists the maker fee recipient.
func (r *Repository) SetMakerFeeRecipient(tx storage.Tx, recipient string) error {
	return tx.Set(keyMakerFeeRecipient, []byte(recipient))
}

// NextOrderID increments and returns the order id counter.
func (r *Repository) NextOrderID(tx storage.Tx) (uint64, error) {
	next, err := nextSeq(tx, keyOrderSeq)
	if err != nil {
		return 0, err
	}
	return next, nil
}

func nextSeq(tx storage.Tx, key []byte) (uint64, error) {
	var current uint64
	raw, err := tx.Get(key)
	if err != nil && err != storage.ErrNotFound {
		return 0, err
	}
	if err == nil {
		current = binary.BigEndian.Uint64(raw)
	}

	next := current + 1
	if err := tx.Set(key, encodeUint64(next)); err != nil {
		return 0, err
	}
	return next, nil
}

// SaveOrder persists a limit order and its owner index entry.
func (r *Repository) SaveOrder(tx storage.Tx, order domain.LimitOrder) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	if err := tx.Set(orderKey(order.TickID, order.OrderID), raw); err != nil {
		return err
	}
	return tx.Set(ownerIndexKey(order.Owner, order.TickID, order.OrderID), []byte{})
}

// GetOrder returns the order at the given tick.
// Returns types.OrderNotFoundError if it does not exist.
func (r *Repository) GetOrder(reader storage.Reader, tickID int64, orderID uint64) (domain.LimitOrder, error) {
	raw, err := reader.Get(orderKey(tickID, orderID))
	if err != nil {
		if err == storage.ErrNotFound {
			return domain.LimitOrder{}, types.OrderNotFoundError{TickID: tickID, OrderID: orderID}
		}
		return domain.LimitOrder{}, err
	}

	var order domain.LimitOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return domain.LimitOrder{}, err
	}
	return order, nil
}

// RemoveOrder deletes an order and its owner index entry.
func (r *Repository) RemoveOrder(tx storage.Tx, order domain.LimitOrder) error {
	if err := tx.Delete(orderKey(order.TickID, order.OrderID)); err != nil {
		return err
	}
	return tx.Delete(ownerIndexKey(order.Owner, order.TickID, order.OrderID))
}

// GetOrdersByTick returns all orders at a tick in order id order.
func (r *Repository) GetOrdersByTick(reader storage.Reader, tickID int64) (domain.Orders, error) {
	start := append(append([]byte{}, prefixOrder...), encodeTickID(tickID)...)
	end := storage.PrefixEnd(start)

	var orders domain.Orders
	err := reader.Ascend(start, end, func(_, value []byte) (bool, error) {
		var order domain.LimitOrder
		if err := json.Unmarshal(value, &order); err != nil {
			return false, err
		}
		orders = append(orders, order)
		return true, nil
	})
	return orders, err
}

// GetOrdersByOwner returns up to limit orders placed by owner, starting
// after the given page key. A non-nil next key is returned when more
// orders remain.
func (r *Repository) GetOrdersByOwner(reader storage.Reader, owner string, start *types.OrderKey, limit int) (domain.Orders, *types.OrderKey, error) {
	prefix := ownerIndexPrefix(owner)
	lower := prefix
	if start != nil {
		// Resume strictly after the last key of the previous page.
		lower = append(ownerIndexKey(owner, start.TickID, start.OrderID), 0x00)
	}

	var orders domain.Orders
	var nextKey *types.OrderKey
	err := reader.Ascend(lower, storage.PrefixEnd(prefix), func(key, _ []byte) (bool, error) {
		suffix := key[len(prefix):]
		tickID := decodeTickID(suffix[:8])
		orderID := binary.BigEndian.Uint64(suffix[8:])

		if len(orders) == limit {
			nextKey = &types.OrderKey{TickID: tickID, OrderID: orderID}
			return false, nil
		}

		order, err := r.GetOrder(reader, tickID, orderID)
		if err != nil {
			return false, err
		}
		orders = append(orders, order)
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}

	if nextKey != nil && len(orders) > 0 {
		last := orders[len(orders)-1]
		nextKey = &types.OrderKey{TickID: last.TickID, OrderID: last.OrderID}
	}
	return orders, nextKey, nil
}

// GetTickState returns the stored state for a tick. The second return
// reports whether the tick has ever been written.
func (r *Repository) GetTickState(reader storage.Reader, tickID int64) (domain.TickState, bool, error) {
	raw, err := reader.Get(tickStateKey(tickID))
	if err != nil {
		if err == storage.ErrNotFound {
			return domain.NewTickState(), false, nil
		}
		return domain.TickState{}, false, err
	}

	var state domain.TickState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.TickState{}, false, err
	}
	return state, true, nil
}

// SaveTickState persists the state of a tick.
func (r *Repository) SaveTickState(tx storage.Tx, tickID int64, state domain.TickState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return tx.Set(tickStateKey(tickID), raw)
}

// TickStateFunc is invoked per stored tick during iteration. Returning
// false stops the walk.
type TickStateFunc func(tickID int64, state domain.TickState) (bool, error)

// AscendTicks walks stored ticks in increasing order starting at
// fromTick inclusive.
func (r *Repository) AscendTicks(reader storage.Reader, fromTick int64, fn TickStateFunc) error {
	start := tickStateKey(fromTick)
	return reader.Ascend(start, storage.PrefixEnd(prefixTick), tickStateIter(fn))
}

// DescendTicks walks stored ticks in decreasing order starting at
// fromTick inclusive.
func (r *Repository) DescendTicks(reader storage.Reader, fromTick int64, fn TickStateFunc) error {
	end := storage.PrefixEnd(tickStateKey(fromTick))
	return reader.Descend(prefixTick, end, tickStateIter(fn))
}

func tickStateIter(fn TickStateFunc) storage.IterFunc {
	return func(key, value []byte) (bool, error) {
		var state domain.TickState
		if err := json.Unmarshal(value, &state); err != nil {
			return false, err
		}
		return fn(decodeTickID(bytes.TrimPrefix(key, prefixTick)), state)
	}
}

// GetDirectionalLiquidity returns the total liquidity for a direction.
func (r *Repository) GetDirectionalLiquidity(reader storage.Reader, direction domain.OrderDirection) (osmomath.BigDec, error) {
	raw, err := reader.Get(liquidityKey(direction))
	if err != nil {
		if err == storage.ErrNotFound {
			return osmomath.ZeroBigDec(), nil
		}
		return osmomath.BigDec{}, err
	}
	return osmomath.NewBigDecFromStr(string(raw))
}

// SetDirectionalLiquidity persists the total liquidity for a direction.
func (r *Repository) SetDirectionalLiquidity(tx storage.Tx, direction domain.OrderDirection, liquidity osmomath.BigDec) error {
	return tx.Set(liquidityKey(direction), []byte(liquidity.String()))
}

// TreeStore returns the sumtree node store scoped to one side of a tick.
func (r *Repository) TreeStore(tx storage.Tx, tickID int64, direction domain.OrderDirection) sumtree.Store {
	return &treeStore{tx: tx, tickID: tickID, direction: direction}
}

type treeStore struct {
	tx        storage.Tx
	tickID    int64
	direction domain.OrderDirection
}

var _ sumtree.Store = &treeStore{}

func (s *treeStore) GetNode(key uint64) (*sumtree.Node, error) {
	raw, err := s.tx.Get(nodeKey(s.tickID, s.direction, key))
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, sumtree.NodeNotFoundError{Key: key}
		}
		return nil, err
	}

	var node sumtree.Node
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

func (s *treeStore) SaveNode(node *sumtree.Node) error {
	raw, err := json.Marshal(node)
	if err != nil {
		return err
	}
	return s.tx.Set(nodeKey(s.tickID, s.direction, node.Key), raw)
}

func (s *treeStore) RemoveNode(key uint64) error {
	return s.tx.Delete(nodeKey(s.tickID, s.direction, key))
}

func (s *treeStore) NextNodeKey() (uint64, error) {
	return nextSeq(s.tx, nodeSeqKey(s.tickID, s.direction))
}

func (s *treeStore) RootKey() (uint64, error) {
	raw, err := s.tx.Get(treeRootKey(s.tickID, s.direction))
	if err != nil {
		if err == storage.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return binary.BigEndian.Uint64(raw), nil
}

func (s *treeStore) SetRootKey(key uint64) error {
	return s.tx.Set(treeRootKey(s.tickID, s.direction), encodeUint64(key))
}
