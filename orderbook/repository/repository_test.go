package repository_test

import (
	"testing"

	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/suite"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/repository"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/sumtree"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/tickmath"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/types"
	"github.com/osmosis-labs/sumtree-orderbook/storage"
)

type RepositoryTestSuite struct {
	suite.Suite

	store storage.KVStore
	repo  *repository.Repository
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) SetupTest() {
	s.store = storage.NewMemDB()
	s.repo = repository.New()
}

// commit runs fn inside a transaction and commits it.
func (s *RepositoryTestSuite) commit(fn func(tx storage.Tx)) {
	tx := s.store.NewTx()
	fn(tx)
	s.Require().NoError(tx.Commit())
}

func (s *RepositoryTestSuite) newOrder(tickID int64, orderID uint64, owner string, quantity int64) domain.LimitOrder {
	return domain.LimitOrder{
		TickID:         tickID,
		OrderID:        orderID,
		OrderDirection: domain.BID,
		Owner:          owner,
		Quantity:       osmomath.NewInt(quantity),
		PlacedQuantity: osmomath.NewInt(quantity),
		Etas:           osmomath.ZeroBigDec(),
	}
}

func (s *RepositoryTestSuite) TestOrderbookRoundTrip() {
	_, err := s.repo.GetOrderbook(s.store)
	s.Require().ErrorIs(err, domain.OrderbookNotFoundError{})

	has, err := s.repo.HasOrderbook(s.store)
	s.Require().NoError(err)
	s.Require().False(has)

	orderbook := domain.NewOrderbook("quote", "base", tickmath.MinTick, tickmath.MaxTick)
	s.commit(func(tx storage.Tx) {
		s.Require().NoError(s.repo.SaveOrderbook(tx, orderbook))
	})

	stored, err := s.repo.GetOrderbook(s.store)
	s.Require().NoError(err)
	s.Require().Equal(orderbook, stored)
}

func (s *RepositoryTestSuite) TestActiveFlag() {
	// Active by default.
	active, err := s.repo.IsActive(s.store)
	s.Require().NoError(err)
	s.Require().True(active)

	s.commit(func(tx storage.Tx) {
		s.Require().NoError(s.repo.SetActive(tx, false))
	})

	active, err = s.repo.IsActive(s.store)
	s.Require().NoError(err)
	s.Require().False(active)

	s.commit(func(tx storage.Tx) {
		s.Require().NoError(s.repo.SetActive(tx, true))
	})

	active, err = s.repo.IsActive(s.store)
	s.Require().NoError(err)
	s.Require().True(active)
}

func (s *RepositoryTestSuite) TestMakerFee() {
	fee, err := s.repo.GetMakerFee(s.store)
	s.Require().NoError(err)
	s.Require().True(fee.IsZero())

	recipient, err := s.repo.GetMakerFeeRecipient(s.store)
	s.Require().NoError(err)
	s.Require().Empty(recipient)

	s.commit(func(tx storage.Tx) {
		s.Require().NoError(s.repo.SetMakerFee(tx, osmomath.MustNewDecFromStr("0.002")))
		s.Require().NoError(s.repo.SetMakerFeeRecipient(tx, "fee-collector"))
	})

	fee, err = s.repo.GetMakerFee(s.store)
	s.Require().NoError(err)
	s.Require().Equal(osmomath.MustNewDecFromStr("0.002"), fee)

	recipient, err = s.repo.GetMakerFeeRecipient(s.store)
	s.Require().NoError(err)
	s.Require().Equal("fee-collector", recipient)
}

func (s *RepositoryTestSuite) TestNextOrderID() {
	s.commit(func(tx storage.Tx) {
		for want := uint64(1); want <= 3; want++ {
			id, err := s.repo.NextOrderID(tx)
			s.Require().NoError(err)
			s.Require().Equal(want, id)
		}
	})

	// The counter survives the transaction boundary.
	s.commit(func(tx storage.Tx) {
		id, err := s.repo.NextOrderID(tx)
		s.Require().NoError(err)
		s.Require().Equal(uint64(4), id)
	})
}

func (s *RepositoryTestSuite) TestOrderRoundTrip() {
	order := s.newOrder(-1500000, 1, "alice", 1000)

	_, err := s.repo.GetOrder(s.store, order.TickID, order.OrderID)
	s.Require().ErrorIs(err, types.OrderNotFoundError{TickID: order.TickID, OrderID: order.OrderID})

	s.commit(func(tx storage.Tx) {
		s.Require().NoError(s.repo.SaveOrder(tx, order))
	})

	stored, err := s.repo.GetOrder(s.store, order.TickID, order.OrderID)
	s.Require().NoError(err)
	s.Require().Equal(order.Owner, stored.Owner)
	s.Require().Equal(order.Quantity, stored.Quantity)

	s.commit(func(tx storage.Tx) {
		s.Require().NoError(s.repo.RemoveOrder(tx, order))
	})

	_, err = s.repo.GetOrder(s.store, order.TickID, order.OrderID)
	s.Require().ErrorIs(err, types.OrderNotFoundError{TickID: order.TickID, OrderID: order.OrderID})

	orders, _, err := s.repo.GetOrdersByOwner(s.store, "alice", nil, 10)
	s.Require().NoError(err)
	s.Require().Empty(orders)
}

func (s *RepositoryTestSuite) TestGetOrdersByTick() {
	s.commit(func(tx storage.Tx) {
		s.Require().NoError(s.repo.SaveOrder(tx, s.newOrder(10, 2, "alice", 100)))
		s.Require().NoError(s.repo.SaveOrder(tx, s.newOrder(10, 1, "bob", 200)))
		s.Require().NoError(s.repo.SaveOrder(tx, s.newOrder(11, 3, "alice", 300)))
	})

	orders, err := s.repo.GetOrdersByTick(s.store, 10)
	s.Require().NoError(err)
	s.Require().Len(orders, 2)
	s.Require().Equal(uint64(1), orders[0].OrderID)
	s.Require().Equal(uint64(2), orders[1].OrderID)
}

func (s *RepositoryTestSuite) TestGetOrdersByOwnerPagination() {
	s.commit(func(tx storage.Tx) {
		s.Require().NoError(s.repo.SaveOrder(tx, s.newOrder(-5, 1, "alice", 100)))
		s.Require().NoError(s.repo.SaveOrder(tx, s.newOrder(3, 2, "alice", 200)))
		s.Require().NoError(s.repo.SaveOrder(tx, s.newOrder(3, 4, "alice", 300)))
		s.Require().NoError(s.repo.SaveOrder(tx, s.newOrder(7, 3, "bob", 400)))
	})

	// Ticks order before order ids within the index.
	page, next, err := s.repo.GetOrdersByOwner(s.store, "alice", nil, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Require().Equal(int64(-5), page[0].TickID)
	s.Require().Equal(int64(3), page[1].TickID)
	s.Require().Equal(uint64(2), page[1].OrderID)
	s.Require().NotNil(next)

	page, next, err = s.repo.GetOrdersByOwner(s.store, "alice", next, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Require().Equal(uint64(4), page[0].OrderID)
	s.Require().Nil(next)

	page, next, err = s.repo.GetOrdersByOwner(s.store, "bob", nil, 10)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Require().Nil(next)
}

func (s *RepositoryTestSuite) TestTickStateIteration() {
	state := domain.NewTickState()
	state.BidValues.TotalAmountOfLiquidity = osmomath.NewBigDec(100)

	ticks := []int64{-1500000, -3, 0, 42, 9000000}
	s.commit(func(tx storage.Tx) {
		for _, tickID := range ticks {
			s.Require().NoError(s.repo.SaveTickState(tx, tickID, state))
		}
	})

	_, found, err := s.repo.GetTickState(s.store, 7)
	s.Require().NoError(err)
	s.Require().False(found)

	stored, found, err := s.repo.GetTickState(s.store, 42)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(osmomath.NewBigDec(100), stored.BidValues.TotalAmountOfLiquidity)

	var ascending []int64
	err = s.repo.AscendTicks(s.store, -3, func(tickID int64, _ domain.TickState) (bool, error) {
		ascending = append(ascending, tickID)
		return true, nil
	})
	s.Require().NoError(err)
	s.Require().Equal([]int64{-3, 0, 42, 9000000}, ascending)

	var descending []int64
	err = s.repo.DescendTicks(s.store, 42, func(tickID int64, _ domain.TickState) (bool, error) {
		descending = append(descending, tickID)
		return true, nil
	})
	s.Require().NoError(err)
	s.Require().Equal([]int64{42, 0, -3, -1500000}, descending)

	// Early stop.
	var first []int64
	err = s.repo.AscendTicks(s.store, tickmath.MinTick, func(tickID int64, _ domain.TickState) (bool, error) {
		first = append(first, tickID)
		return len(first) < 2, nil
	})
	s.Require().NoError(err)
	s.Require().Equal([]int64{-1500000, -3}, first)
}

func (s *RepositoryTestSuite) TestDirectionalLiquidity() {
	liquidity, err := s.repo.GetDirectionalLiquidity(s.store, domain.BID)
	s.Require().NoError(err)
	s.Require().True(liquidity.IsZero())

	s.commit(func(tx storage.Tx) {
		s.Require().NoError(s.repo.SetDirectionalLiquidity(tx, domain.BID, osmomath.NewBigDec(1000)))
		s.Require().NoError(s.repo.SetDirectionalLiquidity(tx, domain.ASK, osmomath.NewBigDec(25)))
	})

	bidLiquidity, err := s.repo.GetDirectionalLiquidity(s.store, domain.BID)
	s.Require().NoError(err)
	s.Require().Equal(osmomath.NewBigDec(1000), bidLiquidity)

	askLiquidity, err := s.repo.GetDirectionalLiquidity(s.store, domain.ASK)
	s.Require().NoError(err)
	s.Require().Equal(osmomath.NewBigDec(25), askLiquidity)
}

func (s *RepositoryTestSuite) TestTreeStorePersistence() {
	tx := s.store.NewTx()
	tree := sumtree.New(s.repo.TreeStore(tx, 10, domain.BID))

	s.Require().NoError(tree.Insert(osmomath.NewBigDec(0), osmomath.NewBigDec(50)))
	s.Require().NoError(tree.Insert(osmomath.NewBigDec(50), osmomath.NewBigDec(25)))
	s.Require().NoError(tx.Commit())

	// Reopen the tree on a fresh transaction.
	tx = s.store.NewTx()
	defer func() { _ = tx.Discard() }()

	tree = sumtree.New(s.repo.TreeStore(tx, 10, domain.BID))
	total, err := tree.TotalValue()
	s.Require().NoError(err)
	s.Require().Equal(osmomath.NewBigDec(75), total)

	sum, err := tree.GetPrefixSum(osmomath.NewBigDec(10))
	s.Require().NoError(err)
	s.Require().Equal(osmomath.NewBigDec(50), sum)

	// Trees on the other side or another tick are independent.
	askTree := sumtree.New(s.repo.TreeStore(tx, 10, domain.ASK))
	total, err = askTree.TotalValue()
	s.Require().NoError(err)
	s.Require().True(total.IsZero())
}
