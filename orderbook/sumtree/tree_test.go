package sumtree_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/suite"

	"github.com/osmosis-labs/sumtree-orderbook/orderbook/sumtree"
)

// mapStore is an in-memory Store for exercising the tree in isolation.
type mapStore struct {
	nodes   map[uint64]*sumtree.Node
	counter uint64
	rootKey uint64
}

func newMapStore() *mapStore {
	return &mapStore{nodes: make(map[uint64]*sumtree.Node)}
}

func (s *mapStore) GetNode(key uint64) (*sumtree.Node, error) {
	node, ok := s.nodes[key]
	if !ok {
		return nil, sumtree.NodeNotFoundError{Key: key}
	}
	copied := *node
	return &copied, nil
}

func (s *mapStore) SaveNode(node *sumtree.Node) error {
	copied := *node
	s.nodes[node.Key] = &copied
	return nil
}

func (s *mapStore) RemoveNode(key uint64) error {
	delete(s.nodes, key)
	return nil
}

func (s *mapStore) NextNodeKey() (uint64, error) {
	s.counter++
	return s.counter, nil
}

func (s *mapStore) RootKey() (uint64, error) {
	return s.rootKey, nil
}

func (s *mapStore) SetRootKey(key uint64) error {
	s.rootKey = key
	return nil
}

type SumtreeTestSuite struct {
	suite.Suite

	store *mapStore
	tree  *sumtree.Tree
}

func TestSumtreeTestSuite(t *testing.T) {
	suite.Run(t, new(SumtreeTestSuite))
}

func (s *SumtreeTestSuite) SetupTest() {
	s.store = newMapStore()
	s.tree = sumtree.New(s.store)
}

type leafSpec struct {
	etas  int64
	value int64
}

func (s *SumtreeTestSuite) insertAll(leaves []leafSpec) {
	for _, leaf := range leaves {
		err := s.tree.Insert(osmomath.NewBigDec(leaf.etas), osmomath.NewBigDec(leaf.value))
		s.Require().NoError(err)
	}
}

// assertTreeInvariants checks, for every internal node, that the
// accumulator is the sum of its children, the range is the union of
// the children's ranges, the stored weight matches the recomputed
// subtree height, children point back at their parent, and subtree
// heights differ by at most one.
func (s *SumtreeTestSuite) assertTreeInvariants() {
	root, err := s.tree.RootNode()
	s.Require().NoError(err)
	if root == nil {
		return
	}
	s.assertSubtreeInvariants(root)
}

func (s *SumtreeTestSuite) assertSubtreeInvariants(node *sumtree.Node) uint64 {
	if node.Leaf {
		return 1
	}

	accumulated := osmomath.ZeroBigDec()
	var heights [2]uint64
	for i, childKey := range []uint64{node.Left, node.Right} {
		if childKey == 0 {
			continue
		}
		child, err := s.store.GetNode(childKey)
		s.Require().NoError(err)
		s.Require().Equal(node.Key, child.Parent, "child %d does not point back at parent %d", child.Key, node.Key)

		accumulated = accumulated.Add(child.Value)
		s.Require().True(child.GetMinRange().GTE(node.MinRange), "child %d min below parent %d range", child.Key, node.Key)
		s.Require().True(child.GetMaxRange().LTE(node.MaxRange), "child %d max above parent %d range", child.Key, node.Key)

		heights[i] = s.assertSubtreeInvariants(child)
	}

	s.Require().Equal(accumulated, node.Value, "accumulator mismatch on node %d", node.Key)

	height := heights[0]
	if heights[1] > height {
		height = heights[1]
	}
	height++
	s.Require().Equal(height, node.GetWeight(), "weight mismatch on node %d", node.Key)

	var balance int64
	balance = int64(heights[0]) - int64(heights[1])
	if balance < 0 {
		balance = -balance
	}
	s.Require().LessOrEqual(balance, int64(1), "node %d is unbalanced", node.Key)

	return height
}

func (s *SumtreeTestSuite) TestGetPrefixSum() {
	tests := map[string]struct {
		leaves      []leafSpec
		targetEtas  int64
		expectedSum int64
	}{
		"single node, target ETAS equal to node ETAS": {
			leaves:      []leafSpec{{10, 5}},
			targetEtas:  10,
			expectedSum: 5,
		},
		"single node, target ETAS below node range": {
			leaves:      []leafSpec{{50, 20}},
			targetEtas:  25,
			expectedSum: 0,
		},
		"single node, target ETAS above node range": {
			leaves:      []leafSpec{{10, 10}},
			targetEtas:  30,
			expectedSum: 10,
		},
		"multiple nodes, target ETAS in the middle": {
			leaves:      []leafSpec{{5, 10}, {15, 20}, {35, 30}},
			targetEtas:  20,
			expectedSum: 30,
		},
		"target ETAS below all nodes": {
			leaves:      []leafSpec{{10, 10}, {20, 20}, {40, 30}},
			targetEtas:  5,
			expectedSum: 0,
		},
		"target ETAS above all nodes": {
			leaves:      []leafSpec{{10, 10}, {20, 20}, {40, 30}},
			targetEtas:  45,
			expectedSum: 60,
		},
		"nodes inserted in reverse order": {
			leaves:      []leafSpec{{30, 10}, {20, 5}, {10, 5}},
			targetEtas:  25,
			expectedSum: 10,
		},
		"nodes inserted in shuffled order": {
			leaves:      []leafSpec{{30, 10}, {10, 5}, {20, 5}},
			targetEtas:  25,
			expectedSum: 10,
		},
		"shuffled order, target ETAS at node lower bound": {
			leaves:      []leafSpec{{30, 11}, {10, 7}, {20, 5}},
			targetEtas:  20,
			expectedSum: 12,
		},
		"nodes with large gaps between ranges": {
			leaves:      []leafSpec{{10, 10}, {50, 20}, {100, 30}},
			targetEtas:  75,
			expectedSum: 30,
		},
		"nodes with adjacent ranges": {
			leaves:      []leafSpec{{10, 10}, {20, 10}, {30, 10}},
			targetEtas:  25,
			expectedSum: 20,
		},
		"complex case with many nodes (shuffled, adjacent, spaced out)": {
			leaves: []leafSpec{
				{10, 5},
				{121, 19},
				{15, 4},
				{50, 10},
				{61, 9},
				{100, 20},
				{200, 50},
				{260, 40},
				{301, 29},
				{400, 100},
				{600, 150},
			},
			targetEtas:  305,
			expectedSum: 186,
		},
	}

	for name, tc := range tests {
		s.Run(name, func() {
			s.SetupTest()
			s.insertAll(tc.leaves)
			s.assertTreeInvariants()

			sum, err := s.tree.GetPrefixSum(osmomath.NewBigDec(tc.targetEtas))
			s.Require().NoError(err)
			s.Require().Equal(osmomath.NewBigDec(tc.expectedSum), sum)

			// The walk must not mutate the tree.
			s.assertTreeInvariants()
		})
	}
}

// TestGetPrefixSumGapBetweenSubtrees builds a tree where both root
// children are internal nodes with a gap between their ranges, then
// inserts a leaf that falls inside that gap. The leaf must end up
// linked under the left subtree and counted by prefix sums.
func (s *SumtreeTestSuite) TestGetPrefixSumGapBetweenSubtrees() {
	leaves := []leafSpec{{0, 1}, {100, 1}, {50, 1}, {60, 1}, {55, 1}}
	s.insertAll(leaves)
	s.assertTreeInvariants()

	total, err := s.tree.TotalValue()
	s.Require().NoError(err)
	s.Require().Equal(osmomath.NewBigDec(5), total)

	// Every accumulated unit must be reachable through the tree.
	treeLeaves, err := s.tree.Leaves()
	s.Require().NoError(err)
	s.Require().Len(treeLeaves, len(leaves))

	for _, target := range []int64{0, 49, 58, 61, 120} {
		expected := osmomath.ZeroBigDec()
		for _, leaf := range leaves {
			if leaf.etas <= target {
				expected = expected.Add(osmomath.NewBigDec(leaf.value))
			}
		}

		sum, err := s.tree.GetPrefixSum(osmomath.NewBigDec(target))
		s.Require().NoError(err)
		s.Require().Equal(expected, sum, fmt.Sprintf("prefix sum mismatch at target %d", target))
	}
}

func (s *SumtreeTestSuite) TestEmptyTree() {
	sum, err := s.tree.GetPrefixSum(osmomath.NewBigDec(100))
	s.Require().NoError(err)
	s.Require().True(sum.IsZero())

	total, err := s.tree.TotalValue()
	s.Require().NoError(err)
	s.Require().True(total.IsZero())

	root, err := s.tree.RootNode()
	s.Require().NoError(err)
	s.Require().Nil(root)
}

func (s *SumtreeTestSuite) TestTotalValue() {
	s.insertAll([]leafSpec{{10, 5}, {30, 15}, {20, 7}})

	total, err := s.tree.TotalValue()
	s.Require().NoError(err)
	s.Require().Equal(osmomath.NewBigDec(27), total)
}

func (s *SumtreeTestSuite) TestDelete() {
	s.insertAll([]leafSpec{{10, 5}, {20, 10}, {30, 15}, {40, 20}})
	s.assertTreeInvariants()

	leaves, err := s.tree.Leaves()
	s.Require().NoError(err)
	s.Require().Len(leaves, 4)

	// Remove the leaf at ETAS 20.
	for _, leaf := range leaves {
		if leaf.Etas.Equal(osmomath.NewBigDec(20)) {
			s.Require().NoError(s.tree.Delete(leaf.Key))
		}
	}

	s.assertTreeInvariants()

	total, err := s.tree.TotalValue()
	s.Require().NoError(err)
	s.Require().Equal(osmomath.NewBigDec(40), total)

	sum, err := s.tree.GetPrefixSum(osmomath.NewBigDec(25))
	s.Require().NoError(err)
	s.Require().Equal(osmomath.NewBigDec(5), sum)
}

func (s *SumtreeTestSuite) TestDeleteAllLeavesEmptiesTree() {
	s.insertAll([]leafSpec{{10, 5}, {20, 10}, {30, 15}})

	for {
		leaves, err := s.tree.Leaves()
		s.Require().NoError(err)
		if len(leaves) == 0 {
			break
		}
		s.Require().NoError(s.tree.Delete(leaves[0].Key))
		s.assertTreeInvariants()
	}

	root, err := s.tree.RootNode()
	s.Require().NoError(err)
	s.Require().Nil(root)

	// The tree remains usable after emptying.
	s.insertAll([]leafSpec{{5, 5}})
	total, err := s.tree.TotalValue()
	s.Require().NoError(err)
	s.Require().Equal(osmomath.NewBigDec(5), total)
}

// TestFuzzInsertDelete inserts a random subset of adjacent leaves in
// random order with random interleaved deletions, asserting the
// structural invariants and checking prefix sums against a
// brute-force model at every step. Dropping spans from the tiling
// leaves gaps between leaf ranges, so the walk also covers insertions
// that land between two populated subtrees.
func (s *SumtreeTestSuite) TestFuzzInsertDelete() {
	const (
		seed     = 42
		numSpans = 300
	)

	rng := rand.New(rand.NewSource(seed))

	// Adjacent spans, like cancellations on a busy tick. Roughly a
	// third of the spans are skipped to open gaps in the tiling.
	type modelLeaf struct {
		etas, value int64
	}
	var pending []modelLeaf
	etas := int64(0)
	for i := 0; i < numSpans; i++ {
		value := rng.Int63n(100) + 1
		if rng.Intn(3) != 0 {
			pending = append(pending, modelLeaf{etas: etas, value: value})
		}
		etas += value
	}
	rng.Shuffle(len(pending), func(i, j int) {
		pending[i], pending[j] = pending[j], pending[i]
	})

	inserted := make(map[int64]int64)
	for step, leaf := range pending {
		err := s.tree.Insert(osmomath.NewBigDec(leaf.etas), osmomath.NewBigDec(leaf.value))
		s.Require().NoError(err)
		inserted[leaf.etas] = leaf.value

		// Occasionally delete a random resident leaf.
		if rng.Intn(4) == 0 && len(inserted) > 1 {
			leaves, err := s.tree.Leaves()
			s.Require().NoError(err)
			victim := leaves[rng.Intn(len(leaves))]
			s.Require().NoError(s.tree.Delete(victim.Key))
			delete(inserted, victim.Etas.Dec().TruncateInt64())
		}

		s.assertTreeInvariants()

		target := osmomath.NewBigDec(rng.Int63n(etas + 1))
		expected := osmomath.ZeroBigDec()
		for leafEtas, value := range inserted {
			if osmomath.NewBigDec(leafEtas).LTE(target) {
				expected = expected.Add(osmomath.NewBigDec(value))
			}
		}

		sum, err := s.tree.GetPrefixSum(target)
		s.Require().NoError(err)
		s.Require().Equal(expected, sum, fmt.Sprintf("prefix sum mismatch at step %d, target %s", step, target))
	}
}
