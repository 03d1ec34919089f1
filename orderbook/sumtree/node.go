// Package sumtree implements a storage-backed augmented search tree
// over order cancellations. Each leaf records a cancelled amount at an
// ETAS watermark. Internal nodes accumulate the total cancelled value
// and the ETAS range of their subtree, so the total value cancelled at
// or below a target ETAS is a single O(log n) walk from the root.
//
// The tree is height balanced. Every mutation keeps internal weights
// equal to subtree heights and the balance factor of every internal
// node within one.
package sumtree

import (
	"github.com/osmosis-labs/osmosis/osmomath"
)

// maxRangeSentinel is the minimum-range marker of an internal node
// with no children. Any real ETAS is below it.
var maxRangeSentinel = osmomath.MustNewBigDecFromStr("115792089237316195423570985008687907853269984665640564039457.584007913129639935")

// Node is one node of the sumtree. Child and parent references are
// node keys, with zero meaning absent. Keys are allocated from a
// per-tree counter starting at one.
type Node struct {
	Key    uint64 `json:"key"`
	Parent uint64 `json:"parent,omitempty"`
	Left   uint64 `json:"left,omitempty"`
	Right  uint64 `json:"right,omitempty"`
	Leaf   bool   `json:"leaf"`

	// Value is the cancelled amount for leaves and the subtree
	// accumulator for internal nodes.
	Value osmomath.BigDec `json:"value"`
	// Etas is the leaf's watermark. Unused on internal nodes.
	Etas osmomath.BigDec `json:"etas"`
	// MinRange and MaxRange bound the subtree of an internal node.
	// Unused on leaves, where the range derives from Etas and Value.
	MinRange osmomath.BigDec `json:"min_range"`
	MaxRange osmomath.BigDec `json:"max_range"`
	// Weight is the height of an internal node's subtree.
	Weight uint64 `json:"weight,omitempty"`
}

// NewLeaf creates a leaf recording a cancelled value at an ETAS
// watermark.
func NewLeaf(key uint64, etas, value osmomath.BigDec) *Node {
	return &Node{
		Key:      key,
		Leaf:     true,
		Etas:     etas,
		Value:    value,
		MinRange: osmomath.ZeroBigDec(),
		MaxRange: osmomath.ZeroBigDec(),
	}
}

// NewInternal creates an internal node with an empty range.
func NewInternal(key uint64) *Node {
	return &Node{
		Key:      key,
		Value:    osmomath.ZeroBigDec(),
		Etas:     osmomath.ZeroBigDec(),
		MinRange: maxRangeSentinel,
		MaxRange: osmomath.ZeroBigDec(),
		Weight:   1,
	}
}

// IsInternal reports whether the node is internal.
func (n *Node) IsInternal() bool {
	return !n.Leaf
}

// HasChild reports whether the node references any child.
func (n *Node) HasChild() bool {
	return n.Left != 0 || n.Right != 0
}

// GetMinRange returns the lower bound of the node. For leaves this is
// the ETAS watermark.
func (n *Node) GetMinRange() osmomath.BigDec {
	if n.Leaf {
		return n.Etas
	}
	return n.MinRange
}

// GetMaxRange returns the upper bound of the node. For leaves this is
// the watermark plus the cancelled value.
func (n *Node) GetMaxRange() osmomath.BigDec {
	if n.Leaf {
		return n.Etas.Add(n.Value)
	}
	return n.MaxRange
}

// GetWeight returns the subtree height. Leaves have height one.
func (n *Node) GetWeight() uint64 {
	if n.Leaf {
		return 1
	}
	return n.Weight
}
