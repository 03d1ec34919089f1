package sumtree

import (
	"github.com/osmosis-labs/osmosis/osmomath"
)

func minBigDec(a, b osmomath.BigDec) osmomath.BigDec {
	if a.LT(b) {
		return a
	}
	return b
}

func maxBigDec(a, b osmomath.BigDec) osmomath.BigDec {
	if a.GT(b) {
		return a
	}
	return b
}

// Store persists the nodes of a single tree. One tree exists per
// (tick, direction) pair; the scoping happens in the implementation.
type Store interface {
	// GetNode loads a node. Missing keys return NodeNotFoundError.
	GetNode(key uint64) (*Node, error)
	SaveNode(node *Node) error
	RemoveNode(key uint64) error

	// NextNodeKey allocates the next node key, starting at one.
	NextNodeKey() (uint64, error)

	// RootKey returns the current root key, zero if the tree is empty.
	RootKey() (uint64, error)
	SetRootKey(key uint64) error
}

// Tree is a handle over one tick-direction sumtree.
type Tree struct {
	store Store
}

// New returns a tree over the given store.
func New(store Store) *Tree {
	return &Tree{store: store}
}

// RootNode returns the root, or nil for an empty tree.
func (t *Tree) RootNode() (*Node, error) {
	rootKey, err := t.store.RootKey()
	if err != nil {
		return nil, err
	}
	if rootKey == 0 {
		return nil, nil
	}
	return t.store.GetNode(rootKey)
}

// TotalValue returns the total cancelled value recorded in the tree.
func (t *Tree) TotalValue() (osmomath.BigDec, error) {
	root, err := t.RootNode()
	if err != nil {
		return osmomath.BigDec{}, err
	}
	if root == nil {
		return osmomath.ZeroBigDec(), nil
	}
	return root.Value, nil
}

// Insert records a cancelled value at an ETAS watermark and rebalances
// the affected path.
func (t *Tree) Insert(etas, value osmomath.BigDec) error {
	root, err := t.getOrInitRoot()
	if err != nil {
		return err
	}

	key, err := t.store.NextNodeKey()
	if err != nil {
		return err
	}
	newNode := NewLeaf(key, etas, value)
	if err := t.store.SaveNode(newNode); err != nil {
		return err
	}

	path, err := t.insertAt(root.Key, newNode)
	if err != nil {
		return err
	}

	// Fix weights bottom-up and rotate where the insertion tipped the
	// balance. Nodes are re-fetched because a rotation below may have
	// moved children around.
	for i := len(path) - 1; i >= 0; i-- {
		if err := t.refreshWeight(path[i]); err != nil {
			return err
		}
		if err := t.rebalance(path[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetPrefixSum returns the total value cancelled at or below the
// target ETAS. A leaf counts in full as soon as its watermark is at or
// below the target.
func (t *Tree) GetPrefixSum(targetEtas osmomath.BigDec) (osmomath.BigDec, error) {
	root, err := t.RootNode()
	if err != nil {
		return osmomath.BigDec{}, err
	}
	if root == nil {
		return osmomath.ZeroBigDec(), nil
	}
	return t.prefixSumAt(root, targetEtas)
}

func (t *Tree) prefixSumAt(node *Node, targetEtas osmomath.BigDec) (osmomath.BigDec, error) {
	if node.Leaf {
		if node.Etas.LTE(targetEtas) {
			return node.Value, nil
		}
		return osmomath.ZeroBigDec(), nil
	}

	// Entirely above the target: nothing counts.
	if targetEtas.LT(node.MinRange) {
		return osmomath.ZeroBigDec(), nil
	}
	// Entirely at or below the target: everything counts.
	if targetEtas.GTE(node.MaxRange) {
		return node.Value, nil
	}

	sum := osmomath.ZeroBigDec()
	for _, childKey := range []uint64{node.Left, node.Right} {
		if childKey == 0 {
			continue
		}
		child, err := t.store.GetNode(childKey)
		if err != nil {
			return osmomath.BigDec{}, err
		}
		childSum, err := t.prefixSumAt(child, targetEtas)
		if err != nil {
			return osmomath.BigDec{}, err
		}
		sum = sum.Add(childSum)
	}
	return sum, nil
}

// Delete removes a node and prunes any ancestor left childless,
// resyncing aggregates and balance on the remaining path.
func (t *Tree) Delete(key uint64) error {
	node, err := t.store.GetNode(key)
	if err != nil {
		return err
	}

	if node.Parent != 0 {
		parent, err := t.store.GetNode(node.Parent)
		if err != nil {
			return err
		}
		if parent.Left == node.Key {
			parent.Left = 0
		} else if parent.Right == node.Key {
			parent.Right = 0
		}

		if !parent.HasChild() {
			if err := t.Delete(parent.Key); err != nil {
				return err
			}
		} else {
			if err := t.store.SaveNode(parent); err != nil {
				return err
			}
			if err := t.syncUpward(parent.Key); err != nil {
				return err
			}
			if err := t.rebalanceUpward(parent.Key); err != nil {
				return err
			}
		}
	} else {
		rootKey, err := t.store.RootKey()
		if err != nil {
			return err
		}
		if rootKey == node.Key {
			if err := t.store.SetRootKey(0); err != nil {
				return err
			}
		}
	}

	return t.store.RemoveNode(node.Key)
}

func (t *Tree) getOrInitRoot() (*Node, error) {
	rootKey, err := t.store.RootKey()
	if err != nil {
		return nil, err
	}
	if rootKey != 0 {
		return t.store.GetNode(rootKey)
	}

	key, err := t.store.NextNodeKey()
	if err != nil {
		return nil, err
	}
	root := NewInternal(key)
	if err := t.store.SaveNode(root); err != nil {
		return nil, err
	}
	if err := t.store.SetRootKey(key); err != nil {
		return nil, err
	}
	return root, nil
}

func (t *Tree) getChild(key uint64) (*Node, error) {
	if key == 0 {
		return nil, nil
	}
	return t.store.GetNode(key)
}

// insertAt places newNode under the given internal node and returns
// the keys of the internal nodes visited, root first. Placement
// priority:
//  1. the node fits in an internal child's range, descend there
//  2. left is empty, attach left
//  3. right is empty, attach right, swapping with a higher left leaf
//  4. left is a leaf, split it
//  5. right is a leaf, split it
//  6. both children internal with the range in the gap between them,
//     descend left
func (t *Tree) insertAt(nodeKey uint64, newNode *Node) ([]uint64, error) {
	node, err := t.store.GetNode(nodeKey)
	if err != nil {
		return nil, err
	}
	if node.Leaf || !newNode.Leaf {
		return nil, InvalidNodeTypeError{Key: node.Key}
	}

	// The new leaf lands somewhere below, so the subtree aggregates
	// grow on the way down.
	node.Value = node.Value.Add(newNode.Value)
	if node.MinRange.GT(newNode.GetMinRange()) {
		node.MinRange = newNode.GetMinRange()
	}
	if node.MaxRange.LT(newNode.GetMaxRange()) {
		node.MaxRange = newNode.GetMaxRange()
	}

	left, err := t.getChild(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := t.getChild(node.Right)
	if err != nil {
		return nil, err
	}

	isInLeftRange := left != nil && left.IsInternal() && newNode.GetMinRange().LT(left.MaxRange)
	isInRightRange := right != nil && right.IsInternal() && newNode.GetMinRange().GT(right.MinRange)

	// Case 1: descend into an internal child covering the new range.
	if isInLeftRange {
		if err := t.store.SaveNode(node); err != nil {
			return nil, err
		}
		path, err := t.insertAt(left.Key, newNode)
		if err != nil {
			return nil, err
		}
		return append([]uint64{node.Key}, path...), nil
	}
	if isInRightRange {
		if err := t.store.SaveNode(node); err != nil {
			return nil, err
		}
		path, err := t.insertAt(right.Key, newNode)
		if err != nil {
			return nil, err
		}
		return append([]uint64{node.Key}, path...), nil
	}

	// Case 2: empty left slot.
	if left == nil {
		node.Left = newNode.Key
		return t.attach(node, newNode)
	}

	// Case 3: empty right slot. If the resident left leaf sorts after
	// the new one, the leaves swap slots to keep ETAS order.
	if right == nil {
		if left.Leaf && newNode.GetMaxRange().LTE(left.GetMinRange()) {
			node.Right = node.Left
			node.Left = newNode.Key
			return t.attach(node, newNode)
		}
		if !isInLeftRange {
			node.Right = newNode.Key
			return t.attach(node, newNode)
		}
	}

	// Case 4: left is a leaf, split it into a new internal pair.
	if left.Leaf {
		newParentKey, err := t.split(left, newNode)
		if err != nil {
			return nil, err
		}
		node.Left = newParentKey
		if err := t.store.SaveNode(node); err != nil {
			return nil, err
		}
		return []uint64{node.Key}, nil
	}

	// Case 5: right is a leaf, split it.
	if right != nil && right.Leaf && !isInLeftRange {
		newParentKey, err := t.split(right, newNode)
		if err != nil {
			return nil, err
		}
		node.Right = newParentKey
		if err := t.store.SaveNode(node); err != nil {
			return nil, err
		}
		return []uint64{node.Key}, nil
	}

	// Case 6: both children are internal and the new range falls in
	// the gap between them. The leaf sorts after everything under the
	// left child, so it extends that subtree's right edge.
	if err := t.store.SaveNode(node); err != nil {
		return nil, err
	}
	path, err := t.insertAt(left.Key, newNode)
	if err != nil {
		return nil, err
	}
	return append([]uint64{node.Key}, path...), nil
}

func (t *Tree) attach(node, newNode *Node) ([]uint64, error) {
	newNode.Parent = node.Key
	if err := t.store.SaveNode(newNode); err != nil {
		return nil, err
	}
	if err := t.store.SaveNode(node); err != nil {
		return nil, err
	}
	return []uint64{node.Key}, nil
}

// split replaces a leaf with an internal node holding the resident
// leaf and the new one, ordered by ETAS. Returns the new parent key.
func (t *Tree) split(existing, newNode *Node) (uint64, error) {
	if existing.IsInternal() || newNode.IsInternal() {
		return 0, InvalidNodeTypeError{Key: existing.Key}
	}

	key, err := t.store.NextNodeKey()
	if err != nil {
		return 0, err
	}

	newParent := NewInternal(key)
	newParent.Value = existing.Value.Add(newNode.Value)
	newParent.MinRange = minBigDec(existing.GetMinRange(), newNode.GetMinRange())
	newParent.MaxRange = maxBigDec(existing.GetMaxRange(), newNode.GetMaxRange())
	newParent.Weight = 2
	newParent.Parent = existing.Parent

	if existing.GetMinRange().LT(newNode.GetMinRange()) {
		newParent.Left = existing.Key
		newParent.Right = newNode.Key
	} else {
		newParent.Left = newNode.Key
		newParent.Right = existing.Key
	}

	existing.Parent = newParent.Key
	newNode.Parent = newParent.Key

	if err := t.store.SaveNode(newParent); err != nil {
		return 0, err
	}
	if err := t.store.SaveNode(existing); err != nil {
		return 0, err
	}
	if err := t.store.SaveNode(newNode); err != nil {
		return 0, err
	}
	return key, nil
}

// syncNode recomputes an internal node's range, accumulator and weight
// from its children and saves it. A childless internal node resets to
// the empty state.
func (t *Tree) syncNode(node *Node) error {
	if node.Leaf {
		return InvalidNodeTypeError{Key: node.Key}
	}

	left, err := t.getChild(node.Left)
	if err != nil {
		return err
	}
	right, err := t.getChild(node.Right)
	if err != nil {
		return err
	}

	minRange := maxRangeSentinel
	maxRange := osmomath.ZeroBigDec()
	value := osmomath.ZeroBigDec()
	var height uint64

	for _, child := range []*Node{left, right} {
		if child == nil {
			continue
		}
		minRange = minBigDec(minRange, child.GetMinRange())
		maxRange = maxBigDec(maxRange, child.GetMaxRange())
		value = value.Add(child.Value)
		if child.GetWeight() > height {
			height = child.GetWeight()
		}
	}

	node.MinRange = minRange
	node.MaxRange = maxRange
	node.Value = value
	node.Weight = height + 1

	return t.store.SaveNode(node)
}

// syncUpward resyncs a node and every ancestor above it.
func (t *Tree) syncUpward(key uint64) error {
	for key != 0 {
		node, err := t.store.GetNode(key)
		if err != nil {
			return err
		}
		if err := t.syncNode(node); err != nil {
			return err
		}
		key = node.Parent
	}
	return nil
}

// refreshWeight recomputes a node's weight from its children.
func (t *Tree) refreshWeight(key uint64) error {
	node, err := t.store.GetNode(key)
	if err != nil {
		return err
	}
	if node.Leaf {
		return nil
	}

	var height uint64
	for _, childKey := range []uint64{node.Left, node.Right} {
		child, err := t.getChild(childKey)
		if err != nil {
			return err
		}
		if child != nil && child.GetWeight() > height {
			height = child.GetWeight()
		}
	}

	if node.Weight == height+1 {
		return nil
	}
	node.Weight = height + 1
	return t.store.SaveNode(node)
}

func (t *Tree) childWeight(key uint64) (uint64, error) {
	child, err := t.getChild(key)
	if err != nil {
		return 0, err
	}
	if child == nil {
		return 0, nil
	}
	return child.GetWeight(), nil
}

// rebalance restores the height balance of a node whose subtrees
// differ by more than one level, using a single or double rotation
// depending on the heavier child's lean.
func (t *Tree) rebalance(key uint64) error {
	node, err := t.store.GetNode(key)
	if err != nil {
		return err
	}
	if node.Leaf || !node.HasChild() {
		return nil
	}

	leftHeight, err := t.childWeight(node.Left)
	if err != nil {
		return err
	}
	rightHeight, err := t.childWeight(node.Right)
	if err != nil {
		return err
	}

	balance := int64(leftHeight) - int64(rightHeight)
	if balance >= -1 && balance <= 1 {
		return nil
	}

	if balance > 1 {
		left, err := t.store.GetNode(node.Left)
		if err != nil {
			return err
		}
		if left.IsInternal() {
			leftLeft, err := t.childWeight(left.Left)
			if err != nil {
				return err
			}
			leftRight, err := t.childWeight(left.Right)
			if err != nil {
				return err
			}
			if leftRight > leftLeft {
				if err := t.rotateLeft(left.Key); err != nil {
					return err
				}
			}
		}
		return t.rotateRight(node.Key)
	}

	right, err := t.store.GetNode(node.Right)
	if err != nil {
		return err
	}
	if right.IsInternal() {
		rightLeft, err := t.childWeight(right.Left)
		if err != nil {
			return err
		}
		rightRight, err := t.childWeight(right.Right)
		if err != nil {
			return err
		}
		if rightLeft > rightRight {
			if err := t.rotateRight(right.Key); err != nil {
				return err
			}
		}
	}
	return t.rotateLeft(node.Key)
}

// rotateRight lifts the left child into the node's position. The
// node's aggregates and the pivot's are resynced from their new
// children. Rotating the root moves the root pointer.
func (t *Tree) rotateRight(key uint64) error {
	node, err := t.store.GetNode(key)
	if err != nil {
		return err
	}
	if node.Left == 0 {
		return InvalidNodeTypeError{Key: node.Key}
	}
	pivot, err := t.store.GetNode(node.Left)
	if err != nil {
		return err
	}
	if pivot.Leaf {
		return InvalidNodeTypeError{Key: pivot.Key}
	}

	node.Left = pivot.Right
	if pivot.Right != 0 {
		moved, err := t.store.GetNode(pivot.Right)
		if err != nil {
			return err
		}
		moved.Parent = node.Key
		if err := t.store.SaveNode(moved); err != nil {
			return err
		}
	}

	if err := t.replaceInParent(node, pivot.Key); err != nil {
		return err
	}
	pivot.Parent = node.Parent
	pivot.Right = node.Key
	node.Parent = pivot.Key

	if err := t.syncNode(node); err != nil {
		return err
	}
	return t.syncNode(pivot)
}

// rotateLeft mirrors rotateRight, lifting the right child.
func (t *Tree) rotateLeft(key uint64) error {
	node, err := t.store.GetNode(key)
	if err != nil {
		return err
	}
	if node.Right == 0 {
		return InvalidNodeTypeError{Key: node.Key}
	}
	pivot, err := t.store.GetNode(node.Right)
	if err != nil {
		return err
	}
	if pivot.Leaf {
		return InvalidNodeTypeError{Key: pivot.Key}
	}

	node.Right = pivot.Left
	if pivot.Left != 0 {
		moved, err := t.store.GetNode(pivot.Left)
		if err != nil {
			return err
		}
		moved.Parent = node.Key
		if err := t.store.SaveNode(moved); err != nil {
			return err
		}
	}

	if err := t.replaceInParent(node, pivot.Key); err != nil {
		return err
	}
	pivot.Parent = node.Parent
	pivot.Left = node.Key
	node.Parent = pivot.Key

	if err := t.syncNode(node); err != nil {
		return err
	}
	return t.syncNode(pivot)
}

// replaceInParent points the node's parent (or the root pointer) at
// the replacement key.
func (t *Tree) replaceInParent(node *Node, replacementKey uint64) error {
	if node.Parent == 0 {
		return t.store.SetRootKey(replacementKey)
	}
	parent, err := t.store.GetNode(node.Parent)
	if err != nil {
		return err
	}
	if parent.Left == node.Key {
		parent.Left = replacementKey
	} else if parent.Right == node.Key {
		parent.Right = replacementKey
	}
	return t.store.SaveNode(parent)
}

// rebalanceUpward rebalances a node and every ancestor above it.
func (t *Tree) rebalanceUpward(key uint64) error {
	for key != 0 {
		node, err := t.store.GetNode(key)
		if err != nil {
			return err
		}
		parentKey := node.Parent
		if err := t.refreshWeight(key); err != nil {
			return err
		}
		if err := t.rebalance(key); err != nil {
			return err
		}
		key = parentKey
	}
	return nil
}

// Leaves returns the tree's leaves in depth-first order. Used by
// queries and tests.
func (t *Tree) Leaves() ([]*Node, error) {
	root, err := t.RootNode()
	if err != nil {
		return nil, err
	}
	var leaves []*Node
	if root == nil {
		return leaves, nil
	}
	err = t.walk(root, func(node *Node) {
		if node.Leaf {
			leaves = append(leaves, node)
		}
	})
	return leaves, err
}

func (t *Tree) walk(node *Node, visit func(*Node)) error {
	visit(node)
	for _, childKey := range []uint64{node.Left, node.Right} {
		if childKey == 0 {
			continue
		}
		child, err := t.store.GetNode(childKey)
		if err != nil {
			return err
		}
		if err := t.walk(child, visit); err != nil {
			return err
		}
	}
	return nil
}
