package sumtree

import "fmt"

// NodeNotFoundError represents an error when a referenced node is
// missing from storage.
type NodeNotFoundError struct {
	Key uint64
}

// Error implements the error interface.
func (e NodeNotFoundError) Error() string {
	return fmt.Sprintf("sumtree node not found: key %d", e.Key)
}

// InvalidNodeTypeError represents an error when an operation is called
// on the wrong kind of node, e.g. inserting into a leaf.
type InvalidNodeTypeError struct {
	Key uint64
}

// Error implements the error interface.
func (e InvalidNodeTypeError) Error() string {
	return fmt.Sprintf("invalid node type for operation: key %d", e.Key)
}

// IsFatal marks the error as a state corruption rather than bad input.
func (e InvalidNodeTypeError) IsFatal() bool {
	return true
}
