package commons

import (
	"github.com/google/uuid"
)

// NewId builds a new unique id.
// Two different calls should return two different values.
//
// Used by the dependency graph's DOT export to mint collision-free node
// identifiers for things like DOT graph node names.
func NewId() string {
	return uuid.NewString()
}
