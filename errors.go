package nibtrie

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors returned by Map operations. Callers compare against
// these with errors.Is; github.com/pkg/errors preserves a stack trace on
// every wrap so failures can be diagnosed from a single log line.
var (
	// ErrKeyNotFound is returned by At when the requested key has no
	// entry in the map.
	ErrKeyNotFound = errors.New("nibtrie: key not found")

	// ErrAllocation is returned by Insert, Emplace and TryEmplace when
	// the configured node or value allocator fails to produce a new
	// cell or interior node. The map is left exactly as it was before
	// the call: any interior nodes materialized during the failed walk
	// are rolled back.
	ErrAllocation = errors.New("nibtrie: allocation failed")

	// ErrInvariantViolated is raised (via panic, never returned) when a
	// structural invariant that should be impossible under correct use
	// of the package is detected at runtime. Seeing this indicates a
	// bug in nibtrie itself, not in caller input.
	ErrInvariantViolated = errors.New("nibtrie: invariant violated")
)

// invariantf panics with an error wrapping ErrInvariantViolated, carrying
// a stack trace and the formatted detail message. Used at the handful of
// points where the trie structure is assumed to be self-consistent.
func invariantf(format string, args ...any) {
	panic(errors.Wrap(ErrInvariantViolated, fmt.Sprintf(format, args...)))
}
