// Package handle issues collision-free document handles. One allocator is
// shared across every record minted during a single document build; handle
// allocation restarts per build, so clones carry no identity across runs.
package handle

import (
	"strconv"
	"strings"
)

// Floor is the lowest handle value an allocator will issue. Keeps minted
// handles clear of the low range reserved for fixed infrastructure objects
// in stock documents.
const Floor uint64 = 0x100

// Allocator issues strictly increasing handles formatted as unpadded
// uppercase hexadecimal. Not safe for concurrent use; a build is
// single-threaded by design.
type Allocator struct {
	next uint64
}

// New returns an allocator whose first handle is seed, raised to floor when
// seed is below it. A zero floor means the package default.
func New(seed, floor uint64) *Allocator {
	if floor == 0 {
		floor = Floor
	}
	if seed < floor {
		seed = floor
	}
	return &Allocator{next: seed}
}

// Next issues one handle. Exactly one call per newly minted record.
func (a *Allocator) Next() string {
	h := strings.ToUpper(strconv.FormatUint(a.next, 16))
	a.next++
	return h
}

// Peek returns the value the next call to Next would issue, without
// consuming it. Used to refresh the emitted handle seed header variable.
func (a *Allocator) Peek() uint64 {
	return a.next
}
