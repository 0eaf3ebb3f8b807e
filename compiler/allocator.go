package compiler

import (
	"fmt"
	"sort"

	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/rs/zerolog"
)

const initialSlotCapacity = 8

// Allocator hands out local storage slots of a generated method. Slots
// below the first available index belong to the fixed layout of the unit
// and are never handed out. Allocation is address-ordered first fit: the
// lowest run of free units wide enough for the request is used.
type Allocator struct {
	first    int
	occupied []int // sorted, no duplicates
	max      int
	logger   zerolog.Logger
}

// NewAllocator returns an allocator whose first free slot is firstAvailable.
func NewAllocator(firstAvailable int) *Allocator {
	if firstAvailable < 0 {
		firstAvailable = 0
	}
	return &Allocator{
		first:    firstAvailable,
		occupied: make([]int, 0, initialSlotCapacity),
		max:      firstAvailable,
		logger:   zerolog.Nop(),
	}
}

// FirstAvailable returns the lowest index the allocator may hand out.
func (a *Allocator) FirstAvailable() int {
	return a.first
}

// Allocate reserves size contiguous units and returns the base index.
func (a *Allocator) Allocate(size int) int {
	if size < 1 || size > 2 {
		panic(fmt.Sprintf("compiler: invalid slot size %d", size))
	}
	base := a.first
	pos := 0
	for ; pos < len(a.occupied); pos++ {
		idx := a.occupied[pos]
		if idx < base {
			continue
		}
		if idx >= base+size {
			break
		}
		base = idx + 1
	}
	a.insert(pos, base, size)
	if base+size > a.max {
		a.max = base + size
	}
	return base
}

func (a *Allocator) insert(pos, base, size int) {
	if len(a.occupied)+size > cap(a.occupied) {
		newCap := cap(a.occupied) * 2
		if newCap < len(a.occupied)+size {
			newCap = len(a.occupied) + size
		}
		grown := make([]int, len(a.occupied), newCap)
		copy(grown, a.occupied)
		a.occupied = grown
		a.logger.Debug().Int("capacity", newCap).Msg("slot table grown")
	}
	a.occupied = a.occupied[:len(a.occupied)+size]
	copy(a.occupied[pos+size:], a.occupied[pos:len(a.occupied)-size])
	for i := 0; i < size; i++ {
		a.occupied[pos+i] = base + i
	}
}

// Release frees the range [base, base+size). The range must be exactly
// allocated; anything else is a defect in the caller's scope tracking and
// panics with *errors.SlotAllocationError.
func (a *Allocator) Release(base, size int) {
	pos := sort.SearchInts(a.occupied, base)
	if size < 1 || pos+size > len(a.occupied) {
		panic(&errors.SlotAllocationError{Base: base, Size: size})
	}
	for i := 0; i < size; i++ {
		if a.occupied[pos+i] != base+i {
			panic(&errors.SlotAllocationError{Base: base, Size: size})
		}
	}
	a.occupied = append(a.occupied[:pos], a.occupied[pos+size:]...)
}

// IsAllocated returns true if the unit at index is in use.
func (a *Allocator) IsAllocated(index int) bool {
	pos := sort.SearchInts(a.occupied, index)
	return pos < len(a.occupied) && a.occupied[pos] == index
}

// Live returns the number of units currently allocated.
func (a *Allocator) Live() int {
	return len(a.occupied)
}

// MaxLocals returns the number of units the method needs: the fixed layout
// plus the highest unit ever allocated.
func (a *Allocator) MaxLocals() int {
	return a.max
}
