package compiler

import (
	"testing"

	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/stretchr/testify/require"
)

func requireSlotPanic(t *testing.T, base, size int, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(*errors.SlotAllocationError)
		require.True(t, ok, "unexpected panic value %v", r)
		require.Equal(t, base, err.Base)
		require.Equal(t, size, err.Size)
		require.True(t, err.IsFatal())
	}()
	fn()
}

func TestAllocatorReusesReleasedSlot(t *testing.T) {
	a := NewAllocator(6)
	require.Equal(t, 6, a.Allocate(1))
	require.Equal(t, 7, a.Allocate(2))
	a.Release(6, 1)
	require.Equal(t, 6, a.Allocate(1))
	require.Equal(t, 3, a.Live())
	require.Equal(t, 9, a.MaxLocals())
}

func TestAllocatorFirstFit(t *testing.T) {
	a := NewAllocator(0)
	require.Equal(t, 0, a.Allocate(1))
	require.Equal(t, 1, a.Allocate(2))
	require.Equal(t, 3, a.Allocate(1))
	a.Release(0, 1)

	// A one-unit hole does not fit a two-unit value.
	require.Equal(t, 4, a.Allocate(2))
	require.Equal(t, 0, a.Allocate(1))

	a.Release(1, 2)
	require.Equal(t, 1, a.Allocate(2))
	require.True(t, a.IsAllocated(2))
	require.False(t, a.IsAllocated(6))
}

func TestAllocatorNeverHandsOutFixedSlots(t *testing.T) {
	a := NewAllocator(5)
	require.Equal(t, 5, a.FirstAvailable())
	require.Equal(t, 5, a.MaxLocals())
	require.Equal(t, 5, a.Allocate(1))
	require.False(t, a.IsAllocated(4))
}

func TestAllocatorGrows(t *testing.T) {
	a := NewAllocator(3)
	for i := 0; i < 40; i++ {
		require.Equal(t, 3+i, a.Allocate(1))
	}
	require.Equal(t, 40, a.Live())
	require.Equal(t, 43, a.MaxLocals())
	for i := 0; i < 40; i += 2 {
		a.Release(3+i, 1)
	}
	require.Equal(t, 3, a.Allocate(1))
	require.Equal(t, 43, a.Allocate(2))
}

func TestAllocatorHighWaterMark(t *testing.T) {
	a := NewAllocator(2)
	x := a.Allocate(2)
	y := a.Allocate(2)
	a.Release(x, 2)
	a.Release(y, 2)
	require.Equal(t, 0, a.Live())
	require.Equal(t, 6, a.MaxLocals())
}

func TestAllocatorReleaseUnallocated(t *testing.T) {
	a := NewAllocator(6)
	requireSlotPanic(t, 6, 1, func() { a.Release(6, 1) })

	base := a.Allocate(2)
	requireSlotPanic(t, base, 3, func() { a.Release(base, 3) })
	requireSlotPanic(t, base+1, 2, func() { a.Release(base+1, 2) })
	requireSlotPanic(t, base, 0, func() { a.Release(base, 0) })

	a.Release(base, 2)
	requireSlotPanic(t, base, 2, func() { a.Release(base, 2) })
}

func TestAllocatorInvalidSize(t *testing.T) {
	a := NewAllocator(0)
	require.Panics(t, func() { a.Allocate(0) })
	require.Panics(t, func() { a.Allocate(3) })
}
