// Package memory guards large allocations against the Go memory limit (GOMEMLIMIT)
// so that growing dictionaries fail with an error instead of an OOM kill.
package memory // import "grol.io/lzw/memory"

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"runtime/debug"
)

var ErrOutOfMemory = errors.New("would exceed memory limit")

const (
	// Below this many bytes no check is done (one typical page).
	SmallAlloc = 4096
	// MaxAlloc is the largest single allocation ever approved, limit or not.
	MaxAlloc = min(1<<40, math.MaxInt)
)

// Returns the amount of free memory in bytes.
func Free() int64 {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	currentAlloc := memStats.HeapAlloc
	// retrieve the current limit.
	gomemlimit := debug.SetMemoryLimit(-1)
	return gomemlimit - int64(currentAlloc) //nolint:gosec // necessary, can be negative.
}

func SizeOk(n int64) (bool, int64) {
	if n <= SmallAlloc {
		return true, 0
	}
	free := Free()
	return (free >= 0) && (n < free), free
}

// Check returns nil if n more bytes can be allocated, running a GC before giving up.
func Check(n int64) error {
	if n > MaxAlloc {
		return fmt.Errorf("%w: requesting %d bytes, more than the %d maximum", ErrOutOfMemory, n, int64(MaxAlloc))
	}
	if ok, _ := SizeOk(n); ok {
		return nil
	}
	runtime.GC()
	if ok, free := SizeOk(n); !ok {
		return fmt.Errorf("%w: requesting %d bytes, %d free", ErrOutOfMemory, n, free)
	}
	return nil
}

// Elements is Check for n elements of size bytes each.
func Elements(n, size int) error {
	if n < 0 || size < 0 {
		return fmt.Errorf("%w: invalid request of %d x %d bytes", ErrOutOfMemory, n, size)
	}
	total := int64(n) * int64(size)
	if size != 0 && total/int64(size) != int64(n) {
		return fmt.Errorf("%w: %d x %d bytes overflows", ErrOutOfMemory, n, size)
	}
	return Check(total)
}
