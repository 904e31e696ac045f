package memory_test

import (
	"errors"
	"math"
	"runtime/debug"
	"testing"

	"grol.io/lzw/memory"
)

func TestSmallAlwaysOk(t *testing.T) {
	if ok, _ := memory.SizeOk(memory.SmallAlloc); !ok {
		t.Errorf("small allocation should always be ok")
	}
	if err := memory.Elements(16, 8); err != nil {
		t.Errorf("unexpected error for small allocation: %v", err)
	}
}

func TestCheckAgainstLimit(t *testing.T) {
	prev := debug.SetMemoryLimit(64 * 1024 * 1024)
	defer debug.SetMemoryLimit(prev)
	if err := memory.Check(1 << 40); !errors.Is(err, memory.ErrOutOfMemory) {
		t.Errorf("expected ErrOutOfMemory for 1TiB with a 64MiB limit, got %v", err)
	}
	if err := memory.Check(8 * 1024); err != nil {
		t.Errorf("8KiB should fit in 64MiB: %v", err)
	}
}

func TestElementsOverflow(t *testing.T) {
	if err := memory.Elements(math.MaxInt, 2048); !errors.Is(err, memory.ErrOutOfMemory) {
		t.Errorf("expected overflow to be reported as ErrOutOfMemory, got %v", err)
	}
	if err := memory.Elements(-1, 8); !errors.Is(err, memory.ErrOutOfMemory) {
		t.Errorf("expected negative count to be reported as ErrOutOfMemory, got %v", err)
	}
}

func TestMaxAllocWithoutLimit(t *testing.T) {
	prev := debug.SetMemoryLimit(math.MaxInt64)
	defer debug.SetMemoryLimit(prev)
	if err := memory.Check(memory.MaxAlloc + 1); !errors.Is(err, memory.ErrOutOfMemory) {
		t.Errorf("expected ErrOutOfMemory past MaxAlloc even without a limit, got %v", err)
	}
	if err := memory.Elements(math.MaxInt/2048, 2048); !errors.Is(err, memory.ErrOutOfMemory) {
		t.Errorf("expected ErrOutOfMemory for a huge element count, got %v", err)
	}
}
