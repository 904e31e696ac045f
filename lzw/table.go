package lzw

import (
	"fortio.org/safecast"
	"grol.io/lzw/memory"
)

// Table is the decoder side dictionary: a flat list of phrases indexed by code.
// All the phrase bytes live back to back in one buffer, ends[i] being the end
// offset of phrase i. Entries are never modified once added.
type Table struct {
	data []byte
	ends []int
}

const (
	singleBytes   = 256
	tableGrowStep = 4096
	endSize       = 8
)

// NewTable returns a table seeded with the 256 single byte phrases.
func NewTable() *Table {
	t := &Table{
		data: make([]byte, singleBytes, 16*singleBytes),
		ends: make([]int, singleBytes, 4*singleBytes),
	}
	for i := range singleBytes {
		t.data[i] = byte(i)
		t.ends[i] = i + 1
	}
	return t
}

// Len is the number of entries, also the code the next entry will get.
func (t *Table) Len() uint64 {
	return safecast.MustConvert[uint64](len(t.ends))
}

// Entry returns the phrase for code, which must be < Len(). The returned slice
// must not be modified and stays valid after further additions.
func (t *Table) Entry(code uint64) []byte {
	start := 0
	if code > 0 {
		start = t.ends[code-1]
	}
	return t.data[start:t.ends[code]:t.ends[code]]
}

// Add appends the phrase prefix + last. prefix can be a previous Entry.
func (t *Table) Add(prefix []byte, last byte) error {
	n := len(prefix) + 1
	if len(t.data)+n > cap(t.data) {
		if err := memory.Check(int64(max(2*len(t.data), len(t.data)+n))); err != nil {
			return err
		}
	}
	if len(t.ends) == cap(t.ends) {
		if err := memory.Elements(len(t.ends)+max(tableGrowStep, len(t.ends)/2), endSize); err != nil {
			return err
		}
	}
	t.data = append(t.data, prefix...)
	t.data = append(t.data, last)
	t.ends = append(t.ends, len(t.data))
	return nil
}
