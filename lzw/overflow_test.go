package lzw

import (
	"errors"
	"strings"
	"testing"

	"grol.io/lzw/trie"
)

func TestEncodeOverflow(t *testing.T) {
	input := []byte(strings.Repeat("overflowing the dictionary ids", 10))
	o := Options{idLimit: uint64(trie.FirstPhrase) + 5}
	res, err := Encode(input, o)
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
	if res != nil {
		t.Errorf("expected no partial result on overflow, got %+v", res)
	}
	// A cap below the limit means the limit is never reached.
	o.MaxDictSize = 3
	res, err = Encode(input, o)
	if err != nil {
		t.Fatalf("unexpected error with a cap below the id limit: %v", err)
	}
	if res.Phrases != 3 {
		t.Errorf("expected 3 phrases, got %d", res.Phrases)
	}
}

func TestTableEntries(t *testing.T) {
	tbl := NewTable()
	if tbl.Len() != 256 {
		t.Fatalf("expected 256 seeded entries, got %d", tbl.Len())
	}
	for i := range 256 {
		if e := tbl.Entry(uint64(i)); len(e) != 1 || e[0] != byte(i) {
			t.Errorf("entry %d = %v", i, e)
		}
	}
	long := []byte(strings.Repeat("x", 300))
	if err := tbl.Add(long, 'y'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prev := tbl.Entry(256)
	// Adding from an existing entry, many times, to force reallocation.
	for range 5000 {
		if err := tbl.Add(prev, prev[0]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if string(tbl.Entry(256)) != string(long)+"y" || len(prev) != 301 {
		t.Errorf("entry 256 changed after additions: %d bytes", len(tbl.Entry(256)))
	}
	last := tbl.Entry(tbl.Len() - 1)
	if len(last) != 302 || last[301] != 'x' {
		t.Errorf("unexpected last entry of %d bytes", len(last))
	}
}
