package lzw

import (
	"fortio.org/log"
	"grol.io/lzw/memory"
	"grol.io/lzw/trie"
)

// Result of [Encode]. Codes[i] is the dictionary id of the i-th emitted phrase minus one.
type Result struct {
	Codes []uint64
	// Width in bytes needed to serialize each code.
	Width int
	// DictSize is the final number of trie ids (root included), from which Width is derived.
	DictSize uint64
	// Phrases learned, and phrases not learned because of MaxDictSize.
	Phrases uint64
	Dropped uint64
}

// Count is the number of codes.
func (r *Result) Count() int {
	return len(r.Codes)
}

const (
	codeSize        = 8
	resultGrowStep  = 4096
	minResultLength = 64
)

// Encode turns input into a sequence of codes. The dictionary is built from scratch
// for each call. Empty input gives no codes. Errors are [memory.ErrOutOfMemory] and
// [ErrOverflow], in which case nothing partial is returned.
func Encode(input []byte, o Options) (*Result, error) {
	if len(input) == 0 {
		w, _ := Width(uint64(trie.FirstPhrase))
		return &Result{Width: w, DictSize: uint64(trie.FirstPhrase)}, nil
	}
	t, err := trie.New(trie.Config{
		// At most len(input)-1 phrases can be learned.
		InitialSize: min(o.InitialDictSize, len(input)),
		MaxSize:     o.MaxDictSize,
		GrowthStep:  o.GrowthStep,
		IDLimit:     o.idLimit,
	})
	if err != nil {
		return nil, err
	}
	var e encoder
	// Typical text gives about one code for every 2 to 4 bytes.
	if err = e.reserve(max(minResultLength, len(input)/4)); err != nil {
		return nil, err
	}
	cur := trie.Root // the accumulated phrase, as the node spelling it.
	for _, b := range input {
		if next, ok := t.Child(cur, b); ok {
			cur = next
			continue
		}
		// cur is never the root here: every single byte is a child of the root.
		if err = e.emit(cur); err != nil {
			return nil, err
		}
		if _, _, err = t.AddChild(cur, b); err != nil {
			return nil, err
		}
		cur, _ = t.Child(trie.Root, b)
	}
	if err = e.emit(cur); err != nil {
		return nil, err
	}
	size := t.Len()
	w, err := Width(size)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Codes:    e.codes,
		Width:    w,
		DictSize: size,
		Phrases:  t.Phrases(),
		Dropped:  t.Dropped(),
	}
	log.LogVf("lzw: encoded %d bytes into %d codes, %d phrases (%d dropped), width %d",
		len(input), len(res.Codes), res.Phrases, res.Dropped, res.Width)
	return res, nil
}

type encoder struct {
	codes []uint64
}

func (e *encoder) reserve(n int) error {
	if err := memory.Elements(len(e.codes)+n, codeSize); err != nil {
		return err
	}
	grown := make([]uint64, len(e.codes), len(e.codes)+n)
	copy(grown, e.codes)
	e.codes = grown
	return nil
}

func (e *encoder) emit(id trie.ID) error {
	if len(e.codes) == cap(e.codes) {
		if err := e.reserve(max(resultGrowStep, len(e.codes)/2)); err != nil {
			return err
		}
	}
	code := uint64(id) - 1
	if log.LogDebug() {
		log.Debugf("lzw: emit #%d = %d", len(e.codes), code)
	}
	e.codes = append(e.codes, code)
	return nil
}
