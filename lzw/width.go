package lzw

import (
	"fmt"

	"grol.io/lzw/trie"
)

// widthLimits[i] is the exclusive bound of the id count for a width of i+2 bytes:
// 2^(8w) - 2, leaving the top 2 values as the decoder's sentinels.
var widthLimits = [...]uint64{
	1<<16 - 2,
	1<<24 - 2,
	1<<32 - 2,
	1<<40 - 2,
	1<<48 - 2,
	1<<56 - 2,
	trie.MaxID,
}

// Width returns the number of bytes needed per code for a dictionary of size ids
// (the next id to be assigned, as in [trie.Trie.Len]).
func Width(size uint64) (int, error) {
	for i, limit := range widthLimits {
		if size < limit {
			return i + 2, nil
		}
	}
	return 0, fmt.Errorf("%w: %d ids don't fit in 8 bytes codes", ErrOverflow, size)
}
