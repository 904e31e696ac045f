// Package lzw implements Lempel-Ziv-Welch dictionary coding of byte sequences.
//
// The encoder learns phrases in a [trie.Trie] and emits one integer code per
// longest known phrase. The decoder rebuilds the same dictionary, one entry per
// code, from the codes alone: the n-th phrase learned by the encoder is always
// the n-th phrase added by the decoder.
//
// Codes are 0-255 for single bytes and 256 onwards for learned phrases. Once
// encoding is done [Width] gives the number of bytes needed per code, which
// along with the number of codes must be passed to the decoder out of band
// (see the codestream and container packages).
package lzw // import "grol.io/lzw/lzw"

import (
	"errors"

	"grol.io/lzw/trie"
)

var (
	// ErrOverflow is returned when the dictionary ids would exceed the largest code.
	ErrOverflow = trie.ErrOverflow
	// ErrCorrupt is returned by the decoder for a code that can't be in the dictionary yet.
	ErrCorrupt = errors.New("corrupt code stream")
	// ErrTruncated is returned when there are fewer codes than announced.
	ErrTruncated = errors.New("truncated code stream")
)

// Options for [Encode]. The zero value is unbounded with default sizing.
type Options struct {
	// MaxDictSize caps the number of phrases learned (0 = unbounded). Once reached
	// the encoder keeps emitting codes for known phrases but learns no new ones.
	MaxDictSize int
	// InitialDictSize is a hint of how many phrases will be learned, to size storage upfront.
	InitialDictSize int
	// GrowthStep is the number of trie nodes added each time storage is full,
	// 0 lets the trie pick.
	GrowthStep int

	idLimit uint64 // for tests, 0 means trie.MaxID.
}
