package lzw

import (
	"errors"
	"fmt"
	"io"

	"fortio.org/log"
	"fortio.org/safecast"
	"grol.io/lzw/codestream"
)

// Source yields codes one at a time, like [codestream.Reader].
type Source interface {
	Next() (uint64, error)
}

type sliceSource struct {
	codes []uint64
	pos   int
}

func (s *sliceSource) Next() (uint64, error) {
	if s.pos >= len(s.codes) {
		return 0, io.EOF
	}
	c := s.codes[s.pos]
	s.pos++
	return c, nil
}

// Decode reads count codes of width bytes from r and writes the original bytes to w.
// Output is written as each code is decoded and is not retracted on error.
func Decode(w io.Writer, r io.Reader, width int, count uint64) error {
	cr, err := codestream.NewReader(r, width)
	if err != nil {
		return err
	}
	return DecodeFrom(w, cr, count)
}

// DecodeCodes is [Decode] for codes already in memory.
func DecodeCodes(w io.Writer, codes []uint64) error {
	return DecodeFrom(w, &sliceSource{codes: codes}, safecast.MustConvert[uint64](len(codes)))
}

// DecodeFrom decodes count codes from src. Errors are [ErrCorrupt], [ErrTruncated],
// [memory.ErrOutOfMemory] or the ones from src and w.
func DecodeFrom(w io.Writer, src Source, count uint64) error {
	if count == 0 {
		return nil
	}
	first, err := next(src, 0, count)
	if err != nil {
		return err
	}
	if first >= singleBytes {
		return fmt.Errorf("%w: first code %d is not a single byte", ErrCorrupt, first)
	}
	t := NewTable()
	prev := t.Entry(first)
	if _, err = w.Write(prev); err != nil {
		return err
	}
	for i := uint64(1); i < count; i++ {
		code, err := next(src, i, count)
		if err != nil {
			return err
		}
		size := t.Len()
		var entry []byte
		switch {
		case code < size:
			entry = t.Entry(code)
			err = t.Add(prev, entry[0])
		case code == size || code == size+1:
			// Phrase being defined by this very code: prev + prev[0], which is also the new entry.
			err = t.Add(prev, prev[0])
			entry = t.Entry(size)
		default:
			return fmt.Errorf("%w: code %d at position %d, dictionary size %d", ErrCorrupt, code, i, size)
		}
		if err != nil {
			return err
		}
		if _, err = w.Write(entry); err != nil {
			return err
		}
		prev = entry
	}
	log.LogVf("lzw: decoded %d codes, dictionary size %d", count, t.Len())
	return nil
}

func next(src Source, i, count uint64) (uint64, error) {
	code, err := src.Next()
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("%w: got %d codes out of %d (%w)", ErrTruncated, i, count, err)
	}
	return code, err
}
