// Package codestream reads and writes sequences of fixed width little endian codes.
// There is no header: the width and the number of codes travel out of band.
package codestream // import "grol.io/lzw/codestream"

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"slices"
)

const (
	MinWidth = 2
	MaxWidth = 8
)

var (
	ErrWidth        = errors.New("invalid code width")
	ErrCodeTooLarge = errors.New("code does not fit in width")
)

func CheckWidth(width int) error {
	if width < MinWidth || width > MaxWidth {
		return fmt.Errorf("%w %d, must be between %d and %d", ErrWidth, width, MinWidth, MaxWidth)
	}
	return nil
}

// Fits reports whether code can be stored in width bytes.
func Fits(code uint64, width int) bool {
	return width >= MaxWidth || code>>(8*width) == 0
}

type Writer struct {
	w     io.Writer
	width int
	buf   [MaxWidth]byte
	count uint64
}

func NewWriter(w io.Writer, width int) (*Writer, error) {
	if err := CheckWidth(width); err != nil {
		return nil, err
	}
	return &Writer{w: w, width: width}, nil
}

func (cw *Writer) Write(code uint64) error {
	if !Fits(code, cw.width) {
		return fmt.Errorf("%w: %d in %d bytes (code #%d)", ErrCodeTooLarge, code, cw.width, cw.count)
	}
	binary.LittleEndian.PutUint64(cw.buf[:], code)
	if _, err := cw.w.Write(cw.buf[:cw.width]); err != nil {
		return err
	}
	cw.count++
	return nil
}

// Count is the number of codes written so far.
func (cw *Writer) Count() uint64 {
	return cw.count
}

func WriteAll(w io.Writer, codes []uint64, width int) error {
	cw, err := NewWriter(w, width)
	if err != nil {
		return err
	}
	for _, c := range codes {
		if err := cw.Write(c); err != nil {
			return err
		}
	}
	return nil
}

// Append serializes codes at the end of dst.
func Append(dst []byte, codes []uint64, width int) ([]byte, error) {
	if err := CheckWidth(width); err != nil {
		return dst, err
	}
	var buf [MaxWidth]byte
	dst = slices.Grow(dst, len(codes)*width)
	for i, c := range codes {
		if !Fits(c, width) {
			return dst, fmt.Errorf("%w: %d in %d bytes (code #%d)", ErrCodeTooLarge, c, width, i)
		}
		binary.LittleEndian.PutUint64(buf[:], c)
		dst = append(dst, buf[:width]...)
	}
	return dst, nil
}

type Reader struct {
	r     io.Reader
	width int
	buf   [MaxWidth]byte
}

func NewReader(r io.Reader, width int) (*Reader, error) {
	if err := CheckWidth(width); err != nil {
		return nil, err
	}
	return &Reader{r: r, width: width}, nil
}

// Next returns the next code, io.EOF at a clean end of input and
// io.ErrUnexpectedEOF if the input ends in the middle of a code.
func (cr *Reader) Next() (uint64, error) {
	if _, err := io.ReadFull(cr.r, cr.buf[:cr.width]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(cr.buf[:]), nil
}

// ReadAll decodes every code until the end of r.
func ReadAll(r io.Reader, width int) ([]uint64, error) {
	cr, err := NewReader(r, width)
	if err != nil {
		return nil, err
	}
	var codes []uint64
	for {
		c, err := cr.Next()
		if errors.Is(err, io.EOF) {
			return codes, nil
		}
		if err != nil {
			return codes, err
		}
		codes = append(codes, c)
	}
}
