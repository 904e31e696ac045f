// Package container frames a code stream for storage in a file: a small fixed
// header carrying what the decoder needs out of band, followed by the codes.
package container // import "grol.io/lzw/container"

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"
	"fortio.org/sets"
	"grol.io/lzw/codestream"
)

const (
	Magic      = "LZW\x1a"
	Version    = 1
	HeaderSize = len(Magic) + 1 + 1 + 8 + 8
	Extension  = ".lzw"
)

var (
	ErrMagic   = errors.New("not an lzw file")
	ErrVersion = errors.New("unsupported lzw file version")

	supportedVersions = sets.New[uint8](Version)
)

type Header struct {
	Version uint8
	Width   int
	Count   uint64 // number of codes.
	Size    uint64 // of the original data.
}

func (h Header) MarshalBinary() ([]byte, error) {
	if err := codestream.CheckWidth(h.Width); err != nil {
		return nil, err
	}
	w, err := safecast.Convert[uint8](h.Width)
	if err != nil {
		return nil, err
	}
	version := h.Version
	if version == 0 {
		version = Version
	}
	b := make([]byte, 0, HeaderSize)
	b = append(b, Magic...)
	b = append(b, version, w)
	b = binary.LittleEndian.AppendUint64(b, h.Count)
	b = binary.LittleEndian.AppendUint64(b, h.Size)
	return b, nil
}

func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("%w: header too short (%d bytes)", ErrMagic, len(b))
	}
	if string(b[:len(Magic)]) != Magic {
		return fmt.Errorf("%w: bad magic %q", ErrMagic, b[:len(Magic)])
	}
	b = b[len(Magic):]
	if !supportedVersions.Has(b[0]) {
		return fmt.Errorf("%w %d", ErrVersion, b[0])
	}
	h.Version = b[0]
	h.Width = int(b[1])
	if err := codestream.CheckWidth(h.Width); err != nil {
		return err
	}
	h.Count = binary.LittleEndian.Uint64(b[2:])
	h.Size = binary.LittleEndian.Uint64(b[10:])
	return nil
}

// Write writes the header followed by the codes.
func Write(w io.Writer, h Header, codes []uint64) error {
	count, err := safecast.Convert[uint64](len(codes))
	if err != nil {
		return err
	}
	h.Count = count
	hdr, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err = w.Write(hdr); err != nil {
		return err
	}
	return codestream.WriteAll(w, codes, h.Width)
}

// Read reads the header and returns a reader positioned on the first code.
func Read(r io.Reader) (Header, *codestream.Reader, error) {
	var h Header
	b := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return h, nil, fmt.Errorf("%w: %w", ErrMagic, err)
		}
		return h, nil, err
	}
	if err := h.UnmarshalBinary(b); err != nil {
		return h, nil, err
	}
	cr, err := codestream.NewReader(r, h.Width)
	return h, cr, err
}
