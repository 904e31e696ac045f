package codestream_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"grol.io/lzw/codestream"
)

func TestLittleEndianLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := codestream.WriteAll(&buf, []uint64{65, 256, 0x010203}, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []byte{65, 0, 0, 0, 1, 0, 3, 2, 1}
	if diff := cmp.Diff(expected, buf.Bytes()); diff != "" {
		t.Errorf("unexpected layout (-want +got):\n%s", diff)
	}
	appended, err := codestream.Append([]byte{0xff}, []uint64{65, 256, 0x010203}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(append([]byte{0xff}, expected...), appended); diff != "" {
		t.Errorf("Append differs from WriteAll (-want +got):\n%s", diff)
	}
}

func TestAllWidths(t *testing.T) {
	for width := codestream.MinWidth; width <= codestream.MaxWidth; width++ {
		largest := ^uint64(0) >> (64 - 8*width)
		codes := []uint64{0, 1, 255, 256, largest}
		var buf bytes.Buffer
		if err := codestream.WriteAll(&buf, codes, width); err != nil {
			t.Fatalf("width %d: %v", width, err)
		}
		if buf.Len() != len(codes)*width {
			t.Errorf("width %d: expected %d bytes, got %d", width, len(codes)*width, buf.Len())
		}
		got, err := codestream.ReadAll(&buf, width)
		if err != nil {
			t.Fatalf("width %d: %v", width, err)
		}
		if diff := cmp.Diff(codes, got); diff != "" {
			t.Errorf("width %d (-want +got):\n%s", width, diff)
		}
	}
}

func TestInvalidWidth(t *testing.T) {
	for _, width := range []int{-1, 0, 1, 9} {
		if _, err := codestream.NewWriter(io.Discard, width); !errors.Is(err, codestream.ErrWidth) {
			t.Errorf("width %d: expected ErrWidth, got %v", width, err)
		}
		if _, err := codestream.NewReader(bytes.NewReader(nil), width); !errors.Is(err, codestream.ErrWidth) {
			t.Errorf("width %d: expected ErrWidth, got %v", width, err)
		}
	}
}

func TestCodeTooLarge(t *testing.T) {
	err := codestream.WriteAll(io.Discard, []uint64{1, 1 << 16}, 2)
	if !errors.Is(err, codestream.ErrCodeTooLarge) {
		t.Errorf("expected ErrCodeTooLarge, got %v", err)
	}
	if codestream.Fits(1<<16, 2) || !codestream.Fits(1<<16, 3) || !codestream.Fits(^uint64(0), 8) {
		t.Errorf("Fits boundaries are wrong")
	}
}

func TestPartialCode(t *testing.T) {
	r, err := codestream.NewReader(bytes.NewReader([]byte{1, 0, 2}), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c, err := r.Next(); err != nil || c != 1 {
		t.Errorf("expected 1, got %d, %v", c, err)
	}
	if _, err := r.Next(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after the stream is exhausted, got %v", err)
	}
}
