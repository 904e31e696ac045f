package container_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"grol.io/lzw/codestream"
	"grol.io/lzw/container"
)

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	codes := []uint64{65, 256, 65}
	err := container.Write(&buf, container.Header{Width: 2, Size: 4}, codes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != container.HeaderSize+6 {
		t.Errorf("expected %d bytes, got %d", container.HeaderSize+6, buf.Len())
	}
	h, cr, err := container.Read(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := container.Header{Version: container.Version, Width: 2, Count: 3, Size: 4}
	if diff := cmp.Diff(expected, h); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	for i, c := range codes {
		got, err := cr.Next()
		if err != nil || got != c {
			t.Errorf("code %d: expected %d, got %d, %v", i, c, got, err)
		}
	}
}

func TestBadHeaders(t *testing.T) {
	good, err := container.Header{Width: 3}.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := []struct {
		name     string
		mutate   func([]byte) []byte
		expected error
	}{
		{"short", func(b []byte) []byte { return b[:5] }, container.ErrMagic},
		{"empty", func([]byte) []byte { return nil }, container.ErrMagic},
		{"magic", func(b []byte) []byte { b[0] = 'X'; return b }, container.ErrMagic},
		{"version", func(b []byte) []byte { b[4] = 9; return b }, container.ErrVersion},
		{"width", func(b []byte) []byte { b[5] = 12; return b }, codestream.ErrWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.mutate(bytes.Clone(good))
			if _, _, err := container.Read(bytes.NewReader(b)); !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
	if _, err := (container.Header{Width: 1}).MarshalBinary(); !errors.Is(err, codestream.ErrWidth) {
		t.Errorf("expected ErrWidth marshaling width 1, got %v", err)
	}
}
