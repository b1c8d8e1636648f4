package window

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriteBytesUpdatesCRCAndCount(t *testing.T) {
	var out bytes.Buffer
	tw := New(&out)

	if err := tw.WriteBytes([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if out.String() != "hello" {
		t.Errorf("got %q, want %q", out.String(), "hello")
	}
	if tw.ByteCount() != 5 {
		t.Errorf("got count %d, want 5", tw.ByteCount())
	}
	if tw.CRC32() == 0 {
		t.Errorf("expected non-zero crc for non-empty input")
	}
}

func TestWritePreviousNonOverlapping(t *testing.T) {
	var out bytes.Buffer
	tw := New(&out)

	if err := tw.WriteBytes([]byte("abcdef")); err != nil {
		t.Fatal(err)
	}
	// copy "cde" (dist=4, len=3) after the existing "abcdef"
	if err := tw.WritePrevious(3, 4); err != nil {
		t.Fatal(err)
	}
	if out.String() != "abcdefcde" {
		t.Errorf("got %q, want %q", out.String(), "abcdefcde")
	}
}

func TestWritePreviousRLEOverlap(t *testing.T) {
	var out bytes.Buffer
	tw := New(&out)

	if err := tw.WriteByte('A'); err != nil {
		t.Fatal(err)
	}
	// dist=1, len=5: self-referential repeat, must emit AAAAA.
	if err := tw.WritePrevious(5, 1); err != nil {
		t.Fatal(err)
	}
	if out.String() != "AAAAAA" {
		t.Errorf("got %q, want %q", out.String(), "AAAAAA")
	}
}

func TestWritePreviousInvalidDistance(t *testing.T) {
	var out bytes.Buffer
	tw := New(&out)

	if err := tw.WriteBytes([]byte("ab")); err != nil {
		t.Fatal(err)
	}
	if err := tw.WritePrevious(1, 3); !errors.Is(err, ErrInvalidDistance) {
		t.Errorf("got %v, want ErrInvalidDistance", err)
	}
}

func TestWritePreviousShortOverlapPattern(t *testing.T) {
	var out bytes.Buffer
	tw := New(&out)

	if err := tw.WriteBytes([]byte("XY")); err != nil {
		t.Fatal(err)
	}
	// dist=2, len=6: "XYXYXY" repeats the 2-byte pattern three times.
	if err := tw.WritePrevious(6, 2); err != nil {
		t.Fatal(err)
	}
	if out.String() != "XYXYXYXY" {
		t.Errorf("got %q, want %q", out.String(), "XYXYXYXY")
	}
}
