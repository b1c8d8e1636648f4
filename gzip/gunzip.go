// Package gzip parses and validates the gzip container format (RFC 1952):
// member header, the embedded DEFLATE stream (delegated to package flate),
// and the trailer's CRC-32/length reconciliation. Only a single gzip
// member is supported; see spec.md's Non-goals.
package gzip

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/corestack/gunzip/bitio"
	"github.com/corestack/gunzip/capnslog"
	"github.com/corestack/gunzip/flate"
	"github.com/corestack/gunzip/window"
)

var plog = capnslog.NewPackageLogger("github.com/corestack/gunzip", "gzip")

const (
	id1             = 0x1f
	id2             = 0x8b
	compressionDefl = 8

	flagText    = 1 << 0
	flagHdrCRC  = 1 << 1
	flagExtra   = 1 << 2
	flagName    = 1 << 3
	flagComment = 1 << 4
)

// The five header/trailer error kinds of spec.md §7; the other two
// (unsupported block type, nlen check) are defined in package flate. Each
// Error() string contains its required substring.
var (
	ErrWrongID                    = errors.New("wrong id values")
	ErrUnsupportedCompressionMode = errors.New("unsupported compression method")
	ErrHeaderCRC16Mismatch        = errors.New("header crc16 check failed")
	ErrLengthMismatch             = errors.New("length check failed")
	ErrCRC32Mismatch              = errors.New("crc32 check failed")
)

// IOError wraps a non-EOF I/O error encountered while reading the gzip
// stream.
type IOError struct{ Err error }

func (e *IOError) Error() string { return fmt.Sprintf("gzip: io error: %v", e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

func ioErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return io.ErrUnexpectedEOF
	}
	return &IOError{err}
}

// Header holds the gzip member's metadata fields, parsed and exposed even
// though decompression itself doesn't need them (every gzip reader in the
// wider ecosystem does the same).
type Header struct {
	ModTime time.Time
	OS      byte
	Name    string
	Comment string
	Extra   []byte
}

// Reader parses a single gzip member: header, then the embedded DEFLATE
// stream via flate.Reader, then the trailer.
type Reader struct {
	Header

	br *bitio.BitReader
	tw *window.TrackingWriter
}

func crc16Of(crc uint32) uint16 { return uint16(crc & 0xFFFF) }

// NewReader parses the gzip header from src and returns a Reader ready to
// decompress the member's body into dst via Decompress.
func NewReader(src io.Reader, dst io.Writer) (*Reader, error) {
	z := &Reader{}
	hdrCRC := newCRCByteReader(src)

	var hdr [10]byte
	if _, err := io.ReadFull(hdrCRC, hdr[:]); err != nil {
		return nil, ioErr(err)
	}
	if hdr[0] != id1 || hdr[1] != id2 {
		return nil, ErrWrongID
	}
	if hdr[2] != compressionDefl {
		return nil, ErrUnsupportedCompressionMode
	}
	flg := hdr[3]
	mtime := uint32(hdr[4]) | uint32(hdr[5])<<8 | uint32(hdr[6])<<16 | uint32(hdr[7])<<24
	z.ModTime = time.Unix(int64(mtime), 0)
	// hdr[8] is XFL, unused.
	z.OS = hdr[9]

	if flg&flagExtra != 0 {
		var lenBuf [2]byte
		if _, err := io.ReadFull(hdrCRC, lenBuf[:]); err != nil {
			return nil, ioErr(err)
		}
		n := int(lenBuf[0]) | int(lenBuf[1])<<8
		extra := make([]byte, n)
		if _, err := io.ReadFull(hdrCRC, extra); err != nil {
			return nil, ioErr(err)
		}
		z.Extra = extra
	}

	if flg&flagName != 0 {
		s, err := readCString(hdrCRC)
		if err != nil {
			return nil, err
		}
		z.Name = s
	}

	if flg&flagComment != 0 {
		s, err := readCString(hdrCRC)
		if err != nil {
			return nil, err
		}
		z.Comment = s
	}

	if flg&flagHdrCRC != 0 {
		// want must be captured before reading the CRC-16 field itself:
		// it covers only the preceding header bytes (RFC 1952 §2.3.1), and
		// hdrCRC.Read folds every byte it returns into the running CRC.
		want := crc16Of(hdrCRC.Sum32())
		var crcBuf [2]byte
		if _, err := io.ReadFull(hdrCRC, crcBuf[:]); err != nil {
			return nil, ioErr(err)
		}
		got := uint16(crcBuf[0]) | uint16(crcBuf[1])<<8
		if got != want {
			return nil, ErrHeaderCRC16Mismatch
		}
	}

	plog.Debugf("header ok: name=%q mtime=%v os=%d flg=%#x", z.Name, z.ModTime, z.OS, flg)

	z.br = bitio.New(hdrCRC.Reader())
	z.tw = window.New(dst)
	return z, nil
}

// Decompress drives the embedded DEFLATE stream to completion and checks
// the trailer's CRC-32 and ISIZE against what was actually written.
func (z *Reader) Decompress() error {
	if err := flate.New(z.br, z.tw).Decode(); err != nil {
		return err
	}

	trailerSrc := z.br.BorrowReaderFromBoundary()
	var trailer [8]byte
	if _, err := io.ReadFull(trailerSrc, trailer[:]); err != nil {
		return ioErr(err)
	}
	wantCRC := uint32(trailer[0]) | uint32(trailer[1])<<8 | uint32(trailer[2])<<16 | uint32(trailer[3])<<24
	wantISize := uint32(trailer[4]) | uint32(trailer[5])<<8 | uint32(trailer[6])<<16 | uint32(trailer[7])<<24

	gotISize := uint32(z.tw.ByteCount())
	if gotISize != wantISize {
		return ErrLengthMismatch
	}
	if z.tw.CRC32() != wantCRC {
		return ErrCRC32Mismatch
	}

	plog.Infof("member ok: %d bytes, crc32=%#08x", z.tw.ByteCount(), wantCRC)
	return nil
}

func readCString(r io.ByteReader) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", ioErr(err)
		}
		if b == 0 {
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}

// crcByteReader wraps a byte source, feeding every byte it returns into a
// running CRC-32 so header fields can be checked against FHCRC. It also
// exposes a buffered io.Reader for bitio once header parsing is done.
type crcByteReader struct {
	r   *bufio.Reader
	crc *crc32Accum
}

func newCRCByteReader(r io.Reader) *crcByteReader {
	return &crcByteReader{r: bufio.NewReader(r), crc: newCRC32Accum()}
}

func (c *crcByteReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.crc.write(p[:n])
	}
	return n, err
}

func (c *crcByteReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		return 0, err
	}
	c.crc.write([]byte{b})
	return b, nil
}

func (c *crcByteReader) Sum32() uint32 { return c.crc.sum }

// Reader returns the plain bufio.Reader underneath, for use once header
// parsing (and its CRC accumulation) is complete.
func (c *crcByteReader) Reader() *bufio.Reader { return c.r }
