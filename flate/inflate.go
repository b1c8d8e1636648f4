// Package flate implements the DEFLATE decompressed data format described
// in RFC 1951: a streaming block decoder driven bit-by-bit over a
// bitio.BitReader, emitting literal bytes and back-references through a
// window.TrackingWriter.
package flate

import (
	"errors"
	"fmt"
	"io"

	"github.com/corestack/gunzip/bitio"
	"github.com/corestack/gunzip/capnslog"
	"github.com/corestack/gunzip/huffman"
	"github.com/corestack/gunzip/window"
)

var plog = capnslog.NewPackageLogger("github.com/corestack/gunzip", "flate")

// ErrUnsupportedBlockType is returned when a block header's BTYPE field
// is 3 (reserved).
var ErrUnsupportedBlockType = errors.New("unsupported block type")

// ErrNlenMismatch is returned when a stored block's LEN and NLEN fields
// are not one's complements of each other.
var ErrNlenMismatch = errors.New("nlen check failed")

// IOError wraps a non-EOF I/O error encountered while reading the
// compressed stream.
type IOError struct{ Err error }

func (e *IOError) Error() string { return fmt.Sprintf("flate: io error: %v", e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

func ioErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return io.ErrUnexpectedEOF
	}
	return &IOError{err}
}

var (
	fixedLitLen *huffman.Coding[int]
	fixedDist   *huffman.Coding[int]
)

func init() {
	var err error
	fixedLitLen, err = huffman.New(identitySymbols(288), fixedLiteralLengths())
	if err != nil {
		panic("flate: bad fixed literal/length table: " + err.Error())
	}
	fixedDist, err = huffman.New(identitySymbols(30), fixedDistanceLengths())
	if err != nil {
		panic("flate: bad fixed distance table: " + err.Error())
	}
}

// Reader drives the per-block DEFLATE state machine described in
// spec.md §4.4, consuming bits from a bitio.BitReader and writing decoded
// bytes through a window.TrackingWriter.
type Reader struct {
	br *bitio.BitReader
	w  *window.TrackingWriter
}

// New wraps br/w for decoding a single DEFLATE stream.
func New(br *bitio.BitReader, w *window.TrackingWriter) *Reader {
	return &Reader{br: br, w: w}
}

// Decode drives blocks to completion: it decodes blocks until one with
// BFINAL=1 has been fully processed, then returns.
func (r *Reader) Decode() error {
	for {
		final, err := r.block()
		if err != nil {
			return err
		}
		if final {
			return nil
		}
	}
}

func (r *Reader) block() (final bool, err error) {
	bfinal, err := r.br.ReadBits(1)
	if err != nil {
		return false, err
	}
	btype, err := r.br.ReadBits(2)
	if err != nil {
		return false, err
	}

	plog.Debugf("block header: bfinal=%d btype=%d", bfinal, btype)

	switch btype {
	case 0:
		err = r.storedBlock()
	case 1:
		err = r.huffmanBlock(fixedLitLen, fixedDist)
	case 2:
		err = r.dynamicBlock()
	default:
		err = ErrUnsupportedBlockType
	}
	if err != nil {
		return false, err
	}
	return bfinal == 1, nil
}

func (r *Reader) storedBlock() error {
	br := r.br.BorrowReaderFromBoundary()
	defer r.br.ReturnReaderToBoundary()

	var hdr [4]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return ioErr(err)
	}
	length := uint16(hdr[0]) | uint16(hdr[1])<<8
	nlen := uint16(hdr[2]) | uint16(hdr[3])<<8
	if length != ^nlen {
		return ErrNlenMismatch
	}

	plog.Debugf("stored block: len=%d", length)

	buf := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(br, buf); err != nil {
			return ioErr(err)
		}
	}
	return r.w.WriteBytes(buf)
}

func (r *Reader) dynamicBlock() error {
	hlitBits, err := r.br.ReadBits(5)
	if err != nil {
		return err
	}
	hdistBits, err := r.br.ReadBits(5)
	if err != nil {
		return err
	}
	hclenBits, err := r.br.ReadBits(4)
	if err != nil {
		return err
	}
	hlit := int(hlitBits) + 257
	hdist := int(hdistBits) + 1
	hclen := int(hclenBits) + 4

	plog.Debugf("dynamic block: hlit=%d hdist=%d hclen=%d", hlit, hdist, hclen)

	var clLengths [19]int
	for i := 0; i < hclen; i++ {
		l, err := r.br.ReadBits(3)
		if err != nil {
			return err
		}
		clLengths[codeOrder[i]] = int(l)
	}

	clCoding, err := huffman.New(identitySymbols(19), clLengths[:])
	if err != nil {
		return err
	}

	lengths := make([]int, hlit+hdist)
	for i := 0; i < len(lengths); {
		sym, err := clCoding.Decode(r.br)
		if err != nil {
			return err
		}
		switch {
		case sym < 16:
			lengths[i] = sym
			i++
		case sym == 16:
			if i == 0 {
				return huffman.TreeError("repeat-previous code with no previous length")
			}
			extra, err := r.br.ReadBits(2)
			if err != nil {
				return err
			}
			rep := 3 + int(extra)
			if i+rep > len(lengths) {
				return huffman.TreeError("repeat count overruns code-length table")
			}
			prev := lengths[i-1]
			for j := 0; j < rep; j++ {
				lengths[i] = prev
				i++
			}
		case sym == 17:
			extra, err := r.br.ReadBits(3)
			if err != nil {
				return err
			}
			rep := 3 + int(extra)
			if i+rep > len(lengths) {
				return huffman.TreeError("repeat-zero count overruns code-length table")
			}
			for j := 0; j < rep; j++ {
				lengths[i] = 0
				i++
			}
		case sym == 18:
			extra, err := r.br.ReadBits(7)
			if err != nil {
				return err
			}
			rep := 11 + int(extra)
			if i+rep > len(lengths) {
				return huffman.TreeError("repeat-zero count overruns code-length table")
			}
			for j := 0; j < rep; j++ {
				lengths[i] = 0
				i++
			}
		default:
			return huffman.TreeError("unexpected tree-code symbol")
		}
	}

	litLenCoding, err := huffman.New(identitySymbols(hlit), lengths[:hlit])
	if err != nil {
		return err
	}
	distCoding, err := huffman.New(identitySymbols(hdist), lengths[hlit:])
	if err != nil {
		return err
	}

	return r.huffmanBlock(litLenCoding, distCoding)
}

// huffmanBlock decodes the LZ77 symbol stream of a fixed or dynamic
// Huffman block: literals 0..255, end-of-block 256, or a length/distance
// pair 257..285 resolved against litLen/dist.
func (r *Reader) huffmanBlock(litLen, dist *huffman.Coding[int]) error {
	for {
		sym, err := litLen.Decode(r.br)
		if err != nil {
			return err
		}

		switch {
		case sym < 256:
			if err := r.w.WriteByte(byte(sym)); err != nil {
				return err
			}
		case sym == 256:
			return nil
		default:
			length, distance, err := r.matchLength(sym, dist)
			if err != nil {
				return err
			}
			plog.Tracef("match: len=%d dist=%d", length, distance)
			if err := r.w.WritePrevious(length, distance); err != nil {
				return err
			}
		}
	}
}

func (r *Reader) matchLength(sym int, dist *huffman.Coding[int]) (length, distance int, err error) {
	idx := sym - 257
	if idx < 0 || idx >= len(lengthTable) {
		return 0, 0, huffman.CodeError("literal/length symbol out of range")
	}
	ent := lengthTable[idx]
	length = ent.base
	if ent.extra > 0 {
		extra, err := r.br.ReadBits(ent.extra)
		if err != nil {
			return 0, 0, err
		}
		length += int(extra)
	}

	dsym, err := dist.Decode(r.br)
	if err != nil {
		return 0, 0, err
	}
	if dsym < 0 || dsym >= len(distanceTable) {
		return 0, 0, huffman.CodeError("distance symbol out of range")
	}
	dent := distanceTable[dsym]
	distance = dent.base
	if dent.extra > 0 {
		extra, err := r.br.ReadBits(dent.extra)
		if err != nil {
			return 0, 0, err
		}
		distance += int(extra)
	}
	return length, distance, nil
}
