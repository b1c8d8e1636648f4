// Package huffman builds and decodes canonical Huffman codes, the
// mechanism DEFLATE uses for all three of its alphabets: the tree-code
// alphabet, the literal/length alphabet, and the distance alphabet.
package huffman

import (
	"fmt"

	"github.com/corestack/gunzip/bitio"
)

// MaxCodeLen is the longest code length DEFLATE permits (RFC 1951 §3.2.2).
const MaxCodeLen = 15

// TreeError reports a code-length table that cannot form a valid Huffman
// tree: a length over MaxCodeLen, or an over-subscribed length set (more
// codes of some length than the Kraft budget allows). An incomplete code
// (unused trailing codes at the longest length) is not an error.
type TreeError string

func (e TreeError) Error() string { return "invalid huffman tree: " + string(e) }

// CodeError reports that no assigned code matched after consuming
// MaxCodeLen bits during Decode.
type CodeError string

func (e CodeError) Error() string { return "invalid huffman code: " + string(e) }

// Coding is a canonical-Huffman decoder for a symbol alphabet of type T.
// It is constructed once per block (or per alphabet within a block) from
// a code-length table and then used to decode a stream of symbols.
type Coding[T any] struct {
	maxLen       int
	firstCode    [MaxCodeLen + 1]int
	symbolsByLen [MaxCodeLen + 1][]T
}

// New builds a canonical Huffman decoder from parallel symbols/lengths
// slices (symbols in ascending order, lengths[i] == 0 meaning "symbol i is
// absent from the code"). It implements RFC 1951 §3.2.2 exactly:
//
//  1. count codes of each length;
//  2. compute the first canonical code value per length;
//  3. assign codes to symbols in ascending symbol order.
func New[T any](symbols []T, lengths []int) (*Coding[T], error) {
	if len(symbols) != len(lengths) {
		panic("huffman: symbols and lengths must have equal length")
	}

	var count [MaxCodeLen + 1]int
	maxLen := 0
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		if l < 0 || l > MaxCodeLen {
			return nil, TreeError(fmt.Sprintf("code length %d exceeds max %d", l, MaxCodeLen))
		}
		count[l]++
		if l > maxLen {
			maxLen = l
		}
	}

	h := &Coding[T]{maxLen: maxLen}
	if maxLen == 0 {
		// No symbols at all: a valid (if useless) empty coding. Decode
		// will simply never match and return CodeError.
		return h, nil
	}

	code := 0
	for l := 1; l <= maxLen; l++ {
		code = (code + count[l-1]) << 1
		h.firstCode[l] = code
		if code+count[l] > (1 << uint(l)) {
			return nil, TreeError("code lengths are over-subscribed")
		}
	}

	for i, l := range lengths {
		if l == 0 {
			continue
		}
		h.symbolsByLen[l] = append(h.symbolsByLen[l], symbols[i])
	}

	return h, nil
}

// Decode reads bits one at a time from br, accumulating them MSB-first
// into the code value (each bit shifts the accumulator left and ORs in
// the new bit — the DEFLATE convention for Huffman code bits, distinct
// from the LSB-first convention used for numeric multi-bit fields), until
// the accumulated (value, length) matches an assigned code.
func (h *Coding[T]) Decode(br *bitio.BitReader) (T, error) {
	var zero T
	code := 0
	for length := 1; length <= MaxCodeLen; length++ {
		bit, err := br.ReadBit()
		if err != nil {
			return zero, err
		}
		code = code<<1 | int(bit)
		if length <= h.maxLen {
			if idx := code - h.firstCode[length]; idx >= 0 && idx < len(h.symbolsByLen[length]) {
				return h.symbolsByLen[length][idx], nil
			}
		}
	}
	return zero, CodeError("no code matched after 15 bits")
}
