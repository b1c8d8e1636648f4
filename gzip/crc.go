package gzip

import "hash/crc32"

// crc32Accum accumulates a running IEEE CRC-32 over header bytes as they're
// read, so FHCRC can be checked against the low 16 bits of the header's
// checksum (RFC 1952 §2.3.1) without buffering the header twice.
type crc32Accum struct {
	sum uint32
}

func newCRC32Accum() *crc32Accum { return &crc32Accum{} }

func (c *crc32Accum) write(p []byte) {
	c.sum = crc32.Update(c.sum, crc32.IEEETable, p)
}
