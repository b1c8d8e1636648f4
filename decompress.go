// Package gunzip decompresses a single gzip member (RFC 1952) end to end:
// header, embedded DEFLATE stream (RFC 1951), and trailer verification.
package gunzip

import (
	"io"

	"github.com/corestack/gunzip/capnslog"
	"github.com/corestack/gunzip/gzip"
)

var plog = capnslog.NewPackageLogger("github.com/corestack/gunzip", "gunzip")

// Decompress reads one gzip member from src, writes its decompressed
// contents to dst, and reports any header, block, or trailer error
// encountered along the way. It does not attempt to read a second member
// or trailing garbage after the first.
func Decompress(src io.Reader, dst io.Writer) error {
	r, err := gzip.NewReader(src, dst)
	if err != nil {
		plog.Errorf("header: %v", err)
		return err
	}
	if err := r.Decompress(); err != nil {
		plog.Errorf("decompress: %v", err)
		return err
	}
	return nil
}
