// Package codec reads and writes inverted index files.
//
// An index file is a sequence of big-endian fields:
//
//	int32  term_count
//	term_count times:
//	    uint8  len
//	    len    bytes of the term in the configured encoding
//	    uint16 posting_count
//	    posting_count times uint16 document ID
//
// Terms are written in ascending order and postings in ascending numeric
// order, so dumping the same index twice produces identical files. The
// fixed widths cap terms at 255 encoded bytes, posting sets at 65535
// entries and document IDs at 65535. Exceeding a cap is an error, never a
// silent truncation. Document IDs are stored as numbers, so they load back
// as canonical decimal strings ("0042" becomes "42").
package codec

import (
	"golang.org/x/text/encoding"

	"github.com/Adithya-Monish-Kumar-K/invindex/pkg/textenc"
)

const (
	MaxTermLength = 255
	MaxPostings   = 65535
	MaxDocID      = 65535
)

// Options configures the term encoding of an index file.
type Options struct {
	Encoding encoding.Encoding
}

// DefaultOptions stores terms as UTF-8.
func DefaultOptions() Options {
	return Options{Encoding: textenc.MustLookup(textenc.DefaultName)}
}

// NewOptions resolves an encoding label such as "utf-8" or "cp1251".
func NewOptions(encodingName string) (Options, error) {
	enc, err := textenc.Lookup(encodingName)
	if err != nil {
		return Options{}, err
	}
	return Options{Encoding: enc}, nil
}
