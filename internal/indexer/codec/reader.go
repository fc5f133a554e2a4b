package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"
	"strconv"

	"github.com/Adithya-Monish-Kumar-K/invindex/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/invindex/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/invindex/pkg/textenc"
)

// Load reads the index file at path. Errors from opening the file are
// returned as is, so a missing file satisfies fs.ErrNotExist.
func Load(path string, opts Options) (*index.Index, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	cr := &countingReader{r: f}
	idx, err := Decode(cr, opts)
	if err != nil {
		return nil, cr.n, fmt.Errorf("loading index %s: %w", path, err)
	}
	return idx, cr.n, nil
}

// Decode reads one index from r. The returned index carries a CRC-32 of
// the bytes consumed as its fingerprint.
func Decode(r io.Reader, opts Options) (*index.Index, error) {
	d := &decoder{
		r:    bufio.NewReader(r),
		sum:  crc32.NewIEEE(),
		opts: opts,
	}
	return d.decode()
}

type decoder struct {
	r    *bufio.Reader
	sum  hash.Hash32
	opts Options
	buf  [4]byte
}

func (d *decoder) decode() (*index.Index, error) {
	raw, err := d.read(4)
	if err != nil {
		return nil, truncated(err, "term count")
	}
	termCount := int32(binary.BigEndian.Uint32(raw))
	if termCount < 0 {
		return nil, apperrors.Format("negative term count %d", termCount)
	}

	idx := index.New()
	for i := int32(0); i < termCount; i++ {
		if err := d.decodeTerm(idx, i); err != nil {
			return nil, err
		}
	}
	idx.SetFingerprint(d.sum.Sum32())
	return idx, nil
}

func (d *decoder) decodeTerm(idx *index.Index, i int32) error {
	raw, err := d.read(1)
	if err != nil {
		return truncated(err, fmt.Sprintf("length of term %d", i))
	}
	keyLen := int(raw[0])

	key := make([]byte, keyLen)
	if _, err := io.ReadFull(d.r, key); err != nil {
		return truncated(err, fmt.Sprintf("term %d (%d bytes)", i, keyLen))
	}
	d.sum.Write(key)
	term, err := textenc.DecodeBytes(d.opts.Encoding, key)
	if err != nil {
		return fmt.Errorf("decoding term %d: %w", i, err)
	}

	raw, err = d.read(2)
	if err != nil {
		return truncated(err, fmt.Sprintf("posting count of term %q", term))
	}
	count := int(binary.BigEndian.Uint16(raw))
	for j := 0; j < count; j++ {
		raw, err := d.read(2)
		if err != nil {
			return truncated(err, fmt.Sprintf("posting %d of term %q", j, term))
		}
		docID := strconv.FormatUint(uint64(binary.BigEndian.Uint16(raw)), 10)
		idx.AddPosting(term, docID)
	}
	return nil
}

// read fills the scratch buffer with n bytes; n is at most 4.
func (d *decoder) read(n int) ([]byte, error) {
	b := d.buf[:n]
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, err
	}
	d.sum.Write(b)
	return b, nil
}

func truncated(err error, field string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperrors.Truncated("index ended while reading %s", field)
	}
	return fmt.Errorf("reading %s: %w", field, err)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
