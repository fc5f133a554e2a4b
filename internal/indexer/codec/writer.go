package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/RoaringBitmap/roaring"

	"github.com/Adithya-Monish-Kumar-K/invindex/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/invindex/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/invindex/pkg/textenc"
)

// Marshal serialises entries in the order given. Nothing is returned
// unless every entry fits the format.
func Marshal(entries []index.TermEntry, opts Options) ([]byte, error) {
	if len(entries) > math.MaxInt32 {
		return nil, apperrors.Overflow("%d terms exceed the int32 term count", len(entries))
	}
	var buf bytes.Buffer
	var scratch [4]byte

	binary.BigEndian.PutUint32(scratch[:4], uint32(int32(len(entries))))
	buf.Write(scratch[:4])

	for _, entry := range entries {
		key, err := encodeTerm(entry.Term, opts)
		if err != nil {
			return nil, err
		}
		postings, err := postingBitmap(entry)
		if err != nil {
			return nil, err
		}

		buf.WriteByte(uint8(len(key)))
		buf.Write(key)
		binary.BigEndian.PutUint16(scratch[:2], uint16(postings.GetCardinality()))
		buf.Write(scratch[:2])
		it := postings.Iterator()
		for it.HasNext() {
			binary.BigEndian.PutUint16(scratch[:2], uint16(it.Next()))
			buf.Write(scratch[:2])
		}
	}
	return buf.Bytes(), nil
}

// Encode writes the whole index to w in term order. The output is fully
// built before the first byte is written.
func Encode(w io.Writer, idx *index.Index, opts Options) (int64, error) {
	data, err := Marshal(idx.Snapshot(), opts)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("writing index: %w", err)
	}
	return int64(n), nil
}

func encodeTerm(term string, opts Options) ([]byte, error) {
	key, err := textenc.EncodeString(opts.Encoding, term)
	if err != nil {
		return nil, fmt.Errorf("encoding term %q: %w", term, err)
	}
	if len(key) > MaxTermLength {
		return nil, apperrors.Encoding("term %q is %d bytes encoded, limit is %d", term, len(key), MaxTermLength)
	}
	if len(key) == 0 {
		return nil, apperrors.Encoding("empty term")
	}
	return key, nil
}

// postingBitmap converts document IDs to their numeric form. IDs that
// denote the same number ("7" and "07") collapse into one posting.
func postingBitmap(entry index.TermEntry) (*roaring.Bitmap, error) {
	if len(entry.Postings) > MaxPostings {
		return nil, apperrors.Overflow("term %q has %d postings, limit is %d", entry.Term, len(entry.Postings), MaxPostings)
	}
	bm := roaring.New()
	for _, id := range entry.Postings {
		n, err := ParseDocID(id)
		if err != nil {
			return nil, fmt.Errorf("term %q: %w", entry.Term, err)
		}
		bm.Add(uint32(n))
	}
	return bm, nil
}

// ParseDocID returns the numeric value of a document ID.
func ParseDocID(id string) (uint16, error) {
	n, err := strconv.ParseUint(id, 10, 16)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, apperrors.Overflow("document ID %q exceeds %d", id, MaxDocID)
		}
		return 0, apperrors.Overflow("document ID %q is not a non-negative integer", id)
	}
	return uint16(n), nil
}

// Writer dumps indexes to files atomically.
type Writer struct {
	opts Options
}

// NewWriter creates a Writer that encodes terms with opts.
func NewWriter(opts Options) *Writer {
	return &Writer{opts: opts}
}

// Write creates the index file at path. The data goes to a temporary file
// in the same directory which is renamed over path only after a successful
// sync, so a failed dump never leaves a partial index behind.
func (w *Writer) Write(path string, idx *index.Index) (int64, error) {
	data, err := Marshal(idx.Snapshot(), w.opts)
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp index file: %w", err)
	}
	tmpPath := f.Name()
	committed := false
	defer func() {
		if !committed {
			f.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return 0, fmt.Errorf("writing index file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return 0, fmt.Errorf("syncing index file: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("closing index file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("renaming index file: %w", err)
	}
	committed = true
	return int64(len(data)), nil
}
