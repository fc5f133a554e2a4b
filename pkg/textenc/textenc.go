// Package textenc resolves text encodings by name and converts between them
// strictly: bytes that do not decode and runes that cannot be represented
// are reported as errors instead of being replaced.
package textenc

import (
	"strings"
	"unicode/utf8"

	apperrors "github.com/Adithya-Monish-Kumar-K/invindex/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

const DefaultName = "utf-8"

// Lookup resolves a WHATWG encoding label such as "utf-8", "cp1251" or
// "koi8-r".
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultName
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, apperrors.Encoding("unknown encoding %q: %v", name, err)
	}
	return enc, nil
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) encoding.Encoding {
	enc, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return enc
}

// Name returns the canonical name of enc, or "unknown".
func Name(enc encoding.Encoding) string {
	name, err := htmlindex.Name(enc)
	if err != nil {
		return "unknown"
	}
	return name
}

func isUTF8(enc encoding.Encoding) bool {
	return enc == nil || enc == unicode.UTF8
}

// EncodeString converts s to enc.
func EncodeString(enc encoding.Encoding, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, apperrors.Encoding("%q is not valid UTF-8", s)
	}
	if isUTF8(enc) {
		return []byte(s), nil
	}
	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, apperrors.Encoding("cannot encode %q as %s: %v", s, Name(enc), err)
	}
	return b, nil
}

// DecodeBytes converts b from enc into a Go string.
func DecodeBytes(enc encoding.Encoding, b []byte) (string, error) {
	if isUTF8(enc) {
		if !utf8.Valid(b) {
			return "", apperrors.Encoding("invalid UTF-8 byte sequence % x", b)
		}
		return string(b), nil
	}
	s, err := enc.NewDecoder().String(string(b))
	if err != nil {
		return "", apperrors.Encoding("cannot decode % x as %s: %v", b, Name(enc), err)
	}
	// Single-byte decoders map undefined bytes to U+FFFD.
	if strings.ContainsRune(s, utf8.RuneError) {
		return "", apperrors.Encoding("byte sequence % x is not defined in %s", b, Name(enc))
	}
	return s, nil
}

// Transcoder moves query text from the encoding it arrived in to the
// encoding terms are stored in.
type Transcoder struct {
	From encoding.Encoding
	To   encoding.Encoding
}

// NewTranscoder resolves both encoding names.
func NewTranscoder(from, to string) (*Transcoder, error) {
	fromEnc, err := Lookup(from)
	if err != nil {
		return nil, err
	}
	toEnc, err := Lookup(to)
	if err != nil {
		return nil, err
	}
	return &Transcoder{From: fromEnc, To: toEnc}, nil
}

// Transcode decodes b from the source encoding, checks that the text is
// representable in the target encoding, and returns it as a Go string.
func (t *Transcoder) Transcode(b []byte) (string, error) {
	s, err := DecodeBytes(t.From, b)
	if err != nil {
		return "", err
	}
	if _, err := EncodeString(t.To, s); err != nil {
		return "", err
	}
	return s, nil
}
