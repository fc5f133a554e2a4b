package textenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	apperrors "github.com/Adithya-Monish-Kumar-K/invindex/pkg/errors"
)

func TestLookup(t *testing.T) {
	enc, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, unicode.UTF8, enc)

	for _, label := range []string{"cp1251", "windows-1251", "CP1251"} {
		enc, err := Lookup(label)
		require.NoError(t, err, label)
		assert.Equal(t, charmap.Windows1251, enc, label)
		assert.Equal(t, "windows-1251", Name(enc))
	}

	_, err = Lookup("no-such-encoding")
	assert.ErrorIs(t, err, apperrors.ErrEncoding)
}

func TestEncodeDecodeCP1251(t *testing.T) {
	enc := MustLookup("cp1251")
	b, err := EncodeString(enc, "привет")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xef, 0xf0, 0xe8, 0xe2, 0xe5, 0xf2}, b)

	s, err := DecodeBytes(enc, b)
	require.NoError(t, err)
	assert.Equal(t, "привет", s)
}

func TestEncodeErrors(t *testing.T) {
	_, err := EncodeString(MustLookup("cp1251"), "漢字")
	assert.ErrorIs(t, err, apperrors.ErrEncoding)

	_, err = EncodeString(MustLookup("utf-8"), "bad\xffbyte")
	assert.ErrorIs(t, err, apperrors.ErrEncoding)
}

func TestDecodeInvalidUTF8(t *testing.T) {
	_, err := DecodeBytes(MustLookup("utf-8"), []byte{'o', 'k', 0xc3})
	assert.ErrorIs(t, err, apperrors.ErrEncoding)
}

func TestTranscoder(t *testing.T) {
	tc, err := NewTranscoder("cp1251", "utf-8")
	require.NoError(t, err)
	s, err := tc.Transcode([]byte{0xec, 0xe8, 0xf0})
	require.NoError(t, err)
	assert.Equal(t, "мир", s)

	toLegacy, err := NewTranscoder("utf-8", "cp1251")
	require.NoError(t, err)
	_, err = toLegacy.Transcode([]byte("漢字"))
	assert.ErrorIs(t, err, apperrors.ErrEncoding)

	_, err = NewTranscoder("utf-8", "klingon")
	assert.ErrorIs(t, err, apperrors.ErrEncoding)
}
