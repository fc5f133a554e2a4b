package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"spaces only", "   \t ", []string{}},
		{"single", "word", []string{"word"}},
		{"runs of whitespace", "a  b\t\tc\nd", []string{"a", "b", "c", "d"}},
		{"case and punctuation kept", "Hello, World!", []string{"Hello,", "World!"}},
		{"unicode whitespace", "один\u00a0два\u2003три", []string{"один", "два", "три"}},
		{"duplicates kept", "x x", []string{"x", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.text)
			got := make([]string, 0, len(tokens))
			for i, tok := range tokens {
				assert.Equal(t, i, tok.Position)
				got = append(got, tok.Term)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"to", "be", "or", "not"}, Terms("to be or not to be"))
}

func BenchmarkTokenize(b *testing.B) {
	text := strings.Repeat("information retrieval systems form the backbone of search ", 50)
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		_ = Tokenize(text)
	}
}
