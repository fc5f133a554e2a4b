// Package tokenizer splits document bodies into terms. Terms are the
// maximal runs of non-whitespace characters; case and punctuation are kept.
package tokenizer

import (
	"strings"
)

// Token is a single term and its position in the original text.
type Token struct {
	Term     string
	Position int
}

// Tokenize breaks text on runs of Unicode whitespace.
func Tokenize(text string) []Token {
	words := strings.Fields(text)
	tokens := make([]Token, 0, len(words))
	for pos, word := range words {
		tokens = append(tokens, Token{
			Term:     word,
			Position: pos,
		})
	}
	return tokens
}

// Terms returns the distinct terms of text in first-seen order.
func Terms(text string) []string {
	tokens := Tokenize(text)
	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, dup := seen[token.Term]; dup {
			continue
		}
		seen[token.Term] = struct{}{}
		terms = append(terms, token.Term)
	}
	return terms
}
