// Package corpus reads line-oriented document collections where every line
// holds a document identifier followed by the document body.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	apperrors "github.com/Adithya-Monish-Kumar-K/invindex/pkg/errors"
)

const maxLineSize = 16 * 1024 * 1024

type Document struct {
	ID   string
	Body string
}

// Load reads every document in the file at path. Errors from opening the
// file are returned as is, so a missing file satisfies fs.ErrNotExist.
func Load(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	docs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("loading corpus %s: %w", path, err)
	}
	return docs, nil
}

// Parse splits each non-empty line on its first whitespace run into an
// identifier and a body. A repeated identifier replaces the earlier body
// but keeps the earlier position.
func Parse(r io.Reader) ([]Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	docs := make([]Document, 0)
	seen := make(map[string]int)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		id, body, ok := splitLine(line)
		if !ok {
			return nil, apperrors.Format("line %d: expected \"<id> <body>\", got %q", lineNo, line)
		}
		if idx, exists := seen[id]; exists {
			docs[idx].Body = body
			continue
		}
		seen[id] = len(docs)
		docs = append(docs, Document{ID: id, Body: body})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading line %d: %w", lineNo+1, err)
	}
	return docs, nil
}

func splitLine(line string) (id string, body string, ok bool) {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	end := strings.IndexFunc(trimmed, unicode.IsSpace)
	if end <= 0 {
		return "", "", false
	}
	id = trimmed[:end]
	body = strings.TrimLeftFunc(trimmed[end:], unicode.IsSpace)
	if body == "" {
		return "", "", false
	}
	return id, body, true
}
