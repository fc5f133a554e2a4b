// Package index holds the in-memory inverted index that maps each term to
// the set of documents containing it.
package index

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/invindex/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/invindex/internal/indexer/tokenizer"
)

// Index maps a term to a non-empty PostingSet. It is filled once, either by
// Build or by the codec, and only read afterwards.
type Index struct {
	terms       map[string]*PostingSet
	docs        map[string]struct{}
	fingerprint uint32
}

func New() *Index {
	return &Index{
		terms: make(map[string]*PostingSet),
		docs:  make(map[string]struct{}),
	}
}

// Build indexes docs in order. Building the same documents twice yields
// equal indexes.
func Build(docs []corpus.Document) *Index {
	idx := New()
	for _, doc := range docs {
		idx.AddDocument(doc.ID, doc.Body)
	}
	return idx
}

// AddDocument adds docID to the posting set of every term in body.
func (x *Index) AddDocument(docID string, body string) {
	x.docs[docID] = struct{}{}
	for _, term := range tokenizer.Terms(body) {
		x.AddPosting(term, docID)
	}
}

// AddPosting records that term occurs in docID.
func (x *Index) AddPosting(term string, docID string) {
	p, exists := x.terms[term]
	if !exists {
		p = NewPostingSet()
		x.terms[term] = p
	}
	p.Add(docID)
	x.docs[docID] = struct{}{}
}

// Lookup returns the posting set of term, or nil if the term is absent.
func (x *Index) Lookup(term string) *PostingSet {
	return x.terms[term]
}

// Terms returns every term in ascending order.
func (x *Index) Terms() []string {
	terms := make([]string, 0, len(x.terms))
	for term := range x.terms {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// Len is the number of distinct terms.
func (x *Index) Len() int {
	return len(x.terms)
}

// DocCount is the number of distinct document IDs referenced.
func (x *Index) DocCount() int {
	return len(x.docs)
}

// Snapshot returns the entries sorted by term with postings in set order.
func (x *Index) Snapshot() []TermEntry {
	entries := make([]TermEntry, 0, len(x.terms))
	for _, term := range x.Terms() {
		entries = append(entries, TermEntry{
			Term:     term,
			Postings: x.terms[term].IDs(),
		})
	}
	return entries
}

// Equal reports whether both indexes hold the same terms with set-equal
// postings.
func (x *Index) Equal(other *Index) bool {
	if other == nil || len(x.terms) != len(other.terms) {
		return false
	}
	for term, postings := range x.terms {
		if !postings.Equal(other.terms[term]) {
			return false
		}
	}
	return true
}

// Fingerprint identifies the file an index was loaded from. It is zero for
// indexes built in memory.
func (x *Index) Fingerprint() uint32 {
	return x.fingerprint
}

func (x *Index) SetFingerprint(sum uint32) {
	x.fingerprint = sum
}
