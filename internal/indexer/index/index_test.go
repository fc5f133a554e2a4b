package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/invindex/internal/corpus"
)

func TestBuild(t *testing.T) {
	idx := Build([]corpus.Document{
		{ID: "1", Body: "a b"},
		{ID: "2", Body: "b c"},
	})

	assert.Equal(t, []string{"a", "b", "c"}, idx.Terms())
	assert.Equal(t, []string{"1"}, idx.Lookup("a").IDs())
	assert.Equal(t, []string{"1", "2"}, idx.Lookup("b").IDs())
	assert.Equal(t, []string{"2"}, idx.Lookup("c").IDs())
	assert.Nil(t, idx.Lookup("d"))
	assert.Equal(t, 2, idx.DocCount())
}

func TestBuildKeepsCaseAndPunctuation(t *testing.T) {
	idx := Build([]corpus.Document{
		{ID: "1", Body: "Word word, word"},
	})
	assert.Equal(t, []string{"Word", "word", "word,"}, idx.Terms())
}

func TestBuildDeduplicatesPostings(t *testing.T) {
	idx := Build([]corpus.Document{
		{ID: "9", Body: "echo echo echo"},
	})
	assert.Equal(t, 1, idx.Lookup("echo").Len())
}

func TestBuildIsIdempotent(t *testing.T) {
	docs := []corpus.Document{
		{ID: "123", Body: "some words A_word and nothing"},
		{ID: "2", Body: "some word B_word in this dataset"},
		{ID: "37", Body: "all words such A_word and B_word are here"},
	}
	first := Build(docs)
	second := Build(docs)
	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Snapshot(), second.Snapshot())
}

func TestEqualIgnoresPostingOrder(t *testing.T) {
	a := New()
	a.AddPosting("t", "1")
	a.AddPosting("t", "2")
	b := New()
	b.AddPosting("t", "2")
	b.AddPosting("t", "1")
	assert.True(t, a.Equal(b))

	b.AddPosting("u", "1")
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
}

func TestSnapshotSortedByTerm(t *testing.T) {
	idx := Build([]corpus.Document{
		{ID: "2", Body: "zulu alpha"},
		{ID: "1", Body: "mike alpha"},
	})
	snapshot := idx.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "alpha", snapshot[0].Term)
	assert.Equal(t, []string{"2", "1"}, snapshot[0].Postings)
	assert.Equal(t, "mike", snapshot[1].Term)
	assert.Equal(t, "zulu", snapshot[2].Term)
}

func TestPostingSet(t *testing.T) {
	p := NewPostingSet("3", "1", "3")
	assert.Equal(t, 2, p.Len())
	assert.True(t, p.Contains("1"))
	assert.False(t, p.Contains("2"))
	assert.False(t, p.Add("1"))
	assert.True(t, p.Add("2"))
	assert.Equal(t, []string{"3", "1", "2"}, p.IDs())

	var missing *PostingSet
	assert.Equal(t, 0, missing.Len())
	assert.False(t, missing.Contains("1"))
	assert.Nil(t, missing.IDs())
}

func BenchmarkIndexAdd(b *testing.B) {
	idx := New()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.AddDocument(fmt.Sprintf("%d", i%65536), "this is a benchmark document with several terms for testing the indexing performance")
	}
}

func BenchmarkIndexSnapshot(b *testing.B) {
	idx := New()
	for i := 0; i < 5000; i++ {
		idx.AddDocument(fmt.Sprintf("%d", i), fmt.Sprintf("snapshot benchmark term%d term%d", i%100, i%7))
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = idx.Snapshot()
	}
}
