package executor

import (
	"context"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/invindex/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/invindex/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/invindex/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/invindex/pkg/metrics"
)

type SearchResult struct {
	Query     string   `json:"query"`
	TotalHits int      `json:"total_hits"`
	DocIDs    []string `json:"doc_ids"`
	Cached    bool     `json:"cached"`
}

type Executor struct {
	index   *index.Index
	cache   *cache.QueryCache
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option customises an Executor.
type Option func(*Executor)

// WithCache consults c before evaluating a query.
func WithCache(c *cache.QueryCache) Option {
	return func(e *Executor) { e.cache = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

func New(idx *index.Index, opts ...Option) *Executor {
	e := &Executor{
		index:  idx,
		logger: slog.Default().With("component", "query-executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute returns the documents containing every term of plan.
func (e *Executor) Execute(ctx context.Context, plan *parser.QueryPlan) (*SearchResult, error) {
	if len(plan.Terms) == 0 {
		e.record("zero_result", 0)
		return &SearchResult{
			Query:  plan.RawQuery,
			DocIDs: []string{},
		}, nil
	}

	var (
		docIDs []string
		cached bool
		err    error
	)
	compute := func() ([]string, error) {
		return Intersect(e.index, plan.Terms), nil
	}
	if e.cache != nil {
		docIDs, cached, err = e.cache.GetOrCompute(ctx, e.index.Fingerprint(), plan.Terms, compute)
		if err != nil {
			e.record("error", 0)
			return nil, err
		}
	} else {
		docIDs, _ = compute()
	}

	resultType := "hit"
	if len(docIDs) == 0 {
		resultType = "zero_result"
	}
	e.record(resultType, len(docIDs))
	e.logger.Debug("query executed",
		"query", plan.RawQuery,
		"terms", plan.Terms,
		"results", len(docIDs),
		"cached", cached,
	)
	return &SearchResult{
		Query:     plan.RawQuery,
		TotalHits: len(docIDs),
		DocIDs:    docIDs,
		Cached:    cached,
	}, nil
}

func (e *Executor) record(resultType string, results int) {
	if e.metrics == nil {
		return
	}
	e.metrics.QueriesTotal.WithLabelValues(resultType).Inc()
	e.metrics.QueryResultsCount.Observe(float64(results))
}

// Intersect returns the IDs present in the posting set of every term, in
// the order of the first term's posting set. The result is empty when
// terms is empty or any term is missing from idx.
func Intersect(idx *index.Index, terms []string) []string {
	if len(terms) == 0 {
		return []string{}
	}
	first := idx.Lookup(terms[0])
	if first.Len() == 0 {
		return []string{}
	}
	candidates := first.IDs()
	for _, term := range terms[1:] {
		postings := idx.Lookup(term)
		if postings.Len() == 0 {
			return []string{}
		}
		kept := candidates[:0]
		for _, docID := range candidates {
			if postings.Contains(docID) {
				kept = append(kept, docID)
			}
		}
		candidates = kept
		if len(candidates) == 0 {
			return []string{}
		}
	}
	return candidates
}
