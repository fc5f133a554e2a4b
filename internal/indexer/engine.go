package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/invindex/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/invindex/internal/indexer/codec"
	"github.com/Adithya-Monish-Kumar-K/invindex/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/invindex/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/invindex/pkg/metrics"
)

// BuildStats summarises one build.
type BuildStats struct {
	Documents    int
	Terms        int
	BytesWritten int64
	Duration     time.Duration
}

// Engine builds index files from corpora and loads them back.
type Engine struct {
	opts    codec.Options
	writer  *codec.Writer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewEngine(cfg config.IndexConfig, m *metrics.Metrics) (*Engine, error) {
	opts, err := codec.NewOptions(cfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("configuring index encoding: %w", err)
	}
	if m == nil {
		m = metrics.New()
	}
	return &Engine{
		opts:    opts,
		writer:  codec.NewWriter(opts),
		metrics: m,
		logger:  slog.Default().With("component", "indexer", "encoding", cfg.Encoding),
	}, nil
}

// Build loads the corpus at corpusPath, indexes it, and dumps the index to
// indexPath. On error no index file is written.
func (e *Engine) Build(ctx context.Context, corpusPath string, indexPath string) (*BuildStats, error) {
	start := time.Now()
	docs, err := corpus.Load(corpusPath)
	if err != nil {
		return nil, err
	}
	e.metrics.DocsLoadedTotal.Add(float64(len(docs)))
	e.logger.Info("corpus loaded", "path", corpusPath, "documents", len(docs))

	idx := index.Build(docs)
	e.logger.Debug("index built in memory",
		"terms", idx.Len(),
		"docs", idx.DocCount(),
	)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}
	written, err := e.writer.Write(indexPath, idx)
	if err != nil {
		return nil, fmt.Errorf("dumping index to %s: %w", indexPath, err)
	}
	elapsed := time.Since(start)
	e.metrics.TermsIndexedTotal.Add(float64(idx.Len()))
	e.metrics.IndexBytesWritten.Add(float64(written))
	e.metrics.BuildDuration.Observe(elapsed.Seconds())
	e.logger.Info("index dumped",
		"path", indexPath,
		"terms", idx.Len(),
		"bytes", written,
		"duration", elapsed,
	)
	return &BuildStats{
		Documents:    len(docs),
		Terms:        idx.Len(),
		BytesWritten: written,
		Duration:     elapsed,
	}, nil
}

// Open loads the index file at indexPath for querying.
func (e *Engine) Open(ctx context.Context, indexPath string) (*index.Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	idx, n, err := codec.Load(indexPath, e.opts)
	e.metrics.IndexBytesRead.Add(float64(n))
	if err != nil {
		return nil, err
	}
	e.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	e.logger.Info("index loaded",
		"path", indexPath,
		"terms", idx.Len(),
		"docs", idx.DocCount(),
		"fingerprint", fmt.Sprintf("%08x", idx.Fingerprint()),
	)
	return idx, nil
}
