package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/invindex/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/invindex/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/invindex/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/invindex/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/invindex/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/invindex/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/invindex/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/invindex/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/invindex/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/invindex/pkg/textenc"
)

const usage = `usage: invindex [-config FILE] <command> [flags]

commands:
  build   build an inverted index from a corpus and dump it to a file
  query   answer conjunctive queries against a dumped index
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries everything a command needs; nothing is read from globals.
type app struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("invindex", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := global.String("config", "", "path to config file")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return apperrors.ExitOK
		}
		return apperrors.ExitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return apperrors.ExitCode(err)
	}
	logger.Setup(stderr, cfg.Logging.Level, cfg.Logging.Format)

	rest := global.Args()
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return apperrors.ExitUsage
	}

	a := &app{
		cfg:     cfg,
		metrics: metrics.New(),
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}
	ctx = logger.WithCommand(ctx, rest[0])
	switch rest[0] {
	case "build":
		err = a.build(ctx, rest[1:])
	case "query":
		err = a.query(ctx, rest[1:])
	default:
		err = apperrors.InvalidInput("unknown command %q", rest[0])
		fmt.Fprint(stderr, usage)
	}

	if path := cfg.Metrics.Textfile; path != "" {
		if werr := a.metrics.WriteTextfile(path); werr != nil {
			logger.FromContext(ctx).Warn("writing metrics textfile failed", "path", path, "error", werr)
		}
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return apperrors.ExitOK
		}
		fmt.Fprintf(stderr, "invindex: %v\n", err)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitOK
}

func (a *app) build(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	dataset := fs.String("dataset", a.cfg.Index.DatasetPath, "path to dataset")
	output := fs.String("output", a.cfg.Index.IndexPath, "path to dump inverted index")
	encodingName := fs.String("encoding", a.cfg.Index.Encoding, "encoding of terms inside the index file")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}
	if fs.NArg() > 0 {
		return apperrors.InvalidInput("build: unexpected arguments %v", fs.Args())
	}

	indexCfg := a.cfg.Index
	indexCfg.Encoding = *encodingName
	engine, err := indexer.NewEngine(indexCfg, a.metrics)
	if err != nil {
		return err
	}
	if _, err := engine.Build(ctx, *dataset, *output); err != nil {
		return err
	}

	// Results cached for the previous index are unreachable once its
	// fingerprint changes.
	if qc, closeFn := a.openCache(ctx); qc != nil {
		defer closeFn()
		if err := qc.Invalidate(ctx); err != nil {
			logger.FromContext(ctx).Warn("dropping stale query results failed", "error", err)
		}
	}
	return nil
}

// openCache connects to the query cache when it is enabled. A nil cache
// means the command runs without one.
func (a *app) openCache(ctx context.Context) (*cache.QueryCache, func()) {
	if !a.cfg.Redis.Enabled {
		return nil, nil
	}
	client, err := pkgredis.NewClient(ctx, a.cfg.Redis)
	if err != nil {
		logger.FromContext(ctx).Warn("query cache unavailable, continuing without it", "error", err)
		return nil, nil
	}
	return cache.New(client, a.cfg.Redis.CacheTTL, a.metrics), func() { client.Close() }
}

// termList collects repeated --query flags.
type termList []string

func (t *termList) String() string { return strings.Join(*t, " ") }

func (t *termList) Set(v string) error {
	*t = append(*t, v)
	return nil
}

func (a *app) query(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	indexPath := fs.String("index", a.cfg.Index.IndexPath, "path to load inverted index")
	encodingName := fs.String("encoding", a.cfg.Index.Encoding, "encoding of terms inside the index file")
	utf8File := fs.String("query-file-utf8", "", "file with one UTF-8 query per line (- for stdin)")
	cp1251File := fs.String("query-file-cp1251", "", "file with one cp1251 query per line (- for stdin)")
	var terms termList
	fs.Var(&terms, "query", "query term (repeatable); remaining arguments are also query terms")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}
	for _, arg := range fs.Args() {
		if strings.HasPrefix(arg, "-") {
			return apperrors.InvalidInput("query: flag %q after query terms; flags must come first, use --query for terms starting with -", arg)
		}
	}
	terms = append(terms, fs.Args()...)

	sources := 0
	for _, set := range []bool{*utf8File != "", *cp1251File != "", len(terms) > 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return apperrors.InvalidInput("query: exactly one of --query-file-utf8, --query-file-cp1251 or --query is required")
	}

	indexCfg := a.cfg.Index
	indexCfg.Encoding = *encodingName
	engine, err := indexer.NewEngine(indexCfg, a.metrics)
	if err != nil {
		return err
	}

	var plans []*parser.QueryPlan
	switch {
	case len(terms) > 0:
		tc, err := textenc.NewTranscoder(textenc.DefaultName, *encodingName)
		if err != nil {
			return err
		}
		for _, term := range terms {
			if _, err := tc.Transcode([]byte(term)); err != nil {
				return fmt.Errorf("query term: %w", err)
			}
		}
		plans = []*parser.QueryPlan{parser.FromTerms(terms)}
	case *utf8File != "":
		plans, err = a.readPlans(*utf8File, "utf-8", *encodingName)
	default:
		plans, err = a.readPlans(*cp1251File, "cp1251", *encodingName)
	}
	if err != nil {
		return err
	}

	idx, err := engine.Open(ctx, *indexPath)
	if err != nil {
		return err
	}

	opts := []executor.Option{executor.WithMetrics(a.metrics)}
	qc, closeFn := a.openCache(ctx)
	if qc != nil {
		defer closeFn()
		opts = append(opts, executor.WithCache(qc))
	}
	exec := executor.New(idx, opts...)

	out := bufio.NewWriter(a.stdout)
	for _, plan := range plans {
		result, err := exec.Execute(ctx, plan)
		if err != nil {
			out.Flush()
			return fmt.Errorf("query %q: %w", plan.RawQuery, err)
		}
		if _, err := out.WriteString(strings.Join(result.DocIDs, ",") + "\n"); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	log := logger.FromContext(ctx)
	if qc != nil {
		hits, misses := qc.Stats()
		log = log.With("cache_hits", hits, "cache_misses", misses)
	}
	log.Debug("queries answered", "count", len(plans))
	return nil
}

func (a *app) readPlans(path string, from string, to string) ([]*parser.QueryPlan, error) {
	tc, err := textenc.NewTranscoder(from, to)
	if err != nil {
		return nil, err
	}
	if path == "-" {
		return parser.ReadPlans(a.stdin, tc)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ReadPlans(f, tc)
}

func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return apperrors.InvalidInput("%v", err)
}
