package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/invindex/pkg/textenc"
)

const maxQueryLineSize = 1024 * 1024

// QueryPlan is a conjunctive query: every term must be present.
type QueryPlan struct {
	Terms    []string
	RawQuery string
}

// Parse splits query on whitespace. Terms are used verbatim.
func Parse(query string) *QueryPlan {
	return &QueryPlan{
		Terms:    strings.Fields(query),
		RawQuery: query,
	}
}

// FromTerms builds a plan from terms that were already split, such as
// command-line arguments.
func FromTerms(terms []string) *QueryPlan {
	plan := &QueryPlan{
		Terms:    make([]string, 0, len(terms)),
		RawQuery: strings.Join(terms, " "),
	}
	for _, t := range terms {
		plan.Terms = append(plan.Terms, strings.Fields(t)...)
	}
	return plan
}

// ReadPlans reads one query per line from r. Each line is transcoded before
// it is split, and a line that fails to transcode fails the whole read.
// Empty lines yield empty plans so output stays aligned with input lines.
func ReadPlans(r io.Reader, tc *textenc.Transcoder) ([]*QueryPlan, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxQueryLineSize)

	plans := make([]*QueryPlan, 0)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := bytes.TrimSuffix(scanner.Bytes(), []byte{'\r'})
		line, err := tc.Transcode(raw)
		if err != nil {
			return nil, fmt.Errorf("query line %d: %w", lineNo, err)
		}
		plans = append(plans, Parse(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading query line %d: %w", lineNo+1, err)
	}
	return plans, nil
}
