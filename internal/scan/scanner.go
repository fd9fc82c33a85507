package scan

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"slices"

	"golang.org/x/sync/errgroup"

	"simdscan/internal/isa"
)

const (
	// maxLineLength bounds a single listing line read from an io.Reader.
	maxLineLength = 4 << 20

	// ctxCheckInterval is how many lines a parallel shard processes between
	// cancellation checks.
	ctxCheckInterval = 4096
)

// Scanner classifies listing lines against a Table.
type Scanner struct {
	table  *isa.Table
	detail bool
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithDetail records per-mnemonic occurrences in the resulting aggregates.
func WithDetail(on bool) Option {
	return func(s *Scanner) {
		s.detail = on
	}
}

// NewScanner returns a scanner using table, or isa.Default when table is nil.
func NewScanner(table *isa.Table, opts ...Option) *Scanner {
	if table == nil {
		table = isa.Default
	}
	s := &Scanner{table: table}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan consumes lines in a single forward pass.
func (s *Scanner) Scan(lines iter.Seq[string]) *Aggregate {
	agg := NewAggregate(s.detail)
	for line := range lines {
		s.feed(agg, line)
	}
	return agg
}

// ScanLines is Scan over a slice.
func (s *Scanner) ScanLines(lines []string) *Aggregate {
	return s.Scan(slices.Values(lines))
}

// ScanReader scans newline separated text. Only read errors are reported;
// malformed lines are skipped.
func (s *Scanner) ScanReader(r io.Reader) (*Aggregate, error) {
	agg := NewAggregate(s.detail)
	sc := newLineScanner(r)
	for sc.Scan() {
		s.feed(agg, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	return agg, nil
}

// ReadLines collects r into memory for ScanParallel.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := newLineScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	return lines, nil
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return sc
}

// ScanParallel splits lines into contiguous shards, scans them concurrently
// and merges the partial aggregates. The result equals ScanLines(lines).
func (s *Scanner) ScanParallel(ctx context.Context, lines []string, shards int) (*Aggregate, error) {
	if shards <= 1 || len(lines) < shards {
		return s.ScanLines(lines), nil
	}

	size := (len(lines) + shards - 1) / shards
	partials := make([]*Aggregate, shards)

	g, ctx := errgroup.WithContext(ctx)
	for i := range shards {
		lo := min(i*size, len(lines))
		hi := min(lo+size, len(lines))
		g.Go(func() error {
			agg, err := s.scanShard(ctx, lines[lo:hi])
			if err != nil {
				return err
			}
			partials[i] = agg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := NewAggregate(s.detail)
	for _, p := range partials {
		if err := total.Merge(p); err != nil {
			return nil, err
		}
	}
	return total, nil
}

func (s *Scanner) scanShard(ctx context.Context, lines []string) (*Aggregate, error) {
	agg := NewAggregate(s.detail)
	for i, line := range lines {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		s.feed(agg, line)
	}
	return agg, nil
}

func (s *Scanner) feed(agg *Aggregate, text string) {
	agg.lines++
	line, ok := ParseLine(text)
	if !ok {
		return
	}
	agg.instructions++
	ext, key := s.table.Classify(line.Mnemonic)
	agg.Add(ext, key)
}
