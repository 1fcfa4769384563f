package summary

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-gt/internal/vcf"
)

// Summarizer runs a variant stream through the worker pool and reports
// statistics in input order.
type Summarizer struct {
	workers int
	logger  *zap.Logger
}

// NewSummarizer creates a summarizer. If workers is 0, runtime.NumCPU() is used.
func NewSummarizer(workers int) *Summarizer {
	return &Summarizer{
		workers: workers,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for skipped-line warnings.
func (s *Summarizer) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Run reads every variant from p and calls fn with each variant's
// statistics in input order. Lines that fail to parse are logged, counted
// and skipped. A read error ends the run and is returned along with the
// totals gathered so far.
func (s *Summarizer) Run(ctx context.Context, p vcf.VariantParser, fn func(*vcf.Variant, *Stats) error) (*Totals, error) {
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries := make(chan Entry, 64)
	go func() {
		defer close(entries)
		for seq := 0; ; seq++ {
			v, err := p.Next()
			if v == nil && err == nil {
				return
			}
			e := Entry{Seq: seq, Variant: v, Err: err}
			select {
			case entries <- e:
			case <-readCtx.Done():
				return
			}
			if errors.Is(err, vcf.ErrReadLine) {
				return
			}
		}
	}()

	totals := NewTotals(len(p.Samples()))
	err := InOrder(ComputeAll(entries, s.workers), func(r Result) error {
		if r.Err != nil {
			if errors.Is(r.Err, vcf.ErrReadLine) {
				cancel()
				return r.Err
			}
			totals.AddError(r.Err)
			s.logger.Warn("skipping variant line",
				zap.Int("line", lineOf(r.Err)),
				zap.Stringer("kind", vcf.KindOf(r.Err)),
				zap.Error(r.Err))
			return nil
		}
		totals.Add(r.Variant, r.Stats)
		if fn == nil {
			return nil
		}
		if err := fn(r.Variant, r.Stats); err != nil {
			cancel()
			return err
		}
		return nil
	})
	if err != nil {
		return totals, fmt.Errorf("summarize variants: %w", err)
	}
	return totals, ctx.Err()
}

func lineOf(err error) int {
	var pe *vcf.ParseError
	if errors.As(err, &pe) {
		return pe.LineNumber
	}
	return 0
}
