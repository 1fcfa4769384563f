package summary

import (
	"runtime"
	"sync"

	"github.com/inodb/vibe-gt/internal/vcf"
)

// Entry is one pull from a variant stream, numbered in file order. Exactly
// one of Variant and Err is set.
type Entry struct {
	Seq     int
	Variant *vcf.Variant
	Err     error
}

// Result is an Entry with its genotype statistics. Stats is nil when the
// line failed to parse.
type Result struct {
	Entry
	Stats *Stats
}

// ComputeAll fans entries out to workers that run Compute on each parsed
// variant. Results arrive in completion order; InOrder restores line order.
// A workers value of 0 or less means one worker per CPU.
func ComputeAll(entries <-chan Entry, workers int) <-chan Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	out := make(chan Result, 2*workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range entries {
				r := Result{Entry: e}
				if e.Err == nil && e.Variant != nil {
					r.Stats = Compute(e.Variant)
				}
				out <- r
			}
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// InOrder hands results to fn by ascending Seq, holding back any that arrive
// ahead of a line still being computed. When fn fails the rest of results is
// discarded so the workers can exit, and the error is returned.
func InOrder(results <-chan Result, fn func(Result) error) error {
	held := make(map[int]Result)
	want := 0

	for r := range results {
		held[r.Seq] = r
		for {
			next, ok := held[want]
			if !ok {
				break
			}
			delete(held, want)
			want++
			if err := fn(next); err != nil {
				for range results {
				}
				return err
			}
		}
	}
	return nil
}
