package summary

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-gt/internal/vcf"
)

func makeEntries(n int) <-chan Entry {
	ch := make(chan Entry, n)
	for i := range n {
		ch <- Entry{
			Seq: i,
			Variant: &vcf.Variant{
				Chrom:     "1",
				Pos:       uint64(100 + i),
				Alleles:   []string{"A", "T"},
				Genotypes: [][]int16{{0, 1}},
				Ploidy:    2,
			},
		}
	}
	close(ch)
	return ch
}

func TestComputeAll_OrderPreservation(t *testing.T) {
	results := ComputeAll(makeEntries(200), 8)

	var collected []int
	err := InOrder(results, func(r Result) error {
		require.NoError(t, r.Err)
		require.NotNil(t, r.Stats)
		assert.Equal(t, r.Variant.Pos, r.Stats.Pos)
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestComputeAll_SingleWorker(t *testing.T) {
	results := ComputeAll(makeEntries(50), 1)

	var collected []int
	err := InOrder(results, func(r Result) error {
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 50)
	for i, seq := range collected {
		assert.Equal(t, i, seq)
	}
}

func TestComputeAll_ErrorsPassThrough(t *testing.T) {
	ch := make(chan Entry, 2)
	ch <- Entry{Seq: 0, Err: &vcf.ParseError{Kind: vcf.ErrQualNotFloat}}
	ch <- Entry{Seq: 1, Variant: &vcf.Variant{Alleles: []string{"A", "C"}}}
	close(ch)

	var got []Result
	err := InOrder(ComputeAll(ch, 2), func(r Result) error {
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.ErrorIs(t, got[0].Err, vcf.ErrQualNotFloat)
	assert.Nil(t, got[0].Stats)
	assert.NoError(t, got[1].Err)
	assert.NotNil(t, got[1].Stats)
}

func TestComputeAll_EmptyInput(t *testing.T) {
	ch := make(chan Entry)
	close(ch)
	results := ComputeAll(ch, 4)

	count := 0
	err := InOrder(results, func(r Result) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInOrder_EarlyError(t *testing.T) {
	results := ComputeAll(makeEntries(100), 4)

	count := 0
	err := InOrder(results, func(r Result) error {
		count++
		if count == 5 {
			return fmt.Errorf("stop at 5")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 5, count)
}
