package output

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-gt/internal/summary"
	"github.com/inodb/vibe-gt/internal/vcf"
)

func TestJSONWriter_WriteVariant(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf, []string{"NA1", "NA2"})

	require.NoError(t, w.WriteVariant(&vcf.Variant{
		Chrom:     "20",
		Pos:       1230237,
		ID:        ".",
		Alleles:   []string{"T", "."},
		Qual:      47,
		Filters:   []string{},
		Genotypes: [][]int16{{0, 0}, {-1, 1}},
		Ploidy:    2,
	}))
	require.NoError(t, w.Flush())

	var got struct {
		Chrom     string           `json:"chrom"`
		Pos       uint64           `json:"pos"`
		Ref       string           `json:"ref"`
		Alts      []string         `json:"alts"`
		Qual      float64          `json:"qual"`
		Filters   []string         `json:"filters"`
		Ploidy    int              `json:"ploidy"`
		Genotypes []sampleGenotype `json:"genotypes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "20", got.Chrom)
	assert.Equal(t, uint64(1230237), got.Pos)
	assert.Equal(t, "T", got.Ref)
	assert.Equal(t, []string{"."}, got.Alts)
	assert.Equal(t, 47.0, got.Qual)
	assert.Equal(t, []string{}, got.Filters)
	assert.Equal(t, 2, got.Ploidy)
	assert.Equal(t, []sampleGenotype{{"NA1", "0/0"}, {"NA2", "./1"}}, got.Genotypes)
}

func TestJSONWriter_GenotypesKeepSampleOrder(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf, []string{"ZZ", "AA", "ZZ"})

	require.NoError(t, w.WriteVariant(&vcf.Variant{
		Chrom:     "1",
		Pos:       9,
		Alleles:   []string{"C", "T"},
		Filters:   []string{},
		Genotypes: [][]int16{{1, 1}, {0, 1}, {0, 0}},
		Ploidy:    2,
	}))
	require.NoError(t, w.Flush())

	assert.Contains(t, buf.String(),
		`"genotypes":[{"sample":"ZZ","gt":"1/1"},{"sample":"AA","gt":"0/1"},{"sample":"ZZ","gt":"0/0"}]`)
}

func TestJSONWriter_SitesOnlyOmitsGenotypes(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf, nil)
	require.NoError(t, w.WriteVariant(&vcf.Variant{
		Chrom:     "1",
		Pos:       1,
		Alleles:   []string{"A"},
		Filters:   []string{},
		Genotypes: [][]int16{},
	}))
	require.NoError(t, w.Flush())

	assert.NotContains(t, buf.String(), "genotypes")
	assert.Contains(t, buf.String(), `"alts":[]`)
}

func TestJSONWriter_Lines(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf, nil)

	v := &vcf.Variant{Chrom: "1", Pos: 7, Alleles: []string{"A", "G"}, Genotypes: [][]int16{{0, 1}}}
	totals := summary.NewTotals(1)
	totals.Add(v, summary.Compute(v))

	require.NoError(t, w.WriteStats(summary.Compute(v)))
	require.NoError(t, w.WriteTotals(totals))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	var stats summary.Stats
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &stats))
	assert.Equal(t, []int{1, 1}, stats.AlleleCounts)
	assert.Equal(t, 0.5, stats.AltFreq)
	assert.Equal(t, 1, stats.HetSamples)

	var wrapped struct {
		Totals summary.Totals `json:"totals"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &wrapped))
	assert.Equal(t, 1, wrapped.Totals.Variants)
	assert.Equal(t, []int{0}, wrapped.Totals.SampleMissing)
}
