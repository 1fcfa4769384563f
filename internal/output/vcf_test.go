package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-gt/internal/vcf"
)

func TestGenotypeWriter(t *testing.T) {
	header := []string{
		"##fileformat=VCFv4.5",
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tNA1\tNA2",
	}

	var buf bytes.Buffer
	w := NewGenotypeWriter(&buf, header)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(&vcf.Variant{
		Chrom:     "20",
		Pos:       14370,
		ID:        "rs6054257",
		Alleles:   []string{"G", "A"},
		Qual:      29,
		Filters:   []string{},
		Genotypes: [][]int16{{0, 0}, {1, -1}},
		Ploidy:    2,
	}))
	require.NoError(t, w.Write(&vcf.Variant{
		Chrom:     "20",
		Pos:       17330,
		ID:        ".",
		Alleles:   []string{"T", "A"},
		Qual:      3.5,
		Filters:   []string{"q10", "s50"},
		Genotypes: [][]int16{{-1, -1}, {0, 1}},
		Ploidy:    2,
	}))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, header[0], lines[0])
	assert.Equal(t, header[1], lines[1])
	assert.Equal(t, "20\t14370\trs6054257\tG\tA\t29\tPASS\t.\tGT\t0/0\t1/.", lines[2])
	assert.Equal(t, "20\t17330\t.\tT\tA\t3.5\tq10;s50\t.\tGT\t./.\t0/1", lines[3])
}

func TestGenotypeWriter_SitesOnly(t *testing.T) {
	var buf bytes.Buffer
	w := NewGenotypeWriter(&buf, nil)
	require.NoError(t, w.Write(&vcf.Variant{
		Chrom:     "1",
		Pos:       10,
		ID:        ".",
		Alleles:   []string{"C"},
		Filters:   []string{},
		Genotypes: [][]int16{},
	}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "1\t10\t.\tC\t.\t.\tPASS\t.\n", buf.String())
}

func TestGenotypeWriter_RoundTrip(t *testing.T) {
	input := "##fileformat=VCFv4.5\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tNA1\tNA2\n" +
		"1\t100\t.\tA\tT,C\t50\tPASS\t.\tGT\t0/1\t2/2\n" +
		"1\t200\t.\tC\tG\t.\tlow\t.\tGT\t./.\t0/0\n"

	p, err := vcf.NewParserFromReader(strings.NewReader(input))
	require.NoError(t, err)
	defer p.Close()

	var buf bytes.Buffer
	w := NewGenotypeWriter(&buf, p.Header())
	require.NoError(t, w.WriteHeader())
	for v, err := range p.All() {
		require.NoError(t, err)
		require.NoError(t, w.Write(v))
	}
	require.NoError(t, w.Flush())

	assert.Equal(t, input, buf.String())
}
