package vcf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariant_RefAlts(t *testing.T) {
	v := &Variant{Alleles: []string{"A", "G", "T"}}
	assert.Equal(t, "A", v.Ref())
	assert.Equal(t, []string{"G", "T"}, v.Alts())
	assert.True(t, v.IsMultiAllelic())

	v = &Variant{Alleles: []string{"A", "G"}}
	assert.False(t, v.IsMultiAllelic())

	v = &Variant{}
	assert.Equal(t, "", v.Ref())
	assert.Nil(t, v.Alts())
}

func TestVariant_IsSNV(t *testing.T) {
	tests := []struct {
		name    string
		alleles []string
		want    bool
	}{
		{"A to G", []string{"A", "G"}, true},
		{"multi-allelic SNV", []string{"A", "G", "T"}, true},
		{"deletion", []string{"AT", "A"}, false},
		{"insertion", []string{"A", "AT"}, false},
		{"MNV", []string{"AT", "GC"}, false},
		{"no alt", []string{"T", "."}, false},
		{"ref only", []string{"T"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Variant{Alleles: tt.alleles}
			if got := v.IsSNV(); got != tt.want {
				t.Errorf("IsSNV() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariant_IsIndel(t *testing.T) {
	tests := []struct {
		name    string
		alleles []string
		want    bool
	}{
		{"SNV", []string{"A", "G"}, false},
		{"deletion", []string{"AT", "A"}, true},
		{"insertion", []string{"A", "AT"}, true},
		{"microsatellite", []string{"GTC", "G", "GTCT"}, true},
		{"MNV same length", []string{"AT", "GC"}, false},
		{"no alt", []string{"T", "."}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Variant{Alleles: tt.alleles}
			if got := v.IsIndel(); got != tt.want {
				t.Errorf("IsIndel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariant_Genotypes(t *testing.T) {
	v := &Variant{
		Alleles:   []string{"A", "G"},
		Filters:   []string{},
		Genotypes: [][]int16{{0, 1}, {-1, -1}},
		Ploidy:    2,
	}

	assert.True(t, v.IsPass())
	assert.Equal(t, "0/1", v.GenotypeString(0))
	assert.Equal(t, "./.", v.GenotypeString(1))
	assert.Equal(t, ".", v.GenotypeString(2))

	v.Filters = []string{"q10"}
	assert.False(t, v.IsPass())
}
