package vcf

// Variant represents a single data line of a VCF file.
type Variant struct {
	Chrom     string    // Chromosome name (e.g., "20", "chr20")
	Pos       uint64    // 1-based genomic position
	ID        string    // Variant identifier (e.g., rs ID), "." when absent
	Alleles   []string  // REF followed by the ALT alleles, in column order
	Qual      float64   // Quality score, 0 when "."
	Filters   []string  // Failed filters; empty when PASS
	Genotypes [][]int16 // One row per sample; each row has Ploidy allele indices
	Ploidy    uint8     // Allele copies per sample, uniform across the line
}

// Ref returns the reference allele.
func (v *Variant) Ref() string {
	if len(v.Alleles) == 0 {
		return ""
	}
	return v.Alleles[0]
}

// Alts returns the alternate alleles.
func (v *Variant) Alts() []string {
	if len(v.Alleles) < 2 {
		return nil
	}
	return v.Alleles[1:]
}

// IsMultiAllelic returns true if the site has more than one alternate allele.
func (v *Variant) IsMultiAllelic() bool {
	return len(v.Alleles) > 2
}

// IsSNV returns true if every allele is a single base.
func (v *Variant) IsSNV() bool {
	if len(v.Alleles) < 2 {
		return false
	}
	for _, a := range v.Alleles {
		if len(a) != 1 || a == "." {
			return false
		}
	}
	return true
}

// IsIndel returns true if any alternate allele differs in length from the reference.
func (v *Variant) IsIndel() bool {
	ref := v.Ref()
	for _, alt := range v.Alts() {
		if alt != "." && len(alt) != len(ref) {
			return true
		}
	}
	return false
}

// IsPass returns true if the variant passed all filters.
func (v *Variant) IsPass() bool {
	return len(v.Filters) == 0
}

// GenotypeString renders the genotype of sample i, e.g. "0/1" or "./.".
func (v *Variant) GenotypeString(i int) string {
	if i < 0 || i >= len(v.Genotypes) {
		return "."
	}
	return FormatGenotype(v.Genotypes[i])
}
