package vcf

import (
	"math"
	"strconv"
	"strings"
)

// MissingAllele marks an uncalled allele ('.') in a genotype row.
const MissingAllele int16 = -1

// DecodeGenotype decodes a GT token such as "0|1", "1/2", "./." or "10|3"
// into row and returns the number of allele slots the token holds (its
// implied ploidy). At most len(row) slots are written, so a nil row can be
// used to validate a token and learn its ploidy. Both '/' and '|' separate
// alleles; phase is not retained.
//
// nAlleles bounds the allele indices (REF plus ALTs); a value <= 0 disables
// the bound. Returned errors are *ParseError values without line context.
func DecodeGenotype(token string, row []int16, nAlleles int) (int, error) {
	// Most calls in real files are homozygous diploid.
	if len(row) == 2 {
		switch token {
		case "0/0":
			row[0], row[1] = 0, 0
			return 2, nil
		case "1/1":
			if nAlleles <= 0 || nAlleles > 1 {
				row[0], row[1] = 1, 1
				return 2, nil
			}
		}
	}

	slot := 0
	allele := 0
	hasDigits := false
	isMissing := false
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= '0' && c <= '9' && !isMissing:
			allele = allele*10 + int(c-'0')
			if allele > math.MaxInt16 {
				return slot + 1, &ParseError{Kind: ErrAlleleOutOfRange, Token: token}
			}
			hasDigits = true
		case c == '/' || c == '|':
			v, kind := slotValue(allele, hasDigits, isMissing, nAlleles)
			if kind != 0 {
				return slot + 1, genotypeError(kind, token, c)
			}
			if slot < len(row) {
				row[slot] = v
			}
			slot++
			allele = 0
			hasDigits = false
			isMissing = false
		case c == '.' && !hasDigits && !isMissing:
			isMissing = true
		default:
			return slot + 1, genotypeError(ErrIncorrectAllele, token, c)
		}
	}

	v, kind := slotValue(allele, hasDigits, isMissing, nAlleles)
	if kind != 0 {
		return slot + 1, genotypeError(kind, token, 0)
	}
	if slot < len(row) {
		row[slot] = v
	}
	return slot + 1, nil
}

// slotValue resolves the value of a finished allele slot.
func slotValue(allele int, hasDigits, isMissing bool, nAlleles int) (int16, ErrorKind) {
	switch {
	case isMissing:
		return MissingAllele, 0
	case !hasDigits:
		return 0, ErrIncorrectAllele
	case nAlleles > 0 && allele >= nAlleles:
		return 0, ErrAlleleOutOfRange
	}
	return int16(allele), 0
}

// genotypeError reports a bad GT token. c is the offending byte, 0 at the
// end of the token.
func genotypeError(kind ErrorKind, token string, c byte) error {
	pe := &ParseError{Kind: kind, Token: token}
	if kind == ErrIncorrectAllele && c != 0 {
		pe.Char = string([]byte{c})
	}
	return pe
}

// FormatGenotype renders a genotype row as "a/b", using "." for missing
// alleles. Rows are unphased, so '/' is always the separator.
func FormatGenotype(row []int16) string {
	if len(row) == 0 {
		return "."
	}
	var b strings.Builder
	for i, a := range row {
		if i > 0 {
			b.WriteByte('/')
		}
		if a == MissingAllele {
			b.WriteByte('.')
			continue
		}
		b.WriteString(strconv.Itoa(int(a)))
	}
	return b.String()
}

// gtField returns the idx-th ':'-separated sub-field of a sample block
// without allocating.
func gtField(block string, idx int) (string, bool) {
	for i := 0; i < idx; i++ {
		j := strings.IndexByte(block, ':')
		if j < 0 {
			return "", false
		}
		block = block[j+1:]
	}
	if j := strings.IndexByte(block, ':'); j >= 0 {
		return block[:j], true
	}
	return block, true
}

// DecodeRows decodes rendered genotype cells, one per sample, into rows of
// ploidy alleles backed by a single allocation.
func DecodeRows(tokens []string, ploidy uint8, nAlleles int) ([][]int16, error) {
	p := int(ploidy)
	cells := make([]int16, len(tokens)*p)
	rows := make([][]int16, len(tokens))
	for i, token := range tokens {
		row := cells[i*p : (i+1)*p : (i+1)*p]
		n, err := DecodeGenotype(token, row, nAlleles)
		if err != nil {
			return nil, err
		}
		if n != p {
			return nil, &ParseError{Kind: ErrDifferentPloidies, Token: token}
		}
		rows[i] = row
	}
	return rows, nil
}
