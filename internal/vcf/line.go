package vcf

import (
	"errors"
	"strconv"
	"strings"
)

// parseLine parses a single VCF data line into a Variant, updating the
// FORMAT cache and, on the first data line, establishing the ploidy.
// Parsing stops at the first failure.
func (p *Parser) parseLine(line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	nSamples := len(p.samples)

	minColumns := fixedColumns - 1
	if nSamples > 0 {
		minColumns = fixedColumns
	}
	if len(fields) < minColumns {
		return nil, p.errorf(ErrColumnCount, line, nil)
	}
	if nSamples > 0 && len(fields)-fixedColumns != nSamples {
		return nil, p.errorf(ErrColumnCount, line, nil)
	}
	if nSamples == 0 && len(fields) > fixedColumns {
		return nil, p.errorf(ErrColumnCount, line, nil)
	}

	pos, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return nil, p.errorf(ErrPosNotInt, line, err)
	}

	alleles := make([]string, 0, 2+strings.Count(fields[4], ","))
	alleles = append(alleles, fields[3])
	alleles = append(alleles, strings.Split(fields[4], ",")...)

	qual := 0.0
	if fields[5] != "." {
		qual, err = strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, p.errorf(ErrQualNotFloat, line, err)
		}
	}

	filters := []string{}
	if fields[6] != "PASS" {
		filters = strings.Split(fields[6], ";")
	}

	v := &Variant{
		Chrom:     fields[0],
		Pos:       pos,
		ID:        fields[2],
		Alleles:   alleles,
		Qual:      qual,
		Filters:   filters,
		Genotypes: [][]int16{},
		Ploidy:    p.ploidy,
	}
	if nSamples == 0 {
		return v, nil
	}

	if _, err := p.format.update(fields[8]); err != nil {
		return nil, p.wrapLineError(err, line)
	}

	if !p.ploidySet {
		if err := p.establishPloidy(fields[fixedColumns], len(alleles), line); err != nil {
			return nil, err
		}
		v.Ploidy = p.ploidy
	}

	v.Genotypes, err = p.parseGenotypes(fields[fixedColumns:], len(alleles), line)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// establishPloidy decodes the first sample of the first data line and
// fixes the stream's ploidy to its slot count.
func (p *Parser) establishPloidy(block string, nAlleles int, line string) error {
	gt, ok := gtField(block, p.format.gtIndex)
	if !ok {
		return p.firstGtError(gt, line, p.errorf(ErrNoGenotypeFormatDefinition, line, nil))
	}
	n, err := DecodeGenotype(gt, nil, nAlleles)
	if err != nil {
		return p.firstGtError(gt, line, p.wrapLineError(err, line))
	}
	if n > 255 {
		return p.firstGtError(gt, line, nil)
	}
	p.ploidy = uint8(n)
	p.ploidySet = true
	return nil
}

func (p *Parser) firstGtError(gt, line string, cause error) error {
	pe := p.errorf(ErrFirstGtDoesNotDefinePloidy, line, cause)
	pe.Token = gt
	return pe
}

// parseGenotypes decodes every sample block into rows backed by a single
// allocation.
func (p *Parser) parseGenotypes(blocks []string, nAlleles int, line string) ([][]int16, error) {
	ploidy := int(p.ploidy)
	cells := make([]int16, len(blocks)*ploidy)
	rows := make([][]int16, len(blocks))

	for i, block := range blocks {
		gt, ok := gtField(block, p.format.gtIndex)
		if !ok {
			pe := p.errorf(ErrNoGenotypeFormatDefinition, line, nil)
			pe.Token = block
			return nil, pe
		}

		row := cells[i*ploidy : (i+1)*ploidy : (i+1)*ploidy]
		n, err := DecodeGenotype(gt, row, nAlleles)
		if err != nil {
			return nil, p.wrapLineError(err, line)
		}
		if n != ploidy {
			pe := p.errorf(ErrDifferentPloidies, line, nil)
			pe.Token = gt
			return nil, pe
		}
		rows[i] = row
	}
	return rows, nil
}

// errorf builds a *ParseError for the current line.
func (p *Parser) errorf(kind ErrorKind, line string, cause error) *ParseError {
	return &ParseError{
		Kind:       kind,
		Source:     p.source,
		LineNumber: p.lineNumber,
		Line:       line,
		Err:        cause,
	}
}

// wrapLineError adds line context to errors from the decoder and cache.
func (p *Parser) wrapLineError(err error, line string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Source = p.source
		pe.LineNumber = p.lineNumber
		pe.Line = line
		return pe
	}
	return p.errorf(ErrReadLine, line, err)
}
