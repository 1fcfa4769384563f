package vcf

import (
	"errors"
	"io"
	"strings"
)

const (
	metaPrefix   = "##"
	headerPrefix = "#CHROM"

	// Fixed columns before the first sample: CHROM POS ID REF ALT QUAL
	// FILTER INFO FORMAT.
	fixedColumns = 9
)

// readLine reads one line without its terminator. It returns io.EOF only
// when no bytes were read; a final unterminated line is returned as is.
func readLine(r interface{ ReadString(byte) (string, error) }) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}
		if line == "" {
			return "", io.EOF
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// parseHeader reads meta lines and the #CHROM line and stores the sample
// names.
func (p *Parser) parseHeader() error {
	for {
		line, err := readLine(p.reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				if p.lineNumber == 0 {
					return p.errorf(ErrEmptyFile, "", nil)
				}
				return p.errorf(ErrInvalidSampleLine, "", errors.New("no #CHROM header line found"))
			}
			return p.errorf(ErrReadLine, "", err)
		}
		p.lineNumber++

		if strings.HasPrefix(line, metaPrefix) {
			p.header = append(p.header, line)
			continue
		}

		if !strings.HasPrefix(line, headerPrefix) {
			return p.errorf(ErrInvalidSampleLine, line, nil)
		}
		samples, ok := parseSampleLine(line)
		if !ok {
			return p.errorf(ErrInvalidSampleLine, line, nil)
		}
		p.header = append(p.header, line)
		p.samples = samples
		return nil
	}
}

// parseSampleLine extracts the sample names that follow FORMAT. It reports
// false when the eight fixed columns are missing or the ninth is not FORMAT.
func parseSampleLine(line string) ([]string, bool) {
	fields := strings.Split(line, "\t")
	switch {
	case len(fields) < fixedColumns-1:
		return nil, false
	case len(fields) == fixedColumns-1:
		return []string{}, true
	case fields[fixedColumns-1] != "FORMAT":
		return nil, false
	}
	return fields[fixedColumns:], true
}
