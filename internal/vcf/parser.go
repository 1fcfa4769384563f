// Package vcf provides VCF file parsing functionality.
package vcf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Parser streams variants from a VCF file. It is not safe for concurrent
// use; run independent parsers for parallel throughput.
//
// Opening a parser reads the header and the first data line, which fixes
// the ploidy for the whole stream. That first variant is retained and
// returned by the first call to Next.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	source     string
	kind       FileKind
	lineNumber int
	header     []string
	samples    []string

	format    formatCache
	ploidy    uint8
	ploidySet bool

	first *Variant // retained first variant, returned by the first Next
	done  bool
}

// Open creates a new parser for the VCF file at path.
// Supports both plain VCF and gzipped VCF (.vcf.gz, including bgzip and
// other multi-member files). Use "-" for stdin.
func Open(path string) (*Parser, error) {
	if path == "-" {
		return newParser(os.Stdin, nil, "-")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}
	return newParser(file, file, path)
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
// The reader is classified the same way files are.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	return newParser(r, nil, "")
}

func newParser(r io.Reader, file *os.File, source string) (*Parser, error) {
	p := &Parser{file: file, source: source}

	kind, br, gz, err := sniff(r, source)
	if err != nil {
		p.Close()
		return nil, err
	}
	p.kind = kind
	p.reader = br
	p.gzipReader = gz

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	if err := p.readFirstVariant(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// readFirstVariant decodes the first data line. Any failure here is
// structural: the stream has no usable first variant and no ploidy.
func (p *Parser) readFirstVariant() error {
	v, err := p.readVariant()
	if err != nil {
		if KindOf(err) == ErrReadLine {
			return err
		}
		return &ParseError{Kind: ErrNoVariants, Source: p.source, LineNumber: p.lineNumber, Err: err}
	}
	if v == nil {
		return &ParseError{Kind: ErrNoVariants, Source: p.source, LineNumber: p.lineNumber}
	}
	p.first = v
	return nil
}

// Next reads the next variant from the VCF file.
// Returns nil, nil when there are no more variants. Parse errors are
// local to their line; read errors end the stream.
func (p *Parser) Next() (*Variant, error) {
	if p.first != nil {
		v := p.first
		p.first = nil
		return v, nil
	}
	if p.done {
		return nil, nil
	}
	return p.readVariant()
}

// readVariant reads and parses the next non-empty line.
func (p *Parser) readVariant() (*Variant, error) {
	for {
		line, err := readLine(p.reader)
		if err != nil {
			p.done = true
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, p.errorf(ErrReadLine, "", err)
		}
		p.lineNumber++

		if line == "" {
			continue
		}
		return p.parseLine(line)
	}
}

// All returns an iterator over the remaining variants. Per-line errors are
// yielded with a nil variant and iteration continues; iteration ends after
// the last line or a read error.
func (p *Parser) All() iter.Seq2[*Variant, error] {
	return func(yield func(*Variant, error) bool) {
		for {
			v, err := p.Next()
			if v == nil && err == nil {
				return
			}
			if !yield(v, err) {
				return
			}
		}
	}
}

// Kind returns how the input was encoded.
func (p *Parser) Kind() FileKind {
	return p.kind
}

// Header returns the VCF header lines, including the #CHROM line.
func (p *Parser) Header() []string {
	return p.header
}

// Samples returns sample names from the #CHROM header line.
func (p *Parser) Samples() []string {
	return p.samples
}

// Ploidy returns the ploidy established by the first data line. It is 0
// for files without sample columns.
func (p *Parser) Ploidy() uint8 {
	return p.ploidy
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	p.done = true
	p.first = nil
	var errs []error
	if p.gzipReader != nil {
		errs = append(errs, p.gzipReader.Close())
		p.gzipReader = nil
	}
	if p.file != nil {
		errs = append(errs, p.file.Close())
		p.file = nil
	}
	return errors.Join(errs...)
}

// String describes the parser for log messages.
func (p *Parser) String() string {
	src := p.source
	if src == "" {
		src = "<reader>"
	}
	return fmt.Sprintf("%s (%s, %d samples, ploidy %d)", src, p.kind, len(p.samples), p.ploidy)
}
