package vcf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// FileKind classifies how a VCF byte stream is encoded.
type FileKind int

const (
	UnknownKind FileKind = iota
	PlainTextVCF
	GzipVCF
)

func (k FileKind) String() string {
	switch k {
	case PlainTextVCF:
		return "plain"
	case GzipVCF:
		return "gzip"
	default:
		return "unknown"
	}
}

var (
	metaMagic = []byte{0x23, 0x23} // "##"
	gzipMagic = []byte{0x1f, 0x8b}
)

// ProbeFileKind inspects the leading bytes of the file at path and reports
// whether it is a plain-text or gzip-compressed VCF. Gzip files must
// decompress to a stream that also starts with "##".
func ProbeFileKind(path string) (FileKind, error) {
	file, err := os.Open(path)
	if err != nil {
		return UnknownKind, fmt.Errorf("open vcf file: %w", err)
	}
	defer file.Close()

	kind, _, gz, err := sniff(file, path)
	if gz != nil {
		gz.Close()
	}
	return kind, err
}

// sniff classifies r and returns a buffered reader positioned at the first
// decompressed byte. When r is gzip the returned gzip reader must be closed
// by the caller.
func sniff(r io.Reader, source string) (FileKind, *bufio.Reader, *gzip.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return UnknownKind, nil, nil, &ParseError{Kind: ErrReadLine, Source: source, Err: err}
	}
	if len(head) == 0 {
		return UnknownKind, nil, nil, &ParseError{Kind: ErrEmptyFile, Source: source}
	}

	if bytes.Equal(head, metaMagic) {
		return PlainTextVCF, br, nil, nil
	}
	if !bytes.Equal(head, gzipMagic) {
		return UnknownKind, nil, nil, &ParseError{Kind: ErrInvalidVCFFile, Source: source}
	}

	// klauspost gzip readers are multistream by default, so bgzip and
	// concatenated members decode as one stream.
	gz, err := gzip.NewReader(br)
	if err != nil {
		return UnknownKind, nil, nil, &ParseError{Kind: ErrInvalidGzipVCFFile, Source: source, Err: err}
	}
	inner := bufio.NewReader(gz)
	head, err = inner.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		gz.Close()
		return UnknownKind, nil, nil, &ParseError{Kind: ErrInvalidGzipVCFFile, Source: source, Err: err}
	}
	if !bytes.Equal(head, metaMagic) {
		gz.Close()
		return UnknownKind, nil, nil, &ParseError{Kind: ErrInvalidGzipVCFFile, Source: source}
	}
	return GzipVCF, inner, gz, nil
}
