package vcf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a VCF parsing failure. Every ErrorKind is itself an
// error, so callers can match with errors.Is(err, vcf.ErrPosNotInt).
type ErrorKind int

// Error kinds. Structural kinds (file, header and first data line) abort
// stream construction; the remaining kinds are reported per line.
const (
	ErrEmptyFile ErrorKind = iota + 1
	ErrInvalidSampleLine
	ErrNoVariants
	ErrPosNotInt
	ErrQualNotFloat
	ErrGenotypeNotFoundInFormat
	ErrNoGenotypeFormatDefinition
	ErrIncorrectAllele
	ErrAlleleOutOfRange
	ErrFirstGtDoesNotDefinePloidy
	ErrDifferentPloidies
	ErrColumnCount
	ErrInvalidVCFFile
	ErrInvalidGzipVCFFile
	ErrReadLine
)

var errorKindMessages = map[ErrorKind]string{
	ErrEmptyFile:                  "the file is empty",
	ErrInvalidSampleLine:          "the line failed to define the fields and include the samples",
	ErrNoVariants:                 "no variants found in the file",
	ErrPosNotInt:                  "position is not a valid integer",
	ErrQualNotFloat:               "qual is not a valid float",
	ErrGenotypeNotFoundInFormat:   "there is no GT field in the FORMAT definition",
	ErrNoGenotypeFormatDefinition: "sample block has no field at the GT position",
	ErrIncorrectAllele:            "incorrect allele",
	ErrAlleleOutOfRange:           "allele index out of range",
	ErrFirstGtDoesNotDefinePloidy: "first GT does not define ploidy",
	ErrDifferentPloidies:          "different ploidies found",
	ErrColumnCount:                "unexpected number of columns",
	ErrInvalidVCFFile:             "file is not gzip and does not start with ##",
	ErrInvalidGzipVCFFile:         "file is gzip, but does not start with ##",
	ErrReadLine:                   "error reading VCF line",
}

var errorKindNames = map[ErrorKind]string{
	ErrEmptyFile:                  "EmptyFile",
	ErrInvalidSampleLine:          "InvalidSampleLine",
	ErrNoVariants:                 "NoVariantsError",
	ErrPosNotInt:                  "PosNotInt",
	ErrQualNotFloat:               "QualNotFloat",
	ErrGenotypeNotFoundInFormat:   "GenotypeNotFoundInFormatDefinition",
	ErrNoGenotypeFormatDefinition: "NoGenotypeFormatDefinition",
	ErrIncorrectAllele:            "IncorrectAllele",
	ErrAlleleOutOfRange:           "AlleleOutOfRange",
	ErrFirstGtDoesNotDefinePloidy: "FirstGtDoesNotDefinePloidy",
	ErrDifferentPloidies:          "DifferentPloidiesError",
	ErrColumnCount:                "ColumnCount",
	ErrInvalidVCFFile:             "InvalidVCFFile",
	ErrInvalidGzipVCFFile:         "InvalidGzipVCFFile",
	ErrReadLine:                   "ReadLineError",
}

func (k ErrorKind) Error() string {
	if msg, ok := errorKindMessages[k]; ok {
		return msg
	}
	return fmt.Sprintf("vcf error kind %d", int(k))
}

// String returns the kind name, e.g. "PosNotInt".
func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Structural reports whether errors of this kind prevent a stream from
// being opened at all.
func (k ErrorKind) Structural() bool {
	switch k {
	case ErrEmptyFile, ErrInvalidSampleLine, ErrNoVariants,
		ErrFirstGtDoesNotDefinePloidy, ErrInvalidVCFFile, ErrInvalidGzipVCFFile:
		return true
	}
	return false
}

// ParseError represents an error during VCF parsing with line context.
type ParseError struct {
	Kind       ErrorKind
	Source     string // path, or "-" for stdin; empty for in-memory readers
	LineNumber int    // 1-based; 0 when not tied to a line
	Line       string // offending source line, without line terminator
	Token      string // offending GT token or column value
	Char       string // offending character for ErrIncorrectAllele
	Err        error  // underlying cause
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("vcf parse error")
	if e.Source != "" {
		fmt.Fprintf(&b, " in %s", e.Source)
	}
	if e.LineNumber > 0 {
		fmt.Fprintf(&b, " at line %d", e.LineNumber)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Char != "" {
		fmt.Fprintf(&b, " %q", e.Char)
	}
	if e.Token != "" {
		fmt.Fprintf(&b, " in %q", e.Token)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches an ErrorKind target against the error's kind.
func (e *ParseError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// KindOf returns the kind of the outermost *ParseError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
