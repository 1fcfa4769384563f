package vcf

import "strings"

// gtFieldID is the FORMAT key that holds allele calls.
const gtFieldID = "GT"

// formatCache memoizes the layout of the FORMAT column. Most files use one
// FORMAT string for every line, so the layout is only rebuilt when the
// string changes.
type formatCache struct {
	format  string         // last FORMAT column seen, verbatim
	index   map[string]int // sub-field name -> position
	gtIndex int
	valid   bool
}

// update makes the cache describe format. It reports whether the layout
// was rebuilt. A FORMAT without GT leaves the cache empty, so the next line
// is evaluated from scratch.
func (c *formatCache) update(format string) (bool, error) {
	if c.valid && format == c.format {
		return false, nil
	}

	fields := strings.Split(format, ":")
	index := make(map[string]int, len(fields))
	for i, name := range fields {
		index[name] = i
	}

	gt, ok := index[gtFieldID]
	if !ok {
		c.reset()
		return true, &ParseError{Kind: ErrGenotypeNotFoundInFormat, Token: format}
	}

	c.format = format
	c.index = index
	c.gtIndex = gt
	c.valid = true
	return true, nil
}

func (c *formatCache) reset() {
	*c = formatCache{}
}
