package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a spreadsheet amount written either as "1.234,56" or as
// "1,234.56". When only one kind of separator appears, commaDecimal decides
// whether a lone comma is the decimal mark. Currency symbols and spaces are
// ignored.
func ParseAmount(s string, commaDecimal bool) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			return r
		}

		return -1
	}, s)

	if clean == "" {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}

	lastDot := strings.LastIndexByte(clean, '.')
	lastComma := strings.LastIndexByte(clean, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			clean = europeanToPlain(clean)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		if commaDecimal && strings.Count(clean, ",") == 1 {
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	return d, nil
}

func europeanToPlain(s string) string {
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, ",", ".")
}
