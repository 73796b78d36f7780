package consolidator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmptyAmount = errors.New("empty amount")

// maxAmount bounds a single amount cell. Four slots of it still sum well
// inside int64.
var maxAmount = decimal.New(1, 15)

// amountCleaner removes thousands separators, currency marks and spacing
// that the ERP export leaves in formatted amount cells.
var amountCleaner = strings.NewReplacer(",", "", "₩", "", "원", "", " ", "", "\u00a0", "")

// ParseAmount parses an amount cell such as "1,234,000" or "1234.5".
// An empty cell returns errEmptyAmount so callers can tell "missing" apart
// from "malformed". Exponent notation and magnitudes of 10^15 or more are
// rejected as malformed.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := amountCleaner.Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}

	// Accounting notation: (1000) means -1000.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("can't convert %s to decimal: exponent notation", raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, fmt.Errorf("can't convert %s to decimal: out of range", raw)
	}
	return d, nil
}

// truncateToInt discards the fractional part, toward zero.
func truncateToInt(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(0)
}
