package handler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// number accepts a JSON number or a numeric string. null, "" and an absent
// field all leave it unset.
type number struct {
	Value decimal.Decimal
	Set   bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = number{}
		return nil
	}
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" {
		*n = number{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*n = number{Value: d, Set: true}
	return nil
}

// Float returns the value as a float pointer, nil when unset.
func (n number) Float() *float64 {
	if !n.Set {
		return nil
	}
	f := n.Value.InexactFloat64()
	return &f
}

// Decimal returns the value, zero when unset.
func (n number) Decimal() decimal.Decimal {
	if !n.Set {
		return decimal.Zero
	}
	return n.Value
}

// ID returns the value as a positive integer id.
func (n number) ID() (int64, bool) {
	if !n.Set || !n.Value.IsInteger() || !n.Value.IsPositive() {
		return 0, false
	}
	return n.Value.IntPart(), true
}
