// Package discount validates promo codes and loyalty redemption requests.
package discount

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCodes is the canteen's promo table, code to percentage off the subtotal.
var DefaultCodes = map[string]int64{
	"WELCOME10": 10,
	"STUDENT15": 15,
	"FRIEND20":  20,
}

// Result is the outcome of validating a promo code.
type Result struct {
	Valid      bool
	Code       string
	Percentage decimal.Decimal
}

// Policy holds a fixed code table. The zero value has no codes.
type Policy struct {
	codes map[string]decimal.Decimal
}

// New builds a Policy from a code to percentage table. Keys are matched case-insensitively.
func New(codes map[string]int64) *Policy {
	p := &Policy{codes: make(map[string]decimal.Decimal, len(codes))}
	for code, pct := range codes {
		p.codes[normalize(code)] = decimal.NewFromInt(pct)
	}
	return p
}

// NewDefault returns the Policy for DefaultCodes.
func NewDefault() *Policy {
	return New(DefaultCodes)
}

// Validate looks up code. Unknown or empty codes are reported as invalid with 0%, never as an error.
func (p *Policy) Validate(code string) Result {
	key := normalize(code)
	if key == "" || p == nil {
		return Result{Percentage: decimal.Zero}
	}
	pct, ok := p.codes[key]
	if !ok {
		return Result{Percentage: decimal.Zero}
	}
	return Result{Valid: true, Code: key, Percentage: pct}
}

// CanRedeem reports whether a loyalty redemption would have any effect.
func (p *Policy) CanRedeem(balance decimal.Decimal) bool {
	return balance.IsPositive()
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
