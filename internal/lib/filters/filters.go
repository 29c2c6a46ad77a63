// Package filters parses list-endpoint query parameters into predicate
// values the storage layer can apply. Each request builds its own Budget
// value from scratch; nothing here is shared between requests.
package filters

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/olehkozachenko/budget-api/internal/domain/models"
)

var (
	ErrBadRange        = errors.New("balance_range must contain exactly two values")
	ErrBadDecimal      = errors.New("malformed decimal value")
	ErrUnknownCurrency = errors.New("unknown currency code")
)

// Budget narrows a budget list query. Nil pointers and an empty currency
// slice mean no constraint from that predicate. All predicates combine
// with AND.
type Budget struct {
	Balance    *decimal.Decimal
	MinBalance *decimal.Decimal
	MaxBalance *decimal.Decimal
	Currencies []string
}

// ParseBudget reads the balance, balance_range and currencies query
// parameters. An absent or empty parameter contributes no predicate.
func ParseBudget(values url.Values) (Budget, error) {
	var f Budget

	if raw := values.Get("balance_range"); raw != "" {
		if err := parseBalanceRange(raw, &f); err != nil {
			return Budget{}, err
		}
	}

	if raw := values.Get("balance"); raw != "" {
		d, err := parseDecimal(raw)
		if err != nil {
			return Budget{}, err
		}
		f.Balance = &d
	}

	if raw := values.Get("currencies"); raw != "" {
		codes, err := parseCurrencies(raw)
		if err != nil {
			return Budget{}, err
		}
		f.Currencies = codes
	}

	return f, nil
}

// parseBalanceRange handles "min,max" with either bound optionally left
// empty. A range with both bounds empty is rejected rather than treated as
// a no-op.
func parseBalanceRange(raw string, f *Budget) error {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		lo, err := parseDecimal(parts[0])
		if err != nil {
			return err
		}
		hi, err := parseDecimal(parts[1])
		if err != nil {
			return err
		}
		f.MinBalance = &lo
		f.MaxBalance = &hi
		return nil
	}

	if parts[0] != "" {
		lo, err := parseDecimal(parts[0])
		if err != nil {
			return err
		}
		f.MinBalance = &lo
		return nil
	}

	if len(parts) > 1 && parts[1] != "" {
		hi, err := parseDecimal(parts[1])
		if err != nil {
			return err
		}
		f.MaxBalance = &hi
		return nil
	}

	return ErrBadRange
}

func parseCurrencies(raw string) ([]string, error) {
	var codes []string
	for _, part := range strings.Split(raw, ",") {
		code := strings.ToUpper(strings.TrimSpace(part))
		if !models.SupportedCurrency(code) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCurrency, part)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrBadDecimal, s)
	}
	return d, nil
}
