package filter

import (
	"fmt"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ticker/pkg/errors"
	"github.com/shopspring/decimal"
)

// Field identifies one user-editable filter input.
type Field int

const (
	FieldNamePattern Field = iota
	FieldMinPrice
	FieldPriceChange
)

// Fields lists the editable fields in input order.
var Fields = []Field{FieldNamePattern, FieldMinPrice, FieldPriceChange}

func (f Field) String() string {
	switch f {
	case FieldNamePattern:
		return "name"
	case FieldMinPrice:
		return "minPrice"
	case FieldPriceChange:
		return "priceChange"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// ParseField maps a field name back to its Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}

	return 0, errors.Newf(errors.ErrCodeInvalidFilterField, "unknown filter field: %s", name)
}

// Threshold bounds the percent price change.
// Below selects a strict less-than comparison, otherwise strict greater-than.
type Threshold struct {
	Value decimal.Decimal
	Below bool
}

// Match reports whether change passes the threshold.
// Equality never matches, so a zero threshold drops rows with exactly zero change.
func (t Threshold) Match(change decimal.Decimal) bool {
	if t.Below {
		return change.LessThan(t.Value)
	}

	return change.GreaterThan(t.Value)
}

func (t Threshold) String() string {
	if t.Below {
		return "< " + t.Value.String()
	}

	return "> " + t.Value.String()
}

// Criteria holds the user-supplied filter parameters. The zero value has every field unset.
type Criteria struct {
	NamePattern          optional.Option[string]
	MinPrice             optional.Option[decimal.Decimal]
	PriceChangeThreshold optional.Option[Threshold]
}

// NewCriteria returns criteria with every field unset.
func NewCriteria() Criteria {
	return Criteria{
		NamePattern:          optional.None[string](),
		MinPrice:             optional.None[decimal.Decimal](),
		PriceChangeThreshold: optional.None[Threshold](),
	}
}

// ParseCriteria builds criteria from the raw text of all three inputs.
func ParseCriteria(name, minPrice, priceChange string) Criteria {
	return Criteria{
		NamePattern:          ParseName(name),
		MinPrice:             ParseDecimal(minPrice),
		PriceChangeThreshold: ParseThreshold(priceChange),
	}
}

// Set replaces a single field from the raw input text.
// Numeric fields holding anything that is not a number become unset.
func (c *Criteria) Set(field Field, raw string) error {
	switch field {
	case FieldNamePattern:
		c.NamePattern = ParseName(raw)
	case FieldMinPrice:
		c.MinPrice = ParseDecimal(raw)
	case FieldPriceChange:
		c.PriceChangeThreshold = ParseThreshold(raw)
	default:
		return errors.Newf(errors.ErrCodeInvalidFilterField, "unknown filter field: %d", int(field))
	}

	return nil
}

// IsEmpty reports whether no field is set.
func (c Criteria) IsEmpty() bool {
	return c.NamePattern.IsNone() && c.MinPrice.IsNone() && c.PriceChangeThreshold.IsNone()
}

// String renders the active fields for status lines, e.g. `name~btc price>=100 change>2`.
func (c Criteria) String() string {
	parts := make([]string, 0, 3)

	if c.NamePattern.IsSome() {
		parts = append(parts, "name~"+c.NamePattern.Unwrap())
	}

	if c.MinPrice.IsSome() {
		parts = append(parts, "price>="+c.MinPrice.Unwrap().String())
	}

	if c.PriceChangeThreshold.IsSome() {
		parts = append(parts, "change"+strings.ReplaceAll(c.PriceChangeThreshold.Unwrap().String(), " ", ""))
	}

	if len(parts) == 0 {
		return "none"
	}

	return strings.Join(parts, " ")
}

// ParseName treats an empty pattern as unset.
func ParseName(raw string) optional.Option[string] {
	if raw == "" {
		return optional.None[string]()
	}

	return optional.Some(raw)
}

// ParseDecimal parses a numeric input. Blank or non-numeric text is unset.
func ParseDecimal(raw string) optional.Option[decimal.Decimal] {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return optional.None[decimal.Decimal]()
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return optional.None[decimal.Decimal]()
	}

	return optional.Some(d)
}

// ParseThreshold parses the price change input.
// The direction follows the typed sign, so "-0" means "below zero".
func ParseThreshold(raw string) optional.Option[Threshold] {
	value := ParseDecimal(raw)
	if value.IsNone() {
		return optional.None[Threshold]()
	}

	return optional.Some(Threshold{
		Value: value.Unwrap(),
		Below: strings.HasPrefix(strings.TrimSpace(raw), "-"),
	})
}
