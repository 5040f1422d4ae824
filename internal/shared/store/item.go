package store

import (
	"github.com/shopspring/decimal"
)

// Item is a single table row. Attribute values are one of: string, bool,
// int, int64, float64, decimal.Decimal, []string, or nil (explicit null).
type Item map[string]interface{}

// PK returns the partition key.
func (it Item) PK() string { return it.String("pk") }

// SK returns the sort key.
func (it Item) SK() string { return it.String("sk") }

// String returns the attribute as a string, "" when absent or not a string.
func (it Item) String(key string) string {
	if s, ok := it[key].(string); ok {
		return s
	}
	return ""
}

// Int returns the attribute as an int, coercing the numeric types an item
// can round-trip through, 0 when absent.
func (it Item) Int(key string) int {
	switch v := it[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case decimal.Decimal:
		return int(v.IntPart())
	}
	return 0
}

// Decimal returns the attribute as a decimal, coercing ints and floats,
// zero when absent.
func (it Item) Decimal(key string) decimal.Decimal {
	switch v := it[key].(type) {
	case decimal.Decimal:
		return v
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case float64:
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}

// StringSlice returns the attribute as a []string, nil when absent.
func (it Item) StringSlice(key string) []string {
	switch v := it[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			if s, ok := elem.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Has reports whether the attribute is present and non-null.
func (it Item) Has(key string) bool {
	v, ok := it[key]
	return ok && v != nil
}

// Clone returns a shallow-plus-slices copy safe to hand across goroutines.
func (it Item) Clone() Item {
	out := make(Item, len(it))
	for k, v := range it {
		if s, ok := v.([]string); ok {
			cp := make([]string, len(s))
			copy(cp, s)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}
