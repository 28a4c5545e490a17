package validation

import "github.com/shopspring/decimal"

// OptionalDecimal tells an absent JSON field apart from an explicit null.
// Set is true whenever the field appeared in the payload.
type OptionalDecimal struct {
	Set   bool
	Value decimal.NullDecimal
}

func (o *OptionalDecimal) UnmarshalJSON(b []byte) error {
	o.Set = true
	return o.Value.UnmarshalJSON(b)
}
