package printspec

// Pricing holds the fixed checkout price and cost estimates, in minor
// currency units.
type Pricing struct {
	BookPriceCents          int64  `json:"bookPriceCents" toml:"book_price_cents"`
	EstimatedPrintCostCents int64  `json:"estimatedPrintCostCents" toml:"estimated_print_cost_cents"`
	EstimatedShippingCents  int64  `json:"estimatedShippingCents" toml:"estimated_shipping_cents"`
	Currency                string `json:"currency" toml:"currency"`
}

// DefaultPricing is what checkout charges unless configuration overrides it.
var DefaultPricing = Pricing{
	BookPriceCents:          4999,
	EstimatedPrintCostCents: 1500,
	EstimatedShippingCents:  799,
	Currency:                "usd",
}

// EstimatedMarginCents is price minus print and shipping estimates.
func (p Pricing) EstimatedMarginCents() int64 {
	return p.BookPriceCents - p.EstimatedPrintCostCents - p.EstimatedShippingCents
}
