package cart

import "github.com/shopspring/decimal"

// TaxRate is the fixed tax rate applied to the cart subtotal.
var TaxRate = decimal.RequireFromString("0.10")

// Totals holds the amounts derived from the current cart contents. It is
// never stored: recompute it from the cart on every read. Values are
// exact; rounding and currency formatting happen at the presentation
// boundary.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// CalculateTotals derives subtotal, tax, and total from the given lines.
// An empty slice yields all-zero totals.
func CalculateTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		subtotal = subtotal.Add(line.Item.Price.Mul(qty))
	}

	tax := subtotal.Mul(TaxRate)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Totals derives the amounts for the cart's current contents.
func (c Cart) Totals() Totals {
	return CalculateTotals(c.lines)
}
