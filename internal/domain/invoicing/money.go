package invoicing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds to cents
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineAmounts holds the computed money fields of one invoice line
type LineAmounts struct {
	DiscountAmount decimal.Decimal
	Subtotal       decimal.Decimal
}

// ComputeLine returns discount = qty*price*pct/100 and subtotal = qty*price - discount
func ComputeLine(quantity int, unitPrice, discountPercent decimal.Decimal) LineAmounts {
	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	discount := RoundMoney(gross.Mul(discountPercent).Div(hundred))
	return LineAmounts{
		DiscountAmount: discount,
		Subtotal:       RoundMoney(gross.Sub(discount)),
	}
}

// Totals holds the derived money fields of an invoice
type Totals struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// ComputeTotals sums the item subtotals and applies tax and the invoice-level discount:
// tax = subtotal*taxRate/100, total = subtotal + tax - discount.
func ComputeTotals(items []InvoiceItem, taxRate, discountAmount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	tax := RoundMoney(subtotal.Mul(taxRate).Div(hundred))
	return Totals{
		Subtotal:    subtotal,
		TaxAmount:   tax,
		TotalAmount: subtotal.Add(tax).Sub(discountAmount),
	}
}
