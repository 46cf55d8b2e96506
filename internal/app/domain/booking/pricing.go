package booking

import (
	"fmt"
	"math"
	"time"

	"github.com/lmendo/tripdesk/internal/app/models"
)

// TaxRate is the flat tax applied on top of the aggregate total.
const TaxRate = 0.18

// Nights counts the calendar nights between check-in and check-out, rounding
// partial days up and clamping at zero. Check-out on or before check-in
// yields zero nights.
func Nights(checkIn, checkOut time.Time) int {
	in := truncateToDay(checkIn)
	out := truncateToDay(checkOut)
	if !out.After(in) {
		return 0
	}
	days := math.Ceil(out.Sub(in).Hours() / 24)
	return int(days)
}

// LineSubtotal prices one selection line. Intermediate values are never
// rounded; formatting to two decimals happens only at the presentation
// boundary.
func LineSubtotal(unitPrice float64, quantity, nights int) float64 {
	return unitPrice * float64(quantity) * float64(nights)
}

// QuoteLine is a priced selection line.
type QuoteLine struct {
	models.SelectionLine
	Subtotal float64 `json:"subtotal"`
}

// Quote is the aggregate price of a checkout: per-line subtotals, their sum,
// tax on the sum, and the grand total.
type Quote struct {
	Nights     int         `json:"nights"`
	Lines      []QuoteLine `json:"lines"`
	Total      float64     `json:"total"`
	Tax        float64     `json:"tax"`
	GrandTotal float64     `json:"grandTotal"`
}

// BuildQuote prices a validated selection over a stay. The date range must
// span at least one night and at least one line must carry a positive
// quantity; both are rejected here so nothing invalid ever reaches the
// network.
func BuildQuote(rng models.DateRange, lines []models.SelectionLine) (*Quote, error) {
	nights := Nights(rng.CheckIn, rng.CheckOut)
	if nights <= 0 {
		return nil, models.ErrInvalidDates
	}

	quote := &Quote{Nights: nights}
	for _, line := range lines {
		if line.Quantity < 0 {
			return nil, fmt.Errorf("line %q has negative quantity: %w", line.Label, models.ErrValidation)
		}
		if line.Quantity == 0 {
			continue
		}
		subtotal := LineSubtotal(line.UnitPrice, line.Quantity, nights)
		quote.Lines = append(quote.Lines, QuoteLine{SelectionLine: line, Subtotal: subtotal})
		quote.Total += subtotal
	}
	if len(quote.Lines) == 0 {
		return nil, models.ErrNoSelection
	}

	if quote.Total > 0 {
		quote.Tax = quote.Total * TaxRate
		quote.GrandTotal = quote.Total + quote.Tax
	}
	return quote, nil
}
