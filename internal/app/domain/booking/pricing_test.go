package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmendo/tripdesk/internal/app/models"
)

func day(value string) time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"three nights", day("2026-06-05"), day("2026-06-08"), 3},
		{"single night", day("2026-06-05"), day("2026-06-06"), 1},
		{"same day", day("2026-06-05"), day("2026-06-05"), 0},
		{"checkout before checkin clamps to zero", day("2026-06-08"), day("2026-06-05"), 0},
		{"time of day is ignored", day("2026-06-05").Add(23 * time.Hour), day("2026-06-06").Add(1 * time.Hour), 1},
		{"across month boundary", day("2026-06-29"), day("2026-07-02"), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nights(tt.checkIn, tt.checkOut))
		})
	}
}

func TestLineSubtotal(t *testing.T) {
	assert.Equal(t, 600.0, LineSubtotal(100, 2, 3))
	assert.Equal(t, 0.0, LineSubtotal(100, 0, 3))
	// No intermediate rounding
	assert.InDelta(t, 299.97, LineSubtotal(99.99, 1, 3), 1e-9)
}

func TestBuildQuote(t *testing.T) {
	rng := models.DateRange{CheckIn: day("2026-06-05"), CheckOut: day("2026-06-08")}

	t.Run("prices every line and applies tax on the sum", func(t *testing.T) {
		quote, err := BuildQuote(rng, []models.SelectionLine{
			{UnitID: "r1", Label: "Double", Quantity: 2, UnitPrice: 100},
			{UnitID: "r2", Label: "Suite", Quantity: 1, UnitPrice: 150},
		})
		require.NoError(t, err)

		assert.Equal(t, 3, quote.Nights)
		require.Len(t, quote.Lines, 2)
		assert.Equal(t, 600.0, quote.Lines[0].Subtotal)
		assert.Equal(t, 450.0, quote.Lines[1].Subtotal)
		assert.Equal(t, 1050.0, quote.Total)
		assert.InDelta(t, 189.0, quote.Tax, 1e-9)
		assert.InDelta(t, 1239.0, quote.GrandTotal, 1e-9)
	})

	t.Run("zero-quantity lines are skipped", func(t *testing.T) {
		quote, err := BuildQuote(rng, []models.SelectionLine{
			{UnitID: "r1", Quantity: 0, UnitPrice: 100},
			{UnitID: "r2", Quantity: 1, UnitPrice: 150},
		})
		require.NoError(t, err)
		require.Len(t, quote.Lines, 1)
		assert.Equal(t, "r2", quote.Lines[0].UnitID)
		assert.Equal(t, 450.0, quote.Total)
	})

	t.Run("rejects an invalid stay", func(t *testing.T) {
		bad := models.DateRange{CheckIn: day("2026-06-08"), CheckOut: day("2026-06-05")}
		_, err := BuildQuote(bad, []models.SelectionLine{{UnitID: "r1", Quantity: 1, UnitPrice: 100}})
		assert.ErrorIs(t, err, models.ErrInvalidDates)
	})

	t.Run("rejects an empty selection", func(t *testing.T) {
		_, err := BuildQuote(rng, nil)
		assert.ErrorIs(t, err, models.ErrNoSelection)

		_, err = BuildQuote(rng, []models.SelectionLine{{UnitID: "r1", Quantity: 0, UnitPrice: 100}})
		assert.ErrorIs(t, err, models.ErrNoSelection)
	})

	t.Run("rejects a negative quantity", func(t *testing.T) {
		_, err := BuildQuote(rng, []models.SelectionLine{{UnitID: "r1", Quantity: -1, UnitPrice: 100}})
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("free lines carry no tax", func(t *testing.T) {
		quote, err := BuildQuote(rng, []models.SelectionLine{{UnitID: "r1", Quantity: 1, UnitPrice: 0}})
		require.NoError(t, err)
		assert.Equal(t, 0.0, quote.Total)
		assert.Equal(t, 0.0, quote.Tax)
		assert.Equal(t, 0.0, quote.GrandTotal)
	})
}
