package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lmendo/tripdesk/internal/app/models"
)

func openEntry() models.CatalogEntry {
	return models.CatalogEntry{
		ID:       "h1",
		Name:     "Hotel Miraflores",
		Location: "Lima",
		District: "Miraflores",
		Capacity: models.Capacity{Adults: 4, Children: 2, Units: 3},
		Availability: models.Availability{
			From: day("2026-06-01"),
			To:   day("2026-06-30"),
		},
		Active: true,
	}
}

func TestFitsParty(t *testing.T) {
	t.Run("within capacity on every axis", func(t *testing.T) {
		assert.True(t, FitsParty(openEntry(), models.Party{Adults: 4, Children: 2, Units: 3}))
	})

	t.Run("over capacity on one axis", func(t *testing.T) {
		assert.False(t, FitsParty(openEntry(), models.Party{Adults: 2, Children: 3, Units: 1}))
	})

	t.Run("empty party fits anything", func(t *testing.T) {
		assert.True(t, FitsParty(models.CatalogEntry{}, models.Party{}))
	})
}

func TestIsAvailable(t *testing.T) {
	stay := models.DateRange{CheckIn: day("2026-06-05"), CheckOut: day("2026-06-10")}
	party := models.Party{Adults: 2, Children: 1, Units: 1}

	t.Run("fits capacity and window", func(t *testing.T) {
		assert.True(t, IsAvailable(openEntry(), stay, party))
	})

	t.Run("too many adults", func(t *testing.T) {
		assert.False(t, IsAvailable(openEntry(), stay, models.Party{Adults: 5, Children: 1, Units: 1}))
	})

	t.Run("too many children", func(t *testing.T) {
		assert.False(t, IsAvailable(openEntry(), stay, models.Party{Adults: 2, Children: 3, Units: 1}))
	})

	t.Run("too many units", func(t *testing.T) {
		assert.False(t, IsAvailable(openEntry(), stay, models.Party{Adults: 2, Children: 1, Units: 4}))
	})

	t.Run("check-in before window opens", func(t *testing.T) {
		early := models.DateRange{CheckIn: day("2026-05-30"), CheckOut: day("2026-06-05")}
		assert.False(t, IsAvailable(openEntry(), early, party))
	})

	t.Run("check-out after window closes", func(t *testing.T) {
		late := models.DateRange{CheckIn: day("2026-06-25"), CheckOut: day("2026-07-02")}
		assert.False(t, IsAvailable(openEntry(), late, party))
	})

	t.Run("boundary dates are inclusive", func(t *testing.T) {
		exact := models.DateRange{CheckIn: day("2026-06-01"), CheckOut: day("2026-06-30")}
		assert.True(t, IsAvailable(openEntry(), exact, party))
	})

	t.Run("missing window excludes the entry", func(t *testing.T) {
		entry := openEntry()
		entry.Availability = models.Availability{}
		assert.False(t, IsAvailable(entry, stay, party))

		entry.Availability = models.Availability{From: day("2026-06-01")}
		assert.False(t, IsAvailable(entry, stay, party))
	})

	t.Run("time of day does not shift the window", func(t *testing.T) {
		entry := openEntry()
		entry.Availability.To = day("2026-06-30").Add(6 * time.Hour)
		boundary := models.DateRange{
			CheckIn:  day("2026-06-05").Add(22 * time.Hour),
			CheckOut: day("2026-06-30").Add(11 * time.Hour),
		}
		assert.True(t, IsAvailable(entry, boundary, party))
	})
}

func TestMatchesQuery(t *testing.T) {
	entry := openEntry()

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"empty query matches", "", true},
		{"whitespace only matches", "   ", true},
		{"by name", "miraflores", true},
		{"by location", "LIMA", true},
		{"by district", "Miraflores", true},
		{"partial substring", "iraflo", true},
		{"no match", "cusco", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesQuery(entry, tt.query))
		})
	}
}
