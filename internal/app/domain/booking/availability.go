package booking

import (
	"strings"
	"time"

	"github.com/lmendo/tripdesk/internal/app/models"
)

// FitsParty reports whether the entry's capacity can host the party. It is
// checked on every search, dated or not.
func FitsParty(entry models.CatalogEntry, party models.Party) bool {
	if party.Adults > entry.Capacity.Adults {
		return false
	}
	if party.Children > entry.Capacity.Children {
		return false
	}
	if party.Units > entry.Capacity.Units {
		return false
	}
	return true
}

// IsAvailable decides whether a catalog entry can host the requested party
// over the requested range. Checks run in order and short-circuit on the
// first failure: capacity first, then the calendar window. Entries with a
// missing or unparseable availability window are excluded outright.
func IsAvailable(entry models.CatalogEntry, rng models.DateRange, party models.Party) bool {
	if !FitsParty(entry, party) {
		return false
	}

	from := entry.Availability.From
	to := entry.Availability.To
	if from.IsZero() || to.IsZero() {
		return false
	}

	checkIn := truncateToDay(rng.CheckIn)
	checkOut := truncateToDay(rng.CheckOut)
	if checkIn.Before(truncateToDay(from)) {
		return false
	}
	if checkOut.After(truncateToDay(to)) {
		return false
	}
	return true
}

// MatchesQuery is the text predicate ANDed with availability by the search
// service: a case-insensitive substring match over name and location fields.
// An empty query matches everything.
func MatchesQuery(entry models.CatalogEntry, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{entry.Name, entry.Location, entry.District} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// truncateToDay drops the time of day so comparisons are calendar-date only.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
