package booking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/backend"
)

// ReservationAPI is the slice of the backend gateway the submitter needs.
type ReservationAPI interface {
	CreateRoomReservation(ctx context.Context, token string, res backend.RoomReservation) (*models.Reservation, error)
}

// Result reports the outcome of a multi-line submission. Succeeded lines are
// never rolled back; when a line fails, the ones before it stay booked
// server-side and are listed here so the caller can say so instead of hiding
// the partial state.
type Result struct {
	Created    []models.Reservation  `json:"created"`
	FailedLine *models.SelectionLine `json:"failedLine,omitempty"`
	Message    string                `json:"message,omitempty"`
	Err        error                 `json:"-"`
}

// OK reports whether every line was booked.
func (r *Result) OK() bool { return r.Err == nil }

// Submitter books one reservation per selection line, strictly in order.
type Submitter struct {
	api    ReservationAPI
	logger *zap.Logger
}

func NewSubmitter(api ReservationAPI, logger *zap.Logger) *Submitter {
	return &Submitter{api: api, logger: logger}
}

// validate rejects a request before any network call: the stay must span at
// least one night, at least one line must select something, and no line may
// exceed the unit's advertised availability. Zero-quantity lines are legal
// and skipped, matching how the quote prices them.
func (s *Submitter) validate(entry models.CatalogEntry, req models.ReservationRequest) error {
	if Nights(req.CheckIn, req.CheckOut) <= 0 {
		return models.ErrInvalidDates
	}

	available := make(map[string]int, len(entry.Units))
	for _, unit := range entry.Units {
		available[unit.ID] = unit.QuantityAvailable
	}
	selected := 0
	for _, line := range req.Lines {
		if line.Quantity < 0 {
			return fmt.Errorf("line %q has a negative quantity: %w", line.Label, models.ErrValidation)
		}
		if line.Quantity == 0 {
			continue
		}
		limit, known := available[line.UnitID]
		if !known {
			return fmt.Errorf("unit %s does not belong to %s: %w", line.UnitID, entry.ID, models.ErrBadRequest)
		}
		if line.Quantity > limit {
			return fmt.Errorf("%q: requested %d, only %d available: %w", line.Label, line.Quantity, limit, models.ErrQuantity)
		}
		selected++
	}
	if selected == 0 {
		return models.ErrNoSelection
	}
	return nil
}

// Submit sends one create-reservation request per line, sequentially and in
// order, stopping at the first failure. The serialization is a deliberate
// ordering guarantee: it caps the damage of a mid-checkout failure at the
// lines already confirmed.
func (s *Submitter) Submit(ctx context.Context, token string, entry models.CatalogEntry, req models.ReservationRequest) *Result {
	result := &Result{}

	if err := s.validate(entry, req); err != nil {
		result.Err = err
		result.Message = err.Error()
		return result
	}

	l := s.logger.With(zap.String("entryID", entry.ID), zap.Int("lines", len(req.Lines)))
	for i, line := range req.Lines {
		if line.Quantity == 0 {
			continue
		}
		created, err := s.api.CreateRoomReservation(ctx, token, backend.RoomReservation{
			UnitID:   line.UnitID,
			CheckIn:  req.CheckIn,
			CheckOut: req.CheckOut,
			Quantity: line.Quantity,
		})
		if err != nil {
			failed := line
			result.FailedLine = &failed
			result.Err = err
			result.Message = err.Error()
			l.Warn("Reservation line failed, halting remaining submissions",
				zap.Int("lineIndex", i),
				zap.String("unitID", line.UnitID),
				zap.Int("succeededSoFar", len(result.Created)),
				zap.Error(err))
			return result
		}
		result.Created = append(result.Created, *created)
	}

	l.Info("All reservation lines booked", zap.Int("created", len(result.Created)))
	return result
}
