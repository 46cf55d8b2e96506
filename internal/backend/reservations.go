package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lmendo/tripdesk/internal/app/models"
)

// RoomReservation is one create-reservation call: a single room type for a
// stay. Multi-room checkouts submit one of these per selected line.
type RoomReservation struct {
	UnitID   string
	CheckIn  time.Time
	CheckOut time.Time
	Quantity int
}

// CreateRoomReservation books quantity units of one room type. Requires a
// traveler token.
func (c *Client) CreateRoomReservation(ctx context.Context, token string, res RoomReservation) (*models.Reservation, error) {
	payload := map[string]any{
		"habitacion_id": res.UnitID,
		"fecha_inicio":  formatDate(res.CheckIn),
		"fecha_fin":     formatDate(res.CheckOut),
		"cantidad":      res.Quantity,
	}
	raw, err := c.do(ctx, token, http.MethodPost, "/reservas-habitaciones", payload)
	if err != nil {
		return nil, err
	}

	obj, err := unwrapObject(raw)
	if err != nil {
		return nil, fmt.Errorf("reservation response: %w", err)
	}
	var w wireReservation
	if err := json.Unmarshal(obj, &w); err != nil {
		return nil, fmt.Errorf("decode created reservation: %w", err)
	}
	created := w.toReservation()
	return &created, nil
}

// TourReservation books seats on a tour departure.
type TourReservation struct {
	TourID string
	Date   time.Time
	Seats  int
}

func (c *Client) CreateTourReservation(ctx context.Context, token string, res TourReservation) (*models.Reservation, error) {
	payload := map[string]any{
		"tour_id":  res.TourID,
		"fecha":    formatDate(res.Date),
		"cantidad": res.Seats,
	}
	raw, err := c.do(ctx, token, http.MethodPost, "/reservas/tours", payload)
	if err != nil {
		return nil, err
	}

	obj, err := unwrapObject(raw)
	if err != nil {
		return nil, fmt.Errorf("tour reservation response: %w", err)
	}
	var w wireReservation
	if err := json.Unmarshal(obj, &w); err != nil {
		return nil, fmt.Errorf("decode created tour reservation: %w", err)
	}
	created := w.toReservation()
	return &created, nil
}

// ListMyReservations returns the authenticated traveler's bookings.
func (c *Client) ListMyReservations(ctx context.Context, token string) ([]models.Reservation, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/mis-reservas", nil)
	if err != nil {
		return nil, err
	}

	items, err := unwrapList(raw)
	if err != nil {
		return nil, fmt.Errorf("reservation listing: %w", err)
	}

	reservations := make([]models.Reservation, 0, len(items))
	for _, item := range items {
		var w wireReservation
		if err := json.Unmarshal(item, &w); err != nil {
			return nil, fmt.Errorf("decode reservation: %w", err)
		}
		reservations = append(reservations, w.toReservation())
	}
	return reservations, nil
}

// CancelReservation cancels one booking owned by the token's user.
func (c *Client) CancelReservation(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, token, http.MethodPost, "/reservas-habitaciones/"+id+"/cancelar", struct{}{})
	return err
}
