package reservations

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lmendo/tripdesk/internal/app/handlers"
	"github.com/lmendo/tripdesk/internal/app/middleware"
	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/backend"
	"github.com/lmendo/tripdesk/internal/observability/metrics"
)

// ReservationAPI is the slice of the backend gateway these handlers need.
type ReservationAPI interface {
	ListMyReservations(ctx context.Context, token string) ([]models.Reservation, error)
	CancelReservation(ctx context.Context, token, id string) error
	CreateTourReservation(ctx context.Context, token string, res backend.TourReservation) (*models.Reservation, error)
}

type ReservationHandlers struct {
	api     ReservationAPI
	respond *handlers.Responder
	logger  *zap.Logger
}

func NewReservationHandlers(api ReservationAPI, respond *handlers.Responder, logger *zap.Logger) *ReservationHandlers {
	return &ReservationHandlers{api: api, respond: respond, logger: logger}
}

// HandleList returns the signed-in traveler's bookings.
func (h *ReservationHandlers) HandleList(c *gin.Context) {
	sess := middleware.GetSession(c)

	reservations, err := h.api.ListMyReservations(c.Request.Context(), sess.Token)
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

type tourReserveRequest struct {
	Date  string `json:"date" binding:"required"`
	Seats int    `json:"seats" binding:"required"`
}

// HandleReserveTour books seats on a tour departure. Tours are a single
// unit, so this is one call rather than a multi-line checkout.
func (h *ReservationHandlers) HandleReserveTour(c *gin.Context) {
	var req tourReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and seats are required"})
		return
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be a YYYY-MM-DD date"})
		return
	}
	if req.Seats <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "seats must be positive"})
		return
	}
	sess := middleware.GetSession(c)

	created, err := h.api.CreateTourReservation(c.Request.Context(), sess.Token, backend.TourReservation{
		TourID: c.Param("id"),
		Date:   date,
		Seats:  req.Seats,
	})
	if err != nil {
		metrics.ReservationLinesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		h.respond.Error(c, err)
		return
	}
	metrics.ReservationLinesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	c.JSON(http.StatusCreated, gin.H{"reservation": created})
}

// HandleCancel cancels one of the traveler's bookings. Ownership is enforced
// by the booking API against the bearer token.
func (h *ReservationHandlers) HandleCancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reservation id is required"})
		return
	}
	sess := middleware.GetSession(c)

	if err := h.api.CancelReservation(c.Request.Context(), sess.Token, id); err != nil {
		h.logger.Warn("Reservation cancel failed", zap.String("reservationID", id), zap.Error(err))
		h.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": id})
}
