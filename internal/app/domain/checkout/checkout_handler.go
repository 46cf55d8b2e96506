package checkout

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lmendo/tripdesk/internal/app/domain/booking"
	"github.com/lmendo/tripdesk/internal/app/handlers"
	"github.com/lmendo/tripdesk/internal/app/middleware"
	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/observability/metrics"
)

// EntryFetcher loads the catalog entry a checkout is priced against.
type EntryFetcher interface {
	GetHotel(ctx context.Context, id string) (*models.CatalogEntry, error)
}

type CheckoutHandlers struct {
	entries   EntryFetcher
	submitter *booking.Submitter
	respond   *handlers.Responder
	logger    *zap.Logger
}

func NewCheckoutHandlers(entries EntryFetcher, submitter *booking.Submitter, respond *handlers.Responder, logger *zap.Logger) *CheckoutHandlers {
	return &CheckoutHandlers{entries: entries, submitter: submitter, respond: respond, logger: logger}
}

type selectionInput struct {
	UnitID   string `json:"unitId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type checkoutRequest struct {
	EntryID  string           `json:"entryId" binding:"required"`
	CheckIn  string           `json:"checkIn" binding:"required"`
	CheckOut string           `json:"checkOut" binding:"required"`
	Customer models.Customer  `json:"customer"`
	Lines    []selectionInput `json:"lines" binding:"required"`
}

// resolve validates the request against the live catalog entry: dates must
// parse, every unit must belong to the entry, and prices and labels are
// taken from the catalog, never from the client.
func (h *CheckoutHandlers) resolve(ctx context.Context, req checkoutRequest) (*models.CatalogEntry, models.DateRange, []models.SelectionLine, error) {
	var rng models.DateRange

	in, err := time.Parse(time.DateOnly, req.CheckIn)
	if err != nil {
		return nil, rng, nil, fmt.Errorf("checkIn must be a YYYY-MM-DD date: %w", models.ErrBadRequest)
	}
	out, err := time.Parse(time.DateOnly, req.CheckOut)
	if err != nil {
		return nil, rng, nil, fmt.Errorf("checkOut must be a YYYY-MM-DD date: %w", models.ErrBadRequest)
	}
	rng = models.DateRange{CheckIn: in, CheckOut: out}

	entry, err := h.entries.GetHotel(ctx, req.EntryID)
	if err != nil {
		return nil, rng, nil, err
	}

	units := make(map[string]models.Unit, len(entry.Units))
	for _, unit := range entry.Units {
		units[unit.ID] = unit
	}

	lines := make([]models.SelectionLine, 0, len(req.Lines))
	for _, sel := range req.Lines {
		unit, ok := units[sel.UnitID]
		if !ok {
			return nil, rng, nil, fmt.Errorf("unit %s does not belong to %s: %w", sel.UnitID, entry.ID, models.ErrBadRequest)
		}
		lines = append(lines, models.SelectionLine{
			UnitID:    unit.ID,
			Label:     unit.Name,
			Quantity:  sel.Quantity,
			UnitPrice: unit.PricePerNight,
		})
	}
	return entry, rng, lines, nil
}

// HandleQuote prices a selection without booking anything.
func (h *CheckoutHandlers) HandleQuote(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entryId, dates and lines are required"})
		return
	}

	_, rng, lines, err := h.resolve(c.Request.Context(), req)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	quote, err := booking.BuildQuote(rng, lines)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, quoteResponse(quote))
}

// HandleSubmit prices and books a checkout: one reservation call per line,
// in order, halting on the first failure.
func (h *CheckoutHandlers) HandleSubmit(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entryId, dates and lines are required"})
		return
	}

	entry, rng, lines, err := h.resolve(c.Request.Context(), req)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	// Quote first: invalid dates or an empty selection never reach the
	// network.
	quote, err := booking.BuildQuote(rng, lines)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	sess := middleware.GetSession(c)
	request := models.ReservationRequest{
		EntryID:    entry.ID,
		Customer:   req.Customer,
		CheckIn:    rng.CheckIn,
		CheckOut:   rng.CheckOut,
		Nights:     quote.Nights,
		Lines:      lines,
		TotalPrice: quote.Total,
	}

	result := h.submitter.Submit(c.Request.Context(), sess.Token, *entry, request)
	for range result.Created {
		metrics.ReservationLinesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	}

	if !result.OK() {
		metrics.ReservationLinesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		h.respond.DropOn401(c, result.Err)
		payload := gin.H{
			"error":      handlers.Message(result.Err),
			"failedLine": result.FailedLine,
			"created":    result.Created,
		}
		if len(result.Created) > 0 {
			payload["note"] = "lines booked before the failure remain booked"
		}
		c.JSON(handlers.StatusFor(result.Err), payload)
		return
	}

	response := quoteResponse(quote)
	response["reservations"] = result.Created
	c.JSON(http.StatusCreated, response)
}

// quoteResponse carries the exact figures plus display strings rounded at
// this boundary only.
func quoteResponse(quote *booking.Quote) gin.H {
	return gin.H{
		"quote": quote,
		"display": gin.H{
			"total":      handlers.Money(quote.Total),
			"tax":        handlers.Money(quote.Tax),
			"grandTotal": handlers.Money(quote.GrandTotal),
		},
	}
}
