package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lmendo/tripdesk/internal/app/middleware"
	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/backend"
	"github.com/lmendo/tripdesk/internal/pkg/config"
)

// SessionEnder drops a local session by ID.
type SessionEnder interface {
	Invalidate(sessionID string)
}

// Responder writes error responses for routes that call the backend with a
// bearer token. A 401 from any such call means the token is dead: the local
// session is dropped and the cookie cleared before the response goes out, so
// the next request resolves as anonymous and the guards send it to login.
type Responder struct {
	cfg      config.SessionConfig
	sessions SessionEnder
}

func NewResponder(cfg config.SessionConfig, sessions SessionEnder) *Responder {
	return &Responder{cfg: cfg, sessions: sessions}
}

// DropOn401 tears the local session down when err is a token rejection. It
// must run before the response body is written so the cleared cookie still
// makes it into the headers.
func (r *Responder) DropOn401(c *gin.Context, err error) {
	if !errors.Is(err, models.ErrUnauthenticated) {
		return
	}
	if sess := middleware.GetSession(c); sess != nil {
		r.sessions.Invalidate(sess.ID)
	}
	middleware.ClearSessionCookie(c, r.cfg)
}

func (r *Responder) Error(c *gin.Context, err error) {
	r.DropOn401(c, err)
	Error(c, err)
}

// StatusFor maps the error taxonomy onto HTTP statuses for the browser.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInvalidDates),
		errors.Is(err, models.ErrNoSelection),
		errors.Is(err, models.ErrQuantity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrUnreachable), errors.Is(err, models.ErrServer):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message for an error. Gateway errors
// already carry a safe message; anything else falls back on the error text,
// which by policy never contains raw transport detail.
func Message(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// Error writes the standard error payload.
func Error(c *gin.Context, err error) {
	c.JSON(StatusFor(err), gin.H{"error": Message(err)})
}

// Money renders a currency amount with two decimals. This is the only place
// rounding happens; computations upstream stay exact.
func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
