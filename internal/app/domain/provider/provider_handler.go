package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lmendo/tripdesk/internal/app/handlers"
	"github.com/lmendo/tripdesk/internal/app/middleware"
	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/backend"
)

// ListingAPI is the slice of the backend gateway provider handlers need.
type ListingAPI interface {
	ListAllHotels(ctx context.Context) ([]models.CatalogEntry, error)
	ListAllTours(ctx context.Context) ([]models.CatalogEntry, error)
	CreateListing(ctx context.Context, token string, in backend.ListingInput) (*models.CatalogEntry, error)
	UpdateListing(ctx context.Context, token string, kind models.EntryKind, id string, in backend.ListingInput) (*models.CatalogEntry, error)
	DeactivateListing(ctx context.Context, token string, kind models.EntryKind, id string) error
	DeleteListing(ctx context.Context, token string, kind models.EntryKind, id string) error
}

type ProviderHandlers struct {
	api     ListingAPI
	respond *handlers.Responder
	logger  *zap.Logger
}

func NewProviderHandlers(api ListingAPI, respond *handlers.Responder, logger *zap.Logger) *ProviderHandlers {
	return &ProviderHandlers{api: api, respond: respond, logger: logger}
}

type listingRequest struct {
	Kind          string   `json:"kind"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Location      string   `json:"location"`
	District      string   `json:"district"`
	Address       string   `json:"address"`
	Stars         int      `json:"stars"`
	Description   string   `json:"description"`
	ImageURLs     []string `json:"imageUrls"`
	PricePerNight float64  `json:"pricePerNight"`
	Adults        int      `json:"adults"`
	Children      int      `json:"children"`
	Units         int      `json:"units"`
	AvailableFrom string   `json:"availableFrom"`
	AvailableTo   string   `json:"availableTo"`
	Active        *bool    `json:"active"`
}

func (r listingRequest) input() (backend.ListingInput, error) {
	in := backend.ListingInput{
		Kind:          models.EntryKind(r.Kind),
		Name:          r.Name,
		Category:      r.Category,
		Location:      r.Location,
		District:      r.District,
		Address:       r.Address,
		Stars:         r.Stars,
		Description:   r.Description,
		ImageURLs:     r.ImageURLs,
		PricePerNight: r.PricePerNight,
		Active:        r.Active,
	}
	if r.Adults > 0 || r.Children > 0 || r.Units > 0 {
		in.Capacity = &models.Capacity{Adults: r.Adults, Children: r.Children, Units: r.Units}
	}
	if r.AvailableFrom != "" || r.AvailableTo != "" {
		from, err := time.Parse(time.DateOnly, r.AvailableFrom)
		if err != nil {
			return in, fmt.Errorf("availableFrom must be a YYYY-MM-DD date: %w", models.ErrBadRequest)
		}
		to, err := time.Parse(time.DateOnly, r.AvailableTo)
		if err != nil {
			return in, fmt.Errorf("availableTo must be a YYYY-MM-DD date: %w", models.ErrBadRequest)
		}
		in.Availability = &models.Availability{From: from, To: to}
	}
	return in, nil
}

// parseKind reads the :kind route segment. Only hotel and tour exist.
func parseKind(c *gin.Context) (models.EntryKind, bool) {
	kind := models.EntryKind(c.Param("kind"))
	if kind != models.KindHotel && kind != models.KindTour {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be hotel or tour"})
		return "", false
	}
	return kind, true
}

// HandleListings returns every entry owned by the signed-in provider,
// inactive ones included.
func (h *ProviderHandlers) HandleListings(c *gin.Context) {
	sess := middleware.GetSession(c)
	ctx := c.Request.Context()

	hotels, err := h.api.ListAllHotels(ctx)
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	tours, err := h.api.ListAllTours(ctx)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	owned := make([]models.CatalogEntry, 0)
	for _, entry := range append(hotels, tours...) {
		if entry.ProviderID == sess.User.ID {
			owned = append(owned, entry)
		}
	}
	c.JSON(http.StatusOK, gin.H{"listings": owned})
}

// HandleCreate creates a listing owned by the signed-in provider.
func (h *ProviderHandlers) HandleCreate(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing payload"})
		return
	}
	in, err := req.input()
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	if in.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	sess := middleware.GetSession(c)
	entry, err := h.api.CreateListing(c.Request.Context(), sess.Token, in)
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	h.logger.Info("Listing created", zap.String("entryID", entry.ID), zap.String("kind", string(entry.Kind)))
	c.JSON(http.StatusCreated, gin.H{"listing": entry})
}

// HandleUpdate edits one listing. Only fields present in the payload change.
func (h *ProviderHandlers) HandleUpdate(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing payload"})
		return
	}
	in, err := req.input()
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	sess := middleware.GetSession(c)
	entry, err := h.api.UpdateListing(c.Request.Context(), sess.Token, kind, c.Param("id"), in)
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": entry})
}

// HandleDeactivate soft-deletes a listing: it disappears from search but the
// record and its reservations survive.
func (h *ProviderHandlers) HandleDeactivate(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	sess := middleware.GetSession(c)
	id := c.Param("id")

	if err := h.api.DeactivateListing(c.Request.Context(), sess.Token, kind, id); err != nil {
		h.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deactivated": id})
}

// HandleDelete removes a listing permanently.
func (h *ProviderHandlers) HandleDelete(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	sess := middleware.GetSession(c)
	id := c.Param("id")

	if err := h.api.DeleteListing(c.Request.Context(), sess.Token, kind, id); err != nil {
		h.logger.Warn("Listing delete failed", zap.String("entryID", id), zap.Error(err))
		h.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
