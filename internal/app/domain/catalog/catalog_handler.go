package catalog

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lmendo/tripdesk/internal/app/handlers"
	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/observability/metrics"
)

type CatalogHandlers struct {
	service CatalogService
	logger  *zap.Logger
}

func NewCatalogHandlers(service CatalogService, logger *zap.Logger) *CatalogHandlers {
	return &CatalogHandlers{service: service, logger: logger}
}

// parseSearchParams reads the search box fields from the query string.
// Dates are optional as a pair: browsing without them skips the
// availability window, a half-specified or malformed pair is rejected.
func parseSearchParams(c *gin.Context) (SearchParams, error) {
	params := SearchParams{
		Query: c.Query("q"),
		Party: models.Party{
			Adults:   intQuery(c, "adults", 1),
			Children: intQuery(c, "children", 0),
			Units:    intQuery(c, "units", 1),
		},
	}
	if params.Query == "" {
		params.Query = c.Query("location")
	}

	checkIn := c.Query("checkIn")
	checkOut := c.Query("checkOut")
	if checkIn == "" && checkOut == "" {
		return params, nil
	}
	if checkIn == "" || checkOut == "" {
		return params, fmt.Errorf("checkIn and checkOut must be provided together")
	}

	in, err := time.Parse(time.DateOnly, checkIn)
	if err != nil {
		return params, fmt.Errorf("checkIn must be a YYYY-MM-DD date")
	}
	out, err := time.Parse(time.DateOnly, checkOut)
	if err != nil {
		return params, fmt.Errorf("checkOut must be a YYYY-MM-DD date")
	}

	params.HasDates = true
	params.Range = models.DateRange{CheckIn: in, CheckOut: out}
	return params, nil
}

func intQuery(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			return v
		}
	}
	return fallback
}

// HandleSearchHotels serves the hotel results page listing.
func (h *CatalogHandlers) HandleSearchHotels(c *gin.Context) {
	params, err := parseSearchParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metrics.SearchesTotal.WithLabelValues(string(models.KindHotel)).Inc()
	result, err := h.service.SearchHotels(c.Request.Context(), params)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleSearchTours serves the tour results listing.
func (h *CatalogHandlers) HandleSearchTours(c *gin.Context) {
	params, err := parseSearchParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metrics.SearchesTotal.WithLabelValues(string(models.KindTour)).Inc()
	result, err := h.service.SearchTours(c.Request.Context(), params)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleHotelDetails serves one hotel with its room types.
func (h *CatalogHandlers) HandleHotelDetails(c *gin.Context) {
	entry, err := h.service.HotelDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// HandleTourDetails serves one tour.
func (h *CatalogHandlers) HandleTourDetails(c *gin.Context) {
	entry, err := h.service.TourDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// HandleDestinations serves the unique destinations for the search box.
func (h *CatalogHandlers) HandleDestinations(c *gin.Context) {
	destinations, err := h.service.Destinations(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"destinations": destinations})
}
