package catalog

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/lmendo/tripdesk/internal/app/domain/booking"
	"github.com/lmendo/tripdesk/internal/app/models"
)

// Ensure implementation satisfies the interface
var _ CatalogService = (*CatalogServiceImpl)(nil)

// CatalogAPI is the slice of the backend gateway the catalog needs.
type CatalogAPI interface {
	ListHotels(ctx context.Context) ([]models.CatalogEntry, error)
	GetHotel(ctx context.Context, id string) (*models.CatalogEntry, error)
	ListTours(ctx context.Context) ([]models.CatalogEntry, error)
	GetTour(ctx context.Context, id string) (*models.CatalogEntry, error)
}

// SearchParams is one search-page request. HasDates tells the two apart:
// browsing without dates lists everything the party fits into, a dated
// search also applies the availability window.
type SearchParams struct {
	Query    string
	Range    models.DateRange
	Party    models.Party
	HasDates bool
}

// SearchResult is the filtered listing plus per-category counts over the
// whole catalog, for the results page tabs.
type SearchResult struct {
	Entries []models.CatalogEntry `json:"entries"`
	Counts  map[string]int        `json:"counts"`
}

type CatalogService interface {
	SearchHotels(ctx context.Context, params SearchParams) (*SearchResult, error)
	SearchTours(ctx context.Context, params SearchParams) (*SearchResult, error)
	HotelDetails(ctx context.Context, id string) (*models.CatalogEntry, error)
	TourDetails(ctx context.Context, id string) (*models.CatalogEntry, error)
	Destinations(ctx context.Context) ([]string, error)
}

type CatalogServiceImpl struct {
	api    CatalogAPI
	logger *zap.Logger
}

func NewCatalogService(api CatalogAPI, logger *zap.Logger) *CatalogServiceImpl {
	return &CatalogServiceImpl{api: api, logger: logger}
}

func (s *CatalogServiceImpl) SearchHotels(ctx context.Context, params SearchParams) (*SearchResult, error) {
	entries, err := s.api.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	return s.search(entries, params), nil
}

func (s *CatalogServiceImpl) SearchTours(ctx context.Context, params SearchParams) (*SearchResult, error) {
	entries, err := s.api.ListTours(ctx)
	if err != nil {
		return nil, err
	}
	return s.search(entries, params), nil
}

// search applies the independent predicates: text match, party capacity, and
// for dated searches the availability window. Counts cover the full catalog
// so the category tabs stay stable while filters narrow the listing.
func (s *CatalogServiceImpl) search(entries []models.CatalogEntry, params SearchParams) *SearchResult {
	result := &SearchResult{
		Entries: make([]models.CatalogEntry, 0, len(entries)),
		Counts:  make(map[string]int),
	}

	for _, entry := range entries {
		result.Counts[entry.Category]++

		if !booking.MatchesQuery(entry, params.Query) {
			continue
		}
		if !booking.FitsParty(entry, params.Party) {
			continue
		}
		if params.HasDates && !booking.IsAvailable(entry, params.Range, params.Party) {
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	s.logger.Debug("Catalog search",
		zap.String("query", params.Query),
		zap.Bool("dated", params.HasDates),
		zap.Int("total", len(entries)),
		zap.Int("matched", len(result.Entries)))
	return result
}

func (s *CatalogServiceImpl) HotelDetails(ctx context.Context, id string) (*models.CatalogEntry, error) {
	return s.api.GetHotel(ctx, id)
}

func (s *CatalogServiceImpl) TourDetails(ctx context.Context, id string) (*models.CatalogEntry, error) {
	return s.api.GetTour(ctx, id)
}

// Destinations derives the unique, sorted set of locations across both
// catalogs, for the search box suggestions.
func (s *CatalogServiceImpl) Destinations(ctx context.Context) ([]string, error) {
	hotels, err := s.api.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	tours, err := s.api.ListTours(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var destinations []string
	for _, entry := range append(hotels, tours...) {
		if entry.Location == "" {
			continue
		}
		if _, dup := seen[entry.Location]; dup {
			continue
		}
		seen[entry.Location] = struct{}{}
		destinations = append(destinations, entry.Location)
	}
	sort.Strings(destinations)
	return destinations, nil
}
