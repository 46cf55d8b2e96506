package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lmendo/tripdesk/internal/app/models"
)

// ListHotels fetches the full hotel catalog, normalized and active-only.
func (c *Client) ListHotels(ctx context.Context) ([]models.CatalogEntry, error) {
	raw, err := c.cachedList(ctx, "/hoteles")
	if err != nil {
		return nil, err
	}

	items, err := unwrapList(raw)
	if err != nil {
		return nil, fmt.Errorf("hotel listing: %w", err)
	}

	entries := make([]models.CatalogEntry, 0, len(items))
	for _, item := range items {
		var h wireHotel
		if err := json.Unmarshal(item, &h); err != nil {
			return nil, fmt.Errorf("decode hotel listing: %w", err)
		}
		entry := h.toEntry()
		if entry.Active {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// ListAllHotels is ListHotels without the active filter. Provider dashboards
// use it so deactivated listings stay visible to their owner.
func (c *Client) ListAllHotels(ctx context.Context) ([]models.CatalogEntry, error) {
	raw, err := c.cachedList(ctx, "/hoteles")
	if err != nil {
		return nil, err
	}

	items, err := unwrapList(raw)
	if err != nil {
		return nil, fmt.Errorf("hotel listing: %w", err)
	}

	entries := make([]models.CatalogEntry, 0, len(items))
	for _, item := range items {
		var h wireHotel
		if err := json.Unmarshal(item, &h); err != nil {
			return nil, fmt.Errorf("decode hotel listing: %w", err)
		}
		entries = append(entries, h.toEntry())
	}
	return entries, nil
}

// GetHotel fetches one hotel with its room types.
func (c *Client) GetHotel(ctx context.Context, id string) (*models.CatalogEntry, error) {
	raw, err := c.do(ctx, "", http.MethodGet, "/hoteles/"+id, nil)
	if err != nil {
		return nil, err
	}

	obj, err := unwrapObject(raw)
	if err != nil {
		return nil, fmt.Errorf("hotel detail: %w", err)
	}
	var h wireHotel
	if err := json.Unmarshal(obj, &h); err != nil {
		return nil, fmt.Errorf("decode hotel detail: %w", err)
	}
	entry := h.toEntry()
	return &entry, nil
}

// ListTours fetches the tour catalog. Rows missing the nested tour record
// are incomplete drafts and are skipped, as is anything inactive.
func (c *Client) ListTours(ctx context.Context) ([]models.CatalogEntry, error) {
	raw, err := c.cachedList(ctx, "/tours")
	if err != nil {
		return nil, err
	}

	items, err := unwrapList(raw)
	if err != nil {
		return nil, fmt.Errorf("tour listing: %w", err)
	}

	entries := make([]models.CatalogEntry, 0, len(items))
	for _, item := range items {
		var t wireTour
		if err := json.Unmarshal(item, &t); err != nil {
			return nil, fmt.Errorf("decode tour listing: %w", err)
		}
		if !t.complete() {
			continue
		}
		entry := t.toEntry()
		if entry.Active {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// ListAllTours is ListTours without the active filter, incomplete drafts
// included.
func (c *Client) ListAllTours(ctx context.Context) ([]models.CatalogEntry, error) {
	raw, err := c.cachedList(ctx, "/tours")
	if err != nil {
		return nil, err
	}

	items, err := unwrapList(raw)
	if err != nil {
		return nil, fmt.Errorf("tour listing: %w", err)
	}

	entries := make([]models.CatalogEntry, 0, len(items))
	for _, item := range items {
		var t wireTour
		if err := json.Unmarshal(item, &t); err != nil {
			return nil, fmt.Errorf("decode tour listing: %w", err)
		}
		entries = append(entries, t.toEntry())
	}
	return entries, nil
}

// GetTour fetches one tour listing.
func (c *Client) GetTour(ctx context.Context, id string) (*models.CatalogEntry, error) {
	raw, err := c.do(ctx, "", http.MethodGet, "/tours/"+id, nil)
	if err != nil {
		return nil, err
	}

	obj, err := unwrapObject(raw)
	if err != nil {
		return nil, fmt.Errorf("tour detail: %w", err)
	}
	var t wireTour
	if err := json.Unmarshal(obj, &t); err != nil {
		return nil, fmt.Errorf("decode tour detail: %w", err)
	}
	entry := t.toEntry()
	return &entry, nil
}
