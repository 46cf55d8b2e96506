package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lmendo/tripdesk/internal/app/models"
)

// ListingInput is what a provider submits when creating or editing a
// catalog entry. Zero-valued optional fields are omitted from the request so
// partial updates do not blank existing data.
type ListingInput struct {
	Kind          models.EntryKind
	Name          string
	Category      string
	Location      string
	District      string
	Address       string
	Stars         int
	Description   string
	ImageURLs     []string
	PricePerNight float64
	Capacity      *models.Capacity
	Availability  *models.Availability
	Active        *bool
}

func listingPath(kind models.EntryKind) (string, error) {
	switch kind {
	case models.KindHotel:
		return "/hoteles", nil
	case models.KindTour:
		return "/tours", nil
	default:
		return "", fmt.Errorf("unknown listing kind %q: %w", kind, models.ErrBadRequest)
	}
}

func (in ListingInput) payload() map[string]any {
	payload := map[string]any{}
	if in.Name != "" {
		payload["nombre"] = in.Name
	}
	if in.Category != "" {
		payload["tipo"] = in.Category
	}
	if in.Location != "" {
		if in.Kind == models.KindTour {
			payload["ciudad"] = in.Location
		} else {
			payload["ubicacion"] = in.Location
		}
	}
	if in.District != "" {
		payload["distrito"] = in.District
	}
	if in.Address != "" {
		payload["direccion"] = in.Address
	}
	if in.Stars > 0 {
		payload["estrellas"] = in.Stars
	}
	if in.Description != "" {
		payload["descripcion"] = in.Description
	}
	if len(in.ImageURLs) > 0 {
		payload["imagen_url"] = in.ImageURLs
	}
	if in.PricePerNight > 0 {
		payload["precio_por_noche"] = in.PricePerNight
	}
	if in.Capacity != nil {
		payload["filtros"] = map[string]int{
			"adultos":      in.Capacity.Adults,
			"ninos":        in.Capacity.Children,
			"habitaciones": in.Capacity.Units,
		}
	}
	if in.Availability != nil {
		payload["disponibilidad"] = map[string]string{
			"desde": formatDate(in.Availability.From),
			"hasta": formatDate(in.Availability.To),
		}
	}
	if in.Active != nil {
		payload["activo"] = *in.Active
	}
	return payload
}

// CreateListing creates a catalog entry owned by the token's provider.
func (c *Client) CreateListing(ctx context.Context, token string, in ListingInput) (*models.CatalogEntry, error) {
	path, err := listingPath(in.Kind)
	if err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, token, http.MethodPost, path, in.payload())
	if err != nil {
		return nil, err
	}
	c.invalidateCatalog()
	return decodeListing(in.Kind, raw)
}

// UpdateListing edits an existing entry.
func (c *Client) UpdateListing(ctx context.Context, token string, kind models.EntryKind, id string, in ListingInput) (*models.CatalogEntry, error) {
	path, err := listingPath(kind)
	if err != nil {
		return nil, err
	}
	in.Kind = kind
	raw, err := c.do(ctx, token, http.MethodPut, path+"/"+id, in.payload())
	if err != nil {
		return nil, err
	}
	c.invalidateCatalog()
	return decodeListing(kind, raw)
}

// DeactivateListing performs the catalog's soft delete: the entry stays but
// stops being offered.
func (c *Client) DeactivateListing(ctx context.Context, token string, kind models.EntryKind, id string) error {
	inactive := false
	_, err := c.UpdateListing(ctx, token, kind, id, ListingInput{Active: &inactive})
	return err
}

// DeleteListing removes an entry permanently.
func (c *Client) DeleteListing(ctx context.Context, token string, kind models.EntryKind, id string) error {
	path, err := listingPath(kind)
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, token, http.MethodDelete, path+"/"+id, nil); err != nil {
		return err
	}
	c.invalidateCatalog()
	return nil
}

func decodeListing(kind models.EntryKind, raw []byte) (*models.CatalogEntry, error) {
	obj, err := unwrapObject(raw)
	if err != nil {
		return nil, fmt.Errorf("listing response: %w", err)
	}
	if kind == models.KindTour {
		var t wireTour
		if err := json.Unmarshal(obj, &t); err != nil {
			return nil, fmt.Errorf("decode tour listing response: %w", err)
		}
		entry := t.toEntry()
		return &entry, nil
	}
	var h wireHotel
	if err := json.Unmarshal(obj, &h); err != nil {
		return nil, fmt.Errorf("decode hotel listing response: %w", err)
	}
	entry := h.toEntry()
	return &entry, nil
}
