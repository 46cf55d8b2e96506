package models

import "time"

// Role is the account role assigned by the booking backend.
type Role string

const (
	RoleTraveler Role = "traveler"
	RoleProvider Role = "provider"
)

// Valid reports whether the role is one the frontend knows how to gate on.
func (r Role) Valid() bool {
	return r == RoleTraveler || r == RoleProvider
}

// User is the profile cached client-side after login or /me.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Session binds a backend bearer token to the user it authenticates.
// Invariant: Token != "" exactly when the session is authenticated.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Authenticated reports whether the session carries a bearer token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// EntryKind distinguishes the two catalog listing types.
type EntryKind string

const (
	KindHotel EntryKind = "hotel"
	KindTour  EntryKind = "tour"
)

// Capacity is the maximum party an entry can host.
type Capacity struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Units    int `json:"units"`
}

// Availability is the calendar window an entry accepts bookings for.
// Zero values mean the window is unknown and the entry is never offered.
type Availability struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Unit is a bookable sub-item of a catalog entry: a hotel room type or a
// tour slot.
type Unit struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	CapacityAdults    int     `json:"capacityAdults"`
	CapacityChildren  int     `json:"capacityChildren"`
	PricePerNight     float64 `json:"pricePerNight"`
	QuantityTotal     int     `json:"quantityTotal"`
	QuantityAvailable int     `json:"quantityAvailable"`
	Description       string  `json:"description,omitempty"`
}

// CatalogEntry is the canonical local shape for a hotel or tour listing,
// normalized from the backend's inconsistent response formats.
type CatalogEntry struct {
	ID            string       `json:"id"`
	Kind          EntryKind    `json:"kind"`
	Category      string       `json:"category,omitempty"`
	Name          string       `json:"name"`
	Location      string       `json:"location"`
	District      string       `json:"district,omitempty"`
	Address       string       `json:"address,omitempty"`
	Stars         int          `json:"stars,omitempty"`
	Description   string       `json:"description,omitempty"`
	ImageURLs     []string     `json:"imageUrls,omitempty"`
	PricePerNight float64      `json:"pricePerNight"`
	Capacity      Capacity     `json:"capacity"`
	Availability  Availability `json:"availability"`
	Units         []Unit       `json:"units,omitempty"`
	ProviderID    string       `json:"providerId,omitempty"`
	Active        bool         `json:"active"`
}

// Party is the headcount a searcher is booking for.
type Party struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Units    int `json:"units"`
}

// DateRange is a requested stay, check-in inclusive, check-out exclusive.
type DateRange struct {
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
}

// SelectionLine is one chosen unit type with a quantity, as assembled on the
// detail page before checkout.
type SelectionLine struct {
	UnitID    string  `json:"unitId"`
	Label     string  `json:"label"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Customer is the contact information attached to a reservation.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// ReservationRequest is the checkout payload: one stay at one entry covering
// one or more selection lines.
type ReservationRequest struct {
	EntryID    string          `json:"entryId"`
	Customer   Customer        `json:"customer"`
	CheckIn    time.Time       `json:"checkIn"`
	CheckOut   time.Time       `json:"checkOut"`
	Nights     int             `json:"nights"`
	Lines      []SelectionLine `json:"lines"`
	TotalPrice float64         `json:"totalPrice"`
}

// Reservation is a confirmed booking as reported by the backend.
type Reservation struct {
	ID            string    `json:"id"`
	Code          string    `json:"code,omitempty"`
	Status        string    `json:"status"`
	EntryID       string    `json:"entryId"`
	EntryName     string    `json:"entryName,omitempty"`
	UnitID        string    `json:"unitId"`
	UnitName      string    `json:"unitName,omitempty"`
	CheckIn       time.Time `json:"checkIn"`
	CheckOut      time.Time `json:"checkOut"`
	Quantity      int       `json:"quantity"`
	PricePerNight float64   `json:"pricePerNight"`
	Total         float64   `json:"total"`
}
