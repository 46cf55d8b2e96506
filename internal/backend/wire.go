package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lmendo/tripdesk/internal/app/models"
)

// The booking API is inconsistent about response shapes: some endpoints
// return a bare JSON array, others wrap it in {"data": [...]}, and a few
// field names exist in two spellings. Everything in this file exists to
// normalize those shapes into the canonical models exactly once, at the
// boundary. An unexpected shape is an error, never a silent pass-through.

// unwrapList accepts either a top-level array or a {"data": [...]} envelope.
func unwrapList(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list response: %w", err)
		}
		return items, nil
	}

	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode list envelope: %w", err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("unexpected list response shape")
	}
	return envelope.Data, nil
}

// unwrapObject accepts either a bare object or a {"data": {...}} envelope.
func unwrapObject(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("unexpected object response shape")
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode object envelope: %w", err)
	}
	if len(envelope.Data) > 0 && bytes.TrimSpace(envelope.Data)[0] == '{' {
		return envelope.Data, nil
	}
	return trimmed, nil
}

// flexStrings tolerates a single string where the API sometimes sends an
// array of image URLs.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*f = nil
		return nil
	}
	if trimmed[0] == '[' {
		var many []string
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*f = many
		return nil
	}
	var one string
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	if one != "" {
		*f = []string{one}
	}
	return nil
}

// parseDate reads the API's YYYY-MM-DD calendar dates. Unparseable input
// yields the zero time, which the availability filter treats as "never
// available".
func parseDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// --- users ---

type wireUser struct {
	ID        json.Number `json:"id"`
	Nombre    string      `json:"nombre"`
	Apellido  string      `json:"apellido"`
	Email     string      `json:"email"`
	Rol       string      `json:"rol"`
	CreatedAt string      `json:"created_at"`
}

func (w wireUser) toUser() *models.User {
	name := w.Nombre
	if w.Apellido != "" {
		name = strings.TrimSpace(w.Nombre + " " + w.Apellido)
	}
	u := &models.User{
		ID:    w.ID.String(),
		Name:  name,
		Email: w.Email,
		Role:  roleFromWire(w.Rol),
	}
	if w.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
			u.CreatedAt = t
		}
	}
	return u
}

// roleFromWire maps the API's role names onto the local ones. Unknown roles
// come back empty so every guard fails closed.
func roleFromWire(rol string) models.Role {
	switch strings.ToLower(strings.TrimSpace(rol)) {
	case "viajero", string(models.RoleTraveler):
		return models.RoleTraveler
	case "proveedor", string(models.RoleProvider):
		return models.RoleProvider
	default:
		return ""
	}
}

func roleToWire(role models.Role) string {
	switch role {
	case models.RoleTraveler:
		return "viajero"
	case models.RoleProvider:
		return "proveedor"
	default:
		return ""
	}
}

// --- hotels ---

type wireCapacity struct {
	Adultos      int `json:"adultos"`
	Ninos        int `json:"ninos"`
	Habitaciones int `json:"habitaciones"`
}

type wireWindow struct {
	Desde string `json:"desde"`
	Hasta string `json:"hasta"`
}

type wireRoom struct {
	ID              json.Number `json:"id"`
	Nombre          string      `json:"nombre"`
	CapacidadAdults int         `json:"capacidad_adultos"`
	CapacidadNinos  int         `json:"capacidad_ninos"`
	PrecioPorNoche  float64     `json:"precio_por_noche"`
	UnidadesTotales int         `json:"unidades_totales"`
	// Two generations of the API disagree on this field's name.
	UnidadesDisponibles *int   `json:"unidades_disponibles"`
	Cantidad            *int   `json:"cantidad"`
	Descripcion         string `json:"descripcion"`
}

func (w wireRoom) toUnit() models.Unit {
	available := 0
	switch {
	case w.UnidadesDisponibles != nil:
		available = *w.UnidadesDisponibles
	case w.Cantidad != nil:
		available = *w.Cantidad
	}
	return models.Unit{
		ID:                w.ID.String(),
		Name:              w.Nombre,
		CapacityAdults:    w.CapacidadAdults,
		CapacityChildren:  w.CapacidadNinos,
		PricePerNight:     w.PrecioPorNoche,
		QuantityTotal:     w.UnidadesTotales,
		QuantityAvailable: available,
	}
}

type wireHotel struct {
	ID             json.Number   `json:"id"`
	ProveedorID    json.Number   `json:"proveedor_id"`
	Tipo           string        `json:"tipo"`
	Nombre         string        `json:"nombre"`
	Ubicacion      string        `json:"ubicacion"`
	Distrito       string        `json:"distrito"`
	Direccion      string        `json:"direccion"`
	Estrellas      int           `json:"estrellas"`
	Descripcion    string        `json:"descripcion"`
	ImagenURL      flexStrings   `json:"imagenUrl"`
	ImagenURLSnake flexStrings   `json:"imagen_url"`
	PrecioPorNoche float64       `json:"precio_por_noche"`
	Filtros        *wireCapacity `json:"filtros"`
	Disponibilidad *wireWindow   `json:"disponibilidad"`
	Habitaciones   []wireRoom    `json:"habitaciones"`
	Activo         *bool         `json:"activo"`
}

func (w wireHotel) toEntry() models.CatalogEntry {
	entry := models.CatalogEntry{
		ID:            w.ID.String(),
		Kind:          models.KindHotel,
		Category:      w.Tipo,
		Name:          w.Nombre,
		Location:      w.Ubicacion,
		District:      w.Distrito,
		Address:       w.Direccion,
		Stars:         w.Estrellas,
		Description:   w.Descripcion,
		PricePerNight: w.PrecioPorNoche,
		ProviderID:    w.ProveedorID.String(),
		Active:        w.Activo == nil || *w.Activo,
	}
	if entry.ProviderID == "" || entry.ProviderID == "0" {
		entry.ProviderID = ""
	}
	if entry.Category == "" {
		entry.Category = "hotel"
	}
	entry.ImageURLs = w.ImagenURL
	if len(entry.ImageURLs) == 0 {
		entry.ImageURLs = w.ImagenURLSnake
	}
	if w.Filtros != nil {
		entry.Capacity = models.Capacity{
			Adults:   w.Filtros.Adultos,
			Children: w.Filtros.Ninos,
			Units:    w.Filtros.Habitaciones,
		}
	}
	if w.Disponibilidad != nil {
		entry.Availability = models.Availability{
			From: parseDate(w.Disponibilidad.Desde),
			To:   parseDate(w.Disponibilidad.Hasta),
		}
	}
	for _, room := range w.Habitaciones {
		entry.Units = append(entry.Units, room.toUnit())
	}
	return entry
}

// --- tours ---

type wireTourDetails struct {
	ServicioID         json.Number `json:"servicio_id"`
	Categoria          string      `json:"categoria"`
	DuracionMin        int         `json:"duracion_min"`
	PrecioPersona      json.Number `json:"precio_persona"`
	CapacidadPorSalida int         `json:"capacidad_por_salida"`
}

type wireTour struct {
	ID             json.Number      `json:"id"`
	ProveedorID    json.Number      `json:"proveedor_id"`
	Nombre         string           `json:"nombre"`
	Tipo           string           `json:"tipo"`
	Ciudad         string           `json:"ciudad"`
	Pais           string           `json:"pais"`
	Descripcion    string           `json:"descripcion"`
	ImagenURL      flexStrings      `json:"imagen_url"`
	ImagenURLCamel flexStrings      `json:"imagenUrl"`
	Activo         *bool            `json:"activo"`
	Filtros        *wireCapacity    `json:"filtros"`
	Disponibilidad *wireWindow      `json:"disponibilidad"`
	Tour           *wireTourDetails `json:"tour"`
}

func (w wireTour) toEntry() models.CatalogEntry {
	entry := models.CatalogEntry{
		ID:          w.ID.String(),
		Kind:        models.KindTour,
		Category:    w.Tipo,
		Name:        w.Nombre,
		Location:    w.Ciudad,
		District:    w.Pais,
		Description: w.Descripcion,
		ProviderID:  w.ProveedorID.String(),
		Active:      w.Activo == nil || *w.Activo,
	}
	if entry.ProviderID == "0" {
		entry.ProviderID = ""
	}
	if entry.Category == "" {
		entry.Category = "tour"
	}
	entry.ImageURLs = w.ImagenURL
	if len(entry.ImageURLs) == 0 {
		entry.ImageURLs = w.ImagenURLCamel
	}
	if w.Filtros != nil {
		entry.Capacity = models.Capacity{
			Adults:   w.Filtros.Adultos,
			Children: w.Filtros.Ninos,
			Units:    w.Filtros.Habitaciones,
		}
	}
	if w.Disponibilidad != nil {
		entry.Availability = models.Availability{
			From: parseDate(w.Disponibilidad.Desde),
			To:   parseDate(w.Disponibilidad.Hasta),
		}
	}
	if w.Tour != nil {
		price, _ := w.Tour.PrecioPersona.Float64()
		entry.PricePerNight = price
		if w.Tour.Categoria != "" {
			entry.Category = w.Tour.Categoria
		}
		entry.Units = []models.Unit{{
			ID:                w.Tour.ServicioID.String(),
			Name:              w.Tour.Categoria,
			PricePerNight:     price,
			QuantityTotal:     w.Tour.CapacidadPorSalida,
			QuantityAvailable: w.Tour.CapacidadPorSalida,
		}}
	}
	return entry
}

// complete reports whether a tour listing carries the nested tour record;
// incomplete rows are skipped in listings.
func (w wireTour) complete() bool {
	return w.Tour != nil
}

// --- reservations ---

type wireReservationRef struct {
	ServicioID json.Number `json:"servicio_id"`
	ID         json.Number `json:"id"`
	Nombre     string      `json:"nombre"`
	Ciudad     string      `json:"ciudad"`
}

type wireReservation struct {
	ID          json.Number         `json:"id"`
	Codigo      string              `json:"codigo"`
	Estado      string              `json:"estado"`
	FechaInicio string              `json:"fecha_inicio"`
	FechaFin    string              `json:"fecha_fin"`
	Cantidad    int                 `json:"cantidad"`
	PrecioNoche float64             `json:"precio_noche"`
	Total       float64             `json:"total"`
	Hotel       *wireReservationRef `json:"hotel"`
	Habitacion  *wireReservationRef `json:"habitacion"`
}

func (w wireReservation) toReservation() models.Reservation {
	r := models.Reservation{
		ID:            w.ID.String(),
		Code:          w.Codigo,
		Status:        w.Estado,
		CheckIn:       parseDate(w.FechaInicio),
		CheckOut:      parseDate(w.FechaFin),
		Quantity:      w.Cantidad,
		PricePerNight: w.PrecioNoche,
		Total:         w.Total,
	}
	if w.Hotel != nil {
		r.EntryID = w.Hotel.ServicioID.String()
		r.EntryName = w.Hotel.Nombre
	}
	if w.Habitacion != nil {
		r.UnitID = w.Habitacion.ID.String()
		r.UnitName = w.Habitacion.Nombre
	}
	return r
}
