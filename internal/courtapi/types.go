package courtapi

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/avstrong/canchalibre/internal/booking"
)

// number accepts a JSON number, a numeric string or null. Anything unparsable reads as zero.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0

		return nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*n = 0

		return nil
	}

	*n = number(v)

	return nil
}

// text accepts a JSON string, a number or null.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*t = ""

		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err //nolint:wrapcheck
		}

		*t = text(s)

		return nil
	}

	*t = text(b)

	return nil
}

func parseInstant(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, booking.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}

type slotDTO struct {
	FacilityID text   `json:"canchaId"`
	Club       string `json:"club"`
	Sport      string `json:"deporte"`
	Date       string `json:"fecha"`
	Time       string `json:"hora"`
	Price      number `json:"precio"`
	Duration   number `json:"duracionTurno"`
	BookedBy   string `json:"usuarioReservado"`
	RealID     text   `json:"realId"`
	Paid       bool   `json:"pagado"`
	Latitude   number `json:"latitud"`
	Longitude  number `json:"longitud"`
}

func (d slotDTO) toSlot() booking.Slot {
	return booking.Slot{
		FacilityID:    string(d.FacilityID),
		Club:          d.Club,
		Sport:         d.Sport,
		Date:          d.Date,
		Time:          d.Time,
		Price:         float64(d.Price),
		Duration:      int(d.Duration),
		BookedBy:      strings.TrimSpace(d.BookedBy),
		ReservationID: string(d.RealID),
		Paid:          d.Paid,
		Latitude:      float64(d.Latitude),
		Longitude:     float64(d.Longitude),
	}
}

type clubDTO struct {
	ID            text   `json:"_id"`
	Email         string `json:"email"`
	Name          string `json:"nombre"`
	Featured      bool   `json:"destacado"`
	FeaturedUntil string `json:"destacadoHasta"`
	Phone         text   `json:"telefono"`
	Region        string `json:"provincia"`
	Locality      string `json:"localidad"`
	Address       string `json:"direccion"`
	Latitude      number `json:"latitud"`
	Longitude     number `json:"longitud"`
	AccessToken   string `json:"mercadoPagoAccessToken"`
}

func (d clubDTO) toClub() booking.Club {
	return booking.Club{
		OwnerKey:      d.Email,
		ID:            string(d.ID),
		Name:          d.Name,
		Featured:      d.Featured,
		FeaturedUntil: parseInstant(d.FeaturedUntil),
		Phone:         string(d.Phone),
		Region:        d.Region,
		Locality:      d.Locality,
		Address:       d.Address,
		Latitude:      float64(d.Latitude),
		Longitude:     float64(d.Longitude),
		OnlinePayment: strings.TrimSpace(d.AccessToken) != "",
		PaymentToken:  d.AccessToken,
	}
}

// userRef is either an id or the populated user document.
type userRef struct {
	Name     string `json:"nombre"`
	LastName string `json:"apellido"`
	Email    string `json:"email"`
	Phone    text   `json:"telefono"`
}

func (u *userRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}

	type plain userRef

	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err //nolint:wrapcheck
	}

	*u = userRef(p)

	return nil
}

type reservationDTO struct {
	ID            text    `json:"_id"`
	FacilityID    text    `json:"canchaId"`
	FacilityName  string  `json:"nombreCancha"`
	Date          string  `json:"fecha"`
	Time          string  `json:"hora"`
	Sport         string  `json:"deporte"`
	Club          string  `json:"club"`
	BookedBy      string  `json:"usuarioReservado"`
	BookedEmail   string  `json:"emailReservado"`
	UserEmail     string  `json:"usuarioEmail"`
	UserName      string  `json:"usuarioNombre"`
	UserLastName  string  `json:"usuarioApellido"`
	UserPhone     text    `json:"usuarioTelefono"`
	User          userRef `json:"usuario"`
	UserID        userRef `json:"usuarioId"`
	Paid          bool    `json:"pagado"`
	PaymentMethod string  `json:"metodoPago"`
}

func (d reservationDTO) toReservation() booking.Reservation {
	name := strings.TrimSpace(firstNonEmpty(d.UserName, d.User.Name, d.UserID.Name) + " " +
		firstNonEmpty(d.UserLastName, d.User.LastName, d.UserID.LastName))
	if name == "" {
		name = strings.TrimSpace(d.BookedBy)
	}

	return booking.Reservation{
		ID:            string(d.ID),
		FacilityID:    string(d.FacilityID),
		FacilityName:  d.FacilityName,
		Date:          d.Date,
		Time:          d.Time,
		Sport:         d.Sport,
		Club:          d.Club,
		CustomerName:  name,
		CustomerEmail: firstNonEmpty(d.UserEmail, d.BookedEmail, d.User.Email, d.UserID.Email),
		CustomerPhone: firstNonEmpty(string(d.UserPhone), string(d.User.Phone), string(d.UserID.Phone)),
		Paid:          d.Paid,
	}
}

type facilityDTO struct {
	ID         text     `json:"_id,omitempty"`
	Name       string   `json:"nombre"`
	Sport      string   `json:"deporte"`
	Price      number   `json:"precio"`
	HourFrom   string   `json:"horaDesde"`
	HourTo     string   `json:"horaHasta"`
	Duration   number   `json:"duracionTurno"`
	NightFrom  *int     `json:"nocturnoDesde"`
	NightPrice *float64 `json:"precioNocturno"`
	Weekdays   []string `json:"diasDisponibles"`
	OwnerKey   string   `json:"clubEmail"`
}

func (d facilityDTO) toFacility() booking.Facility {
	return booking.Facility{
		ID:         string(d.ID),
		Name:       d.Name,
		Sport:      d.Sport,
		Price:      float64(d.Price),
		HourFrom:   d.HourFrom,
		HourTo:     d.HourTo,
		Duration:   int(d.Duration),
		NightFrom:  d.NightFrom,
		NightPrice: d.NightPrice,
		Weekdays:   d.Weekdays,
		OwnerKey:   d.OwnerKey,
	}
}

// facilityPayload is what create and update send.
type facilityPayload struct {
	Name       string   `json:"nombre"`
	Sport      string   `json:"deporte"`
	Price      float64  `json:"precio"`
	HourFrom   string   `json:"horaDesde"`
	HourTo     string   `json:"horaHasta"`
	Weekdays   []string `json:"diasDisponibles"`
	OwnerKey   string   `json:"clubEmail"`
	Duration   int      `json:"duracionTurno"`
	NightFrom  *int     `json:"nocturnoDesde"`
	NightPrice *float64 `json:"precioNocturno"`
}

func newFacilityPayload(f booking.Facility) facilityPayload {
	weekdays := f.Weekdays
	if weekdays == nil {
		weekdays = []string{}
	}

	return facilityPayload{
		Name:       f.Name,
		Sport:      f.Sport,
		Price:      f.Price,
		HourFrom:   f.HourFrom,
		HourTo:     f.HourTo,
		Weekdays:   weekdays,
		OwnerKey:   f.OwnerKey,
		Duration:   f.Duration,
		NightFrom:  f.NightFrom,
		NightPrice: f.NightPrice,
	}
}

type holdPayload struct {
	FacilityID string  `json:"canchaId"`
	Date       string  `json:"fecha"`
	Time       string  `json:"hora"`
	UserID     *string `json:"usuarioId"`
	Email      string  `json:"email"`
}

type manualReservationPayload struct {
	Sport         string  `json:"deporte"`
	Date          string  `json:"fecha"`
	Time          string  `json:"hora"`
	Club          string  `json:"club"`
	Price         float64 `json:"precio"`
	BookedBy      string  `json:"usuarioReservado"`
	BookedEmail   string  `json:"emailReservado"`
	BookedPhone   string  `json:"usuarioTelefono,omitempty"`
	PaymentMethod string  `json:"metodoPago"`
	FacilityID    string  `json:"canchaId"`
}

type messageBody struct {
	Message string `json:"mensaje"`
	Error   string `json:"error"`
}

type payURLBody struct {
	URL   string `json:"pagoUrl"`
	Error string `json:"error"`
}

type offerBody struct {
	Price number `json:"precioDestacado"`
	Days  number `json:"diasDestacado"`
}

type loginBody struct {
	Token  string `json:"token"`
	ClubID text   `json:"clubId"`
	Name   string `json:"nombre"`
	Email  string `json:"email"`
	Error  string `json:"error"`
}

type profilePayload struct {
	Name     string `json:"nombre"`
	Phone    string `json:"telefono"`
	Region   string `json:"provincia"`
	Locality string `json:"localidad"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}

	return ""
}
