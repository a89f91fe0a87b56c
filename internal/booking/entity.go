package booking

import (
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	DefaultDuration = 60
)

// Slot is one bookable facility-time unit as generated by the court API.
type Slot struct {
	FacilityID    string  `json:"facilityId"`
	Club          string  `json:"club"`
	Sport         string  `json:"sport"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Price         float64 `json:"price"`
	Duration      int     `json:"duration"`
	BookedBy      string  `json:"bookedBy,omitempty"`
	ReservationID string  `json:"reservationId,omitempty"`
	Paid          bool    `json:"paid,omitempty"`
	Latitude      float64 `json:"latitude,omitempty"`
	Longitude     float64 `json:"longitude,omitempty"`
}

func (s Slot) Booked() bool {
	return s.BookedBy != ""
}

// Start is the slot's local start instant in loc.
func (s Slot) Start(loc *time.Location) (time.Time, error) {
	return ParseLocal(s.Date, s.Time, loc)
}

// Club is a directory entry. OwnerKey is the stable key slots refer to.
type Club struct {
	OwnerKey      string    `json:"ownerKey"`
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Featured      bool      `json:"featured"`
	FeaturedUntil time.Time `json:"featuredUntil,omitzero"`
	Phone         string    `json:"phone,omitempty"`
	Region        string    `json:"region,omitempty"`
	Locality      string    `json:"locality,omitempty"`
	Address       string    `json:"address,omitempty"`
	Latitude      float64   `json:"latitude,omitempty"`
	Longitude     float64   `json:"longitude,omitempty"`
	OnlinePayment bool      `json:"onlinePayment"`
	PaymentToken  string    `json:"-"`
}

func (c Club) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}

	return c.OwnerKey
}

// SelectedSlot is the snapshot carried from the result list to the confirmation view.
type SelectedSlot struct {
	FacilityID string    `json:"facilityId"`
	Club       string    `json:"club"`
	Sport      string    `json:"sport"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Price      float64   `json:"price"`
	Duration   int       `json:"duration"`
	SelectedAt time.Time `json:"selectedAt"`
}

func SnapshotOf(s Slot, at time.Time) SelectedSlot {
	return SelectedSlot{
		FacilityID: s.FacilityID,
		Club:       s.Club,
		Sport:      s.Sport,
		Date:       s.Date,
		Time:       s.Time,
		Price:      s.Price,
		Duration:   normalizeDuration(s.Duration),
		SelectedAt: at,
	}
}

type Criteria struct {
	Sport    string `json:"sport"`
	Date     string `json:"date"`
	Time     string `json:"time,omitempty"`
	Club     string `json:"club,omitempty"`
	Region   string `json:"region,omitempty"`
	Locality string `json:"locality,omitempty"`
}

// SlotQuery is what the court API filters on server side.
type SlotQuery struct {
	Date     string
	Region   string
	Locality string
	Club     string
}

// Listing is a render-ready search result row.
type Listing struct {
	Slot
	ClubName      string `json:"clubName"`
	Featured      bool   `json:"featured"`
	DurationLabel string `json:"durationLabel"`
}

type SearchResult struct {
	Criteria   Criteria  `json:"criteria"`
	Listings   []Listing `json:"listings"`
	SearchedAt time.Time `json:"searchedAt"`
}

type HoldRequest struct {
	FacilityID string
	Date       string
	Time       string
	Email      string
}

type HoldResult struct {
	Message string `json:"message"`
}

type Detail struct {
	Selected      SelectedSlot `json:"selected"`
	ClubName      string       `json:"clubName"`
	DurationLabel string       `json:"durationLabel"`
	OnlinePayment bool         `json:"onlinePayment"`
}

// Place is a reverse geocoding answer. Region is already canonical.
type Place struct {
	Region    string `json:"region"`
	RawRegion string `json:"rawRegion"`
	Locality  string `json:"locality"`
}

type LocateResult struct {
	Skipped  bool   `json:"skipped"`
	Region   string `json:"region,omitempty"`
	Locality string `json:"locality,omitempty"`
	Matched  bool   `json:"matched"`
}

// ParseLocal reads a YYYY-MM-DD date and an HH:MM (or HH:MM:SS) clock time in loc.
func ParseLocal(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	layout := DateLayout + " " + TimeLayout
	if len(clock) == len("15:04:05") {
		layout = DateLayout + " 15:04:05"
	}

	return time.ParseInLocation(layout, date+" "+clock, loc)
}
