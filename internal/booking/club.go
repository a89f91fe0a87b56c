package booking

import "time"

// Reservation is a booked slot as the club panel sees it.
type Reservation struct {
	ID            string `json:"id"`
	FacilityID    string `json:"facilityId,omitempty"`
	FacilityName  string `json:"facilityName"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Sport         string `json:"sport"`
	Club          string `json:"club"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	Paid          bool   `json:"paid"`
}

// Facility is a court a club rents out, with its opening hours and pricing.
type Facility struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name"`
	Sport      string   `json:"sport"`
	Price      float64  `json:"price"`
	HourFrom   string   `json:"hourFrom"`
	HourTo     string   `json:"hourTo"`
	Duration   int      `json:"duration"`
	NightFrom  *int     `json:"nightFrom,omitempty"`
	NightPrice *float64 `json:"nightPrice,omitempty"`
	Weekdays   []string `json:"weekdays"`
	OwnerKey   string   `json:"ownerKey"`
}

// ManualReservation books a free slot on behalf of a walk-in customer.
type ManualReservation struct {
	FacilityID    string
	Club          string
	Sport         string
	Date          string
	Time          string
	Price         float64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	PaymentMethod string
}

type FeaturedOffer struct {
	Price float64 `json:"price"`
	Days  int     `json:"days"`
}

type ClubLogin struct {
	Token    string
	ClubID   string
	Name     string
	OwnerKey string
}

type ProfileUpdate struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Region   string `json:"region"`
	Locality string `json:"locality"`
}

// CurrentlyFeatured reports whether the club's featured window is open at now.
func (c Club) CurrentlyFeatured(now time.Time) bool {
	return c.Featured && c.FeaturedUntil.After(now)
}
