package boost

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/avstrong/canchalibre/internal/booking"
	"github.com/avstrong/canchalibre/internal/logger"
)

const expiringSoonDays = 3

type upstream interface {
	FeaturedOffer(ctx context.Context) (booking.FeaturedOffer, error)
	FeaturedPaymentLink(ctx context.Context, ownerKey string) (string, error)
}

// Manager runs the paid "featured club" promotion.
type Manager struct {
	l        *logger.Logger
	api      upstream
	fallback booking.FeaturedOffer
	now      func() time.Time
}

func New(l *logger.Logger, api upstream, fallback booking.FeaturedOffer, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}

	return &Manager{
		l:        l,
		api:      api,
		fallback: fallback,
		now:      now,
	}
}

// Status describes a club's promotion as the panel shows it.
type Status struct {
	Featured     bool       `json:"featured"`
	Active       bool       `json:"active"`
	Until        *time.Time `json:"until,omitempty"`
	DaysLeft     int        `json:"daysLeft"`
	ExpiringSoon bool       `json:"expiringSoon"`
	Expired      bool       `json:"expired"`
}

// Status reports days left rounded up. A window that ends in three days or
// less is expiring soon, one with no days left is expired.
func (m *Manager) Status(club booking.Club) Status {
	now := m.now()

	//nolint:exhaustruct
	s := Status{Active: club.CurrentlyFeatured(now)}

	if !club.Featured || club.FeaturedUntil.IsZero() {
		return s
	}

	until := club.FeaturedUntil
	s.Featured = true
	s.Until = &until
	s.DaysLeft = int(math.Ceil(until.Sub(now).Hours() / 24)) //nolint:gomnd
	s.ExpiringSoon = s.DaysLeft > 0 && s.DaysLeft <= expiringSoonDays
	s.Expired = s.DaysLeft <= 0

	return s
}

// Offer is the current price and length of a promotion. The configured
// fallback fills in when the upstream cannot answer.
func (m *Manager) Offer(ctx context.Context) booking.FeaturedOffer {
	offer, err := m.api.FeaturedOffer(ctx)
	if err != nil {
		m.l.LogWarnf("Could not load featured offer, using defaults: %v", err.Error())

		return m.fallback
	}

	if offer.Price <= 0 {
		offer.Price = m.fallback.Price
	}

	if offer.Days <= 0 {
		offer.Days = m.fallback.Days
	}

	return offer
}

type Checkout struct {
	URL   string                `json:"url"`
	Offer booking.FeaturedOffer `json:"offer"`
}

// Checkout requests a payment link that features or renews the club.
func (m *Manager) Checkout(ctx context.Context, ownerKey string) (Checkout, error) {
	link, err := m.api.FeaturedPaymentLink(ctx, ownerKey)
	if err != nil {
		return Checkout{}, fmt.Errorf("request featured payment link for %s: %w", ownerKey, err)
	}

	return Checkout{URL: link, Offer: m.Offer(ctx)}, nil
}
