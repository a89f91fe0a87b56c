package panel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/avstrong/canchalibre/internal/booking"
	"github.com/avstrong/canchalibre/internal/boost"
	"github.com/avstrong/canchalibre/internal/logger"
)

var (
	ErrNoPhone          = errors.New("customer has no valid phone number")
	ErrFacilityNotFound = errors.New("facility not found")
	ErrNoClubID         = errors.New("club id unknown, log in again")
)

type upstream interface {
	LoginClub(ctx context.Context, email, password string) (booking.ClubLogin, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	ClubByOwner(ctx context.Context, ownerKey string) (booking.Club, error)
	UpdateClub(ctx context.Context, id string, p booking.ProfileUpdate) error
	SetAccessToken(ctx context.Context, ownerKey, token string) (string, error)
	Reservations(ctx context.Context, ownerKey string) ([]booking.Reservation, error)
	Reservation(ctx context.Context, id string) (booking.Reservation, error)
	CancelSlot(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id string) error
	PaymentLink(ctx context.Context, id string) (string, error)
	Reserve(ctx context.Context, r booking.ManualReservation) error
	Facilities(ctx context.Context, ownerKey string) ([]booking.Facility, error)
	CreateFacility(ctx context.Context, f booking.Facility) error
	UpdateFacility(ctx context.Context, id string, f booking.Facility) error
	DeleteFacility(ctx context.Context, id string) error
	Slots(ctx context.Context, q booking.SlotQuery) ([]booking.Slot, error)
}

type sessionStore interface {
	Get(ctx context.Context, id string) (*booking.Session, error)
	Save(ctx context.Context, s *booking.Session) error
}

type promoter interface {
	Status(club booking.Club) boost.Status
	Offer(ctx context.Context) booking.FeaturedOffer
	Checkout(ctx context.Context, ownerKey string) (boost.Checkout, error)
}

type Config struct {
	L          *logger.Logger
	API        upstream
	Sessions   sessionStore
	Promotions promoter
	// SiteURL is the public search page shared links point at.
	SiteURL  string
	Location *time.Location
	Now      func() time.Time
}

// Manager is the club self-service panel.
type Manager struct {
	l          *logger.Logger
	api        upstream
	sessions   sessionStore
	promotions promoter
	siteURL    string
	loc        *time.Location
	now        func() time.Time
}

func New(conf Config) *Manager {
	loc := conf.Location
	if loc == nil {
		loc = time.UTC
	}

	now := conf.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{
		l:          conf.L,
		api:        conf.API,
		sessions:   conf.Sessions,
		promotions: conf.Promotions,
		siteURL:    strings.TrimRight(conf.SiteURL, "/"),
		loc:        loc,
		now:        now,
	}
}

func (m *Manager) clock() time.Time {
	return m.now().In(m.loc)
}

func (m *Manager) club(ctx context.Context, sessionID string) (*booking.Session, *booking.ClubSession, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, nil, booking.ErrSessionNotFound
	}

	s, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	if s.Club == nil || s.Club.OwnerKey == "" {
		return nil, nil, booking.ErrNoClubSession
	}

	return s, s.Club, nil
}

func (m *Manager) save(ctx context.Context, s *booking.Session) error {
	s.UpdatedAt = m.clock()

	if err := m.sessions.Save(ctx, s); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}

	return nil
}

func validateCredentials(email, password string) error {
	inputErr := booking.NewInputError()

	if strings.TrimSpace(email) == "" {
		inputErr.Add("email", "provide email")
	}

	if strings.TrimSpace(password) == "" {
		inputErr.Add("password", "provide password")
	}

	return inputErr.OrNil()
}

// Login signs the club into the panel within an existing session.
func (m *Manager) Login(ctx context.Context, sessionID, email, password string) (*booking.ClubSession, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	s, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	login, err := m.api.LoginClub(ctx, strings.TrimSpace(email), strings.TrimSpace(password))
	if err != nil {
		return nil, fmt.Errorf("login club %s: %w", email, err)
	}

	owner := login.OwnerKey
	if owner == "" {
		owner = strings.TrimSpace(email)
	}

	s.Club = &booking.ClubSession{
		OwnerKey:    owner,
		DisplayName: login.Name,
		ClubID:      login.ClubID,
		Token:       login.Token,
	}

	if err := m.save(ctx, s); err != nil {
		return nil, err
	}

	m.l.LogInfo("Club %s logged into the panel", owner)

	return s.Club, nil
}

func (m *Manager) ResendVerification(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		inputErr := booking.NewInputError()
		inputErr.Add("email", "provide email")

		return "", inputErr
	}

	msg, err := m.api.ResendVerification(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("resend verification to %s: %w", email, err)
	}

	return msg, nil
}

func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	s, _, err := m.club(ctx, sessionID)
	if err != nil {
		return err
	}

	s.Club = nil

	return m.save(ctx, s)
}

// ShareLink is the search page url that fixes the searcher on this club.
func (m *Manager) ShareLink(cs *booking.ClubSession) (string, error) {
	if cs == nil || strings.TrimSpace(cs.ClubID) == "" {
		return "", ErrNoClubID
	}

	return m.siteURL + "/?clubId=" + url.QueryEscape(strings.TrimSpace(cs.ClubID)), nil
}

type Overview struct {
	Club      booking.Club          `json:"club"`
	Featured  boost.Status          `json:"featured"`
	Offer     booking.FeaturedOffer `json:"offer"`
	ShareLink string                `json:"shareLink,omitempty"`
	Today     []ReservationView     `json:"today"`
}

// Overview gathers the panel landing page: profile, promotion, share link and today's bookings.
func (m *Manager) Overview(ctx context.Context, sessionID string) (Overview, error) {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return Overview{}, err
	}

	club, err := m.api.ClubByOwner(ctx, cs.OwnerKey)
	if err != nil {
		return Overview{}, fmt.Errorf("get club %s: %w", cs.OwnerKey, err)
	}

	today, err := m.today(ctx, cs.OwnerKey)
	if err != nil {
		m.l.LogWarnf("Could not load today's reservations for %s: %v", cs.OwnerKey, err.Error())

		today = []ReservationView{}
	}

	link, err := m.ShareLink(cs)
	if err != nil {
		m.l.LogWarnf("No share link for %s: %v", cs.OwnerKey, err.Error())
	}

	return Overview{
		Club:      club,
		Featured:  m.promotions.Status(club),
		Offer:     m.promotions.Offer(ctx),
		ShareLink: link,
		Today:     today,
	}, nil
}

func (m *Manager) Profile(ctx context.Context, sessionID string) (booking.Club, error) {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return booking.Club{}, err
	}

	club, err := m.api.ClubByOwner(ctx, cs.OwnerKey)
	if err != nil {
		return booking.Club{}, fmt.Errorf("get club %s: %w", cs.OwnerKey, err)
	}

	return club, nil
}

func (m *Manager) UpdateProfile(ctx context.Context, sessionID string, p booking.ProfileUpdate) error {
	s, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return err
	}

	if strings.TrimSpace(p.Name) == "" {
		inputErr := booking.NewInputError()
		inputErr.Add("name", "provide name")

		return inputErr
	}

	if cs.ClubID == "" {
		return ErrNoClubID
	}

	if err := m.api.UpdateClub(ctx, cs.ClubID, p); err != nil {
		return fmt.Errorf("update club %s: %w", cs.ClubID, err)
	}

	cs.DisplayName = strings.TrimSpace(p.Name)

	return m.save(ctx, s)
}

func (m *Manager) SetAccessToken(ctx context.Context, sessionID, token string) (string, error) {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(token) == "" {
		inputErr := booking.NewInputError()
		inputErr.Add("accessToken", "provide access token")

		return "", inputErr
	}

	msg, err := m.api.SetAccessToken(ctx, cs.OwnerKey, strings.TrimSpace(token))
	if err != nil {
		return "", fmt.Errorf("set access token for %s: %w", cs.OwnerKey, err)
	}

	return msg, nil
}

// FeaturedCheckout returns the payment link that features or renews the club.
func (m *Manager) FeaturedCheckout(ctx context.Context, sessionID string) (boost.Checkout, error) {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return boost.Checkout{}, err
	}

	checkout, err := m.promotions.Checkout(ctx, cs.OwnerKey)
	if err != nil {
		return boost.Checkout{}, fmt.Errorf("featured checkout: %w", err)
	}

	return checkout, nil
}
