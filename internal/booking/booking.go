package booking

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avstrong/canchalibre/internal/location"
	"github.com/avstrong/canchalibre/internal/logger"
)

const linkWarning = "No pudimos aplicar el club del enlace compartido. Podés buscar en todos los clubes."

type idGenerator interface {
	NextID(ctx context.Context) (string, error)
}

type directory interface {
	ClubByID(ctx context.Context, id string) (Club, error)
	ClubByOwner(ctx context.Context, ownerKey string) (Club, error)
	Clubs(ctx context.Context, region, locality string) ([]Club, error)
	Slots(ctx context.Context, q SlotQuery) ([]Slot, error)
	Hold(ctx context.Context, r HoldRequest) (HoldResult, error)
}

type ranker interface {
	Rank(slots []Slot, clubs []Club) []Listing
}

type sessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

type geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}

type autocompleter interface {
	Autocomplete(ctx context.Context, region, locality string) (location.Match, error)
}

type observer interface {
	ObserveSearch(outcome string, results int)
	ObserveLinkResolution(outcome string)
	ObserveAutocomplete(outcome string)
}

type noopObserver struct{}

func (noopObserver) ObserveSearch(string, int)    {}
func (noopObserver) ObserveLinkResolution(string) {}
func (noopObserver) ObserveAutocomplete(string)   {}

type Config struct {
	L           *logger.Logger
	Directory   directory
	Ranker      ranker
	Sessions    sessionStore
	IDGenerator idGenerator
	Geocoder    geocoder
	Locations   autocompleter
	Metrics     observer
	// Location is the zone slot dates and times are written in.
	Location *time.Location
	Now      func() time.Time
}

// Manager runs the searcher side of the site: sessions, search, location
// detection and the select, detail and hold steps.
type Manager struct {
	l           *logger.Logger
	directory   directory
	ranker      ranker
	sessions    sessionStore
	idGenerator idGenerator
	geocoder    geocoder
	locations   autocompleter
	metrics     observer
	loc         *time.Location
	now         func() time.Time
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

	var metrics observer = noopObserver{}
	if conf.Metrics != nil {
		metrics = conf.Metrics
	}

	return &Manager{
		l:           conf.L,
		directory:   conf.Directory,
		ranker:      conf.Ranker,
		sessions:    conf.Sessions,
		idGenerator: conf.IDGenerator,
		geocoder:    conf.Geocoder,
		locations:   conf.Locations,
		metrics:     metrics,
		loc:         loc,
		now:         now,
	}
}

func (m *Manager) clock() time.Time {
	return m.now().In(m.loc)
}

func (m *Manager) load(ctx context.Context, sessionID string) (*Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionNotFound
	}

	s, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	return s, nil
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	s.UpdatedAt = m.clock()

	if err := m.sessions.Save(ctx, s); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}

	return nil
}

// CreateSession starts a searcher session. A non-empty linkID is the club id
// of a shared link; a link that cannot be resolved only leaves a warning.
func (m *Manager) CreateSession(ctx context.Context, linkID string) (*Session, error) {
	id, err := m.idGenerator.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNextID, err)
	}

	s := NewSession(id, m.clock())

	if linkID = strings.TrimSpace(linkID); linkID != "" {
		m.resolveSharedLink(ctx, s, linkID)
	}

	if err := m.save(ctx, s); err != nil {
		return nil, err
	}

	return s, nil
}

func (m *Manager) Session(ctx context.Context, sessionID string) (*Session, error) {
	return m.load(ctx, sessionID)
}

func (m *Manager) EndSession(ctx context.Context, sessionID string) error {
	if err := m.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}

	return nil
}

// ResolveSharedLink applies a shared link to an existing session.
func (m *Manager) ResolveSharedLink(ctx context.Context, sessionID, linkID string) (*Session, error) {
	s, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	m.resolveSharedLink(ctx, s, strings.TrimSpace(linkID))

	if err := m.save(ctx, s); err != nil {
		return nil, err
	}

	return s, nil
}

// resolveSharedLink never fails: on any error the session keeps no club constraint.
func (m *Manager) resolveSharedLink(ctx context.Context, s *Session, linkID string) {
	club, err := m.directory.ClubByID(ctx, linkID)
	if err == nil && strings.TrimSpace(club.OwnerKey) == "" {
		err = ErrLinkUnresolved
	}

	if err != nil {
		s.ReleaseClub()
		s.AddWarning(linkWarning)
		m.metrics.ObserveLinkResolution("failed")
		m.l.LogWarnf("Could not resolve shared link %q for session %s: %v", linkID, s.ID, err.Error())

		return
	}

	s.FixClub(club.OwnerKey)
	m.metrics.ObserveLinkResolution("resolved")
}

func validateEmail(email string) error {
	inputErr := NewInputError()

	if _, err := mail.ParseAddress(email); err != nil {
		inputErr.Add("email", "provide valid email")
	}

	return inputErr.OrNil()
}

func (m *Manager) Login(ctx context.Context, sessionID, email string) (*Session, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	s, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.UserEmail = email

	if err := m.save(ctx, s); err != nil {
		return nil, err
	}

	return s, nil
}

func (m *Manager) Logout(ctx context.Context, sessionID string) (*Session, error) {
	s, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.UserEmail = ""
	s.Selected = nil

	if err := m.save(ctx, s); err != nil {
		return nil, err
	}

	return s, nil
}

// ChooseClub sets the club filter. It returns ErrClubLocked while a shared link fixes the club.
func (m *Manager) ChooseClub(ctx context.Context, sessionID, ownerKey string) (*Session, error) {
	s, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.ChooseClub(strings.TrimSpace(ownerKey)); err != nil {
		return s, err
	}

	if err := m.save(ctx, s); err != nil {
		return nil, err
	}

	return s, nil
}

type ClubOptions struct {
	Locked bool   `json:"locked"`
	Clubs  []Club `json:"clubs"`
}

// ClubOptions lists the clubs the user may pick from. A locked session only
// offers the fixed club.
func (m *Manager) ClubOptions(ctx context.Context, sessionID, region, locality string) (ClubOptions, error) {
	s, err := m.load(ctx, sessionID)
	if err != nil {
		return ClubOptions{}, err
	}

	if s.Locked() {
		club, err := m.directory.ClubByOwner(ctx, s.FixedClub)
		if err != nil {
			m.l.LogWarnf("Could not load fixed club %s: %v", s.FixedClub, err.Error())

			//nolint:exhaustruct
			club = Club{OwnerKey: s.FixedClub}
		}

		return ClubOptions{Locked: true, Clubs: []Club{club}}, nil
	}

	clubs, err := m.directory.Clubs(ctx, region, locality)
	if err != nil {
		return ClubOptions{}, fmt.Errorf("list clubs in %q/%q: %w", region, locality, err)
	}

	return ClubOptions{Locked: false, Clubs: clubs}, nil
}

func (c *Criteria) validate() error {
	inputErr := NewInputError()

	if strings.TrimSpace(c.Sport) == "" {
		inputErr.Add("sport", "provide sport")
	}

	if c.Date == "" {
		inputErr.Add("date", "provide date")
	} else if _, err := time.Parse(DateLayout, c.Date); err != nil {
		inputErr.Add("date", "date must be YYYY-MM-DD")
	}

	if c.Time != "" {
		if _, err := time.Parse(TimeLayout, c.Time); err != nil {
			inputErr.Add("time", "time must be HH:MM")
		}
	}

	return inputErr.OrNil()
}

// applySession fills what the form leaves empty from the session. A fixed club
// always wins and drops the location, which the shared link page never sends.
func (c *Criteria) applySession(s *Session) {
	c.Sport = strings.TrimSpace(c.Sport)
	c.Date = strings.TrimSpace(c.Date)
	c.Time = strings.TrimSpace(c.Time)

	if s.Locked() {
		c.Club = s.EffectiveClub()
		c.Region, c.Locality = "", ""

		return
	}

	if c.Club == "" {
		c.Club = s.EffectiveClub()
	}

	if c.Region == "" && c.Locality == "" {
		c.Region = s.Region
		c.Locality = s.Locality
	}
}

// Search fetches the day's slots, keeps the available ones that match and
// ranks featured clubs first. The club directory is only needed for ranking,
// so failing to load it degrades to an unranked list.
func (m *Manager) Search(ctx context.Context, sessionID string, c Criteria) (SearchResult, error) {
	s, err := m.load(ctx, sessionID)
	if err != nil {
		return SearchResult{}, err
	}

	if !s.LoggedIn() {
		return SearchResult{}, ErrNotLoggedIn
	}

	c.applySession(s)

	if err := c.validate(); err != nil {
		m.metrics.ObserveSearch("invalid", -1)

		return SearchResult{}, err
	}

	var (
		slots []Slot
		clubs []Club
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		slots, err = m.directory.Slots(gctx, SlotQuery{Date: c.Date, Region: c.Region, Locality: c.Locality, Club: c.Club})
		if err != nil {
			return fmt.Errorf("get slots for %s: %w", c.Date, err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		clubs, err = m.directory.Clubs(gctx, "", "")
		if err != nil {
			m.l.LogWarnf("Could not load clubs for ranking, featured clubs will not be first: %v", err.Error())

			clubs = nil
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		m.metrics.ObserveSearch("upstream_error", -1)

		return SearchResult{}, err
	}

	now := m.clock()
	listings := m.ranker.Rank(Filter(slots, c, now), clubs)

	s.LastSearch = &now

	if err := m.save(ctx, s); err != nil {
		return SearchResult{}, err
	}

	m.metrics.ObserveSearch("ok", len(listings))

	return SearchResult{Criteria: c, Listings: listings, SearchedAt: now}, nil
}

func validateCoordinates(lat, lon float64) error {
	inputErr := NewInputError()

	if lat < -90 || lat > 90 {
		inputErr.Add("lat", "lat must be within [-90, 90]")
	}

	if lon < -180 || lon > 180 {
		inputErr.Add("lon", "lon must be within [-180, 180]")
	}

	return inputErr.OrNil()
}

// Locate turns browser coordinates into a region and locality from the
// catalog. It does nothing when a shared link fixes the club, and a failed
// lookup leaves the session unchanged without an error.
func (m *Manager) Locate(ctx context.Context, sessionID string, lat, lon float64) (LocateResult, error) {
	s, err := m.load(ctx, sessionID)
	if err != nil {
		return LocateResult{}, err
	}

	if s.FixedClub != "" {
		//nolint:exhaustruct
		return LocateResult{Skipped: true}, nil
	}

	if err := validateCoordinates(lat, lon); err != nil {
		return LocateResult{}, err
	}

	place, err := m.geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		m.metrics.ObserveAutocomplete("geocode_failed")
		m.l.LogWarnf("Could not reverse geocode %v,%v: %v", lat, lon, err.Error())

		//nolint:exhaustruct
		return LocateResult{}, nil
	}

	match, err := m.locations.Autocomplete(ctx, place.Region, place.Locality)
	if err != nil {
		return LocateResult{}, fmt.Errorf("autocomplete %q/%q: %w", place.Region, place.Locality, err)
	}

	res := LocateResult{Skipped: false, Region: place.Region, Locality: place.Locality, Matched: false}

	switch {
	case match.RegionFound && match.LocalityFound:
		m.metrics.ObserveAutocomplete("matched")

		res.Matched = true
		res.Region, res.Locality = match.Region, match.Locality
		s.Region, s.Locality = match.Region, match.Locality
	case match.RegionFound:
		m.metrics.ObserveAutocomplete("region_only")

		res.Region = match.Region
		s.Region, s.Locality = match.Region, ""
	default:
		m.metrics.ObserveAutocomplete("not_found")

		return res, nil
	}

	if err := m.save(ctx, s); err != nil {
		return LocateResult{}, err
	}

	return res, nil
}

func (s Slot) validateSelection() error {
	inputErr := NewInputError()

	if strings.TrimSpace(s.FacilityID) == "" {
		inputErr.Add("facilityId", "provide facilityId")
	}

	if strings.TrimSpace(s.Club) == "" {
		inputErr.Add("club", "provide club")
	}

	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		inputErr.Add("date", "date must be YYYY-MM-DD")
	}

	if _, err := time.Parse(TimeLayout, s.Time); err != nil {
		inputErr.Add("time", "time must be HH:MM")
	}

	if s.Price < 0 {
		inputErr.Add("price", "price must not be negative")
	}

	return inputErr.OrNil()
}

// Select keeps a snapshot of the chosen slot, replacing any earlier one.
func (m *Manager) Select(ctx context.Context, sessionID string, slot Slot) (*SelectedSlot, error) {
	if err := slot.validateSelection(); err != nil {
		return nil, err
	}

	s, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	snap := SnapshotOf(slot, m.clock())
	s.Selected = &snap

	if err := m.save(ctx, s); err != nil {
		return nil, err
	}

	return &snap, nil
}

func (m *Manager) checkout(ctx context.Context, sessionID string) (*Session, error) {
	s, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}

	if s.Selected == nil {
		return nil, ErrNoSelection
	}

	return s, nil
}

// Detail renders the selected slot. When the club cannot be loaded the club
// key stands in for its name and online payment is assumed unavailable.
func (m *Manager) Detail(ctx context.Context, sessionID string) (Detail, error) {
	s, err := m.checkout(ctx, sessionID)
	if err != nil {
		return Detail{}, err
	}

	d := Detail{
		Selected:      *s.Selected,
		ClubName:      s.Selected.Club,
		DurationLabel: FormatDuration(s.Selected.Duration),
		OnlinePayment: false,
	}

	club, err := m.directory.ClubByOwner(ctx, s.Selected.Club)
	if err != nil {
		m.l.LogWarnf("Could not load club %s for detail: %v", s.Selected.Club, err.Error())

		return d, nil
	}

	d.ClubName = club.DisplayName()
	d.OnlinePayment = club.OnlinePayment

	return d, nil
}

// Hold asks the court API to hold the selected slot for the logged in user.
func (m *Manager) Hold(ctx context.Context, sessionID string) (HoldResult, error) {
	s, err := m.checkout(ctx, sessionID)
	if err != nil {
		return HoldResult{}, err
	}

	req := HoldRequest{
		FacilityID: s.Selected.FacilityID,
		Date:       s.Selected.Date,
		Time:       s.Selected.Time,
		Email:      s.UserEmail,
	}

	res, err := m.directory.Hold(ctx, req)
	if err != nil {
		return HoldResult{}, fmt.Errorf("hold %s %s %s: %w", req.FacilityID, req.Date, req.Time, err)
	}

	if _, ok := IdempotencyKeyFromContext(ctx); !ok {
		m.l.LogDebugf("Hold for session %s sent without idempotency key", s.ID)
	}

	m.l.LogInfo("Slot %s %s %s held for %s", req.FacilityID, req.Date, req.Time, req.Email)

	return res, nil
}
