package booking

import (
	"time"
)

// ControlState tells whether the club selection control may be changed by the user.
type ControlState string

const (
	ControlUnlocked ControlState = "unlocked"
	ControlLocked   ControlState = "locked"
)

type ControlEvent int

const (
	// EventClubFixed fires when a shared link resolves to a club.
	EventClubFixed ControlEvent = iota
	// EventClubReleased fires when the fixed club is dropped, e.g. on a new session.
	EventClubReleased
	// EventUserEdit fires when the user tries to pick a club.
	EventUserEdit
)

// NextControlState is the whole locked/unlocked state machine. A user edit
// never changes the state; only fixing or releasing a club does.
func NextControlState(s ControlState, e ControlEvent) ControlState {
	if s == "" {
		s = ControlUnlocked
	}

	switch e {
	case EventClubFixed:
		return ControlLocked
	case EventClubReleased:
		return ControlUnlocked
	default:
		return s
	}
}

// ClubSession identifies a club signed into the self-service panel.
type ClubSession struct {
	OwnerKey    string `json:"ownerKey"`
	DisplayName string `json:"displayName"`
	ClubID      string `json:"clubId"`
	Token       string `json:"token"`
}

// Session replaces the handful of values the site used to keep in browser storage.
type Session struct {
	ID          string        `json:"id"`
	UserEmail   string        `json:"userEmail,omitempty"`
	FixedClub   string        `json:"fixedClub,omitempty"`
	ChosenClub  string        `json:"chosenClub,omitempty"`
	ClubControl ControlState  `json:"clubControl"`
	Region      string        `json:"region,omitempty"`
	Locality    string        `json:"locality,omitempty"`
	Selected    *SelectedSlot `json:"selected,omitempty"`
	Club        *ClubSession  `json:"club,omitempty"`
	Warnings    []string      `json:"warnings,omitempty"`
	LastSearch  *time.Time    `json:"lastSearch,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func NewSession(id string, now time.Time) *Session {
	//nolint:exhaustruct
	return &Session{
		ID:          id,
		ClubControl: ControlUnlocked,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *Session) LoggedIn() bool {
	return s.UserEmail != ""
}

func (s *Session) Locked() bool {
	return s.ClubControl == ControlLocked
}

// FixClub locks the session on a club. The detected location no longer applies.
func (s *Session) FixClub(ownerKey string) {
	s.FixedClub = ownerKey
	s.ChosenClub = ""
	s.Region, s.Locality = "", ""
	s.ClubControl = NextControlState(s.ClubControl, EventClubFixed)
}

func (s *Session) ReleaseClub() {
	s.FixedClub = ""
	s.ClubControl = NextControlState(s.ClubControl, EventClubReleased)
}

// ChooseClub records the user's pick. It fails while a shared link fixes the club.
func (s *Session) ChooseClub(ownerKey string) error {
	s.ClubControl = NextControlState(s.ClubControl, EventUserEdit)
	if s.Locked() {
		return ErrClubLocked
	}

	s.ChosenClub = ownerKey

	return nil
}

// EffectiveClub is the club constraint searches run with.
func (s *Session) EffectiveClub() string {
	if s.FixedClub != "" {
		return s.FixedClub
	}

	return s.ChosenClub
}

func (s *Session) AddWarning(msg string) {
	s.Warnings = append(s.Warnings, msg)
}
