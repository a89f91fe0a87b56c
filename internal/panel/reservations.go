package panel

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avstrong/canchalibre/internal/booking"
)

const (
	displayDateLayout = "02/01/2006"
	cashPayment       = "efectivo"
)

// ReservationView is a reservation ready for the panel tables.
type ReservationView struct {
	booking.Reservation
	DisplayDate string `json:"displayDate"`
	WhatsApp    string `json:"whatsapp,omitempty"`
}

type Reservations struct {
	Upcoming []ReservationView `json:"upcoming"`
	Past     []ReservationView `json:"past"`
}

// parseReservationStart accepts YYYY-MM-DD and DD/MM/YYYY dates, zero padded or not.
func parseReservationStart(date, clock string, loc *time.Location) (time.Time, bool) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)

	var layout string

	switch {
	case strings.Contains(date, "-"):
		layout = "2006-1-2 15:04"
	case strings.Contains(date, "/"):
		layout = "2/1/2006 15:04"
	default:
		return time.Time{}, false
	}

	t, err := time.ParseInLocation(layout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

func (m *Manager) view(r booking.Reservation) ReservationView {
	v := ReservationView{Reservation: r, DisplayDate: r.Date}

	if start, ok := parseReservationStart(r.Date, "00:00", m.loc); ok {
		v.DisplayDate = start.Format(displayDateLayout)
	}

	if phone := ListPhone(r.CustomerPhone); phone != "" {
		v.WhatsApp = WhatsAppLink(phone, "")
	}

	return v
}

// Reservations splits the club's bookings into upcoming and past. A booking
// whose date cannot be read counts as past.
func (m *Manager) Reservations(ctx context.Context, sessionID string) (Reservations, error) {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return Reservations{}, err
	}

	list, err := m.api.Reservations(ctx, cs.OwnerKey)
	if err != nil {
		return Reservations{}, fmt.Errorf("get reservations for %s: %w", cs.OwnerKey, err)
	}

	now := m.clock()
	out := Reservations{Upcoming: []ReservationView{}, Past: []ReservationView{}}

	for _, r := range list {
		start, ok := parseReservationStart(r.Date, r.Time, m.loc)
		if ok && !start.Before(now) {
			out.Upcoming = append(out.Upcoming, m.view(r))

			continue
		}

		out.Past = append(out.Past, m.view(r))
	}

	return out, nil
}

func (m *Manager) today(ctx context.Context, ownerKey string) ([]ReservationView, error) {
	list, err := m.api.Reservations(ctx, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("get reservations for %s: %w", ownerKey, err)
	}

	today := m.clock().Format(booking.DateLayout)
	out := make([]ReservationView, 0)

	for _, r := range list {
		start, ok := parseReservationStart(r.Date, "00:00", m.loc)
		if ok && start.Format(booking.DateLayout) == today {
			out = append(out, m.view(r))
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })

	return out, nil
}

// Today lists today's bookings ordered by time.
func (m *Manager) Today(ctx context.Context, sessionID string) ([]ReservationView, error) {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return m.today(ctx, cs.OwnerKey)
}

func (m *Manager) Cancel(ctx context.Context, sessionID, reservationID string) error {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := m.api.CancelSlot(ctx, reservationID); err != nil {
		return fmt.Errorf("cancel reservation %s: %w", reservationID, err)
	}

	m.l.LogInfo("Club %s cancelled reservation %s", cs.OwnerKey, reservationID)

	return nil
}

func (m *Manager) MarkPaid(ctx context.Context, sessionID, reservationID string) error {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := m.api.MarkPaid(ctx, reservationID); err != nil {
		return fmt.Errorf("mark reservation %s paid: %w", reservationID, err)
	}

	m.l.LogInfo("Club %s marked reservation %s as paid", cs.OwnerKey, reservationID)

	return nil
}

func validateManual(r booking.ManualReservation) error {
	inputErr := booking.NewInputError()

	if strings.TrimSpace(r.CustomerName) == "" {
		inputErr.Add("customerName", "provide customer name")
	}

	if strings.TrimSpace(r.CustomerPhone) == "" {
		inputErr.Add("customerPhone", "provide customer phone")
	}

	if strings.TrimSpace(r.CustomerEmail) == "" {
		inputErr.Add("customerEmail", "provide customer email")
	}

	if strings.TrimSpace(r.FacilityID) == "" {
		inputErr.Add("facilityId", "provide facilityId")
	}

	if _, err := booking.ParseLocal(r.Date, r.Time, time.UTC); err != nil {
		inputErr.Add("date", "provide date YYYY-MM-DD and time HH:MM")
	}

	return inputErr.OrNil()
}

// Reserve books a free slot for a customer paying at the club.
func (m *Manager) Reserve(ctx context.Context, sessionID string, r booking.ManualReservation) error {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := validateManual(r); err != nil {
		return err
	}

	if r.Club == "" {
		r.Club = cs.OwnerKey
	}

	r.PaymentMethod = cashPayment

	if err := m.api.Reserve(ctx, r); err != nil {
		return fmt.Errorf("reserve %s %s %s: %w", r.FacilityID, r.Date, r.Time, err)
	}

	return nil
}

// PaymentShare is everything needed to send a customer a payment link.
type PaymentShare struct {
	URL      string `json:"url"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
	WhatsApp string `json:"whatsapp"`
}

func paymentMessage(club string, r booking.Reservation, payURL, displayDate string) string {
	return fmt.Sprintf("Hola! Te compartimos el link para pagar tu reserva en %s:\n\n"+
		"📅 %s\n"+
		"🕐 %s hs\n"+
		"🏅 Deporte: %s\n\n"+
		"💳 Link de pago:\n%s", club, displayDate, r.Time, r.Sport, payURL)
}

// SharePaymentLink creates a payment link for a reservation and the WhatsApp
// message that sends it to the customer.
func (m *Manager) SharePaymentLink(ctx context.Context, sessionID, reservationID string) (PaymentShare, error) {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return PaymentShare{}, err
	}

	payURL, err := m.api.PaymentLink(ctx, reservationID)
	if err != nil {
		return PaymentShare{}, fmt.Errorf("generate payment link for %s: %w", reservationID, err)
	}

	r, err := m.api.Reservation(ctx, reservationID)
	if err != nil {
		return PaymentShare{}, fmt.Errorf("get reservation %s: %w", reservationID, err)
	}

	phone := NormalizePhone(r.CustomerPhone)
	if phone == "" {
		return PaymentShare{}, ErrNoPhone
	}

	club := cs.DisplayName
	if club == "" {
		club = r.Club
	}

	msg := paymentMessage(club, r, payURL, m.view(r).DisplayDate)

	return PaymentShare{
		URL:      payURL,
		Phone:    phone,
		Message:  msg,
		WhatsApp: WhatsAppLink(phone, msg),
	}, nil
}

// Agenda states of a slot in the weekly calendar.
const (
	SlotFree       = "free"
	SlotBooked     = "booked"
	SlotPastFree   = "past_free"
	SlotPastBooked = "past_booked"
)

type AgendaEntry struct {
	booking.Slot
	State string `json:"state"`
	Title string `json:"title"`
}

type Agenda struct {
	Facility  booking.Facility `json:"facility"`
	WeekStart string           `json:"weekStart"`
	Entries   []AgendaEntry    `json:"entries"`
}

func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7 //nolint:gomnd

	y, mo, d := day.AddDate(0, 0, -offset).Date()

	return time.Date(y, mo, d, 0, 0, 0, 0, day.Location())
}

func agendaState(s booking.Slot, start time.Time, now time.Time) (string, string) {
	title := "Libre"
	if s.Booked() {
		title = "Reservado: " + s.BookedBy
	}

	switch past := start.Before(now); {
	case past && s.Booked():
		return SlotPastBooked, title
	case past:
		return SlotPastFree, title
	case s.Booked():
		return SlotBooked, title
	default:
		return SlotFree, title
	}
}

// Agenda returns one facility's slots for the week (Monday first) containing day.
// An empty day means the current week.
func (m *Manager) Agenda(ctx context.Context, sessionID, facilityID, day string) (Agenda, error) {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return Agenda{}, err
	}

	ref := m.clock()

	if day != "" {
		ref, err = time.ParseInLocation(booking.DateLayout, day, m.loc)
		if err != nil {
			inputErr := booking.NewInputError()
			inputErr.Add("week", "week must be YYYY-MM-DD")

			return Agenda{}, inputErr
		}
	}

	start := weekStart(ref)
	end := start.AddDate(0, 0, 7) //nolint:gomnd

	var (
		facilities []booking.Facility
		slots      []booking.Slot
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		facilities, err = m.api.Facilities(gctx, cs.OwnerKey)
		if err != nil {
			return fmt.Errorf("get facilities for %s: %w", cs.OwnerKey, err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		slots, err = m.api.Slots(gctx, booking.SlotQuery{Date: start.Format(booking.DateLayout), Club: cs.OwnerKey})
		if err != nil {
			return fmt.Errorf("get slots from %s: %w", start.Format(booking.DateLayout), err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return Agenda{}, err
	}

	facility, ok := findFacility(facilities, facilityID)
	if !ok {
		return Agenda{}, fmt.Errorf("facility %s: %w", facilityID, ErrFacilityNotFound)
	}

	now := m.clock()
	entries := make([]AgendaEntry, 0, len(slots))

	for _, s := range slots {
		if s.FacilityID != facility.ID {
			continue
		}

		slotStart, err := s.Start(m.loc)
		if err != nil || slotStart.Before(start) || !slotStart.Before(end) {
			continue
		}

		state, title := agendaState(s, slotStart, now)
		entries = append(entries, AgendaEntry{Slot: s, State: state, Title: title})
	}

	return Agenda{Facility: facility, WeekStart: start.Format(booking.DateLayout), Entries: entries}, nil
}
