package panel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avstrong/canchalibre/internal/booking"
)

func findFacility(list []booking.Facility, id string) (booking.Facility, bool) {
	for _, f := range list {
		if f.ID == id {
			return f, true
		}
	}

	return booking.Facility{}, false
}

func (m *Manager) Facilities(ctx context.Context, sessionID string) ([]booking.Facility, error) {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	list, err := m.api.Facilities(ctx, cs.OwnerKey)
	if err != nil {
		return nil, fmt.Errorf("get facilities for %s: %w", cs.OwnerKey, err)
	}

	return list, nil
}

func parseHour(v string) (time.Time, bool) {
	t, err := time.Parse(booking.TimeLayout, strings.TrimSpace(v))

	return t, err == nil
}

func validateFacility(f booking.Facility) error {
	inputErr := booking.NewInputError()

	if strings.TrimSpace(f.Name) == "" {
		inputErr.Add("name", "provide name")
	}

	if strings.TrimSpace(f.Sport) == "" {
		inputErr.Add("sport", "provide sport")
	}

	if f.Price <= 0 {
		inputErr.Add("price", "price must be greater than 0")
	}

	from, okFrom := parseHour(f.HourFrom)
	if !okFrom {
		inputErr.Add("hourFrom", "hourFrom must be HH:MM")
	}

	to, okTo := parseHour(f.HourTo)
	if !okTo {
		inputErr.Add("hourTo", "hourTo must be HH:MM")
	}

	if okFrom && okTo && !to.After(from) {
		inputErr.Add("hourTo", "hourTo must be after hourFrom")
	}

	if f.Duration < 0 {
		inputErr.Add("duration", "duration must be positive")
	}

	if f.NightFrom != nil && (*f.NightFrom < 0 || *f.NightFrom > 23) { //nolint:gomnd
		inputErr.Add("nightFrom", "nightFrom must be an hour between 0 and 23")
	}

	if f.NightPrice != nil && *f.NightPrice <= 0 {
		inputErr.Add("nightPrice", "nightPrice must be greater than 0")
	}

	return inputErr.OrNil()
}

// SaveFacility creates the facility when it has no id and updates it otherwise.
// The owner is always the signed-in club.
func (m *Manager) SaveFacility(ctx context.Context, sessionID string, f booking.Facility) (booking.Facility, error) {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return booking.Facility{}, err
	}

	f.Name = strings.TrimSpace(f.Name)
	f.Sport = strings.TrimSpace(f.Sport)

	if err := validateFacility(f); err != nil {
		return booking.Facility{}, err
	}

	if f.Duration == 0 {
		f.Duration = booking.DefaultDuration
	}

	f.OwnerKey = cs.OwnerKey

	if f.ID == "" {
		if err := m.api.CreateFacility(ctx, f); err != nil {
			return booking.Facility{}, fmt.Errorf("create facility %s: %w", f.Name, err)
		}

		m.l.LogInfo("Club %s created facility %s", cs.OwnerKey, f.Name)

		return f, nil
	}

	if err := m.api.UpdateFacility(ctx, f.ID, f); err != nil {
		return booking.Facility{}, fmt.Errorf("update facility %s: %w", f.ID, err)
	}

	return f, nil
}

func (m *Manager) DeleteFacility(ctx context.Context, sessionID, facilityID string) error {
	_, cs, err := m.club(ctx, sessionID)
	if err != nil {
		return err
	}

	if strings.TrimSpace(facilityID) == "" {
		inputErr := booking.NewInputError()
		inputErr.Add("id", "provide facility id")

		return inputErr
	}

	if err := m.api.DeleteFacility(ctx, facilityID); err != nil {
		return fmt.Errorf("delete facility %s: %w", facilityID, err)
	}

	m.l.LogInfo("Club %s deleted facility %s", cs.OwnerKey, facilityID)

	return nil
}
