package boost

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/canchalibre/internal/booking"
	"github.com/avstrong/canchalibre/internal/logger"
)

var now = time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return now }

func clubs() []booking.Club {
	return []booking.Club{
		{OwnerKey: "x@club", Name: "Club X"},
		{OwnerKey: "y@club", Name: "Club Y", Featured: true, FeaturedUntil: now.Add(48 * time.Hour)},
		{OwnerKey: "z@club", Name: "", Featured: true, FeaturedUntil: now.Add(-time.Hour)},
	}
}

func TestRankFeaturedFirstStable(t *testing.T) {
	slots := []booking.Slot{
		{FacilityID: "A", Club: "x@club"},
		{FacilityID: "B", Club: "y@club"},
		{FacilityID: "C", Club: "x@club"},
	}

	got := NewRanker(fixedNow).Rank(slots, clubs())

	ids := make([]string, 0, len(got))
	for _, l := range got {
		ids = append(ids, l.FacilityID)
	}

	assert.Equal(t, []string{"B", "A", "C"}, ids)
	assert.True(t, got[0].Featured)
	assert.Equal(t, "Club Y", got[0].ClubName)
	assert.Equal(t, "1 hora", got[0].DurationLabel)
}

func TestRankKeepsOrderInsideBothGroups(t *testing.T) {
	cs := append(clubs(),
		booking.Club{OwnerKey: "w@club", Name: "Club W", Featured: true, FeaturedUntil: now.AddDate(0, 0, 10)},
		booking.Club{OwnerKey: "v@club", Name: "Club V", Featured: true, FeaturedUntil: now},
	)

	slots := []booking.Slot{
		{FacilityID: "F1", Club: "y@club"},
		{FacilityID: "N1", Club: "x@club"},
		{FacilityID: "F2", Club: "w@club"},
		{FacilityID: "N2", Club: "v@club"},
		{FacilityID: "F3", Club: "y@club"},
	}

	got := NewRanker(fixedNow).Rank(slots, cs)

	ids := make([]string, 0, len(got))
	for _, l := range got {
		ids = append(ids, l.FacilityID)
	}

	assert.Equal(t, []string{"F1", "F2", "F3", "N1", "N2"}, ids)
	assert.False(t, got[4].Featured, "featured until exactly now has expired")
}

func TestRankNoFeaturedKeepsOrder(t *testing.T) {
	slots := []booking.Slot{
		{FacilityID: "1", Club: "x@club"},
		{FacilityID: "2", Club: "z@club"},
		{FacilityID: "3", Club: "unknown@club"},
	}

	got := NewRanker(fixedNow).Rank(slots, clubs())
	require.Len(t, got, 3)

	for i, want := range []string{"1", "2", "3"} {
		assert.Equal(t, want, got[i].FacilityID)
		assert.False(t, got[i].Featured)
	}

	assert.Equal(t, "z@club", got[1].ClubName)
	assert.Equal(t, "unknown@club", got[2].ClubName)
}

func TestRankEmpty(t *testing.T) {
	got := NewRanker(fixedNow).Rank(nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStatus(t *testing.T) {
	m := New(logger.Discard(), nil, booking.FeaturedOffer{}, fixedNow)

	tests := []struct {
		name  string
		until time.Time
		want  Status
	}{
		{"plenty left", now.Add(10 * 24 * time.Hour), Status{Featured: true, Active: true, DaysLeft: 10}},
		{"rounds up", now.Add(49 * time.Hour), Status{Featured: true, Active: true, DaysLeft: 3, ExpiringSoon: true}},
		{"last hours", now.Add(time.Hour), Status{Featured: true, Active: true, DaysLeft: 1, ExpiringSoon: true}},
		{"ended", now.Add(-time.Hour), Status{Featured: true, DaysLeft: 0, Expired: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Status(booking.Club{Featured: true, FeaturedUntil: tt.until})

			require.NotNil(t, got.Until)
			assert.True(t, got.Until.Equal(tt.until))

			got.Until = nil
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusNotFeatured(t *testing.T) {
	m := New(logger.Discard(), nil, booking.FeaturedOffer{}, fixedNow)

	assert.Equal(t, Status{}, m.Status(booking.Club{OwnerKey: "x@club"}))
}

type fakeUpstream struct {
	offer   booking.FeaturedOffer
	offErr  error
	link    string
	linkErr error
}

func (f *fakeUpstream) FeaturedOffer(context.Context) (booking.FeaturedOffer, error) {
	return f.offer, f.offErr
}

func (f *fakeUpstream) FeaturedPaymentLink(context.Context, string) (string, error) {
	return f.link, f.linkErr
}

func TestOfferFallback(t *testing.T) {
	fallback := booking.FeaturedOffer{Price: 4999, Days: 30}

	m := New(logger.Discard(), &fakeUpstream{offErr: errors.New("down")}, fallback, fixedNow)
	assert.Equal(t, fallback, m.Offer(context.Background()))

	m = New(logger.Discard(), &fakeUpstream{offer: booking.FeaturedOffer{Price: 6000}}, fallback, fixedNow)
	assert.Equal(t, booking.FeaturedOffer{Price: 6000, Days: 30}, m.Offer(context.Background()))
}

func TestCheckout(t *testing.T) {
	api := &fakeUpstream{offer: booking.FeaturedOffer{Price: 5000, Days: 15}, link: "https://pay/1"}
	m := New(logger.Discard(), api, booking.FeaturedOffer{Price: 4999, Days: 30}, fixedNow)

	c, err := m.Checkout(context.Background(), "x@club")
	require.NoError(t, err)
	assert.Equal(t, Checkout{URL: "https://pay/1", Offer: booking.FeaturedOffer{Price: 5000, Days: 15}}, c)

	api.linkErr = errors.New("boom")
	_, err = m.Checkout(context.Background(), "x@club")
	require.Error(t, err)
}
