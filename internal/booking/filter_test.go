package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	baires = mustLoad("America/Argentina/Buenos_Aires")
	now    = time.Date(2030, 5, 1, 12, 0, 0, 0, baires)
)

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, -3*60*60)
	}

	return loc
}

func sampleSlots() []Slot {
	return []Slot{
		{FacilityID: "1", Club: "a@club", Sport: "Fútbol", Date: "2030-05-01", Time: "10:00"},
		{FacilityID: "2", Club: "a@club", Sport: "futbol", Date: "2030-05-01", Time: "18:00"},
		{FacilityID: "3", Club: "b@club", Sport: "FUTBOL", Date: "2030-05-01", Time: "19:00", BookedBy: "Ana"},
		{FacilityID: "4", Club: "b@club", Sport: "pádel", Date: "2030-05-01", Time: "19:00"},
		{FacilityID: "5", Club: "b@club", Sport: "futbol", Date: "2030-05-02", Time: "09:00"},
		{FacilityID: "6", Club: "c@club", Sport: "futbol", Date: "2030-05-01", Time: "12:00"},
		{FacilityID: "7", Club: "c@club", Sport: "futbol", Date: "2030-05-01", Time: "mañana"},
	}
}

func ids(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.FacilityID)
	}

	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"sport and date", Criteria{Sport: "futbol", Date: "2030-05-01"}, []string{"2", "6"}},
		{"accented criteria", Criteria{Sport: "Fútbol", Date: "2030-05-01"}, []string{"2", "6"}},
		{"exact time", Criteria{Sport: "futbol", Date: "2030-05-01", Time: "18:00"}, []string{"2"}},
		{"club", Criteria{Sport: "futbol", Date: "2030-05-01", Club: "c@club"}, []string{"6"}},
		{"other sport", Criteria{Sport: "Padel", Date: "2030-05-01"}, []string{"4"}},
		{"other day", Criteria{Sport: "futbol", Date: "2030-05-02"}, []string{"5"}},
		{"nothing", Criteria{Sport: "tenis", Date: "2030-05-01"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(sampleSlots(), tt.c, now)))
		})
	}
}

func TestFilterNeverNil(t *testing.T) {
	got := Filter(nil, Criteria{Sport: "futbol", Date: "2030-05-01"}, now)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterIdempotentSubsequence(t *testing.T) {
	c := Criteria{Sport: "futbol", Date: "2030-05-01"}
	in := sampleSlots()

	once := Filter(in, c, now)
	twice := Filter(once, c, now)
	assert.Equal(t, once, twice)

	// every kept slot appears in the input, in the same relative order
	j := 0
	for _, s := range once {
		for j < len(in) && in[j] != s {
			j++
		}

		require.Less(t, j, len(in), "slot %s not found in order", s.FacilityID)
		j++
	}
}

func TestFilterExcludesPast(t *testing.T) {
	for _, s := range Filter(sampleSlots(), Criteria{Sport: "futbol", Date: "2030-05-01"}, now) {
		start, err := s.Start(baires)
		require.NoError(t, err)
		assert.False(t, start.Before(now), "slot %s starts before now", s.FacilityID)
	}
}

func TestFilterStartingNowIsKept(t *testing.T) {
	slots := []Slot{{FacilityID: "x", Sport: "futbol", Date: "2030-05-01", Time: "12:00"}}

	assert.Len(t, Filter(slots, Criteria{Sport: "futbol", Date: "2030-05-01"}, now), 1)
	assert.Empty(t, Filter(slots, Criteria{Sport: "futbol", Date: "2030-05-01"}, now.Add(time.Second)))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "futbol", NormalizeText("Fútbol"))
	assert.Equal(t, "padel", NormalizeText(" PÁDEL "))
	assert.Equal(t, "nandu", NormalizeText("Ñandú"))
	assert.Equal(t, NormalizeText("futbol"), NormalizeText("FÚTBOL"))
}

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{
		0:   "1 hora",
		-5:  "1 hora",
		60:  "1 hora",
		90:  "1 hora y media",
		120: "2 horas",
		180: "3 horas",
		45:  "45 min",
		150: "150 min",
	}

	for in, want := range tests {
		assert.Equal(t, want, FormatDuration(in), "minutes %d", in)
	}
}

func TestParseLocal(t *testing.T) {
	got, err := ParseLocal("2030-05-01", "10:30", baires)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 5, 1, 10, 30, 0, 0, baires), got)

	got, err = ParseLocal("2030-05-01", "10:30:15", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 5, 1, 10, 30, 15, 0, time.UTC), got)

	_, err = ParseLocal("01/05/2030", "10:30", baires)
	require.Error(t, err)
}
