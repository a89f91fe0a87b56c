package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/canchalibre/internal/logger"
)

func TestCanonicalRegion(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Provincia de Buenos Aires", "Buenos Aires"},
		{"Buenos Aires Provincia", "Buenos Aires"},
		{"Ciudad Autónoma de Buenos Aires", "CABA"},
		{"Capital Federal", "CABA"},
		{"caba", "CABA"},
		{"Córdoba", "Córdoba"},
		{"Provincia de Cordoba", "Córdoba"},
		{"Neuquen", "Neuquén"},
		{"Río Negro", "Río Negro"},
		{"MISIONES", "Misiones"},
		{"entre ríos", "Entre Ríos"},
		{"santa fe", "Santa Fe"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalRegion(tt.raw))
		})
	}
}

func newTestNominatim(t *testing.T, handler http.HandlerFunc) *Nominatim {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return NewNominatim(Conf{L: logger.Discard(), BaseURL: ts.URL, UserAgent: "test-agent", RPS: 0, HTTPClient: nil})
}

func TestReverse(t *testing.T) {
	n := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "-34.6", r.URL.Query().Get("lat"))
		assert.Equal(t, "-58.38", r.URL.Query().Get("lon"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		_, _ = w.Write([]byte(`{"address":{"state":"Provincia de Buenos Aires","city":"La Plata","suburb":"Centro"}}`))
	})

	place, err := n.Reverse(context.Background(), -34.6, -58.38)
	require.NoError(t, err)

	assert.Equal(t, "Buenos Aires", place.Region)
	assert.Equal(t, "Provincia de Buenos Aires", place.RawRegion)
	assert.Equal(t, "La Plata", place.Locality)
}

func TestReverseLocalityFallbackOrder(t *testing.T) {
	n := newTestNominatim(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"address":{"state":"Misiones","village":"Colonia Aurora","suburb":"Norte"}}`))
	})

	place, err := n.Reverse(context.Background(), -27, -54)
	require.NoError(t, err)
	assert.Equal(t, "Colonia Aurora", place.Locality)
}

func TestReverseNoAddress(t *testing.T) {
	n := newTestNominatim(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	})

	_, err := n.Reverse(context.Background(), 0, 0)
	require.ErrorIs(t, err, ErrNoAddress)
}

func TestReverseUpstreamFailure(t *testing.T) {
	n := newTestNominatim(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "busy", http.StatusTooManyRequests)
	})

	_, err := n.Reverse(context.Background(), 0, 0)
	require.ErrorIs(t, err, ErrGeocoder)
}
