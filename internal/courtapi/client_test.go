package courtapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/canchalibre/internal/booking"
	"github.com/avstrong/canchalibre/internal/logger"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls map[string]int
}

func (r *recordingObserver) ObserveUpstream(op string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.calls == nil {
		r.calls = make(map[string]int)
	}

	r.calls[op] = status
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingObserver) {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	obs := &recordingObserver{}

	return New(Conf{L: logger.Discard(), BaseURL: ts.URL + "/", Timeout: time.Second, HTTPClient: nil, Metrics: obs}), obs
}

func TestSlotsDecodesLooseTypes(t *testing.T) {
	c, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/turnos-generados", r.URL.Path)
		assert.Equal(t, "2030-05-01", r.URL.Query().Get("fecha"))
		assert.Equal(t, "CABA", r.URL.Query().Get("provincia"))
		assert.False(t, r.URL.Query().Has("club"))

		_, _ = io.WriteString(w, `[
			{"canchaId":"c1","club":"a@x.com","deporte":"Fútbol","fecha":"2030-05-01","hora":"10:00","precio":"1500.50","duracionTurno":90},
			{"canchaId":7,"club":"b@x.com","deporte":"padel","fecha":"2030-05-01","hora":"11:00","precio":"abc","usuarioReservado":"Ana","realId":"r9","pagado":true}
		]`)
	})

	slots, err := c.Slots(context.Background(), booking.SlotQuery{Date: "2030-05-01", Region: "CABA"})
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, "c1", slots[0].FacilityID)
	assert.InDelta(t, 1500.50, slots[0].Price, 0.001)
	assert.Equal(t, 90, slots[0].Duration)
	assert.False(t, slots[0].Booked())

	assert.Equal(t, "7", slots[1].FacilityID)
	assert.Zero(t, slots[1].Price)
	assert.True(t, slots[1].Booked())
	assert.Equal(t, "r9", slots[1].ReservationID)
	assert.True(t, slots[1].Paid)

	assert.Equal(t, http.StatusOK, obs.calls["slots"])
}

func TestClubByIDMapsFeatured(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/club-id/abc123", r.URL.Path)

		_, _ = io.WriteString(w, `{"_id":"abc123","email":"club@x.com","nombre":"Club X","destacado":true,
			"destacadoHasta":"2030-01-02T03:04:05.000Z","mercadoPagoAccessToken":"APP-1","telefono":1155550000}`)
	})

	club, err := c.ClubByID(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, "club@x.com", club.OwnerKey)
	assert.Equal(t, "Club X", club.DisplayName())
	assert.True(t, club.Featured)
	assert.Equal(t, time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC), club.FeaturedUntil)
	assert.True(t, club.OnlinePayment)
	assert.Equal(t, "1155550000", club.Phone)
}

func TestAPIErrorCarriesUpstreamMessage(t *testing.T) {
	c, obs := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":"El turno ya fue reservado"}`)
	})

	_, err := c.Hold(context.Background(), booking.HoldRequest{FacilityID: "c1", Date: "2030-05-01", Time: "10:00", Email: "u@x.com"})
	require.Error(t, err)

	apiErr := AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "El turno ya fue reservado", apiErr.Message)
	assert.Equal(t, http.StatusConflict, obs.calls["hold"])
}

func TestAPIErrorGenericMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "<html>oops</html>", http.StatusNotFound)
	})

	_, err := c.ClubByOwner(context.Background(), "nobody@x.com")
	require.Error(t, err)
	apiErr := AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, genericMessage, apiErr.Message)
}

func TestAPIErrorFallsBackToMensaje(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"mensaje":"Datos incompletos"}`))
	})

	_, err := c.ClubByOwner(context.Background(), "nobody@x.com")
	require.Error(t, err)

	apiErr := AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Datos incompletos", apiErr.Message)
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	c := New(Conf{L: nil, BaseURL: ts.URL, Timeout: time.Second, HTTPClient: nil, Metrics: nil})

	_, err := c.Clubs(context.Background(), "", "")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestHoldSendsPayloadAndIdempotencyKey(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/reservas/hold", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c1", body["canchaId"])
		assert.Equal(t, "2030-05-01", body["fecha"])
		assert.Equal(t, "10:00", body["hora"])
		assert.Equal(t, "u@x.com", body["email"])
		assert.Contains(t, body, "usuarioId")
		assert.Nil(t, body["usuarioId"])

		_, _ = io.WriteString(w, `{}`)
	})

	ctx := booking.WithIdempotencyKey(context.Background(), "key-1")

	res, err := c.Hold(ctx, booking.HoldRequest{FacilityID: "c1", Date: "2030-05-01", Time: "10:00", Email: "u@x.com"})
	require.NoError(t, err)
	assert.Equal(t, holdAccepted, res.Message)
}

func TestLoginClubNotVerified(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":"Debés verificar tu email antes de ingresar"}`)
	})

	_, err := c.LoginClub(context.Background(), "club@x.com", "secret")
	require.ErrorIs(t, err, booking.ErrClubNotVerified)
}

func TestLoginClub(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"token":"t1","clubId":"abc","nombre":"Club X","email":"club@x.com"}`)
	})

	login, err := c.LoginClub(context.Background(), "club@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, booking.ClubLogin{Token: "t1", ClubID: "abc", Name: "Club X", OwnerKey: "club@x.com"}, login)
}

func TestReservationPopulatedUser(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"_id":"r1","fecha":"2030-05-01","hora":"10:00","deporte":"padel","club":"club@x.com",
			"emailReservado":"ana@x.com","usuarioId":{"nombre":"Ana","apellido":"Paz","telefono":"011 4555-1234"}}`)
	})

	r, err := c.Reservation(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Paz", r.CustomerName)
	assert.Equal(t, "ana@x.com", r.CustomerEmail)
	assert.Equal(t, "011 4555-1234", r.CustomerPhone)
}

func TestReservationsUserIDAsString(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"_id":"r1","fecha":"01/05/2030","hora":"10:00","usuarioId":"u1","usuarioReservado":"Walk In"}]`)
	})

	rs, err := c.Reservations(context.Background(), "club@x.com")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "Walk In", rs[0].CustomerName)
}

func TestPaymentLinkWithoutURL(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := c.PaymentLink(context.Background(), "r1")
	require.ErrorIs(t, err, ErrNoPayURL)
}

func TestFacilityRoundTrip(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Cancha 1", body["nombre"])
			assert.Equal(t, "club@x.com", body["clubEmail"])
			assert.Nil(t, body["nocturnoDesde"])
		case http.MethodGet:
			_, _ = io.WriteString(w, `[{"_id":"f1","nombre":"Cancha 1","deporte":"futbol","precio":"2000","horaDesde":"08:00",
				"horaHasta":"22:00","duracionTurno":60,"nocturnoDesde":19,"precioNocturno":2500,"diasDisponibles":["Lunes"]}]`)
		}
	})

	require.NoError(t, c.CreateFacility(context.Background(), booking.Facility{Name: "Cancha 1", OwnerKey: "club@x.com"}))

	fs, err := c.Facilities(context.Background(), "club@x.com")
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.InDelta(t, 2000.0, fs[0].Price, 0.001)
	require.NotNil(t, fs[0].NightFrom)
	assert.Equal(t, 19, *fs[0].NightFrom)
}

func TestFeaturedOffer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"precioDestacado":5999,"diasDestacado":"15"}`)
	})

	offer, err := c.FeaturedOffer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, booking.FeaturedOffer{Price: 5999, Days: 15}, offer)
}
