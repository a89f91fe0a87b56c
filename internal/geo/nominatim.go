package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/avstrong/canchalibre/internal/booking"
	"github.com/avstrong/canchalibre/internal/logger"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "CanchaLibre/1.0"
	defaultTimeout   = 10 * time.Second
)

var (
	ErrNoAddress = errors.New("geocoder returned no address")
	ErrGeocoder  = errors.New("geocoder request failed")
)

var tracer = otel.Tracer("canchalibre/geo")

type Conf struct {
	L          *logger.Logger
	BaseURL    string
	UserAgent  string
	RPS        float64
	HTTPClient *http.Client
}

// Nominatim is a reverse geocoder backed by the OpenStreetMap Nominatim API.
// Requests are rate limited client side to respect the public usage policy.
type Nominatim struct {
	l          *logger.Logger
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewNominatim(conf Conf) *Nominatim {
	baseURL := strings.TrimRight(strings.TrimSpace(conf.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	userAgent := conf.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := conf.HTTPClient
	if httpClient == nil {
		//nolint:exhaustruct
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	limit := rate.Limit(conf.RPS)
	if conf.RPS <= 0 {
		limit = rate.Inf
	}

	return &Nominatim{
		l:          conf.L,
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

type reverseResponse struct {
	Address *struct {
		State   string `json:"state"`
		Town    string `json:"town"`
		City    string `json:"city"`
		Village string `json:"village"`
		Suburb  string `json:"suburb"`
	} `json:"address"`
}

// Reverse resolves coordinates to a canonical region and a locality name.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (booking.Place, error) {
	ctx, span := tracer.Start(ctx, "geo.nominatim.reverse")
	defer span.End()

	span.SetAttributes(attribute.Float64("geo.lat", lat), attribute.Float64("geo.lon", lon))

	if err := n.limiter.Wait(ctx); err != nil {
		return booking.Place{}, fmt.Errorf("wait for geocoder rate limit: %w", err)
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return booking.Place{}, fmt.Errorf("build reverse request: %w", err)
	}

	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return booking.Place{}, fmt.Errorf("%w: %w", ErrGeocoder, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return booking.Place{}, fmt.Errorf("read reverse response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return booking.Place{}, fmt.Errorf("%w: status %d", ErrGeocoder, resp.StatusCode)
	}

	var out reverseResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return booking.Place{}, fmt.Errorf("decode reverse response: %w", err)
	}

	if out.Address == nil {
		return booking.Place{}, ErrNoAddress
	}

	place := booking.Place{
		RawRegion: out.Address.State,
		Region:    CanonicalRegion(out.Address.State),
		Locality:  firstNonEmpty(out.Address.Town, out.Address.City, out.Address.Village, out.Address.Suburb),
	}

	if n.l != nil {
		n.l.LogDebugf("Reverse geocoded %v,%v to region %q locality %q", lat, lon, place.Region, place.Locality)
	}

	return place, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}

	return ""
}
