package courtapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/avstrong/canchalibre/internal/booking"
)

// Clubs lists the directory, optionally narrowed to a region and locality.
func (c *Client) Clubs(ctx context.Context, region, locality string) ([]booking.Club, error) {
	q := url.Values{}

	if region != "" || locality != "" {
		q.Set("provincia", region)
		q.Set("localidad", locality)
	}

	var dtos []clubDTO
	if err := c.do(ctx, call{op: "clubs", method: http.MethodGet, path: "/clubes", query: q, out: &dtos}); err != nil {
		return nil, err
	}

	clubs := make([]booking.Club, 0, len(dtos))
	for _, d := range dtos {
		clubs = append(clubs, d.toClub())
	}

	return clubs, nil
}

func (c *Client) ClubByOwner(ctx context.Context, ownerKey string) (booking.Club, error) {
	var d clubDTO
	if err := c.do(ctx, call{op: "club_by_owner", method: http.MethodGet, path: "/club/" + escape(ownerKey), out: &d}); err != nil {
		return booking.Club{}, err
	}

	return d.toClub(), nil
}

// ClubByID resolves the external id used in shared links.
func (c *Client) ClubByID(ctx context.Context, id string) (booking.Club, error) {
	var d clubDTO
	if err := c.do(ctx, call{op: "club_by_id", method: http.MethodGet, path: "/club-id/" + escape(id), out: &d}); err != nil {
		return booking.Club{}, err
	}

	return d.toClub(), nil
}

func (c *Client) UpdateClub(ctx context.Context, id string, p booking.ProfileUpdate) error {
	in := profilePayload{Name: p.Name, Phone: p.Phone, Region: p.Region, Locality: p.Locality}

	return c.do(ctx, call{op: "update_club", method: http.MethodPut, path: "/club/" + escape(id), in: in})
}

// SetAccessToken stores the club's payment provider token and returns the upstream confirmation.
func (c *Client) SetAccessToken(ctx context.Context, ownerKey, token string) (string, error) {
	in := struct {
		AccessToken string `json:"accessToken"`
	}{AccessToken: token}

	var out messageBody
	if err := c.do(ctx, call{
		op: "set_access_token", method: http.MethodPut,
		path: "/club/" + escape(ownerKey) + "/access-token", in: in, out: &out,
	}); err != nil {
		return "", err
	}

	return out.Message, nil
}

// FeaturedPaymentLink asks for a checkout url that features the club once paid.
func (c *Client) FeaturedPaymentLink(ctx context.Context, ownerKey string) (string, error) {
	var out payURLBody
	if err := c.do(ctx, call{
		op: "featured_payment", method: http.MethodPost,
		path: "/club/" + escape(ownerKey) + "/destacar-pago", in: struct{}{}, out: &out,
	}); err != nil {
		return "", err
	}

	if strings.TrimSpace(out.URL) == "" {
		return "", fmt.Errorf("featured payment: %w", ErrNoPayURL)
	}

	return out.URL, nil
}

func (c *Client) FeaturedOffer(ctx context.Context) (booking.FeaturedOffer, error) {
	var out offerBody
	if err := c.do(ctx, call{op: "featured_offer", method: http.MethodGet, path: "/configuracion-destacado", out: &out}); err != nil {
		return booking.FeaturedOffer{}, err
	}

	return booking.FeaturedOffer{Price: float64(out.Price), Days: int(out.Days)}, nil
}

// Locations returns the region -> localities taxonomy.
func (c *Client) Locations(ctx context.Context) (map[string][]string, error) {
	out := make(map[string][]string)
	if err := c.do(ctx, call{op: "locations", method: http.MethodGet, path: "/ubicaciones", out: &out}); err != nil {
		return nil, err
	}

	return out, nil
}
