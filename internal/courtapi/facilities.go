package courtapi

import (
	"context"
	"net/http"

	"github.com/avstrong/canchalibre/internal/booking"
)

func (c *Client) Facilities(ctx context.Context, ownerKey string) ([]booking.Facility, error) {
	var dtos []facilityDTO
	if err := c.do(ctx, call{op: "facilities", method: http.MethodGet, path: "/canchas/" + escape(ownerKey), out: &dtos}); err != nil {
		return nil, err
	}

	out := make([]booking.Facility, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toFacility())
	}

	return out, nil
}

func (c *Client) CreateFacility(ctx context.Context, f booking.Facility) error {
	return c.do(ctx, call{op: "create_facility", method: http.MethodPost, path: "/canchas", in: newFacilityPayload(f)})
}

func (c *Client) UpdateFacility(ctx context.Context, id string, f booking.Facility) error {
	return c.do(ctx, call{op: "update_facility", method: http.MethodPut, path: "/canchas/" + escape(id), in: newFacilityPayload(f)})
}

func (c *Client) DeleteFacility(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "delete_facility", method: http.MethodDelete, path: "/canchas/" + escape(id)})
}
