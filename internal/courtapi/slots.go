package courtapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/avstrong/canchalibre/internal/booking"
)

const holdAccepted = "Te enviamos un correo electrónico para confirmar tu reserva. Revisá tu bandeja de entrada o SPAM."

// Slots fetches the generated slots for a date. Empty filters are not sent.
func (c *Client) Slots(ctx context.Context, q booking.SlotQuery) ([]booking.Slot, error) {
	v := url.Values{}
	v.Set("fecha", q.Date)

	for key, val := range map[string]string{"provincia": q.Region, "localidad": q.Locality, "club": q.Club} {
		if val != "" {
			v.Set(key, val)
		}
	}

	var dtos []slotDTO
	if err := c.do(ctx, call{op: "slots", method: http.MethodGet, path: "/turnos-generados", query: v, out: &dtos}); err != nil {
		return nil, err
	}

	slots := make([]booking.Slot, 0, len(dtos))
	for _, d := range dtos {
		slots = append(slots, d.toSlot())
	}

	return slots, nil
}

// Hold places a pending reservation that the user confirms by email.
// An idempotency key in ctx is forwarded as the Idempotency-Key header.
func (c *Client) Hold(ctx context.Context, r booking.HoldRequest) (booking.HoldResult, error) {
	in := holdPayload{
		FacilityID: r.FacilityID,
		Date:       r.Date,
		Time:       r.Time,
		UserID:     nil,
		Email:      r.Email,
	}

	var out messageBody
	if err := c.do(ctx, call{
		op: "hold", method: http.MethodPost, path: "/reservas/hold",
		in: in, out: &out, header: idempotencyHeader(ctx),
	}); err != nil {
		return booking.HoldResult{}, err
	}

	msg := strings.TrimSpace(out.Message)
	if msg == "" {
		msg = holdAccepted
	}

	return booking.HoldResult{Message: msg}, nil
}
