package courtapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/avstrong/canchalibre/internal/booking"
)

func (c *Client) Reservations(ctx context.Context, ownerKey string) ([]booking.Reservation, error) {
	var dtos []reservationDTO
	if err := c.do(ctx, call{op: "reservations", method: http.MethodGet, path: "/reservas/" + escape(ownerKey), out: &dtos}); err != nil {
		return nil, err
	}

	out := make([]booking.Reservation, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toReservation())
	}

	return out, nil
}

func (c *Client) Reservation(ctx context.Context, id string) (booking.Reservation, error) {
	var d reservationDTO
	if err := c.do(ctx, call{op: "reservation", method: http.MethodGet, path: "/reserva/" + escape(id), out: &d}); err != nil {
		return booking.Reservation{}, err
	}

	return d.toReservation(), nil
}

// CancelSlot frees a booked slot. id is the reservation id.
func (c *Client) CancelSlot(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "cancel_slot", method: http.MethodPatch, path: "/turnos/" + escape(id) + "/cancelar"})
}

func (c *Client) MarkPaid(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "mark_paid", method: http.MethodPatch, path: "/turnos/" + escape(id) + "/marcar-pagado", in: struct{}{}})
}

// PaymentLink creates a checkout url for one reservation.
func (c *Client) PaymentLink(ctx context.Context, id string) (string, error) {
	var out payURLBody
	if err := c.do(ctx, call{
		op: "payment_link", method: http.MethodPost, path: "/generar-link-pago/" + escape(id),
		in: struct{}{}, out: &out,
	}); err != nil {
		return "", err
	}

	if strings.TrimSpace(out.URL) == "" {
		return "", fmt.Errorf("payment link: %w", ErrNoPayURL)
	}

	return out.URL, nil
}

// Reserve books a free slot for a customer the club serves directly.
func (c *Client) Reserve(ctx context.Context, r booking.ManualReservation) error {
	method := r.PaymentMethod
	if method == "" {
		method = "efectivo"
	}

	in := manualReservationPayload{
		Sport:         r.Sport,
		Date:          r.Date,
		Time:          r.Time,
		Club:          r.Club,
		Price:         r.Price,
		BookedBy:      r.CustomerName,
		BookedEmail:   r.CustomerEmail,
		BookedPhone:   r.CustomerPhone,
		PaymentMethod: method,
		FacilityID:    r.FacilityID,
	}

	return c.do(ctx, call{op: "reserve", method: http.MethodPost, path: "/reservar-turno", in: in})
}
