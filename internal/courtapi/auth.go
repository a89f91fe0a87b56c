package courtapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/avstrong/canchalibre/internal/booking"
)

// notVerifiedMarker is how the upstream words an unverified account ("Debés verificar tu cuenta...").
const notVerifiedMarker = "verificar"

// LoginClub signs a club into the panel. An unverified account yields booking.ErrClubNotVerified.
func (c *Client) LoginClub(ctx context.Context, email, password string) (booking.ClubLogin, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var out loginBody

	err := c.do(ctx, call{op: "login_club", method: http.MethodPost, path: "/login-club", in: in, out: &out})
	if apiErr := AsAPIError(err); apiErr != nil && strings.Contains(apiErr.Message, notVerifiedMarker) {
		return booking.ClubLogin{}, fmt.Errorf("%w: %s", booking.ErrClubNotVerified, apiErr.Message)
	}

	if err != nil {
		return booking.ClubLogin{}, err
	}

	if strings.Contains(out.Error, notVerifiedMarker) {
		return booking.ClubLogin{}, fmt.Errorf("%w: %s", booking.ErrClubNotVerified, out.Error)
	}

	if out.Token == "" {
		return booking.ClubLogin{}, errors.New("login club: empty token in response")
	}

	return booking.ClubLogin{
		Token:    out.Token,
		ClubID:   string(out.ClubID),
		Name:     out.Name,
		OwnerKey: out.Email,
	}, nil
}

// ResendVerification asks the upstream to send the verification email again.
func (c *Client) ResendVerification(ctx context.Context, email string) (string, error) {
	in := struct {
		Email string `json:"email"`
	}{Email: email}

	var out messageBody
	if err := c.do(ctx, call{op: "resend_verification", method: http.MethodPost, path: "/club/reenviar-verificacion", in: in, out: &out}); err != nil {
		return "", err
	}

	return out.Message, nil
}
