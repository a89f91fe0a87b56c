package web

import (
	"errors"
	"net/http"

	"github.com/avstrong/canchalibre/internal/booking"
	"github.com/avstrong/canchalibre/internal/courtapi"
	"github.com/avstrong/canchalibre/internal/panel"
)

var (
	ErrPanic       = errors.New("panic in handler")
	ErrNoSessionID = errors.New("session id header is missing")
)

const (
	unavailableMessage = "No pudimos conectar con el servidor. Intentá de nuevo en unos minutos."
	internalMessage    = "Ocurrió un error inesperado."

	redirectSearch = "index.html"
	redirectLogin  = "login.html"
	redirectPanel  = "login-club.html"
)

type errorResponse struct {
	Error    string              `json:"error"`
	Redirect string              `json:"redirect,omitempty"`
	Fields   map[string][]string `json:"fields,omitempty"`
}

type area int

const (
	areaSearch area = iota
	areaPanel
)

// classify maps a domain error to its status and body. Guard errors carry the
// page the front-end should navigate to.
func classify(err error, a area) (int, errorResponse) {
	sessionRedirect := redirectSearch
	if a == areaPanel {
		sessionRedirect = redirectPanel
	}

	if inputErr := booking.IsInputError(err); inputErr != nil {
		return http.StatusBadRequest, errorResponse{Error: "invalid input", Fields: inputErr.Fields()}
	}

	switch {
	case errors.Is(err, ErrNoSessionID), errors.Is(err, booking.ErrSessionNotFound):
		return http.StatusUnauthorized, errorResponse{Error: "session not found", Redirect: sessionRedirect}
	case errors.Is(err, booking.ErrNotLoggedIn):
		return http.StatusUnauthorized, errorResponse{Error: err.Error(), Redirect: redirectLogin}
	case errors.Is(err, booking.ErrNoClubSession):
		return http.StatusUnauthorized, errorResponse{Error: err.Error(), Redirect: redirectPanel}
	case errors.Is(err, booking.ErrNoSelection):
		return http.StatusConflict, errorResponse{Error: err.Error(), Redirect: redirectSearch}
	case errors.Is(err, booking.ErrClubLocked), errors.Is(err, panel.ErrNoClubID):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, panel.ErrFacilityNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, booking.ErrClubNotVerified):
		return http.StatusForbidden, errorResponse{Error: err.Error()}
	case errors.Is(err, panel.ErrNoPhone):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, courtapi.ErrUnavailable):
		return http.StatusServiceUnavailable, errorResponse{Error: unavailableMessage}
	case errors.Is(err, courtapi.ErrNoPayURL):
		return http.StatusBadGateway, errorResponse{Error: err.Error()}
	}

	if apiErr := courtapi.AsAPIError(err); apiErr != nil {
		switch apiErr.Status {
		case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict:
			return apiErr.Status, errorResponse{Error: apiErr.Message}
		default:
			return http.StatusBadGateway, errorResponse{Error: apiErr.Message}
		}
	}

	return http.StatusInternalServerError, errorResponse{Error: internalMessage}
}
