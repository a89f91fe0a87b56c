package courtapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const genericMessage = "Error desconocido."

var (
	ErrUnavailable = errors.New("court api unavailable")
	ErrNoPayURL    = errors.New("court api returned no payment url")
)

// APIError is a non-2xx answer. Message is the upstream "error" text, or its
// "mensaje" text when only that was sent.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("court api: status %d: %s", e.Status, e.Message)
}

func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"mensaje"`
}

func decodeAPIError(status int, body []byte) *APIError {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	msg := strings.TrimSpace(eb.Error)
	if msg == "" {
		msg = strings.TrimSpace(eb.Message)
	}

	if msg == "" {
		msg = genericMessage
	}

	return &APIError{Status: status, Message: msg}
}
