package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNextID          = errors.New("get next id from generator")
	ErrSessionNotFound = errors.New("session not found")
	ErrNotLoggedIn     = errors.New("user is not logged in")
	ErrNoSelection     = errors.New("no slot selected")
	ErrNoClubSession   = errors.New("club is not logged in")
	ErrClubLocked      = errors.New("club is fixed by a shared link")
	ErrClubNotVerified = errors.New("club account is not verified")
	ErrLinkUnresolved  = errors.New("shared link did not resolve to a club")
)

type InputError struct {
	fields map[string][]string
}

func NewInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError

	if errors.As(err, &inputError) {
		return inputError
	}

	return nil
}

func (ie *InputError) Add(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

// OrNil returns ie only when at least one field failed.
func (ie *InputError) OrNil() error {
	if len(ie.fields) == 0 {
		return nil
	}

	return ie
}

func (ie *InputError) Error() string {
	return fmt.Sprintf("%+v", ie.fields)
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}
