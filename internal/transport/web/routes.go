package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avstrong/canchalibre/internal/booking"
)

const (
	idempotencyHeader = "Idempotency-Key"
	maxBodyBytes      = 1 << 20
)

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	if body == nil {
		w.WriteHeader(status)

		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.l.LogErrorf("Could not encode response: %v", err.Error())
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	a := areaSearch
	if strings.HasPrefix(r.URL.Path, "/api/v1/panel") {
		a = areaPanel
	}

	status, body := classify(err, a)

	switch {
	case status >= http.StatusInternalServerError:
		s.l.LogErrorf("%s %s failed, requestID: %s: %v", r.Method, r.URL.Path, requestIDFromContext(r.Context()), err)
	case status != http.StatusBadRequest:
		s.l.LogDebugf("%s %s rejected with %d: %v", r.Method, r.URL.Path, status, err)
	}

	s.respond(w, status, body)
}

func decode(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	inputErr := booking.NewInputError()
	inputErr.Add("body", fmt.Sprintf("malformed json: %v", err))

	return inputErr
}

func sessionID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(sessionHeader))
	if id == "" {
		return "", ErrNoSessionID
	}

	return id, nil
}

// withSession extracts the session id before calling h.
func (s *Server) withSession(h func(w http.ResponseWriter, r *http.Request, sid string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, err := sessionID(r)
		if err != nil {
			s.fail(w, r, err)

			return
		}

		h(w, r, sid)
	}
}

func holdContext(r *http.Request) context.Context {
	ctx := r.Context()
	if key := strings.TrimSpace(r.Header.Get(idempotencyHeader)); key != "" {
		ctx = booking.WithIdempotencyKey(ctx, key)
	}

	return ctx
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRoutes(r chi.Router) {
	r.Use(s.requestIDMiddleware(), s.loggerMiddleware(), s.recoverMiddleware())

	r.Get(s.conf.LivenessEndpoint, s.livenessHandler)
	r.Handle("/metrics", s.metricsHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/locations", s.locationsHandler)

		r.Post("/sessions", s.createSessionHandler)
		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.withSession(s.sessionHandler))
			r.Delete("/", s.withSession(s.endSessionHandler))
			r.Post("/shared-link", s.withSession(s.sharedLinkHandler))
			r.Post("/login", s.withSession(s.loginHandler))
			r.Post("/logout", s.withSession(s.logoutHandler))
			r.Put("/club", s.withSession(s.chooseClubHandler))
			r.Post("/locate", s.withSession(s.locateHandler))
		})

		r.Get("/clubs", s.withSession(s.clubOptionsHandler))
		r.Get("/slots", s.withSession(s.searchHandler))
		r.Post("/selection", s.withSession(s.selectHandler))
		r.Get("/selection", s.withSession(s.detailHandler))
		r.Post("/holds", s.withSession(s.holdHandler))

		r.Route("/panel", s.panelRoutes)
	})
}
