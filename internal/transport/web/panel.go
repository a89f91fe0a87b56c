package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avstrong/canchalibre/internal/booking"
)

func (s *Server) panelRoutes(r chi.Router) {
	r.Post("/verification", s.resendVerificationHandler)
	r.Post("/login", s.withSession(s.clubLoginHandler))
	r.Post("/logout", s.withSession(s.clubLogoutHandler))
	r.Get("/overview", s.withSession(s.overviewHandler))
	r.Get("/profile", s.withSession(s.profileHandler))
	r.Put("/profile", s.withSession(s.updateProfileHandler))
	r.Put("/access-token", s.withSession(s.accessTokenHandler))
	r.Post("/featured/checkout", s.withSession(s.featuredCheckoutHandler))

	r.Route("/reservations", func(r chi.Router) {
		r.Get("/", s.withSession(s.reservationsHandler))
		r.Post("/", s.withSession(s.manualReservationHandler))
		r.Get("/today", s.withSession(s.todayHandler))
		r.Patch("/{id}/cancel", s.withSession(s.cancelHandler))
		r.Patch("/{id}/paid", s.withSession(s.markPaidHandler))
		r.Post("/{id}/payment-link", s.withSession(s.paymentLinkHandler))
	})

	r.Route("/facilities", func(r chi.Router) {
		r.Get("/", s.withSession(s.facilitiesHandler))
		r.Post("/", s.withSession(s.saveFacilityHandler))
		r.Put("/{id}", s.withSession(s.saveFacilityHandler))
		r.Delete("/{id}", s.withSession(s.deleteFacilityHandler))
		r.Get("/{id}/agenda", s.withSession(s.agendaHandler))
	})
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) resendVerificationHandler(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)

		return
	}

	msg, err := s.panel.ResendVerification(r.Context(), in.Email)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, messageResponse{Message: msg})
}

func (s *Server) clubLoginHandler(w http.ResponseWriter, r *http.Request, sid string) {
	var in loginRequest
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)

		return
	}

	cs, err := s.panel.Login(r.Context(), sid, in.Email, in.Password)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, newClubSessionView(cs))
}

func (s *Server) clubLogoutHandler(w http.ResponseWriter, r *http.Request, sid string) {
	if err := s.panel.Logout(r.Context(), sid); err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) overviewHandler(w http.ResponseWriter, r *http.Request, sid string) {
	o, err := s.panel.Overview(r.Context(), sid)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, o)
}

func (s *Server) profileHandler(w http.ResponseWriter, r *http.Request, sid string) {
	club, err := s.panel.Profile(r.Context(), sid)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, club)
}

func (s *Server) updateProfileHandler(w http.ResponseWriter, r *http.Request, sid string) {
	var in booking.ProfileUpdate
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)

		return
	}

	if err := s.panel.UpdateProfile(r.Context(), sid, in); err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusNoContent, nil)
}

type accessTokenRequest struct {
	AccessToken string `json:"accessToken"`
}

func (s *Server) accessTokenHandler(w http.ResponseWriter, r *http.Request, sid string) {
	var in accessTokenRequest
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)

		return
	}

	msg, err := s.panel.SetAccessToken(r.Context(), sid, in.AccessToken)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, messageResponse{Message: msg})
}

func (s *Server) featuredCheckoutHandler(w http.ResponseWriter, r *http.Request, sid string) {
	checkout, err := s.panel.FeaturedCheckout(r.Context(), sid)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, checkout)
}

func (s *Server) reservationsHandler(w http.ResponseWriter, r *http.Request, sid string) {
	res, err := s.panel.Reservations(r.Context(), sid)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, res)
}

func (s *Server) todayHandler(w http.ResponseWriter, r *http.Request, sid string) {
	res, err := s.panel.Today(r.Context(), sid)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, res)
}

type manualReservationRequest struct {
	FacilityID    string  `json:"facilityId"`
	Club          string  `json:"club"`
	Sport         string  `json:"sport"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Price         float64 `json:"price"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
}

func (s *Server) manualReservationHandler(w http.ResponseWriter, r *http.Request, sid string) {
	var in manualReservationRequest
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)

		return
	}

	//nolint:exhaustruct
	mr := booking.ManualReservation{
		FacilityID:    in.FacilityID,
		Club:          in.Club,
		Sport:         in.Sport,
		Date:          in.Date,
		Time:          in.Time,
		Price:         in.Price,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
	}

	if err := s.panel.Reserve(r.Context(), sid, mr); err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusCreated, nil)
}

func (s *Server) cancelHandler(w http.ResponseWriter, r *http.Request, sid string) {
	if err := s.panel.Cancel(r.Context(), sid, chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) markPaidHandler(w http.ResponseWriter, r *http.Request, sid string) {
	if err := s.panel.MarkPaid(r.Context(), sid, chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) paymentLinkHandler(w http.ResponseWriter, r *http.Request, sid string) {
	share, err := s.panel.SharePaymentLink(r.Context(), sid, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, share)
}

func (s *Server) facilitiesHandler(w http.ResponseWriter, r *http.Request, sid string) {
	list, err := s.panel.Facilities(r.Context(), sid)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, list)
}

func (s *Server) saveFacilityHandler(w http.ResponseWriter, r *http.Request, sid string) {
	var in booking.Facility
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)

		return
	}

	status := http.StatusCreated
	if id := chi.URLParam(r, "id"); id != "" {
		in.ID = id
		status = http.StatusOK
	} else {
		in.ID = ""
	}

	f, err := s.panel.SaveFacility(r.Context(), sid, in)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, status, f)
}

func (s *Server) deleteFacilityHandler(w http.ResponseWriter, r *http.Request, sid string) {
	if err := s.panel.DeleteFacility(r.Context(), sid, chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) agendaHandler(w http.ResponseWriter, r *http.Request, sid string) {
	a, err := s.panel.Agenda(r.Context(), sid, chi.URLParam(r, "id"), r.URL.Query().Get("week"))
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, a)
}
