package web

import (
	"net/http"

	"github.com/avstrong/canchalibre/internal/booking"
)

type locationsResponse struct {
	Ready     bool                `json:"ready"`
	Regions   []string            `json:"regions"`
	Locations map[string][]string `json:"locations"`
}

func (s *Server) locationsHandler(w http.ResponseWriter, _ *http.Request) {
	regions := s.catalog.Regions()
	if regions == nil {
		regions = []string{}
	}

	s.respond(w, http.StatusOK, locationsResponse{
		Ready:     s.catalog.Ready(),
		Regions:   regions,
		Locations: s.catalog.Snapshot(),
	})
}

// clubSessionView is the panel identity sent to the browser. The upstream token stays here.
type clubSessionView struct {
	OwnerKey    string `json:"ownerKey"`
	DisplayName string `json:"displayName"`
	ClubID      string `json:"clubId"`
}

func newClubSessionView(cs *booking.ClubSession) *clubSessionView {
	if cs == nil {
		return nil
	}

	return &clubSessionView{OwnerKey: cs.OwnerKey, DisplayName: cs.DisplayName, ClubID: cs.ClubID}
}

type sessionView struct {
	*booking.Session
	Club *clubSessionView `json:"club,omitempty"`
}

func newSessionView(s *booking.Session) sessionView {
	return sessionView{Session: s, Club: newClubSessionView(s.Club)}
}

type linkRequest struct {
	ClubID string `json:"clubId"`
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var in linkRequest
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)

		return
	}

	if in.ClubID == "" {
		in.ClubID = r.URL.Query().Get("clubId")
	}

	sess, err := s.searcher.CreateSession(r.Context(), in.ClubID)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusCreated, newSessionView(sess))
}

func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request, sid string) {
	sess, err := s.searcher.Session(r.Context(), sid)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, newSessionView(sess))
}

func (s *Server) endSessionHandler(w http.ResponseWriter, r *http.Request, sid string) {
	if err := s.searcher.EndSession(r.Context(), sid); err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) sharedLinkHandler(w http.ResponseWriter, r *http.Request, sid string) {
	var in linkRequest
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)

		return
	}

	sess, err := s.searcher.ResolveSharedLink(r.Context(), sid, in.ClubID)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, newSessionView(sess))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request, sid string) {
	var in loginRequest
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)

		return
	}

	sess, err := s.searcher.Login(r.Context(), sid, in.Email)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, newSessionView(sess))
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request, sid string) {
	sess, err := s.searcher.Logout(r.Context(), sid)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, newSessionView(sess))
}

type chooseClubRequest struct {
	Club string `json:"club"`
}

func (s *Server) chooseClubHandler(w http.ResponseWriter, r *http.Request, sid string) {
	var in chooseClubRequest
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)

		return
	}

	sess, err := s.searcher.ChooseClub(r.Context(), sid, in.Club)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, newSessionView(sess))
}

type locateRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (s *Server) locateHandler(w http.ResponseWriter, r *http.Request, sid string) {
	var in locateRequest
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)

		return
	}

	res, err := s.searcher.Locate(r.Context(), sid, in.Lat, in.Lon)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, res)
}

func (s *Server) clubOptionsHandler(w http.ResponseWriter, r *http.Request, sid string) {
	q := r.URL.Query()

	opts, err := s.searcher.ClubOptions(r.Context(), sid, q.Get("region"), q.Get("locality"))
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, opts)
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request, sid string) {
	q := r.URL.Query()

	c := booking.Criteria{
		Sport:    q.Get("sport"),
		Date:     q.Get("date"),
		Time:     q.Get("time"),
		Club:     q.Get("club"),
		Region:   q.Get("region"),
		Locality: q.Get("locality"),
	}

	res, err := s.searcher.Search(r.Context(), sid, c)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, res)
}

func (s *Server) selectHandler(w http.ResponseWriter, r *http.Request, sid string) {
	var in booking.Slot
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)

		return
	}

	sel, err := s.searcher.Select(r.Context(), sid, in)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, sel)
}

func (s *Server) detailHandler(w http.ResponseWriter, r *http.Request, sid string) {
	d, err := s.searcher.Detail(r.Context(), sid)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusOK, d)
}

func (s *Server) holdHandler(w http.ResponseWriter, r *http.Request, sid string) {
	res, err := s.searcher.Hold(holdContext(r), sid)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.respond(w, http.StatusCreated, res)
}
