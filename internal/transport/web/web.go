package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/avstrong/canchalibre/internal/booking"
	"github.com/avstrong/canchalibre/internal/location"
	"github.com/avstrong/canchalibre/internal/logger"
	"github.com/avstrong/canchalibre/internal/panel"
)

const sessionHeader = "X-Session-Id"

type Server struct {
	srv      *http.Server
	router   chi.Router
	l        *logger.Logger
	conf     Conf
	searcher *booking.Manager
	panel    *panel.Manager
	catalog  *location.Catalog
}

type Conf struct {
	L                 *logger.Logger
	ServerLogger      *log.Logger
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string
	AllowedOrigins    []string
	// Metrics serves /metrics. The default prometheus handler is used when nil.
	Metrics http.Handler
}

func New(ctx context.Context, conf Conf, searcher *booking.Manager, clubPanel *panel.Manager, catalog *location.Catalog) *Server {
	router := chi.NewRouter()

	server := &Server{
		router:   router,
		l:        conf.L,
		conf:     conf,
		searcher: searcher,
		panel:    clubPanel,
		catalog:  catalog,
	}

	server.addRoutes(router)

	//nolint:exhaustruct
	server.srv = &http.Server{
		Addr:              net.JoinHostPort(conf.Host, conf.Port),
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		ErrorLog:          conf.ServerLogger,
		Handler:           server.Handler(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	return server
}

// Handler is the full middleware chain: CORS, tracing, then the router.
func (s *Server) Handler() http.Handler {
	traced := otelhttp.NewHandler(s.router, "canchalibre",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	if len(s.conf.AllowedOrigins) == 0 {
		return traced
	}

	return handlers.CORS(
		handlers.AllowedOrigins(s.conf.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type", sessionHeader, idempotencyHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)(traced)
}

func (s *Server) metricsHandler() http.Handler {
	if s.conf.Metrics != nil {
		return s.conf.Metrics
	}

	return promhttp.Handler()
}

func (s *Server) Srv() *http.Server {
	return s.srv
}
