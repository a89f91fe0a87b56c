package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/avstrong/canchalibre/internal/booking"
	"github.com/avstrong/canchalibre/internal/boost"
	"github.com/avstrong/canchalibre/internal/config"
	"github.com/avstrong/canchalibre/internal/courtapi"
	"github.com/avstrong/canchalibre/internal/geo"
	"github.com/avstrong/canchalibre/internal/idgen/random"
	"github.com/avstrong/canchalibre/internal/location"
	"github.com/avstrong/canchalibre/internal/logger"
	"github.com/avstrong/canchalibre/internal/metrics"
	"github.com/avstrong/canchalibre/internal/panel"
	"github.com/avstrong/canchalibre/internal/retry"
	"github.com/avstrong/canchalibre/internal/storage/memory"
	redisstore "github.com/avstrong/canchalibre/internal/storage/redis"
	"github.com/avstrong/canchalibre/internal/transport/web"
)

const sweepEvery = 10 * time.Minute

type sessionStore interface {
	Get(ctx context.Context, id string) (*booking.Session, error)
	Save(ctx context.Context, s *booking.Session) error
	Delete(ctx context.Context, id string) error
}

func newSessionStore(ctx context.Context, l *logger.Logger, conf config.App) (sessionStore, func(), error) {
	switch conf.SessionStore {
	case "redis":
		client, err := redisstore.NewClient(ctx, conf.RedisAddr, conf.RedisPass, conf.RedisDB)
		if err != nil {
			return nil, nil, err
		}

		store := redisstore.New(redisstore.Config{L: l, Client: client, TTL: conf.SessionTTL})
		l.LogInfo("Using %s", store)

		return store, func() { _ = client.Close() }, nil
	case "memory", "":
		//nolint:exhaustruct
		store := memory.New(memory.Config{L: l, TTL: conf.SessionTTL})
		l.LogInfo("Using %s", store)

		go store.Run(ctx, sweepEvery)

		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", conf.SessionStore)
	}
}

func Run(l *logger.Logger, conf config.App) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	loc := conf.Location()
	m := metrics.New(nil)

	api := courtapi.New(courtapi.Conf{
		L:          l,
		BaseURL:    conf.APIBaseURL,
		Timeout:    conf.APITimeout,
		HTTPClient: nil,
		Metrics:    m,
	})

	catalog := location.NewCatalog(l, api)
	go catalog.Run(ctx, conf.CatalogRefresh)

	sessions, closeSessions, err := newSessionStore(ctx, l, conf)
	if err != nil {
		return fmt.Errorf("init session store: %w", err)
	}
	defer closeSessions()

	searcher := booking.New(booking.Config{
		L:           l,
		Directory:   api,
		Ranker:      boost.NewRanker(nil),
		Sessions:    sessions,
		IDGenerator: random.New(),
		Geocoder: geo.NewNominatim(geo.Conf{
			L:          l,
			BaseURL:    conf.GeocoderBaseURL,
			UserAgent:  conf.GeocoderUserAgent,
			RPS:        conf.GeocoderRPS,
			HTTPClient: nil,
		}),
		Locations: location.NewAutocompleter(
			catalog,
			retry.Policy{Attempts: conf.PollAttempts, Interval: conf.PollInterval},
			retry.Policy{Attempts: conf.LocalityAttempts, Interval: conf.LocalityInterval},
		),
		Metrics:  m,
		Location: loc,
		Now:      nil,
	})

	clubPanel := panel.New(panel.Config{
		L:          l,
		API:        api,
		Sessions:   sessions,
		Promotions: boost.New(l, api, booking.FeaturedOffer{Price: conf.FeaturedPrice, Days: conf.FeaturedDays}, nil),
		SiteURL:    conf.SiteURL,
		Location:   loc,
		Now:        nil,
	})

	webConf := web.Conf{
		L:                 l,
		ServerLogger:      log.Default(),
		Host:              conf.Host,
		Port:              conf.Port,
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		LivenessEndpoint:  conf.LivenessEndpoint,
		AllowedOrigins:    conf.AllowedOrigins,
		Metrics:           nil,
	}

	srv := web.New(ctx, webConf, searcher, clubPanel, catalog)

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v...", webConf.Host, webConf.Port)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		cancel()

		return fmt.Errorf("run http server on %v:%v: %w", webConf.Host, webConf.Port, err)
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}
