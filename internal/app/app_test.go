package app

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avstrong/canchalibre/internal/config"
	"github.com/avstrong/canchalibre/internal/logger"
)

func TestRunFailsWhenPortIsTaken(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = taken.Close() })

	upstream := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(upstream.Close)

	conf, err := config.Load()
	require.NoError(t, err)

	conf.Host = "127.0.0.1"
	conf.Port = strconv.Itoa(taken.Addr().(*net.TCPAddr).Port)
	conf.APIBaseURL = upstream.URL
	conf.SessionStore = "memory"
	conf.CatalogRefresh = 0

	err = Run(logger.Discard(), conf)
	require.Error(t, err)
	require.ErrorContains(t, err, "run http server")
}
