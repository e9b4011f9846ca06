package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())
	return port
}

func TestNew(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("rejects invalid port", func(t *testing.T) {
		_, err := New(WithPort(-1), WithHandler(okHandler))
		assert.Error(t, err)

		_, err = New(WithPort(70000), WithHandler(okHandler))
		assert.Error(t, err)
	})

	t.Run("requires a handler", func(t *testing.T) {
		_, err := New(WithPort(freePort(t)))
		assert.Error(t, err)
	})
}

func TestServeAndShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv, err := New(
		WithPort(freePort(t)),
		WithHandler(handler),
		WithTimeouts(5*time.Second, 5*time.Second, 5*time.Second),
	)
	require.NoError(t, err)

	srv.Start()

	resp, err := http.Get(fmt.Sprintf("http://%s/", srv.Addr()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	_, err = http.Get(fmt.Sprintf("http://%s/", srv.Addr()))
	assert.Error(t, err)
}
