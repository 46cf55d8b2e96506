package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(config.BackendConfig{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
	}, time.Minute, zap.NewNop())
	return client, srv
}

func TestClientErrorTranslation(t *testing.T) {
	ctx := context.Background()

	t.Run("401 maps to unauthenticated", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Unauthenticated."}`))
		}))

		_, err := client.do(ctx, "stale", http.MethodGet, "/auth/me", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "Unauthenticated.", apiErr.Message)
	})

	t.Run("401 without a message gets the default", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		_, err := client.do(ctx, "", http.MethodPost, "/auth/login", map[string]string{"email": "x"})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "invalid credentials or session expired", apiErr.Message)
	})

	t.Run("403 maps to forbidden", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))

		_, err := client.do(ctx, "tok", http.MethodGet, "/mis-reservas", nil)
		assert.ErrorIs(t, err, models.ErrForbidden)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "access denied", apiErr.Message)
	})

	t.Run("422 surfaces the first field message verbatim", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"The given data was invalid.","errors":{"fecha_inicio":["fecha_inicio must be in the future"],"cantidad":["cantidad exceeds availability"]}}`))
		}))

		_, err := client.do(ctx, "tok", http.MethodPost, "/reservas-habitaciones", map[string]int{"cantidad": 9})
		assert.ErrorIs(t, err, models.ErrValidation)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		// Fields sort alphabetically, cantidad comes first
		assert.Equal(t, "cantidad exceeds availability", apiErr.Message)
	})

	t.Run("500 yields the generic message", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"stack trace leaking internals"}`))
		}))

		_, err := client.do(ctx, "", http.MethodGet, "/hoteles", nil)
		assert.ErrorIs(t, err, models.ErrServer)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "something went wrong, please try again", apiErr.Message)
	})

	t.Run("unreachable server maps to network error", func(t *testing.T) {
		client := NewClient(config.BackendConfig{
			BaseURL: "http://127.0.0.1:1",
			Timeout: time.Second,
		}, time.Minute, zap.NewNop())

		_, err := client.do(ctx, "", http.MethodGet, "/hoteles", nil)
		assert.ErrorIs(t, err, models.ErrUnreachable)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "cannot reach server", apiErr.Message)
	})
}

func TestClientHeaders(t *testing.T) {
	var gotAuth, gotAccept string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	}))

	_, err := client.do(context.Background(), "secret-token", http.MethodGet, "/auth/me", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestCachedList(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[{"id":1,"nombre":"Hotel Miraflores"}]`))
	}))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		entries, err := client.ListHotels(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
	}
	assert.Equal(t, int32(1), hits.Load())

	t.Run("invalidation forces a refetch", func(t *testing.T) {
		client.invalidateCatalog()
		_, err := client.ListHotels(ctx)
		require.NoError(t, err)
		assert.Equal(t, int32(2), hits.Load())
	})
}
