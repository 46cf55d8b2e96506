package reservations

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lmendo/tripdesk/internal/app/domain/auth"
	"github.com/lmendo/tripdesk/internal/app/domain/session"
	"github.com/lmendo/tripdesk/internal/app/handlers"
	"github.com/lmendo/tripdesk/internal/app/middleware"
	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/backend"
	"github.com/lmendo/tripdesk/internal/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockReservationAPI struct {
	mock.Mock
}

func (m *MockReservationAPI) ListMyReservations(ctx context.Context, token string) ([]models.Reservation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}

func (m *MockReservationAPI) CancelReservation(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockReservationAPI) CreateTourReservation(ctx context.Context, token string, res backend.TourReservation) (*models.Reservation, error) {
	args := m.Called(ctx, token, res)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

// deadTokenBackend answers every authenticated call the way the booking API
// answers a revoked bearer token.
type deadTokenBackend struct{}

func (deadTokenBackend) Login(ctx context.Context, creds backend.Credentials) (string, *models.User, error) {
	return "", nil, models.ErrUnauthenticated
}

func (deadTokenBackend) Logout(ctx context.Context, token string) error { return nil }

func (deadTokenBackend) Me(ctx context.Context, token string) (*models.User, error) {
	return nil, fmt.Errorf("token rejected: %w", models.ErrUnauthenticated)
}

func (deadTokenBackend) RegisterUser(ctx context.Context, reg backend.Registration) (*models.User, error) {
	return nil, models.ErrUnauthenticated
}

func sessionConfig() config.SessionConfig {
	return config.SessionConfig{
		CookieName: "tripdesk_session",
		SecretKey:  "test-secret-key-at-least-32-chars!",
		Issuer:     "tripdesk",
		TTL:        time.Hour,
	}
}

// newGuardedEngine wires the same chain the app uses for /api/reservations:
// session middleware, auth guard, then the handler.
func newGuardedEngine(api ReservationAPI, store *session.Store, codec *session.TokenCodec, authService auth.AuthService, cfg config.SessionConfig) *gin.Engine {
	respond := handlers.NewResponder(cfg, authService)
	h := NewReservationHandlers(api, respond, zap.NewNop())

	r := gin.New()
	r.Use(middleware.SessionMiddleware(authService, codec, cfg))
	guarded := r.Group("/")
	guarded.Use(middleware.RequireAuth())
	guarded.GET("/reservations", h.HandleList)
	return r
}

func performGet(r *gin.Engine, path, cookieName, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleList(t *testing.T) {
	cfg := sessionConfig()
	store := session.NewStore(cfg.TTL)
	codec := session.NewTokenCodec(cfg)
	authService := auth.NewAuthService(deadTokenBackend{}, store, codec, zap.NewNop())

	t.Run("returns the traveler's bookings", func(t *testing.T) {
		api := new(MockReservationAPI)
		api.On("ListMyReservations", mock.Anything, "bearer-1").
			Return([]models.Reservation{{ID: "r1"}}, nil)
		r := newGuardedEngine(api, store, codec, authService, cfg)

		user := &models.User{ID: "u1", Role: models.RoleTraveler}
		sess := store.Create("bearer-1", user)
		cookie, err := codec.Issue(sess.ID, user.Role, "bearer-1")
		require.NoError(t, err)

		w := performGet(r, "/reservations", cfg.CookieName, cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"r1"`)
		api.AssertExpectations(t)
	})
}

// A 401 from any authenticated call means the bearer token died server-side.
// The whole session has to go with it: local store entry deleted, cookie
// cleared, and the next request lands on the login redirect instead of being
// served with stale state.
func TestTokenRejectionEndsSession(t *testing.T) {
	cfg := sessionConfig()
	store := session.NewStore(cfg.TTL)
	codec := session.NewTokenCodec(cfg)
	authService := auth.NewAuthService(deadTokenBackend{}, store, codec, zap.NewNop())

	api := new(MockReservationAPI)
	api.On("ListMyReservations", mock.Anything, "expired-bearer").
		Return(nil, fmt.Errorf("token rejected: %w", models.ErrUnauthenticated))
	r := newGuardedEngine(api, store, codec, authService, cfg)

	user := &models.User{ID: "u1", Role: models.RoleTraveler}
	sess := store.Create("expired-bearer", user)
	cookie, err := codec.Issue(sess.ID, user.Role, "expired-bearer")
	require.NoError(t, err)

	w := performGet(r, "/reservations", cfg.CookieName, cookie)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, store.Snapshot(sess.ID), "store entry must be gone after the 401")

	var cleared bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == cfg.CookieName && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie must be cleared in the 401 response")

	// The browser may still replay the signed cookie; rehydration hits the
	// backend, gets rejected again, and the guard redirects to login.
	w = performGet(r, "/reservations", cfg.CookieName, cookie)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "/login?returnUrl=%2Freservations")
	api.AssertNumberOfCalls(t, "ListMyReservations", 1)
}
