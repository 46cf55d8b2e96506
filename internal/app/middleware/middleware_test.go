package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmendo/tripdesk/internal/app/domain/session"
	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubResolver struct {
	sess      *models.Session
	refreshed string
	called    bool
}

func (s *stubResolver) Resolve(ctx context.Context, claims *session.Claims) (*models.Session, string) {
	s.called = true
	return s.sess, s.refreshed
}

func sessionConfig() config.SessionConfig {
	return config.SessionConfig{
		CookieName: "tripdesk_session",
		SecretKey:  "test-secret-key-at-least-32-chars!",
		Issuer:     "tripdesk",
		TTL:        time.Hour,
	}
}

func travelerSession() *models.Session {
	return &models.Session{
		ID:    "sess-1",
		Token: "bearer-1",
		User:  &models.User{ID: "u1", Role: models.RoleTraveler},
	}
}

func performRequest(r *gin.Engine, path string, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "tripdesk_session", Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionMiddleware(t *testing.T) {
	cfg := sessionConfig()
	codec := session.NewTokenCodec(cfg)

	newEngine := func(resolver *stubResolver) *gin.Engine {
		r := gin.New()
		r.Use(SessionMiddleware(resolver, codec, cfg))
		r.GET("/whoami", func(c *gin.Context) {
			if sess := GetSession(c); sess != nil {
				c.String(http.StatusOK, sess.ID)
				return
			}
			c.String(http.StatusOK, "anonymous")
		})
		return r
	}

	t.Run("no cookie resolves to anonymous", func(t *testing.T) {
		resolver := &stubResolver{}
		w := performRequest(newEngine(resolver), "/whoami", "")
		assert.Equal(t, "anonymous", w.Body.String())
		assert.False(t, resolver.called)
	})

	t.Run("valid cookie resolves the session", func(t *testing.T) {
		resolver := &stubResolver{sess: travelerSession()}
		cookie, err := codec.Issue("sess-1", models.RoleTraveler, "bearer-1")
		require.NoError(t, err)

		w := performRequest(newEngine(resolver), "/whoami", cookie)
		assert.Equal(t, "sess-1", w.Body.String())
	})

	t.Run("tampered cookie is cleared", func(t *testing.T) {
		resolver := &stubResolver{}
		w := performRequest(newEngine(resolver), "/whoami", "garbage")

		assert.Equal(t, "anonymous", w.Body.String())
		assert.False(t, resolver.called)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "tripdesk_session", cookies[0].Name)
		assert.True(t, cookies[0].MaxAge < 0)
	})

	t.Run("rehydration sets the refreshed cookie", func(t *testing.T) {
		resolver := &stubResolver{sess: travelerSession(), refreshed: "fresh-cookie"}
		cookie, err := codec.Issue("sess-1", models.RoleTraveler, "bearer-1")
		require.NoError(t, err)

		w := performRequest(newEngine(resolver), "/whoami", cookie)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "fresh-cookie", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})
}

func TestRequireAuth(t *testing.T) {
	newEngine := func(sess *models.Session) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if sess != nil {
				c.Set(string(SessionContextKey), sess)
			}
		})
		r.GET("/reservations", RequireAuth(), func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return r
	}

	t.Run("authenticated passes", func(t *testing.T) {
		w := performRequest(newEngine(travelerSession()), "/reservations", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("anonymous gets 401 with the return url preserved", func(t *testing.T) {
		w := performRequest(newEngine(nil), "/reservations?page=2", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "/login?returnUrl=")
		assert.Contains(t, w.Body.String(), "%2Freservations%3Fpage%3D2")
	})
}

func TestRequireRole(t *testing.T) {
	newEngine := func(sess *models.Session, role models.Role) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if sess != nil {
				c.Set(string(SessionContextKey), sess)
			}
		})
		r.GET("/gated", RequireRole(role), func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return r
	}

	t.Run("matching role passes", func(t *testing.T) {
		w := performRequest(newEngine(travelerSession(), models.RoleTraveler), "/gated", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong role gets 403 pointing at the default view", func(t *testing.T) {
		w := performRequest(newEngine(travelerSession(), models.RoleProvider), "/gated", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "access denied")
		assert.Contains(t, w.Body.String(), "/hotels")
	})

	t.Run("anonymous is sent to login, not 403", func(t *testing.T) {
		w := performRequest(newEngine(nil, models.RoleProvider), "/gated", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
