package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/lmendo/tripdesk/internal/app/domain/session"
	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/pkg/config"
)

// SessionResolver turns verified cookie claims into a live session snapshot,
// optionally returning a refreshed cookie value after rehydration.
type SessionResolver interface {
	Resolve(ctx context.Context, claims *session.Claims) (*models.Session, string)
}

// Define typed context keys
type contextKey string

const SessionContextKey contextKey = "session"

const loginPath = "/login"
const defaultPath = "/hotels"

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SecurityMiddleware adds security headers
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// SessionMiddleware resolves the signed session cookie into a session
// snapshot on the context. It never blocks the request; the guards below do
// the gating. When resolution rehydrated a session, the refreshed cookie is
// set on the response.
func SessionMiddleware(svc SessionResolver, codec *session.TokenCodec, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(cfg.CookieName)
		if err != nil || value == "" {
			c.Next()
			return
		}

		claims, err := codec.Verify(value)
		if err != nil {
			// Expired or tampered cookie: drop it so the browser stops sending it.
			ClearSessionCookie(c, cfg)
			c.Next()
			return
		}

		sess, refreshed := svc.Resolve(c.Request.Context(), claims)
		if sess == nil {
			ClearSessionCookie(c, cfg)
			c.Next()
			return
		}
		if refreshed != "" {
			SetSessionCookie(c, cfg, refreshed)
		}

		c.Set(string(SessionContextKey), sess)
		c.Next()
	}
}

// GetSession extracts the session snapshot placed by SessionMiddleware.
func GetSession(c *gin.Context) *models.Session {
	v, exists := c.Get(string(SessionContextKey))
	if !exists {
		return nil
	}
	sess, ok := v.(*models.Session)
	if !ok {
		return nil
	}
	return sess
}

// RequireAuth gates a route on an authenticated session. Unauthenticated
// requests get a 401 pointing at the login view with the intended
// destination preserved.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if !sess.Authenticated() {
			redirectToLogin(c)
			return
		}
		c.Next()
	}
}

// RequireRole gates a route on a role. The decision is synchronous, made
// from the latest session snapshot: no network call. Wrong role lands on the
// neutral default view, not the login page.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if !sess.Authenticated() || sess.User == nil {
			redirectToLogin(c)
			return
		}
		if sess.User.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "access denied",
				"redirect": defaultPath,
			})
			return
		}
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	returnURL := c.Request.URL.RequestURI()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":    "authentication required",
		"redirect": loginPath + "?returnUrl=" + url.QueryEscape(returnURL),
	})
}

// SetSessionCookie writes the signed session cookie.
func SetSessionCookie(c *gin.Context, cfg config.SessionConfig, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, value, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(c *gin.Context, cfg config.SessionConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
}
