package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lmendo/tripdesk/internal/app/domain/session"
	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/backend"
)

// Ensure implementation satisfies the interface
var _ AuthService = (*AuthServiceImpl)(nil)

// BackendAuth is the slice of the gateway the auth flow needs.
type BackendAuth interface {
	Login(ctx context.Context, creds backend.Credentials) (string, *models.User, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*models.User, error)
	RegisterUser(ctx context.Context, reg backend.Registration) (*models.User, error)
}

// AuthService owns the session state machine: anonymous to
// authenticated(role) on login, back to anonymous on logout or token
// rejection. Nothing else writes the session store.
type AuthService interface {
	Login(ctx context.Context, creds backend.Credentials) (cookie string, sess *models.Session, err error)
	Logout(ctx context.Context, sessionID string)
	Register(ctx context.Context, reg backend.Registration) (*models.User, error)
	Resolve(ctx context.Context, claims *session.Claims) (sess *models.Session, refreshedCookie string)
	RefreshProfile(ctx context.Context, sess *models.Session) (*models.User, error)
	Invalidate(sessionID string)
}

type AuthServiceImpl struct {
	api    BackendAuth
	store  *session.Store
	codec  *session.TokenCodec
	logger *zap.Logger
}

func NewAuthService(api BackendAuth, store *session.Store, codec *session.TokenCodec, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{api: api, store: store, codec: codec, logger: logger}
}

// Login exchanges credentials at the backend, caches the session and issues
// the signed cookie.
func (s *AuthServiceImpl) Login(ctx context.Context, creds backend.Credentials) (string, *models.Session, error) {
	l := s.logger.With(zap.String("method", "Login"), zap.String("email", creds.Email))

	token, user, err := s.api.Login(ctx, creds)
	if err != nil {
		l.Warn("Backend login failed", zap.Error(err))
		return "", nil, err
	}

	sess := s.store.Create(token, user)
	cookie, err := s.codec.Issue(sess.ID, user.Role, token)
	if err != nil {
		s.store.Delete(sess.ID)
		l.Error("Failed to issue session cookie", zap.Error(err))
		return "", nil, fmt.Errorf("could not establish session: %w", err)
	}

	l.Info("Login successful", zap.String("userID", user.ID), zap.String("role", string(user.Role)))
	return cookie, sess, nil
}

// Logout revokes the token at the backend best-effort and always clears the
// local session.
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) {
	l := s.logger.With(zap.String("method", "Logout"))

	if sess := s.store.Snapshot(sessionID); sess.Authenticated() {
		if err := s.api.Logout(ctx, sess.Token); err != nil {
			l.Warn("Backend logout failed, clearing local session anyway", zap.Error(err))
		}
	}
	s.store.Delete(sessionID)
	l.Info("Session cleared")
}

// Register forwards a new account request to the backend.
func (s *AuthServiceImpl) Register(ctx context.Context, reg backend.Registration) (*models.User, error) {
	l := s.logger.With(zap.String("method", "Register"), zap.String("email", reg.Email))

	user, err := s.api.RegisterUser(ctx, reg)
	if err != nil {
		l.Warn("Registration failed", zap.Error(err))
		return nil, err
	}
	l.Info("Registration successful", zap.String("userID", user.ID))
	return user, nil
}

// Resolve turns verified cookie claims into a live session. When the store
// lost the entry (process restart) but the cookie still carries the bearer
// token, it re-authenticates silently by fetching the profile; the rebuilt
// session gets a fresh cookie. Failure means anonymous.
func (s *AuthServiceImpl) Resolve(ctx context.Context, claims *session.Claims) (*models.Session, string) {
	if sess := s.store.Snapshot(claims.SessionID); sess != nil {
		return sess, ""
	}
	if claims.Token == "" {
		return nil, ""
	}

	l := s.logger.With(zap.String("method", "Resolve"))
	user, err := s.api.Me(ctx, claims.Token)
	if err != nil {
		l.Debug("Silent re-authentication failed", zap.Error(err))
		return nil, ""
	}

	sess := s.store.Create(claims.Token, user)
	cookie, err := s.codec.Issue(sess.ID, user.Role, claims.Token)
	if err != nil {
		l.Error("Failed to reissue session cookie", zap.Error(err))
		s.store.Delete(sess.ID)
		return nil, ""
	}
	l.Info("Session rehydrated from persisted token", zap.String("userID", user.ID))
	return sess, cookie
}

// RefreshProfile re-fetches /me for an authenticated session and updates the
// cached user. A 401 clears the session, completing the token-rejection
// transition back to anonymous.
func (s *AuthServiceImpl) RefreshProfile(ctx context.Context, sess *models.Session) (*models.User, error) {
	user, err := s.api.Me(ctx, sess.Token)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			s.store.Delete(sess.ID)
		}
		return nil, err
	}
	s.store.SetUser(sess.ID, user)
	return user, nil
}

// Invalidate drops a session after any authenticated call came back 401.
func (s *AuthServiceImpl) Invalidate(sessionID string) {
	s.store.Delete(sessionID)
}
