package session

import (
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/lmendo/tripdesk/internal/app/models"
)

// Store is the process's only mutable session state. It is read from many
// places but written exclusively by the login, logout and rehydration paths.
// Callers only ever see copies; the stored Session is never handed out.
type Store struct {
	sessions *cache.Cache
}

func NewStore(ttl time.Duration) *Store {
	return &Store{sessions: cache.New(ttl, 10*time.Minute)}
}

// Create registers a fresh authenticated session and returns its ID.
func (s *Store) Create(token string, user *models.User) *models.Session {
	sess := &models.Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      cloneUser(user),
		CreatedAt: time.Now().UTC(),
	}
	s.sessions.SetDefault(sess.ID, sess)
	return snapshot(sess)
}

// Snapshot returns a copy of the session, or nil when the ID is unknown or
// expired. The copy is safe to hand to handlers and guards.
func (s *Store) Snapshot(id string) *models.Session {
	v, found := s.sessions.Get(id)
	if !found {
		return nil
	}
	return snapshot(v.(*models.Session))
}

// SetUser replaces the cached profile on an existing session, e.g. after a
// /me refresh.
func (s *Store) SetUser(id string, user *models.User) {
	v, found := s.sessions.Get(id)
	if !found {
		return
	}
	sess := v.(*models.Session)
	updated := &models.Session{
		ID:        sess.ID,
		Token:     sess.Token,
		User:      cloneUser(user),
		CreatedAt: sess.CreatedAt,
	}
	s.sessions.SetDefault(id, updated)
}

// Delete drops a session. Called on logout and on any 401 from the backend.
func (s *Store) Delete(id string) {
	s.sessions.Delete(id)
}

func snapshot(sess *models.Session) *models.Session {
	return &models.Session{
		ID:        sess.ID,
		Token:     sess.Token,
		User:      cloneUser(sess.User),
		CreatedAt: sess.CreatedAt,
	}
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}
