package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/pkg/config"
)

func testUser() *models.User {
	return &models.User{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: models.RoleTraveler}
}

func TestStore(t *testing.T) {
	t.Run("create and snapshot", func(t *testing.T) {
		store := NewStore(time.Hour)
		created := store.Create("bearer-1", testUser())
		require.NotEmpty(t, created.ID)
		assert.True(t, created.Authenticated())

		got := store.Snapshot(created.ID)
		require.NotNil(t, got)
		assert.Equal(t, "bearer-1", got.Token)
		assert.Equal(t, "u1", got.User.ID)
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		store := NewStore(time.Hour)
		created := store.Create("bearer-1", testUser())

		first := store.Snapshot(created.ID)
		first.User.Name = "changed"

		second := store.Snapshot(created.ID)
		assert.Equal(t, "Ana", second.User.Name)
	})

	t.Run("unknown id yields nil", func(t *testing.T) {
		store := NewStore(time.Hour)
		assert.Nil(t, store.Snapshot("nope"))
	})

	t.Run("set user replaces the profile only", func(t *testing.T) {
		store := NewStore(time.Hour)
		created := store.Create("bearer-1", testUser())

		store.SetUser(created.ID, &models.User{ID: "u1", Name: "Ana Maria", Role: models.RoleTraveler})

		got := store.Snapshot(created.ID)
		require.NotNil(t, got)
		assert.Equal(t, "Ana Maria", got.User.Name)
		assert.Equal(t, "bearer-1", got.Token)
	})

	t.Run("delete drops the session", func(t *testing.T) {
		store := NewStore(time.Hour)
		created := store.Create("bearer-1", testUser())
		store.Delete(created.ID)
		assert.Nil(t, store.Snapshot(created.ID))
	})
}

func codecConfig() config.SessionConfig {
	return config.SessionConfig{
		CookieName: "tripdesk_session",
		SecretKey:  "test-secret-key-at-least-32-chars!",
		Issuer:     "tripdesk",
		TTL:        time.Hour,
	}
}

func TestTokenCodec(t *testing.T) {
	t.Run("issue and verify round trip", func(t *testing.T) {
		codec := NewTokenCodec(codecConfig())
		signed, err := codec.Issue("sess-1", models.RoleProvider, "bearer-1")
		require.NoError(t, err)

		claims, err := codec.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, "sess-1", claims.SessionID)
		assert.Equal(t, models.RoleProvider, claims.Role)
		assert.Equal(t, "bearer-1", claims.Token)
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		codec := NewTokenCodec(codecConfig())
		signed, err := codec.Issue("sess-1", models.RoleTraveler, "bearer-1")
		require.NoError(t, err)

		_, err = codec.Verify(signed + "x")
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		codec := NewTokenCodec(codecConfig())
		otherCfg := codecConfig()
		otherCfg.SecretKey = "a-completely-different-secret-key"
		other := NewTokenCodec(otherCfg)

		signed, err := other.Issue("sess-1", models.RoleTraveler, "bearer-1")
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		cfg := codecConfig()
		cfg.TTL = -time.Minute
		codec := NewTokenCodec(cfg)

		signed, err := codec.Issue("sess-1", models.RoleTraveler, "bearer-1")
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		codec := NewTokenCodec(codecConfig())
		_, err := codec.Verify("not-a-token")
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})
}
