package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_StartAndResolve(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	issued, err := env.sessionSvc.StartSession(ctx, alice.ID, ClientInfo{UserAgent: "test"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, issued.Session.UserID)
	assert.WithinDuration(t, issued.Session.CreatedAt.Add(time.Hour), issued.Session.ExpiresAt, time.Second)

	identity := env.sessionSvc.ResolveSession(ctx, issued.Token)
	assert.Equal(t, alice.ID, identity.UserID)
	assert.Equal(t, issued.Session.ID, identity.SessionID)
}

func TestSessionService_ResolveGarbage(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	assert.True(t, env.sessionSvc.ResolveSession(ctx, "").IsAnonymous())
	assert.True(t, env.sessionSvc.ResolveSession(ctx, "not-a-token").IsAnonymous())
	assert.True(t, env.sessionSvc.ResolveSession(ctx, "v4.local.AAAA").IsAnonymous())
}

func TestSessionService_EndedSessionIsAnonymous(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	issued, err := env.sessionSvc.StartSession(ctx, alice.ID, ClientInfo{})
	require.NoError(t, err)

	require.NoError(t, env.sessionSvc.EndSession(ctx, issued.Token))
	assert.True(t, env.sessionSvc.ResolveSession(ctx, issued.Token).IsAnonymous())

	// Ending twice is harmless.
	require.NoError(t, env.sessionSvc.EndSession(ctx, issued.Token))
	require.NoError(t, env.sessionSvc.EndSession(ctx, "garbage"))
}

func TestSessionService_StartRejectsPastExpiry(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	past := time.Now().Add(-2 * time.Hour)
	env.sessionSvc.now = func() time.Time { return past }

	issued, err := env.sessionSvc.StartSession(ctx, alice.ID, ClientInfo{})
	require.Error(t, err, "a session that is already expired cannot be stored")
	assert.Nil(t, issued)
}

func TestSessionService_SessionExpiresAfterTTL(t *testing.T) {
	env := setupTestEnvWithTTL(t, time.Second)
	ctx := context.Background()
	alice := env.register(t, "alice")

	issued, err := env.sessionSvc.StartSession(ctx, alice.ID, ClientInfo{})
	require.NoError(t, err)
	require.Equal(t, alice.ID, env.sessionSvc.ResolveSession(ctx, issued.Token).UserID)

	time.Sleep(1500 * time.Millisecond)
	assert.True(t, env.sessionSvc.ResolveSession(ctx, issued.Token).IsAnonymous())
}

func TestSessionService_NoExpiry(t *testing.T) {
	env := setupTestEnvWithTTL(t, 0)
	ctx := context.Background()
	alice := env.register(t, "alice")

	issued, err := env.sessionSvc.StartSession(ctx, alice.ID, ClientInfo{})
	require.NoError(t, err)
	assert.True(t, issued.Session.ExpiresAt.IsZero())
	assert.Equal(t, alice.ID, env.sessionSvc.ResolveSession(ctx, issued.Token).UserID)
}
