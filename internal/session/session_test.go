package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-client/internal/credentials"
	"ticket-client/internal/status"
)

type fakeAuth struct {
	loginErr  error
	logoutErr error

	loginCalls  int
	logoutCalls int
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) error {
	f.loginCalls++
	return f.loginErr
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func TestManager_LoginPersistsAndRestores(t *testing.T) {
	store := credentials.NewMemStore()
	auth := &fakeAuth{}

	mgr := NewManager(store, auth)
	require.NoError(t, mgr.Restore())
	assert.Equal(t, StateAnonymous, mgr.State())

	require.NoError(t, mgr.Login(context.Background(), "admin@example.com", "secret-pass"))
	assert.True(t, mgr.IsAuthenticated())
	assert.Equal(t, "admin@example.com", mgr.Principal())

	// Simulated reload: a fresh manager over the same store recovers the
	// same authenticated identifier without a server round trip.
	reloaded := NewManager(store, auth)
	assert.True(t, reloaded.Loading())
	require.NoError(t, reloaded.Restore())
	assert.False(t, reloaded.Loading())
	assert.True(t, reloaded.IsAuthenticated())
	assert.Equal(t, "admin@example.com", reloaded.Principal())
	assert.Equal(t, 1, auth.loginCalls)
}

func TestManager_LoginRejectedLeavesStateUntouched(t *testing.T) {
	store := credentials.NewMemStore()
	auth := &fakeAuth{loginErr: &status.RequestError{StatusCode: 401, Message: "bad credentials"}}
	mgr := NewManager(store, auth)
	require.NoError(t, mgr.Restore())

	err := mgr.Login(context.Background(), "admin@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrAuthentication)

	assert.False(t, mgr.IsAuthenticated())
	assert.Empty(t, mgr.Principal())
	cred, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.Nil(t, cred)
}

func TestManager_LoginTransportErrorIsNotAuthenticationError(t *testing.T) {
	auth := &fakeAuth{loginErr: &status.RequestError{Message: "connection refused"}}
	mgr := NewManager(credentials.NewMemStore(), auth)
	require.NoError(t, mgr.Restore())

	err := mgr.Login(context.Background(), "admin@example.com", "secret-pass")
	require.Error(t, err)
	assert.NotErrorIs(t, err, status.ErrAuthentication)
}

func TestManager_LogoutIdempotent(t *testing.T) {
	store := credentials.NewMemStore()
	auth := &fakeAuth{}
	mgr := NewManager(store, auth)
	require.NoError(t, mgr.Restore())
	require.NoError(t, mgr.Login(context.Background(), "admin@example.com", "secret-pass"))

	require.NoError(t, mgr.Logout(context.Background()))
	require.NoError(t, mgr.Logout(context.Background()))

	assert.Equal(t, StateAnonymous, mgr.State())
	cred, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, cred)
	assert.Equal(t, 2, auth.logoutCalls)
}

func TestManager_LogoutClearsEvenWhenServerFails(t *testing.T) {
	store := credentials.NewMemStore()
	auth := &fakeAuth{logoutErr: errors.New("server unreachable")}
	mgr := NewManager(store, auth)
	require.NoError(t, mgr.Restore())
	require.NoError(t, mgr.Login(context.Background(), "admin@example.com", "secret-pass"))

	require.NoError(t, mgr.Logout(context.Background()))

	assert.False(t, mgr.IsAuthenticated())
	cred, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestManager_ForceInvalidateClearsAndBroadcasts(t *testing.T) {
	store := credentials.NewMemStore()
	mgr := NewManager(store, &fakeAuth{})
	require.NoError(t, mgr.Restore())
	require.NoError(t, mgr.Login(context.Background(), "admin@example.com", "secret-pass"))

	lost := mgr.Subscribe()
	mgr.ForceInvalidate()

	assert.False(t, mgr.IsAuthenticated())
	cred, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, cred)

	select {
	case <-lost:
	default:
		t.Fatal("expected an authorization-lost signal")
	}
}

func TestManager_ForceInvalidateLevelTriggered(t *testing.T) {
	mgr := NewManager(credentials.NewMemStore(), &fakeAuth{})
	require.NoError(t, mgr.Restore())

	lost := mgr.Subscribe()

	// Repeated 401s on an already-cleared session stay harmless; the slow
	// subscriber sees the losses coalesced into one pending signal.
	mgr.ForceInvalidate()
	mgr.ForceInvalidate()
	mgr.ForceInvalidate()

	assert.Equal(t, StateAnonymous, mgr.State())

	<-lost
	select {
	case <-lost:
		t.Fatal("signals should coalesce in the buffered channel")
	default:
	}
}

func TestManager_RestoreWithoutStoredCredential(t *testing.T) {
	mgr := NewManager(credentials.NewMemStore(), &fakeAuth{})
	assert.True(t, mgr.Loading())
	require.NoError(t, mgr.Restore())
	assert.False(t, mgr.Loading())
	assert.Equal(t, StateAnonymous, mgr.State())
	assert.False(t, mgr.IsAuthenticated())
}
