// Package session owns the authenticated identity: single source of truth
// for whether this client currently acts as an authenticated administrator,
// and the sole writer of the persisted credential.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"ticket-client/internal/credentials"
	"ticket-client/internal/status"
)

type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// AuthAPI is the slice of the HTTP client the manager needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
}

type Manager struct {
	store credentials.Store
	auth  AuthAPI

	mu        sync.Mutex
	state     State
	principal string
	loading   bool
	subs      []chan struct{}
}

func NewManager(store credentials.Store, auth AuthAPI) *Manager {
	return &Manager{
		store:   store,
		auth:    auth,
		state:   StateUnknown,
		loading: true,
	}
}

// Restore runs once at process start. A stored credential optimistically
// marks the session authenticated without a server round trip; validity is
// discovered by the first real authorized call via the 401 path. This is a
// deliberate trust-on-read policy. The loading flag drops on every path.
func (m *Manager) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	cred, err := m.store.Load()
	if err != nil {
		m.state = StateAnonymous
		return fmt.Errorf("session: restore: %w", err)
	}
	if cred == nil {
		m.state = StateAnonymous
		return nil
	}
	m.state = StateAuthenticated
	m.principal = cred.Username
	return nil
}

// Login authenticates the pair and, only on success, persists it and marks
// the session authenticated. Any rejection leaves prior state untouched.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if err := m.auth.Login(ctx, username, password); err != nil {
		var re *status.RequestError
		if errors.As(err, &re) && re.StatusCode != 0 {
			return fmt.Errorf("session: login rejected (%s): %w", re.Message, status.ErrAuthentication)
		}
		return fmt.Errorf("session: login: %w", err)
	}

	cred := &credentials.Credential{Username: username, Password: password}
	if err := m.store.Save(cred); err != nil {
		return fmt.Errorf("session: persist credential: %w", err)
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.principal = username
	m.mu.Unlock()
	return nil
}

// Logout notifies the server best-effort, then unconditionally clears the
// persisted credential and local state. Idempotent: a second logout is a
// no-op that ends in the same anonymous state.
func (m *Manager) Logout(ctx context.Context) error {
	if m.auth != nil {
		if err := m.auth.Logout(ctx); err != nil {
			slog.Warn("session: server logout failed, clearing local state anyway", "error", err)
		}
	}
	return m.clearLocal()
}

// ForceInvalidate is the local-clearing half of logout, invoked on any
// 401/403 response. Level-triggered: re-clearing an already-clear session is
// harmless, and each detection broadcasts once to subscribers.
func (m *Manager) ForceInvalidate() {
	if err := m.clearLocal(); err != nil {
		slog.Warn("session: force invalidate", "error", err)
	}
	m.notify()
}

func (m *Manager) clearLocal() error {
	err := m.store.Clear()

	m.mu.Lock()
	m.state = StateAnonymous
	m.principal = ""
	m.mu.Unlock()

	if err != nil {
		return fmt.Errorf("session: clear credential: %w", err)
	}
	return nil
}

// Subscribe returns a channel that receives one signal per detected
// authorization loss. The channel is buffered and never blocks the sender;
// a slow subscriber coalesces repeated losses into one pending signal.
func (m *Manager) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

func (m *Manager) notify() {
	m.mu.Lock()
	subs := make([]chan struct{}, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// Principal returns the authenticated identifier, empty when anonymous. The
// secret is never exposed through the manager.
func (m *Manager) Principal() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.principal
}

// Loading reports whether startup restoration is still in progress.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}
