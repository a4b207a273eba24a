package auth

import (
	"context"
	"sync"

	"github.com/venuegate/storefront/internal/profile"
)

type State string

const (
	StateSignedOut         State = "signed_out"
	StateAuthenticating    State = "authenticating"
	StateProfileIncomplete State = "profile_incomplete"
	StateProfileComplete   State = "profile_complete"
)

// Identity establishes sessions with the auth provider.
type Identity interface {
	SignInWithPassword(ctx context.Context, email, password string) (Session, error)
	SignInWithCustomToken(ctx context.Context, token string) (Session, error)
}

// Registrar creates the backend-side user record and returns the custom token
// to exchange for a session.
type Registrar interface {
	Register(ctx context.Context, email, password string) (string, error)
}

// SnapshotSource produces the live profile stream for one identity.
// *profile.Stream satisfies it.
type SnapshotSource interface {
	Subscribe(ctx context.Context, uid, idToken string) (<-chan profile.Snapshot, func(), error)
}

// Manager owns the session, the cached profile copy and the derived state.
// The profile subscription lives exactly as long as the identity: it is opened
// on sign-in and torn down on sign-out or identity change, so updates can
// never leak across identities.
type Manager struct {
	Identity  Identity
	Registrar Registrar
	Profiles  SnapshotSource

	mu        sync.Mutex
	state     State
	session   *Session
	profile   *profile.Profile
	cancelSub func()
	gen       int // bumped per subscription; stale stream goroutines no-op

	nextObs int
	obs     map[int]func(State)
}

func NewManager(ident Identity, reg Registrar, profiles SnapshotSource) *Manager {
	return &Manager{
		Identity:  ident,
		Registrar: reg,
		Profiles:  profiles,
		state:     StateSignedOut,
		obs:       map[int]func(State){},
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) Session() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

func (m *Manager) Profile() *profile.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return nil
	}
	p := *m.profile
	return &p
}

// Subscribe registers fn to run after every state change.
func (m *Manager) Subscribe(fn func(State)) (cancel func()) {
	m.mu.Lock()
	id := m.nextObs
	m.nextObs++
	m.obs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.obs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	m.setState(StateAuthenticating)

	sess, err := m.Identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		m.reset()
		return &AuthError{Op: "sign in", Err: err}
	}
	m.establish(ctx, sess)
	return nil
}

// SignUp is the two-phase flow: the backend registers the user and returns a
// custom token, then the token is exchanged for a session. A phase-two
// failure leaves the backend record orphaned; a later sign-in with the same
// credentials recovers it.
func (m *Manager) SignUp(ctx context.Context, email, password string) error {
	m.setState(StateAuthenticating)

	token, err := m.Registrar.Register(ctx, email, password)
	if err != nil {
		m.reset()
		return &AuthError{Op: "sign up", Err: err}
	}
	sess, err := m.Identity.SignInWithCustomToken(ctx, token)
	if err != nil {
		m.reset()
		return &AuthError{Op: "sign up", Err: err}
	}
	m.establish(ctx, sess)
	return nil
}

// SignOut tears down the profile subscription and drops the session.
func (m *Manager) SignOut() {
	m.reset()
}

// establish stores the session and opens the profile stream for it. The state
// resolves to incomplete/complete on the first snapshot; a stream that cannot
// be opened reads as "no profile".
func (m *Manager) establish(ctx context.Context, sess Session) {
	m.mu.Lock()
	m.dropSubscriptionLocked()
	m.session = &sess
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	ch, cancel, err := m.Profiles.Subscribe(ctx, sess.UID, sess.IDToken)
	if err != nil {
		m.applySnapshot(gen, profile.Snapshot{Err: err})
		return
	}

	m.mu.Lock()
	if m.gen != gen {
		// identity changed while we were connecting
		m.mu.Unlock()
		cancel()
		return
	}
	m.cancelSub = cancel
	m.mu.Unlock()

	go func() {
		for snap := range ch {
			m.applySnapshot(gen, snap)
		}
	}()
}

// applySnapshot replaces the cached profile wholesale and re-derives state.
// Snapshots from a superseded subscription are dropped.
func (m *Manager) applySnapshot(gen int, snap profile.Snapshot) {
	m.mu.Lock()
	if m.gen != gen || m.session == nil {
		m.mu.Unlock()
		return
	}
	m.profile = snap.Profile
	next := StateProfileIncomplete
	if snap.Profile != nil && snap.Profile.ProfileComplete {
		next = StateProfileComplete
	}
	m.transitionLocked(next)
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.transitionLocked(s)
}

// reset returns to signed-out: subscription cancelled, session and cached
// profile cleared.
func (m *Manager) reset() {
	m.mu.Lock()
	m.dropSubscriptionLocked()
	m.session = nil
	m.profile = nil
	m.gen++
	m.transitionLocked(StateSignedOut)
}

func (m *Manager) dropSubscriptionLocked() {
	if m.cancelSub != nil {
		m.cancelSub()
		m.cancelSub = nil
	}
}

// transitionLocked sets the state and notifies observers outside the lock.
// Callers must hold m.mu and must not touch state afterwards.
func (m *Manager) transitionLocked(s State) {
	if m.state == s {
		m.mu.Unlock()
		return
	}
	m.state = s
	fns := make([]func(State), 0, len(m.obs))
	for _, fn := range m.obs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}
