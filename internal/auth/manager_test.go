package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuegate/storefront/internal/profile"
)

type fakeIdentity struct {
	passwordErr error
	tokenErr    error
	gotToken    string
}

func (f *fakeIdentity) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	if f.passwordErr != nil {
		return Session{}, f.passwordErr
	}
	return Session{UID: "uid-1", Email: email, IDToken: "id-token"}, nil
}

func (f *fakeIdentity) SignInWithCustomToken(ctx context.Context, token string) (Session, error) {
	f.gotToken = token
	if f.tokenErr != nil {
		return Session{}, f.tokenErr
	}
	return Session{UID: "uid-1", IDToken: "id-token"}, nil
}

type fakeRegistrar struct {
	token string
	err   error
	calls int
}

func (f *fakeRegistrar) Register(ctx context.Context, email, password string) (string, error) {
	f.calls++
	return f.token, f.err
}

type fakeSource struct {
	ch        chan profile.Snapshot
	subErr    error
	cancelled int
	subs      int
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan profile.Snapshot, 4)}
}

func (f *fakeSource) Subscribe(ctx context.Context, uid, idToken string) (<-chan profile.Snapshot, func(), error) {
	if f.subErr != nil {
		return nil, nil, f.subErr
	}
	f.subs++
	return f.ch, func() { f.cancelled++ }, nil
}

func awaitState(t *testing.T, m *Manager, want State) {
	t.Helper()
	require.Eventually(t, func() bool { return m.State() == want },
		time.Second, 5*time.Millisecond, "state never reached %s", want)
}

func TestSignInIncompleteThenLivePushCompletes(t *testing.T) {
	src := newFakeSource()
	m := NewManager(&fakeIdentity{}, &fakeRegistrar{}, src)

	require.NoError(t, m.SignIn(context.Background(), "a@b.com", "pw"))
	assert.Equal(t, 1, src.subs)
	src.ch <- profile.Snapshot{Profile: &profile.Profile{Email: "a@b.com"}}
	awaitState(t, m, StateProfileIncomplete)

	// backend-side edit arrives over the live stream, no new sign-in
	src.ch <- profile.Snapshot{Profile: &profile.Profile{Email: "a@b.com", ProfileComplete: true}}
	awaitState(t, m, StateProfileComplete)
	require.NotNil(t, m.Profile())
	assert.True(t, m.Profile().ProfileComplete)
}

func TestSignInNoProfileRecord(t *testing.T) {
	src := newFakeSource()
	m := NewManager(&fakeIdentity{}, &fakeRegistrar{}, src)

	require.NoError(t, m.SignIn(context.Background(), "a@b.com", "pw"))
	src.ch <- profile.Snapshot{} // record missing
	awaitState(t, m, StateProfileIncomplete)
	assert.Nil(t, m.Profile())
}

func TestSignInBadCredentials(t *testing.T) {
	ident := &fakeIdentity{passwordErr: errors.New("INVALID_PASSWORD")}
	m := NewManager(ident, &fakeRegistrar{}, newFakeSource())

	err := m.SignIn(context.Background(), "a@b.com", "nope")
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Error(), "INVALID_PASSWORD")
	assert.Equal(t, StateSignedOut, m.State())
	assert.Nil(t, m.Session())
}

func TestSignUpTwoPhase(t *testing.T) {
	src := newFakeSource()
	ident := &fakeIdentity{}
	reg := &fakeRegistrar{token: "custom-token"}
	m := NewManager(ident, reg, src)

	require.NoError(t, m.SignUp(context.Background(), "a@b.com", "pw"))
	assert.Equal(t, 1, reg.calls)
	assert.Equal(t, "custom-token", ident.gotToken)

	src.ch <- profile.Snapshot{Profile: &profile.Profile{Email: "a@b.com"}}
	awaitState(t, m, StateProfileIncomplete)
}

func TestSignUpRegistrationFails(t *testing.T) {
	ident := &fakeIdentity{}
	reg := &fakeRegistrar{err: errors.New("EMAIL_EXISTS")}
	m := NewManager(ident, reg, newFakeSource())

	err := m.SignUp(context.Background(), "a@b.com", "pw")
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, StateSignedOut, m.State())
	assert.Empty(t, ident.gotToken, "no token exchange after failed registration")
}

func TestSignUpTokenExchangeFails(t *testing.T) {
	// phase two fails; the backend record stays orphaned and we end signed out
	ident := &fakeIdentity{tokenErr: errors.New("INVALID_CUSTOM_TOKEN")}
	reg := &fakeRegistrar{token: "custom-token"}
	m := NewManager(ident, reg, newFakeSource())

	err := m.SignUp(context.Background(), "a@b.com", "pw")
	require.Error(t, err)
	assert.Equal(t, StateSignedOut, m.State())
	assert.Nil(t, m.Session())
}

func TestSubscribeErrorReadsAsNoProfile(t *testing.T) {
	src := newFakeSource()
	src.subErr = errors.New("stream refused")
	m := NewManager(&fakeIdentity{}, &fakeRegistrar{}, src)

	require.NoError(t, m.SignIn(context.Background(), "a@b.com", "pw"))
	awaitState(t, m, StateProfileIncomplete)
}

func TestSignOutDetachesSubscription(t *testing.T) {
	src := newFakeSource()
	m := NewManager(&fakeIdentity{}, &fakeRegistrar{}, src)

	require.NoError(t, m.SignIn(context.Background(), "a@b.com", "pw"))
	src.ch <- profile.Snapshot{Profile: &profile.Profile{ProfileComplete: true}}
	awaitState(t, m, StateProfileComplete)

	m.SignOut()
	assert.Equal(t, StateSignedOut, m.State())
	assert.Equal(t, 1, src.cancelled)
	assert.Nil(t, m.Session())
	assert.Nil(t, m.Profile())

	// a late push from the old stream must not resurrect state
	src.ch <- profile.Snapshot{Profile: &profile.Profile{ProfileComplete: true}}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StateSignedOut, m.State())
}

func TestObserverNotifications(t *testing.T) {
	src := newFakeSource()
	m := NewManager(&fakeIdentity{}, &fakeRegistrar{}, src)

	states := make(chan State, 8)
	cancel := m.Subscribe(func(s State) { states <- s })
	defer cancel()

	require.NoError(t, m.SignIn(context.Background(), "a@b.com", "pw"))
	src.ch <- profile.Snapshot{Profile: &profile.Profile{ProfileComplete: true}}

	assert.Equal(t, StateAuthenticating, <-states)
	assert.Equal(t, StateProfileComplete, <-states)
}

func TestRoute(t *testing.T) {
	assert.Equal(t, DestLogin, Route(StateSignedOut))
	assert.Equal(t, DestLogin, Route(StateAuthenticating))
	assert.Equal(t, DestCompleteProfile, Route(StateProfileIncomplete))
	assert.Equal(t, DestShell, Route(StateProfileComplete))
}
