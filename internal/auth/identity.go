package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Session is the client-held identity issued by the auth provider.
type Session struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
}

// AuthError wraps a provider or backend failure. The provider's message text
// is surfaced verbatim; nothing else about the raw error leaks upward.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// ErrNoToken: the registration response carried no custom token, so no session
// can be established.
var ErrNoToken = errors.New("auth token not received from server")

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

// IdentityClient signs in against the Google Identity Toolkit REST surface,
// the same endpoints the mobile SDK uses underneath.
type IdentityClient struct {
	http   *resty.Client
	apiKey string
}

func NewIdentityClient(apiKey string) *IdentityClient {
	return &IdentityClient{
		http:   resty.New().SetBaseURL(identityToolkitURL),
		apiKey: apiKey,
	}
}

type toolkitError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (t toolkitError) err(fallback string) error {
	if t.Error.Message != "" {
		return errors.New(t.Error.Message)
	}
	return errors.New(fallback)
}

func (c *IdentityClient) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	var ok struct {
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
		LocalID      string `json:"localId"`
		Email        string `json:"email"`
	}
	var bad toolkitError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(map[string]any{"email": email, "password": password, "returnSecureToken": true}).
		SetResult(&ok).
		SetError(&bad).
		Post("/accounts:signInWithPassword")
	if err != nil {
		return Session{}, fmt.Errorf("sign in: %w", err)
	}
	if resp.IsError() {
		return Session{}, bad.err(fmt.Sprintf("sign in failed (status %d)", resp.StatusCode()))
	}
	return Session{UID: ok.LocalID, Email: ok.Email, IDToken: ok.IDToken, RefreshToken: ok.RefreshToken}, nil
}

func (c *IdentityClient) SignInWithCustomToken(ctx context.Context, token string) (Session, error) {
	var ok struct {
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
	}
	var bad toolkitError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(map[string]any{"token": token, "returnSecureToken": true}).
		SetResult(&ok).
		SetError(&bad).
		Post("/accounts:signInWithCustomToken")
	if err != nil {
		return Session{}, fmt.Errorf("token sign in: %w", err)
	}
	if resp.IsError() {
		return Session{}, bad.err(fmt.Sprintf("token sign in failed (status %d)", resp.StatusCode()))
	}

	// the token exchange response has no uid/email; look them up
	uid, email, err := c.lookup(ctx, ok.IDToken)
	if err != nil {
		return Session{}, err
	}
	return Session{UID: uid, Email: email, IDToken: ok.IDToken, RefreshToken: ok.RefreshToken}, nil
}

func (c *IdentityClient) lookup(ctx context.Context, idToken string) (uid, email string, err error) {
	var ok struct {
		Users []struct {
			LocalID string `json:"localId"`
			Email   string `json:"email"`
		} `json:"users"`
	}
	var bad toolkitError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(map[string]any{"idToken": idToken}).
		SetResult(&ok).
		SetError(&bad).
		Post("/accounts:lookup")
	if err != nil {
		return "", "", fmt.Errorf("account lookup: %w", err)
	}
	if resp.IsError() {
		return "", "", bad.err(fmt.Sprintf("account lookup failed (status %d)", resp.StatusCode()))
	}
	if len(ok.Users) == 0 {
		return "", "", errors.New("account lookup: no user for token")
	}
	return ok.Users[0].LocalID, ok.Users[0].Email, nil
}
