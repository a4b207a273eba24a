package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// RegistrarClient calls the storefront backend's registration endpoint, which
// creates the provider user plus the seed profile record and returns a custom
// token for the session exchange.
type RegistrarClient struct {
	http *resty.Client
}

func NewRegistrarClient(baseURL string) *RegistrarClient {
	return &RegistrarClient{http: resty.New().SetBaseURL(baseURL)}
}

func (c *RegistrarClient) Register(ctx context.Context, email, password string) (string, error) {
	var ok struct {
		Token string `json:"token"`
	}
	var bad struct {
		Error string `json:"error"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&ok).
		SetError(&bad).
		Post("/api/auth/register")
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	if resp.IsError() {
		if bad.Error != "" {
			return "", errors.New(bad.Error)
		}
		return "", fmt.Errorf("register failed (status %d)", resp.StatusCode())
	}
	if ok.Token == "" {
		return "", ErrNoToken
	}
	return ok.Token, nil
}
