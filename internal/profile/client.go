package profile

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// UpdateRequest carries the editable profile fields submitted by the
// completion form. The backend flips profileComplete itself.
type UpdateRequest struct {
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	BirthDate     string `json:"birthDate"`
	CpfCnpj       string `json:"cpfCnpj"`
	Address       string `json:"address"`
	AddressNumber string `json:"addressNumber"`
	Complement    string `json:"complement"`
	Province      string `json:"province"`
	PostalCode    string `json:"postalCode"`
}

// Client talks to the storefront backend's authenticated profile endpoint.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	return &Client{http: resty.New().SetBaseURL(baseURL)}
}

func (c *Client) Update(ctx context.Context, idToken string, req UpdateRequest) error {
	var errBody struct {
		Error string `json:"error"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(idToken).
		SetBody(req).
		SetError(&errBody).
		Post("/api/user/profile")
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if resp.IsError() {
		if errBody.Error != "" {
			return fmt.Errorf("update profile: %s", errBody.Error)
		}
		return fmt.Errorf("update profile: status %d", resp.StatusCode())
	}
	return nil
}
