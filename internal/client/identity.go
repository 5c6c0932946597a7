package client

import (
	"context"
	"net/http"

	"github.com/anupgautam23/oms-frontend/internal/domain"
	apperrors "github.com/anupgautam23/oms-frontend/pkg/util"
)

// IdentityClient calls the identity service.
type IdentityClient struct {
	baseURL string
	req     *Requester
}

// NewIdentityClient binds the identity endpoints to a workspace requester.
func NewIdentityClient(baseURL string, requester *Requester) *IdentityClient {
	return &IdentityClient{baseURL: baseURL, req: requester}
}

// Register creates an account. It does not sign the user in.
func (c *IdentityClient) Register(ctx context.Context, name, email, password string) error {
	body := registerRequest{Username: name, Email: email, Password: password}
	return c.req.DoPublic(ctx, "auth.register", http.MethodPost, c.baseURL+"/api/auth/register", body, nil)
}

// Login exchanges credentials for a bearer token.
func (c *IdentityClient) Login(ctx context.Context, usernameOrEmail, password string) (*LoginResponse, error) {
	var resp LoginResponse
	body := loginRequest{UsernameOrEmail: usernameOrEmail, Password: password}
	if err := c.req.DoPublic(ctx, "auth.login", http.MethodPost, c.baseURL+"/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.BearerToken() == "" {
		return nil, apperrors.NewDecodeError(errMissingToken)
	}
	return &resp, nil
}

// Me fetches the identity behind the stored bearer token.
func (c *IdentityClient) Me(ctx context.Context) (domain.Profile, error) {
	var resp meResponse
	if err := c.req.Do(ctx, "auth.me", http.MethodGet, c.baseURL+"/api/auth/me", nil, &resp); err != nil {
		return domain.Profile{}, err
	}
	profile, err := resp.profile()
	if err != nil {
		return domain.Profile{}, apperrors.NewDecodeError(err)
	}
	return profile, nil
}
