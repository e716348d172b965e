package api

import (
	"context"
	"fmt"
	"net/http"

	"einvoice/pkg/models"
)

// Login exchanges email and password for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	const op = "Login"
	if email == "" || password == "" {
		return nil, &APIError{Op: op, Err: fmt.Errorf("%w: email and password are required", ErrBadRequest)}
	}
	tok, err := call[models.TokenResponse](ctx, c, op, http.MethodPost, "/auth/login", nil, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, &APIError{Op: op, StatusCode: http.StatusOK, Err: fmt.Errorf("%w: no access token in response", ErrDecode)}
	}
	return tok, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	return call[models.User](ctx, c, "Me", http.MethodGet, "/auth/me", nil, nil)
}
