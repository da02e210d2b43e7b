package api

import (
	"context"
	"net/url"

	"ticket-client/internal/credentials"
)

// Login authenticates the candidate pair against the login endpoint. The
// Basic header and the form body both carry the candidate credentials; the
// stored credential is not consulted. The caller decides whether to persist
// the pair on success.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{
		"username": {username},
		"password": {password},
	}
	override := &credentials.Credential{Username: username, Password: password}
	return c.postForm(ctx, "login", loginPath, form, override)
}

// Logout notifies the server that the admin session ends. The request is
// stamped with the stored credential like any other authorized call.
func (c *Client) Logout(ctx context.Context) error {
	return c.postForm(ctx, "logout", logoutPath, nil, nil)
}
