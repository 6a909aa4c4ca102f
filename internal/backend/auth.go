package backend

import (
	"context"
	"net/http"
)

type AuthUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// Name returns the display name stored at sign-up, if any.
func (u AuthUser) Name() string {
	if n, ok := u.UserMetadata["name"].(string); ok {
		return n
	}
	return ""
}

type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	User         AuthUser `json:"user"`
}

type credentials struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// SignIn exchanges email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	body, err := jsonBody(credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	var sess AuthSession
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/v1/token?grant_type=password",
		body:        body,
		contentType: "application/json",
	}, &sess)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// SignUp registers a user. The session is nil when the backend requires
// email confirmation first.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*AuthUser, *AuthSession, error) {
	body, err := jsonBody(credentials{Email: email, Password: password, Data: map[string]any{"name": name}})
	if err != nil {
		return nil, nil, err
	}
	var res struct {
		AuthSession
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/v1/signup",
		body:        body,
		contentType: "application/json",
	}, &res)
	if err != nil {
		return nil, nil, err
	}

	if res.AccessToken != "" {
		sess := res.AuthSession
		return &sess.User, &sess, nil
	}
	user := res.User
	if user.ID == "" {
		user = AuthUser{ID: res.ID, Email: res.Email}
	}
	return &user, nil, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/v1/logout", token: accessToken}, nil)
}

// User resolves the account behind an access token. It doubles as a check
// that the session is still valid.
func (c *Client) User(ctx context.Context, accessToken string) (*AuthUser, error) {
	var u AuthUser
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/user", token: accessToken}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ResetPassword asks the backend to email a recovery link.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	body, err := jsonBody(map[string]string{"email": email})
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/v1/recover",
		body:        body,
		contentType: "application/json",
	}, nil)
}
