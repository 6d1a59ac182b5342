package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aibbs/aibbs-web/internal/domain"
)

// AuthResult is a successful login or registration: the opaque bearer token
// plus the account it belongs to.
type AuthResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/login", "", nil,
		map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, err
	}

	var res AuthResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode login result: %w", err)
	}
	if res.Token == "" {
		return nil, &Error{Status: http.StatusOK, Message: "login response missing token"}
	}
	return &res, nil
}

// RegisterInput is the registration payload, including the optional captcha
// answer when the backend serves one.
type RegisterInput struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Confirm       string `json:"confirm"`
	Code          string `json:"code"`
	CaptchaID     string `json:"captcha_id,omitempty"`
	CaptchaAnswer string `json:"captcha_answer,omitempty"`
}

// Register creates an account; on success the user is already logged in.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/register", "", nil, in)
	if err != nil {
		return nil, err
	}

	var res AuthResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode register result: %w", err)
	}
	if res.Token == "" {
		return nil, &Error{Status: http.StatusOK, Message: "register response missing token"}
	}
	return &res, nil
}

// Me is the who-am-I probe. Payload is the bare user or {user:{...}}.
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	raw, err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, nil)
	if err != nil {
		return nil, err
	}

	user := &domain.User{}
	if err := unmarshalKeyed(raw, "user", user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if user.ID == 0 {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// UpdateProfile patches mutable profile fields; only the signature is
// editable from this frontend.
func (c *Client) UpdateProfile(ctx context.Context, token, signature string) error {
	_, err := c.do(ctx, http.MethodPatch, "/auth/profile", token, nil,
		map[string]string{"signature": signature})
	return err
}

// Captcha fetches a fresh graphical challenge. A 404 means captcha is
// disabled on the backend.
func (c *Client) Captcha(ctx context.Context) (*domain.Captcha, error) {
	raw, err := c.do(ctx, http.MethodGet, "/auth/captcha", "", nil, nil)
	if err != nil {
		return nil, err
	}

	captcha := &domain.Captcha{}
	if err := json.Unmarshal(raw, captcha); err != nil {
		return nil, fmt.Errorf("decode captcha: %w", err)
	}
	if captcha.ID == "" {
		return nil, domain.ErrNotFound
	}
	return captcha, nil
}

// VerifyCaptcha pre-checks a captcha answer for inline form validation.
func (c *Client) VerifyCaptcha(ctx context.Context, id, answer string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/captcha/verify", "", nil,
		map[string]string{"captcha_id": id, "captcha_answer": answer})
	return err
}

// SendEmailCode asks the backend to mail a verification code, passing the
// captcha answer through when one was required.
func (c *Client) SendEmailCode(ctx context.Context, email, captchaID, captchaAnswer string) error {
	body := map[string]string{"email": email}
	if captchaID != "" {
		body["captcha_id"] = captchaID
		body["captcha_answer"] = captchaAnswer
	}
	_, err := c.do(ctx, http.MethodPost, "/auth/send-email-code", "", nil, body)
	return err
}
