package authsdk

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// Session performs authenticated calls. When a request comes back 401 and a
// refresh token is available, the session refreshes once and retries.
type Session struct {
	client *Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func newSession(c *Client, tokens *TokenResponse) *Session {
	return &Session{
		client:       c,
		accessToken:  tokens.AccessToken,
		refreshToken: tokens.RefreshToken,
	}
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

func (s *Session) do(ctx context.Context, method, path string, in, out any) error {
	err := s.client.doJSON(ctx, method, path, s.AccessToken(), in, out)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		return err
	}
	if s.RefreshToken() == "" {
		return err
	}

	tokens, refreshErr := s.client.Refresh(ctx, s.RefreshToken())
	if refreshErr != nil {
		return err // surface the original 401
	}

	s.mu.Lock()
	s.accessToken = tokens.AccessToken
	s.mu.Unlock()

	return s.client.doJSON(ctx, method, path, s.AccessToken(), in, out)
}

// Menus lists the navigation entries visible to the session's active role.
func (s *Session) Menus(ctx context.Context) ([]MenuEntry, error) {
	var out []MenuEntry
	if err := s.do(ctx, http.MethodGet, "/v1/auth/menus", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SwitchRole activates another assigned role and swaps in the new access
// token so subsequent calls run under the new role.
func (s *Session) SwitchRole(ctx context.Context, roleID string) (*TokenResponse, error) {
	var out TokenResponse
	err := s.do(ctx, http.MethodPost, "/v1/auth/switch-role", SwitchRoleRequest{RoleID: roleID}, &out)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.accessToken = out.AccessToken
	if out.RefreshToken != "" {
		s.refreshToken = out.RefreshToken
	}
	s.mu.Unlock()

	return &out, nil
}

// Logout revokes the session's refresh token.
func (s *Session) Logout(ctx context.Context) error {
	return s.do(ctx, http.MethodPost, "/v1/auth/logout",
		LogoutRequest{RefreshToken: s.RefreshToken()}, nil)
}

// Profile returns the caller's own account.
func (s *Session) Profile(ctx context.Context) (*User, error) {
	var out User
	if err := s.do(ctx, http.MethodGet, "/v1/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile updates the caller's own mutable fields.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	var out User
	if err := s.do(ctx, http.MethodPut, "/v1/profile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnrollTOTP starts TOTP enrollment and returns provisioning material.
func (s *Session) EnrollTOTP(ctx context.Context) (*EnrollTOTPResponse, error) {
	var out EnrollTOTPResponse
	if err := s.do(ctx, http.MethodPost, "/v1/2fa/totp/enroll", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTOTP confirms an enrolled TOTP method with a current code.
func (s *Session) VerifyTOTP(ctx context.Context, methodID, code string) error {
	return s.do(ctx, http.MethodPost, "/v1/2fa/methods/"+methodID+"/verify",
		VerifyTOTPRequest{Code: code}, nil)
}

// TwoFAMethods lists the caller's second-factor methods.
func (s *Session) TwoFAMethods(ctx context.Context) ([]TwoFAMethod, error) {
	var out []TwoFAMethod
	if err := s.do(ctx, http.MethodGet, "/v1/2fa/methods", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActivateTwoFAMethod makes a verified method the single enabled one.
func (s *Session) ActivateTwoFAMethod(ctx context.Context, methodID string) error {
	return s.do(ctx, http.MethodPut, "/v1/2fa/methods/"+methodID+"/activate", nil, nil)
}

// DeleteTwoFAMethod removes a second-factor method.
func (s *Session) DeleteTwoFAMethod(ctx context.Context, methodID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/2fa/methods/"+methodID, nil, nil)
}
