package domain

import "time"

// TokenPair is what login returns: a short-lived access JWT verified purely by
// signature, and a longer-lived refresh JWT that is additionally persisted
// server-side so it can be revoked.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token,omitempty"`
	ExpiresIn    time.Duration `json:"expires_in"` // access token lifetime in seconds
}

// RefreshToken is the stored record for a renewable credential. The token
// itself is never stored; TokenHash is its SHA-256 fingerprint.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	UserAgent string
	IP        string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserSummary is the identity block embedded in the login response.
type UserSummary struct {
	ID         string   `json:"id"`
	Username   string   `json:"username,omitempty"`
	Email      string   `json:"email"`
	ActiveRole string   `json:"active_role"`
	Roles      []string `json:"roles"`
}

// LoginResult bundles the issued credentials with the identity summary.
type LoginResult struct {
	Tokens TokenPair
	User   UserSummary
}
