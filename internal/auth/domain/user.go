package domain

import "time"

// User is an account identity. Users are soft-deleted: Deleted stays forever
// and the row is only removed by the hard administrative delete.
type User struct {
	ID           string
	Username     string // optional, unique when set
	Email        string // unique, lowercase
	PasswordHash string // argon2id PHC encoded
	Enabled      bool
	Deleted      bool
	TwoFAEnabled bool // true while at least one 2FA method is verified+enabled
	Preferences  Preferences
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Preferences is the per-user UI preference bag. Values are free-form strings
// validated at the HTTP boundary; storage does not constrain them.
type Preferences struct {
	Theme       string `json:"theme"`
	FontSize    string `json:"font_size"`
	FontFamily  string `json:"font_family"`
	ColorScheme string `json:"color_scheme"`
}

// DefaultPreferences returns the preference bag applied at registration when
// the client sends nothing.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:       "system",
		FontSize:    "base",
		FontFamily:  "sans",
		ColorScheme: "default",
	}
}
