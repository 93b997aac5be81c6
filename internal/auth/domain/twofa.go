package domain

import "time"

// TwoFAMethodType is the delivery mechanism of a second factor.
type TwoFAMethodType string

const (
	TwoFATOTP  TwoFAMethodType = "TOTP"
	TwoFASMS   TwoFAMethodType = "SMS"
	TwoFAEmail TwoFAMethodType = "EMAIL"
)

// Valid reports whether t is a known method type.
func (t TwoFAMethodType) Valid() bool {
	switch t {
	case TwoFATOTP, TwoFASMS, TwoFAEmail:
		return true
	}
	return false
}

// TwoFAMethod is one enrolled second factor. The lifecycle runs
// unverified+disabled -> verified+disabled -> verified+enabled, with Deleted
// as an absorbing terminal state reachable from anywhere.
type TwoFAMethod struct {
	ID         string
	UserID     string
	MethodType TwoFAMethodType
	Secret     string // base32 TOTP secret; phone/email for SMS/EMAIL
	IsEnabled  bool
	IsVerified bool
	IsPrimary  bool // at most one non-deleted primary per user
	Deleted    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TwoFAEnrollment is returned from TOTP enrollment so the user can provision
// their authenticator. It never reflects an enabled method.
type TwoFAEnrollment struct {
	MethodID        string `json:"method_id"`
	Secret          string `json:"secret"`
	ProvisioningURL string `json:"provisioning_url"`
	Issuer          string `json:"issuer"`
	Account         string `json:"account"`
}
