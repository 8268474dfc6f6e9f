package registration

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurposeEmailVerification is the only capability tokens minted by
// this package carry.
const TokenPurposeEmailVerification = "email_verification"

// VerificationClaims binds a user identifier to the email-verification
// capability with an expiry. The serialized form is embedded verbatim
// into the verification URL.
type VerificationClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose,omitempty"`
}

// UserID returns the subject the token was issued for.
func (c *VerificationClaims) UserID() string {
	return c.RegisteredClaims.Subject
}

// IsEmailVerification reports whether the token carries the
// verification capability and nothing else.
func (c *VerificationClaims) IsEmailVerification() bool {
	return c.Purpose == TokenPurposeEmailVerification
}

// Expires returns the expiration time
func (c *VerificationClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedTime returns the issued at time
func (c *VerificationClaims) IssuedTime() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
