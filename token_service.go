package registration

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService mints and validates email-verification tokens. The
// signing key is process wide, read only after startup, and never
// serialized into any response.
type TokenService interface {
	IssueEmailVerification(userID string) (string, error)
	Validate(token string) (*VerificationClaims, error)
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	logger     Logger
}

// DefaultVerificationTokenTTL bounds how long a verification link stays
// redeemable when config does not say otherwise.
const DefaultVerificationTokenTTL = 24 * time.Hour

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, ttl time.Duration, issuer string, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	if ttl <= 0 {
		ttl = DefaultVerificationTokenTTL
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		ttl:        ttl,
		issuer:     issuer,
		logger:     logger,
	}
}

// IssueEmailVerification mints a signed, time-bounded token binding the
// user identifier to the email-verification capability.
func (ts *TokenServiceImpl) IssueEmailVerification(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required", errors.CategoryBadInput)
	}

	now := time.Now()
	claims := &VerificationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		Purpose: TokenPurposeEmailVerification,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign verification token")
	}

	return signed, nil
}

// Validate parses a serialized token and checks signature, expiry, and
// purpose. The redemption flow and tests use it; issuance never does.
func (ts *TokenServiceImpl) Validate(tokenString string) (*VerificationClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &VerificationClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*VerificationClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode claims")
		return nil, ErrTokenMalformed
	}

	if !claims.IsEmailVerification() {
		return nil, ErrTokenPurposeMismatch
	}

	return claims, nil
}

// VerificationURL builds the link embedded into the verification email.
// The serialized token is URL safe, so it is embedded verbatim.
func VerificationURL(appURL, token string) string {
	return fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(appURL, "/"), token)
}

// TokenFromVerificationURL extracts the serialized token back out of a
// verification link. Mostly a test helper, exported for redemption
// handlers that receive the full URL.
func TokenFromVerificationURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryBadInput, "invalid verification url")
	}
	token := u.Query().Get("token")
	if token == "" {
		return "", errors.New("verification url carries no token", errors.CategoryBadInput)
	}
	return token, nil
}
