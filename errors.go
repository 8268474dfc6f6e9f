package registration

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced alongside errors so API clients can match
// outcomes without parsing messages.
const (
	TextCodeRegistrationDisabled = "REGISTRATION_DISABLED"
	TextCodeValidationFailed     = "VALIDATION_FAILED"
	TextCodePasswordTooShort     = "PASSWORD_TOO_SHORT"
	TextCodeUserAlreadyExists    = "USER_ALREADY_EXISTS"
	TextCodeEmptyPassword        = "EMPTY_PASSWORD"
	TextCodePasswordMismatch     = "PASSWORD_MISMATCH"
	TextCodeTokenExpired         = "TOKEN_EXPIRED"
	TextCodeTokenMalformed       = "TOKEN_MALFORMED"
	TextCodeTokenPurpose         = "TOKEN_PURPOSE_MISMATCH"
	TextCodeInternal             = "INTERNAL_ERROR"
)

// Metadata key carrying the configured minimum on ErrPasswordTooShort.
const MetaPasswordMinimumLength = "minimum_length"

// ErrRegistrationDisabled is returned when the operator toggle is off.
// No side effects have been attempted when this is returned.
var ErrRegistrationDisabled = goerrors.New("registration is disabled", goerrors.CategoryOperation).
	WithCode(http.StatusForbidden).
	WithTextCode(TextCodeRegistrationDisabled)

// ErrUserAlreadyExists is the expected outcome for a duplicate email.
// The transaction has been rolled back; nothing beyond the email
// uniqueness signal is disclosed.
var ErrUserAlreadyExists = goerrors.New("user already exists", goerrors.CategoryConflict).
	WithCode(http.StatusConflict).
	WithTextCode(TextCodeUserAlreadyExists)

// ErrNoEmptyString rejects empty plaintext before hashing
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithCode(http.StatusBadRequest).
	WithTextCode(TextCodeEmptyPassword)

// ErrMismatchedHashAndPassword is returned when a plaintext does not
// verify against a stored digest.
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuth).
	WithCode(http.StatusUnauthorized).
	WithTextCode(TextCodePasswordMismatch)

// ErrTokenExpired is returned by Validate for expired tokens.
var ErrTokenExpired = goerrors.New("verification token is expired", goerrors.CategoryAuth).
	WithCode(http.StatusUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is returned by Validate for unparseable or badly
// signed tokens.
var ErrTokenMalformed = goerrors.New("verification token is malformed", goerrors.CategoryAuth).
	WithCode(http.StatusUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenPurposeMismatch rejects tokens minted for another capability;
// a verification token must never double as a session token.
var ErrTokenPurposeMismatch = goerrors.New("token was not issued for email verification", goerrors.CategoryAuth).
	WithCode(http.StatusUnauthorized).
	WithTextCode(TextCodeTokenPurpose)

// PasswordTooShortError carries the configured minimum so clients can
// display it.
func PasswordTooShortError(minimum int) *goerrors.Error {
	return goerrors.New("password is too short", goerrors.CategoryValidation).
		WithCode(http.StatusBadRequest).
		WithTextCode(TextCodePasswordTooShort).
		WithMetadata(map[string]any{MetaPasswordMinimumLength: minimum})
}

// internalError wraps collaborator failures (hashing, signing, store,
// mail transport) into the opaque vocabulary crossing the entry point.
// Detail stays in the wrapped chain for operator logs.
func internalError(err error, message string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithCode(http.StatusInternalServerError).
		WithTextCode(TextCodeInternal)
}

// IsUserAlreadyExists will check for the duplicate-email outcome
func IsUserAlreadyExists(err error) bool {
	return hasTextCode(err, TextCodeUserAlreadyExists)
}

// IsRegistrationDisabled will check for the feature-gate outcome
func IsRegistrationDisabled(err error) bool {
	return hasTextCode(err, TextCodeRegistrationDisabled)
}

// IsPasswordTooShort will check for the minimum-length outcome
func IsPasswordTooShort(err error) bool {
	return hasTextCode(err, TextCodePasswordTooShort)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}
