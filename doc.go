// Package registration provides self-service account provisioning: a
// single transaction creates a user, their personal organization, and
// an editor membership, then issues a signed verification token and
// dispatches the verification email before anything commits.
//
// Provisioning flow:
//   - RegisterUserHandler.Execute runs the whole flow. Duplicate emails
//     are resolved with an atomic insert-if-absent, so two concurrent
//     attempts for the same address settle to one created account and
//     one ErrUserAlreadyExists without either ever observing partial
//     state.
//   - The transaction commits only after the mail transport accepts
//     the verification message. A stored account therefore implies a
//     sent email; a refused message rolls everything back.
//
// Verification tokens:
//   - TokenService mints HS256 tokens carrying the user id and the
//     email-verification purpose. Validate rejects expired, malformed,
//     and wrong-purpose tokens so a verification link can never be
//     replayed as a session credential.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter describing completed
//     and duplicate registrations. Sinks run best-effort (errors are
//     logged) so you can forward to a database or queue without
//     blocking provisioning.
package registration
