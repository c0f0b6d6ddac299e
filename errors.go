package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeUserNotFound identifies lookups that matched no record.
	TextCodeUserNotFound = "USER_NOT_FOUND"
	// TextCodeUsernameTaken identifies registration against an existing username.
	TextCodeUsernameTaken = "USERNAME_TAKEN"
	// TextCodeEmailTaken identifies registration against an existing email.
	TextCodeEmailTaken = "EMAIL_TAKEN"
	// TextCodeInvalidCreds identifies password mismatches.
	TextCodeInvalidCreds = "INVALID_CREDENTIALS"
	// TextCodeInvalidOTP identifies one-time code mismatches, including the
	// case where no code is pending at all.
	TextCodeInvalidOTP = "INVALID_OTP"
	// TextCodeOTPExpired identifies a correct but stale one-time code.
	TextCodeOTPExpired = "OTP_EXPIRED"
	// TextCodeAlreadyVerified identifies resend attempts for verified accounts.
	TextCodeAlreadyVerified = "ALREADY_VERIFIED"
	// TextCodeInvalidSession identifies missing, mismatched, or expired sessions.
	TextCodeInvalidSession = "SESSION_INVALID"
	// TextCodeInvalidTransition identifies a record mutation that would break
	// the auth lifecycle (e.g. un-verifying a verified account).
	TextCodeInvalidTransition = "INVALID_AUTH_TRANSITION"
)

// ErrUserNotFound is returned when no record matches the identifying field.
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrDuplicateUsername is returned when registering an existing username.
// The original service answers 400 here, not 409, and clients depend on it.
var ErrDuplicateUsername = goerrors.New("username already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(goerrors.CodeBadRequest)

// ErrDuplicateEmail is returned when registering an existing email. Email is
// a unique key: record IDs derive from it and every lookup resolves by it, so
// two records sharing one email would shadow each other.
var ErrDuplicateEmail = goerrors.New("email already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidPassword is returned on login password mismatch.
var ErrInvalidPassword = goerrors.New("invalid password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidOTP is returned when the supplied code does not match the stored
// one. A record with no pending code compares as invalid, never as verified.
var ErrInvalidOTP = goerrors.New("invalid OTP", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidOTP).
	WithCode(goerrors.CodeBadRequest)

// ErrOTPExpired is returned when the supplied code matched but its expiry
// instant has passed.
var ErrOTPExpired = goerrors.New("OTP expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeOTPExpired).
	WithCode(goerrors.CodeBadRequest)

// ErrAlreadyVerified is returned when resending a registration code to an
// account that already verified.
var ErrAlreadyVerified = goerrors.New("user already verified", goerrors.CategoryConflict).
	WithTextCode(TextCodeAlreadyVerified).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidSession is the single answer for every session failure mode: no
// token stored, token mismatch, missing expiry, or expiry in the past. The
// modes stay indistinguishable to callers so tokens cannot be probed.
var ErrInvalidSession = goerrors.New("session expired or invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidSession).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidTransition is returned when a requested record change is not
// allowed by the auth lifecycle.
var ErrInvalidTransition = goerrors.New("invalid auth state transition", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

func wrapInternal(err error, msg string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg).
		WithCode(goerrors.CodeInternal)
}
