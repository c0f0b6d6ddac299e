package auth_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-otp-auth"
	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		category goerrors.Category
		textCode string
		code     int
	}{
		{
			name:     "user not found",
			err:      auth.ErrUserNotFound,
			category: goerrors.CategoryNotFound,
			textCode: auth.TextCodeUserNotFound,
			code:     goerrors.CodeNotFound,
		},
		{
			name:     "duplicate username answers 400",
			err:      auth.ErrDuplicateUsername,
			category: goerrors.CategoryConflict,
			textCode: auth.TextCodeUsernameTaken,
			code:     goerrors.CodeBadRequest,
		},
		{
			name:     "duplicate email answers 400",
			err:      auth.ErrDuplicateEmail,
			category: goerrors.CategoryConflict,
			textCode: auth.TextCodeEmailTaken,
			code:     goerrors.CodeBadRequest,
		},
		{
			name:     "invalid password",
			err:      auth.ErrInvalidPassword,
			category: goerrors.CategoryAuth,
			textCode: auth.TextCodeInvalidCreds,
			code:     goerrors.CodeBadRequest,
		},
		{
			name:     "invalid OTP",
			err:      auth.ErrInvalidOTP,
			category: goerrors.CategoryAuth,
			textCode: auth.TextCodeInvalidOTP,
			code:     goerrors.CodeBadRequest,
		},
		{
			name:     "expired OTP",
			err:      auth.ErrOTPExpired,
			category: goerrors.CategoryAuth,
			textCode: auth.TextCodeOTPExpired,
			code:     goerrors.CodeBadRequest,
		},
		{
			name:     "already verified",
			err:      auth.ErrAlreadyVerified,
			category: goerrors.CategoryConflict,
			textCode: auth.TextCodeAlreadyVerified,
			code:     goerrors.CodeBadRequest,
		},
		{
			name:     "invalid session answers 401",
			err:      auth.ErrInvalidSession,
			category: goerrors.CategoryAuth,
			textCode: auth.TextCodeInvalidSession,
			code:     goerrors.CodeUnauthorized,
		},
		{
			name:     "invalid transition",
			err:      auth.ErrInvalidTransition,
			category: goerrors.CategoryValidation,
			textCode: auth.TextCodeInvalidTransition,
			code:     goerrors.CodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestErrorsUnwrapThroughWrapping(t *testing.T) {
	wrapped := goerrors.Wrap(auth.ErrInvalidSession, goerrors.CategoryAuth, "validating session")

	var rich *goerrors.Error
	assert.True(t, errors.As(wrapped, &rich))
	assert.Equal(t, goerrors.CategoryAuth, rich.Category)
}

func TestSessionFailuresAreIndistinguishable(t *testing.T) {
	// Every session failure mode surfaces the same error so callers cannot
	// probe which field rejected the token.
	assert.Equal(t, auth.ErrInvalidSession.TextCode, auth.TextCodeInvalidSession)
	assert.Equal(t, "session expired or invalid", auth.ErrInvalidSession.Message)
}
