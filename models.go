package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted auth record. The same shape backs both the flat JSON
// store and the SQLite store, so every transient field that may be absent is
// a pointer: otp/otp_expiry are both nil or both set, and the same holds for
// session_token/session_expiry.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr" json:"-"`

	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name"`
	Username      string     `bun:"username,notnull,unique" json:"username"`
	Email         string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"password_hash"`
	IsVerified    bool       `bun:"is_verified,notnull" json:"is_verified"`
	OTP           *string    `bun:"otp" json:"otp"`
	OTPExpiry     *time.Time `bun:"otp_expiry" json:"otp_expiry"`
	SessionToken  *string    `bun:"session_token" json:"session_token"`
	SessionExpiry *time.Time `bun:"session_expiry" json:"session_expiry"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasPendingOTP reports whether a one-time code is currently stored. It does
// not check expiry; expiry is enforced lazily by the verify operations.
func (u *User) HasPendingOTP() bool {
	return u.OTP != nil && u.OTPExpiry != nil
}

// HasSession reports whether a session token is currently stored, expired or
// not.
func (u *User) HasSession() bool {
	return u.SessionToken != nil && u.SessionExpiry != nil
}

// SetOTP stores a fresh one-time code, overwriting any pending one. A record
// never holds more than one pending code.
func (u *User) SetOTP(code string, expiry time.Time) {
	u.OTP = &code
	u.OTPExpiry = &expiry
}

// ClearOTP removes the pending one-time code and its expiry together.
func (u *User) ClearOTP() {
	u.OTP = nil
	u.OTPExpiry = nil
}

// SetSession stores a fresh session token, overwriting any active one. A
// record never holds more than one session.
func (u *User) SetSession(token string, expiry time.Time) {
	u.SessionToken = &token
	u.SessionExpiry = &expiry
}

// ClearSession removes the session token and its expiry together.
func (u *User) ClearSession() {
	u.SessionToken = nil
	u.SessionExpiry = nil
}

// SessionActive reports whether the stored session token is usable at the
// given instant. Comparison is strict: at now == expiry the session is still
// valid.
func (u *User) SessionActive(now time.Time) bool {
	return u.HasSession() && !now.After(*u.SessionExpiry)
}
