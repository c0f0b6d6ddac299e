package auth

import "time"

// AuthState is the derived lifecycle position of a record. It is not
// persisted; it falls out of the nullable OTP/session pairs and the
// is_verified flag.
type AuthState string

const (
	// StateUnverifiedNoOTP is a registered account with no pending code and
	// no verification yet. Reachable only by logging out mid-registration.
	StateUnverifiedNoOTP AuthState = "unverified_no_otp"
	// StateUnverifiedOTPPending is the post-registration state: a code is out
	// and the account waits for its first verification.
	StateUnverifiedOTPPending AuthState = "unverified_otp_pending"
	// StateVerifiedNoSession is a verified account with nothing transient.
	StateVerifiedNoSession AuthState = "verified_no_session"
	// StateVerifiedOTPPending is a verified account mid-login: a code is out,
	// no session yet.
	StateVerifiedOTPPending AuthState = "verified_otp_pending"
	// StateVerifiedSessionActive is a verified account holding a live session.
	StateVerifiedSessionActive AuthState = "verified_session_active"
)

// stateTransitions is the allowed-transition table. Same-state moves are
// always permitted (overwriting a pending code is a reissue, not a
// transition). Verification is one-way: no verified state reaches an
// unverified one.
var stateTransitions = map[AuthState]map[AuthState]struct{}{
	StateUnverifiedNoOTP: {
		StateUnverifiedOTPPending: {},
	},
	StateUnverifiedOTPPending: {
		StateUnverifiedNoOTP:       {}, // logout clears the pending code
		StateVerifiedSessionActive: {}, // registration verified
	},
	StateVerifiedNoSession: {
		StateVerifiedOTPPending: {}, // login issues a code
	},
	StateVerifiedOTPPending: {
		StateVerifiedNoSession:     {}, // logout clears the pending code
		StateVerifiedSessionActive: {}, // login verified
	},
	StateVerifiedSessionActive: {
		StateVerifiedNoSession:  {}, // logout or lazy expiry
		StateVerifiedOTPPending: {}, // re-login after the session lapsed
	},
}

// StateOf derives the lifecycle state of a record at the given instant. An
// active session dominates a pending code: the original keeps both live when
// a logged-in user starts a new login, and the record only leaves
// session-active once the session expires or is cleared.
func StateOf(u *User, now time.Time) AuthState {
	if u == nil {
		return ""
	}

	if !u.IsVerified {
		if u.HasPendingOTP() {
			return StateUnverifiedOTPPending
		}
		return StateUnverifiedNoOTP
	}

	if u.SessionActive(now) {
		return StateVerifiedSessionActive
	}
	if u.HasPendingOTP() {
		return StateVerifiedOTPPending
	}
	return StateVerifiedNoSession
}

// CanTransition reports whether a record may move between the two states.
// Same-state moves are always allowed.
func CanTransition(from, to AuthState) bool {
	if from == to {
		return true
	}
	allowed, ok := stateTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// guardTransition validates a mutation against the transition table before
// it is persisted. mutate runs against the record in place; if the resulting
// state is unreachable the record is left untouched and ErrInvalidTransition
// is returned.
func guardTransition(u *User, now time.Time, mutate func(*User)) error {
	from := StateOf(u, now)

	copied := *u
	mutate(&copied)

	to := StateOf(&copied, now)
	if !CanTransition(from, to) {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": from,
			"to":   to,
		})
	}

	*u = copied
	return nil
}
