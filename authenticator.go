package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// OTP and session lifetimes. Registration flows get the long window, resend
// is a deliberately faster-expiring reissue, and login uses the middle one
// for both the code and the session it leads to.
const (
	RegistrationOTPTTL     = 20 * time.Minute
	RegistrationSessionTTL = 20 * time.Minute
	ResendOTPTTL           = 5 * time.Minute
	LoginOTPTTL            = 10 * time.Minute
	LoginSessionTTL        = 10 * time.Minute
)

// RegisterUserMessage carries the registration payload into the core.
type RegisterUserMessage struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Auther executes the authentication state machine. Every operation follows
// the same shape: load the full collection, locate the target record,
// validate preconditions, mutate, persist the full collection, and trigger
// one notification on success. A per-instance lock serializes the
// load-mutate-save critical section so concurrent operations cannot drop
// each other's writes; session validation only takes the read side.
type Auther struct {
	store    Store
	notifier Notifier
	logger   Logger
	now      func() time.Time
	otp      func() (string, error)
	token    func() (string, error)
	mu       sync.RWMutex
}

// AutherOption customizes an Auther.
type AutherOption func(*Auther)

// WithLogger overrides the default logger.
func WithLogger(logger Logger) AutherOption {
	return func(a *Auther) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) AutherOption {
	return func(a *Auther) {
		if clock != nil {
			a.now = clock
		}
	}
}

// WithOTPGenerator overrides the one-time code source.
func WithOTPGenerator(gen func() (string, error)) AutherOption {
	return func(a *Auther) {
		if gen != nil {
			a.otp = gen
		}
	}
}

// WithTokenGenerator overrides the session token source.
func WithTokenGenerator(gen func() (string, error)) AutherOption {
	return func(a *Auther) {
		if gen != nil {
			a.token = gen
		}
	}
}

// NewAuther returns a new authenticator over the given store and notifier.
func NewAuther(store Store, notifier Notifier, opts ...AutherOption) *Auther {
	a := &Auther{
		store:    store,
		notifier: notifier,
		logger:   defLogger{},
		now:      time.Now,
		otp:      GenerateOTP,
		token:    GenerateSessionToken,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a
}

// Register creates an unverified record, issues a registration code, and
// mails it. It returns acknowledgement only; no session exists yet.
func (a *Auther) Register(ctx context.Context, msg RegisterUserMessage) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.load(ctx)
	if err != nil {
		return err
	}

	for _, u := range users {
		if u.Username == msg.Username {
			a.logger.Warn("registration failed: username already exists", "username", msg.Username)
			return ErrDuplicateUsername
		}
		if u.Email == msg.Email {
			a.logger.Warn("registration failed: email already exists", "email", msg.Email)
			return ErrDuplicateEmail
		}
	}

	hash, err := HashPassword(msg.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return wrapInternal(err, "failed to hash password")
	}

	code, err := a.otp()
	if err != nil {
		return err
	}

	now := a.now()
	user := &User{
		ID:           a.recordID(msg.Email),
		Name:         msg.Name,
		Username:     msg.Username,
		Email:        msg.Email,
		PasswordHash: hash,
		IsVerified:   false,
	}
	user.SetOTP(code, now.Add(RegistrationOTPTTL))

	if err := a.save(ctx, append(users, user)); err != nil {
		return err
	}

	a.notify(ctx, msg.Email, "Account Verification OTP",
		fmt.Sprintf("Your OTP code is: %s, Code expires in 20 minutes.", code))
	a.logger.Info("user registered and OTP sent", "username", msg.Username)

	return nil
}

// VerifyRegistrationOTP checks the registration code for the given email.
// On success the record becomes verified for good, the code is cleared, and
// a fresh session is issued.
func (a *Auther) VerifyRegistrationOTP(ctx context.Context, email, code string) (*SessionObject, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	user := findByEmail(users, email)
	if user == nil {
		a.logger.Warn("OTP verification failed: user not found", "email", email)
		return nil, ErrUserNotFound
	}

	now := a.now()
	if err := a.checkOTP(user, code, now, email); err != nil {
		return nil, err
	}

	token, err := a.token()
	if err != nil {
		return nil, err
	}

	session := &SessionObject{Token: token, Expiry: now.Add(RegistrationSessionTTL)}

	err = guardTransition(user, now, func(u *User) {
		u.IsVerified = true
		u.ClearOTP()
		u.SetSession(session.Token, session.Expiry)
	})
	if err != nil {
		return nil, err
	}

	if err := a.save(ctx, users); err != nil {
		return nil, err
	}

	a.notify(ctx, user.Email, "Registration Notification",
		"Your account was registered successfully.")
	a.logger.Info("user verified, session issued", "email", email, "session_expiry", session.ExpiryString())

	return session, nil
}

// ResendOTP reissues a registration code with the short resend window. Only
// unverified accounts qualify.
func (a *Auther) ResendOTP(ctx context.Context, email string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.load(ctx)
	if err != nil {
		return err
	}

	user := findByEmail(users, email)
	if user == nil {
		a.logger.Warn("resend OTP failed: user not found", "email", email)
		return ErrUserNotFound
	}

	if user.IsVerified {
		a.logger.Warn("resend OTP failed: user already verified", "username", user.Username)
		return ErrAlreadyVerified
	}

	code, err := a.otp()
	if err != nil {
		return err
	}

	now := a.now()
	if err := guardTransition(user, now, func(u *User) {
		u.SetOTP(code, now.Add(ResendOTPTTL))
	}); err != nil {
		return err
	}

	if err := a.save(ctx, users); err != nil {
		return err
	}

	a.notify(ctx, user.Email, "Resend OTP", fmt.Sprintf("Your OTP code is: %s", code))
	a.logger.Info("OTP resent", "username", user.Username, "email", user.Email)

	return nil
}

// Login checks the password and issues a login code. It does not require a
// verified account and does not touch any existing session; any pending code
// is overwritten. No session is returned until the code is verified.
func (a *Auther) Login(ctx context.Context, email, password string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.load(ctx)
	if err != nil {
		return err
	}

	user := findByEmail(users, email)
	if user == nil {
		a.logger.Warn("login failed: user not found", "email", email)
		return ErrUserNotFound
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		a.logger.Warn("login failed: invalid password", "email", email)
		return ErrInvalidPassword
	}

	code, err := a.otp()
	if err != nil {
		return err
	}

	now := a.now()
	if err := guardTransition(user, now, func(u *User) {
		u.SetOTP(code, now.Add(LoginOTPTTL))
	}); err != nil {
		return err
	}

	if err := a.save(ctx, users); err != nil {
		return err
	}

	a.notify(ctx, user.Email, "Login Verification OTP",
		fmt.Sprintf("Your login OTP code is: %s, code expires in 10 minutes.", code))
	a.logger.Info("login OTP sent", "email", email)

	return nil
}

// VerifyLoginOTP checks the login code for the given email. On success the
// code is cleared and a fresh session is issued.
func (a *Auther) VerifyLoginOTP(ctx context.Context, email, code string) (*SessionObject, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	user := findByEmail(users, email)
	if user == nil {
		a.logger.Warn("login OTP verification failed: user not found", "email", email)
		return nil, ErrUserNotFound
	}

	now := a.now()
	if err := a.checkOTP(user, code, now, email); err != nil {
		return nil, err
	}

	token, err := a.token()
	if err != nil {
		return nil, err
	}

	session := &SessionObject{Token: token, Expiry: now.Add(LoginSessionTTL)}

	err = guardTransition(user, now, func(u *User) {
		u.ClearOTP()
		u.SetSession(session.Token, session.Expiry)
	})
	if err != nil {
		return nil, err
	}

	if err := a.save(ctx, users); err != nil {
		return nil, err
	}

	a.notify(ctx, user.Email, "Login Notification", "You have successfully logged in.")
	a.logger.Info("user logged in, session issued", "email", email)

	return session, nil
}

// Logout clears the session and any pending code unconditionally. It is
// idempotent: a second call on an already-clear record still succeeds, just
// without a notification.
func (a *Auther) Logout(ctx context.Context, email string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.load(ctx)
	if err != nil {
		return err
	}

	user := findByEmail(users, email)
	if user == nil {
		a.logger.Warn("logout failed: user not found", "email", email)
		return ErrUserNotFound
	}

	cleared := user.OTP != nil || user.OTPExpiry != nil ||
		user.SessionToken != nil || user.SessionExpiry != nil

	if err := guardTransition(user, a.now(), func(u *User) {
		u.ClearOTP()
		u.ClearSession()
	}); err != nil {
		return err
	}

	if err := a.save(ctx, users); err != nil {
		return err
	}

	if cleared {
		a.notify(ctx, user.Email, "Logout notification", "You have been logged out successfully.")
		a.logger.Info("user logged out, tokens cleared", "email", email)
	} else {
		a.logger.Info("logout with nothing to clear", "email", email)
	}

	return nil
}

// ValidateSession checks an opaque bearer token for the given username and
// returns the record when it is current. It never extends the expiry; there
// is no sliding window. Expiry is lazy: nothing is mutated here even when
// the stored session turns out to be stale.
func (a *Auther) ValidateSession(ctx context.Context, username, token string) (*User, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	users, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	var user *User
	for _, u := range users {
		if u.Username == username {
			user = u
			break
		}
	}
	if user == nil {
		a.logger.Warn("session validation failed: username not found", "username", username)
		return nil, ErrUserNotFound
	}

	switch {
	case user.SessionToken == nil:
		a.logger.Warn("session validation failed: no session token", "username", username)
		return nil, ErrInvalidSession
	case *user.SessionToken != token:
		a.logger.Warn("session validation failed: invalid session token", "username", username)
		return nil, ErrInvalidSession
	case user.SessionExpiry == nil, a.now().After(*user.SessionExpiry):
		a.logger.Warn("session validation failed: session expired", "username", username)
		return nil, ErrInvalidSession
	}

	return user, nil
}

// checkOTP applies the shared verify rules: a missing or mismatched code is
// invalid (a record with no pending code never short-circuits to verified),
// and a matching code past its expiry instant is expired. Comparison is
// strict, so a code presented exactly at its expiry still passes.
func (a *Auther) checkOTP(user *User, code string, now time.Time, email string) error {
	if user.OTP == nil || *user.OTP != code {
		a.logger.Warn("OTP verification failed: invalid OTP", "email", email)
		return ErrInvalidOTP
	}
	if user.OTPExpiry == nil || now.After(*user.OTPExpiry) {
		a.logger.Warn("OTP verification failed: OTP expired", "email", email)
		return ErrOTPExpired
	}
	return nil
}

func (a *Auther) load(ctx context.Context) ([]*User, error) {
	users, err := a.store.Load(ctx)
	if err != nil {
		return nil, wrapInternal(err, "failed to load user records")
	}
	return users, nil
}

func (a *Auther) save(ctx context.Context, users []*User) error {
	if err := a.store.SaveAll(ctx, users); err != nil {
		return wrapInternal(err, "failed to persist user records")
	}
	return nil
}

// notify is fire-and-forget: the state change is already persisted, so a
// delivery failure is logged and swallowed.
func (a *Auther) notify(ctx context.Context, to, subject, body string) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.Send(ctx, to, subject, body); err != nil {
		a.logger.Error("notification send failed", "to", to, "subject", subject, "error", err)
	}
}

// recordID derives a stable UUID from the registration email, falling back
// to a random one if derivation fails.
func (a *Auther) recordID(email string) uuid.UUID {
	if id, err := hashid.NewUUID(email); err == nil {
		return id
	}
	return uuid.New()
}

func findByEmail(users []*User, email string) *User {
	for _, u := range users {
		if u.Email == email {
			return u
		}
	}
	return nil
}
