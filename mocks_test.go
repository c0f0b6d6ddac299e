package auth_test

import (
	"context"
	"sync"
	"time"

	auth "github.com/goliatone/go-otp-auth"
	"golang.org/x/crypto/bcrypt"
)

// memStore is the in-memory auth.Store used across the suite. Load and
// SaveAll copy record structs so assertions about "store unchanged" cannot
// be fooled by shared pointers.
type memStore struct {
	mu      sync.Mutex
	users   []*auth.User
	loadErr error
	saveErr error
	saves   int
}

func (s *memStore) Load(ctx context.Context) ([]*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadErr != nil {
		return nil, s.loadErr
	}

	out := make([]*auth.User, len(s.users))
	for i, u := range s.users {
		cp := *u
		out[i] = &cp
	}
	return out, nil
}

func (s *memStore) SaveAll(ctx context.Context, users []*auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}

	s.saves++
	s.users = make([]*auth.User, len(users))
	for i, u := range users {
		cp := *u
		s.users[i] = &cp
	}
	return nil
}

// mustFind returns the stored record for an email, or nil.
func (s *memStore) mustFind(email string) *auth.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp
		}
	}
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// memNotifier records outgoing mail; set failWith to exercise the
// fire-and-forget path.
type memNotifier struct {
	mu       sync.Mutex
	sent     []sentMail
	failWith error
}

func (n *memNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.failWith != nil {
		return n.failWith
	}
	n.sent = append(n.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (n *memNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *memNotifier) last() sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return sentMail{}
	}
	return n.sent[len(n.sent)-1]
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func stubGen(value string) func() (string, error) {
	return func() (string, error) { return value, nil }
}

// quickHash seeds fixture passwords at minimum cost so the suite does not
// pay the production bcrypt cost per fixture.
func quickHash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}

func strptr(s string) *string { return &s }

func timeptr(t time.Time) *time.Time { return &t }
