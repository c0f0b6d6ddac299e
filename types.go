package auth

import (
	"context"
	"fmt"
)

// Logger is the structured logger contract used across the package. The
// variadic args are key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Store is the durable record collection. The collection is the single
// logical resource: Load returns every record and SaveAll replaces them all.
// Implementations must serialize SaveAll calls so concurrent writers cannot
// drop each other's updates; reads may run concurrently.
type Store interface {
	Load(ctx context.Context) ([]*User, error)
	SaveAll(ctx context.Context, users []*User) error
}

// Notifier delivers out-of-band messages to an address. Delivery is
// fire-and-forget from the caller's perspective: send failures are logged by
// the authenticator and never propagate to the operation outcome.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) { d.print("ERR", msg, args...) }
func (d defLogger) Warn(msg string, args ...any)  { d.print("WRN", msg, args...) }
func (d defLogger) Info(msg string, args ...any)  { d.print("INF", msg, args...) }
func (d defLogger) Debug(msg string, args ...any) { d.print("DBG", msg, args...) }

func (defLogger) print(level, msg string, args ...any) {
	out := fmt.Sprintf("[%s] AUTH %s", level, msg)
	for i := 0; i+1 < len(args); i += 2 {
		out += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	fmt.Println(out)
}
