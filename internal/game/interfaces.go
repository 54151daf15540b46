package game

import "context"

type WordSupply interface {
	NextWordBatch(ctx context.Context, n int) ([]string, error)
}

type ContentFilter interface {
	IsOffensive(text string) bool
	Redact(text string) string
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// Notifier delivers a message to connected participants. It must not block on
// slow clients; the service calls it after releasing the room lock.
type Notifier interface {
	Notify(to []string, msg Message)
}
