package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still carries the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TurnLock is a ports.TurnLock shared by every API replica.
// Key format: chat:turnlock:<session_id>. The TTL bounds how long a crashed
// holder can block its session and must exceed the model timeout.
type TurnLock struct {
	client *redis.Client
	ttl    time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

func NewTurnLock(client *redis.Client, ttl time.Duration) *TurnLock {
	return &TurnLock{client: client, ttl: ttl, tokens: make(map[string]string)}
}

// Acquire reports whether this caller now holds the session.
func (l *TurnLock) Acquire(ctx context.Context, sessionID string) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key(sessionID), token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("turn lock: %w", err)
	}
	if ok {
		l.mu.Lock()
		l.tokens[sessionID] = token
		l.mu.Unlock()
	}
	return ok, nil
}

// Release gives the session back. A lock that expired and was taken by
// someone else is left alone.
func (l *TurnLock) Release(ctx context.Context, sessionID string) error {
	l.mu.Lock()
	token, ok := l.tokens[sessionID]
	delete(l.tokens, sessionID)
	l.mu.Unlock()
	if !ok {
		return nil
	}
	if err := releaseScript.Run(ctx, l.client, []string{l.key(sessionID)}, token).Err(); err != nil {
		return fmt.Errorf("turn lock release: %w", err)
	}
	return nil
}

func (l *TurnLock) key(sessionID string) string {
	return fmt.Sprintf("chat:turnlock:%s", sessionID)
}
