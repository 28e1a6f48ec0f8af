package session

import (
	"context"
	"net/http"
)

// Manager is an interface that abstracts the session management
// implementation. *scs.SessionManager satisfies it; tests substitute mocks.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetBool(ctx context.Context, key string) bool
	GetString(ctx context.Context, key string) string
	RenewToken(ctx context.Context) error
	Destroy(ctx context.Context) error
}
