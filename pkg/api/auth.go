package api

import (
	"context"
	"fmt"
	"strings"
)

// TokenKey is the persisted key holding the bearer token.
const TokenKey = "token"

// Auth supplies the bearer token attached to authenticated calls.
// Implementations return ErrUnauthenticated when no token is available.
type Auth interface {
	Token(ctx context.Context) (string, error)
}

// AuthFunc adapts a function into an Auth.
type AuthFunc func(ctx context.Context) (string, error)

// Token calls the underlying function.
func (fn AuthFunc) Token(ctx context.Context) (string, error) {
	return fn(ctx)
}

// StaticToken is a fixed token, useful for tests and one-shot CLI calls.
type StaticToken string

// Token returns the token or ErrUnauthenticated when blank.
func (t StaticToken) Token(context.Context) (string, error) {
	token := strings.TrimSpace(string(t))
	if token == "" {
		return "", ErrUnauthenticated
	}
	return token, nil
}

// KeyValue is the read side of a persisted key/value store.
type KeyValue interface {
	Get(key string) (string, bool, error)
}

// StoreAuth reads the token from a key/value store on every call, so a login
// performed elsewhere is picked up without rebuilding clients.
type StoreAuth struct {
	Store KeyValue
	Key   string
}

// FromStore builds a StoreAuth reading TokenKey.
func FromStore(store KeyValue) StoreAuth {
	return StoreAuth{Store: store, Key: TokenKey}
}

// Token implements Auth.
func (a StoreAuth) Token(context.Context) (string, error) {
	if a.Store == nil {
		return "", ErrUnauthenticated
	}
	key := a.Key
	if key == "" {
		key = TokenKey
	}
	value, ok, err := a.Store.Get(key)
	if err != nil {
		return "", fmt.Errorf("%w: read token: %v", ErrUnauthenticated, err)
	}
	if !ok || strings.TrimSpace(value) == "" {
		return "", ErrUnauthenticated
	}
	return strings.TrimSpace(value), nil
}
