package session

import (
	"context"
	"time"
)

// Storage is durable key-value persistence for the serialized session.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Authenticator turns credentials into a session.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (*UserSession, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
