package session

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LocalAuthenticator accepts any well-formed name, optionally gated by a shared passcode.
type LocalAuthenticator struct {
	passcode string
	clock    Clock
}

// NewLocalAuthenticator creates an authenticator. An empty passcode disables the check.
func NewLocalAuthenticator(passcode string, clock Clock) *LocalAuthenticator {
	if clock == nil {
		clock = systemClock{}
	}
	return &LocalAuthenticator{passcode: passcode, clock: clock}
}

// Login validates the credentials and returns a fresh session.
func (a *LocalAuthenticator) Login(_ context.Context, creds Credentials) (*UserSession, error) {
	creds.Name = strings.TrimSpace(creds.Name)
	if err := validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if a.passcode != "" && subtle.ConstantTimeCompare([]byte(a.passcode), []byte(creds.Passcode)) != 1 {
		return nil, fmt.Errorf("%w: wrong passcode", ErrAuthFailed)
	}
	return &UserSession{Name: creds.Name, JoinedAt: a.clock.Now().UTC()}, nil
}
