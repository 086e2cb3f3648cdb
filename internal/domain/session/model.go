package session

import "time"

// StorageKey is the fixed key the logged-in user is persisted under.
const StorageKey = "vecinored_user"

// DefaultLogoutWindow is how long a first logout request stays armed.
const DefaultLogoutWindow = 3 * time.Second

// UserSession is the locally authenticated user.
type UserSession struct {
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

// Credentials are submitted by the login form.
type Credentials struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Passcode string `json:"passcode,omitempty"`
}

// LogoutState is the outcome of a logout request.
type LogoutState string

const (
	// LogoutArmed means the request opened the confirmation window.
	LogoutArmed LogoutState = "armed"
	// LoggedOut means the request confirmed an armed logout.
	LoggedOut LogoutState = "logged_out"
)
