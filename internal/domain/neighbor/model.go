package neighbor

import "time"

// Status is the census category of a neighbor.
type Status string

const (
	StatusNew    Status = "NEW"
	StatusActive Status = "ACTIVE"
	StatusAway   Status = "AWAY"
)

// Statuses lists every valid status in board display order.
var Statuses = []Status{StatusNew, StatusActive, StatusAway}

// ParseStatus returns the Status for s or ErrInvalidStatus.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Neighbor is one registered resident
type Neighbor struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	Phone           string    `json:"phone"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	IntegrationPlan []string  `json:"integration_plan,omitempty"`
}

// Fields holds the user-editable part of a neighbor.
type Fields struct {
	Name    string `json:"name" validate:"required,max=120"`
	Address string `json:"address" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"required,max=32"`
}

// Fields returns the editable fields of n.
func (n Neighbor) Fields() Fields {
	return Fields{Name: n.Name, Address: n.Address, Phone: n.Phone}
}

// WithFields returns a copy of n with f applied.
func (n Neighbor) WithFields(f Fields) Neighbor {
	n.Name = f.Name
	n.Address = f.Address
	n.Phone = f.Phone
	if n.IntegrationPlan != nil {
		n.IntegrationPlan = append([]string(nil), n.IntegrationPlan...)
	}
	return n
}

// Draft is the payload for creating a neighbor.
type Draft struct {
	Fields
	IntegrationPlan []string `json:"integration_plan,omitempty"`
}
