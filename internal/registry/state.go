package registry

import "github.com/torrejon/vecinored/internal/domain/neighbor"

// ViewMode selects how the collection is presented.
type ViewMode string

const (
	ModeBoard ViewMode = "board"
	ModeList  ViewMode = "list"
)

// ParseViewMode returns the mode named s.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ModeBoard, ModeList:
		return ViewMode(s), nil
	}
	return "", ErrInvalidViewMode
}

// ViewState is a point-in-time copy of everything the UI renders.
type ViewState struct {
	Neighbors     []neighbor.Neighbor `json:"neighbors"`
	Loading       bool                `json:"loading"`
	Error         string              `json:"error,omitempty"`
	FormOpen      bool                `json:"form_open"`
	Editing       *neighbor.Neighbor  `json:"editing,omitempty"`
	Selected      *neighbor.Neighbor  `json:"selected,omitempty"`
	Mode          ViewMode            `json:"mode"`
	LogoutPending bool                `json:"logout_pending"`
}
