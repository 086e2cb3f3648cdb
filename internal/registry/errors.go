package registry

import (
	"errors"
	"fmt"
)

// Action names a user-initiated operation.
type Action string

const (
	ActionLoad   Action = "load"
	ActionSave   Action = "save"
	ActionStatus Action = "status"
	ActionDelete Action = "delete"
)

// Localized messages shown in the error banner, one per action.
const (
	MsgLoadFailed   = "Error al cargar el censo vecinal de Torrejón."
	MsgSaveFailed   = "Error al procesar los datos del vecino."
	MsgStatusFailed = "Error al actualizar estado."
	MsgDeleteFailed = "Error al dar de baja al vecino."
)

var messages = map[Action]string{
	ActionLoad:   MsgLoadFailed,
	ActionSave:   MsgSaveFailed,
	ActionStatus: MsgStatusFailed,
	ActionDelete: MsgDeleteFailed,
}

// ErrInvalidViewMode indicates a mode other than board or list.
var ErrInvalidViewMode = errors.New("invalid view mode")

// ActionError is returned by every failed controller action. Message is
// the banner text; Err is the underlying collaborator failure.
type ActionError struct {
	Action  Action
	Message string
	Err     error
}

func newActionError(action Action, err error) *ActionError {
	return &ActionError{Action: action, Message: messages[action], Err: err}
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
