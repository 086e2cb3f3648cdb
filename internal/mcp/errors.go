package mcp

import (
	"errors"
	"fmt"

	"github.com/torrejon/vecinored/internal/domain/neighbor"
	"github.com/torrejon/vecinored/internal/registry"
)

// APIError is reported to MCP clients as a tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps controller and domain errors to tool errors. The message
// is the localized banner text when the controller produced one.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	message := err.Error()
	var aerr *registry.ActionError
	if errors.As(err, &aerr) {
		message = aerr.Message
	}

	switch {
	case errors.Is(err, neighbor.ErrNeighborNotFound):
		return &APIError{Code: "NEIGHBOR_NOT_FOUND", Message: message, RecoveryHint: "Call list_neighbors for current IDs"}
	case errors.Is(err, neighbor.ErrInvalidStatus):
		return &APIError{Code: "INVALID_STATUS", Message: message, RecoveryHint: "Use NEW, ACTIVE or AWAY"}
	case errors.Is(err, neighbor.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: message, RecoveryHint: "Name, address and phone are required"}
	case errors.Is(err, registry.ErrInvalidViewMode):
		return &APIError{Code: "INVALID_INPUT", Message: message}
	case aerr != nil:
		return &APIError{Code: "ACTION_FAILED", Message: message, RecoveryHint: "Retry later"}
	default:
		return &APIError{Code: "INTERNAL", Message: message}
	}
}
