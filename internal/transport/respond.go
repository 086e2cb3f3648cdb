package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/torrejon/vecinored/internal/domain/neighbor"
	"github.com/torrejon/vecinored/internal/registry"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeBody reads a JSON body into dst and validates its struct tags.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// writeActionError maps a controller failure to a response carrying the
// localized banner message.
func writeActionError(w http.ResponseWriter, err error) {
	message := err.Error()
	var aerr *registry.ActionError
	if errors.As(err, &aerr) {
		message = aerr.Message
	}

	switch {
	case errors.Is(err, neighbor.ErrNeighborNotFound):
		writeError(w, http.StatusNotFound, message)
	case errors.Is(err, neighbor.ErrInvalidInput), errors.Is(err, neighbor.ErrInvalidStatus):
		writeError(w, http.StatusUnprocessableEntity, message)
	default:
		writeError(w, http.StatusBadGateway, message)
	}
}
