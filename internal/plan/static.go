package plan

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Static produces a fixed welcome plan without calling any external service.
type Static struct{}

// NewStatic creates a static generator.
func NewStatic() *Static {
	return &Static{}
}

// GenerateWelcomePlan returns the standard onboarding steps for the neighbor.
func (s *Static) GenerateWelcomePlan(ctx context.Context, name, address string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &GenerationError{Provider: "static", Err: err}
	}
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" {
		return nil, &GenerationError{Provider: "static", Err: errors.New("name is required")}
	}

	steps := []string{
		fmt.Sprintf("Dar la bienvenida a %s con el kit municipal de Torrejón", name),
		"Presentar los servicios del centro cívico más cercano",
	}
	if address != "" {
		steps = append(steps, fmt.Sprintf("Conectar con la comunidad de vecinos de %s", address))
	}
	steps = append(steps, "Invitar a la próxima actividad vecinal del barrio")
	return steps, nil
}
