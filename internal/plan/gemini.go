package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

const promptTemplate = `Eres el servicio de integración vecinal del Ayuntamiento de Torrejón de Ardoz.
Un nuevo vecino se ha registrado en el censo.
Nombre: %s
Dirección (portal y piso): %s
Propón un plan de bienvenida breve de 3 a 5 pasos concretos para integrarle en el barrio.
Responde solo con un array JSON de cadenas, una por paso.`

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini generates welcome plans with Google's Gemini API.
type Gemini struct {
	models contentGenerator
	model  string
}

// NewGemini creates a Gemini plan generator.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{models: client.Models, model: model}, nil
}

// GenerateWelcomePlan asks the model for an ordered list of onboarding steps.
func (g *Gemini) GenerateWelcomePlan(ctx context.Context, name, address string) ([]string, error) {
	prompt := fmt.Sprintf(promptTemplate, strings.TrimSpace(name), strings.TrimSpace(address))

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	})
	if err != nil {
		return nil, &GenerationError{Provider: "gemini", Err: err}
	}
	if resp == nil {
		return nil, &GenerationError{Provider: "gemini", Err: errors.New("empty response")}
	}

	steps, err := parseSteps(resp.Text())
	if err != nil {
		return nil, &GenerationError{Provider: "gemini", Err: err}
	}
	return steps, nil
}

// Name returns the generator name.
func (g *Gemini) Name() string {
	return fmt.Sprintf("genai:%s", g.model)
}

// parseSteps accepts a JSON array of strings, tolerating a markdown fence,
// and falls back to one step per non-empty line.
func parseSteps(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("no steps returned")
	}

	var raw []string
	bullets := false
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		raw = strings.Split(text, "\n")
		bullets = true
	}

	steps := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if bullets {
			s = strings.TrimSpace(strings.TrimLeft(s, "-*•0123456789.)"))
		}
		if s != "" {
			steps = append(steps, s)
		}
	}
	if len(steps) == 0 {
		return nil, errors.New("no steps returned")
	}
	return steps, nil
}
