package llm

import (
	"context"

	"sage-llm/internal/domain"
)

// Turn es un turno ya normalizado listo para enviarse al colaborador remoto.
type Turn struct {
	Role domain.Role
	Text string
}

// GenerateRequest describe una llamada de chat con persona fija y
// web search opcional.
type GenerateRequest struct {
	Model             string
	Turns             []Turn
	SystemInstruction string
	EnableSearch      bool
}

// GenerateResult es la respuesta cruda del colaborador: texto del primer
// candidato y las citas de grounding en el orden que las devolvió la API.
type GenerateResult struct {
	Text    string
	Sources []domain.Source
}

// Schema declara la forma JSON esperada en extracción estructurada.
// Se serializa tal cual dentro de generationConfig.responseSchema.
type Schema struct {
	Type       string            `json:"type"`
	Properties map[string]Schema `json:"properties,omitempty"`
	Items      *Schema           `json:"items,omitempty"`
	Enum       []string          `json:"enum,omitempty"`
	Required   []string          `json:"required,omitempty"`
}

// VideoOperation es el estado de una generación de video de larga duración.
type VideoOperation struct {
	Name     string
	Done     bool
	VideoURI string
}

// Client define el contrato contra el colaborador de lenguaje remoto.
type Client interface {
	GenerateContent(ctx context.Context, req GenerateRequest) (GenerateResult, error)
	GenerateJSON(ctx context.Context, model, prompt string, schema Schema, out any) error
	GenerateImage(ctx context.Context, model, prompt string) (string, error)
	StartVideo(ctx context.Context, model, prompt string) (string, error)
	PollVideo(ctx context.Context, operationName string) (VideoOperation, error)
}
