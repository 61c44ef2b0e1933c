package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"sage-llm/internal/domain"
	"sage-llm/internal/llm"
)

const (
	// Prefijos fijos que etiquetan las respuestas de menor confianza.
	localBufferPrefix     = "[local buffer] "
	linkInterruptedPrefix = "[link interrupted] "

	// degradedResponseText sustituye un texto vacío del colaborador.
	// Nunca se propaga un string vacío como respuesta final.
	degradedResponseText = "The signal came back thin on that one. Give me the question again and I'll take another pass."

	// defaultSourceTitle se usa cuando la API omite el título de una cita.
	defaultSourceTitle = "Vetted Intel"
)

// systemPersona es la identidad fija del asistente en toda llamada en vivo.
const systemPersona = "You are Sage, the travel and wellness concierge for the Health & Travels brand. " +
	"You speak with calm, grounded warmth, like a well-traveled friend who reads the research. " +
	"Your domain is restorative travel: destinations, retreats, itineraries, sleep, movement and recovery on the road. " +
	"When readers ask about joining the community, point them to the Health & Travels dispatch. " +
	"Stay inside your domain; for medical questions, recommend a professional instead of advising."

// ConciergeService orquesta la conversación: normaliza turnos, llama al
// colaborador remoto y degrada al buffer local cuando no hay credencial o
// la llamada falla.
type ConciergeService struct {
	acquire llm.AcquireFunc
	model   string
	logger  *zap.Logger
}

func NewConciergeService(acquire llm.AcquireFunc, model string, logger *zap.Logger) *ConciergeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConciergeService{acquire: acquire, model: model, logger: logger}
}

// Send convierte (historial, input) en una única respuesta del asistente.
// Contrato: nunca devuelve error; toda falla se absorbe en un ChatResult
// válido del buffer local. No muta el historial recibido.
func (s *ConciergeService) Send(ctx context.Context, history []domain.Message, input string) domain.ChatResult {
	client, ok := s.acquire()
	if !ok {
		result := SimulateLocalResponse(input)
		result.Text = localBufferPrefix + result.Text
		return result
	}

	result, err := s.sendRemote(ctx, client, history, input)
	if err != nil {
		s.logger.Warn("remote generate failed, falling back to local buffer", zap.Error(err))
		fallback := SimulateLocalResponse(input)
		fallback.Text = linkInterruptedPrefix + fallback.Text
		return fallback
	}
	return result
}

func (s *ConciergeService) sendRemote(ctx context.Context, client llm.Client, history []domain.Message, input string) (domain.ChatResult, error) {
	turns := NormalizeTurns(history, input)

	res, err := client.GenerateContent(ctx, llm.GenerateRequest{
		Model:             s.model,
		Turns:             turns,
		SystemInstruction: systemPersona,
		EnableSearch:      true,
	})
	if err != nil {
		return domain.ChatResult{}, err
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		text = degradedResponseText
	}

	return domain.ChatResult{
		Text:        text,
		Sources:     sanitizeSources(res.Sources),
		TriggerLead: DetectLeadIntent(input + " " + text),
		IsLocal:     false,
	}, nil
}

// sanitizeSources aplica el invariante de citas: URI no-vacío obligatorio,
// título ausente se sustituye por el placeholder fijo. Conserva el orden
// de la API y no deduplica.
func sanitizeSources(raw []domain.Source) []domain.Source {
	sources := make([]domain.Source, 0, len(raw))
	for _, src := range raw {
		if strings.TrimSpace(src.URI) == "" {
			continue
		}
		if strings.TrimSpace(src.Title) == "" {
			src.Title = defaultSourceTitle
		}
		sources = append(sources, src)
	}
	return sources
}
