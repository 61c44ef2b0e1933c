package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sage-llm/internal/domain"
	"sage-llm/internal/llm"
	"sage-llm/internal/repository"
)

// reviewSchema declara la forma JSON exacta que debe devolver el modelo
// al analizar una reseña.
var reviewSchema = llm.Schema{
	Type: "object",
	Properties: map[string]llm.Schema{
		"sentiment": {Type: "string", Enum: []string{"positive", "neutral", "negative"}},
		"reply":     {Type: "string"},
	},
	Required: []string{"sentiment", "reply"},
}

// leadSchema declara la forma JSON exacta del triage de leads.
var leadSchema = llm.Schema{
	Type: "object",
	Properties: map[string]llm.Schema{
		"dream_map":      {Type: "string"},
		"classification": {Type: "string", Enum: []string{"hot", "warm", "cold"}},
		"score":          {Type: "integer"},
	},
	Required: []string{"dream_map", "classification", "score"},
}

// TriageService pide al colaborador remoto JSON estrictamente conforme a
// schema y fusiona los campos parseados en el registro almacenado por id.
type TriageService struct {
	acquire llm.AcquireFunc
	reviews repository.ReviewRepository
	leads   repository.LeadRepository
	model   string
	logger  *zap.Logger
}

func NewTriageService(
	acquire llm.AcquireFunc,
	reviews repository.ReviewRepository,
	leads repository.LeadRepository,
	model string,
	logger *zap.Logger,
) *TriageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TriageService{
		acquire: acquire,
		reviews: reviews,
		leads:   leads,
		model:   model,
		logger:  logger,
	}
}

// AnalyzeReview analiza la reseña indicada y fusiona sentiment y reply en
// el registro. Si la llamada remota o el parseo fallan, el registro queda
// sin modificar y el marcador de procesamiento se limpia igualmente.
// Solo un id desconocido produce error.
func (s *TriageService) AnalyzeReview(ctx context.Context, id string) (domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return domain.Review{}, fmt.Errorf("get review: %w", err)
	}

	if err := s.reviews.SetProcessing(ctx, id, true); err != nil {
		return domain.Review{}, fmt.Errorf("mark review processing: %w", err)
	}
	defer func() {
		if err := s.reviews.SetProcessing(ctx, id, false); err != nil {
			s.logger.Warn("clear review processing flag failed", zap.Error(err), zap.String("review_id", id))
		}
	}()

	client, ok := s.acquire()
	if !ok {
		s.logger.Warn("collaborator unavailable, review left unmodified", zap.String("review_id", id))
		review.Processing = false
		return review, nil
	}

	prompt := fmt.Sprintf(
		"Analyze this customer review for a travel and wellness brand and draft a short, warm reply in the brand voice.\n\nReview by %s:\n%q",
		review.Author, review.Content,
	)

	var parsed struct {
		Sentiment string `json:"sentiment"`
		Reply     string `json:"reply"`
	}
	if err := client.GenerateJSON(ctx, s.model, prompt, reviewSchema, &parsed); err != nil {
		s.logger.Warn("review analysis failed, record left unmodified", zap.Error(err), zap.String("review_id", id))
		review.Processing = false
		return review, nil
	}

	updated := review
	updated.Sentiment = strings.TrimSpace(parsed.Sentiment)
	updated.SuggestedReply = strings.TrimSpace(parsed.Reply)
	updated.Processing = false
	if err := s.reviews.Replace(ctx, updated); err != nil {
		s.logger.Warn("review replace failed", zap.Error(err), zap.String("review_id", id))
		review.Processing = false
		return review, nil
	}
	return updated, nil
}

// TriageLead clasifica el lead indicado y fusiona dream map, clasificación
// y score. Misma política de fallo que AnalyzeReview.
func (s *TriageService) TriageLead(ctx context.Context, id string) (domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("get lead: %w", err)
	}

	if err := s.leads.SetProcessing(ctx, id, true); err != nil {
		return domain.Lead{}, fmt.Errorf("mark lead processing: %w", err)
	}
	defer func() {
		if err := s.leads.SetProcessing(ctx, id, false); err != nil {
			s.logger.Warn("clear lead processing flag failed", zap.Error(err), zap.String("lead_id", id))
		}
	}()

	client, ok := s.acquire()
	if !ok {
		s.logger.Warn("collaborator unavailable, lead left unmodified", zap.String("lead_id", id))
		lead.Processing = false
		return lead, nil
	}

	prompt := fmt.Sprintf(
		"Triage this inbound lead for a travel and wellness membership. "+
			"dream_map is a one-line read of what the person is really looking for; "+
			"score is 0-100 purchase intent.\n\nLead %s <%s> wrote:\n%q",
		lead.Name, lead.Email, lead.Message,
	)

	var parsed struct {
		DreamMap       string `json:"dream_map"`
		Classification string `json:"classification"`
		Score          int    `json:"score"`
	}
	if err := client.GenerateJSON(ctx, s.model, prompt, leadSchema, &parsed); err != nil {
		s.logger.Warn("lead triage failed, record left unmodified", zap.Error(err), zap.String("lead_id", id))
		lead.Processing = false
		return lead, nil
	}

	updated := lead
	updated.DreamMap = strings.TrimSpace(parsed.DreamMap)
	updated.Classification = strings.TrimSpace(parsed.Classification)
	updated.Score = parsed.Score
	updated.Processing = false
	if err := s.leads.Replace(ctx, updated); err != nil {
		s.logger.Warn("lead replace failed", zap.Error(err), zap.String("lead_id", id))
		lead.Processing = false
		return lead, nil
	}
	return updated, nil
}
