package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sage-llm/internal/domain"
	"sage-llm/internal/email"
	"sage-llm/internal/repository"
	"sage-llm/internal/service"
)

// TriageHandler mantiene dependencias para endpoints de reseñas y leads.
type TriageHandler struct {
	logger      *zap.Logger
	reviews     repository.ReviewRepository
	leads       repository.LeadRepository
	triage      *service.TriageService
	notifier    email.Sender
	leadAlertTo string
}

func NewTriageHandler(
	logger *zap.Logger,
	reviews repository.ReviewRepository,
	leads repository.LeadRepository,
	triage *service.TriageService,
	notifier email.Sender,
	leadAlertTo string,
) *TriageHandler {
	return &TriageHandler{
		logger:      logger,
		reviews:     reviews,
		leads:       leads,
		triage:      triage,
		notifier:    notifier,
		leadAlertTo: leadAlertTo,
	}
}

// CreateReview maneja POST /reviews.
func (h *TriageHandler) CreateReview(c *gin.Context) {
	var req struct {
		Author  string `json:"author" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create review request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	review := domain.Review{
		ID:        uuid.NewString(),
		Author:    req.Author,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.reviews.Create(c.Request.Context(), review); err != nil {
		h.logger.Error("create review failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create review"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// ListReviews maneja GET /reviews.
func (h *TriageHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviews.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list reviews failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// AnalyzeReview maneja POST /reviews/:id/analyze.
func (h *TriageHandler) AnalyzeReview(c *gin.Context) {
	review, err := h.triage.AnalyzeReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		h.logger.Error("analyze review failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not analyze review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

// CreateLead maneja POST /leads. La captura dispara el aviso por correo de
// manera asincrona para no bloquear la respuesta.
func (h *TriageHandler) CreateLead(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create lead request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	lead := domain.Lead{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.leads.Create(c.Request.Context(), lead); err != nil {
		h.logger.Error("create lead failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create lead"})
		return
	}

	if h.notifier != nil && h.leadAlertTo != "" {
		go func(lead domain.Lead) {
			if err := h.notifier.SendLeadAlert(context.Background(), h.leadAlertTo, lead); err != nil {
				h.logger.Warn("lead alert failed", zap.Error(err), zap.String("lead_id", lead.ID))
			}
		}(lead)
	}

	c.JSON(http.StatusCreated, gin.H{"lead": lead, "type": domain.MessageTypeSuccess})
}

// ListLeads maneja GET /leads.
func (h *TriageHandler) ListLeads(c *gin.Context) {
	leads, err := h.leads.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list leads failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list leads"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

// TriageLead maneja POST /leads/:id/triage.
func (h *TriageHandler) TriageLead(c *gin.Context) {
	lead, err := h.triage.TriageLead(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}
		h.logger.Error("triage lead failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not triage lead"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": lead})
}
