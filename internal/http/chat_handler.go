package http

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sage-llm/internal/domain"
	"sage-llm/internal/service"
)

// ChatHandler expone el orquestador conversacional. Cada superficie
// visible (widget flotante, página completa) manda su propio surface_id y
// su propio historial; aquí no se retiene estado entre llamadas.
type ChatHandler struct {
	logger    *zap.Logger
	concierge *service.ConciergeService

	// inflight garantiza a lo sumo una llamada pendiente por superficie.
	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

func NewChatHandler(logger *zap.Logger, concierge *service.ConciergeService) *ChatHandler {
	return &ChatHandler{
		logger:    logger,
		concierge: concierge,
		inflight:  make(map[string]struct{}),
	}
}

type chatTurnPayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	SurfaceID string            `json:"surface_id"`
	Message   string            `json:"message" binding:"required"`
	History   []chatTurnPayload `json:"history"`
}

// PostChat maneja POST /chat.
func (h *ChatHandler) PostChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	// Input vacío se rechaza aquí, antes del orquestador.
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
		return
	}

	surface := req.SurfaceID
	if surface == "" {
		surface = "default"
	}
	if !h.tryLock(surface) {
		c.JSON(http.StatusConflict, gin.H{"error": "request already in flight for this surface"})
		return
	}
	defer h.unlock(surface)

	history := make([]domain.Message, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, domain.Message{
			Role:    domain.NormalizeRole(turn.Role),
			Content: turn.Content,
		})
	}

	result := h.concierge.Send(c.Request.Context(), history, req.Message)

	messageType := domain.MessageTypeText
	if result.TriggerLead {
		messageType = domain.MessageTypeLeadCapture
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"type":   messageType,
	})
}

func (h *ChatHandler) tryLock(surface string) bool {
	h.inflightMu.Lock()
	defer h.inflightMu.Unlock()
	if _, busy := h.inflight[surface]; busy {
		return false
	}
	h.inflight[surface] = struct{}{}
	return true
}

func (h *ChatHandler) unlock(surface string) {
	h.inflightMu.Lock()
	defer h.inflightMu.Unlock()
	delete(h.inflight, surface)
}
