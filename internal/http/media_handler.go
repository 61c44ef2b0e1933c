package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sage-llm/internal/service"
)

// MediaHandler expone la generación de imagen y video.
type MediaHandler struct {
	logger *zap.Logger
	media  *service.MediaService
}

func NewMediaHandler(logger *zap.Logger, media *service.MediaService) *MediaHandler {
	return &MediaHandler{logger: logger, media: media}
}

type mediaRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// GenerateImage maneja POST /media/image.
func (h *MediaHandler) GenerateImage(c *gin.Context) {
	var req mediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	data, err := h.media.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, service.ErrMediaUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media generation unavailable"})
			return
		}
		h.logger.Error("generate image failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not generate image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_base64": data})
}

// GenerateVideo maneja POST /media/video. La respuesta es síncrona: el
// polling acotado del servicio garantiza que la llamada termina.
func (h *MediaHandler) GenerateVideo(c *gin.Context) {
	var req mediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	uri, err := h.media.GenerateVideo(c.Request.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, service.ErrMediaUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media generation unavailable"})
			return
		}
		if errors.Is(err, service.ErrVideoPollExceeded) {
			h.logger.Warn("video polling exceeded ceiling", zap.Error(err))
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "video generation timed out"})
			return
		}
		h.logger.Error("generate video failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not generate video"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"video_uri": uri})
}
