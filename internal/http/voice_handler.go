package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sage-llm/internal/voice"
)

// VoiceHandler puentea un WebSocket del cliente con la sesión duplex del
// colaborador de audio en vivo. Sin credencial no hay buffer local para
// voz: la superficie recibe 503 antes del upgrade.
type VoiceHandler struct {
	logger   *zap.Logger
	endpoint string
	apiKey   string
	model    string
	upgrader websocket.Upgrader
}

func NewVoiceHandler(logger *zap.Logger, endpoint, apiKey, model string) *VoiceHandler {
	return &VoiceHandler{
		logger:   logger,
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

type voiceClientMessage struct {
	Audio string `json:"audio"`
}

type voiceServerMessage struct {
	Kind  string `json:"kind"`
	Audio string `json:"audio,omitempty"`
}

// Stream maneja GET /voice.
func (h *VoiceHandler) Stream(c *gin.Context) {
	if strings.TrimSpace(h.apiKey) == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "voice collaborator unavailable"})
		return
	}

	clientConn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("voice upgrade failed", zap.Error(err))
		return
	}
	defer clientConn.Close()

	session, err := voice.Dial(c.Request.Context(), h.endpoint, h.apiKey, h.model, h.logger)
	if err != nil {
		h.logger.Warn("voice session dial failed", zap.Error(err))
		_ = clientConn.WriteJSON(voiceServerMessage{Kind: "closed"})
		return
	}
	defer session.Close()

	// Entrante del colaborador hacia el cliente.
	go func() {
		for event := range session.Events() {
			msg := voiceServerMessage{Kind: string(event.Kind)}
			if event.Kind == voice.EventAudio {
				msg.Audio = voice.EncodeChunk(event.Audio)
			}
			if err := clientConn.WriteJSON(msg); err != nil {
				h.logger.Warn("voice client write failed", zap.Error(err))
				return
			}
			if event.Kind == voice.EventClosed {
				return
			}
		}
	}()

	// Saliente del cliente hacia el colaborador.
	for {
		_, payload, err := clientConn.ReadMessage()
		if err != nil {
			return
		}
		var msg voiceClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil || msg.Audio == "" {
			continue
		}
		pcm, err := voice.DecodeChunk(msg.Audio)
		if err != nil {
			h.logger.Warn("voice client chunk invalid", zap.Error(err))
			continue
		}
		if err := session.SendAudio(pcm); err != nil {
			h.logger.Warn("voice upstream write failed", zap.Error(err))
			return
		}
	}
}
