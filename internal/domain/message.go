package domain

import (
	"strings"
	"time"
)

// Role identifica al hablante de un turno. Solo existen dos roles lógicos;
// los alias históricos ("model", "ai", "system") se colapsan en el borde.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// NormalizeRole colapsa cualquier alias de rol a user o assistant.
// Todo lo que no es explícitamente user se trata como el hablante no-usuario.
func NormalizeRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleUser)) {
		return RoleUser
	}
	return RoleAssistant
}

// MessageType clasifica un mensaje para el renderizado del UI.
// No participa en lógica de negocio más allá de la presentación.
type MessageType string

const (
	MessageTypeText        MessageType = "text"
	MessageTypeLeadCapture MessageType = "lead-capture"
	MessageTypeSuccess     MessageType = "success"
)

// Source es una cita de grounding devuelta por una llamada con web search.
// Invariante: URI nunca vacío en una lista de sources válida.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Message es un turno conversacional. El historial es append-only y los
// mensajes no se mutan despues de creados.
type Message struct {
	ID        string      `json:"id,omitempty"`
	Role      Role        `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
	Sources   []Source    `json:"sources,omitempty"`
	Type      MessageType `json:"type,omitempty"`
}

// ChatResult es la forma uniforme que devuelve el orquestador, tanto para
// respuestas en vivo como para el buffer local.
type ChatResult struct {
	Text        string   `json:"text"`
	Sources     []Source `json:"sources"`
	TriggerLead bool     `json:"trigger_lead"`
	IsLocal     bool     `json:"is_local"`
}
