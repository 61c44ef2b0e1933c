package domain

import "time"

// Review es una reseña de cliente en el command center. Sentiment y
// SuggestedReply los rellena el triage estructurado; el registro se
// reemplaza por id, nunca se muta en sitio.
type Review struct {
	ID             string    `json:"id"`
	Author         string    `json:"author"`
	Content        string    `json:"content"`
	Sentiment      string    `json:"sentiment,omitempty"`
	SuggestedReply string    `json:"suggested_reply,omitempty"`
	Processing     bool      `json:"processing"`
	CreatedAt      time.Time `json:"created_at"`
}
