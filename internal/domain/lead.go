package domain

import "time"

// Lead es un contacto entrante capturado por el UI. DreamMap,
// Classification y Score los rellena el triage estructurado.
type Lead struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Message        string    `json:"message"`
	DreamMap       string    `json:"dream_map,omitempty"`
	Classification string    `json:"classification,omitempty"`
	Score          int       `json:"score,omitempty"`
	Processing     bool      `json:"processing"`
	CreatedAt      time.Time `json:"created_at"`
}
