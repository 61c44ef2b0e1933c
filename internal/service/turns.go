package service

import (
	"sage-llm/internal/domain"
	"sage-llm/internal/llm"
)

// NormalizeTurns convierte el historial en la secuencia de turnos que
// espera el colaborador remoto.
//
// Regla canónica (documentada en DESIGN.md): los alias de rol se colapsan
// a user/assistant; de cada racha de turnos consecutivos del mismo rol se
// conserva solo el primero; y el turno final siempre es un turno user con
// exactamente el input actual, añadiéndolo si el historial no termina ya
// en ese turno.
func NormalizeTurns(history []domain.Message, input string) []llm.Turn {
	turns := make([]llm.Turn, 0, len(history)+1)

	var lastRole domain.Role
	haveLast := false
	for _, msg := range history {
		role := domain.NormalizeRole(string(msg.Role))
		if haveLast && role == lastRole {
			continue
		}
		turns = append(turns, llm.Turn{Role: role, Text: msg.Content})
		lastRole = role
		haveLast = true
	}

	if n := len(turns); n > 0 {
		last := turns[n-1]
		if last.Role == domain.RoleUser && last.Text == input {
			return turns
		}
		// Si la racha final era user pero con otro contenido, el turno
		// user nuevo reemplaza el cierre para mantener la alternancia.
		if last.Role == domain.RoleUser {
			turns[n-1] = llm.Turn{Role: domain.RoleUser, Text: input}
			return turns
		}
	}

	return append(turns, llm.Turn{Role: domain.RoleUser, Text: input})
}
