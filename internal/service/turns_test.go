package service

import (
	"testing"

	"sage-llm/internal/domain"
)

func TestNormalizeTurns_RoleAliases(t *testing.T) {
	history := []domain.Message{
		{Role: "user", Content: "hola"},
		{Role: "model", Content: "respuesta"},
		{Role: "assistant", Content: "otra respuesta"},
		{Role: "system", Content: "nota"},
	}

	turns := NormalizeTurns(history, "nuevo input")

	// model/assistant/system colapsan en una sola racha assistant.
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[0].Role != domain.RoleUser || turns[0].Text != "hola" {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Role != domain.RoleAssistant || turns[1].Text != "respuesta" {
		t.Fatalf("expected first of assistant run kept, got %+v", turns[1])
	}
	if turns[2].Role != domain.RoleUser || turns[2].Text != "nuevo input" {
		t.Fatalf("expected final user turn with input, got %+v", turns[2])
	}
}

func TestNormalizeTurns_CollapsesRunsKeepingFirst(t *testing.T) {
	history := []domain.Message{
		{Role: domain.RoleUser, Content: "primero"},
		{Role: domain.RoleUser, Content: "segundo"},
		{Role: domain.RoleUser, Content: "tercero"},
		{Role: domain.RoleAssistant, Content: "ok"},
	}

	turns := NormalizeTurns(history, "input")

	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[0].Text != "primero" {
		t.Fatalf("expected first of user run kept, got %q", turns[0].Text)
	}
}

func TestNormalizeTurns_FinalTurnIsAlwaysUserInput(t *testing.T) {
	t.Run("historial vacío", func(t *testing.T) {
		turns := NormalizeTurns(nil, "hola")
		if len(turns) != 1 {
			t.Fatalf("expected 1 turn, got %d", len(turns))
		}
		if turns[0].Role != domain.RoleUser || turns[0].Text != "hola" {
			t.Fatalf("unexpected turn: %+v", turns[0])
		}
	})

	t.Run("último turno ya es el input", func(t *testing.T) {
		history := []domain.Message{
			{Role: domain.RoleAssistant, Content: "hola"},
			{Role: domain.RoleUser, Content: "mismo input"},
		}
		turns := NormalizeTurns(history, "mismo input")
		if len(turns) != 2 {
			t.Fatalf("expected no duplicate user turn, got %d turns", len(turns))
		}
		if turns[1].Text != "mismo input" {
			t.Fatalf("unexpected final turn: %+v", turns[1])
		}
	})

	t.Run("último turno user con otro contenido", func(t *testing.T) {
		history := []domain.Message{
			{Role: domain.RoleAssistant, Content: "hola"},
			{Role: domain.RoleUser, Content: "viejo"},
		}
		turns := NormalizeTurns(history, "nuevo")
		last := turns[len(turns)-1]
		if last.Role != domain.RoleUser || last.Text != "nuevo" {
			t.Fatalf("expected final user turn with current input, got %+v", last)
		}
		// La alternancia se mantiene: no hay dos user consecutivos.
		for i := 1; i < len(turns); i++ {
			if turns[i].Role == turns[i-1].Role {
				t.Fatalf("consecutive same-role turns at %d: %+v", i, turns)
			}
		}
	})

	t.Run("historial termina en assistant", func(t *testing.T) {
		history := []domain.Message{
			{Role: domain.RoleUser, Content: "pregunta"},
			{Role: domain.RoleAssistant, Content: "respuesta"},
		}
		turns := NormalizeTurns(history, "repregunta")
		if len(turns) != 3 {
			t.Fatalf("expected appended user turn, got %d turns", len(turns))
		}
		if turns[2].Role != domain.RoleUser || turns[2].Text != "repregunta" {
			t.Fatalf("unexpected final turn: %+v", turns[2])
		}
	})
}
