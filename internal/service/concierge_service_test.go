package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"sage-llm/internal/domain"
	"sage-llm/internal/llm"
)

func acquireUnavailable() (llm.Client, bool) {
	return nil, false
}

func acquireMock(mock *llm.MockClient) llm.AcquireFunc {
	return func() (llm.Client, bool) {
		return mock, true
	}
}

func TestConciergeSend_UnavailableFallsBackToLocalBuffer(t *testing.T) {
	svc := NewConciergeService(acquireUnavailable, "test-model", zap.NewNop())

	result := svc.Send(context.Background(), nil, "Tell me about Sedona")

	if !result.IsLocal {
		t.Fatalf("expected IsLocal true")
	}
	if strings.TrimSpace(result.Text) == "" {
		t.Fatalf("fallback text must be non-empty")
	}
	if !strings.HasPrefix(result.Text, localBufferPrefix) {
		t.Fatalf("expected local buffer prefix, got %q", result.Text)
	}
	if !strings.Contains(result.Text, "Sedona") {
		t.Fatalf("expected Sedona snippet, got %q", result.Text)
	}
}

func TestConciergeSend_RemoteErrorFallsBackWithInterruptedPrefix(t *testing.T) {
	mock := &llm.MockClient{Err: errors.New("network down")}
	svc := NewConciergeService(acquireMock(mock), "test-model", zap.NewNop())

	result := svc.Send(context.Background(), nil, "hola")

	if !result.IsLocal {
		t.Fatalf("expected IsLocal true after remote failure")
	}
	if !strings.HasPrefix(result.Text, linkInterruptedPrefix) {
		t.Fatalf("expected link interrupted prefix, got %q", result.Text)
	}
	if mock.GenerateCalls != 1 {
		t.Fatalf("expected exactly one remote attempt, got %d", mock.GenerateCalls)
	}
}

func TestConciergeSend_EmptyRemoteTextGetsDegradedPlaceholder(t *testing.T) {
	mock := &llm.MockClient{Result: llm.GenerateResult{Text: "   "}}
	svc := NewConciergeService(acquireMock(mock), "test-model", zap.NewNop())

	result := svc.Send(context.Background(), nil, "hola")

	if result.IsLocal {
		t.Fatalf("expected live response")
	}
	if result.Text != degradedResponseText {
		t.Fatalf("expected degraded placeholder, got %q", result.Text)
	}
}

func TestConciergeSend_SourceTitleDefaulted(t *testing.T) {
	mock := &llm.MockClient{Result: llm.GenerateResult{
		Text: "answer",
		Sources: []domain.Source{
			{URI: "https://example.com/a", Title: ""},
			{URI: "", Title: "sin uri, se descarta"},
			{URI: "https://example.com/b", Title: "Named"},
		},
	}}
	svc := NewConciergeService(acquireMock(mock), "test-model", zap.NewNop())

	result := svc.Send(context.Background(), nil, "hola")

	if len(result.Sources) != 2 {
		t.Fatalf("expected empty-uri source dropped, got %d sources", len(result.Sources))
	}
	if result.Sources[0].Title != defaultSourceTitle {
		t.Fatalf("expected default title %q, got %q", defaultSourceTitle, result.Sources[0].Title)
	}
	if result.Sources[1].Title != "Named" {
		t.Fatalf("api-given title must be preserved, got %q", result.Sources[1].Title)
	}
	// El orden de la API se conserva.
	if result.Sources[0].URI != "https://example.com/a" || result.Sources[1].URI != "https://example.com/b" {
		t.Fatalf("source order not preserved: %+v", result.Sources)
	}
}

func TestConciergeSend_TriggerLeadFromInputAndAnswer(t *testing.T) {
	mock := &llm.MockClient{Result: llm.GenerateResult{Text: "You should join the dispatch"}}
	svc := NewConciergeService(acquireMock(mock), "test-model", zap.NewNop())

	history := []domain.Message{{Role: domain.RoleUser, Content: "membership info"}}
	result := svc.Send(context.Background(), history, "membership info")

	if !result.TriggerLead {
		t.Fatalf("expected TriggerLead true")
	}
}

func TestConciergeSend_RequestCarriesPersonaAndSearch(t *testing.T) {
	mock := &llm.MockClient{Result: llm.GenerateResult{Text: "ok"}}
	svc := NewConciergeService(acquireMock(mock), "test-model", zap.NewNop())

	history := []domain.Message{
		{Role: domain.RoleUser, Content: "hola"},
		{Role: "model", Content: "respuesta"},
	}
	svc.Send(context.Background(), history, "siguiente pregunta")

	req := mock.LastRequest
	if req.Model != "test-model" {
		t.Fatalf("unexpected model: %q", req.Model)
	}
	if !req.EnableSearch {
		t.Fatalf("expected web search enabled")
	}
	if req.SystemInstruction == "" || !strings.Contains(req.SystemInstruction, "Sage") {
		t.Fatalf("expected fixed persona, got %q", req.SystemInstruction)
	}
	last := req.Turns[len(req.Turns)-1]
	if last.Role != domain.RoleUser || last.Text != "siguiente pregunta" {
		t.Fatalf("expected final user turn with input, got %+v", last)
	}
}

func TestConciergeSend_DoesNotMutateHistory(t *testing.T) {
	mock := &llm.MockClient{Result: llm.GenerateResult{Text: "ok"}}
	svc := NewConciergeService(acquireMock(mock), "test-model", zap.NewNop())

	history := []domain.Message{{Role: domain.RoleUser, Content: "original"}}
	svc.Send(context.Background(), history, "otra cosa")

	if history[0].Content != "original" || len(history) != 1 {
		t.Fatalf("history mutated: %+v", history)
	}
}
