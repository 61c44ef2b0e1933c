package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// MockClient permite tests sin llamar al colaborador real.
type MockClient struct {
	Result    GenerateResult
	JSON      string
	ImageData string
	Operation string
	VideoOps  []VideoOperation
	Err       error

	GenerateCalls int
	PollCalls     int
	LastRequest   GenerateRequest
}

func (m *MockClient) GenerateContent(_ context.Context, req GenerateRequest) (GenerateResult, error) {
	m.GenerateCalls++
	m.LastRequest = req
	return m.Result, m.Err
}

func (m *MockClient) GenerateJSON(_ context.Context, _, _ string, _ Schema, out any) error {
	if m.Err != nil {
		return m.Err
	}
	if err := json.Unmarshal([]byte(m.JSON), out); err != nil {
		return fmt.Errorf("parse structured response: %w", err)
	}
	return nil
}

func (m *MockClient) GenerateImage(_ context.Context, _, _ string) (string, error) {
	return m.ImageData, m.Err
}

func (m *MockClient) StartVideo(_ context.Context, _, _ string) (string, error) {
	return m.Operation, m.Err
}

// PollVideo devuelve las operaciones configuradas en orden; la última se
// repite si se sigue consultando.
func (m *MockClient) PollVideo(_ context.Context, _ string) (VideoOperation, error) {
	m.PollCalls++
	if m.Err != nil {
		return VideoOperation{}, m.Err
	}
	if len(m.VideoOps) == 0 {
		return VideoOperation{}, nil
	}
	idx := m.PollCalls - 1
	if idx >= len(m.VideoOps) {
		idx = len(m.VideoOps) - 1
	}
	return m.VideoOps[idx], nil
}
