package email

import (
	"context"
	"errors"

	"sage-llm/internal/domain"
)

// Sender define la interfaz para avisos de leads capturados.
type Sender interface {
	SendLeadAlert(ctx context.Context, to string, lead domain.Lead) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendLeadAlert(_ context.Context, _ string, _ domain.Lead) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
