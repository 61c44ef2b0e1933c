package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sage-llm/internal/llm"
)

var (
	// ErrMediaUnavailable indica que no hay credencial para generar media.
	// La generación de media no tiene buffer local: es error explícito.
	ErrMediaUnavailable = errors.New("media collaborator unavailable")

	// ErrVideoPollExceeded indica que la operación no terminó dentro del
	// techo de intentos.
	ErrVideoPollExceeded = errors.New("video operation polling exceeded max attempts")
)

// MediaService genera imágenes y video contra el colaborador remoto.
// El polling de video tiene techo de intentos: una operación que no
// termina dentro del límite es un fallo, no una espera infinita.
type MediaService struct {
	acquire      llm.AcquireFunc
	imageModel   string
	videoModel   string
	pollInterval time.Duration
	maxAttempts  int
	logger       *zap.Logger

	// sleep es inyectable para tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewMediaService(acquire llm.AcquireFunc, imageModel, videoModel string, pollInterval time.Duration, maxAttempts int, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 30
	}
	return &MediaService{
		acquire:      acquire,
		imageModel:   imageModel,
		videoModel:   videoModel,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
		logger:       logger,
		sleep:        sleepCtx,
	}
}

// GenerateImage devuelve el payload base64 de una imagen generada.
func (s *MediaService) GenerateImage(ctx context.Context, prompt string) (string, error) {
	client, ok := s.acquire()
	if !ok {
		return "", ErrMediaUnavailable
	}

	data, err := client.GenerateImage(ctx, s.imageModel, prompt)
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	return data, nil
}

// GenerateVideo lanza la operación de video y la consulta con retardo fijo
// hasta verla terminada o agotar el techo de intentos.
func (s *MediaService) GenerateVideo(ctx context.Context, prompt string) (string, error) {
	client, ok := s.acquire()
	if !ok {
		return "", ErrMediaUnavailable
	}

	operation, err := client.StartVideo(ctx, s.videoModel, prompt)
	if err != nil {
		return "", fmt.Errorf("start video: %w", err)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := s.sleep(ctx, s.pollInterval); err != nil {
			return "", fmt.Errorf("video poll wait: %w", err)
		}

		op, err := client.PollVideo(ctx, operation)
		if err != nil {
			return "", fmt.Errorf("poll video: %w", err)
		}
		if op.Done {
			s.logger.Info("video operation finished",
				zap.String("operation", operation),
				zap.Int("attempts", attempt),
			)
			return op.VideoURI, nil
		}
	}

	return "", fmt.Errorf("%w: operation=%s attempts=%d", ErrVideoPollExceeded, operation, s.maxAttempts)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
