package repository

import (
	"context"
	"errors"
	"sync"

	"sage-llm/internal/domain"
)

// ErrNotFound se devuelve cuando el registro pedido no existe.
var ErrNotFound = errors.New("record not found")

// ReviewRepository define el acceso a reseñas. El patrón es inmutable:
// buscar por id, producir un reemplazo y escribirlo de vuelta.
type ReviewRepository interface {
	Create(ctx context.Context, review domain.Review) error
	GetByID(ctx context.Context, id string) (domain.Review, error)
	List(ctx context.Context) ([]domain.Review, error)
	Replace(ctx context.Context, review domain.Review) error
	SetProcessing(ctx context.Context, id string, processing bool) error
}

// MemoryReviewRepository guarda reseñas en memoria. Persistencia real
// queda fuera del alcance del servicio.
type MemoryReviewRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.Review
	order []string
}

func NewMemoryReviewRepository() *MemoryReviewRepository {
	return &MemoryReviewRepository{byID: make(map[string]domain.Review)}
}

func (r *MemoryReviewRepository) Create(_ context.Context, review domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[review.ID]; !exists {
		r.order = append(r.order, review.ID)
	}
	r.byID[review.ID] = review
	return nil
}

func (r *MemoryReviewRepository) GetByID(_ context.Context, id string) (domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.byID[id]
	if !ok {
		return domain.Review{}, ErrNotFound
	}
	return review, nil
}

func (r *MemoryReviewRepository) List(_ context.Context) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reviews := make([]domain.Review, 0, len(r.order))
	for _, id := range r.order {
		reviews = append(reviews, r.byID[id])
	}
	return reviews, nil
}

func (r *MemoryReviewRepository) Replace(_ context.Context, review domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[review.ID]; !ok {
		return ErrNotFound
	}
	r.byID[review.ID] = review
	return nil
}

func (r *MemoryReviewRepository) SetProcessing(_ context.Context, id string, processing bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	review.Processing = processing
	r.byID[id] = review
	return nil
}
