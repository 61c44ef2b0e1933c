package repository

import (
	"context"
	"sync"

	"sage-llm/internal/domain"
)

// LeadRepository define el acceso a leads entrantes.
type LeadRepository interface {
	Create(ctx context.Context, lead domain.Lead) error
	GetByID(ctx context.Context, id string) (domain.Lead, error)
	List(ctx context.Context) ([]domain.Lead, error)
	Replace(ctx context.Context, lead domain.Lead) error
	SetProcessing(ctx context.Context, id string, processing bool) error
}

// MemoryLeadRepository guarda leads en memoria.
type MemoryLeadRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.Lead
	order []string
}

func NewMemoryLeadRepository() *MemoryLeadRepository {
	return &MemoryLeadRepository{byID: make(map[string]domain.Lead)}
}

func (r *MemoryLeadRepository) Create(_ context.Context, lead domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[lead.ID]; !exists {
		r.order = append(r.order, lead.ID)
	}
	r.byID[lead.ID] = lead
	return nil
}

func (r *MemoryLeadRepository) GetByID(_ context.Context, id string) (domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lead, ok := r.byID[id]
	if !ok {
		return domain.Lead{}, ErrNotFound
	}
	return lead, nil
}

func (r *MemoryLeadRepository) List(_ context.Context) ([]domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	leads := make([]domain.Lead, 0, len(r.order))
	for _, id := range r.order {
		leads = append(leads, r.byID[id])
	}
	return leads, nil
}

func (r *MemoryLeadRepository) Replace(_ context.Context, lead domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[lead.ID]; !ok {
		return ErrNotFound
	}
	r.byID[lead.ID] = lead
	return nil
}

func (r *MemoryLeadRepository) SetProcessing(_ context.Context, id string, processing bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	lead.Processing = processing
	r.byID[id] = lead
	return nil
}
