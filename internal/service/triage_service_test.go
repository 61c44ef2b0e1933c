package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"sage-llm/internal/domain"
	"sage-llm/internal/llm"
	"sage-llm/internal/repository"
)

func seedReview(t *testing.T, repo repository.ReviewRepository) domain.Review {
	t.Helper()
	review := domain.Review{
		ID:        "review-1",
		Author:    "Dana",
		Content:   "The Sedona retreat changed how I sleep.",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), review); err != nil {
		t.Fatalf("seed review: %v", err)
	}
	return review
}

func seedLead(t *testing.T, repo repository.LeadRepository) domain.Lead {
	t.Helper()
	lead := domain.Lead{
		ID:        "lead-1",
		Name:      "Marco",
		Email:     "marco@example.com",
		Message:   "I want a recovery-focused trip this fall.",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), lead); err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	return lead
}

func TestAnalyzeReview_MergesParsedFields(t *testing.T) {
	reviews := repository.NewMemoryReviewRepository()
	leads := repository.NewMemoryLeadRepository()
	seedReview(t, reviews)

	mock := &llm.MockClient{JSON: `{"sentiment":"positive","reply":"Thank you, Dana!"}`}
	svc := NewTriageService(acquireMock(mock), reviews, leads, "test-model", zap.NewNop())

	got, err := svc.AnalyzeReview(context.Background(), "review-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Sentiment != "positive" || got.SuggestedReply != "Thank you, Dana!" {
		t.Fatalf("parsed fields not merged: %+v", got)
	}

	stored, err := reviews.GetByID(context.Background(), "review-1")
	if err != nil {
		t.Fatalf("get stored review: %v", err)
	}
	if stored.Sentiment != "positive" {
		t.Fatalf("stored record not replaced: %+v", stored)
	}
	if stored.Processing {
		t.Fatalf("processing flag must be cleared")
	}
}

func TestAnalyzeReview_RemoteFailureLeavesRecordUnmodified(t *testing.T) {
	reviews := repository.NewMemoryReviewRepository()
	leads := repository.NewMemoryLeadRepository()
	original := seedReview(t, reviews)

	mock := &llm.MockClient{Err: errors.New("boom mid-flight")}
	svc := NewTriageService(acquireMock(mock), reviews, leads, "test-model", zap.NewNop())

	got, err := svc.AnalyzeReview(context.Background(), "review-1")
	if err != nil {
		t.Fatalf("remote failure must be absorbed, got error: %v", err)
	}
	if got.Sentiment != "" || got.SuggestedReply != "" {
		t.Fatalf("record must come back unmodified: %+v", got)
	}

	stored, _ := reviews.GetByID(context.Background(), "review-1")
	if stored.Sentiment != original.Sentiment || stored.SuggestedReply != original.SuggestedReply {
		t.Fatalf("stored record modified on failure: %+v", stored)
	}
	if stored.Processing {
		t.Fatalf("processing flag must be cleared even on failure")
	}
}

func TestAnalyzeReview_InvalidJSONLeavesRecordUnmodified(t *testing.T) {
	reviews := repository.NewMemoryReviewRepository()
	leads := repository.NewMemoryLeadRepository()
	seedReview(t, reviews)

	mock := &llm.MockClient{JSON: `not json at all`}
	svc := NewTriageService(acquireMock(mock), reviews, leads, "test-model", zap.NewNop())

	got, err := svc.AnalyzeReview(context.Background(), "review-1")
	if err != nil {
		t.Fatalf("parse failure must be absorbed, got error: %v", err)
	}
	if got.Sentiment != "" {
		t.Fatalf("no partial merge allowed: %+v", got)
	}

	stored, _ := reviews.GetByID(context.Background(), "review-1")
	if stored.Processing {
		t.Fatalf("processing flag must be cleared")
	}
}

func TestAnalyzeReview_UnknownID(t *testing.T) {
	svc := NewTriageService(acquireUnavailable, repository.NewMemoryReviewRepository(), repository.NewMemoryLeadRepository(), "test-model", zap.NewNop())

	_, err := svc.AnalyzeReview(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTriageLead_MergesParsedFields(t *testing.T) {
	reviews := repository.NewMemoryReviewRepository()
	leads := repository.NewMemoryLeadRepository()
	seedLead(t, leads)

	mock := &llm.MockClient{JSON: `{"dream_map":"wants deep rest","classification":"hot","score":87}`}
	svc := NewTriageService(acquireMock(mock), reviews, leads, "test-model", zap.NewNop())

	got, err := svc.TriageLead(context.Background(), "lead-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DreamMap != "wants deep rest" || got.Classification != "hot" || got.Score != 87 {
		t.Fatalf("parsed fields not merged: %+v", got)
	}

	stored, _ := leads.GetByID(context.Background(), "lead-1")
	if stored.Score != 87 || stored.Processing {
		t.Fatalf("stored lead wrong: %+v", stored)
	}
}

func TestTriageLead_UnavailableCollaboratorLeavesRecordUnmodified(t *testing.T) {
	reviews := repository.NewMemoryReviewRepository()
	leads := repository.NewMemoryLeadRepository()
	original := seedLead(t, leads)

	svc := NewTriageService(acquireUnavailable, reviews, leads, "test-model", zap.NewNop())

	got, err := svc.TriageLead(context.Background(), "lead-1")
	if err != nil {
		t.Fatalf("unavailable collaborator must be absorbed, got error: %v", err)
	}
	if got.Classification != original.Classification || got.Score != original.Score {
		t.Fatalf("record modified: %+v", got)
	}
}
