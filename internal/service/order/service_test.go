package order

import (
	"context"
	"errors"
	"testing"

	"printshop/internal/domain"
)

type stubRepo struct {
	order      *domain.Order
	orders     []domain.Order
	total      int
	err        error
	lastID     string
	lastLimit  int
	lastOffset int
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	s.lastID = id
	return s.order, s.err
}

func (s *stubRepo) List(_ context.Context, limit, offset int) ([]domain.Order, int, error) {
	s.lastLimit = limit
	s.lastOffset = offset
	return s.orders, s.total, s.err
}

func TestServiceGetNormalizesID(t *testing.T) {
	expected := &domain.Order{ID: "ABCDEF123456"}
	repo := &stubRepo{order: expected}
	svc := New(repo)

	got, err := svc.Get(context.Background(), " abcdef123456 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != expected {
		t.Fatalf("unexpected order: %+v", got)
	}
	if repo.lastID != "ABCDEF123456" {
		t.Fatalf("expected upper-cased id, got %q", repo.lastID)
	}
}

func TestServiceGetEmptyID(t *testing.T) {
	svc := New(&stubRepo{})
	if _, err := svc.Get(context.Background(), "  "); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceListDefaults(t *testing.T) {
	repo := &stubRepo{orders: []domain.Order{{ID: "A"}, {ID: "B"}}, total: 7}
	svc := New(repo)

	page, err := svc.List(context.Background(), 0, -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != defaultLimit || repo.lastOffset != 0 {
		t.Fatalf("unexpected paging passed to repo: limit=%d offset=%d", repo.lastLimit, repo.lastOffset)
	}
	if page.Count != 2 || page.Total != 7 || page.Limit != defaultLimit {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestServiceListCapsLimit(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	page, err := svc.List(context.Background(), 10_000, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != maxLimit || repo.lastOffset != 3 {
		t.Fatalf("unexpected paging: limit=%d offset=%d", repo.lastLimit, repo.lastOffset)
	}
	if page.Results == nil {
		t.Fatalf("expected empty results slice, got nil")
	}
}

func TestServiceListRepoError(t *testing.T) {
	svc := New(&stubRepo{err: errors.New("boom")})
	_, err := svc.List(context.Background(), 10, 0)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected repo error, got %v", err)
	}
}
