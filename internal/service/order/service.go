package order

import (
	"context"
	"strings"

	"printshop/internal/domain"
)

const (
	defaultLimit = 20
	maxLimit     = 500
)

type orderRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]domain.Order, int, error)
}

// Service reads back orders recorded in the ledger.
type Service struct {
	repo orderRepo
}

func New(repo orderRepo) *Service {
	return &Service{repo: repo}
}

type Page struct {
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	Count   int            `json:"count"`
	Total   int            `json:"total"`
	Results []domain.Order `json:"results"`
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// List returns a page of orders. Non-positive limits fall back to the default,
// large ones are capped and negative offsets become zero.
func (s *Service) List(ctx context.Context, limit, offset int) (Page, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	orders, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return Page{}, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return Page{
		Limit:   limit,
		Offset:  offset,
		Count:   len(orders),
		Total:   total,
		Results: orders,
	}, nil
}
