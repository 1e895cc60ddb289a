package order

import (
	"context"

	"printshop/internal/domain"
)

// Repository is the order ledger: a queryable copy of every generated invoice.
type Repository interface {
	Create(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]domain.Order, int, error)
}
