package order

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"printshop/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger logrus.FieldLogger
}

func NewPostgres(pool *pgxpool.Pool, logger logrus.FieldLogger) Repository {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &postgresRepo{pool: pool, logger: logger.WithField("repo", "order")}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) error {
	const orderQuery = `
INSERT INTO orders (id, customer_name, contact, uploaded_filename, invoice_filename, subtotal, tax, total, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	const lineQuery = `
INSERT INTO order_lines (order_id, position, service_key, label, quantity, unit_price, line_total)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, orderQuery,
		o.ID, o.CustomerName, o.Contact, o.UploadedFilename, o.InvoiceFilename,
		o.Subtotal, o.Tax, o.Total, o.CreatedAt,
	); err != nil {
		r.logger.WithError(err).WithField("order_id", o.ID).Error("insert order")
		return errors.Wrap(err, "insert order")
	}

	batch := &pgx.Batch{}
	for i, item := range o.Items {
		batch.Queue(lineQuery, o.ID, i, item.Key, item.Label, item.Quantity, item.UnitPrice, item.LineTotal)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			r.logger.WithError(err).WithField("order_id", o.ID).Error("insert order lines")
			return errors.Wrap(err, "insert order lines")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit")
	}
	r.logger.WithFields(logrus.Fields{"order_id": o.ID, "lines": len(o.Items)}).Debug("order recorded")
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT id, customer_name, contact, uploaded_filename, invoice_filename, subtotal, tax, total, created_at
FROM orders
WHERE id = $1
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("order_id", id).Error("get order")
		return nil, errors.Wrap(err, "get order")
	}
	orders := []domain.Order{o}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// List returns one page of orders, newest first, and the total order count.
func (r *postgresRepo) List(ctx context.Context, limit, offset int) ([]domain.Order, int, error) {
	const q = `
SELECT id, customer_name, contact, uploaded_filename, invoice_filename, subtotal, tax, total, created_at
FROM orders
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2
`
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		r.logger.WithError(err).Error("list orders")
		return nil, 0, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scan order")
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "list orders rows")
	}
	if err := r.attachLines(ctx, result); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) attachLines(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	const q = `
SELECT order_id, service_key, label, quantity, unit_price, line_total
FROM order_lines
WHERE order_id = ANY($1)
ORDER BY order_id, position
`
	ids := make([]string, len(orders))
	pos := make(map[string]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		pos[orders[i].ID] = i
		orders[i].Items = []domain.LineItem{}
	}

	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return errors.Wrap(err, "list order lines")
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item domain.LineItem
		if err := rows.Scan(&orderID, &item.Key, &item.Label, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return errors.Wrap(err, "scan order line")
		}
		i := pos[orderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return errors.Wrap(rows.Err(), "order lines rows")
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.CustomerName, &o.Contact, &o.UploadedFilename, &o.InvoiceFilename,
		&o.Subtotal, &o.Tax, &o.Total, &o.CreatedAt)
	return o, err
}
