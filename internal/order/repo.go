package order

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// InsertAll persists the batch in a single transaction: either every
	// order becomes visible or none do. Returned orders carry the assigned
	// ids and timestamps.
	InsertAll(ctx context.Context, orders []Order) ([]Order, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Order, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) InsertAll(ctx context.Context, orders []Order) ([]Order, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if err := tx.QueryRow(ctx, `
      INSERT INTO orders (user_id, product_id, quantity, total_price, order_date)
      VALUES ($1,$2,$3,$4,NOW())
      RETURNING id, order_date
    `, o.UserID, o.ProductID, o.Quantity, o.TotalPrice).Scan(&o.ID, &o.OrderDate); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
    SELECT id,user_id,product_id,quantity,total_price::text,order_date
    FROM orders WHERE user_id=$1
    ORDER BY order_date DESC LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalPrice, &o.OrderDate); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
