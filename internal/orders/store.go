package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct{ DB *pgxpool.Pool }

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// CreateOrder inserts the order row and returns it with the generated id.
// Items are inserted separately via InsertItems; an order whose items insert
// failed stays pending with no items.
func (s *Store) CreateOrder(ctx context.Context, o Order) (Order, error) {
	row := s.DB.QueryRow(ctx, `
		INSERT INTO orders(user_name, user_phone, total_amount, order_type, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, o.UserName, o.UserPhone, o.TotalAmount, o.OrderType, string(o.Status))
	if err := row.Scan(&o.ID, &o.CreatedAt); err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

// InsertItems writes all line items of one order in a single transaction.
func (s *Store) InsertItems(ctx context.Context, orderID string, items []OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, it := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, item_type, item_id, item_name, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			orderID, it.ItemType, it.ItemID, it.ItemName, it.Quantity, it.UnitPrice, it.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert order item %s: %w", it.ItemID, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) GetStatus(ctx context.Context, orderID string) (Status, error) {
	var st string
	err := s.DB.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&st)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return Status(st), nil
}

// UpdateStatus moves the order along the status table; rejected moves return
// ErrInvalidTransition without touching the row.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, to Status) error {
	cur, err := s.GetStatus(ctx, orderID)
	if err != nil {
		return err
	}
	if !CanTransition(cur, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur, to)
	}
	tag, err := s.DB.Exec(ctx, `UPDATE orders SET status=$1 WHERE id=$2 AND status=$3`,
		string(to), orderID, string(cur))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// status moved under us; report as a transition conflict
		return ErrInvalidTransition
	}
	return nil
}

func (s *Store) ListByPhone(ctx context.Context, phone string) ([]Order, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, user_name, user_phone, total_amount, order_type, status, created_at
		FROM orders WHERE user_phone=$1 ORDER BY created_at DESC`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var st string
		if err := rows.Scan(&o.ID, &o.UserName, &o.UserPhone, &o.TotalAmount, &o.OrderType, &st, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Status = Status(st)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) ListItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT order_id, item_type, item_id, item_name, quantity, unit_price, subtotal
		FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.OrderID, &it.ItemType, &it.ItemID, &it.ItemName, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
