package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ferreinti-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

// Orders store their line items and address as JSONB documents: they
// are immutable snapshots taken at purchase time, never joined against.

const orderColumns = `id, user_id, user_email, user_name, items, subtotal,
	shipping_cost, total, status, shipping_address, payment_session_id, created_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var items, address []byte
	err := row.Scan(&o.ID, &o.UserID, &o.UserEmail, &o.UserName, &items,
		&o.Subtotal, &o.ShippingCost, &o.Total, &o.Status, &address,
		&o.PaymentSessionID, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	return &o, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}
	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}
	return queries(ctx, r.db).QueryRow(ctx, `
		INSERT INTO orders (id, user_id, user_email, user_name, items, subtotal,
			shipping_cost, total, status, shipping_address, payment_session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`,
		order.ID, order.UserID, order.UserEmail, order.UserName, items,
		order.Subtotal, order.ShippingCost, order.Total, order.Status,
		address, order.PaymentSessionID,
	).Scan(&order.CreatedAt)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := queries(ctx, r.db).QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("order %s not found", id)
	}
	return o, err
}

func (r *orderRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := queries(ctx, r.db).Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT 100`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *orderRepository) GetAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	where := ` WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (id ILIKE $%d OR user_email ILIKE $%d OR user_name ILIKE $%d)", idx, idx, idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}

	var total int64
	if err := queries(ctx, r.db).QueryRow(ctx, `SELECT count(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}
	sql := `SELECT ` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := queries(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := queries(ctx, r.db).Exec(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", id)
	}
	return nil
}

// --- Cart ---

func (r *orderRepository) GetCartByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	var items []byte
	err := queries(ctx, r.db).QueryRow(ctx,
		`SELECT id, user_id, items, updated_at FROM carts WHERE user_id = $1`, userID,
	).Scan(&cart.ID, &cart.UserID, &items, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(items, &cart.Items); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	return &cart, nil
}

func (r *orderRepository) SaveCart(ctx context.Context, cart *domain.Cart) error {
	items, err := json.Marshal(cart.Items)
	if err != nil {
		return err
	}
	return queries(ctx, r.db).QueryRow(ctx, `
		INSERT INTO carts (id, user_id, items, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id)
		DO UPDATE SET items = EXCLUDED.items, updated_at = now()
		RETURNING updated_at`,
		cart.ID, cart.UserID, items,
	).Scan(&cart.UpdatedAt)
}

func (r *orderRepository) ClearCart(ctx context.Context, userID string) error {
	_, err := queries(ctx, r.db).Exec(ctx,
		`UPDATE carts SET items = '[]'::jsonb, updated_at = now() WHERE user_id = $1`, userID)
	return err
}

// --- Payment transactions ---

func (r *orderRepository) CreatePaymentTransaction(ctx context.Context, txn *domain.PaymentTransaction) error {
	address, err := json.Marshal(txn.ShippingAddress)
	if err != nil {
		return err
	}
	return queries(ctx, r.db).QueryRow(ctx, `
		INSERT INTO payment_transactions (id, session_id, user_id, user_email,
			subtotal, shipping_cost, amount, currency, status, payment_status, shipping_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`,
		txn.ID, txn.SessionID, txn.UserID, txn.UserEmail, txn.Subtotal,
		txn.ShippingCost, txn.Amount, txn.Currency, txn.Status, txn.PaymentStatus, address,
	).Scan(&txn.CreatedAt)
}

func (r *orderRepository) UpdatePaymentTransaction(ctx context.Context, sessionID, status, paymentStatus string) error {
	tag, err := queries(ctx, r.db).Exec(ctx, `
		UPDATE payment_transactions SET status = $2, payment_status = $3 WHERE session_id = $1`,
		sessionID, status, paymentStatus)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction for session %s not found", sessionID)
	}
	return nil
}

func (r *orderRepository) GetPaymentTransaction(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error) {
	var txn domain.PaymentTransaction
	var address []byte
	err := queries(ctx, r.db).QueryRow(ctx, `
		SELECT id, session_id, user_id, user_email, subtotal, shipping_cost,
			amount, currency, status, payment_status, shipping_address, created_at
		FROM payment_transactions WHERE session_id = $1`, sessionID,
	).Scan(&txn.ID, &txn.SessionID, &txn.UserID, &txn.UserEmail, &txn.Subtotal,
		&txn.ShippingCost, &txn.Amount, &txn.Currency, &txn.Status,
		&txn.PaymentStatus, &address, &txn.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction for session %s not found", sessionID)
		}
		return nil, err
	}
	if err := json.Unmarshal(address, &txn.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	return &txn, nil
}
