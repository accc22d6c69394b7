package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PostgresStore persists the wallet in Postgres. It expects the
// delivery_orders table from migrations/0001_delivery_orders.up.sql.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres-backed wallet.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	o.Company = strings.ToLower(strings.TrimSpace(o.Company))

	query := `
		INSERT INTO delivery_orders (
			id, company, otp, tracking_id, status, approval_token, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		o.ID, o.Company, o.OTP, o.TrackingID, o.Status, o.ApprovalToken, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("orders: failed to create order: %w", err)
	}
	return nil
}

const selectColumns = `id, company, otp, tracking_id, status, approval_token, created_at, updated_at`

func (s *PostgresStore) Get(ctx context.Context, id string) (*Order, error) {
	query := `SELECT ` + selectColumns + ` FROM delivery_orders WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) List(ctx context.Context) ([]Order, error) {
	query := `SELECT ` + selectColumns + ` FROM delivery_orders ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("orders: failed to list orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Company, &o.OTP, &o.TrackingID, &o.Status, &o.ApprovalToken, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("orders: failed to scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindByCompany(ctx context.Context, company string, statuses ...Status) (*Order, error) {
	company = strings.ToLower(strings.TrimSpace(company))
	if len(statuses) == 0 {
		statuses = []Status{StatusPending, StatusApproved, StatusDenied, StatusCompleted}
	}
	args := []any{company}
	placeholders := make([]string, len(statuses))
	for i, st := range statuses {
		args = append(args, string(st))
		placeholders[i] = fmt.Sprintf("$%d", i+2)
	}

	query := `
		SELECT ` + selectColumns + `
		FROM delivery_orders
		WHERE company = $1 AND status IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY created_at DESC
		LIMIT 1
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, args...))
}

func (s *PostgresStore) FindByToken(ctx context.Context, token string) (*Order, error) {
	query := `SELECT ` + selectColumns + ` FROM delivery_orders WHERE approval_token = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, token))
}

func (s *PostgresStore) SetStatus(ctx context.Context, id string, status Status) error {
	query := `UPDATE delivery_orders SET status = $1, updated_at = $2 WHERE id = $3`
	res, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("orders: failed to update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("orders: failed to check update: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM delivery_orders`); err != nil {
		return fmt.Errorf("orders: failed to clear wallet: %w", err)
	}
	return nil
}

func (s *PostgresStore) scanOne(row *sql.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Company, &o.OTP, &o.TrackingID, &o.Status, &o.ApprovalToken, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("orders: failed to scan order: %w", err)
	}
	return &o, nil
}
