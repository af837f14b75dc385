package postgres

import (
	"context"
	"database/sql"
	"errors"

	"venuebooking/internal/domain"
)

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) domain.PaymentRepository {
	return &paymentRepository{DB: db}
}

const paymentColumns = "id, event_id, user_id, amount, status, transaction_id, method, created_at, updated_at"

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (event_id, user_id, amount, status, transaction_id, method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		p.EventID, p.UserID, p.Amount, p.Status, nullString(p.TransactionID), p.Method,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE id = $1
	`
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE transaction_id = $1
	`
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, transactionID string) error {
	query := `
		UPDATE payments
		SET status = $2, transaction_id = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, id, status, nullString(transactionID))
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) HasSuccessful(ctx context.Context, eventID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payments WHERE event_id = $1 AND status = 'success'
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanPayment(s scanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	var txnNull sql.NullString
	err := s.Scan(
		&p.ID, &p.EventID, &p.UserID, &p.Amount, &p.Status, &txnNull, &p.Method,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if txnNull.Valid {
		p.TransactionID = txnNull.String
	}
	return p, nil
}
