package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/streamhub/streamhub/internal/models"
)

const paymentColumns = `id, subscription_id, user_uid, amount_cents, currency, payment_method,
	transaction_status, gateway_reference, error_message, created_at`

func scanPayment(row rowScanner) (*models.PaymentTransaction, error) {
	var p models.PaymentTransaction
	var gatewayReference, errorMessage sql.NullString
	if err := row.Scan(&p.ID, &p.SubscriptionID, &p.UserUID, &p.AmountCents, &p.Currency,
		&p.PaymentMethod, &p.Status, &gatewayReference, &errorMessage, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.GatewayReference = gatewayReference.String
	p.ErrorMessage = errorMessage.String
	return &p, nil
}

// RegisterPayment записывает платежную транзакцию и применяет переход статуса
// подписки в одной транзакции БД, чтобы не существовало окна, в котором виден
// успешный платеж против еще не обновленной подписки.
//
// Правила перехода:
//   - FAILED при активной подписке переводит ее в PAST_DUE;
//   - SUCCESS выводит подписку из PAST_DUE в ACTIVE только когда сумма
//     успешных платежей покрывает полный период плана;
//   - конечные статусы (CANCELLED, EXPIRED) не меняются, строка платежа
//     при этом все равно фиксируется.
//
// Строка платежа неизменяема: повторная попытка оплаты — новая строка.
func (s *Storage) RegisterPayment(ctx context.Context, p models.PaymentTransaction) (*models.PaymentTransaction, models.SubscriptionStatus, error) {
	const op = "storage.RegisterPayment"
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var current models.SubscriptionStatus
	var userUID string
	var priceCents int64
	err = tx.QueryRowContext(ctx,
		`SELECT s.status, s.user_uid, p.price_cents
		 FROM subscriptions s
		 JOIN subscription_plans p ON p.id = s.plan_id
		 WHERE s.id = $1
		 FOR UPDATE OF s`, p.SubscriptionID).
		Scan(&current, &userUID, &priceCents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	row := tx.QueryRowContext(ctx,
		`INSERT INTO payment_transactions (subscription_id, user_uid, amount_cents, currency,
			 payment_method, transaction_status, gateway_reference, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+paymentColumns,
		p.SubscriptionID, userUID, p.AmountCents, p.Currency, p.PaymentMethod,
		p.Status, nullString(p.GatewayReference), nullString(p.ErrorMessage))
	created, err := scanPayment(row)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	next := current
	switch {
	case p.Status == models.TransactionFailed && current == models.SubscriptionActive:
		next = models.SubscriptionPastDue
	case p.Status == models.TransactionSuccess && current == models.SubscriptionPastDue:
		var paidCents int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(amount_cents), 0)
			 FROM payment_transactions
			 WHERE subscription_id = $1 AND transaction_status = $2`,
			p.SubscriptionID, models.TransactionSuccess).Scan(&paidCents); err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
		if paidCents >= priceCents {
			next = models.SubscriptionActive
		}
	}

	if next != current {
		if _, err := tx.ExecContext(ctx,
			`UPDATE subscriptions SET status = $1, updated_at = now() WHERE id = $2`,
			next, p.SubscriptionID); err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
		if err := insertAudit(ctx, tx, "subscriptions", p.SubscriptionID, models.AuditStatusChange, "",
			fmt.Sprintf("%s -> %s", current, next)); err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := insertAudit(ctx, tx, "payment_transactions", created.ID, models.AuditCreate, "",
		fmt.Sprintf("status: %s", p.Status)); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return created, next, nil
}

// ListPayments возвращает все платежные транзакции подписки от новых к старым.
func (s *Storage) ListPayments(ctx context.Context, subscriptionID int64) ([]*models.PaymentTransaction, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+paymentColumns+`
		 FROM payment_transactions
		 WHERE subscription_id = $1
		 ORDER BY id DESC`, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.PaymentTransaction
	for rows.Next() {
		item, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
