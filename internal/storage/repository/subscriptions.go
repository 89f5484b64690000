package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/streamhub/streamhub/internal/models"
)

const subscriptionColumns = `id, user_uid, plan_id, start_date, end_date, status, created_at, updated_at`

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.PlanID, &sub.StartDate, &sub.EndDate,
		&sub.Status, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubscription оформляет подписку пользователя на тарифный план.
// Подписка создается в статусе ACTIVE с периодом действия по длительности плана.
// Вторая активная подписка одного пользователя отклоняется частичным
// уникальным индексом схемы.
func (s *Storage) CreateSubscription(ctx context.Context, userUID string, planID int64, now time.Time) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var durationDays int
	var planActive bool
	err = tx.QueryRowContext(ctx,
		`SELECT duration_days, is_active FROM subscription_plans WHERE id = $1`, planID).
		Scan(&durationDays, &planActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !planActive {
		return nil, fmt.Errorf("%s: %w", op, ErrPlanInactive)
	}

	endDate := now.AddDate(0, 0, durationDays)
	row := tx.QueryRowContext(ctx,
		`INSERT INTO subscriptions (user_uid, plan_id, start_date, end_date, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+subscriptionColumns,
		userUID, planID, now, endDate, models.SubscriptionActive)

	sub, err := scanSubscription(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrActiveSubscriptionExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := insertAudit(ctx, tx, "subscriptions", sub.ID, models.AuditCreate, userUID, ""); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetSubscription возвращает подписку по её ID.
func (s *Storage) GetSubscription(ctx context.Context, id int64) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetActiveSubscriptionByUser возвращает активную подписку пользователя, если она есть.
func (s *Storage) GetActiveSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetActiveSubscriptionByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_uid = $1 AND status = $2`,
		userUID, models.SubscriptionActive)
	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// CancelSubscription переводит подписку в конечный статус CANCELLED.
// Отмена допустима из любого статуса, включая EXPIRED и PAST_DUE;
// отклоняется только повторная отмена.
func (s *Storage) CancelSubscription(ctx context.Context, id int64, cancelledBy string) (*models.Subscription, error) {
	const op = "storage.CancelSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var current models.SubscriptionStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM subscriptions WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !current.Cancellable() {
		return nil, fmt.Errorf("%s: %s -> CANCELLED: %w", op, current, ErrInvalidStatusTransition)
	}

	row := tx.QueryRowContext(ctx,
		`UPDATE subscriptions SET status = $1, updated_at = now() WHERE id = $2
		 RETURNING `+subscriptionColumns,
		models.SubscriptionCancelled, id)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := insertAudit(ctx, tx, "subscriptions", id, models.AuditStatusChange, cancelledBy,
		fmt.Sprintf("%s -> CANCELLED", current)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// MarkSubscriptionExpired переводит активную подписку в EXPIRED.
// Используется ленивой проверкой при чтении; для уже неактивной подписки
// ничего не делает.
func (s *Storage) MarkSubscriptionExpired(ctx context.Context, id int64) error {
	const op = "storage.MarkSubscriptionExpired"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE subscriptions SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3`,
		models.SubscriptionExpired, id, models.SubscriptionActive)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected > 0 {
		if err := insertAudit(ctx, tx, "subscriptions", id, models.AuditStatusChange, "",
			"ACTIVE -> EXPIRED"); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ExpireDueSubscriptions переводит в EXPIRED все активные подписки,
// срок действия которых уже прошел, и возвращает их идентификаторы.
func (s *Storage) ExpireDueSubscriptions(ctx context.Context, now time.Time) ([]int64, error) {
	const op = "storage.ExpireDueSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx,
		`UPDATE subscriptions SET status = $1, updated_at = now()
		 WHERE status = $2 AND end_date < $3
		 RETURNING id`,
		models.SubscriptionExpired, models.SubscriptionActive, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, id := range ids {
		if err := insertAudit(ctx, tx, "subscriptions", id, models.AuditStatusChange, "",
			"ACTIVE -> EXPIRED"); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

// FindSubscriptionsExpiringBetween возвращает данные для уведомлений по
// активным подпискам, срок действия которых заканчивается в заданном интервале.
func (s *Storage) FindSubscriptionsExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.SubscriptionInfo, error) {
	const op = "storage.FindSubscriptionsExpiringBetween"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, u.email, u.username, p.plan_name, s.end_date
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.user_uid
			  JOIN subscription_plans p ON p.id = s.plan_id
			  WHERE s.status = $1 AND s.end_date >= $2 AND s.end_date < $3`
	rows, err := s.DB.QueryContext(ctx, query, models.SubscriptionActive, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.SubscriptionInfo
	for rows.Next() {
		var info models.SubscriptionInfo
		if err := rows.Scan(&info.SubscriptionID, &info.Email, &info.Username,
			&info.PlanName, &info.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
