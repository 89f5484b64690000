package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/streamhub/streamhub/internal/models"
)

// CreatePlan вставляет новый тарифный план и возвращает его ID.
func (s *Storage) CreatePlan(ctx context.Context, plan models.Plan) (int64, error) {
	const op = "storage.CreatePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO subscription_plans (plan_name, price_cents, currency, duration_days, features, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		plan.PlanName, plan.PriceCents, plan.Currency, plan.DurationDays,
		nullString(plan.Features), plan.IsActive).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPlan возвращает тарифный план по его ID.
func (s *Storage) GetPlan(ctx context.Context, id int64) (*models.Plan, error) {
	const op = "storage.GetPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, plan_name, price_cents, currency, duration_days, features, is_active
			  FROM subscription_plans WHERE id = $1`
	var p models.Plan
	var features sql.NullString
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.PlanName, &p.PriceCents, &p.Currency, &p.DurationDays, &features, &p.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.Features = features.String
	return &p, nil
}

// ListActivePlans возвращает все активные тарифные планы.
func (s *Storage) ListActivePlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListActivePlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, plan_name, price_cents, currency, duration_days, features, is_active
			  FROM subscription_plans
			  WHERE is_active
			  ORDER BY price_cents`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Plan
	for rows.Next() {
		var p models.Plan
		var features sql.NullString
		if err := rows.Scan(&p.ID, &p.PlanName, &p.PriceCents, &p.Currency,
			&p.DurationDays, &features, &p.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.Features = features.String
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
