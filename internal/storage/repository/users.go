package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/streamhub/streamhub/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
// Уникальность username и email обеспечивается ограничениями схемы.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, role, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role, user.Status).Scan(&newUID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicateUser)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, status, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(
		&u.UUID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
