// Package repository реализует хранилище данных на основе PostgreSQL
// для каталога контента, пользователей, подписок, платежей и журналов.
// Предоставляет методы создания, чтения, обновления, удаления и агрегирования
// записей; инварианты уникальности закреплены ограничениями схемы.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища, по которым обработчики выбирают HTTP-статус.
var (
	// ErrNotFound запись с указанным идентификатором отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateTitle контент с таким заголовком уже существует.
	ErrDuplicateTitle = errors.New("content title already exists")
	// ErrDuplicateUser пользователь с таким username или email уже существует.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrActiveSubscriptionExists у пользователя уже есть активная подписка.
	ErrActiveSubscriptionExists = errors.New("active subscription already exists")
	// ErrInvalidStatusTransition запрошенный переход статуса недопустим.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	// ErrPlanInactive тарифный план отключен и недоступен для оформления.
	ErrPlanInactive = errors.New("subscription plan is not active")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с каталогом и журналами.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'content'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table content missing or query error: %w", err)
	}
	return nil
}

// isUniqueViolation распознает нарушение уникального ограничения.
// Ограничение схемы — авторитетный источник инварианта: при гонке двух
// конкурентных вставок проигравшая получает именно эту ошибку.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
