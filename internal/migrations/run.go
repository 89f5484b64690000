// Package migrations применяет SQL-миграции схемы при старте приложения.
package migrations

import (
	"database/sql"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// Регистрация файлового источника миграций.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Run накатывает все недостающие миграции из каталога path поверх
// существующего подключения. Уже актуальная схема не считается ошибкой.
func Run(db *sql.DB, path string) error {
	driver, err := pgxv5.WithInstance(db, &pgxv5.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(
		"file://"+path,
		"pgx_v5",
		driver,
	)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
