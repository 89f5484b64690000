// Package user содержит бизнес-логику регистрации пользователей.
package user

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/streamhub/streamhub/internal/models"
)

const defaultRole = "user"

// Repository определяет методы для работы с пользователями в хранилище.
type Repository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Service реализует бизнес-логику работы с пользователями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Register регистрирует нового пользователя. Пароль хранится только в виде
// bcrypt-хеша, новая учетная запись создается в статусе PENDING.
func (s *Service) Register(ctx context.Context, req models.DummyUser) (string, error) {
	const op = "services.user.Register"

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	uid, err := s.repo.RegisterUser(ctx, models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         defaultRole,
		Status:       models.UserPending,
	})
	if err != nil {
		return "", err
	}

	s.log.Info("registered new user", slog.String("uid", uid), slog.String("username", req.Username))
	return uid, nil
}

// Get возвращает пользователя по его UID.
func (s *Service) Get(ctx context.Context, userUID string) (*models.User, error) {
	return s.repo.GetUser(ctx, userUID)
}
