// Package access реализует проверку доступа пользователя к контенту
// и пополняемый журнал попыток доступа.
package access

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/streamhub/streamhub/internal/lib/sl"
	"github.com/streamhub/streamhub/internal/models"
	"github.com/streamhub/streamhub/internal/storage/repository"
)

// Причины отказа в доступе, попадающие в ответ, но не в журнал.
const (
	ReasonContentNotFound    = "content not found"
	ReasonContentUnavailable = "content is not available"
	ReasonPremiumRequired    = "active subscription required for premium content"
)

// Repository определяет методы хранилища, нужные для проверки доступа.
type Repository interface {
	GetContent(ctx context.Context, id int64) (*models.Content, error)
	GetActiveSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error)
	MarkSubscriptionExpired(ctx context.Context, id int64) error
	IncrementViewCount(ctx context.Context, id int64) error
	AppendAccessLog(ctx context.Context, entry models.AccessLogEntry) (*models.AccessLogEntry, error)
	ListAccessLogsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.AccessLogEntry, error)
}

// Decision результат проверки доступа. Reason заполняется только при отказе
// и не сохраняется в журнале.
type Decision struct {
	Allowed bool
	Reason  string
	Entry   *models.AccessLogEntry
}

// Service реализует проверку доступа поверх хранилища.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Check проверяет, может ли пользователь получить доступ к контенту.
// Каждая попытка, включая обращения к несуществующему контенту, фиксируется
// в журнале. Премиум-контент требует активной подписки; просроченная
// подписка при этом сразу переводится в EXPIRED.
func (s *Service) Check(ctx context.Context, contentID int64, userUID, ipAddress, userAgent string) (*Decision, error) {
	entry := models.AccessLogEntry{
		UserUID:   userUID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	content, err := s.repo.GetContent(ctx, contentID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.deny(ctx, entry, ReasonContentNotFound)
	}
	if err != nil {
		return nil, err
	}
	entry.ContentID = &content.ID
	entry.ContentTitleSnapshot = content.Title

	if content.Status != models.ContentActive || !content.IsAvailable {
		return s.deny(ctx, entry, ReasonContentUnavailable)
	}

	if content.IsPremium {
		ok, err := s.hasActiveSubscription(ctx, userUID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return s.deny(ctx, entry, ReasonPremiumRequired)
		}
	}

	entry.AccessStatus = models.AccessGranted
	saved, err := s.repo.AppendAccessLog(ctx, entry)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViewCount(ctx, contentID); err != nil {
		s.log.Warn("failed to increment view count", slog.Int64("content_id", contentID), sl.Err(err))
	}

	return &Decision{Allowed: true, Entry: saved}, nil
}

func (s *Service) deny(ctx context.Context, entry models.AccessLogEntry, reason string) (*Decision, error) {
	entry.AccessStatus = models.AccessDenied
	saved, err := s.repo.AppendAccessLog(ctx, entry)
	if err != nil {
		return nil, err
	}
	return &Decision{Allowed: false, Reason: reason, Entry: saved}, nil
}

func (s *Service) hasActiveSubscription(ctx context.Context, userUID string) (bool, error) {
	sub, err := s.repo.GetActiveSubscriptionByUser(ctx, userUID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if sub.EndDate.Before(time.Now().UTC()) {
		if err := s.repo.MarkSubscriptionExpired(ctx, sub.ID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// History возвращает журнал попыток доступа пользователя с пагинацией.
func (s *Service) History(ctx context.Context, userUID string, limit, offset int) ([]*models.AccessLogEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListAccessLogsByUser(ctx, userUID, limit, offset)
}
