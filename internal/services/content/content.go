// Package content содержит бизнес-логику управления единицами каталога:
// создание, чтение с кешированием, частичное обновление и удаление.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streamhub/streamhub/internal/models"
)

// Ошибки валидации входных данных, отдаваемые вызывающей стороне как клиентские.
var (
	ErrInvalidContentType = errors.New("unknown content type")
	ErrInvalidStatus      = errors.New("unknown content status")
	ErrInvalidReleaseDate = errors.New("release date must be in format 2006-01-02")
)

// Repository определяет методы для работы с каталогом в хранилище.
type Repository interface {
	// CreateContent добавляет единицу каталога и возвращает сохраненную запись.
	CreateContent(ctx context.Context, c models.Content) (*models.Content, error)
	// GetContent возвращает единицу каталога по ID.
	GetContent(ctx context.Context, id int64) (*models.Content, error)
	// UpdateContent выполняет частичное обновление зафиксированного набора полей.
	UpdateContent(ctx context.Context, id int64, req models.UpdateContent) (*models.Content, error)
	// DeleteContent безвозвратно удаляет единицу каталога.
	DeleteContent(ctx context.Context, id int64, deletedBy string) error
	// ContentStats возвращает агрегированные счетчики каталога.
	ContentStats(ctx context.Context) (*models.ContentStats, error)
	// IncrementLikesCount атомарно увеличивает счетчик отметок "нравится".
	IncrementLikesCount(ctx context.Context, id int64) error
	// ListAuditLogs возвращает журнал изменений строки таблицы.
	ListAuditLogs(ctx context.Context, tableName string, rowID int64) ([]*models.AuditLogEntry, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует бизнес-логику работы с каталогом, включая кеширование.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("content:%d", id)
}

// Create создает новую единицу каталога. Проставляет статус DRAFT, если он
// не указан, и проверяет значения закрытых перечислений на границе.
func (s *Service) Create(ctx context.Context, req models.DummyContent) (*models.Content, error) {
	contentType := models.ContentType(req.ContentType)
	if !contentType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentType, req.ContentType)
	}

	status := models.ContentDraft
	if req.Status != "" {
		status = models.ContentStatus(req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
		}
	}

	var releaseDate *time.Time
	if req.ReleaseDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidReleaseDate, req.ReleaseDate)
		}
		releaseDate = &parsed
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}
	isPremium := false
	if req.IsPremium != nil {
		isPremium = *req.IsPremium
	}

	entry := models.Content{
		Title:           req.Title,
		Description:     req.Description,
		ContentType:     contentType,
		ContentURL:      req.ContentURL,
		DurationMinutes: req.DurationMinutes,
		Genre:           req.Genre,
		ReleaseDate:     releaseDate,
		Rating:          req.Rating,
		ThumbnailURL:    req.ThumbnailURL,
		Language:        req.Language,
		Director:        req.Director,
		Cast:            req.Cast,
		Metadata:        req.Metadata,
		Status:          status,
		IsAvailable:     isAvailable,
		IsPremium:       isPremium,
		UpdatedBy:       req.CreatedBy,
	}

	created, err := s.repo.CreateContent(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.log.Info("created new content", slog.Int64("id", created.ID), slog.String("title", created.Title))

	if err := s.cache.Set(cacheKey(created.ID), created, time.Hour); err != nil {
		s.log.Warn("failed to cache content", slog.String("key", cacheKey(created.ID)), slog.Any("err", err))
	}

	return created, nil
}

// Read возвращает единицу каталога по ID, используя кеш или репозиторий.
func (s *Service) Read(ctx context.Context, id int64) (*models.Content, error) {
	var result *models.Content
	found, err := s.cache.Get(cacheKey(id), &result)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}
	if found && result != nil {
		return result, nil
	}

	result, err = s.repo.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey(id), result, time.Hour); err != nil {
		s.log.Warn("failed to cache content", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}
	return result, nil
}

// Update выполняет частичное обновление: изменяются только переданные поля
// из зафиксированного набора, остальные остаются без изменений.
func (s *Service) Update(ctx context.Context, id int64, req models.UpdateContent) (*models.Content, error) {
	if req.ContentType != nil && !models.ContentType(*req.ContentType).Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentType, *req.ContentType)
	}
	if req.Status != nil && !models.ContentStatus(*req.Status).Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
	}

	updated, err := s.repo.UpdateContent(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.log.Info("updated content", slog.Int64("id", id))

	if err := s.cache.Set(cacheKey(id), updated, time.Hour); err != nil {
		s.log.Warn("failed to refresh cached content", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}
	return updated, nil
}

// Delete безвозвратно удаляет единицу каталога и инвалидирует кеш.
func (s *Service) Delete(ctx context.Context, id int64, deletedBy string) error {
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to remove content from cache", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}
	if err := s.repo.DeleteContent(ctx, id, deletedBy); err != nil {
		return err
	}
	s.log.Info("deleted content", slog.Int64("id", id))
	return nil
}

// Stats возвращает агрегированные счетчики каталога.
func (s *Service) Stats(ctx context.Context) (*models.ContentStats, error) {
	return s.repo.ContentStats(ctx)
}

// AuditTrail возвращает журнал изменений единицы каталога от старых к новым.
// Журнал переживает удаление записи, поэтому наличие самой единицы
// не проверяется.
func (s *Service) AuditTrail(ctx context.Context, id int64) ([]*models.AuditLogEntry, error) {
	return s.repo.ListAuditLogs(ctx, "content", id)
}

// Like атомарно увеличивает счетчик отметок "нравится" и сбрасывает кеш,
// чтобы следующая выдача не вернула устаревший счетчик.
func (s *Service) Like(ctx context.Context, id int64) error {
	if err := s.repo.IncrementLikesCount(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cached content", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}
	return nil
}
