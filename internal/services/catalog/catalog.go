// Package catalog собирает публичную выдачу каталога: фильтрация, пагинация,
// сортировка и сборка конверта ответа.
package catalog

import (
	"context"
	"log/slog"

	"github.com/streamhub/streamhub/internal/lib/sl"
	"github.com/streamhub/streamhub/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	defaultSort     = "created_at"
)

// Repository определяет методы чтения каталога из хранилища.
type Repository interface {
	ListCatalog(ctx context.Context, filter models.CatalogFilter, query models.CatalogQuery) ([]*models.Content, int, error)
}

// Envelope конверт выдачи каталога. Count считается по элементам текущей
// страницы, Total — по всей выборке до пагинации.
type Envelope struct {
	Status     string                        `json:"status"`
	Message    string                        `json:"message,omitempty"`
	Count      int                           `json:"count"`
	Page       int                           `json:"page"`
	Total      int                           `json:"total"`
	Categories map[string][]models.MediaItem `json:"categories"`
}

// Service реализует выдачу каталога поверх хранилища.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func normalize(query models.CatalogQuery) models.CatalogQuery {
	if query.Page < 0 {
		query.Page = 0
	}
	if query.PageSize <= 0 {
		query.PageSize = defaultPageSize
	}
	if query.PageSize > maxPageSize {
		query.PageSize = maxPageSize
	}
	if query.SortField == "" {
		query.SortField = defaultSort
	}
	return query
}

func toMediaItem(c *models.Content) models.MediaItem {
	return models.MediaItem{
		Title:        c.Title,
		Description:  c.Description,
		Genre:        c.Genre,
		Language:     c.Language,
		Type:         string(c.ContentType),
		Rating:       c.Rating,
		ThumbnailURL: c.ThumbnailURL,
		Duration:     c.DurationMinutes,
	}
}

// List возвращает страницу каталога в конверте ответа. Ошибки чтения не
// пробрасываются наружу: выдача деградирует до конверта со статусом "error"
// и пустым списком, чтобы витрина оставалась доступной.
func (s *Service) List(ctx context.Context, filter models.CatalogFilter, query models.CatalogQuery) *Envelope {
	query = normalize(query)

	items, total, err := s.repo.ListCatalog(ctx, filter, query)
	if err != nil {
		s.log.Error("catalog listing failed", sl.Err(err))
		return &Envelope{
			Status:     "error",
			Message:    "catalog is temporarily unavailable",
			Page:       query.Page,
			Categories: map[string][]models.MediaItem{"media": {}},
		}
	}

	media := make([]models.MediaItem, 0, len(items))
	for _, item := range items {
		media = append(media, toMediaItem(item))
	}

	return &Envelope{
		Status:     "success",
		Count:      len(media),
		Page:       query.Page,
		Total:      total,
		Categories: map[string][]models.MediaItem{"media": media},
	}
}

// ListByType возвращает страницу каталога, отфильтрованную по типу контента.
func (s *Service) ListByType(ctx context.Context, contentType string, query models.CatalogQuery) *Envelope {
	return s.List(ctx, models.CatalogFilter{ContentType: contentType}, query)
}

// ListByGenre возвращает страницу каталога, отфильтрованную по жанру.
func (s *Service) ListByGenre(ctx context.Context, genre string, query models.CatalogQuery) *Envelope {
	return s.List(ctx, models.CatalogFilter{Genre: genre}, query)
}

// Search возвращает страницу каталога по подстроке заголовка без учета регистра.
func (s *Service) Search(ctx context.Context, keyword string, query models.CatalogQuery) *Envelope {
	return s.List(ctx, models.CatalogFilter{Keyword: keyword}, query)
}
