package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/streamhub/streamhub/internal/models"
)

const contentColumns = `id, title, description, content_type, content_url, duration_minutes,
	genre, release_date, rating, thumbnail_url, language, director, cast_members, metadata,
	status, is_available, is_premium, view_count, likes_count, updated_by, created_at, updated_at`

// catalogSortColumns белый список полей сортировки каталога.
// Неизвестное поле откатывается к created_at.
var catalogSortColumns = map[string]string{
	"title":        "title",
	"created_at":   "created_at",
	"rating":       "rating",
	"view_count":   "view_count",
	"likes_count":  "likes_count",
	"release_date": "release_date",
	"duration":     "duration_minutes",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (*models.Content, error) {
	var c models.Content
	var description, contentURL, genre, thumbnailURL, language, director, castMembers, metadata, updatedBy sql.NullString
	var durationMinutes sql.NullInt64
	var rating sql.NullFloat64
	var releaseDate sql.NullTime

	if err := row.Scan(&c.ID, &c.Title, &description, &c.ContentType, &contentURL,
		&durationMinutes, &genre, &releaseDate, &rating, &thumbnailURL, &language,
		&director, &castMembers, &metadata, &c.Status, &c.IsAvailable, &c.IsPremium,
		&c.ViewCount, &c.LikesCount, &updatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	c.Description = description.String
	c.ContentURL = contentURL.String
	c.DurationMinutes = int(durationMinutes.Int64)
	c.Genre = genre.String
	if releaseDate.Valid {
		c.ReleaseDate = &releaseDate.Time
	}
	c.Rating = rating.Float64
	c.ThumbnailURL = thumbnailURL.String
	c.Language = language.String
	c.Director = director.String
	c.Cast = castMembers.String
	c.Metadata = metadata.String
	c.UpdatedBy = updatedBy.String
	return &c, nil
}

// insertAudit добавляет строку в журнал аудита в рамках той же транзакции,
// что и фиксируемое изменение.
func insertAudit(ctx context.Context, tx *sql.Tx, table string, rowID int64, action models.AuditAction, changedBy, details string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO system_audit_logs (table_name, row_id, action, changed_by, details)
		 VALUES ($1, $2, $3, $4, $5)`,
		table, rowID, action, changedBy, details)
	return err
}

// CreateContent вставляет новую единицу каталога и возвращает сохраненную запись.
// Предварительная проверка заголовка — лишь оптимизация: решающим остается
// уникальное ограничение схемы, нарушение которого отображается в ErrDuplicateTitle.
func (s *Storage) CreateContent(ctx context.Context, c models.Content) (*models.Content, error) {
	const op = "storage.CreateContent"
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

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM content WHERE title = $1)`, c.Title).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", op, ErrDuplicateTitle)
	}

	query := `INSERT INTO content (title, description, content_type, content_url, duration_minutes,
				  genre, release_date, rating, thumbnail_url, language, director, cast_members,
				  metadata, status, is_available, is_premium, updated_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			  RETURNING ` + contentColumns
	row := tx.QueryRowContext(ctx, query,
		c.Title, nullString(c.Description), c.ContentType, nullString(c.ContentURL),
		nullInt(c.DurationMinutes), nullString(c.Genre), c.ReleaseDate, nullFloat(c.Rating),
		nullString(c.ThumbnailURL), nullString(c.Language), nullString(c.Director),
		nullString(c.Cast), nullString(c.Metadata), c.Status, c.IsAvailable, c.IsPremium,
		nullString(c.UpdatedBy))

	created, err := scanContent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateTitle)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := insertAudit(ctx, tx, "content", created.ID, models.AuditCreate, c.UpdatedBy, "title: "+c.Title); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetContent возвращает единицу каталога по её ID.
func (s *Storage) GetContent(ctx context.Context, id int64) (*models.Content, error) {
	const op = "storage.GetContent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM content WHERE id = $1`, id)
	c, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// UpdateContent выполняет частичное обновление зафиксированного набора полей.
// Поля со значением nil не трогаются, updated_at обновляется всегда.
// Переход статуса проверяется относительно текущего состояния записи.
func (s *Storage) UpdateContent(ctx context.Context, id int64, req models.UpdateContent) (*models.Content, error) {
	const op = "storage.UpdateContent"
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

	var current models.ContentStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM content WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	action := models.AuditUpdate
	if req.Status != nil {
		next := models.ContentStatus(*req.Status)
		if !current.CanTransitionTo(next) {
			return nil, fmt.Errorf("%s: %s -> %s: %w", op, current, next, ErrInvalidStatusTransition)
		}
		if next != current {
			action = models.AuditStatusChange
		}
	}

	query := `UPDATE content
			  SET title = COALESCE($1, title),
			      description = COALESCE($2, description),
			      content_type = COALESCE($3, content_type),
			      genre = COALESCE($4, genre),
			      language = COALESCE($5, language),
			      status = COALESCE($6, status),
			      metadata = COALESCE($7, metadata),
			      updated_by = COALESCE($8, updated_by),
			      updated_at = now()
			  WHERE id = $9
			  RETURNING ` + contentColumns
	row := tx.QueryRowContext(ctx, query,
		req.Title, req.Description, req.ContentType, req.Genre,
		req.Language, req.Status, req.Metadata, req.UpdatedBy, id)

	updated, err := scanContent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateTitle)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	changedBy := ""
	if req.UpdatedBy != nil {
		changedBy = *req.UpdatedBy
	}
	if err := insertAudit(ctx, tx, "content", id, action, changedBy, ""); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// DeleteContent безвозвратно удаляет единицу каталога.
// Строки журнала доступа сохраняются: внешний ключ обнуляется схемой,
// снимок заголовка остается в самой строке журнала.
func (s *Storage) DeleteContent(ctx context.Context, id int64, deletedBy string) error {
	const op = "storage.DeleteContent"
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

	var title string
	err = tx.QueryRowContext(ctx, `DELETE FROM content WHERE id = $1 RETURNING title`, id).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := insertAudit(ctx, tx, "content", id, models.AuditDelete, deletedBy, "title: "+title); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListCatalog возвращает страницу каталога и общее число записей под фильтром.
// Сортировка всегда дополняется id в том же направлении, чтобы страницы
// оставались стабильными при равных значениях ключа сортировки.
func (s *Storage) ListCatalog(ctx context.Context, filter models.CatalogFilter, query models.CatalogQuery) ([]*models.Content, int, error) {
	const op = "storage.ListCatalog"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where := " WHERE 1=1"
	args := []any{}
	if filter.ContentType != "" {
		args = append(args, filter.ContentType)
		where += fmt.Sprintf(" AND content_type = $%d", len(args))
	}
	if filter.Genre != "" {
		args = append(args, filter.Genre)
		where += fmt.Sprintf(" AND genre = $%d", len(args))
	}
	if filter.Keyword != "" {
		args = append(args, filter.Keyword)
		where += fmt.Sprintf(" AND title ILIKE '%%' || $%d || '%%'", len(args))
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT count(*) FROM content`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	sortColumn, ok := catalogSortColumns[query.SortField]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if query.SortDirection == models.SortAsc {
		direction = "ASC"
	}

	args = append(args, query.PageSize, query.Page*query.PageSize)
	listQuery := fmt.Sprintf(`SELECT %s FROM content%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		contentColumns, where, sortColumn, direction, direction, len(args)-1, len(args))

	rows, err := s.DB.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Content
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// ContentStats возвращает агрегированные счетчики каталога.
func (s *Storage) ContentStats(ctx context.Context) (*models.ContentStats, error) {
	const op = "storage.ContentStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var stats models.ContentStats
	err := s.DB.QueryRowContext(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE status = 'ACTIVE'),
		        count(*) FILTER (WHERE is_available),
		        count(*) FILTER (WHERE is_premium)
		 FROM content`).
		Scan(&stats.Total, &stats.Active, &stats.Available, &stats.Premium)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &stats, nil
}

// IncrementViewCount атомарно увеличивает счетчик просмотров.
// Инкремент выполняется одним UPDATE, без чтения-изменения-записи,
// чтобы конкурентные обращения не теряли обновления.
func (s *Storage) IncrementViewCount(ctx context.Context, id int64) error {
	const op = "storage.IncrementViewCount"
	result, err := s.DB.ExecContext(ctx,
		`UPDATE content SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// IncrementLikesCount атомарно увеличивает счетчик отметок "нравится".
func (s *Storage) IncrementLikesCount(ctx context.Context, id int64) error {
	const op = "storage.IncrementLikesCount"
	result, err := s.DB.ExecContext(ctx,
		`UPDATE content SET likes_count = likes_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i != 0}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f != 0}
}
