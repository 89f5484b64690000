package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/streamhub/streamhub/internal/models"
)

// AppendAccessLog добавляет строку в журнал попыток доступа.
// Журнал только пополняется; отметка времени проставляется в момент вставки.
func (s *Storage) AppendAccessLog(ctx context.Context, entry models.AccessLogEntry) (*models.AccessLogEntry, error) {
	const op = "storage.AppendAccessLog"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`INSERT INTO access_control_logs (content_id, content_title_snapshot, user_uid,
			 access_status, ip_address, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, occurred_at`,
		entry.ContentID, nullString(entry.ContentTitleSnapshot), entry.UserUID,
		entry.AccessStatus, nullString(entry.IPAddress), nullString(entry.UserAgent))
	if err := row.Scan(&entry.ID, &entry.OccurredAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &entry, nil
}

// ListAccessLogsByUser возвращает журнал попыток доступа пользователя с пагинацией.
func (s *Storage) ListAccessLogsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.AccessLogEntry, error) {
	const op = "storage.ListAccessLogsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, content_id, content_title_snapshot, user_uid, access_status,
			 ip_address, user_agent, occurred_at
		 FROM access_control_logs
		 WHERE user_uid = $1
		 ORDER BY occurred_at DESC, id DESC
		 LIMIT $2 OFFSET $3`, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.AccessLogEntry
	for rows.Next() {
		var entry models.AccessLogEntry
		var contentID sql.NullInt64
		var titleSnapshot, ipAddress, userAgent sql.NullString
		if err := rows.Scan(&entry.ID, &contentID, &titleSnapshot, &entry.UserUID,
			&entry.AccessStatus, &ipAddress, &userAgent, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if contentID.Valid {
			entry.ContentID = &contentID.Int64
		}
		entry.ContentTitleSnapshot = titleSnapshot.String
		entry.IPAddress = ipAddress.String
		entry.UserAgent = userAgent.String
		result = append(result, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAuditLogs возвращает журнал изменений указанной строки таблицы.
func (s *Storage) ListAuditLogs(ctx context.Context, tableName string, rowID int64) ([]*models.AuditLogEntry, error) {
	const op = "storage.ListAuditLogs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, table_name, row_id, action, changed_by, details, created_at
		 FROM system_audit_logs
		 WHERE table_name = $1 AND row_id = $2
		 ORDER BY id`, tableName, rowID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.AuditLogEntry
	for rows.Next() {
		var entry models.AuditLogEntry
		var changedBy, details sql.NullString
		if err := rows.Scan(&entry.ID, &entry.TableName, &entry.RowID, &entry.Action,
			&changedBy, &details, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		entry.ChangedBy = changedBy.String
		entry.Details = details.String
		result = append(result, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
