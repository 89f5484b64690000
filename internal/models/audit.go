package models

import "time"

// AuditAction вид изменения, фиксируемый в журнале аудита.
type AuditAction string

const (
	AuditCreate       AuditAction = "CREATE"
	AuditUpdate       AuditAction = "UPDATE"
	AuditDelete       AuditAction = "DELETE"
	AuditStatusChange AuditAction = "STATUS_CHANGE"
)

// AuditLogEntry строка журнала изменений отслеживаемых таблиц.
// Запись добавляется в той же транзакции, что и само изменение.
type AuditLogEntry struct {
	ID        int64       `json:"id"`
	TableName string      `json:"table_name"`
	RowID     int64       `json:"row_id"`
	Action    AuditAction `json:"action"`
	ChangedBy string      `json:"changed_by,omitempty"`
	Details   string      `json:"details,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
