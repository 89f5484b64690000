package models

import "time"

// AccessStatus результат проверки доступа к контенту.
type AccessStatus string

const (
	AccessGranted AccessStatus = "GRANTED"
	AccessDenied  AccessStatus = "DENIED"
)

// AccessLogEntry строка журнала попыток доступа к контенту.
// Журнал только пополняется, записи никогда не изменяются и не удаляются.
// ContentID обнуляется при удалении контента, заголовок сохраняется снимком.
type AccessLogEntry struct {
	ID                   int64        `json:"id"`
	ContentID            *int64       `json:"content_id,omitempty"`
	ContentTitleSnapshot string       `json:"content_title_snapshot,omitempty"`
	UserUID              string       `json:"user_uid"`
	AccessStatus         AccessStatus `json:"access_status"`
	IPAddress            string       `json:"ip_address,omitempty"`
	UserAgent            string       `json:"user_agent,omitempty"`
	OccurredAt           time.Time    `json:"occurred_at"`
}

// DummyAccessCheck используется для приёма данных из JSON-запроса на проверку доступа.
type DummyAccessCheck struct {
	UserUID string `json:"user_uid" validate:"required,uuid"`
}
