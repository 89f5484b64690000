// Package models содержит доменные структуры каталога и аккаунтов,
// а также вспомогательные типы для приёма данных из JSON-запросов.
// Статусные поля заданы закрытыми перечислениями и валидируются на границе.
package models

import "time"

// ContentType тип единицы каталога, закрытое перечисление.
type ContentType string

const (
	TypeMovie       ContentType = "MOVIE"
	TypeMusic       ContentType = "MUSIC"
	TypeEbook       ContentType = "EBOOK"
	TypeSeries      ContentType = "SERIES"
	TypePodcast     ContentType = "PODCAST"
	TypeDocumentary ContentType = "DOCUMENTARY"
	TypeStandUp     ContentType = "STAND_UP"
)

// Valid сообщает, входит ли значение в закрытое перечисление типов.
func (t ContentType) Valid() bool {
	switch t {
	case TypeMovie, TypeMusic, TypeEbook, TypeSeries, TypePodcast, TypeDocumentary, TypeStandUp:
		return true
	}
	return false
}

// ContentStatus статус жизненного цикла единицы каталога.
type ContentStatus string

const (
	ContentDraft    ContentStatus = "DRAFT"
	ContentActive   ContentStatus = "ACTIVE"
	ContentArchived ContentStatus = "ARCHIVED"
)

var contentStatusRank = map[ContentStatus]int{
	ContentDraft:    0,
	ContentActive:   1,
	ContentArchived: 2,
}

// Valid сообщает, входит ли значение в закрытое перечисление статусов.
func (s ContentStatus) Valid() bool {
	_, ok := contentStatusRank[s]
	return ok
}

// CanTransitionTo проверяет допустимость перехода статуса.
// Переходы только вперед: DRAFT -> ACTIVE -> ARCHIVED, возврат запрещен.
// Переход в тот же статус считается допустимым.
func (s ContentStatus) CanTransitionTo(next ContentStatus) bool {
	from, ok := contentStatusRank[s]
	if !ok {
		return false
	}
	to, ok := contentStatusRank[next]
	if !ok {
		return false
	}
	return to >= from
}

// Content представляет собой единицу каталога (фильм, музыка, книга и т.д.).
// Поля CreatedAt/UpdatedAt проставляются хранилищем при вставке и обновлении.
type Content struct {
	ID              int64         `json:"id"`
	Title           string        `json:"title"` // Уникальный заголовок
	Description     string        `json:"description"`
	ContentType     ContentType   `json:"content_type"`
	ContentURL      string        `json:"content_url,omitempty"`
	DurationMinutes int           `json:"duration_minutes,omitempty"`
	Genre           string        `json:"genre,omitempty"`
	ReleaseDate     *time.Time    `json:"release_date,omitempty"`
	Rating          float64       `json:"rating,omitempty"`
	ThumbnailURL    string        `json:"thumbnail_url,omitempty"`
	Language        string        `json:"language,omitempty"`
	Director        string        `json:"director,omitempty"`
	Cast            string        `json:"cast,omitempty"`
	Metadata        string        `json:"metadata,omitempty"`
	Status          ContentStatus `json:"status"`
	IsAvailable     bool          `json:"is_available"`
	IsPremium       bool          `json:"is_premium"`
	ViewCount       int64         `json:"view_count"`
	LikesCount      int64         `json:"likes_count"`
	UpdatedBy       string        `json:"updated_by,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// DummyContent используется для приёма данных из JSON-запроса на создание
// единицы каталога до их валидации и преобразования в Content.
type DummyContent struct {
	Title           string  `json:"title" validate:"required"`
	Description     string  `json:"description,omitempty"`
	ContentType     string  `json:"content_type" validate:"required"`
	ContentURL      string  `json:"content_url,omitempty"`
	DurationMinutes int     `json:"duration_minutes,omitempty" validate:"omitempty,gte=0"`
	Genre           string  `json:"genre,omitempty"`
	ReleaseDate     string  `json:"release_date,omitempty"` // Дата в формате 2006-01-02
	Rating          float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	ThumbnailURL    string  `json:"thumbnail_url,omitempty"`
	Language        string  `json:"language,omitempty"`
	Director        string  `json:"director,omitempty"`
	Cast            string  `json:"cast,omitempty"`
	Metadata        string  `json:"metadata,omitempty"`
	Status          string  `json:"status,omitempty"` // По умолчанию DRAFT
	IsAvailable     *bool   `json:"is_available,omitempty"`
	IsPremium       *bool   `json:"is_premium,omitempty"`
	CreatedBy       string  `json:"created_by,omitempty"`
}

// UpdateContent описывает частичное обновление единицы каталога.
// Обновляется только зафиксированный набор полей: title, description,
// content_type, genre, language, status, metadata, updated_by.
// Поле, равное nil, остается без изменений.
type UpdateContent struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ContentType *string `json:"content_type,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Language    *string `json:"language,omitempty"`
	Status      *string `json:"status,omitempty"`
	Metadata    *string `json:"metadata,omitempty"`
	UpdatedBy   *string `json:"updated_by,omitempty"`
}

// ContentStats агрегированные счетчики каталога.
type ContentStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Available int64 `json:"available"`
	Premium   int64 `json:"premium"`
}
