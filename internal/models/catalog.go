package models

import "strings"

// SortDirection направление сортировки выдачи каталога.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ParseSortDirection разбирает направление сортировки из запроса.
// Сравнение без учета регистра, любое значение кроме "asc" трактуется
// как сортировка по убыванию.
func ParseSortDirection(raw string) SortDirection {
	if strings.EqualFold(raw, "asc") {
		return SortAsc
	}
	return SortDesc
}

// CatalogQuery параметры пагинации и сортировки выдачи каталога.
type CatalogQuery struct {
	Page          int // Номер страницы, отсчет с нуля
	PageSize      int
	SortField     string
	SortDirection SortDirection
}

// CatalogFilter необязательный фильтр выдачи: по типу, по жанру или
// по подстроке заголовка без учета регистра. Пустые поля не фильтруют.
type CatalogFilter struct {
	ContentType string
	Genre       string
	Keyword     string
}

// MediaItem элемент каталога в ответе API.
type MediaItem struct {
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Genre        string  `json:"genre,omitempty"`
	Language     string  `json:"language,omitempty"`
	Type         string  `json:"type"`
	Rating       float64 `json:"rating,omitempty"`
	ThumbnailURL string  `json:"thumbnailURL,omitempty"`
	Duration     int     `json:"duration,omitempty"`
}
