package models

// Plan тарифный план подписки.
// Цена хранится в минорных единицах валюты (центах).
type Plan struct {
	ID           int64  `json:"id"`
	PlanName     string `json:"plan_name"`
	PriceCents   int64  `json:"price_cents"`
	Currency     string `json:"currency"`
	DurationDays int    `json:"duration_days"`
	Features     string `json:"features,omitempty"` // JSON-описание возможностей плана
	IsActive     bool   `json:"is_active"`
}
