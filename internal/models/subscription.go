package models

import "time"

// SubscriptionStatus статус подписки, закрытое перечисление.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionPastDue   SubscriptionStatus = "PAST_DUE"
)

// Valid сообщает, входит ли значение в закрытое перечисление статусов.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionActive, SubscriptionExpired, SubscriptionCancelled, SubscriptionPastDue:
		return true
	}
	return false
}

// Cancellable сообщает, допускает ли статус явную отмену подписки.
// Отменить можно подписку в любом статусе кроме уже отмененной;
// CANCELLED — единственный конечный статус.
func (s SubscriptionStatus) Cancellable() bool {
	return s != SubscriptionCancelled
}

// Subscription связывает пользователя и тарифный план на период действия.
// У пользователя может быть не больше одной подписки в статусе ACTIVE,
// инвариант закреплен частичным уникальным индексом в хранилище.
type Subscription struct {
	ID        int64              `json:"id"`
	UserUID   string             `json:"user_uid"`
	PlanID    int64              `json:"plan_id"`
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	Status    SubscriptionStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// DummySubscription используется для приёма данных из JSON-запроса на оформление подписки.
type DummySubscription struct {
	UserUID string `json:"user_uid" validate:"required,uuid"`
	PlanID  int64  `json:"plan_id" validate:"required,gt=0"`
}

// SubscriptionInfo данные для уведомления об истечении подписки.
type SubscriptionInfo struct {
	SubscriptionID int64     `json:"subscription_id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	PlanName       string    `json:"plan_name"`
	EndDate        time.Time `json:"end_date"`
}
