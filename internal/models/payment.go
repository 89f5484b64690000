package models

import "time"

// TransactionStatus статус платежной транзакции, закрытое перечисление.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "PENDING"
	TransactionSuccess TransactionStatus = "SUCCESS"
	TransactionFailed  TransactionStatus = "FAILED"
)

// Valid сообщает, входит ли значение в закрытое перечисление статусов.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionSuccess, TransactionFailed:
		return true
	}
	return false
}

// PaymentTransaction запись журнала платежей. Статус фиксируется в момент
// создания, запись неизменяема: повторная попытка оплаты — это новая строка,
// привязанная к той же подписке.
type PaymentTransaction struct {
	ID               int64             `json:"id"`
	SubscriptionID   int64             `json:"subscription_id"`
	UserUID          string            `json:"user_uid"`
	AmountCents      int64             `json:"amount_cents"` // Сумма в минорных единицах валюты
	Currency         string            `json:"currency"`
	PaymentMethod    string            `json:"payment_method"`
	Status           TransactionStatus `json:"transaction_status"`
	GatewayReference string            `json:"gateway_reference,omitempty"`
	ErrorMessage     string            `json:"error_message,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// DummyPayment используется для приёма уведомления платежного шлюза
// до его валидации и преобразования в PaymentTransaction.
type DummyPayment struct {
	SubscriptionID   int64  `json:"subscription_id" validate:"required,gt=0"`
	AmountCents      int64  `json:"amount_cents" validate:"required,gt=0"`
	Currency         string `json:"currency,omitempty"`
	PaymentMethod    string `json:"payment_method" validate:"required"`
	Status           string `json:"transaction_status" validate:"required"`
	GatewayReference string `json:"gateway_reference,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
}
