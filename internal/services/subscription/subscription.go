// Package subscription содержит бизнес-логику оформления и отмены подписок
// и приема платежных уведомлений.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streamhub/streamhub/internal/models"
)

// ErrInvalidTransactionStatus возвращается на платежное уведомление со
// статусом вне закрытого перечисления.
var ErrInvalidTransactionStatus = errors.New("unknown transaction status")

const defaultCurrency = "USD"

// Repository определяет методы для работы с подписками и платежами в хранилище.
type Repository interface {
	CreateSubscription(ctx context.Context, userUID string, planID int64, now time.Time) (*models.Subscription, error)
	GetSubscription(ctx context.Context, id int64) (*models.Subscription, error)
	CancelSubscription(ctx context.Context, id int64, cancelledBy string) (*models.Subscription, error)
	MarkSubscriptionExpired(ctx context.Context, id int64) error
	RegisterPayment(ctx context.Context, p models.PaymentTransaction) (*models.PaymentTransaction, models.SubscriptionStatus, error)
	ListPayments(ctx context.Context, subscriptionID int64) ([]*models.PaymentTransaction, error)
	ListActivePlans(ctx context.Context) ([]*models.Plan, error)
}

// Service реализует бизнес-логику подписок поверх хранилища.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Subscribe оформляет подписку пользователя на тарифный план.
func (s *Service) Subscribe(ctx context.Context, req models.DummySubscription) (*models.Subscription, error) {
	sub, err := s.repo.CreateSubscription(ctx, req.UserUID, req.PlanID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription created",
		slog.Int64("id", sub.ID),
		slog.String("user_uid", sub.UserUID),
		slog.Int64("plan_id", sub.PlanID))
	return sub, nil
}

// Get возвращает подписку по ID, предварительно переведя ее в EXPIRED,
// если срок действия уже прошел.
func (s *Service) Get(ctx context.Context, id int64) (*models.Subscription, error) {
	sub, err := s.repo.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubscriptionActive && sub.EndDate.Before(time.Now().UTC()) {
		if err := s.repo.MarkSubscriptionExpired(ctx, id); err != nil {
			return nil, err
		}
		sub.Status = models.SubscriptionExpired
	}
	return sub, nil
}

// Cancel переводит подписку в конечный статус CANCELLED.
func (s *Service) Cancel(ctx context.Context, id int64, cancelledBy string) (*models.Subscription, error) {
	sub, err := s.repo.CancelSubscription(ctx, id, cancelledBy)
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription cancelled", slog.Int64("id", id))
	return sub, nil
}

// RegisterPayment фиксирует платежное уведомление и возвращает созданную
// строку платежа вместе с итоговым статусом подписки. Валюта по умолчанию USD.
func (s *Service) RegisterPayment(ctx context.Context, req models.DummyPayment) (*models.PaymentTransaction, models.SubscriptionStatus, error) {
	status := models.TransactionStatus(req.Status)
	if !status.Valid() {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidTransactionStatus, req.Status)
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	payment := models.PaymentTransaction{
		SubscriptionID:   req.SubscriptionID,
		AmountCents:      req.AmountCents,
		Currency:         currency,
		PaymentMethod:    req.PaymentMethod,
		Status:           status,
		GatewayReference: req.GatewayReference,
		ErrorMessage:     req.ErrorMessage,
	}

	created, subStatus, err := s.repo.RegisterPayment(ctx, payment)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("payment registered",
		slog.Int64("payment_id", created.ID),
		slog.Int64("subscription_id", created.SubscriptionID),
		slog.String("transaction_status", string(created.Status)),
		slog.String("subscription_status", string(subStatus)))
	return created, subStatus, nil
}

// ListPayments возвращает платежные транзакции подписки от новых к старым.
func (s *Service) ListPayments(ctx context.Context, subscriptionID int64) ([]*models.PaymentTransaction, error) {
	return s.repo.ListPayments(ctx, subscriptionID)
}

// ListPlans возвращает активные тарифные планы.
func (s *Service) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	return s.repo.ListActivePlans(ctx)
}
