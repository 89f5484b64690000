// Package scheduler содержит фоновые обходы подписок: перевод просроченных
// в EXPIRED и публикация уведомлений в RabbitMQ.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/streamhub/streamhub/internal/lib/sl"
	"github.com/streamhub/streamhub/internal/models"
	"github.com/streamhub/streamhub/internal/rabbitmq"
)

// SubscriptionRepository определяет методы хранилища для фоновых обходов.
type SubscriptionRepository interface {
	ExpireDueSubscriptions(ctx context.Context, now time.Time) ([]int64, error)
	FindSubscriptionsExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.SubscriptionInfo, error)
}

// Publisher публикует сообщение в обменник с ключом маршрутизации.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// ChannelPublisher адаптирует канал RabbitMQ под интерфейс Publisher.
type ChannelPublisher struct {
	Channel *amqp.Channel
}

func (p ChannelPublisher) Publish(exchange, routingKey string, message any) error {
	return rabbitmq.PublishMessage(p.Channel, exchange, routingKey, message)
}

// ExpiredMessage сообщение о подписке, переведенной в EXPIRED при обходе.
type ExpiredMessage struct {
	SubscriptionID int64 `json:"subscription_id"`
}

// Service выполняет периодические обходы подписок.
type Service struct {
	repo SubscriptionRepository
	pub  Publisher
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo SubscriptionRepository, pub Publisher, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		pub:  pub,
		log:  log,
	}
}

// RunExpireSweep немедленно выполняет обход просроченных подписок и далее
// повторяет его каждые 12 часов до отмены контекста.
func (s *Service) RunExpireSweep(ctx context.Context) {
	s.expireSweep(ctx)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.expireSweep(ctx)
		}
	}
}

func (s *Service) expireSweep(ctx context.Context) {
	s.log.Info("starting sweep of overdue subscriptions")
	ids, err := s.repo.ExpireDueSubscriptions(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error("failed to expire overdue subscriptions", sl.Err(err))
		return
	}
	if len(ids) == 0 {
		s.log.Info("no overdue subscriptions found")
		return
	}
	s.log.Info("expired overdue subscriptions", "count", len(ids))
	for _, id := range ids {
		if err := s.pub.Publish("notifications", "expired", ExpiredMessage{SubscriptionID: id}); err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}

// RunUpcomingNotifications немедленно выполняет поиск подписок, истекающих
// в ближайшие сутки, и далее повторяет его каждые 24 часа до отмены контекста.
func (s *Service) RunUpcomingNotifications(ctx context.Context) {
	s.notifyUpcoming(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.notifyUpcoming(ctx)
		}
	}
}

func (s *Service) notifyUpcoming(ctx context.Context) {
	s.log.Info("starting search for subscriptions expiring within a day")
	now := time.Now().UTC()
	infos, err := s.repo.FindSubscriptionsExpiringBetween(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	if len(infos) == 0 {
		s.log.Info("no expiring subscriptions found")
		return
	}
	s.log.Info("found expiring subscriptions", "count", len(infos))
	for _, info := range infos {
		if err := s.pub.Publish("notifications", "upcoming", info); err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
