// Package notifier собирает приложение отправки почтовых уведомлений.
package notifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/streamhub/streamhub/internal/config"
	smtpclient "github.com/streamhub/streamhub/internal/lib/smtp"
	"github.com/streamhub/streamhub/internal/rabbitmq"
	notifierservice "github.com/streamhub/streamhub/internal/services/notifier"
)

// App представляет приложение отправки уведомлений.
type App struct {
	conn            *amqp.Connection
	ch              *amqp.Channel
	notifierService *notifierservice.Service
	logger          *slog.Logger
}

// New создает новый экземпляр приложения уведомлений.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtpclient.NewTransport(cfg, logger)
	notifierService := notifierservice.New(transport, logger)

	return &App{
		conn:            conn,
		ch:              ch,
		notifierService: notifierService,
		logger:          logger,
	}, nil
}

// Run запускает потребителей очередей уведомлений до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, a.logger, "notification.upcoming", a.notifierService.SendUpcomingExpiry)
	if err != nil {
		a.logger.Error("failed to start notification.upcoming consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, a.logger, "notification.expired", a.notifierService.SendExpiredNotice)
	if err != nil {
		a.logger.Error("failed to start notification.expired consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
