// Package scheduler собирает приложение фоновых обходов подписок.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/streamhub/streamhub/internal/config"
	"github.com/streamhub/streamhub/internal/rabbitmq"
	schedulerservice "github.com/streamhub/streamhub/internal/services/scheduler"
	"github.com/streamhub/streamhub/internal/storage/repository"
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservice.Service
	conn             *amqp.Connection
	ch               *amqp.Channel
	db               *repository.Storage
	logger           *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	for range 10 {
		if err := db.CheckDatabaseReady(ctx); err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := waitForDB(ctx, db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	schedulerService := schedulerservice.New(db, schedulerservice.ChannelPublisher{Channel: ch}, logger)

	return &App{
		schedulerService: schedulerService,
		conn:             conn,
		ch:               ch,
		db:               db,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run запускает обходы планировщика до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.schedulerService.RunExpireSweep(ctx)
	go a.schedulerService.RunUpcomingNotifications(ctx)

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close storage", slog.Any("err", err))
	}

	return nil
}
