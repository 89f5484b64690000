package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/streamhub/streamhub/internal/lib/sl"
)

// maxInflight ограничивает число одновременно обрабатываемых сообщений,
// согласован с prefetch-значением канала.
const maxInflight = 10

// ConsumerMessage подписывается на очередь и обрабатывает сообщения до отмены
// контекста. Ошибка обработчика возвращает сообщение в очередь через nack.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, log *slog.Logger, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, maxInflight)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(delivery amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(delivery.Body); err != nil {
						if nackErr := delivery.Nack(false, true); nackErr != nil {
							log.Error("failed to nack message", slog.String("queue", queueName), sl.Err(nackErr))
						}
						return
					}
					if ackErr := delivery.Ack(false); ackErr != nil {
						log.Error("failed to ack message", slog.String("queue", queueName), sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
