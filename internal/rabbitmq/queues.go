package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди для воркера уведомлений:
// expired — подписки, переведенные в EXPIRED при очередном обходе,
// upcoming — подписки, срок действия которых истекает завтра.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.expired", RoutingKey: "expired"},
		{QueueName: "notification.upcoming", RoutingKey: "upcoming"},
	}
}
