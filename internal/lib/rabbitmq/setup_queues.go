package rabbitmq

// ExchangeName is the direct exchange all engine notifications go through.
const ExchangeName = "notifications"

// Routing keys on the notifications exchange.
const (
	RoutingKeyExpiry       = "expiry"
	RoutingKeyReceipt      = "receipt"
	RoutingKeySubscription = "subscription"
)

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues lists the queues bound on startup: expiry reminders
// for the sender worker, the receipt lifecycle event feed and the
// subscription purchase/renewal feed. Each payload kind gets its own queue.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.expiry", RoutingKey: RoutingKeyExpiry},
		{QueueName: "receipt.events", RoutingKey: RoutingKeyReceipt},
		{QueueName: "subscription.events", RoutingKey: RoutingKeySubscription},
	}
}
