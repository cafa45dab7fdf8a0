package messaging

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisPublisher creates a redis-stream publisher for lifecycle events.
func NewRedisPublisher(client *redis.Client, logger *zap.Logger) (message.Publisher, error) {
	return redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: client},
		NewZapLoggerAdapter(logger),
	)
}

// NewRedisSubscriber creates a redis-stream subscriber. No consumer group
// is used: every bound subscriber reads the whole stream from its tail, so
// events fan out to all currently-connected subscribers and subscribers
// that bind later miss earlier events.
func NewRedisSubscriber(client *redis.Client, logger *zap.Logger) (message.Subscriber, error) {
	return redisstream.NewSubscriber(
		redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: "",
		},
		NewZapLoggerAdapter(logger),
	)
}
