package consumer

import (
	"context"

	"innstay/config"
	"innstay/infras/kafka"
	"innstay/infras/otel"
	"innstay/internal/domains/notification/model/dto"
	"innstay/internal/domains/notification/repository"
	"innstay/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Consumer drains the notification topic and persists each event as a
// notification row.
type Consumer struct {
	repo  repository.Notification
	kafka kafka.Client
	cfg   *config.Config
	otel  otel.Otel
}

func New(repo repository.Notification, kafkaClient kafka.Client, cfg *config.Config, otel otel.Otel) *Consumer {
	return &Consumer{
		repo:  repo,
		kafka: kafkaClient,
		cfg:   cfg,
		otel:  otel,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	c.kafka.Consume(ctx, c.cfg.Kafka.ConsumerGroup, c.cfg.Kafka.Topics.Notifications, c.handle)
}

func (c *Consumer) handle(msg kafkaGo.Message) {
	ctx, scope := c.otel.NewScope(context.Background(), constant.OtelEventScopeName, constant.OtelEventScopeName+".HandleNotification")
	defer scope.End()

	decoded, err := kafka.DecodeKafkaMessage[dto.NotificationEvent](msg)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode notification event")

		return
	}

	event, ok := decoded.Value.(dto.NotificationEvent)
	if !ok {
		log.Error().Msg("unexpected notification event payload")

		return
	}

	if err := c.repo.Insert(ctx, event.ToModel()); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", event.UserID).Msg("failed to persist notification")
	}
}
