package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"innstay/config"
	"innstay/infras/kafka"
	"innstay/infras/otel"
	"innstay/internal/domains/notification/model"
	"innstay/internal/domains/notification/model/dto"
	"innstay/internal/domains/notification/repository"
	"innstay/shared"
	"innstay/shared/constant"
	gDto "innstay/shared/dto"
	"innstay/shared/failure"
	"innstay/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Notification interface {
	// Notify publishes a notification event for the given user. Delivery is
	// fire-and-forget; failures are logged and never surfaced to the caller.
	Notify(ctx context.Context, userID, title, body string)
	GetMy(ctx context.Context, req gDto.QueryParams) (dto.GetNotificationsResponse, error)
	MarkRead(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Notification
	kafka kafka.Client
	cfg   *config.Config
	otel  otel.Otel
}

func New(repo repository.Notification, kafkaClient kafka.Client, cfg *config.Config, otel otel.Otel) Notification {
	return &serviceImpl{
		repo:  repo,
		kafka: kafkaClient,
		cfg:   cfg,
		otel:  otel,
	}
}

func (s *serviceImpl) Notify(ctx context.Context, userID, title, body string) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Notify")
	defer scope.End()

	event := dto.NotificationEvent{
		UserID: userID,
		Title:  title,
		Body:   body,
	}

	err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.Notifications, kafka.Message{
		Key:   userID,
		Value: event,
	})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", userID).Msg("failed to publish notification event")
	}
}

func (s *serviceImpl) GetMy(ctx context.Context, req gDto.QueryParams) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMy")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(user, model.FieldUserID, model.TableName)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	notification, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notification")

		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.ID == constant.Empty {
		return failure.NotFound("notification not found") // nolint:wrapcheck
	}

	if notification.UserID != user {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldRead:          true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to mark notification as read")

		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}
