package service

import (
	"context"
	"fmt"

	"innstay/config"
	"innstay/infras/otel"
	"innstay/internal/domains/payment/model"
	"innstay/internal/domains/payment/model/dto"
	"innstay/internal/domains/payment/repository"
	"innstay/shared"
	"innstay/shared/cache"
	"innstay/shared/constant"
	gDto "innstay/shared/dto"
	"innstay/shared/failure"
	"innstay/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllPayment = "payment:gets"
	cacheCountPayment  = "payment:count"
)

type Payment interface {
	Confirm(ctx context.Context, req dto.ConfirmPaymentRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPaymentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo  repository.Payment
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Payment, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Payment {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Confirm marks a payment COMPLETED given the gateway order reference.
// Idempotent; replaying a confirmation leaves the row untouched.
func (s *serviceImpl) Confirm(ctx context.Context, req dto.ConfirmPaymentRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(req.GatewayRef, model.FieldGatewayRef, model.TableName)

	payment, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return failure.NotFound("payment not found") // nolint:wrapcheck
	}

	if payment.Status == model.StatusCompleted {
		return nil
	}

	updatedFields := map[string]any{
		model.FieldStatus:        model.StatusCompleted,
		constant.FieldModifiedAt: timezone.Now(),
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to confirm payment")

		return fmt.Errorf("failed to confirm payment: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllPayment)
		shared.InvalidateCaches(c, s.cache, cacheCountPayment)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPayment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for payments")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountPayment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for payment count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payment count to cache")
		}
	}()

	return res, nil
}
