package service

import (
	"context"
	"fmt"

	"innstay/config"
	"innstay/infras/otel"
	"innstay/internal/domains/hotel/model"
	"innstay/internal/domains/hotel/model/dto"
	"innstay/internal/domains/hotel/repository"
	"innstay/shared"
	"innstay/shared/cache"
	"innstay/shared/constant"
	gDto "innstay/shared/dto"
	"innstay/shared/failure"
	"innstay/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetHotel    = "hotel:get"
	cacheGetAllHotel = "hotel:gets"
	cacheCountHotel  = "hotel:count"
)

type Hotel interface {
	Create(ctx context.Context, req dto.CreateHotelRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetHotelsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.HotelResponse, error)
	GetMy(ctx context.Context) (dto.HotelResponse, error)
	Update(ctx context.Context, req dto.UpdateHotelRequest, id string) error
	ChangeStatus(ctx context.Context, req dto.ChangeHotelStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Hotel
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Hotel, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Hotel {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateHotelRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	// One hotel per owner.
	exist, err := s.repo.Exist(ctx, shared.FilterByID(user, model.FieldUserID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check hotel ownership")

		return fmt.Errorf("failed to check hotel ownership: %w", err)
	}

	if exist {
		return failure.Conflict("you have already registered a hotel") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create hotel")

		return fmt.Errorf("failed to create hotel: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllHotel)
		shared.InvalidateCaches(c, s.cache, cacheCountHotel)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetHotelsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllHotel, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for hotels")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count hotels")

		return res, fmt.Errorf("failed to count hotels: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotels")

		return res, fmt.Errorf("failed to get hotels: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hotels to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountHotel, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for hotel count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count hotels")

		return res, fmt.Errorf("failed to count hotels: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hotel count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.HotelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetHotel, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for hotel")

		return res, nil
	}

	hotel, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel")

		return res, fmt.Errorf("failed to get hotel: %w", err)
	}

	if hotel.ID == constant.Empty {
		return res, failure.NotFound("hotel not found") // nolint:wrapcheck
	}

	res.FromModel(hotel)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hotel to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMy(ctx context.Context) (res dto.HotelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMy")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	hotel, err := s.repo.Get(ctx, shared.FilterByID(user, model.FieldUserID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get own hotel")

		return res, fmt.Errorf("failed to get own hotel: %w", err)
	}

	if hotel.ID == constant.Empty {
		return res, failure.NotFound("you have not registered a hotel") // nolint:wrapcheck
	}

	res.FromModel(hotel)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateHotelRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	hotel, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check hotel existence")

		return fmt.Errorf("failed to check hotel existence: %w", err)
	}

	if hotel.ID == constant.Empty {
		return failure.NotFound("hotel not found") // nolint:wrapcheck
	}

	if role != constant.RoleSuperAdmin && hotel.UserID != user {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update hotel")

		return fmt.Errorf("failed to update hotel: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// ChangeStatus moves a hotel through its registration lifecycle. The
// route is restricted to super admins by the permission table.
func (s *serviceImpl) ChangeStatus(ctx context.Context, req dto.ChangeHotelStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangeStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !model.ValidStatus(req.Status) {
		return failure.BadRequestFromString("invalid hotel status") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check hotel existence")

		return fmt.Errorf("failed to check hotel existence: %w", err)
	}

	if !exist {
		return failure.NotFound("hotel not found") // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to change hotel status")

		return fmt.Errorf("failed to change hotel status: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	hotel, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check hotel existence")

		return fmt.Errorf("failed to check hotel existence: %w", err)
	}

	if hotel.ID == constant.Empty {
		return failure.NotFound("hotel not found") // nolint:wrapcheck
	}

	if role != constant.RoleSuperAdmin && hotel.UserID != user {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete hotel")

		return fmt.Errorf("failed to delete hotel: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetHotel, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete hotel from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllHotel)
		shared.InvalidateCaches(c, s.cache, cacheCountHotel)
	}()
}
