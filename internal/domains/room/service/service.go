package service

import (
	"context"
	"fmt"

	"innstay/config"
	"innstay/infras/otel"
	hotelModel "innstay/internal/domains/hotel/model"
	hotelRepo "innstay/internal/domains/hotel/repository"
	"innstay/internal/domains/room/model"
	"innstay/internal/domains/room/model/dto"
	"innstay/internal/domains/room/repository"
	"innstay/shared"
	"innstay/shared/cache"
	"innstay/shared/constant"
	gDto "innstay/shared/dto"
	"innstay/shared/failure"
	"innstay/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	SetStatus(ctx context.Context, req dto.SetRoomStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Room
	hotelRepo hotelRepo.Hotel
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Room, hotelRepo hotelRepo.Hotel, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Room {
	return &serviceImpl{
		repo:      repo,
		hotelRepo: hotelRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	hotel, err := s.hotelRepo.Get(ctx, shared.FilterByID(req.HotelID, hotelModel.FieldID, hotelModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if hotel exists")

		return fmt.Errorf("failed to check if hotel exists: %w", err)
	}

	if hotel.ID == constant.Empty {
		return failure.BadRequestFromString("hotel does not exist") // nolint:wrapcheck
	}

	if err = s.callerOwnsHotel(ctx, hotel); err != nil {
		return err
	}

	taken, err := s.repo.Exist(ctx, filterByHotelAndNumber(req.HotelID, req.Number))
	if err != nil {
		log.Error().Err(err).Msg("failed to check room number uniqueness")

		return fmt.Errorf("failed to check room number uniqueness: %w", err)
	}

	if taken {
		return failure.Conflict(fmt.Sprintf("room number %s already exists in this hotel", req.Number)) // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create room")

		return fmt.Errorf("failed to create room: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	currentRoom, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return fmt.Errorf("failed to check room existence: %w", err)
	}

	if currentRoom.ID == constant.Empty {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	if err = s.callerManagesRoom(ctx, currentRoom); err != nil {
		return err
	}

	// Changing the number re-runs the per-hotel uniqueness check.
	if req.Number != constant.Empty && req.Number != currentRoom.Number {
		other, err := s.repo.Get(ctx, filterByHotelAndNumber(currentRoom.HotelID, req.Number))
		if err != nil {
			log.Error().Err(err).Msg("failed to check room number uniqueness")

			return fmt.Errorf("failed to check room number uniqueness: %w", err)
		}

		if other.ID != constant.Empty && other.ID != currentRoom.ID {
			return failure.Conflict(fmt.Sprintf("room number %s already exists in this hotel", req.Number)) // nolint:wrapcheck
		}
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) SetStatus(ctx context.Context, req dto.SetRoomStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !model.ValidStatus(req.Status) {
		return failure.BadRequestFromString("invalid room status") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	room, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return fmt.Errorf("failed to check room existence: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	if err = s.callerManagesRoom(ctx, room); err != nil {
		return err
	}

	updatedFields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to set room status")

		return fmt.Errorf("failed to set room status: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	if err = s.callerManagesRoom(ctx, room); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// callerManagesRoom resolves the room's hotel and defers to
// callerOwnsHotel. Inventory mutations are reserved for the admin who
// registered the hotel.
func (s *serviceImpl) callerManagesRoom(ctx context.Context, room model.Room) error {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role == constant.RoleSuperAdmin {
		return nil
	}

	hotel, err := s.hotelRepo.Get(ctx, shared.FilterByID(room.HotelID, hotelModel.FieldID, hotelModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel for room")

		return fmt.Errorf("failed to get hotel for room: %w", err)
	}

	return s.callerOwnsHotel(ctx, hotel)
}

func (s *serviceImpl) callerOwnsHotel(ctx context.Context, hotel hotelModel.Hotel) error {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role == constant.RoleSuperAdmin {
		return nil
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if hotel.UserID != user {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()
}

func filterByHotelAndNumber(hotelID, number string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldHotelID,
				Operator: gDto.FilterOperatorEq,
				Value:    hotelID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldNumber,
				Operator: gDto.FilterOperatorEq,
				Value:    number,
				Table:    model.TableName,
			},
		},
	}
}
