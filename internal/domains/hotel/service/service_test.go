package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innstay/config"
	"innstay/infras/otel/mocks"
	hotelMocks "innstay/internal/domains/hotel/mocks"
	"innstay/internal/domains/hotel/model"
	"innstay/internal/domains/hotel/model/dto"
	"innstay/internal/domains/hotel/service"
	cacheMocks "innstay/shared/cache/mocks"
	"innstay/shared/constant"
	"innstay/shared/failure"
)

var errCacheMiss = errors.New("cache miss")

func userCtx(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func newService(t *testing.T) (service.Hotel, *hotelMocks.MockHotel) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockRepo := hotelMocks.NewMockHotel(ctrl)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo
}

func TestHotelService_Create(t *testing.T) {
	req := dto.CreateHotelRequest{
		Name:    "Annapurna View",
		Address: "Lakeside, Pokhara",
	}

	t.Run("successful registration", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, hotel model.Hotel) error {
				assert.Equal(t, model.StatusPending, hotel.Status)
				assert.Equal(t, "owner-id", hotel.UserID)

				return nil
			})

		err := svc.Create(userCtx("owner-id", constant.RoleHotelAdmin), req)

		assert.NoError(t, err)
	})

	t.Run("second hotel for the same owner is rejected", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := svc.Create(userCtx("owner-id", constant.RoleHotelAdmin), req)

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})
}

func TestHotelService_ChangeStatus(t *testing.T) {
	t.Run("approve pending hotel", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusApproved, fields[model.FieldStatus])

				return nil
			})

		err := svc.ChangeStatus(
			userCtx("admin-id", constant.RoleSuperAdmin),
			dto.ChangeHotelStatusRequest{Status: model.StatusApproved},
			"hotel-id",
		)

		assert.NoError(t, err)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		svc, _ := newService(t)

		err := svc.ChangeStatus(
			userCtx("admin-id", constant.RoleSuperAdmin),
			dto.ChangeHotelStatusRequest{Status: "OPEN"},
			"hotel-id",
		)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("missing hotel", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.ChangeStatus(
			userCtx("admin-id", constant.RoleSuperAdmin),
			dto.ChangeHotelStatusRequest{Status: model.StatusCancelled},
			"hotel-id",
		)

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestHotelService_Update(t *testing.T) {
	existing := model.Hotel{ID: "hotel-id", UserID: "owner-id"}

	t.Run("owner may update", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Update(
			userCtx("owner-id", constant.RoleHotelAdmin),
			dto.UpdateHotelRequest{Name: "Annapurna Grand"},
			existing.ID,
		)

		assert.NoError(t, err)
	})

	t.Run("other hotel admin may not update", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)

		err := svc.Update(
			userCtx("intruder-id", constant.RoleHotelAdmin),
			dto.UpdateHotelRequest{Name: "Annapurna Grand"},
			existing.ID,
		)

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("super admin may update", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Update(
			userCtx("admin-id", constant.RoleSuperAdmin),
			dto.UpdateHotelRequest{Name: "Annapurna Grand"},
			existing.ID,
		)

		assert.NoError(t, err)
	})
}
