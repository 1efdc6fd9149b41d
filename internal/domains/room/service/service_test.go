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
	hotelModel "innstay/internal/domains/hotel/model"
	roomMocks "innstay/internal/domains/room/mocks"
	"innstay/internal/domains/room/model"
	"innstay/internal/domains/room/model/dto"
	"innstay/internal/domains/room/service"
	cacheMocks "innstay/shared/cache/mocks"
	"innstay/shared/constant"
	gDto "innstay/shared/dto"
	"innstay/shared/failure"
	gModel "innstay/shared/model"
	"innstay/shared/timezone"
)

var errCacheMiss = errors.New("cache miss")

func newService(t *testing.T) (service.Room, *roomMocks.MockRoom, *hotelMocks.MockHotel) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockHotelRepo := hotelMocks.NewMockHotel(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, mockHotelRepo, cfg, mockCache, mockOtel), mockRepo, mockHotelRepo
}

func userCtx(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func ownedHotel() hotelModel.Hotel {
	return hotelModel.Hotel{
		ID:     "hotel-id",
		Name:   "Annapurna View",
		UserID: "owner-id",
	}
}

func TestRoomService_Create(t *testing.T) {
	req := dto.CreateRoomRequest{
		HotelID:  "hotel-id",
		Name:     "Sunset Suite",
		Number:   "101",
		Type:     model.TypeDeluxe,
		Rate:     120.50,
		Capacity: 2,
	}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			ctx:  userCtx("owner-id", constant.RoleHotelAdmin),
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				hotelRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedHotel(), nil)

				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "hotel does not exist",
			ctx:  userCtx("owner-id", constant.RoleHotelAdmin),
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				hotelRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(hotelModel.Hotel{}, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "room for another admin's hotel",
			ctx:  userCtx("other-admin-id", constant.RoleHotelAdmin),
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				hotelRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedHotel(), nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name: "super admin may create anywhere",
			ctx:  userCtx("admin-id", constant.RoleSuperAdmin),
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				hotelRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedHotel(), nil)

				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "duplicate room number in hotel",
			ctx:  userCtx("owner-id", constant.RoleHotelAdmin),
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				hotelRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedHotel(), nil)

				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "repository error",
			ctx:  userCtx("owner-id", constant.RoleHotelAdmin),
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				hotelRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedHotel(), nil)

				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockHotelRepo := newService(t)
			tt.setupMock(mockRepo, mockHotelRepo)

			err := svc.Create(tt.ctx, req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_Update(t *testing.T) {
	currentRoom := model.Room{
		ID:      "room-id",
		HotelID: "hotel-id",
		Name:    "Sunset Suite",
		Number:  "101",
		Type:    model.TypeDeluxe,
		Status:  model.StatusAvailable,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "owner-id",
			ModifiedBy: "owner-id",
		},
	}

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.UpdateRoomRequest
		setupMock func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful update without number change",
			ctx:  userCtx("owner-id", constant.RoleHotelAdmin),
			req:  dto.UpdateRoomRequest{Name: "Moonrise Suite"},
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(currentRoom, nil)

				hotelRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedHotel(), nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "update of another admin's room",
			ctx:  userCtx("other-admin-id", constant.RoleHotelAdmin),
			req:  dto.UpdateRoomRequest{Name: "Moonrise Suite"},
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(currentRoom, nil)

				hotelRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedHotel(), nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name: "number change to taken number",
			ctx:  userCtx("owner-id", constant.RoleHotelAdmin),
			req:  dto.UpdateRoomRequest{Number: "102"},
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(currentRoom, nil)

				hotelRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedHotel(), nil)

				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{ID: "other-room-id", Number: "102"}, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "number change to free number",
			ctx:  userCtx("owner-id", constant.RoleHotelAdmin),
			req:  dto.UpdateRoomRequest{Number: "103"},
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(currentRoom, nil)

				hotelRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedHotel(), nil)

				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "room not found",
			ctx:  userCtx("owner-id", constant.RoleHotelAdmin),
			req:  dto.UpdateRoomRequest{Name: "Moonrise Suite"},
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockHotelRepo := newService(t)
			tt.setupMock(mockRepo, mockHotelRepo)

			err := svc.Update(tt.ctx, tt.req, "room-id")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_SetStatus(t *testing.T) {
	room := model.Room{ID: "room-id", HotelID: "hotel-id", Status: model.StatusAvailable}

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.SetRoomStatusRequest
		setupMock func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful status change",
			ctx:  userCtx("owner-id", constant.RoleHotelAdmin),
			req:  dto.SetRoomStatusRequest{Status: model.StatusOutOfService},
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)

				hotelRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedHotel(), nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "status change by another admin",
			ctx:  userCtx("other-admin-id", constant.RoleHotelAdmin),
			req:  dto.SetRoomStatusRequest{Status: model.StatusOutOfService},
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)

				hotelRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownedHotel(), nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name:      "invalid status",
			ctx:       userCtx("owner-id", constant.RoleHotelAdmin),
			req:       dto.SetRoomStatusRequest{Status: "Broken"},
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "room not found",
			ctx:  userCtx("owner-id", constant.RoleHotelAdmin),
			req:  dto.SetRoomStatusRequest{Status: model.StatusAvailable},
			setupMock: func(repo *roomMocks.MockRoom, hotelRepo *hotelMocks.MockHotel) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockHotelRepo := newService(t)
			tt.setupMock(mockRepo, mockHotelRepo)

			err := svc.SetStatus(tt.ctx, tt.req, "room-id")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_Delete(t *testing.T) {
	room := model.Room{ID: "room-id", HotelID: "hotel-id", Status: model.StatusAvailable}

	t.Run("owner may delete", func(t *testing.T) {
		svc, mockRepo, mockHotelRepo := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
		mockHotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedHotel(), nil)
		mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Delete(userCtx("owner-id", constant.RoleHotelAdmin), room.ID)

		assert.NoError(t, err)
	})

	t.Run("another admin may not delete", func(t *testing.T) {
		svc, mockRepo, mockHotelRepo := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
		mockHotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedHotel(), nil)
		mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

		err := svc.Delete(userCtx("other-admin-id", constant.RoleHotelAdmin), room.ID)

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})
}

func TestRoomService_GetAll(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *roomMocks.MockRoom)
		wantErr   bool
		wantTotal int
	}{
		{
			name: "successful get all",
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Room{{ID: "room-id", Number: "101"}}, nil)
			},
			wantErr:   false,
			wantTotal: 1,
		},
		{
			name: "count error",
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, errors.New("count error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newService(t)
			tt.setupMock(mockRepo)

			result, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantTotal, result.TotalData)
			}
		})
	}
}
