package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innstay/config"
	"innstay/infras/otel/mocks"
	paymentMocks "innstay/internal/domains/payment/mocks"
	"innstay/internal/domains/payment/model"
	"innstay/internal/domains/payment/model/dto"
	"innstay/internal/domains/payment/service"
	cacheMocks "innstay/shared/cache/mocks"
	"innstay/shared/failure"
)

var errCacheMiss = errors.New("cache miss")

func newService(t *testing.T) (service.Payment, *paymentMocks.MockPayment) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockRepo := paymentMocks.NewMockPayment(ctrl)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo
}

func TestPaymentService_Confirm(t *testing.T) {
	req := dto.ConfirmPaymentRequest{GatewayRef: "khalti-pidx-123"}

	t.Run("pending payment is completed", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{
			ID:     "payment-id",
			Status: model.StatusPending,
		}, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusCompleted, fields[model.FieldStatus])

				return nil
			})

		err := svc.Confirm(context.Background(), req)

		assert.NoError(t, err)
	})

	t.Run("replayed confirmation is a no-op", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{
			ID:     "payment-id",
			Status: model.StatusCompleted,
		}, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		err := svc.Confirm(context.Background(), req)

		assert.NoError(t, err)
	})

	t.Run("unknown gateway reference", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)

		err := svc.Confirm(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
