package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innstay/config"
	"innstay/infras/khalti"
	khaltiMocks "innstay/infras/khalti/mocks"
	mailMocks "innstay/infras/mail/mocks"
	"innstay/infras/otel/mocks"
	hotelMocks "innstay/internal/domains/hotel/mocks"
	hotelModel "innstay/internal/domains/hotel/model"
	notificationMocks "innstay/internal/domains/notification/mocks"
	paymentMocks "innstay/internal/domains/payment/mocks"
	paymentModel "innstay/internal/domains/payment/model"
	reservationMocks "innstay/internal/domains/reservation/mocks"
	"innstay/internal/domains/reservation/model"
	"innstay/internal/domains/reservation/model/dto"
	"innstay/internal/domains/reservation/service"
	roomMocks "innstay/internal/domains/room/mocks"
	roomModel "innstay/internal/domains/room/model"
	userMocks "innstay/internal/domains/user/mocks"
	userModel "innstay/internal/domains/user/model"
	cacheMocks "innstay/shared/cache/mocks"
	"innstay/shared/constant"
	"innstay/shared/failure"
)

var errCacheMiss = errors.New("cache miss")

func userModelStub() userModel.User {
	return userModel.User{
		ID:       "owner-id",
		Email:    "owner@example.com",
		FullName: "Hotel Owner",
		Role:     constant.RoleHotelAdmin,
	}
}

// passthroughTx runs the unit of work directly; a returned error stands
// in for a rolled back transaction.
type passthroughTx struct{}

func (passthroughTx) WithTransaction(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type fixture struct {
	svc         service.Reservation
	repo        *reservationMocks.MockReservation
	roomRepo    *roomMocks.MockRoom
	hotelRepo   *hotelMocks.MockHotel
	userRepo    *userMocks.MockUser
	paymentRepo *paymentMocks.MockPayment
	gateway     *khaltiMocks.MockGateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:        reservationMocks.NewMockReservation(ctrl),
		roomRepo:    roomMocks.NewMockRoom(ctrl),
		hotelRepo:   hotelMocks.NewMockHotel(ctrl),
		userRepo:    userMocks.NewMockUser(ctrl),
		paymentRepo: paymentMocks.NewMockPayment(ctrl),
		gateway:     khaltiMocks.NewMockGateway(ctrl),
	}

	mockMailer := mailMocks.NewMockSender(ctrl)
	mockNotification := notificationMocks.NewMockNotificationService(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	// Side effects run in goroutines; they may or may not land before the
	// test finishes.
	mockMailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockNotification.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModelStub(), nil).AnyTimes()

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Payment.Khalti.ReturnURL = "https://innstay.example/payment/return"
	cfg.Payment.Khalti.WebsiteURL = "https://innstay.example"

	f.svc = service.New(
		f.repo, f.roomRepo, f.hotelRepo, f.userRepo, f.paymentRepo,
		f.gateway, mockMailer, mockNotification,
		passthroughTx{}, cfg, mockCache, mockOtel,
	)

	return f
}

func customerCtx(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleCustomer)
}

func hotelAdminCtx(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleHotelAdmin)
}

func createRequest() dto.CreateReservationRequest {
	return dto.CreateReservationRequest{
		HotelID:      "9f0e2c1a-0000-0000-0000-000000000001",
		RoomID:       "9f0e2c1a-0000-0000-0000-000000000002",
		RoomType:     roomModel.TypeDeluxe,
		RoomQuantity: 1,
		TotalAmount:  250,
		CheckInDate:  "2026-09-10",
		CheckOutDate: "2026-09-12",
		FullName:     "Asha Gurung",
		UserEmail:    "asha@example.com",
		ConfirmEmail: "asha@example.com",
		PhoneNumber:  "+9779800000000",
		Country:      "Nepal",
	}
}

func TestReservationService_Create(t *testing.T) {
	req := createRequest()

	hotel := hotelModel.Hotel{
		ID:     req.HotelID,
		Name:   "Annapurna View",
		IsOpen: true,
		Status: hotelModel.StatusApproved,
		UserID: "owner-id",
	}

	availableRoom := roomModel.Room{
		ID:      req.RoomID,
		HotelID: req.HotelID,
		Number:  "101",
		Status:  roomModel.StatusAvailable,
	}

	t.Run("successful booking", func(t *testing.T) {
		f := newFixture(t)

		f.hotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hotel, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(availableRoom, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.gateway.EXPECT().Initiate(gomock.Any(), gomock.Any()).Return(khalti.Session{
			Pidx:       "pidx-123",
			PaymentURL: "https://khalti.example/pay/pidx-123",
		}, nil)
		f.paymentRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.roomRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Create(customerCtx("customer-id"), req)

		assert.NoError(t, err)
		assert.NotEmpty(t, res.ReservationID)
		assert.Equal(t, "https://khalti.example/pay/pidx-123", res.PaymentURL)
		assert.Equal(t, "pidx-123", res.Pidx)
	})

	t.Run("room not available", func(t *testing.T) {
		f := newFixture(t)

		occupied := availableRoom
		occupied.Status = roomModel.StatusOccupied

		f.hotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hotel, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(occupied, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.Create(customerCtx("customer-id"), req)

		assert.Error(t, err)
		assert.Equal(t, 422, failure.GetCode(err))
	})

	t.Run("hotel not yet approved", func(t *testing.T) {
		f := newFixture(t)

		unapproved := hotel
		unapproved.Status = hotelModel.StatusPending

		f.hotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(unapproved, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		f.gateway.EXPECT().Initiate(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.Create(customerCtx("customer-id"), req)

		assert.Error(t, err)
		assert.Equal(t, 422, failure.GetCode(err))
	})

	t.Run("hotel closed for bookings", func(t *testing.T) {
		f := newFixture(t)

		closed := hotel
		closed.IsOpen = false

		f.hotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(closed, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.Create(customerCtx("customer-id"), req)

		assert.Error(t, err)
		assert.Equal(t, 422, failure.GetCode(err))
	})

	t.Run("gateway failure rolls everything back", func(t *testing.T) {
		f := newFixture(t)

		// The error surfaced out of the unit of work is what drives the
		// rollback in postgres.WithTransaction; the Times(0) expectations
		// pin that nothing past the gateway call ran.
		f.hotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hotel, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(availableRoom, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.gateway.EXPECT().Initiate(gomock.Any(), gomock.Any()).Return(khalti.Session{}, failure.Gateway("payment gateway timed out"))
		f.paymentRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		f.roomRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		res, err := f.svc.Create(customerCtx("customer-id"), req)

		assert.Error(t, err)
		assert.Equal(t, 502, failure.GetCode(err))
		assert.Empty(t, res.ReservationID)
	})

	t.Run("room belongs to another hotel", func(t *testing.T) {
		f := newFixture(t)

		foreign := availableRoom
		foreign.HotelID = "another-hotel-id"

		f.hotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hotel, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(foreign, nil)

		_, err := f.svc.Create(customerCtx("customer-id"), req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("check-out before check-in", func(t *testing.T) {
		f := newFixture(t)

		bad := req
		bad.CheckInDate = "2026-09-12"
		bad.CheckOutDate = "2026-09-10"

		_, err := f.svc.Create(customerCtx("customer-id"), bad)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("hotel not found", func(t *testing.T) {
		f := newFixture(t)

		f.hotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hotelModel.Hotel{}, nil)

		_, err := f.svc.Create(customerCtx("customer-id"), req)

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestReservationService_Cancel(t *testing.T) {
	approved := model.Reservation{
		ID:        "reservation-id",
		HotelID:   "hotel-id",
		RoomID:    "room-id",
		Status:    model.StatusApproved,
		UserID:    "customer-id",
		FullName:  "Asha Gurung",
		UserEmail: "asha@example.com",
	}

	req := dto.CancelReservationRequest{CancelReason: "change of plans"}

	t.Run("cancel from approved releases the room", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(approved, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(roomModel.Room{ID: "room-id", Status: roomModel.StatusReserved}, nil)
		f.roomRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := f.svc.Cancel(customerCtx("customer-id"), req, approved.ID)

		assert.NoError(t, err)
	})

	t.Run("cancel from pending is rejected", func(t *testing.T) {
		f := newFixture(t)

		pending := approved
		pending.Status = model.StatusPending

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pending, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		err := f.svc.Cancel(customerCtx("customer-id"), req, approved.ID)

		assert.Error(t, err)
		assert.Equal(t, 422, failure.GetCode(err))
	})

	t.Run("cancel by another customer is rejected", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(approved, nil)

		err := f.svc.Cancel(customerCtx("someone-else"), req, approved.ID)

		assert.Error(t, err)
		assert.Equal(t, 401, failure.GetCode(err))
	})
}

func TestReservationService_Approve(t *testing.T) {
	pending := model.Reservation{
		ID:      "reservation-id",
		HotelID: "hotel-id",
		Status:  model.StatusPending,
		UserID:  "customer-id",
	}

	ownHotel := hotelModel.Hotel{ID: "hotel-id", UserID: "admin-id"}

	t.Run("approve by owning hotel admin", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
		f.hotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownHotel, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := f.svc.Approve(hotelAdminCtx("admin-id"), pending.ID)

		assert.NoError(t, err)
	})

	t.Run("approve by admin of another hotel", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
		f.hotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hotelModel.Hotel{ID: "other-hotel", UserID: "intruder-id"}, nil)

		err := f.svc.Approve(hotelAdminCtx("intruder-id"), pending.ID)

		assert.Error(t, err)
		assert.Equal(t, 401, failure.GetCode(err))
	})

	t.Run("approve is idempotent", func(t *testing.T) {
		f := newFixture(t)

		alreadyApproved := pending
		alreadyApproved.Status = model.StatusApproved

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(alreadyApproved, nil)
		f.hotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownHotel, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		err := f.svc.Approve(hotelAdminCtx("admin-id"), alreadyApproved.ID)

		assert.NoError(t, err)
	})
}

func TestReservationService_PaymentLink(t *testing.T) {
	reservation := model.Reservation{
		ID:          "reservation-id",
		HotelID:     "hotel-id",
		RoomID:      "room-id",
		Status:      model.StatusPending,
		UserID:      "customer-id",
		TotalAmount: 250,
	}

	pendingPayment := paymentModel.Payment{
		ID:            "payment-id",
		ReservationID: reservation.ID,
		Status:        paymentModel.StatusPending,
		GatewayRef:    "pidx-123",
	}

	hotel := hotelModel.Hotel{ID: "hotel-id", Name: "Annapurna View", UserID: "owner-id"}
	room := roomModel.Room{ID: "room-id", HotelID: "hotel-id", Number: "101"}

	t.Run("still-valid link is returned unchanged", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservation, nil)
		f.paymentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingPayment, nil)
		f.hotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hotel, nil)
		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
		f.gateway.EXPECT().Session(gomock.Any(), gomock.Any()).Return(khalti.Session{
			Pidx:       "pidx-123",
			PaymentURL: "https://khalti.example/pay/pidx-123",
		}, nil)
		f.paymentRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		res, err := f.svc.PaymentLink(customerCtx("customer-id"), reservation.ID)

		assert.NoError(t, err)
		assert.Equal(t, "https://khalti.example/pay/pidx-123", res.PaymentURL)
		assert.Equal(t, "pidx-123", res.Pidx)
	})

	t.Run("fresh session repoints the payment", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservation, nil)
		f.paymentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingPayment, nil)
		f.hotelRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hotel, nil)
		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
		f.gateway.EXPECT().Session(gomock.Any(), gomock.Any()).Return(khalti.Session{
			Pidx:       "pidx-456",
			PaymentURL: "https://khalti.example/pay/pidx-456",
		}, nil)
		f.paymentRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, "pidx-456", fields[paymentModel.FieldGatewayRef])

				return nil
			})

		res, err := f.svc.PaymentLink(customerCtx("customer-id"), reservation.ID)

		assert.NoError(t, err)
		assert.Equal(t, "pidx-456", res.Pidx)
	})

	t.Run("completed payment is rejected", func(t *testing.T) {
		f := newFixture(t)

		completed := pendingPayment
		completed.Status = paymentModel.StatusCompleted

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservation, nil)
		f.paymentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completed, nil)
		f.gateway.EXPECT().Session(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.PaymentLink(customerCtx("customer-id"), reservation.ID)

		assert.Error(t, err)
		assert.Equal(t, 422, failure.GetCode(err))
	})

	t.Run("someone else's reservation is rejected", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservation, nil)
		f.gateway.EXPECT().Session(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.PaymentLink(customerCtx("someone-else"), reservation.ID)

		assert.Error(t, err)
		assert.Equal(t, 401, failure.GetCode(err))
	})
}

func TestReservationService_UpdateMy(t *testing.T) {
	req := dto.UpdateReservationRequest{Note: "late arrival"}

	t.Run("edit while pending resets status", func(t *testing.T) {
		f := newFixture(t)

		pending := model.Reservation{
			ID:           "reservation-id",
			Status:       model.StatusPending,
			UserID:       "customer-id",
			CheckInDate:  "2026-09-10",
			CheckOutDate: "2026-09-12",
		}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusPending, fields[model.FieldStatus])

				return nil
			})

		err := f.svc.UpdateMy(customerCtx("customer-id"), req, pending.ID)

		assert.NoError(t, err)
	})

	t.Run("edit after approval is rejected", func(t *testing.T) {
		f := newFixture(t)

		approved := model.Reservation{
			ID:           "reservation-id",
			Status:       model.StatusApproved,
			UserID:       "customer-id",
			CheckInDate:  "2026-09-10",
			CheckOutDate: "2026-09-12",
		}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		err := f.svc.UpdateMy(customerCtx("customer-id"), req, approved.ID)

		assert.Error(t, err)
		assert.Equal(t, 422, failure.GetCode(err))
	})

	t.Run("edit of someone else's reservation is rejected", func(t *testing.T) {
		f := newFixture(t)

		pending := model.Reservation{
			ID:     "reservation-id",
			Status: model.StatusPending,
			UserID: "customer-id",
		}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)

		err := f.svc.UpdateMy(customerCtx("someone-else"), req, pending.ID)

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})
}

func TestReservationService_Delete(t *testing.T) {
	t.Run("delete pending reservation", func(t *testing.T) {
		f := newFixture(t)

		pending := model.Reservation{ID: "reservation-id", Status: model.StatusPending, UserID: "customer-id"}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := f.svc.Delete(customerCtx("customer-id"), pending.ID)

		assert.NoError(t, err)
	})

	t.Run("delete approved reservation is rejected", func(t *testing.T) {
		f := newFixture(t)

		approved := model.Reservation{ID: "reservation-id", Status: model.StatusApproved, UserID: "customer-id"}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

		err := f.svc.Delete(customerCtx("customer-id"), approved.ID)

		assert.Error(t, err)
		assert.Equal(t, 422, failure.GetCode(err))
	})
}
