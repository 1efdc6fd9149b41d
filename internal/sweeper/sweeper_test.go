package sweeper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"go.uber.org/mock/gomock"

	"innstay/config"
	"innstay/infras/otel/mocks"
	reservationMocks "innstay/internal/domains/reservation/mocks"
	reservationModel "innstay/internal/domains/reservation/model"
	roomMocks "innstay/internal/domains/room/mocks"
	roomModel "innstay/internal/domains/room/model"
	"innstay/internal/sweeper"
)

type passthroughTx struct{}

func (passthroughTx) WithTransaction(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func newSweeper(t *testing.T) (*sweeper.Sweeper, *reservationMocks.MockReservation, *roomMocks.MockRoom) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)

	cfg := &config.Config{}
	cfg.Sweeper.IntervalSeconds = 60

	return sweeper.New(mockRepo, mockRoomRepo, passthroughTx{}, cfg, mocks.NewOtel()), mockRepo, mockRoomRepo
}

func TestSweeper_Sweep(t *testing.T) {
	t.Run("releases rooms past their checkout", func(t *testing.T) {
		s, mockRepo, mockRoomRepo := newSweeper(t)

		due := []reservationModel.DueCheckout{
			{ReservationID: "res-1", RoomID: "room-1", CheckOutDate: "2026-08-30"},
			{ReservationID: "res-2", RoomID: "room-2", CheckOutDate: "2026-08-31"},
		}

		mockRepo.EXPECT().GetDueForCheckout(gomock.Any(), gomock.Any()).Return(due, nil)

		mockRoomRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(roomModel.Room{ID: "room-1", Status: roomModel.StatusReserved}, nil)
		mockRoomRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		mockRoomRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(roomModel.Room{ID: "room-2", Status: roomModel.StatusReserved}, nil)
		mockRoomRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		s.Sweep(context.Background())
	})

	t.Run("skips rooms already available", func(t *testing.T) {
		s, mockRepo, mockRoomRepo := newSweeper(t)

		due := []reservationModel.DueCheckout{
			{ReservationID: "res-1", RoomID: "room-1", CheckOutDate: "2026-08-30"},
		}

		mockRepo.EXPECT().GetDueForCheckout(gomock.Any(), gomock.Any()).Return(due, nil)
		mockRoomRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(roomModel.Room{ID: "room-1", Status: roomModel.StatusAvailable}, nil)
		mockRoomRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Times(0)

		s.Sweep(context.Background())
	})

	t.Run("one failed release does not stop the rest", func(t *testing.T) {
		s, mockRepo, mockRoomRepo := newSweeper(t)

		due := []reservationModel.DueCheckout{
			{ReservationID: "res-1", RoomID: "room-1", CheckOutDate: "2026-08-30"},
			{ReservationID: "res-2", RoomID: "room-2", CheckOutDate: "2026-08-30"},
		}

		mockRepo.EXPECT().GetDueForCheckout(gomock.Any(), gomock.Any()).Return(due, nil)

		mockRoomRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(roomModel.Room{}, errors.New("lock timeout"))

		mockRoomRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(roomModel.Room{ID: "room-2", Status: roomModel.StatusReserved}, nil)
		mockRoomRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		s.Sweep(context.Background())
	})

	t.Run("query failure ends the pass", func(t *testing.T) {
		s, mockRepo, _ := newSweeper(t)

		mockRepo.EXPECT().GetDueForCheckout(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

		s.Sweep(context.Background())
	})
}
