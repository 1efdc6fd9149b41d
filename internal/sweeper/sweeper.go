package sweeper

import (
	"context"
	"time"

	"innstay/config"
	"innstay/infras/otel"
	"innstay/infras/postgres"
	reservationRepo "innstay/internal/domains/reservation/repository"
	roomModel "innstay/internal/domains/room/model"
	roomRepo "innstay/internal/domains/room/repository"
	"innstay/shared"
	"innstay/shared/constant"
	"innstay/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const sweeperActor = "sweeper"

// Sweeper releases rooms whose reservation has passed its check-out day.
// Cancellation releases rooms synchronously; this loop is the backstop
// for stays that simply ended.
type Sweeper struct {
	repo     reservationRepo.Reservation
	roomRepo roomRepo.Room
	db       postgres.TxRunner
	cfg      *config.Config
	otel     otel.Otel
}

func New(
	repo reservationRepo.Reservation,
	roomRepo roomRepo.Room,
	db postgres.TxRunner,
	cfg *config.Config,
	otl otel.Otel,
) *Sweeper {
	return &Sweeper{
		repo:     repo,
		roomRepo: roomRepo,
		db:       db,
		cfg:      cfg,
		otel:     otl,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.Sweeper.IntervalSeconds) * time.Second

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("Checkout sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Checkout sweeper stopped")

			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass: find reservations due for checkout and flip their
// rooms back to available. Each room is released in its own transaction
// so one failure does not hold up the rest.
func (s *Sweeper) Sweep(ctx context.Context) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelSweeperScopeName, constant.OtelSweeperScopeName+".Sweep")
	defer scope.End()

	today := timezone.Now().Format(constant.ReservationLayout)

	due, err := s.repo.GetDueForCheckout(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("failed to list due checkouts")

		return
	}

	for _, item := range due {
		if err := s.release(ctx, item.RoomID); err != nil {
			log.Error().
				Err(err).
				Str("reservation_id", item.ReservationID).
				Str("room_id", item.RoomID).
				Msg("failed to release room")

			continue
		}

		log.Info().
			Str("reservation_id", item.ReservationID).
			Str("room_id", item.RoomID).
			Msg("Released room after checkout")
	}
}

func (s *Sweeper) release(ctx context.Context, roomID string) error {
	return s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error { // nolint:wrapcheck
		room, err := s.roomRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			return err // nolint:wrapcheck
		}

		// The room may have been released, or taken again, since the
		// sweep query ran.
		if room.ID == constant.Empty || room.Status == roomModel.StatusAvailable {
			return nil
		}

		fields := map[string]any{
			roomModel.FieldStatus:    roomModel.StatusAvailable,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: sweeperActor,
		}

		return s.roomRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName)) // nolint:wrapcheck
	})
}
