package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"innstay/infras/otel"
	"innstay/infras/postgres"
	"innstay/internal/domains/reservation/model"
	roomModel "innstay/internal/domains/room/model"
	"innstay/shared/constant"
	gDto "innstay/shared/dto"
	"innstay/shared/logger"
	gRepo "innstay/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// GetDueForCheckout lists reservations whose check-out day is on or
	// before the given date and whose room has not been released yet. The
	// query leans on the check_out_date index instead of scanning the
	// whole table.
	GetDueForCheckout(ctx context.Context, date string) ([]model.DueCheckout, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) GetDueForCheckout(ctx context.Context, date string) ([]model.DueCheckout, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.GetDueForCheckout")
	defer scope.End()

	query := fmt.Sprintf(`SELECT r.id AS reservation_id, r.room_id, r.check_out_date
		FROM %s r
		JOIN %s rm ON rm.id = r.room_id
		WHERE r.check_out_date <= :date
		  AND r.status = :status
		  AND rm.room_status <> :room_status`,
		model.TableName, roomModel.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"date":        date,
		"status":      model.StatusApproved,
		"room_status": roomModel.StatusAvailable,
	}

	var due []model.DueCheckout

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return due, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	if err = prepare.SelectContext(ctx, &due, args); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return due, fmt.Errorf("failed to get due reservations: %w", err)
	}

	return due, nil
}
