package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"innstay/infras/otel"
	"innstay/infras/postgres"
	"innstay/internal/domains/room/model"
	gDto "innstay/shared/dto"
	gRepo "innstay/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// Transactional access for flows that read room status and write it
	// back. GetForUpdateTx takes a row lock so concurrent bookings of the
	// same room serialize.
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
