package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"innstay/infras/otel"
	"innstay/infras/postgres"
	"innstay/internal/domains/payment/model"
	gDto "innstay/shared/dto"
	gRepo "innstay/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Payment interface {
	Insert(ctx context.Context, model model.Payment) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Payment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Payment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
