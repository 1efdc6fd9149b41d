package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"innstay/infras/otel"
	"innstay/infras/postgres"
	"innstay/internal/domains/hotel/model"
	gDto "innstay/shared/dto"
	gRepo "innstay/shared/repository"
)

type Hotel interface {
	Insert(ctx context.Context, model model.Hotel) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Hotel, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Hotel, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Hotel]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Hotel {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Hotel](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
