package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"innstay/infras/otel"
	"innstay/infras/postgres"
	"innstay/internal/domains/notification/model"
	gDto "innstay/shared/dto"
	gRepo "innstay/shared/repository"
)

type Notification interface {
	Insert(ctx context.Context, model model.Notification) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Notification, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Notification, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Notification]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Notification {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Notification](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
