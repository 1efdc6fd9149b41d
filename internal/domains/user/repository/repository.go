package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"innstay/infras/otel"
	"innstay/infras/postgres"
	"innstay/internal/domains/user/model"
	gDto "innstay/shared/dto"
	gRepo "innstay/shared/repository"
)

// User is the read-only directory contract consumed by the reservation core.
type User interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
