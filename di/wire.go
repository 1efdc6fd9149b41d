//go:build wireinject
// +build wireinject

package di

import (
	"innstay/config"
	"innstay/infras/jwt"
	"innstay/infras/kafka"
	"innstay/infras/khalti"
	"innstay/infras/mail"
	"innstay/infras/otel"
	"innstay/infras/postgres"
	"innstay/infras/redis"
	"innstay/permissions"
	"innstay/shared/cache"
	"innstay/transport/http"
	"innstay/transport/http/middleware"
	"innstay/transport/http/router"

	"innstay/internal/sweeper"

	hotelRepository "innstay/internal/domains/hotel/repository"
	hotelService "innstay/internal/domains/hotel/service"
	notificationConsumer "innstay/internal/domains/notification/consumer"
	notificationRepository "innstay/internal/domains/notification/repository"
	notificationService "innstay/internal/domains/notification/service"
	paymentRepository "innstay/internal/domains/payment/repository"
	paymentService "innstay/internal/domains/payment/service"
	reservationRepository "innstay/internal/domains/reservation/repository"
	reservationService "innstay/internal/domains/reservation/service"
	roomRepository "innstay/internal/domains/room/repository"
	roomService "innstay/internal/domains/room/service"
	userRepository "innstay/internal/domains/user/repository"

	hotelHandler "innstay/internal/handlers/hotel"
	notificationHandler "innstay/internal/handlers/notification"
	paymentHandler "innstay/internal/handlers/payment"
	reservationHandler "innstay/internal/handlers/reservation"
	roomHandler "innstay/internal/handlers/room"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.TxRunner), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	khalti.New,
	mail.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	permissions.Get,
)

var hotelDomain = wire.NewSet(
	hotelRepository.New,
	hotelService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
	userRepository.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
)

var domains = wire.NewSet(
	hotelDomain,
	roomDomain,
	reservationDomain,
	paymentDomain,
	notificationDomain,
)

var workers = wire.NewSet(
	sweeper.New,
	notificationConsumer.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	hotelHandler.New,
	roomHandler.New,
	reservationHandler.New,
	paymentHandler.New,
	notificationHandler.New,
	router.New,
)

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		workers,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
