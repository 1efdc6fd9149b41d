package router

import (
	"innstay/config"
	"innstay/internal/handlers/hotel"
	"innstay/internal/handlers/notification"
	"innstay/internal/handlers/payment"
	"innstay/internal/handlers/reservation"
	"innstay/internal/handlers/room"
	"innstay/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Hotel        hotel.Handler
	Room         room.Handler
	Reservation  reservation.Handler
	Payment      payment.Handler
	Notification notification.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	AuthRole       middleware.AuthRole
	Config         *config.Config
}

func (r *Router) SetupRoutes(router chi.Router) {
	if r.Config.App.CORS.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   r.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   r.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   r.Config.App.CORS.AllowedHeaders,
			AllowCredentials: r.Config.App.CORS.AllowCredentials,
			MaxAge:           r.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	router.Use(r.App.Tracing)
	router.Use(r.App.RateLimit())

	router.Mount("/swagger", httpSwagger.WrapHandler)

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Hotel.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, authRole middleware.AuthRole, cfg *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		AuthRole:       authRole,
		Config:         cfg,
	}
}
