package di

import (
	notificationConsumer "innstay/internal/domains/notification/consumer"
	"innstay/internal/sweeper"
	"innstay/transport/http"
)

// App bundles the long-running pieces of the service: the HTTP server,
// the checkout sweeper and the notification consumer.
type App struct {
	HTTP     *http.HTTP
	Sweeper  *sweeper.Sweeper
	Consumer *notificationConsumer.Consumer
}
