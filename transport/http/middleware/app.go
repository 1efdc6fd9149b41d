package middleware

import (
	"fmt"
	"net/http"

	"innstay/config"
	"innstay/infras/otel"
	"innstay/shared/cache"

	"github.com/go-chi/chi/v5"
)

const (
	otelHTTPScopeName = "http"
)

type AppMiddleware interface {
	Tracing(http.Handler) http.Handler
	RateLimit() func(http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
		cache:  cache,
	}
}

// Tracing opens a span for the whole request and records the response
// status through a capturing writer.
func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		spanName := fmt.Sprintf("%s %s", r.Method, r.URL.Path)

		ctx, scope := a.otel.NewScope(r.Context(), otelHTTPScopeName, spanName)
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       r.URL.Path,
			"http.method":     r.Method,
			"http.user_agent": a.getUA(r),
			"http.host":       r.Host,
			"http.source":     a.getClientIP(r),
		})

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r.WithContext(ctx))

		scope.SetAttributes(map[string]any{
			"http.route":       chi.RouteContext(ctx).RoutePattern(),
			"http.status_code": recorder.status,
		})

		if recorder.status >= http.StatusInternalServerError {
			scope.TraceError(fmt.Errorf("request failed with status %d", recorder.status))
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
