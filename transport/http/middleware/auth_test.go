package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"innstay/infras/otel/mocks"
	"innstay/permissions"
	"innstay/shared/constant"
	"innstay/transport/http/middleware"
)

func withRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := context.WithValue(request.Context(), constant.ContextKeyUserRole, role)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func okHandler(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
}

func newRBACMux(role string, table *permissions.PermissionData) *chi.Mux {
	m := middleware.NewAuthRoleMiddleware(nil, mocks.NewOtel(), table)

	mux := chi.NewRouter()
	mux.Use(withRole(role))
	mux.Use(m.RBAC)
	mux.Get("/listed", okHandler)
	mux.Get("/unlisted", okHandler)
	mux.Get("/open", okHandler)

	return mux
}

func TestRBAC(t *testing.T) {
	table := &permissions.PermissionData{
		Endpoints: []permissions.Permission{
			{Path: "/listed", Method: http.MethodGet, Permissions: []string{constant.RoleCustomer}},
			{Path: "/open", Method: http.MethodGet, Skip: true},
		},
	}

	t.Run("listed route admits a granted role", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		newRBACMux(constant.RoleCustomer, table).
			ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/listed", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("listed route rejects other roles", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		newRBACMux(constant.RoleHotelAdmin, table).
			ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/listed", nil))

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("route without a table entry is denied", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		newRBACMux(constant.RoleSuperAdmin, table).
			ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/unlisted", nil))

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("skip entry passes any caller through", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		newRBACMux(constant.Empty, table).
			ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/open", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
