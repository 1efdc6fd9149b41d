package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"innstay/infras/jwt"
	"innstay/infras/otel"
	"innstay/permissions"
	"innstay/shared/constant"
	"innstay/shared/failure"
	"innstay/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
	}
}

// Auth validates the bearer token and loads the caller's identity into the
// request context. Endpoints marked skip in the permission table pass
// through unauthenticated.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")

		path, method := routePattern(request)

		if m.permission != nil {
			permission, found := m.permission.FindPermissions(path, method)
			if found && permission.Skip {
				scope.End()
				next.ServeHTTP(writer, request)

				return
			}
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     method,
		})

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
		if authHeader == "" {
			err := failure.Unauthorized("Missing authorization header")
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
		if err != nil {
			err := failure.Unauthorized("Invalid authorization header format")
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString, jwt.AccessToken)
		if err != nil {
			var message string

			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				message = "Token has expired"
			case errors.Is(err, jwt.ErrInvalidToken):
				message = "Invalid token"
			case errors.Is(err, jwt.ErrInvalidClaim):
				message = "Invalid token claims"
			default:
				message = "Token validation failed"
			}

			err := failure.Unauthorized(message)
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		if claims.UserID == "" || claims.Email == "" {
			log.Error().Msg("JWT claims are missing required fields")

			response.WithError(writer, failure.Unauthorized("Invalid token claims"))

			scope.End()

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RBAC enforces the role list the permission table assigns to each
// endpoint. Runs after Auth so the role is already in the context.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")

		if m.permission == nil {
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		if m.permission.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		path, method := routePattern(request)

		// A route the table never mentions is denied outright; new endpoints
		// must be granted roles explicitly before they serve anyone.
		permission, found := m.permission.FindPermissions(path, method)
		if !found {
			err := failure.ForbiddenError

			scope.TraceError(err)
			scope.SetAttributes(map[string]any{
				"http.path":   path,
				"http.method": method,
				"reason":      "no_permission_entry",
			})
			scope.End()
			response.WithError(writer, err)

			return
		}

		if permission.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		userRole, _ := ctx.Value(constant.ContextKeyUserRole).(string)

		if !slices.Contains(permission.Permissions, userRole) {
			err := failure.ForbiddenError

			scope.TraceError(err)
			scope.SetAttributes(map[string]any{
				"user_role":     userRole,
				"allowed_roles": permission.Permissions,
				"reason":        "role_not_allowed",
			})
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

// routePattern resolves the chi route pattern (with placeholders) the
// request matched, so permissions are keyed by pattern rather than by
// concrete URL.
func routePattern(request *http.Request) (string, string) {
	rctx := chi.RouteContext(request.Context())
	method := request.Method

	return rctx.Routes.Find(chi.NewRouteContext(), method, request.URL.Path), method
}
