package constant

import (
	"time"
)

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
	ContextKeyTokenID   contextKey = "token_id"
)

const (
	RoleSuperAdmin = "super_admin"
	RoleHotelAdmin = "hotel_admin"
	RoleCustomer   = "customer"
)

const (
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
)

const (
	RequestParamID = "id"
)

const (
	DefaultValuePage    = 1
	DefaultValueLimit   = 10
	DefaultValueSortBy  = "created_at"
	DefaultValueSortDir = "DESC"
)

const (
	FieldCreatedAt  = "created_at"
	FieldCreatedBy  = "created_by"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const (
	PqErrorCodeUniqueViolation = "23505"
	PqErrorCodeFkViolation     = "23503"
)

const (
	DateFormat        = time.RFC3339
	ReservationLayout = "2006-01-02"
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEventScopeName      = "event"
	OtelExternalScopeName   = "external"
	OtelSweeperScopeName    = "sweeper"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	Empty = ""
)
