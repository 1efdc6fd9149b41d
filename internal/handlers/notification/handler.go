package notification

import (
	"net/http"

	"innstay/infras/otel"
	"innstay/internal/domains/notification/service"
	"innstay/shared/constant"
	gDto "innstay/shared/dto"
	"innstay/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Notification
	otel    otel.Otel
}

func New(service service.Notification, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/notifications", func(routerGroup chi.Router) {
		routerGroup.Get("/my", handler.GetMyNotifications)
		routerGroup.Patch("/read/{id}", handler.MarkNotificationRead)
	})
}

// GetMyNotifications retrieves the authenticated user's notifications.
// @Summary Get my notifications
// @Description Retrieve the notifications addressed to the authenticated user.
// @Tags Notification
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetNotificationsResponse] "List of notifications"
// @Failure 500 {object} response.Error
// @Router /v1/notifications/my [get]
// @Security BearerAuth
func (handler *Handler) GetMyNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyNotifications")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	notifications, err := handler.service.GetMy(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get notifications")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, notifications)
}

// MarkNotificationRead marks one of the caller's notifications as read.
// @Summary Mark a notification as read
// @Description Mark the given notification as read. Only the addressee may do this.
// @Tags Notification
// @Accept json
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Message "Notification marked as read"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/notifications/read/{id} [patch]
// @Security BearerAuth
func (handler *Handler) MarkNotificationRead(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkNotificationRead")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.MarkRead(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark notification as read")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Notification marked as read")
}
