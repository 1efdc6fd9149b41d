package payment

import (
	"net/http"

	"innstay/infras/otel"
	"innstay/internal/domains/payment/model"
	"innstay/internal/domains/payment/model/dto"
	"innstay/internal/domains/payment/service"
	"innstay/shared/constant"
	gDto "innstay/shared/dto"
	"innstay/shared/validator"
	"innstay/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/confirm", handler.ConfirmPayment)
		routerGroup.Get("/", handler.GetPayments)
	})
}

// ConfirmPayment is the gateway callback. The payment identified by the
// gateway reference moves from PENDING to COMPLETED.
// @Summary Confirm a payment
// @Description Gateway callback confirming a payment session was completed.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.ConfirmPaymentRequest true "Confirm Payment Request"
// @Success 200 {object} response.Message "Payment confirmed successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/confirm [post]
func (handler *Handler) ConfirmPayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConfirmPayment")
	defer scope.End()

	req := dto.ConfirmPaymentRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Confirm(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to confirm payment")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Payment confirmed for reference " + req.GatewayRef)

	response.WithMessage(writer, http.StatusOK, "Payment confirmed successfully")
}

// GetPayments retrieves all payments based on query parameters.
// @Summary Get all payments
// @Description Retrieve all payments with optional filtering and pagination.
// @Tags Payment
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param reservation_id query string false "Filter by reservation ID"
// @Param status query string false "Filter by status (PENDING, COMPLETED)"
// @Param gateway query string false "Filter by gateway"
// @Success 200 {object} response.Data[dto.GetPaymentsResponse] "List of payments"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments [get]
// @Security BearerAuth
func (handler *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPayments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldReservationID, model.FieldStatus, model.FieldGateway} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	payments, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payments")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payments retrieved successfully")

	response.WithJSON(w, http.StatusOK, payments)
}
