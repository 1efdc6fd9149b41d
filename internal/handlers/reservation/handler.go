package reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"innstay/infras/otel"
	"innstay/internal/domains/reservation/model"
	"innstay/internal/domains/reservation/model/dto"
	"innstay/internal/domains/reservation/service"
	"innstay/shared"
	"innstay/shared/constant"
	gDto "innstay/shared/dto"
	"innstay/shared/failure"
	"innstay/shared/validator"
	"innstay/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/reserve/{hotel_id}/{room_id}/{room_type}/{room_quantity}/{total_amount}/{check_in_date}/{check_out_date}", handler.CreateReservation)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/my", handler.GetMyReservations)
		routerGroup.Get("/hotel", handler.GetHotelReservations)
		routerGroup.Get("/payment/{id}", handler.GetReservationPaymentLink)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Patch("/approve/{id}", handler.ApproveReservation)
		routerGroup.Patch("/cancel/{id}", handler.CancelReservation)
		routerGroup.Patch("/status/{id}", handler.ChangeReservationStatus)
		routerGroup.Patch("/my/{id}", handler.UpdateMyReservation)
		routerGroup.Patch("/{id}", handler.UpdateReservation)
		routerGroup.Delete("/{id}", handler.DeleteReservation)
	})
}

// CreateReservation books a room. The booking terms travel in the path,
// the guest details in the body.
// @Summary Book a room
// @Description Reserve a room in a hotel for the given stay. Returns the payment link for the booking.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param hotel_id path string true "Hotel ID"
// @Param room_id path string true "Room ID"
// @Param room_type path string true "Room type"
// @Param room_quantity path integer true "Room quantity"
// @Param total_amount path number true "Total amount"
// @Param check_in_date path string true "Check-in date (YYYY-MM-DD)"
// @Param check_out_date path string true "Check-out date (YYYY-MM-DD)"
// @Param request body dto.CreateReservationRequest true "Guest details"
// @Success 201 {object} response.Data[dto.CreateReservationResponse] "Reservation created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/reservations/reserve/{hotel_id}/{room_id}/{room_type}/{room_quantity}/{total_amount}/{check_in_date}/{check_out_date} [post]
// @Security BearerAuth
func (handler *Handler) CreateReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req, err := handler.buildCreateRequest(request)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build reservation request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create reservation")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// buildCreateRequest merges the guest details from the body with the
// booking terms from the path, then validates the whole request.
func (handler *Handler) buildCreateRequest(request *http.Request) (dto.CreateReservationRequest, error) {
	req := dto.CreateReservationRequest{}

	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		return req, failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) // nolint:wrapcheck
	}

	req.HotelID = chi.URLParam(request, "hotel_id")
	req.RoomID = chi.URLParam(request, "room_id")
	req.RoomType = chi.URLParam(request, "room_type")
	req.CheckInDate = chi.URLParam(request, "check_in_date")
	req.CheckOutDate = chi.URLParam(request, "check_out_date")

	quantity, err := shared.ConvertStringToInt(chi.URLParam(request, "room_quantity"))
	if err != nil {
		return req, failure.BadRequestFromString("room quantity must be a number") // nolint:wrapcheck
	}

	req.RoomQuantity = quantity

	total, err := strconv.ParseFloat(chi.URLParam(request, "total_amount"), 64)
	if err != nil {
		return req, failure.BadRequestFromString("total amount must be a number") // nolint:wrapcheck
	}

	req.TotalAmount = total

	if err := validator.ValidateStruct(&req); err != nil {
		return req, err // nolint:wrapcheck
	}

	return req, nil
}

// GetReservations retrieves all reservations based on query parameters.
// @Summary Get all reservations
// @Description Retrieve all reservations with optional filtering and pagination.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param hotel_id query string false "Filter by hotel ID"
// @Param room_id query string false "Filter by room ID"
// @Param status query string false "Filter by status (PENDING, APPROVED, CANCELLED)"
// @Param check_in_date query string false "Filter by check-in date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldHotelID, model.FieldRoomID, model.FieldStatus, model.FieldCheckInDate} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	reservations, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservations retrieved successfully")

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetMyReservations retrieves the authenticated user's reservations.
// @Summary Get my reservations
// @Description Retrieve the reservations made by the authenticated user.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 500 {object} response.Error
// @Router /v1/reservations/my [get]
// @Security BearerAuth
func (handler *Handler) GetMyReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	reservations, err := handler.service.GetMy(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetHotelReservations retrieves the reservations of the caller's hotel.
// @Summary Get my hotel's reservations
// @Description Retrieve the reservations made against the hotel owned by the authenticated user.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/hotel [get]
// @Security BearerAuth
func (handler *Handler) GetHotelReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHotelReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	reservations, err := handler.service.GetByHotel(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hotel reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetReservationByID retrieves a reservation by its ID.
// @Summary Get a reservation by ID
// @Description Retrieve a reservation by its unique identifier.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	reservation, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// GetReservationPaymentLink re-issues the payment link for a reservation
// that has not been paid yet.
// @Summary Get the payment link for a reservation
// @Description Return the checkout link for a reservation with a pending payment. A still-valid link from the original booking is reused.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.CreateReservationResponse] "Payment link"
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/reservations/payment/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservationPaymentLink(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationPaymentLink")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	link, err := handler.service.PaymentLink(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation payment link")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, link)
}

// ApproveReservation approves a pending reservation.
// @Summary Approve a reservation
// @Description Approve a reservation for the caller's hotel.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Message "Reservation approved successfully"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/approve/{id} [patch]
// @Security BearerAuth
func (handler *Handler) ApproveReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveReservation")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Approve(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to approve reservation")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Reservation approved successfully")
}

// CancelReservation cancels an approved reservation and releases its room.
// @Summary Cancel a reservation
// @Description Cancel an approved reservation with a reason. The room is released immediately.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.CancelReservationRequest true "Cancel Reservation Request"
// @Success 200 {object} response.Message "Reservation cancelled successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/cancel/{id} [patch]
// @Security BearerAuth
func (handler *Handler) CancelReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelReservation")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.CancelReservationRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Cancel(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel reservation")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Reservation cancelled successfully")
}

// ChangeReservationStatus sets a reservation's status directly.
// @Summary Change a reservation's status
// @Description Move a reservation to the given status. Cancelling requires a reason.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.ChangeReservationStatusRequest true "Change Reservation Status Request"
// @Success 200 {object} response.Message "Reservation status changed successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/status/{id} [patch]
// @Security BearerAuth
func (handler *Handler) ChangeReservationStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ChangeReservationStatus")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.ChangeReservationStatusRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.ChangeStatus(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to change reservation status")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Reservation status changed successfully")
}

// UpdateReservation updates a reservation on behalf of a hotel.
// @Summary Update a reservation
// @Description Update a pending reservation's details as hotel staff.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.UpdateReservationRequest true "Update Reservation Request"
// @Success 200 {object} response.Message "Reservation updated successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReservation")
	defer scope.End()

	handler.update(ctx, writer, request, handler.service.Update)
}

// UpdateMyReservation lets a guest edit their own pending reservation.
// @Summary Update my reservation
// @Description Update the authenticated user's pending reservation. The reservation returns to PENDING for re-approval.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.UpdateReservationRequest true "Update Reservation Request"
// @Success 200 {object} response.Message "Reservation updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/my/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMyReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMyReservation")
	defer scope.End()

	handler.update(ctx, writer, request, handler.service.UpdateMy)
}

func (handler *Handler) update(
	ctx context.Context,
	writer http.ResponseWriter,
	request *http.Request,
	apply func(context.Context, dto.UpdateReservationRequest, string) error,
) {
	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdateReservationRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := apply(ctx, req, id); err != nil {
		log.Error().Err(err).Msg("failed to update reservation")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Reservation updated successfully")
}

// DeleteReservation removes a pending reservation entirely.
// @Summary Delete a reservation
// @Description Delete a pending reservation. Approved reservations must be cancelled instead.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Message "Reservation deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReservation")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete reservation")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Reservation deleted successfully")
}
