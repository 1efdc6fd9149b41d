package hotel

import (
	"net/http"

	"innstay/infras/otel"
	"innstay/internal/domains/hotel/model"
	"innstay/internal/domains/hotel/model/dto"
	"innstay/internal/domains/hotel/service"
	"innstay/shared"
	"innstay/shared/constant"
	gDto "innstay/shared/dto"
	"innstay/shared/validator"
	"innstay/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Hotel
	otel    otel.Otel
}

func New(service service.Hotel, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/hotels", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateHotel)
		routerGroup.Get("/", handler.GetHotels)
		routerGroup.Get("/my", handler.GetMyHotel)
		routerGroup.Get("/{id}", handler.GetHotelByID)
		routerGroup.Patch("/{id}", handler.UpdateHotel)
		routerGroup.Patch("/status/{id}", handler.ChangeHotelStatus)
		routerGroup.Delete("/{id}", handler.DeleteHotel)
	})
}

// CreateHotel handles the registration of a new hotel.
// @Summary Register a new hotel
// @Description Register a hotel owned by the authenticated user. Each user may own one hotel.
// @Tags Hotel
// @Accept json
// @Produce json
// @Param request body dto.CreateHotelRequest true "Create Hotel Request"
// @Success 201 {object} response.Message "Hotel registered successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels [post]
// @Security BearerAuth
func (handler *Handler) CreateHotel(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateHotel")
	defer scope.End()

	req := dto.CreateHotelRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to register hotel")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Hotel registered successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Hotel registered successfully")
}

// GetHotels retrieves all hotels based on query parameters.
// @Summary Get all hotels
// @Description Retrieve all hotels with optional filtering and pagination.
// @Tags Hotel
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param status query string false "Filter by status (PENDING, APPROVED, CANCELLED)"
// @Param is_open query boolean false "Filter by open state"
// @Success 200 {object} response.Data[dto.GetHotelsResponse] "List of hotels"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels [get]
func (handler *Handler) GetHotels(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHotels")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if name := r.URL.Query().Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if isOpen := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldIsOpen)); isOpen != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsOpen,
			Operator: gDto.FilterOperatorEq,
			Value:    *isOpen,
			Table:    model.TableName,
		})
	}

	hotels, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hotels")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Hotels retrieved successfully")

	response.WithJSON(w, http.StatusOK, hotels)
}

// GetMyHotel retrieves the hotel owned by the authenticated user.
// @Summary Get my hotel
// @Description Retrieve the hotel registered by the authenticated user.
// @Tags Hotel
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.HotelResponse] "Hotel details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels/my [get]
// @Security BearerAuth
func (handler *Handler) GetMyHotel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyHotel")
	defer scope.End()

	hotel, err := handler.service.GetMy(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own hotel")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, hotel)
}

// GetHotelByID retrieves a hotel by its ID.
// @Summary Get a hotel by ID
// @Description Retrieve a hotel by its unique identifier.
// @Tags Hotel
// @Accept json
// @Produce json
// @Param id path string true "Hotel ID"
// @Success 200 {object} response.Data[dto.HotelResponse] "Hotel details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels/{id} [get]
func (handler *Handler) GetHotelByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHotelByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	hotel, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hotel")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, hotel)
}

// UpdateHotel handles updates to a hotel's profile.
// @Summary Update a hotel
// @Description Update a hotel's profile. Only the owner or a super admin may update.
// @Tags Hotel
// @Accept json
// @Produce json
// @Param id path string true "Hotel ID"
// @Param request body dto.UpdateHotelRequest true "Update Hotel Request"
// @Success 200 {object} response.Message "Hotel updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateHotel(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateHotel")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdateHotelRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update hotel")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Hotel updated successfully")
}

// ChangeHotelStatus moves a hotel through its registration lifecycle.
// @Summary Change a hotel's status
// @Description Approve or cancel a hotel registration.
// @Tags Hotel
// @Accept json
// @Produce json
// @Param id path string true "Hotel ID"
// @Param request body dto.ChangeHotelStatusRequest true "Change Hotel Status Request"
// @Success 200 {object} response.Message "Hotel status changed successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels/status/{id} [patch]
// @Security BearerAuth
func (handler *Handler) ChangeHotelStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ChangeHotelStatus")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.ChangeHotelStatusRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.ChangeStatus(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to change hotel status")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Hotel status changed successfully")
}

// DeleteHotel handles the deletion of a hotel.
// @Summary Delete a hotel
// @Description Delete a hotel. Only the owner or a super admin may delete.
// @Tags Hotel
// @Accept json
// @Produce json
// @Param id path string true "Hotel ID"
// @Success 200 {object} response.Message "Hotel deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteHotel(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteHotel")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete hotel")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Hotel deleted successfully")
}
