package room

import (
	"net/http"

	"innstay/infras/otel"
	"innstay/internal/domains/room/model"
	"innstay/internal/domains/room/model/dto"
	"innstay/internal/domains/room/service"
	"innstay/shared/constant"
	gDto "innstay/shared/dto"
	"innstay/shared/validator"
	"innstay/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoom)
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Get("/{id}", handler.GetRoomByID)
		routerGroup.Patch("/{id}", handler.UpdateRoom)
		routerGroup.Patch("/status/{id}", handler.SetRoomStatus)
		routerGroup.Delete("/{id}", handler.DeleteRoom)
	})
}

// CreateRoom handles the creation of a new room.
// @Summary Create a new room
// @Description Add a room to a hotel's inventory. Room numbers are unique within a hotel.
// @Tags Room
// @Accept json
// @Produce json
// @Param request body dto.CreateRoomRequest true "Create Room Request"
// @Success 201 {object} response.Message "Room created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	req := dto.CreateRoomRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Room created successfully")
}

// GetRooms retrieves all rooms based on query parameters.
// @Summary Get all rooms
// @Description Retrieve all rooms with optional filtering and pagination.
// @Tags Room
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param hotel_id query string false "Filter by hotel ID"
// @Param room_type query string false "Filter by room type"
// @Param room_status query string false "Filter by room status"
// @Param room_name query string false "Filter by room name"
// @Success 200 {object} response.Data[dto.GetRoomsResponse] "List of rooms"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldHotelID, model.FieldType, model.FieldStatus} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	if name := r.URL.Query().Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	rooms, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rooms")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rooms retrieved successfully")

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Description Retrieve a room by its unique identifier.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom handles updates to a room.
// @Summary Update a room
// @Description Update a room's details. Changing the number re-checks uniqueness within the hotel.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.UpdateRoomRequest true "Update Room Request"
// @Success 200 {object} response.Message "Room updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdateRoomRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Room updated successfully")
}

// SetRoomStatus sets a room's operational status.
// @Summary Set a room's status
// @Description Move a room between Available, Occupied, Reserved and Out of Service.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.SetRoomStatusRequest true "Set Room Status Request"
// @Success 200 {object} response.Message "Room status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/status/{id} [patch]
// @Security BearerAuth
func (handler *Handler) SetRoomStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetRoomStatus")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.SetRoomStatusRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.SetStatus(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set room status")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Room status updated successfully")
}

// DeleteRoom handles the deletion of a room.
// @Summary Delete a room
// @Description Remove a room from a hotel's inventory.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message "Room deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete room")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Room deleted successfully")
}
