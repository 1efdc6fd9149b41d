package service

import (
	"context"
	"fmt"
	"time"

	"innstay/config"
	"innstay/infras/khalti"
	"innstay/infras/mail"
	"innstay/infras/otel"
	"innstay/infras/postgres"
	hotelModel "innstay/internal/domains/hotel/model"
	hotelRepo "innstay/internal/domains/hotel/repository"
	notificationService "innstay/internal/domains/notification/service"
	paymentModel "innstay/internal/domains/payment/model"
	paymentRepo "innstay/internal/domains/payment/repository"
	"innstay/internal/domains/reservation/model"
	"innstay/internal/domains/reservation/model/dto"
	"innstay/internal/domains/reservation/repository"
	roomModel "innstay/internal/domains/room/model"
	roomRepo "innstay/internal/domains/room/repository"
	userModel "innstay/internal/domains/user/model"
	userRepo "innstay/internal/domains/user/repository"
	"innstay/shared"
	"innstay/shared/cache"
	"innstay/shared/constant"
	gDto "innstay/shared/dto"
	"innstay/shared/failure"
	gModel "innstay/shared/model"
	"innstay/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.CreateReservationResponse, error)
	Approve(ctx context.Context, id string) error
	Cancel(ctx context.Context, req dto.CancelReservationRequest, id string) error
	ChangeStatus(ctx context.Context, req dto.ChangeReservationStatusRequest, id string) error
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) error
	UpdateMy(ctx context.Context, req dto.UpdateReservationRequest, id string) error
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	PaymentLink(ctx context.Context, id string) (dto.CreateReservationResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	GetMy(ctx context.Context, params gDto.QueryParams) (dto.GetReservationsResponse, error)
	GetByHotel(ctx context.Context, params gDto.QueryParams) (dto.GetReservationsResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.Reservation
	roomRepo     roomRepo.Room
	hotelRepo    hotelRepo.Hotel
	userRepo     userRepo.User
	paymentRepo  paymentRepo.Payment
	gateway      khalti.Gateway
	mailer       mail.Sender
	notification notificationService.Notification
	db           postgres.TxRunner
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Reservation,
	roomRepo roomRepo.Room,
	hotelRepo hotelRepo.Hotel,
	userRepo userRepo.User,
	paymentRepo paymentRepo.Payment,
	gateway khalti.Gateway,
	mailer mail.Sender,
	notification notificationService.Notification,
	db postgres.TxRunner,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		hotelRepo:    hotelRepo,
		userRepo:     userRepo,
		paymentRepo:  paymentRepo,
		gateway:      gateway,
		mailer:       mailer,
		notification: notification,
		db:           db,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// Create books a room. Everything that must hold together, the
// reservation row, the payment row and the room state flip, happens in
// one transaction with the room row locked. A failed payment session
// rolls the whole booking back.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.CreateReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = validateStayDates(req.CheckInDate, req.CheckOutDate); err != nil {
		return res, err
	}

	hotel, err := s.hotelRepo.Get(ctx, shared.FilterByID(req.HotelID, hotelModel.FieldID, hotelModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel")

		return res, fmt.Errorf("failed to get hotel: %w", err)
	}

	if hotel.ID == constant.Empty {
		return res, failure.NotFound("hotel not found") // nolint:wrapcheck
	}

	if hotel.Status != hotelModel.StatusApproved || !hotel.IsOpen {
		return res, failure.State("hotel is not accepting reservations") // nolint:wrapcheck
	}

	reservation := req.ToModel(user)

	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		room, err := s.roomRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		if room.ID == constant.Empty {
			return failure.NotFound("room not found") // nolint:wrapcheck
		}

		if room.HotelID != hotel.ID {
			return failure.BadRequestFromString("room does not belong to this hotel") // nolint:wrapcheck
		}

		if room.Status != roomModel.StatusAvailable {
			return failure.State("room is not available") // nolint:wrapcheck
		}

		if err := s.repo.InsertTx(ctx, tx, reservation); err != nil {
			return fmt.Errorf("failed to insert reservation: %w", err)
		}

		session, err := s.gateway.Initiate(ctx, khalti.InitiateRequest{
			ReturnURL:         s.cfg.Payment.Khalti.ReturnURL,
			WebsiteURL:        s.cfg.Payment.Khalti.WebsiteURL,
			Amount:            int(reservation.TotalAmount * 100),
			PurchaseOrderID:   reservation.ID,
			PurchaseOrderName: fmt.Sprintf("%s / room %s", hotel.Name, room.Number),
		})
		if err != nil {
			return err // nolint:wrapcheck
		}

		payment := paymentModel.Payment{
			ID:            uuid.NewString(),
			Amount:        reservation.TotalAmount,
			TotalAmount:   reservation.TotalAmount,
			Gateway:       paymentModel.GatewayKhalti,
			Status:        paymentModel.StatusPending,
			ReservationID: reservation.ID,
			GatewayRef:    session.Pidx,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  user,
				ModifiedBy: user,
			},
		}

		if err := s.paymentRepo.InsertTx(ctx, tx, payment); err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		roomFields := map[string]any{
			roomModel.FieldStatus:    roomModel.StatusReserved,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}
		if err := s.roomRepo.UpdateTx(ctx, tx, roomFields, shared.FilterByID(room.ID, roomModel.FieldID, roomModel.TableName)); err != nil {
			return fmt.Errorf("failed to reserve room: %w", err)
		}

		reservationFields := map[string]any{
			model.FieldStatus:        model.StatusApproved,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}
		if err := s.repo.UpdateTx(ctx, tx, reservationFields, shared.FilterByID(reservation.ID, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to approve reservation: %w", err)
		}

		res = dto.CreateReservationResponse{
			ReservationID: reservation.ID,
			PaymentURL:    session.PaymentURL,
			Pidx:          session.Pidx,
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("room_id", req.RoomID).Msg("failed to create reservation")

		return dto.CreateReservationResponse{}, err // nolint:wrapcheck
	}

	// Mails and the hotel-admin notification ride outside the transaction,
	// best-effort.
	go s.dispatchBookingSideEffects(context.WithoutCancel(ctx), reservation, hotel, res.PaymentURL)

	s.invalidateListings(ctx)

	return res, nil
}

// Approve re-confirms a reservation on behalf of the hotel. Only the
// admin of the reservation's hotel may call it; re-approving an already
// approved reservation is a no-op.
func (s *serviceImpl) Approve(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := s.ownedByCallerHotel(ctx, id)
	if err != nil {
		return err
	}

	if reservation.Status == model.StatusApproved {
		return nil
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	updatedFields := map[string]any{
		model.FieldStatus:        model.StatusApproved,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to approve reservation")

		return fmt.Errorf("failed to approve reservation: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.sendMail(c, reservation.UserEmail, "Your reservation is approved",
			fmt.Sprintf("<p>Dear %s,</p><p>Your reservation from %s to %s has been approved.</p>", reservation.FullName, reservation.CheckInDate, reservation.CheckOutDate))
	}()

	s.invalidate(ctx, id)

	return nil
}

// Cancel turns an APPROVED reservation into CANCELLED and releases the
// room in the same transaction. The periodic sweep remains the backstop
// for rooms this path never touched.
func (s *serviceImpl) Cancel(ctx context.Context, req dto.CancelReservationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var cancelled model.Reservation

	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		reservation, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return fmt.Errorf("failed to lock reservation: %w", err)
		}

		if reservation.ID == constant.Empty {
			return failure.NotFound("reservation not found") // nolint:wrapcheck
		}

		if err := s.callerMayManage(ctx, reservation); err != nil {
			return err
		}

		if reservation.Status != model.StatusApproved {
			return failure.State(fmt.Sprintf("reservation cannot be cancelled in status %s", reservation.Status)) // nolint:wrapcheck
		}

		reservationFields := map[string]any{
			model.FieldStatus:        model.StatusCancelled,
			model.FieldCancelReason:  req.CancelReason,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}
		if err := s.repo.UpdateTx(ctx, tx, reservationFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to cancel reservation: %w", err)
		}

		room, err := s.roomRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(reservation.RoomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		if room.ID != constant.Empty && room.Status != roomModel.StatusAvailable {
			roomFields := map[string]any{
				roomModel.FieldStatus:    roomModel.StatusAvailable,
				constant.FieldModifiedAt: timezone.Now(),
				constant.FieldModifiedBy: user,
			}
			if err := s.roomRepo.UpdateTx(ctx, tx, roomFields, shared.FilterByID(room.ID, roomModel.FieldID, roomModel.TableName)); err != nil {
				return fmt.Errorf("failed to release room: %w", err)
			}
		}

		cancelled = reservation

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to cancel reservation")

		return err // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.sendMail(c, cancelled.UserEmail, "Your reservation was cancelled",
			fmt.Sprintf("<p>Dear %s,</p><p>Your reservation has been cancelled.</p><p>Reason: %s</p>", cancelled.FullName, req.CancelReason))
	}()

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) ChangeStatus(ctx context.Context, req dto.ChangeReservationStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangeStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !model.ValidStatus(req.Status) {
		return failure.BadRequestFromString("invalid reservation status") // nolint:wrapcheck
	}

	if _, err = s.ownedByCallerHotel(ctx, id); err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	updatedFields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
	if req.CancelReason != constant.Empty {
		updatedFields[model.FieldCancelReason] = req.CancelReason
	}

	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to change reservation status")

		return fmt.Errorf("failed to change reservation status: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Update is the hotel-side edit. Reservations are only editable while
// they are still PENDING.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := s.ownedByCallerHotel(ctx, id)
	if err != nil {
		return err
	}

	return s.applyUpdate(ctx, req, reservation, false)
}

// UpdateMy is the customer-side edit of their own reservation. Approved
// and cancelled reservations reject the edit; a successful edit leaves
// the reservation PENDING for re-approval.
func (s *serviceImpl) UpdateMy(ctx context.Context, req dto.UpdateReservationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateMy")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if reservation.UserID != user {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	return s.applyUpdate(ctx, req, reservation, true)
}

func (s *serviceImpl) applyUpdate(ctx context.Context, req dto.UpdateReservationRequest, reservation model.Reservation, resetStatus bool) error {
	if reservation.Status != model.StatusPending {
		return failure.State(fmt.Sprintf("reservation cannot be modified in status %s", reservation.Status)) // nolint:wrapcheck
	}

	checkIn := reservation.CheckInDate
	if req.CheckInDate != constant.Empty {
		checkIn = req.CheckInDate
	}

	checkOut := reservation.CheckOutDate
	if req.CheckOutDate != constant.Empty {
		checkOut = req.CheckOutDate
	}

	if err := validateStayDates(checkIn, checkOut); err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	updatedFields := shared.TransformFields(req, user)
	if resetStatus {
		updatedFields[model.FieldStatus] = model.StatusPending
	}

	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(reservation.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update reservation")

		return fmt.Errorf("failed to update reservation: %w", err)
	}

	s.invalidate(ctx, reservation.ID)

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

// PaymentLink re-issues the checkout link for a reservation whose payment
// is still pending. Within the link TTL the gateway session cached at
// booking time is reused; after expiry a fresh one is initiated and the
// payment row is repointed at the new gateway reference.
func (s *serviceImpl) PaymentLink(ctx context.Context, id string) (res dto.CreateReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".PaymentLink")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if err = s.callerMayManage(ctx, reservation); err != nil {
		return res, err
	}

	payment, err := s.paymentRepo.Get(ctx, shared.FilterByID(reservation.ID, paymentModel.FieldReservationID, paymentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return res, failure.NotFound("payment not found") // nolint:wrapcheck
	}

	if payment.Status != paymentModel.StatusPending {
		return res, failure.State("payment is already completed") // nolint:wrapcheck
	}

	hotel, err := s.hotelRepo.Get(ctx, shared.FilterByID(reservation.HotelID, hotelModel.FieldID, hotelModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel")

		return res, fmt.Errorf("failed to get hotel: %w", err)
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(reservation.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	session, err := s.gateway.Session(ctx, khalti.InitiateRequest{
		ReturnURL:         s.cfg.Payment.Khalti.ReturnURL,
		WebsiteURL:        s.cfg.Payment.Khalti.WebsiteURL,
		Amount:            int(reservation.TotalAmount * 100),
		PurchaseOrderID:   reservation.ID,
		PurchaseOrderName: fmt.Sprintf("%s / room %s", hotel.Name, room.Number),
	})
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	// A fresh session carries a new pidx; the webhook matches on it.
	if session.Pidx != payment.GatewayRef {
		user, _ := ctx.Value(constant.ContextKeyUserID).(string)

		updatedFields := map[string]any{
			paymentModel.FieldGatewayRef: session.Pidx,
			constant.FieldModifiedAt:     timezone.Now(),
			constant.FieldModifiedBy:     user,
		}
		if err := s.paymentRepo.Update(ctx, updatedFields, shared.FilterByID(payment.ID, paymentModel.FieldID, paymentModel.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update payment gateway reference")

			return res, fmt.Errorf("failed to update payment gateway reference: %w", err)
		}
	}

	return dto.CreateReservationResponse{
		ReservationID: reservation.ID,
		PaymentURL:    session.PaymentURL,
		Pidx:          session.Pidx,
	}, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.getAll(ctx, params, filter)
}

func (s *serviceImpl) GetMy(ctx context.Context, params gDto.QueryParams) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMy")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(user, model.FieldUserID, model.TableName)

	return s.getAll(ctx, params, filter)
}

func (s *serviceImpl) GetByHotel(ctx context.Context, params gDto.QueryParams) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByHotel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	hotel, err := s.hotelRepo.Get(ctx, shared.FilterByID(user, hotelModel.FieldUserID, hotelModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get own hotel")

		return res, fmt.Errorf("failed to get own hotel: %w", err)
	}

	if hotel.ID == constant.Empty {
		return res, failure.NotFound("you have not registered a hotel") // nolint:wrapcheck
	}

	filter := shared.FilterByID(hotel.ID, model.FieldHotelID, model.TableName)

	return s.getAll(ctx, params, filter)
}

func (s *serviceImpl) getAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

// Delete removes a reservation that never got anywhere. Customers may
// only remove their own PENDING reservations.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleSuperAdmin && reservation.UserID != user {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if reservation.Status != model.StatusPending {
		return failure.State(fmt.Sprintf("reservation cannot be deleted in status %s", reservation.Status)) // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete reservation")

		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// ownedByCallerHotel loads the reservation and verifies the caller
// administers the hotel it belongs to. Super admins bypass the check.
func (s *serviceImpl) ownedByCallerHotel(ctx context.Context, id string) (model.Reservation, error) {
	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if err := s.callerMayManage(ctx, reservation); err != nil {
		return reservation, err
	}

	return reservation, nil
}

func (s *serviceImpl) callerMayManage(ctx context.Context, reservation model.Reservation) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	switch role {
	case constant.RoleSuperAdmin:
		return nil
	case constant.RoleCustomer:
		if reservation.UserID != user {
			return failure.Unauthorized("this reservation does not belong to you") // nolint:wrapcheck
		}

		return nil
	default:
		hotel, err := s.hotelRepo.Get(ctx, shared.FilterByID(user, hotelModel.FieldUserID, hotelModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get own hotel")

			return fmt.Errorf("failed to get own hotel: %w", err)
		}

		if hotel.ID == constant.Empty || hotel.ID != reservation.HotelID {
			return failure.Unauthorized("this reservation does not belong to your hotel") // nolint:wrapcheck
		}

		return nil
	}
}

func (s *serviceImpl) dispatchBookingSideEffects(ctx context.Context, reservation model.Reservation, hotel hotelModel.Hotel, paymentURL string) {
	s.sendMail(ctx, reservation.UserEmail, "Complete your payment",
		fmt.Sprintf("<p>Dear %s,</p><p>Your reservation at %s is secured. Complete your payment here: <a href=%q>%s</a></p>",
			reservation.FullName, hotel.Name, paymentURL, paymentURL))

	s.sendMail(ctx, reservation.UserEmail, "Booking confirmation",
		fmt.Sprintf("<p>Dear %s,</p><p>Your stay at %s from %s to %s is confirmed.</p>",
			reservation.FullName, hotel.Name, reservation.CheckInDate, reservation.CheckOutDate))

	s.notification.Notify(ctx, hotel.UserID, "New reservation",
		fmt.Sprintf("%s booked room %s from %s to %s", reservation.FullName, reservation.RoomID, reservation.CheckInDate, reservation.CheckOutDate))

	owner, err := s.userRepo.Get(ctx, shared.FilterByID(hotel.UserID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel owner")

		return
	}

	if owner.Email != constant.Empty {
		s.sendMail(ctx, owner.Email, "New reservation at your hotel",
			fmt.Sprintf("<p>%s booked a stay from %s to %s.</p>", reservation.FullName, reservation.CheckInDate, reservation.CheckOutDate))
	}
}

func (s *serviceImpl) sendMail(ctx context.Context, to, subject, html string) {
	if err := s.mailer.Send(ctx, mail.Mail{To: to, Subject: subject, HTML: html}); err != nil {
		log.Error().Err(err).Str("to", to).Msg("failed to send reservation mail")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}

func (s *serviceImpl) invalidateListings(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}

func validateStayDates(checkIn, checkOut string) error {
	in, err := time.Parse(constant.ReservationLayout, checkIn)
	if err != nil {
		return failure.BadRequestFromString("invalid check-in date") // nolint:wrapcheck
	}

	out, err := time.Parse(constant.ReservationLayout, checkOut)
	if err != nil {
		return failure.BadRequestFromString("invalid check-out date") // nolint:wrapcheck
	}

	if !out.After(in) {
		return failure.BadRequestFromString("check-out date must be after check-in date") // nolint:wrapcheck
	}

	return nil
}
