package dto

import (
	"innstay/internal/domains/reservation/model"
	"innstay/shared"
	gDto "innstay/shared/dto"
	gModel "innstay/shared/model"
	"innstay/shared/timezone"

	"github.com/google/uuid"
)

// CreateReservationRequest combines the booking path parameters with the
// guest details from the request body.
type CreateReservationRequest struct {
	HotelID      string  `json:"hotel_id"      validate:"required,uuid"`
	RoomID       string  `json:"room_id"       validate:"required,uuid"`
	RoomType     string  `json:"room_type"     validate:"required,oneof='Standard Room' 'Deluxe Room' 'Double Room' 'Deluxe Double Room' 'Triple Room'"`
	RoomQuantity int     `json:"room_quantity" validate:"required,min=1"`
	TotalAmount  float64 `json:"total_amount"  validate:"required,gt=0"`
	CheckInDate  string  `json:"check_in_date"  validate:"required,datetime=2006-01-02"`
	CheckOutDate string  `json:"check_out_date" validate:"required,datetime=2006-01-02"`

	FullName     string `json:"full_name"     validate:"required,max=100"`
	UserEmail    string `json:"user_email"    validate:"required,email"`
	ConfirmEmail string `json:"confirm_email" validate:"required,email,eqfield=UserEmail"`
	PhoneNumber  string `json:"phone_number"  validate:"required,max=20"`
	Country      string `json:"country"       validate:"required,max=100"`
	Note         string `json:"note"          validate:"omitempty,max=1000"`
}

func (c *CreateReservationRequest) ToModel(user string) model.Reservation {
	return model.Reservation{
		ID:           uuid.NewString(),
		FullName:     c.FullName,
		UserEmail:    c.UserEmail,
		PhoneNumber:  c.PhoneNumber,
		Country:      c.Country,
		Note:         c.Note,
		HotelID:      c.HotelID,
		RoomID:       c.RoomID,
		RoomType:     c.RoomType,
		RoomQuantity: c.RoomQuantity,
		CheckInDate:  c.CheckInDate,
		CheckOutDate: c.CheckOutDate,
		TotalAmount:  c.TotalAmount,
		Status:       model.StatusPending,
		UserID:       user,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type CreateReservationResponse struct {
	ReservationID string `json:"reservation_id"`
	PaymentURL    string `json:"payment_url"`
	Pidx          string `json:"pidx"`
}

type UpdateReservationRequest struct {
	FullName     string `db:"full_name"      json:"full_name"      validate:"omitempty,max=100"`
	PhoneNumber  string `db:"phone_number"   json:"phone_number"   validate:"omitempty,max=20"`
	Country      string `db:"country"        json:"country"        validate:"omitempty,max=100"`
	Note         string `db:"note"           json:"note"           validate:"omitempty,max=1000"`
	RoomQuantity *int   `db:"room_quantity"  json:"room_quantity"  validate:"omitempty,min=1"`
	CheckInDate  string `db:"check_in_date"  json:"check_in_date"  validate:"omitempty,datetime=2006-01-02"`
	CheckOutDate string `db:"check_out_date" json:"check_out_date" validate:"omitempty,datetime=2006-01-02"`
}

type CancelReservationRequest struct {
	CancelReason string `json:"cancel_reason" validate:"required,max=500"`
}

type ChangeReservationStatusRequest struct {
	Status       string `json:"status"        validate:"required,oneof=PENDING APPROVED CANCELLED"`
	CancelReason string `json:"cancel_reason" validate:"omitempty,max=500"`
}

type ReservationResponse struct {
	ID           string  `json:"id"`
	FullName     string  `json:"full_name"`
	UserEmail    string  `json:"user_email"`
	PhoneNumber  string  `json:"phone_number"`
	Country      string  `json:"country"`
	Note         string  `json:"note"`
	HotelID      string  `json:"hotel_id"`
	RoomID       string  `json:"room_id"`
	RoomType     string  `json:"room_type"`
	RoomQuantity int     `json:"room_quantity"`
	CheckInDate  string  `json:"check_in_date"`
	CheckOutDate string  `json:"check_out_date"`
	TotalAmount  float64 `json:"total_amount"`
	Status       string  `json:"status"`
	CancelReason string  `json:"cancel_reason"`
	UserID       string  `json:"user_id"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.FullName = model.FullName
	r.UserEmail = model.UserEmail
	r.PhoneNumber = model.PhoneNumber
	r.Country = model.Country
	r.Note = model.Note
	r.HotelID = model.HotelID
	r.RoomID = model.RoomID
	r.RoomType = model.RoomType
	r.RoomQuantity = model.RoomQuantity
	r.CheckInDate = model.CheckInDate
	r.CheckOutDate = model.CheckOutDate
	r.TotalAmount = model.TotalAmount
	r.Status = model.Status
	r.CancelReason = model.CancelReason
	r.UserID = model.UserID
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}
