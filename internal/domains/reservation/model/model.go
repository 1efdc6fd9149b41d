package model

import "innstay/shared/model"

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID           = "id"
	FieldFullName     = "full_name"
	FieldUserEmail    = "user_email"
	FieldPhoneNumber  = "phone_number"
	FieldCountry      = "country"
	FieldNote         = "note"
	FieldHotelID      = "hotel_id"
	FieldRoomID       = "room_id"
	FieldRoomType     = "room_type"
	FieldRoomQuantity = "room_quantity"
	FieldCheckInDate  = "check_in_date"
	FieldCheckOutDate = "check_out_date"
	FieldTotalAmount  = "total_amount"
	FieldStatus       = "status"
	FieldCancelReason = "cancel_reason"
	FieldUserID       = "user_id"
)

// Reservation lifecycle. A reservation is inserted PENDING, moves to
// APPROVED once the payment session is secured, and may only be
// cancelled from APPROVED.
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusCancelled = "CANCELLED"
)

// Check-in and check-out dates are stored as calendar days, not
// timestamps.
type Reservation struct {
	ID           string  `db:"id"`
	FullName     string  `db:"full_name"`
	UserEmail    string  `db:"user_email"`
	PhoneNumber  string  `db:"phone_number"`
	Country      string  `db:"country"`
	Note         string  `db:"note"`
	HotelID      string  `db:"hotel_id"`
	RoomID       string  `db:"room_id"`
	RoomType     string  `db:"room_type"`
	RoomQuantity int     `db:"room_quantity"`
	CheckInDate  string  `db:"check_in_date"`
	CheckOutDate string  `db:"check_out_date"`
	TotalAmount  float64 `db:"total_amount"`
	Status       string  `db:"status"`
	CancelReason string  `db:"cancel_reason"`
	UserID       string  `db:"user_id"`
	model.Metadata
}

// DueCheckout is a row of the sweep query: a reservation whose
// check-out day has passed while its room is still held.
type DueCheckout struct {
	ReservationID string `db:"reservation_id"`
	RoomID        string `db:"room_id"`
	CheckOutDate  string `db:"check_out_date"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusCancelled:
		return true
	}

	return false
}
