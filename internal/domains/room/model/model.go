package model

import "innstay/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID       = "id"
	FieldHotelID  = "hotel_id"
	FieldName     = "room_name"
	FieldNumber   = "room_number"
	FieldType     = "room_type"
	FieldStatus   = "room_status"
	FieldRate     = "room_rate"
	FieldCapacity = "room_capacity"
)

const (
	StatusAvailable    = "Available"
	StatusOccupied     = "Occupied"
	StatusReserved     = "Reserved"
	StatusOutOfService = "Out of Service"
)

const (
	TypeStandard     = "Standard Room"
	TypeDeluxe       = "Deluxe Room"
	TypeDouble       = "Double Room"
	TypeDeluxeDouble = "Deluxe Double Room"
	TypeTriple       = "Triple Room"
)

type Room struct {
	ID       string  `db:"id"`
	HotelID  string  `db:"hotel_id"`
	Name     string  `db:"room_name"`
	Number   string  `db:"room_number"`
	Type     string  `db:"room_type"`
	Status   string  `db:"room_status"`
	Rate     float64 `db:"room_rate"`
	Capacity int     `db:"room_capacity"`
	model.Metadata
}

func ValidStatus(status string) bool {
	switch status {
	case StatusAvailable, StatusOccupied, StatusReserved, StatusOutOfService:
		return true
	}

	return false
}
