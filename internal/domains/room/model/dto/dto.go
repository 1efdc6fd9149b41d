package dto

import (
	"innstay/internal/domains/room/model"
	"innstay/shared"
	gDto "innstay/shared/dto"
	gModel "innstay/shared/model"
	"innstay/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	HotelID  string  `json:"hotel_id"      validate:"required,uuid"`
	Name     string  `json:"room_name"     validate:"required,max=100"`
	Number   string  `json:"room_number"   validate:"required,max=20"`
	Type     string  `json:"room_type"     validate:"required,oneof='Standard Room' 'Deluxe Room' 'Double Room' 'Deluxe Double Room' 'Triple Room'"`
	Rate     float64 `json:"room_rate"     validate:"required,gt=0"`
	Capacity int     `json:"room_capacity" validate:"required,min=1"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	return model.Room{
		ID:       uuid.NewString(),
		HotelID:  c.HotelID,
		Name:     c.Name,
		Number:   c.Number,
		Type:     c.Type,
		Status:   model.StatusAvailable,
		Rate:     c.Rate,
		Capacity: c.Capacity,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name     string   `db:"room_name"     json:"room_name"     validate:"omitempty,max=100"`
	Number   string   `db:"room_number"   json:"room_number"   validate:"omitempty,max=20"`
	Type     string   `db:"room_type"     json:"room_type"     validate:"omitempty,oneof='Standard Room' 'Deluxe Room' 'Double Room' 'Deluxe Double Room' 'Triple Room'"`
	Rate     *float64 `db:"room_rate"     json:"room_rate"     validate:"omitempty,gt=0"`
	Capacity *int     `db:"room_capacity" json:"room_capacity" validate:"omitempty,min=1"`
}

type SetRoomStatusRequest struct {
	Status string `json:"room_status" validate:"required,oneof=Available Occupied Reserved 'Out of Service'"`
}

type RoomResponse struct {
	ID       string  `json:"id"`
	HotelID  string  `json:"hotel_id"`
	Name     string  `json:"room_name"`
	Number   string  `json:"room_number"`
	Type     string  `json:"room_type"`
	Status   string  `json:"room_status"`
	Rate     float64 `json:"room_rate"`
	Capacity int     `json:"room_capacity"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.HotelID = model.HotelID
	r.Name = model.Name
	r.Number = model.Number
	r.Type = model.Type
	r.Status = model.Status
	r.Rate = model.Rate
	r.Capacity = model.Capacity
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
