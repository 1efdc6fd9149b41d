package dto

import (
	"innstay/internal/domains/hotel/model"
	"innstay/shared"
	gDto "innstay/shared/dto"
	gModel "innstay/shared/model"
	"innstay/shared/timezone"

	"github.com/google/uuid"
)

type CreateHotelRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Address     string `json:"address"     validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	IsOpen      *bool  `json:"is_open"     validate:"omitempty"`
}

func (c *CreateHotelRequest) ToModel(user string) model.Hotel {
	isOpen := true
	if c.IsOpen != nil {
		isOpen = *c.IsOpen
	}

	return model.Hotel{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Address:     c.Address,
		Description: c.Description,
		IsOpen:      isOpen,
		Status:      model.StatusPending,
		UserID:      user,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateHotelRequest struct {
	Name        string `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Address     string `db:"address"     json:"address"     validate:"omitempty,max=200"`
	Description string `db:"description" json:"description" validate:"omitempty,max=1000"`
	IsOpen      *bool  `db:"is_open"     json:"is_open"     validate:"omitempty"`
}

type ChangeHotelStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING APPROVED CANCELLED"`
}

type HotelResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
	IsOpen      bool   `json:"is_open"`
	Status      string `json:"status"`
	UserID      string `json:"user_id"`
	gDto.Metadata
}

func (r *HotelResponse) FromModel(model model.Hotel) {
	r.ID = model.ID
	r.Name = model.Name
	r.Address = model.Address
	r.Description = model.Description
	r.IsOpen = model.IsOpen
	r.Status = model.Status
	r.UserID = model.UserID
	r.Metadata.FromModel(model.Metadata)
}

type GetHotelsResponse struct {
	Hotels    []HotelResponse `json:"hotels"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetHotelsResponse) FromModels(models []model.Hotel, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Hotels = make([]HotelResponse, len(models))
	for i, mod := range models {
		r.Hotels[i].FromModel(mod)
	}
}
