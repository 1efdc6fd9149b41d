package dto

import (
	"innstay/internal/domains/notification/model"
	"innstay/shared"
	gDto "innstay/shared/dto"
	gModel "innstay/shared/model"
	"innstay/shared/timezone"

	"github.com/google/uuid"
)

// NotificationEvent is the payload published to the notification topic.
// The consumer turns it into a persisted row.
type NotificationEvent struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

func (e *NotificationEvent) ToModel() model.Notification {
	return model.Notification{
		ID:     uuid.NewString(),
		UserID: e.UserID,
		Title:  e.Title,
		Body:   e.Body,
		Read:   false,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  e.UserID,
			ModifiedBy: e.UserID,
		},
	}
}

type NotificationResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Read   bool   `json:"read"`
	gDto.Metadata
}

func (r *NotificationResponse) FromModel(model model.Notification) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.Title = model.Title
	r.Body = model.Body
	r.Read = model.Read
	r.Metadata.FromModel(model.Metadata)
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}
