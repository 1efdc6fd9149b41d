package model

import "innstay/shared/model"

const (
	TableName  = "hotels"
	EntityName = "hotel"

	FieldID          = "id"
	FieldName        = "name"
	FieldAddress     = "address"
	FieldDescription = "description"
	FieldIsOpen      = "is_open"
	FieldStatus      = "status"
	FieldUserID      = "user_id"
)

// Hotel registration status. A hotel serves reservations only once a
// super admin has moved it to APPROVED.
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusCancelled = "CANCELLED"
)

type Hotel struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Address     string `db:"address"`
	Description string `db:"description"`
	IsOpen      bool   `db:"is_open"`
	Status      string `db:"status"`
	UserID      string `db:"user_id"`
	model.Metadata
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusCancelled:
		return true
	}

	return false
}
