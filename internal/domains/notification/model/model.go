package model

import "innstay/shared/model"

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID     = "id"
	FieldUserID = "user_id"
	FieldTitle  = "title"
	FieldBody   = "body"
	FieldRead   = "read"
)

type Notification struct {
	ID     string `db:"id"`
	UserID string `db:"user_id"`
	Title  string `db:"title"`
	Body   string `db:"body"`
	Read   bool   `db:"read"`
	model.Metadata
}
