package model

import "innstay/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID       = "id"
	FieldEmail    = "email"
	FieldFullName = "full_name"
	FieldPhone    = "phone"
	FieldRole     = "role"
)

// User mirrors the external user/role directory. The reservation core only
// reads it; registration and credentials live outside this service.
type User struct {
	ID       string `db:"id"`
	Email    string `db:"email"`
	FullName string `db:"full_name"`
	Phone    string `db:"phone"`
	Role     string `db:"role"`
	model.Metadata
}
