package model

import "innstay/shared/model"

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID            = "id"
	FieldAmount        = "amount"
	FieldTotalAmount   = "total_amount"
	FieldGateway       = "gateway"
	FieldStatus        = "status"
	FieldReservationID = "reservation_id"
	FieldGatewayRef    = "gateway_ref"
)

const (
	GatewayKhalti = "KHALTI"
	GatewayEsewa  = "ESEWA"
	GatewayStripe = "STRIPE"
)

// A payment row is created PENDING alongside its reservation and only
// moves to COMPLETED when the gateway callback confirms it.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

type Payment struct {
	ID            string  `db:"id"`
	Amount        float64 `db:"amount"`
	TotalAmount   float64 `db:"total_amount"`
	Gateway       string  `db:"gateway"`
	Status        string  `db:"status"`
	ReservationID string  `db:"reservation_id"`
	GatewayRef    string  `db:"gateway_ref"`
	model.Metadata
}
