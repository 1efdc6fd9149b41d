package dto

import (
	"innstay/internal/domains/payment/model"
	"innstay/shared"
	gDto "innstay/shared/dto"
)

type ConfirmPaymentRequest struct {
	GatewayRef string `json:"pidx" validate:"required"`
}

type PaymentResponse struct {
	ID            string  `json:"id"`
	Amount        float64 `json:"amount"`
	TotalAmount   float64 `json:"total_amount"`
	Gateway       string  `json:"gateway"`
	Status        string  `json:"status"`
	ReservationID string  `json:"reservation_id"`
	GatewayRef    string  `json:"gateway_ref"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(model model.Payment) {
	r.ID = model.ID
	r.Amount = model.Amount
	r.TotalAmount = model.TotalAmount
	r.Gateway = model.Gateway
	r.Status = model.Status
	r.ReservationID = model.ReservationID
	r.GatewayRef = model.GatewayRef
	r.Metadata.FromModel(model.Metadata)
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]PaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)
	}
}
