package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/daftarhq/daftar/internal/order"
)

type orderResponse struct {
	ID      uuid.UUID    `json:"id"`
	Name    string       `json:"name"`
	Ref     *string      `json:"ref,omitempty"`
	Date    string       `json:"date"`
	Type    order.Type   `json:"type"`
	Status  order.Status `json:"status"`
	AddedBy string       `json:"added_by,omitempty"`
	Created time.Time    `json:"created_at"`
}

func toResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:      o.ID,
		Name:    o.Name,
		Ref:     o.Ref,
		Date:    o.Date,
		Type:    o.Type,
		Status:  o.Status,
		AddedBy: o.AddedBy,
		Created: o.Created,
	}
}

func toResponseList(orders []*order.Order) []orderResponse {
	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toResponse(o)
	}

	return resp
}
