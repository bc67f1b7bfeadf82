package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const timestampLayout = time.RFC3339

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order records a purchase of one product by one buyer.
// TotalPrice is a snapshot of quantity * price_per_unit at placement time.
type Order struct {
	BaseModel
	BuyerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Buyer      *User           `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Product    *FarmProduct    `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Status     OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
}

type OrderResponse struct {
	ID         string           `json:"id"`
	Buyer      *UserResponse    `json:"buyer,omitempty"`
	Product    *ProductResponse `json:"product,omitempty"`
	Quantity   decimal.Decimal  `json:"quantity"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Status     OrderStatus      `json:"status"`
	CreatedAt  string           `json:"created_at"`
}

func (o *Order) ToResponse() OrderResponse {
	resp := OrderResponse{
		ID:         o.ID.String(),
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt.Format(timestampLayout),
	}
	if o.Buyer != nil {
		buyer := o.Buyer.ToResponse()
		resp.Buyer = &buyer
	}
	if o.Product != nil {
		product := o.Product.ToResponse()
		resp.Product = &product
	}
	return resp
}
