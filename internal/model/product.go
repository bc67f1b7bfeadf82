package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultUnit = "kg"

// FarmProduct is a produce listing owned by exactly one farmer.
// Quantity is the remaining stock expressed in Unit.
type FarmProduct struct {
	BaseModel
	FarmerID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Farmer       *User           `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Quantity     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	Unit         string          `gorm:"type:varchar(20);default:'kg'" json:"unit"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_unit"`
	Available    bool            `gorm:"not null;index" json:"available"`

	// Relasi
	Orders []Order `gorm:"foreignKey:ProductID" json:"-"`
}

// TableName specifies the table name for GORM
func (FarmProduct) TableName() string {
	return "farm_products"
}

// ProductResponse mirrors the listing with the farmer nested as a public profile.
type ProductResponse struct {
	ID           string          `json:"id"`
	Farmer       *UserResponse   `json:"farmer,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Available    bool            `json:"available"`
	CreatedAt    string          `json:"created_at"`
}

func (p *FarmProduct) ToResponse() ProductResponse {
	resp := ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		Quantity:     p.Quantity,
		Unit:         p.Unit,
		PricePerUnit: p.PricePerUnit,
		Available:    p.Available,
		CreatedAt:    p.CreatedAt.Format(timestampLayout),
	}
	if p.Farmer != nil {
		farmer := p.Farmer.ToResponse()
		resp.Farmer = &farmer
	}
	return resp
}
