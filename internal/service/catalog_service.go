package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agriconnect-api/internal/events"
	"agriconnect-api/internal/model"
	"agriconnect-api/internal/repository"
	"agriconnect-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CatalogService interface {
	ListVisibleProducts(ctx context.Context, viewer *model.User) ([]model.FarmProduct, error)
	GetProduct(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.FarmProduct, error)
	CreateProduct(ctx context.Context, farmer *model.User, in CreateProductInput) (*model.FarmProduct, error)
	UpdateProduct(ctx context.Context, farmer *model.User, id uuid.UUID, in UpdateProductInput) (*model.FarmProduct, error)
	DeleteProduct(ctx context.Context, farmer *model.User, id uuid.UUID) error
}

type CreateProductInput struct {
	Name         string          `json:"name" validate:"notblank,max=100"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity" validate:"decimal_nonnegative,decimal_scale2"`
	Unit         string          `json:"unit" validate:"max=20"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" validate:"decimal_nonnegative,decimal_scale2"`
	Available    *bool           `json:"available"`
}

// UpdateProductInput is a partial update. Stock is not editable here; it only
// moves through orders.
type UpdateProductInput struct {
	Name         *string          `json:"name" validate:"omitempty,notblank,max=100"`
	Description  *string          `json:"description"`
	Unit         *string          `json:"unit" validate:"omitempty,max=20"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit" validate:"omitempty,decimal_nonnegative,decimal_scale2"`
	Available    *bool            `json:"available"`
}

type catalogService struct {
	productRepo repository.ProductRepository
	events      events.Publisher
}

func NewCatalogService(pRepo repository.ProductRepository, pub events.Publisher) CatalogService {
	return &catalogService{productRepo: pRepo, events: pub}
}

// ListVisibleProducts scopes the catalog by the viewer's capability:
// farmers see all of their own listings, buyers see available listings from
// farmers in their location, everyone else sees every available listing.
func (s *catalogService) ListVisibleProducts(ctx context.Context, viewer *model.User) ([]model.FarmProduct, error) {
	switch viewer.Capability() {
	case model.CapabilityFarmer:
		return s.productRepo.FindByFarmer(ctx, viewer.ID)
	case model.CapabilityBuyer:
		return s.productRepo.FindAvailableByLocation(ctx, viewer.Location)
	default:
		return s.productRepo.FindAvailable(ctx)
	}
}

func (s *catalogService) GetProduct(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.FarmProduct, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if !visibleTo(viewer, product) {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func visibleTo(viewer *model.User, p *model.FarmProduct) bool {
	switch viewer.Capability() {
	case model.CapabilityFarmer:
		return p.FarmerID == viewer.ID
	case model.CapabilityBuyer:
		return p.Available && p.Farmer != nil && p.Farmer.Location == viewer.Location
	default:
		return p.Available
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, farmer *model.User, in CreateProductInput) (*model.FarmProduct, error) {
	if !farmer.IsFarmer {
		return nil, ErrFarmerOnly
	}
	if errs := validator.ValidateStruct(&in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	product := &model.FarmProduct{
		FarmerID:     farmer.ID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Quantity:     in.Quantity.Round(2),
		Unit:         strings.TrimSpace(in.Unit),
		PricePerUnit: in.PricePerUnit.Round(2),
		Available:    true,
	}
	if product.Unit == "" {
		product.Unit = model.DefaultUnit
	}
	if in.Available != nil {
		product.Available = *in.Available
	}
	product.CreatedBy = farmer.ID.String()
	product.UpdatedBy = farmer.ID.String()

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	product.Farmer = farmer

	notify(s.events, events.Event{
		Type:   events.TypeStockUpdate,
		Action: events.ActionProductCreated,
		Key:    product.ID.String(),
		Data: map[string]interface{}{
			"product_id":     product.ID,
			"name":           product.Name,
			"quantity":       product.Quantity,
			"unit":           product.Unit,
			"price_per_unit": product.PricePerUnit,
			"location":       farmer.Location,
		},
		Message: fmt.Sprintf("%s listed '%s'", farmer.Username, product.Name),
	})
	return product, nil
}

// ownedProduct loads a listing the farmer owns; anyone else's is reported as missing.
func (s *catalogService) ownedProduct(ctx context.Context, farmer *model.User, id uuid.UUID) (*model.FarmProduct, error) {
	if !farmer.IsFarmer {
		return nil, ErrFarmerOnly
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if product.FarmerID != farmer.ID {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, farmer *model.User, id uuid.UUID, in UpdateProductInput) (*model.FarmProduct, error) {
	product, err := s.ownedProduct(ctx, farmer, id)
	if err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(&in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	fields := map[string]interface{}{"updated_by": farmer.ID.String()}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
		fields["name"] = product.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
		fields["description"] = product.Description
	}
	if in.Unit != nil {
		product.Unit = strings.TrimSpace(*in.Unit)
		if product.Unit == "" {
			product.Unit = model.DefaultUnit
		}
		fields["unit"] = product.Unit
	}
	if in.PricePerUnit != nil {
		product.PricePerUnit = in.PricePerUnit.Round(2)
		fields["price_per_unit"] = product.PricePerUnit
	}
	if in.Available != nil {
		product.Available = *in.Available
		fields["available"] = product.Available
	}

	if err := s.productRepo.Update(ctx, product, fields); err != nil {
		return nil, err
	}
	fresh, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	notify(s.events, events.Event{
		Type:   events.TypeStockUpdate,
		Action: events.ActionProductUpdated,
		Key:    fresh.ID.String(),
		Data: map[string]interface{}{
			"product_id":     fresh.ID,
			"name":           fresh.Name,
			"quantity":       fresh.Quantity,
			"price_per_unit": fresh.PricePerUnit,
			"available":      fresh.Available,
		},
		Message: fmt.Sprintf("%s updated '%s'", farmer.Username, fresh.Name),
	})
	return fresh, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, farmer *model.User, id uuid.UUID) error {
	product, err := s.ownedProduct(ctx, farmer, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, product); err != nil {
		return err
	}

	notify(s.events, events.Event{
		Type:    events.TypeStockUpdate,
		Action:  events.ActionProductRemoved,
		Key:     product.ID.String(),
		Data:    map[string]interface{}{"product_id": product.ID},
		Message: fmt.Sprintf("%s removed '%s'", farmer.Username, product.Name),
	})
	return nil
}
