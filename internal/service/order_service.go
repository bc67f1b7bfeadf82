package service

import (
	"context"
	"errors"
	"fmt"

	"agriconnect-api/internal/events"
	"agriconnect-api/internal/idempotency"
	"agriconnect-api/internal/model"
	"agriconnect-api/internal/repository"
	"agriconnect-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, buyer *model.User, in PlaceOrderInput) (*model.Order, error)
	ListOrders(ctx context.Context, viewer *model.User) ([]model.Order, error)
	GetOrder(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.Order, error)
}

type PlaceOrderInput struct {
	ProductID      uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity       decimal.Decimal `json:"quantity" validate:"decimal_positive,decimal_scale2"`
	IdempotencyKey string          `json:"-"`
}

type orderService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	db          *gorm.DB
	idem        idempotency.Store
	events      events.Publisher
}

// NewOrderService wires the order flow. idem may be nil to disable idempotency keys.
func NewOrderService(pRepo repository.ProductRepository, oRepo repository.OrderRepository, db *gorm.DB, idem idempotency.Store, pub events.Publisher) OrderService {
	return &orderService{
		productRepo: pRepo,
		orderRepo:   oRepo,
		db:          db,
		idem:        idem,
		events:      pub,
	}
}

// PlaceOrder decrements stock and records a pending order in one transaction.
// The buyer always comes from the authenticated caller.
func (s *orderService) PlaceOrder(ctx context.Context, buyer *model.User, in PlaceOrderInput) (*model.Order, error) {
	if errs := validator.ValidateStruct(&in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	var idemKey string
	if in.IdempotencyKey != "" && s.idem != nil {
		idemKey = buyer.ID.String() + ":" + in.IdempotencyKey
		ok, err := s.idem.Reserve(ctx, idemKey)
		if err != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if !ok {
			return nil, ErrDuplicateRequest
		}
	}

	order, product, err := s.commit(ctx, buyer, in)
	if err != nil {
		if idemKey != "" {
			if rerr := s.idem.Release(ctx, idemKey); rerr != nil {
				log.Warn().Err(rerr).Str("key", idemKey).Msg("release idempotency key")
			}
		}
		return nil, err
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("product_id", product.ID.String()).
		Str("buyer_id", buyer.ID.String()).
		Str("quantity", order.Quantity.String()).
		Str("remaining", product.Quantity.String()).
		Msg("order placed")

	notify(s.events, events.Event{
		Type:   events.TypeStockUpdate,
		Action: events.ActionOrderPlaced,
		Key:    product.ID.String(),
		Data: map[string]interface{}{
			"order_id":    order.ID,
			"product_id":  product.ID,
			"quantity":    order.Quantity,
			"total_price": order.TotalPrice,
			"new_stock":   product.Quantity,
		},
		Message: fmt.Sprintf("%s ordered %s %s of '%s'", buyer.Username, order.Quantity.String(), product.Unit, product.Name),
	})

	full, err := s.orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		// The order is committed; answer with what the transaction produced
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("reload placed order")
		order.Buyer = buyer
		order.Product = product
		return order, nil
	}
	return full, nil
}

func (s *orderService) commit(ctx context.Context, buyer *model.User, in PlaceOrderInput) (*model.Order, *model.FarmProduct, error) {
	var (
		order   *model.Order
		product model.FarmProduct
	)
	buyerID := buyer.ID.String()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A. Conditional decrement: concurrent orders cannot both pass the stock check
		ok, err := s.productRepo.DecrementStock(tx, in.ProductID, in.Quantity, buyerID)
		if err != nil {
			return err
		}
		if !ok {
			var count int64
			if err := tx.Model(&model.FarmProduct{}).Where("id = ?", in.ProductID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrProductNotFound
			}
			return ErrInsufficientStock
		}

		// B. The row is now write-locked; price is unaffected by the decrement
		if err := tx.First(&product, "id = ?", in.ProductID).Error; err != nil {
			return err
		}

		// C. Record the order
		order = &model.Order{
			BuyerID:    buyer.ID,
			ProductID:  product.ID,
			Quantity:   in.Quantity,
			TotalPrice: in.Quantity.Mul(product.PricePerUnit).Round(2),
			Status:     model.OrderPending,
		}
		order.CreatedBy = buyerID
		order.UpdatedBy = buyerID
		return s.orderRepo.Create(tx, order)
	})
	if err != nil {
		return nil, nil, err
	}
	return order, &product, nil
}

// ListOrders: farmers see orders against their products, everyone else their own purchases.
func (s *orderService) ListOrders(ctx context.Context, viewer *model.User) ([]model.Order, error) {
	if viewer.Capability() == model.CapabilityFarmer {
		return s.orderRepo.FindByFarmer(ctx, viewer.ID)
	}
	return s.orderRepo.FindByBuyer(ctx, viewer.ID)
}

func (s *orderService) GetOrder(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	visible := order.BuyerID == viewer.ID
	if viewer.Capability() == model.CapabilityFarmer {
		visible = order.Product != nil && order.Product.FarmerID == viewer.ID
	}
	if !visible {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
