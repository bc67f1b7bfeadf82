package repository

import (
	"context"

	"agriconnect-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.Order, error)
	FindByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Order, error)
	CountByBuyer(ctx context.Context, buyerID uuid.UUID) (int64, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

// Create takes *gorm.DB (tx) so it runs inside the caller's transaction
func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) withRelations(ctx context.Context) *gorm.DB {
	// Removed listings still show on the orders placed against them
	return r.db.WithContext(ctx).Preload("Buyer").
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Product.Farmer")
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := r.withRelations(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.withRelations(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// FindByFarmer returns orders placed against any product the farmer owns.
func (r *orderRepo) FindByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.withRelations(ctx).
		Joins("JOIN farm_products ON farm_products.id = orders.product_id").
		Where("farm_products.farmer_id = ?", farmerID).
		Order("orders.created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) CountByBuyer(ctx context.Context, buyerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Where("buyer_id = ?", buyerID).Count(&count).Error
	return count, err
}
