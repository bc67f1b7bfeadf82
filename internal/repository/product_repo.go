package repository

import (
	"context"

	"agriconnect-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.FarmProduct) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FarmProduct, error)
	FindByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.FarmProduct, error)
	FindAvailable(ctx context.Context) ([]model.FarmProduct, error)
	FindAvailableByLocation(ctx context.Context, location string) ([]model.FarmProduct, error)
	CountByFarmer(ctx context.Context, farmerID uuid.UUID) (int64, error)
	Update(ctx context.Context, product *model.FarmProduct, fields map[string]interface{}) error
	Delete(ctx context.Context, product *model.FarmProduct) error
	DecrementStock(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal, updatedBy string) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.FarmProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FarmProduct, error) {
	var product model.FarmProduct
	if err := r.db.WithContext(ctx).Preload("Farmer").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.FarmProduct, error) {
	var products []model.FarmProduct
	err := r.db.WithContext(ctx).Preload("Farmer").
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindAvailable(ctx context.Context) ([]model.FarmProduct, error) {
	var products []model.FarmProduct
	err := r.db.WithContext(ctx).Preload("Farmer").
		Where("available = ?", true).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// FindAvailableByLocation matches the owning farmer's location exactly.
func (r *productRepo) FindAvailableByLocation(ctx context.Context, location string) ([]model.FarmProduct, error) {
	var products []model.FarmProduct
	err := r.db.WithContext(ctx).Preload("Farmer").
		Joins("JOIN users ON users.id = farm_products.farmer_id AND users.deleted_at IS NULL").
		Where("farm_products.available = ? AND users.location = ?", true, location).
		Order("farm_products.created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CountByFarmer(ctx context.Context, farmerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FarmProduct{}).Where("farmer_id = ?", farmerID).Count(&count).Error
	return count, err
}

// Update writes only the given columns; quantity is never among them.
func (r *productRepo) Update(ctx context.Context, product *model.FarmProduct, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(product).Updates(fields).Error
}

// Delete is a soft delete; past orders keep referencing the row.
func (r *productRepo) Delete(ctx context.Context, product *model.FarmProduct) error {
	return r.db.WithContext(ctx).Delete(product).Error
}

// DecrementStock subtracts qty only while enough stock remains. It must run
// inside the caller's transaction; false means no row qualified.
// qty has at most two decimal places, so ROUND only clears SQLite float noise.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal, updatedBy string) (bool, error) {
	res := tx.Model(&model.FarmProduct{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("ROUND(quantity - ?, 2)", qty),
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
