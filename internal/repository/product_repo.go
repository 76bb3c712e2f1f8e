package repository

import (
	"context"
	"errors"

	"socioportal/internal/model"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("product size not found")
	ErrInsufficientStock = errors.New("insufficient stock for size")
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*model.Product, error) {
	if tx == nil {
		tx = r.db
	}
	var product model.Product
	err := tx.WithContext(ctx).Preload("Variants").Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context, activeOnly bool) ([]*model.Product, error) {
	var products []*model.Product
	query := r.db.WithContext(ctx).Preload("Variants").Order("created_at DESC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Find(&products).Error
	return products, err
}

func (r *ProductRepository) Update(ctx context.Context, product *model.Product) error {
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"price":       product.Price,
			"description": product.Description,
			"active":      product.Active,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductVariant{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Product{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

// ReplaceVariants swaps the product's size/stock rows for the given set.
func (r *ProductRepository) ReplaceVariants(ctx context.Context, tx *gorm.DB, productID int64, variants []model.ProductVariant) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.ProductVariant{}).Error; err != nil {
		return err
	}
	for i := range variants {
		variants[i].ID = 0
		variants[i].ProductID = productID
	}
	if len(variants) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&variants).Error
}

func (r *ProductRepository) GetVariant(ctx context.Context, tx *gorm.DB, productID int64, size string) (*model.ProductVariant, error) {
	if tx == nil {
		tx = r.db
	}
	var variant model.ProductVariant
	err := tx.WithContext(ctx).
		Where("product_id = ? AND size = ?", productID, size).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// DecrementStock takes quantity units from a size. The `stock >= ?` guard
// is in the UPDATE itself, so stock can never go negative no matter how
// the callers race.
func (r *ProductRepository) DecrementStock(ctx context.Context, tx *gorm.DB, productID int64, size string, quantity int64) error {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.ProductVariant{}).
		Where("product_id = ? AND size = ? AND stock >= ?", productID, size, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.GetVariant(ctx, tx, productID, size); err != nil {
			return err
		}
		return ErrInsufficientStock
	}

	return nil
}

// IncrementStock gives quantity units back to a size (cancellation,
// expiry, member removal).
func (r *ProductRepository) IncrementStock(ctx context.Context, tx *gorm.DB, productID int64, size string, quantity int64) error {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.ProductVariant{}).
		Where("product_id = ? AND size = ?", productID, size).
		Update("stock", gorm.Expr("stock + ?", quantity))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrVariantNotFound
	}

	return nil
}
