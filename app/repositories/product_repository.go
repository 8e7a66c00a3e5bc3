package repositories

import (
	"context"

	"github.com/shashiranjanraj/decora/app/models"
	"gorm.io/gorm"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindByName looks up the parent product for a PRODUCT_TYPE leaf name.
func (r *ProductRepository) FindByName(ctx context.Context, name string) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error
	return p, err
}

// Create persists a new product row.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}
