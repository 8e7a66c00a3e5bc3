package repositories

import (
	"context"

	"github.com/shashiranjanraj/decora/app/models"
	"gorm.io/gorm"
)

// CategoryRepository handles database operations for Category.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindByNameAndType looks up a category by its unique (name, type) pair.
// Returns IsNotFound-matching error when absent.
func (r *CategoryRepository) FindByNameAndType(ctx context.Context, name string, typ models.CategoryType) (models.Category, error) {
	var cat models.Category
	err := r.db.WithContext(ctx).
		Where("name = ? AND type = ?", name, typ).
		First(&cat).Error
	return cat, err
}

// Create persists a new category row. The caller owns duplicate handling:
// under concurrent resolution two workers can race to first-insert the same
// (name, type), and the loser must re-select instead of failing the object.
func (r *CategoryRepository) Create(ctx context.Context, cat *models.Category) error {
	return r.db.WithContext(ctx).Create(cat).Error
}
