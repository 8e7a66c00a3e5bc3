package repositories

import (
	"context"

	"github.com/shashiranjanraj/decora/app/models"
	"gorm.io/gorm"
)

// VariantRepository handles the variant + file + image triad.
type VariantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) *VariantRepository {
	return &VariantRepository{db: db}
}

// CreateWithImage inserts the variant, its backing file record, and the
// primary product_images link in one transaction, so a mid-object failure
// can never leave a variant without its image or an orphaned file row.
//
// A duplicate key on the variant (original_id) or the file (path_key) rolls
// the whole triad back and surfaces through IsDuplicate — the caller treats
// that as "already ingested in a prior run".
func (r *VariantRepository) CreateWithImage(ctx context.Context, variant *models.ProductVariant, file *models.File) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(variant).Error; err != nil {
			return err
		}
		if err := tx.Create(file).Error; err != nil {
			return err
		}
		link := models.ProductImage{
			VariantID: variant.ID,
			FileID:    file.ID,
			IsPrimary: true,
		}
		return tx.Create(&link).Error
	})
}

// CountByOriginalID reports how many variants exist for an original
// identifier. Used by tests to assert idempotence; the unique index keeps
// the answer at most 1.
func (r *VariantRepository) CountByOriginalID(ctx context.Context, originalID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("original_id = ?", originalID).
		Count(&n).Error
	return n, err
}
