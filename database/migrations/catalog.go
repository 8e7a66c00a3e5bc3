package migrations

import (
	"github.com/shashiranjanraj/decora/app/models"
	"github.com/shashiranjanraj/decora/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260110000000_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20260110000001_create_products_table", &CreateProductsTable{})
	migration.Register("20260110000002_create_product_variants_table", &CreateProductVariantsTable{})
	migration.Register("20260110000003_create_files_table", &CreateFilesTable{})
	migration.Register("20260110000004_create_product_images_table", &CreateProductImagesTable{})
}

// -------- 0001: categories --------

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categories")
}

// -------- 0002: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0003: product_variants --------

type CreateProductVariantsTable struct{}

func (m *CreateProductVariantsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ProductVariant{})
}

func (m *CreateProductVariantsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("product_variants")
}

// -------- 0004: files --------

type CreateFilesTable struct{}

func (m *CreateFilesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.File{})
}

func (m *CreateFilesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("files")
}

// -------- 0005: product_images --------

type CreateProductImagesTable struct{}

func (m *CreateProductImagesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ProductImage{})
}

func (m *CreateProductImagesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("product_images")
}
