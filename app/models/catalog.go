// Package models holds the catalog schema the ingestion pipeline writes to.
// The tables are shared with the storefront backend, so column names and
// uniqueness constraints here are a fixed contract, not something the
// pipeline is free to evolve on its own.
package models

import "time"

// CategoryType is the level of a category in the three-level taxonomy tree.
type CategoryType string

const (
	CategoryStyle       CategoryType = "STYLE"
	CategoryRoomType    CategoryType = "ROOM_TYPE"
	CategoryProductType CategoryType = "PRODUCT_TYPE"
)

// Category is one node of the STYLE → ROOM_TYPE → PRODUCT_TYPE tree.
// Unique on (name, type); created lazily by the resolver, never updated
// or deleted by the pipeline.
type Category struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"size:255;not null;uniqueIndex:idx_categories_name_type" json:"name"`
	Type      CategoryType `gorm:"size:32;not null;uniqueIndex:idx_categories_name_type" json:"type"`
	ParentID  *uint        `gorm:"index" json:"parent_id"`
	CreatedAt time.Time    `json:"created_at"`
}

// Product is the parent grouping of one or more variants. One product per
// distinct PRODUCT_TYPE leaf name.
type Product struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProductVariant is one sellable unit backed by exactly one ingested image.
// OriginalID (the filename stem) is the cross-run idempotency anchor. SKU is
// deliberately not unique: truncation can collide distinct originals, and a
// collision must not masquerade as an already-ingested object.
type ProductVariant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	SKU        string    `gorm:"size:12;not null;index" json:"sku"`
	OriginalID string    `gorm:"size:100;not null;uniqueIndex" json:"original_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Price      int64     `gorm:"not null" json:"price"`
	Currency   string    `gorm:"size:8;not null" json:"currency"`
	StockQty   int       `gorm:"not null;default:0" json:"stock_qty"`
	CreatedAt  time.Time `json:"created_at"`
}

// File is the object-storage metadata record. PathKey is the second
// idempotency anchor.
type File struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BucketID  string    `gorm:"size:255;not null" json:"bucket_id"`
	PathKey   string    `gorm:"size:1024;not null;uniqueIndex" json:"path_key"`
	MimeType  string    `gorm:"size:100;not null" json:"mime_type"`
	SizeBytes int64     `gorm:"not null" json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductImage links a file to a variant. The pipeline ingests one image per
// variant, so IsPrimary is always true for rows it creates.
type ProductImage struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	VariantID uint `gorm:"not null;index" json:"variant_id"`
	FileID    uint `gorm:"not null;index" json:"file_id"`
	IsPrimary bool `gorm:"not null;default:false" json:"is_primary"`
}
