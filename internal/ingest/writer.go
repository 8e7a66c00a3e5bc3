package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/decora/app/models"
	"github.com/shashiranjanraj/decora/app/repositories"
)

// Outcome is the terminal state of one object's processing.
type Outcome int

const (
	// OutcomeIngested means a new variant, file record and image link were
	// written.
	OutcomeIngested Outcome = iota
	// OutcomeSkipped means a uniqueness violation showed the object was
	// already ingested in a prior run. Benign.
	OutcomeSkipped
	// OutcomeFailed means an unexpected store error. The object is left for
	// the next run; re-running is safe because of the uniqueness anchors.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIngested:
		return "ingested"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result carries the outcome of one Ingest call plus what was written.
type Result struct {
	Outcome Outcome
	Reason  string // set for OutcomeSkipped
	Err     error  // set for OutcomeFailed
	SKU     string
	Price   int64
}

// Writer turns a parsed key into catalog rows: category chain, parent
// product, then the transactional variant+file+image triad.
type Writer struct {
	categories *CategoryResolver
	products   *repositories.ProductRepository
	variants   *repositories.VariantRepository

	bucket    string
	currency  string
	dbTimeout time.Duration
}

// WriterConfig bundles the run-scoped settings for a Writer.
type WriterConfig struct {
	Bucket    string
	Currency  string
	DBTimeout time.Duration
}

func NewWriter(
	categories *CategoryResolver,
	products *repositories.ProductRepository,
	variants *repositories.VariantRepository,
	cfg WriterConfig,
) *Writer {
	if cfg.DBTimeout <= 0 {
		cfg.DBTimeout = 15 * time.Second
	}
	return &Writer{
		categories: categories,
		products:   products,
		variants:   variants,
		bucket:     cfg.Bucket,
		currency:   cfg.Currency,
		dbTimeout:  cfg.DBTimeout,
	}
}

// Ingest writes one object into the catalog. Failures never propagate as
// errors to the run loop; they come back inside the Result so the
// orchestrator can log and keep going.
//
// Cancelling ctx does not abort the object: once Ingest has started, its
// store writes run to completion under their own timeouts so a shutdown
// never leaves a half-written object. The orchestrator uses ctx only to
// stop starting new objects.
func (w *Writer) Ingest(ctx context.Context, pk ParsedKey, sizeBytes int64) Result {
	// 1. Category chain, in strict hierarchical order so each child links
	// to an already-resolved parent.
	var parentID *uint
	var productTypeID uint
	for _, level := range pk.levels() {
		id, err := w.resolveCategory(ctx, level.name, level.typ, parentID)
		if err != nil {
			return Result{Outcome: OutcomeFailed, Err: err}
		}
		productTypeID = id
		pid := id
		parentID = &pid
	}

	// 2. Parent product, one per distinct PRODUCT_TYPE leaf name.
	product, err := w.resolveProduct(ctx, pk.ProductType, productTypeID)
	if err != nil {
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	// 3–6. Variant + file + primary image link, one transaction.
	variant := models.ProductVariant{
		ProductID:  product.ID,
		SKU:        MakeSKU(product.Name, pk.OriginalID),
		OriginalID: pk.OriginalID,
		Name:       fmt.Sprintf("%s %s", product.Name, pk.OriginalID),
		Price:      RandomPrice(),
		Currency:   w.currency,
		StockQty:   1,
	}
	file := models.File{
		BucketID:  w.bucket,
		PathKey:   pk.Key,
		MimeType:  pk.MimeType,
		SizeBytes: sizeBytes,
	}

	stepCtx, cancel := w.stepContext(ctx)
	err = w.variants.CreateWithImage(stepCtx, &variant, &file)
	cancel()

	switch {
	case err == nil:
		return Result{Outcome: OutcomeIngested, SKU: variant.SKU, Price: variant.Price}
	case repositories.IsDuplicate(err):
		return Result{Outcome: OutcomeSkipped, Reason: "already ingested", SKU: variant.SKU}
	default:
		return Result{Outcome: OutcomeFailed, Err: fmt.Errorf("ingest: write variant %q: %w", pk.OriginalID, err)}
	}
}

// stepContext bounds one store call. It is detached from the run context so
// an in-flight object finishes even after shutdown is requested; the
// timeout is the only deadline.
func (w *Writer) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), w.dbTimeout)
}

func (w *Writer) resolveCategory(ctx context.Context, name string, typ models.CategoryType, parentID *uint) (uint, error) {
	stepCtx, cancel := w.stepContext(ctx)
	defer cancel()
	return w.categories.Resolve(stepCtx, name, typ, parentID)
}

// resolveProduct looks the product up by name and creates it on first
// sight. Name uniqueness is backed by a store index, so a concurrent
// first-insert loses cleanly and re-selects the winner.
func (w *Writer) resolveProduct(ctx context.Context, name string, categoryID uint) (models.Product, error) {
	stepCtx, cancel := w.stepContext(ctx)
	defer cancel()

	product, err := w.products.FindByName(stepCtx, name)
	switch {
	case err == nil:
		return product, nil
	case !repositories.IsNotFound(err):
		return models.Product{}, fmt.Errorf("ingest: find product %q: %w", name, err)
	}

	created := models.Product{Name: name, CategoryID: categoryID}
	err = w.products.Create(stepCtx, &created)
	if err == nil {
		return created, nil
	}

	if repositories.IsDuplicate(err) {
		product, ferr := w.products.FindByName(stepCtx, name)
		if ferr != nil {
			return models.Product{}, fmt.Errorf("ingest: refetch product %q: %w", name, ferr)
		}
		return product, nil
	}

	return models.Product{}, fmt.Errorf("ingest: create product %q: %w", name, err)
}
