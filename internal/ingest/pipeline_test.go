package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/decora/app/models"
	"github.com/shashiranjanraj/decora/app/repositories"
	"github.com/shashiranjanraj/decora/internal/ingest"
)

// ─── Fixtures ─────────────────────────────────────────────────────────────────

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.File{},
		&models.ProductImage{},
	))
	return db
}

func newTestWriter(db *gorm.DB) *ingest.Writer {
	resolver := ingest.NewCategoryResolver(repositories.NewCategoryRepository(db))
	return ingest.NewWriter(
		resolver,
		repositories.NewProductRepository(db),
		repositories.NewVariantRepository(db),
		ingest.WriterConfig{
			Bucket:    "catalog-test",
			Currency:  "VND",
			DBTimeout: 5 * time.Second,
		},
	)
}

func mustParse(t *testing.T, key string) ingest.ParsedKey {
	t.Helper()
	pk, err := ingest.ParseKey(key)
	require.NoError(t, err)
	return pk
}

// fakeLister serves a fixed object list, or a listing error.
type fakeLister struct {
	objects []ingest.Object
	err     error
}

func (f *fakeLister) ListAll(_ context.Context) ([]ingest.Object, error) {
	return f.objects, f.err
}

// ─── Category resolver ────────────────────────────────────────────────────────

func TestResolver_CoherentWithinAndAcrossRuns(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewCategoryRepository(db)
	ctx := context.Background()

	run1 := ingest.NewCategoryResolver(repo)

	styleID, err := run1.Resolve(ctx, "Baby Children", models.CategoryStyle, nil)
	require.NoError(t, err)
	roomID, err := run1.Resolve(ctx, "Baby", models.CategoryRoomType, &styleID)
	require.NoError(t, err)
	leafID, err := run1.Resolve(ctx, "Babies Tableware", models.CategoryProductType, &roomID)
	require.NoError(t, err)

	// Same triple again within the run: cache hit, identical ids.
	again, err := run1.Resolve(ctx, "Babies Tableware", models.CategoryProductType, &roomID)
	require.NoError(t, err)
	assert.Equal(t, leafID, again)

	// A fresh resolver (a second run, cold cache) re-derives the same ids
	// from the store.
	run2 := ingest.NewCategoryResolver(repo)
	styleID2, err := run2.Resolve(ctx, "Baby Children", models.CategoryStyle, nil)
	require.NoError(t, err)
	assert.Equal(t, styleID, styleID2)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.EqualValues(t, 3, count, "each taxonomy node must exist exactly once")

	// Parent linkage forms the 3-level tree.
	var leaf models.Category
	require.NoError(t, db.First(&leaf, leafID).Error)
	require.NotNil(t, leaf.ParentID)
	assert.Equal(t, roomID, *leaf.ParentID)

	var room models.Category
	require.NoError(t, db.First(&room, roomID).Error)
	require.NotNil(t, room.ParentID)
	assert.Equal(t, styleID, *room.ParentID)

	var style models.Category
	require.NoError(t, db.First(&style, styleID).Error)
	assert.Nil(t, style.ParentID)
}

func TestResolver_SameNameDifferentType(t *testing.T) {
	// "Baby" can be both a ROOM_TYPE and a PRODUCT_TYPE; the (type, name)
	// cache key must keep them apart.
	db := newTestDB(t)
	resolver := ingest.NewCategoryResolver(repositories.NewCategoryRepository(db))
	ctx := context.Background()

	roomID, err := resolver.Resolve(ctx, "Baby", models.CategoryRoomType, nil)
	require.NoError(t, err)
	typeID, err := resolver.Resolve(ctx, "Baby", models.CategoryProductType, &roomID)
	require.NoError(t, err)

	assert.NotEqual(t, roomID, typeID)
}

// ─── Catalog writer ───────────────────────────────────────────────────────────

func TestWriter_IngestCreatesFullGraph(t *testing.T) {
	db := newTestDB(t)
	writer := newTestWriter(db)
	ctx := context.Background()

	pk := mustParse(t, "Baby Children/Baby/Babies Tableware/00319526.jpg")
	res := writer.Ingest(ctx, pk, 2048)
	require.Equal(t, ingest.OutcomeIngested, res.Outcome, "err: %v", res.Err)

	var variant models.ProductVariant
	require.NoError(t, db.Where("original_id = ?", "00319526").First(&variant).Error)
	assert.Equal(t, "BT0000319526", variant.SKU)
	assert.Equal(t, "Babies Tableware 00319526", variant.Name)
	assert.Equal(t, "VND", variant.Currency)
	assert.Equal(t, 1, variant.StockQty)
	assert.GreaterOrEqual(t, variant.Price, int64(99_000))
	assert.LessOrEqual(t, variant.Price, int64(6_800_000))
	assert.Zero(t, variant.Price%1000)

	var product models.Product
	require.NoError(t, db.First(&product, variant.ProductID).Error)
	assert.Equal(t, "Babies Tableware", product.Name)

	var leaf models.Category
	require.NoError(t, db.First(&leaf, product.CategoryID).Error)
	assert.Equal(t, models.CategoryProductType, leaf.Type)

	var file models.File
	require.NoError(t, db.Where("path_key = ?", pk.Key).First(&file).Error)
	assert.Equal(t, "catalog-test", file.BucketID)
	assert.Equal(t, "image/jpeg", file.MimeType)
	assert.EqualValues(t, 2048, file.SizeBytes)

	var link models.ProductImage
	require.NoError(t, db.Where("variant_id = ?", variant.ID).First(&link).Error)
	assert.Equal(t, file.ID, link.FileID)
	assert.True(t, link.IsPrimary)
}

func TestWriter_SecondRunSkips(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	pk := mustParse(t, "Baby Children/Baby/Babies Tableware/00319526.jpg")

	first := newTestWriter(db).Ingest(ctx, pk, 2048)
	require.Equal(t, ingest.OutcomeIngested, first.Outcome, "err: %v", first.Err)

	// Fresh writer simulates a later run with a cold category cache.
	second := newTestWriter(db).Ingest(ctx, pk, 2048)
	assert.Equal(t, ingest.OutcomeSkipped, second.Outcome)
	assert.Equal(t, "already ingested", second.Reason)

	n, err := repositories.NewVariantRepository(db).CountByOriginalID(ctx, "00319526")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "re-run must not duplicate the variant")

	var files int64
	require.NoError(t, db.Model(&models.File{}).Count(&files).Error)
	assert.EqualValues(t, 1, files, "re-run must not duplicate the file record")
}

func TestWriter_TruncatedSKUCollisionStillIngests(t *testing.T) {
	// Long original ids truncate to the same 12-char SKU. SKU carries no
	// uniqueness; only distinct original_id and path_key decide skips.
	db := newTestDB(t)
	writer := newTestWriter(db)
	ctx := context.Background()

	first := writer.Ingest(ctx, mustParse(t, "A/B/Sofas/12345678901234.jpg"), 10)
	require.Equal(t, ingest.OutcomeIngested, first.Outcome, "err: %v", first.Err)

	second := writer.Ingest(ctx, mustParse(t, "A/B/Sofas/12345678901299.jpg"), 10)
	require.Equal(t, ingest.OutcomeIngested, second.Outcome,
		"a colliding SKU must not pass for an already-ingested object (err: %v, reason: %q)",
		second.Err, second.Reason)
	assert.Equal(t, first.SKU, second.SKU, "both ids truncate to one SKU")

	var variants int64
	require.NoError(t, db.Model(&models.ProductVariant{}).Count(&variants).Error)
	assert.EqualValues(t, 2, variants)
}

func TestWriter_CancelledRunFinishesInFlightObject(t *testing.T) {
	// Shutdown stops new objects at the orchestrator; an object already
	// handed to the writer still completes all of its store writes.
	db := newTestDB(t)
	writer := newTestWriter(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := writer.Ingest(ctx, mustParse(t, "A/B/Sofas/00000001.jpg"), 10)
	require.Equal(t, ingest.OutcomeIngested, res.Outcome, "err: %v", res.Err)

	var variant models.ProductVariant
	require.NoError(t, db.Where("original_id = ?", "00000001").First(&variant).Error)
	var link models.ProductImage
	require.NoError(t, db.Where("variant_id = ?", variant.ID).First(&link).Error)
}

func TestWriter_SharedProductAcrossVariants(t *testing.T) {
	db := newTestDB(t)
	writer := newTestWriter(db)
	ctx := context.Background()

	for _, key := range []string{
		"Baby Children/Baby/Babies Tableware/00000001.jpg",
		"Baby Children/Baby/Babies Tableware/00000002.jpg",
	} {
		res := writer.Ingest(ctx, mustParse(t, key), 10)
		require.Equal(t, ingest.OutcomeIngested, res.Outcome, "err: %v", res.Err)
	}

	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.EqualValues(t, 1, products, "variants of one product type share a parent")

	var variants int64
	require.NoError(t, db.Model(&models.ProductVariant{}).Count(&variants).Error)
	assert.EqualValues(t, 2, variants)
}

// ─── Orchestrator ─────────────────────────────────────────────────────────────

func TestOrchestrator_DuplicateListingEntrySkipped(t *testing.T) {
	db := newTestDB(t)
	// The same key listed twice, as a duplicated pagination page would.
	lister := &fakeLister{objects: []ingest.Object{
		{Key: "A/B/C/001.jpg", SizeBytes: 10},
		{Key: "A/B/C/001.jpg", SizeBytes: 10},
	}}

	summary, err := ingest.NewOrchestrator(lister, newTestWriter(db), 1).Run(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, summary.Listed)
	assert.EqualValues(t, 1, summary.Ingested)
	assert.EqualValues(t, 1, summary.Skipped)
	assert.EqualValues(t, 0, summary.Failed)
}

func TestOrchestrator_RejectedKeysCounted(t *testing.T) {
	db := newTestDB(t)
	lister := &fakeLister{objects: []ingest.Object{
		{Key: "notes.txt"},
		{Key: "onlyonelevel.jpg"},
		{Key: "A/B/C/001.jpg", SizeBytes: 10},
	}}

	summary, err := ingest.NewOrchestrator(lister, newTestWriter(db), 1).Run(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, summary.Rejected)
	assert.EqualValues(t, 1, summary.Ingested)
}

// recordingWriter fails exactly one key and records every attempt.
type recordingWriter struct {
	failKey string

	mu   sync.Mutex
	keys []string
}

func (w *recordingWriter) Ingest(_ context.Context, pk ingest.ParsedKey, _ int64) ingest.Result {
	w.mu.Lock()
	w.keys = append(w.keys, pk.Key)
	w.mu.Unlock()

	if pk.Key == w.failKey {
		return ingest.Result{Outcome: ingest.OutcomeFailed, Err: errors.New("store exploded")}
	}
	return ingest.Result{Outcome: ingest.OutcomeIngested}
}

func TestOrchestrator_FailureDoesNotHaltRun(t *testing.T) {
	lister := &fakeLister{objects: []ingest.Object{
		{Key: "A/B/C/001.jpg"},
		{Key: "A/B/C/002.jpg"},
		{Key: "A/B/C/003.jpg"},
	}}
	writer := &recordingWriter{failKey: "A/B/C/002.jpg"}

	summary, err := ingest.NewOrchestrator(lister, writer, 1).Run(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, summary.Ingested)
	assert.EqualValues(t, 1, summary.Failed)
	assert.Equal(t, []string{"A/B/C/001.jpg", "A/B/C/002.jpg", "A/B/C/003.jpg"}, writer.keys,
		"every object must be attempted regardless of its neighbours")
}

func TestOrchestrator_ListingErrorIsFatal(t *testing.T) {
	lister := &fakeLister{err: errors.New("connection reset")}

	_, err := ingest.NewOrchestrator(lister, &recordingWriter{}, 1).Run(context.Background())
	assert.Error(t, err)
}

func TestOrchestrator_CancelledBeforeProcessing(t *testing.T) {
	db := newTestDB(t)
	lister := &fakeLister{objects: []ingest.Object{
		{Key: "A/B/C/001.jpg", SizeBytes: 10},
		{Key: "A/B/C/002.jpg", SizeBytes: 10},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := ingest.NewOrchestrator(lister, newTestWriter(db), 1).Run(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 2, summary.Listed)
	assert.EqualValues(t, 0, summary.Ingested, "no new objects may start after cancellation")
}

func TestOrchestrator_ParallelWorkers(t *testing.T) {
	db := newTestDB(t)

	var objects []ingest.Object
	for i := 0; i < 40; i++ {
		objects = append(objects, ingest.Object{
			Key:       fmt.Sprintf("Modern/Living Room/Sofas/%08d.jpg", i),
			SizeBytes: 10,
		})
	}
	lister := &fakeLister{objects: objects}

	summary, err := ingest.NewOrchestrator(lister, newTestWriter(db), 4).Run(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 40, summary.Ingested)
	assert.EqualValues(t, 0, summary.Failed)

	// First-insert races between workers must still converge on a single
	// category chain and a single parent product.
	var categories, products int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.EqualValues(t, 3, categories)
	assert.EqualValues(t, 1, products)
}
