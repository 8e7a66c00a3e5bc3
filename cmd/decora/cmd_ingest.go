package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/decora/app/repositories"
	"github.com/shashiranjanraj/decora/config"
	"github.com/shashiranjanraj/decora/internal/admin"
	"github.com/shashiranjanraj/decora/internal/ingest"
	"github.com/shashiranjanraj/decora/pkg/database"
	"github.com/shashiranjanraj/decora/pkg/logger"
	"github.com/shashiranjanraj/decora/pkg/runlock"
)

var (
	ingestBucketFlag      string
	ingestWorkersFlag     int
	ingestMetricsAddrFlag string
)

// decora ingest --bucket <name>
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Scan the source bucket and rebuild the catalog from it",
	Long: "Lists every object in the S3-compatible source bucket, derives the\n" +
		"taxonomy from each key, and writes categories, products, variants and\n" +
		"image metadata. Safe to re-run: previously ingested objects are skipped.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		bucket := ingestBucketFlag
		if bucket == "" {
			bucket = config.S3Bucket()
		}
		if err := checkRequired(bucket); err != nil {
			return err
		}

		if err := database.Connect(); err != nil {
			return err
		}

		// Optional durable audit trail of per-object outcomes.
		if uri := config.LogMongoURI(); uri != "" {
			sink, err := logger.EnableMongoSink(uri, config.LogMongoDB(), "ingest_audit")
			if err != nil {
				logger.Warn("audit sink disabled", "error", err)
			} else {
				defer sink.Close() //nolint:errcheck
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// One run per bucket at a time; overlapping runs would interleave
		// the lookup-then-insert sequences.
		lock, err := runlock.Acquire(ctx, bucket, 2*time.Hour)
		if err != nil {
			return err
		}
		defer lock.Release(context.Background()) //nolint:errcheck

		runID := newRunID()
		ctx = logger.InjectLogger(ctx, logger.L.With("run_id", runID, "bucket", bucket))

		if ingestMetricsAddrFlag != "" {
			srv := admin.Serve(ingestMetricsAddrFlag)
			defer srv.Shutdown(context.Background()) //nolint:errcheck
		}

		lister, err := ingest.NewBucketLister(ctx, bucket)
		if err != nil {
			return err
		}

		dbTimeout := time.Duration(config.DBTimeout()) * time.Second
		resolver := ingest.NewCategoryResolver(repositories.NewCategoryRepository(database.DB))
		writer := ingest.NewWriter(
			resolver,
			repositories.NewProductRepository(database.DB),
			repositories.NewVariantRepository(database.DB),
			ingest.WriterConfig{
				Bucket:    lister.Bucket(),
				Currency:  config.CatalogCurrency(),
				DBTimeout: dbTimeout,
			},
		)

		workers := ingestWorkersFlag
		if workers < 1 {
			workers = config.IngestWorkers()
		}

		summary, err := ingest.NewOrchestrator(lister, writer, workers).Run(ctx)
		if err != nil {
			return fmt.Errorf("ingest: %w", err)
		}

		logger.WithCtx(ctx).Info("run finished",
			"listed", summary.Listed,
			"ingested", summary.Ingested,
			"skipped", summary.Skipped,
			"rejected", summary.Rejected,
			"failed", summary.Failed,
		)
		fmt.Printf("Done. listed=%d ingested=%d skipped=%d rejected=%d failed=%d\n",
			summary.Listed, summary.Ingested, summary.Skipped, summary.Rejected, summary.Failed)

		// Per-object skips and failures are expected operation, not a
		// process failure; operators review the log and re-run.
		return nil
	},
}

// checkRequired enforces the startup contract: no run without full store
// configuration.
func checkRequired(bucket string) error {
	missing := []string{}
	if bucket == "" {
		missing = append(missing, "S3_BUCKET (or --bucket)")
	}
	if config.S3Endpoint() == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if config.S3Key() == "" {
		missing = append(missing, "S3_KEY")
	}
	if config.S3Secret() == "" {
		missing = append(missing, "S3_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}
	return nil
}

func newRunID() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestBucketFlag, "bucket", "b", "", "Source bucket (defaults to S3_BUCKET)")
	ingestCmd.Flags().IntVarP(&ingestWorkersFlag, "workers", "w", 0, "Concurrent writers; 1 = sequential (defaults to INGEST_WORKERS)")
	ingestCmd.Flags().StringVar(&ingestMetricsAddrFlag, "metrics-addr", "", "Serve /metrics and /healthz on this address during the run")
}
