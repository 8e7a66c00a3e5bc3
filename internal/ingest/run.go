// Package ingest reconstructs the normalized product catalog from an
// object-storage bucket whose keys encode a three-level taxonomy
// (style → room type → product type → image file).
//
// The pipeline is Lister → Parser → Resolver → Writer, orchestrated per
// object. Re-running against an unchanged bucket is safe: the store's
// uniqueness anchors (variant original_id, file path_key) turn repeats into
// skips, which is the pipeline's whole recovery mechanism.
package ingest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shashiranjanraj/decora/pkg/logger"
	"github.com/shashiranjanraj/decora/pkg/metrics"
	"github.com/shashiranjanraj/decora/pkg/workerpool"
)

// Summary is the terminal accounting of one run.
type Summary struct {
	Listed   int64
	Ingested int64
	Skipped  int64
	Rejected int64
	Failed   int64
}

// ObjectWriter is the writer side of the pipeline as the orchestrator sees
// it. *Writer is the production implementation.
type ObjectWriter interface {
	Ingest(ctx context.Context, pk ParsedKey, sizeBytes int64) Result
}

// Orchestrator drives a run: list everything, then process each object,
// continuing past individual failures.
type Orchestrator struct {
	lister  Lister
	writer  ObjectWriter
	workers int
}

// NewOrchestrator wires a run. workers <= 1 reproduces strictly sequential
// processing; larger values fan objects out over a bounded pool.
func NewOrchestrator(lister Lister, writer ObjectWriter, workers int) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{lister: lister, writer: writer, workers: workers}
}

// counters is the concurrency-safe accumulator behind Summary.
type counters struct {
	ingested atomic.Int64
	skipped  atomic.Int64
	rejected atomic.Int64
	failed   atomic.Int64
}

func (c *counters) summary(listed int64) Summary {
	return Summary{
		Listed:   listed,
		Ingested: c.ingested.Load(),
		Skipped:  c.skipped.Load(),
		Rejected: c.rejected.Load(),
		Failed:   c.failed.Load(),
	}
}

// Run lists the whole bucket, then attempts every object. Only the listing
// itself is fatal; per-object problems are logged and counted. When ctx is
// cancelled no new objects are started, in-flight ones finish, and the
// partial summary is returned.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	log := logger.WithCtx(ctx)

	listStart := time.Now()
	objects, err := o.lister.ListAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	metrics.ListDuration.Observe(time.Since(listStart).Seconds())
	log.Info("bucket listed", "objects", len(objects), "elapsed", time.Since(listStart).Round(time.Millisecond))

	var c counters

	if o.workers == 1 {
		for _, obj := range objects {
			if ctx.Err() != nil {
				log.Warn("run cancelled, emitting partial summary")
				break
			}
			o.process(ctx, obj, &c)
		}
		return c.summary(int64(len(objects))), nil
	}

	pool := workerpool.New(o.workers)
	for _, obj := range objects {
		if ctx.Err() != nil {
			log.Warn("run cancelled, emitting partial summary")
			break
		}
		obj := obj
		if err := pool.SubmitWait(func() { o.process(ctx, obj, &c) }); err != nil {
			break // pool closed, nothing else will be accepted
		}
	}
	pool.Shutdown()

	return c.summary(int64(len(objects))), nil
}

// process takes one object through Parser → Writer and records the outcome.
func (o *Orchestrator) process(ctx context.Context, obj Object, c *counters) {
	log := logger.WithCtx(ctx)
	start := time.Now()

	pk, err := ParseKey(obj.Key)
	if err != nil {
		c.rejected.Add(1)
		metrics.ObjectsProcessed.WithLabelValues("rejected").Inc()
		log.Warn("object rejected", "key", obj.Key, "reason", err)
		return
	}

	res := o.writer.Ingest(ctx, pk, obj.SizeBytes)
	metrics.ObjectDuration.Observe(time.Since(start).Seconds())
	metrics.ObjectsProcessed.WithLabelValues(res.Outcome.String()).Inc()

	switch res.Outcome {
	case OutcomeIngested:
		c.ingested.Add(1)
		log.Info("object ingested", "key", obj.Key, "sku", res.SKU, "price", res.Price)
	case OutcomeSkipped:
		c.skipped.Add(1)
		log.Info("object skipped", "key", obj.Key, "reason", res.Reason)
	case OutcomeFailed:
		c.failed.Add(1)
		log.Error("object failed", "key", obj.Key, "error", res.Err)
	}
}
