package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/shashiranjanraj/decora/config"
)

// Object is one bucket entry, the unit of work for the whole pipeline.
type Object struct {
	Key       string
	SizeBytes int64
}

// Lister produces the finite set of objects an ingestion run will attempt.
// A listing is restartable from scratch, not resumable mid-list.
type Lister interface {
	ListAll(ctx context.Context) ([]Object, error)
}

// BucketLister lists an S3-compatible bucket.
// Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2.
type BucketLister struct {
	client  *s3.Client
	bucket  string
	timeout time.Duration
}

// NewBucketLister builds an S3 client from config. bucket overrides the
// configured S3_BUCKET when non-empty.
func NewBucketLister(ctx context.Context, bucket string) (*BucketLister, error) {
	if bucket == "" {
		bucket = config.S3Bucket()
	}
	if bucket == "" {
		return nil, fmt.Errorf("ingest: S3_BUCKET is not configured")
	}

	region := config.S3Region()
	key := config.S3Key()
	secret := config.S3Secret()
	endpoint := config.S3Endpoint() // leave empty for real AWS

	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(region),
	}

	// Static credentials (required for MinIO / R2 / Spaces)
	if key != "" && secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, secret, ""),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ingest: load aws config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true // required for MinIO
		})
	}

	return &BucketLister{
		client:  s3.NewFromConfig(cfg, clientOpts...),
		bucket:  bucket,
		timeout: pageTimeout(time.Duration(config.S3Timeout()) * time.Second),
	}, nil
}

// Bucket returns the bucket this lister reads from.
func (l *BucketLister) Bucket() string { return l.bucket }

const defaultPageTimeout = 30 * time.Second

// pageTimeout floors a misconfigured or unset timeout so a zero value never
// turns into an instantly-expiring page context.
func pageTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultPageTimeout
	}
	return d
}

// ListAll pages through every object in the bucket, following continuation
// tokens until the store reports no more results. Each page fetch runs
// under its own bounded timeout so a hung store cannot stall the run
// indefinitely. Any transport error aborts the listing: there is no partial
// catalog without a complete listing.
func (l *BucketLister) ListAll(ctx context.Context) ([]Object, error) {
	var objects []Object

	paginator := s3.NewListObjectsV2Paginator(l.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(l.bucket),
	})

	for paginator.HasMorePages() {
		pageCtx, cancel := context.WithTimeout(ctx, l.timeout)
		page, err := paginator.NextPage(pageCtx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("ingest: list %s: %w", l.bucket, err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			o := Object{Key: *obj.Key}
			if obj.Size != nil {
				o.SizeBytes = *obj.Size
			}
			objects = append(objects, o)
		}
	}

	return objects, nil
}
