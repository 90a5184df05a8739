package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"stageready/logger"
)

// BlobService wraps the Cloud Storage bucket holding user uploads. Objects
// live under users/{id}/speeches/ and users/{id}/speechHistory/.
type BlobService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucket        string
}

func NewBlobService(ctx context.Context, bucket string, log *logger.Logger) (*BlobService, error) {
	if bucket == "" {
		return nil, fmt.Errorf("missing storage bucket name")
	}
	stClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &BlobService{
		log:           log.With("service", "BlobService"),
		storageClient: stClient,
		bucket:        bucket,
	}, nil
}

// ListKeys returns the names of all objects under the prefix. A prefix with
// no objects yields an empty list, not an error.
func (bs *BlobService) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	it := bs.storageClient.Bucket(bs.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	out := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects under %q: %w", prefix, err)
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

// Delete removes a single object. Deleting an object that is already gone is
// a no-op.
func (bs *BlobService) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := bs.storageClient.Bucket(bs.bucket).Object(key).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}

func (bs *BlobService) Close() error {
	return bs.storageClient.Close()
}
