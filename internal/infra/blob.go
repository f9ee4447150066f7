package infra

import (
	"context"

	"fithub/config"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// OpenBucket opens the media bucket (file:// locally, mem:// in tests).
func OpenBucket(ctx context.Context, cfg *config.Config) (*blob.Bucket, error) {
	url := cfg.Storage.BucketURL
	if url == "" {
		url = "mem://"
	}
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", url)
	}
	return bucket, nil
}
