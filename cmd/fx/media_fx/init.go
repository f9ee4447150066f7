package media_fx

import (
	"context"

	"fithub/config"
	"fithub/internal/infra"
	"fithub/internal/services"

	"go.uber.org/fx"
	"gocloud.dev/blob"
)

var Module = fx.Provide(provideBucket, services.NewMediaService)

func provideBucket(lc fx.Lifecycle, cfg *config.Config) (*blob.Bucket, error) {
	bucket, err := infra.OpenBucket(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return bucket.Close()
		},
	})
	return bucket, nil
}
