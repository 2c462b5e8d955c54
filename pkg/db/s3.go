package db

import (
	"context"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/tagmyidea/tagmyidea-web/pkg/util"
)

// Uploads is nil when object storage is not configured.
var Uploads *minio.Client

func InitS3(ctx context.Context) error {
	cfg := util.Config.Minio
	if cfg == nil {
		return nil
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	}

	client, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		slog.Warn("MinIO endpoint is not available", "err", err)
	} else if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}

	Uploads = client

	return nil
}
