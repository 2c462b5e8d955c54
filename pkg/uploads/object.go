package uploads

import (
	"context"
	"encoding/hex"
	"io"

	"github.com/minio/minio-go/v7"
	"golang.org/x/crypto/blake2b"
)

// Store is the object storage uploads are kept in.
type Store interface {
	Put(ctx context.Context, bucket, name string, r io.Reader, size int64, mime string) (int64, error)
	Get(ctx context.Context, bucket, name string) (io.ReadCloser, int64, error)
}

type minioStore struct {
	client *minio.Client
}

func Minio(client *minio.Client) Store {
	return &minioStore{client: client}
}

func (s *minioStore) Put(ctx context.Context, bucket, name string, r io.Reader, size int64, mime string) (int64, error) {
	info, err := s.client.PutObject(ctx, bucket, name, r, size, minio.PutObjectOptions{ContentType: mime})
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

func (s *minioStore) Get(ctx context.Context, bucket, name string) (io.ReadCloser, int64, error) {
	info, err := s.client.StatObject(ctx, bucket, name, minio.StatObjectOptions{})
	if err != nil {
		return nil, 0, err
	}

	obj, err := s.client.GetObject(ctx, bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, err
	}

	return obj, info.Size, nil
}

// FileHash is the content address objects are stored under.
func FileHash(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
