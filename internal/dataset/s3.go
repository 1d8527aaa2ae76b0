package dataset

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config configures an object-storage dataset source.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// S3Source reads datasets stored as <prefix>/<name>.csv objects in a bucket.
type S3Source struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewS3Source(cfg S3Config) (*S3Source, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return &S3Source{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *S3Source) key(name string) string {
	return path.Join(s.prefix, name+".csv")
}

func (s *S3Source) Locate(name string) string {
	return "s3://" + s.bucket + "/" + s.key(name)
}

// Open stats the object first so a missing key surfaces here rather than on first read.
func (s *S3Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.key(name)
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("object not found: %s: %w", s.Locate(name), fs.ErrNotExist)
		}
		return nil, fmt.Errorf("s3 stat object: %w", err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	return obj, nil
}

func isNoSuchKey(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return false
}
