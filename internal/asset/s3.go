package asset

import (
	"context"
	"mime/multipart"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3 uploads images to an S3-compatible bucket and returns public URLs.
// Unlike the original cloud deployment it also deletes replaced objects,
// so the bucket does not accumulate orphans.
type S3 struct {
	Client    *minio.Client
	Bucket    string
	PublicURL string
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
	UseSSL    bool
}

func NewS3(cfg S3Config) (*S3, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &S3{
		Client:    client,
		Bucket:    cfg.Bucket,
		PublicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

func (s *S3) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if err := validate(fh); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := objectName(fh.Filename)
	_, err = s.Client.PutObject(ctx, s.Bucket, name, src, fh.Size, minio.PutObjectOptions{
		ContentType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		return "", err
	}
	return s.PublicURL + "/" + name, nil
}

func (s *S3) Remove(ctx context.Context, ref string) error {
	return s.Client.RemoveObject(ctx, s.Bucket, path.Base(ref), minio.RemoveObjectOptions{})
}
