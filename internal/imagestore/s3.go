// Package imagestore keeps generated image payloads in an
// S3-compatible bucket so published posts can reference stable URLs.
package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"blogsmith/internal/publish"
)

type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type S3Store struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

func New(cfg Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Store{
		client:     client,
		bucketName: bucket,
		region:     region,
	}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("store is nil")
	}
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// SaveDataURI decodes a base64 data URI, uploads the payload under the
// client's prefix, and returns a presigned URL good for one week.
func (s *S3Store) SaveDataURI(ctx context.Context, clientID, name, dataURI string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("store is nil")
	}
	clientID = strings.TrimSpace(clientID)
	name = strings.TrimSpace(name)
	if clientID == "" {
		return "", fmt.Errorf("client id is required")
	}
	if name == "" {
		return "", fmt.Errorf("image name is required")
	}

	contentType, data, err := publish.DecodeDataURI(dataURI)
	if err != nil {
		return "", fmt.Errorf("decode image payload: %w", err)
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key := objectKey(clientID, name, contentType)
	_, err = s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put image %s: %w", key, err)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucketName, key, 7*24*time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("presign image %s: %w", key, err)
	}
	return u.String(), nil
}

func objectKey(clientID, name, contentType string) string {
	ext := "bin"
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 && parts[1] != "" {
		ext = parts[1]
	}
	stamp := time.Now().UTC().Format("20060102-150405")
	return fmt.Sprintf("%s/%s-%s.%s", clientID, stamp, name, ext)
}
