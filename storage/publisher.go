package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kknight78/ffmpeg-banner-api/apperrors"
	"github.com/kknight78/ffmpeg-banner-api/config"
)

// S3Publisher uploads rendered videos to a bucket and mints their public
// URLs.
type S3Publisher struct {
	s3            *S3
	bucket        string
	keyPrefix     string
	publicBaseURL string
	region        string
	log           *zap.Logger
}

// NewS3Publisher builds the publisher and its underlying client from config.
func NewS3Publisher(ctx context.Context, cfg config.S3Config, log *zap.Logger) (*S3Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 publisher requires a bucket")
	}
	if log == nil {
		log = zap.NewNop()
	}

	client, err := NewS3(ctx, S3Options{
		Region:       cfg.Region,
		Profile:      cfg.Profile,
		UsePathStyle: cfg.UsePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	return &S3Publisher{
		s3:            client,
		bucket:        cfg.Bucket,
		keyPrefix:     strings.Trim(cfg.KeyPrefix, "/"),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		region:        cfg.Region,
		log:           log,
	}, nil
}

// Publish uploads the rendered file under the configured prefix and returns
// its public URL.
func (p *S3Publisher) Publish(ctx context.Context, path string) (string, error) {
	const op = "storage.s3.publish"

	file, err := os.Open(path)
	if err != nil {
		return "", apperrors.Publish(op, err, "open rendered file")
	}
	defer file.Close()

	key := p.objectKey(filepath.Base(path))
	if err := p.s3.Put(ctx, p.bucket, key, file, "video/mp4", "public, max-age=86400"); err != nil {
		return "", apperrors.Publish(op, err, fmt.Sprintf("upload s3://%s/%s", p.bucket, key))
	}

	url := p.publicURL(key)
	p.log.Info("published rendered video",
		zap.String("bucket", p.bucket),
		zap.String("key", key),
		zap.String("url", url))
	return url, nil
}

// IsPublished reports whether url still resolves to an object in the
// bucket. URLs this publisher did not mint count as unpublished.
func (p *S3Publisher) IsPublished(ctx context.Context, url string) (bool, error) {
	key, ok := p.keyFromURL(url)
	if !ok {
		return false, nil
	}
	exists, err := p.s3.Exists(ctx, p.bucket, key)
	if err != nil {
		return false, apperrors.Publish("storage.s3.is_published", err, "head published object")
	}
	return exists, nil
}

func (p *S3Publisher) objectKey(filename string) string {
	if p.keyPrefix == "" {
		return filename
	}
	return p.keyPrefix + "/" + filename
}

// publicURL prefers the configured CDN/static base and falls back to the
// bucket's virtual-hosted address.
func (p *S3Publisher) publicURL(key string) string {
	if p.publicBaseURL != "" {
		return p.publicBaseURL + "/" + key
	}
	if p.region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", p.bucket, key)
}

// keyFromURL inverts publicURL.
func (p *S3Publisher) keyFromURL(url string) (string, bool) {
	base := p.publicURL("")
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	key := strings.TrimPrefix(url, base)
	if key == "" {
		return "", false
	}
	return key, true
}
