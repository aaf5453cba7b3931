package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"regdesk/internal/model"
)

var (
	ErrNotConfigured = errors.New("image storage is not configured")
	ErrForeignURL    = errors.New("url does not belong to this bucket")
)

type Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	PublicBaseURL   string
	ForcePathStyle  bool
}

// S3Store keeps campaign images in one bucket and hands out public URLs.
type S3Store struct {
	client     s3iface.S3API
	bucket     string
	publicBase string
}

// NewS3Store returns an unconfigured store when no bucket is set; its calls fail with ErrNotConfigured.
func NewS3Store(cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return &S3Store{}, nil
	}
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(cfg.ForcePathStyle)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewS3StoreWithClient(s3.New(sess), cfg), nil
}

func NewS3StoreWithClient(client s3iface.S3API, cfg Config) *S3Store {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, publicBase: base}
}

func (s *S3Store) Upload(ctx context.Context, key, contentType string, body io.ReadSeeker) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return s.URL(key), nil
}

func (s *S3Store) Delete(ctx context.Context, url string) error {
	if s.client == nil {
		return ErrNotConfigured
	}
	key, ok := s.KeyFromURL(url)
	if !ok {
		return ErrForeignURL
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *S3Store) URL(key string) string {
	return s.publicBase + "/" + key
}

func (s *S3Store) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.publicBase+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// ObjectKey builds campaigns/{id}/{type}/{uuid}{ext}.
func ObjectKey(campaignID int64, imageType model.ImageType, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("campaigns/%d/%s/%s%s", campaignID, imageType, uuid.NewString(), ext)
}
