// Package storage uploads course assets to DigitalOcean Spaces through the S3 API.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// MaxUploadBytes caps a single uploaded object.
const MaxUploadBytes = 50 << 20

var ErrInvalidKind = errors.New("kind must be one of: thumbnail, lesson")

// Kinds maps an upload kind to its key prefix.
var Kinds = map[string]string{
	"thumbnail": "thumbnails",
	"lesson":    "lessons",
}

type Config struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	CDNURL    string
	// PathStyle addresses objects as endpoint/bucket/key instead of bucket.endpoint/key.
	PathStyle bool
}

type SpacesStore struct {
	s3        *s3.S3
	bucket    string
	endpoint  string
	cdnURL    string
	pathStyle bool
}

func NewSpacesStore(cfg Config) (*SpacesStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("spaces bucket is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = fmt.Sprintf("%s.digitaloceanspaces.com", cfg.Region)
	}

	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.PathStyle),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	return &SpacesStore{
		s3:        s3.New(sess),
		bucket:    cfg.Bucket,
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		cdnURL:    strings.TrimRight(cfg.CDNURL, "/"),
		pathStyle: cfg.PathStyle,
	}, nil
}

// Put stores body under key as a public object and returns its URL.
func (s *SpacesStore) Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error) {
	_, err := s.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ACL:         aws.String("public-read"),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return s.URL(key), nil
}

func (s *SpacesStore) Delete(ctx context.Context, key string) error {
	_, err := s.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL is the public address of key.
func (s *SpacesStore) URL(key string) string {
	if s.cdnURL != "" {
		return s.cdnURL + "/" + key
	}

	scheme, host := "https", s.endpoint
	if i := strings.Index(host, "://"); i >= 0 {
		scheme, host = host[:i], host[i+3:]
	}
	if s.pathStyle {
		return fmt.Sprintf("%s://%s/%s/%s", scheme, host, s.bucket, key)
	}
	return fmt.Sprintf("%s://%s.%s/%s", scheme, s.bucket, host, key)
}

// ObjectKey builds "<prefix>/<uuid><ext>" for an upload of the given kind.
func ObjectKey(kind, filename string) (string, error) {
	prefix, ok := Kinds[kind]
	if !ok {
		return "", ErrInvalidKind
	}
	return prefix + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(filename)), nil
}

func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case ".ppt":
		return "application/vnd.ms-powerpoint"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	default:
		return "application/octet-stream"
	}
}
