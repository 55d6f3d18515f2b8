package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cuckooblock/vendor-portal/config"
	"github.com/cuckooblock/vendor-portal/pkg/logger"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

// MaxAttachmentSize caps a vendor document upload.
const MaxAttachmentSize int64 = 10 << 20

// AllowedContentTypes are the document types vendors may attach.
var AllowedContentTypes = []string{
	"application/pdf",
	"image/png",
	"image/jpeg",
}

var (
	ErrContentTypeNotAllowed = errors.New("content type is not allowed")
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
)

// AttachmentStore hands out upload URLs for vendor documents.
type AttachmentStore interface {
	PresignVendorUpload(ctx context.Context, vendorID, filename, contentType string, size int64) (*PresignedURLResponse, error)
}

type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// PresignedURLResponse describes a signed upload. The client must send
// SignedHeaders unchanged, so the declared size is enforced by S3.
type PresignedURLResponse struct {
	UploadURL     string      `json:"upload_url"`
	SignedHeaders http.Header `json:"signed_headers,omitempty"`
	FileURL       string      `json:"file_url"`
	Key           string      `json:"key"`
	ExpiresAt     time.Time   `json:"expires_at"`
}

func NewS3Storage(ctx context.Context, cfg config.S3Config) *S3Storage {
	var awsCfg aws.Config
	var err error

	// Static credentials when configured, otherwise the default chain.
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			logger.Warn("Failed to load default AWS config, using region only", map[string]interface{}{
				"error": err.Error(),
			})
			awsCfg = aws.Config{Region: cfg.Region}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// PresignVendorUpload returns a PUT URL for a document stored under
// vendors/<vendorID>/.
func (s *S3Storage) PresignVendorUpload(ctx context.Context, vendorID, filename, contentType string, size int64) (*PresignedURLResponse, error) {
	if err := ValidateContentType(contentType); err != nil {
		return nil, err
	}
	if err := ValidateFileSize(size); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("vendors/%s/%s%s", vendorID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))

	presignClient := s3.NewPresignClient(s.client)
	presignedReq, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	var fileURL string
	if s.baseURL != "" {
		fileURL = fmt.Sprintf("%s/%s", s.baseURL, key)
	} else {
		fileURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
	}

	logger.Info("Presigned vendor attachment upload", map[string]interface{}{
		"vendor_id":    vendorID,
		"key":          key,
		"content_type": contentType,
		"size":         size,
	})

	return &PresignedURLResponse{
		UploadURL:     presignedReq.URL,
		SignedHeaders: presignedReq.SignedHeader,
		FileURL:       fileURL,
		Key:           key,
		ExpiresAt:     time.Now().Add(presignExpiry),
	}, nil
}

// ValidateFileSize rejects empty or oversized uploads.
func ValidateFileSize(size int64) error {
	if size <= 0 || size > MaxAttachmentSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, MaxAttachmentSize)
	}
	return nil
}

func ValidateContentType(contentType string) error {
	for _, allowed := range AllowedContentTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrContentTypeNotAllowed, contentType)
}
