package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/cuckooblock/vendor-portal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(baseURL string) *S3Storage {
	return NewS3Storage(context.Background(), config.S3Config{
		Region:          "us-east-1",
		Bucket:          "vendor-docs",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
		BaseURL:         baseURL,
	})
}

func TestPresignVendorUpload(t *testing.T) {
	s := newTestStorage("")

	resp, err := s.PresignVendorUpload(context.Background(), "vendor-1", "W9 Form.PDF", "application/pdf", 2048)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, "vendors/vendor-1/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".pdf"))
	assert.Equal(t, "https://vendor-docs.s3.us-east-1.amazonaws.com/"+resp.Key, resp.FileURL)

	u, err := url.Parse(resp.UploadURL)
	require.NoError(t, err)
	assert.Contains(t, u.Host, "vendor-docs")
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestPresignVendorUpload_SignsContentLength(t *testing.T) {
	s := newTestStorage("")

	resp, err := s.PresignVendorUpload(context.Background(), "vendor-1", "w9.pdf", "application/pdf", 2048)
	require.NoError(t, err)

	u, err := url.Parse(resp.UploadURL)
	require.NoError(t, err)
	assert.Contains(t, strings.Split(u.Query().Get("X-Amz-SignedHeaders"), ";"), "content-length")
}

func TestPresignVendorUpload_BaseURL(t *testing.T) {
	s := newTestStorage("https://cdn.example.com/")

	resp, err := s.PresignVendorUpload(context.Background(), "vendor-1", "logo.png", "image/png", 100)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+resp.Key, resp.FileURL)
}

func TestPresignVendorUpload_Validation(t *testing.T) {
	s := newTestStorage("")
	ctx := context.Background()

	_, err := s.PresignVendorUpload(ctx, "vendor-1", "run.exe", "application/x-msdownload", 100)
	assert.ErrorIs(t, err, ErrContentTypeNotAllowed)

	_, err = s.PresignVendorUpload(ctx, "vendor-1", "big.pdf", "application/pdf", MaxAttachmentSize+1)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = s.PresignVendorUpload(ctx, "vendor-1", "empty.pdf", "application/pdf", 0)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
