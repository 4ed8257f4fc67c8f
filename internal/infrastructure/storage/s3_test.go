package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"personal-health-record/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorageConfig() config.StorageConfig {
	return config.StorageConfig{
		Bucket:       "medical-documents",
		Region:       "us-east-1",
		Endpoint:     "http://127.0.0.1:9000",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		UsePathStyle: true,
	}
}

func TestPresignGetObject_ExpiryAndPath(t *testing.T) {
	s, err := NewS3Storage(context.Background(), testStorageConfig())
	require.NoError(t, err)

	raw, err := s.PresignGetObject(context.Background(), "medical-documents", "owner/abc_1700000000000.pdf", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/medical-documents/owner/abc_1700000000000.pdf", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.True(t, strings.HasPrefix(u.Query().Get("X-Amz-Credential"), "minioadmin/"))
}

func TestPresignGetObject_SevenDays(t *testing.T) {
	s, err := NewS3Storage(context.Background(), testStorageConfig())
	require.NoError(t, err)

	raw, err := s.PresignGetObject(context.Background(), "medical-documents", "k", 7*24*time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "604800", u.Query().Get("X-Amz-Expires"))
}

func TestPresignGetObject_ErrorIsTransferError(t *testing.T) {
	orig := presignGetObject
	t.Cleanup(func() { presignGetObject = orig })

	boom := errors.New("boom")
	presignGetObject = func(*s3.PresignClient, context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, boom
	}

	s, err := NewS3Storage(context.Background(), testStorageConfig())
	require.NoError(t, err)

	_, err = s.PresignGetObject(context.Background(), "b", "k", time.Hour)
	var terr *TransferError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "sign", terr.Op)
	assert.ErrorIs(t, err, boom)
}

func TestNewS3Storage_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Storage(context.Background(), testStorageConfig())
	assert.Error(t, err)
}

func TestTransferError_Message(t *testing.T) {
	err := &TransferError{Op: "download", Bucket: "b", Key: "k", StatusCode: 403}
	assert.Equal(t, "download b/k: unexpected status 403", err.Error())

	err = &TransferError{Op: "delete", Bucket: "b", Key: "k", Err: errors.New("denied")}
	assert.Equal(t, "delete b/k: denied", err.Error())
}
