package storage

import (
	"context"
	"testing"

	"github.com/filterdesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3Storage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr string
	}{
		{"nil config", nil, "configuration is required"},
		{"missing bucket", &config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"}, "bucket is required"},
		{"missing credentials", &config.StorageConfig{Bucket: "docs"}, "credentials are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Storage(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewS3Storage_Valid(t *testing.T) {
	s, err := NewS3Storage(&config.StorageConfig{
		Endpoint:        "localhost:9000",
		Bucket:          "docs",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
		UsePathStyle:    true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	assert.Equal(t, "docs", s.Bucket())
	assert.Greater(t, s.presignExpiration.Minutes(), 0.0)
}

func TestS3Storage_DownloadURL(t *testing.T) {
	s, err := NewS3Storage(&config.StorageConfig{
		Endpoint:        "http://localhost:9000",
		Bucket:          "docs",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	u, _, err := s.DownloadURL(context.Background(), "orders/PED-2026-00001/gofpdf.pdf")
	require.NoError(t, err)
	assert.Contains(t, u, "localhost:9000/docs/orders/PED-2026-00001/gofpdf.pdf")
	assert.Contains(t, u, "X-Amz-Signature")

	_, _, err = s.DownloadURL(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := map[string]string{
		"":                      "",
		"minio:9000":            "https://minio:9000",
		"http://localhost:9000": "http://localhost:9000",
	}
	for in, want := range tests {
		got, err := normalizeEndpoint(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	data := []byte("%PDF-1.4")
	require.NoError(t, s.Upload(ctx, "orders/a.pdf", data, "application/pdf"))
	data[0] = 'X'

	obj, ok := s.Get("orders/a.pdf")
	require.True(t, ok)
	assert.Equal(t, "%PDF-1.4", string(obj.Data))
	assert.Equal(t, "application/pdf", obj.ContentType)

	exists, err := s.Exists(ctx, "orders/a.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Exists(ctx, "orders/b.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, s.Upload(ctx, "", nil, ""), ErrEmptyKey)
	assert.Equal(t, 1, s.Len())
}
