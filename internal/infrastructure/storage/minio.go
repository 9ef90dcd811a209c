package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/pkg/config"
)

// TranscriptStore archives raw transcripts in object storage so the
// original text survives even if the database row is edited later.
type TranscriptStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewTranscriptStore connects to MinIO and ensures the bucket exists
func NewTranscriptStore(cfg config.StorageConfig, logger *zap.Logger) (*TranscriptStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		logger.Info("created transcript bucket", zap.String("bucket", cfg.Bucket))
	}

	return &TranscriptStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// ArchiveTranscript stores the transcript text and returns the object name
func (s *TranscriptStore) ArchiveTranscript(ctx context.Context, meetingID string, text string) (string, error) {
	objectName := fmt.Sprintf("transcripts/%s/%d.txt", meetingID, time.Now().Unix())
	reader := bytes.NewReader([]byte(text))

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, int64(reader.Len()), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("put transcript object: %w", err)
	}
	return objectName, nil
}
