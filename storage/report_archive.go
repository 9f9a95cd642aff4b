package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"mediascope/logger"
	"mediascope/model"

	"github.com/minio/minio-go/v7"
)

// UploadReport archives a written report file to the report bucket and
// returns the object name. Objects are grouped by day so buckets stay
// browsable.
func UploadReport(ctx context.Context, bucket, path string, format model.InfoFormat) (string, error) {
	client := GetMinioClient()
	if client == nil {
		return "", fmt.Errorf("MinIO client not initialized")
	}

	objectName := fmt.Sprintf("reports/%s/%s", time.Now().UTC().Format("2006-01-02"), filepath.Base(path))

	_, err := client.FPutObject(ctx, bucket, objectName, path, minio.PutObjectOptions{
		ContentType: format.ContentType(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive report %s: %w", path, err)
	}

	logger.Info("report archived",
		logger.String("path", path),
		logger.String("object", objectName))
	return objectName, nil
}
