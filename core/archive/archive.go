package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archive writes raw provider payloads to object storage. Good snapshots land
// under snapshots/, payloads that failed to decode land under quarantine/ so
// they can be replayed after a schema fix.
type Archive struct {
	client Client
	bucket string
	logger *zap.Logger

	// now is swappable in tests.
	now func() time.Time
}

// New creates an Archive writing into cfg.Bucket.
func New(client Client, cfg Config, logger *zap.Logger) *Archive {
	return &Archive{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
		now:    time.Now,
	}
}

// EnsureBucket creates the archive bucket when it does not exist yet.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create archive bucket: %w", err)
	}
	a.logger.Info("created archive bucket", zap.String("bucket", a.bucket))
	return nil
}

// Store archives a decoded snapshot's raw body. Archive failures are logged
// and swallowed: losing an archive copy must never fail a cycle.
func (a *Archive) Store(ctx context.Context, showID, classID int, raw []byte) {
	a.put(ctx, a.objectName("snapshots", showID, classID), raw)
}

// Quarantine archives a payload that could not be decoded.
func (a *Archive) Quarantine(ctx context.Context, showID, classID int, raw []byte) {
	a.put(ctx, a.objectName("quarantine", showID, classID), raw)
}

func (a *Archive) objectName(prefix string, showID, classID int) string {
	ts := a.now().UTC()
	return fmt.Sprintf("%s/%s/show-%d/class-%d-%s.json",
		prefix, ts.Format("2006-01-02"), showID, classID, ts.Format("150405.000"))
}

func (a *Archive) put(ctx context.Context, name string, raw []byte) {
	_, err := a.client.PutObject(ctx, a.bucket, name,
		bytes.NewReader(raw), int64(len(raw)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		a.logger.Warn("failed to archive snapshot",
			zap.String("object", name),
			zap.Error(err))
		return
	}
	a.logger.Debug("archived snapshot", zap.String("object", name))
}
