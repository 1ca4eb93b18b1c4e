package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"show-sync/core/archive/mocks"
)

func newTestArchive(client Client) *Archive {
	a := New(client, Config{Bucket: "show-snapshots"}, zap.NewNop())
	a.now = func() time.Time {
		return time.Date(2026, 2, 18, 14, 30, 5, 0, time.UTC)
	}
	return a
}

func TestEnsureBucket_CreatesWhenMissing(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "show-snapshots").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "show-snapshots", mock.Anything).Return(nil)

	a := newTestArchive(client)
	require.NoError(t, a.EnsureBucket(context.Background()))
	client.AssertExpectations(t)
}

func TestEnsureBucket_SkipsWhenPresent(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "show-snapshots").Return(true, nil)

	a := newTestArchive(client)
	require.NoError(t, a.EnsureBucket(context.Background()))
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestStore_ObjectName(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "show-snapshots",
		"snapshots/2026-02-18/show-7/class-42-143005.000.json",
		mock.Anything, int64(2), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	a := newTestArchive(client)
	a.Store(context.Background(), 7, 42, []byte("{}"))
	client.AssertExpectations(t)
}

func TestQuarantine_ObjectName(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "show-snapshots",
		"quarantine/2026-02-18/show-7/class-42-143005.000.json",
		mock.Anything, int64(4), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	a := newTestArchive(client)
	a.Quarantine(context.Background(), 7, 42, []byte("oops"))
	client.AssertExpectations(t)
}

func TestStore_SwallowsUploadErrors(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("connection refused"))

	a := newTestArchive(client)
	assert.NotPanics(t, func() {
		a.Store(context.Background(), 1, 1, []byte("{}"))
	})
}
