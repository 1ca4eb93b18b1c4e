package monitor

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

	"show-sync/core/archive"
	"show-sync/core/archive/mocks"
	"show-sync/core/provider"
)

type fakeProviderClient struct {
	provider.Client
	getClass func(ctx context.Context, classID, showID int) (*provider.ClassSnapshot, []byte, error)
	reauths  int
}

func (f *fakeProviderClient) GetClass(ctx context.Context, classID, showID int) (*provider.ClassSnapshot, []byte, error) {
	return f.getClass(ctx, classID, showID)
}

func (f *fakeProviderClient) Reauthenticate(_ context.Context) error {
	f.reauths++
	return nil
}

func newTestFetcher(client provider.Client, arc *archive.Archive) *Fetcher {
	f := NewFetcher(client, arc, zap.NewNop())
	f.backoff = []time.Duration{0, 0, 0}
	return f
}

var testRef = UnitRef{FarmID: "farm-1", APIShowID: 7, APIClassID: 42}

func goodSnapshot() *provider.ClassSnapshot {
	return &provider.ClassSnapshot{
		ClassRelatedData: provider.ClassRelated{
			Status:         "Underway",
			EstimatedTime:  "07:15:00",
			TotalTrips:     float64(20),
			CompletedTrips: "5",
		},
		Trips: []provider.Trip{
			{EntryID: float64(101), OrderOfGo: float64(3), Placing: nil, GoneIn: float64(1), ScratchTrip: "0", TimeOne: "68.21"},
			{EntryID: nil},
		},
	}
}

func TestFetch_MapsLooseTypes(t *testing.T) {
	client := &fakeProviderClient{
		getClass: func(_ context.Context, classID, showID int) (*provider.ClassSnapshot, []byte, error) {
			assert.Equal(t, 42, classID)
			assert.Equal(t, 7, showID)
			return goodSnapshot(), []byte(`{}`), nil
		},
	}

	snap, err := newTestFetcher(client, nil).Fetch(context.Background(), testRef)
	require.NoError(t, err)

	assert.Equal(t, "Underway", snap.Status)
	assert.Equal(t, 20, *snap.TotalTrips)
	assert.Equal(t, 5, *snap.CompletedTrips)
	// The id-less trip is dropped.
	require.Len(t, snap.Trips, 1)
	assert.Equal(t, 101, snap.Trips[0].APIEntryID)
	assert.Equal(t, 3, *snap.Trips[0].OrderOfGo)
	assert.Nil(t, snap.Trips[0].Placing)
	assert.True(t, snap.Trips[0].GoneIn)
	assert.False(t, snap.Trips[0].ScratchTrip)
	assert.Equal(t, 68.21, *snap.Trips[0].TimeOne)
}

func TestFetch_RetriesTransientFailures(t *testing.T) {
	calls := 0
	client := &fakeProviderClient{
		getClass: func(context.Context, int, int) (*provider.ClassSnapshot, []byte, error) {
			calls++
			if calls < 3 {
				return nil, nil, &provider.APIError{Op: "get class", StatusCode: 502}
			}
			return goodSnapshot(), []byte(`{}`), nil
		},
	}

	snap, err := newTestFetcher(client, nil).Fetch(context.Background(), testRef)
	require.NoError(t, err)
	assert.NotNil(t, snap)
	assert.Equal(t, 3, calls)
}

func TestFetch_GivesUpAfterAttemptBudget(t *testing.T) {
	calls := 0
	client := &fakeProviderClient{
		getClass: func(context.Context, int, int) (*provider.ClassSnapshot, []byte, error) {
			calls++
			return nil, nil, errors.New("connection reset")
		},
	}

	_, err := newTestFetcher(client, nil).Fetch(context.Background(), testRef)
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestFetch_PermanentFailureDoesNotRetry(t *testing.T) {
	calls := 0
	client := &fakeProviderClient{
		getClass: func(context.Context, int, int) (*provider.ClassSnapshot, []byte, error) {
			calls++
			return nil, nil, &provider.APIError{Op: "get class", StatusCode: 404}
		},
	}

	_, err := newTestFetcher(client, nil).Fetch(context.Background(), testRef)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestFetch_AuthExpiredReauthenticatesOnce(t *testing.T) {
	calls := 0
	client := &fakeProviderClient{}
	client.getClass = func(context.Context, int, int) (*provider.ClassSnapshot, []byte, error) {
		calls++
		if calls == 1 {
			return nil, nil, &provider.APIError{Op: "get class", StatusCode: 401}
		}
		return goodSnapshot(), []byte(`{}`), nil
	}

	snap, err := newTestFetcher(client, nil).Fetch(context.Background(), testRef)
	require.NoError(t, err)
	assert.NotNil(t, snap)
	assert.Equal(t, 1, client.reauths)
	assert.Equal(t, 2, calls)
}

func TestFetch_SecondAuthExpiryFails(t *testing.T) {
	client := &fakeProviderClient{
		getClass: func(context.Context, int, int) (*provider.ClassSnapshot, []byte, error) {
			return nil, nil, &provider.APIError{Op: "get class", StatusCode: 401}
		},
	}

	_, err := newTestFetcher(client, nil).Fetch(context.Background(), testRef)
	require.Error(t, err)
	assert.True(t, provider.IsAuthExpired(err))
	assert.Equal(t, 1, client.reauths)
}

func TestFetch_DecodeFailureQuarantines(t *testing.T) {
	raw := []byte(`{"trips": "unexpected shape"}`)
	client := &fakeProviderClient{
		getClass: func(context.Context, int, int) (*provider.ClassSnapshot, []byte, error) {
			return nil, raw, errors.New("failed to decode class snapshot")
		},
	}

	store := &mocks.Client{}
	store.On("PutObject", mock.Anything, "show-snapshots",
		mock.MatchedBy(func(name string) bool {
			return len(name) > 11 && name[:11] == "quarantine/"
		}),
		mock.Anything, int64(len(raw)), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	arc := archive.New(store, archive.Config{Bucket: "show-snapshots"}, zap.NewNop())

	_, err := newTestFetcher(client, arc).Fetch(context.Background(), testRef)
	require.Error(t, err)
	store.AssertExpectations(t)
}

func TestFetch_ArchivesGoodSnapshots(t *testing.T) {
	raw := []byte(`{"trips": []}`)
	client := &fakeProviderClient{
		getClass: func(context.Context, int, int) (*provider.ClassSnapshot, []byte, error) {
			return goodSnapshot(), raw, nil
		},
	}

	store := &mocks.Client{}
	store.On("PutObject", mock.Anything, "show-snapshots",
		mock.MatchedBy(func(name string) bool {
			return len(name) > 10 && name[:10] == "snapshots/"
		}),
		mock.Anything, int64(len(raw)), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	arc := archive.New(store, archive.Config{Bucket: "show-snapshots"}, zap.NewNop())

	_, err := newTestFetcher(client, arc).Fetch(context.Background(), testRef)
	require.NoError(t, err)
	store.AssertExpectations(t)
}
