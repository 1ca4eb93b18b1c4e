package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"show-sync/feature/monitor"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

type fakeSink struct {
	delivered []string
	failOn    map[string]bool
}

func (f *fakeSink) Deliver(_ context.Context, message string) error {
	if f.failOn[message] {
		return errors.New("channel unavailable")
	}
	f.delivered = append(f.delivered, message)
	return nil
}

func TestRecord_InsertsOneRowPerChange(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewService(db, nil, Config{}, zap.NewNop())

	mock.ExpectExec("INSERT INTO `notification_logs`").
		WillReturnResult(sqlmock.NewResult(1, 2))

	err := s.Record(db, "farm-1", []monitor.Change{
		{Kind: monitor.ChangeResult, EntryID: "e1", HorseName: "CONTENDER", Placing: intp(1)},
		{Kind: monitor.ChangeScratched, EntryID: "e2", HorseName: "SILVER"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_NoChangesIsANoop(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewService(db, nil, Config{}, zap.NewNop())

	require.NoError(t, s.Record(db, "farm-1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func pendingRows(messages ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "farm_id", "notification_type", "message"})
	for i, m := range messages {
		rows.AddRow(string(rune('a'+i)), "farm-1", "RESULT", m)
	}
	return rows
}

func TestDeliverPending_StampsOnlyAcceptedRows(t *testing.T) {
	db, mock := setupMockDB(t)
	sink := &fakeSink{failOn: map[string]bool{"msg-2": true}}
	s := NewService(db, sink, Config{BatchSize: 10}, zap.NewNop())
	s.now = func() time.Time { return time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC) }

	mock.ExpectQuery("SELECT \\* FROM `notification_logs`").
		WithArgs("farm-1", 10).
		WillReturnRows(pendingRows("msg-1", "msg-2", "msg-3"))

	// Rows a and c are accepted and stamped; b stays pending.
	mock.ExpectExec("UPDATE `notification_logs` SET `delivered_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `notification_logs` SET `delivered_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	report, err := s.DeliverPending(context.Background(), "farm-1")
	require.NoError(t, err)

	assert.Equal(t, 3, report.Pending)
	assert.Equal(t, 2, report.Delivered)
	assert.Equal(t, 1, report.Failed)
	// The stored text is sent verbatim.
	assert.Equal(t, []string{"msg-1", "msg-3"}, sink.delivered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliverPending_NoSinkLeavesRowsPending(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewService(db, nil, Config{BatchSize: 10}, zap.NewNop())

	mock.ExpectQuery("SELECT \\* FROM `notification_logs`").
		WithArgs("farm-1", 10).
		WillReturnRows(pendingRows("msg-1"))

	report, err := s.DeliverPending(context.Background(), "farm-1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pending)
	assert.Zero(t, report.Delivered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliverPending_NothingPending(t *testing.T) {
	db, mock := setupMockDB(t)
	sink := &fakeSink{}
	s := NewService(db, sink, Config{}, zap.NewNop())

	mock.ExpectQuery("SELECT \\* FROM `notification_logs`").
		WithArgs("farm-1", 100).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	report, err := s.DeliverPending(context.Background(), "farm-1")
	require.NoError(t, err)
	assert.Zero(t, report.Pending)
	assert.Empty(t, sink.delivered)
	assert.NoError(t, mock.ExpectationsWereMet())
}
