package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"show-sync/feature/schedule"
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

func openUnitRows() *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "farm_id", "horse_id", "show_id", "api_show_id", "api_class_id",
		"horse_name", "class_name", "ring_name", "class_phase", "class_status",
		"estimated_start", "order_of_go", "status",
	})
	rows.AddRow("e1", "farm-1", "h1", "show-1", 7, 41,
		"CONTENDER", "1.30m Open Jumpers", "Grand Prix Ring",
		schedule.PhaseNotStarted, "Not Started", "07:15:00", 1, schedule.StatusActive)
	rows.AddRow("e2", "farm-1", "h2", "show-1", 7, 41,
		"SILVER", "1.30m Open Jumpers", "Grand Prix Ring",
		schedule.PhaseNotStarted, "Not Started", "07:15:00", 2, schedule.StatusActive)
	rows.AddRow("e3", "farm-1", "h1", "show-1", 7, 55,
		"CONTENDER", "Hunter Derby", "Ring 2",
		schedule.PhaseInProgress, "Underway", "09:00:00", 1, schedule.StatusActive)
	return rows
}

func TestSelectOpenUnits_GroupsByClass(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewStore(db)

	mock.ExpectQuery("SELECT \\* FROM `entries`").
		WithArgs("farm-1", "2026-02-18", schedule.StatusInactive, schedule.PhaseCompleted).
		WillReturnRows(openUnitRows())

	units, err := s.SelectOpenUnits(context.Background(), "farm-1", "2026-02-18")
	require.NoError(t, err)
	require.Len(t, units, 2)

	assert.Equal(t, 41, units[0].Ref.APIClassID)
	assert.Equal(t, "1.30m Open Jumpers", units[0].Ref.ClassName)
	assert.Len(t, units[0].Entries, 2)
	assert.Equal(t, "07:15:00", units[0].EstimatedStart)

	assert.Equal(t, 55, units[1].Ref.APIClassID)
	assert.Equal(t, schedule.PhaseInProgress, units[1].Phase)
	assert.Len(t, units[1].Entries, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectOpenUnits_ExcludesClosedWork(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewStore(db)

	// Inactive entries and completed units are filtered in SQL; the mock
	// asserts the filter values travel as arguments.
	mock.ExpectQuery("SELECT \\* FROM `entries` WHERE farm_id = \\? AND scheduled_date = \\? AND api_class_id <> 0 AND status <> \\? AND class_phase <> \\?").
		WithArgs("farm-1", "2026-02-18", schedule.StatusInactive, schedule.PhaseCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	units, err := s.SelectOpenUnits(context.Background(), "farm-1", "2026-02-18")
	require.NoError(t, err)
	assert.Empty(t, units)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type recordFunc func(tx *gorm.DB, farmID string, changes []Change) error

func (f recordFunc) Record(tx *gorm.DB, farmID string, changes []Change) error {
	return f(tx, farmID, changes)
}

func TestApplyUnit_WritesEntriesAndChangesAtomically(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewStore(db)

	unit := testUnit(testEntry("e1", 101, "CONTENDER", intp(1)))
	changes := []Change{{Kind: ChangeResult, EntryID: "e1"}}

	recorded := 0
	rec := recordFunc(func(tx *gorm.DB, farmID string, ch []Change) error {
		recorded = len(ch)
		assert.Equal(t, "farm-1", farmID)
		assert.NotNil(t, tx)
		return nil
	})

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `entries` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.ApplyUnit(context.Background(), unit, changes, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, recorded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyUnit_RecorderFailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewStore(db)

	unit := testUnit(testEntry("e1", 101, "CONTENDER", intp(1)))
	rec := recordFunc(func(*gorm.DB, string, []Change) error {
		return errors.New("insert failed")
	})

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `entries` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := s.ApplyUnit(context.Background(), unit, []Change{{Kind: ChangeScratched}}, rec)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyUnit_NoChangesSkipsRecorder(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewStore(db)

	unit := testUnit(testEntry("e1", 101, "CONTENDER", intp(1)))
	rec := recordFunc(func(*gorm.DB, string, []Change) error {
		t.Fatal("recorder must not run without changes")
		return nil
	})

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `entries` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.ApplyUnit(context.Background(), unit, nil, rec)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
