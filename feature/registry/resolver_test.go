package registry

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
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

func TestResolve_CreatesOnFirstSighting(t *testing.T) {
	db, mock := setupMockDB(t)
	r := NewResolver(db, zap.NewNop())

	mock.ExpectExec("INSERT INTO `horses`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT `id` FROM `horses`").
		WithArgs("farm-1", "CONTENDER", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("horse-1"))

	id, err := r.Resolve(context.Background(), "farm-1", KindHorse, " CONTENDER ")
	require.NoError(t, err)
	assert.Equal(t, "horse-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_NameCollisionMergesToOneIdentity(t *testing.T) {
	db, mock := setupMockDB(t)
	r := NewResolver(db, zap.NewNop())

	// First sighting inserts the row.
	mock.ExpectExec("INSERT INTO `horses`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT `id` FROM `horses`").
		WithArgs("farm-1", "SILVER", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("horse-silver"))

	// A second horse with the exact same name hits the uniqueness constraint
	// and resolves to the existing identity.
	mock.ExpectExec("INSERT INTO `horses`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT `id` FROM `horses`").
		WithArgs("farm-1", "SILVER", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("horse-silver"))

	first, err := r.Resolve(context.Background(), "farm-1", KindHorse, "SILVER")
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), "farm-1", KindHorse, "SILVER")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_EmptyName(t *testing.T) {
	db, _ := setupMockDB(t)
	r := NewResolver(db, zap.NewNop())

	_, err := r.Resolve(context.Background(), "farm-1", KindRider, "   ")
	assert.Error(t, err)
}

func TestResolve_UnknownKind(t *testing.T) {
	db, _ := setupMockDB(t)
	r := NewResolver(db, zap.NewNop())

	_, err := r.Resolve(context.Background(), "farm-1", Kind("barn"), "X")
	assert.Error(t, err)
}

func TestResolveRing_RefreshesNumber(t *testing.T) {
	db, mock := setupMockDB(t)
	r := NewResolver(db, zap.NewNop())

	mock.ExpectExec("INSERT INTO `rings`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT `id` FROM `rings`").
		WithArgs("farm-1", "Grand Prix Ring", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ring-1"))
	mock.ExpectExec("UPDATE `rings` SET `ring_number`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := r.ResolveRing(context.Background(), "farm-1", "Grand Prix Ring", 9)
	require.NoError(t, err)
	assert.Equal(t, "ring-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveClass_RefreshesAttributes(t *testing.T) {
	db, mock := setupMockDB(t)
	r := NewResolver(db, zap.NewNop())

	mock.ExpectExec("INSERT INTO `classes`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT `id` FROM `classes`").
		WithArgs("farm-1", "1.40m Open Jumper", "101", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("class-1"))
	mock.ExpectExec("UPDATE `classes` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := r.ResolveClass(context.Background(), "farm-1", ClassAttrs{
		Name:        "1.40m Open Jumper",
		ClassNumber: "101",
		Sponsor:     "Acme Feed",
		PrizeMoney:  25000,
		ClassType:   "jumper",
	})
	require.NoError(t, err)
	assert.Equal(t, "class-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureFarm(t *testing.T) {
	db, mock := setupMockDB(t)
	r := NewResolver(db, zap.NewNop())

	mock.ExpectExec("INSERT INTO `farms`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT `id` FROM `farms`").
		WithArgs("Hidden Creek", "15", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("farm-1"))

	id, err := r.EnsureFarm(context.Background(), "Hidden Creek", "15")
	require.NoError(t, err)
	assert.Equal(t, "farm-1", id)
}
