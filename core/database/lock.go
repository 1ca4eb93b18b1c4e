package database

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

// Locker acquires named locks that are visible across process boundaries.
// Implementations must be safe for concurrent use.
type Locker interface {
	// TryAcquire attempts to take the named lock without blocking.
	// It returns (nil, false, nil) when another holder owns the lock.
	TryAcquire(ctx context.Context, name string) (Lock, bool, error)
}

// Lock is a held named lock. Release must be called exactly once.
type Lock interface {
	Release(ctx context.Context) error
}

// AdvisoryLocker implements Locker on top of MySQL GET_LOCK. MySQL advisory
// locks are session-scoped, so each held lock pins one *sql.Conn until release.
type AdvisoryLocker struct {
	db *gorm.DB
}

// NewAdvisoryLocker creates a locker backed by the given connection pool.
func NewAdvisoryLocker(db *gorm.DB) *AdvisoryLocker {
	return &AdvisoryLocker{db: db}
}

// TryAcquire takes the named lock with a zero wait. The lock survives until
// Release or until the pinned connection dies, whichever comes first.
func (a *AdvisoryLocker) TryAcquire(ctx context.Context, name string) (Lock, bool, error) {
	sqlDB, err := a.db.DB()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to pin connection: %w", err)
	}

	var got sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, 0)", name).Scan(&got); err != nil {
		_ = conn.Close()
		return nil, false, fmt.Errorf("failed to acquire lock %q: %w", name, err)
	}

	// GET_LOCK returns 1 on success, 0 when held elsewhere, NULL on error.
	if !got.Valid || got.Int64 != 1 {
		_ = conn.Close()
		return nil, false, nil
	}

	return &advisoryLock{conn: conn, name: name}, true, nil
}

type advisoryLock struct {
	conn *sql.Conn
	name string
}

// Release frees the named lock and returns the pinned connection to the pool.
// The connection is closed even when RELEASE_LOCK fails; closing the session
// drops the lock server-side either way.
func (l *advisoryLock) Release(ctx context.Context) error {
	var released sql.NullInt64
	err := l.conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", l.name).Scan(&released)
	if cerr := l.conn.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to release lock %q: %w", l.name, err)
	}
	return nil
}
