// Package database manages the MySQL connection and cross-process locking.
//
// Connect opens a pooled GORM connection with sane pool limits and verifies it
// with a ping. AdvisoryLocker builds named locks on MySQL GET_LOCK so that two
// reconciler processes can never work on the same competition unit at once;
// each held lock pins one connection for the duration of the hold.
package database
