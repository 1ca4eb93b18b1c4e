// Package utils provides coercion helpers for the loosely typed JSON payloads
// returned by the remote show-data provider. All helpers are total: malformed
// values collapse to nil/zero instead of propagating untyped data inward.
package utils
