// Package archive stores raw provider payloads in object storage.
//
// Every class snapshot the monitor decodes successfully is copied under
// snapshots/<date>/show-<id>/; payloads that fail to decode go under
// quarantine/ instead so they can be inspected and replayed after a schema
// fix. Archiving is best effort: failures are logged and never surface to
// the fetch cycle.
//
// The Client interface wraps the MinIO Go client and supports both AWS S3
// and self-hosted MinIO instances; mocks live in core/archive/mocks.
package archive
