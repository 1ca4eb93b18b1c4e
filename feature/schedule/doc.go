// Package schedule mirrors one day's show schedule into the local store.
//
// The morning sync fetches the schedule and the farm's entries from the
// provider, resolves horses, riders, rings, and classes to durable local
// identities through the registry, and bulk-upserts one entry row per
// (horse, class) pair. Entries without classes are stored as inactive so the
// horse still appears in the mirror.
//
// The sync is the only writer that creates entry rows; the monitor mutates
// them afterwards and never deletes them within a show.
package schedule
