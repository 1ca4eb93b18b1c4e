// Package monitor reconciles the local mirror against live provider state.
//
// A cycle selects the open units for a date (a unit is the group of entries
// sharing one show and api class id), fetches each unit's authoritative
// snapshot, computes the pure diff between stored and remote state, and
// applies the new state together with its change records in one transaction.
// Units run on a bounded worker pool under a wall-clock deadline, and each
// unit is guarded by a cross-process advisory lock so overlapping cycles
// never double-process it.
//
// Change detection is two-layered: unit-level changes (status, start time,
// progress) fire before entry-level ones (results, completions, scratches),
// and entries are examined in ascending order-of-go. A unit whose phase has
// reached completed is never selected again.
package monitor
