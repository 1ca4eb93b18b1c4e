package monitor

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"show-sync/feature/schedule"
)

// Diff compares the persisted state of one unit against a fresh snapshot and
// returns the would-be new state plus the ordered change records that justify
// it. Pure function: no I/O, deterministic for a fixed detection time.
//
// Unit-level changes are evaluated before entry-level ones; entries are
// evaluated in ascending order-of-go. Diffing a snapshot against the state it
// already produced yields no changes.
func Diff(prev UnitState, snap UnitSnapshot, now time.Time) (UnitState, []Change) {
	next := prev
	next.Entries = make([]schedule.Entry, len(prev.Entries))
	copy(next.Entries, prev.Entries)

	var changes []Change

	firstEntryID := ""
	if len(prev.Entries) > 0 {
		firstEntryID = prev.Entries[0].ID
	}

	status := strings.TrimSpace(snap.Status)
	newPhase := PhaseFromStatus(status)

	trips := make(map[int]TripSnapshot, len(snap.Trips))
	for _, t := range snap.Trips {
		if t.APIEntryID != 0 {
			trips[t.APIEntryID] = t
		}
	}
	order := orderedIndices(prev.Entries, trips)

	// Unit-level changes first.
	if newPhase != prev.Phase {
		ch := Change{
			Kind:       ChangeStatus,
			EntryID:    firstEntryID,
			ClassName:  prev.Ref.ClassName,
			RingName:   prev.Ref.RingName,
			Old:        prev.ClassStatus,
			New:        status,
			DetectedAt: now,
		}
		switch newPhase {
		case schedule.PhaseInProgress:
			for _, i := range order {
				e := prev.Entries[i]
				ch.Horses = append(ch.Horses, horseOrUnknown(e))
				if t, ok := trips[e.APIEntryID]; ok && t.OrderOfGo != nil {
					ch.Orders = append(ch.Orders, strconv.Itoa(*t.OrderOfGo))
				} else {
					ch.Orders = append(ch.Orders, "unk")
				}
			}
		case schedule.PhaseCompleted:
			for _, i := range order {
				e := prev.Entries[i]
				line := ResultLine{Horse: horseOrUnknown(e)}
				if t, ok := trips[e.APIEntryID]; ok {
					line.Placing = t.Placing
					line.Prize = t.TotalPrizeMoney
				}
				ch.Results = append(ch.Results, line)
			}
		}
		changes = append(changes, ch)
	}

	if snap.EstimatedTime != "" && timeOnly(prev.EstimatedStart) != timeOnly(snap.EstimatedTime) {
		old := prev.EstimatedStart
		if old == "" {
			old = "—"
		}
		changes = append(changes, Change{
			Kind:       ChangeTime,
			EntryID:    firstEntryID,
			ClassName:  prev.Ref.ClassName,
			RingName:   prev.Ref.RingName,
			Old:        old,
			New:        snap.EstimatedTime,
			DetectedAt: now,
		})
	}

	if snap.CompletedTrips != nil && !intPtrEq(snap.CompletedTrips, prev.CompletedTrips) {
		changes = append(changes, Change{
			Kind:       ChangeProgress,
			EntryID:    firstEntryID,
			ClassName:  prev.Ref.ClassName,
			RingName:   prev.Ref.RingName,
			Completed:  snap.CompletedTrips,
			Total:      snap.TotalTrips,
			DetectedAt: now,
		})
	}

	next.Phase = newPhase
	next.ClassStatus = status
	next.EstimatedStart = snap.EstimatedTime
	next.ActualStart = snap.ActualTime
	next.TotalTrips = snap.TotalTrips
	next.CompletedTrips = snap.CompletedTrips
	next.RemainingTrips = snap.RemainingTrips

	// Entry-level changes, ascending order-of-go. Entries absent from the
	// snapshot's trip list are left untouched.
	for _, i := range order {
		e := &next.Entries[i]
		t, ok := trips[e.APIEntryID]
		if !ok {
			continue
		}

		if t.Placing != nil &&
			(e.Placing == nil || *e.Placing != *t.Placing) &&
			*t.Placing > 0 && *t.Placing < UnplacedPlacing {
			changes = append(changes, Change{
				Kind:       ChangeResult,
				EntryID:    e.ID,
				ClassName:  prev.Ref.ClassName,
				RingName:   prev.Ref.RingName,
				HorseName:  horseOrUnknown(*e),
				Placing:    t.Placing,
				PrizeMoney: t.TotalPrizeMoney,
				DetectedAt: now,
			})
		}

		if t.GoneIn && !e.GoneIn {
			changes = append(changes, Change{
				Kind:       ChangeEntryComplete,
				EntryID:    e.ID,
				ClassName:  prev.Ref.ClassName,
				RingName:   prev.Ref.RingName,
				HorseName:  horseOrUnknown(*e),
				Faults:     t.FaultsOne,
				TimeOne:    t.TimeOne,
				DetectedAt: now,
			})
		}

		if t.ScratchTrip && !e.ScratchTrip {
			changes = append(changes, Change{
				Kind:       ChangeScratched,
				EntryID:    e.ID,
				ClassName:  prev.Ref.ClassName,
				RingName:   prev.Ref.RingName,
				HorseName:  horseOrUnknown(*e),
				DetectedAt: now,
			})
		}

		applyTrip(e, t)
	}

	// Every entry of the unit mirrors the unit-level columns.
	for i := range next.Entries {
		e := &next.Entries[i]
		e.ClassPhase = next.Phase
		e.ClassStatus = next.ClassStatus
		e.EstimatedStart = next.EstimatedStart
		e.ActualStart = next.ActualStart
		e.TotalTrips = next.TotalTrips
		e.CompletedTrips = next.CompletedTrips
		e.RemainingTrips = next.RemainingTrips
	}

	return next, changes
}

// applyTrip refreshes every result field from the trip, whether or not a
// named change fired.
func applyTrip(e *schedule.Entry, t TripSnapshot) {
	e.APITripID = t.TripID
	e.OrderOfGo = t.OrderOfGo
	e.Placing = t.Placing
	e.GoneIn = t.GoneIn
	e.ScratchTrip = t.ScratchTrip
	e.FaultsOne = t.FaultsOne
	e.TimeOne = t.TimeOne
	e.TimeFaultOne = t.TimeFaultOne
	e.FaultsTwo = t.FaultsTwo
	e.TimeTwo = t.TimeTwo
	e.TimeFaultTwo = t.TimeFaultTwo
	e.TotalPrizeMoney = t.TotalPrizeMoney
	e.PointsEarned = t.PointsEarned
	e.DisqualifyStatusOne = t.DisqualifyStatusOne
	e.DisqualifyStatusTwo = t.DisqualifyStatusTwo
	e.Score1 = t.Score1
	e.Score2 = t.Score2
	e.Score3 = t.Score3
	e.Score4 = t.Score4
	e.Score5 = t.Score5
	e.Score6 = t.Score6
	e.Status = schedule.DeriveStatus(t.ScratchTrip, t.GoneIn)
}

// orderedIndices sorts entry indices ascending by order-of-go, preferring the
// snapshot's order over the stored one, with unknown orders last.
func orderedIndices(entries []schedule.Entry, trips map[int]TripSnapshot) []int {
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	orderOf := func(i int) (int, bool) {
		e := entries[i]
		if t, ok := trips[e.APIEntryID]; ok && t.OrderOfGo != nil {
			return *t.OrderOfGo, true
		}
		if e.OrderOfGo != nil {
			return *e.OrderOfGo, true
		}
		return 0, false
	}
	sort.SliceStable(idx, func(a, b int) bool {
		oa, aok := orderOf(idx[a])
		ob, bok := orderOf(idx[b])
		if aok != bok {
			return aok
		}
		if !aok {
			return false
		}
		return oa < ob
	})
	return idx
}

// timeOnly strips the date part so "2026-02-18 07:15:00" and "07:15:00"
// compare equal and a format difference never fakes a time change.
func timeOnly(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		s = s[i+1:]
	}
	return s
}

func intPtrEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func horseOrUnknown(e schedule.Entry) string {
	if e.HorseName != "" {
		return e.HorseName
	}
	return "Unknown"
}
