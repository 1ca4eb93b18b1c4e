package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"show-sync/feature/schedule"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

var testNow = time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)

func testUnit(entries ...schedule.Entry) UnitState {
	return UnitState{
		Ref: UnitRef{
			FarmID:     "farm-1",
			ShowID:     "show-1",
			APIShowID:  7,
			APIClassID: 42,
			ClassName:  "1.30m Open Jumpers",
			RingName:   "Grand Prix Ring",
		},
		Phase:   schedule.PhaseNotStarted,
		Entries: entries,
	}
}

func testEntry(id string, apiEntryID int, horse string, order *int) schedule.Entry {
	return schedule.Entry{
		ID:         id,
		FarmID:     "farm-1",
		ShowID:     "show-1",
		APIShowID:  7,
		APIClassID: 42,
		APIEntryID: apiEntryID,
		HorseName:  horse,
		OrderOfGo:  order,
		Status:     schedule.StatusActive,
	}
}

func TestDiff_Idempotent(t *testing.T) {
	unit := testUnit(testEntry("e1", 101, "CONTENDER", intp(3)))
	snap := UnitSnapshot{
		Status:         "Underway",
		EstimatedTime:  "07:15:00",
		ActualTime:     "07:20:00",
		TotalTrips:     intp(20),
		CompletedTrips: intp(5),
		Trips: []TripSnapshot{
			{APIEntryID: 101, OrderOfGo: intp(3), Placing: intp(2), GoneIn: true, TotalPrizeMoney: floatp(250)},
		},
	}

	next, changes := Diff(unit, snap, testNow)
	require.NotEmpty(t, changes)

	again, changes2 := Diff(next, snap, testNow)
	assert.Empty(t, changes2)
	assert.Equal(t, next, again)
}

func TestDiff_ClassStarted(t *testing.T) {
	unit := testUnit(
		testEntry("e1", 101, "CONTENDER", intp(5)),
		testEntry("e2", 102, "SILVER", intp(2)),
	)
	snap := UnitSnapshot{
		Status:        "Underway",
		EstimatedTime: "07:15:00",
		ActualTime:    "07:20:00",
		Trips: []TripSnapshot{
			{APIEntryID: 101, OrderOfGo: intp(5)},
			{APIEntryID: 102, OrderOfGo: intp(2)},
		},
	}

	next, changes := Diff(unit, snap, testNow)
	require.Len(t, changes, 2)

	assert.Equal(t, ChangeStatus, changes[0].Kind)
	assert.Equal(t, "Underway", changes[0].New)
	// Roster is listed in order of go.
	assert.Equal(t, []string{"SILVER", "CONTENDER"}, changes[0].Horses)
	assert.Equal(t, []string{"2", "5"}, changes[0].Orders)

	assert.Equal(t, ChangeTime, changes[1].Kind)
	assert.Equal(t, "—", changes[1].Old)
	assert.Equal(t, "07:15:00", changes[1].New)

	assert.Equal(t, schedule.PhaseInProgress, next.Phase)
	assert.Equal(t, "07:20:00", next.ActualStart)
	for _, e := range next.Entries {
		assert.Equal(t, schedule.PhaseInProgress, e.ClassPhase)
	}
}

func TestDiff_ClassCompletedCarriesResults(t *testing.T) {
	unit := testUnit(testEntry("e1", 101, "CONTENDER", intp(1)))
	unit.Phase = schedule.PhaseInProgress
	snap := UnitSnapshot{
		Status: "Completed",
		Trips: []TripSnapshot{
			{APIEntryID: 101, OrderOfGo: intp(1), Placing: intp(3), GoneIn: true, TotalPrizeMoney: floatp(150)},
		},
	}

	next, changes := Diff(unit, snap, testNow)

	var status *Change
	for i := range changes {
		if changes[i].Kind == ChangeStatus {
			status = &changes[i]
		}
	}
	require.NotNil(t, status)
	require.Len(t, status.Results, 1)
	assert.Equal(t, "CONTENDER", status.Results[0].Horse)
	assert.Equal(t, 3, *status.Results[0].Placing)
	assert.Equal(t, 150.0, *status.Results[0].Prize)
	assert.Equal(t, schedule.PhaseCompleted, next.Phase)
}

func TestDiff_ResultPosted(t *testing.T) {
	unit := testUnit(testEntry("e1", 101, "CONTENDER", intp(1)))
	unit.Phase = schedule.PhaseInProgress
	snap := UnitSnapshot{
		Status: "Underway",
		Trips: []TripSnapshot{
			{APIEntryID: 101, OrderOfGo: intp(1), Placing: intp(1), TotalPrizeMoney: floatp(45)},
		},
	}

	next, changes := Diff(unit, snap, testNow)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeResult, changes[0].Kind)
	assert.Equal(t, "e1", changes[0].EntryID)
	assert.Equal(t, 1, *changes[0].Placing)
	assert.Equal(t, 45.0, *changes[0].PrizeMoney)
	assert.Equal(t, 1, *next.Entries[0].Placing)
}

func TestDiff_UnplacedSentinelIsNotAResult(t *testing.T) {
	unit := testUnit(testEntry("e1", 101, "CONTENDER", intp(1)))
	unit.Phase = schedule.PhaseInProgress
	snap := UnitSnapshot{
		Status: "Underway",
		Trips: []TripSnapshot{
			{APIEntryID: 101, OrderOfGo: intp(1), Placing: intp(UnplacedPlacing)},
		},
	}

	next, changes := Diff(unit, snap, testNow)
	assert.Empty(t, changes)
	// The raw value is still mirrored into the row.
	assert.Equal(t, UnplacedPlacing, *next.Entries[0].Placing)
}

func TestDiff_HorseCompletedAndScratched(t *testing.T) {
	unit := testUnit(
		testEntry("e1", 101, "CONTENDER", intp(1)),
		testEntry("e2", 102, "SILVER", intp(2)),
	)
	unit.Phase = schedule.PhaseInProgress
	snap := UnitSnapshot{
		Status: "Underway",
		Trips: []TripSnapshot{
			{APIEntryID: 101, OrderOfGo: intp(1), GoneIn: true, FaultsOne: floatp(4), TimeOne: floatp(68.21)},
			{APIEntryID: 102, OrderOfGo: intp(2), ScratchTrip: true},
		},
	}

	next, changes := Diff(unit, snap, testNow)
	require.Len(t, changes, 2)

	assert.Equal(t, ChangeEntryComplete, changes[0].Kind)
	assert.Equal(t, "e1", changes[0].EntryID)
	assert.Equal(t, 4.0, *changes[0].Faults)
	assert.Equal(t, 68.21, *changes[0].TimeOne)

	assert.Equal(t, ChangeScratched, changes[1].Kind)
	assert.Equal(t, "e2", changes[1].EntryID)

	assert.Equal(t, schedule.StatusCompleted, next.Entries[0].Status)
	assert.Equal(t, schedule.StatusScratched, next.Entries[1].Status)
}

func TestDiff_ScratchWinsOverCompletion(t *testing.T) {
	unit := testUnit(testEntry("e1", 101, "CONTENDER", intp(1)))
	unit.Phase = schedule.PhaseInProgress
	snap := UnitSnapshot{
		Status: "Underway",
		Trips: []TripSnapshot{
			{APIEntryID: 101, OrderOfGo: intp(1), GoneIn: true, ScratchTrip: true},
		},
	}

	next, changes := Diff(unit, snap, testNow)
	require.Len(t, changes, 2)
	assert.Equal(t, ChangeEntryComplete, changes[0].Kind)
	assert.Equal(t, ChangeScratched, changes[1].Kind)
	assert.Equal(t, schedule.StatusScratched, next.Entries[0].Status)
}

func TestDiff_ProgressUpdate(t *testing.T) {
	unit := testUnit(testEntry("e1", 101, "CONTENDER", intp(1)))
	unit.Phase = schedule.PhaseInProgress
	unit.CompletedTrips = intp(3)
	snap := UnitSnapshot{
		Status:         "Underway",
		TotalTrips:     intp(20),
		CompletedTrips: intp(4),
	}

	_, changes := Diff(unit, snap, testNow)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeProgress, changes[0].Kind)
	assert.Equal(t, 4, *changes[0].Completed)
	assert.Equal(t, 20, *changes[0].Total)
}

func TestDiff_TimeComparisonIgnoresDatePart(t *testing.T) {
	unit := testUnit(testEntry("e1", 101, "CONTENDER", intp(1)))
	unit.EstimatedStart = "2026-02-18 07:15:00"
	snap := UnitSnapshot{Status: "Not Started", EstimatedTime: "07:15:00"}

	_, changes := Diff(unit, snap, testNow)
	assert.Empty(t, changes)
}

func TestDiff_UnitChangesBeforeEntryChanges(t *testing.T) {
	unit := testUnit(testEntry("e1", 101, "CONTENDER", intp(1)))
	snap := UnitSnapshot{
		Status: "Underway",
		Trips: []TripSnapshot{
			{APIEntryID: 101, OrderOfGo: intp(1), Placing: intp(2), TotalPrizeMoney: floatp(80)},
		},
	}

	_, changes := Diff(unit, snap, testNow)
	require.Len(t, changes, 2)
	assert.Equal(t, ChangeStatus, changes[0].Kind)
	assert.Equal(t, ChangeResult, changes[1].Kind)
}

func TestDiff_EntriesInAscendingOrderOfGo(t *testing.T) {
	unit := testUnit(
		testEntry("e1", 101, "CONTENDER", nil),
		testEntry("e2", 102, "SILVER", nil),
		testEntry("e3", 103, "APOLLO", nil),
	)
	unit.Phase = schedule.PhaseInProgress
	snap := UnitSnapshot{
		Status: "Underway",
		Trips: []TripSnapshot{
			{APIEntryID: 101, OrderOfGo: intp(9), GoneIn: true},
			{APIEntryID: 102, OrderOfGo: intp(1), GoneIn: true},
			// No order reported; examined last.
			{APIEntryID: 103, GoneIn: true},
		},
	}

	_, changes := Diff(unit, snap, testNow)
	require.Len(t, changes, 3)
	assert.Equal(t, "e2", changes[0].EntryID)
	assert.Equal(t, "e1", changes[1].EntryID)
	assert.Equal(t, "e3", changes[2].EntryID)
}

func TestDiff_EntryMissingFromSnapshotIsUntouched(t *testing.T) {
	entry := testEntry("e1", 101, "CONTENDER", intp(1))
	entry.Placing = intp(2)
	unit := testUnit(entry)
	unit.Phase = schedule.PhaseInProgress
	snap := UnitSnapshot{Status: "Underway"}

	next, changes := Diff(unit, snap, testNow)
	assert.Empty(t, changes)
	assert.Equal(t, 2, *next.Entries[0].Placing)
}

func TestPhaseFromStatus(t *testing.T) {
	assert.Equal(t, schedule.PhaseCompleted, PhaseFromStatus("Completed"))
	assert.Equal(t, schedule.PhaseCompleted, PhaseFromStatus("finished"))
	assert.Equal(t, schedule.PhaseInProgress, PhaseFromStatus("Underway"))
	assert.Equal(t, schedule.PhaseInProgress, PhaseFromStatus("In Progress"))
	assert.Equal(t, schedule.PhaseNotStarted, PhaseFromStatus("Not Started"))
	assert.Equal(t, schedule.PhaseNotStarted, PhaseFromStatus(""))
	assert.Equal(t, schedule.PhaseNotStarted, PhaseFromStatus("Scheduled"))
}
