package monitor

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"show-sync/feature/schedule"
)

// UnplacedPlacing is the provider's sentinel for "no placing awarded".
// A reported placing at or above it never counts as a posted result.
const UnplacedPlacing = 100000

// UnitRef identifies one competition unit: the group of our entries sharing
// (show, api class id). The api ids are only valid within that show.
type UnitRef struct {
	FarmID     string `json:"farm_id"`
	ShowID     string `json:"show_id"`
	APIShowID  int    `json:"api_show_id"`
	APIClassID int    `json:"api_class_id"`
	ClassName  string `json:"class_name"`
	RingName   string `json:"ring_name"`
}

// UnitState is the persisted state of one unit: its lifecycle fields plus the
// farm's entries in it. It is what the diff compares a snapshot against and
// what the apply step writes back.
type UnitState struct {
	Ref            UnitRef
	Phase          string
	ClassStatus    string
	EstimatedStart string
	ActualStart    string
	TotalTrips     *int
	CompletedTrips *int
	RemainingTrips *int
	Entries        []schedule.Entry
}

// UnitSnapshot is the authoritative remote state of one unit, already mapped
// from the provider's loose payload into closed types.
type UnitSnapshot struct {
	Status         string
	EstimatedTime  string
	ActualTime     string
	TotalTrips     *int
	CompletedTrips *int
	RemainingTrips *int
	Trips          []TripSnapshot
}

// TripSnapshot is one performance in a unit snapshot.
type TripSnapshot struct {
	APIEntryID          int
	TripID              *int
	OrderOfGo           *int
	Placing             *int
	GoneIn              bool
	ScratchTrip         bool
	FaultsOne           *float64
	TimeOne             *float64
	TimeFaultOne        *float64
	FaultsTwo           *float64
	TimeTwo             *float64
	TimeFaultTwo        *float64
	TotalPrizeMoney     *float64
	PointsEarned        *float64
	DisqualifyStatusOne *string
	DisqualifyStatusTwo *string
	Score1              *float64
	Score2              *float64
	Score3              *float64
	Score4              *float64
	Score5              *float64
	Score6              *float64
}

// ChangeKind is the fixed taxonomy of detected changes.
type ChangeKind string

const (
	ChangeStatus        ChangeKind = "STATUS_CHANGE"
	ChangeTime          ChangeKind = "TIME_CHANGE"
	ChangeProgress      ChangeKind = "PROGRESS_UPDATE"
	ChangeResult        ChangeKind = "RESULT"
	ChangeEntryComplete ChangeKind = "HORSE_COMPLETED"
	ChangeScratched     ChangeKind = "SCRATCHED"
)

// ResultLine is one horse's outcome in a completed-class change.
type ResultLine struct {
	Horse   string   `json:"horse"`
	Placing *int     `json:"placing,omitempty"`
	Prize   *float64 `json:"prize,omitempty"`
}

// Change is one immutable detected fact. It carries everything a message
// template needs so the rendered text never has to be re-derived from state
// that may have moved on.
type Change struct {
	Kind      ChangeKind `json:"kind"`
	EntryID   string     `json:"entry_id"`
	ClassName string     `json:"class_name"`
	RingName  string     `json:"ring_name"`
	HorseName string     `json:"horse,omitempty"`

	Old string `json:"old,omitempty"`
	New string `json:"new,omitempty"`

	Placing    *int     `json:"placing,omitempty"`
	PrizeMoney *float64 `json:"prize_money,omitempty"`
	Faults     *float64 `json:"faults,omitempty"`
	TimeOne    *float64 `json:"time,omitempty"`
	Completed  *int     `json:"completed,omitempty"`
	Total      *int     `json:"total,omitempty"`

	// Class-started roster and class-completed results.
	Horses  []string     `json:"horses,omitempty"`
	Orders  []string     `json:"orders,omitempty"`
	Results []ResultLine `json:"results,omitempty"`

	DetectedAt time.Time `json:"detected_at"`
}

// Recorder persists change records in the same transaction as the state they
// justify. Implemented by the notify feature.
type Recorder interface {
	Record(tx *gorm.DB, farmID string, changes []Change) error
}

// PhaseFromStatus maps the provider's free-form status string onto the unit
// lifecycle phase.
func PhaseFromStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed", "complete", "finished":
		return schedule.PhaseCompleted
	case "underway", "in progress", "started":
		return schedule.PhaseInProgress
	default:
		return schedule.PhaseNotStarted
	}
}
