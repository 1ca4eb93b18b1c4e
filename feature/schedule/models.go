package schedule

import "time"

// Entry status values, derived from the scratch and completion flags.
// Scratch wins over completion.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusScratched = "scratched"
	StatusInactive  = "inactive"
)

// Lifecycle phase of the competition unit an entry belongs to.
const (
	PhaseNotStarted = "not-started"
	PhaseInProgress = "in-progress"
	PhaseCompleted  = "completed"
)

// DeriveStatus computes the entry status from the two flags.
func DeriveStatus(scratchTrip, goneIn bool) string {
	if scratchTrip {
		return StatusScratched
	}
	if goneIn {
		return StatusCompleted
	}
	return StatusActive
}

// Show is one show mirrored from the provider, keyed by (farm, api show id).
type Show struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey"`
	FarmID    string    `gorm:"column:farm_id;type:char(36);uniqueIndex:uniq_show"`
	APIShowID int       `gorm:"column:api_show_id;uniqueIndex:uniq_show"`
	Name      string    `gorm:"column:name;size:200"`
	StartDate string    `gorm:"column:start_date;size:10"`
	EndDate   string    `gorm:"column:end_date;size:10"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (Show) TableName() string {
	return "shows"
}

// Entry is one horse's participation in one competition unit. The row carries
// both the entry's own state and a mirror of its unit's state (phase, raw
// status, timing, progress counters), so a unit is the group of entries
// sharing (show_id, api_class_id).
//
// All api_* identifiers are scoped to the originating show and are never used
// as join keys across fetch cycles; local uuid references are the durable
// links. Rows are created by the morning sync, mutated only by the monitor,
// and never deleted within a show.
type Entry struct {
	ID     string `gorm:"column:id;type:char(36);primaryKey"`
	FarmID string `gorm:"column:farm_id;type:char(36);index"`

	HorseID string  `gorm:"column:horse_id;type:char(36);uniqueIndex:uniq_entry_unit"`
	RiderID *string `gorm:"column:rider_id;type:char(36)"`
	ShowID  string  `gorm:"column:show_id;type:char(36);uniqueIndex:uniq_entry_unit"`
	RingID  *string `gorm:"column:ring_id;type:char(36)"`
	ClassID *string `gorm:"column:class_id;type:char(36)"`

	// Denormalized display names so the monitor and view never need a join.
	HorseName string `gorm:"column:horse_name;size:120"`
	ClassName string `gorm:"column:class_name;size:200"`
	RingName  string `gorm:"column:ring_name;size:120"`

	APIShowID    int  `gorm:"column:api_show_id"`
	APIEntryID   int  `gorm:"column:api_entry_id"`
	APIClassID   int  `gorm:"column:api_class_id;uniqueIndex:uniq_entry_unit"`
	APIHorseID   *int `gorm:"column:api_horse_id"`
	APIRiderID   *int `gorm:"column:api_rider_id"`
	APIRingID    *int `gorm:"column:api_ring_id"`
	APITripID    *int `gorm:"column:api_trip_id"`
	APITrainerID *int `gorm:"column:api_trainer_id"`

	BackNumber string `gorm:"column:back_number;size:16"`
	OrderOfGo  *int   `gorm:"column:order_of_go"`

	Status      string `gorm:"column:status;size:16"`
	ScratchTrip bool   `gorm:"column:scratch_trip"`
	GoneIn      bool   `gorm:"column:gone_in"`

	// Unit mirror columns, identical across all entries of one unit.
	ClassPhase     string `gorm:"column:class_phase;size:16"`
	ClassStatus    string `gorm:"column:class_status;size:50"`
	EstimatedStart string `gorm:"column:estimated_start;size:32"`
	ActualStart    string `gorm:"column:actual_start;size:32"`
	ScheduledDate  string `gorm:"column:scheduled_date;size:10;index"`
	TotalTrips     *int   `gorm:"column:total_trips"`
	CompletedTrips *int   `gorm:"column:completed_trips"`
	RemainingTrips *int   `gorm:"column:remaining_trips"`

	// Result columns, refreshed wholesale from each snapshot.
	Placing             *int     `gorm:"column:placing"`
	PointsEarned        *float64 `gorm:"column:points_earned"`
	TotalPrizeMoney     *float64 `gorm:"column:total_prize_money"`
	FaultsOne           *float64 `gorm:"column:faults_one"`
	TimeOne             *float64 `gorm:"column:time_one"`
	TimeFaultOne        *float64 `gorm:"column:time_fault_one"`
	FaultsTwo           *float64 `gorm:"column:faults_two"`
	TimeTwo             *float64 `gorm:"column:time_two"`
	TimeFaultTwo        *float64 `gorm:"column:time_fault_two"`
	DisqualifyStatusOne *string  `gorm:"column:disqualify_status_one;size:50"`
	DisqualifyStatusTwo *string  `gorm:"column:disqualify_status_two;size:50"`
	Score1              *float64 `gorm:"column:score1"`
	Score2              *float64 `gorm:"column:score2"`
	Score3              *float64 `gorm:"column:score3"`
	Score4              *float64 `gorm:"column:score4"`
	Score5              *float64 `gorm:"column:score5"`
	Score6              *float64 `gorm:"column:score6"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Entry) TableName() string {
	return "entries"
}
