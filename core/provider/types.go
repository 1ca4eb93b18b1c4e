package provider

// The provider returns loosely typed JSON: numeric fields arrive as numbers or
// strings depending on the endpoint. Fields with unstable shapes are declared
// as `any` here and coerced at the consuming boundary (core/utils); everything
// else is mapped to a closed struct so untyped data never travels further in.

// LoginResponse is the payload of POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// Schedule is the payload of GET /schedule for one date.
type Schedule struct {
	Show  ShowInfo       `json:"show"`
	Rings []RingSchedule `json:"rings"`
}

// ShowInfo describes the show running on the requested date.
type ShowInfo struct {
	ShowID    int    `json:"show_id"`
	ShowName  string `json:"show_name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// RingSchedule is one ring and its classes for the day.
type RingSchedule struct {
	RingName   string         `json:"ring_name"`
	RingNumber int            `json:"ring_number"`
	Classes    []ClassSummary `json:"classes"`
}

// ClassSummary is a class as listed on the schedule.
type ClassSummary struct {
	ClassID     int    `json:"class_id"`
	ClassName   string `json:"class_name"`
	ClassNumber any    `json:"class_number"`
	Sponsor     string `json:"sponsor"`
	PrizeMoney  any    `json:"prize_money"`
	ClassType   string `json:"class_type"`
	TotalTrips  any    `json:"total_trips"`
}

// MyEntries is the payload of GET /entries/my.
type MyEntries struct {
	Entries      []EntrySummary `json:"entries"`
	TotalEntries int            `json:"total_entries"`
}

// EntrySummary is one of the customer's entries in a show.
type EntrySummary struct {
	EntryID any    `json:"entry_id"`
	Horse   string `json:"horse"`
	Number  any    `json:"number"`
}

// EntryDetail is the payload of GET /entries/{id}.
type EntryDetail struct {
	Entry       EntryInfo    `json:"entry"`
	Classes     []EntryClass `json:"classes"`
	EntryRiders []EntryRider `json:"entry_riders"`
}

// EntryInfo carries the show-scoped identifiers of one entry.
type EntryInfo struct {
	EntryID   any    `json:"entry_id"`
	HorseID   any    `json:"horse_id"`
	Horse     string `json:"horse"`
	Number    any    `json:"number"`
	TrainerID any    `json:"trainer_id"`
}

// EntryClass is one class an entry is going in.
type EntryClass struct {
	ClassID           any    `json:"class_id"`
	Name              string `json:"name"`
	ClassNumber       any    `json:"class_number"`
	RiderID           any    `json:"rider_id"`
	RiderName         string `json:"rider_name"`
	Ring              any    `json:"ring"`
	ScheduledDate     string `json:"scheduled_date"`
	ScheduleStarttime string `json:"schedule_starttime"`
}

// EntryRider is one rider attached to an entry.
type EntryRider struct {
	RiderID   any    `json:"rider_id"`
	RiderName string `json:"rider_name"`
}

// ClassSnapshot is the payload of GET /classes/{id}: the authoritative state
// of one competition unit and all of its trips.
type ClassSnapshot struct {
	ClassRelatedData ClassRelated `json:"class_related_data"`
	Trips            []Trip       `json:"trips"`
}

// ClassRelated is the unit-level slice of a class snapshot.
type ClassRelated struct {
	Status         string `json:"status"`
	EstimatedTime  string `json:"estimated_time"`
	ActualTime     string `json:"actual_time"`
	TotalTrips     any    `json:"total_trips"`
	CompletedTrips any    `json:"completed_trips"`
	RemainingTrips any    `json:"remaining_trips"`
}

// Trip is one performance inside a class snapshot.
type Trip struct {
	EntryID             any `json:"entry_id"`
	TripID              any `json:"trip_id"`
	OrderOfGo           any `json:"order_of_go"`
	Placing             any `json:"placing"`
	GoneIn              any `json:"gone_in"`
	ScratchTrip         any `json:"scratch_trip"`
	FaultsOne           any `json:"faults_one"`
	TimeOne             any `json:"time_one"`
	TimeFaultOne        any `json:"time_fault_one"`
	FaultsTwo           any `json:"faults_two"`
	TimeTwo             any `json:"time_two"`
	TimeFaultTwo        any `json:"time_fault_two"`
	TotalPrizeMoney     any `json:"total_prize_money"`
	PointsEarned        any `json:"points_earned"`
	DisqualifyStatusOne any `json:"disqualify_status_one"`
	DisqualifyStatusTwo any `json:"disqualify_status_two"`
	Score1              any `json:"score1"`
	Score2              any `json:"score2"`
	Score3              any `json:"score3"`
	Score4              any `json:"score4"`
	Score5              any `json:"score5"`
	Score6              any `json:"score6"`
}
