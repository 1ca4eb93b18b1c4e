package scheduleview

// ViewData is one day's schedule, nested ring -> class -> entry, shaped for
// the front-end.
type ViewData struct {
	Date     string     `json:"date"`
	ShowID   string     `json:"show_id,omitempty"`
	ShowName string     `json:"show_name,omitempty"`
	Rings    []RingView `json:"rings"`
}

// RingView is one ring and the day's classes in it.
type RingView struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	RingNumber int         `json:"ring_number"`
	Classes    []ClassView `json:"classes"`
}

// ClassView is one class and the farm's entries in it.
type ClassView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ClassNumber string      `json:"class_number"`
	Sponsor     string      `json:"sponsor,omitempty"`
	PrizeMoney  float64     `json:"prize_money"`
	ClassType   string      `json:"class_type,omitempty"`
	Status      string      `json:"status,omitempty"`
	Phase       string      `json:"phase"`
	Entries     []EntryView `json:"entries"`
}

// EntryView is one entry with its live state and results.
type EntryView struct {
	ID             string `json:"id"`
	HorseName      string `json:"horse_name"`
	BackNumber     string `json:"back_number,omitempty"`
	OrderOfGo      *int   `json:"order_of_go"`
	Status         string `json:"status"`
	ScratchTrip    bool   `json:"scratch_trip"`
	GoneIn         bool   `json:"gone_in"`
	EstimatedStart string `json:"estimated_start,omitempty"`
	ActualStart    string `json:"actual_start,omitempty"`
	TotalTrips     *int   `json:"total_trips"`
	CompletedTrips *int   `json:"completed_trips"`
	RemainingTrips *int   `json:"remaining_trips"`

	Placing             *int     `json:"placing"`
	PointsEarned        *float64 `json:"points_earned"`
	TotalPrizeMoney     *float64 `json:"total_prize_money"`
	FaultsOne           *float64 `json:"faults_one"`
	TimeOne             *float64 `json:"time_one"`
	FaultsTwo           *float64 `json:"faults_two"`
	TimeTwo             *float64 `json:"time_two"`
	DisqualifyStatusOne *string  `json:"disqualify_status_one"`
	DisqualifyStatusTwo *string  `json:"disqualify_status_two"`
	Score1              *float64 `json:"score1"`
	Score2              *float64 `json:"score2"`
	Score3              *float64 `json:"score3"`
	Score4              *float64 `json:"score4"`
	Score5              *float64 `json:"score5"`
	Score6              *float64 `json:"score6"`
}
