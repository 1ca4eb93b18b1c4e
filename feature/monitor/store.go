package monitor

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"show-sync/feature/schedule"
)

// Store selects open units and applies reconciled unit state atomically.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SelectOpenUnits loads the farm's entries for a date and groups them into
// units. Inactive entries, entries without a class id, and units already in
// the completed phase are excluded; a completed unit never re-opens.
func (s *Store) SelectOpenUnits(ctx context.Context, farmID, date string) ([]UnitState, error) {
	var entries []schedule.Entry
	err := s.db.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Where("scheduled_date = ?", date).
		Where("api_class_id <> 0").
		Where("status <> ?", schedule.StatusInactive).
		Where("class_phase <> ?", schedule.PhaseCompleted).
		Order("api_class_id, order_of_go").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select open units: %w", err)
	}

	type unitKey struct {
		showID     string
		apiClassID int
	}
	var units []UnitState
	index := make(map[unitKey]int)
	for _, e := range entries {
		key := unitKey{showID: e.ShowID, apiClassID: e.APIClassID}
		i, ok := index[key]
		if !ok {
			i = len(units)
			index[key] = i
			units = append(units, UnitState{
				Ref: UnitRef{
					FarmID:     e.FarmID,
					ShowID:     e.ShowID,
					APIShowID:  e.APIShowID,
					APIClassID: e.APIClassID,
					ClassName:  e.ClassName,
					RingName:   e.RingName,
				},
				Phase:          e.ClassPhase,
				ClassStatus:    e.ClassStatus,
				EstimatedStart: e.EstimatedStart,
				ActualStart:    e.ActualStart,
				TotalTrips:     e.TotalTrips,
				CompletedTrips: e.CompletedTrips,
				RemainingTrips: e.RemainingTrips,
			})
		}
		units[i].Entries = append(units[i].Entries, e)
	}
	return units, nil
}

// ApplyUnit writes the reconciled unit state and its change records in a
// single transaction, so a unit is either fully reconciled or untouched.
func (s *Store) ApplyUnit(ctx context.Context, unit UnitState, changes []Change, rec Recorder) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range unit.Entries {
			updates := map[string]any{
				"api_trip_id":           e.APITripID,
				"order_of_go":           e.OrderOfGo,
				"status":                e.Status,
				"scratch_trip":          e.ScratchTrip,
				"gone_in":               e.GoneIn,
				"class_phase":           e.ClassPhase,
				"class_status":          e.ClassStatus,
				"estimated_start":       e.EstimatedStart,
				"actual_start":          e.ActualStart,
				"total_trips":           e.TotalTrips,
				"completed_trips":       e.CompletedTrips,
				"remaining_trips":       e.RemainingTrips,
				"placing":               e.Placing,
				"points_earned":         e.PointsEarned,
				"total_prize_money":     e.TotalPrizeMoney,
				"faults_one":            e.FaultsOne,
				"time_one":              e.TimeOne,
				"time_fault_one":        e.TimeFaultOne,
				"faults_two":            e.FaultsTwo,
				"time_two":              e.TimeTwo,
				"time_fault_two":        e.TimeFaultTwo,
				"disqualify_status_one": e.DisqualifyStatusOne,
				"disqualify_status_two": e.DisqualifyStatusTwo,
				"score1":                e.Score1,
				"score2":                e.Score2,
				"score3":                e.Score3,
				"score4":                e.Score4,
				"score5":                e.Score5,
				"score6":                e.Score6,
			}
			if err := tx.Model(&schedule.Entry{}).
				Where("id = ?", e.ID).
				Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update entry %s: %w", e.ID, err)
			}
		}
		if len(changes) > 0 && rec != nil {
			if err := rec.Record(tx, unit.Ref.FarmID, changes); err != nil {
				return fmt.Errorf("failed to record changes: %w", err)
			}
		}
		return nil
	})
}
