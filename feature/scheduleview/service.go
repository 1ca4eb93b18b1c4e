package scheduleview

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"show-sync/feature/registry"
	"show-sync/feature/schedule"
)

// Service assembles the nested day view from the entry mirror.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a schedule view service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// View loads the farm's entries for one date and nests them ring -> class ->
// entry. Entries without a resolved class or ring (inactive placeholder rows)
// are left out of the nesting.
func (s *Service) View(ctx context.Context, farmID, date string) (*ViewData, error) {
	var entries []schedule.Entry
	err := s.db.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Where("scheduled_date = ?", date).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	view := &ViewData{Date: date, Rings: []RingView{}}
	if len(entries) == 0 {
		return view, nil
	}

	showID := entries[0].ShowID
	view.ShowID = showID
	var show schedule.Show
	if err := s.db.WithContext(ctx).Where("id = ?", showID).Take(&show).Error; err == nil {
		view.ShowName = show.Name
	}

	classes, rings, err := s.loadLookups(ctx, entries)
	if err != nil {
		return nil, err
	}

	// ring id -> class id -> entries
	nested := make(map[string]map[string][]schedule.Entry)
	for _, e := range entries {
		if e.RingID == nil || e.ClassID == nil {
			continue
		}
		byClass, ok := nested[*e.RingID]
		if !ok {
			byClass = make(map[string][]schedule.Entry)
			nested[*e.RingID] = byClass
		}
		byClass[*e.ClassID] = append(byClass[*e.ClassID], e)
	}

	for ringID, byClass := range nested {
		ring, ok := rings[ringID]
		if !ok {
			continue
		}
		rv := RingView{ID: ring.ID, Name: ring.Name, RingNumber: ring.RingNumber}

		for classID, classEntries := range byClass {
			class, ok := classes[classID]
			if !ok {
				continue
			}
			sort.SliceStable(classEntries, func(a, b int) bool {
				oa, ob := classEntries[a].OrderOfGo, classEntries[b].OrderOfGo
				if (oa == nil) != (ob == nil) {
					return ob == nil
				}
				if oa == nil {
					return false
				}
				return *oa < *ob
			})

			cv := ClassView{
				ID:          class.ID,
				Name:        class.Name,
				ClassNumber: class.ClassNumber,
				Sponsor:     class.Sponsor,
				PrizeMoney:  class.PrizeMoney,
				ClassType:   class.ClassType,
				Status:      classEntries[0].ClassStatus,
				Phase:       classEntries[0].ClassPhase,
			}
			for _, e := range classEntries {
				cv.Entries = append(cv.Entries, entryView(e))
			}
			rv.Classes = append(rv.Classes, cv)
		}

		sort.Slice(rv.Classes, func(a, b int) bool {
			if rv.Classes[a].ClassNumber != rv.Classes[b].ClassNumber {
				return rv.Classes[a].ClassNumber < rv.Classes[b].ClassNumber
			}
			return rv.Classes[a].Name < rv.Classes[b].Name
		})
		view.Rings = append(view.Rings, rv)
	}

	sort.Slice(view.Rings, func(a, b int) bool {
		if view.Rings[a].RingNumber != view.Rings[b].RingNumber {
			return view.Rings[a].RingNumber < view.Rings[b].RingNumber
		}
		return view.Rings[a].Name < view.Rings[b].Name
	})
	return view, nil
}

// loadLookups fetches the class and ring rows referenced by the entries.
func (s *Service) loadLookups(ctx context.Context, entries []schedule.Entry) (map[string]registry.ShowClass, map[string]registry.Ring, error) {
	classIDSet := make(map[string]struct{})
	ringIDSet := make(map[string]struct{})
	for _, e := range entries {
		if e.ClassID != nil {
			classIDSet[*e.ClassID] = struct{}{}
		}
		if e.RingID != nil {
			ringIDSet[*e.RingID] = struct{}{}
		}
	}

	classes := make(map[string]registry.ShowClass, len(classIDSet))
	if len(classIDSet) > 0 {
		var rows []registry.ShowClass
		if err := s.db.WithContext(ctx).Where("id IN ?", keys(classIDSet)).Find(&rows).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to load classes: %w", err)
		}
		for _, c := range rows {
			classes[c.ID] = c
		}
	}

	rings := make(map[string]registry.Ring, len(ringIDSet))
	if len(ringIDSet) > 0 {
		var rows []registry.Ring
		if err := s.db.WithContext(ctx).Where("id IN ?", keys(ringIDSet)).Find(&rows).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to load rings: %w", err)
		}
		for _, r := range rows {
			rings[r.ID] = r
		}
	}
	return classes, rings, nil
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func entryView(e schedule.Entry) EntryView {
	return EntryView{
		ID:                  e.ID,
		HorseName:           e.HorseName,
		BackNumber:          e.BackNumber,
		OrderOfGo:           e.OrderOfGo,
		Status:              e.Status,
		ScratchTrip:         e.ScratchTrip,
		GoneIn:              e.GoneIn,
		EstimatedStart:      e.EstimatedStart,
		ActualStart:         e.ActualStart,
		TotalTrips:          e.TotalTrips,
		CompletedTrips:      e.CompletedTrips,
		RemainingTrips:      e.RemainingTrips,
		Placing:             e.Placing,
		PointsEarned:        e.PointsEarned,
		TotalPrizeMoney:     e.TotalPrizeMoney,
		FaultsOne:           e.FaultsOne,
		TimeOne:             e.TimeOne,
		FaultsTwo:           e.FaultsTwo,
		TimeTwo:             e.TimeTwo,
		DisqualifyStatusOne: e.DisqualifyStatusOne,
		DisqualifyStatusTwo: e.DisqualifyStatusTwo,
		Score1:              e.Score1,
		Score2:              e.Score2,
		Score3:              e.Score3,
		Score4:              e.Score4,
		Score5:              e.Score5,
		Score6:              e.Score6,
	}
}
