package schedule

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"show-sync/core/provider"
	"show-sync/core/utils"
	"show-sync/feature/registry"
)

// Service runs the morning sync: it mirrors one day's schedule and the farm's
// entries from the provider into the local store.
type Service struct {
	db       *gorm.DB
	client   provider.Client
	resolver *registry.Resolver
	cfg      Config
	logger   *zap.Logger
}

// NewService creates the schedule sync service.
func NewService(db *gorm.DB, client provider.Client, resolver *registry.Resolver, cfg Config, logger *zap.Logger) *Service {
	return &Service{db: db, client: client, resolver: resolver, cfg: cfg, logger: logger}
}

// SyncParams identifies one sync invocation. Tenant and date are passed
// explicitly rather than read from ambient state.
type SyncParams struct {
	FarmID string
	// Date is YYYY-MM-DD; empty means today in UTC.
	Date string
}

// ClassTime is one (start time, ring) pair used for the summary bookends.
type ClassTime struct {
	Time     string `json:"time"`
	RingName string `json:"ring_name"`
}

// SyncSummary reports what one morning sync saw and wrote.
type SyncSummary struct {
	Date            string     `json:"date"`
	ShowID          string     `json:"show_id"`
	ShowName        string     `json:"show_name"`
	RingsFromAPI    int        `json:"rings_from_api"`
	ClassesFromAPI  int        `json:"classes_from_api"`
	HorsesFromAPI   int        `json:"horses_from_api"`
	RidersFromAPI   int        `json:"riders_from_api"`
	EntriesFromAPI  int        `json:"entries_from_api"`
	DetailsFetched  int        `json:"entry_details_fetched"`
	RowsBuilt       int        `json:"entry_rows_built"`
	EntriesUpserted int        `json:"entries_upserted"`
	UniqueRingCount int        `json:"unique_ring_count"`
	FirstClass      *ClassTime `json:"first_class,omitempty"`
	LastClass       *ClassTime `json:"last_class,omitempty"`
}

type classKey struct {
	name   string
	number string
}

// RunDailySync executes one full morning sync for a farm.
func (s *Service) RunDailySync(ctx context.Context, params SyncParams) (*SyncSummary, error) {
	date := resolveSyncDate(params.Date)
	log := s.logger.With(zap.String("farm_id", params.FarmID), zap.String("date", date))

	sched, err := s.client.GetSchedule(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	if sched.Show.ShowID == 0 {
		return nil, fmt.Errorf("schedule response missing show_id")
	}
	showName := strings.TrimSpace(sched.Show.ShowName)
	if showName == "" {
		showName = "Unknown Show"
	}

	showID, err := s.upsertShow(ctx, params.FarmID, sched.Show, showName)
	if err != nil {
		return nil, err
	}
	log.Info("schedule fetched", zap.String("show", showName), zap.Int("rings", len(sched.Rings)))

	// Rings and classes from the schedule.
	ringIDs := make(map[int]string)
	ringNames := make(map[int]string)
	for _, ring := range sched.Rings {
		name := strings.TrimSpace(ring.RingName)
		if name == "" {
			continue
		}
		id, err := s.resolver.ResolveRing(ctx, params.FarmID, name, ring.RingNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ring %q: %w", name, err)
		}
		ringIDs[ring.RingNumber] = id
		ringNames[ring.RingNumber] = name
	}

	classIDs := make(map[classKey]string)
	for _, ring := range sched.Rings {
		for _, c := range ring.Classes {
			name := strings.TrimSpace(c.ClassName)
			tt := utils.IntPtr(c.TotalTrips)
			// Only classes with a name and at least one trip are real.
			if name == "" || tt == nil || *tt <= 0 {
				continue
			}
			key := classKey{name: name, number: utils.String(c.ClassNumber, 32)}
			if _, ok := classIDs[key]; ok {
				continue
			}
			var prize float64
			if p := utils.FloatPtr(c.PrizeMoney); p != nil {
				prize = *p
			}
			id, err := s.resolver.ResolveClass(ctx, params.FarmID, registry.ClassAttrs{
				Name:        name,
				ClassNumber: key.number,
				Sponsor:     strings.TrimSpace(c.Sponsor),
				PrizeMoney:  prize,
				ClassType:   strings.TrimSpace(c.ClassType),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to resolve class %q: %w", name, err)
			}
			classIDs[key] = id
		}
	}
	classesFromAPI := len(classIDs)

	// The farm's entries and their details.
	my, err := s.client.GetMyEntries(ctx, sched.Show.ShowID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch my entries: %w", err)
	}
	details := s.fetchEntryDetails(ctx, sched.Show.ShowID, my.Entries)
	log.Info("entry details fetched",
		zap.Int("entries", len(my.Entries)),
		zap.Int("details", len(details)))

	rows, horses, riders, timeRing, err := s.buildEntryRows(ctx, buildParams{
		farmID:    params.FarmID,
		date:      date,
		showID:    showID,
		apiShowID: sched.Show.ShowID,
		details:   details,
		ringIDs:   ringIDs,
		ringNames: ringNames,
		classIDs:  classIDs,
	})
	if err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "horse_id"}, {Name: "show_id"}, {Name: "api_class_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"rider_id", "ring_id", "class_id", "horse_name", "class_name", "ring_name",
				"api_entry_id", "api_horse_id", "api_rider_id", "api_ring_id", "api_trainer_id",
				"back_number", "estimated_start", "scheduled_date", "updated_at",
			}),
		}).CreateInBatches(&rows, 100).Error
		if err != nil {
			return nil, fmt.Errorf("failed to upsert entries: %w", err)
		}
	}

	summary := &SyncSummary{
		Date:            date,
		ShowID:          showID,
		ShowName:        showName,
		RingsFromAPI:    len(sched.Rings),
		ClassesFromAPI:  classesFromAPI,
		HorsesFromAPI:   horses,
		RidersFromAPI:   riders,
		EntriesFromAPI:  len(my.Entries),
		DetailsFetched:  len(details),
		RowsBuilt:       len(rows),
		EntriesUpserted: len(rows),
	}
	fillClassTimes(summary, timeRing)

	log.Info("morning sync complete",
		zap.String("show", showName),
		zap.Int("classes", classesFromAPI),
		zap.Int("entries", summary.EntriesUpserted),
		zap.Int("horses", horses))
	return summary, nil
}

// upsertShow creates or refreshes the show row keyed by (farm, api show id).
func (s *Service) upsertShow(ctx context.Context, farmID string, info provider.ShowInfo, name string) (string, error) {
	show := Show{
		ID:        uuid.NewString(),
		FarmID:    farmID,
		APIShowID: info.ShowID,
		Name:      name,
		StartDate: parseDate(info.StartDate),
		EndDate:   parseDate(info.EndDate),
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&show).Error; err != nil {
		return "", fmt.Errorf("failed to create show: %w", err)
	}

	var row struct{ ID string }
	if err := s.db.WithContext(ctx).Model(&Show{}).Select("id").
		Where("farm_id = ? AND api_show_id = ?", farmID, info.ShowID).
		Take(&row).Error; err != nil {
		return "", fmt.Errorf("failed to reselect show: %w", err)
	}

	updates := map[string]any{
		"name":       name,
		"start_date": show.StartDate,
		"end_date":   show.EndDate,
	}
	if err := s.db.WithContext(ctx).Model(&Show{}).
		Where("id = ?", row.ID).
		Updates(updates).Error; err != nil {
		return "", fmt.Errorf("failed to refresh show: %w", err)
	}
	return row.ID, nil
}

// fetchEntryDetails fetches full detail for each entry summary, in concurrent
// batches. Failed fetches are logged and skipped so one bad entry never sinks
// the sync.
func (s *Service) fetchEntryDetails(ctx context.Context, apiShowID int, summaries []provider.EntrySummary) []*provider.EntryDetail {
	batch := s.cfg.DetailBatchSize
	if batch <= 0 {
		batch = 10
	}

	var out []*provider.EntryDetail
	for i := 0; i < len(summaries); i += batch {
		end := min(i+batch, len(summaries))
		results := make([]*provider.EntryDetail, end-i)

		var wg sync.WaitGroup
		for j, e := range summaries[i:end] {
			entryID := utils.IntPtr(e.EntryID)
			if entryID == nil {
				continue
			}
			wg.Add(1)
			go func(slot, id int) {
				defer wg.Done()
				d, err := s.client.GetEntryDetail(ctx, id, apiShowID)
				if err != nil {
					s.logger.Warn("entry detail fetch failed",
						zap.Int("api_entry_id", id), zap.Error(err))
					return
				}
				results[slot] = d
			}(j, *entryID)
		}
		wg.Wait()

		for _, d := range results {
			if d != nil {
				out = append(out, d)
			}
		}
	}
	return out
}

type buildParams struct {
	farmID    string
	date      string
	showID    string
	apiShowID int
	details   []*provider.EntryDetail
	ringIDs   map[int]string
	ringNames map[int]string
	classIDs  map[classKey]string
}

// buildEntryRows turns entry details into entry rows, resolving horses,
// riders, and any classes the schedule did not list. Entries with no classes
// get one inactive row so the horse still appears in the mirror.
func (s *Service) buildEntryRows(ctx context.Context, p buildParams) (rows []Entry, horses, riders int, timeRing []ClassTime, err error) {
	horseIDs := make(map[string]string)
	riderIDs := make(map[string]string)

	resolveHorse := func(name string) (string, error) {
		if id, ok := horseIDs[name]; ok {
			return id, nil
		}
		id, err := s.resolver.Resolve(ctx, p.farmID, registry.KindHorse, name)
		if err != nil {
			return "", err
		}
		horseIDs[name] = id
		return id, nil
	}
	resolveRider := func(name string) (string, error) {
		if id, ok := riderIDs[name]; ok {
			return id, nil
		}
		id, err := s.resolver.Resolve(ctx, p.farmID, registry.KindRider, name)
		if err != nil {
			return "", err
		}
		riderIDs[name] = id
		return id, nil
	}
	// Classes referenced only by entry details are created on the fly so no
	// entry ends up without a class reference.
	ensureClass := func(name, number string) (string, error) {
		key := classKey{name: name, number: number}
		if id, ok := p.classIDs[key]; ok {
			return id, nil
		}
		id, err := s.resolver.ResolveClass(ctx, p.farmID, registry.ClassAttrs{
			Name: name, ClassNumber: number,
		})
		if err != nil {
			return "", err
		}
		p.classIDs[key] = id
		return id, nil
	}

	for _, d := range p.details {
		horseName := strings.TrimSpace(d.Entry.Horse)
		if horseName == "" {
			continue
		}
		horseID, herr := resolveHorse(horseName)
		if herr != nil {
			return nil, 0, 0, nil, fmt.Errorf("failed to resolve horse %q: %w", horseName, herr)
		}

		apiEntryID := utils.IntPtr(d.Entry.EntryID)
		if apiEntryID == nil {
			continue
		}
		backNumber := utils.String(d.Entry.Number, 16)
		apiHorseID := utils.IntPtr(d.Entry.HorseID)
		apiTrainerID := utils.IntPtr(d.Entry.TrainerID)

		defaultRider := ""
		var defaultRiderAPI *int
		if len(d.EntryRiders) > 0 {
			defaultRider = strings.TrimSpace(d.EntryRiders[0].RiderName)
			defaultRiderAPI = utils.IntPtr(d.EntryRiders[0].RiderID)
		}

		if len(d.Classes) == 0 {
			rows = append(rows, Entry{
				ID:            uuid.NewString(),
				FarmID:        p.farmID,
				HorseID:       horseID,
				ShowID:        p.showID,
				HorseName:     horseName,
				APIShowID:     p.apiShowID,
				APIEntryID:    *apiEntryID,
				APIHorseID:    apiHorseID,
				APIRiderID:    defaultRiderAPI,
				APITrainerID:  apiTrainerID,
				BackNumber:    backNumber,
				Status:        StatusInactive,
				ClassPhase:    PhaseNotStarted,
				ScheduledDate: p.date,
			})
			continue
		}

		for _, cl := range d.Classes {
			className := strings.TrimSpace(cl.Name)
			if className == "" {
				continue
			}
			apiClassID := utils.IntPtr(cl.ClassID)
			if apiClassID == nil {
				continue
			}
			classID, cerr := ensureClass(className, utils.String(cl.ClassNumber, 32))
			if cerr != nil {
				return nil, 0, 0, nil, fmt.Errorf("failed to resolve class %q: %w", className, cerr)
			}

			riderName := strings.TrimSpace(cl.RiderName)
			if riderName == "" {
				riderName = defaultRider
			}
			var riderID *string
			if riderName != "" {
				id, rerr := resolveRider(riderName)
				if rerr != nil {
					return nil, 0, 0, nil, fmt.Errorf("failed to resolve rider %q: %w", riderName, rerr)
				}
				riderID = &id
			}
			apiRiderID := utils.IntPtr(cl.RiderID)
			if apiRiderID == nil {
				apiRiderID = defaultRiderAPI
			}

			ringNum := utils.IntPtr(cl.Ring)
			var ringID *string
			ringName := ""
			if ringNum != nil {
				if id, ok := p.ringIDs[*ringNum]; ok {
					ringID = &id
				}
				ringName = p.ringNames[*ringNum]
			}

			est := estimatedStartUTC(cl.ScheduledDate, cl.ScheduleStarttime)
			if est != "" && ringName != "" {
				timeRing = append(timeRing, ClassTime{Time: est, RingName: ringName})
			}
			sdate := parseDate(cl.ScheduledDate)
			if sdate == "" {
				sdate = p.date
			}

			rows = append(rows, Entry{
				ID:             uuid.NewString(),
				FarmID:         p.farmID,
				HorseID:        horseID,
				RiderID:        riderID,
				ShowID:         p.showID,
				RingID:         ringID,
				ClassID:        &classID,
				HorseName:      horseName,
				ClassName:      className,
				RingName:       ringName,
				APIShowID:      p.apiShowID,
				APIEntryID:     *apiEntryID,
				APIClassID:     *apiClassID,
				APIHorseID:     apiHorseID,
				APIRiderID:     apiRiderID,
				APIRingID:      ringNum,
				APITrainerID:   apiTrainerID,
				BackNumber:     backNumber,
				Status:         StatusActive,
				ClassPhase:     PhaseNotStarted,
				EstimatedStart: est,
				ScheduledDate:  sdate,
			})
		}
	}

	return rows, len(horseIDs), len(riderIDs), timeRing, nil
}

// fillClassTimes sets the ring count and first/last class bookends.
func fillClassTimes(summary *SyncSummary, timeRing []ClassTime) {
	ringSet := make(map[string]struct{})
	for _, tr := range timeRing {
		ringSet[tr.RingName] = struct{}{}
	}
	summary.UniqueRingCount = len(ringSet)
	if len(timeRing) == 0 {
		return
	}
	sort.Slice(timeRing, func(i, j int) bool { return timeRing[i].Time < timeRing[j].Time })
	first, last := timeRing[0], timeRing[len(timeRing)-1]
	summary.FirstClass = &first
	summary.LastClass = &last
}

// resolveSyncDate validates an override date, falling back to today UTC.
func resolveSyncDate(override string) string {
	override = strings.TrimSpace(override)
	if len(override) >= 10 {
		if _, err := time.Parse("2006-01-02", override[:10]); err == nil {
			return override[:10]
		}
	}
	return time.Now().UTC().Format("2006-01-02")
}

// parseDate extracts YYYY-MM-DD from an ISO date or datetime string.
func parseDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return ""
	}
	if _, err := time.Parse("2006-01-02", s[:10]); err != nil {
		return ""
	}
	return s[:10]
}

// estimatedStartUTC combines a scheduled date and a start time into the
// stored "YYYY-MM-DD HH:MM:SS" form.
func estimatedStartUTC(dateStr, startTime string) string {
	d := parseDate(dateStr)
	if d == "" {
		return ""
	}
	t := strings.TrimSpace(startTime)
	if t == "" {
		return ""
	}
	// Drop fractional seconds (e.g. "07:15:00.000").
	if i := strings.Index(t, "."); i >= 0 {
		t = t[:i]
	}
	if _, err := time.Parse("15:04:05", t); err != nil {
		return ""
	}
	return d + " " + t
}
