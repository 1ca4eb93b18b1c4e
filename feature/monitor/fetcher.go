package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"show-sync/core/archive"
	"show-sync/core/provider"
	"show-sync/core/utils"
)

// Fetcher pulls the authoritative snapshot of one unit from the provider,
// with bounded retries for transient failures and a single re-login on an
// expired token. Successfully decoded payloads are archived; payloads that
// fail to decode are quarantined.
type Fetcher struct {
	client  provider.Client
	archive *archive.Archive // nil when archiving is disabled
	logger  *zap.Logger

	// backoff holds the sleep before each attempt; its length is the attempt
	// budget. Swappable in tests.
	backoff []time.Duration
}

// NewFetcher creates a Fetcher. archive may be nil.
func NewFetcher(client provider.Client, arc *archive.Archive, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client:  client,
		archive: arc,
		logger:  logger,
		backoff: []time.Duration{0, 2 * time.Second, 4 * time.Second},
	}
}

// Fetch retrieves and maps the snapshot for one unit.
func (f *Fetcher) Fetch(ctx context.Context, ref UnitRef) (*UnitSnapshot, error) {
	var lastErr error
	reauthed := false

	for attempt := 0; attempt < len(f.backoff); attempt++ {
		if wait := f.backoff[attempt]; wait > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		snap, raw, err := f.client.GetClass(ctx, ref.APIClassID, ref.APIShowID)
		if err == nil {
			if f.archive != nil {
				f.archive.Store(ctx, ref.APIShowID, ref.APIClassID, raw)
			}
			return mapSnapshot(snap), nil
		}

		switch {
		case raw != nil:
			// Decode failure: the payload shape changed, retrying won't help.
			if f.archive != nil {
				f.archive.Quarantine(ctx, ref.APIShowID, ref.APIClassID, raw)
			}
			return nil, err
		case provider.IsAuthExpired(err):
			if reauthed {
				return nil, err
			}
			reauthed = true
			f.logger.Info("session expired, re-authenticating",
				zap.Int("api_class_id", ref.APIClassID))
			if aerr := f.client.Reauthenticate(ctx); aerr != nil {
				return nil, aerr
			}
			// The re-login consumes no attempt.
			attempt--
			continue
		case provider.IsPermanent(err):
			return nil, err
		}

		lastErr = err
		f.logger.Warn("snapshot fetch failed",
			zap.Int("api_class_id", ref.APIClassID),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	return nil, lastErr
}

// mapSnapshot coerces the provider's loose payload into closed types.
func mapSnapshot(s *provider.ClassSnapshot) *UnitSnapshot {
	out := &UnitSnapshot{
		Status:         s.ClassRelatedData.Status,
		EstimatedTime:  s.ClassRelatedData.EstimatedTime,
		ActualTime:     s.ClassRelatedData.ActualTime,
		TotalTrips:     utils.IntPtr(s.ClassRelatedData.TotalTrips),
		CompletedTrips: utils.IntPtr(s.ClassRelatedData.CompletedTrips),
		RemainingTrips: utils.IntPtr(s.ClassRelatedData.RemainingTrips),
	}
	for _, t := range s.Trips {
		entryID := utils.IntPtr(t.EntryID)
		if entryID == nil {
			continue
		}
		out.Trips = append(out.Trips, TripSnapshot{
			APIEntryID:          *entryID,
			TripID:              utils.IntPtr(t.TripID),
			OrderOfGo:           utils.IntPtr(t.OrderOfGo),
			Placing:             utils.IntPtr(t.Placing),
			GoneIn:              utils.Flag(t.GoneIn),
			ScratchTrip:         utils.Flag(t.ScratchTrip),
			FaultsOne:           utils.FloatPtr(t.FaultsOne),
			TimeOne:             utils.FloatPtr(t.TimeOne),
			TimeFaultOne:        utils.FloatPtr(t.TimeFaultOne),
			FaultsTwo:           utils.FloatPtr(t.FaultsTwo),
			TimeTwo:             utils.FloatPtr(t.TimeTwo),
			TimeFaultTwo:        utils.FloatPtr(t.TimeFaultTwo),
			TotalPrizeMoney:     utils.FloatPtr(t.TotalPrizeMoney),
			PointsEarned:        utils.FloatPtr(t.PointsEarned),
			DisqualifyStatusOne: strPtr(t.DisqualifyStatusOne),
			DisqualifyStatusTwo: strPtr(t.DisqualifyStatusTwo),
			Score1:              utils.FloatPtr(t.Score1),
			Score2:              utils.FloatPtr(t.Score2),
			Score3:              utils.FloatPtr(t.Score3),
			Score4:              utils.FloatPtr(t.Score4),
			Score5:              utils.FloatPtr(t.Score5),
			Score6:              utils.FloatPtr(t.Score6),
		})
	}
	return out
}

func strPtr(val any) *string {
	s := utils.String(val, 50)
	if s == "" {
		return nil
	}
	return &s
}
