package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Kind selects which named-entity table a resolution targets.
type Kind string

const (
	KindHorse Kind = "horse"
	KindRider Kind = "rider"
	KindRing  Kind = "ring"
)

// Resolver maps remote, show-scoped identifiers and human-readable names to
// durable local identities. Resolution is by exact name within a farm: the
// insert races through a uniqueness constraint (insert-ignore then reselect),
// so concurrent first sightings across processes cannot create duplicates.
//
// Two distinct remote entities sharing an exact name merge into one local
// identity. That is an accepted approximation of the matching policy.
type Resolver struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewResolver creates a resolver over the given database.
func NewResolver(db *gorm.DB, logger *zap.Logger) *Resolver {
	return &Resolver{db: db, logger: logger}
}

// EnsureFarm resolves a farm by (name, customer id), creating it on first use.
func (r *Resolver) EnsureFarm(ctx context.Context, name, customerID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("farm name is empty")
	}

	farm := Farm{ID: uuid.NewString(), Name: name, CustomerID: customerID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&farm).Error; err != nil {
		return "", fmt.Errorf("failed to create farm: %w", err)
	}

	var row struct{ ID string }
	if err := r.db.WithContext(ctx).Model(&Farm{}).Select("id").
		Where("name = ? AND customer_id = ?", name, customerID).
		Take(&row).Error; err != nil {
		return "", fmt.Errorf("failed to reselect farm: %w", err)
	}
	return row.ID, nil
}

// Resolve returns the local id for (farm, kind, name), creating the row on
// first sighting. Deterministic: the same inputs always yield the same id.
func (r *Resolver) Resolve(ctx context.Context, farmID string, kind Kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%s name is empty", kind)
	}

	var model any
	switch kind {
	case KindHorse:
		model = &Horse{ID: uuid.NewString(), FarmID: farmID, Name: name}
	case KindRider:
		model = &Rider{ID: uuid.NewString(), FarmID: farmID, Name: name}
	case KindRing:
		model = &Ring{ID: uuid.NewString(), FarmID: farmID, Name: name}
	default:
		return "", fmt.Errorf("unknown entity kind %q", kind)
	}

	return r.createThenReselect(ctx, model, farmID, name)
}

// ResolveRing resolves a ring by name and refreshes its ring number when the
// schedule reports a different one.
func (r *Resolver) ResolveRing(ctx context.Context, farmID, name string, number int) (string, error) {
	id, err := r.Resolve(ctx, farmID, KindRing, name)
	if err != nil {
		return "", err
	}

	if number > 0 {
		if err := r.db.WithContext(ctx).Model(&Ring{}).
			Where("id = ? AND ring_number <> ?", id, number).
			Update("ring_number", number).Error; err != nil {
			return "", fmt.Errorf("failed to update ring number: %w", err)
		}
	}
	return id, nil
}

// ClassAttrs carries the schedule attributes of a class sighting.
type ClassAttrs struct {
	Name        string
	ClassNumber string
	Sponsor     string
	PrizeMoney  float64
	ClassType   string
}

// ResolveClass resolves a class by (farm, name, class number) and refreshes
// its descriptive attributes from the latest schedule.
func (r *Resolver) ResolveClass(ctx context.Context, farmID string, attrs ClassAttrs) (string, error) {
	name := strings.TrimSpace(attrs.Name)
	if name == "" {
		return "", fmt.Errorf("class name is empty")
	}

	sc := ShowClass{
		ID:          uuid.NewString(),
		FarmID:      farmID,
		Name:        name,
		ClassNumber: attrs.ClassNumber,
		Sponsor:     attrs.Sponsor,
		PrizeMoney:  attrs.PrizeMoney,
		ClassType:   attrs.ClassType,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sc).Error; err != nil {
		return "", fmt.Errorf("failed to create class: %w", err)
	}

	var row struct{ ID string }
	if err := r.db.WithContext(ctx).Model(&ShowClass{}).Select("id").
		Where("farm_id = ? AND name = ? AND class_number = ?", farmID, name, attrs.ClassNumber).
		Take(&row).Error; err != nil {
		return "", fmt.Errorf("failed to reselect class: %w", err)
	}

	updates := map[string]any{
		"sponsor":     attrs.Sponsor,
		"prize_money": attrs.PrizeMoney,
		"class_type":  attrs.ClassType,
	}
	if err := r.db.WithContext(ctx).Model(&ShowClass{}).
		Where("id = ?", row.ID).
		Updates(updates).Error; err != nil {
		return "", fmt.Errorf("failed to refresh class attributes: %w", err)
	}
	return row.ID, nil
}

// createThenReselect inserts with conflict-do-nothing and reads the id back,
// so the winner of a concurrent first sighting is returned either way.
func (r *Resolver) createThenReselect(ctx context.Context, model any, farmID, name string) (string, error) {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model).Error; err != nil {
		return "", fmt.Errorf("failed to create named entity: %w", err)
	}

	var row struct{ ID string }
	if err := r.db.WithContext(ctx).Model(model).Select("id").
		Where("farm_id = ? AND name = ?", farmID, name).
		Take(&row).Error; err != nil {
		return "", fmt.Errorf("failed to reselect named entity: %w", err)
	}
	return row.ID, nil
}
