package registry

import "time"

// Farm is the tenant: one barn's account at the provider. All named entities
// and entries hang off a farm.
type Farm struct {
	ID         string    `gorm:"column:id;type:char(36);primaryKey"`
	Name       string    `gorm:"column:name;size:120;uniqueIndex:uniq_farm_name"`
	CustomerID string    `gorm:"column:customer_id;size:32;uniqueIndex:uniq_farm_name"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (Farm) TableName() string {
	return "farms"
}

// Horse is a durable identity keyed by (farm, name). Remote horse identifiers
// are show-scoped and change between shows; the name is the only stable key.
type Horse struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey"`
	FarmID    string    `gorm:"column:farm_id;type:char(36);uniqueIndex:uniq_horse_name"`
	Name      string    `gorm:"column:name;size:120;uniqueIndex:uniq_horse_name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (Horse) TableName() string {
	return "horses"
}

// Rider is a durable identity keyed by (farm, name).
type Rider struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey"`
	FarmID    string    `gorm:"column:farm_id;type:char(36);uniqueIndex:uniq_rider_name"`
	Name      string    `gorm:"column:name;size:120;uniqueIndex:uniq_rider_name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (Rider) TableName() string {
	return "riders"
}

// Ring is a durable identity keyed by (farm, name). The ring number can
// change between schedules and is refreshed on later sightings.
type Ring struct {
	ID         string    `gorm:"column:id;type:char(36);primaryKey"`
	FarmID     string    `gorm:"column:farm_id;type:char(36);uniqueIndex:uniq_ring_name"`
	Name       string    `gorm:"column:name;size:120;uniqueIndex:uniq_ring_name"`
	RingNumber int       `gorm:"column:ring_number"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (Ring) TableName() string {
	return "rings"
}

// ShowClass is a durable class identity keyed by (farm, name, class number).
// Descriptive attributes come from the schedule and are refreshed on sighting.
type ShowClass struct {
	ID          string    `gorm:"column:id;type:char(36);primaryKey"`
	FarmID      string    `gorm:"column:farm_id;type:char(36);uniqueIndex:uniq_class_name"`
	Name        string    `gorm:"column:name;size:200;uniqueIndex:uniq_class_name"`
	ClassNumber string    `gorm:"column:class_number;size:32;uniqueIndex:uniq_class_name"`
	Sponsor     string    `gorm:"column:sponsor;size:200"`
	PrizeMoney  float64   `gorm:"column:prize_money"`
	ClassType   string    `gorm:"column:class_type;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (ShowClass) TableName() string {
	return "classes"
}
