package store

import "time"

const (
	MenuStatusDraft     = "DRAFT"
	MenuStatusPublished = "PUBLISHED"

	ItemStatusActive   = "ACTIVE"
	ItemStatusDraft    = "DRAFT"
	ItemStatusArchived = "ARCHIVED"
)

type Organization struct {
	ID        string
	Name      string
	Slug      string
	Logo      string
	Banner    string
	Metadata  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Menu holds two independently versioned editor documents: SerialData is the
// draft canvas, PublishedData the snapshot taken at publish time. Either may
// be nil for a menu that was never saved or never published.
type Menu struct {
	ID             string
	OrganizationID string
	Name           string
	Status         string
	SerialData     *string
	PublishedData  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Category struct {
	ID             string
	OrganizationID string
	Name           string
	UpdatedAt      time.Time
	Items          []MenuItem
}

type MenuItem struct {
	ID             string
	OrganizationID string
	CategoryID     *string
	Name           string
	Description    string
	Image          string
	Featured       bool
	Status         string
	UpdatedAt      time.Time
	Variants       []Variant
}

// Variant carries its own updated_at: a variant edit does not touch the
// parent item's timestamp.
type Variant struct {
	ID          string
	ItemID      string
	Name        string
	Price       float64
	Description string
	UpdatedAt   time.Time
}

type Location struct {
	ID              string
	OrganizationID  string
	Address         string
	Phone           string
	Facebook        string
	Instagram       string
	Twitter         string
	TikTok          string
	WhatsApp        string
	Website         string
	Currency        string
	ServiceDelivery bool
	ServiceTakeout  bool
	ServiceDineIn   bool
	DeliveryFee     float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	OpeningHours    []OpeningHoursEntry
}

// OpeningHoursEntry is keyed by Day within a location (no duplicate days).
type OpeningHoursEntry struct {
	Day       string
	StartTime string
	EndTime   string
	AllDay    bool
}
