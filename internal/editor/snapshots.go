package editor

// Embedded snapshot shapes: the denormalized catalog copies a catalog-bound
// node carries in its props. Timestamps are kept as the strings the document
// stores; the sync engine owns their canonical formatting.

type VariantSnapshot struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	UpdatedAt   string  `json:"updatedAt"`
}

type ItemSnapshot struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Image       string            `json:"image,omitempty"`
	UpdatedAt   string            `json:"updatedAt"`
	Variants    []VariantSnapshot `json:"variants,omitempty"`
}

type CategorySnapshot struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	UpdatedAt string         `json:"updatedAt"`
	Items     []ItemSnapshot `json:"items,omitempty"`
}

// OrganizationSnapshot carries only the branding fields reconciliation cares
// about; anything else the UI stored alongside them is ignored.
type OrganizationSnapshot struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Logo   string `json:"logo,omitempty"`
	Banner string `json:"banner,omitempty"`
}

type OpeningHoursSnapshot struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	AllDay    bool   `json:"allDay,omitempty"`
}

type LocationSnapshot struct {
	ID              string                 `json:"id,omitempty"`
	Address         string                 `json:"address,omitempty"`
	Phone           string                 `json:"phone,omitempty"`
	Facebook        string                 `json:"facebook,omitempty"`
	Instagram       string                 `json:"instagram,omitempty"`
	Twitter         string                 `json:"twitter,omitempty"`
	TikTok          string                 `json:"tiktok,omitempty"`
	WhatsApp        string                 `json:"whatsapp,omitempty"`
	Website         string                 `json:"website,omitempty"`
	Currency        string                 `json:"currency,omitempty"`
	ServiceDelivery bool                   `json:"serviceDelivery,omitempty"`
	ServiceTakeout  bool                   `json:"serviceTakeout,omitempty"`
	ServiceDineIn   bool                   `json:"serviceDineIn,omitempty"`
	DeliveryFee     float64                `json:"deliveryFee,omitempty"`
	OpeningHours    []OpeningHoursSnapshot `json:"openingHours,omitempty"`
}
