package menusync

import (
	"menucraft/api/internal/editor"
	"menucraft/api/internal/store"
)

// Per-kind in-sync predicates. Each answers "does the embedded snapshot still
// match the catalog"; the caller ORs the negations into one needs-sync flag.
//
// The empty-embedded cases are deliberate policy, not shortcuts: a document
// that embeds no categories has nothing to drift, and an absent block kind
// can never be out of sync.

func CategoriesInSync(embedded []editor.CategorySnapshot, db []store.Category) bool {
	if len(embedded) == 0 {
		return true
	}
	byID := make(map[string]store.Category, len(db))
	for _, c := range db {
		byID[c.ID] = c
	}
	for _, snapshot := range embedded {
		current, ok := byID[snapshot.ID]
		if !ok {
			return false
		}
		if snapshot.UpdatedAt != formatTime(current.UpdatedAt) {
			return false
		}
		if !itemsMatch(snapshot.Items, current.Items) {
			return false
		}
	}
	return true
}

// itemsMatch requires item-for-item parity: same id set, equal signatures.
func itemsMatch(embedded []editor.ItemSnapshot, db []store.MenuItem) bool {
	if len(embedded) != len(db) {
		return false
	}
	byID := make(map[string]store.MenuItem, len(db))
	for _, it := range db {
		byID[it.ID] = it
	}
	for _, snapshot := range embedded {
		current, ok := byID[snapshot.ID]
		if !ok {
			return false
		}
		if embeddedItemSignature(snapshot) != storeItemSignature(current) {
			return false
		}
	}
	return true
}

func FeaturedItemsInSync(embedded []editor.ItemSnapshot, db []store.MenuItem, hasFeaturedBlock bool) bool {
	if !hasFeaturedBlock {
		return true
	}
	return itemsMatch(embedded, db)
}

// SoloItemsInSync uses subset semantics: solo ItemBlocks are optional,
// independently placed nodes, so an item missing from the document is not
// drift — only an embedded item that no longer matches the catalog is.
func SoloItemsInSync(embedded []editor.ItemSnapshot, db []store.MenuItem) bool {
	if len(embedded) == 0 {
		return true
	}
	byID := make(map[string]store.MenuItem, len(db))
	for _, it := range db {
		byID[it.ID] = it
	}
	for _, snapshot := range embedded {
		current, ok := byID[snapshot.ID]
		if !ok {
			return false
		}
		if embeddedItemSignature(snapshot) != storeItemSignature(current) {
			return false
		}
	}
	return true
}

func OrganizationInSync(embedded *editor.OrganizationSnapshot, db *store.Organization) bool {
	if embedded == nil && db == nil {
		return true
	}
	if embedded == nil || db == nil {
		return false
	}
	return embedded.Name == db.Name &&
		embedded.Logo == db.Logo &&
		embedded.Banner == db.Banner
}

func LocationInSync(embedded *editor.LocationSnapshot, db *store.Location) bool {
	if embedded == nil && db == nil {
		return true
	}
	if embedded == nil || db == nil {
		return false
	}
	if embedded.Address != db.Address ||
		embedded.Phone != db.Phone ||
		embedded.Facebook != db.Facebook ||
		embedded.Instagram != db.Instagram ||
		embedded.Twitter != db.Twitter ||
		embedded.TikTok != db.TikTok ||
		embedded.WhatsApp != db.WhatsApp ||
		embedded.Website != db.Website ||
		embedded.Currency != db.Currency {
		return false
	}
	if embedded.ServiceDelivery != db.ServiceDelivery ||
		embedded.ServiceTakeout != db.ServiceTakeout ||
		embedded.ServiceDineIn != db.ServiceDineIn {
		return false
	}
	if embedded.DeliveryFee != db.DeliveryFee {
		return false
	}
	return openingHoursInSync(embedded.OpeningHours, db.OpeningHours)
}

// openingHoursInSync compares day-keyed maps, so array order never matters.
func openingHoursInSync(embedded []editor.OpeningHoursSnapshot, db []store.OpeningHoursEntry) bool {
	embeddedByDay := make(map[string]editor.OpeningHoursSnapshot, len(embedded))
	for _, entry := range embedded {
		embeddedByDay[entry.Day] = entry
	}
	dbByDay := make(map[string]store.OpeningHoursEntry, len(db))
	for _, entry := range db {
		dbByDay[entry.Day] = entry
	}
	if len(embeddedByDay) != len(dbByDay) {
		return false
	}
	for day, snapshot := range embeddedByDay {
		current, ok := dbByDay[day]
		if !ok {
			return false
		}
		if snapshot.AllDay != current.AllDay ||
			snapshot.StartTime != current.StartTime ||
			snapshot.EndTime != current.EndTime {
			return false
		}
	}
	return true
}

// SyncStatus is the aggregated detector verdict surfaced to the editor.
type SyncStatus struct {
	Categories    bool     `json:"categories"`
	FeaturedItems bool     `json:"featuredItems"`
	SoloItems     bool     `json:"soloItems"`
	Organization  bool     `json:"organization"`
	Location      bool     `json:"location"`
	NeedsSync     bool     `json:"needsSync"`
	Reasons       []string `json:"reasons,omitempty"`
}

// Status runs every predicate against one extract/snapshot pair. A header
// block that embeds no org or location snapshot compares against the catalog
// as absent, which flags the drift when the catalog has one.
func Status(ex editor.Extract, snap Snapshot) SyncStatus {
	status := SyncStatus{
		Categories:    CategoriesInSync(ex.Categories, snap.Categories),
		FeaturedItems: FeaturedItemsInSync(ex.FeaturedItems, snap.FeaturedItems, ex.HasFeaturedBlock),
		SoloItems:     SoloItemsInSync(ex.Items, snap.SoloItems),
		Organization:  true,
		Location:      true,
	}
	if ex.HasHeaderBlock {
		status.Organization = OrganizationInSync(ex.Organization, snap.Organization)
		status.Location = LocationInSync(ex.Location, snap.Location)
	}

	for _, kind := range []struct {
		inSync bool
		reason string
	}{
		{status.Categories, "categories changed"},
		{status.FeaturedItems, "featured items changed"},
		{status.SoloItems, "items changed"},
		{status.Organization, "organization branding changed"},
		{status.Location, "location details changed"},
	} {
		if !kind.inSync {
			status.NeedsSync = true
			status.Reasons = append(status.Reasons, kind.reason)
		}
	}
	return status
}
