// Package menusync keeps editor documents consistent with the catalog: it
// detects when embedded snapshots drifted from the source of truth and
// rewrites them in place, pruning nodes whose backing entity is gone.
package menusync

import (
	"time"

	"menucraft/api/internal/editor"
	"menucraft/api/internal/store"
)

// Snapshot is one consistent read of everything reconciliation needs for an
// organization.
type Snapshot struct {
	Categories    []store.Category
	SoloItems     []store.MenuItem
	FeaturedItems []store.MenuItem
	Organization  *store.Organization
	Location      *store.Location
}

// formatTime is the canonical timestamp rendering for embedded snapshots.
// The detector compares these strings for exact equality, so writer and
// comparator must agree on one format.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func variantSnapshot(v store.Variant) editor.VariantSnapshot {
	return editor.VariantSnapshot{
		ID:          v.ID,
		Name:        v.Name,
		Price:       v.Price,
		Description: v.Description,
		UpdatedAt:   formatTime(v.UpdatedAt),
	}
}

func itemSnapshot(it store.MenuItem) editor.ItemSnapshot {
	snapshot := editor.ItemSnapshot{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Image:       it.Image,
		UpdatedAt:   formatTime(it.UpdatedAt),
	}
	for _, v := range it.Variants {
		snapshot.Variants = append(snapshot.Variants, variantSnapshot(v))
	}
	return snapshot
}

func itemSnapshots(items []store.MenuItem) []editor.ItemSnapshot {
	snapshots := make([]editor.ItemSnapshot, 0, len(items))
	for _, it := range items {
		snapshots = append(snapshots, itemSnapshot(it))
	}
	return snapshots
}

func categorySnapshot(c store.Category) editor.CategorySnapshot {
	snapshot := editor.CategorySnapshot{
		ID:        c.ID,
		Name:      c.Name,
		UpdatedAt: formatTime(c.UpdatedAt),
	}
	for _, it := range c.Items {
		snapshot.Items = append(snapshot.Items, itemSnapshot(it))
	}
	return snapshot
}

func organizationSnapshot(org store.Organization) editor.OrganizationSnapshot {
	return editor.OrganizationSnapshot{
		ID:     org.ID,
		Name:   org.Name,
		Logo:   org.Logo,
		Banner: org.Banner,
	}
}

func locationSnapshot(loc store.Location) editor.LocationSnapshot {
	snapshot := editor.LocationSnapshot{
		ID:              loc.ID,
		Address:         loc.Address,
		Phone:           loc.Phone,
		Facebook:        loc.Facebook,
		Instagram:       loc.Instagram,
		Twitter:         loc.Twitter,
		TikTok:          loc.TikTok,
		WhatsApp:        loc.WhatsApp,
		Website:         loc.Website,
		Currency:        loc.Currency,
		ServiceDelivery: loc.ServiceDelivery,
		ServiceTakeout:  loc.ServiceTakeout,
		ServiceDineIn:   loc.ServiceDineIn,
		DeliveryFee:     loc.DeliveryFee,
	}
	for _, entry := range loc.OpeningHours {
		snapshot.OpeningHours = append(snapshot.OpeningHours, editor.OpeningHoursSnapshot{
			Day:       entry.Day,
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
			AllDay:    entry.AllDay,
		})
	}
	return snapshot
}
