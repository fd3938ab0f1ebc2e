package menusync

import (
	"testing"
	"time"

	"menucraft/api/internal/editor"
	"menucraft/api/internal/store"
)

var (
	baseTime  = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	laterTime = baseTime.Add(48 * time.Hour)
)

func testItem(id, name string, updatedAt time.Time, variants ...store.Variant) store.MenuItem {
	return store.MenuItem{
		ID:        id,
		Name:      name,
		Status:    store.ItemStatusActive,
		UpdatedAt: updatedAt,
		Variants:  variants,
	}
}

func testCategory(id, name string, updatedAt time.Time, items ...store.MenuItem) store.Category {
	return store.Category{ID: id, Name: name, UpdatedAt: updatedAt, Items: items}
}

func TestCategoriesInSyncEmptyEmbedded(t *testing.T) {
	db := []store.Category{testCategory("cat_1", "Starters", baseTime)}
	if !CategoriesInSync(nil, db) {
		t.Fatal("a document embedding no categories must be in sync regardless of catalog state")
	}
}

func TestCategoriesInSyncDetectsRename(t *testing.T) {
	category := testCategory("cat_1", "Starters", baseTime, testItem("it_1", "Soup", baseTime))
	embedded := []editor.CategorySnapshot{categorySnapshot(category)}

	if !CategoriesInSync(embedded, []store.Category{category}) {
		t.Fatal("unchanged category reported out of sync")
	}

	renamed := category
	renamed.Name = "Appetizers"
	renamed.UpdatedAt = laterTime
	if CategoriesInSync(embedded, []store.Category{renamed}) {
		t.Fatal("renamed category (bumped updated_at) not detected")
	}
}

func TestCategoriesInSyncDetectsDeletedCategory(t *testing.T) {
	category := testCategory("cat_1", "Starters", baseTime)
	embedded := []editor.CategorySnapshot{categorySnapshot(category)}
	if CategoriesInSync(embedded, nil) {
		t.Fatal("embedded category missing from catalog not detected")
	}
}

func TestCategoriesInSyncDetectsItemMembershipChange(t *testing.T) {
	category := testCategory("cat_1", "Starters", baseTime, testItem("it_1", "Soup", baseTime))
	embedded := []editor.CategorySnapshot{categorySnapshot(category)}

	grown := category
	grown.Items = append(grown.Items, testItem("it_2", "Salad", baseTime))
	if CategoriesInSync(embedded, []store.Category{grown}) {
		t.Fatal("item added to category not detected")
	}
}

func TestItemSignatureSensitiveToVariantPrice(t *testing.T) {
	variant := store.Variant{ID: "v_1", ItemID: "it_1", Name: "Large", Price: 12.5, UpdatedAt: baseTime}
	item := testItem("it_1", "Soup", baseTime, variant)
	embedded := []editor.ItemSnapshot{itemSnapshot(item)}

	if !SoloItemsInSync(embedded, []store.MenuItem{item}) {
		t.Fatal("unchanged item reported out of sync")
	}

	// Variant edits bump only the variant's timestamp, never the parent's.
	repriced := item
	repriced.Variants = []store.Variant{{ID: "v_1", ItemID: "it_1", Name: "Large", Price: 13.0, UpdatedAt: laterTime}}
	if SoloItemsInSync(embedded, []store.MenuItem{repriced}) {
		t.Fatal("variant price change with untouched parent timestamp not detected")
	}
}

func TestSoloItemsSubsetSemantics(t *testing.T) {
	soup := testItem("it_1", "Soup", baseTime)
	salad := testItem("it_2", "Salad", baseTime)
	db := []store.MenuItem{soup, salad}

	// Embedding only one of two catalog items is not drift.
	embedded := []editor.ItemSnapshot{itemSnapshot(soup)}
	if !SoloItemsInSync(embedded, db) {
		t.Fatal("subset of catalog items reported out of sync")
	}

	// An embedded item the catalog no longer has is.
	gone := []editor.ItemSnapshot{itemSnapshot(testItem("it_9", "Ghost", baseTime))}
	if SoloItemsInSync(gone, db) {
		t.Fatal("deleted solo item not detected")
	}
}

func TestFeaturedItemsRequireBlockPresence(t *testing.T) {
	featured := []store.MenuItem{testItem("it_1", "Soup", baseTime)}

	if !FeaturedItemsInSync(nil, featured, false) {
		t.Fatal("document without a FeaturedBlock must be in sync for featured items")
	}
	if FeaturedItemsInSync(nil, featured, true) {
		t.Fatal("FeaturedBlock embedding nothing while catalog has featured items not detected")
	}

	embedded := []editor.ItemSnapshot{itemSnapshot(featured[0])}
	if !FeaturedItemsInSync(embedded, featured, true) {
		t.Fatal("matching featured set reported out of sync")
	}
}

func TestOrganizationInSyncBranding(t *testing.T) {
	org := &store.Organization{ID: "org_1", Name: "Cafe", Logo: "logo.png", Banner: "banner.png"}
	snapshot := organizationSnapshot(*org)

	if !OrganizationInSync(&snapshot, org) {
		t.Fatal("unchanged branding reported out of sync")
	}

	changed := *org
	changed.Logo = "logo-v2.png"
	if OrganizationInSync(&snapshot, &changed) {
		t.Fatal("logo change not detected")
	}
	if OrganizationInSync(&snapshot, nil) {
		t.Fatal("missing organization not detected")
	}
}

func TestLocationInSyncOpeningHoursOrderIndependent(t *testing.T) {
	loc := &store.Location{
		ID:       "loc_1",
		Address:  "1 Main St",
		Currency: "EUR",
		OpeningHours: []store.OpeningHoursEntry{
			{Day: "monday", StartTime: "09:00", EndTime: "17:00"},
			{Day: "tuesday", AllDay: true},
		},
	}
	snapshot := locationSnapshot(*loc)

	// Same entries, reversed order.
	reordered := *loc
	reordered.OpeningHours = []store.OpeningHoursEntry{
		{Day: "tuesday", AllDay: true},
		{Day: "monday", StartTime: "09:00", EndTime: "17:00"},
	}
	if !LocationInSync(&snapshot, &reordered) {
		t.Fatal("opening hours order must not matter")
	}

	t.Run("changed day", func(t *testing.T) {
		edited := *loc
		edited.OpeningHours = []store.OpeningHoursEntry{
			{Day: "monday", StartTime: "10:00", EndTime: "17:00"},
			{Day: "tuesday", AllDay: true},
		}
		if LocationInSync(&snapshot, &edited) {
			t.Fatal("changed start time not detected")
		}
	})

	t.Run("added day", func(t *testing.T) {
		grown := *loc
		grown.OpeningHours = append(append([]store.OpeningHoursEntry(nil), loc.OpeningHours...),
			store.OpeningHoursEntry{Day: "friday", AllDay: true})
		if LocationInSync(&snapshot, &grown) {
			t.Fatal("added day not detected")
		}
	})

	t.Run("removed day", func(t *testing.T) {
		shrunk := *loc
		shrunk.OpeningHours = loc.OpeningHours[:1]
		if LocationInSync(&snapshot, &shrunk) {
			t.Fatal("removed day not detected")
		}
	})
}

func TestLocationInSyncServiceAndFee(t *testing.T) {
	loc := &store.Location{ID: "loc_1", ServiceDelivery: true, DeliveryFee: 2.5}
	snapshot := locationSnapshot(*loc)

	changedService := *loc
	changedService.ServiceDelivery = false
	if LocationInSync(&snapshot, &changedService) {
		t.Fatal("service toggle not detected")
	}

	changedFee := *loc
	changedFee.DeliveryFee = 3
	if LocationInSync(&snapshot, &changedFee) {
		t.Fatal("delivery fee change not detected")
	}
}

func TestStatusTrivialSyncForEmptyDocument(t *testing.T) {
	snap := Snapshot{
		Categories:    []store.Category{testCategory("cat_1", "Starters", baseTime)},
		SoloItems:     []store.MenuItem{testItem("it_1", "Soup", baseTime)},
		FeaturedItems: []store.MenuItem{testItem("it_2", "Pie", baseTime)},
		Organization:  &store.Organization{ID: "org_1", Name: "Cafe"},
		Location:      &store.Location{ID: "loc_1"},
	}

	status := Status(editor.Extract{}, snap)
	if status.NeedsSync {
		t.Fatalf("empty document must be trivially in sync, got %+v", status)
	}
	if len(status.Reasons) != 0 {
		t.Fatalf("Reasons = %v, want none", status.Reasons)
	}
}

func TestStatusAggregatesReasons(t *testing.T) {
	category := testCategory("cat_1", "Starters", baseTime)
	embedded := categorySnapshot(category)

	renamed := category
	renamed.UpdatedAt = laterTime
	snap := Snapshot{
		Categories:   []store.Category{renamed},
		Organization: &store.Organization{ID: "org_1", Name: "Cafe"},
	}

	status := Status(editor.Extract{
		Categories:     []editor.CategorySnapshot{embedded},
		HasHeaderBlock: true,
	}, snap)

	if !status.NeedsSync {
		t.Fatal("NeedsSync = false, want true")
	}
	if status.Categories {
		t.Fatal("categories flagged in sync despite timestamp drift")
	}
	// Header block present but embedding no org snapshot while the catalog
	// has one: branding drift.
	if status.Organization {
		t.Fatal("organization flagged in sync despite missing embedded snapshot")
	}
	if len(status.Reasons) != 2 {
		t.Fatalf("Reasons = %v, want two entries", status.Reasons)
	}
}
