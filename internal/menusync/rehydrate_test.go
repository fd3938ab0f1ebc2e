package menusync

import (
	"testing"

	"menucraft/api/internal/editor"
	"menucraft/api/internal/store"
)

func categoryNode(id, name, updatedAt string, extraProps map[string]any) editor.Node {
	props := map[string]any{
		"data": map[string]any{"id": id, "name": name, "updatedAt": updatedAt},
	}
	for key, value := range extraProps {
		props[key] = value
	}
	return editor.Node{Type: editor.NodeType{ResolvedName: editor.KindCategoryBlock}, Props: props}
}

func itemNode(id, name, updatedAt string) editor.Node {
	return editor.Node{
		Type: editor.NodeType{ResolvedName: editor.KindItemBlock},
		Props: map[string]any{
			"item": map[string]any{"id": id, "name": name, "updatedAt": updatedAt},
		},
	}
}

func TestRehydrateRefreshesCategoryAndPreservesStyling(t *testing.T) {
	stale := formatTime(baseTime)
	doc := editor.Document{
		"n1": categoryNode("cat_1", "Starters", stale, map[string]any{"accentColor": "#c0ffee"}),
	}
	renamed := testCategory("cat_1", "Appetizers", laterTime)
	snap := Snapshot{Categories: []store.Category{renamed}}

	doc, changed := Rehydrate(doc, snap)
	if !changed {
		t.Fatal("changed = false, want true")
	}

	props := doc["n1"].Props
	data, ok := props["data"].(map[string]any)
	if !ok {
		t.Fatalf("data prop = %T, want object", props["data"])
	}
	if data["name"] != "Appetizers" {
		t.Fatalf("name = %v, want Appetizers", data["name"])
	}
	if data["updatedAt"] != formatTime(laterTime) {
		t.Fatalf("updatedAt = %v, want %s", data["updatedAt"], formatTime(laterTime))
	}
	if props["accentColor"] != "#c0ffee" {
		t.Fatalf("styling prop clobbered: accentColor = %v", props["accentColor"])
	}
}

func TestRehydrateIdempotent(t *testing.T) {
	doc := editor.Document{
		"n1": categoryNode("cat_1", "Starters", formatTime(baseTime), nil),
		"n2": itemNode("it_1", "Soup", formatTime(baseTime)),
		"n3": {Type: editor.NodeType{ResolvedName: editor.KindFeaturedBlock}},
		"n4": {Type: editor.NodeType{ResolvedName: editor.KindHeaderBlock}},
	}
	snap := Snapshot{
		Categories:    []store.Category{testCategory("cat_1", "Appetizers", laterTime)},
		SoloItems:     []store.MenuItem{testItem("it_1", "Soup", laterTime)},
		FeaturedItems: []store.MenuItem{testItem("it_2", "Pie", baseTime)},
		Organization:  &store.Organization{ID: "org_1", Name: "Cafe", Logo: "logo.png"},
		Location:      &store.Location{ID: "loc_1", Currency: "EUR"},
	}

	doc, changed := Rehydrate(doc, snap)
	if !changed {
		t.Fatal("first pass: changed = false, want true")
	}
	first, err := editor.Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	doc, changed = Rehydrate(doc, snap)
	if changed {
		t.Fatal("second pass against same snapshot: changed = true, want false")
	}
	second, err := editor.Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if first != second {
		t.Fatal("second pass altered the encoded document")
	}
}

func TestRehydratePrunesDeletedEntities(t *testing.T) {
	doc := editor.Document{
		"cat-gone":  categoryNode("cat_9", "Ghost", formatTime(baseTime), nil),
		"item-gone": itemNode("it_9", "Ghost", formatTime(baseTime)),
		"cat-kept":  categoryNode("cat_1", "Starters", formatTime(baseTime), nil),
		"text":      {Type: editor.NodeType{ResolvedName: "TextBlock"}, Props: map[string]any{"text": "hi"}},
	}
	snap := Snapshot{Categories: []store.Category{testCategory("cat_1", "Starters", baseTime)}}

	doc, changed := Rehydrate(doc, snap)
	if !changed {
		t.Fatal("changed = false, want true")
	}
	if _, ok := doc["cat-gone"]; ok {
		t.Fatal("category block with deleted backing entity not pruned")
	}
	if _, ok := doc["item-gone"]; ok {
		t.Fatal("item block with deleted backing entity not pruned")
	}
	if _, ok := doc["cat-kept"]; !ok {
		t.Fatal("surviving category block pruned")
	}
	if _, ok := doc["text"]; !ok {
		t.Fatal("non-catalog node pruned")
	}
}

func TestRehydratePrunesMalformedCatalogBlocks(t *testing.T) {
	doc := editor.Document{
		"no-props": {Type: editor.NodeType{ResolvedName: editor.KindCategoryBlock}},
		"no-id": {
			Type:  editor.NodeType{ResolvedName: editor.KindItemBlock},
			Props: map[string]any{"item": map[string]any{"name": "No ID"}},
		},
	}

	doc, changed := Rehydrate(doc, Snapshot{})
	if !changed {
		t.Fatal("changed = false, want true")
	}
	if len(doc) != 0 {
		t.Fatalf("document = %v, want empty", doc)
	}
}

func TestRehydrateFeaturedBlockReplaced(t *testing.T) {
	doc := editor.Document{
		"featured": {
			Type: editor.NodeType{ResolvedName: editor.KindFeaturedBlock},
			Props: map[string]any{
				"items": []any{map[string]any{"id": "it_old", "name": "Old", "updatedAt": formatTime(baseTime)}},
			},
		},
	}
	snap := Snapshot{FeaturedItems: []store.MenuItem{testItem("it_new", "New", laterTime)}}

	doc, changed := Rehydrate(doc, snap)
	if !changed {
		t.Fatal("changed = false, want true")
	}
	items, ok := doc["featured"].Props["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("items prop = %v, want one entry", doc["featured"].Props["items"])
	}
	entry, _ := items[0].(map[string]any)
	if entry["id"] != "it_new" {
		t.Fatalf("featured item id = %v, want it_new", entry["id"])
	}
}

func TestRehydrateHeaderClearsMissingCatalogData(t *testing.T) {
	doc := editor.Document{
		"header": {
			Type: editor.NodeType{ResolvedName: editor.KindHeaderBlock},
			Props: map[string]any{
				"organization": map[string]any{"id": "org_1", "name": "Cafe"},
				"location":     map[string]any{"id": "loc_1"},
			},
		},
	}

	// Organization survives, location was deleted.
	snap := Snapshot{Organization: &store.Organization{ID: "org_1", Name: "Cafe"}}

	doc, changed := Rehydrate(doc, snap)
	if !changed {
		t.Fatal("changed = false, want true")
	}
	props := doc["header"].Props
	if props["location"] != nil {
		t.Fatalf("location prop = %v, want nil", props["location"])
	}
	org, _ := props["organization"].(map[string]any)
	if org["name"] != "Cafe" {
		t.Fatalf("organization prop = %v, want Cafe", props["organization"])
	}
}

func TestRehydrateNilDocument(t *testing.T) {
	doc, changed := Rehydrate(nil, Snapshot{})
	if doc != nil || changed {
		t.Fatalf("Rehydrate(nil) = %v, %v, want nil, false", doc, changed)
	}
}
