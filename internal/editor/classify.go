package editor

import (
	"encoding/json"
	"log"
)

// Extract is the classifier's output: every embedded catalog snapshot in a
// document, bucketed by kind. The block-presence flags matter because a menu
// without a FeaturedBlock or HeaderBlock is trivially in sync for those
// kinds, regardless of catalog state.
type Extract struct {
	Categories       []CategorySnapshot
	Items            []ItemSnapshot
	FeaturedItems    []ItemSnapshot
	Organization     *OrganizationSnapshot
	Location         *LocationSnapshot
	HasFeaturedBlock bool
	HasHeaderBlock   bool
}

// ExtractSnapshots walks the document once and collects embedded snapshots.
// It never mutates the document; nodes with malformed props are skipped with
// a log line.
func ExtractSnapshots(doc Document) Extract {
	var ex Extract
	for id, node := range doc {
		switch node.Type.ResolvedName {
		case KindCategoryBlock:
			var snapshot CategorySnapshot
			if !decodeProp(node.Props, "data", &snapshot) || snapshot.ID == "" {
				log.Printf("editor: skipping CategoryBlock %s with malformed data payload", id)
				continue
			}
			ex.Categories = append(ex.Categories, snapshot)
		case KindItemBlock:
			var snapshot ItemSnapshot
			if !decodeProp(node.Props, "item", &snapshot) || snapshot.ID == "" {
				log.Printf("editor: skipping ItemBlock %s with malformed item payload", id)
				continue
			}
			ex.Items = append(ex.Items, snapshot)
		case KindFeaturedBlock:
			ex.HasFeaturedBlock = true
			var snapshots []ItemSnapshot
			if decodeProp(node.Props, "items", &snapshots) {
				ex.FeaturedItems = append(ex.FeaturedItems, snapshots...)
			}
		case KindHeaderBlock:
			ex.HasHeaderBlock = true
			var org OrganizationSnapshot
			if decodeProp(node.Props, "organization", &org) {
				ex.Organization = &org
			}
			var loc LocationSnapshot
			if decodeProp(node.Props, "location", &loc) {
				ex.Location = &loc
			}
		}
	}
	return ex
}

// decodeProp re-marshals a props value into a typed snapshot. Missing keys,
// explicit nulls and shape mismatches all report false.
func decodeProp(props map[string]any, key string, target any) bool {
	if props == nil {
		return false
	}
	value, ok := props[key]
	if !ok || value == nil {
		return false
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, target) == nil
}
