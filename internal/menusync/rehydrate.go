package menusync

import (
	"bytes"
	"encoding/json"

	"menucraft/api/internal/editor"
)

// Rehydrate rewrites a document's embedded snapshots from a fresh catalog
// snapshot. Category and solo-item blocks whose backing entity is gone are
// pruned; header and featured blocks are refreshed but never pruned. Every
// write goes through a deep-inequality guard, so running Rehydrate twice
// against the same snapshot reports changed=false the second time and the
// re-encoded output is byte-identical.
//
// User-authored styling keys in props are never touched: only the snapshot
// key of each block kind is rewritten.
func Rehydrate(doc editor.Document, snap Snapshot) (editor.Document, bool) {
	if doc == nil {
		return nil, false
	}

	categoryByID := make(map[string]int, len(snap.Categories))
	for i, c := range snap.Categories {
		categoryByID[c.ID] = i
	}
	soloByID := make(map[string]int, len(snap.SoloItems))
	for i, it := range snap.SoloItems {
		soloByID[it.ID] = i
	}
	featured := itemSnapshots(snap.FeaturedItems)

	changed := false
	for id, node := range doc {
		switch node.Type.ResolvedName {
		case editor.KindCategoryBlock:
			snapshotID, ok := embeddedID(node.Props, "data")
			if !ok {
				// malformed node: treated as referencing nothing, pruned
				delete(doc, id)
				changed = true
				continue
			}
			pos, found := categoryByID[snapshotID]
			if !found {
				delete(doc, id)
				changed = true
				continue
			}
			if setProp(node.Props, "data", toValue(categorySnapshot(snap.Categories[pos]))) {
				doc[id] = node
				changed = true
			}

		case editor.KindItemBlock:
			snapshotID, ok := embeddedID(node.Props, "item")
			if !ok {
				delete(doc, id)
				changed = true
				continue
			}
			pos, found := soloByID[snapshotID]
			if !found {
				delete(doc, id)
				changed = true
				continue
			}
			if setProp(node.Props, "item", toValue(itemSnapshot(snap.SoloItems[pos]))) {
				doc[id] = node
				changed = true
			}

		case editor.KindFeaturedBlock:
			node = ensureProps(node)
			if setProp(node.Props, "items", toValue(featured)) {
				doc[id] = node
				changed = true
			}

		case editor.KindHeaderBlock:
			node = ensureProps(node)
			var orgValue any
			if snap.Organization != nil {
				orgValue = toValue(organizationSnapshot(*snap.Organization))
			}
			var locValue any
			if snap.Location != nil {
				locValue = toValue(locationSnapshot(*snap.Location))
			}
			nodeChanged := setProp(node.Props, "organization", orgValue)
			nodeChanged = setProp(node.Props, "location", locValue) || nodeChanged
			if nodeChanged {
				doc[id] = node
				changed = true
			}
		}
	}
	return doc, changed
}

func ensureProps(node editor.Node) editor.Node {
	if node.Props == nil {
		node.Props = make(map[string]any)
	}
	return node
}

// embeddedID pulls the id out of an embedded snapshot without committing to
// its full shape.
func embeddedID(props map[string]any, key string) (string, bool) {
	if props == nil {
		return "", false
	}
	payload, ok := props[key].(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := payload["id"].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// setProp overwrites props[key] with fresh and reports whether anything
// actually differed, comparing canonical JSON renderings (Go marshals map
// keys sorted, so this is order-insensitive).
func setProp(props map[string]any, key string, fresh any) bool {
	if jsonEqual(props[key], fresh) {
		return false
	}
	props[key] = fresh
	return true
}

func jsonEqual(a, b any) bool {
	rawA, errA := json.Marshal(a)
	rawB, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(rawA, rawB)
}

// toValue converts a typed snapshot into the plain JSON value shape documents
// carry, so guard comparisons and re-encoding see one representation.
func toValue(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
