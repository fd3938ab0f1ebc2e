package menusync

import (
	"sort"
	"strconv"
	"strings"

	"menucraft/api/internal/editor"
	"menucraft/api/internal/store"
)

// Signatures are derived comparable values covering only the sync-relevant
// fields of an entity. Comparing signatures instead of whole records keeps
// UI-injected noise (cache-busted image URLs, layout fields) from triggering
// false positives, while still catching a variant edit that left the parent
// item's timestamp untouched.

func variantSignature(id, name string, price float64, updatedAt string) string {
	return strings.Join([]string{
		id,
		name,
		strconv.FormatFloat(price, 'f', -1, 64),
		updatedAt,
	}, "|")
}

func joinVariantSignatures(signatures []string) string {
	sort.Strings(signatures)
	return strings.Join(signatures, ",")
}

// itemSignature: updatedAt plus the sorted variant signatures, so a changed
// child variant changes the parent's signature.
func itemSignature(updatedAt string, variantSignatures []string) string {
	return updatedAt + "|" + joinVariantSignatures(variantSignatures)
}

func storeItemSignature(it store.MenuItem) string {
	signatures := make([]string, 0, len(it.Variants))
	for _, v := range it.Variants {
		signatures = append(signatures, variantSignature(v.ID, v.Name, v.Price, formatTime(v.UpdatedAt)))
	}
	return itemSignature(formatTime(it.UpdatedAt), signatures)
}

func embeddedItemSignature(it editor.ItemSnapshot) string {
	signatures := make([]string, 0, len(it.Variants))
	for _, v := range it.Variants {
		signatures = append(signatures, variantSignature(v.ID, v.Name, v.Price, v.UpdatedAt))
	}
	return itemSignature(it.UpdatedAt, signatures)
}
