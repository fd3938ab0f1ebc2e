package store

import (
	"encoding/json"
	"testing"
)

func TestParseSyncPreference(t *testing.T) {
	cases := []struct {
		name     string
		metadata string
		want     *bool
	}{
		{"empty metadata", "", nil},
		{"no menuSync key", `{"theme":"dark"}`, nil},
		{"menuSync without preference", `{"menuSync":{}}`, nil},
		{"corrupt json", `{"menuSync": not-json`, nil},
		{"stored true", `{"menuSync":{"updatePublishedOnCatalogChange":true}}`, boolPtr(true)},
		{"stored false", `{"menuSync":{"updatePublishedOnCatalogChange":false}}`, boolPtr(false)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseSyncPreference(tc.metadata)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("parseSyncPreference = %v, want nil", *got)
			case tc.want != nil && got == nil:
				t.Fatalf("parseSyncPreference = nil, want %v", *tc.want)
			case tc.want != nil && *got != *tc.want:
				t.Fatalf("parseSyncPreference = %v, want %v", *got, *tc.want)
			}
		})
	}
}

func TestMergeSyncPreferencePreservesUnrelatedKeys(t *testing.T) {
	metadata := `{"theme":"dark","billing":{"plan":"pro","seats":3},"menuSync":{"legacyFlag":true}}`

	merged, err := mergeSyncPreference(metadata, true)
	if err != nil {
		t.Fatalf("mergeSyncPreference: %v", err)
	}

	var blob map[string]any
	if err := json.Unmarshal([]byte(merged), &blob); err != nil {
		t.Fatalf("merged metadata is not valid JSON: %v", err)
	}

	if blob["theme"] != "dark" {
		t.Fatalf("theme = %v, want dark", blob["theme"])
	}
	billing, _ := blob["billing"].(map[string]any)
	if billing == nil || billing["plan"] != "pro" {
		t.Fatalf("billing key clobbered: %v", blob["billing"])
	}

	menuSync, _ := blob["menuSync"].(map[string]any)
	if menuSync == nil {
		t.Fatalf("menuSync missing from merged metadata: %s", merged)
	}
	if menuSync["updatePublishedOnCatalogChange"] != true {
		t.Fatalf("preference = %v, want true", menuSync["updatePublishedOnCatalogChange"])
	}
	// Sibling keys inside menuSync survive too.
	if menuSync["legacyFlag"] != true {
		t.Fatalf("menuSync sibling key clobbered: %v", menuSync)
	}
}

func TestMergeSyncPreferenceRoundTrip(t *testing.T) {
	merged, err := mergeSyncPreference("", false)
	if err != nil {
		t.Fatalf("mergeSyncPreference: %v", err)
	}
	got := parseSyncPreference(merged)
	if got == nil || *got != false {
		t.Fatalf("round trip = %v, want false", got)
	}

	merged, err = mergeSyncPreference(merged, true)
	if err != nil {
		t.Fatalf("mergeSyncPreference: %v", err)
	}
	got = parseSyncPreference(merged)
	if got == nil || *got != true {
		t.Fatalf("round trip after flip = %v, want true", got)
	}
}

func TestMergeSyncPreferenceResetsCorruptMetadata(t *testing.T) {
	merged, err := mergeSyncPreference(`{"broken": `, true)
	if err != nil {
		t.Fatalf("mergeSyncPreference: %v", err)
	}
	got := parseSyncPreference(merged)
	if got == nil || *got != true {
		t.Fatalf("preference after reset = %v, want true", got)
	}
}

func boolPtr(v bool) *bool { return &v }
