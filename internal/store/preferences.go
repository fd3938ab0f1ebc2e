package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// The published-update preference lives inside the organization's free-form
// metadata blob under {"menuSync":{"updatePublishedOnCatalogChange":bool}}.
// Reads tolerate corrupt JSON (no preference); writes go through a
// read-modify-write in one transaction so unrelated metadata keys survive.

type syncPreferenceBlob struct {
	MenuSync struct {
		UpdatePublishedOnCatalogChange *bool `json:"updatePublishedOnCatalogChange"`
	} `json:"menuSync"`
}

// parseSyncPreference reads the preference out of a metadata blob. Absent
// keys and unparseable JSON both read as nil (no preference).
func parseSyncPreference(metadata string) *bool {
	if metadata == "" {
		return nil
	}
	var blob syncPreferenceBlob
	if err := json.Unmarshal([]byte(metadata), &blob); err != nil {
		return nil
	}
	return blob.MenuSync.UpdatePublishedOnCatalogChange
}

// mergeSyncPreference sets the preference inside a metadata blob, keeping
// every unrelated key intact. Unparseable existing metadata is replaced with
// a fresh blob holding only the preference.
func mergeSyncPreference(metadata string, value bool) (string, error) {
	blob := make(map[string]any)
	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &blob); err != nil {
			blob = make(map[string]any)
		}
	}

	menuSync, _ := blob["menuSync"].(map[string]any)
	if menuSync == nil {
		menuSync = make(map[string]any)
	}
	menuSync["updatePublishedOnCatalogChange"] = value
	blob["menuSync"] = menuSync

	raw, err := json.Marshal(blob)
	if err != nil {
		return "", fmt.Errorf("marshal organization metadata: %w", err)
	}
	return string(raw), nil
}

// GetSyncPreference returns nil when no preference is stored or the metadata
// blob cannot be parsed.
func (s *PostgresStore) GetSyncPreference(ctx context.Context, orgID string) (*bool, error) {
	var metadata string
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(metadata, '') FROM organizations WHERE id = $1`, orgID,
	).Scan(&metadata)
	if err != nil {
		return nil, fmt.Errorf("read organization metadata: %w", err)
	}

	preference := parseSyncPreference(metadata)
	if preference == nil && metadata != "" && !json.Valid([]byte(metadata)) {
		log.Printf("store: organization %s has unparseable metadata, treating as no preference", orgID)
	}
	return preference, nil
}

func (s *PostgresStore) SetSyncPreference(ctx context.Context, orgID string, value bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin preference tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var metadata string
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(metadata, '') FROM organizations WHERE id = $1 FOR UPDATE`, orgID,
	).Scan(&metadata); err != nil {
		return fmt.Errorf("lock organization metadata: %w", err)
	}

	merged, err := mergeSyncPreference(metadata, value)
	if err != nil {
		return err
	}

	// updated_at stays untouched: it cache-busts branding URLs, and storing a
	// preference is not a branding change.
	if _, err := tx.ExecContext(ctx,
		`UPDATE organizations SET metadata = $2 WHERE id = $1`, orgID, merged,
	); err != nil {
		return fmt.Errorf("write organization metadata: %w", err)
	}
	return tx.Commit()
}
