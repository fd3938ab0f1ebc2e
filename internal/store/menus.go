package store

import (
	"context"
	"fmt"
)

func (s *PostgresStore) GetMenu(ctx context.Context, menuID string) (Menu, error) {
	var m Menu
	err := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, name, status, serial_data, published_data, created_at, updated_at
		FROM menus
		WHERE id = $1
	`, menuID).Scan(&m.ID, &m.OrganizationID, &m.Name, &m.Status,
		&m.SerialData, &m.PublishedData, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return Menu{}, err
	}
	return m, nil
}

func (s *PostgresStore) ListMenus(ctx context.Context, orgID string) ([]Menu, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, name, status, serial_data, published_data, created_at, updated_at
		FROM menus
		WHERE organization_id = $1
		ORDER BY updated_at DESC
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	defer rows.Close()

	menus := make([]Menu, 0)
	for rows.Next() {
		var m Menu
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.Name, &m.Status,
			&m.SerialData, &m.PublishedData, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan menu: %w", err)
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menus: %w", err)
	}
	return menus, nil
}

func (s *PostgresStore) UpdateMenuDraft(ctx context.Context, menuID, serial string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE menus SET serial_data = $2, updated_at = NOW() WHERE id = $1
	`, menuID, serial)
	if err != nil {
		return fmt.Errorf("update menu draft: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateMenuPublished(ctx context.Context, menuID, serial string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE menus SET published_data = $2, updated_at = NOW() WHERE id = $1
	`, menuID, serial)
	if err != nil {
		return fmt.Errorf("update menu published: %w", err)
	}
	return nil
}

// PublishMenu copies the draft document into the published slot and flips the
// status. The draft stays in place and keeps evolving independently.
func (s *PostgresStore) PublishMenu(ctx context.Context, menuID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE menus
		SET published_data = serial_data, status = 'PUBLISHED', updated_at = NOW()
		WHERE id = $1
	`, menuID)
	if err != nil {
		return fmt.Errorf("publish menu: %w", err)
	}
	return nil
}
