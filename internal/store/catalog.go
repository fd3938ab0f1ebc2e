package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Catalog reads. These back the sync engine's comparisons, so filters and
// ordering are part of the contract: active items only, items by name,
// variants by price ascending, image URLs cache-busted by the owning row's
// updated_at.

func (s *PostgresStore) GetCategoriesWithItems(ctx context.Context, orgID string) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.organization_id, c.name, c.updated_at
		FROM categories c
		WHERE c.organization_id = $1
			AND EXISTS (
				SELECT 1 FROM menu_items i
				WHERE i.category_id = c.id AND i.status = 'ACTIVE'
			)
		ORDER BY c.name
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	index := make(map[string]int)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		index[c.ID] = len(categories)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	if len(categories) == 0 {
		return categories, nil
	}

	items, err := s.listItems(ctx, `i.organization_id = $1 AND i.category_id IS NOT NULL AND i.status = 'ACTIVE'`, orgID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.CategoryID == nil {
			continue
		}
		if pos, ok := index[*item.CategoryID]; ok {
			categories[pos].Items = append(categories[pos].Items, item)
		}
	}
	return categories, nil
}

func (s *PostgresStore) GetFeaturedItems(ctx context.Context, orgID string) ([]MenuItem, error) {
	return s.listItems(ctx, `i.organization_id = $1 AND i.featured AND i.status = 'ACTIVE'`, orgID)
}

func (s *PostgresStore) GetMenuItemsWithoutCategory(ctx context.Context, orgID string) ([]MenuItem, error) {
	return s.listItems(ctx, `i.organization_id = $1 AND i.category_id IS NULL AND i.status = 'ACTIVE'`, orgID)
}

// listItems fetches items matching the given predicate, sorted by name, with
// variants attached in price order.
func (s *PostgresStore) listItems(ctx context.Context, where string, orgID string) ([]MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.organization_id, i.category_id, i.name,
			COALESCE(i.description, ''), COALESCE(i.image, ''),
			i.featured, i.status, i.updated_at
		FROM menu_items i
		WHERE `+where+`
		ORDER BY i.name
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]MenuItem, 0)
	index := make(map[string]int)
	for rows.Next() {
		var item MenuItem
		if err := rows.Scan(&item.ID, &item.OrganizationID, &item.CategoryID, &item.Name,
			&item.Description, &item.Image, &item.Featured, &item.Status, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.Image = s.assets.PublicURL(item.Image, item.UpdatedAt)
		index[item.ID] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	variantRows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.item_id, v.name, v.price, COALESCE(v.description, ''), v.updated_at
		FROM variants v
		JOIN menu_items i ON i.id = v.item_id
		WHERE `+where+`
		ORDER BY v.price ASC, v.id
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer variantRows.Close()

	for variantRows.Next() {
		var v Variant
		if err := variantRows.Scan(&v.ID, &v.ItemID, &v.Name, &v.Price, &v.Description, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		if pos, ok := index[v.ItemID]; ok {
			items[pos].Variants = append(items[pos].Variants, v)
		}
	}
	if err := variantRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variants: %w", err)
	}
	return items, nil
}

// GetDefaultLocation returns the organization's oldest location with its
// opening hours, or nil when the organization has none.
func (s *PostgresStore) GetDefaultLocation(ctx context.Context, orgID string) (*Location, error) {
	var loc Location
	err := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id,
			COALESCE(address, ''), COALESCE(phone, ''),
			COALESCE(facebook, ''), COALESCE(instagram, ''), COALESCE(twitter, ''),
			COALESCE(tiktok, ''), COALESCE(whatsapp, ''), COALESCE(website, ''),
			COALESCE(currency, ''),
			service_delivery, service_takeout, service_dine_in,
			COALESCE(delivery_fee, 0), created_at, updated_at
		FROM locations
		WHERE organization_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`, orgID).Scan(&loc.ID, &loc.OrganizationID, &loc.Address, &loc.Phone,
		&loc.Facebook, &loc.Instagram, &loc.Twitter, &loc.TikTok, &loc.WhatsApp,
		&loc.Website, &loc.Currency, &loc.ServiceDelivery, &loc.ServiceTakeout,
		&loc.ServiceDineIn, &loc.DeliveryFee, &loc.CreatedAt, &loc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get default location: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT day, start_time, end_time, all_day
		FROM opening_hours
		WHERE location_id = $1
		ORDER BY id
	`, loc.ID)
	if err != nil {
		return nil, fmt.Errorf("list opening hours: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry OpeningHoursEntry
		if err := rows.Scan(&entry.Day, &entry.StartTime, &entry.EndTime, &entry.AllDay); err != nil {
			return nil, fmt.Errorf("scan opening hours: %w", err)
		}
		loc.OpeningHours = append(loc.OpeningHours, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate opening hours: %w", err)
	}
	return &loc, nil
}

// GetOrganization returns nil, nil when the organization does not exist.
func (s *PostgresStore) GetOrganization(ctx context.Context, orgID string) (*Organization, error) {
	var org Organization
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, slug, COALESCE(logo, ''), COALESCE(banner, ''),
			COALESCE(metadata, ''), created_at, updated_at
		FROM organizations
		WHERE id = $1
	`, orgID).Scan(&org.ID, &org.Name, &org.Slug, &org.Logo, &org.Banner,
		&org.Metadata, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	org.Logo = s.assets.PublicURL(org.Logo, org.UpdatedAt)
	org.Banner = s.assets.PublicURL(org.Banner, org.UpdatedAt)
	return &org, nil
}
