package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"golang.org/x/sync/errgroup"

	"menucraft/api/internal/cache"
	"menucraft/api/internal/config"
	"menucraft/api/internal/editor"
	"menucraft/api/internal/menusync"
	"menucraft/api/internal/search"
	"menucraft/api/internal/store"
)

type dataStore interface {
	Ping(ctx context.Context) error

	GetOrganization(ctx context.Context, orgID string) (*store.Organization, error)
	GetCategoriesWithItems(ctx context.Context, orgID string) ([]store.Category, error)
	GetFeaturedItems(ctx context.Context, orgID string) ([]store.MenuItem, error)
	GetMenuItemsWithoutCategory(ctx context.Context, orgID string) ([]store.MenuItem, error)
	GetDefaultLocation(ctx context.Context, orgID string) (*store.Location, error)

	GetMenu(ctx context.Context, menuID string) (store.Menu, error)
	ListMenus(ctx context.Context, orgID string) ([]store.Menu, error)
	UpdateMenuDraft(ctx context.Context, menuID, serial string) error
	UpdateMenuPublished(ctx context.Context, menuID, serial string) error
	PublishMenu(ctx context.Context, menuID string) error

	GetSyncPreference(ctx context.Context, orgID string) (*bool, error)
	SetSyncPreference(ctx context.Context, orgID string, value bool) error
}

type Service struct {
	cfg    config.Config
	store  dataStore
	cache  cache.Invalidator
	search *search.Service
}

func New(cfg config.Config, dataStore dataStore, invalidator cache.Invalidator, searchService *search.Service) *Service {
	if invalidator == nil {
		invalidator = cache.Noop{}
	}
	return &Service{cfg: cfg, store: dataStore, cache: invalidator, search: searchService}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) SyncToken() string {
	return s.cfg.SyncToken
}

// SyncOptions carries the caller's published-update decision. A nil
// UpdatePublished means "no explicit choice": fall back to the stored
// preference, or defer when none exists.
type SyncOptions struct {
	UpdatePublished *bool `json:"updatePublished"`
	RememberChoice  bool  `json:"rememberChoice"`
}

type SyncResult struct {
	DraftChanged           bool `json:"draftChanged"`
	PublishedChanged       bool `json:"publishedChanged"`
	PublishedSynced        bool `json:"publishedSynced"`
	NeedsPublishedDecision bool `json:"needsPublishedDecision"`
}

// loadCatalog reads everything reconciliation needs in one concurrent
// fan-out. The five queries are independent; the group fails as a unit.
func (s *Service) loadCatalog(ctx context.Context, orgID string) (menusync.Snapshot, error) {
	var snap menusync.Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		categories, err := s.store.GetCategoriesWithItems(ctx, orgID)
		snap.Categories = categories
		return err
	})
	g.Go(func() error {
		items, err := s.store.GetMenuItemsWithoutCategory(ctx, orgID)
		snap.SoloItems = items
		return err
	})
	g.Go(func() error {
		items, err := s.store.GetFeaturedItems(ctx, orgID)
		snap.FeaturedItems = items
		return err
	})
	g.Go(func() error {
		org, err := s.store.GetOrganization(ctx, orgID)
		snap.Organization = org
		return err
	})
	g.Go(func() error {
		loc, err := s.store.GetDefaultLocation(ctx, orgID)
		snap.Location = loc
		return err
	})
	if err := g.Wait(); err != nil {
		return menusync.Snapshot{}, fmt.Errorf("load catalog: %w", err)
	}
	return snap, nil
}

// SyncMenu reconciles one menu against the current catalog.
//
// The published document is only touched when an effective decision says so:
// an explicit caller choice wins, then the stored organization preference;
// with neither, the decision is deferred and the caller is told to prompt.
func (s *Service) SyncMenu(ctx context.Context, orgID, menuID string, opts SyncOptions) (SyncResult, error) {
	menu, err := s.store.GetMenu(ctx, menuID)
	if err != nil {
		return SyncResult{}, err
	}
	if menu.OrganizationID != orgID {
		return SyncResult{}, notFound("Menu not found")
	}

	snap, err := s.loadCatalog(ctx, orgID)
	if err != nil {
		return SyncResult{}, err
	}

	preference, err := s.store.GetSyncPreference(ctx, orgID)
	if err != nil {
		return SyncResult{}, err
	}

	var result SyncResult
	deferred := false
	updatePublished := false
	switch {
	case opts.UpdatePublished != nil:
		updatePublished = *opts.UpdatePublished
	case preference != nil:
		updatePublished = *preference
	default:
		deferred = true
		result.NeedsPublishedDecision = true
	}

	if doc := editor.Decode(menu.SerialData); doc != nil {
		doc, changed := menusync.Rehydrate(doc, snap)
		if changed {
			encoded, err := editor.Encode(doc)
			if err != nil {
				return SyncResult{}, fmt.Errorf("encode draft: %w", err)
			}
			if err := s.store.UpdateMenuDraft(ctx, menuID, encoded); err != nil {
				return SyncResult{}, writeFailed("Could not save synced draft", menuID)
			}
			result.DraftChanged = true
		}
	}

	if !deferred && updatePublished && menu.Status == store.MenuStatusPublished && menu.PublishedData != nil {
		if doc := editor.Decode(menu.PublishedData); doc != nil {
			result.PublishedSynced = true
			doc, changed := menusync.Rehydrate(doc, snap)
			if changed {
				encoded, err := editor.Encode(doc)
				if err != nil {
					return SyncResult{}, fmt.Errorf("encode published: %w", err)
				}
				if err := s.store.UpdateMenuPublished(ctx, menuID, encoded); err != nil {
					return SyncResult{}, writeFailed("Could not save synced published document", menuID)
				}
				result.PublishedChanged = true
			}
		}
	}

	if opts.RememberChoice && !deferred && opts.UpdatePublished != nil {
		if err := s.store.SetSyncPreference(ctx, orgID, updatePublished); err != nil {
			return SyncResult{}, fmt.Errorf("persist sync preference: %w", err)
		}
	}

	// Conservative invalidation: every write above succeeded, so blow the
	// tags even when nothing changed.
	s.invalidateMenuCaches(ctx, snap.Organization, orgID, menuID)

	return result, nil
}

func (s *Service) invalidateMenuCaches(ctx context.Context, org *store.Organization, orgID, menuID string) {
	tags := []string{cache.MenuTag(menuID), cache.MenusTag(orgID)}
	if org != nil && org.Slug != "" {
		tags = append(tags, cache.SubdomainTag(org.Slug))
	}
	if err := s.cache.InvalidateTags(ctx, tags...); err != nil {
		log.Printf("app: invalidate tags for menu %s: %v", menuID, err)
	}
	if org != nil && org.Slug != "" {
		if err := s.cache.RevalidatePath(ctx, "/"+org.Slug); err != nil {
			log.Printf("app: revalidate path for org %s: %v", orgID, err)
		}
	}
}

// SyncStatus compares the draft document against the live catalog without
// touching anything. An undecodable or empty draft is an empty canvas and
// trivially in sync.
func (s *Service) SyncStatus(ctx context.Context, orgID, menuID string) (map[string]any, error) {
	menu, err := s.store.GetMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if menu.OrganizationID != orgID {
		return nil, notFound("Menu not found")
	}

	snap, err := s.loadCatalog(ctx, orgID)
	if err != nil {
		return nil, err
	}

	doc := editor.Decode(menu.SerialData)
	status := menusync.Status(editor.ExtractSnapshots(doc), snap)

	preference, err := s.store.GetSyncPreference(ctx, orgID)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"menuId":     menu.ID,
		"status":     status,
		"preference": preference,
	}, nil
}

// CatalogChanged is the server-side mutation hook: after a bulk import or a
// catalog edit, every menu of the organization is synced using only the
// stored preference — it never prompts and never rewrites the preference.
// It also refreshes the search indexes while the catalog is in hand.
func (s *Service) CatalogChanged(ctx context.Context, orgID string) (map[string]any, error) {
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, notFound("Organization not found")
	}

	menus, err := s.store.ListMenus(ctx, orgID)
	if err != nil {
		return nil, err
	}

	synced := make([]map[string]any, 0, len(menus))
	for _, menu := range menus {
		result, err := s.SyncMenu(ctx, orgID, menu.ID, SyncOptions{})
		if err != nil {
			return nil, fmt.Errorf("sync menu %s: %w", menu.ID, err)
		}
		synced = append(synced, map[string]any{
			"menuId":                 menu.ID,
			"draftChanged":           result.DraftChanged,
			"publishedChanged":       result.PublishedChanged,
			"needsPublishedDecision": result.NeedsPublishedDecision,
		})
	}

	s.reindexCatalog(ctx, orgID)

	return map[string]any{
		"organizationId": orgID,
		"menus":          synced,
	}, nil
}

func (s *Service) reindexCatalog(ctx context.Context, orgID string) {
	if s.search == nil {
		return
	}
	categories, err := s.store.GetCategoriesWithItems(ctx, orgID)
	if err != nil {
		log.Printf("app: reindex categories for org %s: %v", orgID, err)
		return
	}
	solo, err := s.store.GetMenuItemsWithoutCategory(ctx, orgID)
	if err != nil {
		log.Printf("app: reindex items for org %s: %v", orgID, err)
		return
	}

	var categoryRecords []search.CategoryRecord
	var itemRecords []search.ItemRecord
	for _, c := range categories {
		categoryRecords = append(categoryRecords, search.CategoryRecord{
			ID:             c.ID,
			OrganizationID: c.OrganizationID,
			Name:           c.Name,
		})
		for _, it := range c.Items {
			itemRecords = append(itemRecords, itemRecord(it))
		}
	}
	for _, it := range solo {
		itemRecords = append(itemRecords, itemRecord(it))
	}
	s.search.IndexCategories(categoryRecords)
	s.search.IndexItems(itemRecords)
}

func itemRecord(it store.MenuItem) search.ItemRecord {
	record := search.ItemRecord{
		ID:             it.ID,
		OrganizationID: it.OrganizationID,
		Name:           it.Name,
		Description:    it.Description,
		Status:         it.Status,
		Featured:       it.Featured,
	}
	if it.CategoryID != nil {
		record.CategoryID = *it.CategoryID
	}
	return record
}

// ListMenus returns the organization's menus without their documents.
func (s *Service) ListMenus(ctx context.Context, orgID string) ([]map[string]any, error) {
	menus, err := s.store.ListMenus(ctx, orgID)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(menus))
	for _, m := range menus {
		items = append(items, map[string]any{
			"id":        m.ID,
			"name":      m.Name,
			"status":    m.Status,
			"updatedAt": m.UpdatedAt,
		})
	}
	return items, nil
}

// GetMenu returns a menu with its decoded draft document.
func (s *Service) GetMenu(ctx context.Context, orgID, menuID string) (map[string]any, error) {
	menu, err := s.store.GetMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if menu.OrganizationID != orgID {
		return nil, notFound("Menu not found")
	}
	return map[string]any{
		"id":        menu.ID,
		"name":      menu.Name,
		"status":    menu.Status,
		"document":  editor.Decode(menu.SerialData),
		"published": menu.PublishedData != nil,
		"updatedAt": menu.UpdatedAt,
	}, nil
}

// SaveMenuDraft encodes and stores a new draft document.
func (s *Service) SaveMenuDraft(ctx context.Context, orgID, menuID string, doc editor.Document) (map[string]any, error) {
	menu, err := s.store.GetMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if menu.OrganizationID != orgID {
		return nil, notFound("Menu not found")
	}

	encoded, err := editor.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	if err := s.store.UpdateMenuDraft(ctx, menuID, encoded); err != nil {
		return nil, domainError(http.StatusInternalServerError,
			"SAVE_FAILED", "Could not save draft", map[string]any{"menuId": menuID})
	}

	if err := s.cache.InvalidateTags(ctx, cache.MenuTag(menuID)); err != nil {
		log.Printf("app: invalidate menu %s after save: %v", menuID, err)
	}
	return map[string]any{"menuId": menuID, "saved": true}, nil
}

// PublishMenu snapshots the draft into the published slot.
func (s *Service) PublishMenu(ctx context.Context, orgID, menuID string) (map[string]any, error) {
	menu, err := s.store.GetMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if menu.OrganizationID != orgID {
		return nil, notFound("Menu not found")
	}
	if menu.SerialData == nil {
		return nil, domainError(http.StatusUnprocessableEntity,
			"EMPTY_DRAFT", "Cannot publish a menu without a draft document", nil)
	}

	if err := s.store.PublishMenu(ctx, menuID); err != nil {
		return nil, domainError(http.StatusInternalServerError,
			"PUBLISH_FAILED", "Could not publish menu", map[string]any{"menuId": menuID})
	}

	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		log.Printf("app: load org %s for invalidation: %v", orgID, err)
	}
	s.invalidateMenuCaches(ctx, org, orgID, menuID)

	return map[string]any{"menuId": menuID, "status": store.MenuStatusPublished}, nil
}

// SearchCatalog serves the editor's item/category pickers.
func (s *Service) SearchCatalog(q search.Query) search.Response {
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Query: q.Text}
	}
	return s.search.Search(q)
}
