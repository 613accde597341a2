// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/navstruct/navcms/internal/cache"
	"github.com/navstruct/navcms/internal/model"
	"github.com/navstruct/navcms/internal/store"
	"github.com/navstruct/navcms/internal/util"
)

// maxAncestorDepth bounds the parent-chain walk. A chain this deep only
// occurs on corrupt data; treat it like a cycle rather than spinning.
const maxAncestorDepth = 100

// PublicMenuItem is the annotated node shape the public frontend consumes.
type PublicMenuItem struct {
	ID         int64             `json:"id"`
	Title      map[string]string `json:"title"`
	Slug       string            `json:"slug,omitempty"`
	Href       string            `json:"href"`
	URL        string            `json:"url,omitempty"`
	IsExternal bool              `json:"isExternal"`
	Position   int64             `json:"order"`
	Children   []PublicMenuItem  `json:"children"`
}

// MenuService maintains the navigation tree: slug derivation and
// cascade, acyclicity, uniqueness, ordering, and public rendering.
// Structural mutations each run in a single database transaction;
// concurrent structural mutations are last-writer-wins.
type MenuService struct {
	db           *sql.DB
	queries      *store.Queries
	uniqueTitles bool
	menuCache    *cache.MenuCache
	pageCache    *cache.PageCache
	logger       *slog.Logger
}

// MenuServiceOptions configures a MenuService.
type MenuServiceOptions struct {
	// UniqueTitles enforces per-locale title uniqueness across active items.
	UniqueTitles bool
	// MenuCache and PageCache, when set, are invalidated on every mutation.
	MenuCache *cache.MenuCache
	PageCache *cache.PageCache
	Logger    *slog.Logger
}

// NewMenuService creates a MenuService.
func NewMenuService(db *sql.DB, opts MenuServiceOptions) *MenuService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuService{
		db:           db,
		queries:      store.New(db),
		uniqueTitles: opts.UniqueTitles,
		menuCache:    opts.MenuCache,
		pageCache:    opts.PageCache,
		logger:       logger,
	}
}

// CreateMenuItemInput holds fields for creating a menu item.
type CreateMenuItemInput struct {
	TitleEn        string
	TitleBn        string
	ParentID       *int64
	IsExternalLink bool
	URL            string
	Position       int64
	IsActive       *bool
}

// UpdateMenuItemInput holds a partial update. Pointer fields are
// applied only when non-nil; SetParent and SetURL distinguish "clear"
// from "leave unchanged".
type UpdateMenuItemInput struct {
	TitleEn        *string
	TitleBn        *string
	SetParent      bool
	ParentID       *int64
	IsExternalLink *bool
	SetURL         bool
	URL            *string
	Position       *int64
	IsActive       *bool
}

// Get fetches a menu item by id.
func (s *MenuService) Get(ctx context.Context, id int64) (model.MenuItem, error) {
	item, err := s.queries.GetMenuItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MenuItem{}, NewNotFoundError("menu item", itoa(id))
	}
	return item, err
}

// List returns all menu items, active or not, for the admin panel.
func (s *MenuService) List(ctx context.Context) ([]model.MenuItem, error) {
	return s.queries.ListMenuItems(ctx)
}

// Create validates and inserts a new menu item. Slug derivation is
// skipped for external-link items.
func (s *MenuService) Create(ctx context.Context, in CreateMenuItemInput) (model.MenuItem, error) {
	if err := validateTitles(in.TitleEn, in.TitleBn); err != nil {
		return model.MenuItem{}, err
	}
	if err := validatePosition(in.Position); err != nil {
		return model.MenuItem{}, err
	}
	if in.URL != "" {
		if err := validateURL(in.URL); err != nil {
			return model.MenuItem{}, err
		}
	}

	var parent *model.MenuItem
	if in.ParentID != nil {
		p, err := s.queries.GetMenuItem(ctx, *in.ParentID)
		if errors.Is(err, sql.ErrNoRows) {
			return model.MenuItem{}, NewNotFoundError("parent menu item", itoa(*in.ParentID))
		}
		if err != nil {
			return model.MenuItem{}, err
		}
		parent = &p
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	external := in.IsExternalLink || in.URL != ""
	var slug sql.NullString
	if !external {
		derived, err := deriveSlug(parent, in.TitleEn)
		if err != nil {
			return model.MenuItem{}, err
		}
		n, err := s.queries.CountMenuItemsBySlug(ctx, derived, 0)
		if err != nil {
			return model.MenuItem{}, err
		}
		if n > 0 {
			return model.MenuItem{}, &DuplicateError{Field: "slug", Value: derived}
		}
		slug = sql.NullString{String: derived, Valid: true}
	}

	if s.uniqueTitles && isActive {
		n, err := s.queries.CountActiveMenuItemsByTitle(ctx, in.TitleEn, in.TitleBn, 0)
		if err != nil {
			return model.MenuItem{}, err
		}
		if n > 0 {
			return model.MenuItem{}, &DuplicateError{Field: "title", Value: in.TitleEn}
		}
	}

	now := time.Now().UTC()
	item, err := s.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		TitleEn:        in.TitleEn,
		TitleBn:        in.TitleBn,
		Slug:           slug,
		ParentID:       util.NullInt64FromPtr(in.ParentID),
		IsExternalLink: in.IsExternalLink,
		URL:            util.NullStringFromValue(in.URL),
		Position:       in.Position,
		IsActive:       isActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return model.MenuItem{}, err
	}

	s.invalidate(ctx)
	return item, nil
}

// Update applies a partial update. Acyclicity is re-validated whenever
// the parent changes, and the slug is recomputed when the title or
// parent changes (unless the item is an external link); a slug change
// cascades to every descendant's slug prefix in the same transaction.
func (s *MenuService) Update(ctx context.Context, id int64, in UpdateMenuItemInput) (model.MenuItem, error) {
	existing, err := s.queries.GetMenuItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MenuItem{}, NewNotFoundError("menu item", itoa(id))
	}
	if err != nil {
		return model.MenuItem{}, err
	}

	next := existing
	titleChanged := false
	if in.TitleEn != nil {
		titleChanged = titleChanged || *in.TitleEn != existing.TitleEn
		next.TitleEn = *in.TitleEn
	}
	if in.TitleBn != nil {
		next.TitleBn = *in.TitleBn
	}
	parentChanged := false
	if in.SetParent {
		next.ParentID = util.NullInt64FromPtr(in.ParentID)
		parentChanged = next.ParentID.Valid != existing.ParentID.Valid ||
			(next.ParentID.Valid && next.ParentID.Int64 != existing.ParentID.Int64)
	}
	if in.IsExternalLink != nil {
		next.IsExternalLink = *in.IsExternalLink
	}
	if in.SetURL {
		next.URL = util.NullStringFromPtr(in.URL)
	}
	if in.Position != nil {
		next.Position = *in.Position
	}
	if in.IsActive != nil {
		next.IsActive = *in.IsActive
	}

	if err := validateTitles(next.TitleEn, next.TitleBn); err != nil {
		return model.MenuItem{}, err
	}
	if err := validatePosition(next.Position); err != nil {
		return model.MenuItem{}, err
	}
	if next.URL.Valid && next.URL.String != "" {
		if err := validateURL(next.URL.String); err != nil {
			return model.MenuItem{}, err
		}
	}

	// Fail fast, before any write: parent existence and acyclicity.
	var parent *model.MenuItem
	if next.ParentID.Valid {
		p, err := s.queries.GetMenuItem(ctx, next.ParentID.Int64)
		if errors.Is(err, sql.ErrNoRows) {
			return model.MenuItem{}, NewNotFoundError("parent menu item", itoa(next.ParentID.Int64))
		}
		if err != nil {
			return model.MenuItem{}, err
		}
		parent = &p
		if parentChanged {
			if err := s.checkAncestry(ctx, id, p); err != nil {
				return model.MenuItem{}, err
			}
		}
	}

	external := next.IsExternalLink || (next.URL.Valid && next.URL.String != "")
	if !external && (titleChanged || parentChanged || !existing.Slug.Valid) {
		derived, err := deriveSlug(parent, next.TitleEn)
		if err != nil {
			return model.MenuItem{}, err
		}
		n, err := s.queries.CountMenuItemsBySlug(ctx, derived, id)
		if err != nil {
			return model.MenuItem{}, err
		}
		if n > 0 {
			return model.MenuItem{}, &DuplicateError{Field: "slug", Value: derived}
		}
		next.Slug = sql.NullString{String: derived, Valid: true}
	}

	if s.uniqueTitles && next.IsActive {
		n, err := s.queries.CountActiveMenuItemsByTitle(ctx, next.TitleEn, next.TitleBn, id)
		if err != nil {
			return model.MenuItem{}, err
		}
		if n > 0 {
			return model.MenuItem{}, &DuplicateError{Field: "title", Value: next.TitleEn}
		}
	}

	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.MenuItem{}, err
	}
	defer func() { _ = tx.Rollback() }()
	q := s.queries.WithTx(tx)

	if err := q.UpdateMenuItem(ctx, store.UpdateMenuItemParams{
		ID:             id,
		TitleEn:        next.TitleEn,
		TitleBn:        next.TitleBn,
		Slug:           next.Slug,
		ParentID:       next.ParentID,
		IsExternalLink: next.IsExternalLink,
		URL:            next.URL,
		Position:       next.Position,
		IsActive:       next.IsActive,
		UpdatedAt:      now,
	}); err != nil {
		return model.MenuItem{}, err
	}

	slugChanged := existing.Slug.Valid && next.Slug.Valid && existing.Slug.String != next.Slug.String
	if slugChanged {
		if err := s.reslugSubtree(ctx, q, id, existing.Slug.String, next.Slug.String, now); err != nil {
			s.logger.Error("slug cascade failed, rolling back",
				"category", model.EventCategoryMenu, "id", id, "error", err)
			return model.MenuItem{}, &CascadeError{Op: "reslug", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return model.MenuItem{}, err
	}

	s.invalidate(ctx)
	return s.queries.GetMenuItem(ctx, id)
}

// Delete removes an item and relinks its children: they are reparented
// to the deleted item's former parent (or promoted to root), and slug
// prefixes inherited from the deleted item are rewritten to the new
// effective parent's slug. The whole cascade and the deletion commit as
// one transaction; re-running the relink on an already-consistent
// subtree is a no-op.
func (s *MenuService) Delete(ctx context.Context, id int64) error {
	node, err := s.queries.GetMenuItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return NewNotFoundError("menu item", itoa(id))
	}
	if err != nil {
		return err
	}

	newParent := node.ParentID
	newPrefix := ""
	if node.ParentID.Valid {
		gp, err := s.queries.GetMenuItem(ctx, node.ParentID.Int64)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Dangling parent reference; promote the children to root.
			newParent = sql.NullInt64{}
		case err != nil:
			return err
		case gp.Slug.Valid:
			newPrefix = gp.Slug.String
		}
	}

	children, err := s.queries.ListMenuItemChildren(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	q := s.queries.WithTx(tx)

	for _, child := range children {
		newSlug := child.Slug
		if child.Slug.Valid && node.Slug.Valid && strings.HasPrefix(child.Slug.String, node.Slug.String+"/") {
			composed := newPrefix + strings.TrimPrefix(child.Slug.String, node.Slug.String)
			newSlug = sql.NullString{String: composed, Valid: true}
		}
		if err := q.RelinkMenuItem(ctx, store.RelinkMenuItemParams{
			ID:        child.ID,
			ParentID:  newParent,
			Slug:      newSlug,
			UpdatedAt: now,
		}); err != nil {
			s.logger.Error("child relink failed, rolling back",
				"category", model.EventCategoryMenu, "deleted_id", id,
				"child_id", child.ID, "error", err)
			return &CascadeError{Op: "relink", Err: err}
		}
		if child.Slug.Valid && newSlug.Valid && child.Slug.String != newSlug.String {
			if err := s.reslugSubtree(ctx, q, child.ID, child.Slug.String, newSlug.String, now); err != nil {
				s.logger.Error("descendant reslug failed, rolling back",
					"category", model.EventCategoryMenu, "deleted_id", id,
					"child_id", child.ID, "error", err)
				return &CascadeError{Op: "reslug", Err: err}
			}
		}
	}

	if err := q.DeleteMenuItem(ctx, id); err != nil {
		return &CascadeError{Op: "delete", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &CascadeError{Op: "commit", Err: err}
	}

	s.invalidate(ctx)
	return nil
}

// Reorder assigns position = index for each id, in one transaction.
func (s *MenuService) Reorder(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return NewValidationError("items", "ordered id list must not be empty")
	}

	// Read-validate before writing anything.
	for _, id := range ids {
		if _, err := s.queries.GetMenuItem(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return NewNotFoundError("menu item", itoa(id))
			}
			return err
		}
	}

	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	q := s.queries.WithTx(tx)

	for i, id := range ids {
		if err := q.UpdateMenuItemPosition(ctx, id, int64(i), now); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

// ListActive returns all active menu items ordered by position, using
// the menu cache when available.
func (s *MenuService) ListActive(ctx context.Context) ([]model.MenuItem, error) {
	if s.menuCache != nil {
		if items, ok := s.menuCache.Get(ctx); ok {
			return items, nil
		}
	}
	items, err := s.queries.ListActiveMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	if s.menuCache != nil {
		s.menuCache.Set(ctx, items)
	}
	return items, nil
}

// RenderPublicTree assembles the ordered forest of active menu items.
// Each node gets href = /pages/{slug} when its slug belongs to a
// published, active page, and the conservative fallback "/" otherwise.
func (s *MenuService) RenderPublicTree(ctx context.Context) ([]PublicMenuItem, error) {
	items, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	slugs, err := s.queries.ListPublishedPageSlugs(ctx)
	if err != nil {
		return nil, err
	}
	published := make(map[string]struct{}, len(slugs))
	for _, sl := range slugs {
		published[util.NormalizeSlugPath(sl)] = struct{}{}
	}

	// Adjacency map keyed by parent id (0 = roots); items arrive
	// ordered by position, so each child list stays ordered.
	childrenOf := make(map[int64][]model.MenuItem)
	for _, item := range items {
		key := int64(0)
		if item.ParentID.Valid {
			key = item.ParentID.Int64
		}
		childrenOf[key] = append(childrenOf[key], item)
	}

	var build func(m model.MenuItem) PublicMenuItem
	build = func(m model.MenuItem) PublicMenuItem {
		node := PublicMenuItem{
			ID: m.ID,
			Title: map[string]string{
				model.LocaleEn: m.TitleEn,
				model.LocaleBn: m.TitleBn,
			},
			Href:       "/",
			IsExternal: m.URL.Valid && strings.HasPrefix(m.URL.String, "http"),
			Position:   m.Position,
			Children:   []PublicMenuItem{},
		}
		if m.Slug.Valid {
			node.Slug = m.Slug.String
			normalized := util.NormalizeSlugPath(m.Slug.String)
			if _, ok := published[normalized]; ok {
				node.Href = "/pages/" + normalized
			}
		}
		if m.URL.Valid {
			node.URL = m.URL.String
		}
		for _, child := range childrenOf[m.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	roots := childrenOf[0]
	forest := make([]PublicMenuItem, 0, len(roots))
	for _, root := range roots {
		forest = append(forest, build(root))
	}
	return forest, nil
}

// checkAncestry walks upward from the proposed parent and fails with a
// CycleError if the node's own id appears in the chain. Runs before any
// write so a rejected reparenting leaves the store unmodified.
func (s *MenuService) checkAncestry(ctx context.Context, nodeID int64, parent model.MenuItem) error {
	cur := parent
	for depth := 0; depth < maxAncestorDepth; depth++ {
		if cur.ID == nodeID {
			return &CycleError{NodeID: nodeID, ParentID: parent.ID}
		}
		if !cur.ParentID.Valid {
			return nil
		}
		next, err := s.queries.GetMenuItem(ctx, cur.ParentID.Int64)
		if errors.Is(err, sql.ErrNoRows) {
			// Chain ends at a dangling reference; no cycle possible.
			return nil
		}
		if err != nil {
			return err
		}
		cur = next
	}
	return &CycleError{NodeID: nodeID, ParentID: parent.ID}
}

// reslugSubtree rewrites the slug prefix oldPrefix -> newPrefix on
// every descendant of parentID. The match stops at a path boundary, so
// a descendant already carrying the new prefix is left untouched and
// the rewrite is safe to re-run.
func (s *MenuService) reslugSubtree(ctx context.Context, q *store.Queries, parentID int64, oldPrefix, newPrefix string, now time.Time) error {
	children, err := q.ListMenuItemChildren(ctx, parentID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if child.Slug.Valid && strings.HasPrefix(child.Slug.String, oldPrefix+"/") {
			rewritten := newPrefix + strings.TrimPrefix(child.Slug.String, oldPrefix)
			if rewritten != child.Slug.String {
				slug := sql.NullString{String: rewritten, Valid: true}
				if err := q.UpdateMenuItemSlug(ctx, child.ID, slug, now); err != nil {
					return err
				}
			}
		}
		if err := s.reslugSubtree(ctx, q, child.ID, oldPrefix, newPrefix, now); err != nil {
			return err
		}
	}
	return nil
}

// FlushCache drops the cached menu tree and resolved pages. Callers
// that write around the service, such as content import, use it to
// keep reads consistent.
func (s *MenuService) FlushCache(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *MenuService) invalidate(ctx context.Context) {
	if s.menuCache != nil {
		s.menuCache.Invalidate(ctx)
	}
	if s.pageCache != nil {
		s.pageCache.Invalidate(ctx)
	}
}

func validateTitles(titleEn, titleBn string) error {
	if strings.TrimSpace(titleEn) == "" {
		return NewValidationError("titleEn", "title is required")
	}
	if strings.TrimSpace(titleBn) == "" {
		return NewValidationError("titleBn", "title is required")
	}
	if utf8.RuneCountInString(titleEn) > model.MaxTitleLength {
		return NewValidationError("titleEn", "title exceeds 200 characters")
	}
	if utf8.RuneCountInString(titleBn) > model.MaxTitleLength {
		return NewValidationError("titleBn", "title exceeds 200 characters")
	}
	return nil
}

func validatePosition(position int64) error {
	if position < 0 || position > model.MaxPosition {
		return NewValidationError("order", "order must be between 0 and 999999")
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return NewValidationError("url", "url must be a well-formed http(s) URL")
	}
	return nil
}

// deriveSlug builds a node's full slug from its parent's slug and the
// English title. An empty derived segment is rejected rather than
// producing a degenerate slug.
func deriveSlug(parent *model.MenuItem, titleEn string) (string, error) {
	segment := util.Slugify(titleEn)
	if segment == "" {
		return "", NewValidationError("titleEn", "title yields an empty slug")
	}
	parentSlug := ""
	if parent != nil && parent.Slug.Valid {
		parentSlug = parent.Slug.String
	}
	return util.ComposeSlug(parentSlug, segment), nil
}
