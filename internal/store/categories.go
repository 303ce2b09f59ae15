package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gosimple/slug"

	"github.com/iyanhz/gostore/internal/models"
)

// ListCategories returns all categories flat, ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT id, name, slug, parent_id, created_at, updated_at FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CategoryTree returns root categories with their descendants nested.
func (s *Store) CategoryTree(ctx context.Context) ([]models.Category, error) {
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return buildCategoryTree(cats), nil
}

// buildCategoryTree assembles the parent/child hierarchy from a flat
// list. Orphans (parent row missing) are dropped rather than promoted.
// Recursion only descends from roots, so a malformed cycle in the data
// is unreachable and simply omitted.
func buildCategoryTree(cats []models.Category) []models.Category {
	childrenOf := make(map[int64][]models.Category, len(cats))
	for _, c := range cats {
		if c.ParentID != nil {
			childrenOf[*c.ParentID] = append(childrenOf[*c.ParentID], c)
		}
	}

	var attach func(c models.Category) models.Category
	attach = func(c models.Category) models.Category {
		c.Children = []models.Category{}
		for _, child := range childrenOf[c.ID] {
			c.Children = append(c.Children, attach(child))
		}
		return c
	}

	var roots []models.Category
	for _, c := range cats {
		if c.ParentID == nil {
			roots = append(roots, attach(c))
		}
	}
	return roots
}

// RootCategories returns categories without a parent, with one level of
// children attached.
func (s *Store) RootCategories(ctx context.Context) ([]models.Category, error) {
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	var roots []models.Category
	for _, c := range cats {
		if c.ParentID != nil {
			continue
		}
		c.Children = []models.Category{}
		for _, child := range cats {
			if child.ParentID != nil && *child.ParentID == c.ID {
				c.Children = append(c.Children, child)
			}
		}
		roots = append(roots, c)
	}
	return roots, nil
}

// GetCategory returns one category with its direct children.
func (s *Store) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, name, slug, parent_id, created_at, updated_at FROM categories WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		"SELECT id, name, slug, parent_id, created_at, updated_at FROM categories WHERE parent_id = ? ORDER BY name ASC", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c.Children = []models.Category{}
	for rows.Next() {
		var child models.Category
		if err := rows.Scan(&child.ID, &child.Name, &child.Slug, &child.ParentID, &child.CreatedAt, &child.UpdatedAt); err != nil {
			return nil, err
		}
		c.Children = append(c.Children, child)
	}
	return &c, rows.Err()
}

// CreateCategory inserts a category. A non-nil parent must exist.
func (s *Store) CreateCategory(ctx context.Context, name string, parentID *int64) (*models.Category, error) {
	if parentID != nil {
		var exists int
		err := s.DB.QueryRowContext(ctx, "SELECT 1 FROM categories WHERE id = ?", *parentID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	catSlug := slug.Make(name)
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO categories (name, slug, parent_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		name, catSlug, parentID, now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Category{
		ID: id, Name: name, Slug: catSlug, ParentID: parentID,
		CreatedAt: now, UpdatedAt: now,
	}, nil
}

// UpdateCategory renames and/or re-parents a category. Re-parenting to
// itself or to any of its descendants is rejected.
func (s *Store) UpdateCategory(ctx context.Context, id int64, name string, parentID *int64) (*models.Category, error) {
	if parentID != nil {
		var exists int
		err := s.DB.QueryRowContext(ctx, "SELECT 1 FROM categories WHERE id = ?", *parentID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, err
		}

		circular, err := s.wouldCreateCycle(ctx, id, *parentID)
		if err != nil {
			return nil, err
		}
		if circular {
			return nil, ErrCircularCategory
		}
	}

	catSlug := slug.Make(name)
	res, err := s.DB.ExecContext(ctx,
		"UPDATE categories SET name = ?, slug = ?, parent_id = ?, updated_at = ? WHERE id = ?",
		name, catSlug, parentID, time.Now(), id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return s.GetCategory(ctx, id)
}

// wouldCreateCycle walks the ancestry of newParentID looking for id.
// The visited set guards against malformed data already containing a
// loop, which would otherwise walk forever.
func (s *Store) wouldCreateCycle(ctx context.Context, id, newParentID int64) (bool, error) {
	if id == newParentID {
		return true, nil
	}

	visited := map[int64]bool{}
	current := newParentID
	for {
		if visited[current] {
			return true, nil
		}
		visited[current] = true

		var parent *int64
		err := s.DB.QueryRowContext(ctx, "SELECT parent_id FROM categories WHERE id = ?", current).Scan(&parent)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return false, nil
			}
			return false, err
		}
		if parent == nil {
			return false, nil
		}
		if *parent == id {
			return true, nil
		}
		current = *parent
	}
}

// DeleteCategory removes a category. Deletion is refused while the
// category still has children.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	var children int
	err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories WHERE parent_id = ?", id).Scan(&children)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrCategoryHasChildren
	}

	res, err := s.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
