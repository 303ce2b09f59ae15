package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/iyanhz/gostore/internal/models"
)

// ProductFilter narrows ListProducts. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID *int64
	Search     string
	Page       int
	Limit      int
}

const productColumns = `p.id, p.user_id, p.category_id, p.name, p.slug, p.description, p.price, p.sale_price, p.stock, p.created_at, p.updated_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.UserID, &p.CategoryID, &p.Name, &p.Slug, &p.Description,
		&p.Price, &p.SalePrice, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListProducts returns products with their categories and images, main
// image first. Filters and paging are applied in SQL.
func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.CategoryID != nil {
		where = append(where, "p.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.Search != "" {
		where = append(where, "(p.name LIKE ? OR p.description LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}

	query := "SELECT " + productColumns + " FROM products p"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.created_at DESC"

	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, (page-1)*f.Limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		if err := s.attachProductRelations(ctx, &products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

// GetProduct returns one product with category and images.
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products p WHERE p.id = ?", id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, err
	}
	if err := s.attachProductRelations(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) attachProductRelations(ctx context.Context, p *models.Product) error {
	if p.CategoryID != nil {
		var c models.Category
		err := s.DB.QueryRowContext(ctx,
			"SELECT id, name, slug, parent_id, created_at, updated_at FROM categories WHERE id = ?", *p.CategoryID).
			Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err == nil {
			p.Category = &c
		}
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, product_id, image_url, is_main, created_at
		FROM product_images WHERE product_id = ?
		ORDER BY is_main DESC, id ASC`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	p.Images = []models.ProductImage{}
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.IsMain, &img.CreatedAt); err != nil {
			return err
		}
		p.Images = append(p.Images, img)
	}
	return rows.Err()
}

// CreateProduct inserts a product and its images in one transaction.
// The first image becomes the main image.
func (s *Store) CreateProduct(ctx context.Context, userID int64, in models.CreateProductInput, imageURLs []string) (*models.Product, error) {
	if in.CategoryID != nil {
		var exists int
		err := s.DB.QueryRowContext(ctx, "SELECT 1 FROM categories WHERE id = ?", *in.CategoryID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, err
		}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO products (user_id, category_id, name, slug, description, price, sale_price, stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, in.CategoryID, in.Name, slug.Make(in.Name), in.Description,
		in.Price, in.SalePrice, *in.Stock, now, now)
	if err != nil {
		return nil, err
	}
	productID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	for i, url := range imageURLs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO product_images (product_id, image_url, is_main, created_at) VALUES (?, ?, ?, ?)",
			productID, url, i == 0, now)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, productID)
}

// UpdateProduct rewrites the editable fields of a product.
func (s *Store) UpdateProduct(ctx context.Context, id int64, in models.UpdateProductInput) (*models.Product, error) {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE products
		SET name = ?, slug = ?, description = ?, price = ?, sale_price = ?, stock = ?, category_id = ?, updated_at = ?
		WHERE id = ?`,
		in.Name, slug.Make(in.Name), in.Description, in.Price, in.SalePrice, in.Stock, in.CategoryID, time.Now(), id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product and its image rows in one transaction,
// images first to satisfy the foreign key.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM product_images WHERE product_id = ?", id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// AddProductImages appends images to an existing product. New images are
// never main; use SetMainImage to promote one.
func (s *Store) AddProductImages(ctx context.Context, productID int64, imageURLs []string) (*models.Product, error) {
	var exists int
	err := s.DB.QueryRowContext(ctx, "SELECT 1 FROM products WHERE id = ?", productID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, url := range imageURLs {
		_, err := s.DB.ExecContext(ctx,
			"INSERT INTO product_images (product_id, image_url, is_main, created_at) VALUES (?, ?, FALSE, ?)",
			productID, url, now)
		if err != nil {
			return nil, err
		}
	}
	return s.GetProduct(ctx, productID)
}

// SetMainImage flags one image as main. Demote-all then promote-one runs
// in a single transaction so the one-main invariant holds.
func (s *Store) SetMainImage(ctx context.Context, productID, imageID int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE product_images SET is_main = FALSE WHERE product_id = ?", productID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE product_images SET is_main = TRUE WHERE id = ? AND product_id = ?", imageID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// DeleteProductImage removes a single image row.
func (s *Store) DeleteProductImage(ctx context.Context, imageID int64) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM product_images WHERE id = ?", imageID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
