package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ferreinti-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

// --- Categories ---

func (r *productRepository) GetCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := queries(ctx, r.db).Query(ctx,
		`SELECT id, name, slug, image, icon, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Image, &c.Icon, &c.CreatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *productRepository) CreateCategory(ctx context.Context, cat *domain.Category) error {
	return queries(ctx, r.db).QueryRow(ctx, `
		INSERT INTO categories (id, name, slug, image, icon)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		cat.ID, cat.Name, cat.Slug, cat.Image, cat.Icon,
	).Scan(&cat.CreatedAt)
}

func (r *productRepository) UpdateCategory(ctx context.Context, cat *domain.Category) error {
	tag, err := queries(ctx, r.db).Exec(ctx, `
		UPDATE categories SET name = $2, slug = $3, image = $4, icon = $5 WHERE id = $1`,
		cat.ID, cat.Name, cat.Slug, cat.Image, cat.Icon,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s not found", cat.ID)
	}
	return nil
}

func (r *productRepository) DeleteCategory(ctx context.Context, id string) error {
	_, err := queries(ctx, r.db).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

// --- Products ---

const productColumns = `id, category_id, name, slug, description, price, stock,
	images, featured, rating, review_count, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var images []byte
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description,
		&p.Price, &p.Stock, &images, &p.Featured, &p.Rating, &p.ReviewCount,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, fmt.Errorf("decode product images: %w", err)
		}
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	where := ` WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", idx, idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	if filter.CategoryID != "" {
		where += fmt.Sprintf(" AND category_id = $%d", idx)
		args = append(args, filter.CategoryID)
		idx++
	}
	if filter.Featured != nil {
		where += fmt.Sprintf(" AND featured = $%d", idx)
		args = append(args, *filter.Featured)
		idx++
	}

	var total int64
	if err := queries(ctx, r.db).QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}
	sql := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := queries(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := queries(ctx, r.db).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("product %s not found", id)
	}
	return p, err
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	row := queries(ctx, r.db).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("product %s not found", slug)
	}
	return p, err
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	return queries(ctx, r.db).QueryRow(ctx, `
		INSERT INTO products (id, category_id, name, slug, description, price, stock, images, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		p.ID, p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.Stock, images, p.Featured,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	tag, err := queries(ctx, r.db).Exec(ctx, `
		UPDATE products
		SET category_id = $2, name = $3, slug = $4, description = $5,
		    price = $6, stock = $7, images = $8, featured = $9, updated_at = now()
		WHERE id = $1`,
		p.ID, p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.Stock, images, p.Featured,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", p.ID)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	_, err := queries(ctx, r.db).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

// AdjustStock applies a signed delta atomically. The stock >= 0 guard in
// the WHERE clause makes oversells fail instead of going negative.
func (r *productRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	tag, err := queries(ctx, r.db).Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0`,
		id, delta,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insufficient stock for product %s", id)
	}
	return nil
}

// --- Reviews ---

func (r *productRepository) GetReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	rows, err := queries(ctx, r.db).Query(ctx, `
		SELECT id, product_id, user_id, user_name, rating, comment, created_at
		FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *productRepository) CreateReview(ctx context.Context, review *domain.Review) error {
	return queries(ctx, r.db).QueryRow(ctx, `
		INSERT INTO reviews (id, product_id, user_id, user_name, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		review.ID, review.ProductID, review.UserID, review.UserName, review.Rating, review.Comment,
	).Scan(&review.CreatedAt)
}

func (r *productRepository) UpdateRating(ctx context.Context, productID string, rating float64, count int) error {
	_, err := queries(ctx, r.db).Exec(ctx, `
		UPDATE products SET rating = $2, review_count = $3, updated_at = now() WHERE id = $1`,
		productID, rating, count,
	)
	return err
}
