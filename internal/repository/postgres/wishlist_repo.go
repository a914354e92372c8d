package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ferreinti-backend/internal/domain"
	"ferreinti-backend/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type wishlistRepository struct {
	db *pgxpool.Pool
}

func NewWishlistRepository(db *pgxpool.Pool) domain.WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wishlist, error) {
	var w domain.Wishlist
	err := queries(ctx, r.db).QueryRow(ctx,
		`SELECT id, user_id, created_at FROM wishlists WHERE user_id = $1`, userID,
	).Scan(&w.ID, &w.UserID, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *wishlistRepository) Create(ctx context.Context, userID string) (*domain.Wishlist, error) {
	w := domain.Wishlist{ID: utils.GenerateID("wish"), UserID: userID}
	err := queries(ctx, r.db).QueryRow(ctx, `
		INSERT INTO wishlists (id, user_id) VALUES ($1, $2)
		RETURNING created_at`,
		w.ID, w.UserID,
	).Scan(&w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *wishlistRepository) GetItems(ctx context.Context, wishlistID string) ([]domain.WishlistItem, error) {
	rows, err := queries(ctx, r.db).Query(ctx, `
		SELECT wi.product_id, wi.added_at, p.name, p.slug, p.price, p.stock, p.images
		FROM wishlist_items wi
		JOIN products p ON p.id = wi.product_id
		WHERE wi.wishlist_id = $1
		ORDER BY wi.added_at DESC`, wishlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.WishlistItem, 0)
	for rows.Next() {
		var item domain.WishlistItem
		var images []byte
		if err := rows.Scan(&item.ProductID, &item.AddedAt, &item.Product.Name,
			&item.Product.Slug, &item.Product.Price, &item.Product.Stock, &images); err != nil {
			return nil, err
		}
		item.Product.ID = item.ProductID
		if len(images) > 0 {
			if err := json.Unmarshal(images, &item.Product.Images); err != nil {
				return nil, fmt.Errorf("decode product images: %w", err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *wishlistRepository) AddItem(ctx context.Context, wishlistID, productID string) error {
	_, err := queries(ctx, r.db).Exec(ctx, `
		INSERT INTO wishlist_items (wishlist_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (wishlist_id, product_id) DO NOTHING`,
		wishlistID, productID)
	return err
}

func (r *wishlistRepository) RemoveItem(ctx context.Context, wishlistID, productID string) error {
	_, err := queries(ctx, r.db).Exec(ctx,
		`DELETE FROM wishlist_items WHERE wishlist_id = $1 AND product_id = $2`,
		wishlistID, productID)
	return err
}
