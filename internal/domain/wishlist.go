package domain

import (
	"context"
	"time"
)

type Wishlist struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Items     []WishlistItem `json:"items"`
	CreatedAt time.Time      `json:"createdAt"`
}

type WishlistItem struct {
	ProductID string    `json:"productId"`
	Product   Product   `json:"product"`
	AddedAt   time.Time `json:"addedAt"`
}

type WishlistRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Wishlist, error)
	Create(ctx context.Context, userID string) (*Wishlist, error)
	GetItems(ctx context.Context, wishlistID string) ([]WishlistItem, error)
	AddItem(ctx context.Context, wishlistID, productID string) error
	RemoveItem(ctx context.Context, wishlistID, productID string) error
}
