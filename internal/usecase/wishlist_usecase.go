package usecase

import (
	"context"

	"ferreinti-backend/internal/domain"
)

type WishlistUsecase struct {
	wishlistRepo domain.WishlistRepository
	productRepo  domain.ProductRepository
}

func NewWishlistUsecase(wishlistRepo domain.WishlistRepository, productRepo domain.ProductRepository) *WishlistUsecase {
	return &WishlistUsecase{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

// getOrCreate returns the user's wishlist, creating it on first use.
func (u *WishlistUsecase) getOrCreate(ctx context.Context, userID string) (*domain.Wishlist, error) {
	w, err := u.wishlistRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return u.wishlistRepo.Create(ctx, userID)
	}
	return w, nil
}

func (u *WishlistUsecase) GetMyWishlist(ctx context.Context, userID string) (*domain.Wishlist, error) {
	w, err := u.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := u.wishlistRepo.GetItems(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	w.Items = items
	return w, nil
}

func (u *WishlistUsecase) AddProduct(ctx context.Context, userID, productID string) error {
	if _, err := u.productRepo.GetByID(ctx, productID); err != nil {
		return err
	}
	w, err := u.getOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return u.wishlistRepo.AddItem(ctx, w.ID, productID)
}

func (u *WishlistUsecase) RemoveProduct(ctx context.Context, userID, productID string) error {
	w, err := u.getOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return u.wishlistRepo.RemoveItem(ctx, w.ID, productID)
}
