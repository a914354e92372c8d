package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ferreinti-backend/config"
	"ferreinti-backend/internal/domain"
	"ferreinti-backend/pkg/utils"
)

type PaymentUsecase struct {
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	userRepo    domain.UserRepository
	shipping    *ShippingUsecase
	provider    domain.PaymentProvider
	cfg         *config.Config
}

func NewPaymentUsecase(orderRepo domain.OrderRepository, productRepo domain.ProductRepository, userRepo domain.UserRepository, shipping *ShippingUsecase, provider domain.PaymentProvider, cfg *config.Config) *PaymentUsecase {
	return &PaymentUsecase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		shipping:    shipping,
		provider:    provider,
		cfg:         cfg,
	}
}

// CreateCheckout prices the user's cart and opens a hosted-checkout
// session. Shipping uses the same calculator as order creation, so a
// checkout total and an order total for the same address always agree.
func (u *PaymentUsecase) CreateCheckout(ctx context.Context, userID string, address domain.ShippingAddress) (*domain.CheckoutSession, error) {
	if u.provider == nil {
		return nil, fmt.Errorf("payments are not configured")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart, err := u.orderRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	// Price from the live catalog, skipping products that have been
	// removed since the cart was saved.
	var subtotal float64
	for _, item := range cart.Items {
		product, err := u.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			slog.Warn("Usecase: CreateCheckout - skipping missing product", "product_id", item.ProductID)
			continue
		}
		subtotal += product.Price * float64(item.Quantity)
	}

	var shippingCost float64
	if address.HasCoordinates() {
		quote := u.shipping.Quote(ctx, domain.Destination{Lat: *address.Lat, Lng: *address.Lng})
		shippingCost = quote.Cost
	}

	total := round2(subtotal + shippingCost)
	if total <= 0 {
		return nil, fmt.Errorf("total must be greater than 0")
	}

	session, err := u.provider.CreateSession(ctx, domain.CheckoutSessionRequest{
		Amount:     total,
		Currency:   u.cfg.Currency,
		SuccessURL: u.cfg.FrontendURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  u.cfg.FrontendURL + "/checkout/cancel",
		Metadata: map[string]string{
			"userId":    user.ID,
			"userEmail": user.Email,
		},
	})
	if err != nil {
		slog.Error("Usecase: CreateCheckout - provider session failed", "user_id", userID, "error", err)
		return nil, err
	}

	txn := &domain.PaymentTransaction{
		ID:              utils.GenerateID("txn"),
		SessionID:       session.SessionID,
		UserID:          user.ID,
		UserEmail:       user.Email,
		Subtotal:        round2(subtotal),
		ShippingCost:    round2(shippingCost),
		Amount:          total,
		Currency:        u.cfg.Currency,
		Status:          domain.TransactionStatusInitiated,
		PaymentStatus:   domain.PaymentStatusPending,
		ShippingAddress: address,
	}
	if err := u.orderRepo.CreatePaymentTransaction(ctx, txn); err != nil {
		slog.Error("Usecase: CreateCheckout - recording transaction failed", "session_id", session.SessionID, "error", err)
		return nil, err
	}

	return session, nil
}

// CheckStatus polls the provider for a session and syncs the stored
// transaction record.
func (u *PaymentUsecase) CheckStatus(ctx context.Context, sessionID string) (*domain.CheckoutStatus, error) {
	if u.provider == nil {
		return nil, fmt.Errorf("payments are not configured")
	}

	status, err := u.provider.SessionStatus(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := u.orderRepo.UpdatePaymentTransaction(ctx, sessionID, status.Status, status.PaymentStatus); err != nil {
		slog.Error("Usecase: CheckStatus - updating transaction failed", "session_id", sessionID, "error", err)
	}
	return status, nil
}

// GetTransaction returns the stored transaction for a session.
func (u *PaymentUsecase) GetTransaction(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error) {
	return u.orderRepo.GetPaymentTransaction(ctx, sessionID)
}
