package usecase

import (
	"context"
	"strings"
	"testing"

	"ferreinti-backend/config"
	"ferreinti-backend/internal/domain"
)

type fakeProvider struct {
	lastReq  domain.CheckoutSessionRequest
	sessions map[string]*domain.CheckoutStatus
}

func (f *fakeProvider) CreateSession(ctx context.Context, req domain.CheckoutSessionRequest) (*domain.CheckoutSession, error) {
	f.lastReq = req
	return &domain.CheckoutSession{SessionID: "cs_test_1", URL: "https://pay.example.com/cs_test_1"}, nil
}

func (f *fakeProvider) SessionStatus(ctx context.Context, sessionID string) (*domain.CheckoutStatus, error) {
	if s, ok := f.sessions[sessionID]; ok {
		return s, nil
	}
	return &domain.CheckoutStatus{SessionID: sessionID, Status: "open", PaymentStatus: "unpaid"}, nil
}

func newPaymentFixture() (*PaymentUsecase, *fakeOrderRepo, *fakeProvider) {
	orderRepo := newFakeOrderRepo()
	productRepo := &fakeProductRepo{
		products: map[string]*domain.Product{
			"prod_hammer": {ID: "prod_hammer", Name: "Hammer", Price: 25.00, Stock: 10},
		},
		reviews: map[string][]domain.Review{},
	}
	userRepo := &fakeUserRepo{users: map[string]*domain.User{
		"user_1": {ID: "user_1", Email: "buyer@example.com", Name: "Buyer"},
	}}
	shipping := NewShippingUsecase(&stubSettingsRepo{})
	provider := &fakeProvider{sessions: map[string]*domain.CheckoutStatus{}}
	cfg := &config.Config{FrontendURL: "https://shop.example.com", Currency: "usd"}
	uc := NewPaymentUsecase(orderRepo, productRepo, userRepo, shipping, provider, cfg)
	return uc, orderRepo, provider
}

func TestCreateCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart is rejected", func(t *testing.T) {
		uc, _, _ := newPaymentFixture()
		_, err := uc.CreateCheckout(ctx, "user_1", domain.ShippingAddress{})
		if err == nil || !strings.Contains(err.Error(), "cart is empty") {
			t.Fatalf("err = %v, want cart is empty", err)
		}
	})

	t.Run("totals match the order calculator", func(t *testing.T) {
		uc, orderRepo, provider := newPaymentFixture()
		dest := destAtKm(domain.DefaultShippingConfig(), 10)

		orderRepo.carts["user_1"] = &domain.Cart{
			ID:     "cart_1",
			UserID: "user_1",
			Items:  []domain.CartItem{{ProductID: "prod_hammer", Price: 25.00, Quantity: 2}},
		}

		session, err := uc.CreateCheckout(ctx, "user_1", domain.ShippingAddress{Lat: &dest.Lat, Lng: &dest.Lng})
		if err != nil {
			t.Fatalf("CreateCheckout: %v", err)
		}
		if session.SessionID != "cs_test_1" {
			t.Errorf("session id = %q", session.SessionID)
		}

		// 2 x 25.00 plus 7.50 shipping at 10km
		if provider.lastReq.Amount != 57.50 {
			t.Errorf("amount = %v, want 57.50", provider.lastReq.Amount)
		}
		if provider.lastReq.Currency != "usd" {
			t.Errorf("currency = %q, want usd", provider.lastReq.Currency)
		}
		if !strings.Contains(provider.lastReq.SuccessURL, "{CHECKOUT_SESSION_ID}") {
			t.Errorf("success url %q missing session placeholder", provider.lastReq.SuccessURL)
		}

		txn, err := orderRepo.GetPaymentTransaction(ctx, "cs_test_1")
		if err != nil {
			t.Fatalf("transaction not recorded: %v", err)
		}
		if txn.Status != domain.TransactionStatusInitiated || txn.PaymentStatus != domain.PaymentStatusPending {
			t.Errorf("transaction state = %s/%s", txn.Status, txn.PaymentStatus)
		}
		if txn.ShippingCost != 7.50 || txn.Amount != 57.50 {
			t.Errorf("transaction amounts = %v/%v", txn.ShippingCost, txn.Amount)
		}
	})

	t.Run("removed products are skipped", func(t *testing.T) {
		uc, orderRepo, provider := newPaymentFixture()
		orderRepo.carts["user_1"] = &domain.Cart{
			ID:     "cart_1",
			UserID: "user_1",
			Items: []domain.CartItem{
				{ProductID: "prod_hammer", Price: 25.00, Quantity: 1},
				{ProductID: "prod_gone", Price: 99.00, Quantity: 1},
			},
		}

		if _, err := uc.CreateCheckout(ctx, "user_1", domain.ShippingAddress{}); err != nil {
			t.Fatalf("CreateCheckout: %v", err)
		}
		if provider.lastReq.Amount != 25.00 {
			t.Errorf("amount = %v, want 25.00 with ghost item skipped", provider.lastReq.Amount)
		}
	})

	t.Run("zero total is rejected", func(t *testing.T) {
		uc, orderRepo, _ := newPaymentFixture()
		orderRepo.carts["user_1"] = &domain.Cart{
			ID:     "cart_1",
			UserID: "user_1",
			Items:  []domain.CartItem{{ProductID: "prod_gone", Price: 99.00, Quantity: 1}},
		}

		_, err := uc.CreateCheckout(ctx, "user_1", domain.ShippingAddress{})
		if err == nil || !strings.Contains(err.Error(), "greater than 0") {
			t.Fatalf("err = %v, want total must be greater than 0", err)
		}
	})
}

func TestCheckStatus(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, provider := newPaymentFixture()

	orderRepo.txns["cs_test_1"] = &domain.PaymentTransaction{
		SessionID: "cs_test_1",
		Status:    domain.TransactionStatusInitiated,
	}
	provider.sessions["cs_test_1"] = &domain.CheckoutStatus{
		SessionID:     "cs_test_1",
		Status:        "complete",
		PaymentStatus: "paid",
	}

	status, err := uc.CheckStatus(ctx, "cs_test_1")
	if err != nil {
		t.Fatalf("CheckStatus: %v", err)
	}
	if status.PaymentStatus != "paid" {
		t.Errorf("payment status = %q, want paid", status.PaymentStatus)
	}
	if orderRepo.txns["cs_test_1"].Status != "complete" {
		t.Error("stored transaction not synced with the provider")
	}
}
