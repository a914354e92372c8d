package usecase

import (
	"context"
	"strings"
	"testing"

	"ferreinti-backend/internal/domain"
)

// --- fakes ---

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errNotFound("user", id)
}

func (f *fakeUserRepo) GetAll(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	out := make([]*domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

type fakeProductRepo struct {
	products map[string]*domain.Product
	reviews  map[string][]domain.Review
}

func (f *fakeProductRepo) GetCategories(ctx context.Context) ([]domain.Category, error) {
	return nil, nil
}
func (f *fakeProductRepo) CreateCategory(ctx context.Context, c *domain.Category) error { return nil }
func (f *fakeProductRepo) UpdateCategory(ctx context.Context, c *domain.Category) error { return nil }
func (f *fakeProductRepo) DeleteCategory(ctx context.Context, id string) error          { return nil }

func (f *fakeProductRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if p, ok := f.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, errNotFound("product", id)
}

func (f *fakeProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return nil, errNotFound("product", slug)
}

func (f *fakeProductRepo) Create(ctx context.Context, p *domain.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p *domain.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	p, ok := f.products[id]
	if !ok {
		return errNotFound("product", id)
	}
	if p.Stock+delta < 0 {
		return errNotFound("stock for product", id)
	}
	p.Stock += delta
	return nil
}

func (f *fakeProductRepo) GetReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	return f.reviews[productID], nil
}

func (f *fakeProductRepo) CreateReview(ctx context.Context, r *domain.Review) error {
	f.reviews[r.ProductID] = append(f.reviews[r.ProductID], *r)
	return nil
}

func (f *fakeProductRepo) UpdateRating(ctx context.Context, productID string, rating float64, count int) error {
	if p, ok := f.products[productID]; ok {
		p.Rating = rating
		p.ReviewCount = count
	}
	return nil
}

type fakeOrderRepo struct {
	orders map[string]*domain.Order
	carts  map[string]*domain.Cart
	txns   map[string]*domain.PaymentTransaction
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: map[string]*domain.Order{},
		carts:  map[string]*domain.Cart{},
		txns:   map[string]*domain.PaymentTransaction{},
	}
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, o *domain.Order) error {
	f.orders[o.ID] = o
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, errNotFound("order", id)
}

func (f *fakeOrderRepo) GetByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) GetAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	var out []domain.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	o, ok := f.orders[id]
	if !ok {
		return errNotFound("order", id)
	}
	o.Status = status
	return nil
}

func (f *fakeOrderRepo) GetCartByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	return f.carts[userID], nil
}

func (f *fakeOrderRepo) SaveCart(ctx context.Context, cart *domain.Cart) error {
	f.carts[cart.UserID] = cart
	return nil
}

func (f *fakeOrderRepo) ClearCart(ctx context.Context, userID string) error {
	if c, ok := f.carts[userID]; ok {
		c.Items = []domain.CartItem{}
	}
	return nil
}

func (f *fakeOrderRepo) CreatePaymentTransaction(ctx context.Context, txn *domain.PaymentTransaction) error {
	f.txns[txn.SessionID] = txn
	return nil
}

func (f *fakeOrderRepo) UpdatePaymentTransaction(ctx context.Context, sessionID, status, paymentStatus string) error {
	txn, ok := f.txns[sessionID]
	if !ok {
		return errNotFound("transaction", sessionID)
	}
	txn.Status = status
	txn.PaymentStatus = paymentStatus
	return nil
}

func (f *fakeOrderRepo) GetPaymentTransaction(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error) {
	if txn, ok := f.txns[sessionID]; ok {
		return txn, nil
	}
	return nil, errNotFound("transaction", sessionID)
}

type notFoundErr struct{ what, id string }

func (e notFoundErr) Error() string { return e.what + " " + e.id + " not found" }

func errNotFound(what, id string) error { return notFoundErr{what, id} }

// --- test fixtures ---

func newOrderFixture() (*OrderUsecase, *fakeOrderRepo, *fakeProductRepo) {
	orderRepo := newFakeOrderRepo()
	productRepo := &fakeProductRepo{
		products: map[string]*domain.Product{
			"prod_hammer": {ID: "prod_hammer", Name: "Hammer", Price: 25.00, Stock: 10},
			"prod_drill":  {ID: "prod_drill", Name: "Drill", Price: 120.00, Stock: 2},
		},
		reviews: map[string][]domain.Review{},
	}
	userRepo := &fakeUserRepo{users: map[string]*domain.User{
		"user_1": {ID: "user_1", Email: "buyer@example.com", Name: "Buyer"},
	}}
	shipping := NewShippingUsecase(&stubSettingsRepo{})
	uc := NewOrderUsecase(orderRepo, productRepo, userRepo, shipping, fakeTxManager{})
	return uc, orderRepo, productRepo
}

// --- tests ---

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("no coordinates means zero shipping", func(t *testing.T) {
		uc, _, _ := newOrderFixture()

		order, err := uc.CreateOrder(ctx, "user_1", OrderCreateReq{
			Items:           []CartItemReq{{ProductID: "prod_hammer", Quantity: 2}},
			ShippingAddress: domain.ShippingAddress{City: "Lima"},
		})
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		if order.ShippingCost != 0 {
			t.Errorf("shipping = %v, want 0 without coordinates", order.ShippingCost)
		}
		if order.Subtotal != 50.00 {
			t.Errorf("subtotal = %v, want 50", order.Subtotal)
		}
		if order.Total != order.Subtotal {
			t.Errorf("total = %v, want subtotal %v", order.Total, order.Subtotal)
		}
		if order.Status != domain.OrderStatusPending {
			t.Errorf("status = %q, want pending", order.Status)
		}
	})

	t.Run("coordinates beyond radius add the quoted cost", func(t *testing.T) {
		uc, _, _ := newOrderFixture()

		dest := destAtKm(domain.DefaultShippingConfig(), 10)
		order, err := uc.CreateOrder(ctx, "user_1", OrderCreateReq{
			Items:           []CartItemReq{{ProductID: "prod_hammer", Quantity: 1}},
			ShippingAddress: domain.ShippingAddress{Lat: &dest.Lat, Lng: &dest.Lng},
		})
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		if order.ShippingCost != 7.50 {
			t.Errorf("shipping = %v, want 7.50 at 10km", order.ShippingCost)
		}
		if order.Total != 32.50 {
			t.Errorf("total = %v, want 32.50", order.Total)
		}
	})

	t.Run("insufficient stock rejects the order", func(t *testing.T) {
		uc, orderRepo, productRepo := newOrderFixture()

		_, err := uc.CreateOrder(ctx, "user_1", OrderCreateReq{
			Items:           []CartItemReq{{ProductID: "prod_drill", Quantity: 5}},
			ShippingAddress: domain.ShippingAddress{},
		})
		if err == nil || !strings.Contains(err.Error(), "insufficient stock") {
			t.Fatalf("err = %v, want insufficient stock", err)
		}
		if len(orderRepo.orders) != 0 {
			t.Error("order should not have been created")
		}
		if productRepo.products["prod_drill"].Stock != 2 {
			t.Error("stock should be untouched after rejection")
		}
	})

	t.Run("successful order decrements stock and clears the cart", func(t *testing.T) {
		uc, orderRepo, productRepo := newOrderFixture()

		if _, err := uc.SetCart(ctx, "user_1", []CartItemReq{{ProductID: "prod_hammer", Quantity: 3}}); err != nil {
			t.Fatalf("SetCart: %v", err)
		}

		order, err := uc.CreateOrder(ctx, "user_1", OrderCreateReq{
			Items:           []CartItemReq{{ProductID: "prod_hammer", Quantity: 3}},
			ShippingAddress: domain.ShippingAddress{},
		})
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		if !strings.HasPrefix(order.ID, "order_") {
			t.Errorf("order id %q missing prefix", order.ID)
		}
		if productRepo.products["prod_hammer"].Stock != 7 {
			t.Errorf("stock = %d, want 7", productRepo.products["prod_hammer"].Stock)
		}
		if cart := orderRepo.carts["user_1"]; cart != nil && len(cart.Items) != 0 {
			t.Error("cart should be empty after the order")
		}
	})

	t.Run("unknown product is reported", func(t *testing.T) {
		uc, _, _ := newOrderFixture()

		_, err := uc.CreateOrder(ctx, "user_1", OrderCreateReq{
			Items: []CartItemReq{{ProductID: "prod_ghost", Quantity: 1}},
		})
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Fatalf("err = %v, want not found", err)
		}
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, _ := newOrderFixture()
	orderRepo.orders["order_abc"] = &domain.Order{ID: "order_abc", Status: domain.OrderStatusPending}

	if err := uc.UpdateOrderStatus(ctx, "order_abc", "shipped"); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if orderRepo.orders["order_abc"].Status != domain.OrderStatusShipped {
		t.Errorf("status = %q, want shipped", orderRepo.orders["order_abc"].Status)
	}

	if err := uc.UpdateOrderStatus(ctx, "order_abc", "teleported"); err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestGetMyCart(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, _ := newOrderFixture()

	cart, err := uc.GetMyCart(ctx, "user_1")
	if err != nil {
		t.Fatalf("GetMyCart: %v", err)
	}
	if cart.UserID != "user_1" || cart.Items == nil {
		t.Errorf("unexpected cart: %+v", cart)
	}
	if orderRepo.carts["user_1"] == nil {
		t.Error("first access should persist an empty cart")
	}
}

func TestSetCartSnapshotsPrices(t *testing.T) {
	ctx := context.Background()
	uc, _, productRepo := newOrderFixture()

	cart, err := uc.SetCart(ctx, "user_1", []CartItemReq{
		{ProductID: "prod_drill", Quantity: 1},
		{ProductID: "prod_hammer", Quantity: 0}, // dropped
	})
	if err != nil {
		t.Fatalf("SetCart: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(cart.Items))
	}
	if cart.Items[0].Price != productRepo.products["prod_drill"].Price {
		t.Errorf("price %v not snapshotted from catalog", cart.Items[0].Price)
	}
}
