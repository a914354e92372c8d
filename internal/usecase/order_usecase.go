package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ferreinti-backend/internal/domain"
	"ferreinti-backend/pkg/utils"
)

type OrderUsecase struct {
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	userRepo    domain.UserRepository
	shipping    *ShippingUsecase
	txManager   domain.TransactionManager
}

func NewOrderUsecase(orderRepo domain.OrderRepository, productRepo domain.ProductRepository, userRepo domain.UserRepository, shipping *ShippingUsecase, txManager domain.TransactionManager) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		shipping:    shipping,
		txManager:   txManager,
	}
}

// --- Cart Logic ---

func (u *OrderUsecase) GetMyCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := u.orderRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &domain.Cart{
			ID:     utils.GenerateID("cart"),
			UserID: userID,
			Items:  []domain.CartItem{},
		}
		if err := u.orderRepo.SaveCart(ctx, cart); err != nil {
			slog.Error("Usecase: GetMyCart - SaveCart failed", "error", err)
			return nil, err
		}
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return cart, nil
}

type CartItemReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// SetCart replaces the cart contents. Prices are snapshotted from the
// catalog at save time; unknown products are rejected.
func (u *OrderUsecase) SetCart(ctx context.Context, userID string, items []CartItemReq) (*domain.Cart, error) {
	cart, err := u.GetMyCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cartItems := make([]domain.CartItem, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		product, err := u.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", it.ProductID)
		}
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		cartItems = append(cartItems, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     image,
			Quantity:  it.Quantity,
		})
	}

	cart.Items = cartItems
	if err := u.orderRepo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// --- Order Logic ---

type OrderCreateReq struct {
	Items            []CartItemReq          `json:"items"`
	ShippingAddress  domain.ShippingAddress `json:"shippingAddress"`
	PaymentSessionID string                 `json:"paymentSessionId"`
}

// CreateOrder validates stock, prices the order (subtotal plus the
// shipping quote when the address carries coordinates), then commits
// order creation, stock decrements and cart clearing in one transaction.
func (u *OrderUsecase) CreateOrder(ctx context.Context, userID string, req OrderCreateReq) (*domain.Order, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 1. Validate stock availability BEFORE creating the order.
	var stockErrors []string
	var orderItems []domain.OrderItem
	var subtotal float64

	for _, it := range req.Items {
		product, err := u.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			stockErrors = append(stockErrors, fmt.Sprintf("product %s not found", it.ProductID))
			continue
		}
		if product.Stock < it.Quantity {
			stockErrors = append(stockErrors, fmt.Sprintf("%s: only %d available", product.Name, product.Stock))
			continue
		}
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     image,
			Quantity:  it.Quantity,
		})
		subtotal += product.Price * float64(it.Quantity)
	}

	if len(stockErrors) > 0 {
		return nil, fmt.Errorf("insufficient stock: %s", strings.Join(stockErrors, ", "))
	}
	if len(orderItems) == 0 {
		return nil, fmt.Errorf("no valid items in the order")
	}

	// 2. Shipping. Cost defaults to 0 when the address has no
	// coordinates; that is this caller's policy, not the calculator's.
	var shippingCost float64
	if req.ShippingAddress.HasCoordinates() {
		quote := u.shipping.Quote(ctx, domain.Destination{
			Lat: *req.ShippingAddress.Lat,
			Lng: *req.ShippingAddress.Lng,
		})
		shippingCost = quote.Cost
	}
	total := subtotal + shippingCost

	order := &domain.Order{
		ID:               utils.GenerateID("order"),
		UserID:           user.ID,
		UserEmail:        user.Email,
		UserName:         user.Name,
		Items:            orderItems,
		Subtotal:         round2(subtotal),
		ShippingCost:     round2(shippingCost),
		Total:            round2(total),
		Status:           domain.OrderStatusPending,
		ShippingAddress:  req.ShippingAddress,
		PaymentSessionID: req.PaymentSessionID,
	}

	// 3. Transaction: create order, decrement stock, clear cart.
	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.orderRepo.CreateOrder(txCtx, order); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := u.productRepo.AdjustStock(txCtx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		return u.orderRepo.ClearCart(txCtx, userID)
	})
	if err != nil {
		slog.Error("Usecase: CreateOrder - transaction failed", "user_id", userID, "error", err)
		return nil, err
	}

	return order, nil
}

func (u *OrderUsecase) GetMyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return u.orderRepo.GetByUserID(ctx, userID)
}

// --- Admin ---

func (u *OrderUsecase) GetAllOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	return u.orderRepo.GetAll(ctx, filter)
}

func (u *OrderUsecase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return u.orderRepo.GetByID(ctx, id)
}

func (u *OrderUsecase) UpdateOrderStatus(ctx context.Context, orderID, newStatus string) error {
	valid := false
	for _, s := range domain.OrderStatuses {
		if s == newStatus {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid order status: %s", newStatus)
	}
	return u.orderRepo.UpdateStatus(ctx, orderID, newStatus)
}
