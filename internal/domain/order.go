package domain

import (
	"context"
	"time"
)

// ShippingAddress is the destination captured at order/checkout time.
// Lat/Lng are optional: an address without coordinates is legal and
// simply gets no distance-based shipping charge.
type ShippingAddress struct {
	FullName string   `json:"fullName"`
	Phone    string   `json:"phone"`
	Street   string   `json:"street"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	ZipCode  string   `json:"zipCode"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
}

// HasCoordinates reports whether both coordinates are present. This is
// the precondition gate for the shipping cost calculation.
func (a ShippingAddress) HasCoordinates() bool {
	return a.Lat != nil && a.Lng != nil
}

// --- Cart ---

type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"` // snapshot taken when the cart was saved
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// --- Orders ---

type Order struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	UserEmail        string          `json:"userEmail"`
	UserName         string          `json:"userName"`
	Items            []OrderItem     `json:"items"`
	Subtotal         float64         `json:"subtotal"`
	ShippingCost     float64         `json:"shippingCost"`
	Total            float64         `json:"total"`
	Status           string          `json:"status"`
	ShippingAddress  ShippingAddress `json:"shippingAddress"`
	PaymentSessionID string          `json:"paymentSessionId"`
	CreatedAt        time.Time       `json:"createdAt"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"` // unit price at time of purchase
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

type OrderFilter struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// PaymentTransaction records a hosted-checkout session and its
// lifecycle. The gateway protocol itself lives behind PaymentProvider.
type PaymentTransaction struct {
	ID              string          `json:"id"`
	SessionID       string          `json:"sessionId"`
	UserID          string          `json:"userId"`
	UserEmail       string          `json:"userEmail"`
	Subtotal        float64         `json:"subtotal"`
	ShippingCost    float64         `json:"shippingCost"`
	Amount          float64         `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"paymentStatus"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByUserID(ctx context.Context, userID string) ([]Order, error)
	GetAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error

	// Cart
	GetCartByUserID(ctx context.Context, userID string) (*Cart, error)
	SaveCart(ctx context.Context, cart *Cart) error
	ClearCart(ctx context.Context, userID string) error

	// Payment transactions
	CreatePaymentTransaction(ctx context.Context, txn *PaymentTransaction) error
	UpdatePaymentTransaction(ctx context.Context, sessionID, status, paymentStatus string) error
	GetPaymentTransaction(ctx context.Context, sessionID string) (*PaymentTransaction, error)
}
