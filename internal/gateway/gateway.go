// Package gateway is the single entry point for all data operations. The
// Gateway interface hides whether a call is served by the in-memory MockStore
// or by a remote storefront API; the implementation is chosen once at
// composition time and injected into callers.
package gateway

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/flicky/go-storefront/internal/config"
	"github.com/flicky/go-storefront/internal/model"
	"github.com/flicky/go-storefront/internal/token"
)

type Gateway interface {
	// Products
	ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]model.Product, error)
	ListReviews(ctx context.Context, productID int64) ([]model.Review, error)
	AddReview(ctx context.Context, productID int64, review ReviewParams) (*model.Review, error)

	// Cart
	GetCart(ctx context.Context) (*model.Cart, error)
	AddCartItem(ctx context.Context, params AddCartItemParams) (*model.Cart, error)
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*model.Cart, error)
	RemoveCartItem(ctx context.Context, itemID int64) (*model.Cart, error)
	ClearCart(ctx context.Context) (*model.Cart, error)

	// Auth
	Login(ctx context.Context, creds Credentials) (*model.Session, error)
	Register(ctx context.Context, params RegisterParams) (*model.Session, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, change PasswordChange) error

	// Orders
	ListOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	CreateOrder(ctx context.Context, params CheckoutParams) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error)

	// Wishlist
	ListWishlist(ctx context.Context) ([]model.WishlistItem, error)
	AddWishlistItem(ctx context.Context, productID int64) (*model.WishlistItem, error)
	RemoveWishlistItem(ctx context.Context, productID int64) error

	// Notifications
	ListNotifications(ctx context.Context, filter NotificationFilter) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) (*model.Notification, error)
	MarkAllNotificationsRead(ctx context.Context) error

	// Payments
	ProcessPayment(ctx context.Context, params PaymentParams) (*model.Payment, error)
	ListPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error)
	ListPaymentHistory(ctx context.Context) ([]model.Payment, error)

	// Analytics
	ProductAnalytics(ctx context.Context) (*model.ProductAnalytics, error)
	SalesStatistics(ctx context.Context) (*model.SalesStats, error)
}

// New selects the gateway implementation for the configured mode.
func New(cfg *config.Config, tokens token.Store) (Gateway, error) {
	switch cfg.Mode {
	case config.ModeMock:
		return NewMockStore(MockOptionsFromConfig(cfg.Mock)), nil
	case config.ModeReal:
		return NewClient(cfg.API, tokens), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

// ProductFilter combines with logical AND. Category is an exact match,
// Search a case-insensitive substring over name or description, and the
// price bounds are inclusive.
type ProductFilter struct {
	Category string
	Search   string
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
}

type ProductPage struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

// SearchProducts is a convenience wrapper over ListProducts.
func SearchProducts(ctx context.Context, g Gateway, query string, filter ProductFilter) (*ProductPage, error) {
	filter.Search = query
	return g.ListProducts(ctx, filter)
}

type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterParams struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type AddCartItemParams struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

type QuantityUpdate struct {
	Quantity int `json:"quantity"`
}

type OrderFilter struct {
	Status model.OrderStatus
}

type CheckoutParams struct {
	ShippingAddress model.Address `json:"shipping_address"`
}

type OrderStatusUpdate struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type ReviewParams struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type WishlistAdd struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

type NotificationFilter struct {
	UnreadOnly bool
}

type PaymentParams struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"payment_method" binding:"required"`
}
