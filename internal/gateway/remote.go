package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/flicky/go-storefront/internal/config"
	"github.com/flicky/go-storefront/internal/model"
	"github.com/flicky/go-storefront/internal/token"
)

// Client is the real-mode Gateway: every call becomes an HTTP request
// against the storefront API. The bearer token is read from the durable
// store per request; a missing token just means the Authorization header is
// omitted and the server's 401 comes back as a normalized *Error.
type Client struct {
	baseURL string
	version string
	http    *http.Client
	tokens  token.Store
}

func NewClient(cfg config.APIConfig, tokens token.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		version: cfg.Version,
		http:    &http.Client{Timeout: cfg.Timeout},
		tokens:  tokens,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + "/" + c.version + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok, err := c.tokens.Load(ctx); err == nil && tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transport(fmt.Sprintf("network error: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transport(fmt.Sprintf("decode response: %v", err))
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := fmt.Sprintf("api error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Error != "" {
			msg = payload.Error
		} else if payload.Message != "" {
			msg = payload.Message
		}
	}
	return &Error{Code: resp.StatusCode, Message: msg}
}

// --- Products ---

func (c *Client) ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.PriceMin != nil {
		query.Set("price_min", filter.PriceMin.String())
	}
	if filter.PriceMax != nil {
		query.Set("price_max", filter.PriceMax.String())
	}

	var page ProductPage
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) FeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/products/featured", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ListReviews(ctx context.Context, productID int64) ([]model.Review, error) {
	var reviews []model.Review
	path := fmt.Sprintf("/products/%d/reviews", productID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) AddReview(ctx context.Context, productID int64, review ReviewParams) (*model.Review, error) {
	var created model.Review
	path := fmt.Sprintf("/products/%d/reviews", productID)
	if err := c.do(ctx, http.MethodPost, path, nil, review, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// --- Cart ---

func (c *Client) GetCart(ctx context.Context) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddCartItem(ctx context.Context, params AddCartItemParams) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodPost, "/cart/items", nil, params, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*model.Cart, error) {
	var cart model.Cart
	path := "/cart/items/" + strconv.FormatInt(itemID, 10)
	if err := c.do(ctx, http.MethodPut, path, nil, QuantityUpdate{Quantity: quantity}, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) (*model.Cart, error) {
	var cart model.Cart
	path := "/cart/items/" + strconv.FormatInt(itemID, 10)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) ClearCart(ctx context.Context) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodDelete, "/cart", nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// --- Auth ---

func (c *Client) Login(ctx context.Context, creds Credentials) (*model.Session, error) {
	var session model.Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Register(ctx context.Context, params RegisterParams) (*model.Session, error) {
	var session model.Session
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, params, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", nil, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, change PasswordChange) error {
	return c.do(ctx, http.MethodPut, "/auth/change-password", nil, change, nil)
}

// --- Orders ---

func (c *Client) ListOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, "/orders", query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+strconv.FormatInt(id, 10), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) CreateOrder(ctx context.Context, params CheckoutParams) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, params, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	var order model.Order
	path := fmt.Sprintf("/orders/%d/status", id)
	if err := c.do(ctx, http.MethodPut, path, nil, OrderStatusUpdate{Status: status}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// --- Wishlist ---

func (c *Client) ListWishlist(ctx context.Context) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	if err := c.do(ctx, http.MethodGet, "/wishlist", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) AddWishlistItem(ctx context.Context, productID int64) (*model.WishlistItem, error) {
	var item model.WishlistItem
	if err := c.do(ctx, http.MethodPost, "/wishlist", nil, WishlistAdd{ProductID: productID}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) RemoveWishlistItem(ctx context.Context, productID int64) error {
	return c.do(ctx, http.MethodDelete, "/wishlist/"+strconv.FormatInt(productID, 10), nil, nil, nil)
}

// --- Notifications ---

func (c *Client) ListNotifications(ctx context.Context, filter NotificationFilter) ([]model.Notification, error) {
	query := url.Values{}
	if filter.UnreadOnly {
		query.Set("unread_only", "true")
	}
	var notifications []model.Notification
	if err := c.do(ctx, http.MethodGet, "/notifications", query, nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) (*model.Notification, error) {
	var n model.Notification
	path := fmt.Sprintf("/notifications/%d/read", id)
	if err := c.do(ctx, http.MethodPut, path, nil, nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/notifications/read-all", nil, nil, nil)
}

// --- Payments ---

func (c *Client) ProcessPayment(ctx context.Context, params PaymentParams) (*model.Payment, error) {
	var payment model.Payment
	if err := c.do(ctx, http.MethodPost, "/payments/process", nil, params, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) ListPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	var methods []model.PaymentMethod
	if err := c.do(ctx, http.MethodGet, "/payments/methods", nil, nil, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

func (c *Client) ListPaymentHistory(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	if err := c.do(ctx, http.MethodGet, "/payments/history", nil, nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// --- Analytics ---

func (c *Client) ProductAnalytics(ctx context.Context) (*model.ProductAnalytics, error) {
	var analytics model.ProductAnalytics
	if err := c.do(ctx, http.MethodGet, "/analytics/products", nil, nil, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

func (c *Client) SalesStatistics(ctx context.Context) (*model.SalesStats, error) {
	var stats model.SalesStats
	if err := c.do(ctx, http.MethodGet, "/analytics/sales", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
