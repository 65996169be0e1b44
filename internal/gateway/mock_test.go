package gateway

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/go-storefront/internal/model"
)

func newTestStore(t *testing.T, opts MockOptions) *MockStore {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	return NewMockStore(opts)
}

func TestMockStore_ListProducts_All(t *testing.T) {
	s := newTestStore(t, MockOptions{})

	page, err := s.ListProducts(context.Background(), ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Products, 20)
	assert.Equal(t, 20, page.Total)
}

func TestMockStore_ListProducts_CategoryAndPrice(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	max := decimal.NewFromInt(100)

	page, err := s.ListProducts(context.Background(), ProductFilter{
		Category: "watches",
		PriceMax: &max,
	})
	require.NoError(t, err)

	names := make([]string, 0, len(page.Products))
	for _, p := range page.Products {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Casio Vintage", "Fossil Grant"}, names)
}

func TestMockStore_ListProducts_CategoryAllIsNoFilter(t *testing.T) {
	s := newTestStore(t, MockOptions{})

	page, err := s.ListProducts(context.Background(), ProductFilter{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, page.Products, 20)
}

func TestMockStore_ListProducts_SearchMatchesDescription(t *testing.T) {
	s := newTestStore(t, MockOptions{})

	page, err := s.ListProducts(context.Background(), ProductFilter{Search: "solar-powered"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Citizen Eco-Drive", page.Products[0].Name)
}

func TestMockStore_GetProduct_NotFound(t *testing.T) {
	s := newTestStore(t, MockOptions{})

	_, err := s.GetProduct(context.Background(), 9999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMockStore_AddCartItem_MergesQuantity(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	ctx := context.Background()

	_, err := s.AddCartItem(ctx, AddCartItemParams{ProductID: 2})
	require.NoError(t, err)
	cart, err := s.AddCartItem(ctx, AddCartItemParams{ProductID: 2, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 3, cart.ItemCount)
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(135)), "got %s", cart.Total)
}

func TestMockStore_AddCartItem_UnknownProduct(t *testing.T) {
	s := newTestStore(t, MockOptions{})

	_, err := s.AddCartItem(context.Background(), AddCartItemParams{ProductID: 9999})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMockStore_UpdateCartItem_ZeroDeletes(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	ctx := context.Background()

	cart, err := s.AddCartItem(ctx, AddCartItemParams{ProductID: 3, Quantity: 2})
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = s.UpdateCartItem(ctx, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.ItemCount)
	assert.True(t, cart.Total.IsZero())
}

func TestMockStore_UpdateCartItem_NotFound(t *testing.T) {
	s := newTestStore(t, MockOptions{})

	_, err := s.UpdateCartItem(context.Background(), 12345, 2)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMockStore_RemoveCartItem_AbsentIsNoOp(t *testing.T) {
	s := newTestStore(t, MockOptions{})

	cart, err := s.RemoveCartItem(context.Background(), 12345)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestMockStore_ReturnedCartIsACopy(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	ctx := context.Background()

	cart, err := s.AddCartItem(ctx, AddCartItemParams{ProductID: 1})
	require.NoError(t, err)
	cart.Items[0].Quantity = 99

	fresh, err := s.GetCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Items[0].Quantity)
}

func TestMockStore_Login(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	ctx := context.Background()

	session, err := s.Login(ctx, Credentials{Email: "user@example.com", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, "John Doe", session.User.Name)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, int64((24 * time.Hour).Seconds()), session.ExpiresIn)

	_, err = s.Login(ctx, Credentials{Email: "user@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	_, err = s.Login(ctx, Credentials{Email: "nobody@example.com", Password: "password"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestMockStore_Register_DuplicateEmail(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	ctx := context.Background()

	session, err := s.Register(ctx, RegisterParams{
		Email: "jane@example.com", Password: "secret123", Name: "Jane Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", session.User.Email)

	_, err = s.Register(ctx, RegisterParams{Email: "user@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, 409, StatusCode(err))
}

func TestMockStore_ChangePassword(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	ctx := context.Background()

	err := s.ChangePassword(ctx, PasswordChange{CurrentPassword: "wrong", NewPassword: "newpass"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	require.NoError(t, s.ChangePassword(ctx, PasswordChange{
		CurrentPassword: "password", NewPassword: "newpass",
	}))

	_, err = s.Login(ctx, Credentials{Email: "user@example.com", Password: "newpass"})
	require.NoError(t, err)
}

func TestMockStore_CreateOrder_EmptyCart(t *testing.T) {
	s := newTestStore(t, MockOptions{})

	_, err := s.CreateOrder(context.Background(), CheckoutParams{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestMockStore_CreateOrder_SnapshotsAndClearsCart(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	ctx := context.Background()

	_, err := s.AddCartItem(ctx, AddCartItemParams{ProductID: 2, Quantity: 2})
	require.NoError(t, err)
	_, err = s.AddCartItem(ctx, AddCartItemParams{ProductID: 11})
	require.NoError(t, err)

	order, err := s.CreateOrder(ctx, CheckoutParams{
		ShippingAddress: model.Address{Street: "1 Elm St", City: "Boston", Country: "USA"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 2)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(185)), "got %s", order.Total)
	assert.Equal(t, "Boston", order.ShippingAddress.City)

	cart, err := s.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
}

func TestMockStore_UpdateOrderStatus(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	ctx := context.Background()

	order, err := s.UpdateOrderStatus(ctx, 1, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, order.Status)

	_, err = s.UpdateOrderStatus(ctx, 1, model.OrderStatus("shipped"))
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = s.UpdateOrderStatus(ctx, 9999, model.OrderStatusCompleted)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMockStore_ListOrders_StatusFilter(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	ctx := context.Background()

	_, err := s.AddCartItem(ctx, AddCartItemParams{ProductID: 5})
	require.NoError(t, err)
	_, err = s.CreateOrder(ctx, CheckoutParams{})
	require.NoError(t, err)

	pending, err := s.ListOrders(ctx, OrderFilter{Status: model.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.OrderStatusPending, pending[0].Status)

	all, err := s.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMockStore_SettlePendingBefore(t *testing.T) {
	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, MockOptions{Now: func() time.Time { return current }})
	ctx := context.Background()

	_, err := s.AddCartItem(ctx, AddCartItemParams{ProductID: 7})
	require.NoError(t, err)
	order, err := s.CreateOrder(ctx, CheckoutParams{})
	require.NoError(t, err)

	// Cutoff before the order was created: nothing settles.
	assert.Equal(t, 0, s.SettlePendingBefore(current.Add(-time.Minute)))

	assert.Equal(t, 1, s.SettlePendingBefore(current.Add(time.Minute)))

	settled, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, settled.Status)

	assert.Equal(t, 0, s.SettlePendingBefore(current.Add(time.Minute)))
}

func TestMockStore_Wishlist(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	ctx := context.Background()

	items, err := s.ListWishlist(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Rolex Submariner", items[0].Product.Name)

	// Adding a product already on the list does not duplicate it.
	_, err = s.AddWishlistItem(ctx, 1)
	require.NoError(t, err)
	items, err = s.ListWishlist(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = s.AddWishlistItem(ctx, 9999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	require.NoError(t, s.RemoveWishlistItem(ctx, 1))
	items, err = s.ListWishlist(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestMockStore_Notifications(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	ctx := context.Background()

	unread, err := s.ListNotifications(ctx, NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	n, err := s.MarkNotificationRead(ctx, 1)
	require.NoError(t, err)
	assert.True(t, n.Read)

	unread, err = s.ListNotifications(ctx, NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	require.NoError(t, s.MarkAllNotificationsRead(ctx))
	unread, err = s.ListNotifications(ctx, NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread)

	_, err = s.MarkNotificationRead(ctx, 9999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMockStore_ProcessPayment(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	ctx := context.Background()

	_, err := s.ProcessPayment(ctx, PaymentParams{Amount: decimal.Zero, Method: "card"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	payment, err := s.ProcessPayment(ctx, PaymentParams{
		Amount: decimal.NewFromInt(95), Method: "card",
	})
	require.NoError(t, err)
	assert.Equal(t, "succeeded", payment.Status)
	assert.Equal(t, "USD", payment.Currency)
	assert.Contains(t, payment.ID, "mock-payment-")

	history, err := s.ListPaymentHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestMockStore_Reviews(t *testing.T) {
	s := newTestStore(t, MockOptions{})
	ctx := context.Background()

	reviews, err := s.ListReviews(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	_, err = s.AddReview(ctx, 1, ReviewParams{Rating: 6, Comment: "too good"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	review, err := s.AddReview(ctx, 1, ReviewParams{Rating: 5, Comment: "love it"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), review.ProductID)

	reviews, err = s.ListReviews(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)
}

func TestMockStore_SalesStatistics(t *testing.T) {
	s := newTestStore(t, MockOptions{})

	stats, err := s.SalesStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(95)))
	assert.True(t, stats.AverageOrderValue.Equal(decimal.NewFromInt(95)))
	assert.Equal(t, 1, stats.OrdersByStatus[model.OrderStatusCompleted])
}

func TestMockStore_SimulatedErrors(t *testing.T) {
	s := newTestStore(t, MockOptions{SimulateErrors: true, ErrorRate: 1.0})

	_, err := s.ListProducts(context.Background(), ProductFilter{})
	require.Error(t, err)
	assert.Equal(t, 500, StatusCode(err))
	assert.Contains(t, err.Error(), "simulated error")
}

func TestMockStore_ErrorRateZeroNeverFails(t *testing.T) {
	s := newTestStore(t, MockOptions{SimulateErrors: true, ErrorRate: 0})

	for i := 0; i < 50; i++ {
		_, err := s.GetCart(context.Background())
		require.NoError(t, err)
	}
}

func TestMockStore_DelayHonorsContext(t *testing.T) {
	s := newTestStore(t, MockOptions{Delay: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.GetCart(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
