package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/flicky/go-storefront/internal/config"
	"github.com/flicky/go-storefront/internal/model"
)

// MockStore is the in-memory stand-in for the storefront API. Every call
// first waits the configured artificial delay and may fail with the
// configured probability; mutations then happen under one lock and results
// are returned as copies, so callers never share state with the store.
//
// A MockStore is an explicit object with its own lifecycle: construct a
// fresh one per test instead of sharing module state.
type MockStore struct {
	delay          time.Duration
	simulateErrors bool
	errorRate      float64
	jwtSecret      []byte
	jwtExpiry      time.Duration
	now            func() time.Time

	mu            sync.Mutex
	rng           *rand.Rand
	products      []model.Product
	users         []model.User
	passwords     map[int64][]byte
	cart          model.Cart
	orders        []model.Order
	reviews       map[int64][]model.Review
	wishlist      []model.WishlistItem
	notifications []model.Notification
	payments      []model.Payment
	nextID        int64
}

type MockOptions struct {
	Delay          time.Duration
	SimulateErrors bool
	ErrorRate      float64
	JWTSecret      string
	JWTExpiration  time.Duration

	// Seed defaults to DefaultSeed(). Now and Rand default to the wall
	// clock and a time-seeded source; tests inject deterministic ones.
	Seed *Seed
	Now  func() time.Time
	Rand *rand.Rand
}

func MockOptionsFromConfig(cfg config.MockConfig) MockOptions {
	return MockOptions{
		Delay:          cfg.Delay,
		SimulateErrors: cfg.SimulateErrors,
		ErrorRate:      cfg.ErrorRate,
		JWTSecret:      cfg.JWTSecret,
		JWTExpiration:  cfg.JWTExpiration,
	}
}

func NewMockStore(opts MockOptions) *MockStore {
	seed := opts.Seed
	if seed == nil {
		seed = DefaultSeed()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = "storefront-dev-secret"
	}
	if opts.JWTExpiration <= 0 {
		opts.JWTExpiration = 24 * time.Hour
	}

	s := &MockStore{
		delay:          opts.Delay,
		simulateErrors: opts.SimulateErrors,
		errorRate:      opts.ErrorRate,
		jwtSecret:      []byte(opts.JWTSecret),
		jwtExpiry:      opts.JWTExpiration,
		now:            now,
		rng:            rng,
		products:       append([]model.Product(nil), seed.Products...),
		passwords:      make(map[int64][]byte),
		reviews:        make(map[int64][]model.Review),
		cart:           model.Cart{Total: decimal.Zero},
		orders:         append([]model.Order(nil), seed.Orders...),
		wishlist:       append([]model.WishlistItem(nil), seed.Wishlist...),
		notifications:  append([]model.Notification(nil), seed.Notifications...),
		payments:       append([]model.Payment(nil), seed.Payments...),
		nextID:         1000,
	}
	for _, su := range seed.Users {
		s.users = append(s.users, su.User)
		s.passwords[su.User.ID] = hashPassword(su.Password)
	}
	return s
}

// simulate emulates network latency and, when enabled, random failure. The
// delay honors context cancellation so a torn-down caller is not resumed.
func (s *MockStore) simulate(ctx context.Context) error {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.simulateErrors {
		s.mu.Lock()
		roll := s.rng.Float64()
		s.mu.Unlock()
		if roll < s.errorRate {
			return internal("mock api error: simulated error for testing")
		}
	}
	return nil
}

func (s *MockStore) newID() int64 {
	s.nextID++
	return s.nextID
}

// --- Products ---

func (s *MockStore) ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if matchesFilter(p, filter) {
			matched = append(matched, p)
		}
	}
	return &ProductPage{Products: matched, Total: len(matched), Page: 1, Limit: 20}, nil
}

func matchesFilter(p model.Product, f ProductFilter) bool {
	if f.Category != "" && f.Category != "all" && p.Category != f.Category {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	if f.PriceMin != nil && p.Price.LessThan(*f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && p.Price.GreaterThan(*f.PriceMax) {
		return false
	}
	return true
}

func (s *MockStore) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, notFound("product not found")
}

func (s *MockStore) FeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 8
	}
	if limit > len(s.products) {
		limit = len(s.products)
	}
	return append([]model.Product(nil), s.products[:limit]...), nil
}

func (s *MockStore) ListReviews(ctx context.Context, productID int64) ([]model.Review, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.Review(nil), s.ensureReviews(productID)...), nil
}

func (s *MockStore) AddReview(ctx context.Context, productID int64, review ReviewParams) (*model.Review, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	if review.Rating < 1 || review.Rating > 5 {
		return nil, invalid("rating must be between 1 and 5")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureReviews(productID)
	r := model.Review{
		ID:        s.newID(),
		ProductID: productID,
		UserID:    s.currentUserID(),
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: s.now(),
	}
	s.reviews[productID] = append(s.reviews[productID], r)
	return &r, nil
}

// ensureReviews lazily fills in the canned review pair every product starts
// with. Caller holds the lock.
func (s *MockStore) ensureReviews(productID int64) []model.Review {
	if _, ok := s.reviews[productID]; !ok {
		s.reviews[productID] = []model.Review{
			{
				ID: s.newID(), ProductID: productID, UserID: 1, Rating: 5,
				Comment:   "Excellent product! Highly recommended.",
				CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			},
			{
				ID: s.newID(), ProductID: productID, UserID: 2, Rating: 4,
				Comment:   "Good quality, fast shipping.",
				CreatedAt: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
			},
		}
	}
	return s.reviews[productID]
}

// --- Cart ---

func (s *MockStore) GetCart(ctx context.Context) (*model.Cart, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCart(s.cart), nil
}

func (s *MockStore) AddCartItem(ctx context.Context, params AddCartItemParams) (*model.Cart, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	quantity := params.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Adding an already-carted product merges quantities; there is at most
	// one cart entry per product.
	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == params.ProductID {
			s.cart.Items[i].Quantity += quantity
			s.recomputeCart()
			return copyCart(s.cart), nil
		}
	}

	var prod *model.Product
	for i := range s.products {
		if s.products[i].ID == params.ProductID {
			prod = &s.products[i]
			break
		}
	}
	if prod == nil {
		return nil, notFound("product not found")
	}

	s.cart.Items = append(s.cart.Items, model.CartItem{
		ID:        s.newID(),
		ProductID: prod.ID,
		Name:      prod.Name,
		Price:     prod.Price,
		Image:     prod.Image,
		Quantity:  quantity,
	})
	s.recomputeCart()
	return copyCart(s.cart), nil
}

func (s *MockStore) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*model.Cart, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart.Items {
		if s.cart.Items[i].ID != itemID {
			continue
		}
		if quantity <= 0 {
			s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
		} else {
			s.cart.Items[i].Quantity = quantity
		}
		s.recomputeCart()
		return copyCart(s.cart), nil
	}
	return nil, notFound("cart item not found")
}

func (s *MockStore) RemoveCartItem(ctx context.Context, itemID int64) (*model.Cart, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart.Items {
		if s.cart.Items[i].ID == itemID {
			s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
			break
		}
	}
	s.recomputeCart()
	return copyCart(s.cart), nil
}

func (s *MockStore) ClearCart(ctx context.Context) (*model.Cart, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = model.Cart{Total: decimal.Zero}
	return copyCart(s.cart), nil
}

// recomputeCart refreshes the derived totals. Caller holds the lock.
func (s *MockStore) recomputeCart() {
	total := decimal.Zero
	count := 0
	for _, item := range s.cart.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	s.cart.Total = total
	s.cart.ItemCount = count
}

// --- Auth ---

func (s *MockStore) Login(ctx context.Context, creds Credentials) (*model.Session, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email != creds.Email {
			continue
		}
		if bcrypt.CompareHashAndPassword(s.passwords[u.ID], []byte(creds.Password)) != nil {
			break
		}
		return s.newSession(u)
	}
	return nil, unauthorized("invalid credentials")
}

func (s *MockStore) Register(ctx context.Context, params RegisterParams) (*model.Session, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	if params.Email == "" || params.Password == "" {
		return nil, invalid("email and password are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == params.Email {
			return nil, conflict("user already exists")
		}
	}

	user := model.User{
		ID:        s.newID(),
		Email:     params.Email,
		Name:      params.Name,
		CreatedAt: s.now(),
	}
	s.users = append(s.users, user)
	s.passwords[user.ID] = hashPassword(params.Password)
	return s.newSession(user)
}

func (s *MockStore) newSession(user model.User) (*model.Session, error) {
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", user.ID),
		"email": user.Email,
		"exp":   s.now().Add(s.jwtExpiry).Unix(),
		"iat":   s.now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &model.Session{User: user, Token: signed, ExpiresIn: int64(s.jwtExpiry.Seconds())}, nil
}

func (s *MockStore) Logout(ctx context.Context) error {
	return s.simulate(ctx)
}

func (s *MockStore) CurrentUser(ctx context.Context) (*model.User, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.users) == 0 {
		return nil, unauthorized("no active session")
	}
	out := s.users[0]
	return &out, nil
}

func (s *MockStore) UpdateProfile(ctx context.Context, update ProfileUpdate) (*model.User, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.users) == 0 {
		return nil, unauthorized("no active session")
	}
	u := &s.users[0]
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	out := *u
	return &out, nil
}

func (s *MockStore) ChangePassword(ctx context.Context, change PasswordChange) error {
	if err := s.simulate(ctx); err != nil {
		return err
	}
	if change.NewPassword == "" {
		return invalid("new password is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.users) == 0 {
		return unauthorized("no active session")
	}
	id := s.users[0].ID
	if bcrypt.CompareHashAndPassword(s.passwords[id], []byte(change.CurrentPassword)) != nil {
		return unauthorized("current password is incorrect")
	}
	s.passwords[id] = hashPassword(change.NewPassword)
	return nil
}

func (s *MockStore) currentUserID() int64 {
	if len(s.users) == 0 {
		return 0
	}
	return s.users[0].ID
}

// --- Orders ---

func (s *MockStore) ListOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *copyOrder(o))
	}
	return out, nil
}

func (s *MockStore) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == id {
			return copyOrder(o), nil
		}
	}
	return nil, notFound("order not found")
}

// CreateOrder snapshots the current cart into a pending order and clears the
// cart. Both happen under one lock: callers never observe the order without
// the cleared cart or vice versa.
func (s *MockStore) CreateOrder(ctx context.Context, params CheckoutParams) (*model.Order, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart.Items) == 0 {
		return nil, invalid("cart is empty")
	}

	items := make([]model.OrderItem, 0, len(s.cart.Items))
	for _, ci := range s.cart.Items {
		items = append(items, model.OrderItem{
			ProductID: ci.ProductID,
			Name:      ci.Name,
			Price:     ci.Price,
			Quantity:  ci.Quantity,
		})
	}

	now := s.now()
	order := model.Order{
		ID:              s.newID(),
		UserID:          s.currentUserID(),
		Status:          model.OrderStatusPending,
		Total:           s.cart.Total,
		Items:           items,
		ShippingAddress: params.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.orders = append(s.orders, order)
	s.cart = model.Cart{Total: decimal.Zero}
	return copyOrder(order), nil
}

func (s *MockStore) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid(fmt.Sprintf("invalid order status %q", status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			s.orders[i].UpdatedAt = s.now()
			return copyOrder(s.orders[i]), nil
		}
	}
	return nil, notFound("order not found")
}

// SettlePendingBefore promotes pending orders older than cutoff to completed
// and returns how many changed. Used by the background order settler.
func (s *MockStore) SettlePendingBefore(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	settled := 0
	for i := range s.orders {
		if s.orders[i].Status == model.OrderStatusPending && s.orders[i].CreatedAt.Before(cutoff) {
			s.orders[i].Status = model.OrderStatusCompleted
			s.orders[i].UpdatedAt = s.now()
			settled++
		}
	}
	return settled
}

// --- Wishlist ---

func (s *MockStore) ListWishlist(ctx context.Context) ([]model.WishlistItem, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.WishlistItem, 0, len(s.wishlist))
	for _, item := range s.wishlist {
		item.Product = nil
		for i := range s.products {
			if s.products[i].ID == item.ProductID {
				p := s.products[i]
				item.Product = &p
				break
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *MockStore) AddWishlistItem(ctx context.Context, productID int64) (*model.WishlistItem, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.wishlist {
		if item.ProductID == productID {
			out := item
			return &out, nil
		}
	}

	found := false
	for i := range s.products {
		if s.products[i].ID == productID {
			found = true
			break
		}
	}
	if !found {
		return nil, notFound("product not found")
	}

	item := model.WishlistItem{
		ID:        s.newID(),
		ProductID: productID,
		UserID:    s.currentUserID(),
		CreatedAt: s.now(),
	}
	s.wishlist = append(s.wishlist, item)
	return &item, nil
}

func (s *MockStore) RemoveWishlistItem(ctx context.Context, productID int64) error {
	if err := s.simulate(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.wishlist[:0]
	for _, item := range s.wishlist {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	s.wishlist = kept
	return nil
}

// --- Notifications ---

func (s *MockStore) ListNotifications(ctx context.Context, filter NotificationFilter) ([]model.Notification, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if filter.UnreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *MockStore) MarkNotificationRead(ctx context.Context, id int64) (*model.Notification, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			out := s.notifications[i]
			return &out, nil
		}
	}
	return nil, notFound("notification not found")
}

func (s *MockStore) MarkAllNotificationsRead(ctx context.Context) error {
	if err := s.simulate(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		s.notifications[i].Read = true
	}
	return nil
}

// --- Payments ---

func (s *MockStore) ProcessPayment(ctx context.Context, params PaymentParams) (*model.Payment, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, invalid("amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payment := model.Payment{
		ID:        "mock-payment-" + uuid.NewString(),
		Status:    "succeeded",
		Amount:    params.Amount,
		Currency:  "USD",
		Method:    params.Method,
		CreatedAt: s.now(),
	}
	s.payments = append(s.payments, payment)
	return &payment, nil
}

func (s *MockStore) ListPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	return []model.PaymentMethod{
		{ID: "card", Name: "Credit Card", Type: "card"},
		{ID: "paypal", Name: "PayPal", Type: "paypal"},
		{ID: "apple_pay", Name: "Apple Pay", Type: "wallet"},
	}, nil
}

func (s *MockStore) ListPaymentHistory(ctx context.Context) ([]model.Payment, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Payment(nil), s.payments...), nil
}

// --- Analytics ---

func (s *MockStore) ProductAnalytics(ctx context.Context) (*model.ProductAnalytics, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	top := make([]model.ProductStat, 0, 5)
	for i, p := range s.products {
		if i == 5 {
			break
		}
		top = append(top, model.ProductStat{
			ID:    p.ID,
			Name:  p.Name,
			Views: s.rng.Intn(100),
			Sales: s.rng.Intn(20),
		})
	}
	return &model.ProductAnalytics{
		TotalProducts: len(s.products),
		TotalViews:    1250,
		TotalSales:    45,
		Revenue:       decimal.NewFromInt(12500),
		TopProducts:   top,
	}, nil
}

func (s *MockStore) SalesStatistics(ctx context.Context) (*model.SalesStats, error) {
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &model.SalesStats{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		OrdersByStatus: map[model.OrderStatus]int{
			model.OrderStatusPending:   0,
			model.OrderStatusCompleted: 0,
			model.OrderStatusCancelled: 0,
		},
	}
	for _, o := range s.orders {
		stats.TotalOrders++
		stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
		stats.OrdersByStatus[o.Status]++
	}
	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.Div(decimal.NewFromInt(int64(stats.TotalOrders)))
	}
	return stats, nil
}

// --- copies ---

func copyCart(c model.Cart) *model.Cart {
	out := c
	out.Items = append([]model.CartItem(nil), c.Items...)
	return &out
}

func copyOrder(o model.Order) *model.Order {
	out := o
	out.Items = append([]model.OrderItem(nil), o.Items...)
	return &out
}
