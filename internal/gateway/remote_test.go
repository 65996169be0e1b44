package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/go-storefront/internal/config"
)

type stubTokens struct {
	mu    sync.Mutex
	value string
}

func (s *stubTokens) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

func (s *stubTokens) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = token
	return nil
}

func (s *stubTokens) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	return nil
}

func newTestClient(serverURL string, tokens *stubTokens) *Client {
	return NewClient(config.APIConfig{
		BaseURL: serverURL,
		Version: "v1",
		Timeout: 5 * time.Second,
	}, tokens)
}

func TestClient_ListProducts_BuildsQuery(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"id":2,"name":"Casio Vintage","price":"45"}],"total":1,"page":1,"limit":20}`))
	}))
	defer srv.Close()

	max := decimal.NewFromInt(100)
	page, err := newTestClient(srv.URL, &stubTokens{}).ListProducts(context.Background(), ProductFilter{
		Category: "watches",
		Search:   "casio",
		PriceMax: &max,
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/products", gotPath)
	assert.Contains(t, gotQuery, "category=watches")
	assert.Contains(t, gotQuery, "search=casio")
	assert.Contains(t, gotQuery, "price_max=100")
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Casio Vintage", page.Products[0].Name)
	assert.True(t, page.Products[0].Price.Equal(decimal.NewFromInt(45)))
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[],"total":"0","item_count":0}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &stubTokens{value: "stored-token"})
	_, err := client.GetCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer stored-token", gotAuth)
}

func TestClient_OmitsAuthorizationWithoutToken(t *testing.T) {
	var gotAuth string
	var hasHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasHeader = r.Header["Authorization"]
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[],"total":"0","item_count":0}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, &stubTokens{}).GetCart(context.Background())
	require.NoError(t, err)
	assert.False(t, hasHeader, "unexpected Authorization header %q", gotAuth)
}

func TestClient_NormalizesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"product not found"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, &stubTokens{}).GetProduct(context.Background(), 9999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "product not found")
}

func TestClient_ErrorWithoutBodyFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, &stubTokens{}).GetCart(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
	assert.Contains(t, err.Error(), "502")
}

func TestClient_NetworkErrorIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL, &stubTokens{}).GetCart(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
	assert.Contains(t, err.Error(), "network error")
}

func TestClient_UpdateOrderStatus_SendsBody(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		buf := make([]byte, 256)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"status":"cancelled","total":"95"}`))
	}))
	defer srv.Close()

	order, err := newTestClient(srv.URL, &stubTokens{}).UpdateOrderStatus(context.Background(), 1, "cancelled")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/v1/orders/1/status", gotPath)
	assert.JSONEq(t, `{"status":"cancelled"}`, gotBody)
	assert.Equal(t, "cancelled", string(order.Status))
}

func TestGatewaySelection(t *testing.T) {
	mockCfg := &config.Config{Mode: config.ModeMock}
	gw, err := New(mockCfg, &stubTokens{})
	require.NoError(t, err)
	_, ok := gw.(*MockStore)
	assert.True(t, ok, "mock mode must yield a MockStore")

	realCfg := &config.Config{
		Mode: config.ModeReal,
		API:  config.APIConfig{BaseURL: "https://api.genz-store.com", Version: "v1", Timeout: time.Second},
	}
	gw, err = New(realCfg, &stubTokens{})
	require.NoError(t, err)
	_, ok = gw.(*Client)
	assert.True(t, ok, "real mode must yield a Client")
}
