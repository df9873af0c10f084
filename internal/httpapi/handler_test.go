package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/safar/go-storefront/internal/catalog"
	"github.com/safar/go-storefront/internal/checkout"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/session"
	"github.com/safar/go-storefront/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	orders map[string]*models.Order
}

func (f *fakeOrders) Get(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, ok := f.orders[orderNumber]
	if !ok {
		return nil, database.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrders) List(ctx context.Context, cursor string, limit int) (*store.CursorPage, error) {
	if cursor != "" {
		return nil, store.ErrInvalidCursor
	}
	summaries := []store.OrderSummary{}
	for _, o := range f.orders {
		summaries = append(summaries, store.OrderSummary{OrderNumber: o.ID, TotalAmount: o.TotalAmount})
	}
	return &store.CursorPage{Items: summaries}, nil
}

type testAPI struct {
	router    http.Handler
	sessions  *session.Manager
	processor *checkout.SimulatedProcessor
	sink      *checkout.MemorySink
}

func newTestAPI(t *testing.T, orders OrderHistory) *testAPI {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	processor := checkout.NewSimulatedProcessor(0)
	sink := checkout.NewMemorySink()
	sessions := session.NewManager(session.Options{
		Processor:       processor,
		Sink:            sink,
		Logger:          logger,
		IdleTimeout:     time.Hour,
		NotificationCap: 20,
	})
	h := NewHandler(catalog.New(catalog.Builtin()), sessions, orders, logger)
	return &testAPI{router: NewRouter(h), sessions: sessions, processor: processor, sink: sink}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) newSession(t *testing.T) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type cartResponse struct {
	Items []struct {
		Product  models.Product `json:"product"`
		Quantity int            `json:"quantity"`
	} `json:"items"`
	Total     string `json:"total"`
	ItemCount int    `json:"item_count"`
}

type wishlistResponse struct {
	Items []models.Product `json:"items"`
	Count int              `json:"count"`
}

type pageResponse struct {
	Items      []models.Product `json:"items"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"total_pages"`
}

func checkoutForm() models.OrderDetails {
	return models.OrderDetails{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Address: "12 Analytical Row", City: "London", State: "LDN", ZipCode: "NW1", Country: "UK",
		CardName: "A Lovelace", CardNumber: "4242424242424242", ExpiryDate: "12/30", CVV: "123",
	}
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", strings.TrimSpace(rec.Body.String()))
}

func TestListProducts(t *testing.T) {
	api := newTestAPI(t, nil)

	tests := []struct {
		name    string
		query   string
		wantIDs []int64
	}{
		{"everything", "", []int64{1, 2, 3, 4, 5, 6, 7, 8}},
		{"search", "?search=LAMP", []int64{1}},
		{"category all", "?category=all", []int64{1, 2, 3, 4, 5, 6, 7, 8}},
		{"category", "?category=Stationery", []int64{2}},
		{"price band", "?price=under50", []int64{2}},
		{"combined", "?category=Home+Decor&price=100to150", []int64{5}},
		{"paged", "?page=2&page_size=3", []int64{4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodGet, "/api/products"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			page := decode[pageResponse](t, rec)
			var ids []int64
			for _, p := range page.Items {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestListProductsUnknownPriceBand(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/api/products?price=cheap", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Minimal Desk Lamp", decode[models.Product](t, rec).Name)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/products/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/products/abc", nil).Code)
}

func TestFeaturedSimilarAndCategories(t *testing.T) {
	api := newTestAPI(t, nil)

	featured := decode[[]models.Product](t, api.do(t, http.MethodGet, "/api/products/featured", nil))
	assert.Len(t, featured, 4)

	similar := decode[[]models.Product](t, api.do(t, http.MethodGet, "/api/products/5/similar", nil))
	require.Len(t, similar, 1)
	assert.Equal(t, int64(6), similar[0].ID)

	none := decode[[]models.Product](t, api.do(t, http.MethodGet, "/api/products/1/similar", nil))
	assert.Empty(t, none)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/products/99/similar", nil).Code)

	categories := decode[[]string](t, api.do(t, http.MethodGet, "/api/categories", nil))
	require.NotEmpty(t, categories)
	assert.Equal(t, "all", categories[0])
}

func TestUnknownSession(t *testing.T) {
	api := newTestAPI(t, nil)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/sessions/nope/cart", nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodDelete, "/api/sessions/nope", nil).Code)
}

func TestCartFlow(t *testing.T) {
	api := newTestAPI(t, nil)
	sid := api.newSession(t)
	base := "/api/sessions/" + sid

	rec := api.do(t, http.MethodPost, base+"/cart/items", addItemRequest{ProductID: 1, Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodPost, base+"/cart/items", `{"product_id": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decode[cartResponse](t, rec)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 1, cart.Items[1].Quantity)
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, "209.97", cart.Total)

	rec = api.do(t, http.MethodPut, base+"/cart/items/1", quantityRequest{Quantity: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, decode[cartResponse](t, rec).ItemCount)

	rec = api.do(t, http.MethodPut, base+"/cart/items/1", quantityRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[cartResponse](t, rec).Items, 1)

	rec = api.do(t, http.MethodDelete, base+"/cart/items/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[cartResponse](t, rec).Items)

	api.do(t, http.MethodPost, base+"/cart/items", addItemRequest{ProductID: 3, Quantity: 1})
	rec = api.do(t, http.MethodDelete, base+"/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[cartResponse](t, rec).ItemCount)
}

func TestCartRejectsBadInput(t *testing.T) {
	api := newTestAPI(t, nil)
	base := "/api/sessions/" + api.newSession(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"zero quantity", http.MethodPost, "/cart/items", addItemRequest{ProductID: 1, Quantity: 0}, http.StatusBadRequest},
		{"unknown product", http.MethodPost, "/cart/items", addItemRequest{ProductID: 99, Quantity: 1}, http.StatusNotFound},
		{"malformed body", http.MethodPost, "/cart/items", `{"product_id":`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/cart/items", `{"sku": "x"}`, http.StatusBadRequest},
		{"negative update", http.MethodPut, "/cart/items/1", quantityRequest{Quantity: -1}, http.StatusBadRequest},
		{"bad product id", http.MethodDelete, "/cart/items/abc", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, api.do(t, tt.method, base+tt.path, tt.body).Code)
		})
	}
}

func TestWishlistFlow(t *testing.T) {
	api := newTestAPI(t, nil)
	base := "/api/sessions/" + api.newSession(t)

	rec := api.do(t, http.MethodPost, base+"/wishlist/items", wishlistItemRequest{ProductID: 4})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPost, base+"/wishlist/items", wishlistItemRequest{ProductID: 4})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[wishlistResponse](t, rec).Count)

	api.do(t, http.MethodPost, base+"/wishlist/items", wishlistItemRequest{ProductID: 6})
	rec = api.do(t, http.MethodDelete, base+"/wishlist/items/4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[wishlistResponse](t, rec)
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(6), list.Items[0].ID)

	rec = api.do(t, http.MethodDelete, base+"/wishlist", nil)
	assert.Zero(t, decode[wishlistResponse](t, rec).Count)

	rec = api.do(t, http.MethodGet, base+"/wishlist", nil)
	assert.Empty(t, decode[wishlistResponse](t, rec).Items)
}

func TestNotificationsDrain(t *testing.T) {
	api := newTestAPI(t, nil)
	base := "/api/sessions/" + api.newSession(t)

	api.do(t, http.MethodPost, base+"/cart/items", addItemRequest{ProductID: 1, Quantity: 1})
	api.do(t, http.MethodPost, base+"/wishlist/items", wishlistItemRequest{ProductID: 1})
	api.do(t, http.MethodPost, base+"/wishlist/items", wishlistItemRequest{ProductID: 1})

	got := decode[[]events.Event](t, api.do(t, http.MethodGet, base+"/notifications", nil))
	require.Len(t, got, 3)
	assert.Equal(t, "Added Minimal Desk Lamp to cart", got[0].Message)
	assert.Equal(t, "Added Minimal Desk Lamp to wishlist", got[1].Message)
	assert.Equal(t, events.LevelInfo, got[2].Level)

	again := decode[[]events.Event](t, api.do(t, http.MethodGet, base+"/notifications", nil))
	assert.Empty(t, again)
}

func TestCheckout(t *testing.T) {
	api := newTestAPI(t, nil)
	base := "/api/sessions/" + api.newSession(t)

	api.do(t, http.MethodPost, base+"/cart/items", addItemRequest{ProductID: 1, Quantity: 2})
	api.do(t, http.MethodPost, base+"/cart/items", addItemRequest{ProductID: 2, Quantity: 1})

	rec := api.do(t, http.MethodPost, base+"/checkout", checkoutForm())
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "4242424242424242")

	order := decode[models.Order](t, rec)
	assert.True(t, strings.HasPrefix(order.ID, "ORD-"))
	assert.Equal(t, "209.97", order.TotalAmount.StringFixed(2))
	assert.Equal(t, "ada@example.com", order.OrderDetails.Email)

	require.Len(t, api.sink.Orders(), 1)
	cart := decode[cartResponse](t, api.do(t, http.MethodGet, base+"/cart", nil))
	assert.Empty(t, cart.Items)
}

func TestCheckoutErrors(t *testing.T) {
	api := newTestAPI(t, nil)
	base := "/api/sessions/" + api.newSession(t)

	rec := api.do(t, http.MethodPost, base+"/checkout", checkoutForm())
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty cart")

	api.do(t, http.MethodPost, base+"/cart/items", addItemRequest{ProductID: 1, Quantity: 1})

	incomplete := checkoutForm()
	incomplete.CVV = ""
	rec = api.do(t, http.MethodPost, base+"/checkout", incomplete)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(t, http.MethodPost, base+"/checkout", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	api.processor.FailNext(nil)
	rec = api.do(t, http.MethodPost, base+"/checkout", checkoutForm())
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	cart := decode[cartResponse](t, api.do(t, http.MethodGet, base+"/cart", nil))
	assert.Len(t, cart.Items, 1, "failed checkout keeps the cart")
	assert.Empty(t, api.sink.Orders())
}

func TestCheckoutStatus(t *testing.T) {
	assert.Equal(t, http.StatusConflict, checkoutStatus(checkout.ErrCheckoutInProgress))
	assert.Equal(t, http.StatusConflict, checkoutStatus(checkout.ErrCartChanged))
	assert.Equal(t, http.StatusServiceUnavailable, checkoutStatus(context.Canceled))
	assert.Equal(t, http.StatusInternalServerError, checkoutStatus(io.ErrUnexpectedEOF))
}

func TestEndSession(t *testing.T) {
	api := newTestAPI(t, nil)
	sid := api.newSession(t)

	rec := api.do(t, http.MethodDelete, "/api/sessions/"+sid, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, api.sessions.Len())

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/sessions/"+sid+"/cart", nil).Code)
}

func TestOrderHistory(t *testing.T) {
	placed := &models.Order{ID: "ORD-1"}
	api := newTestAPI(t, &fakeOrders{orders: map[string]*models.Order{"ORD-1": placed}})

	rec := api.do(t, http.MethodGet, "/api/orders/ORD-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ORD-1", decode[models.Order](t, rec).ID)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/orders/ORD-2", nil).Code)
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/orders", nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/orders?cursor=x", nil).Code)
}

func TestOrderHistoryNotMountedWithoutStore(t *testing.T) {
	api := newTestAPI(t, nil)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/orders", nil).Code)
}
