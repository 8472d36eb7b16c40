package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"storefront_client/internal/api"
	"storefront_client/internal/domain"
	"storefront_client/internal/session"
	"storefront_client/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	store   *Store
	session *session.Manager
	files   *storage.FileStore
	dir     string
}

func newFixture(t *testing.T, serverURL string, authenticated bool) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	dir := t.TempDir()
	files, err := storage.NewFileStore(dir, logger)
	require.NoError(t, err)

	sess := session.NewManager(files, logger)
	if authenticated {
		sess.SetToken("test-token")
	}

	client := api.NewClient(serverURL,
		api.WithTokenSource(sess),
		api.WithUnauthorizedHandler(sess.ForceLogout),
		api.WithLogger(logger),
	)

	return &fixture{
		store:   NewStore(client, sess, files, logger),
		session: sess,
		files:   files,
		dir:     dir,
	}
}

func cartBody(items ...domain.CartItem) []byte {
	body, _ := json.Marshal(domain.Cart{ID: 1, Items: items})
	return body
}

func lineItem(id int, productID string, qty int, price int64) domain.CartItem {
	p := decimal.NewFromInt(price)
	return domain.CartItem{
		ID:        id,
		ProductID: productID,
		Name:      "Item " + productID,
		Quantity:  qty,
		Price:     p,
		Total:     p.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestAddReplacesWithServerResponse(t *testing.T) {
	var gotReq struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cart/add", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write(cartBody(lineItem(1, "p1", 2, 10)))
	}))
	defer server.Close()

	f := newFixture(t, server.URL, true)
	require.NoError(t, f.store.Add(context.Background(), "p1", 2, ""))

	assert.Equal(t, "p1", gotReq.ProductID)
	assert.Equal(t, 2, gotReq.Quantity)

	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 2, f.store.ItemCount())
	assert.True(t, f.store.Subtotal().Equal(decimal.NewFromInt(20)))
	assert.Empty(t, f.store.LastError())
}

func TestFailedAddLeavesStateUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // unreachable: transport failure

	f := newFixture(t, server.URL, true)
	err := f.store.Add(context.Background(), "p1", 2, "")
	require.Error(t, err)

	assert.Empty(t, f.store.Items(), "failed mutation must not change the mirror")
	assert.Equal(t, "Network error", f.store.LastError())
}

func TestFailedUpdatePreservesPriorItems(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"quantity must be positive"}`))
			return
		}
		_, _ = w.Write(cartBody(lineItem(1, "p1", 2, 10)))
	}))
	defer server.Close()

	f := newFixture(t, server.URL, true)
	require.NoError(t, f.store.Add(context.Background(), "p1", 2, ""))

	fail.Store(true)
	err := f.store.UpdateQuantity(context.Background(), 1, 0)
	require.Error(t, err)

	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity, "prior mirror survives a rejected update")
	assert.Equal(t, "quantity must be positive", f.store.LastError())
}

func TestRefreshWithoutSessionClearsLocally(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write(cartBody(lineItem(1, "p1", 1, 10)))
	}))
	defer server.Close()

	f := newFixture(t, server.URL, false)
	require.NoError(t, f.store.Refresh(context.Background()))

	assert.Empty(t, f.store.Items())
	assert.Zero(t, requests.Load(), "no session means no network request")
}

func TestMutationsRequireSession(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	f := newFixture(t, server.URL, false)
	require.Error(t, f.store.Add(context.Background(), "p1", 1, ""))
	require.Error(t, f.store.UpdateQuantity(context.Background(), 1, 2))
	require.Error(t, f.store.Remove(context.Background(), 1))
	assert.Zero(t, requests.Load())
}

func TestRefreshIdempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(cartBody(lineItem(1, "p1", 3, 5), lineItem(2, "p2", 1, 7)))
	}))
	defer server.Close()

	f := newFixture(t, server.URL, true)
	require.NoError(t, f.store.Refresh(context.Background()))
	first := f.store.Items()
	require.NoError(t, f.store.Refresh(context.Background()))
	second := f.store.Items()

	assert.Equal(t, first, second)
	assert.Equal(t, 4, f.store.ItemCount())
	assert.True(t, f.store.Subtotal().Equal(decimal.NewFromInt(22)))
}

func TestLogoutClearsCart(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write(cartBody(lineItem(1, "p1", 2, 10)))
	}))
	defer server.Close()

	f := newFixture(t, server.URL, true)
	require.NoError(t, f.store.Refresh(context.Background()))
	require.NotEmpty(t, f.store.Items())
	before := requests.Load()

	f.session.ForceLogout()
	assert.Empty(t, f.store.Items(), "no cart without a session")

	var cached domain.Cart
	assert.False(t, f.files.GetJSON(storage.KeyCart, &cached), "snapshot cleared on logout")

	require.NoError(t, f.store.Refresh(context.Background()))
	assert.Empty(t, f.store.Items())
	assert.Equal(t, before, requests.Load(), "refresh after logout goes nowhere near the network")
}

func TestUnauthorizedResponseTearsDownSessionAndCart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid token"}`))
	}))
	defer server.Close()

	f := newFixture(t, server.URL, true)
	err := f.store.Add(context.Background(), "p1", 1, "")
	require.Error(t, err)

	assert.False(t, f.session.HasValidToken(), "401 clears the token")
	assert.Empty(t, f.store.Items())
}

func TestSnapshotRestoredBeforeFirstFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(cartBody(lineItem(1, "p1", 2, 10)))
	}))
	defer server.Close()

	f := newFixture(t, server.URL, true)
	require.NoError(t, f.store.Refresh(context.Background()))

	// A second store over the same state dir sees the snapshot without
	// any network traffic.
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	files, err := storage.NewFileStore(f.dir, logger)
	require.NoError(t, err)
	sess := session.NewManager(files, logger)
	client := api.NewClient(server.URL, api.WithTokenSource(sess), api.WithLogger(logger))

	reopened := NewStore(client, sess, files, logger)
	assert.Equal(t, 2, reopened.ItemCount())
}

func TestStaleResponseDiscarded(t *testing.T) {
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cart/add" {
			_, _ = w.Write(cartBody(lineItem(1, "p1", 1, 10)))
			return
		}

		var req struct {
			ItemID   int `json:"item_id"`
			Quantity int `json:"quantity"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Quantity == 2 {
			// Hold the first update's response until the second one has
			// been fully served.
			close(firstArrived)
			<-releaseFirst
		}
		_, _ = w.Write(cartBody(lineItem(1, "p1", req.Quantity, 10)))
	}))
	defer server.Close()

	f := newFixture(t, server.URL, true)
	require.NoError(t, f.store.Add(context.Background(), "p1", 1, ""))

	done := make(chan error, 1)
	go func() {
		done <- f.store.UpdateQuantity(context.Background(), 1, 2)
	}()
	<-firstArrived

	// Issued later, completes earlier.
	require.NoError(t, f.store.UpdateQuantity(context.Background(), 1, 3))
	close(releaseFirst)
	require.NoError(t, <-done)

	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity, "the later-issued mutation wins regardless of arrival order")
}

func TestRemoveSendsItemIDQuery(t *testing.T) {
	var gotItemID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cart/remove" {
			gotItemID = r.URL.Query().Get("item_id")
			_, _ = w.Write(cartBody())
			return
		}
		_, _ = w.Write(cartBody(lineItem(5, "p1", 1, 10)))
	}))
	defer server.Close()

	f := newFixture(t, server.URL, true)
	require.NoError(t, f.store.Add(context.Background(), "p1", 1, ""))
	require.NoError(t, f.store.Remove(context.Background(), 5))

	assert.Equal(t, "5", gotItemID)
	assert.Empty(t, f.store.Items())
}
