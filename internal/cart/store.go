// Package cart maintains a local mirror of the server-side cart. Mutations
// are never applied optimistically: the server's response body replaces the
// local state wholesale on success, and on failure the prior mirror is left
// untouched.
package cart

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront_client/internal/api"
	"storefront_client/internal/domain"
	"storefront_client/internal/session"
	"storefront_client/internal/storage"
)

type addRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	VariantID string `json:"variant_id,omitempty"`
}

type updateRequest struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

// Store is the cart state container. All mutations carry a monotonically
// increasing sequence number; a response is discarded when a later-issued
// response has already been applied, so out-of-order arrivals cannot
// resurrect stale state.
type Store struct {
	client  *api.Client
	session *session.Manager
	store   *storage.FileStore
	log     *logrus.Logger

	mu         sync.Mutex
	cart       domain.Cart
	lastError  string
	nextSeq    uint64
	appliedSeq uint64
}

func NewStore(client *api.Client, sess *session.Manager, store *storage.FileStore, logger *logrus.Logger) *Store {
	s := &Store{
		client:  client,
		session: sess,
		store:   store,
		log:     logger,
	}

	// Show the last known snapshot before the first fetch completes. It is
	// never authoritative and is superseded by the next successful fetch.
	var cached domain.Cart
	if store.GetJSON(storage.KeyCart, &cached) {
		s.cart = cached
	}

	// No cart without a session.
	sess.OnLogout(s.clearLocal)

	return s
}

// Add posts a new line item and replaces the local cart with the server's
// response. variantID may be empty.
func (s *Store) Add(ctx context.Context, productID string, quantity int, variantID string) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	seq, err := s.begin()
	if err != nil {
		return err
	}

	s.log.Infof("Cart: adding product %s (quantity %d)", productID, quantity)
	var updated domain.Cart
	callErr := s.client.Post(ctx, "/cart/add", addRequest{
		ProductID: productID,
		Quantity:  quantity,
		VariantID: variantID,
	}, &updated)
	return s.finish(seq, updated, callErr)
}

// UpdateQuantity posts the new absolute quantity (not a delta) for a line
// item.
func (s *Store) UpdateQuantity(ctx context.Context, itemID, quantity int) error {
	seq, err := s.begin()
	if err != nil {
		return err
	}

	s.log.Infof("Cart: updating item %d to quantity %d", itemID, quantity)
	var updated domain.Cart
	callErr := s.client.Put(ctx, "/cart/update", updateRequest{
		ItemID:   itemID,
		Quantity: quantity,
	}, &updated)
	return s.finish(seq, updated, callErr)
}

// Remove deletes a line item.
func (s *Store) Remove(ctx context.Context, itemID int) error {
	seq, err := s.begin()
	if err != nil {
		return err
	}

	s.log.Infof("Cart: removing item %d", itemID)
	var updated domain.Cart
	path := "/cart/remove?" + url.Values{"item_id": {strconv.Itoa(itemID)}}.Encode()
	callErr := s.client.Delete(ctx, path, &updated)
	return s.finish(seq, updated, callErr)
}

// Refresh re-fetches the cart when a session exists. Without a session it
// clears the local mirror and issues no network request.
func (s *Store) Refresh(ctx context.Context) error {
	if !s.session.HasValidToken() {
		s.clearLocal()
		return nil
	}

	s.mu.Lock()
	s.nextSeq++
	seq := s.nextSeq
	s.mu.Unlock()

	var fetched domain.Cart
	callErr := s.client.Get(ctx, "/cart", &fetched)
	return s.finish(seq, fetched, callErr)
}

// Items returns a copy of the current line items.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.CartItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return items
}

// Cart returns a copy of the full cart mirror.
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cart
	c.Items = make([]domain.CartItem, len(s.cart.Items))
	copy(c.Items, s.cart.Items)
	return c
}

// ItemCount is the sum of quantities, recomputed on every call.
func (s *Store) ItemCount() int {
	return s.Cart().ItemCount()
}

// Subtotal is the sum of server-computed line totals, recomputed on every
// call.
func (s *Store) Subtotal() decimal.Decimal {
	return s.Cart().Subtotal()
}

// LastError returns the message of the most recent failed operation, or ""
// after a success.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// begin validates the session and allocates a mutation sequence number.
func (s *Store) begin() (uint64, error) {
	if !s.session.HasValidToken() {
		return 0, fmt.Errorf("no active session")
	}
	s.mu.Lock()
	s.nextSeq++
	seq := s.nextSeq
	s.mu.Unlock()
	return seq, nil
}

// finish applies the outcome of a cart call issued under seq. Failures
// leave the mirror untouched; successes replace it unless a later response
// already won.
func (s *Store) finish(seq uint64, updated domain.Cart, callErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if callErr != nil {
		s.lastError = errorMessage(callErr)
		return callErr
	}

	if seq < s.appliedSeq {
		s.log.Warnf("Cart: discarding stale response (seq %d, already applied %d)", seq, s.appliedSeq)
		return nil
	}

	s.appliedSeq = seq
	s.cart = updated
	s.lastError = ""
	s.persistLocked()
	return nil
}

// clearLocal drops the mirror and its snapshot without touching the server.
func (s *Store) clearLocal() {
	s.mu.Lock()
	s.cart = domain.Cart{}
	s.lastError = ""
	s.mu.Unlock()

	if err := s.store.Delete(storage.KeyCart); err != nil {
		s.log.Warnf("Cart: failed to clear snapshot: %v", err)
	}
}

func (s *Store) persistLocked() {
	if err := s.store.SetJSON(storage.KeyCart, s.cart); err != nil {
		s.log.Warnf("Cart: failed to persist snapshot: %v", err)
	}
}

func errorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
