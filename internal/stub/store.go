// Package stub implements an in-memory storefront API server. It backs the
// integration tests and `cmd/stubserver` for local development, so neither
// needs a real backend or database.
package stub

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"storefront_client/internal/domain"
)

type account struct {
	user         domain.User
	passwordHash string
}

// Store holds all server-side state behind one mutex. Line totals are
// always computed here, never trusted from the client.
type Store struct {
	mu sync.Mutex

	accounts map[string]*account       // keyed by email
	tokens   map[string]int            // token -> user ID
	products map[int]domain.Product
	cats     map[int]domain.Category
	carts    map[int][]domain.CartItem // user ID -> items
	orders   map[int]domain.Order

	nextUserID    int
	nextProductID int
	nextCatID     int
	nextItemID    int
	nextOrderID   int
	nextCartID    int
	cartIDs       map[int]int // user ID -> cart ID
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*account),
		tokens:   make(map[string]int),
		products: make(map[int]domain.Product),
		cats:     make(map[int]domain.Category),
		carts:    make(map[int][]domain.CartItem),
		orders:   make(map[int]domain.Order),
		cartIDs:  make(map[int]int),
	}
}

// --- accounts and sessions ---

func (s *Store) CreateAccount(name, email, password string, role domain.Role, orgID int) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[email]; exists {
		return domain.User{}, fmt.Errorf("user with email '%s' already exists", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.nextUserID++
	user := domain.User{
		ID:    s.nextUserID,
		Name:  name,
		Email: email,
		Role:  role,
		OrgID: orgID,
	}
	s.accounts[email] = &account{user: user, passwordHash: string(hash)}
	return user, nil
}

// Authenticate checks credentials and issues a bearer token.
func (s *Store) Authenticate(email, password string) (string, domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[email]
	if !ok {
		return "", domain.User{}, fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(password)); err != nil {
		return "", domain.User{}, fmt.Errorf("invalid email or password")
	}

	token := uuid.NewString()
	s.tokens[token] = acct.user.ID
	return token, acct.user, nil
}

// IssueToken creates a session for an existing user (signup flow).
func (s *Store) IssueToken(userID int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = userID
	return token
}

func (s *Store) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// UserForToken resolves a bearer token to its user.
func (s *Store) UserForToken(token string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.tokens[token]
	if !ok {
		return domain.User{}, false
	}
	for _, acct := range s.accounts {
		if acct.user.ID == userID {
			return acct.user, true
		}
	}
	return domain.User{}, false
}

func (s *Store) UpdateUser(id int, updates map[string]interface{}) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accounts {
		if acct.user.ID != id {
			continue
		}
		if name, ok := updates["name"].(string); ok && name != "" {
			acct.user.Name = name
		}
		if email, ok := updates["email_address"].(string); ok && email != "" {
			acct.user.Email = email
		}
		if role, ok := updates["role"].(string); ok && domain.IsValidRole(domain.Role(role)) {
			acct.user.Role = domain.Role(role)
		}
		return acct.user, nil
	}
	return domain.User{}, fmt.Errorf("user with ID %d not found", id)
}

func (s *Store) ChangePassword(id int, current, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accounts {
		if acct.user.ID != id {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(current)); err != nil {
			return fmt.Errorf("invalid current password")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		acct.passwordHash = string(hash)
		return nil
	}
	return fmt.Errorf("user with ID %d not found", id)
}

func (s *Store) ListUsers() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]domain.User, 0, len(s.accounts))
	for _, acct := range s.accounts {
		users = append(users, acct.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (s *Store) GetUser(id int) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accounts {
		if acct.user.ID == id {
			return acct.user, true
		}
	}
	return domain.User{}, false
}

func (s *Store) DeleteUser(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for email, acct := range s.accounts {
		if acct.user.ID == id {
			delete(s.accounts, email)
			for token, uid := range s.tokens {
				if uid == id {
					delete(s.tokens, token)
				}
			}
			return nil
		}
	}
	return fmt.Errorf("user with ID %d not found", id)
}

// --- catalog ---

func (s *Store) CreateProduct(p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.CategoryID != 0 {
		if _, ok := s.cats[p.CategoryID]; !ok {
			return domain.Product{}, fmt.Errorf("category with id %d does not exist", p.CategoryID)
		}
	}
	s.nextProductID++
	p.ID = s.nextProductID
	s.products[p.ID] = p
	return p, nil
}

func (s *Store) GetProduct(id int) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

func (s *Store) UpdateProduct(id int, update domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product with ID %d not found", id)
	}
	if update.Name != "" {
		p.Name = update.Name
	}
	if update.Description != "" {
		p.Description = update.Description
	}
	if update.Price.Sign() > 0 {
		p.Price = update.Price
	}
	if update.Stock >= 0 {
		p.Stock = update.Stock
	}
	if update.CategoryID != 0 {
		if _, ok := s.cats[update.CategoryID]; !ok {
			return domain.Product{}, fmt.Errorf("category with id %d does not exist", update.CategoryID)
		}
		p.CategoryID = update.CategoryID
	}
	if update.ImageURL != "" {
		p.ImageURL = update.ImageURL
	}
	s.products[id] = p
	return p, nil
}

func (s *Store) DeleteProduct(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("product with ID %d not found", id)
	}
	delete(s.products, id)
	return nil
}

// ListProducts returns one page of products sorted by ID plus the
// pagination envelope.
func (s *Store) ListProducts(page, perPage, categoryID int) ([]domain.Product, domain.PageMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if categoryID > 0 && p.CategoryID != categoryID {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}

	total := len(all)
	totalPages := (total + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	meta := domain.PageMeta{
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		TotalCount: total,
	}
	return all[start:end], meta
}

func (s *Store) CreateCategory(c domain.Category) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCatID++
	c.ID = s.nextCatID
	s.cats[c.ID] = c
	return c
}

func (s *Store) GetCategory(id int) (domain.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cats[id]
	return c, ok
}

func (s *Store) UpdateCategory(id int, name, imageURL string) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cats[id]
	if !ok {
		return domain.Category{}, fmt.Errorf("category with ID %d not found", id)
	}
	if name != "" {
		c.Name = name
	}
	if imageURL != "" {
		c.ImageURL = imageURL
	}
	s.cats[id] = c
	return c, nil
}

func (s *Store) DeleteCategory(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cats[id]; !ok {
		return fmt.Errorf("category with ID %d not found", id)
	}
	delete(s.cats, id)
	return nil
}

func (s *Store) ListCategories() []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats := make([]domain.Category, 0, len(s.cats))
	for _, c := range s.cats {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].ID < cats[j].ID })
	return cats
}

// --- cart ---

// Cart returns the user's cart with server-computed totals.
func (s *Store) Cart(userID int) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLocked(userID)
}

func (s *Store) cartLocked(userID int) domain.Cart {
	if _, ok := s.cartIDs[userID]; !ok {
		s.nextCartID++
		s.cartIDs[userID] = s.nextCartID
	}
	items := make([]domain.CartItem, len(s.carts[userID]))
	copy(items, s.carts[userID])
	return domain.Cart{ID: s.cartIDs[userID], Items: items}
}

// AddCartItem adds quantity of a product to the user's cart, merging with
// an existing line for the same product/variant.
func (s *Store) AddCartItem(userID int, productID string, quantity int, variantID string) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pid, err := strconv.Atoi(productID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("invalid product ID format")
	}
	product, ok := s.products[pid]
	if !ok {
		return domain.Cart{}, fmt.Errorf("product with ID %d not found", pid)
	}
	if quantity <= 0 {
		return domain.Cart{}, fmt.Errorf("quantity must be positive")
	}
	if product.Stock < quantity {
		return domain.Cart{}, fmt.Errorf("insufficient stock for product %d", pid)
	}

	items := s.carts[userID]
	merged := false
	for i, item := range items {
		if item.ProductID == productID && item.Variant == variantID {
			items[i].Quantity += quantity
			items[i].Total = items[i].Price.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
			merged = true
			break
		}
	}
	if !merged {
		s.nextItemID++
		items = append(items, domain.CartItem{
			ID:        s.nextItemID,
			ProductID: productID,
			Name:      product.Name,
			Variant:   variantID,
			Quantity:  quantity,
			Price:     product.Price,
			Total:     product.Price.Mul(decimal.NewFromInt(int64(quantity))),
			ImageURL:  product.ImageURL,
		})
	}
	s.carts[userID] = items
	return s.cartLocked(userID), nil
}

// UpdateCartItem sets the absolute quantity for a line item.
func (s *Store) UpdateCartItem(userID, itemID, quantity int) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return domain.Cart{}, fmt.Errorf("quantity must be positive")
	}
	items := s.carts[userID]
	for i, item := range items {
		if item.ID == itemID {
			items[i].Quantity = quantity
			items[i].Total = items[i].Price.Mul(decimal.NewFromInt(int64(quantity)))
			s.carts[userID] = items
			return s.cartLocked(userID), nil
		}
	}
	return domain.Cart{}, fmt.Errorf("cart item with ID %d not found", itemID)
}

func (s *Store) RemoveCartItem(userID, itemID int) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i, item := range items {
		if item.ID == itemID {
			s.carts[userID] = append(items[:i], items[i+1:]...)
			return s.cartLocked(userID), nil
		}
	}
	return domain.Cart{}, fmt.Errorf("cart item with ID %d not found", itemID)
}

// --- orders ---

// PlaceOrder converts the user's cart into an order, decrements stock and
// empties the cart.
func (s *Store) PlaceOrder(userID int) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	if len(items) == 0 {
		return domain.Order{}, fmt.Errorf("cart is empty")
	}

	// Check stock before committing anything.
	for _, item := range items {
		pid, err := strconv.Atoi(item.ProductID)
		if err != nil {
			continue
		}
		product, ok := s.products[pid]
		if !ok {
			return domain.Order{}, fmt.Errorf("product with ID %d no longer exists", pid)
		}
		if product.Stock < item.Quantity {
			return domain.Order{}, fmt.Errorf("insufficient stock for product %d", pid)
		}
	}

	total := decimal.Zero
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		if pid, err := strconv.Atoi(item.ProductID); err == nil {
			product := s.products[pid]
			product.Stock -= item.Quantity
			s.products[pid] = product
		}
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
		total = total.Add(item.Total)
	}

	s.nextOrderID++
	now := time.Now().UTC()
	order := domain.Order{
		ID:        s.nextOrderID,
		UserID:    userID,
		Items:     orderItems,
		Status:    domain.StatusPending,
		Total:     total,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.orders[order.ID] = order
	s.carts[userID] = nil
	return order, nil
}

func (s *Store) GetOrder(id int) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

func (s *Store) ListOrders(userID int, all bool) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if all || o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders
}

func (s *Store) UpdateOrderStatus(id int, status domain.OrderStatus) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("order with ID %d not found", id)
	}
	if order.Status == domain.StatusCompleted && status == domain.StatusCancelled {
		return domain.Order{}, fmt.Errorf("cannot cancel a completed order")
	}
	if order.Status == domain.StatusCancelled && status != domain.StatusCancelled {
		return domain.Order{}, fmt.Errorf("cannot change status of a cancelled order")
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	s.orders[id] = order
	return order, nil
}

// Dashboard aggregates stats across the whole store.
func (s *Store) Dashboard() domain.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	revenue := decimal.Zero
	orders := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if o.Status != domain.StatusCancelled {
			revenue = revenue.Add(o.Total)
		}
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	if len(orders) > 5 {
		orders = orders[:5]
	}

	return domain.DashboardStats{
		TotalOrders:   len(s.orders),
		TotalRevenue:  revenue,
		TotalUsers:    len(s.accounts),
		TotalProducts: len(s.products),
		RecentOrders:  orders,
	}
}
