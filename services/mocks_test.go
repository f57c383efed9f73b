package services_test

import (
	"context"
	"sort"
	"time"

	apperrors "github.com/ecocycle/backend/errors"
	"github.com/ecocycle/backend/models"
	"github.com/ecocycle/backend/repository"
)

// ---- in-memory cart repository ----

// memCartRepo stores carts by value, like the Redis JSON round-trip does, so
// mutations through a stale pointer cannot leak into the store.
type memCartRepo struct {
	carts map[string]models.Cart
	idem  map[string]string

	saveErr   error
	getErr    error
	deleteErr error
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{
		carts: make(map[string]models.Cart),
		idem:  make(map[string]string),
	}
}

func (m *memCartRepo) GetCart(_ context.Context, userID string) (*models.Cart, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	cart, ok := m.carts[userID]
	if !ok {
		return nil, nil
	}
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	cart.Items = items
	return &cart, nil
}

func (m *memCartRepo) SaveCart(_ context.Context, cart *models.Cart) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	stored := *cart
	stored.Items = make([]models.CartItem, len(cart.Items))
	copy(stored.Items, cart.Items)
	stored.UpdatedAt = time.Now()
	m.carts[cart.UserID] = stored
	return nil
}

func (m *memCartRepo) DeleteCart(_ context.Context, userID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.carts, userID)
	return nil
}

func (m *memCartRepo) GetIdempotency(_ context.Context, key string) (string, error) {
	return m.idem[key], nil
}

func (m *memCartRepo) SetIdempotency(_ context.Context, key, orderNumber string, _ time.Duration) error {
	m.idem[key] = orderNumber
	return nil
}

// ---- stub catalog ----

type stubCatalog struct {
	products map[string]models.Product
}

func newStubCatalog(products ...models.Product) *stubCatalog {
	c := &stubCatalog{products: make(map[string]models.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *stubCatalog) FindByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	return &p, nil
}

func (c *stubCatalog) Find(_ context.Context, _ repository.ProductFilter) ([]models.Product, error) {
	products := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

// ---- in-memory order repository ----

type memOrderRepo struct {
	orders    map[string]models.Order
	createErr error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]models.Order)}
}

func cloneOrder(o models.Order) *models.Order {
	items := make([]models.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return &o
}

func (m *memOrderRepo) Create(_ context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.orders[order.OrderNumber] = *cloneOrder(*order)
	return nil
}

func (m *memOrderRepo) FindByNumber(_ context.Context, number string) (*models.Order, error) {
	o, ok := m.orders[number]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (m *memOrderRepo) FindByNumberAndUserID(_ context.Context, number, userID string) (*models.Order, error) {
	o, ok := m.orders[number]
	if !ok || o.UserID != userID {
		return nil, apperrors.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (m *memOrderRepo) FindByUserID(_ context.Context, userID string, page, limit int) ([]models.Order, int64, error) {
	var matched []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			matched = append(matched, *cloneOrder(o))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *memOrderRepo) Transition(_ context.Context, number string, mutate func(*models.Order) error) (*models.Order, error) {
	o, ok := m.orders[number]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}
	working := cloneOrder(o)
	if err := mutate(working); err != nil {
		return nil, err
	}
	m.orders[number] = *cloneOrder(*working)
	return working, nil
}

// ---- producers / publishers ----

type mockProducer struct {
	events  []models.OrderCreatedEvent
	sendErr error
}

func (p *mockProducer) SendOrderCreated(_ context.Context, event models.OrderCreatedEvent) error {
	if p.sendErr != nil {
		return p.sendErr
	}
	p.events = append(p.events, event)
	return nil
}

type mockSNS struct {
	published [][]byte
	err       error
}

func (m *mockSNS) Publish(_ context.Context, _ string, message []byte) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, message)
	return nil
}
