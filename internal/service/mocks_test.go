package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mhafiz71/linkup-gadgets/internal/cart"
	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/mhafiz71/linkup-gadgets/internal/repository"
	"github.com/shopspring/decimal"
)

type mockEngine struct {
	items        []cart.Item
	itemsErr     error
	quantities   map[int64]int32
	quantityErr  error
	addErr       error
	clearErr     error
	addCalls     []addCall
	removeCalls  []int64
	clearedCount int
}

type addCall struct {
	product  domain.Product
	quantity int32
	override bool
}

func (m *mockEngine) Add(_ context.Context, _ string, product domain.Product, quantity int32, override bool) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.addCalls = append(m.addCalls, addCall{product: product, quantity: quantity, override: override})
	return nil
}

func (m *mockEngine) Remove(_ context.Context, _ string, productID int64) error {
	m.removeCalls = append(m.removeCalls, productID)
	return nil
}

func (m *mockEngine) ItemQuantity(_ context.Context, _ string, productID int64) (int32, error) {
	if m.quantityErr != nil {
		return 0, m.quantityErr
	}
	return m.quantities[productID], nil
}

func (m *mockEngine) Items(_ context.Context, _ string) ([]cart.Item, error) {
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	return m.items, nil
}

func (m *mockEngine) TotalPrice(_ context.Context, _ string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range m.items {
		total = total.Add(item.TotalPrice)
	}
	return total, nil
}

func (m *mockEngine) Len(_ context.Context, _ string) (int32, error) {
	var count int32
	for _, item := range m.items {
		count += item.Quantity
	}
	return count, nil
}

func (m *mockEngine) Clear(_ context.Context, _ string) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.clearedCount++
	return nil
}

type mockOrderRepo struct {
	createFn      func(ctx context.Context, order *domain.Order) error
	getUserFn     func(ctx context.Context, id uuid.UUID, userID string) (*domain.Order, error)
	listFn        func(ctx context.Context, userID string) ([]*domain.Order, error)
	markPaidFn    func(ctx context.Context, id uuid.UUID, reference string) (bool, error)
	cancelFn      func(ctx context.Context, id uuid.UUID, userID string, cutoff time.Time) (*domain.Order, error)
	vendorSalesFn func(ctx context.Context, vendorID int64) ([]domain.OrderItem, error)

	created []*domain.Order
}

func (m *mockOrderRepo) CreateOrder(ctx context.Context, order *domain.Order) error {
	m.created = append(m.created, order)
	if m.createFn != nil {
		return m.createFn(ctx, order)
	}
	return nil
}

func (m *mockOrderRepo) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return m.getUserFn(ctx, id, "")
}

func (m *mockOrderRepo) GetUserOrder(ctx context.Context, id uuid.UUID, userID string) (*domain.Order, error) {
	return m.getUserFn(ctx, id, userID)
}

func (m *mockOrderRepo) ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	return m.listFn(ctx, userID)
}

func (m *mockOrderRepo) MarkPaid(ctx context.Context, id uuid.UUID, reference string) (bool, error) {
	return m.markPaidFn(ctx, id, reference)
}

func (m *mockOrderRepo) CancelOrder(ctx context.Context, id uuid.UUID, userID string, cutoff time.Time) (*domain.Order, error) {
	return m.cancelFn(ctx, id, userID, cutoff)
}

func (m *mockOrderRepo) ListVendorSales(ctx context.Context, vendorID int64) ([]domain.OrderItem, error) {
	return m.vendorSalesFn(ctx, vendorID)
}

type mockNotifier struct {
	confirmErr    error
	statusErr     error
	confirmations []*domain.Order
	statusUpdates []*domain.Order
}

func (m *mockNotifier) SendOrderConfirmation(_ context.Context, order *domain.Order) error {
	if m.confirmErr != nil {
		return m.confirmErr
	}
	m.confirmations = append(m.confirmations, order)
	return nil
}

func (m *mockNotifier) SendOrderStatusUpdate(_ context.Context, order *domain.Order) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	m.statusUpdates = append(m.statusUpdates, order)
	return nil
}

type mockVerifier struct {
	err      error
	verified []verifyCall
}

type verifyCall struct {
	reference string
	subunits  int64
}

func (m *mockVerifier) VerifyTransaction(_ context.Context, reference string, expectedSubunits int64) error {
	if m.err != nil {
		return m.err
	}
	m.verified = append(m.verified, verifyCall{reference: reference, subunits: expectedSubunits})
	return nil
}

type mockProductRepo struct {
	products map[int64]domain.Product
	getErr   error
}

func (m *mockProductRepo) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	if m.getErr != nil {
		return domain.Product{}, m.getErr
	}
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetProductBySlug(_ context.Context, slug string) (domain.Product, error) {
	for _, p := range m.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return domain.Product{}, repository.ErrProductNotFound
}

func (m *mockProductRepo) GetProductsByIDs(_ context.Context, ids []int64) ([]domain.Product, error) {
	var result []domain.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockProductRepo) CreateProduct(_ context.Context, product domain.Product) (int64, error) {
	id := int64(len(m.products) + 1)
	product.ID = id
	m.products[id] = product
	return id, nil
}

func (m *mockProductRepo) SetStock(_ context.Context, vendorID, productID int64, quantity int32) error {
	p, ok := m.products[productID]
	if !ok || p.VendorID != vendorID {
		return repository.ErrProductNotFound
	}
	p.StockQuantity = quantity
	m.products[productID] = p
	return nil
}
