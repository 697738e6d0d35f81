package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/mhafiz71/linkup-gadgets/internal/repository"
)

// In-memory repositories honoring the same sentinel contracts as the Postgres
// ones, so handler tests can exercise full request flows without a database.

type fakeProductRepo struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int64]domain.Product)}
}

func (f *fakeProductRepo) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, repository.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) GetProductBySlug(_ context.Context, slug string) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return domain.Product{}, repository.ErrProductNotFound
}

func (f *fakeProductRepo) GetProductsByIDs(_ context.Context, ids []int64) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakeProductRepo) CreateProduct(_ context.Context, product domain.Product) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	product.ID = f.nextID
	product.CreatedAt = time.Now()
	f.products[product.ID] = product
	return product.ID, nil
}

func (f *fakeProductRepo) SetStock(_ context.Context, vendorID, productID int64, quantity int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok || p.VendorID != vendorID {
		return repository.ErrProductNotFound
	}
	p.StockQuantity = quantity
	f.products[productID] = p
	return nil
}

func (f *fakeProductRepo) reserve(productID int64, quantity int32) error {
	p, ok := f.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}
	if p.StockQuantity < quantity {
		return repository.ErrInsufficientStock
	}
	p.StockQuantity -= quantity
	f.products[productID] = p
	return nil
}

func (f *fakeProductRepo) restore(productID int64, quantity int32) {
	if p, ok := f.products[productID]; ok {
		p.StockQuantity += quantity
		f.products[productID] = p
	}
}

type fakeOrderRepo struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*domain.Order
	products *fakeProductRepo
}

func newFakeOrderRepo(products *fakeProductRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   make(map[uuid.UUID]*domain.Order),
		products: products,
	}
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products.mu.Lock()
	defer f.products.mu.Unlock()

	reserved := make([]domain.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		if err := f.products.reserve(item.ProductID, item.Quantity); err != nil {
			for _, done := range reserved {
				f.products.restore(done.ProductID, done.Quantity)
			}
			return err
		}
		reserved = append(reserved, item)
	}

	stored := *order
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.orders[order.ID] = &stored
	return nil
}

func (f *fakeOrderRepo) GetOrder(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeOrderRepo) GetUserOrder(ctx context.Context, id uuid.UUID, userID string) (*domain.Order, error) {
	order, err := f.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			clone := *order
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeOrderRepo) MarkPaid(_ context.Context, id uuid.UUID, reference string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return false, repository.ErrOrderNotFound
	}
	if order.Paid {
		return false, nil
	}
	order.Paid = true
	order.Status = domain.OrderStatusPaid
	order.PaymentReference = reference
	order.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeOrderRepo) CancelOrder(_ context.Context, id uuid.UUID, userID string, cutoff time.Time) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok || order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	if order.Paid {
		return nil, repository.ErrOrderAlreadyPaid
	}
	if order.CreatedAt.Before(cutoff) {
		return nil, repository.ErrCancelWindowExpired
	}

	f.products.mu.Lock()
	for _, item := range order.Items {
		f.products.restore(item.ProductID, item.Quantity)
	}
	f.products.mu.Unlock()

	delete(f.orders, id)
	clone := *order
	clone.Status = domain.OrderStatusCancelled
	return &clone, nil
}

func (f *fakeOrderRepo) ListVendorSales(_ context.Context, vendorID int64) ([]domain.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products.mu.Lock()
	defer f.products.mu.Unlock()

	var sales []domain.OrderItem
	for _, order := range f.orders {
		if !order.Paid {
			continue
		}
		for _, item := range order.Items {
			if p, ok := f.products.products[item.ProductID]; ok && p.VendorID == vendorID {
				sales = append(sales, item)
			}
		}
	}
	return sales, nil
}

type fakeNotifier struct {
	mu            sync.Mutex
	confirmErr    error
	confirmations int
	statusUpdates int
}

func (f *fakeNotifier) SendOrderConfirmation(_ context.Context, _ *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmations++
	return nil
}

func (f *fakeNotifier) SendOrderStatusUpdate(_ context.Context, _ *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusUpdates++
	return nil
}
