package domain

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID       uuid.UUID
	UserID   string
	FullName string
	Email    string
	Phone    string
	Address  string
	City     string

	TotalPaid        Money
	Paid             bool
	Status           OrderStatus
	PaymentReference string

	Items []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is a per-product snapshot owned by exactly one order. Price and
// ProductName are copied at order-creation time so later catalog changes, or
// even product deletion, cannot alter the financial record.
type OrderItem struct {
	ProductID   int64
	ProductName string
	Price       Money
	Quantity    int32
}

func (i OrderItem) TotalPrice() Money {
	return i.Price.Mul(i.Quantity)
}
