package domain

import "time"

type Product struct {
	ID            int64
	VendorID      int64
	Name          string
	Slug          string
	Price         Money
	StockQuantity int32
	IsFeatured    bool
	CreatedAt     time.Time
}
