package domain

import "strconv"

// Cart is the session-scoped shopping cart. It has no database identity; the
// whole structure round-trips through the session store as a JSON blob, which
// is why unit prices are kept as strings rather than decimals.
type Cart struct {
	Lines map[string]CartLine `json:"lines"`
}

// CartLine is a single product entry. UnitPrice is the catalog price captured
// when the product was first added and is never re-read from the live catalog
// for the lifetime of the cart.
type CartLine struct {
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

func NewCart() *Cart {
	return &Cart{Lines: make(map[string]CartLine)}
}

// Len counts the total number of items, i.e. the sum of all line quantities.
func (c *Cart) Len() int32 {
	var total int32
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// LineKey maps a product id to its cart key. Keys are strings because the
// session blob is JSON and JSON object keys are always strings.
func LineKey(productID int64) string {
	return strconv.FormatInt(productID, 10)
}
