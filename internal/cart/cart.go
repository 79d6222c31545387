// Package cart is the shopper-side cart: a list of items keyed by product id
// and size, merged on add.
package cart

// Item is one cart line. ID and Size together identify it.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
	Size     string  `json:"size"`
}

// Cart holds at most one Item per (ID, Size).
type Cart struct {
	Items []Item `json:"items"`
}

// FromItems folds items into a cart the same way repeated AddItem calls would.
func FromItems(items []Item) Cart {
	var c Cart
	for _, it := range items {
		c.AddItem(it)
	}
	return c
}

func (c *Cart) index(id, size string) int {
	for i, it := range c.Items {
		if it.ID == id && it.Size == size {
			return i
		}
	}
	return -1
}

// AddItem increases the quantity of a matching line or appends a new one.
func (c *Cart) AddItem(item Item) {
	if i := c.index(item.ID, item.Size); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		return
	}
	c.Items = append(c.Items, item)
}

func (c *Cart) RemoveItem(id, size string) {
	i := c.index(id, size)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
}

// UpdateQuantity replaces the quantity of a matching line. Callers clamp; a
// zero or negative quantity is stored as given.
func (c *Cart) UpdateQuantity(id, size string, quantity int) {
	if i := c.index(id, size); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// TotalPrice is the unrounded sum of price times quantity.
func (c Cart) TotalPrice() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func (c Cart) clone() Cart {
	if c.Items == nil {
		return Cart{}
	}
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
