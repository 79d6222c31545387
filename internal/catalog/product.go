package catalog

// Product is a catalog entry. Prices are in the shop currency.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Image         string   `json:"image"`
	Category      string   `json:"category"`
	Type          string   `json:"type"`
	Age           string   `json:"age"`
	Colors        []string `json:"color"`
	Sizes         []string `json:"sizes"`
	Description   string   `json:"description"`
	IsNew         bool     `json:"isNew,omitempty"`
	IsOnSale      bool     `json:"isOnSale,omitempty"`
}

// AllowedCategories lists the catalog departments.
var AllowedCategories = []string{"boys", "girls"}

func ptrFloat(f float64) *float64 { return &f }

// Seed is the shop's launch catalog.
func Seed() []Product {
	return []Product{
		{
			ID:            "1",
			Name:          "Adventure Denim Dungarees",
			Price:         34.99,
			OriginalPrice: ptrFloat(45.00),
			Image:         "https://images.unsplash.com/photo-1519452635265-7b1fbfd1e4e0?q=80&w=600&auto=format&fit=crop",
			Category:      "boys",
			Type:          "dungarees",
			Age:           "2-4y",
			Colors:        []string{"Blue"},
			Sizes:         []string{"2Y", "3Y", "4Y"},
			Description:   "Durable denim dungarees for little explorers.",
			IsNew:         true,
			IsOnSale:      true,
		},
		{
			ID:          "2",
			Name:        "Floral Summer Dress",
			Price:       29.99,
			Image:       "https://images.unsplash.com/photo-1518833278268-517eb99f7ac4?q=80&w=600&auto=format&fit=crop",
			Category:    "girls",
			Type:        "dresses",
			Age:         "4-6y",
			Colors:      []string{"Pink", "White"},
			Sizes:       []string{"4Y", "5Y", "6Y"},
			Description: "Lightweight and breezy dress for sunny days.",
			IsNew:       true,
		},
		{
			ID:          "3",
			Name:        "Classic Striped Tee",
			Price:       15.99,
			Image:       "https://images.unsplash.com/photo-1503944583220-79d8926ad5e2?q=80&w=600&auto=format&fit=crop",
			Category:    "boys",
			Type:        "t-shirts",
			Age:         "3-5y",
			Colors:      []string{"Navy", "White"},
			Sizes:       []string{"3Y", "4Y", "5Y"},
			Description: "Soft cotton tee with classic nautical stripes.",
		},
		{
			ID:            "4",
			Name:          "Sparkle Tulle Skirt",
			Price:         24.99,
			OriginalPrice: ptrFloat(32.00),
			Image:         "https://images.unsplash.com/photo-1622290291468-a28f7a7dc6a8?q=80&w=600&auto=format&fit=crop",
			Category:      "girls",
			Type:          "skirts",
			Age:           "6-8y",
			Colors:        []string{"Gold", "Cream"},
			Sizes:         []string{"6Y", "7Y", "8Y"},
			Description:   "Magical tulle skirt for special occasions.",
			IsOnSale:      true,
		},
		{
			ID:          "5",
			Name:        "Urban Cargo Pants",
			Price:       39.99,
			Image:       "https://images.unsplash.com/photo-1519235106638-30cc49da348d?q=80&w=600&auto=format&fit=crop",
			Category:    "boys",
			Type:        "pants",
			Age:         "5-7y",
			Colors:      []string{"Khaki", "Olive"},
			Sizes:       []string{"5Y", "6Y", "7Y"},
			Description: "Sturdy cargo pants with multiple pockets.",
		},
		{
			ID:          "6",
			Name:        "Rainbow Knit Cardigan",
			Price:       45.99,
			Image:       "https://images.unsplash.com/photo-1621451537084-482c73073a0f?q=80&w=600&auto=format&fit=crop",
			Category:    "girls",
			Type:        "tops",
			Age:         "4-6y",
			Colors:      []string{"Rainbow"},
			Sizes:       []string{"4Y", "5Y", "6Y"},
			Description: "Hand-knit cozy cardigan for chilly evenings.",
			IsNew:       true,
		},
	}
}
