package catalog

// CategoryItem is a storefront navigation entry. Href is the shop query that
// lists its products.
type CategoryItem struct {
	Label    string         `json:"label"`
	Href     string         `json:"href"`
	Children []CategoryItem `json:"children,omitempty"`
}

// Navigation is the shop menu, newest arrivals first and sale last.
func Navigation() []CategoryItem {
	return []CategoryItem{
		{Label: "New Arrivals", Href: "/shop?sort=newest"},
		{
			Label: "Boys",
			Href:  "/shop?category=boys",
			Children: []CategoryItem{
				{Label: "T-Shirts", Href: "/shop?category=boys&type=t-shirts"},
				{Label: "Shirts", Href: "/shop?category=boys&type=shirts"},
				{Label: "Pants", Href: "/shop?category=boys&type=pants"},
			},
		},
		{
			Label: "Girls",
			Href:  "/shop?category=girls",
			Children: []CategoryItem{
				{Label: "Dresses", Href: "/shop?category=girls&type=dresses"},
				{Label: "Tops", Href: "/shop?category=girls&type=tops"},
				{Label: "Skirts", Href: "/shop?category=girls&type=skirts"},
			},
		},
		{Label: "Toddlers (2-4Y)", Href: "/shop?age=2-4y"},
		{Label: "Sale", Href: "/shop?on_sale=true"},
	}
}
