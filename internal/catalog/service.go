package catalog

import (
	"slices"
	"sort"
	"strings"
)

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// Filter narrows a product listing. Empty fields match everything; string
// comparisons ignore case.
type Filter struct {
	Category string
	Type     string
	Age      string
	Color    string
	Size     string
	OnSale   bool
	New      bool
	Sort     string
}

func (f Filter) match(p Product) bool {
	eq := func(want, got string) bool { return want == "" || strings.EqualFold(want, got) }
	has := func(want string, got []string) bool {
		return want == "" || slices.ContainsFunc(got, func(v string) bool { return strings.EqualFold(v, want) })
	}

	return eq(f.Category, p.Category) &&
		eq(f.Type, p.Type) &&
		eq(f.Age, p.Age) &&
		has(f.Color, p.Colors) &&
		has(f.Size, p.Sizes) &&
		(!f.OnSale || p.IsOnSale) &&
		(!f.New || p.IsNew)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the matching products in catalog order unless f.Sort says
// otherwise. "newest" puts new arrivals first.
func (s *Service) List(f Filter) []Product {
	out := make([]Product, 0)
	for _, p := range s.repo.List() {
		if f.match(p) {
			out = append(out, p)
		}
	}

	switch f.Sort {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].IsNew && !out[j].IsNew })
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

func (s *Service) GetByID(id string) (Product, error) {
	return s.repo.GetByID(id)
}
