package services

import (
	"github.com/shopspring/decimal"

	"grocerypos/internal/domain"
	"grocerypos/internal/repos"
)

type CatalogService struct {
	Prods    *repos.ProductRepo
	PageSize int
}

func NewCatalogService(prods *repos.ProductRepo, pageSize int) *CatalogService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &CatalogService{Prods: prods, PageSize: pageSize}
}

func (s *CatalogService) GetProduct(id int64) (domain.Product, error) {
	return s.Prods.Get(id)
}

// Browse is the employee product listing: in-stock only, searchable,
// filterable by category, paginated.
func (s *CatalogService) Browse(q, category string, page int) ([]domain.Product, error) {
	return s.list(q, category, true, page)
}

// ListAll is the admin listing; it includes sold-out products.
func (s *CatalogService) ListAll(q, category string, page int) ([]domain.Product, error) {
	return s.list(q, category, false, page)
}

func (s *CatalogService) list(q, category string, inStockOnly bool, page int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * s.PageSize
	return s.Prods.Search(q, category, inStockOnly, s.PageSize, offset)
}

func (s *CatalogService) Categories() ([]string, error) {
	return s.Prods.Categories()
}

func (s *CatalogService) Create(name string, price decimal.Decimal, stockQty int, category, imageURL string) (int64, error) {
	return s.Prods.Create(name, price, stockQty, category, imageURL)
}

func (s *CatalogService) Update(id int64, name string, price decimal.Decimal, stockQty int, category, imageURL string) error {
	return s.Prods.Update(id, name, price, stockQty, category, imageURL)
}

func (s *CatalogService) Delete(id int64) error {
	return s.Prods.Delete(id)
}
