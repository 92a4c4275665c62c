package services

import (
	"github.com/google/uuid"

	"kiosco/internal/domain"
	"kiosco/internal/store"
)

type CatalogService struct {
	Store store.Port
}

func NewCatalogService(st store.Port) *CatalogService { return &CatalogService{Store: st} }

// Menu lists available products, optionally filtered by name and category.
func (s *CatalogService) Menu(q, category string) ([]domain.Product, error) {
	return s.Store.ListProducts(q, category, true)
}

func (s *CatalogService) Product(id string) (domain.Product, error) {
	return s.Store.GetProduct(id)
}

// Inventory lists every product, including ones toggled unavailable.
func (s *CatalogService) Inventory() ([]domain.Product, error) {
	return s.Store.ListProducts("", "", false)
}

// SaveProduct creates or updates a menu product. New products get an id.
func (s *CatalogService) SaveProduct(p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.Store.SaveProduct(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *CatalogService) SetAvailability(id string, available bool) error {
	return s.Store.SetAvailability(id, available)
}

func (s *CatalogService) SetStock(id string, qty, minAlert int) error {
	return s.Store.SetStock(id, qty, minAlert)
}
