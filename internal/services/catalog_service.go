package services

import (
	"bazaar/internal/domain"
	"bazaar/internal/repos"
)

type CatalogService struct {
	Stores *repos.StoreRepo
	Prods  *repos.ProductRepo
}

func NewCatalogService(stores *repos.StoreRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Stores: stores, Prods: prods}
}

func (s *CatalogService) ListStores() ([]domain.Store, error) {
	return s.Stores.List()
}

func (s *CatalogService) ListCities() ([]domain.City, error) {
	return s.Stores.ListCities()
}

func (s *CatalogService) ListProducts(storeID string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize
	return s.Prods.ListByStore(storeID, pageSize, offset)
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

func (s *CatalogService) Search(q, storeID string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize
	return s.Prods.Search(q, storeID, pageSize, offset)
}

// DeliveryQuote prices delivery for a store/city pair. Digital stores are
// always 0 regardless of city.
func (s *CatalogService) DeliveryQuote(storeID, cityID string) (float64, error) {
	store, err := s.Stores.Get(storeID)
	if err != nil {
		return 0, err
	}
	if store.Type == domain.StoreTypeDigital {
		return 0, nil
	}
	return s.Stores.DeliveryPrice(storeID, cityID)
}
