package services

import (
	"fmt"

	"bazaar/internal/domain"
	"bazaar/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add puts qty units in the cart at the product's current effective price.
// Adding a product already in the cart bumps the quantity but keeps the
// original price snapshot.
func (s *CartService) Add(customerID, productID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	if p.Status != domain.ProductActive {
		return fmt.Errorf("%w: %s", domain.ErrProductUnavailable, p.Title)
	}
	return s.Carts.UpsertItem(customerID, productID, qty, p.EffectivePrice())
}

func (s *CartService) UpdateQty(customerID, productID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	return s.Carts.SetQty(customerID, productID, qty)
}

func (s *CartService) Remove(customerID, productID string) error {
	return s.Carts.Remove(customerID, productID)
}

func (s *CartService) Clear(customerID string) error {
	return s.Carts.Clear(customerID)
}

type CartView struct {
	Items []repos.CartLine
	Total float64
}

func (s *CartService) View(customerID string) (CartView, error) {
	lines, err := s.Carts.Lines(customerID)
	if err != nil {
		return CartView{}, err
	}
	total := 0.0
	for _, l := range lines {
		total += l.Subtotal()
	}
	return CartView{Items: lines, Total: total}, nil
}
