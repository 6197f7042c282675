package services

import (
	"fmt"

	"bazaar/internal/domain"
	"bazaar/internal/repos"

	"github.com/google/uuid"
)

type WishlistService struct {
	Repo      *repos.WishlistRepo
	Customers *repos.CustomerRepo
}

func NewWishlistService(r *repos.WishlistRepo, customers *repos.CustomerRepo) *WishlistService {
	return &WishlistService{Repo: r, Customers: customers}
}

func (s *WishlistService) Save(customerID, productID string) error {
	return s.Repo.Add(customerID, productID)
}

func (s *WishlistService) Unsave(customerID, productID string) error {
	return s.Repo.Remove(customerID, productID)
}

func (s *WishlistService) List(customerID string) ([]repos.WishlistRow, error) {
	return s.Repo.List(customerID)
}

// EnsureShare returns the customer's share row, creating one with a fresh
// token on first use.
func (s *WishlistService) EnsureShare(customerID string) (*domain.WishlistShare, error) {
	sh, err := s.Repo.GetShare(customerID)
	if err == nil {
		return sh, nil
	}
	token := uuid.NewString()
	if err := s.Repo.CreateShare(customerID, token); err != nil {
		return nil, err
	}
	return s.Repo.GetShare(customerID)
}

// RegenerateToken invalidates the old share link and issues a new one.
func (s *WishlistService) RegenerateToken(customerID string) (*domain.WishlistShare, error) {
	if _, err := s.EnsureShare(customerID); err != nil {
		return nil, err
	}
	if err := s.Repo.SetShareToken(customerID, uuid.NewString()); err != nil {
		return nil, err
	}
	return s.Repo.GetShare(customerID)
}

func (s *WishlistService) SetShareActive(customerID string, active bool) error {
	if _, err := s.EnsureShare(customerID); err != nil {
		return err
	}
	return s.Repo.SetShareActive(customerID, active)
}

func (s *WishlistService) SetShareMessage(customerID, msg string) error {
	if _, err := s.EnsureShare(customerID); err != nil {
		return err
	}
	return s.Repo.SetShareMessage(customerID, msg)
}

// SharedView is what the public share page shows.
type SharedView struct {
	OwnerName     string
	CustomMessage string
	Items         []repos.WishlistRow
}

// GetShared resolves an active share token, counts the view, and returns the
// owner's list. Unknown and deactivated tokens are both ErrNotFound.
func (s *WishlistService) GetShared(token string) (SharedView, error) {
	sh, err := s.Repo.ShareByToken(token)
	if err != nil {
		return SharedView{}, fmt.Errorf("%w: wishlist share", domain.ErrNotFound)
	}
	owner, err := s.Customers.ByID(sh.CustomerID)
	if err != nil {
		return SharedView{}, err
	}
	items, err := s.Repo.List(sh.CustomerID)
	if err != nil {
		return SharedView{}, err
	}
	if err := s.Repo.IncrementViews(token); err != nil {
		return SharedView{}, err
	}
	return SharedView{
		OwnerName:     owner.Name,
		CustomMessage: sh.CustomMessage,
		Items:         items,
	}, nil
}
