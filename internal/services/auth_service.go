package services

import (
	"errors"

	"bazaar/internal/domain"
	"bazaar/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Customers *repos.CustomerRepo
}

func (s *AuthService) Register(sid, email, name, password string) (*domain.Customer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	if err := s.Customers.Create(id, email, name, string(hash)); err != nil {
		return nil, err
	}
	if err := s.Customers.BindSession(sid, id); err != nil {
		return nil, err
	}
	return s.Customers.ByID(id)
}

func (s *AuthService) Login(sid, email, password string) (*domain.Customer, error) {
	c, err := s.Customers.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Customers.BindSession(sid, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Customers.UnbindSession(sid)
}

func (s *AuthService) Current(sid string) (*domain.Customer, error) {
	return s.Customers.SessionCustomer(sid)
}

// TelegramLinkCode issues the one-time code the customer pastes into the bot
// with /start to bind their chat.
func (s *AuthService) TelegramLinkCode(customerID string) (string, error) {
	code := uuid.NewString()
	if err := s.Customers.SetLinkCode(customerID, code); err != nil {
		return "", err
	}
	return code, nil
}
