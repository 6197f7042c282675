package services

import (
	"fmt"
	"time"

	"bazaar/internal/domain"
	"bazaar/internal/repos"
)

type DiscountService struct {
	Repo *repos.DiscountRepo
}

func NewDiscountService(r *repos.DiscountRepo) *DiscountService {
	return &DiscountService{Repo: r}
}

// timeFormat matches the TEXT timestamps sqlite's CURRENT_TIMESTAMP writes.
const timeFormat = "2006-01-02 15:04:05"

// Sweep activates scheduled plans whose window has opened and expires active
// plans whose window has closed. Each plan runs in its own transaction, so a
// broken plan doesn't block the rest.
func (s *DiscountService) Sweep(now time.Time) error {
	stamp := now.UTC().Format(timeFormat)

	due, err := s.Repo.DueForActivation(stamp)
	if err != nil {
		return err
	}
	var firstErr error
	for _, plan := range due {
		if err := s.Repo.Activate(plan); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("activate plan %s: %w", plan.ID, err)
		}
	}

	expired, err := s.Repo.DueForExpiry(stamp)
	if err != nil {
		return err
	}
	for _, plan := range expired {
		if err := s.Repo.Expire(plan.ID); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("expire plan %s: %w", plan.ID, err)
		}
	}
	return firstErr
}

// Run sweeps on a ticker until stop is closed. Meant to be launched from main.
func (s *DiscountService) Run(interval time.Duration, stop <-chan struct{}, onErr func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case t := <-ticker.C:
			if err := s.Sweep(t); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}

func (s *DiscountService) CreatePlan(plan domain.DiscountPlan, productIDs []string) error {
	if plan.DiscountType != domain.DiscountPercentage && plan.DiscountType != domain.DiscountFixed {
		return fmt.Errorf("unknown discount type %q", plan.DiscountType)
	}
	if plan.DiscountValue < 0 {
		return fmt.Errorf("discount value must not be negative")
	}
	return s.Repo.Create(plan, productIDs)
}

func (s *DiscountService) ListPlans() ([]domain.DiscountPlan, error) {
	return s.Repo.List()
}
