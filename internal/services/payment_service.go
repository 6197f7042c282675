package services

import (
	"context"
	"fmt"

	"bazaar/internal/domain"
	"bazaar/internal/payment"
	"bazaar/internal/repos"

	"github.com/rs/zerolog/log"
)

// PaymentService drives the PayTabs flow: page creation at checkout, the
// signed callback, and admin refunds. Gateway trouble is reported as a
// structured result, never as a panic or a rolled-back order.
type PaymentService struct {
	Gateway   *payment.Client
	Payments  *repos.PaymentRepo
	Orders    *OrderService
	Customers *repos.CustomerRepo

	CallbackURL string
	ReturnURL   string
	Currency    string
}

type PaymentStart struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirect_url,omitempty"`
	TranRef     string `json:"tran_ref,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Start creates a hosted payment page for a customer's own new order.
func (s *PaymentService) Start(ctx context.Context, orderID, customerID string) (PaymentStart, error) {
	detail, err := s.Orders.Get(orderID, customerID)
	if err != nil {
		return PaymentStart{}, err
	}
	if detail.Order.Status != domain.StatusNew {
		return PaymentStart{}, fmt.Errorf("order %s is not payable in status %s", orderID, detail.Order.Status)
	}
	cust, err := s.Customers.ByID(customerID)
	if err != nil {
		return PaymentStart{}, err
	}

	page, err := s.Gateway.RequestPage(ctx, payment.PageRequest{
		OrderID:     detail.Order.ID,
		Amount:      detail.Order.Total,
		Currency:    s.Currency,
		Description: fmt.Sprintf("Order %s", detail.Order.ID),
		Customer:    payment.Customer{Name: cust.Name, Email: cust.Email},
		CallbackURL: s.CallbackURL,
		ReturnURL:   s.ReturnURL,
	})
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("payment: request page")
		return PaymentStart{Success: false, Error: "payment gateway unavailable"}, nil
	}
	if err := s.Payments.Record(detail.Order.ID, page.TranRef, detail.Order.Total); err != nil {
		return PaymentStart{}, err
	}
	return PaymentStart{Success: true, RedirectURL: page.RedirectURL, TranRef: page.TranRef}, nil
}

// HandleCallback processes a signed gateway callback. A valid authorized
// payment moves the order new -> pending with a system history entry.
func (s *PaymentService) HandleCallback(fields map[string]string, signature string) error {
	if !s.Gateway.VerifyCallback(fields, signature) {
		return fmt.Errorf("payment: bad callback signature")
	}
	tranRef := fields["tran_ref"]
	if tranRef == "" {
		return fmt.Errorf("payment: callback missing tran_ref")
	}
	orderID, err := s.Payments.OrderByTranRef(tranRef)
	if err != nil {
		return fmt.Errorf("payment: unknown tran_ref %s: %w", tranRef, err)
	}

	if fields["resp_status"] != "A" {
		_ = s.Payments.SetState(orderID, tranRef, "failed")
		log.Warn().Str("order_id", orderID).Str("tran_ref", tranRef).
			Str("resp_status", fields["resp_status"]).Msg("payment: declined")
		return nil
	}

	if err := s.Payments.SetState(orderID, tranRef, "paid"); err != nil {
		return err
	}
	return s.Orders.UpdateStatus(orderID, domain.StatusPending, nil)
}

// Refund refunds a completed order through the gateway and moves it to
// refunded on success.
func (s *PaymentService) Refund(ctx context.Context, orderID, tranRef string, actor string) (PaymentStart, error) {
	order, err := s.Orders.Orders.GetAny(orderID)
	if err != nil {
		return PaymentStart{}, err
	}
	if err := domain.ValidTransition(order.Status, domain.StatusRefunded); err != nil {
		return PaymentStart{}, err
	}
	res, err := s.Gateway.Refund(ctx, tranRef, order.Total, "order refund")
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("payment: refund")
		return PaymentStart{Success: false, Error: "refund failed at gateway"}, nil
	}
	if !res.Authorized() {
		return PaymentStart{Success: false, Error: res.PaymentResult.ResponseMessage}, nil
	}
	_ = s.Payments.SetState(orderID, tranRef, "refunded")
	if err := s.Orders.UpdateStatus(orderID, domain.StatusRefunded, &actor); err != nil {
		return PaymentStart{}, err
	}
	return PaymentStart{Success: true, TranRef: res.TranRef}, nil
}
