package services

import (
	"fmt"
	"strings"

	"bazaar/internal/domain"
	"bazaar/internal/repos"

	"github.com/google/uuid"
)

// AddressInput is the per-store destination a customer picks at checkout.
type AddressInput struct {
	CityID  string
	Address string
}

// PlacedOrderNotifier receives the ids of freshly committed orders. Delivery
// is best-effort and runs outside the order transaction.
type PlacedOrderNotifier interface {
	OrderPlaced(orderIDs []string)
}

// StatsInvalidator lets checkout drop cached reporting figures.
type StatsInvalidator interface {
	InvalidateStats()
}

type OrderService struct {
	Carts  *repos.CartRepo
	Stores *repos.StoreRepo
	Orders *repos.OrderRepo

	Notify PlacedOrderNotifier // optional
	Stats  StatsInvalidator    // optional
}

func NewOrderService(carts *repos.CartRepo, stores *repos.StoreRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Carts: carts, Stores: stores, Orders: orders}
}

// Place turns the customer's whole cart into one order per store.
//
// Everything is validated before any write: active products, stock, and a
// delivery address for each physical store. The writes themselves (orders,
// history, items, stock decrements, cart deletion) happen in one transaction,
// so a failure anywhere leaves no trace. Notifications go out only after the
// commit. Returns the created order ids in the cart's store order.
func (s *OrderService) Place(customerID string, addresses map[string]AddressInput) ([]string, error) {
	lines, err := s.Carts.Lines(customerID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// Fail fast on any unavailable product before touching anything.
	for _, l := range lines {
		if l.ProductStatus != domain.ProductActive {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductUnavailable, l.Title)
		}
		if l.Stock < l.Qty {
			return nil, fmt.Errorf("%w: %s (need %d, have %d)",
				domain.ErrInsufficientStock, l.Title, l.Qty, l.Stock)
		}
	}

	// Group by store, keeping the order the stores first appear in the cart.
	var storeOrder []string
	groups := map[string][]repos.CartLine{}
	for _, l := range lines {
		if _, seen := groups[l.StoreID]; !seen {
			storeOrder = append(storeOrder, l.StoreID)
		}
		groups[l.StoreID] = append(groups[l.StoreID], l)
	}

	prepared := make([]repos.PreparedOrder, 0, len(storeOrder))
	for _, storeID := range storeOrder {
		group := groups[storeID]

		order := domain.Order{
			ID:         uuid.NewString(),
			CustomerID: customerID,
			StoreID:    storeID,
			Status:     domain.StatusNew,
		}

		if group[0].StoreType == domain.StoreTypePhysical {
			addr, ok := addresses[storeID]
			addr.Address = strings.TrimSpace(addr.Address)
			if !ok || addr.Address == "" || addr.CityID == "" {
				return nil, fmt.Errorf("%w: store %s", domain.ErrAddressRequired, group[0].StoreName)
			}
			exists, err := s.Stores.CityExists(addr.CityID)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, fmt.Errorf("%w: unknown city for store %s", domain.ErrAddressRequired, group[0].StoreName)
			}
			price, err := s.Stores.DeliveryPrice(storeID, addr.CityID)
			if err != nil {
				return nil, err
			}
			cityID, address := addr.CityID, addr.Address
			order.CityID = &cityID
			order.Address = &address
			order.DeliveryPrice = price
		}
		// Digital stores ship nothing: delivery 0, city/address stay nil.

		itemsTotal := 0.0
		items := make([]domain.OrderItem, 0, len(group))
		for _, l := range group {
			itemsTotal += l.Subtotal()
			items = append(items, domain.OrderItem{
				OrderID:   order.ID,
				ProductID: l.ProductID,
				Qty:       l.Qty,
				Price:     l.Price,
			})
		}
		order.Total = itemsTotal + order.DeliveryPrice

		prepared = append(prepared, repos.PreparedOrder{Order: order, Items: items})
	}

	if err := s.Orders.CreateBatch(prepared); err != nil {
		return nil, err
	}

	ids := make([]string, len(prepared))
	for i, po := range prepared {
		ids[i] = po.Order.ID
	}

	if s.Stats != nil {
		s.Stats.InvalidateStats()
	}
	if s.Notify != nil {
		go s.Notify.OrderPlaced(ids)
	}
	return ids, nil
}

// OrderDetail bundles what the order page shows.
type OrderDetail struct {
	Order   domain.Order
	Items   []repos.OrderItemRow
	History []domain.StatusHistoryEntry
}

// Get loads an order with items and status history, scoped to the customer.
func (s *OrderService) Get(orderID, customerID string) (OrderDetail, error) {
	o, items, err := s.Orders.Get(orderID, customerID)
	if err != nil {
		return OrderDetail{}, err
	}
	hist, err := s.Orders.History(orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	return OrderDetail{Order: o, Items: items, History: hist}, nil
}

func (s *OrderService) History(customerID string) ([]domain.Order, error) {
	return s.Orders.ListByCustomer(customerID)
}

// UpdateStatus moves an order through the status machine, recording the actor
// in the history trail. Pass nil actor for system transitions.
func (s *OrderService) UpdateStatus(orderID, newStatus string, actor *string) error {
	o, err := s.Orders.GetAny(orderID)
	if err != nil {
		return err
	}
	if err := domain.ValidTransition(o.Status, newStatus); err != nil {
		return err
	}
	if err := s.Orders.UpdateStatus(orderID, o.Status, newStatus, actor); err != nil {
		return err
	}
	if s.Stats != nil {
		s.Stats.InvalidateStats()
	}
	return nil
}
