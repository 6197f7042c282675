package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bazaar/internal/repos"
	"bazaar/internal/telegram"

	"github.com/rs/zerolog/log"
)

// NotifyService delivers order notifications over Telegram. Every send is
// best-effort: failures are logged and swallowed so they can never undo a
// committed order.
type NotifyService struct {
	Bot       *telegram.Client
	Customers *repos.CustomerRepo
	Stores    *repos.StoreRepo
	Orders    *repos.OrderRepo
}

func NewNotifyService(bot *telegram.Client, customers *repos.CustomerRepo, stores *repos.StoreRepo, orders *repos.OrderRepo) *NotifyService {
	return &NotifyService{Bot: bot, Customers: customers, Stores: stores, Orders: orders}
}

// OrderPlaced notifies the customer (if Telegram-activated) and every store
// owner for each committed order. Implements PlacedOrderNotifier.
func (s *NotifyService) OrderPlaced(orderIDs []string) {
	if s.Bot == nil || !s.Bot.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, orderID := range orderIDs {
		order, err := s.Orders.GetAny(orderID)
		if err != nil {
			log.Error().Err(err).Str("order_id", orderID).Msg("notify: load order")
			continue
		}
		items, err := s.Orders.Items(orderID)
		if err != nil {
			log.Error().Err(err).Str("order_id", orderID).Msg("notify: load items")
			continue
		}
		store, err := s.Stores.Get(order.StoreID)
		if err != nil {
			log.Error().Err(err).Str("order_id", orderID).Msg("notify: load store")
			continue
		}

		// Customer copy: only when they linked a Telegram chat.
		if cust, err := s.Customers.ByID(order.CustomerID); err == nil && cust.TelegramActivated() {
			text := telegram.ConvertHTML(customerMessage(store.Name, order.ID, order.Total, items))
			if err := s.Bot.SendMessage(ctx, *cust.TelegramChatID, text); err != nil {
				log.Error().Err(err).Str("order_id", orderID).Msg("notify: customer send")
			}
		}

		// Store owners: each attempted independently so one dead chat doesn't
		// silence the rest.
		owners, err := s.Stores.Owners(order.StoreID)
		if err != nil {
			log.Error().Err(err).Str("store_id", order.StoreID).Msg("notify: load owners")
			continue
		}
		text := telegram.ConvertHTML(ownerMessage(store.Name, order.ID, order.Total, items))
		for _, owner := range owners {
			if !owner.TelegramActivated() {
				continue
			}
			if err := s.Bot.SendMessage(ctx, *owner.TelegramChatID, text); err != nil {
				log.Error().Err(err).
					Str("order_id", orderID).
					Str("owner_id", owner.ID).
					Msg("notify: owner send")
			}
		}
	}
}

func customerMessage(storeName, orderID string, total float64, items []repos.OrderItemRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Order confirmed</h2>")
	fmt.Fprintf(&b, "<p>Thanks for your order from <b>%s</b>.</p>", storeName)
	b.WriteString(itemList(items))
	fmt.Fprintf(&b, "<p>Total: <b>%.2f</b></p><p>Order ref: <code>%s</code></p>", total, orderID)
	return b.String()
}

func ownerMessage(storeName, orderID string, total float64, items []repos.OrderItemRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>New order for %s</h2>", storeName)
	b.WriteString(itemList(items))
	fmt.Fprintf(&b, "<p>Total: <b>%.2f</b></p><p>Order ref: <code>%s</code></p>", total, orderID)
	return b.String()
}

func itemList(items []repos.OrderItemRow) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for _, it := range items {
		fmt.Fprintf(&b, "<li>%d × %s — %.2f</li>", it.Qty, it.Title, it.Subtotal)
	}
	b.WriteString("</ul>")
	return b.String()
}

// HandleUpdate processes a webhook update: "/start <code>" binds the chat to
// the customer holding that link code.
func (s *NotifyService) HandleUpdate(ctx context.Context, u telegram.Update) {
	text := strings.TrimSpace(u.Message.Text)
	if !strings.HasPrefix(text, "/start") {
		return
	}
	code := strings.TrimSpace(strings.TrimPrefix(text, "/start"))
	if code == "" {
		return
	}
	cust, err := s.Customers.BindTelegram(code, u.Message.Chat.ID)
	if err != nil {
		log.Warn().Err(err).Msg("notify: unknown telegram link code")
		return
	}
	greeting := telegram.ConvertHTML(fmt.Sprintf(
		"<p>Hi <b>%s</b>, your account is now linked. We'll send order updates here.</p>", cust.Name))
	if err := s.Bot.SendMessage(ctx, u.Message.Chat.ID, greeting); err != nil {
		log.Error().Err(err).Str("customer_id", cust.ID).Msg("notify: greeting send")
	}
}
