package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"bazaar/internal/repos"
	"bazaar/internal/services"
	"bazaar/internal/telegram"
)

// botServer fakes the Bot API and records every sendMessage call.
type botServer struct {
	mu   sync.Mutex
	sent []sentMessage
	srv  *httptest.Server
}

type sentMessage struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

func newBotServer(t *testing.T) *botServer {
	t.Helper()
	b := &botServer{}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg sentMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Errorf("bad sendMessage body: %v", err)
		}
		b.mu.Lock()
		b.sent = append(b.sent, msg)
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *botServer) messages() []sentMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]sentMessage(nil), b.sent...)
}

func newNotifySvc(t *testing.T) (*services.NotifyService, *botServer, *env) {
	t.Helper()
	e := newEnv(t)
	bot := newBotServer(t)
	client := telegram.NewClientWithBase("test-token", bot.srv.URL)
	svc := services.NewNotifyService(client,
		repos.NewCustomerRepo(e.db), e.stores, e.orders)
	return svc, bot, e
}

func TestHandleUpdateBindsChat(t *testing.T) {
	svc, bot, e := newNotifySvc(t)
	custRepo := repos.NewCustomerRepo(e.db)
	if err := custRepo.SetLinkCode("c-sara", "link-code-1"); err != nil {
		t.Fatal(err)
	}

	var u telegram.Update
	u.Message.Text = "/start link-code-1"
	u.Message.Chat.ID = 4242
	svc.HandleUpdate(context.Background(), u)

	cust, err := custRepo.ByID("c-sara")
	if err != nil {
		t.Fatal(err)
	}
	if !cust.TelegramActivated() || *cust.TelegramChatID != 4242 {
		t.Fatalf("chat not bound: %+v", cust)
	}
	if cust.TelegramCode != nil {
		t.Fatal("link code not consumed")
	}

	msgs := bot.messages()
	if len(msgs) != 1 || msgs[0].ChatID != 4242 {
		t.Fatalf("greeting not sent: %+v", msgs)
	}
	if !strings.Contains(msgs[0].Text, "<b>Sara</b>") {
		t.Fatalf("greeting text: %q", msgs[0].Text)
	}
}

func TestHandleUpdateIgnoresUnknownCode(t *testing.T) {
	svc, bot, _ := newNotifySvc(t)
	var u telegram.Update
	u.Message.Text = "/start nope"
	u.Message.Chat.ID = 1
	svc.HandleUpdate(context.Background(), u)
	if len(bot.messages()) != 0 {
		t.Fatal("sent a message for an unknown code")
	}
}

func TestOrderPlacedNotifiesCustomerAndOwner(t *testing.T) {
	svc, bot, e := newNotifySvc(t)
	custRepo := repos.NewCustomerRepo(e.db)

	// Sara buys, Omar owns dar-books. Both have linked chats.
	e.db.MustExec(`UPDATE customers SET telegram_chat_id=111 WHERE id='c-sara'`)
	e.db.MustExec(`UPDATE customers SET telegram_chat_id=222 WHERE id='c-omar'`)
	if _, err := custRepo.ByID("c-sara"); err != nil {
		t.Fatal(err)
	}

	if err := e.cartSvc.Add("c-sara", "bk-sahara", 2); err != nil {
		t.Fatal(err)
	}
	ids, err := e.orderSvc.Place("c-sara", map[string]services.AddressInput{
		"dar-books": {CityID: "riyadh", Address: "Corniche 5"},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Call synchronously; production runs this in a goroutine after commit.
	svc.OrderPlaced(ids)

	msgs := bot.messages()
	if len(msgs) != 2 {
		t.Fatalf("want 2 messages, got %d", len(msgs))
	}
	byChat := map[int64]string{}
	for _, m := range msgs {
		byChat[m.ChatID] = m.Text
	}
	custText, ok := byChat[111]
	if !ok || !strings.Contains(custText, "<b>Order confirmed</b>") {
		t.Fatalf("customer message: %q", custText)
	}
	if !strings.Contains(custText, "• 2 × Desert Notes") {
		t.Fatalf("customer message items: %q", custText)
	}
	ownerText, ok := byChat[222]
	if !ok || !strings.Contains(ownerText, "New order for Dar Books") {
		t.Fatalf("owner message: %q", ownerText)
	}
}

func TestOrderPlacedSkipsUnlinkedCustomer(t *testing.T) {
	svc, bot, e := newNotifySvc(t)

	if err := e.cartSvc.Add("c-sara", "gc-steam-50", 1); err != nil {
		t.Fatal(err)
	}
	ids, err := e.orderSvc.Place("c-sara", nil)
	if err != nil {
		t.Fatal(err)
	}
	svc.OrderPlaced(ids)

	// Nobody linked a chat (pixel-keys is owned by sara, also unlinked).
	if msgs := bot.messages(); len(msgs) != 0 {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
}
