package bot

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"plate2share/internal/config"
	"plate2share/internal/model"
	"plate2share/internal/screen"
	"plate2share/internal/storage"
)

// --- mocks ---

type sentMsg struct {
	ChatID int64
	Text   string
	Markup any
}

type mockAPI struct {
	mu      sync.Mutex
	sent    []sentMsg
	acks    []string
	updates tgbotapi.UpdatesChannel
}

func (m *mockAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch msg := c.(type) {
	case tgbotapi.MessageConfig:
		m.sent = append(m.sent, sentMsg{ChatID: msg.ChatID, Text: msg.Text, Markup: msg.ReplyMarkup})
	case tgbotapi.CallbackConfig:
		m.acks = append(m.acks, msg.CallbackQueryID)
	}
	return tgbotapi.Message{}, nil
}

func (m *mockAPI) GetUpdatesChan(_ tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	if m.updates != nil {
		return m.updates
	}
	return make(tgbotapi.UpdatesChannel)
}

func (m *mockAPI) StopReceivingUpdates() {}

func (m *mockAPI) last() sentMsg {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMsg{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *mockAPI) lastText() string { return m.last().Text }

func (m *mockAPI) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// --- helpers ---

var testNow = model.MustTime("2024-03-25T15:00:00")

const testChat int64 = 100

func newTestBot(t *testing.T) (*Bot, *mockAPI, *storage.SQLite) {
	t.Helper()
	store, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := screen.Seed(context.Background(), store); err != nil {
		t.Fatalf("seed: %v", err)
	}

	api := &mockAPI{}
	cfg := &config.Config{Locale: "en", DonationResetDelay: 10 * time.Millisecond}
	b := newBot(api, store, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	b.now = func() time.Time { return testNow }
	return b, api, store
}

// command builds an update carrying a slash command from user 1.
func command(chatID int64, text string) tgbotapi.Update {
	name, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{ID: 1, FirstName: "Ann", LastName: "Lee"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func run(t *testing.T, b *Bot, texts ...string) {
	t.Helper()
	for _, text := range texts {
		b.handleUpdate(context.Background(), command(testChat, text))
	}
}

func requireContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("reply missing %q, got:\n%s", want, got)
	}
}

func buttonData(markup any) []string {
	kb, ok := markup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		return nil
	}
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				out = append(out, *btn.CallbackData)
			}
		}
	}
	return out
}

// --- handler tests ---

func TestHandleStart(t *testing.T) {
	b, api, _ := newTestBot(t)
	run(t, b, "/start")
	requireContains(t, api.lastText(), "Welcome to Plate2Share")
	if len(b.sessions) != 0 {
		t.Errorf("start should not open a session, got %d", len(b.sessions))
	}
}

func TestHandleHelp(t *testing.T) {
	b, api, _ := newTestBot(t)
	run(t, b, "/help")
	for _, cmd := range []string{"/food", "/search", "/setstatus", "/donate", "/addfood", "/chat", "/notify", "/language"} {
		requireContains(t, api.lastText(), cmd)
	}
}

func TestUnknownCommand(t *testing.T) {
	b, api, _ := newTestBot(t)
	run(t, b, "/bogus")
	requireContains(t, api.lastText(), "Unknown command")
}

func TestAccessDenied(t *testing.T) {
	b, api, _ := newTestBot(t)
	b.cfg.AllowedUsers = []int64{42}
	run(t, b, "/food")
	requireContains(t, api.lastText(), "Access denied.")
	if len(b.sessions) != 0 {
		t.Errorf("denied user got a session")
	}
}

func TestIgnoresPlainText(t *testing.T) {
	b, api, _ := newTestBot(t)
	b.handleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Text: "hello", Chat: &tgbotapi.Chat{ID: testChat}, From: &tgbotapi.User{ID: 1},
	}})
	if api.count() != 0 {
		t.Errorf("expected no reply, got %q", api.lastText())
	}
}

func TestFoodScreen(t *testing.T) {
	t.Run("listing with buttons", func(t *testing.T) {
		b, api, _ := newTestBot(t)
		run(t, b, "/food")
		msg := api.last()
		requireContains(t, msg.Text, "Food Listing (6 of 6)")
		requireContains(t, msg.Text, "Filters: none")

		data := buttonData(msg.Markup)
		for _, want := range []string{"sort:name", "sort:expiry", "pick:1", "pick:5"} {
			if !slices.Contains(data, want) {
				t.Errorf("buttons missing %q, got %v", want, data)
			}
		}
		if slices.Contains(data, "pick:6") {
			t.Errorf("expected at most %d item rows, got %v", maxActionRows, data)
		}
	})

	tests := []struct {
		name  string
		cmds  []string
		want  []string
		avoid []string
	}{
		{
			name:  "search",
			cmds:  []string{"/food", "/search vegetables"},
			want:  []string{"Food Listing (1 of 6)", `search "vegetables"`, "Fresh Vegetables"},
			avoid: []string{"Bread Loaves"},
		},
		{
			name: "category is case-insensitive",
			cmds: []string{"/food", "/category produce"},
			want: []string{"Food Listing (2 of 6)", "Fresh Vegetables", "Assorted Fruits"},
		},
		{
			name: "status",
			cmds: []string{"/food", "/status Available"},
			want: []string{"Food Listing (3 of 6)"},
		},
		{
			name:  "no match",
			cmds:  []string{"/food", "/search caviar"},
			want:  []string{"Food Listing (0 of 6)", "No food items found matching your criteria."},
			avoid: []string{"#1 "},
		},
		{
			name: "reset",
			cmds: []string{"/food", "/search caviar", "/category Dairy", "/reset"},
			want: []string{"Food Listing (6 of 6)", "Filters: none"},
		},
		{
			name: "sort toggles",
			cmds: []string{"/food", "/sort name", "/sort name"},
			want: []string{"Sorted by name (desc)"},
		},
		{
			name: "unknown sort field",
			cmds: []string{"/food", "/sort calories"},
			want: []string{`Unknown sort field "calories"`, "expiry"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, api, _ := newTestBot(t)
			run(t, b, tt.cmds...)
			got := api.lastText()
			for _, w := range tt.want {
				requireContains(t, got, w)
			}
			for _, a := range tt.avoid {
				if strings.Contains(got, a) {
					t.Errorf("reply should not contain %q, got:\n%s", a, got)
				}
			}
		})
	}
}

func TestSortOrder(t *testing.T) {
	b, api, _ := newTestBot(t)
	run(t, b, "/food", "/sort expiry")
	got := api.lastText()
	milk := strings.Index(got, "Milk")
	rice := strings.Index(got, "#4 Rice")
	if milk < 0 || rice < 0 || milk > rice {
		t.Errorf("expected Milk before Rice when sorted by expiry, got:\n%s", got)
	}
}

func TestNotificationsScreen(t *testing.T) {
	ctx := context.Background()
	b, api, store := newTestBot(t)

	run(t, b, "/notifications", "/tab unread")
	requireContains(t, api.lastText(), "Notifications (3 of 7)")
	requireContains(t, api.lastText(), "tab unread")

	run(t, b, "/read 1")
	requireContains(t, api.lastText(), "Marked #1 as read.")

	run(t, b, "/readall")
	requireContains(t, api.lastText(), "Marked 2 as read.")

	run(t, b, "/notifications")
	requireContains(t, api.lastText(), "Notifications (0 of 7)")
	requireContains(t, api.lastText(), "No notifications found.")

	run(t, b, "/delete 7")
	requireContains(t, api.lastText(), "Deleted #7.")

	run(t, b, "/read 99")
	requireContains(t, api.lastText(), "#99 not found.")

	recs, err := store.ListRecords(ctx, model.KindNotification)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if diff := cmp.Diff(6, len(recs)); diff != "" {
		t.Errorf("stored notifications (-want +got):\n%s", diff)
	}

	api2 := &mockAPI{}
	reopened := newBot(api2, store, b.cfg, b.log)
	run(t, reopened, "/notifications", "/tab unread")
	requireContains(t, api2.lastText(), "Notifications (0 of 6)")
}

func TestClear(t *testing.T) {
	b, api, _ := newTestBot(t)
	run(t, b, "/notifications", "/clear")
	requireContains(t, api.lastText(), "Deleted 7.")
	run(t, b, "/notifications")
	requireContains(t, api.lastText(), "Notifications (0 of 0)")
}

func TestUnsupportedAction(t *testing.T) {
	b, api, _ := newTestBot(t)
	run(t, b, "/food", "/read 1")
	requireContains(t, api.lastText(), "not available on this screen")
	run(t, b, "/readall")
	requireContains(t, api.lastText(), "not available on this screen")
}

func TestHandleSetStatus(t *testing.T) {
	tests := []struct {
		name string
		cmds []string
		want string
	}{
		{name: "usage", cmds: []string{"/donations", "/setstatus 4"}, want: "Usage: /setstatus"},
		{name: "case-insensitive", cmds: []string{"/donations", "/setstatus 4 ACCEPTED"}, want: "#4 is now accepted."},
		{name: "unknown status", cmds: []string{"/donations", "/setstatus 4 lost"}, want: "status must be one of: pending, accepted, distributed, rejected"},
		{name: "unknown id", cmds: []string{"/donations", "/setstatus 99 accepted"}, want: "#99 not found."},
		{name: "users", cmds: []string{"/users", "/setstatus 6 active"}, want: "#6 is now active."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, api, _ := newTestBot(t)
			run(t, b, tt.cmds...)
			requireContains(t, api.lastText(), tt.want)
		})
	}
}

func TestDonationFlow(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t)

	run(t, b, "/donate")
	requireContains(t, api.lastText(), "select at least one item")
	requireContains(t, api.lastText(), "recipient is required")

	run(t, b, "/pick 1", "/pick 3")
	requireContains(t, api.lastText(), "Picked Canned Beans. 2 item(s) picked")

	run(t, b, "/recipient nowhere", "/donate")
	requireContains(t, api.lastText(), "recipient must be one of")

	run(t, b, "/recipient local food bank")
	requireContains(t, api.lastText(), "Recipient: Local Food Bank")

	run(t, b, "/delivery pickup 01/04/2024", "/donate")
	requireContains(t, api.lastText(), "pickup_schedule must look like")

	run(t, b, "/delivery pickup 2024-04-01T10:00", "/note Keep cool", "/donate")
	requireContains(t, api.lastText(), "Success! Your donation has been submitted successfully.")

	s := b.sessions[testChat]
	if diff := cmp.Diff(6, s.ws.Donations.View().Total); diff != "" {
		t.Errorf("donation count (-want +got):\n%s", diff)
	}
	run(t, b, "/donations", "/status pending")
	requireContains(t, api.lastText(), "Fresh Vegetables and 1 more")

	select {
	case ev := <-b.events:
		ev(ctx)
	case <-time.After(time.Second):
		t.Fatal("donation form was not reset")
	}
	if s.ws.Food.Selection().Len() != 0 {
		t.Errorf("selection not cleared: %v", s.ws.Food.Selection().IDs())
	}
	if diff := cmp.Diff("", s.donation.Form.Recipient); diff != "" {
		t.Errorf("recipient after reset (-want +got):\n%s", diff)
	}
}

func TestDonationResetSuperseded(t *testing.T) {
	ctx := context.Background()
	b, _, _ := newTestBot(t)
	run(t, b, "/pick 1", "/recipient Senior Center", "/donate")
	first := <-b.events

	run(t, b, "/pick 2")
	s := b.sessions[testChat]
	s.donation.Cancel()
	first(ctx)

	if diff := cmp.Diff(2, s.ws.Food.Selection().Len()); diff != "" {
		t.Errorf("stale reset cleared the selection (-want +got):\n%s", diff)
	}
}

func TestHandlePickUnknown(t *testing.T) {
	b, api, _ := newTestBot(t)
	run(t, b, "/pick 42")
	requireContains(t, api.lastText(), "Food item #42 not found.")
	run(t, b, "/pick")
	requireContains(t, api.lastText(), "Usage: /pick")
}

func TestHandleAddFood(t *testing.T) {
	t.Run("usage", func(t *testing.T) {
		b, api, _ := newTestBot(t)
		run(t, b, "/addfood")
		requireContains(t, api.lastText(), "Usage: /addfood")
	})

	t.Run("invalid", func(t *testing.T) {
		b, api, _ := newTestBot(t)
		run(t, b, "/addfood Apples||tomorrow|Candy|")
		got := api.lastText()
		requireContains(t, got, "quantity is required")
		requireContains(t, got, "expiry must look like 2006-01-02")
		requireContains(t, got, "category must be one of")
		requireContains(t, got, "address is required")
	})

	t.Run("success", func(t *testing.T) {
		b, api, _ := newTestBot(t)
		run(t, b, "/addfood Apples|10 kg|2024-04-10|produce|12 Main St")
		requireContains(t, api.lastText(), "Added Apples")

		run(t, b, "/food", "/search apples")
		got := api.lastText()
		requireContains(t, got, "Food Listing (1 of 7)")
		requireContains(t, got, "Apples (Produce) 10 kg")
		requireContains(t, got, "Ann Lee @ 12 Main St")
	})
}

func TestConversation(t *testing.T) {
	b, api, _ := newTestBot(t)

	run(t, b, "/chat 1")
	got := api.lastText()
	requireContains(t, got, "Conversation with John Doe (Food Bank Manager)")
	requireContains(t, got, "John Doe:")

	run(t, b, "/stats")
	requireContains(t, api.lastText(), "Unread messages: 1")

	run(t, b, "/send 2 Can you pick up tomorrow?")
	requireContains(t, api.lastText(), "Message sent to Jane Smith.")
	run(t, b, "/chat 2")
	requireContains(t, api.lastText(), "You: Can you pick up tomorrow?")

	run(t, b, "/chat 99")
	requireContains(t, api.lastText(), "Contact #99 not found.")
	run(t, b, "/send 2")
	requireContains(t, api.lastText(), "Usage: /send")
}

func TestHandleStats(t *testing.T) {
	b, api, _ := newTestBot(t)
	run(t, b, "/stats")
	got := api.lastText()
	requireContains(t, got, "Food: 6 total, 3 available, 1 claimed, 2 reserved")
	requireContains(t, got, "Unread notifications: 3")
	requireContains(t, got, "Unread messages: 4")
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	b, api, store := newTestBot(t)

	run(t, b, "/settings")
	requireContains(t, api.lastText(), "Language: server default (en)")

	run(t, b, "/darkmode maybe")
	requireContains(t, api.lastText(), "Usage: /darkmode")

	run(t, b, "/darkmode on", "/notify push off", "/language French")
	requireContains(t, api.lastText(), "Language set to french.")

	got, err := store.GetSettings(ctx, testChat)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	want := &model.Settings{ChatID: testChat, DarkMode: true, EmailNotifications: true, Language: "french"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings (-want +got):\n%s", diff)
	}

	run(t, b, "/language klingon")
	requireContains(t, api.lastText(), "Languages: arabic, chinese")
}

func TestHandleCallback(t *testing.T) {
	b, api, _ := newTestBot(t)
	cb := func(data string) tgbotapi.Update {
		return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-" + data,
			From:    &tgbotapi.User{ID: 1},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: testChat}},
			Data:    data,
		}}
	}

	ctx := context.Background()
	b.handleUpdate(ctx, cb("pick:2"))
	requireContains(t, api.lastText(), "Picked Bread Loaves. 1 item(s) picked")

	b.handleUpdate(ctx, cb("pick:2"))
	requireContains(t, api.lastText(), "Removed Bread Loaves. 0 item(s) picked")

	b.handleUpdate(ctx, cb("sort:category"))
	requireContains(t, api.lastText(), "Sorted by category (asc)")

	run(t, b, "/notifications")
	b.handleUpdate(ctx, cb("read:2"))
	requireContains(t, api.lastText(), "Marked #2 as read.")

	before := api.count()
	b.handleUpdate(ctx, cb("garbage"))
	if api.count() != before {
		t.Errorf("malformed callback should not reply, got %q", api.lastText())
	}

	api.mu.Lock()
	acks := len(api.acks)
	api.mu.Unlock()
	if diff := cmp.Diff(5, acks); diff != "" {
		t.Errorf("callback acks (-want +got):\n%s", diff)
	}
}

func TestAnnounce(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t)
	run(t, b, "/food")
	before := api.count()

	offer := model.FoodItem{ID: "feed:abc", Name: "Bananas", Category: "Produce", Quantity: "Ripe", DonorName: "Fresh Mart", Status: model.FoodAvailable}
	if _, err := b.sessions[testChat].ws.Food.Insert(ctx, offer); err != nil {
		t.Fatalf("insert: %v", err)
	}

	b.Announce(ctx, []model.FoodItem{offer})
	ev := <-b.events
	ev(ctx)

	if diff := cmp.Diff(before+1, api.count()); diff != "" {
		t.Fatalf("messages sent (-want +got):\n%s", diff)
	}
	requireContains(t, api.lastText(), "New food offer:")
	requireContains(t, api.lastText(), "Bananas (Ripe) from Fresh Mart")

	run(t, b, "/notify push off")
	b.Announce(ctx, []model.FoodItem{offer})
	ev = <-b.events
	ev(ctx)
	requireContains(t, api.lastText(), "push notifications off.")
}

func TestRunExit(t *testing.T) {
	tests := []struct {
		name    string
		cancel  bool
		wantErr error
	}{
		{name: "context cancelled", cancel: true},
		{name: "update feed closed", wantErr: errUpdatesClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, api, _ := newTestBot(t)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				cancel()
			} else {
				updates := make(chan tgbotapi.Update)
				close(updates)
				api.updates = updates
			}

			done := make(chan error, 1)
			go func() { done <- b.Run(ctx) }()
			select {
			case err := <-done:
				if diff := cmp.Diff(tt.wantErr, err, cmpopts.EquateErrors()); diff != "" {
					t.Errorf("Run error (-want +got):\n%s", diff)
				}
			case <-time.After(time.Second):
				t.Fatal("Run did not stop")
			}
		})
	}
}
