package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"plate2share/internal/config"
	"plate2share/internal/model"
	"plate2share/internal/storage"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram front end of the dashboard. Every chat gets its own
// session; all sessions are owned by the update loop in Run.
type Bot struct {
	api      telegramAPI
	store    storage.Storage
	cfg      *config.Config
	log      *slog.Logger
	sessions map[int64]*session
	events   chan func(context.Context)
	now      func() time.Time
}

// New creates a Bot with the given Telegram token, storage, and config.
func New(token string, store storage.Storage, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return newBot(api, store, cfg, log), nil
}

func newBot(api telegramAPI, store storage.Storage, cfg *config.Config, log *slog.Logger) *Bot {
	return &Bot{
		api:      api,
		store:    store,
		cfg:      cfg,
		log:      log,
		sessions: make(map[int64]*session),
		events:   make(chan func(context.Context), 16),
		now:      time.Now,
	}
}

// errUpdatesClosed is returned by Run when Telegram stops delivering updates
// before ctx is cancelled.
var errUpdatesClosed = errors.New("telegram updates channel closed")

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
// It returns nil on cancellation and an error if the update feed ends first.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.stop()
			return nil
		case ev := <-b.events:
			ev(ctx)
		case update, ok := <-updates:
			if !ok {
				b.stop()
				return errUpdatesClosed
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) stop() {
	b.api.StopReceivingUpdates()
	for _, s := range b.sessions {
		s.donation.Cancel()
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if cb := update.CallbackQuery; cb != nil {
		if cb.Message == nil || cb.From == nil {
			return
		}
		if !b.cfg.IsUserAllowed(cb.From.ID) {
			b.ack(cb.ID, "Access denied.")
			return
		}
		b.handleCallback(ctx, cb)
		return
	}
	msg := update.Message
	if msg == nil || !msg.IsCommand() || msg.From == nil {
		return
	}
	if !b.cfg.IsUserAllowed(msg.From.ID) {
		b.reply(msg.Chat.ID, "Access denied.")
		return
	}
	b.handleCommand(ctx, msg)
}

// post runs fn on the update loop.
func (b *Bot) post(ctx context.Context, fn func(context.Context)) {
	select {
	case b.events <- fn:
	case <-ctx.Done():
	}
}

// Announce tells every open session about newly imported offers. It is
// safe to call from any goroutine.
func (b *Bot) Announce(ctx context.Context, offers []model.FoodItem) {
	text := FormatOffers(offers)
	b.post(ctx, func(ctx context.Context) {
		for chatID, s := range b.sessions {
			if err := s.ws.Refresh(ctx); err != nil {
				b.log.Error("refresh session", "chat_id", chatID, "error", err)
			}
			if s.settings.PushNotifications {
				b.SendMessage(chatID, text)
			}
		}
	})
}

// SendMessage sends a text message to the given chat.
func (b *Bot) SendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", msg.ChatID, "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.SendMessage(chatID, text)
}

func (b *Bot) ack(callbackID, text string) {
	if _, err := b.api.Send(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.Error("send callback ack", "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
		return
	case "help":
		b.handleHelp(chatID)
		return
	}

	s, err := b.session(ctx, chatID)
	if err != nil {
		b.log.Error("open session", "chat_id", chatID, "error", err)
		b.reply(chatID, "The dashboard is unavailable right now. Please try again later.")
		return
	}

	switch cmd {
	case "food", "donations", "users", "notifications", "contacts":
		b.handleScreen(s, cmd)
	case "search":
		b.handleSearch(s, args)
	case "category":
		b.handleCategory(s, args)
	case "status":
		b.handleStatus(s, args)
	case "tab":
		b.handleTab(s, args)
	case "sort":
		b.handleSort(s, args)
	case "reset":
		b.handleReset(s)
	case "read":
		b.handleRead(ctx, s, args)
	case "readall":
		b.handleReadAll(ctx, s)
	case "delete":
		b.handleDelete(ctx, s, args)
	case "clear":
		b.handleClear(ctx, s)
	case "setstatus":
		b.handleSetStatus(ctx, s, args)
	case "pick":
		b.handlePick(s, args)
	case "recipient":
		b.handleRecipient(s, args)
	case "note":
		b.handleNote(s, args)
	case "delivery":
		b.handleDelivery(s, args)
	case "donate":
		b.handleDonate(ctx, s)
	case "addfood":
		b.handleAddFood(ctx, s, args, donorName(msg.From))
	case "chat":
		b.handleChat(ctx, s, args)
	case "send":
		b.handleSend(ctx, s, args)
	case "stats":
		b.handleStats(s)
	case "settings":
		b.handleSettings(s)
	case "darkmode":
		b.handleDarkMode(ctx, s, args)
	case "notify":
		b.handleNotify(ctx, s, args)
	case "language":
		b.handleLanguage(ctx, s, args)
	case "refresh":
		b.handleRefresh(ctx, s)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}

func donorName(u *tgbotapi.User) string {
	if u == nil {
		return "Anonymous"
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.UserName
	}
	if name == "" {
		return "Anonymous"
	}
	return name
}
