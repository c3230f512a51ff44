package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Inline button actions, encoded as action:argument.
const (
	actionPick   = "pick"
	actionRead   = "read"
	actionDelete = "delete"
	actionSort   = "sort"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	b.ack(cb.ID, "")

	action, arg, ok := parseCallback(cb.Data)
	if !ok {
		b.log.Warn("malformed callback", "data", cb.Data)
		return
	}
	chatID := cb.Message.Chat.ID
	s, err := b.session(ctx, chatID)
	if err != nil {
		b.log.Error("open session", "chat_id", chatID, "error", err)
		return
	}

	switch action {
	case actionSort:
		b.handleSort(s, arg)
	case actionRead:
		b.handleRead(ctx, s, arg)
	case actionDelete:
		b.handleDelete(ctx, s, arg)
	case actionPick:
		b.handlePick(s, arg)
	default:
		b.log.Warn("unknown callback action", "action", action)
	}
}
