package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"plate2share/internal/forms"
	"plate2share/internal/listview"
	"plate2share/internal/model"
	"plate2share/internal/screen"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to Plate2Share!

Share surplus food with the people who need it.

Quick start:
1. /food to browse the food listing
2. /pick <id> to choose items to donate
3. /recipient <name> and /donate to send them

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Screens:
/food, /donations, /users, /notifications, /contacts
/stats to see the dashboard overview
/refresh to reload the current data

Filtering the current screen:
/search <text>, /category <name>, /status <name>, /tab <name>
/sort <field> (again to flip the direction)
/reset to clear all filters

Acting on records:
/read <id>, /readall, /delete <id>, /clear
/setstatus <id> <status>

Donating:
/pick <id>, /recipient <name>, /note <text>
/delivery pickup|delivery [YYYY-MM-DDTHH:MM]
/donate
/addfood name|quantity|expiry|category|address

Messages:
/chat <contact_id>, /send <contact_id> <text>

Settings:
/settings, /darkmode on|off, /notify email|push on|off, /language <name>`)
}

func (b *Bot) showPanel(s *session) {
	pg := s.panel().render(b.now())
	msg := tgbotapi.NewMessage(s.chatID, FormatPage(pg))

	rows := sortRows(s.panel())
	rows = append(rows, pg.buttons...)
	if len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	b.send(msg)
}

func sortRows(p panel) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, field := range p.sortFields() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Sort: "+field, actionSort+":"+field))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func (b *Bot) replyErr(chatID int64, subject string, err error) {
	var verr *listview.ValidationError
	switch {
	case errors.As(err, &verr):
		b.reply(chatID, FormatProblems(err))
	case errors.Is(err, listview.ErrNotFound):
		b.reply(chatID, subject+" not found.")
	case errors.Is(err, listview.ErrUnsupported):
		b.reply(chatID, "That action is not available on this screen.")
	case errors.Is(err, listview.ErrDuplicateID):
		b.reply(chatID, subject+" already exists.")
	default:
		b.log.Error("command failed", "chat_id", chatID, "subject", subject, "error", err)
		b.reply(chatID, "Something went wrong. Please try again.")
	}
}

func (b *Bot) handleScreen(s *session, name string) {
	s.active = name
	b.showPanel(s)
}

func (b *Bot) handleSearch(s *session, args string) {
	s.panel().setFilter(listview.FilterPatch{Search: &args})
	b.showPanel(s)
}

func (b *Bot) handleCategory(s *session, args string) {
	if args == "" {
		args = listview.All
	}
	s.panel().setFilter(listview.FilterPatch{Category: &args})
	b.showPanel(s)
}

func (b *Bot) handleStatus(s *session, args string) {
	if args == "" {
		args = listview.All
	}
	s.panel().setFilter(listview.FilterPatch{Status: &args})
	b.showPanel(s)
}

func (b *Bot) handleTab(s *session, args string) {
	if args == "" {
		args = listview.TabAll
	}
	s.panel().setFilter(listview.FilterPatch{Tab: &args})
	b.showPanel(s)
}

func (b *Bot) handleSort(s *session, args string) {
	if args == "" {
		b.reply(s.chatID, "Usage: /sort <field>\nFields: "+strings.Join(s.panel().sortFields(), ", "))
		return
	}
	if _, err := s.panel().setSort(args); err != nil {
		b.reply(s.chatID, fmt.Sprintf("Unknown sort field %q. Fields: %s", args, strings.Join(s.panel().sortFields(), ", ")))
		return
	}
	b.showPanel(s)
}

func (b *Bot) handleReset(s *session) {
	s.panel().resetFilter()
	b.showPanel(s)
}

func (b *Bot) handleRead(ctx context.Context, s *session, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(s.chatID, "Usage: /read <id>")
		return
	}
	if err := s.panel().markRead(ctx, id); err != nil {
		b.replyErr(s.chatID, "#"+id, err)
		return
	}
	b.reply(s.chatID, fmt.Sprintf("Marked #%s as read.", id))
}

func (b *Bot) handleReadAll(ctx context.Context, s *session) {
	n, err := s.panel().markAllRead(ctx)
	if errors.Is(err, listview.ErrUnsupported) {
		b.replyErr(s.chatID, "", err)
		return
	}
	if err != nil {
		b.log.Error("mark all read", "chat_id", s.chatID, "error", err)
		b.reply(s.chatID, fmt.Sprintf("Marked %d as read. Some records could not be saved.", n))
		return
	}
	b.reply(s.chatID, fmt.Sprintf("Marked %d as read.", n))
}

func (b *Bot) handleDelete(ctx context.Context, s *session, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(s.chatID, "Usage: /delete <id>")
		return
	}
	if err := s.panel().remove(ctx, id); err != nil {
		b.replyErr(s.chatID, "#"+id, err)
		return
	}
	b.reply(s.chatID, fmt.Sprintf("Deleted #%s.", id))
}

func (b *Bot) handleClear(ctx context.Context, s *session) {
	n, err := s.panel().removeAll(ctx)
	if err != nil {
		b.log.Error("delete all", "chat_id", s.chatID, "error", err)
		b.reply(s.chatID, fmt.Sprintf("Deleted %d. Some records could not be deleted.", n))
		return
	}
	b.reply(s.chatID, fmt.Sprintf("Deleted %d.", n))
}

func (b *Bot) handleSetStatus(ctx context.Context, s *session, args string) {
	id, status, err := ParseSetStatusArgs(args)
	if err != nil {
		b.reply(s.chatID, "Usage: /setstatus <id> <status>")
		return
	}
	got, err := s.panel().setStatus(ctx, id, status)
	if err != nil {
		b.replyErr(s.chatID, "#"+id, err)
		return
	}
	b.reply(s.chatID, fmt.Sprintf("#%s is now %s.", id, got))
}

func (b *Bot) handlePick(s *session, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(s.chatID, "Usage: /pick <id>")
		return
	}
	sel, err := s.ws.Food.Toggle(id)
	if err != nil {
		b.replyErr(s.chatID, "Food item #"+id, err)
		return
	}
	item, _ := s.ws.Food.Get(id)
	verb := "Removed"
	if sel.Has(id) {
		verb = "Picked"
	}
	b.reply(s.chatID, fmt.Sprintf("%s %s. %d item(s) picked for donation.", verb, item.Name, sel.Len()))
}

func (b *Bot) handleRecipient(s *session, args string) {
	if args == "" {
		b.reply(s.chatID, "Recipients:\n - "+strings.Join(screen.Recipients, "\n - ")+"\n\nUsage: /recipient <name>")
		return
	}
	recipient := args
	if i := slices.IndexFunc(screen.Recipients, func(r string) bool { return strings.EqualFold(r, args) }); i >= 0 {
		recipient = screen.Recipients[i]
	}
	s.donation.Form.Recipient = recipient
	b.reply(s.chatID, FormatDonationForm(s.donation.Form, s.ws.Food.Selected()))
}

func (b *Bot) handleNote(s *session, args string) {
	s.donation.Form.Note = args
	b.reply(s.chatID, FormatDonationForm(s.donation.Form, s.ws.Food.Selected()))
}

func (b *Bot) handleDelivery(s *session, args string) {
	option, schedule, err := ParseDeliveryArgs(args)
	if err != nil {
		b.reply(s.chatID, "Usage: /delivery pickup|delivery [YYYY-MM-DDTHH:MM]")
		return
	}
	s.donation.Form.Delivery = option
	s.donation.Form.PickupSchedule = schedule
	b.reply(s.chatID, FormatDonationForm(s.donation.Form, s.ws.Food.Selected()))
}

func (b *Bot) handleDonate(ctx context.Context, s *session) {
	donation, err := s.donation.Form.Build(s.ws.Food.Selected(), b.now())
	if err != nil {
		b.replyErr(s.chatID, "Donation", err)
		return
	}
	if _, err := s.ws.Donations.Insert(ctx, donation); err != nil {
		b.replyErr(s.chatID, "Donation", err)
		return
	}

	chatID := s.chatID
	s.donation.Complete(ctx, func(gen uint64) {
		b.post(ctx, func(context.Context) { b.resetDonation(chatID, gen) })
	})
	b.reply(chatID, "Success! Your donation has been submitted successfully. Thank you for your generosity!")
}

func (b *Bot) resetDonation(chatID int64, gen uint64) {
	s, ok := b.sessions[chatID]
	if !ok || !s.donation.Reset(gen) {
		return
	}
	s.ws.Food.ClearSelection()
	b.log.Debug("donation form reset", "chat_id", chatID)
}

func (b *Bot) handleAddFood(ctx context.Context, s *session, args, donor string) {
	if args == "" {
		b.reply(s.chatID, "Usage: /addfood name|quantity|expiry|category|address\nCategories: "+strings.Join(screen.FoodCategories, ", "))
		return
	}
	item, err := forms.ParseFood(args).Build(donor)
	if err != nil {
		b.replyErr(s.chatID, "Food item", err)
		return
	}
	if _, err := s.ws.Food.Insert(ctx, item); err != nil {
		b.replyErr(s.chatID, "Food item", err)
		return
	}
	b.reply(s.chatID, fmt.Sprintf("Added %s (#%s) to the food listing.", item.Name, item.ID))
}

func (b *Bot) handleChat(ctx context.Context, s *session, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(s.chatID, "Usage: /chat <contact_id>")
		return
	}
	view, err := s.ws.OpenConversation(ctx, id)
	if err != nil {
		b.replyErr(s.chatID, "Contact #"+id, err)
		return
	}
	contact, _ := s.ws.Contacts.Get(id)
	b.reply(s.chatID, FormatConversation(contact, view.Items))
}

func (b *Bot) handleSend(ctx context.Context, s *session, args string) {
	id, text, err := ParseSendArgs(args)
	if err != nil {
		b.reply(s.chatID, "Usage: /send <contact_id> <text>")
		return
	}
	if _, err := s.ws.Send(ctx, id, text, b.now()); err != nil {
		b.replyErr(s.chatID, "Contact #"+id, err)
		return
	}
	contact, _ := s.ws.Contacts.Get(id)
	b.reply(s.chatID, "Message sent to "+contact.Name+".")
}

func (b *Bot) handleStats(s *session) {
	b.reply(s.chatID, FormatStats(s.ws.Stats()))
}

func (b *Bot) handleSettings(s *session) {
	b.reply(s.chatID, FormatSettings(s.settings, b.cfg.Locale))
}

func (b *Bot) saveSettings(ctx context.Context, s *session, next model.Settings) bool {
	if err := b.store.SaveSettings(ctx, &next); err != nil {
		b.log.Error("save settings", "chat_id", s.chatID, "error", err)
		b.reply(s.chatID, "Failed to save settings. Please try again.")
		return false
	}
	s.settings = next
	return true
}

func (b *Bot) handleDarkMode(ctx context.Context, s *session, args string) {
	on, err := ParseToggle(args)
	if err != nil {
		b.reply(s.chatID, "Usage: /darkmode on|off")
		return
	}
	next := s.settings
	next.DarkMode = on
	if b.saveSettings(ctx, s, next) {
		b.reply(s.chatID, "Dark mode "+onOff(on)+".")
	}
}

func (b *Bot) handleNotify(ctx context.Context, s *session, args string) {
	channel, on, err := ParseNotifyArgs(args)
	if err != nil {
		b.reply(s.chatID, "Usage: /notify email|push on|off")
		return
	}
	next := s.settings
	if channel == "email" {
		next.EmailNotifications = on
	} else {
		next.PushNotifications = on
	}
	if b.saveSettings(ctx, s, next) {
		b.reply(s.chatID, fmt.Sprintf("%s notifications %s.", channel, onOff(on)))
	}
}

func (b *Bot) handleLanguage(ctx context.Context, s *session, args string) {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	slices.Sort(names)

	lang := strings.ToLower(strings.TrimSpace(args))
	if _, ok := languages[lang]; !ok {
		b.reply(s.chatID, "Usage: /language <name>\nLanguages: "+strings.Join(names, ", "))
		return
	}
	next := s.settings
	next.Language = lang
	if !b.saveSettings(ctx, s, next) {
		return
	}
	if err := b.openWorkspace(ctx, s); err != nil {
		b.replyErr(s.chatID, "Workspace", err)
		return
	}
	b.reply(s.chatID, "Language set to "+lang+".")
}

func (b *Bot) handleRefresh(ctx context.Context, s *session) {
	if err := s.ws.Refresh(ctx); err != nil {
		b.replyErr(s.chatID, "Workspace", err)
		return
	}
	b.showPanel(s)
}
