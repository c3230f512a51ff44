package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/language"

	"plate2share/internal/forms"
	"plate2share/internal/listview"
	"plate2share/internal/model"
	"plate2share/internal/screen"
)

// languages maps the selectable interface languages to collation tags.
var languages = map[string]language.Tag{
	"english":    language.English,
	"spanish":    language.Spanish,
	"french":     language.French,
	"german":     language.German,
	"hindi":      language.Hindi,
	"chinese":    language.Chinese,
	"japanese":   language.Japanese,
	"arabic":     language.Arabic,
	"portuguese": language.Portuguese,
	"russian":    language.Russian,
}

// session is the dashboard state of one chat.
type session struct {
	chatID   int64
	ws       *screen.Workspace
	panels   map[string]panel
	active   string
	settings model.Settings
	donation *forms.Flow
}

func (b *Bot) session(ctx context.Context, chatID int64) (*session, error) {
	if s, ok := b.sessions[chatID]; ok {
		return s, nil
	}

	settings, err := b.store.GetSettings(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	s := &session{
		chatID:   chatID,
		active:   screen.Food,
		settings: *settings,
		donation: forms.NewFlow(b.cfg.DonationResetDelay),
	}
	if err := b.openWorkspace(ctx, s); err != nil {
		return nil, err
	}
	b.sessions[chatID] = s
	return s, nil
}

// openWorkspace loads the screens of s, collated for its language.
func (b *Bot) openWorkspace(ctx context.Context, s *session) error {
	ws, err := screen.Open(ctx, b.store, b.locale(s.settings.Language))
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}
	s.ws = ws
	s.panels = newPanels(ws)
	return nil
}

func (b *Bot) locale(lang string) language.Tag {
	if tag, ok := languages[strings.ToLower(lang)]; ok {
		return tag
	}
	return b.cfg.Language()
}

func (s *session) panel() panel {
	return s.panels[s.active]
}

// page is one rendered view of a panel.
type page struct {
	heading string
	empty   string
	lines   []string
	buttons [][]tgbotapi.InlineKeyboardButton
	shown   int
	total   int
	filter  listview.FilterState
	sort    listview.SortState
}

// panel is the type-erased face of a screen controller.
type panel interface {
	setFilter(p listview.FilterPatch)
	resetFilter()
	setSort(field string) (listview.SortState, error)
	sortFields() []string
	statuses() []string
	markRead(ctx context.Context, id string) error
	markAllRead(ctx context.Context) (int, error)
	remove(ctx context.Context, id string) error
	removeAll(ctx context.Context) (int, error)
	setStatus(ctx context.Context, id, status string) (string, error)
	render(now time.Time) page
}

// listPanel adapts a listview.Controller to panel.
type listPanel[T any] struct {
	heading string
	empty   string
	fields  []string
	ctl     *listview.Controller[T]
	row     func(item T, now time.Time) string
	actions func(item T) []tgbotapi.InlineKeyboardButton
}

// maxActionRows caps the per-item buttons under a page.
const maxActionRows = 5

func (p *listPanel[T]) setFilter(patch listview.FilterPatch) { p.ctl.SetFilter(patch) }

func (p *listPanel[T]) resetFilter() { p.ctl.ResetFilter() }

func (p *listPanel[T]) setSort(field string) (listview.SortState, error) { return p.ctl.SetSort(field) }

func (p *listPanel[T]) sortFields() []string { return p.fields }

func (p *listPanel[T]) statuses() []string { return p.ctl.Schema().Statuses }

func (p *listPanel[T]) markRead(ctx context.Context, id string) error { return p.ctl.MarkRead(ctx, id) }

func (p *listPanel[T]) markAllRead(ctx context.Context) (int, error) { return p.ctl.MarkAllRead(ctx) }

func (p *listPanel[T]) remove(ctx context.Context, id string) error { return p.ctl.Delete(ctx, id) }

func (p *listPanel[T]) removeAll(ctx context.Context) (int, error) { return p.ctl.DeleteAll(ctx) }

func (p *listPanel[T]) setStatus(ctx context.Context, id, status string) (string, error) {
	item, err := p.ctl.SetStatus(ctx, id, status)
	if err != nil {
		return "", err
	}
	return p.ctl.Schema().Status(item), nil
}

func (p *listPanel[T]) render(now time.Time) page {
	view := p.ctl.View()
	pg := page{
		heading: p.heading,
		empty:   p.empty,
		shown:   view.Len(),
		total:   view.Total,
		filter:  p.ctl.Filter(),
		sort:    p.ctl.Sort(),
	}
	for _, item := range view.Items {
		pg.lines = append(pg.lines, p.row(item, now))
		if p.actions != nil && len(pg.buttons) < maxActionRows {
			if row := p.actions(item); len(row) > 0 {
				pg.buttons = append(pg.buttons, row)
			}
		}
	}
	return pg
}

func newPanels(ws *screen.Workspace) map[string]panel {
	food := ws.Food
	return map[string]panel{
		screen.Food: &listPanel[model.FoodItem]{
			heading: "Food Listing",
			empty:   "No food items found matching your criteria.",
			fields:  []string{"name", "category", "expiry", "donor", "location", "status"},
			ctl:     food,
			row: func(f model.FoodItem, now time.Time) string {
				return FormatFood(f, food.Selection().Has(f.ID))
			},
			actions: func(f model.FoodItem) []tgbotapi.InlineKeyboardButton {
				label := "Pick " + f.Name
				if food.Selection().Has(f.ID) {
					label = "Unpick " + f.Name
				}
				return []tgbotapi.InlineKeyboardButton{
					tgbotapi.NewInlineKeyboardButtonData(label, actionPick+":"+f.ID),
				}
			},
		},
		screen.Donations: &listPanel[model.Donation]{
			heading: "My Donations",
			empty:   "No donations found.",
			fields:  []string{"date", "name", "type", "quantity", "status"},
			ctl:     ws.Donations,
			row:     func(d model.Donation, _ time.Time) string { return FormatDonation(d) },
		},
		screen.Users: &listPanel[model.User]{
			heading: "User Management",
			empty:   "No users found.",
			fields:  []string{"name", "email", "role", "status", "joinDate", "lastActive", "donations", "distributions"},
			ctl:     ws.Users,
			row:     FormatUser,
		},
		screen.Notifications: &listPanel[model.Notification]{
			heading: "Notifications",
			empty:   "No notifications found.",
			fields:  []string{"timestamp", "title", "type"},
			ctl:     ws.Notifications,
			row:     FormatNotification,
			actions: func(n model.Notification) []tgbotapi.InlineKeyboardButton {
				var row []tgbotapi.InlineKeyboardButton
				if !n.IsRead {
					row = append(row, tgbotapi.NewInlineKeyboardButtonData("Mark read #"+n.ID, actionRead+":"+n.ID))
				}
				return append(row, tgbotapi.NewInlineKeyboardButtonData("Delete #"+n.ID, actionDelete+":"+n.ID))
			},
		},
		screen.Contacts: &listPanel[model.Contact]{
			heading: "Communication",
			empty:   "No contacts found.",
			fields:  []string{"name", "role", "unread", "online"},
			ctl:     ws.Contacts,
			row:     func(c model.Contact, _ time.Time) string { return FormatContact(c) },
		},
	}
}
