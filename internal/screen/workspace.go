package screen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"plate2share/internal/listview"
	"plate2share/internal/model"
	"plate2share/internal/storage"
)

// Workspace holds one controller per screen. It is owned by a single
// chat session and is not safe for concurrent use.
type Workspace struct {
	Food          *listview.Controller[model.FoodItem]
	Donations     *listview.Controller[model.Donation]
	Users         *listview.Controller[model.User]
	Notifications *listview.Controller[model.Notification]
	Contacts      *listview.Controller[model.Contact]
	Messages      *listview.Controller[model.Message]

	food          *Repository[model.FoodItem]
	donations     *Repository[model.Donation]
	users         *Repository[model.User]
	notifications *Repository[model.Notification]
	contacts      *Repository[model.Contact]
	messages      *Repository[model.Message]
}

// Stats summarizes the workspace for the dashboard overview.
type Stats struct {
	Food                map[string]int
	Donations           map[string]int
	Users               map[string]int
	UnreadNotifications int
	UnreadMessages      int
}

// Seed stores the sample data of every screen that was never stored.
func Seed(ctx context.Context, st storage.Storage) (int, error) {
	tag := language.English
	steps := []func() (int, error){
		func() (int, error) {
			return NewRepository(st, model.KindFood, FoodSchema(tag)).Seed(ctx, SampleFood())
		},
		func() (int, error) {
			return NewRepository(st, model.KindDonation, DonationSchema(tag)).Seed(ctx, SampleDonations())
		},
		func() (int, error) {
			return NewRepository(st, model.KindUser, UserSchema(tag)).Seed(ctx, SampleUsers())
		},
		func() (int, error) {
			return NewRepository(st, model.KindNotification, NotificationSchema(tag)).Seed(ctx, SampleNotifications())
		},
		func() (int, error) {
			return NewRepository(st, model.KindContact, ContactSchema(tag)).Seed(ctx, SampleContacts())
		},
		func() (int, error) {
			return NewRepository(st, model.KindMessage, MessageSchema(tag)).Seed(ctx, SampleMessages())
		},
	}
	total := 0
	for _, step := range steps {
		n, err := step()
		total += n
		if err != nil {
			return total, fmt.Errorf("seed: %w", err)
		}
	}
	return total, nil
}

// Open loads every screen from st.
func Open(ctx context.Context, st storage.Storage, locale language.Tag) (*Workspace, error) {
	w := &Workspace{
		food:          NewRepository(st, model.KindFood, FoodSchema(locale)),
		donations:     NewRepository(st, model.KindDonation, DonationSchema(locale)),
		users:         NewRepository(st, model.KindUser, UserSchema(locale)),
		notifications: NewRepository(st, model.KindNotification, NotificationSchema(locale)),
		contacts:      NewRepository(st, model.KindContact, ContactSchema(locale)),
		messages:      NewRepository(st, model.KindMessage, MessageSchema(locale)),
	}

	var err error
	if w.Food, err = open(ctx, w.food, listview.SortState{}); err != nil {
		return nil, err
	}
	if w.Donations, err = open(ctx, w.donations, listview.SortState{Field: "date", Direction: listview.Descending}); err != nil {
		return nil, err
	}
	if w.Users, err = open(ctx, w.users, listview.SortState{Field: "name"}); err != nil {
		return nil, err
	}
	if w.Notifications, err = open(ctx, w.notifications, listview.SortState{Field: "timestamp", Direction: listview.Descending}); err != nil {
		return nil, err
	}
	if w.Contacts, err = open(ctx, w.contacts, listview.SortState{}); err != nil {
		return nil, err
	}
	if w.Messages, err = open(ctx, w.messages, listview.SortState{Field: "timestamp"}); err != nil {
		return nil, err
	}
	return w, nil
}

func open[T any](ctx context.Context, repo *Repository[T], sort listview.SortState) (*listview.Controller[T], error) {
	items, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", repo.kind, err)
	}
	return listview.NewController(repo.schema, items,
		listview.WithCollaborator[T](repo),
		listview.WithSort[T](sort),
	)
}

func reload[T any](ctx context.Context, repo *Repository[T], ctl *listview.Controller[T]) error {
	items, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", repo.kind, err)
	}
	return ctl.Reload(items)
}

// Refresh reloads every screen from storage. Filters, sorts and
// selections that still apply are kept.
func (w *Workspace) Refresh(ctx context.Context) error {
	steps := []func() error{
		func() error { return reload(ctx, w.food, w.Food) },
		func() error { return reload(ctx, w.donations, w.Donations) },
		func() error { return reload(ctx, w.users, w.Users) },
		func() error { return reload(ctx, w.notifications, w.Notifications) },
		func() error { return reload(ctx, w.contacts, w.Contacts) },
		func() error { return reload(ctx, w.messages, w.Messages) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// Stats counts records per status on every screen.
func (w *Workspace) Stats() Stats {
	return Stats{
		Food:                w.Food.Counts(),
		Donations:           w.Donations.Counts(),
		Users:               w.Users.Counts(),
		UnreadNotifications: w.Notifications.Unread(),
		UnreadMessages:      w.Messages.Unread(),
	}
}

// OpenConversation shows the messages exchanged with contactID, marking
// them and the contact as read.
func (w *Workspace) OpenConversation(ctx context.Context, contactID string) (listview.View[model.Message], error) {
	contact, ok := w.Contacts.Get(contactID)
	if !ok {
		return listview.View[model.Message]{}, fmt.Errorf("contact %q: %w", contactID, listview.ErrNotFound)
	}
	w.Messages.ResetFilter()
	w.Messages.SetFilter(listview.FilterPatch{Category: &contactID})

	view := w.Messages.View()
	for _, m := range view.Items {
		if w.Messages.Schema().IsUnread(m) {
			if err := w.Messages.MarkRead(ctx, m.ID); err != nil {
				return view, err
			}
		}
	}
	if contact.UnreadCount > 0 {
		if err := w.Contacts.MarkRead(ctx, contactID); err != nil {
			return view, err
		}
	}
	return w.Messages.View(), nil
}

// Send appends a message from the current user to the conversation with
// contactID.
func (w *Workspace) Send(ctx context.Context, contactID, text string, now time.Time) (model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		verr := &listview.ValidationError{}
		return model.Message{}, verr.Add("text", "required")
	}
	if _, ok := w.Contacts.Get(contactID); !ok {
		return model.Message{}, fmt.Errorf("contact %q: %w", contactID, listview.ErrNotFound)
	}
	return w.Messages.Insert(ctx, model.Message{
		ID:        uuid.NewString(),
		ContactID: contactID,
		SenderID:  model.SenderSelf,
		Text:      text,
		Timestamp: now.UTC(),
		IsRead:    true,
	})
}
