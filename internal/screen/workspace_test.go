package screen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"plate2share/internal/listview"
	"plate2share/internal/model"
	"plate2share/internal/storage"
)

func newSeededStore(t *testing.T) *storage.SQLite {
	t.Helper()
	st, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if _, err := Seed(context.Background(), st); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return st
}

func openWorkspace(t *testing.T, st storage.Storage) *Workspace {
	t.Helper()
	w, err := Open(context.Background(), st, language.English)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return w
}

func viewIDs[T any](ctl *listview.Controller[T]) []string {
	var out []string
	for _, item := range ctl.View().Items {
		out = append(out, ctl.Schema().ID(item))
	}
	return out
}

func TestSeedIsIdempotent(t *testing.T) {
	st := newSeededStore(t)

	n, err := Seed(context.Background(), st)
	if err != nil {
		t.Fatalf("seed again: %v", err)
	}
	if n != 0 {
		t.Errorf("second seed added %d records, want 0", n)
	}
}

func TestOpenDefaultViews(t *testing.T) {
	w := openWorkspace(t, newSeededStore(t))

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{name: "food keeps store order", got: viewIDs(w.Food), want: []string{"1", "2", "3", "4", "5", "6"}},
		{name: "donations newest first", got: viewIDs(w.Donations), want: []string{"1", "2", "3", "4", "5"}},
		{name: "users by name", got: viewIDs(w.Users), want: []string{"7", "6", "2", "1", "5", "8", "3", "4"}},
		{name: "notifications newest first", got: viewIDs(w.Notifications), want: []string{"1", "2", "3", "4", "5", "6", "7"}},
		{name: "contacts", got: viewIDs(w.Contacts), want: []string{"1", "2", "3", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got); diff != "" {
				t.Errorf("view mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScreenFilters(t *testing.T) {
	w := openWorkspace(t, newSeededStore(t))
	ptr := func(s string) *string { return &s }

	tests := []struct {
		name  string
		apply func() []string
		want  []string
	}{
		{
			name: "food search matches donor",
			apply: func() []string {
				w.Food.SetFilter(listview.FilterPatch{Search: ptr("bakery")})
				return viewIDs(w.Food)
			},
			want: []string{"2"},
		},
		{
			name: "food category and status",
			apply: func() []string {
				w.Food.ResetFilter()
				w.Food.SetFilter(listview.FilterPatch{Category: ptr("Produce"), Status: ptr("Available")})
				return viewIDs(w.Food)
			},
			want: []string{"1"},
		},
		{
			name: "donation status tab",
			apply: func() []string {
				w.Donations.SetFilter(listview.FilterPatch{Tab: ptr("distributed")})
				return viewIDs(w.Donations)
			},
			want: []string{"2", "3"},
		},
		{
			name: "user role",
			apply: func() []string {
				w.Users.SetFilter(listview.FilterPatch{Category: ptr("volunteer")})
				return viewIDs(w.Users)
			},
			want: []string{"7", "4"},
		},
		{
			name: "unread notifications",
			apply: func() []string {
				w.Notifications.SetFilter(listview.FilterPatch{Tab: ptr("unread")})
				return viewIDs(w.Notifications)
			},
			want: []string{"1", "2", "5"},
		},
		{
			name: "message notifications",
			apply: func() []string {
				w.Notifications.ResetFilter()
				w.Notifications.SetFilter(listview.FilterPatch{Tab: ptr("message")})
				return viewIDs(w.Notifications)
			},
			want: []string{"2", "6"},
		},
		{
			name: "online contacts",
			apply: func() []string {
				w.Contacts.SetFilter(listview.FilterPatch{Tab: ptr("online")})
				return viewIDs(w.Contacts)
			},
			want: []string{"1", "4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.apply()); diff != "" {
				t.Errorf("view mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMutationsPersist(t *testing.T) {
	ctx := context.Background()
	st := newSeededStore(t)
	w := openWorkspace(t, st)

	if _, err := w.Donations.SetStatus(ctx, "4", "Accepted"); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if err := w.Notifications.MarkRead(ctx, "1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := w.Food.Delete(ctx, "5"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	again := openWorkspace(t, st)
	d, ok := again.Donations.Get("4")
	if !ok || d.Status != model.DonationAccepted {
		t.Errorf("donation 4 = %+v, want accepted", d)
	}
	if n, _ := again.Notifications.Get("1"); !n.IsRead {
		t.Error("notification 1 should be read after reopen")
	}
	if again.Food.Snapshot().Has("5") {
		t.Error("deleted food item came back")
	}
}

func TestDeletedIDsStayRetired(t *testing.T) {
	ctx := context.Background()
	st := newSeededStore(t)
	w := openWorkspace(t, st)

	if err := w.Food.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := Seed(ctx, st); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if w.Food.Snapshot().Has("1") {
		t.Error("seed restored a deleted record")
	}

	repo := NewRepository(st, model.KindFood, FoodSchema(language.English))
	_, err := repo.Create(ctx, SampleFood()[0])
	if !errors.Is(err, listview.ErrDuplicateID) {
		t.Errorf("create with retired id: expected ErrDuplicateID, got %v", err)
	}
}

func TestRepositoryUpdateMissing(t *testing.T) {
	st := newSeededStore(t)
	repo := NewRepository(st, model.KindUser, UserSchema(language.English))

	_, err := repo.Update(context.Background(), model.User{ID: "missing"})
	if !errors.Is(err, listview.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConversation(t *testing.T) {
	ctx := context.Background()
	st := newSeededStore(t)
	w := openWorkspace(t, st)

	view, err := w.OpenConversation(ctx, "1")
	if err != nil {
		t.Fatalf("open conversation: %v", err)
	}
	var got []string
	for _, m := range view.Items {
		got = append(got, m.ID)
	}
	want := []string{"1-1", "1-2", "1-3", "1-4", "1-5", "1-6"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("conversation mismatch (-want +got):\n%s", diff)
	}

	if c, _ := w.Contacts.Get("1"); c.UnreadCount != 0 {
		t.Errorf("contact unread = %d, want 0", c.UnreadCount)
	}
	if n := w.Messages.Unread(); n != 1 {
		t.Errorf("unread messages = %d, want 1", n)
	}

	now := time.Date(2024, 3, 26, 9, 0, 0, 0, time.UTC)
	sent, err := w.Send(ctx, "1", "  See you next week!  ", now)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Text != "See you next week!" || sent.SenderID != model.SenderSelf {
		t.Errorf("sent = %+v", sent)
	}
	view = w.Messages.View()
	if last := view.Items[view.Len()-1]; last.ID != sent.ID {
		t.Errorf("last message = %q, want the sent one", last.ID)
	}

	again := openWorkspace(t, st)
	if _, ok := again.Messages.Get(sent.ID); !ok {
		t.Error("sent message not persisted")
	}
}

func TestConversationErrors(t *testing.T) {
	w := openWorkspace(t, newSeededStore(t))
	ctx := context.Background()

	if _, err := w.OpenConversation(ctx, "99"); !errors.Is(err, listview.ErrNotFound) {
		t.Errorf("open unknown contact: expected ErrNotFound, got %v", err)
	}
	if _, err := w.Send(ctx, "99", "hi", time.Now()); !errors.Is(err, listview.ErrNotFound) {
		t.Errorf("send to unknown contact: expected ErrNotFound, got %v", err)
	}
	var verr *listview.ValidationError
	if _, err := w.Send(ctx, "1", "   ", time.Now()); !errors.As(err, &verr) {
		t.Errorf("send empty text: expected ValidationError, got %v", err)
	}
}

func TestStats(t *testing.T) {
	w := openWorkspace(t, newSeededStore(t))

	want := Stats{
		Food:                map[string]int{"available": 3, "reserved": 2, "claimed": 1},
		Donations:           map[string]int{"pending": 1, "accepted": 1, "distributed": 2, "rejected": 1},
		Users:               map[string]int{"active": 6, "inactive": 1, "pending": 1},
		UnreadNotifications: 3,
		UnreadMessages:      4,
	}
	if diff := cmp.Diff(want, w.Stats()); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}
