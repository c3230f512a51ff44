// Package screen configures the generic list for each dashboard screen
// and binds it to storage.
package screen

import (
	"strings"

	"golang.org/x/text/language"

	"plate2share/internal/listview"
	"plate2share/internal/model"
)

// Screen names.
const (
	Food          = "food"
	Donations     = "donations"
	Users         = "users"
	Notifications = "notifications"
	Contacts      = "contacts"
)

// FoodCategories is the category vocabulary of the food listing.
var FoodCategories = []string{
	"Produce", "Bakery", "Canned Goods", "Grains", "Dairy",
	"Fruits & Vegetables", "Dairy & Eggs", "Bread & Bakery", "Meat & Seafood",
	"Pantry Items", "Prepared Foods", "Beverages", "Other",
}

// CanonicalCategory returns the vocabulary spelling of c, matched
// case-insensitively.
func CanonicalCategory(c string) (string, bool) {
	for _, known := range FoodCategories {
		if strings.EqualFold(known, strings.TrimSpace(c)) {
			return known, true
		}
	}
	return "", false
}

// FoodSchema describes FoodItem lists.
func FoodSchema(locale language.Tag) *listview.Schema[model.FoodItem] {
	return &listview.Schema[model.FoodItem]{
		ID:       func(f model.FoodItem) string { return f.ID },
		Status:   func(f model.FoodItem) string { return string(f.Status) },
		Category: func(f model.FoodItem) string { return f.Category },
		Search: []func(model.FoodItem) string{
			func(f model.FoodItem) string { return f.Name },
			func(f model.FoodItem) string { return f.DonorName },
			func(f model.FoodItem) string { return f.Location },
		},
		Fields: map[string]listview.Field[model.FoodItem]{
			"name":     func(f model.FoodItem) listview.Value { return listview.String(f.Name) },
			"category": func(f model.FoodItem) listview.Value { return listview.String(f.Category) },
			"expiry":   func(f model.FoodItem) listview.Value { return listview.Time(f.ExpiryDate) },
			"donor":    func(f model.FoodItem) listview.Value { return listview.String(f.DonorName) },
			"location": func(f model.FoodItem) listview.Value { return listview.String(f.Location) },
			"status":   func(f model.FoodItem) listview.Value { return listview.String(string(f.Status)) },
		},
		Statuses: []string{string(model.FoodAvailable), string(model.FoodReserved), string(model.FoodClaimed)},
		WithStatus: func(f model.FoodItem, s string) model.FoodItem {
			f.Status = model.FoodStatus(s)
			return f
		},
		Locale: locale,
	}
}

// DonationSchema describes Donation lists. Tabs select a status.
func DonationSchema(locale language.Tag) *listview.Schema[model.Donation] {
	return &listview.Schema[model.Donation]{
		ID:       func(d model.Donation) string { return d.ID },
		Status:   func(d model.Donation) string { return string(d.Status) },
		Category: func(d model.Donation) string { return d.Type },
		Search: []func(model.Donation) string{
			func(d model.Donation) string { return d.Name },
			func(d model.Donation) string { return d.Recipient },
		},
		Fields: map[string]listview.Field[model.Donation]{
			"name":     func(d model.Donation) listview.Value { return listview.String(d.Name) },
			"type":     func(d model.Donation) listview.Value { return listview.String(d.Type) },
			"quantity": func(d model.Donation) listview.Value { return listview.String(d.Quantity) },
			"date":     func(d model.Donation) listview.Value { return listview.Time(d.Date) },
			"status":   func(d model.Donation) listview.Value { return listview.String(string(d.Status)) },
		},
		Statuses: []string{
			string(model.DonationPending), string(model.DonationAccepted),
			string(model.DonationDistributed), string(model.DonationRejected),
		},
		WithStatus: func(d model.Donation, s string) model.Donation {
			d.Status = model.DonationStatus(s)
			return d
		},
		Locale: locale,
	}
}

// UserSchema describes User lists. The category is the user's role.
func UserSchema(locale language.Tag) *listview.Schema[model.User] {
	return &listview.Schema[model.User]{
		ID:       func(u model.User) string { return u.ID },
		Status:   func(u model.User) string { return string(u.Status) },
		Category: func(u model.User) string { return string(u.Role) },
		Search: []func(model.User) string{
			func(u model.User) string { return u.Name },
			func(u model.User) string { return u.Email },
		},
		Fields: map[string]listview.Field[model.User]{
			"name":          func(u model.User) listview.Value { return listview.String(u.Name) },
			"email":         func(u model.User) listview.Value { return listview.String(u.Email) },
			"role":          func(u model.User) listview.Value { return listview.String(string(u.Role)) },
			"status":        func(u model.User) listview.Value { return listview.String(string(u.Status)) },
			"joinDate":      func(u model.User) listview.Value { return listview.Time(u.JoinDate) },
			"lastActive":    func(u model.User) listview.Value { return listview.Time(u.LastActive) },
			"donations":     func(u model.User) listview.Value { return listview.Number(float64(u.Donations)) },
			"distributions": func(u model.User) listview.Value { return listview.Number(float64(u.Distributions)) },
		},
		Statuses: []string{string(model.UserActive), string(model.UserInactive), string(model.UserPending)},
		WithStatus: func(u model.User, s string) model.User {
			u.Status = model.UserStatus(s)
			return u
		},
		Locale: locale,
	}
}

// Notification statuses derived from the read flag.
const (
	StatusRead   = "read"
	StatusUnread = "unread"
)

// NotificationSchema describes Notification lists. Besides "unread",
// every notification type is a tab.
func NotificationSchema(locale language.Tag) *listview.Schema[model.Notification] {
	tabs := map[string]func(model.Notification) bool{
		StatusUnread: func(n model.Notification) bool { return !n.IsRead },
	}
	for _, t := range []model.NotificationType{
		model.NotifyDonation, model.NotifyMessage, model.NotifyDistribution, model.NotifySystem, model.NotifyAlert,
	} {
		tabs[string(t)] = func(n model.Notification) bool { return n.Type == t }
	}
	return &listview.Schema[model.Notification]{
		ID: func(n model.Notification) string { return n.ID },
		Status: func(n model.Notification) string {
			if n.IsRead {
				return StatusRead
			}
			return StatusUnread
		},
		Category: func(n model.Notification) string { return string(n.Type) },
		Search: []func(model.Notification) string{
			func(n model.Notification) string { return n.Title },
			func(n model.Notification) string { return n.Description },
		},
		Fields: map[string]listview.Field[model.Notification]{
			"timestamp": func(n model.Notification) listview.Value { return listview.Time(n.Timestamp) },
			"title":     func(n model.Notification) listview.Value { return listview.String(n.Title) },
			"type":      func(n model.Notification) listview.Value { return listview.String(string(n.Type)) },
			"read":      func(n model.Notification) listview.Value { return listview.Bool(n.IsRead) },
		},
		Tabs: tabs,
		MarkRead: func(n model.Notification) model.Notification {
			n.IsRead = true
			return n
		},
		IsUnread: func(n model.Notification) bool { return !n.IsRead },
		Locale:   locale,
	}
}

// ContactSchema describes Contact lists with "unread" and "online" tabs.
func ContactSchema(locale language.Tag) *listview.Schema[model.Contact] {
	return &listview.Schema[model.Contact]{
		ID:       func(c model.Contact) string { return c.ID },
		Category: func(c model.Contact) string { return c.Role },
		Search: []func(model.Contact) string{
			func(c model.Contact) string { return c.Name },
		},
		Fields: map[string]listview.Field[model.Contact]{
			"name":   func(c model.Contact) listview.Value { return listview.String(c.Name) },
			"role":   func(c model.Contact) listview.Value { return listview.String(c.Role) },
			"unread": func(c model.Contact) listview.Value { return listview.Number(float64(c.UnreadCount)) },
			"online": func(c model.Contact) listview.Value { return listview.Bool(c.IsOnline) },
		},
		Tabs: map[string]func(model.Contact) bool{
			"unread": func(c model.Contact) bool { return c.UnreadCount > 0 },
			"online": func(c model.Contact) bool { return c.IsOnline },
		},
		MarkRead: func(c model.Contact) model.Contact {
			c.UnreadCount = 0
			return c
		},
		IsUnread: func(c model.Contact) bool { return c.UnreadCount > 0 },
		Locale:   locale,
	}
}

// MessageSchema describes chat messages. The category is the contact,
// so a category filter selects one conversation.
func MessageSchema(locale language.Tag) *listview.Schema[model.Message] {
	return &listview.Schema[model.Message]{
		ID:       func(m model.Message) string { return m.ID },
		Category: func(m model.Message) string { return m.ContactID },
		Search: []func(model.Message) string{
			func(m model.Message) string { return m.Text },
		},
		Fields: map[string]listview.Field[model.Message]{
			"timestamp": func(m model.Message) listview.Value { return listview.Time(m.Timestamp) },
		},
		MarkRead: func(m model.Message) model.Message {
			m.IsRead = true
			return m
		},
		IsUnread: func(m model.Message) bool { return !m.IsRead && m.SenderID != model.SenderSelf },
		Locale:   locale,
	}
}
