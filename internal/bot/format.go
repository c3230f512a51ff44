package bot

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"plate2share/internal/forms"
	"plate2share/internal/listview"
	"plate2share/internal/model"
	"plate2share/internal/screen"
)

// TimeAgo describes t relative to now the way the dashboard lists do.
// Anything older than a week is shown as a date.
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", unit)
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	default:
		return t.Format(model.DateLayout)
	}
}

// FormatFood formats one food listing row.
func FormatFood(f model.FoodItem, picked bool) string {
	mark := ""
	if picked {
		mark = "[x] "
	}
	return fmt.Sprintf("%s#%s %s (%s) %s, expires %s [%s]\n   %s @ %s",
		mark, f.ID, f.Name, f.Category, f.Quantity, f.ExpiryDate.Format(model.DateLayout), f.Status,
		f.DonorName, f.Location)
}

// FormatDonation formats one donation row.
func FormatDonation(d model.Donation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%s %s (%s) %s on %s [%s]", d.ID, d.Name, d.Type, d.Quantity, d.Date.Format(model.DateLayout), d.Status)
	if d.Recipient != "" {
		fmt.Fprintf(&b, "\n   to %s", d.Recipient)
		if d.DistributionDate != nil {
			fmt.Fprintf(&b, ", distributed %s", d.DistributionDate.Format(model.DateLayout))
		}
	}
	return b.String()
}

// FormatUser formats one user row.
func FormatUser(u model.User, now time.Time) string {
	return fmt.Sprintf("#%s %s <%s> %s [%s]\n   joined %s, active %s, %d donations, %d distributions",
		u.ID, u.Name, u.Email, u.Role, u.Status,
		u.JoinDate.Format(model.DateLayout), TimeAgo(u.LastActive, now), u.Donations, u.Distributions)
}

// FormatNotification formats one notification row. Unread entries are
// marked with an asterisk.
func FormatNotification(n model.Notification, now time.Time) string {
	mark := " "
	if !n.IsRead {
		mark = "*"
	}
	return fmt.Sprintf("%s #%s %s (%s, %s)\n   %s", mark, n.ID, n.Title, n.Type, TimeAgo(n.Timestamp, now), n.Description)
}

// FormatContact formats one contact row.
func FormatContact(c model.Contact) string {
	presence := "last seen " + c.LastSeen
	if c.IsOnline {
		presence = "online"
	}
	line := fmt.Sprintf("#%s %s, %s (%s)", c.ID, c.Name, c.Role, presence)
	if c.UnreadCount > 0 {
		line += fmt.Sprintf(" %d unread", c.UnreadCount)
	}
	return line
}

// FormatPage renders a panel page as a message.
func FormatPage(p page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d of %d)\n", p.heading, p.shown, p.total)
	b.WriteString(FormatFilter(p.filter, p.sort))
	b.WriteString("\n")
	if len(p.lines) == 0 {
		b.WriteString("\n")
		b.WriteString(p.empty)
		return b.String()
	}
	for _, line := range p.lines {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

// FormatFilter summarizes the active filter and sort.
func FormatFilter(f listview.FilterState, s listview.SortState) string {
	var parts []string
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.Search))
	}
	if !strings.EqualFold(f.Category, listview.All) && f.Category != "" {
		parts = append(parts, "category "+f.Category)
	}
	if !strings.EqualFold(f.Status, listview.All) && f.Status != "" {
		parts = append(parts, "status "+f.Status)
	}
	if !strings.EqualFold(f.Tab, listview.TabAll) && f.Tab != "" {
		parts = append(parts, "tab "+f.Tab)
	}
	line := "Filters: none"
	if len(parts) > 0 {
		line = "Filters: " + strings.Join(parts, ", ")
	}
	if s.Field != "" {
		line += fmt.Sprintf(". Sorted by %s (%s)", s.Field, s.Direction)
	}
	return line
}

// FormatConversation renders the messages exchanged with a contact.
func FormatConversation(c model.Contact, msgs []model.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversation with %s (%s)\n", c.Name, c.Role)
	if len(msgs) == 0 {
		b.WriteString("\nNo messages yet. Use /send ")
		b.WriteString(c.ID)
		b.WriteString(" <text> to start the conversation.")
		return b.String()
	}
	for _, m := range msgs {
		sender := c.Name
		if m.SenderID == model.SenderSelf {
			sender = "You"
		}
		fmt.Fprintf(&b, "\n[%s] %s: %s", m.Timestamp.Format("2006-01-02 15:04"), sender, m.Text)
	}
	return b.String()
}

// FormatStats renders the dashboard overview.
func FormatStats(s screen.Stats) string {
	var b strings.Builder
	b.WriteString("Dashboard overview\n")
	writeCounts(&b, "Food", s.Food)
	writeCounts(&b, "Donations", s.Donations)
	writeCounts(&b, "Users", s.Users)
	fmt.Fprintf(&b, "\nUnread notifications: %d\nUnread messages: %d", s.UnreadNotifications, s.UnreadMessages)
	return b.String()
}

func writeCounts(b *strings.Builder, label string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	total := 0
	for k, n := range counts {
		keys = append(keys, k)
		total += n
	}
	sort.Strings(keys)
	fmt.Fprintf(b, "\n%s: %d total", label, total)
	for _, k := range keys {
		fmt.Fprintf(b, ", %d %s", counts[k], k)
	}
}

// FormatDonationForm renders the current donation form.
func FormatDonationForm(f forms.Donation, picked []model.FoodItem) string {
	var b strings.Builder
	b.WriteString("Donation form\n")
	if len(picked) == 0 {
		b.WriteString("\nItems: none picked (use /pick <id> on the food listing)")
	} else {
		b.WriteString("\nItems:")
		for _, item := range picked {
			fmt.Fprintf(&b, "\n - %s (%s)", item.Name, item.Quantity)
		}
	}
	recipient := f.Recipient
	if recipient == "" {
		recipient = "not selected"
	}
	fmt.Fprintf(&b, "\nRecipient: %s", recipient)
	fmt.Fprintf(&b, "\nDelivery: %s", f.Delivery)
	if f.Delivery == forms.DeliveryPickup && f.PickupSchedule != "" {
		fmt.Fprintf(&b, " at %s", f.PickupSchedule)
	}
	if f.Note != "" {
		fmt.Fprintf(&b, "\nNote: %s", f.Note)
	}
	b.WriteString("\n\nUse /donate to submit.")
	return b.String()
}

// FormatSettings renders the preferences of a chat.
func FormatSettings(s model.Settings, fallback string) string {
	lang := s.Language
	if lang == "" {
		lang = "server default (" + fallback + ")"
	}
	return fmt.Sprintf("Settings\n\nDark mode: %s\nEmail notifications: %s\nPush notifications: %s\nLanguage: %s",
		onOff(s.DarkMode), onOff(s.EmailNotifications), onOff(s.PushNotifications), lang)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// FormatOffers announces offers imported from partner feeds.
func FormatOffers(offers []model.FoodItem) string {
	var b strings.Builder
	if len(offers) == 1 {
		b.WriteString("New food offer:")
	} else {
		fmt.Fprintf(&b, "%d new food offers:", len(offers))
	}
	for _, o := range offers {
		fmt.Fprintf(&b, "\n - %s (%s) from %s", o.Name, o.Quantity, o.DonorName)
	}
	return b.String()
}

// FormatProblems explains why a form or command input was rejected.
func FormatProblems(err error) string {
	var verr *listview.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString("Please fix the following:")
	for _, p := range verr.Problems {
		b.WriteString("\n - ")
		b.WriteString(describeProblem(p))
	}
	return b.String()
}

func describeProblem(p listview.Problem) string {
	rule, param, _ := strings.Cut(p.Rule, "=")
	switch rule {
	case "required":
		return p.Field + " is required"
	case "min":
		if p.Field == "items" {
			return "select at least one item"
		}
		return fmt.Sprintf("%s needs at least %s", p.Field, param)
	case "max":
		return fmt.Sprintf("%s is too long (at most %s)", p.Field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", p.Field, strings.Join(strings.Fields(param), ", "))
	case "datetime":
		return fmt.Sprintf("%s must look like %s", p.Field, param)
	case "recipient":
		return "recipient must be one of: " + strings.Join(screen.Recipients, ", ")
	case "category":
		return "category must be one of: " + strings.Join(screen.FoodCategories, ", ")
	default:
		return p.Field + ": " + p.Rule
	}
}
