// Package model defines the domain types used across the application.
package model

import (
	"fmt"
	"time"
)

// FoodStatus is the availability of a listed food item.
type FoodStatus string

// Supported food statuses.
const (
	FoodAvailable FoodStatus = "available"
	FoodReserved  FoodStatus = "reserved"
	FoodClaimed   FoodStatus = "claimed"
)

// FoodItem is a food offer shown on the food listing screen.
type FoodItem struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Quantity   string     `json:"quantity"`
	ExpiryDate time.Time  `json:"expiry_date"`
	DonorName  string     `json:"donor_name"`
	Location   string     `json:"location"`
	Status     FoodStatus `json:"status"`
	ImageURL   string     `json:"image_url,omitempty"`
}

// DonationStatus tracks a donation through its lifecycle.
type DonationStatus string

// Supported donation statuses.
const (
	DonationPending     DonationStatus = "pending"
	DonationAccepted    DonationStatus = "accepted"
	DonationDistributed DonationStatus = "distributed"
	DonationRejected    DonationStatus = "rejected"
)

// Donation is a donation made by the current user.
type Donation struct {
	ID               string         `json:"id"`
	Type             string         `json:"type"`
	Name             string         `json:"name"`
	Quantity         string         `json:"quantity"`
	Date             time.Time      `json:"date"`
	Status           DonationStatus `json:"status"`
	Recipient        string         `json:"recipient,omitempty"`
	DistributionDate *time.Time     `json:"distribution_date,omitempty"`
	Note             string         `json:"note,omitempty"`
	Items            []string       `json:"items,omitempty"`
	Delivery         string         `json:"delivery,omitempty"`
	PickupSchedule   *time.Time     `json:"pickup_schedule,omitempty"`
}

// Role is the role of a platform user.
type Role string

// Supported roles.
const (
	RoleAdmin     Role = "admin"
	RoleDonor     Role = "donor"
	RoleRecipient Role = "recipient"
	RoleVolunteer Role = "volunteer"
)

// UserStatus is the account state of a platform user.
type UserStatus string

// Supported user statuses.
const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserPending  UserStatus = "pending"
)

// User is a platform account shown on the user management screen.
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          Role       `json:"role"`
	Status        UserStatus `json:"status"`
	JoinDate      time.Time  `json:"join_date"`
	LastActive    time.Time  `json:"last_active"`
	Donations     int        `json:"donations"`
	Distributions int        `json:"distributions"`
}

// NotificationType classifies notifications.
type NotificationType string

// Supported notification types.
const (
	NotifyDonation     NotificationType = "donation"
	NotifyMessage      NotificationType = "message"
	NotifyDistribution NotificationType = "distribution"
	NotifySystem       NotificationType = "system"
	NotifyAlert        NotificationType = "alert"
)

// Notification is an entry in the notification center.
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Timestamp   time.Time        `json:"timestamp"`
	IsRead      bool             `json:"is_read"`
	ActionURL   string           `json:"action_url,omitempty"`
	ActionText  string           `json:"action_text,omitempty"`
}

// Contact is a conversation partner on the communication screen.
type Contact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	LastSeen    string `json:"last_seen"`
	IsOnline    bool   `json:"is_online"`
	UnreadCount int    `json:"unread_count"`
}

// SenderSelf marks messages written by the current user.
const SenderSelf = "me"

// Message is a single chat message exchanged with a contact.
type Message struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contact_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"is_read"`
}

// Settings holds per-chat preferences.
type Settings struct {
	ChatID             int64
	DarkMode           bool
	EmailNotifications bool
	PushNotifications  bool
	Language           string
}

// DefaultSettings returns the preferences used before a chat saves any.
// An empty Language means the server locale.
func DefaultSettings(chatID int64) Settings {
	return Settings{
		ChatID:             chatID,
		EmailNotifications: true,
		PushNotifications:  true,
	}
}

// Record kinds stored by the persistence layer.
const (
	KindFood         = "food"
	KindDonation     = "donation"
	KindUser         = "user"
	KindNotification = "notification"
	KindContact      = "contact"
	KindMessage      = "message"
)

// Record is the persisted envelope of a single entity.
type Record struct {
	Kind      string
	ID        string
	Status    string
	Payload   []byte
	UpdatedAt time.Time
}

// Timestamp layouts used by sample data and partner feeds.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// ParseTime parses a date-only or date-time string into an instant in UTC.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range []string{DateTimeLayout, DateLayout, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// MustTime is ParseTime for compiled-in sample data.
func MustTime(s string) time.Time {
	t, err := ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}
