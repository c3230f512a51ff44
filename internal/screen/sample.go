package screen

import (
	"time"

	"plate2share/internal/model"
)

// Recipients are the organizations a donation can be sent to.
var Recipients = []string{
	"Local Food Bank",
	"Community Shelter",
	"Neighborhood Kitchen",
	"Children's Home",
	"Senior Center",
}

// SampleFood is the food listing shown on first start.
func SampleFood() []model.FoodItem {
	return []model.FoodItem{
		{ID: "1", Name: "Fresh Vegetables", Category: "Produce", Quantity: "20 kg", ExpiryDate: model.MustTime("2024-04-05"), DonorName: "Green Fields Organic", Location: "Downtown Food Bank", Status: model.FoodAvailable},
		{ID: "2", Name: "Bread Loaves", Category: "Bakery", Quantity: "15 loaves", ExpiryDate: model.MustTime("2024-04-02"), DonorName: "Daily Bread Bakery", Location: "Community Center", Status: model.FoodReserved},
		{ID: "3", Name: "Canned Beans", Category: "Canned Goods", Quantity: "40 cans", ExpiryDate: model.MustTime("2024-12-25"), DonorName: "Metro Supermarket", Location: "Food Pantry", Status: model.FoodAvailable},
		{ID: "4", Name: "Rice", Category: "Grains", Quantity: "50 kg", ExpiryDate: model.MustTime("2025-03-15"), DonorName: "Asian Market", Location: "Shelter B", Status: model.FoodClaimed},
		{ID: "5", Name: "Milk", Category: "Dairy", Quantity: "20 liters", ExpiryDate: model.MustTime("2024-04-01"), DonorName: "Local Dairy Farm", Location: "Downtown Food Bank", Status: model.FoodAvailable},
		{ID: "6", Name: "Assorted Fruits", Category: "Produce", Quantity: "15 kg", ExpiryDate: model.MustTime("2024-04-03"), DonorName: "Fresh Mart", Location: "Community Center", Status: model.FoodReserved},
	}
}

// SampleDonations is the donation history shown on first start.
func SampleDonations() []model.Donation {
	at := func(s string) *time.Time {
		t := model.MustTime(s)
		return &t
	}
	return []model.Donation{
		{ID: "1", Type: "Food", Name: "Fresh Vegetables", Quantity: "15 kg", Date: model.MustTime("2024-03-25"), Status: model.DonationAccepted, Recipient: "Downtown Food Bank", DistributionDate: at("2024-03-27")},
		{ID: "2", Type: "Food", Name: "Canned Soups", Quantity: "24 cans", Date: model.MustTime("2024-03-22"), Status: model.DonationDistributed, Recipient: "Community Center", DistributionDate: at("2024-03-24")},
		{ID: "3", Type: "Money", Name: "Monetary Donation", Quantity: "$250", Date: model.MustTime("2024-03-18"), Status: model.DonationDistributed, Recipient: "Food for All Initiative", DistributionDate: at("2024-03-19")},
		{ID: "4", Type: "Food", Name: "Rice", Quantity: "25 kg", Date: model.MustTime("2024-03-15"), Status: model.DonationPending},
		{ID: "5", Type: "Food", Name: "Fruits and Vegetables", Quantity: "10 kg", Date: model.MustTime("2024-03-10"), Status: model.DonationRejected},
	}
}

// SampleUsers is the user directory shown on first start.
func SampleUsers() []model.User {
	user := func(id, name, email string, role model.Role, status model.UserStatus, joined, active string, donations, distributions int) model.User {
		return model.User{
			ID: id, Name: name, Email: email, Role: role, Status: status,
			JoinDate: model.MustTime(joined), LastActive: model.MustTime(active),
			Donations: donations, Distributions: distributions,
		}
	}
	return []model.User{
		user("1", "John Doe", "john.doe@example.com", model.RoleAdmin, model.UserActive, "2023-01-15", "2024-03-25T10:30:00", 0, 0),
		user("2", "Jane Smith", "jane.smith@example.com", model.RoleDonor, model.UserActive, "2023-02-20", "2024-03-24T14:45:00", 15, 0),
		user("3", "Robert Johnson", "robert.j@example.com", model.RoleRecipient, model.UserActive, "2023-03-10", "2024-03-23T09:15:00", 0, 8),
		user("4", "Sarah Williams", "sarah.w@example.com", model.RoleVolunteer, model.UserActive, "2023-04-05", "2024-03-25T16:20:00", 5, 12),
		user("5", "Michael Brown", "michael.b@example.com", model.RoleDonor, model.UserInactive, "2023-05-12", "2024-02-15T11:30:00", 8, 0),
		user("6", "Emily Davis", "emily.d@example.com", model.RoleRecipient, model.UserPending, "2024-03-22", "2024-03-22T15:40:00", 0, 0),
		user("7", "Daniel Wilson", "daniel.w@example.com", model.RoleVolunteer, model.UserActive, "2023-08-30", "2024-03-24T13:10:00", 3, 20),
		user("8", "Olivia Martinez", "olivia.m@example.com", model.RoleDonor, model.UserActive, "2023-09-15", "2024-03-23T10:45:00", 25, 0),
	}
}

// SampleNotifications is the notification center shown on first start.
func SampleNotifications() []model.Notification {
	return []model.Notification{
		{ID: "1", Type: model.NotifyDonation, Title: "Donation Accepted", Description: "Your donation of Fresh Vegetables has been accepted by Downtown Food Bank.", Timestamp: model.MustTime("2024-03-25T14:30:00"), ActionURL: "/my-donations/1", ActionText: "View Details"},
		{ID: "2", Type: model.NotifyMessage, Title: "New Message", Description: "John Doe from Downtown Food Bank sent you a message regarding your donation.", Timestamp: model.MustTime("2024-03-25T10:15:00"), ActionURL: "/communication", ActionText: "Reply"},
		{ID: "3", Type: model.NotifyDistribution, Title: "Distribution Complete", Description: "Your donation has been distributed to 25 families in need.", Timestamp: model.MustTime("2024-03-24T16:45:00"), IsRead: true, ActionURL: "/my-donations/2", ActionText: "View Impact"},
		{ID: "4", Type: model.NotifySystem, Title: "Account Verified", Description: "Your account has been verified successfully. You can now make donations.", Timestamp: model.MustTime("2024-03-23T09:20:00"), IsRead: true},
		{ID: "5", Type: model.NotifyAlert, Title: "Urgent Need", Description: "Local shelter urgently needs non-perishable food items due to recent increase in demand.", Timestamp: model.MustTime("2024-03-22T12:00:00"), ActionURL: "/donate", ActionText: "Donate Now"},
		{ID: "6", Type: model.NotifyMessage, Title: "New Message", Description: "Food For All organization sent you a message with their monthly impact report.", Timestamp: model.MustTime("2024-03-21T14:30:00"), IsRead: true, ActionURL: "/communication", ActionText: "Read Message"},
		{ID: "7", Type: model.NotifyDonation, Title: "Donation Reminder", Description: "You scheduled a donation for tomorrow. Don't forget to prepare your items.", Timestamp: model.MustTime("2024-03-20T18:00:00"), IsRead: true, ActionURL: "/my-donations/3", ActionText: "View Details"},
	}
}

// SampleContacts is the contact list shown on first start.
func SampleContacts() []model.Contact {
	return []model.Contact{
		{ID: "1", Name: "John Doe", Role: "Food Bank Manager", LastSeen: "2 min ago", IsOnline: true, UnreadCount: 3},
		{ID: "2", Name: "Jane Smith", Role: "Restaurant Owner", LastSeen: "1 hour ago"},
		{ID: "3", Name: "Food For All", Role: "Organization", LastSeen: "Yesterday", UnreadCount: 1},
		{ID: "4", Name: "Sarah Johnson", Role: "Volunteer", LastSeen: "Just now", IsOnline: true},
		{ID: "5", Name: "Community Center", Role: "Organization", LastSeen: "3 days ago"},
	}
}

// SampleMessages is the conversation history shown on first start.
func SampleMessages() []model.Message {
	msg := func(id, contact, sender, text, at string, read bool) model.Message {
		return model.Message{ID: id, ContactID: contact, SenderID: sender, Text: text, Timestamp: model.MustTime(at), IsRead: read}
	}
	return []model.Message{
		msg("1-1", "1", "1", "Hi there! We received your donation of fresh vegetables yesterday.", "2024-03-25T10:30:00", true),
		msg("1-2", "1", model.SenderSelf, "Great! I'm glad to hear that. Were they in good condition?", "2024-03-25T10:32:00", true),
		msg("1-3", "1", "1", "Yes, they were perfect! We've already distributed some to families in need.", "2024-03-25T10:35:00", true),
		msg("1-4", "1", "1", "Here's a photo of the distribution event.", "2024-03-25T10:36:00", false),
		msg("1-5", "1", "1", "Would you be interested in donating again next week?", "2024-03-25T10:37:00", false),
		msg("1-6", "1", "1", "We particularly need more fresh vegetables and fruits.", "2024-03-25T10:38:00", false),
		msg("3-1", "3", "3", "Thank you for your monetary donation to our organization!", "2024-03-24T14:15:00", true),
		msg("3-2", "3", model.SenderSelf, "You're welcome! Happy to support your cause.", "2024-03-24T15:20:00", true),
		msg("3-3", "3", "3", "Here's our impact report from last month.", "2024-03-24T15:25:00", false),
	}
}
