package listview

import (
	"time"
)

// item is a minimal record used across the package tests.
type item struct {
	ID       string
	Name     string
	Donor    string
	Category string
	Status   string
	Qty      int
	Date     time.Time
	Read     bool
	Online   bool
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testSchema() *Schema[item] {
	return &Schema[item]{
		ID:       func(i item) string { return i.ID },
		Status:   func(i item) string { return i.Status },
		Category: func(i item) string { return i.Category },
		Search: []func(item) string{
			func(i item) string { return i.Name },
			func(i item) string { return i.Donor },
		},
		Fields: map[string]Field[item]{
			"name": func(i item) Value { return String(i.Name) },
			"qty":  func(i item) Value { return Number(float64(i.Qty)) },
			"date": func(i item) Value { return Time(i.Date) },
			"read": func(i item) Value { return Bool(i.Read) },
		},
		Tabs: map[string]func(item) bool{
			"unread": func(i item) bool { return !i.Read },
			"online": func(i item) bool { return i.Online },
		},
		Statuses:   []string{"available", "reserved", "claimed"},
		WithStatus: func(i item, s string) item { i.Status = s; return i },
		MarkRead:   func(i item) item { i.Read = true; return i },
		IsUnread:   func(i item) bool { return !i.Read },
	}
}

func sampleItems() []item {
	return []item{
		{ID: "1", Name: "Fresh Vegetables", Donor: "Green Fields Organic", Category: "Produce", Status: "available", Qty: 20, Date: day("2024-04-05")},
		{ID: "2", Name: "Bread Loaves", Donor: "Daily Bread Bakery", Category: "Bakery", Status: "reserved", Qty: 15, Date: day("2024-04-02"), Read: true},
		{ID: "3", Name: "Canned Beans", Donor: "Metro Supermarket", Category: "Canned Goods", Status: "available", Qty: 40, Date: day("2024-12-25"), Online: true},
		{ID: "4", Name: "Rice", Donor: "Asian Market", Category: "Grains", Status: "claimed", Qty: 50, Date: day("2025-03-15"), Read: true},
		{ID: "5", Name: "Milk", Donor: "Local Dairy Farm", Category: "Dairy", Status: "available", Qty: 20, Date: day("2024-04-01")},
	}
}

func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func ptr(s string) *string { return &s }
