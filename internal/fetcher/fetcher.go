// Package fetcher downloads partner food-offer feeds and converts their
// entries into food listings.
package fetcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"

	"plate2share/internal/model"
	"plate2share/internal/screen"
)

// ShelfLife is the expiry assumed for a feed offer, counted from its
// publication.
const ShelfLife = 72 * time.Hour

// IDPrefix marks food items imported from a feed.
const IDPrefix = "feed:"

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads and parses RSS and Atom feeds.
type Fetcher struct {
	client HTTPClient
}

// New creates a Fetcher with the given HTTP client.
func New(client HTTPClient) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch downloads and parses the feed at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Plate2Share/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

// ItemID returns the food item id for a feed entry. Entries without a
// GUID are identified by a hash of title and link.
func ItemID(item *gofeed.Item) string {
	key := item.GUID
	if key == "" {
		key = item.Title + "|" + item.Link
	}
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%s%x", IDPrefix, h[:16])
}

// Offers converts feed entries into available food items. The partner
// is the feed title unless an entry names its author. Entries without a
// title are skipped.
func Offers(feed *gofeed.Feed, now time.Time) []model.FoodItem {
	var out []model.FoodItem
	for _, item := range feed.Items {
		name := strings.TrimSpace(item.Title)
		if name == "" {
			continue
		}

		published := now
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		category := "Other"
		for _, c := range item.Categories {
			if canonical, ok := screen.CanonicalCategory(c); ok {
				category = canonical
				break
			}
		}

		donor := feed.Title
		if item.Author != nil && item.Author.Name != "" {
			donor = item.Author.Name
		}

		quantity := truncate(strings.TrimSpace(item.Description), maxQuantity)

		food := model.FoodItem{
			ID:         ItemID(item),
			Name:       name,
			Category:   category,
			Quantity:   quantity,
			ExpiryDate: published.UTC().Add(ShelfLife),
			DonorName:  donor,
			Location:   feed.Title,
			Status:     model.FoodAvailable,
		}
		if item.Image != nil {
			food.ImageURL = item.Image.URL
		}
		out = append(out, food)
	}
	return out
}

// maxQuantity caps the feed description used as an offer's quantity, in bytes.
const maxQuantity = 50

// truncate cuts s to at most n bytes without splitting a character and
// marks the cut with an ellipsis.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
