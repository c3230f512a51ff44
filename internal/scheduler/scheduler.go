// Package scheduler periodically imports partner feed offers into the
// food listing.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"golang.org/x/text/language"

	"plate2share/internal/fetcher"
	"plate2share/internal/filter"
	"plate2share/internal/model"
	"plate2share/internal/screen"
	"plate2share/internal/storage"
)

// Announcer is told about newly imported offers.
type Announcer interface {
	Announce(ctx context.Context, offers []model.FoodItem)
}

// Scheduler periodically fetches partner feeds and stores new offers.
type Scheduler struct {
	store         storage.Storage
	fetcher       *fetcher.Fetcher
	announcer     Announcer
	log           *slog.Logger
	feeds         []string
	rules         []filter.Rule
	tick          time.Duration
	food          *screen.Repository[model.FoodItem]
	notifications *screen.Repository[model.Notification]
	now           func() time.Time
}

// New creates a Scheduler with the default HTTP client.
func New(store storage.Storage, feeds []string, announcer Announcer, log *slog.Logger) *Scheduler {
	return NewWithFetcher(store, fetcher.New(http.DefaultClient), feeds, announcer, log)
}

// NewWithFetcher creates a Scheduler with a custom fetcher (useful for testing).
func NewWithFetcher(store storage.Storage, f *fetcher.Fetcher, feeds []string, announcer Announcer, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:         store,
		fetcher:       f,
		announcer:     announcer,
		log:           log,
		feeds:         feeds,
		tick:          15 * time.Minute,
		food:          screen.NewRepository(store, model.KindFood, screen.FoodSchema(language.English)),
		notifications: screen.NewRepository(store, model.KindNotification, screen.NotificationSchema(language.English)),
		now:           time.Now,
	}
}

// SetTickInterval overrides the default 15-minute sync interval.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	s.tick = d
}

// SetRules limits imports to feed entries that pass rules.
func (s *Scheduler) SetRules(rules []filter.Rule) {
	s.rules = rules
}

// Run starts the sync loop, blocking until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	if len(s.feeds) == 0 {
		s.log.Info("no partner feeds configured, sync disabled")
		<-ctx.Done()
		return
	}

	s.syncAll(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncAll(ctx)
		}
	}
}

func (s *Scheduler) syncAll(ctx context.Context) {
	var added []model.FoodItem
	for _, url := range s.feeds {
		if ctx.Err() != nil {
			return
		}
		added = append(added, s.syncFeed(ctx, url)...)
	}
	if len(added) > 0 && s.announcer != nil {
		s.announcer.Announce(ctx, added)
	}
}

func (s *Scheduler) syncFeed(ctx context.Context, url string) []model.FoodItem {
	s.log.Debug("syncing feed", "url", url)

	feed, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.log.Error("fetch feed", "url", url, "error", err)
		return nil
	}

	if len(s.rules) > 0 {
		before := len(feed.Items)
		feed.Items = slices.DeleteFunc(feed.Items, func(item *gofeed.Item) bool {
			return !filter.Match(filter.Entry{Name: item.Title, Description: item.Description}, s.rules)
		})
		if skipped := before - len(feed.Items); skipped > 0 {
			s.log.Debug("skipped entries by rules", "url", url, "count", skipped)
		}
	}

	now := s.now().UTC()
	var added []model.FoodItem
	for _, offer := range fetcher.Offers(feed, now) {
		known, err := s.store.Known(ctx, model.KindFood, offer.ID)
		if err != nil {
			s.log.Error("check known", "url", url, "id", offer.ID, "error", err)
			continue
		}
		if known {
			continue
		}

		if _, err := s.food.Create(ctx, offer); err != nil {
			s.log.Error("store offer", "url", url, "id", offer.ID, "error", err)
			continue
		}
		added = append(added, offer)

		note := model.Notification{
			ID:          uuid.NewString(),
			Type:        model.NotifyDonation,
			Title:       "New Food Offer",
			Description: fmt.Sprintf("%s listed %s (%s).", offer.DonorName, offer.Name, offer.Quantity),
			Timestamp:   now,
			ActionURL:   "/food-listing",
			ActionText:  "View Listing",
		}
		if _, err := s.notifications.Create(ctx, note); err != nil {
			s.log.Error("store notification", "id", offer.ID, "error", err)
		}
	}

	if len(added) > 0 {
		s.log.Info("imported offers", "url", url, "title", feed.Title, "count", len(added))
	}
	return added
}
