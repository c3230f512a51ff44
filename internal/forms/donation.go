package forms

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"plate2share/internal/model"
)

// Delivery options of a donation.
const (
	DeliveryPickup   = "pickup"
	DeliveryDelivery = "delivery"
)

// ScheduleLayout is the accepted pickup schedule format.
const ScheduleLayout = "2006-01-02T15:04"

// Donation is the donate-food form.
type Donation struct {
	Items          []string `form:"items" validate:"min=1,dive,required"`
	Recipient      string   `form:"recipient" validate:"required,recipient"`
	Note           string   `form:"note" validate:"max=500"`
	Delivery       string   `form:"delivery" validate:"oneof=pickup delivery"`
	PickupSchedule string   `form:"pickup_schedule" validate:"omitempty,datetime=2006-01-02T15:04"`
}

// NewDonation returns an empty form.
func NewDonation() Donation {
	return Donation{Delivery: DeliveryPickup}
}

// Validate reports every unmet constraint as a *listview.ValidationError.
func (f Donation) Validate() error {
	return check(f)
}

// Build validates the form with foods as the picked items and returns the
// pending donation it describes.
func (f Donation) Build(foods []model.FoodItem, now time.Time) (model.Donation, error) {
	f.Items = f.Items[:0:0]
	names := make([]string, 0, len(foods))
	quantities := make([]string, 0, len(foods))
	for _, food := range foods {
		f.Items = append(f.Items, food.ID)
		names = append(names, food.Name)
		quantities = append(quantities, food.Quantity)
	}
	if err := f.Validate(); err != nil {
		return model.Donation{}, err
	}

	d := model.Donation{
		ID:        uuid.NewString(),
		Type:      "Food",
		Name:      names[0],
		Quantity:  strings.Join(quantities, ", "),
		Date:      now.UTC(),
		Status:    model.DonationPending,
		Recipient: f.Recipient,
		Note:      strings.TrimSpace(f.Note),
		Items:     names,
		Delivery:  f.Delivery,
	}
	if len(names) > 1 {
		d.Name = fmt.Sprintf("%s and %d more", names[0], len(names)-1)
	}
	if f.Delivery == DeliveryPickup && f.PickupSchedule != "" {
		at, err := time.ParseInLocation(ScheduleLayout, f.PickupSchedule, time.UTC)
		if err != nil {
			return model.Donation{}, fmt.Errorf("parse pickup schedule: %w", err)
		}
		d.PickupSchedule = &at
	}
	return d, nil
}

// Flow is the donation form of one chat. After a successful submission
// the form shows a confirmation and resets itself after a delay. The
// pending reset is cancelled by Cancel or by a new submission.
type Flow struct {
	Form      Donation
	Submitted bool

	delay time.Duration

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewFlow creates a flow that resets delay after each submission.
func NewFlow(delay time.Duration) *Flow {
	return &Flow{Form: NewDonation(), delay: delay}
}

// Complete marks the form submitted and schedules fire(gen) after the
// reset delay, unless ctx ends or the reset is cancelled first. fire runs
// on its own goroutine; callers hand gen back to Reset.
func (f *Flow) Complete(ctx context.Context, fire func(gen uint64)) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	gen := f.gen
	f.Submitted = true

	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	go func() {
		defer cancel()
		t := time.NewTimer(f.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
			fire(gen)
		}
	}()
	return gen
}

// Reset clears the form if gen is the latest submission and reports
// whether it did.
func (f *Flow) Reset(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen || !f.Submitted {
		return false
	}
	f.Form = NewDonation()
	f.Submitted = false
	f.cancel = nil
	return true
}

// Cancel stops a pending reset.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
}
