package forms

import (
	"strings"

	"github.com/google/uuid"

	"plate2share/internal/model"
	"plate2share/internal/screen"
)

// Food is the add-food form.
type Food struct {
	Name     string `form:"name" validate:"required,max=100"`
	Quantity string `form:"quantity" validate:"required,max=50"`
	Expiry   string `form:"expiry" validate:"required,datetime=2006-01-02"`
	Category string `form:"category" validate:"required,category"`
	Address  string `form:"address" validate:"required,max=200"`
}

// ParseFood reads a form written as name|quantity|expiry|category|address.
// Missing parts stay empty and fail validation.
func ParseFood(s string) Food {
	parts := strings.Split(s, "|")
	field := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}
	return Food{
		Name:     field(0),
		Quantity: field(1),
		Expiry:   field(2),
		Category: field(3),
		Address:  field(4),
	}
}

// Validate reports every unmet constraint as a *listview.ValidationError.
func (f Food) Validate() error {
	return check(f)
}

// Build validates the form and returns the new available item offered by
// donor.
func (f Food) Build(donor string) (model.FoodItem, error) {
	if err := f.Validate(); err != nil {
		return model.FoodItem{}, err
	}
	expiry, err := model.ParseTime(f.Expiry)
	if err != nil {
		return model.FoodItem{}, err
	}
	category, _ := screen.CanonicalCategory(f.Category)
	return model.FoodItem{
		ID:         uuid.NewString(),
		Name:       f.Name,
		Category:   category,
		Quantity:   f.Quantity,
		ExpiryDate: expiry,
		DonorName:  donor,
		Location:   f.Address,
		Status:     model.FoodAvailable,
	}, nil
}
