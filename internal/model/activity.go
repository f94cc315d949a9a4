package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Activity categories accepted on create.
const (
	CategoryTransportation = "transportation"
	CategoryDiet           = "diet"
	CategoryEnergy         = "energy"
	CategoryShopping       = "shopping"
)

// Categories lists the valid activity categories in display order.
var Categories = []string{CategoryTransportation, CategoryDiet, CategoryEnergy, CategoryShopping}

// IsCategory reports whether c is one of the loggable categories.
func IsCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Activity is one user-logged action. Impact is kg CO2-equivalent.
type Activity struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Category  string          `json:"category"`
	Subtype   *string         `json:"subtype"`
	Distance  *float64        `json:"distance"`
	Amount    *float64        `json:"amount"`
	Impact    decimal.Decimal `json:"impact"`
	Date      *string         `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

// SubtypeOrEmpty returns the subtype, or "" when unset.
func (a Activity) SubtypeOrEmpty() string {
	if a.Subtype == nil {
		return ""
	}
	return *a.Subtype
}

// NewActivity holds the fields a user supplies when logging an activity.
type NewActivity struct {
	Category string
	Subtype  *string
	Distance *float64
	Amount   *float64
	Impact   decimal.Decimal
	Date     *string
}
