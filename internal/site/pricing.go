// Package site holds the content and rendering of the public marketing
// site: home, features, pricing, about and contact, plus the app shell page.
package site

import (
	"fmt"
	"math"
	"strings"
)

// Plan is a pricing tier
type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Popular     bool     `json:"isPopular"`
	ButtonText  string   `json:"buttonText"`
}

// ContactSales reports whether the plan is priced on request
func (p Plan) ContactSales() bool {
	return p.Price == 0
}

// PriceLabel is the price as shown on the pricing card
func (p Plan) PriceLabel() string {
	if p.ContactSales() {
		return "Contact Sales"
	}
	return fmt.Sprintf("$%.0f", p.Price)
}

// Plans are the pricing tiers in display order
var Plans = []Plan{
	{
		ID:          "basic",
		Name:        "Basic",
		Price:       25,
		Description: "Everything you need to get started with territory management.",
		Features: []string{
			"Territory mapping",
			"Route optimization",
			"Branch-level segmentation",
			"Basic reporting dashboards",
			"Email support",
		},
		ButtonText: "Get Started",
	},
	{
		ID:          "professional",
		Name:        "Professional",
		Price:       40,
		Description: "Advanced features for growing teams and complex territory management.",
		Features: []string{
			"Everything in Basic",
			"Advanced analytics",
			"Team performance tracking",
			"Multi-branch integrations",
			"Priority email support",
			"Custom reporting",
		},
		Popular:    true,
		ButtonText: "Get Started",
	},
	{
		ID:          "enterprise",
		Name:        "Enterprise",
		Price:       0,
		Description: "Custom solutions for large organizations with specific needs.",
		Features: []string{
			"Everything in Professional",
			"Dedicated success manager",
			"On-demand consulting",
			"Custom integrations",
			"SLA guarantees",
			"Training sessions",
		},
		ButtonText: "Contact Sales",
	},
}

// FindPlan looks a plan up by id or name, case-insensitively
func FindPlan(key string) (Plan, bool) {
	for _, p := range Plans {
		if strings.EqualFold(p.ID, key) || strings.EqualFold(p.Name, key) {
			return p, true
		}
	}
	return Plan{}, false
}

// DiscountTier is a volume discount that applies from MinUsers upward
type DiscountTier struct {
	MinUsers int     `json:"minUsers"`
	Discount float64 `json:"discount"`
}

// DiscountTiers in ascending order of MinUsers
var DiscountTiers = []DiscountTier{
	{MinUsers: 5, Discount: 0.05},
	{MinUsers: 11, Discount: 0.10},
	{MinUsers: 21, Discount: 0.15},
}

// DiscountFor returns the volume discount for a team size
func DiscountFor(users int) float64 {
	discount := 0.0
	for _, tier := range DiscountTiers {
		if users >= tier.MinUsers {
			discount = tier.Discount
		}
	}
	return discount
}

// Quote is a monthly price estimate
type Quote struct {
	Plan               string  `json:"plan"`
	Users              int     `json:"users"`
	BasePrice          float64 `json:"basePrice"`
	DiscountPercentage float64 `json:"discountPercentage"`
	PricePerUser       float64 `json:"pricePerUser"`
	Total              float64 `json:"total"`
	Savings            float64 `json:"savings"`
}

// NewQuote prices a plan for a number of users. Fewer than one user counts
// as one. Plans priced on request cannot be quoted.
func NewQuote(planKey string, users int) (Quote, error) {
	plan, ok := FindPlan(planKey)
	if !ok {
		return Quote{}, fmt.Errorf("unknown plan %q", planKey)
	}
	if plan.ContactSales() {
		return Quote{}, fmt.Errorf("plan %q is priced on request", plan.Name)
	}
	if users < 1 {
		users = 1
	}

	discount := DiscountFor(users)
	perUser := plan.Price * (1 - discount)
	total := perUser * float64(users)

	return Quote{
		Plan:               plan.ID,
		Users:              users,
		BasePrice:          plan.Price,
		DiscountPercentage: math.Round(discount * 100),
		PricePerUser:       round2(perUser),
		Total:              round2(total),
		Savings:            round2(plan.Price*float64(users) - total),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
