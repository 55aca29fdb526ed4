package personas

import "fmt"

// nameTemplates keys display name pools by segment name.
var nameTemplates = map[string][]string{
	"Champions":       {"Premium Patricia", "Loyal Larry", "Elite Emma", "Champion Chris"},
	"Loyal Customers": {"Regular Rachel", "Faithful Fred", "Steady Steve", "Devoted Dana"},
	"Big Spenders":    {"Luxury Linda", "Premium Paul", "Whale William", "High-Roller Henry"},
	"At Risk":         {"Fading Frank", "Slipping Susan", "Departing Dan", "Vanishing Vera"},
	"Value Seekers":   {"Budget Betty", "Thrifty Tom", "Saver Sam", "Deal-Seeker Diana"},
	"New Customers":   {"Newbie Nancy", "Fresh Fred", "Rookie Rick", "Starter Stella"},
	"Promising":       {"Growing Greg", "Emerging Emily", "Rising Ryan", "Developing Donna"},
	"Lost Customers":  {"Gone Gary", "Lost Lucy", "Absent Alex", "Former Fiona"},
}

var fallbackNames = []string{"Customer Chris", "Shopper Sharon", "Buyer Bob"}

// personaColors is the avatar palette, indexed by segment id.
var personaColors = []string{
	"#00F0FF",
	"#7000FF",
	"#FF00AA",
	"#0066FF",
	"#00FF88",
	"#FFD700",
	"#FF6B00",
	"#FF6D6D",
}

func describe(segmentName string, avgAge, avgOrderValue float64, totalCustomers int) string {
	age := int(avgAge)
	switch segmentName {
	case "Champions":
		return fmt.Sprintf(
			"Your best customers, typically aged %d. They spend an average of $%.2f per order "+
				"and purchase frequently. This segment of %d customers is highly engaged and loyal to your brand.",
			age, avgOrderValue, totalCustomers)
	case "Loyal Customers":
		return fmt.Sprintf(
			"Consistent buyers aged %d who value your brand. They spend $%.2f on average and return regularly. "+
				"With %d customers, they form the backbone of your business.",
			age, avgOrderValue, totalCustomers)
	case "Big Spenders":
		return fmt.Sprintf(
			"High-value customers with an average order of $%.2f. They may not purchase frequently but spend "+
				"significantly when they do. These %d customers are key to revenue growth.",
			avgOrderValue, totalCustomers)
	case "At Risk":
		return fmt.Sprintf(
			"Previously active customers (avg age %d) who haven't purchased recently. They used to spend $%.2f "+
				"on average. These %d customers need immediate re-engagement.",
			age, avgOrderValue, totalCustomers)
	case "Value Seekers":
		return fmt.Sprintf(
			"Budget-conscious shoppers aged %d looking for deals. Average spend is $%.2f. "+
				"This segment of %d customers responds well to promotions.",
			age, avgOrderValue, totalCustomers)
	case "New Customers":
		return fmt.Sprintf(
			"Recent acquisitions, typically aged %d. First purchase averaged $%.2f. "+
				"These %d customers need onboarding and conversion to repeat buyers.",
			age, avgOrderValue, totalCustomers)
	case "Promising":
		return fmt.Sprintf(
			"Emerging customers showing potential, aged %d. Average spend of $%.2f with growing engagement. "+
				"These %d customers could become loyal with proper nurturing.",
			age, avgOrderValue, totalCustomers)
	case "Lost Customers":
		return fmt.Sprintf(
			"Former customers aged %d who have been inactive for extended periods. Previously spent $%.2f "+
				"on average. These %d customers require win-back campaigns.",
			age, avgOrderValue, totalCustomers)
	default:
		return fmt.Sprintf(
			"Customer segment with average age %d and order value $%.2f. Contains %d customers.",
			age, avgOrderValue, totalCustomers)
	}
}

// marketingPlaybooks keys campaign suggestions by segment name.
var marketingPlaybooks = map[string][]string{
	"Champions": {
		"Target with premium product launches",
		"Offer exclusive early access",
		"Invite to VIP loyalty program",
		"Request reviews and testimonials",
	},
	"Loyal Customers": {
		"Reward with loyalty points",
		"Offer subscription discounts",
		"Create bundle deals",
		"Send personalized recommendations",
	},
	"Big Spenders": {
		"Showcase premium products",
		"Offer concierge service",
		"Provide exclusive deals",
		"Focus on quality over price",
	},
	"At Risk": {
		"Send win-back offers",
		"Create urgency with limited-time deals",
		"Survey to understand concerns",
		"Offer personalized incentives",
	},
	"Value Seekers": {
		"Highlight discounts and sales",
		"Offer coupon codes",
		"Promote clearance items",
		"Emphasize value for money",
	},
	"New Customers": {
		"Send welcome series",
		"Offer first-purchase discount",
		"Provide onboarding content",
		"Encourage second purchase",
	},
	"Promising": {
		"Nurture with targeted content",
		"Offer progressive discounts",
		"Introduce loyalty program",
		"Cross-sell related products",
	},
	"Lost Customers": {
		"Launch reactivation campaign",
		"Offer significant discounts",
		"Survey to understand churn",
		"Create FOMO with new arrivals",
	},
}

var fallbackPlaybook = []string{"Analyze segment behavior", "Create targeted campaigns"}
