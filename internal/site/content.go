package site

// ContactOption is one way to reach the company
type ContactOption struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
}

// ContactOptions shown on the contact page
var ContactOptions = []ContactOption{
	{Name: "Sales", Description: "Speak with our sales team about EffiMapPro.", Contact: "+1 (555) 123-4567"},
	{Name: "Support", Description: "Get help with technical issues or questions.", Contact: "support@effiwise.com"},
	{Name: "Live Chat", Description: "Chat with our team during business hours.", Contact: "Available 9AM-5PM EST"},
}

// Highlight is a titled blurb
type Highlight struct {
	Title       string
	Description string
}

// FeatureSection is one block of the features page
type FeatureSection struct {
	Title       string
	Description string
	Features    []string
	Reversed    bool
}

// Stat is a headline number on the home page
type Stat struct {
	Value    string
	Emphasis string
	Detail   string
}

// Testimonial is a customer quote
type Testimonial struct {
	Quote string
	Name  string
	Role  string
}

var homeHighlights = []Highlight{
	{Title: "Intelligent Mapping", Description: "Create and manage territories with precision"},
	{Title: "Real-time Analytics", Description: "Make data-driven decisions instantly"},
	{Title: "Team Collaboration", Description: "Work seamlessly across your organization"},
}

var stats = []Stat{
	{Value: "35%", Emphasis: "Increase in Sales", Detail: "Average improvement in territory performance"},
	{Value: "2.5x", Emphasis: "Faster Planning", Detail: "Reduction in territory planning time"},
	{Value: "10k+", Emphasis: "Territories Managed", Detail: "Across diverse industries globally"},
	{Value: "98%", Emphasis: "Customer Satisfaction", Detail: "From businesses of all sizes"},
}

var testimonials = []Testimonial{
	{
		Quote: "EffiMapPro cut our territory planning cycle from weeks to days.",
		Name:  "Sarah Chen",
		Role:  "Director of Sales Operations",
	},
	{
		Quote: "For the first time every rep knows exactly where their patch starts and ends.",
		Name:  "Marcus Rodriguez",
		Role:  "Regional Sales Manager",
	},
	{
		Quote: "The audit trail alone made the switch worth it.",
		Name:  "Emily Thompson",
		Role:  "VP of Operations",
	},
}

var featureSections = []FeatureSection{
	{
		Title:       "Precision Territory Mapping",
		Description: "Create and manage sales territories with unprecedented accuracy and flexibility.",
		Features: []string{
			"Interactive map interface for territory creation and editing",
			"Custom boundary definition with drag-and-drop simplicity",
			"Multi-level territory hierarchy support",
			"Real-time territory overlap detection",
			"Automated territory balancing suggestions",
		},
	},
	{
		Title:       "Integrated Data Insights",
		Description: "Transform your territory data into actionable insights with our powerful analytics suite.",
		Features: []string{
			"Real-time performance metrics and KPIs",
			"Custom report generation and scheduling",
			"Advanced data visualization tools",
			"Territory performance comparisons",
			"Trend analysis and forecasting",
		},
		Reversed: true,
	},
	{
		Title:       "Dynamic Route Optimization",
		Description: "Maximize efficiency with intelligent route planning and optimization.",
		Features: []string{
			"AI-powered route suggestions",
			"Traffic and travel time considerations",
			"Multi-stop journey optimization",
			"Mobile-friendly route access",
			"Real-time route adjustments",
		},
	},
	{
		Title:       "Team Collaboration Tools",
		Description: "Enable seamless cooperation across your entire sales organization.",
		Features: []string{
			"Real-time territory sharing and updates",
			"Role-based access control",
			"Team performance tracking",
			"Communication tools and notifications",
			"Activity logging and audit trails",
		},
		Reversed: true,
	},
}

var values = []Highlight{
	{Title: "Data-Driven Excellence", Description: "We believe in making decisions backed by robust data and analytics."},
	{Title: "Innovation First", Description: "Continuously pushing boundaries to deliver cutting-edge solutions."},
	{Title: "Customer Success", Description: "Your success is our success. We're committed to your growth."},
	{Title: "Global Reach", Description: "Supporting businesses across borders and industries."},
}
