package services

import "time"

// User is a registered account. Records reference users by ID but live
// independently of them.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// SurveyInput is the raw weekly footprint survey. The *Miles fields are the
// legacy names; normalization converts them to kilometers when the canonical
// field is absent.
type SurveyInput struct {
	CarKm             float64 `json:"carKm"`
	PublicTransportKm float64 `json:"publicTransportKm"`
	Flights           float64 `json:"flights"`
	ElectricityKwh    float64 `json:"electricityKwh"`
	LpgCylinders      float64 `json:"lpgCylinders"`
	MeatMeals         float64 `json:"meatMeals"`
	VegetarianMeals   float64 `json:"vegetarianMeals"`
	PlasticItems      float64 `json:"plasticItems"`
	RecyclingRate     float64 `json:"recyclingRate"`

	CarMiles             float64 `json:"carMiles,omitempty"`
	PublicTransportMiles float64 `json:"publicTransportMiles,omitempty"`
}

// CategoryBreakdown splits total emissions into the four tracked categories.
// Each value is non-negative and the four sum to the total within rounding.
type CategoryBreakdown struct {
	Transportation float64 `json:"transportation"`
	Energy         float64 `json:"energy"`
	Food           float64 `json:"food"`
	Waste          float64 `json:"waste"`
}

// EmissionRecord is one accepted weekly submission. Records are immutable
// once created; at most one exists per (user, week identifier).
type EmissionRecord struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Date            time.Time `json:"date"`
	WeekIdentifier  string    `json:"weekIdentifier"`
	MonthIdentifier string    `json:"monthIdentifier"`

	CarKm             float64 `json:"carKm"`
	PublicTransportKm float64 `json:"publicTransportKm"`
	Flights           float64 `json:"flights"`
	ElectricityKwh    float64 `json:"electricityKwh"`
	LpgCylinders      float64 `json:"lpgCylinders"`
	MeatMeals         float64 `json:"meatMeals"`
	VegetarianMeals   float64 `json:"vegetarianMeals"`
	PlasticItems      float64 `json:"plasticItems"`
	RecyclingRate     float64 `json:"recyclingRate"`

	TotalEmissions    float64           `json:"totalEmissions"`
	CategoryBreakdown CategoryBreakdown `json:"categoryBreakdown"`

	Score           int      `json:"score"`
	Feedback        string   `json:"feedback"`
	Recommendations []string `json:"recommendations"`
}

// Brand is a hand-curated sustainable brand listing.
type Brand struct {
	ID                      string                   `json:"id"`
	Name                    string                   `json:"name"`
	Slug                    string                   `json:"slug"`
	Description             string                   `json:"description,omitempty"`
	Logo                    string                   `json:"logo,omitempty"`
	Website                 string                   `json:"website,omitempty"`
	SustainabilityPractices []SustainabilityPractice `json:"sustainabilityPractices,omitempty"`
	PackagingTypes          []string                 `json:"packagingTypes,omitempty"`
	CarbonNeutral           bool                     `json:"carbonNeutral"`
	Certified               []string                 `json:"certified,omitempty"`
	Featured                bool                     `json:"featured"`
}

type SustainabilityPractice struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Product belongs to a brand and a category, both referenced by slug.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description,omitempty"`
	Image         string   `json:"image,omitempty"`
	Price         float64  `json:"price,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	BuyURL        string   `json:"buyUrl,omitempty"`
	BrandSlug     string   `json:"brandSlug"`
	CategorySlug  string   `json:"categorySlug"`
	PackagingType string   `json:"packagingType,omitempty"`
	EcoScore      int      `json:"ecoScore,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Featured      bool     `json:"featured"`
}

// Category groups products in the catalog.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}
