package main

import (
	"fmt"

	"github.com/ecohub/ecohub/internal/api"
	"github.com/ecohub/ecohub/internal/services"
)

// SeedCatalog loads the hand-curated catalog. Inserts are idempotent on slug,
// so re-seeding an existing database is harmless.
func SeedCatalog(store api.Store) error {
	categories := []*services.Category{
		{ID: "c1", Name: "Food & Beverages", Slug: "food-beverages", Description: "Eco-friendly food and drinks"},
		{ID: "c2", Name: "Personal Care", Slug: "personal-care", Description: "Sustainable beauty and hygiene"},
		{ID: "c3", Name: "Home & Living", Slug: "home-living", Description: "Eco-conscious home products"},
		{ID: "c4", Name: "Fashion", Slug: "fashion", Description: "Ethical and sustainable fashion"},
		{ID: "c5", Name: "Cleaning", Slug: "cleaning", Description: "Green cleaning supplies"},
	}
	for _, c := range categories {
		if err := store.AddCategory(c); err != nil {
			return fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
	}

	brands := []*services.Brand{
		{
			ID: "b1", Name: "Patagonia", Slug: "patagonia",
			Description: "Outdoor apparel and gear with strong environmental and social commitments.",
			Website:     "https://www.patagonia.com",
			SustainabilityPractices: []services.SustainabilityPractice{
				{Label: "Fair Trade", Description: "Uses Fair Trade Certified factories"},
				{Label: "Recycled Materials", Description: "Uses recycled polyester and organic cotton"},
			},
			PackagingTypes: []string{"Recycled paper", "Reusable bags"},
			CarbonNeutral:  true,
			Certified:      []string{"B Corp", "1% for the Planet"},
			Featured:       true,
		},
		{
			ID: "b2", Name: "Lush", Slug: "lush",
			Description: "Fresh handmade cosmetics with minimal packaging and ethical sourcing.",
			Website:     "https://www.lush.com",
			SustainabilityPractices: []services.SustainabilityPractice{
				{Label: "Naked Products", Description: "Many products sold without packaging"},
				{Label: "Recyclable Packaging", Description: "Black pots are 100% recyclable"},
			},
			PackagingTypes: []string{"Paper bags", "Recyclable pots", "Naked (no packaging)"},
			Certified:      []string{"Vegan options", "Cruelty-free"},
			Featured:       true,
		},
		{
			ID: "b3", Name: "Who Gives A Crap", Slug: "who-gives-a-crap",
			Description: "Toilet paper and paper towels made from recycled materials. 50% of profits go to building toilets.",
			Website:     "https://us.whogivesacrap.org",
			SustainabilityPractices: []services.SustainabilityPractice{
				{Label: "Recycled Paper", Description: "100% recycled or bamboo"},
				{Label: "Plastic-Free", Description: "Wrapped in paper, not plastic"},
			},
			PackagingTypes: []string{"Paper wrap", "Cardboard"},
			CarbonNeutral:  true,
			Certified:      []string{"B Corp"},
			Featured:       true,
		},
		{
			ID: "b4", Name: "Blueland", Slug: "blueland",
			Description: "Cleaning products in reusable bottles with dissolvable tablets. No single-use plastic.",
			Website:     "https://www.blueland.com",
			SustainabilityPractices: []services.SustainabilityPractice{
				{Label: "Refill System", Description: "Reusable bottles, tablet refills"},
				{Label: "No Plastic Bottles", Description: "Eliminates single-use plastic"},
			},
			PackagingTypes: []string{"Compostable", "Recyclable cardboard"},
			Certified:      []string{"Leaping Bunny"},
			Featured:       true,
		},
		{
			ID: "b5", Name: "Package Free Shop", Slug: "package-free-shop",
			Description: "Zero-waste lifestyle products. Everything shipped plastic-free.",
			Website:     "https://packagefreeshop.com",
			SustainabilityPractices: []services.SustainabilityPractice{
				{Label: "Plastic-Free Shipping", Description: "All shipments are plastic-free"},
				{Label: "Curated Sustainable Brands", Description: "Vetted for sustainability"},
			},
			PackagingTypes: []string{"Paper", "Compostable", "Reusable"},
			CarbonNeutral:  true,
			Certified:      []string{"B Corp"},
		},
	}
	for _, b := range brands {
		if err := store.AddBrand(b); err != nil {
			return fmt.Errorf("seed brand %s: %w", b.Slug, err)
		}
	}

	products := []*services.Product{
		{ID: "p1", Name: "Organic Cotton T-Shirt", Slug: "patagonia-organic-tshirt", BrandSlug: "patagonia", CategorySlug: "fashion", PackagingType: "Recycled paper", EcoScore: 9, BuyURL: "https://www.patagonia.com", Featured: true},
		{ID: "p2", Name: "Recycled Down Jacket", Slug: "patagonia-recycled-jacket", BrandSlug: "patagonia", CategorySlug: "fashion", PackagingType: "Recycled paper", EcoScore: 9, BuyURL: "https://www.patagonia.com"},
		{ID: "p3", Name: "Naked Shampoo Bar", Slug: "lush-naked-shampoo", BrandSlug: "lush", CategorySlug: "personal-care", PackagingType: "Naked (no packaging)", EcoScore: 10, BuyURL: "https://www.lush.com", Featured: true},
		{ID: "p4", Name: "Recycled Toilet Paper 24 Rolls", Slug: "wgac-toilet-paper", BrandSlug: "who-gives-a-crap", CategorySlug: "home-living", PackagingType: "Paper wrap", EcoScore: 9, BuyURL: "https://us.whogivesacrap.org", Featured: true},
		{ID: "p5", Name: "Clean Up Kit (Tablets + Bottles)", Slug: "blueland-cleanup-kit", BrandSlug: "blueland", CategorySlug: "cleaning", PackagingType: "Compostable", EcoScore: 9, BuyURL: "https://www.blueland.com", Featured: true},
		{ID: "p6", Name: "Bamboo Toothbrush Set", Slug: "package-free-bamboo-brush", BrandSlug: "package-free-shop", CategorySlug: "personal-care", PackagingType: "Paper", EcoScore: 8, BuyURL: "https://packagefreeshop.com"},
	}
	for _, p := range products {
		if err := store.AddProduct(p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Slug, err)
		}
	}
	return nil
}
