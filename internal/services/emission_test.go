package services

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateEmissionsBreakdown(t *testing.T) {
	res := CalculateEmissions(SurveyInput{
		CarKm:          100,
		ElectricityKwh: 100,
	})
	if !almostEqual(res.CategoryBreakdown.Transportation, 25.5) {
		t.Errorf("transportation = %v, want 25.5", res.CategoryBreakdown.Transportation)
	}
	if !almostEqual(res.CategoryBreakdown.Energy, 82) {
		t.Errorf("energy = %v, want 82", res.CategoryBreakdown.Energy)
	}
	if res.CategoryBreakdown.Food != 0 || res.CategoryBreakdown.Waste != 0 {
		t.Errorf("food/waste = %v/%v, want 0/0", res.CategoryBreakdown.Food, res.CategoryBreakdown.Waste)
	}
	if !almostEqual(res.TotalEmissions, 107.5) {
		t.Errorf("total = %v, want 107.5", res.TotalEmissions)
	}
}

func TestCalculateEmissionsAllCategories(t *testing.T) {
	res := CalculateEmissions(SurveyInput{
		CarKm:             200,
		PublicTransportKm: 100,
		Flights:           1,
		ElectricityKwh:    150,
		LpgCylinders:      2,
		MeatMeals:         10,
		VegetarianMeals:   20,
		PlasticItems:      100,
	})
	if !almostEqual(res.CategoryBreakdown.Transportation, 254.1) {
		t.Errorf("transportation = %v, want 254.1", res.CategoryBreakdown.Transportation)
	}
	if !almostEqual(res.CategoryBreakdown.Energy, 162) {
		t.Errorf("energy = %v, want 162", res.CategoryBreakdown.Energy)
	}
	if !almostEqual(res.CategoryBreakdown.Food, 51) {
		t.Errorf("food = %v, want 51", res.CategoryBreakdown.Food)
	}
	if !almostEqual(res.CategoryBreakdown.Waste, 5) {
		t.Errorf("waste = %v, want 5", res.CategoryBreakdown.Waste)
	}
	if !almostEqual(res.TotalEmissions, 472.1) {
		t.Errorf("total = %v, want 472.1", res.TotalEmissions)
	}
}

func TestCalculateEmissionsRecyclingOffsetsWaste(t *testing.T) {
	half := CalculateEmissions(SurveyInput{PlasticItems: 100, RecyclingRate: 50})
	if !almostEqual(half.CategoryBreakdown.Waste, 2.5) {
		t.Errorf("waste at 50%% recycling = %v, want 2.5", half.CategoryBreakdown.Waste)
	}
	full := CalculateEmissions(SurveyInput{PlasticItems: 100, RecyclingRate: 100})
	if full.CategoryBreakdown.Waste != 0 {
		t.Errorf("waste at 100%% recycling = %v, want 0", full.CategoryBreakdown.Waste)
	}
}

func TestCalculateEmissionsRoundsToCents(t *testing.T) {
	// 33 * 0.031 = 1.023, rounds down to 1.02.
	res := CalculateEmissions(SurveyInput{PublicTransportKm: 33})
	if !almostEqual(res.CategoryBreakdown.Transportation, 1.02) {
		t.Errorf("transportation = %v, want 1.02", res.CategoryBreakdown.Transportation)
	}
}
