package services

import "math"

// Emission factors in kg CO2e per unit, tuned for the Indian context
// (coal-heavy electricity grid, domestic short-haul flights, 14.2 kg LPG
// cylinders).
const (
	factorCarKm             = 0.255
	factorPublicTransportKm = 0.031
	factorFlight            = 200
	factorElectricityKwh    = 0.82
	factorLpgCylinder       = 19.5
	factorMeatMeal          = 3.5
	factorVegetarianMeal    = 0.8
	factorPlasticItem       = 0.05
)

// EmissionResult is the calculator output: a four-way category breakdown and
// its total, each rounded to two decimals.
type EmissionResult struct {
	TotalEmissions    float64           `json:"totalEmissions"`
	CategoryBreakdown CategoryBreakdown `json:"categoryBreakdown"`
}

// CalculateEmissions converts a normalized survey into kg CO2e. Inputs are
// assumed validated; there are no error conditions.
func CalculateEmissions(in SurveyInput) EmissionResult {
	transportation := in.CarKm*factorCarKm +
		in.PublicTransportKm*factorPublicTransportKm +
		in.Flights*factorFlight

	energy := in.ElectricityKwh*factorElectricityKwh +
		in.LpgCylinders*factorLpgCylinder

	food := in.MeatMeals*factorMeatMeal +
		in.VegetarianMeals*factorVegetarianMeal

	// Recycling proportionally offsets plastic waste.
	waste := in.PlasticItems * factorPlasticItem * (1 - in.RecyclingRate/100)

	total := transportation + energy + food + waste

	return EmissionResult{
		TotalEmissions: round2(total),
		CategoryBreakdown: CategoryBreakdown{
			Transportation: round2(transportation),
			Energy:         round2(energy),
			Food:           round2(food),
			Waste:          round2(waste),
		},
	}
}

// round2 rounds half-up at the cent level.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
