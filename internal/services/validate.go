package services

import "fmt"

const milesToKm = 1.60934

// Per-field plausibility ceilings, chosen to catch data manipulation rather
// than genuinely heavy usage (10,000 km of driving a month is very high but
// possible).
const (
	maxCarKm             = 10000
	maxPublicTransportKm = 5000
	maxFlights           = 20
	maxElectricityKwh    = 2000
	maxLpgCylinders      = 10
	maxMeatMeals         = 90
	maxVegetarianMeals   = 90
	maxPlasticItems      = 500
)

// NormalizeSurveyInput converts legacy mile-based fields to kilometers when
// the canonical field is absent or zero.
func NormalizeSurveyInput(in SurveyInput) SurveyInput {
	out := in
	if out.CarKm == 0 && out.CarMiles != 0 {
		out.CarKm = out.CarMiles * milesToKm
	}
	if out.PublicTransportKm == 0 && out.PublicTransportMiles != 0 {
		out.PublicTransportKm = out.PublicTransportMiles * milesToKm
	}
	out.CarMiles = 0
	out.PublicTransportMiles = 0
	return out
}

// ValidateSurveyInput checks a normalized survey field by field, accumulating
// every violation rather than stopping at the first. A nil return means the
// input passed; the plausibility cross-check against the computed score
// happens later, in CrossCheckScore.
func ValidateSurveyInput(in SurveyInput) *ValidationError {
	var errs []string

	if in.CarKm < 0 {
		errs = append(errs, "Car distance cannot be negative")
	}
	if in.PublicTransportKm < 0 {
		errs = append(errs, "Public transport distance cannot be negative")
	}
	if in.Flights < 0 {
		errs = append(errs, "Number of flights cannot be negative")
	}
	if in.ElectricityKwh < 0 {
		errs = append(errs, "Electricity consumption cannot be negative")
	}
	if in.LpgCylinders < 0 {
		errs = append(errs, "LPG cylinders cannot be negative")
	}
	if in.MeatMeals < 0 {
		errs = append(errs, "Meat meals cannot be negative")
	}
	if in.VegetarianMeals < 0 {
		errs = append(errs, "Vegetarian meals cannot be negative")
	}
	if in.PlasticItems < 0 {
		errs = append(errs, "Plastic items cannot be negative")
	}
	if in.RecyclingRate < 0 || in.RecyclingRate > 100 {
		errs = append(errs, "Recycling rate must be between 0 and 100")
	}

	if in.CarKm > maxCarKm {
		errs = append(errs, fmt.Sprintf("Car distance (%g km) seems unrealistic. Maximum allowed: %d km/month", in.CarKm, maxCarKm))
	}
	if in.PublicTransportKm > maxPublicTransportKm {
		errs = append(errs, fmt.Sprintf("Public transport distance (%g km) seems unrealistic. Maximum allowed: %d km/month", in.PublicTransportKm, maxPublicTransportKm))
	}
	if in.Flights > maxFlights {
		errs = append(errs, fmt.Sprintf("Number of flights (%g) seems unrealistic. Maximum allowed: %d flights/month", in.Flights, maxFlights))
	}
	if in.ElectricityKwh > maxElectricityKwh {
		errs = append(errs, fmt.Sprintf("Electricity consumption (%g kWh) seems unrealistic. Maximum allowed: %d kWh/month", in.ElectricityKwh, maxElectricityKwh))
	}
	if in.LpgCylinders > maxLpgCylinders {
		errs = append(errs, fmt.Sprintf("LPG cylinders (%g) seems unrealistic. Maximum allowed: %d cylinders/month", in.LpgCylinders, maxLpgCylinders))
	}
	if in.MeatMeals > maxMeatMeals {
		errs = append(errs, fmt.Sprintf("Meat meals (%g) seems unrealistic. Maximum allowed: %d meals/month", in.MeatMeals, maxMeatMeals))
	}
	if in.VegetarianMeals > maxVegetarianMeals {
		errs = append(errs, fmt.Sprintf("Vegetarian meals (%g) seems unrealistic. Maximum allowed: %d meals/month", in.VegetarianMeals, maxVegetarianMeals))
	}
	if in.PlasticItems > maxPlasticItems {
		errs = append(errs, fmt.Sprintf("Plastic items (%g) seems unrealistic. Maximum allowed: %d items/month", in.PlasticItems, maxPlasticItems))
	}

	if len(errs) > 0 {
		return &ValidationError{Message: "Validation failed", Errors: errs}
	}

	// Recycling rate alone is not data: an answer must report at least one
	// activity field.
	sum := in.CarKm + in.PublicTransportKm + in.Flights + in.ElectricityKwh +
		in.LpgCylinders + in.MeatMeals + in.VegetarianMeals + in.PlasticItems
	if sum == 0 {
		return &ValidationError{
			Message: "Validation failed",
			Errors:  []string{"Please enter at least some data. All fields cannot be zero."},
		}
	}
	return nil
}

// CrossCheckScore rejects calculator/scorer inconsistencies and adversarial
// inputs that pass field-level checks: a perfect score with emissions above
// 80 kg, or a 90+ score with emissions above the monthly baseline. The
// computed values ride along on the error for diagnosis.
func CrossCheckScore(res EmissionResult, fb Feedback) *ValidationError {
	if fb.Score >= 100 && res.TotalEmissions > 80 {
		return &ValidationError{
			Message:             "Data validation failed",
			Errors:              []string{"The calculated score seems unrealistic based on your emissions. Please verify your input data."},
			CalculatedEmissions: res.TotalEmissions,
			CalculatedScore:     fb.Score,
		}
	}
	if fb.Score >= 90 && res.TotalEmissions > AverageMonthlyEmissions {
		return &ValidationError{
			Message:             "Data validation failed",
			Errors:              []string{"The calculated score seems inconsistent with your emissions data. Please verify your input."},
			CalculatedEmissions: res.TotalEmissions,
			CalculatedScore:     fb.Score,
		}
	}
	return nil
}
