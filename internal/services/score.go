package services

import "strings"

// AverageMonthlyEmissions is the reference baseline: the average Indian
// person emits roughly 2,000 kg CO2e per year, about 167 kg per month.
const AverageMonthlyEmissions = 167.0

// Feedback is the scoring engine output: a 0-100 score (higher is better),
// joined feedback sentences and a list of recommendations.
type Feedback struct {
	Score           int      `json:"score"`
	Feedback        string   `json:"feedback"`
	Recommendations []string `json:"recommendations"`
}

// GenerateFeedback scores an emission result against the monthly baseline and
// produces category-specific feedback and recommendations.
func GenerateFeedback(res EmissionResult) Feedback {
	total := res.TotalEmissions

	// Non-linear step function, descending as total rises.
	score := 100
	switch {
	case total > AverageMonthlyEmissions*1.5:
		score = 20
	case total > AverageMonthlyEmissions*1.2:
		score = 40
	case total > AverageMonthlyEmissions:
		score = 60
	case total > AverageMonthlyEmissions*0.8:
		score = 80
	case total > AverageMonthlyEmissions*0.5:
		score = 90
	}

	var feedback []string
	var recommendations []string

	if res.CategoryBreakdown.Transportation > AverageMonthlyEmissions*0.4 {
		feedback = append(feedback, "Your transportation emissions are above average.")
		recommendations = append(recommendations,
			"Consider using public transport or carpooling more often.",
			"Try walking or cycling for short distances.",
			"Use metro or local trains instead of private vehicles when possible.")
	}

	if res.CategoryBreakdown.Energy > AverageMonthlyEmissions*0.3 {
		feedback = append(feedback, "Your energy consumption is high.")
		recommendations = append(recommendations,
			"Switch to LED bulbs and unplug devices when not in use.",
			"Use energy-efficient appliances (BEE 5-star rated).",
			"Consider solar panels if feasible.")
	}

	if res.CategoryBreakdown.Food > AverageMonthlyEmissions*0.2 {
		feedback = append(feedback, "Your food choices have a significant carbon footprint.")
		recommendations = append(recommendations,
			"Try reducing meat consumption and eating more plant-based meals.",
			"Buy local and seasonal produce when possible.",
			"Reduce food waste by planning meals better.")
	}

	if res.CategoryBreakdown.Waste > AverageMonthlyEmissions*0.1 {
		feedback = append(feedback, "Your waste production is contributing to emissions.")
		recommendations = append(recommendations,
			"Reduce single-use plastics and recycle more.",
			"Compost organic waste when possible.",
			"Use reusable bags and containers.")
	}

	if total < AverageMonthlyEmissions*0.8 {
		feedback = append(feedback, "Great job! Your carbon footprint is below the Indian average.")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Keep up the excellent work! Continue your sustainable practices.")
	}

	joined := "Your carbon footprint is within average range."
	if len(feedback) > 0 {
		joined = strings.Join(feedback, " ")
	}

	// Thresholds already guarantee the range, this is a final safety step.
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Feedback{Score: score, Feedback: joined, Recommendations: recommendations}
}
