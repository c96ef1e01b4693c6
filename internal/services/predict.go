package services

import (
	"fmt"
	"math"
)

// Absorption/emission reference figures used for the impact equivalents: one
// tree absorbs about 21.77 kg CO2 a year, an average car emits about 4,600 kg.
const (
	treeAbsorptionYearly = 21.77
	carEmissionsYearly   = 4600.0
)

// PredictionPoint is one historical observation. Callers supply points in
// ascending date order; the regression runs over the 0-based index, not the
// date gaps.
type PredictionPoint struct {
	Date           string  `json:"date"`
	TotalEmissions float64 `json:"totalEmissions"`
}

// Prediction is the trend forecast for a user's emission history.
type Prediction struct {
	PredictedMonthly float64 `json:"predictedMonthly"`
	PredictedYearly  float64 `json:"predictedYearly"`
	Trend            string  `json:"trend"`
	Confidence       string  `json:"confidence"`
	TreesNeeded      int     `json:"treesNeeded,omitempty"`
	EquivalentCars   string  `json:"equivalentCars,omitempty"`
	Slope            float64 `json:"slope,omitempty"`
}

// PredictEmissions fits an ordinary least-squares line through the series and
// extrapolates monthsAhead past the last observation. With fewer than two
// points the single known value (or zero) is used as a flat forecast.
func PredictEmissions(points []PredictionPoint, monthsAhead int) Prediction {
	if len(points) < 2 {
		current := 0.0
		if len(points) == 1 {
			current = points[0].TotalEmissions
		}
		return Prediction{
			PredictedMonthly: current,
			PredictedYearly:  current * 12,
			Trend:            "stable",
			Confidence:       "low",
		}
	}

	n := float64(len(points))
	var sumX, sumY, sumXY, sumX2 float64
	for i, p := range points {
		x := float64(i)
		y := p.TotalEmissions
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	lastIndex := n - 1
	predictedMonthly := slope*(lastIndex+float64(monthsAhead)) + intercept
	predictedYearly := predictedMonthly * 12

	trend := "stable"
	if slope > 0.1 {
		trend = "increasing"
	} else if slope < -0.1 {
		trend = "decreasing"
	}

	confidence := "low"
	switch {
	case len(points) >= 6:
		confidence = "high"
	case len(points) >= 3:
		confidence = "medium"
	}

	predictedMonthly = math.Max(0, predictedMonthly)
	predictedYearly = math.Max(0, predictedYearly)

	return Prediction{
		PredictedMonthly: predictedMonthly,
		PredictedYearly:  predictedYearly,
		Trend:            trend,
		Confidence:       confidence,
		TreesNeeded:      int(math.Ceil(predictedYearly / treeAbsorptionYearly)),
		EquivalentCars:   fmt.Sprintf("%.1f", predictedYearly/carEmissionsYearly),
		Slope:            slope,
	}
}
