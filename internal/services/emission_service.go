package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const historyLimit = 12

// EmissionStore abstracts the persistence operations the submission pipeline
// needs. InsertEmission must enforce uniqueness on (user, week identifier)
// and return ErrDuplicateWeek on collision, so two concurrent submissions in
// the same week cannot both succeed.
type EmissionStore interface {
	InsertEmission(rec *EmissionRecord) error
	FindEmissionByUserWeek(userID, week string) (*EmissionRecord, error)
	ListEmissionsByUser(userID string, limit int) ([]*EmissionRecord, error)
	ListEmissionsByUserAsc(userID string) ([]*EmissionRecord, error)
}

// EmissionService runs the survey pipeline: normalize and validate the input,
// calculate emissions, score them, cross-check plausibility, enforce the
// weekly submission window and persist the record. Read paths serve history,
// stats and trend predictions.
type EmissionService struct {
	store EmissionStore
	now   func() time.Time
	idGen func() string
}

func NewEmissionService(store EmissionStore) *EmissionService {
	return &EmissionService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return uuid.NewString() },
	}
}

// Submit processes one survey submission end to end. It returns the persisted
// record, a *ValidationError, a *RateLimitedError, or a dependency failure.
func (s *EmissionService) Submit(userID string, raw SurveyInput) (*EmissionRecord, error) {
	if userID == "" {
		return nil, NewUnauthorizedError("Not authorized. Please log in.")
	}

	input := NormalizeSurveyInput(raw)
	if verr := ValidateSurveyInput(input); verr != nil {
		return nil, verr
	}

	res := CalculateEmissions(input)
	fb := GenerateFeedback(res)
	if verr := CrossCheckScore(res, fb); verr != nil {
		return nil, verr
	}

	now := s.now()
	week := WeekIdentifier(now)

	existing, err := s.store.FindEmissionByUserWeek(userID, week)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, s.rateLimited(now, existing)
	}

	rec := &EmissionRecord{
		ID:                s.idGen(),
		UserID:            userID,
		Date:              now,
		WeekIdentifier:    week,
		MonthIdentifier:   MonthIdentifier(now),
		CarKm:             input.CarKm,
		PublicTransportKm: input.PublicTransportKm,
		Flights:           input.Flights,
		ElectricityKwh:    input.ElectricityKwh,
		LpgCylinders:      input.LpgCylinders,
		MeatMeals:         input.MeatMeals,
		VegetarianMeals:   input.VegetarianMeals,
		PlasticItems:      input.PlasticItems,
		RecyclingRate:     input.RecyclingRate,
		TotalEmissions:    res.TotalEmissions,
		CategoryBreakdown: res.CategoryBreakdown,
		Score:             fb.Score,
		Feedback:          fb.Feedback,
		Recommendations:   fb.Recommendations,
	}

	if err := s.store.InsertEmission(rec); err != nil {
		// The unique index caught a concurrent submission; answer it the
		// same way as the read-first check.
		if errors.Is(err, ErrDuplicateWeek) {
			if existing, ferr := s.store.FindEmissionByUserWeek(userID, week); ferr == nil && existing != nil {
				return nil, s.rateLimited(now, existing)
			}
			return nil, s.rateLimited(now, rec)
		}
		return nil, err
	}
	return rec, nil
}

func (s *EmissionService) rateLimited(now time.Time, existing *EmissionRecord) *RateLimitedError {
	return &RateLimitedError{
		Message:           "You can only calculate your carbon footprint once per week. Please try again next week.",
		NextAvailableDate: NextSubmissionDate(now),
		ExistingEntry: ExistingEntrySummary{
			Date:           existing.Date,
			Score:          existing.Score,
			TotalEmissions: existing.TotalEmissions,
		},
	}
}

// History returns the user's most recent entries, newest first, capped at 12.
func (s *EmissionService) History(userID string) ([]*EmissionRecord, error) {
	return s.store.ListEmissionsByUser(userID, historyLimit)
}

// Latest returns the newest entry with its feedback.
func (s *EmissionService) Latest(userID string) (*EmissionRecord, error) {
	recs, err := s.store.ListEmissionsByUser(userID, 1)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, NewNotFoundError("No emission data found. Please calculate your emissions first.")
	}
	return recs[0], nil
}

// EmissionStats summarizes a user's recent entries.
type EmissionStats struct {
	TotalEntries   int       `json:"totalEntries"`
	AverageMonthly float64   `json:"averageMonthly"`
	LatestScore    int       `json:"latestScore"`
	Trend          string    `json:"trend"`
	LatestDate     time.Time `json:"latestDate"`
}

// Stats aggregates the last 12 entries and classifies the short-term trend by
// comparing the three most recent totals against the three before them.
func (s *EmissionService) Stats(userID string) (*EmissionStats, error) {
	recs, err := s.store.ListEmissionsByUser(userID, historyLimit)
	if err != nil {
		return nil, err
	}
	n := len(recs)
	if n == 0 {
		return nil, NewNotFoundError("No data available")
	}

	var total float64
	for _, r := range recs {
		total += r.TotalEmissions
	}

	trend := "stable"
	if n >= 2 {
		var recentSum, olderSum float64
		for _, r := range recs[:min(3, n)] {
			recentSum += r.TotalEmissions
		}
		if n > 3 {
			for _, r := range recs[3:min(6, n)] {
				olderSum += r.TotalEmissions
			}
		}
		recent := recentSum / float64(min(3, n))
		older := olderSum / float64(min(3, n-3))
		if recent > older*1.1 {
			trend = "increasing"
		} else if recent < older*0.9 {
			trend = "decreasing"
		}
	}

	return &EmissionStats{
		TotalEntries:   n,
		AverageMonthly: round2(total / float64(n)),
		LatestScore:    recs[0].Score,
		Trend:          trend,
		LatestDate:     recs[0].Date,
	}, nil
}

// PredictionResponse augments the forecast with the number of observations
// it was fitted on.
type PredictionResponse struct {
	Prediction
	DataPoints int    `json:"dataPoints"`
	Message    string `json:"message,omitempty"`
}

// Predictions forecasts the user's future emissions monthsAhead months out
// (12 when unset).
func (s *EmissionService) Predictions(userID string, monthsAhead int) (*PredictionResponse, error) {
	if monthsAhead <= 0 {
		monthsAhead = 12
	}
	recs, err := s.store.ListEmissionsByUserAsc(userID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return &PredictionResponse{
			Prediction: Prediction{Trend: "stable", Confidence: "low"},
			Message:    "Not enough data for predictions. Please add some emission data first.",
		}, nil
	}
	points := make([]PredictionPoint, 0, len(recs))
	for _, r := range recs {
		points = append(points, PredictionPoint{
			Date:           r.Date.Format("2006-01-02"),
			TotalEmissions: r.TotalEmissions,
		})
	}
	pred := PredictEmissions(points, monthsAhead)
	return &PredictionResponse{Prediction: pred, DataPoints: len(points)}, nil
}
