package services

import (
	"sort"
	"testing"
	"time"
)

type stubEmissionStore struct {
	records []*EmissionRecord

	// hideFromFind simulates a concurrent writer: reads miss the record, but
	// the uniqueness constraint still fires on insert.
	hideFromFind bool
}

func (s *stubEmissionStore) InsertEmission(rec *EmissionRecord) error {
	for _, r := range s.records {
		if r.UserID == rec.UserID && r.WeekIdentifier == rec.WeekIdentifier {
			return ErrDuplicateWeek
		}
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *stubEmissionStore) FindEmissionByUserWeek(userID, week string) (*EmissionRecord, error) {
	if s.hideFromFind {
		return nil, nil
	}
	for _, r := range s.records {
		if r.UserID == userID && r.WeekIdentifier == week {
			return r, nil
		}
	}
	return nil, nil
}

func (s *stubEmissionStore) ListEmissionsByUser(userID string, limit int) ([]*EmissionRecord, error) {
	out := []*EmissionRecord{}
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubEmissionStore) ListEmissionsByUserAsc(userID string) ([]*EmissionRecord, error) {
	out := []*EmissionRecord{}
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func newTestEmissionService(store *stubEmissionStore, now time.Time) *EmissionService {
	svc := NewEmissionService(store)
	svc.now = func() time.Time { return now }
	svc.idGen = func() string { return "rec1" }
	return svc
}

func TestSubmitPersistsRecord(t *testing.T) {
	store := &stubEmissionStore{}
	wed := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	svc := newTestEmissionService(store, wed)

	rec, err := svc.Submit("u1", SurveyInput{CarKm: 100, ElectricityKwh: 100})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if rec.ID != "rec1" || rec.UserID != "u1" {
		t.Errorf("id/user = %s/%s", rec.ID, rec.UserID)
	}
	if rec.WeekIdentifier != "2025-03-10" {
		t.Errorf("week = %s, want 2025-03-10", rec.WeekIdentifier)
	}
	if rec.MonthIdentifier != "2025-03" {
		t.Errorf("month = %s, want 2025-03", rec.MonthIdentifier)
	}
	if !almostEqual(rec.TotalEmissions, 107.5) {
		t.Errorf("total = %v, want 107.5", rec.TotalEmissions)
	}
	if rec.Score != 90 {
		t.Errorf("score = %d, want 90", rec.Score)
	}
	if len(rec.Recommendations) == 0 {
		t.Error("expected recommendations")
	}
	if len(store.records) != 1 {
		t.Fatalf("stored records = %d, want 1", len(store.records))
	}
}

func TestSubmitNormalizesMiles(t *testing.T) {
	store := &stubEmissionStore{}
	svc := newTestEmissionService(store, time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC))

	rec, err := svc.Submit("u1", SurveyInput{CarMiles: 100})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !almostEqual(rec.CarKm, 160.934) {
		t.Errorf("carKm = %v, want 160.934", rec.CarKm)
	}
}

func TestSubmitRequiresUser(t *testing.T) {
	svc := newTestEmissionService(&stubEmissionStore{}, time.Now())
	_, err := svc.Submit("", SurveyInput{CarKm: 100})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	svc := newTestEmissionService(&stubEmissionStore{}, time.Now())
	_, err := svc.Submit("u1", SurveyInput{CarKm: -5})
	verr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if verr.Errors[0] != "Car distance cannot be negative" {
		t.Errorf("errors = %v", verr.Errors)
	}
}

func TestSubmitSameWeekIsRateLimited(t *testing.T) {
	store := &stubEmissionStore{}
	wed := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	svc := newTestEmissionService(store, wed)

	first, err := svc.Submit("u1", SurveyInput{CarKm: 100, ElectricityKwh: 100})
	if err != nil {
		t.Fatalf("first Submit returned error: %v", err)
	}

	svc.now = func() time.Time { return wed.AddDate(0, 0, 2) } // Friday, same week
	_, err = svc.Submit("u1", SurveyInput{CarKm: 50})
	rl, ok := AsRateLimitedError(err)
	if !ok {
		t.Fatalf("expected a rate limit error, got %v", err)
	}
	if rl.Message != "You can only calculate your carbon footprint once per week. Please try again next week." {
		t.Errorf("message = %q", rl.Message)
	}
	if rl.NextAvailableDate != "2025-03-16" {
		t.Errorf("nextAvailableDate = %q, want 2025-03-16", rl.NextAvailableDate)
	}
	if rl.ExistingEntry.Score != first.Score || !almostEqual(rl.ExistingEntry.TotalEmissions, first.TotalEmissions) {
		t.Errorf("existing entry = %+v", rl.ExistingEntry)
	}
	if len(store.records) != 1 {
		t.Errorf("stored records = %d, want 1", len(store.records))
	}
}

func TestSubmitNextWeekSucceeds(t *testing.T) {
	store := &stubEmissionStore{}
	svc := newTestEmissionService(store, time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC))

	if _, err := svc.Submit("u1", SurveyInput{CarKm: 100}); err != nil {
		t.Fatalf("first Submit returned error: %v", err)
	}
	svc.now = func() time.Time { return time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC) }
	if _, err := svc.Submit("u1", SurveyInput{CarKm: 100}); err != nil {
		t.Fatalf("next-week Submit returned error: %v", err)
	}
	if len(store.records) != 2 {
		t.Errorf("stored records = %d, want 2", len(store.records))
	}
}

func TestSubmitDuplicateInsertIsRateLimited(t *testing.T) {
	// The read-first check misses, the unique index catches the collision.
	store := &stubEmissionStore{hideFromFind: true}
	svc := newTestEmissionService(store, time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC))

	if _, err := svc.Submit("u1", SurveyInput{CarKm: 100}); err != nil {
		t.Fatalf("first Submit returned error: %v", err)
	}
	_, err := svc.Submit("u1", SurveyInput{CarKm: 100})
	if _, ok := AsRateLimitedError(err); !ok {
		t.Fatalf("expected a rate limit error, got %v", err)
	}
	if len(store.records) != 1 {
		t.Errorf("stored records = %d, want 1", len(store.records))
	}
}

func TestLatestEmptyHistory(t *testing.T) {
	svc := newTestEmissionService(&stubEmissionStore{}, time.Now())
	_, err := svc.Latest("u1")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	if se.Message != "No emission data found. Please calculate your emissions first." {
		t.Errorf("message = %q", se.Message)
	}
}

func emissionFixture(userID string, date time.Time, total float64, score int) *EmissionRecord {
	return &EmissionRecord{
		ID:              "e-" + date.Format("20060102"),
		UserID:          userID,
		Date:            date,
		WeekIdentifier:  WeekIdentifier(date),
		MonthIdentifier: MonthIdentifier(date),
		TotalEmissions:  total,
		Score:           score,
	}
}

func TestStatsAggregates(t *testing.T) {
	store := &stubEmissionStore{}
	base := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	// Six weekly entries, older half heavier than the recent half.
	totals := []float64{200, 200, 200, 100, 100, 100}
	scores := []int{60, 60, 60, 90, 90, 90}
	for i := range totals {
		store.records = append(store.records, emissionFixture("u1", base.AddDate(0, 0, 7*i), totals[i], scores[i]))
	}
	svc := newTestEmissionService(store, time.Now())

	stats, err := svc.Stats("u1")
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalEntries != 6 {
		t.Errorf("totalEntries = %d, want 6", stats.TotalEntries)
	}
	if !almostEqual(stats.AverageMonthly, 150) {
		t.Errorf("averageMonthly = %v, want 150", stats.AverageMonthly)
	}
	if stats.LatestScore != 90 {
		t.Errorf("latestScore = %d, want 90", stats.LatestScore)
	}
	if stats.Trend != "decreasing" {
		t.Errorf("trend = %s, want decreasing", stats.Trend)
	}
}

func TestStatsSingleEntryIsStable(t *testing.T) {
	store := &stubEmissionStore{records: []*EmissionRecord{
		emissionFixture("u1", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 100, 90),
	}}
	svc := newTestEmissionService(store, time.Now())
	stats, err := svc.Stats("u1")
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Trend != "stable" {
		t.Errorf("trend = %s, want stable", stats.Trend)
	}
}

func TestStatsEmptyHistory(t *testing.T) {
	svc := newTestEmissionService(&stubEmissionStore{}, time.Now())
	_, err := svc.Stats("u1")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound || se.Message != "No data available" {
		t.Fatalf("expected not_found/No data available, got %v", err)
	}
}

func TestPredictionsEmptyHistory(t *testing.T) {
	svc := newTestEmissionService(&stubEmissionStore{}, time.Now())
	resp, err := svc.Predictions("u1", 0)
	if err != nil {
		t.Fatalf("Predictions returned error: %v", err)
	}
	if resp.Message != "Not enough data for predictions. Please add some emission data first." {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.DataPoints != 0 {
		t.Errorf("dataPoints = %d, want 0", resp.DataPoints)
	}
}

func TestPredictionsDefaultsToTwelveMonths(t *testing.T) {
	store := &stubEmissionStore{}
	base := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	store.records = append(store.records,
		emissionFixture("u1", base, 100, 90),
		emissionFixture("u1", base.AddDate(0, 0, 7), 110, 90),
	)
	svc := newTestEmissionService(store, time.Now())

	resp, err := svc.Predictions("u1", 0)
	if err != nil {
		t.Fatalf("Predictions returned error: %v", err)
	}
	if resp.DataPoints != 2 {
		t.Errorf("dataPoints = %d, want 2", resp.DataPoints)
	}
	if !almostEqual(resp.PredictedMonthly, 230) {
		t.Errorf("monthly = %v, want 230", resp.PredictedMonthly)
	}
	if resp.Trend != "increasing" {
		t.Errorf("trend = %s, want increasing", resp.Trend)
	}
}
