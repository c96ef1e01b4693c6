package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"
)

// ExportHistoryCSV renders a user's emission history into a CSV, one row per
// accepted submission.
func ExportHistoryCSV(recs []*EmissionRecord) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{
		"date", "week", "month",
		"transportation", "energy", "food", "waste",
		"total_emissions", "score",
	})
	for _, r := range recs {
		rec := []string{
			r.Date.Format(time.RFC3339),
			r.WeekIdentifier,
			r.MonthIdentifier,
			ftoa(r.CategoryBreakdown.Transportation),
			ftoa(r.CategoryBreakdown.Energy),
			ftoa(r.CategoryBreakdown.Food),
			ftoa(r.CategoryBreakdown.Waste),
			ftoa(r.TotalEmissions),
			strconv.Itoa(r.Score),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
