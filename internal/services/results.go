package services

import (
	"strings"
	"time"

	"social-analytics-dashboard/internal/models"
)

const dateLayout = "2006-01-02"

// ParseDateRange turns two calendar dates into a filter spanning the start
// of the first day to the last second of the second, in UTC. The bounds go
// over the wire with millisecond precision, e.g. 2025-01-31T23:59:59.000Z.
func ParseDateRange(startDate, endDate string) (models.TimeFilter, error) {
	startDate, endDate = strings.TrimSpace(startDate), strings.TrimSpace(endDate)
	if startDate == "" || endDate == "" {
		return models.TimeFilter{}, &ValidationError{Field: "dates", Message: "Please select both start and end dates."}
	}

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return models.TimeFilter{}, &ValidationError{Field: "start_date", Message: "Start date must be in YYYY-MM-DD format."}
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return models.TimeFilter{}, &ValidationError{Field: "end_date", Message: "End date must be in YYYY-MM-DD format."}
	}
	if start.After(end) {
		return models.TimeFilter{}, &ValidationError{Field: "dates", Message: "Start date must be before end date."}
	}

	return models.TimeFilter{
		StartDate: start,
		EndDate:   end.Add(24*time.Hour - time.Second),
	}, nil
}

// DateRange is a pair of calendar dates in YYYY-MM-DD form, used to prefill
// the filter inputs.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SuggestedDateRange is the span the backend reports for a job's posts,
// or the last three months when it reports none.
func SuggestedDateRange(filter *models.UniversalFilter, now time.Time) DateRange {
	if filter != nil {
		start, end := DateOf(filter.StartDate), DateOf(filter.EndDate)
		if start != "" && end != "" {
			return DateRange{StartDate: start, EndDate: end}
		}
	}
	start, end := DefaultDateRange(now)
	return DateRange{StartDate: start, EndDate: end}
}

// DefaultDateRange is the last three months ending today.
func DefaultDateRange(now time.Time) (string, string) {
	return now.AddDate(0, -3, 0).Format(dateLayout), now.Format(dateLayout)
}

// DateOf renders a backend timestamp as a calendar date, or "" when it
// cannot be parsed.
func DateOf(timestamp string) string {
	t, ok := models.ParseTimestamp(timestamp)
	if !ok {
		return ""
	}
	return t.Format(dateLayout)
}
