package viewmodel

import "social-analytics-dashboard/internal/models"

type Progress struct {
	Percent int    `json:"percent"`
	Color   string `json:"color"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// BuildProgress clamps the percentage and picks the bar color.
func BuildProgress(status, message string, percent int) Progress {
	percent = min(max(percent, 0), 100)
	return Progress{
		Percent: percent,
		Color:   ProgressColor(percent),
		Status:  status,
		Message: message,
	}
}

// BuildStatusProgress is BuildProgress for a backend status payload.
func BuildStatusProgress(status *models.AnalysisStatus) Progress {
	if status == nil {
		return BuildProgress("", "", 0)
	}
	return BuildProgress(status.Status, status.Message, status.Progress)
}

func ProgressColor(percent int) string {
	switch {
	case percent < 30:
		return "blue"
	case percent < 80:
		return "yellow"
	}
	return "green"
}
