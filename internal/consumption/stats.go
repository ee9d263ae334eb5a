package consumption

import "github.com/pichane/iquit-cli/internal/models"

// Partition splits a per-day count series (oldest first) into the trailing
// 7-day window and the 7 days preceding it, and averages each. An empty
// window averages to 0.
func Partition(series []models.DayCount) models.WeeklyStats {
	current := series
	if len(current) > 7 {
		current = current[len(current)-7:]
	}

	var previous []models.DayCount
	if len(series) > 7 {
		previous = series[:len(series)-7]
		if len(previous) > 7 {
			previous = previous[len(previous)-7:]
		}
	}

	return models.WeeklyStats{
		Current:  mean(current),
		Previous: mean(previous),
	}
}

func mean(window []models.DayCount) float64 {
	if len(window) == 0 {
		return 0
	}
	sum := 0
	for _, d := range window {
		sum += d.Count
	}
	return float64(sum) / float64(len(window))
}
