package engagement

import (
	"math"
	"time"

	types "github.com/yungbote/scholarlink/internal/domain"
)

// DefaultPlanHorizon is the aggregate deadline offset used when no item has one.
const DefaultPlanHorizon = 30 * 24 * time.Hour

// Progress is the rounded percentage of completed items; an empty plan is 0.
func Progress(items []types.PlanItem) int {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, it := range items {
		if it.Status == types.ItemCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(items))))
}

// AggregateDeadline is the latest item deadline, or now plus DefaultPlanHorizon when
// no item has a deadline.
func AggregateDeadline(items []types.PlanItem, now time.Time) time.Time {
	var latest time.Time
	for _, it := range items {
		if it.Deadline == nil {
			continue
		}
		if latest.IsZero() || it.Deadline.After(latest) {
			latest = *it.Deadline
		}
	}
	if latest.IsZero() {
		return now.Add(DefaultPlanHorizon)
	}
	return latest
}

// DaysRemaining rounds the time left up to whole days. Past deadlines are negative.
func DaysRemaining(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}
