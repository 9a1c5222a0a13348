package engagement

import (
	"testing"
	"time"

	types "github.com/yungbote/scholarlink/internal/domain"
)

func items(statuses ...types.PlanItemStatus) []types.PlanItem {
	out := make([]types.PlanItem, len(statuses))
	for i, s := range statuses {
		out[i] = types.PlanItem{Status: s}
	}
	return out
}

func TestProgress(t *testing.T) {
	cases := []struct {
		name  string
		items []types.PlanItem
		want  int
	}{
		{"empty", nil, 0},
		{"one of three", items(types.ItemCompleted, types.ItemPending, types.ItemInProgress), 33},
		{"three of four", items(types.ItemCompleted, types.ItemCompleted, types.ItemCompleted, types.ItemPending), 75},
		{"two of three", items(types.ItemCompleted, types.ItemCompleted, types.ItemPending), 67},
		{"all", items(types.ItemCompleted, types.ItemCompleted), 100},
		{"in progress does not count", items(types.ItemInProgress), 0},
	}
	for _, tc := range cases {
		if got := Progress(tc.items); got != tc.want {
			t.Errorf("%s: Progress=%d want %d", tc.name, got, tc.want)
		}
	}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAggregateDeadlineTakesLatest(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	got := AggregateDeadline([]types.PlanItem{
		{Deadline: date(2024, time.January, 10)},
		{Deadline: date(2024, time.February, 1)},
		{},
	}, now)
	if !got.Equal(*date(2024, time.February, 1)) {
		t.Fatalf("deadline=%s", got)
	}
}

func TestAggregateDeadlineDefaultsToThirtyDays(t *testing.T) {
	now := time.Date(2024, 3, 5, 16, 30, 0, 0, time.UTC)
	got := AggregateDeadline([]types.PlanItem{{}, {}}, now)
	want := now.AddDate(0, 0, 30)
	if got.Year() != want.Year() || got.YearDay() != want.YearDay() {
		t.Fatalf("deadline=%s want same day as %s", got, want)
	}
	if got := AggregateDeadline(nil, now); got.YearDay() != want.YearDay() {
		t.Fatalf("empty plan deadline=%s", got)
	}
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		deadline time.Time
		want     int
	}{
		{now.Add(48 * time.Hour), 2},
		{now.Add(25 * time.Hour), 2},
		{now.Add(time.Hour), 1},
		{now, 0},
		{now.Add(-36 * time.Hour), -1},
		{now.Add(-48 * time.Hour), -2},
	}
	for _, tc := range cases {
		if got := DaysRemaining(tc.deadline, now); got != tc.want {
			t.Errorf("DaysRemaining(%s)=%d want %d", tc.deadline.Sub(now), got, tc.want)
		}
	}
}
