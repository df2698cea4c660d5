package crm

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dealAt(year int, month time.Month, stage string, value int64) Deal {
	return Deal{
		Stage:     stage,
		Value:     decimal.NewFromInt(value),
		CreatedAt: time.Date(year, month, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestGroupDealsByMonth(t *testing.T) {
	deals := []Deal{
		dealAt(2025, time.March, "won", 10_000),
		dealAt(2025, time.March, "lead", 5_000),
		dealAt(2025, time.January, "proposal", 7_500),
	}

	months := GroupDealsByMonth(deals)

	if len(months) != 2 {
		t.Fatalf("want 2 months, got %d", len(months))
	}
	if months[0].Month != "2025-01" || months[1].Month != "2025-03" {
		t.Fatalf("months not chronological: %s, %s", months[0].Month, months[1].Month)
	}
	if months[1].Count != 2 {
		t.Errorf("march count: want 2, got %d", months[1].Count)
	}
	if !months[1].Value.Equal(decimal.NewFromInt(15_000)) {
		t.Errorf("march value: want 15000, got %s", months[1].Value)
	}
}

func TestGroupDealsByMonthEmpty(t *testing.T) {
	if got := GroupDealsByMonth(nil); len(got) != 0 {
		t.Fatalf("want no buckets for no deals, got %d", len(got))
	}
}

func TestPipelineSummaryIncludesEmptyStages(t *testing.T) {
	deals := []Deal{
		dealAt(2025, time.May, "won", 20_000),
		dealAt(2025, time.May, "won", 5_000),
		dealAt(2025, time.June, "lead", 1_000),
	}

	summary := PipelineSummary(deals)

	if len(summary) != len(DealStages) {
		t.Fatalf("want %d stages, got %d", len(DealStages), len(summary))
	}
	for i, stage := range DealStages {
		if summary[i].Stage != stage {
			t.Fatalf("stage order broken at %d: want %s, got %s", i, stage, summary[i].Stage)
		}
	}
	byStage := map[string]StageTotal{}
	for _, st := range summary {
		byStage[st.Stage] = st
	}
	if byStage["won"].Count != 2 || !byStage["won"].Value.Equal(decimal.NewFromInt(25_000)) {
		t.Errorf("won totals wrong: %+v", byStage["won"])
	}
	if byStage["negotiation"].Count != 0 || !byStage["negotiation"].Value.Equal(decimal.Zero) {
		t.Errorf("empty stage should be zeroed: %+v", byStage["negotiation"])
	}
}

func TestSumActivityHours(t *testing.T) {
	due := func(day int) *time.Time {
		d := time.Date(2025, time.July, day, 9, 0, 0, 0, time.UTC)
		return &d
	}
	activities := []Activity{
		{Type: "meeting", DurationMinutes: 90, DueAt: due(2)},
		{Type: "call", DurationMinutes: 30, DueAt: due(4)},
		{Type: "task", DurationMinutes: 600, DueAt: due(20)}, // outside range
		{Type: "note", DurationMinutes: 15, CreatedAt: time.Date(2025, time.July, 3, 8, 0, 0, 0, time.UTC)},
	}

	from := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.July, 8, 0, 0, 0, 0, time.UTC)

	hours := SumActivityHours(activities, from, to)
	if hours != 2.25 {
		t.Fatalf("want 2.25 hours, got %v", hours)
	}
}

func TestDueBeforeSkipsCompletedAndUndated(t *testing.T) {
	soon := time.Date(2025, time.August, 2, 9, 0, 0, 0, time.UTC)
	later := time.Date(2025, time.August, 6, 9, 0, 0, 0, time.UTC)
	past := time.Date(2025, time.August, 1, 9, 0, 0, 0, time.UTC)

	activities := []Activity{
		{Subject: "chase certifier", DueAt: &later},
		{Subject: "book inspection", DueAt: &soon},
		{Subject: "done already", DueAt: &past, Completed: true},
		{Subject: "no due date"},
	}

	due := DueBefore(activities, time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC))

	if len(due) != 2 {
		t.Fatalf("want 2 due activities, got %d", len(due))
	}
	if due[0].Subject != "book inspection" || due[1].Subject != "chase certifier" {
		t.Fatalf("not sorted soonest first: %s, %s", due[0].Subject, due[1].Subject)
	}
}
