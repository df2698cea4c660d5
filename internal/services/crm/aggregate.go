package crm

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyDeals is one month's slice of the deals-by-month dashboard chart.
type MonthlyDeals struct {
	Month string          `json:"month"` // YYYY-MM
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// GroupDealsByMonth buckets deals by the month of their creation, ordered
// chronologically. Months without deals are omitted.
func GroupDealsByMonth(deals []Deal) []MonthlyDeals {
	buckets := make(map[string]*MonthlyDeals)
	for _, deal := range deals {
		month := deal.CreatedAt.UTC().Format("2006-01")
		bucket, ok := buckets[month]
		if !ok {
			bucket = &MonthlyDeals{Month: month, Value: decimal.Zero}
			buckets[month] = bucket
		}
		bucket.Count++
		bucket.Value = bucket.Value.Add(deal.Value)
	}

	out := make([]MonthlyDeals, 0, len(buckets))
	for _, bucket := range buckets {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// StageTotal sums deal value within one pipeline stage.
type StageTotal struct {
	Stage string          `json:"stage"`
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// PipelineSummary totals deals per stage in the fixed stage order, including
// empty stages so dashboards render a stable pipeline.
func PipelineSummary(deals []Deal) []StageTotal {
	totals := make(map[string]*StageTotal, len(DealStages))
	out := make([]StageTotal, 0, len(DealStages))
	for _, stage := range DealStages {
		st := &StageTotal{Stage: stage, Value: decimal.Zero}
		totals[stage] = st
	}
	for _, deal := range deals {
		if st, ok := totals[deal.Stage]; ok {
			st.Count++
			st.Value = st.Value.Add(deal.Value)
		}
	}
	for _, stage := range DealStages {
		out = append(out, *totals[stage])
	}
	return out
}

// SumActivityHours totals logged activity duration, in hours, between from
// and to (inclusive of from, exclusive of to). Activities without a due date
// are counted by creation time.
func SumActivityHours(activities []Activity, from, to time.Time) float64 {
	var minutes int
	for _, act := range activities {
		at := act.CreatedAt
		if act.DueAt != nil {
			at = *act.DueAt
		}
		if at.Before(from) || !at.Before(to) {
			continue
		}
		minutes += act.DurationMinutes
	}
	return float64(minutes) / 60
}

// DueBefore filters incomplete activities due before the deadline, soonest
// first.
func DueBefore(activities []Activity, deadline time.Time) []Activity {
	var out []Activity
	for _, act := range activities {
		if act.Completed || act.DueAt == nil {
			continue
		}
		if act.DueAt.Before(deadline) {
			out = append(out, act)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(*out[j].DueAt) })
	return out
}
