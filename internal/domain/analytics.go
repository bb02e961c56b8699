package domain

import (
	"sort"
	"time"
)

const (
	DefaultAnalyticsDays = 30
	MaxAnalyticsDays     = 365
)

// DailyClicks is one point of the zero-filled daily series.
type DailyClicks struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

// Bucket is a classifier label with its click count.
type Bucket struct {
	Label string
	Count int64
}

// Report is the analytics view of a single link.
type Report struct {
	Code         string
	Days         int
	TotalClicks  int64
	PeriodClicks int64
	Daily        []DailyClicks
	Referrers    []Bucket
	Devices      []Bucket
	Browsers     []Bucket
}

// ClampDays keeps an analytics window within [1, MaxAnalyticsDays].
func ClampDays(days int) int {
	if days < 1 {
		return 1
	}
	if days > MaxAnalyticsDays {
		return MaxAnalyticsDays
	}
	return days
}

// AnalyticsSince is the lower bound timestamp of a days-long window ending at now.
func AnalyticsSince(now time.Time, days int) string {
	return FormatTimestamp(now.AddDate(0, 0, -days))
}

// BuildReport classifies a raw breakdown into the analytics report.
// The daily series has exactly days entries, oldest first, ending on now's UTC date.
func BuildReport(link *Link, b *ClickBreakdown, days int, now time.Time) *Report {
	if b == nil {
		b = &ClickBreakdown{}
	}
	rep := &Report{
		Code:        link.Code,
		Days:        days,
		TotalClicks: link.Clicks,
		Daily:       make([]DailyClicks, days),
	}

	today := now.UTC()
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, -(days - 1 - i)).Format("2006-01-02")
		n := b.PerDay[date]
		rep.Daily[i] = DailyClicks{Date: date, Clicks: n}
		rep.PeriodClicks += n
	}

	referrers := map[string]int64{}
	for ref, n := range b.PerReferrer {
		referrers[ClassifyReferrer(ref)] += n
	}
	devices := map[string]int64{}
	browsers := map[string]int64{}
	for ua, n := range b.PerAgent {
		devices[ClassifyDevice(ua)] += n
		browsers[ClassifyBrowser(ua)] += n
	}

	rep.Referrers = sortedBuckets(referrers)
	rep.Devices = sortedBuckets(devices)
	rep.Browsers = sortedBuckets(browsers)
	return rep
}

// count descending, then label ascending
func sortedBuckets(m map[string]int64) []Bucket {
	out := make([]Bucket, 0, len(m))
	for label, n := range m {
		out = append(out, Bucket{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
