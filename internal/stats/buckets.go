package stats

import (
	"fmt"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

// Sample is one dated observation feeding the period aggregator. The same
// bucketing runs over diary pages and purchase spending; only the extractor
// producing the samples differs.
type Sample struct {
	Date  entities.Date
	Value float64
}

// DayPoint is one row of a daily series. Days without a sample are absent,
// not zero-filled. Handlers map points onto wire shapes; the value field is
// pages or currency depending on the series.
type DayPoint struct {
	Date  entities.Date
	Value float64
}

// MonthPoint is one of exactly twelve monthly buckets, oldest first.
// Month is formatted YYYY-MM.
type MonthPoint struct {
	Month string
	Value float64
}

// YearPoint is one of exactly five yearly buckets, oldest first.
type YearPoint struct {
	Year  int
	Value float64
}

// dailyWindowDays is the trailing window for day-mode aggregation.
const dailyWindowDays = 30

// aggregateDaily returns one point per sample dated within the trailing
// 30-day window ending at ref. Samples must be ordered oldest first.
func aggregateDaily(samples []Sample, ref entities.Date) []DayPoint {
	start := ref.AddDays(-dailyWindowDays)
	points := make([]DayPoint, 0, len(samples))
	for _, s := range samples {
		if s.Date.Before(start.Time) {
			continue
		}
		points = append(points, DayPoint{Date: s.Date, Value: s.Value})
	}
	return points
}

// aggregateMonthly returns exactly 12 buckets, oldest to newest. Bucket keys
// are found by stepping ref backward in fixed 30-day increments rather than
// calendar months, matching the charts this feeds; the boundaries drift a few
// days against real month edges over a year. Missing months sum to 0.
func aggregateMonthly(samples []Sample, ref entities.Date) []MonthPoint {
	points := make([]MonthPoint, 0, 12)
	for i := 11; i >= 0; i-- {
		step := ref.AddDays(-i * dailyWindowDays)
		year, month := step.Year(), step.Month()

		var total float64
		for _, s := range samples {
			if s.Date.Year() == year && s.Date.Month() == month {
				total += s.Value
			}
		}
		points = append(points, MonthPoint{
			Month: fmt.Sprintf("%d-%02d", year, int(month)),
			Value: total,
		})
	}
	return points
}

// aggregateYearly returns exactly 5 calendar-year buckets ending at ref's
// year, oldest to newest. Missing years sum to 0.
func aggregateYearly(samples []Sample, ref entities.Date) []YearPoint {
	points := make([]YearPoint, 0, 5)
	for i := 4; i >= 0; i-- {
		year := ref.Year() - i

		var total float64
		for _, s := range samples {
			if s.Date.Year() == year {
				total += s.Value
			}
		}
		points = append(points, YearPoint{Year: year, Value: total})
	}
	return points
}

// diarySamples extracts (date, pages_read) samples from diary entries.
func diarySamples(entries []entities.DiaryEntry) []Sample {
	samples := make([]Sample, 0, len(entries))
	for _, e := range entries {
		samples = append(samples, Sample{Date: e.Date, Value: float64(e.PagesRead)})
	}
	return samples
}

// purchaseSamples extracts (purchase_date, price) samples from books.
// Books without a dated purchase contribute nothing to monthly buckets.
func purchaseSamples(books []entities.Book) []Sample {
	samples := make([]Sample, 0, len(books))
	for _, b := range books {
		if b.PurchaseDate == nil || b.PurchasePrice == nil {
			continue
		}
		samples = append(samples, Sample{Date: *b.PurchaseDate, Value: *b.PurchasePrice})
	}
	return samples
}
