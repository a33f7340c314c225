package stats

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"focustrack/internal/domain"
	"focustrack/internal/ports"
)

// DayBucket is one day inside a weekly distribution.
type DayBucket struct {
	Day       string // abbreviated weekday name
	Pomodoros int64
	Minutes   int64
}

// WeekReport summarizes the current Monday-based week.
type WeekReport struct {
	TotalPomodoros    int64
	TotalMinutes      int64
	AvgFocus          float64
	DailyDistribution []DayBucket
	BestDay           *time.Time
}

// WeekBucket is one ISO week inside a monthly trend.
type WeekBucket struct {
	Week      int
	Pomodoros int64
	Minutes   int64
	AvgDaily  float64
}

// MonthReport summarizes the current calendar month.
type MonthReport struct {
	TotalPomodoros int64
	TotalHours     float64
	WorkDays       int64
	AvgDaily       float64
	CompletionRate float64 // work days / days elapsed this month
	WeeklyTrend    []WeekBucket
}

// HourBucket is the completed-session count and average focus for one hour
// of day over the pattern window.
type HourBucket struct {
	Count    int64
	AvgFocus float64
}

// PatternsReport breaks the trailing 30 days down by hour and weekday.
type PatternsReport struct {
	Hourly          [24]HourBucket
	ProductiveHours []int // top 3 hours by completed-session count
	Weekday         [7]int64
	TotalSessions   int64
}

// Prediction estimates when a given amount of remaining work finishes,
// based on the trailing week's pace.
type Prediction struct {
	EstimatedDays *int
	EstimatedDate *time.Time
	Confidence    float64
	AvgDaily      float64
}

// Reporter computes read-only statistic views for the presentation layer.
type Reporter struct {
	sessions ports.SessionRepository
	stats    ports.StatsRepository
	now      func() time.Time
}

func NewReporter(sessions ports.SessionRepository, stats ports.StatsRepository) *Reporter {
	return &Reporter{sessions: sessions, stats: stats, now: time.Now}
}

// WithClock overrides the time source. Used by tests.
func (r *Reporter) WithClock(now func() time.Time) *Reporter {
	r.now = now
	return r
}

// Today returns today's daily stat, or a zero-valued stat when the day has
// no completed sessions yet.
func (r *Reporter) Today(ctx context.Context) (*domain.DailyStat, error) {
	today := domain.DayOf(r.now())
	stat, err := r.stats.GetDaily(ctx, today)
	if err != nil {
		return nil, err
	}
	if stat == nil {
		return &domain.DailyStat{Date: today}, nil
	}
	return stat, nil
}

// Week summarizes the current week, Monday through Sunday.
func (r *Reporter) Week(ctx context.Context) (*WeekReport, error) {
	today := domain.DayOf(r.now())
	offset := (int(today.Weekday()) + 6) % 7 // Monday = 0
	weekStart := today.AddDate(0, 0, -offset)
	weekEnd := weekStart.AddDate(0, 0, 6)

	daily, err := r.stats.GetRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("week range: %w", err)
	}

	report := &WeekReport{}
	var focusSum float64
	byDate := make(map[string]*domain.DailyStat, len(daily))
	for i := range daily {
		stat := &daily[i]
		byDate[stat.Date.Format(domain.DateLayout)] = stat
		report.TotalPomodoros += stat.TotalPomodoros
		report.TotalMinutes += stat.TotalMinutes
		focusSum += stat.AvgFocusScore
		if report.BestDay == nil || stat.TotalPomodoros > byDate[report.BestDay.Format(domain.DateLayout)].TotalPomodoros {
			d := stat.Date
			report.BestDay = &d
		}
	}
	if len(daily) > 0 {
		report.AvgFocus = focusSum / float64(len(daily))
	}

	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		bucket := DayBucket{Day: day.Format("Mon")}
		if stat, ok := byDate[day.Format(domain.DateLayout)]; ok {
			bucket.Pomodoros = stat.TotalPomodoros
			bucket.Minutes = stat.TotalMinutes
		}
		report.DailyDistribution = append(report.DailyDistribution, bucket)
	}

	return report, nil
}

// Month summarizes the current calendar month.
func (r *Reporter) Month(ctx context.Context) (*MonthReport, error) {
	today := domain.DayOf(r.now())
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)

	daily, err := r.stats.GetRange(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("month range: %w", err)
	}

	report := &MonthReport{}
	var totalMinutes int64
	for _, stat := range daily {
		report.TotalPomodoros += stat.TotalPomodoros
		totalMinutes += stat.TotalMinutes
		if stat.TotalPomodoros > 0 {
			report.WorkDays++
		}
	}
	report.TotalHours = float64(totalMinutes) / 60

	if report.WorkDays > 0 {
		report.AvgDaily = float64(report.TotalPomodoros) / float64(report.WorkDays)
	}
	if today.Day() > 0 {
		report.CompletionRate = float64(report.WorkDays) / float64(today.Day()) * 100
	}
	report.WeeklyTrend = weeklyTrend(daily)

	return report, nil
}

func weeklyTrend(daily []domain.DailyStat) []WeekBucket {
	type acc struct {
		pomodoros int64
		minutes   int64
		days      int64
	}
	weeks := make(map[int]*acc)

	for _, stat := range daily {
		_, week := stat.Date.ISOWeek()
		a, ok := weeks[week]
		if !ok {
			a = &acc{}
			weeks[week] = a
		}
		a.pomodoros += stat.TotalPomodoros
		a.minutes += stat.TotalMinutes
		a.days++
	}

	nums := make([]int, 0, len(weeks))
	for week := range weeks {
		nums = append(nums, week)
	}
	sort.Ints(nums)

	trend := make([]WeekBucket, 0, len(nums))
	for _, week := range nums {
		a := weeks[week]
		bucket := WeekBucket{Week: week, Pomodoros: a.pomodoros, Minutes: a.minutes}
		if a.days > 0 {
			bucket.AvgDaily = float64(a.pomodoros) / float64(a.days)
		}
		trend = append(trend, bucket)
	}
	return trend
}

// Patterns analyses the trailing 30 days of completed sessions by hour of
// day and weekday.
func (r *Reporter) Patterns(ctx context.Context) (*PatternsReport, error) {
	end := domain.DayOf(r.now())
	start := end.AddDate(0, 0, -30)

	sessions, err := r.sessions.List(ctx, ports.SessionFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, fmt.Errorf("pattern sessions: %w", err)
	}

	report := &PatternsReport{}
	var focusSums [24]float64
	for _, session := range sessions {
		if !session.Completed {
			continue
		}
		hour := session.StartTime.Hour()
		report.Hourly[hour].Count++
		focusSums[hour] += session.FocusScore
		report.Weekday[int(session.StartTime.Weekday())]++
		report.TotalSessions++
	}
	for hour := range report.Hourly {
		if report.Hourly[hour].Count > 0 {
			report.Hourly[hour].AvgFocus = focusSums[hour] / float64(report.Hourly[hour].Count)
		}
	}

	hours := make([]int, 24)
	for i := range hours {
		hours[i] = i
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return report.Hourly[hours[i]].Count > report.Hourly[hours[j]].Count
	})
	report.ProductiveHours = hours[:3]

	return report, nil
}

// PredictCompletion estimates how long the remaining pomodoros will take at
// the trailing week's pace. Confidence shrinks with day-to-day variance.
func (r *Reporter) PredictCompletion(ctx context.Context, remaining int64) (*Prediction, error) {
	today := domain.DayOf(r.now())
	weekAgo := today.AddDate(0, 0, -7)

	daily, err := r.stats.GetRange(ctx, weekAgo, today)
	if err != nil {
		return nil, fmt.Errorf("prediction range: %w", err)
	}
	if len(daily) == 0 {
		return &Prediction{}, nil
	}

	var total int64
	for _, stat := range daily {
		total += stat.TotalPomodoros
	}
	avgDaily := float64(total) / float64(len(daily))
	if avgDaily == 0 {
		return &Prediction{}, nil
	}

	days := int(math.Ceil(float64(remaining) / avgDaily))
	date := today.AddDate(0, 0, days)

	var variance float64
	for _, stat := range daily {
		diff := float64(stat.TotalPomodoros) - avgDaily
		variance += diff * diff
	}
	variance /= float64(len(daily))
	confidence := 100 - math.Sqrt(variance)/avgDaily*100
	confidence = math.Max(0, math.Min(100, confidence))

	return &Prediction{
		EstimatedDays: &days,
		EstimatedDate: &date,
		Confidence:    confidence,
		AvgDaily:      avgDaily,
	}, nil
}
