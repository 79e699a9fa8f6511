package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

// Time ranges select how far back the window reaches; time views select the
// bucket granularity.
const (
	RangeDay     = "day"
	Range3Days   = "3days"
	RangeWeek    = "week"
	RangeMonth   = "month"
	Range3Months = "3months"
	Range6Months = "6months"
	RangeYear    = "year"

	ViewHour  = "hour"
	ViewDay   = "day"
	ViewWeek  = "week"
	ViewMonth = "month"
	ViewYear  = "year"
)

// StatisticsService buckets a recipe's view/like events into a gapless time
// series.
type StatisticsService struct {
	db    *gorm.DB
	nowFn func() time.Time
}

// NewStatisticsService creates a new StatisticsService instance
func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{db: db, nowFn: time.Now}
}

// SetNowFunc overrides the clock, for tests.
func (s *StatisticsService) SetNowFunc(now func() time.Time) {
	s.nowFn = now
}

// TimeSeriesPoint is one bucket of the series. Period labels are stable and
// sortable per granularity.
type TimeSeriesPoint struct {
	Period string `json:"period"`
	Views  int64  `json:"views"`
	Likes  int64  `json:"likes"`
}

// Statistics is the aggregated engagement series for one recipe.
type Statistics struct {
	TimeRange      string            `json:"time_range"`
	TimeView       string            `json:"time_view"`
	TotalViews     int64             `json:"total_views"`
	TotalLikes     int64             `json:"total_likes"`
	EngagementRate int               `json:"engagement_rate"`
	Data           []TimeSeriesPoint `json:"data"`
}

// rangeStart resolves the window start relative to now. Unknown ranges fall
// back to a week, matching the default.
func rangeStart(now time.Time, timeRange string) time.Time {
	switch timeRange {
	case RangeDay:
		return now
	case Range3Days:
		return now.AddDate(0, 0, -3)
	case RangeWeek:
		return now.AddDate(0, 0, -7)
	case RangeMonth:
		return now.AddDate(0, 0, -30)
	case Range3Months:
		return now.AddDate(0, 0, -90)
	case Range6Months:
		return now.AddDate(0, 0, -180)
	case RangeYear:
		return now.AddDate(0, 0, -365)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// startOfDay clamps t to midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// truncate clamps t to the start of its bucket unit. Weeks are ISO weeks and
// start on Monday.
func truncate(t time.Time, timeView string) time.Time {
	switch timeView {
	case ViewHour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case ViewWeek:
		monday := t.AddDate(0, 0, -((int(t.Weekday()) + 6) % 7))
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	case ViewMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case ViewYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	default: // day
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// next advances a bucket start by one unit.
func next(t time.Time, timeView string) time.Time {
	switch timeView {
	case ViewHour:
		return t.Add(time.Hour)
	case ViewWeek:
		return t.AddDate(0, 0, 7)
	case ViewMonth:
		return t.AddDate(0, 1, 0)
	case ViewYear:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// label formats a bucket start: hour -> "2006-01-02 15:00", day ->
// "2006-01-02", week -> "2006-W02" (ISO week), month -> "2006-01", year ->
// "2006".
func label(t time.Time, timeView string) string {
	switch timeView {
	case ViewHour:
		return t.Format("2006-01-02 15:00")
	case ViewWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case ViewMonth:
		return t.Format("2006-01")
	case ViewYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

func validTimeRange(v string) bool {
	switch v {
	case RangeDay, Range3Days, RangeWeek, RangeMonth, Range3Months, Range6Months, RangeYear:
		return true
	}
	return false
}

func validTimeView(v string) bool {
	switch v {
	case ViewHour, ViewDay, ViewWeek, ViewMonth, ViewYear:
		return true
	}
	return false
}

func (s *StatisticsService) eventTimes(ctx context.Context, model interface{}, recipeID uuid.UUID, start, end time.Time) ([]time.Time, error) {
	var times []time.Time
	err := s.db.WithContext(ctx).Model(model).
		Where("recipe_id = ?", recipeID).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at ASC").
		Pluck("created_at", &times).Error
	return times, err
}

// Series builds the bucketed view/like series for a recipe. The window start
// is the range offset clamped to the start of its day, so the "day" range
// covers all of today. Buckets tile the window through the end of today and
// are zero-filled; the series has no gaps. Bucket bounds are half-open
// [start, next), so a boundary timestamp is counted exactly once.
func (s *StatisticsService) Series(ctx context.Context, recipeID uuid.UUID, timeRange, timeView string) (*Statistics, error) {
	if timeRange == "" || !validTimeRange(timeRange) {
		timeRange = RangeWeek
	}
	if timeView == "" || !validTimeView(timeView) {
		timeView = ViewDay
	}

	now := s.nowFn()
	start := startOfDay(rangeStart(now, timeRange))
	end := startOfDay(now).AddDate(0, 0, 1)

	viewTimes, err := s.eventTimes(ctx, &models.View{}, recipeID, start, now)
	if err != nil {
		return nil, err
	}
	likeTimes, err := s.eventTimes(ctx, &models.Like{}, recipeID, start, now)
	if err != nil {
		return nil, err
	}

	var data []TimeSeriesPoint
	var totalViews, totalLikes int64
	vi, li := 0, 0
	for bucket := truncate(start, timeView); bucket.Before(end); bucket = next(bucket, timeView) {
		upper := next(bucket, timeView)

		point := TimeSeriesPoint{Period: label(bucket, timeView)}
		for vi < len(viewTimes) && viewTimes[vi].Before(upper) {
			point.Views++
			vi++
		}
		for li < len(likeTimes) && likeTimes[li].Before(upper) {
			point.Likes++
			li++
		}

		totalViews += point.Views
		totalLikes += point.Likes
		data = append(data, point)
	}

	rate := 0
	if totalViews > 0 {
		rate = int(math.Round(float64(totalLikes) / float64(totalViews) * 100))
	}

	return &Statistics{
		TimeRange:      timeRange,
		TimeView:       timeView,
		TotalViews:     totalViews,
		TotalLikes:     totalLikes,
		EngagementRate: rate,
		Data:           data,
	}, nil
}
