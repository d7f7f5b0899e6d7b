package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/dto"
	"github.com/faceofmind/server/internal/interfaces"
	"github.com/faceofmind/server/internal/repository"
)

const (
	analyticsKeyPrefix = "analytics:"
	analyticsCacheTTL  = 5 * time.Minute
)

var ErrInvalidPeriod = errors.New("invalid period, must be one of: week, month, year, all")

// AnalyticsService produces the registration charts the admin dashboard and
// the realtime feed consume. Results are cached per period per day; any
// write to the users table blows the whole cache.
type AnalyticsService interface {
	GetUserAnalytics(ctx context.Context, period string) (*dto.AnalyticsResult, error)
	GetAllPeriods(ctx context.Context) (map[string]*dto.AnalyticsResult, error)
	InvalidateCache(ctx context.Context)
}

type analyticsService struct {
	repo  repository.UserRepository
	cache interfaces.KeyValueStore
	now   func() time.Time
}

func NewAnalyticsService(repo repository.UserRepository, cache interfaces.KeyValueStore) AnalyticsService {
	return &analyticsService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

type bucket struct {
	label string
	start time.Time
	end   time.Time
}

// weekBuckets covers Monday through Sunday of the week containing t.
func weekBuckets(t time.Time) []bucket {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	monday := day.AddDate(0, 0, -offset)

	buckets := make([]bucket, 0, 7)
	for i := 0; i < 7; i++ {
		start := monday.AddDate(0, 0, i)
		buckets = append(buckets, bucket{
			label: start.Format("Mon"),
			start: start,
			end:   start.AddDate(0, 0, 1),
		})
	}
	return buckets
}

// monthBuckets splits the month containing t into four buckets. The first
// three are seven days each; the fourth runs to the end of the month so no
// day is dropped.
func monthBuckets(t time.Time) []bucket {
	t = t.UTC()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := first.AddDate(0, 1, 0)

	buckets := make([]bucket, 0, 4)
	for i := 0; i < 4; i++ {
		start := first.AddDate(0, 0, i*7)
		end := start.AddDate(0, 0, 7)
		if i == 3 {
			end = nextMonth
		}
		buckets = append(buckets, bucket{
			label: fmt.Sprintf("Week %d", i+1),
			start: start,
			end:   end,
		})
	}
	return buckets
}

// yearBuckets covers the twelve calendar months of the year containing t.
func yearBuckets(t time.Time) []bucket {
	t = t.UTC()
	buckets := make([]bucket, 0, 12)
	for m := time.January; m <= time.December; m++ {
		start := time.Date(t.Year(), m, 1, 0, 0, 0, 0, time.UTC)
		buckets = append(buckets, bucket{
			label: start.Format("Jan"),
			start: start,
			end:   start.AddDate(0, 1, 0),
		})
	}
	return buckets
}

func (a *analyticsService) GetUserAnalytics(ctx context.Context, period string) (*dto.AnalyticsResult, error) {
	switch period {
	case "week", "month", "year", "all":
	default:
		return nil, ErrInvalidPeriod
	}

	key := fmt.Sprintf("%s%s:%s", analyticsKeyPrefix, period, a.now().UTC().Format("2006-01-02"))
	if a.cache != nil {
		if raw, err := a.cache.Get(ctx, key); err == nil {
			var cached dto.AnalyticsResult
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, interfaces.ErrCacheMiss) {
			log.Printf("analytics cache read error: %v", err)
		}
	}

	result, err := a.compute(period)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := a.cache.Put(ctx, key, string(raw), analyticsCacheTTL); err != nil {
				log.Printf("analytics cache write error: %v", err)
			}
		}
	}
	return result, nil
}

func (a *analyticsService) compute(period string) (*dto.AnalyticsResult, error) {
	result := &dto.AnalyticsResult{Period: period}

	total, err := a.repo.CountAll()
	if err != nil {
		return nil, err
	}
	result.TotalUsers = total

	for _, rc := range []struct {
		role string
		dst  *int64
	}{
		{domain.RoleAdmin, &result.AdminCount},
		{domain.RoleProfessional, &result.ProfessionalCount},
		{domain.RoleUser, &result.RegularCount},
	} {
		n, err := a.repo.CountByRole(rc.role)
		if err != nil {
			return nil, err
		}
		*rc.dst = n
	}

	if period == "all" {
		return result, nil
	}

	var buckets []bucket
	switch period {
	case "week":
		buckets = weekBuckets(a.now())
	case "month":
		buckets = monthBuckets(a.now())
	case "year":
		buckets = yearBuckets(a.now())
	}

	result.Labels = make([]string, 0, len(buckets))
	result.DataAll = make([]int64, 0, len(buckets))
	result.DataAdmin = make([]int64, 0, len(buckets))
	result.DataProfessional = make([]int64, 0, len(buckets))
	result.DataUser = make([]int64, 0, len(buckets))

	for _, b := range buckets {
		result.Labels = append(result.Labels, b.label)
		for _, rc := range []struct {
			role string
			dst  *[]int64
		}{
			{"", &result.DataAll},
			{domain.RoleAdmin, &result.DataAdmin},
			{domain.RoleProfessional, &result.DataProfessional},
			{domain.RoleUser, &result.DataUser},
		} {
			n, err := a.repo.CountCreatedBetween(b.start, b.end, rc.role)
			if err != nil {
				return nil, err
			}
			*rc.dst = append(*rc.dst, n)
		}
	}

	windowStart := buckets[0].start
	windowEnd := buckets[len(buckets)-1].end
	newUsers, err := a.repo.CountCreatedBetween(windowStart, windowEnd, "")
	if err != nil {
		return nil, err
	}
	result.NewUsers = newUsers
	result.StartDate = windowStart.Format("2006-01-02")
	result.EndDate = windowEnd.AddDate(0, 0, -1).Format("2006-01-02")

	return result, nil
}

func (a *analyticsService) GetAllPeriods(ctx context.Context) (map[string]*dto.AnalyticsResult, error) {
	out := make(map[string]*dto.AnalyticsResult, 4)
	for _, period := range []string{"week", "month", "year", "all"} {
		result, err := a.GetUserAnalytics(ctx, period)
		if err != nil {
			return nil, err
		}
		out[period] = result
	}
	return out, nil
}

// InvalidateCache drops every cached analytics payload. Called after any
// user-table mutation; best effort.
func (a *analyticsService) InvalidateCache(ctx context.Context) {
	if a.cache == nil {
		return
	}
	keys, err := a.cache.Keys(ctx, analyticsKeyPrefix+"*")
	if err != nil {
		log.Printf("analytics cache scan error: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := a.cache.Delete(ctx, keys...); err != nil {
		log.Printf("analytics cache invalidation error: %v", err)
	}
}
