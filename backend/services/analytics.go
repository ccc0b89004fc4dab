package services

import (
	"context"
	"time"

	"skillpractice/backend/catalog"
	"skillpractice/backend/models"
	"skillpractice/backend/store"
)

type PlatformAnalytics struct {
	Metrics   models.UserMetrics      `json:"metrics"`
	Courses   []models.CourseActivity `json:"courses"`
	Catalog   int                     `json:"catalogCourses"`
	Timestamp time.Time               `json:"timestamp"`
}

// AnalyticsService reports platform-wide numbers for admins.
type AnalyticsService struct {
	catalog  *catalog.Catalog
	progress *store.ProgressStore
	users    *store.UserStore
	now      func() time.Time
}

func NewAnalyticsService(cat *catalog.Catalog, progress *store.ProgressStore, users *store.UserStore) *AnalyticsService {
	return &AnalyticsService{
		catalog:  cat,
		progress: progress,
		users:    users,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Platform returns account metrics and per-course activity. Courses without
// activity are listed too; rows for courses no longer in the catalog keep
// an empty title.
func (s *AnalyticsService) Platform(ctx context.Context) (*PlatformAnalytics, error) {
	now := s.now()
	metrics, err := s.users.Metrics(ctx, now)
	if err != nil {
		return nil, err
	}
	activity, err := s.progress.CourseActivity(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(activity))
	for i := range activity {
		seen[activity[i].CourseID] = true
		if course, ok := s.catalog.Find(activity[i].CourseID); ok {
			activity[i].Title = course.Title
		}
	}
	for _, course := range s.catalog.Courses() {
		if !seen[course.ID] {
			activity = append(activity, models.CourseActivity{CourseID: course.ID, Title: course.Title})
		}
	}

	return &PlatformAnalytics{
		Metrics:   metrics,
		Courses:   activity,
		Catalog:   s.catalog.Len(),
		Timestamp: now,
	}, nil
}
