package services

import (
	"context"
	"strings"

	"skillpractice/backend/models"
)

type CourseFilter struct {
	Search     string
	Difficulty models.Difficulty
}

func (f CourseFilter) match(course models.Course) bool {
	if f.Difficulty != "" && course.Difficulty != f.Difficulty {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(course.Title), needle) ||
		strings.Contains(strings.ToLower(course.Description), needle)
}

type UserOverview struct {
	Experience int                    `json:"experience"`
	Stats      models.UserStats       `json:"stats"`
	Courses    []models.CourseSummary `json:"courses"`
	NextCourse *models.CourseSummary  `json:"nextCourse"`
}

// SearchCourses lists catalog courses matching filter, in catalog order,
// with the user's completion of each.
func (s *ProgressService) SearchCourses(ctx context.Context, userID uint, filter CourseFilter) ([]models.CourseSummary, error) {
	completed, err := s.progress.CompletedChallenges(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []models.CourseSummary{}
	for _, course := range s.catalog.Courses() {
		if filter.match(course) {
			out = append(out, summarize(course, completedInCatalog(course, completed[course.ID])))
		}
	}
	return out, nil
}

// Overview is the dashboard of one user. NextCourse is the first course in
// catalog order that is not completed, nil when all are.
func (s *ProgressService) Overview(ctx context.Context, user *models.User) (*UserOverview, error) {
	stats, err := s.progress.UserStats(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	courses, err := s.SearchCourses(ctx, user.ID, CourseFilter{})
	if err != nil {
		return nil, err
	}

	overview := &UserOverview{
		Experience: user.Experience,
		Stats:      stats,
		Courses:    courses,
	}
	for i := range courses {
		if !courses[i].Completed {
			overview.NextCourse = &courses[i]
			break
		}
	}
	return overview, nil
}

func summarize(course models.Course, completed int) models.CourseSummary {
	total := len(course.Challenges)
	return models.CourseSummary{
		ID:                  course.ID,
		Title:               course.Title,
		Description:         course.Description,
		Icon:                course.Icon,
		Difficulty:          course.Difficulty,
		TotalChallenges:     total,
		CompletedChallenges: completed,
		CompletionRate:      models.CompletionRate(completed, total),
		Completed:           total > 0 && completed == total,
	}
}
